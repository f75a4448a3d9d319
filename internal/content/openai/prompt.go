package openai

import (
	"fmt"

	"github.com/studymate/studymate/pkg/models"
)

func coursePrompt(p models.CourseParams) string {
	return fmt.Sprintf(`You are an expert curriculum designer for the StudyMate platform. Generate a comprehensive course on %q for %s preparation at %s level.

The output MUST be a single valid JSON object with this structure:
{
  "topic": %q,
  "summary": "A brief 2-3 sentence summary of what the course covers",
  "introduction": "An engaging introduction to the topic",
  "sections": [
    {"title": "...", "content": "...", "examples": ["..."], "key_points": ["..."]}
  ],
  "chapters": [
    {"title": "...", "content": "...", "order_number": 1, "duration_minutes": 30, "learning_objectives": ["..."]}
  ],
  "flashcards": [{"question": "...", "answer": "...", "difficulty": %q}],
  "mcqs": [{"question": "...", "options": ["A", "B", "C", "D"], "correct_answer": "A", "explanation": "..."}],
  "qnas": [{"question": "...", "answer": "..."}],
  "resources": [{"title": "...", "type": "video|article|book|website", "url": "https://example.com", "description": "..."}]
}

Ensure the content is appropriate for %s level learners, focused on %s preparation, practical and well-structured. Include at least 3 chapters, 10 flashcards, 10 MCQs, and 5 Q&As.`,
		p.Topic, p.Purpose, p.Difficulty, p.Topic, p.Difficulty, p.Difficulty, p.Purpose)
}

func interviewPrompt(p models.InterviewParams) string {
	return fmt.Sprintf(`Generate %d interview questions for a %s position with %s experience in %s.

Mix of question types: technical (40%%), behavioral (30%%), problem-solving (30%%).

The output MUST be a single valid JSON object:
{
  "questions": [
    {
      "question": "Your question here",
      "type": "technical|behavioral|problem_solving",
      "difficulty": "easy|medium|hard",
      "expected_answer": "Brief outline of what a good answer should include",
      "evaluation_criteria": ["criteria1", "criteria2", "criteria3"]
    }
  ]
}

Make questions relevant to %s and %s. Consider %s level for difficulty.`,
		p.QuestionCount, p.JobRole, p.Experience, p.TechStack,
		p.JobRole, p.TechStack, p.Experience)
}
