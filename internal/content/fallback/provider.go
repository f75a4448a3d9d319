// Package fallback provides a deterministic content generator used when no
// inference backend is configured. Output is placeholder study material built
// from templates, useful for local development and demos.
package fallback

import (
	"context"
	"fmt"

	"github.com/studymate/studymate/pkg/models"
)

type Provider struct{}

func NewProvider() *Provider { return &Provider{} }

func (p *Provider) Name() string { return "fallback" }

func (p *Provider) GenerateCourse(_ context.Context, params models.CourseParams) (*models.CourseContent, error) {
	topic := params.Topic
	chapterTitles := []string{
		fmt.Sprintf("Introduction to %s", topic),
		fmt.Sprintf("Core Concepts of %s", topic),
		fmt.Sprintf("%s in Practice", topic),
		fmt.Sprintf("Advanced %s Topics", topic),
	}

	chapters := make([]models.ChapterContent, 0, len(chapterTitles))
	for i, title := range chapterTitles {
		chapters = append(chapters, models.ChapterContent{
			Title: title,
			Content: fmt.Sprintf("This chapter covers %s as part of your %s preparation. "+
				"Work through the material at your own pace and revisit the key points "+
				"before moving on.", title, params.Purpose),
			OrderNumber:     i + 1,
			DurationMinutes: 30,
			LearningObjectives: []string{
				fmt.Sprintf("Understand the scope of %s", title),
				fmt.Sprintf("Apply %s concepts to %s problems", topic, params.Purpose),
			},
		})
	}

	course := &models.CourseContent{
		Topic:   topic,
		Summary: fmt.Sprintf("A structured %s course on %s for %s preparation.", params.Difficulty, topic, params.Purpose),
		Introduction: fmt.Sprintf("Welcome to your %s course. This material is organized into %d chapters "+
			"taking you from fundamentals to applied practice.", topic, len(chapters)),
		Sections: []models.CourseSection{
			{
				Title:     fmt.Sprintf("Why study %s", topic),
				Content:   fmt.Sprintf("%s is a foundational topic for %s.", topic, params.Purpose),
				KeyPoints: []string{"Build fundamentals first", "Practice with real problems"},
			},
		},
		Chapters: chapters,
		Flashcards: []models.Flashcard{
			{Question: fmt.Sprintf("What is %s?", topic), Answer: fmt.Sprintf("%s is the subject of this course; see chapter 1.", topic), Difficulty: params.Difficulty},
			{Question: fmt.Sprintf("Name a core concept of %s.", topic), Answer: "See chapter 2 for the core concepts.", Difficulty: params.Difficulty},
			{Question: fmt.Sprintf("How is %s applied in practice?", topic), Answer: "Chapter 3 walks through applied examples.", Difficulty: params.Difficulty},
		},
		MCQs: []models.MCQ{
			{
				Question:      fmt.Sprintf("Which chapter introduces %s?", topic),
				Options:       []string{"Chapter 1", "Chapter 2", "Chapter 3", "Chapter 4"},
				CorrectAnswer: "Chapter 1",
				Explanation:   "The introduction chapter establishes the fundamentals.",
			},
			{
				Question:      fmt.Sprintf("What is the recommended order for studying %s?", topic),
				Options:       []string{"Fundamentals first", "Advanced topics first", "Random order", "Practice only"},
				CorrectAnswer: "Fundamentals first",
				Explanation:   "The chapters build on each other in order.",
			},
		},
		QnAs: []models.QnA{
			{Question: fmt.Sprintf("How long does this %s course take?", topic), Answer: fmt.Sprintf("Roughly %d minutes of guided study.", len(chapters)*30)},
			{Question: "Can I skip chapters?", Answer: "Chapters build on each other; skipping is not recommended."},
		},
		Resources: []models.Resource{
			{Title: fmt.Sprintf("%s documentation", topic), Type: "website", URL: "https://example.com/docs", Description: fmt.Sprintf("Reference material for %s.", topic)},
			{Title: fmt.Sprintf("%s practice problems", topic), Type: "article", URL: "https://example.com/practice", Description: "Exercises to reinforce each chapter."},
		},
	}
	return course, nil
}

func (p *Provider) GenerateInterview(_ context.Context, params models.InterviewParams) ([]models.GeneratedQuestion, error) {
	role, stack := params.JobRole, params.TechStack

	pool := []models.GeneratedQuestion{
		{
			Question:           fmt.Sprintf("Describe your experience working with %s.", stack),
			Type:               "technical",
			Difficulty:         "easy",
			ExpectedAnswer:     fmt.Sprintf("Concrete projects using %s, the candidate's role in them, and outcomes.", stack),
			EvaluationCriteria: []string{"Specificity", "Depth of involvement", "Relevance to the role"},
		},
		{
			Question:           fmt.Sprintf("How would you design a system for a typical %s workload?", role),
			Type:               "technical",
			Difficulty:         "medium",
			ExpectedAnswer:     "A structured walkthrough of requirements, components, and trade-offs.",
			EvaluationCriteria: []string{"Structured thinking", "Trade-off awareness", "Scalability considerations"},
		},
		{
			Question:           fmt.Sprintf("What are common pitfalls when working with %s, and how do you avoid them?", stack),
			Type:               "technical",
			Difficulty:         "hard",
			ExpectedAnswer:     "Named pitfalls with mitigation strategies drawn from experience.",
			EvaluationCriteria: []string{"Practical experience", "Preventive thinking"},
		},
		{
			Question:           "Tell me about a time you disagreed with a teammate on a technical decision.",
			Type:               "behavioral",
			Difficulty:         "medium",
			ExpectedAnswer:     "A specific situation, how the disagreement was handled, and the resolution.",
			EvaluationCriteria: []string{"Communication", "Collaboration", "Outcome focus"},
		},
		{
			Question:           fmt.Sprintf("Why do you want to work as a %s?", role),
			Type:               "behavioral",
			Difficulty:         "easy",
			ExpectedAnswer:     "Genuine motivation connected to the role's responsibilities.",
			EvaluationCriteria: []string{"Motivation", "Role understanding"},
		},
		{
			Question:           "Describe a production incident you helped resolve. What did you learn?",
			Type:               "behavioral",
			Difficulty:         "hard",
			ExpectedAnswer:     "Incident timeline, the candidate's contribution, and lessons applied afterward.",
			EvaluationCriteria: []string{"Ownership", "Learning from failure", "Calm under pressure"},
		},
		{
			Question:           fmt.Sprintf("Given a slow endpoint in a %s service, walk me through how you would diagnose it.", stack),
			Type:               "problem_solving",
			Difficulty:         "medium",
			ExpectedAnswer:     "A systematic approach from measurement to hypothesis to fix.",
			EvaluationCriteria: []string{"Systematic debugging", "Tool knowledge", "Measurement first"},
		},
		{
			Question:           "You have one week to deliver a feature that normally takes three. What do you do?",
			Type:               "problem_solving",
			Difficulty:         "medium",
			ExpectedAnswer:     "Scope negotiation, prioritization, and transparent communication with stakeholders.",
			EvaluationCriteria: []string{"Prioritization", "Stakeholder communication", "Pragmatism"},
		},
		{
			Question:           fmt.Sprintf("How would you onboard a junior engineer onto a %s codebase?", stack),
			Type:               "problem_solving",
			Difficulty:         "easy",
			ExpectedAnswer:     "A plan covering documentation, pairing, and progressively larger tasks.",
			EvaluationCriteria: []string{"Mentorship", "Planning"},
		},
		{
			Question:           fmt.Sprintf("What would you improve about %s if you could change one thing?", stack),
			Type:               "technical",
			Difficulty:         "hard",
			ExpectedAnswer:     "An informed critique showing deep familiarity with the technology.",
			EvaluationCriteria: []string{"Depth of knowledge", "Critical thinking"},
		},
	}

	n := params.QuestionCount
	if n <= 0 || n > len(pool) {
		n = len(pool)
	}
	return pool[:n], nil
}

var _ models.ContentGenerator = (*Provider)(nil)
