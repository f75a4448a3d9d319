package fallback_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studymate/studymate/internal/content"
	"github.com/studymate/studymate/internal/content/fallback"
	"github.com/studymate/studymate/pkg/models"
)

func TestGenerateCourse_PassesValidation(t *testing.T) {
	p := fallback.NewProvider()

	course, err := p.GenerateCourse(context.Background(), models.CourseParams{
		Topic:      "Distributed Systems",
		Purpose:    "exam",
		Difficulty: "intermediate",
	})
	require.NoError(t, err)

	require.NoError(t, content.ValidateCourse(course))
	assert.Equal(t, "Distributed Systems", course.Topic)
	assert.GreaterOrEqual(t, len(course.Chapters), 3)
	assert.NotEmpty(t, course.Flashcards)
	assert.NotEmpty(t, course.MCQs)
	assert.NotEmpty(t, course.Resources)
}

func TestGenerateCourse_Deterministic(t *testing.T) {
	p := fallback.NewProvider()
	params := models.CourseParams{Topic: "SQL", Purpose: "interview", Difficulty: "beginner"}

	a, err := p.GenerateCourse(context.Background(), params)
	require.NoError(t, err)
	b, err := p.GenerateCourse(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateInterview_RespectsCount(t *testing.T) {
	p := fallback.NewProvider()

	questions, err := p.GenerateInterview(context.Background(), models.InterviewParams{
		JobRole:       "Backend Engineer",
		TechStack:     "Go",
		Experience:    "senior",
		QuestionCount: 5,
	})
	require.NoError(t, err)

	assert.Len(t, questions, 5)
	require.NoError(t, content.ValidateQuestions(questions))
}

func TestGenerateInterview_CountClamped(t *testing.T) {
	p := fallback.NewProvider()

	questions, err := p.GenerateInterview(context.Background(), models.InterviewParams{
		JobRole:       "Backend Engineer",
		TechStack:     "Go",
		QuestionCount: 500,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, questions)
	assert.LessOrEqual(t, len(questions), 10)
}

func TestGenerateInterview_MixesTypes(t *testing.T) {
	p := fallback.NewProvider()

	questions, err := p.GenerateInterview(context.Background(), models.InterviewParams{
		JobRole:   "Data Engineer",
		TechStack: "Python",
	})
	require.NoError(t, err)

	types := map[string]bool{}
	for _, q := range questions {
		types[q.Type] = true
	}
	assert.True(t, types["technical"])
	assert.True(t, types["behavioral"])
	assert.True(t, types["problem_solving"])
}
