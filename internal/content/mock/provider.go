package mock

import (
	"context"

	"github.com/studymate/studymate/internal/content"
	"github.com/studymate/studymate/pkg/models"
)

// MockGenerator satisfies models.ContentGenerator for testing.
type MockGenerator struct {
	Name_                 string
	GenerateCourseFunc    func(ctx context.Context, params models.CourseParams) (*models.CourseContent, error)
	GenerateInterviewFunc func(ctx context.Context, params models.InterviewParams) ([]models.GeneratedQuestion, error)
}

func (m *MockGenerator) Name() string { return m.Name_ }

func (m *MockGenerator) GenerateCourse(ctx context.Context, params models.CourseParams) (*models.CourseContent, error) {
	if m.GenerateCourseFunc != nil {
		return m.GenerateCourseFunc(ctx, params)
	}
	return &models.CourseContent{}, nil
}

func (m *MockGenerator) GenerateInterview(ctx context.Context, params models.InterviewParams) ([]models.GeneratedQuestion, error) {
	if m.GenerateInterviewFunc != nil {
		return m.GenerateInterviewFunc(ctx, params)
	}
	return nil, nil
}

// NewMockGenerator returns a MockGenerator with sensible default responses
// that pass content validation.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		Name_: "mock",
		GenerateCourseFunc: func(_ context.Context, params models.CourseParams) (*models.CourseContent, error) {
			return &models.CourseContent{
				Topic:        params.Topic,
				Summary:      "Mock course summary for testing",
				Introduction: "Mock introduction",
				Chapters: []models.ChapterContent{
					{Title: "Chapter One", Content: "Mock content one", OrderNumber: 1, DurationMinutes: 30},
					{Title: "Chapter Two", Content: "Mock content two", OrderNumber: 2, DurationMinutes: 30},
					{Title: "Chapter Three", Content: "Mock content three", OrderNumber: 3, DurationMinutes: 30},
				},
			}, nil
		},
		GenerateInterviewFunc: func(_ context.Context, params models.InterviewParams) ([]models.GeneratedQuestion, error) {
			return []models.GeneratedQuestion{
				{Question: "Mock technical question", Type: "technical", Difficulty: "medium", ExpectedAnswer: "Mock answer"},
				{Question: "Mock behavioral question", Type: "behavioral", Difficulty: "easy", ExpectedAnswer: "Mock answer"},
			}, nil
		},
	}
}

// NewFailingGenerator returns a MockGenerator that always returns the given error.
func NewFailingGenerator(err error) *MockGenerator {
	return &MockGenerator{
		Name_: "mock-failing",
		GenerateCourseFunc: func(_ context.Context, _ models.CourseParams) (*models.CourseContent, error) {
			return nil, err
		},
		GenerateInterviewFunc: func(_ context.Context, _ models.InterviewParams) ([]models.GeneratedQuestion, error) {
			return nil, err
		},
	}
}

// NewTimeoutGenerator returns a MockGenerator that blocks until context is cancelled.
func NewTimeoutGenerator() *MockGenerator {
	return &MockGenerator{
		Name_: "mock-timeout",
		GenerateCourseFunc: func(ctx context.Context, _ models.CourseParams) (*models.CourseContent, error) {
			<-ctx.Done()
			return nil, content.ErrInferenceTimeout
		},
		GenerateInterviewFunc: func(ctx context.Context, _ models.InterviewParams) ([]models.GeneratedQuestion, error) {
			<-ctx.Done()
			return nil, content.ErrInferenceTimeout
		},
	}
}

var _ models.ContentGenerator = (*MockGenerator)(nil)
