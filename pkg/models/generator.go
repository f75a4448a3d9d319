// Package models contains shared data models used across the StudyMate codebase.
package models

import "context"

// ContentGenerator is the core interface that all generation backends must
// implement. Callers depend on this interface, never on a concrete backend.
type ContentGenerator interface {
	// GenerateCourse produces a full course for the given topic.
	GenerateCourse(ctx context.Context, params CourseParams) (*CourseContent, error)
	// GenerateInterview produces a set of interview questions.
	GenerateInterview(ctx context.Context, params InterviewParams) ([]GeneratedQuestion, error)
	// Name returns the provider identifier (e.g., "openai", "fallback").
	Name() string
}
