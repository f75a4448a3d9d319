package content

import (
	"fmt"
	"strings"

	"github.com/studymate/studymate/pkg/models"
)

const minChapters = 3

// ValidateCourse checks a generated course against the output contract and
// normalizes chapter ordering. Chapters are renumbered 1..n in their given
// order so the persisted order field is always dense.
func ValidateCourse(c *models.CourseContent) error {
	if c == nil {
		return fmt.Errorf("%w: empty course", ErrInvalidContent)
	}
	if strings.TrimSpace(c.Summary) == "" {
		return fmt.Errorf("%w: missing summary", ErrInvalidContent)
	}
	if len(c.Chapters) < minChapters {
		return fmt.Errorf("%w: expected at least %d chapters, got %d", ErrInvalidContent, minChapters, len(c.Chapters))
	}
	for i := range c.Chapters {
		ch := &c.Chapters[i]
		if strings.TrimSpace(ch.Title) == "" {
			return fmt.Errorf("%w: chapter %d has no title", ErrInvalidContent, i+1)
		}
		if strings.TrimSpace(ch.Content) == "" {
			return fmt.Errorf("%w: chapter %q has no content", ErrInvalidContent, ch.Title)
		}
		ch.OrderNumber = i + 1
		if ch.DurationMinutes <= 0 {
			ch.DurationMinutes = 30
		}
	}
	return nil
}

// ValidateQuestions checks a generated question set and fills in defaults for
// optional fields, renumbering questions 1..n.
func ValidateQuestions(questions []models.GeneratedQuestion) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: no questions generated", ErrInvalidContent)
	}
	for i := range questions {
		q := &questions[i]
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("%w: question %d is empty", ErrInvalidContent, i+1)
		}
		if q.Type == "" {
			q.Type = "technical"
		}
		if q.Difficulty == "" {
			q.Difficulty = "medium"
		}
	}
	return nil
}
