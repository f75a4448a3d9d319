package models

import (
	"time"

	"github.com/google/uuid"
)

// CourseParams is the normalized input for course generation.
type CourseParams struct {
	Topic      string `json:"topic"`
	Purpose    string `json:"purpose"`
	Difficulty string `json:"difficulty"`
}

// CourseContent is the structured output of a course generation run.
type CourseContent struct {
	Topic        string           `json:"topic"`
	Summary      string           `json:"summary"`
	Introduction string           `json:"introduction"`
	Sections     []CourseSection  `json:"sections,omitempty"`
	Chapters     []ChapterContent `json:"chapters"`
	Flashcards   []Flashcard      `json:"flashcards,omitempty"`
	MCQs         []MCQ            `json:"mcqs,omitempty"`
	QnAs         []QnA            `json:"qnas,omitempty"`
	Resources    []Resource       `json:"resources,omitempty"`
}

type CourseSection struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Examples  []string `json:"examples,omitempty"`
	KeyPoints []string `json:"key_points,omitempty"`
}

// ChapterContent is a chapter as produced by a generator, before persistence.
type ChapterContent struct {
	Title              string   `json:"title"`
	Content            string   `json:"content"`
	OrderNumber        int      `json:"order_number"`
	DurationMinutes    int      `json:"duration_minutes"`
	LearningObjectives []string `json:"learning_objectives,omitempty"`
}

type Flashcard struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty"`
}

type MCQ struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

type QnA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Resource struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Chapter is a persisted chapter row, owned by exactly one job and written
// only as part of that job completing.
type Chapter struct {
	ID                 uuid.UUID `db:"id"                  json:"id"`
	JobID              uuid.UUID `db:"job_id"              json:"job_id"`
	Title              string    `db:"title"               json:"title"`
	Content            string    `db:"content"             json:"content"`
	OrderNumber        int       `db:"order_number"        json:"order_number"`
	DurationMinutes    int       `db:"duration_minutes"    json:"duration_minutes"`
	LearningObjectives []string  `db:"learning_objectives" json:"learning_objectives,omitempty"`
	CreatedAt          time.Time `db:"created_at"          json:"created_at"`
}
