package models

import (
	"time"

	"github.com/google/uuid"
)

// InterviewParams is the normalized input for mock interview generation.
type InterviewParams struct {
	JobRole       string `json:"job_role"`
	TechStack     string `json:"tech_stack"`
	Experience    string `json:"experience"`
	QuestionCount int    `json:"question_count"`
}

// GeneratedQuestion is a question as produced by a generator, before
// persistence.
type GeneratedQuestion struct {
	Question           string   `json:"question"`
	Type               string   `json:"type"`
	Difficulty         string   `json:"difficulty"`
	ExpectedAnswer     string   `json:"expected_answer"`
	EvaluationCriteria []string `json:"evaluation_criteria,omitempty"`
}

// InterviewQuestion is a persisted question row, owned by exactly one job.
type InterviewQuestion struct {
	ID                 uuid.UUID `db:"id"                  json:"id"`
	JobID              uuid.UUID `db:"job_id"              json:"job_id"`
	Question           string    `db:"question"            json:"question"`
	QuestionType       string    `db:"question_type"       json:"question_type"`
	Difficulty         string    `db:"difficulty"          json:"difficulty"`
	ExpectedAnswer     *string   `db:"expected_answer"     json:"expected_answer,omitempty"`
	EvaluationCriteria []string  `db:"evaluation_criteria" json:"evaluation_criteria,omitempty"`
	OrderNumber        int       `db:"order_number"        json:"order_number"`
	CreatedAt          time.Time `db:"created_at"          json:"created_at"`
}
