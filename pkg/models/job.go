package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusSubmitted  = "submitted"
	JobStatusGenerating = "generating"
	JobStatusComplete   = "complete"
	JobStatusError      = "error"
)

const (
	JobKindCourse    = "course"
	JobKindInterview = "interview"
)

// Job tracks async content generation. The API returns a job_id on
// POST /jobs/{kind}; the client polls GET /jobs/{kind}/{job_id} until
// status is complete or error.
type Job struct {
	ID           uuid.UUID       `db:"id"            json:"id"`
	Owner        string          `db:"owner"         json:"owner"`
	Kind         string          `db:"kind"          json:"kind"`
	Status       string          `db:"status"        json:"status"`
	Params       json.RawMessage `db:"params"        json:"params"`
	Result       json.RawMessage `db:"result"        json:"result,omitempty"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time       `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"    json:"updated_at"`
}

// Terminal reports whether the job has reached a final state.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusComplete || j.Status == JobStatusError
}

// ValidJobKind reports whether kind names a known job kind.
func ValidJobKind(kind string) bool {
	return kind == JobKindCourse || kind == JobKindInterview
}
