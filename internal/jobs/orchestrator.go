// Package jobs orchestrates async content generation. A submit creates a job
// record and dispatches generation on a background goroutine; clients poll
// the job until it reaches a terminal status.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studymate/studymate/internal/cache"
	"github.com/studymate/studymate/internal/content"
	"github.com/studymate/studymate/internal/store"
	"github.com/studymate/studymate/pkg/models"
)

const (
	statusCacheTTL = 30 * time.Minute
	// statusWriteAttempts bounds retries of mid-run status writes. A write
	// that keeps failing leaves the job in its previous state rather than
	// blocking the goroutine forever.
	statusWriteAttempts = 3
)

// JobDetail is a job together with the sub-entities written when it completed.
type JobDetail struct {
	Job       *models.Job                 `json:"job"`
	Chapters  []*models.Chapter           `json:"chapters,omitempty"`
	Questions []*models.InterviewQuestion `json:"questions,omitempty"`
}

// Orchestrator drives the job lifecycle: submitted, generating, then
// complete or error. Each job is written by exactly one goroutine.
type Orchestrator struct {
	generator models.ContentGenerator
	store     store.Store
	cache     cache.Cache
	timeout   time.Duration
}

// NewOrchestrator creates a new Orchestrator. timeout bounds a single
// generation run.
func NewOrchestrator(generator models.ContentGenerator, st store.Store, ca cache.Cache, timeout time.Duration) *Orchestrator {
	return &Orchestrator{
		generator: generator,
		store:     st,
		cache:     ca,
		timeout:   timeout,
	}
}

// SubmitCourse creates a submitted course job and dispatches generation in a
// background goroutine. Returns the job immediately.
func (o *Orchestrator) SubmitCourse(ctx context.Context, owner string, params models.CourseParams) (*models.Job, error) {
	if params.Topic == "" {
		return nil, fmt.Errorf("invalid course params: topic is required")
	}
	if params.Difficulty == "" {
		params.Difficulty = "intermediate"
	}
	if params.Purpose == "" {
		params.Purpose = "exam"
	}

	job, err := o.createJob(ctx, owner, models.JobKindCourse, params)
	if err != nil {
		return nil, err
	}

	go o.runCourseGeneration(owner, job.ID, params)

	return job, nil
}

// SubmitInterview creates a submitted interview job and dispatches generation
// in a background goroutine. Returns the job immediately.
func (o *Orchestrator) SubmitInterview(ctx context.Context, owner string, params models.InterviewParams) (*models.Job, error) {
	if params.JobRole == "" {
		return nil, fmt.Errorf("invalid interview params: job_role is required")
	}
	if params.QuestionCount <= 0 {
		params.QuestionCount = 10
	}
	if params.Experience == "" {
		params.Experience = "mid-level"
	}

	job, err := o.createJob(ctx, owner, models.JobKindInterview, params)
	if err != nil {
		return nil, err
	}

	go o.runInterviewGeneration(owner, job.ID, params)

	return job, nil
}

func (o *Orchestrator) createJob(ctx context.Context, owner, kind string, params any) (*models.Job, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding params: %w", err)
	}

	job := &models.Job{
		ID:        uuid.New(),
		Owner:     owner,
		Kind:      kind,
		Status:    models.JobStatusSubmitted,
		Params:    raw,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := o.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	_ = o.cache.SetJobStatus(ctx, owner, job.ID, models.JobStatusSubmitted, statusCacheTTL)

	return job, nil
}

// GetJob returns a job owned by owner, including chapters or questions when
// the job is complete.
func (o *Orchestrator) GetJob(ctx context.Context, owner string, id uuid.UUID) (*JobDetail, error) {
	job, err := o.store.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Owner != owner {
		return nil, store.ErrNotFound
	}

	detail := &JobDetail{Job: job}
	if job.Status != models.JobStatusComplete {
		return detail, nil
	}

	switch job.Kind {
	case models.JobKindCourse:
		detail.Chapters, err = o.store.GetChaptersByJob(ctx, id)
	case models.JobKindInterview:
		detail.Questions, err = o.store.GetQuestionsByJob(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading job content: %w", err)
	}
	return detail, nil
}

// GetJobStatus returns just the status string for cheap polling, preferring
// the cache and falling back to the store. Cache entries are keyed by owner,
// so a caller never sees another owner's job through the fast path.
func (o *Orchestrator) GetJobStatus(ctx context.Context, owner string, id uuid.UUID) (string, error) {
	if status, ok, err := o.cache.GetJobStatus(ctx, owner, id); err == nil && ok {
		return status, nil
	}
	job, err := o.store.GetJob(ctx, id)
	if err != nil {
		return "", err
	}
	if job.Owner != owner {
		return "", store.ErrNotFound
	}
	return job.Status, nil
}

// ListJobs returns the owner's jobs, optionally filtered by kind.
func (o *Orchestrator) ListJobs(ctx context.Context, owner string, kind string) ([]*models.Job, error) {
	if kind != "" && !models.ValidJobKind(kind) {
		return nil, fmt.Errorf("unknown job kind %q", kind)
	}
	return o.store.ListJobs(ctx, owner, kind)
}

// runCourseGeneration performs course generation in a goroutine. It recovers
// from panics and always drives the job to complete or error.
func (o *Orchestrator) runCourseGeneration(owner string, jobID uuid.UUID, params models.CourseParams) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in course generation", "error", r, "job_id", jobID)
			o.markError(ctx, owner, jobID, fmt.Sprintf("panic: %v", r))
		}
	}()

	// If the generating write never lands the later terminal write would be
	// rejected as a skipped transition, so do not generate at all.
	if err := o.setStatus(ctx, owner, jobID, models.JobStatusGenerating); err != nil {
		return
	}

	genCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	course, err := o.generator.GenerateCourse(genCtx, params)
	if err != nil {
		o.markError(ctx, owner, jobID, err.Error())
		return
	}

	if err := content.ValidateCourse(course); err != nil {
		o.markError(ctx, owner, jobID, err.Error())
		return
	}

	chapters := make([]*models.Chapter, 0, len(course.Chapters))
	now := time.Now().UTC()
	for _, ch := range course.Chapters {
		chapters = append(chapters, &models.Chapter{
			ID:                 uuid.New(),
			JobID:              jobID,
			Title:              ch.Title,
			Content:            ch.Content,
			OrderNumber:        ch.OrderNumber,
			DurationMinutes:    ch.DurationMinutes,
			LearningObjectives: ch.LearningObjectives,
			CreatedAt:          now,
		})
	}

	if err := o.store.CreateChapters(ctx, chapters); err != nil {
		o.markError(ctx, owner, jobID, fmt.Sprintf("storing chapters: %v", err))
		return
	}

	result, err := json.Marshal(course)
	if err != nil {
		o.markError(ctx, owner, jobID, fmt.Sprintf("encoding result: %v", err))
		return
	}

	o.markComplete(ctx, owner, jobID, result)
}

// runInterviewGeneration performs interview question generation in a
// goroutine. Same lifecycle contract as runCourseGeneration.
func (o *Orchestrator) runInterviewGeneration(owner string, jobID uuid.UUID, params models.InterviewParams) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in interview generation", "error", r, "job_id", jobID)
			o.markError(ctx, owner, jobID, fmt.Sprintf("panic: %v", r))
		}
	}()

	if err := o.setStatus(ctx, owner, jobID, models.JobStatusGenerating); err != nil {
		return
	}

	genCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	generated, err := o.generator.GenerateInterview(genCtx, params)
	if err != nil {
		o.markError(ctx, owner, jobID, err.Error())
		return
	}

	if err := content.ValidateQuestions(generated); err != nil {
		o.markError(ctx, owner, jobID, err.Error())
		return
	}

	questions := make([]*models.InterviewQuestion, 0, len(generated))
	now := time.Now().UTC()
	for i, q := range generated {
		expected := q.ExpectedAnswer
		questions = append(questions, &models.InterviewQuestion{
			ID:                 uuid.New(),
			JobID:              jobID,
			Question:           q.Question,
			QuestionType:       q.Type,
			Difficulty:         q.Difficulty,
			ExpectedAnswer:     &expected,
			EvaluationCriteria: q.EvaluationCriteria,
			OrderNumber:        i + 1,
			CreatedAt:          now,
		})
	}

	if err := o.store.CreateQuestions(ctx, questions); err != nil {
		o.markError(ctx, owner, jobID, fmt.Sprintf("storing questions: %v", err))
		return
	}

	result, err := json.Marshal(map[string]any{"questions": generated})
	if err != nil {
		o.markError(ctx, owner, jobID, fmt.Sprintf("encoding result: %v", err))
		return
	}

	o.markComplete(ctx, owner, jobID, result)
}

// setStatus writes the status to the store with bounded retries and mirrors
// it into the cache. Returns the last store error when every attempt failed;
// the job stays in its previously persisted state.
func (o *Orchestrator) setStatus(ctx context.Context, owner string, jobID uuid.UUID, status string, opts ...store.JobUpdateOption) error {
	var err error
	for attempt := 0; attempt < statusWriteAttempts; attempt++ {
		if err = o.store.UpdateJobStatus(ctx, jobID, status, opts...); err == nil {
			_ = o.cache.SetJobStatus(ctx, owner, jobID, status, statusCacheTTL)
			return nil
		}
		time.Sleep(time.Duration(attempt+1) * 100 * time.Millisecond)
	}
	slog.Error("failed to update job status", "job_id", jobID, "status", status, "error", err)
	return err
}

func (o *Orchestrator) markError(ctx context.Context, owner string, jobID uuid.UUID, msg string) {
	_ = o.setStatus(ctx, owner, jobID, models.JobStatusError, store.WithErrorMessage(msg))
}

func (o *Orchestrator) markComplete(ctx context.Context, owner string, jobID uuid.UUID, result json.RawMessage) {
	_ = o.setStatus(ctx, owner, jobID, models.JobStatusComplete, store.WithResult(result))
}
