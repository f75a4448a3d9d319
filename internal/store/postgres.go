package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studymate/studymate/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Users ---

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// --- Jobs ---

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.Job) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, owner, kind, status, params, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		job.ID, job.Owner, job.Kind, job.Status, job.Params, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var j models.Job
	err := s.pool.QueryRow(ctx,
		`SELECT id, owner, kind, status, params, result, error_message, created_at, updated_at
		 FROM jobs WHERE id = $1`, id,
	).Scan(&j.ID, &j.Owner, &j.Kind, &j.Status, &j.Params, &j.Result,
		&j.ErrorMessage, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

func (s *PostgresStore) ListJobs(ctx context.Context, owner string, kind string) ([]*models.Job, error) {
	// Empty kind means no kind filter
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner, kind, status, params, result, error_message, created_at, updated_at
		 FROM jobs WHERE owner = $1 AND ($2 = '' OR kind = $2)
		 ORDER BY created_at DESC LIMIT 100`,
		owner, kind)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		var j models.Job
		if err := rows.Scan(&j.ID, &j.Owner, &j.Kind, &j.Status, &j.Params, &j.Result,
			&j.ErrorMessage, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

// validTransitions encodes the forward-only job state machine. A status never
// re-enters an earlier state, and terminal rows never change again.
var validTransitions = map[string][]string{
	models.JobStatusSubmitted:  {models.JobStatusGenerating},
	models.JobStatusGenerating: {models.JobStatusComplete, models.JobStatusError},
}

func (s *PostgresStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status string, opts ...JobUpdateOption) error {
	params := &jobUpdateParams{}
	for _, opt := range opts {
		opt(params)
	}

	var currentStatus string
	err := s.pool.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1`, id).Scan(&currentStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get job status: %w", err)
	}

	// Writing the current status again is a no-op, so a retried transition
	// write is harmless.
	if currentStatus == status {
		return nil
	}

	allowed := validTransitions[currentStatus]
	valid := false
	for _, a := range allowed {
		if a == status {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, currentStatus, status)
	}

	now := time.Now().UTC()
	query := `UPDATE jobs SET status = $2, updated_at = $3`
	args := []any{id, status, now}
	argIdx := 4

	if params.ErrorMessage != nil {
		query += fmt.Sprintf(", error_message = $%d", argIdx)
		args = append(args, *params.ErrorMessage)
		argIdx++
	}
	if params.Result != nil {
		query += fmt.Sprintf(", result = $%d", argIdx)
		args = append(args, params.Result)
		argIdx++
	}

	// Guard on the previously read status so a concurrent writer cannot
	// overwrite a newer state.
	query += fmt.Sprintf(" WHERE id = $1 AND status = $%d", argIdx)
	args = append(args, currentStatus)

	_, err = s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return nil
}

// --- Chapters ---

// CreateChapters inserts all chapters in a single transaction: either every
// chapter is persisted or none are.
func (s *PostgresStore) CreateChapters(ctx context.Context, chapters []*models.Chapter) error {
	if len(chapters) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin chapters tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, ch := range chapters {
		objectives, err := json.Marshal(ch.LearningObjectives)
		if err != nil {
			return fmt.Errorf("marshal learning objectives: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO chapters (id, job_id, title, content, order_number, duration_minutes, learning_objectives, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			ch.ID, ch.JobID, ch.Title, ch.Content, ch.OrderNumber, ch.DurationMinutes, objectives, ch.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert chapter: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit chapters tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetChaptersByJob(ctx context.Context, jobID uuid.UUID) ([]*models.Chapter, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, job_id, title, content, order_number, duration_minutes, learning_objectives, created_at
		 FROM chapters WHERE job_id = $1 ORDER BY order_number ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("get chapters by job: %w", err)
	}
	defer rows.Close()

	var chapters []*models.Chapter
	for rows.Next() {
		var ch models.Chapter
		var objectives []byte
		if err := rows.Scan(&ch.ID, &ch.JobID, &ch.Title, &ch.Content, &ch.OrderNumber,
			&ch.DurationMinutes, &objectives, &ch.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		if len(objectives) > 0 {
			if err := json.Unmarshal(objectives, &ch.LearningObjectives); err != nil {
				return nil, fmt.Errorf("unmarshal learning objectives: %w", err)
			}
		}
		chapters = append(chapters, &ch)
	}
	if chapters == nil {
		chapters = []*models.Chapter{}
	}
	return chapters, rows.Err()
}

// --- Interview questions ---

// CreateQuestions inserts all questions in a single transaction: either every
// question is persisted or none are.
func (s *PostgresStore) CreateQuestions(ctx context.Context, questions []*models.InterviewQuestion) error {
	if len(questions) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin questions tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, q := range questions {
		criteria, err := json.Marshal(q.EvaluationCriteria)
		if err != nil {
			return fmt.Errorf("marshal evaluation criteria: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO interview_questions (id, job_id, question, question_type, difficulty, expected_answer, evaluation_criteria, order_number, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			q.ID, q.JobID, q.Question, q.QuestionType, q.Difficulty, q.ExpectedAnswer, criteria, q.OrderNumber, q.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit questions tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetQuestionsByJob(ctx context.Context, jobID uuid.UUID) ([]*models.InterviewQuestion, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, job_id, question, question_type, difficulty, expected_answer, evaluation_criteria, order_number, created_at
		 FROM interview_questions WHERE job_id = $1 ORDER BY order_number ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("get questions by job: %w", err)
	}
	defer rows.Close()

	var questions []*models.InterviewQuestion
	for rows.Next() {
		var q models.InterviewQuestion
		var criteria []byte
		if err := rows.Scan(&q.ID, &q.JobID, &q.Question, &q.QuestionType, &q.Difficulty,
			&q.ExpectedAnswer, &criteria, &q.OrderNumber, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if len(criteria) > 0 {
			if err := json.Unmarshal(criteria, &q.EvaluationCriteria); err != nil {
				return nil, fmt.Errorf("unmarshal evaluation criteria: %w", err)
			}
		}
		questions = append(questions, &q)
	}
	if questions == nil {
		questions = []*models.InterviewQuestion{}
	}
	return questions, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
