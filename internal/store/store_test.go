package store_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studymate/studymate/internal/store"
	"github.com/studymate/studymate/pkg/models"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// migrationsDir returns the absolute path to the migrations directory.
func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// setupTestDB spins up a Postgres container, runs migrations, and returns a pool + cleanup.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("studymate_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	err = store.RunMigrations(connStr, migrationsDir())
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return pool
}

func testUser(email string) *models.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "bcrypt-hash-here",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func testJob(owner, kind string) *models.Job {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Job{
		ID:        uuid.New(),
		Owner:     owner,
		Kind:      kind,
		Status:    models.JobStatusSubmitted,
		Params:    json.RawMessage(`{"topic":"Go"}`),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// --- User tests ---

func TestUser_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	user := testUser("alice@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
}

func TestUser_DuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("alice@example.com")))
	err := s.CreateUser(ctx, testUser("alice@example.com"))
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestUser_GetUnknown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))

	_, err := s.GetUserByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// --- Job tests ---

func TestJob_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	job := testJob("alice@example.com", models.JobKindCourse)
	require.NoError(t, s.CreateJob(ctx, job))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, models.JobStatusSubmitted, got.Status)
	assert.JSONEq(t, `{"topic":"Go"}`, string(got.Params))
}

func TestJob_GetUnknown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))

	_, err := s.GetJob(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestJob_ListFiltersByOwnerAndKind(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	aliceCourse := testJob("alice@example.com", models.JobKindCourse)
	aliceInterview := testJob("alice@example.com", models.JobKindInterview)
	bobCourse := testJob("bob@example.com", models.JobKindCourse)
	for _, j := range []*models.Job{aliceCourse, aliceInterview, bobCourse} {
		require.NoError(t, s.CreateJob(ctx, j))
	}

	all, err := s.ListJobs(ctx, "alice@example.com", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	courses, err := s.ListJobs(ctx, "alice@example.com", models.JobKindCourse)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, aliceCourse.ID, courses[0].ID)
}

// --- Status transition tests ---

func TestUpdateJobStatus_ForwardTransitions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	job := testJob("alice@example.com", models.JobKindCourse)
	require.NoError(t, s.CreateJob(ctx, job))

	require.NoError(t, s.UpdateJobStatus(ctx, job.ID, models.JobStatusGenerating))
	require.NoError(t, s.UpdateJobStatus(ctx, job.ID, models.JobStatusComplete,
		store.WithResult(json.RawMessage(`{"chapters":3}`))))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusComplete, got.Status)
	assert.JSONEq(t, `{"chapters":3}`, string(got.Result))
}

func TestUpdateJobStatus_ErrorWithMessage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	job := testJob("alice@example.com", models.JobKindInterview)
	require.NoError(t, s.CreateJob(ctx, job))

	require.NoError(t, s.UpdateJobStatus(ctx, job.ID, models.JobStatusGenerating))
	require.NoError(t, s.UpdateJobStatus(ctx, job.ID, models.JobStatusError,
		store.WithErrorMessage("model unavailable")))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusError, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "model unavailable", *got.ErrorMessage)
}

func TestUpdateJobStatus_SkippingGeneratingRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	job := testJob("alice@example.com", models.JobKindCourse)
	require.NoError(t, s.CreateJob(ctx, job))

	err := s.UpdateJobStatus(ctx, job.ID, models.JobStatusComplete)
	assert.ErrorIs(t, err, store.ErrInvalidTransition)
}

func TestUpdateJobStatus_BackwardRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	job := testJob("alice@example.com", models.JobKindCourse)
	require.NoError(t, s.CreateJob(ctx, job))
	require.NoError(t, s.UpdateJobStatus(ctx, job.ID, models.JobStatusGenerating))
	require.NoError(t, s.UpdateJobStatus(ctx, job.ID, models.JobStatusComplete))

	err := s.UpdateJobStatus(ctx, job.ID, models.JobStatusGenerating)
	assert.ErrorIs(t, err, store.ErrInvalidTransition)
}

func TestUpdateJobStatus_SameStateIsNoOp(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	job := testJob("alice@example.com", models.JobKindCourse)
	require.NoError(t, s.CreateJob(ctx, job))
	require.NoError(t, s.UpdateJobStatus(ctx, job.ID, models.JobStatusGenerating))

	// Re-asserting the current status must not fail
	require.NoError(t, s.UpdateJobStatus(ctx, job.ID, models.JobStatusGenerating))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusGenerating, got.Status)
}

func TestUpdateJobStatus_UnknownJob(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))

	err := s.UpdateJobStatus(context.Background(), uuid.New(), models.JobStatusGenerating)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// --- Chapter tests ---

func TestChapters_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	job := testJob("alice@example.com", models.JobKindCourse)
	require.NoError(t, s.CreateJob(ctx, job))

	now := time.Now().UTC().Truncate(time.Microsecond)
	chapters := []*models.Chapter{
		{ID: uuid.New(), JobID: job.ID, Title: "One", Content: "c1", OrderNumber: 1, DurationMinutes: 30, LearningObjectives: []string{"a", "b"}, CreatedAt: now},
		{ID: uuid.New(), JobID: job.ID, Title: "Two", Content: "c2", OrderNumber: 2, DurationMinutes: 45, CreatedAt: now},
	}
	require.NoError(t, s.CreateChapters(ctx, chapters))

	got, err := s.GetChaptersByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "One", got[0].Title)
	assert.Equal(t, 1, got[0].OrderNumber)
	assert.Equal(t, []string{"a", "b"}, got[0].LearningObjectives)
	assert.Equal(t, "Two", got[1].Title)
}

func TestChapters_DuplicateOrderRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	job := testJob("alice@example.com", models.JobKindCourse)
	require.NoError(t, s.CreateJob(ctx, job))

	now := time.Now().UTC()
	chapters := []*models.Chapter{
		{ID: uuid.New(), JobID: job.ID, Title: "One", Content: "c1", OrderNumber: 1, DurationMinutes: 30, CreatedAt: now},
		{ID: uuid.New(), JobID: job.ID, Title: "Dup", Content: "c2", OrderNumber: 1, DurationMinutes: 30, CreatedAt: now},
	}
	err := s.CreateChapters(ctx, chapters)
	require.Error(t, err)

	// Transaction must roll back: no partial writes
	got, err := s.GetChaptersByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// --- Interview question tests ---

func TestQuestions_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	job := testJob("bob@example.com", models.JobKindInterview)
	require.NoError(t, s.CreateJob(ctx, job))

	expected := "outline of a good answer"
	now := time.Now().UTC().Truncate(time.Microsecond)
	questions := []*models.InterviewQuestion{
		{ID: uuid.New(), JobID: job.ID, Question: "Q1", QuestionType: "technical", Difficulty: "medium", ExpectedAnswer: &expected, EvaluationCriteria: []string{"depth"}, OrderNumber: 1, CreatedAt: now},
		{ID: uuid.New(), JobID: job.ID, Question: "Q2", QuestionType: "behavioral", Difficulty: "easy", OrderNumber: 2, CreatedAt: now},
	}
	require.NoError(t, s.CreateQuestions(ctx, questions))

	got, err := s.GetQuestionsByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Q1", got[0].Question)
	require.NotNil(t, got[0].ExpectedAnswer)
	assert.Equal(t, expected, *got[0].ExpectedAnswer)
	assert.Equal(t, []string{"depth"}, got[0].EvaluationCriteria)
	assert.Nil(t, got[1].ExpectedAnswer)
}

func TestJobDelete_CascadesToChapters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := testJob("alice@example.com", models.JobKindCourse)
	require.NoError(t, s.CreateJob(ctx, job))
	require.NoError(t, s.CreateChapters(ctx, []*models.Chapter{
		{ID: uuid.New(), JobID: job.ID, Title: "One", Content: "c1", OrderNumber: 1, DurationMinutes: 30, CreatedAt: time.Now().UTC()},
	}))

	_, err := pool.Exec(ctx, "DELETE FROM jobs WHERE id = $1", job.ID)
	require.NoError(t, err)

	got, err := s.GetChaptersByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
