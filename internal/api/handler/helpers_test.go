package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	mw "github.com/studymate/studymate/internal/api/middleware"
	"github.com/studymate/studymate/internal/content/mock"
	"github.com/studymate/studymate/internal/jobs"
	"github.com/studymate/studymate/internal/store"
	"github.com/studymate/studymate/pkg/models"
)

// --- mock store ---

type mockStore struct {
	mu        sync.Mutex
	users     map[string]*models.User
	jobs      map[uuid.UUID]*models.Job
	chapters  map[uuid.UUID][]*models.Chapter
	questions map[uuid.UUID][]*models.InterviewQuestion

	createUserErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:     make(map[string]*models.User),
		jobs:      make(map[uuid.UUID]*models.Job),
		chapters:  make(map[uuid.UUID][]*models.Chapter),
		questions: make(map[uuid.UUID][]*models.InterviewQuestion),
	}
}

func (s *mockStore) Ping(_ context.Context) error { return nil }

func (s *mockStore) CreateUser(_ context.Context, user *models.User) error {
	if s.createUserErr != nil {
		return s.createUserErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Email]; exists {
		return store.ErrDuplicateKey
	}
	s.users[user.Email] = user
	return nil
}

func (s *mockStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

func (s *mockStore) CreateJob(_ context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	return nil
}

func (s *mockStore) GetJob(_ context.Context, id uuid.UUID) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (s *mockStore) ListJobs(_ context.Context, owner string, kind string) ([]*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Job
	for _, job := range s.jobs {
		if job.Owner != owner {
			continue
		}
		if kind != "" && job.Kind != kind {
			continue
		}
		cp := *job
		out = append(out, &cp)
	}
	return out, nil
}

func (s *mockStore) UpdateJobStatus(_ context.Context, id uuid.UUID, status string, _ ...store.JobUpdateOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Status = status
	}
	return nil
}

func (s *mockStore) CreateChapters(_ context.Context, chapters []*models.Chapter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range chapters {
		s.chapters[ch.JobID] = append(s.chapters[ch.JobID], ch)
	}
	return nil
}

func (s *mockStore) GetChaptersByJob(_ context.Context, jobID uuid.UUID) ([]*models.Chapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chapters[jobID], nil
}

func (s *mockStore) CreateQuestions(_ context.Context, questions []*models.InterviewQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range questions {
		s.questions[q.JobID] = append(s.questions[q.JobID], q)
	}
	return nil
}

func (s *mockStore) GetQuestionsByJob(_ context.Context, jobID uuid.UUID) ([]*models.InterviewQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions[jobID], nil
}

// --- mock cache ---

type mockCache struct {
	mu       sync.Mutex
	statuses map[string]string
}

func newMockCache() *mockCache {
	return &mockCache{statuses: make(map[string]string)}
}

func (c *mockCache) Ping(_ context.Context) error { return nil }

func (c *mockCache) SetJobStatus(_ context.Context, owner string, jobID uuid.UUID, status string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[owner+":"+jobID.String()] = status
	return nil
}

func (c *mockCache) GetJobStatus(_ context.Context, owner string, jobID uuid.UUID) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.statuses[owner+":"+jobID.String()]
	return s, ok, nil
}

func (c *mockCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 0, nil
}

// --- helpers ---

func newOrchestrator(st *mockStore) *jobs.Orchestrator {
	return jobs.NewOrchestrator(mock.NewMockGenerator(), st, newMockCache(), 30*time.Second)
}

// asSubject attaches the authenticated subject to a request, the way auth
// middleware would.
func asSubject(req *http.Request, subject string) *http.Request {
	return req.WithContext(mw.SetSubject(req.Context(), subject))
}

// withURLParam attaches a chi route parameter to a request. Repeated calls
// accumulate parameters on the same route context.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx, ok := req.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "expected data envelope, got %s", w.Body.String())
	return data
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %s", w.Body.String())
	return errBody["code"].(string)
}

// waitForTerminal polls the mock store until the job leaves its non-terminal
// states.
func waitForTerminal(t *testing.T, st *mockStore, jobID uuid.UUID) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		st.mu.Lock()
		job := st.jobs[jobID]
		terminal := job != nil && (job.Status == models.JobStatusComplete || job.Status == models.JobStatusError)
		st.mu.Unlock()
		if terminal {
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for terminal job status")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
