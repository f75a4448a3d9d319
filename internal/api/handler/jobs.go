package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/studymate/studymate/internal/api/middleware"
	"github.com/studymate/studymate/internal/api/response"
	"github.com/studymate/studymate/internal/jobs"
	"github.com/studymate/studymate/internal/store"
	"github.com/studymate/studymate/pkg/models"
)

// NewSubmitCourseHandler returns an http.HandlerFunc for POST /api/v1/jobs/course.
// Responds 202 with the submitted job; generation continues in the background.
func NewSubmitCourseHandler(orch *jobs.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := mw.GetSubject(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "MISSING_IDENTITY", "Missing identity", nil)
			return
		}

		var params models.CourseParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if params.Topic == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "topic is required", nil)
			return
		}

		job, err := orch.SubmitCourse(r.Context(), subject, params)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit job", nil)
			return
		}

		response.Accepted(w, job)
	}
}

// NewSubmitInterviewHandler returns an http.HandlerFunc for POST /api/v1/jobs/interview.
func NewSubmitInterviewHandler(orch *jobs.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := mw.GetSubject(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "MISSING_IDENTITY", "Missing identity", nil)
			return
		}

		var params models.InterviewParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if params.JobRole == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "job_role is required", nil)
			return
		}
		// Zero means "use the default count"
		if params.QuestionCount < 0 || params.QuestionCount > 50 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "question_count must be between 0 and 50", nil)
			return
		}

		job, err := orch.SubmitInterview(r.Context(), subject, params)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit job", nil)
			return
		}

		response.Accepted(w, job)
	}
}

// NewGetJobHandler returns an http.HandlerFunc for GET /api/v1/jobs/{jobID}.
// Complete jobs include their generated chapters or questions.
func NewGetJobHandler(orch *jobs.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := mw.GetSubject(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "MISSING_IDENTITY", "Missing identity", nil)
			return
		}

		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid job ID", nil)
			return
		}

		detail, err := orch.GetJob(r.Context(), subject, jobID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load job", nil)
			return
		}

		response.JSON(w, detail)
	}
}

// NewGetJobStatusHandler returns an http.HandlerFunc for
// GET /api/v1/jobs/{jobID}/status, the cheap polling endpoint.
func NewGetJobStatusHandler(orch *jobs.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := mw.GetSubject(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "MISSING_IDENTITY", "Missing identity", nil)
			return
		}

		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid job ID", nil)
			return
		}

		status, err := orch.GetJobStatus(r.Context(), subject, jobID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load job status", nil)
			return
		}

		response.JSON(w, map[string]string{"job_id": jobID.String(), "status": status})
	}
}

// NewListJobsHandler returns an http.HandlerFunc for GET /api/v1/jobs.
// Accepts an optional ?kind=course|interview filter.
func NewListJobsHandler(orch *jobs.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := mw.GetSubject(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "MISSING_IDENTITY", "Missing identity", nil)
			return
		}

		kind := r.URL.Query().Get("kind")
		if kind != "" && !models.ValidJobKind(kind) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "kind must be course or interview", nil)
			return
		}

		list, err := orch.ListJobs(r.Context(), subject, kind)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list jobs", nil)
			return
		}

		response.Collection(w, list, len(list))
	}
}
