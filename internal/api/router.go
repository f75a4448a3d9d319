// Package api wires HTTP routes for the gateway and agent servers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/studymate/studymate/internal/api/middleware"
	"github.com/studymate/studymate/internal/api/response"
)

// GatewayDependencies holds handler and middleware dependencies for the
// gateway router.
type GatewayDependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler       http.HandlerFunc
	SignupHandler       http.HandlerFunc
	SigninHandler       http.HandlerFunc
	ListServicesHandler http.HandlerFunc
	ForwardHandler      http.HandlerFunc
	ForwardJobHandler   http.HandlerFunc
}

// NewGatewayRouter builds the gateway Chi router. Auth endpoints are public;
// everything else requires a valid credential and is rate limited.
func NewGatewayRouter(deps GatewayDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))
	r.Post("/api/v1/auth/signup", orNotImplemented(deps.SignupHandler))
	r.Post("/api/v1/auth/signin", orNotImplemented(deps.SigninHandler))

	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Get("/api/v1/services", orNotImplemented(deps.ListServicesHandler))
		r.HandleFunc("/api/v1/services/{service}/*", orNotImplemented(deps.ForwardHandler))
		r.HandleFunc("/api/v1/jobs/{kind}", orNotImplemented(deps.ForwardJobHandler))
		r.HandleFunc("/api/v1/jobs/{kind}/*", orNotImplemented(deps.ForwardJobHandler))
	})

	return r
}

// AgentDependencies holds handler dependencies for an agent router. Agents
// trust the gateway identity header instead of verifying credentials.
type AgentDependencies struct {
	HealthHandler          http.HandlerFunc
	SubmitCourseHandler    http.HandlerFunc
	SubmitInterviewHandler http.HandlerFunc
	GetJobHandler          http.HandlerFunc
	GetJobStatusHandler    http.HandlerFunc
	ListJobsHandler        http.HandlerFunc
}

// NewAgentRouter builds the Chi router for an agent server.
func NewAgentRouter(deps AgentDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	r.Group(func(r chi.Router) {
		r.Use(mw.TrustIdentityHeader)

		r.Post("/api/v1/jobs/course", orNotImplemented(deps.SubmitCourseHandler))
		r.Post("/api/v1/jobs/interview", orNotImplemented(deps.SubmitInterviewHandler))
		r.Get("/api/v1/jobs", orNotImplemented(deps.ListJobsHandler))
		r.Get("/api/v1/jobs/{jobID}", orNotImplemented(deps.GetJobHandler))
		r.Get("/api/v1/jobs/{jobID}/status", orNotImplemented(deps.GetJobStatusHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
