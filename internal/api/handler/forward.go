package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	mw "github.com/studymate/studymate/internal/api/middleware"
	"github.com/studymate/studymate/internal/api/response"
	"github.com/studymate/studymate/internal/gateway"
)

// maxRequestBody caps request bodies read into memory before forwarding.
const maxRequestBody = 10 << 20

// kindServices maps a job kind to the logical service that handles it.
var kindServices = map[string]string{
	"course":    "course-generation",
	"interview": "interview-coach",
}

// NewForwardHandler returns an http.HandlerFunc for /api/v1/services/{service}/*.
// The authenticated subject is injected as the identity header; the agent's
// response is relayed verbatim.
func NewForwardHandler(router *gateway.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		service := chi.URLParam(r, "service")
		path := "/" + chi.URLParam(r, "*")
		relay(w, r, router, service, path)
	}
}

// NewForwardJobHandler returns an http.HandlerFunc for /api/v1/jobs/{kind}
// and /api/v1/jobs/{kind}/*. The kind selects the agent; the path is
// rewritten to the agent's job API.
func NewForwardJobHandler(router *gateway.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := chi.URLParam(r, "kind")
		service, ok := kindServices[kind]
		if !ok {
			response.Error(w, http.StatusNotFound, "UNKNOWN_KIND",
				"No agent handles this job kind", map[string]string{"kind": kind})
			return
		}

		rest := chi.URLParam(r, "*")
		var path string
		switch {
		case rest != "":
			// Job reads address a specific job, e.g. {jobID} or {jobID}/status.
			path = "/api/v1/jobs/" + rest
		case r.Method == http.MethodPost:
			path = "/api/v1/jobs/" + kind
		default:
			path = "/api/v1/jobs?kind=" + kind
		}

		relay(w, r, router, service, path)
	}
}

// relay reads the request body, injects the verified identity, forwards to
// the named service, and writes the upstream response back unmodified.
func relay(w http.ResponseWriter, r *http.Request, router *gateway.Router, service, path string) {
	subject, ok := mw.GetSubject(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "MISSING_IDENTITY", "Missing identity", nil)
		return
	}

	if r.URL.RawQuery != "" {
		if strings.Contains(path, "?") {
			path += "&" + r.URL.RawQuery
		} else {
			path += "?" + r.URL.RawQuery
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read request body", nil)
		return
	}

	header := r.Header.Clone()
	header.Set(mw.IdentityHeader, subject)

	upstream, err := router.Forward(r.Context(), gateway.ForwardRequest{
		Service: service,
		Path:    path,
		Method:  r.Method,
		Body:    body,
		Header:  header,
	})
	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrUnknownService):
			response.Error(w, http.StatusNotFound, "UNKNOWN_SERVICE",
				"No service registered under this name", nil)
		case errors.Is(err, gateway.ErrUpstreamTimeout):
			response.Error(w, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT",
				"The service did not respond in time", nil)
		default:
			response.Error(w, http.StatusBadGateway, "UPSTREAM_UNREACHABLE",
				"The service could not be reached", nil)
		}
		return
	}

	for name, values := range upstream.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(upstream.StatusCode)
	_, _ = w.Write(upstream.Body)
}

// NewListServicesHandler returns an http.HandlerFunc for GET /api/v1/services.
func NewListServicesHandler(router *gateway.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := router.Services()
		response.Collection(w, names, len(names))
	}
}
