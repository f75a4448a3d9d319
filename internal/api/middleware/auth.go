package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/studymate/studymate/internal/api/response"
	"github.com/studymate/studymate/internal/auth"
)

// Auth provides credential-checking middleware for the gateway and agents.
type Auth struct {
	issuer *auth.TokenIssuer
}

// NewAuth creates a new Auth middleware.
func NewAuth(issuer *auth.TokenIssuer) *Auth {
	return &Auth{issuer: issuer}
}

// Authenticate validates the Bearer credential and sets the subject in the
// request context. Expired and malformed credentials get distinct messages
// but the same 401 status.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		subject, err := a.issuer.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				response.Error(w, http.StatusUnauthorized,
					"TOKEN_EXPIRED", "Credential has expired", nil)
				return
			}
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid credential", nil)
			return
		}

		r = r.WithContext(SetSubject(r.Context(), subject))
		next.ServeHTTP(w, r)
	})
}

// TrustIdentityHeader reads the subject from the gateway identity header and
// sets it in the request context. Used by agent services, which sit behind
// the gateway and never see the raw credential.
func TrustIdentityHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := strings.TrimSpace(r.Header.Get(IdentityHeader))
		if subject == "" {
			response.Error(w, http.StatusUnauthorized,
				"MISSING_IDENTITY", "Missing identity header", nil)
			return
		}

		r = r.WithContext(SetSubject(r.Context(), subject))
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
