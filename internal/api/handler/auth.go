package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/studymate/studymate/internal/api/response"
	"github.com/studymate/studymate/internal/auth"
	"github.com/studymate/studymate/internal/store"
	"github.com/studymate/studymate/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

// NewSignupHandler returns an http.HandlerFunc for POST /api/v1/auth/signup.
func NewSignupHandler(st store.Store, issuer *auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "A valid email is required", nil)
			return
		}
		if len(req.Password) < minPasswordLen {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Password must be at least 8 characters", nil)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account", nil)
			return
		}

		user := &models.User{
			ID:           uuid.New(),
			Email:        req.Email,
			Name:         strings.TrimSpace(req.Name),
			PasswordHash: string(hash),
			CreatedAt:    time.Now().UTC(),
			UpdatedAt:    time.Now().UTC(),
		}

		if err := st.CreateUser(r.Context(), user); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				response.Error(w, http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account", nil)
			return
		}

		token, err := issuer.Issue(user.Email)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue credential", nil)
			return
		}

		response.Created(w, map[string]any{
			"user":  user,
			"token": token,
		})
	}
}

// NewSigninHandler returns an http.HandlerFunc for POST /api/v1/auth/signin.
// Unknown email and wrong password produce the same response.
func NewSigninHandler(st store.Store, issuer *auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		user, err := st.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign in", nil)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
			return
		}

		token, err := issuer.Issue(user.Email)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue credential", nil)
			return
		}

		response.JSON(w, map[string]any{
			"user":  user,
			"token": token,
		})
	}
}
