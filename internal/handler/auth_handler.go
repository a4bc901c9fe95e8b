package handler

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"storefront-api/internal/domain"
	"storefront-api/internal/middleware"
	"storefront-api/internal/session"
	"storefront-api/internal/supabase"
	"storefront-api/pkg/errors"
	"storefront-api/pkg/logger"
)

// AuthHandler exposes account registration, login and session inspection on
// top of the session manager.
type AuthHandler struct {
	sessions *session.Manager
	log      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *session.Manager, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		log:      log,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Invalid request body", nil), h.log)
		return
	}

	if err := validateRegisterRequest(&req); err != nil {
		respondAppError(w, err, h.log)
		return
	}

	sessionIssued, err := h.sessions.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondAppError(w, classifyAuthFailure(err), h.log)
		return
	}

	message := "Registration successful"
	if !sessionIssued {
		message = "Registration successful. Please check your email to confirm your account"
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":        message,
		"session_issued": sessionIssued,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Invalid request body", nil), h.log)
		return
	}

	if req.Email == "" || req.Password == "" {
		respondAppError(w, errors.NewValidationError("Email and password are required", nil), h.log)
		return
	}

	if err := h.sessions.Login(r.Context(), req.Email, req.Password); err != nil {
		respondAppError(w, classifyAuthFailure(err), h.log)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		respondAppError(w, errors.NewExternalError("Logout failed", err), h.log)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logged out",
	})
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	identity := h.sessions.Identity()

	response := map[string]interface{}{
		"loading":       h.sessions.Loading(),
		"authenticated": identity != nil,
	}
	if identity != nil {
		response["user"] = map[string]interface{}{
			"id":           identity.UserID,
			"email":        identity.Email,
			"display_name": identity.DisplayName(),
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// GetProfile handles GET /api/user/profile. The identity comes from the
// validated bearer token, not the local session.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*domain.TokenClaims)
	if !ok || claims == nil {
		respondAppError(w, errors.NewAuthenticationError("Authentication required"), h.log)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":        claims.Sub,
		"email":     claims.Email,
		"full_name": claims.FullName,
	})
}

func validateRegisterRequest(req *registerRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.NewValidationError("Name is required", nil)
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return errors.NewValidationError("A valid email is required", nil)
	}
	if len(req.Password) < 6 {
		return errors.NewValidationError("Password must be at least 6 characters", nil)
	}
	return nil
}

// classifyAuthFailure maps provider failures to the guidance the account
// forms show for each case.
func classifyAuthFailure(err error) error {
	switch {
	case stderrors.Is(err, supabase.ErrInvalidCredentials):
		return errors.NewAuthenticationError("Invalid email or password")
	case stderrors.Is(err, supabase.ErrEmailNotConfirmed):
		return errors.NewAuthenticationError("Please confirm your email address before logging in")
	case stderrors.Is(err, supabase.ErrUserAlreadyExists):
		return errors.NewConflictError("An account with this email already exists")
	default:
		return errors.NewExternalError("Authentication service unavailable", err)
	}
}
