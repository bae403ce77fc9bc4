package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/prepdesk/prepdesk/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for authentication.
type HTTPHandlers struct {
	authSvc *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for auth endpoints.
func NewHTTPHandlers(authSvc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{authSvc: authSvc, logger: logger}
}

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

// Signup handles POST /v1/auth/signup
func (h *HTTPHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	token, err := h.authSvc.Signup(req.Username, req.Password, req.Confirm)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeUsernameTaken, err.Error())
			return
		}
		httperrors.RespondBadRequest(w, httperrors.ErrCodeSignupFailed, err.Error())
		return
	}

	h.respondToken(w, http.StatusCreated, req.Username, token)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login
func (h *HTTPHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	token, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeLoginFailed, "Invalid username or password")
		return
	}

	h.respondToken(w, http.StatusOK, req.Username, token)
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

// AdminLogin handles POST /v1/admin/login
func (h *HTTPHandlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	token, err := h.authSvc.AdminLogin(req.Password)
	if err != nil {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeLoginFailed, "Invalid admin password")
		return
	}

	h.respondToken(w, http.StatusOK, "admin", token)
}

// GetMe handles GET /v1/users/me
func (h *HTTPHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"username": claims.Username,
		"is_admin": claims.IsAdmin,
	})
}

func (h *HTTPHandlers) respondToken(w http.ResponseWriter, status int, username, token string) {
	h.respondJSON(w, status, map[string]any{
		"username":     username,
		"access_token": token,
		"expires_in":   h.authSvc.TokenTTLSeconds(),
	})
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
