package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/prepdesk/prepdesk/internal/auth"
	"github.com/prepdesk/prepdesk/internal/question"
	"github.com/prepdesk/prepdesk/internal/storage"
	httperrors "github.com/prepdesk/prepdesk/pkg/http/errors"
)

// HTTPHandlers provides the quiz REST endpoints.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for quiz endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "quiz_http").Logger(),
	}
}

// Subjects handles GET /v1/subjects.
func (h *HTTPHandlers) Subjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}
	type subjectInfo struct {
		Name   string `json:"name"`
		Target int    `json:"target"`
	}
	subjects := make([]subjectInfo, 0, len(question.Subjects))
	for _, subj := range question.Subjects {
		subjects = append(subjects, subjectInfo{Name: subj, Target: question.Targets[subj]})
	}
	respondJSON(w, http.StatusOK, map[string]any{"subjects": subjects})
}

type startRequest struct {
	Subject string `json:"subject"`
}

// Start handles POST /v1/quizzes.
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Subject == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "subject is required", "subject")
		return
	}

	view, err := h.service.Start(req.Subject, claims.Username)
	if err != nil {
		h.respondServiceError(w, err, "start quiz")
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// Questions handles GET /v1/quizzes/{session_id}/questions.
func (h *HTTPHandlers) Questions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}
	if _, ok := auth.ClaimsFromContext(r.Context()); !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	views, err := h.service.Questions(r.PathValue("session_id"))
	if err != nil {
		h.respondServiceError(w, err, "fetch session questions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"questions": views})
}

type submitRequest struct {
	// Keys are question ids as decimal strings, values the chosen option.
	Answers map[string]string `json:"answers"`
}

// Submit handles POST /v1/quizzes/{session_id}/submit.
func (h *HTTPHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}
	if _, ok := auth.ClaimsFromContext(r.Context()); !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	answers := make(map[int]string, len(req.Answers))
	for key, option := range req.Answers {
		id, err := strconv.Atoi(key)
		if err != nil {
			// Non-numeric keys can never match a question; skip them.
			continue
		}
		answers[id] = option
	}

	result, err := h.service.Submit(r.PathValue("session_id"), answers)
	if err != nil {
		h.respondServiceError(w, err, "submit quiz")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrUnknownSubject):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSubjectUnknown, "Unknown subject")
	case errors.Is(err, ErrSessionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionUnknown, "Quiz not found or expired")
	case errors.Is(err, storage.ErrCorrupt):
		h.logger.Error().Err(err).Str("op", op).Msg("storage corruption")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeStorageCorrupt, "Stored data is corrupt")
	default:
		h.logger.Error().Err(err).Str("op", op).Msg("quiz operation failed")
		httperrors.RespondInternalError(w, "Internal error")
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
