package question

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/prepdesk/prepdesk/internal/storage"
	httperrors "github.com/prepdesk/prepdesk/pkg/http/errors"
)

var importedRows = promauto.NewCounter(prometheus.CounterOpts{
	Name: "prepdesk_questions_imported_total",
	Help: "Questions added through CSV import.",
})

// HTTPHandlers provides the admin question-bank endpoints. All of them
// sit behind the admin-token middleware.
type HTTPHandlers struct {
	store  *Store
	logger zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for question administration.
func NewHTTPHandlers(store *Store, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		store:  store,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

// List handles GET /v1/admin/questions?subject=
func (h *HTTPHandlers) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}
	subject := r.URL.Query().Get("subject")
	if !IsSubject(subject) {
		subject = "" // "All" and anything unknown mean no filter
	}
	all, err := h.store.List(subject)
	if err != nil {
		h.respondStoreError(w, err, "list questions")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"questions": all})
}

type createRequest struct {
	Subject     string   `json:"subject"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// Create handles POST /v1/admin/questions
func (h *HTTPHandlers) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = DifficultyMedium
	}
	created, err := h.store.Add(Question{
		Subject:     strings.TrimSpace(req.Subject),
		Question:    strings.TrimSpace(req.Question),
		Options:     req.Options,
		Answer:      strings.TrimSpace(req.Answer),
		Difficulty:  req.Difficulty,
		Explanation: strings.TrimSpace(req.Explanation),
	})
	if err != nil {
		h.respondStoreError(w, err, "create question")
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]any{"question": created})
}

type updateRequest struct {
	Subject     *string  `json:"subject"`
	Question    *string  `json:"question"`
	Options     []string `json:"options"`
	Answer      *string  `json:"answer"`
	Difficulty  *string  `json:"difficulty"`
	Explanation *string  `json:"explanation"`
}

// UpdateByID handles PUT /v1/admin/questions/{id}
func (h *HTTPHandlers) UpdateByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "missing or invalid id", "id")
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	updated, err := h.store.Apply(id, Update{
		Subject:     req.Subject,
		Question:    req.Question,
		Options:     req.Options,
		Answer:      req.Answer,
		Difficulty:  req.Difficulty,
		Explanation: req.Explanation,
	})
	if err != nil {
		h.respondStoreError(w, err, "update question")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"question": updated})
}

// DeleteByID handles DELETE /v1/admin/questions/{id}
func (h *HTTPHandlers) DeleteByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "missing or invalid id", "id")
		return
	}
	if err := h.store.Delete(id); err != nil {
		h.respondStoreError(w, err, "delete question")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Import handles POST /v1/admin/questions/import with a multipart "file".
func (h *HTTPHandlers) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "No file uploaded")
		return
	}
	defer file.Close()
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Please upload a .csv file")
		return
	}

	result, err := h.store.ImportCSV(file)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			httperrors.RespondValidationError(w, httperrors.ErrCodeImportFailed, verr.Message, verr.Field)
			return
		}
		h.respondStoreError(w, err, "import csv")
		return
	}
	importedRows.Add(float64(result.Added))
	h.logger.Info().
		Int("added", result.Added).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("csv import complete")
	h.respondJSON(w, http.StatusOK, result)
}

// Template handles GET /v1/admin/questions/template
func (h *HTTPHandlers) Template(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=questions_template.csv`)
	_, _ = w.Write([]byte(TemplateCSV))
}

func (h *HTTPHandlers) respondStoreError(w http.ResponseWriter, err error, op string) {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionUnknown, "Question not found")
	case errors.As(err, &verr):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, verr.Message, verr.Field)
	case errors.Is(err, storage.ErrCorrupt):
		h.logger.Error().Err(err).Str("op", op).Msg("storage corruption")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeStorageCorrupt, "Stored data is corrupt")
	default:
		h.logger.Error().Err(err).Str("op", op).Msg("question operation failed")
		httperrors.RespondInternalError(w, "Internal error")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
