package score

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/prepdesk/prepdesk/internal/auth"
	"github.com/prepdesk/prepdesk/internal/storage"
	httperrors "github.com/prepdesk/prepdesk/pkg/http/errors"
)

const defaultTopN = 10

// HTTPHandler serves the leaderboard.
type HTTPHandler struct {
	ledger *Ledger
	logger zerolog.Logger
}

// NewHTTPHandler creates a leaderboard HTTP handler.
func NewHTTPHandler(ledger *Ledger, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		ledger: ledger,
		logger: logger.With().Str("component", "leaderboard_http").Logger(),
	}
}

// HandleGet responds to GET /v1/leaderboard?limit=10 with the persisted
// ranking; no sorting happens at read time.
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}
	if _, ok := auth.ClaimsFromContext(r.Context()); !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	limit := defaultTopN
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	top, err := h.ledger.Top(limit)
	if err != nil {
		if errors.Is(err, storage.ErrCorrupt) {
			h.logger.Error().Err(err).Msg("score ledger corrupt")
			httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeStorageCorrupt, "Stored data is corrupt")
			return
		}
		h.logger.Error().Err(err).Msg("leaderboard fetch failed")
		httperrors.RespondInternalError(w, "Internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"scores": top})
}
