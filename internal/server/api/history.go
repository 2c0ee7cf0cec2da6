package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/airsketch/internal/store"
)

// MaxHistoryLimit caps the limit query parameter.
const MaxHistoryLimit = 1000

// HistoryHandler serves the recognition history.
type HistoryHandler struct {
	store *store.Store
}

// NewHistoryHandler creates a HistoryHandler with the given store.
func NewHistoryHandler(s *store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

type listHistoryResponse struct {
	Recognitions []*store.Recognition `json:"recognitions"`
}

type statsResponse struct {
	Stats []store.Stats `json:"stats"`
}

// ServeHTTP handles GET /api/history?limit=N and GET /api/history/stats.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	switch parts := splitPath(r.URL.Path, "/api/history"); {
	case len(parts) == 0:
		h.list(w, r)
	case len(parts) == 1 && parts[0] == "stats":
		h.stats(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *HistoryHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxHistoryLimit)
	}

	recs, err := h.store.History().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list history")
		return
	}
	if recs == nil {
		recs = []*store.Recognition{}
	}
	writeJSON(w, http.StatusOK, listHistoryResponse{Recognitions: recs})
}

func (h *HistoryHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.History().Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	if stats == nil {
		stats = []store.Stats{}
	}
	writeJSON(w, http.StatusOK, statsResponse{Stats: stats})
}
