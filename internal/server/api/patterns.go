package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/airsketch/internal/gesture"
)

// PatternHandler serves the in-memory template library of an engine.
type PatternHandler struct {
	engine  *gesture.Engine
	trainer *gesture.Trainer
}

// NewPatternHandler creates a PatternHandler for engine.
func NewPatternHandler(e *gesture.Engine) *PatternHandler {
	return &PatternHandler{engine: e, trainer: gesture.NewTrainer(e.Normalizer())}
}

// ServeHTTP routes /api/patterns, /api/patterns/{name} and
// /api/patterns/{name}/samples.
func (h *PatternHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/patterns")

	switch len(parts) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			methodNotAllowed(w)
		}
	case 1:
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, parts[0])
		case http.MethodDelete:
			h.delete(w, r, parts[0])
		default:
			methodNotAllowed(w)
		}
	case 2:
		if parts[1] != "samples" {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.train(w, r, parts[0])
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type createPatternRequest struct {
	Name   string         `json:"name"`
	Points gesture.Stroke `json:"points"`
}

type trainRequest struct {
	Samples []json.RawMessage `json:"samples"`
}

type patternResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Points     int             `json:"points"`
	Degenerate bool            `json:"degenerate"`
	CreatedAt  string          `json:"created_at"`
	Canonical  []gesture.Point `json:"canonical,omitempty"`
}

type listPatternsResponse struct {
	Patterns []patternResponse `json:"patterns"`
}

func toPatternResponse(t *gesture.Template, withPoints bool) patternResponse {
	resp := patternResponse{
		ID:         t.ID,
		Name:       t.Name,
		Points:     t.Canonical.Len(),
		Degenerate: t.Canonical.Degenerate,
		CreatedAt:  formatTime(t.CreatedAt),
	}
	if withPoints {
		resp.Canonical = t.Canonical.Points
	}
	return resp
}

func (h *PatternHandler) list(w http.ResponseWriter, r *http.Request) {
	templates := h.engine.Templates().All()
	resp := listPatternsResponse{Patterns: make([]patternResponse, 0, len(templates))}
	for _, t := range templates {
		resp.Patterns = append(resp.Patterns, toPatternResponse(t, false))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PatternHandler) get(w http.ResponseWriter, r *http.Request, name string) {
	t, ok := h.engine.Templates().Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, "Pattern not found")
		return
	}
	writeJSON(w, http.StatusOK, toPatternResponse(t, true))
}

func (h *PatternHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	t, err := h.engine.SavePattern(req.Name, req.Points)
	switch {
	case errors.Is(err, gesture.ErrEmptyName):
		writeError(w, http.StatusBadRequest, "name is required")
		return
	case errors.Is(err, gesture.ErrInsufficientPoints):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to save pattern")
		return
	}

	writeJSON(w, http.StatusCreated, toPatternResponse(t, false))
}

func (h *PatternHandler) delete(w http.ResponseWriter, r *http.Request, name string) {
	if !h.engine.RemovePattern(name) {
		writeError(w, http.StatusNotFound, "Pattern not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// train averages the submitted samples into one template saved under name.
func (h *PatternHandler) train(w http.ResponseWriter, r *http.Request, name string) {
	var req trainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, "samples are required")
		return
	}

	canonical, err := h.trainer.Train(req.Samples)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, gesture.ErrInsufficientPoints) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}

	t, err := h.engine.SaveCanonical(name, canonical)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save pattern")
		return
	}

	writeJSON(w, http.StatusCreated, toPatternResponse(t, false))
}
