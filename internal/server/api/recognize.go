package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/airsketch/internal/gesture"
)

// RecognizeHandler matches a posted stroke against the engine templates.
type RecognizeHandler struct {
	engine *gesture.Engine
}

// NewRecognizeHandler creates a RecognizeHandler for engine.
func NewRecognizeHandler(e *gesture.Engine) *RecognizeHandler {
	return &RecognizeHandler{engine: e}
}

type recognizeRequest struct {
	Points gesture.Stroke `json:"points"`
}

type recognizeResponse struct {
	Matched    bool    `json:"matched"`
	Name       string  `json:"name,omitempty"`
	Candidate  string  `json:"candidate,omitempty"`
	Score      float64 `json:"score"`
	Distance   float64 `json:"distance"`
	Degenerate bool    `json:"degenerate,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

type insufficientResponse struct {
	Error string `json:"error"`
	Got   int    `json:"got"`
	Want  int    `json:"want"`
}

// ServeHTTP handles POST /api/recognize.
func (h *RecognizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req recognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := h.engine.Recognize(req.Points)
	if err != nil {
		var short *gesture.InsufficientPointsError
		if errors.As(err, &short) {
			writeJSON(w, http.StatusUnprocessableEntity, insufficientResponse{
				Error: err.Error(),
				Got:   short.Got,
				Want:  short.Want,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "Recognition failed")
		return
	}

	writeJSON(w, http.StatusOK, toRecognizeResponse(result))
}

func toRecognizeResponse(r gesture.Result) recognizeResponse {
	resp := recognizeResponse{
		Matched:    r.Matched(),
		Name:       r.Name(),
		Score:      r.Score,
		Distance:   r.Distance,
		Degenerate: r.Degenerate,
	}
	if r.Candidate != nil {
		resp.Candidate = r.Candidate.Name
	}
	if r.Reason != nil {
		resp.Reason = r.Reason.Error()
	}
	return resp
}
