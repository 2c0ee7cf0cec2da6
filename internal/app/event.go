package app

import (
	"time"

	"github.com/ayusman/airsketch/internal/recorder"
)

// Event describes one evaluated stroke as sent to subscribers.
type Event struct {
	Matched    bool    `json:"matched"`
	Name       string  `json:"name,omitempty"`
	Candidate  string  `json:"candidate,omitempty"`
	Score      float64 `json:"score"`
	Distance   float64 `json:"distance"`
	Points     int     `json:"points"`
	Degenerate bool    `json:"degenerate,omitempty"`
	// Error is set when the stroke could not be evaluated.
	Error  string       `json:"error,omitempty"`
	Action *ActionEvent `json:"action,omitempty"`
	At     time.Time    `json:"at"`
}

// ActionEvent reports the plugin run triggered by a match.
type ActionEvent struct {
	Plugin  string `json:"plugin"`
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func newEvent(o recorder.Outcome) Event {
	ev := Event{
		Matched:    o.Result.Matched(),
		Name:       o.Result.Name(),
		Score:      o.Result.Score,
		Distance:   o.Result.Distance,
		Points:     o.Points,
		Degenerate: o.Result.Degenerate,
		At:         o.At,
	}
	if c := o.Result.Candidate; c != nil {
		ev.Candidate = c.Name
	}
	if o.Err != nil {
		ev.Error = o.Err.Error()
	}
	return ev
}
