package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ayusman/airsketch/internal/gesture"
)

// readStroke accepts either a bare JSON array of points or an object with
// a "points" field.
func readStroke(data []byte) (gesture.Stroke, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var s gesture.Stroke
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode stroke: %w", err)
		}
		return s, nil
	}

	var wrapped struct {
		Points gesture.Stroke `json:"points"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode stroke: %w", err)
	}
	return wrapped.Points, nil
}

// recognizeFile recognizes the stroke stored at path and prints one line.
func recognizeFile(e *gesture.Engine, path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	stroke, err := readStroke(data)
	if err != nil {
		return err
	}

	result, err := e.Recognize(stroke)
	if err != nil {
		var short *gesture.InsufficientPointsError
		if errors.As(err, &short) {
			_, werr := fmt.Fprintf(w, "too short: %d points, need %d\n", short.Got, short.Want)
			return werr
		}
		return err
	}

	switch {
	case result.Matched():
		_, err = fmt.Fprintf(w, "%s %.3f\n", result.Name(), result.Score)
	case errors.Is(result.Reason, gesture.ErrNoTemplates):
		_, err = fmt.Fprintln(w, "no templates")
	case result.Candidate != nil:
		_, err = fmt.Fprintf(w, "no match (closest %s %.3f)\n", result.Candidate.Name, result.Score)
	default:
		_, err = fmt.Fprintln(w, "no match")
	}
	return err
}
