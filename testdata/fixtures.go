// Package testdata embeds recorded strokes used by end-to-end tests.
package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/ayusman/airsketch/internal/gesture"
)

//go:embed strokes/*.json
var strokesFS embed.FS

// Recording is a stroke captured in screen coordinates.
type Recording struct {
	Name   string         `json:"name"`
	Points gesture.Stroke `json:"points"`
}

// LoadRecording loads a recorded stroke by name.
func LoadRecording(name string) (*Recording, error) {
	data, err := strokesFS.ReadFile(path.Join("strokes", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("load stroke %s: %w", name, err)
	}

	var rec Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode stroke %s: %w", name, err)
	}
	return &rec, nil
}

// Stroke loads only the points of a recorded stroke.
func Stroke(name string) (gesture.Stroke, error) {
	rec, err := LoadRecording(name)
	if err != nil {
		return nil, err
	}
	return rec.Points, nil
}

// Names lists the recorded strokes in sorted order.
func Names() ([]string, error) {
	entries, err := strokesFS.ReadDir("strokes")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
