package gesture

import (
	"encoding/json"
	"fmt"
)

// Sample is a recorded stroke sample as submitted by a client.
type Sample struct {
	Type      string `json:"type"`
	Path      Stroke `json:"path"`
	Timestamp int64  `json:"timestamp"`
}

// Trainer processes recorded samples into a single canonical template.
type Trainer struct {
	normalizer Normalizer
}

// NewTrainer creates a Trainer that normalizes with z.
func NewTrainer(z Normalizer) *Trainer {
	return &Trainer{normalizer: z}
}

// Train normalizes every sample and averages the canonical strokes point by
// point. Because canonical strokes share point count, box and indicative
// angle, index i of each sample refers to the same place along the path.
func (t *Trainer) Train(samples []json.RawMessage) (Canonical, error) {
	if len(samples) == 0 {
		return Canonical{}, fmt.Errorf("no samples provided")
	}

	canonicals := make([]Canonical, 0, len(samples))
	for i, raw := range samples {
		var sample Sample
		if err := json.Unmarshal(raw, &sample); err != nil {
			return Canonical{}, fmt.Errorf("failed to parse sample %d: %w", i, err)
		}

		c, err := t.normalizer.Normalize(sample.Path)
		if err != nil {
			return Canonical{}, fmt.Errorf("sample %d: %w", i, err)
		}
		canonicals = append(canonicals, c)
	}

	return t.Average(canonicals)
}

// Average returns the point-wise mean of canonical strokes of equal length,
// brought back to canonical form: rotated to its indicative angle, scaled
// to the reference box and centered at the origin. The result is
// degenerate if any input is or if the mean itself needed a clamped scale.
// Strokes of differing length yield ErrIncompatible.
func (t *Trainer) Average(canonicals []Canonical) (Canonical, error) {
	if len(canonicals) == 0 {
		return Canonical{}, nil
	}

	n := canonicals[0].Len()
	averaged := make([]Point, n)
	degenerate := false

	for i, c := range canonicals {
		if c.Len() != n {
			return Canonical{}, fmt.Errorf("%w: sample %d has %d points, want %d", ErrIncompatible, i, c.Len(), n)
		}
		degenerate = degenerate || c.Degenerate
		for j, p := range c.Points {
			averaged[j].X += p.X
			averaged[j].Y += p.Y
		}
	}

	k := float64(len(canonicals))
	for i := range averaged {
		averaged[i].X /= k
		averaged[i].Y /= k
	}

	points := RotateToIndicativeAngle(averaged)
	points, clamped := ScaleToBox(points, t.normalizer.Size())
	points = TranslateToOrigin(points)

	return Canonical{Points: points, Degenerate: degenerate || clamped}, nil
}
