package gesture

import (
	"math"
	"testing"
)

func TestPathDistance_Identical(t *testing.T) {
	path := []Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}

	if d := PathDistance(path, path); d != 0 {
		t.Errorf("expected distance 0 for identical paths, got %f", d)
	}
}

func TestPathDistance_Mean(t *testing.T) {
	a := []Point{{X: 0, Y: 0}, {X: 0, Y: 0}}
	b := []Point{{X: 3, Y: 4}, {X: 0, Y: 0}}

	// (5 + 0) / 2
	if d := PathDistance(a, b); !floatEqual(d, 2.5, 1e-12) {
		t.Errorf("PathDistance() = %f, want 2.5", d)
	}
}

func TestPathDistance_Incomparable(t *testing.T) {
	path := []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}

	tests := []struct {
		name string
		a, b []Point
	}{
		{"both empty", nil, nil},
		{"first empty", nil, path},
		{"different lengths", path, path[:1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := PathDistance(tt.a, tt.b); !math.IsInf(d, 1) {
				t.Errorf("expected infinity, got %f", d)
			}
		})
	}
}

func TestPointDistance(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}

	if d := pointDistance(a, b); !floatEqual(d, 5, 1e-12) {
		t.Errorf("expected distance 5, got %f", d)
	}
}

func TestDistanceAtBestAngle_RecoversRotation(t *testing.T) {
	z := NewNormalizer(64, 250)
	template, err := z.Normalize(starStroke(100, 40, 0, 0))
	if err != nil {
		t.Fatal(err)
	}

	rotated := rotateAbout(template.Points, 20*math.Pi/180, Point{})

	unaligned := PathDistance(rotated, template.Points)
	best := DistanceAtBestAngle(rotated, template.Points, -DefaultAngleRange, DefaultAngleRange, DefaultAnglePrecision)

	if best >= unaligned {
		t.Fatalf("search did not improve distance: best %f, unaligned %f", best, unaligned)
	}
	if best > 5 {
		t.Errorf("best distance = %f, want < 5 after recovering a 20 degree rotation", best)
	}
}

func TestDistanceAtBestAngle_IdenticalNearZero(t *testing.T) {
	z := NewNormalizer(64, 250)
	c, _ := z.Normalize(circleStroke(64, 50, 0, 0))

	d := DistanceAtBestAngle(c.Points, c.Points, -DefaultAngleRange, DefaultAngleRange, DefaultAnglePrecision)
	if d > 0.05*HalfDiagonal(250) {
		t.Errorf("distance for identical strokes = %f, want close to 0", d)
	}
}

func TestScoreFromDistance(t *testing.T) {
	half := HalfDiagonal(250)

	tests := []struct {
		name     string
		distance float64
		want     float64
	}{
		{"zero distance", 0, 1},
		{"half way", half / 2, 0.5},
		{"at half diagonal", half, 0},
		{"beyond half diagonal", half * 3, 0},
		{"infinite", math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreFromDistance(tt.distance, 250); !floatEqual(got, tt.want, 1e-12) {
				t.Errorf("ScoreFromDistance(%f) = %f, want %f", tt.distance, got, tt.want)
			}
		})
	}
}

func TestHalfDiagonal(t *testing.T) {
	want := 0.5 * 250 * math.Sqrt2
	if got := HalfDiagonal(250); !floatEqual(got, want, 1e-9) {
		t.Errorf("HalfDiagonal(250) = %f, want %f", got, want)
	}
}
