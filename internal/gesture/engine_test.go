package gesture

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

type recordingObserver struct {
	mu        sync.Mutex
	results   []Result
	templates []int
}

func (o *recordingObserver) ObserveRecognition(r Result, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, r)
}

func (o *recordingObserver) ObserveTemplates(count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.templates = append(o.templates, count)
}

func newTestEngine(t *testing.T, cfg Config, opts ...Option) *Engine {
	t.Helper()
	e := New(cfg, opts...)
	shapes := map[string]Stroke{
		"circle": circleStroke(64, 100, 0, 0),
		"square": squareStroke(200, -100, -100),
		"star":   starStroke(100, 40, 0, 0),
	}
	for _, name := range []string{"circle", "square", "star"} {
		if _, err := e.SavePattern(name, shapes[name]); err != nil {
			t.Fatalf("SavePattern(%s) error = %v", name, err)
		}
	}
	return e
}

func TestEngine_SelfMatch(t *testing.T) {
	// The square outline has five points.
	cfg := DefaultConfig()
	cfg.MinPoints = MinStrokePoints
	e := newTestEngine(t, cfg)

	tests := []struct {
		name   string
		stroke Stroke
	}{
		{"circle", circleStroke(64, 100, 0, 0)},
		{"square", squareStroke(200, -100, -100)},
		{"star", starStroke(100, 40, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.Recognize(tt.stroke)
			if err != nil {
				t.Fatalf("Recognize() error = %v", err)
			}
			if result.Name() != tt.name {
				t.Errorf("Recognize() = %q, want %s", result.Name(), tt.name)
			}
			if result.Score < 0.95 {
				t.Errorf("self-match score = %f, want >= 0.95", result.Score)
			}
		})
	}
}

func TestEngine_TransformedMatch(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	stroke := transform(starStroke(100, 40, 0, 0), 0.25, 3.5, 400, -90)
	result, err := e.Recognize(stroke)
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if result.Name() != "star" {
		t.Fatalf("Recognize() = %q, want star", result.Name())
	}
	if result.Score < 0.95 {
		t.Errorf("score = %f, want >= 0.95", result.Score)
	}
	if result.Score < 0 || result.Score > 1 {
		t.Errorf("score %f out of [0, 1]", result.Score)
	}
}

func TestEngine_RotatedSquare(t *testing.T) {
	e := New(Config{MinPoints: 2})
	corners := Stroke{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}
	if _, err := e.SavePattern("square", corners); err != nil {
		t.Fatalf("SavePattern() error = %v", err)
	}

	result, err := e.Recognize(transform(corners, 10*math.Pi/180, 2, 0, 0))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if result.Name() != "square" {
		t.Fatalf("Recognize() = %q, want square", result.Name())
	}
	if result.Score < 0.9 {
		t.Errorf("score = %f, want >= 0.9", result.Score)
	}
}

func TestEngine_LineBelowThreshold(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	result, err := e.Recognize(lineStroke(20, 5, 0))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if result.Matched() {
		t.Errorf("straight line matched %q with score %f", result.Name(), result.Score)
	}
	if result.Candidate == nil {
		t.Error("expected the closest template as candidate")
	}
	if result.Reason != nil {
		t.Errorf("Reason = %v, want nil for a below-threshold miss", result.Reason)
	}
	if !result.Degenerate {
		t.Error("straight line should be reported degenerate")
	}
}

func TestEngine_LowThresholdAcceptsLine(t *testing.T) {
	e := newTestEngine(t, Config{MinScore: 0.2})

	result, err := e.Recognize(lineStroke(20, 5, 0))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if !result.Matched() {
		t.Fatalf("line should clear a 0.2 threshold, score %f", result.Score)
	}
	if result.Score >= DefaultMinScore {
		t.Errorf("line score = %f, want below the default threshold %f", result.Score, DefaultMinScore)
	}
}

func TestEngine_ThresholdDisabled(t *testing.T) {
	e := newTestEngine(t, Config{MinScore: -1})

	result, err := e.Recognize(lineStroke(20, 5, 0))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if !result.Matched() {
		t.Error("negative MinScore should accept any comparable template")
	}
}

func TestEngine_EmptyLibrary(t *testing.T) {
	e := New(DefaultConfig())

	result, err := e.Recognize(circleStroke(32, 10, 0, 0))
	if err != nil {
		t.Fatalf("Recognize() error = %v, want nil", err)
	}
	if result.Matched() || result.Candidate != nil {
		t.Errorf("empty library produced %+v", result)
	}
	if !errors.Is(result.Reason, ErrNoTemplates) {
		t.Errorf("Reason = %v, want ErrNoTemplates", result.Reason)
	}
}

func TestEngine_InsufficientPoints(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	if _, err := e.SavePattern("dot", Stroke{{X: 1, Y: 1}}); !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("SavePattern(1 point) error = %v, want ErrInsufficientPoints", err)
	}

	tests := []struct {
		name   string
		stroke Stroke
		want   int
	}{
		{"empty", nil, DefaultMinPoints},
		{"single point", Stroke{{X: 1, Y: 1}}, DefaultMinPoints},
		{"below minimum", circleStroke(DefaultMinPoints-1, 10, 0, 0), DefaultMinPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.Recognize(tt.stroke)
			if !errors.Is(err, ErrInsufficientPoints) {
				t.Fatalf("error = %v, want ErrInsufficientPoints", err)
			}
			var ipe *InsufficientPointsError
			if !errors.As(err, &ipe) || ipe.Want != tt.want {
				t.Errorf("error = %v, want minimum %d", err, tt.want)
			}
			if result.Matched() {
				t.Error("short stroke should not match")
			}
		})
	}
}

func TestEngine_TwoPointStroke(t *testing.T) {
	e := newTestEngine(t, Config{MinPoints: 2})

	result, err := e.Recognize(Stroke{{X: 0, Y: 0}, {X: 40, Y: 30}})
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if !result.Degenerate {
		t.Error("two-point stroke should be degenerate")
	}
	if math.IsNaN(result.Score) || result.Score < 0 || result.Score > 1 {
		t.Errorf("score = %f, want a finite value in [0, 1]", result.Score)
	}
}

func TestEngine_ConfigDefaults(t *testing.T) {
	cfg := New(Config{}).Config()
	if cfg != DefaultConfig() {
		t.Errorf("New(Config{}).Config() = %+v, want %+v", cfg, DefaultConfig())
	}

	cfg = New(Config{MinPoints: 1, MinScore: -0.5}).Config()
	if cfg.MinPoints != MinStrokePoints {
		t.Errorf("MinPoints = %d, want floor %d", cfg.MinPoints, MinStrokePoints)
	}
	if cfg.MinScore != 0 {
		t.Errorf("MinScore = %f, want 0 when disabled", cfg.MinScore)
	}
}

func TestEngine_Observer(t *testing.T) {
	obs := &recordingObserver{}
	e := newTestEngine(t, DefaultConfig(), WithObserver(obs))

	e.Recognize(starStroke(80, 30, 5, 5))
	e.Recognize(nil)
	e.RemovePattern("star")
	e.RemovePattern("missing")

	if len(obs.results) != 2 {
		t.Fatalf("observed %d recognitions, want 2", len(obs.results))
	}
	if obs.results[0].Name() != "star" {
		t.Errorf("first observed result = %q, want star", obs.results[0].Name())
	}
	if !errors.Is(obs.results[1].Reason, ErrInsufficientPoints) {
		t.Errorf("second observed reason = %v", obs.results[1].Reason)
	}

	want := []int{1, 2, 3, 2}
	if len(obs.templates) != len(want) {
		t.Fatalf("template counts = %v, want %v", obs.templates, want)
	}
	for i := range want {
		if obs.templates[i] != want[i] {
			t.Errorf("template counts = %v, want %v", obs.templates, want)
			break
		}
	}
}

func TestEngine_ConcurrentRecognize(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	stroke := circleStroke(40, 20, 3, 3)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := e.Recognize(stroke)
			if err != nil || result.Name() != "circle" {
				t.Errorf("Recognize() = %q, %v", result.Name(), err)
			}
		}()
	}
	wg.Wait()
}
