package gesture

import (
	"context"
	"math"
	"time"

	"github.com/ayusman/airsketch/pkg/logger"
)

// Engine defaults.
const (
	// DefaultResampleCount is the number of points in a canonical stroke.
	DefaultResampleCount = 64
	// DefaultBoxSize is the edge length of the reference box.
	DefaultBoxSize = 250.0
	// DefaultAngleRange is the rotation search half-width (45 degrees).
	DefaultAngleRange = math.Pi / 4
	// DefaultAnglePrecision is the rotation search stopping width (2 degrees).
	DefaultAnglePrecision = math.Pi / 90
	// DefaultMinScore suppresses matches that score below it. A straight
	// line scores about 0.5 against a star, so lower values let lines match.
	DefaultMinScore = 0.6
	// DefaultMinPoints is the shortest stroke Recognize will evaluate.
	DefaultMinPoints = 10
)

// Config holds the tunables of the recognition engine.
type Config struct {
	ResampleCount  int     `koanf:"resample_count"`
	BoxSize        float64 `koanf:"box_size"`
	AngleRange     float64 `koanf:"angle_range"`     // radians
	AnglePrecision float64 `koanf:"angle_precision"` // radians
	MinScore       float64 `koanf:"min_score"`
	MinPoints      int     `koanf:"min_points"`
}

// DefaultConfig returns a Config with the default values.
func DefaultConfig() Config {
	return Config{
		ResampleCount:  DefaultResampleCount,
		BoxSize:        DefaultBoxSize,
		AngleRange:     DefaultAngleRange,
		AnglePrecision: DefaultAnglePrecision,
		MinScore:       DefaultMinScore,
		MinPoints:      DefaultMinPoints,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ResampleCount < MinStrokePoints {
		c.ResampleCount = d.ResampleCount
	}
	if c.BoxSize <= 0 {
		c.BoxSize = d.BoxSize
	}
	if c.AngleRange <= 0 {
		c.AngleRange = d.AngleRange
	}
	if c.AnglePrecision <= 0 {
		c.AnglePrecision = d.AnglePrecision
	}
	switch {
	case c.MinScore == 0:
		c.MinScore = d.MinScore
	case c.MinScore < 0:
		c.MinScore = 0 // negative disables the threshold
	}
	if c.MinPoints == 0 {
		c.MinPoints = d.MinPoints
	}
	if c.MinPoints < MinStrokePoints {
		c.MinPoints = MinStrokePoints
	}
	return c
}

// Result is the outcome of a single Recognize call. Template is nil when
// nothing matched.
type Result struct {
	Template *Template
	Score    float64
	Distance float64

	// Candidate is the closest template even when its score fell below the
	// threshold. It is nil when no template could be compared.
	Candidate *Template

	// Reason explains a missing match: ErrInsufficientPoints, ErrNoTemplates,
	// or nil when the best score was below the threshold.
	Reason error

	Degenerate bool
}

// Matched reports whether a template was recognized.
func (r Result) Matched() bool {
	return r.Template != nil
}

// Name returns the recognized template name or "" when nothing matched.
func (r Result) Name() string {
	if r.Template == nil {
		return ""
	}
	return r.Template.Name
}

// Observer receives a notification for every Recognize call.
type Observer interface {
	ObserveRecognition(r Result, elapsed time.Duration)
	ObserveTemplates(count int)
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver attaches an Observer to the engine.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithLogger replaces the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine recognizes strokes against a template store. It keeps no
// per-call state, so Recognize may be called from several goroutines.
type Engine struct {
	config     Config
	normalizer Normalizer
	matcher    Matcher
	store      *Store
	observer   Observer
	log        logger.Logger
}

// New creates an Engine with an empty template store.
func New(config Config, opts ...Option) *Engine {
	config = config.withDefaults()
	z := NewNormalizer(config.ResampleCount, config.BoxSize)

	e := &Engine{
		config:     config,
		normalizer: z,
		matcher:    NewMatcher(config.AngleRange, config.AnglePrecision),
		store:      NewStore(z),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Named("gesture")
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Templates returns the engine's template store.
func (e *Engine) Templates() *Store {
	return e.store
}

// Normalizer returns the engine's normalizer.
func (e *Engine) Normalizer() Normalizer {
	return e.normalizer
}

// SavePattern normalizes the stroke and registers it as a template under
// name, replacing an existing template of the same name.
func (e *Engine) SavePattern(name string, stroke Stroke) (*Template, error) {
	t, err := e.store.Save(name, stroke)
	if err != nil {
		return nil, err
	}

	if t.Canonical.Degenerate {
		e.log.Warn(context.Background(), "degenerate pattern saved",
			logger.String("name", name), logger.Int("points", len(stroke)))
	}
	e.log.Debug(context.Background(), "pattern saved", logger.String("name", name), logger.String("id", t.ID))

	if e.observer != nil {
		e.observer.ObserveTemplates(e.store.Len())
	}
	return t, nil
}

// SaveCanonical registers an already normalized stroke, such as the
// average produced by a Trainer.
func (e *Engine) SaveCanonical(name string, c Canonical) (*Template, error) {
	t, err := e.store.SaveCanonical(name, c)
	if err != nil {
		return nil, err
	}
	if e.observer != nil {
		e.observer.ObserveTemplates(e.store.Len())
	}
	return t, nil
}

// RemovePattern deletes the template stored under name.
func (e *Engine) RemovePattern(name string) bool {
	removed := e.store.Remove(name)
	if removed && e.observer != nil {
		e.observer.ObserveTemplates(e.store.Len())
	}
	return removed
}

// Recognize matches the stroke against every stored template.
//
// A stroke shorter than the configured minimum yields a no-match Result and
// an error wrapping ErrInsufficientPoints; callers should treat it as a
// skipped attempt. An empty store yields a no-match Result and a nil error.
// Matches scoring below MinScore are reported as no match.
func (e *Engine) Recognize(stroke Stroke) (Result, error) {
	start := time.Now()
	result, err := e.recognize(stroke)

	if e.observer != nil {
		e.observer.ObserveRecognition(result, time.Since(start))
	}
	return result, err
}

func (e *Engine) recognize(stroke Stroke) (Result, error) {
	want := max(e.config.MinPoints, MinStrokePoints)
	if len(stroke) < want {
		err := insufficient(len(stroke), want)
		return Result{Reason: ErrInsufficientPoints}, err
	}

	candidate, err := e.normalizer.Normalize(stroke)
	if err != nil {
		return Result{Reason: ErrInsufficientPoints}, err
	}
	if candidate.Degenerate {
		e.log.Warn(context.Background(), "degenerate stroke, using clamped scale",
			logger.Int("points", len(stroke)))
	}

	best, distance, ok := e.matcher.Match(candidate, e.store.All())
	if !ok {
		return Result{Reason: ErrNoTemplates, Degenerate: candidate.Degenerate}, nil
	}

	result := Result{
		Score:      ScoreFromDistance(distance, e.config.BoxSize),
		Distance:   distance,
		Candidate:  best,
		Degenerate: candidate.Degenerate,
	}
	if result.Score >= e.config.MinScore {
		result.Template = best
	}
	return result, nil
}
