// Package recorder collects keypoints into strokes and hands each finished
// stroke to a recognizer.
//
// A Recorder moves Idle -> Recording -> Evaluating -> Idle. Recording ends
// when the policy's point or duration limit is reached or when Stop is
// called.
package recorder

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/pkg/logger"
)

// State is the recorder lifecycle state.
type State int32

const (
	Idle State = iota
	Recording
	Evaluating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Evaluating:
		return "evaluating"
	default:
		return "unknown"
	}
}

// Policy decides when a recording ends. Zero values disable a limit.
type Policy struct {
	MaxPoints   int           `koanf:"max_points"`
	MaxDuration time.Duration `koanf:"max_duration"`
	// MinDistance drops points closer than this to the previous point.
	MinDistance float64 `koanf:"min_distance"`
}

// Recognizer matches a finished stroke. *gesture.Engine satisfies it.
type Recognizer interface {
	Recognize(stroke gesture.Stroke) (gesture.Result, error)
}

// Outcome is the result of one evaluated recording.
type Outcome struct {
	Result gesture.Result
	Err    error
	Points int
	At     time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// OnResult registers a callback invoked after every evaluation.
func OnResult(fn func(Outcome)) Option {
	return func(r *Recorder) {
		r.onResult = fn
	}
}

// WithLogger replaces the recorder logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Recorder) {
		r.log = l
	}
}

// Recorder buffers points for a single stroke at a time.
type Recorder struct {
	policy     Policy
	recognizer Recognizer
	now        func() time.Time
	onResult   func(Outcome)
	log        logger.Logger

	mu      sync.Mutex
	state   State
	buffer  gesture.Stroke
	started time.Time

	last atomic.Pointer[Outcome]
}

// New creates an idle Recorder.
func New(policy Policy, recognizer Recognizer, opts ...Option) *Recorder {
	r := &Recorder{
		policy:     policy,
		recognizer: recognizer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Named("recorder")
	}
	return r
}

// Policy returns the recording policy.
func (r *Recorder) Policy() Policy {
	return r.policy
}

// State returns the current state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start begins a new recording. It returns false unless the recorder is idle.
func (r *Recorder) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Idle {
		return false
	}
	r.state = Recording
	r.buffer = r.buffer[:0]
	r.started = r.now()
	return true
}

// AddPoint appends a point to the active recording. It returns true when
// the point ended the recording and triggered evaluation. A point arriving
// after the duration limit is still kept before the recording ends.
func (r *Recorder) AddPoint(p gesture.Point) bool {
	r.mu.Lock()
	if r.state != Recording {
		r.mu.Unlock()
		return false
	}

	if !r.tooCloseLocked(p) {
		if p.Timestamp == 0 {
			p.Timestamp = r.now().UnixMilli()
		}
		r.buffer = append(r.buffer, p)
	}

	full := r.policy.MaxPoints > 0 && len(r.buffer) >= r.policy.MaxPoints
	if !full && !r.expiredLocked() {
		r.mu.Unlock()
		return false
	}

	stroke := r.finishLocked()
	r.mu.Unlock()
	r.evaluate(stroke)
	return true
}

// tooCloseLocked reports whether p lies within MinDistance of the last point.
func (r *Recorder) tooCloseLocked(p gesture.Point) bool {
	n := len(r.buffer)
	if n == 0 || r.policy.MinDistance <= 0 {
		return false
	}
	prev := r.buffer[n-1]
	dx, dy := p.X-prev.X, p.Y-prev.Y
	return dx*dx+dy*dy < r.policy.MinDistance*r.policy.MinDistance
}

// Expire ends the recording if its duration limit has passed. Callers that
// may go without points for a while poll it.
func (r *Recorder) Expire() bool {
	r.mu.Lock()
	if r.state != Recording || !r.expiredLocked() {
		r.mu.Unlock()
		return false
	}
	stroke := r.finishLocked()
	r.mu.Unlock()
	r.evaluate(stroke)
	return true
}

// Stop ends the active recording and evaluates it. It returns false when
// nothing was recording.
func (r *Recorder) Stop() (*Outcome, bool) {
	r.mu.Lock()
	if r.state != Recording {
		r.mu.Unlock()
		return nil, false
	}
	stroke := r.finishLocked()
	r.mu.Unlock()
	return r.evaluate(stroke), true
}

// Cancel discards the active recording without evaluating it.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Recording {
		r.state = Idle
		r.buffer = r.buffer[:0]
	}
}

// Last returns the most recent outcome, or nil before the first evaluation.
func (r *Recorder) Last() *Outcome {
	return r.last.Load()
}

// Len returns the number of buffered points.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buffer)
}

func (r *Recorder) expiredLocked() bool {
	return r.policy.MaxDuration > 0 && r.now().Sub(r.started) >= r.policy.MaxDuration
}

// finishLocked moves to Evaluating and returns a copy of the buffer.
func (r *Recorder) finishLocked() gesture.Stroke {
	r.state = Evaluating
	stroke := make(gesture.Stroke, len(r.buffer))
	copy(stroke, r.buffer)
	r.buffer = r.buffer[:0]
	return stroke
}

func (r *Recorder) evaluate(stroke gesture.Stroke) *Outcome {
	ctx := context.Background()
	result, err := r.recognizer.Recognize(stroke)

	out := &Outcome{Result: result, Err: err, Points: len(stroke), At: r.now()}
	switch {
	case errors.Is(err, gesture.ErrInsufficientPoints):
		r.log.Info(ctx, "stroke too short, skipped", logger.Int("points", len(stroke)))
	case err != nil:
		r.log.Error(ctx, "recognition failed", logger.Error(err))
	case result.Matched():
		r.log.Info(ctx, "gesture recognized",
			logger.String("name", result.Name()), logger.Float64("score", result.Score))
	default:
		r.log.Debug(ctx, "no gesture matched",
			logger.Int("points", len(stroke)), logger.Float64("score", result.Score))
	}

	r.last.Store(out)

	r.mu.Lock()
	r.state = Idle
	r.mu.Unlock()

	if r.onResult != nil {
		r.onResult(*out)
	}
	return out
}
