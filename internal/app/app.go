// Package app wires the airsketch pipeline: camera frames pass a motion
// gate, the detector yields a keypoint, the recorder turns keypoints into
// strokes and the engine recognizes them. Matches are recorded in the
// store and dispatched to the plugin bound to the gesture.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ayusman/airsketch/internal/capture"
	"github.com/ayusman/airsketch/internal/config"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/plugin"
	"github.com/ayusman/airsketch/internal/recorder"
	"github.com/ayusman/airsketch/internal/store"
	"github.com/ayusman/airsketch/pkg/logger"
)

// IdleFPS is the frame rate while the motion gate is closed.
const IdleFPS = 5

// Config holds configuration options for the application.
type Config struct {
	Engine   gesture.Config
	Policy   recorder.Policy
	Detector detector.Config

	CameraID int
	FPS      int
	Mirror   bool
	// MotionThresh is the percentage of changed pixels that opens the
	// gate. A negative value disables gating.
	MotionThresh float64
	AutoRecord   bool

	// Landmark is the tracked keypoint index.
	Landmark int
	ScreenW  int
	ScreenH  int

	PluginDir     string
	PluginTimeout time.Duration
}

// FromConfig maps the process configuration onto the pipeline config.
func FromConfig(c *config.Config) Config {
	return Config{
		Engine:        c.Engine,
		Policy:        c.Recorder,
		Detector:      c.Detector,
		CameraID:      c.Capture.CameraID,
		FPS:           c.Capture.FPS,
		Mirror:        c.Capture.Mirror,
		MotionThresh:  c.Capture.MotionThresh,
		AutoRecord:    c.Capture.AutoRecord,
		Landmark:      c.Capture.Landmark,
		ScreenW:       c.Capture.ScreenW,
		ScreenH:       c.Capture.ScreenH,
		PluginDir:     c.Plugins.Dir,
		PluginTimeout: c.Plugins.Timeout,
	}
}

// Option configures an App.
type Option func(*App)

// WithStore persists history, bindings and the enabled flag.
func WithStore(s *store.Store) Option {
	return func(a *App) { a.store = s }
}

// WithEngine uses a prepared engine instead of building one from Config.
func WithEngine(e *gesture.Engine) Option {
	return func(a *App) { a.engine = e }
}

// WithCamera replaces the device camera.
func WithCamera(c capture.Camera) Option {
	return func(a *App) { a.camera = c }
}

// WithDetector replaces the landmark service client.
func WithDetector(d detector.Detector) Option {
	return func(a *App) { a.detector = d }
}

// WithLogger replaces the app logger.
func WithLogger(l logger.Logger) Option {
	return func(a *App) { a.log = l }
}

// App is the main application that orchestrates gesture capture,
// recognition and action execution.
type App struct {
	config     Config
	store      *store.Store
	engine     *gesture.Engine
	recorder   *recorder.Recorder
	camera     capture.Camera
	motion     *capture.MotionDetector
	gate       *capture.Gate
	detector   detector.Detector
	projection detector.Projection
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	log        logger.Logger

	mu      sync.RWMutex
	enabled bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	subMu       sync.RWMutex
	subscribers map[int]func(Event)
	nextSub     int

	// armed allows the next automatic recording. It is cleared when an
	// automatic stroke ends and set again once the gate closes.
	armed bool

	dispatching sync.WaitGroup
}

// New creates a new App instance with the given configuration.
func New(config Config, opts ...Option) *App {
	a := &App{
		config:      config,
		subscribers: make(map[int]func(Event)),
		armed:       true,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.Named("app")
	}
	ctx := context.Background()

	if a.engine == nil {
		a.engine = gesture.New(config.Engine)
	}
	a.recorder = recorder.New(config.Policy, a.engine, recorder.OnResult(a.handleOutcome))

	if a.camera == nil {
		a.camera = capture.NewCamera(capture.Options{
			DeviceID: config.CameraID,
			FPS:      config.FPS,
			Mirror:   config.Mirror,
		})
	}
	if config.MotionThresh >= 0 {
		thresh := config.MotionThresh
		if thresh == 0 {
			thresh = 1.0
		}
		a.motion = capture.NewMotionDetector(thresh)
		a.gate = capture.NewGate(capture.DefaultHoldFrames)
	}

	if a.detector == nil {
		if d, err := detector.NewServiceDetector(config.Detector); err == nil {
			a.detector = d
			a.log.Info(ctx, "using landmark service", logger.String("mode", string(config.Detector.Mode)))
		} else {
			a.log.Warn(ctx, "landmark service not available, using mock detector", logger.Error(err))
			a.detector = detector.NewMockDetector()
		}
	}

	// Frames are mirrored by the camera, so the projection only flips y
	// to get a y-up drawing plane.
	a.projection = detector.Projection{
		Width:  float64(config.ScreenW),
		Height: float64(config.ScreenH),
		FlipY:  true,
	}

	a.pluginMgr = plugin.NewManager(config.PluginDir)
	a.pluginExec = plugin.NewExecutor(config.PluginTimeout)

	a.enabled = true
	if a.store != nil {
		a.enabled = a.store.Settings().GetBool(store.SettingEnabled, true)
	}

	return a
}

// SetEnabled enables or disables gesture detection. Disabling cancels an
// active recording.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if !enabled {
		a.recorder.Cancel()
	}
	if a.store != nil {
		if err := a.store.Settings().SetBool(store.SettingEnabled, enabled); err != nil {
			a.log.Error(context.Background(), "failed to persist enabled flag", logger.Error(err))
		}
	}
	a.log.Info(context.Background(), "detection toggled", logger.Bool("enabled", enabled))
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// StartRecording begins a stroke on an explicit signal. It returns false
// when detection is disabled or a stroke is already in progress.
func (a *App) StartRecording() bool {
	if !a.IsEnabled() {
		return false
	}
	return a.recorder.Start()
}

// StopRecording ends the active stroke and evaluates it.
func (a *App) StopRecording() (*recorder.Outcome, bool) {
	return a.recorder.Stop()
}

// HandleKeypoint feeds one screen-space point to the active recording. It
// returns true when the point completed a stroke.
func (a *App) HandleKeypoint(p gesture.Point) bool {
	if !a.IsEnabled() {
		return false
	}
	return a.recorder.AddPoint(p)
}

// Start opens the camera and begins the capture pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.log.Info(context.Background(), "capture pipeline started", logger.Int("camera", a.config.CameraID))
	return nil
}

// Stop halts the pipeline, waits for pending actions and releases
// resources.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}
	a.recorder.Cancel()
	a.dispatching.Wait()

	ctx := context.Background()
	if err := a.camera.Close(); err != nil {
		a.log.Error(ctx, "failed to close camera", logger.Error(err))
	}
	if a.motion != nil {
		a.motion.Close()
	}
	if err := a.detector.Close(); err != nil {
		a.log.Error(ctx, "failed to close detector", logger.Error(err))
	}

	a.log.Info(ctx, "capture pipeline stopped")
}

// Wait blocks until dispatched plugin actions finish.
func (a *App) Wait() {
	a.dispatching.Wait()
}

// Subscribe registers fn for every recognition event. The returned
// function removes the subscription.
func (a *App) Subscribe(fn func(Event)) (unsubscribe func()) {
	a.subMu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subscribers[id] = fn
	a.subMu.Unlock()

	return func() {
		a.subMu.Lock()
		delete(a.subscribers, id)
		a.subMu.Unlock()
	}
}

// Engine returns the recognition engine.
func (a *App) Engine() *gesture.Engine {
	return a.engine
}

// Recorder returns the stroke recorder.
func (a *App) Recorder() *recorder.Recorder {
	return a.recorder
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Store returns the attached store, or nil.
func (a *App) Store() *store.Store {
	return a.store
}

// handleOutcome runs on the goroutine that ended the recording.
func (a *App) handleOutcome(o recorder.Outcome) {
	ctx := context.Background()
	ev := newEvent(o)

	if a.store != nil && o.Err == nil {
		rec := &store.Recognition{
			GestureName: o.Result.Name(),
			Score:       o.Result.Score,
			Distance:    o.Result.Distance,
			Points:      o.Points,
			Matched:     o.Result.Matched(),
			CreatedAt:   o.At,
		}
		if err := a.store.History().Record(rec); err != nil {
			a.log.Error(ctx, "failed to record recognition", logger.Error(err))
		}
	}

	if !o.Result.Matched() {
		a.publish(ev)
		return
	}

	a.dispatching.Add(1)
	go func() {
		defer a.dispatching.Done()
		ev.Action = a.dispatch(ctx, o.Result.Name(), o.Result.Score)
		a.publish(ev)
	}()
}

// dispatch runs the plugin action bound to gesture. It returns nil when
// nothing is bound.
func (a *App) dispatch(ctx context.Context, gestureName string, score float64) *ActionEvent {
	if a.store == nil {
		return nil
	}

	b, err := a.store.Bindings().GetByGesture(gestureName)
	if err != nil {
		a.log.Error(ctx, "failed to look up binding", logger.String("gesture", gestureName), logger.Error(err))
		return nil
	}
	if b == nil || !b.Enabled {
		return nil
	}

	ae := &ActionEvent{Plugin: b.PluginName, Action: b.ActionName}

	p, err := a.pluginMgr.Get(b.PluginName)
	if err != nil {
		ae.Error = err.Error()
		a.log.Warn(ctx, "bound plugin missing", logger.String("plugin", b.PluginName), logger.Error(err))
		return ae
	}

	resp, err := a.pluginExec.Execute(ctx, p, &plugin.Request{
		Action:  b.ActionName,
		Gesture: gestureName,
		Score:   score,
		Config:  b.Config,
	})
	switch {
	case errors.Is(err, plugin.ErrTimeout):
		ae.Error = err.Error()
		a.log.Warn(ctx, "plugin timed out", logger.String("plugin", b.PluginName))
	case err != nil:
		ae.Error = err.Error()
		a.log.Error(ctx, "plugin failed", logger.String("plugin", b.PluginName), logger.Error(err))
	case !resp.Success:
		ae.Error = resp.Error
		a.log.Warn(ctx, "plugin reported failure", logger.String("plugin", b.PluginName), logger.String("error", resp.Error))
	default:
		ae.Success = true
		a.log.Info(ctx, "action executed",
			logger.String("gesture", gestureName),
			logger.String("plugin", b.PluginName),
			logger.String("action", b.ActionName))
	}
	return ae
}

func (a *App) publish(ev Event) {
	a.subMu.RLock()
	defer a.subMu.RUnlock()
	for _, fn := range a.subscribers {
		fn(ev)
	}
}
