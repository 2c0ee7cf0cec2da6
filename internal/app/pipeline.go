package app

import (
	"context"
	"time"

	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/recorder"
	"github.com/ayusman/airsketch/pkg/logger"
)

// runPipeline is the capture loop. It runs at IdleFPS while the motion
// gate is closed and at the configured rate while it is open.
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	active := false
	ticker := time.NewTicker(frameInterval(IdleFPS))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			open := a.processFrame()
			if open == active {
				continue
			}
			active = open
			fps := IdleFPS
			if active {
				fps = a.config.FPS
			}
			a.camera.SetFPS(fps)
			ticker.Reset(frameInterval(fps))
			a.log.Debug(context.Background(), "capture rate changed", logger.Int("fps", fps))
		}
	}
}

// processFrame handles one camera frame and reports whether the motion
// gate is open.
func (a *App) processFrame() bool {
	if !a.IsEnabled() {
		return false
	}
	ctx := context.Background()

	a.recorder.Expire()

	frame, err := a.camera.ReadFrame()
	if err != nil {
		a.log.Warn(ctx, "failed to read frame", logger.Error(err))
		return false
	}
	defer frame.Close()

	open := true
	if a.motion != nil {
		moved, changed := a.motion.Detect(frame)
		open = a.gate.Update(moved)
		if moved {
			a.log.Debug(ctx, "motion", logger.Float64("changed", changed))
		}
	}

	if !open {
		a.armed = true
		if a.config.AutoRecord && a.recorder.State() == recorder.Recording {
			a.recorder.Stop()
		}
		return false
	}

	subjects, err := a.detector.Detect(frame)
	if err != nil {
		a.log.Warn(ctx, "landmark detection failed", logger.Error(err))
		return true
	}
	kp, ok := detector.Keypoint(subjects, a.config.Landmark)
	if !ok {
		return true
	}

	if a.config.AutoRecord && a.armed && a.recorder.State() == recorder.Idle {
		a.recorder.Start()
		a.armed = false
	}
	a.HandleKeypoint(a.projection.Project(kp))
	return true
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = IdleFPS
	}
	return time.Second / time.Duration(fps)
}
