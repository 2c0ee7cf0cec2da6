// Package detector extracts body keypoints from camera frames. Inference
// runs in an external MediaPipe process; this package is its client.
package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector defines the interface for landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns one Landmarks per detected
	// subject. Returns an empty slice if nothing is detected.
	Detect(frame *gocv.Mat) ([]Landmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Mode selects the landmark model the service runs.
type Mode string

const (
	ModePose  Mode = "pose"
	ModeHands Mode = "hands"
)

// Config holds configuration options for landmark detection.
type Config struct {
	Mode Mode `koanf:"mode"`

	// MaxSubjects is the maximum number of poses or hands to detect.
	MaxSubjects int `koanf:"max_subjects"`

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64 `koanf:"min_confidence"`

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64 `koanf:"min_tracking_confidence"`

	// IdleTimeout stops the service process after this long without frames.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// Script overrides the service script location.
	Script string `koanf:"script"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Mode:            ModePose,
		MaxSubjects:     1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
	}
}
