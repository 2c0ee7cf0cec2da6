package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// Queued results are returned one per Detect call; once the queue is
// drained the fixed result set with SetLandmarks is returned.
type MockDetector struct {
	mu     sync.Mutex
	fixed  []Landmarks
	queue  [][]Landmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetLandmarks sets the result returned when the queue is empty.
func (m *MockDetector) SetLandmarks(subjects []Landmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixed = subjects
}

// Queue appends per-call results.
func (m *MockDetector) Queue(results ...[]Landmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, results...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next queued result, the fixed result, or the error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Landmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.fixed, nil
}

// Calls returns the number of Detect calls.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// PoseAt returns a pose whose landmark index sits at normalized (x, y).
// The other landmarks are placed at the image center.
func PoseAt(index int, x, y float64) Landmarks {
	lm := Landmarks{Points: make([]Point3D, NumPoseLandmarks), Score: 0.9}
	for i := range lm.Points {
		lm.Points[i] = Point3D{X: 0.5, Y: 0.5}
	}
	if index >= 0 && index < NumPoseLandmarks {
		lm.Points[index] = Point3D{X: x, Y: y}
	}
	return lm
}
