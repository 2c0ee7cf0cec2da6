package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// BlurKernel is the Gaussian kernel edge applied before differencing.
	BlurKernel = 21
	// PixelDelta is the grey-level change that marks a pixel as moved.
	PixelDelta = 25
	// DefaultHoldFrames keeps the gate open after motion stops.
	DefaultHoldFrames = 10
)

// MotionDetector reports the share of pixels that changed between two
// consecutive frames. It is used to skip landmark inference while the
// scene is still.
type MotionDetector struct {
	mu          sync.Mutex
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
}

// NewMotionDetector creates a detector that fires when more than
// threshold percent of the pixels change.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares frame with the previous one. The first frame only sets
// the baseline and never reports motion.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	blurred := greyBlur(frame)
	defer blurred.Close()

	if !m.initialized || m.prevGray.Rows() != blurred.Rows() || m.prevGray.Cols() != blurred.Cols() {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)
	gocv.Threshold(diff, &diff, PixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(diff)) / float64(diff.Rows()*diff.Cols()) * 100.0

	blurred.CopyTo(&m.prevGray)

	return changed > m.threshold, changed
}

func greyBlur(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}
	gocv.GaussianBlur(gray, &gray, image.Point{X: BlurKernel, Y: BlurKernel}, 0, 0, gocv.BorderDefault)
	return gray
}

// Reset drops the baseline frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases the baseline Mat. It is safe to call more than once.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// SetThreshold changes the trigger percentage. Values <= 0 are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}

// Threshold returns the trigger percentage.
func (m *MotionDetector) Threshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}

// Gate debounces motion results so a brief pause in the middle of a
// stroke does not stop landmark inference.
type Gate struct {
	hold      int
	remaining int
}

// NewGate keeps the gate open for hold frames after the last motion.
func NewGate(hold int) *Gate {
	if hold < 0 {
		hold = 0
	}
	return &Gate{hold: hold}
}

// Update feeds one motion result and reports whether the gate is open.
func (g *Gate) Update(motion bool) bool {
	if motion {
		g.remaining = g.hold
		return true
	}
	if g.remaining > 0 {
		g.remaining--
		return true
	}
	return false
}

// Open keeps the gate open for the full hold period, as if motion was seen.
func (g *Gate) Open() {
	g.remaining = g.hold
}
