package gesture

import "math"

const (
	// MinStrokePoints is the fewest points a stroke can have and still be normalized.
	MinStrokePoints = 2

	// DegenerateRatio is the smallest ratio between the short and the long side
	// of the bounding box that is still scaled independently.
	DegenerateRatio = 1e-3

	// minExtent is the extent below which a stroke is treated as a single point.
	minExtent = 1e-9
)

// Normalizer converts raw strokes into canonical form.
// The zero value is not usable; create one with NewNormalizer.
type Normalizer struct {
	n    int
	size float64
}

// NewNormalizer creates a Normalizer resampling to n points and scaling to a
// size x size reference box. Non-positive arguments fall back to the defaults.
func NewNormalizer(n int, size float64) Normalizer {
	if n < MinStrokePoints {
		n = DefaultResampleCount
	}
	if size <= 0 {
		size = DefaultBoxSize
	}
	return Normalizer{n: n, size: size}
}

// N returns the resample count.
func (z Normalizer) N() int { return z.n }

// Size returns the reference box edge length.
func (z Normalizer) Size() float64 { return z.size }

// Normalize resamples, rotates, scales and translates the stroke.
// It does not modify the input.
func (z Normalizer) Normalize(stroke Stroke) (Canonical, error) {
	if len(stroke) < MinStrokePoints {
		return Canonical{}, insufficient(len(stroke), MinStrokePoints)
	}

	points := Resample(stroke, z.n)
	points = RotateToIndicativeAngle(points)
	points, degenerate := ScaleToBox(points, z.size)
	points = TranslateToOrigin(points)

	return Canonical{Points: points, Degenerate: degenerate}, nil
}

// Resample returns exactly n points spaced equally along the path of the
// input, interpolating linearly between the original points. A path of zero
// length yields n copies of its first point.
func Resample(points []Point, n int) []Point {
	if len(points) == 0 || n <= 0 {
		return nil
	}

	result := make([]Point, 0, n)
	result = append(result, points[0])
	if n == 1 {
		return result
	}

	interval := pathLength(points) / float64(n-1)
	if interval == 0 {
		for len(result) < n {
			result = append(result, points[0])
		}
		return result
	}

	// prev tracks the last emitted or consumed position so that emitted
	// points become the start of the next segment.
	var walked float64
	prev := points[0]
	for i := 1; i < len(points) && len(result) < n; {
		cur := points[i]
		d := pointDistance(prev, cur)

		if d > 0 && walked+d >= interval {
			t := (interval - walked) / d
			q := Point{
				X:         prev.X + t*(cur.X-prev.X),
				Y:         prev.Y + t*(cur.Y-prev.Y),
				Timestamp: prev.Timestamp + int64(t*float64(cur.Timestamp-prev.Timestamp)),
			}
			result = append(result, q)
			prev = q
			walked = 0
			continue
		}

		walked += d
		prev = cur
		i++
	}

	// Rounding can leave the walk one point short.
	last := points[len(points)-1]
	for len(result) < n {
		result = append(result, last)
	}

	return result
}

// IndicativeAngle returns the angle between the positive x axis and the
// vector from the centroid to the first point.
func IndicativeAngle(points []Point) float64 {
	c := centroid(points)
	return math.Atan2(points[0].Y-c.Y, points[0].X-c.X)
}

// RotateToIndicativeAngle rotates the points about their centroid so the
// first point lies on the positive x axis relative to the centroid.
func RotateToIndicativeAngle(points []Point) []Point {
	return RotateBy(points, -IndicativeAngle(points))
}

// RotateBy rotates the points by angle radians about their centroid.
func RotateBy(points []Point, angle float64) []Point {
	return rotateAbout(points, angle, centroid(points))
}

func rotateAbout(points []Point, angle float64, c Point) []Point {
	cos, sin := math.Cos(angle), math.Sin(angle)
	rotated := make([]Point, len(points))
	for i, p := range points {
		dx := p.X - c.X
		dy := p.Y - c.Y
		rotated[i] = Point{
			X:         dx*cos - dy*sin + c.X,
			Y:         dx*sin + dy*cos + c.Y,
			Timestamp: p.Timestamp,
		}
	}
	return rotated
}

// ScaleToBox scales x and y independently so the bounding box becomes
// size x size. An axis whose extent is below DegenerateRatio of the other is
// scaled with the other axis' factor; a stroke with no extent at all is left
// unscaled. The second return value reports whether either clamp applied.
func ScaleToBox(points []Point, size float64) ([]Point, bool) {
	box := boundingBox(points)
	longest := math.Max(box.Width, box.Height)

	scaled := make([]Point, len(points))
	if longest < minExtent {
		copy(scaled, points)
		return scaled, true
	}

	uniform := size / longest
	sx, sy := uniform, uniform
	degenerate := false

	if box.Width >= DegenerateRatio*longest {
		sx = size / box.Width
	} else {
		degenerate = true
	}
	if box.Height >= DegenerateRatio*longest {
		sy = size / box.Height
	} else {
		degenerate = true
	}

	for i, p := range points {
		scaled[i] = Point{X: p.X * sx, Y: p.Y * sy, Timestamp: p.Timestamp}
	}
	return scaled, degenerate
}

// TranslateToOrigin moves the points so their centroid is at (0, 0).
func TranslateToOrigin(points []Point) []Point {
	c := centroid(points)
	translated := make([]Point, len(points))
	for i, p := range points {
		translated[i] = Point{X: p.X - c.X, Y: p.Y - c.Y, Timestamp: p.Timestamp}
	}
	return translated
}
