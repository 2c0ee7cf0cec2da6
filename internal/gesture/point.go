// Package gesture implements unistroke gesture recognition: strokes are
// normalized into a canonical form and compared against named templates
// with a rotation-searched path distance.
package gesture

import "math"

// Point is a single sample of a stroke.
type Point struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp int64   `json:"timestamp,omitempty"` // milliseconds, informational only
}

// Stroke is an ordered sequence of points. Order is the order in which
// the points were captured and defines the path.
type Stroke []Point

// Canonical is a stroke after normalization: exactly N points, centered at
// the origin, scaled to the reference box and rotated to its indicative angle.
// Two canonical strokes are comparable only when produced with the same N
// and box size.
type Canonical struct {
	Points []Point

	// Degenerate is set when one or both bounding box extents were too small
	// to scale independently and a clamped factor was used instead.
	Degenerate bool
}

// Len returns the number of points in the canonical stroke.
func (c Canonical) Len() int {
	return len(c.Points)
}

// pointDistance calculates the Euclidean distance between two points.
func pointDistance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// pathLength is the sum of distances between consecutive points.
func pathLength(points []Point) float64 {
	var d float64
	for i := 1; i < len(points); i++ {
		d += pointDistance(points[i-1], points[i])
	}
	return d
}

// centroid returns the mean of all points.
func centroid(points []Point) Point {
	var x, y float64
	for _, p := range points {
		x += p.X
		y += p.Y
	}
	n := float64(len(points))
	return Point{X: x / n, Y: y / n}
}

// rect is an axis-aligned bounding box.
type rect struct {
	X, Y          float64
	Width, Height float64
}

func boundingBox(points []Point) rect {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y

	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	return rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
