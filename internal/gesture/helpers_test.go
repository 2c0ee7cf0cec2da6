package gesture

import "math"

// circleStroke returns a closed circle starting at angle 0.
func circleStroke(n int, r, cx, cy float64) Stroke {
	s := make(Stroke, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n-1)
		s[i] = Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a), Timestamp: int64(i * 33)}
	}
	return s
}

// squareStroke returns the closed outline of a square drawn from its top-left corner.
func squareStroke(side, x, y float64) Stroke {
	return Stroke{
		{X: x, Y: y},
		{X: x + side, Y: y},
		{X: x + side, Y: y + side},
		{X: x, Y: y + side},
		{X: x, Y: y},
	}
}

// starStroke returns a closed five-pointed star.
func starStroke(outer, inner, cx, cy float64) Stroke {
	s := make(Stroke, 0, 11)
	for i := 0; i <= 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		s = append(s, Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	return s
}

// lineStroke returns n evenly spaced points on a straight line.
func lineStroke(n int, dx, dy float64) Stroke {
	s := make(Stroke, n)
	for i := range s {
		s[i] = Point{X: float64(i) * dx, Y: float64(i) * dy}
	}
	return s
}

// transform rotates by angle radians about the origin, scales, then translates.
func transform(s Stroke, angle, scale, tx, ty float64) Stroke {
	cos, sin := math.Cos(angle), math.Sin(angle)
	out := make(Stroke, len(s))
	for i, p := range s {
		out[i] = Point{
			X:         scale*(p.X*cos-p.Y*sin) + tx,
			Y:         scale*(p.X*sin+p.Y*cos) + ty,
			Timestamp: p.Timestamp,
		}
	}
	return out
}

func floatEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func finite(points []Point) bool {
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}
