package gesture

import "math"

// phi is the golden section ratio used to place the search probes.
var phi = 0.5 * (math.Sqrt(5) - 1)

// PathDistance returns the mean distance between corresponding points.
// Returns infinity if the paths are empty or differ in length.
func PathDistance(a, b []Point) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.Inf(1)
	}

	var d float64
	for i := range a {
		d += pointDistance(a[i], b[i])
	}
	return d / float64(len(a))
}

// distanceAtAngle rotates the candidate by angle about the origin and
// measures it against the template. Both are expected to be centered.
func distanceAtAngle(candidate, template []Point, angle float64) float64 {
	return PathDistance(rotateAbout(candidate, angle, Point{}), template)
}

// DistanceAtBestAngle finds the rotation in [from, to] that minimizes the
// path distance using a golden section search, stopping once the search
// interval is no wider than precision. Returns the minimum distance found.
func DistanceAtBestAngle(candidate, template []Point, from, to, precision float64) float64 {
	a, b := from, to

	x1 := phi*a + (1-phi)*b
	f1 := distanceAtAngle(candidate, template, x1)
	x2 := (1-phi)*a + phi*b
	f2 := distanceAtAngle(candidate, template, x2)

	for math.Abs(b-a) > precision {
		if f1 < f2 {
			b = x2
			x2, f2 = x1, f1
			x1 = phi*a + (1-phi)*b
			f1 = distanceAtAngle(candidate, template, x1)
		} else {
			a = x1
			x1, f1 = x2, f2
			x2 = (1-phi)*a + phi*b
			f2 = distanceAtAngle(candidate, template, x2)
		}
	}

	return math.Min(f1, f2)
}

// HalfDiagonal returns half the diagonal of a size x size box, the distance
// at which a match scores zero.
func HalfDiagonal(size float64) float64 {
	return 0.5 * math.Sqrt(2*size*size)
}

// ScoreFromDistance maps a path distance to [0, 1] relative to the reference
// box: 0 scores 1 and anything at or beyond the half diagonal scores 0.
func ScoreFromDistance(distance, size float64) float64 {
	if math.IsInf(distance, 0) || math.IsNaN(distance) {
		return 0
	}
	return math.Max(0, 1-distance/HalfDiagonal(size))
}
