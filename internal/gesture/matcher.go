package gesture

import "math"

// Matcher scores a canonical candidate against templates using a
// rotation-searched path distance.
type Matcher struct {
	angleRange     float64
	anglePrecision float64
}

// NewMatcher creates a Matcher searching rotations in [-angleRange, angleRange]
// radians until the interval is narrower than precision radians.
func NewMatcher(angleRange, precision float64) Matcher {
	if angleRange <= 0 {
		angleRange = DefaultAngleRange
	}
	if precision <= 0 {
		precision = DefaultAnglePrecision
	}
	return Matcher{angleRange: angleRange, anglePrecision: precision}
}

// Distance returns the rotation-invariant distance between the candidate
// and a single template.
func (m Matcher) Distance(candidate Canonical, t *Template) float64 {
	if t == nil {
		return math.Inf(1)
	}
	return DistanceAtBestAngle(candidate.Points, t.Canonical.Points, -m.angleRange, m.angleRange, m.anglePrecision)
}

// Match returns the template closest to the candidate and its distance.
// ok is false when there are no comparable templates. When two templates are
// equally close the one that comes first in templates wins.
func (m Matcher) Match(candidate Canonical, templates []*Template) (best *Template, distance float64, ok bool) {
	distance = math.Inf(1)

	for _, t := range templates {
		if t == nil || t.Canonical.Len() != candidate.Len() {
			continue
		}

		d := m.Distance(candidate, t)
		if d < distance {
			best = t
			distance = d
		}
	}

	if best == nil {
		return nil, 0, false
	}
	return best, distance, true
}
