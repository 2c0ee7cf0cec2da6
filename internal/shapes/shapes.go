// Package shapes provides stroke generators for common gestures and a
// loader for hand-authored template files.
package shapes

import (
	"math"
	"sort"

	"github.com/ayusman/airsketch/internal/gesture"
)

// Circle returns a closed circle of n points starting at angle 0.
func Circle(n int, radius float64) gesture.Stroke {
	if n < 2 {
		n = 2
	}
	s := make(gesture.Stroke, n)
	for i := range s {
		a := 2 * math.Pi * float64(i) / float64(n-1)
		s[i] = gesture.Point{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return s
}

// Square returns a closed square outline starting at its top-left corner.
func Square(side float64) gesture.Stroke {
	return gesture.Stroke{
		{X: 0, Y: 0},
		{X: side, Y: 0},
		{X: side, Y: side},
		{X: 0, Y: side},
		{X: 0, Y: 0},
	}
}

// Star returns a closed five-pointed star drawn from its top point.
func Star(outer, inner float64) gesture.Stroke {
	s := make(gesture.Stroke, 0, 11)
	for i := 0; i <= 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		s = append(s, gesture.Point{X: r * math.Cos(a), Y: r * math.Sin(a)})
	}
	return s
}

// Triangle returns a closed equilateral triangle.
func Triangle(side float64) gesture.Stroke {
	h := side * math.Sqrt(3) / 2
	return gesture.Stroke{
		{X: 0, Y: 0},
		{X: side, Y: 0},
		{X: side / 2, Y: h},
		{X: 0, Y: 0},
	}
}

// Zigzag returns an open zigzag with the given number of teeth.
func Zigzag(teeth int, width, height float64) gesture.Stroke {
	if teeth < 1 {
		teeth = 1
	}
	step := width / float64(2*teeth)
	s := make(gesture.Stroke, 0, 2*teeth+1)
	for i := 0; i <= 2*teeth; i++ {
		y := 0.0
		if i%2 == 1 {
			y = height
		}
		s = append(s, gesture.Point{X: float64(i) * step, Y: y})
	}
	return s
}

// Builtin returns the default template set keyed by name.
func Builtin() map[string]gesture.Stroke {
	return map[string]gesture.Stroke{
		"circle":   Circle(64, 100),
		"square":   Square(200),
		"star":     Star(100, 40),
		"triangle": Triangle(200),
		"zigzag":   Zigzag(3, 300, 100),
	}
}

// Names returns the sorted names of a template set.
func Names(set map[string]gesture.Stroke) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
