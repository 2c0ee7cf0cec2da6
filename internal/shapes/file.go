package shapes

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/airsketch/internal/gesture"
)

// ErrInvalidDefinition is returned for malformed template files.
var ErrInvalidDefinition = errors.New("invalid template definition")

// Definition is a single hand-authored template.
type Definition struct {
	Name   string       `yaml:"name"`
	Points [][2]float64 `yaml:"points"`
}

// File is the on-disk layout of a template definition file.
type File struct {
	Templates []Definition `yaml:"templates"`
}

// Stroke converts the definition points into a stroke.
func (d Definition) Stroke() gesture.Stroke {
	s := make(gesture.Stroke, len(d.Points))
	for i, p := range d.Points {
		s[i] = gesture.Point{X: p[0], Y: p[1]}
	}
	return s
}

// LoadFile reads template definitions from a YAML file. Later entries with
// a duplicate name replace earlier ones.
func LoadFile(path string) (map[string]gesture.Stroke, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML template definitions.
func Parse(data []byte) (map[string]gesture.Stroke, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	set := make(map[string]gesture.Stroke, len(f.Templates))
	for i, d := range f.Templates {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: template %d has no name", ErrInvalidDefinition, i)
		}
		if len(d.Points) < gesture.MinStrokePoints {
			return nil, fmt.Errorf("%w: template %q needs at least %d points",
				ErrInvalidDefinition, d.Name, gesture.MinStrokePoints)
		}
		set[d.Name] = d.Stroke()
	}
	return set, nil
}

// Register saves every stroke in set into the engine in name order.
func Register(e *gesture.Engine, set map[string]gesture.Stroke) error {
	for _, name := range Names(set) {
		if _, err := e.SavePattern(name, set[name]); err != nil {
			return fmt.Errorf("register %q: %w", name, err)
		}
	}
	return nil
}
