package shapes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/airsketch/internal/gesture"
)

func TestGenerators(t *testing.T) {
	tests := []struct {
		name   string
		stroke gesture.Stroke
		points int
		closed bool
	}{
		{"circle", Circle(32, 10), 32, true},
		{"square", Square(10), 5, true},
		{"star", Star(10, 4), 11, true},
		{"triangle", Triangle(10), 4, true},
		{"zigzag", Zigzag(3, 60, 10), 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.stroke) != tt.points {
				t.Fatalf("expected %d points, got %d", tt.points, len(tt.stroke))
			}
			first, last := tt.stroke[0], tt.stroke[len(tt.stroke)-1]
			dx, dy := first.X-last.X, first.Y-last.Y
			isClosed := dx*dx+dy*dy < 1e-12
			if isClosed != tt.closed {
				t.Errorf("closed = %v, want %v", isClosed, tt.closed)
			}
		})
	}
}

func TestBuiltin_RecognizesItself(t *testing.T) {
	e := gesture.New(gesture.Config{MinPoints: 2})
	set := Builtin()
	if err := Register(e, set); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if e.Templates().Len() != len(set) {
		t.Fatalf("expected %d templates, got %d", len(set), e.Templates().Len())
	}

	for _, name := range Names(set) {
		result, err := e.Recognize(set[name])
		if err != nil {
			t.Fatalf("Recognize(%s) error = %v", name, err)
		}
		if result.Name() != name {
			t.Errorf("Recognize(%s) = %q (score %.3f)", name, result.Name(), result.Score)
		}
	}
}

func TestNames_Sorted(t *testing.T) {
	got := Names(Builtin())
	want := []string{"circle", "square", "star", "triangle", "zigzag"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names() = %v, want %v", got, want)
			break
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	content := `templates:
  - name: check
    points: [[0, 0], [10, 10], [30, -20]]
  - name: caret
    points: [[0, 0], [10, 20], [20, 0]]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(set))
	}
	check := set["check"]
	if len(check) != 3 || check[2].X != 30 || check[2].Y != -20 {
		t.Errorf("check = %+v", check)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(missing) error = %v, want ErrNotExist", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "templates: [\n"},
		{"missing name", "templates:\n  - points: [[0,0],[1,1]]\n"},
		{"too few points", "templates:\n  - name: dot\n    points: [[0,0]]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrInvalidDefinition) {
				t.Errorf("Parse() error = %v, want ErrInvalidDefinition", err)
			}
		})
	}
}
