package gesture

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestStore_SaveAndGet(t *testing.T) {
	s := NewStore(NewNormalizer(64, 250))

	tmpl, err := s.Save("circle", circleStroke(40, 10, 0, 0))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if tmpl.ID == "" {
		t.Error("expected template ID to be set")
	}
	if tmpl.Canonical.Len() != 64 {
		t.Errorf("expected 64 canonical points, got %d", tmpl.Canonical.Len())
	}

	got, ok := s.Get("circle")
	if !ok || got != tmpl {
		t.Errorf("Get(circle) = %v, %v; want saved template", got, ok)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) should report absent")
	}
}

func TestStore_OverwriteKeepsOrder(t *testing.T) {
	s := NewStore(NewNormalizer(64, 250))

	for _, name := range []string{"circle", "square", "star"} {
		if _, err := s.Save(name, circleStroke(20, 5, 0, 0)); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
	}

	replacement, err := s.Save("square", squareStroke(10, 0, 0))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	all := s.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(all))
	}
	want := []string{"circle", "square", "star"}
	for i, tmpl := range all {
		if tmpl.Name != want[i] {
			t.Errorf("All()[%d] = %s, want %s", i, tmpl.Name, want[i])
		}
	}
	if all[1] != replacement {
		t.Error("overwritten slot should hold the new template")
	}
}

func TestStore_SaveErrors(t *testing.T) {
	s := NewStore(NewNormalizer(64, 250))

	if _, err := s.Save("", circleStroke(10, 1, 0, 0)); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Save(\"\") error = %v, want ErrEmptyName", err)
	}
	if _, err := s.Save("dot", Stroke{{X: 1, Y: 1}}); !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("Save(1 point) error = %v, want ErrInsufficientPoints", err)
	}
	if s.Len() != 0 {
		t.Errorf("failed saves should not add templates, got %d", s.Len())
	}
}

func TestStore_SaveCanonical(t *testing.T) {
	s := NewStore(NewNormalizer(64, 250))

	c, _ := NewNormalizer(64, 250).Normalize(circleStroke(30, 9, 0, 0))
	if _, err := s.SaveCanonical("circle", c); err != nil {
		t.Fatalf("SaveCanonical() error = %v", err)
	}

	short, _ := NewNormalizer(32, 250).Normalize(circleStroke(30, 9, 0, 0))
	if _, err := s.SaveCanonical("short", short); !errors.Is(err, ErrIncompatible) {
		t.Errorf("SaveCanonical(32 points) error = %v, want ErrIncompatible", err)
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore(NewNormalizer(64, 250))
	for _, name := range []string{"a", "b", "c"} {
		s.Save(name, circleStroke(10, 1, 0, 0))
	}

	if !s.Remove("a") {
		t.Fatal("Remove(a) should report true")
	}
	if s.Remove("a") {
		t.Error("second Remove(a) should report false")
	}

	// Index must follow the shifted slice.
	got, ok := s.Get("c")
	if !ok || got.Name != "c" {
		t.Errorf("Get(c) after removal = %v, %v", got, ok)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore(NewNormalizer(32, 250))
	stroke := circleStroke(20, 5, 0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Save(fmt.Sprintf("g%d", i%4), stroke)
		}(i)
		go func() {
			defer wg.Done()
			for _, tmpl := range s.All() {
				_ = tmpl.Canonical.Len()
			}
		}()
	}
	wg.Wait()

	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
}
