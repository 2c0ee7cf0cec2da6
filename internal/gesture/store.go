package gesture

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Template is a named, pre-normalized reference stroke. Templates are never
// mutated after creation; saving under an existing name replaces the pointer.
type Template struct {
	ID        string
	Name      string
	Canonical Canonical
	CreatedAt time.Time
}

// Store holds templates keyed by name. Iteration follows insertion order;
// replacing a template keeps the slot of the name it replaces.
// Store is safe for concurrent use.
type Store struct {
	normalizer Normalizer
	mu         sync.RWMutex
	templates  []*Template
	index      map[string]int
}

// NewStore creates an empty template store normalizing with z.
func NewStore(z Normalizer) *Store {
	return &Store{
		normalizer: z,
		templates:  make([]*Template, 0),
		index:      make(map[string]int),
	}
}

// Normalizer returns the normalizer used for saved strokes.
func (s *Store) Normalizer() Normalizer {
	return s.normalizer
}

// Save normalizes the stroke and stores it under name, replacing any
// template with the same name.
func (s *Store) Save(name string, stroke Stroke) (*Template, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	canonical, err := s.normalizer.Normalize(stroke)
	if err != nil {
		return nil, err
	}

	return s.put(name, canonical), nil
}

// SaveCanonical stores an already normalized stroke under name. The caller
// is responsible for producing it with the store's normalizer settings.
func (s *Store) SaveCanonical(name string, c Canonical) (*Template, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if c.Len() != s.normalizer.N() {
		return nil, fmt.Errorf("%w: canonical has %d points, store uses %d", ErrIncompatible, c.Len(), s.normalizer.N())
	}

	points := make([]Point, len(c.Points))
	copy(points, c.Points)
	return s.put(name, Canonical{Points: points, Degenerate: c.Degenerate}), nil
}

func (s *Store) put(name string, c Canonical) *Template {
	t := &Template{
		ID:        uuid.NewString(),
		Name:      name,
		Canonical: c,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[name]; ok {
		s.templates[i] = t
		return t
	}
	s.index[name] = len(s.templates)
	s.templates = append(s.templates, t)
	return t
}

// Get returns the template stored under name.
func (s *Store) Get(name string) (*Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.templates[i], true
}

// All returns a snapshot of the templates in insertion order.
func (s *Store) All() []*Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Template, len(s.templates))
	copy(out, s.templates)
	return out
}

// Len returns the number of stored templates.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates)
}

// Remove deletes the template stored under name and reports whether one existed.
func (s *Store) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[name]
	if !ok {
		return false
	}

	s.templates = append(s.templates[:i], s.templates[i+1:]...)
	delete(s.index, name)
	for j := i; j < len(s.templates); j++ {
		s.index[s.templates[j].Name] = j
	}
	return true
}
