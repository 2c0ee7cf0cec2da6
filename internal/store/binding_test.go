package store

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBindingRepository_CRUD(t *testing.T) {
	s := newTestStore(t)
	repo := s.Bindings()

	b := &Binding{
		GestureName: "circle",
		PluginName:  "keyboard",
		ActionName:  "press",
		Config:      json.RawMessage(`{"key":"space"}`),
		Enabled:     true,
	}
	if err := repo.Create(b); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.ID == "" {
		t.Fatal("Create() should assign an ID")
	}

	got, err := repo.GetByID(b.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.GestureName != "circle" || got.PluginName != "keyboard" || !got.Enabled {
		t.Errorf("GetByID() = %+v", got)
	}
	if string(got.Config) != `{"key":"space"}` {
		t.Errorf("Config = %s", got.Config)
	}

	got.Enabled = false
	got.ActionName = "release"
	if err := repo.Update(got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	byName, err := repo.GetByGesture("circle")
	if err != nil {
		t.Fatalf("GetByGesture() error = %v", err)
	}
	if byName.Enabled || byName.ActionName != "release" {
		t.Errorf("updated binding = %+v", byName)
	}

	if err := repo.Delete(b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after delete error = %v, want ErrNotFound", err)
	}
}

func TestBindingRepository_GetByGestureUnbound(t *testing.T) {
	s := newTestStore(t)

	b, err := s.Bindings().GetByGesture("nothing")
	if err != nil || b != nil {
		t.Errorf("GetByGesture(unbound) = %v, %v; want nil, nil", b, err)
	}
}

func TestBindingRepository_Duplicate(t *testing.T) {
	s := newTestStore(t)
	repo := s.Bindings()

	if err := repo.Create(&Binding{GestureName: "star", PluginName: "p", ActionName: "a"}); err != nil {
		t.Fatal(err)
	}
	err := repo.Create(&Binding{GestureName: "star", PluginName: "q", ActionName: "b"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Create(duplicate) error = %v, want ErrDuplicate", err)
	}
}

func TestBindingRepository_MissingRows(t *testing.T) {
	s := newTestStore(t)
	repo := s.Bindings()

	if err := repo.Update(&Binding{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) error = %v", err)
	}
	if err := repo.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestBindingRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Bindings()

	for _, name := range []string{"a", "b", "c"} {
		if err := repo.Create(&Binding{GestureName: name, PluginName: "p", ActionName: "x"}); err != nil {
			t.Fatal(err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Errorf("List() returned %d bindings, want 3", len(list))
	}
	for _, b := range list {
		if string(b.Config) != "{}" {
			t.Errorf("default config = %s, want {}", b.Config)
		}
	}
}
