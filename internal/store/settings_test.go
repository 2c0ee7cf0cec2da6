package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := repo.Set("theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set("theme", "light"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if v, _ := repo.Get("theme"); v != "light" {
		t.Errorf("Get(theme) = %q, want light", v)
	}

	if repo.GetBool(SettingEnabled, true) != true {
		t.Error("GetBool should return default for unset key")
	}
	if err := repo.SetBool(SettingEnabled, false); err != nil {
		t.Fatal(err)
	}
	if repo.GetBool(SettingEnabled, true) {
		t.Error("GetBool should return stored false")
	}

	repo.Set("broken", "maybe")
	if !repo.GetBool("broken", true) {
		t.Error("GetBool should return default for unparsable value")
	}

	all, err := repo.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("All() = %v, want 3 settings", all)
	}
}
