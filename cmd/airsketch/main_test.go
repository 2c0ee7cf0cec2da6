package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/airsketch/internal/config"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/shapes"
)

func writeStroke(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "stroke.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func builtinEngine(t *testing.T) *gesture.Engine {
	t.Helper()
	e := gesture.New(gesture.DefaultConfig())
	if err := shapes.Register(e, shapes.Builtin()); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestRecognizeFile(t *testing.T) {
	circle := shapes.Circle(40, 80)

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"bare array", circle, "circle "},
		{"wrapped", map[string]any{"points": circle}, "circle "},
		{"too short", circle[:4], "too short: 4 points, need 10"},
	}

	e := builtinEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := recognizeFile(e, writeStroke(t, tt.input), &out); err != nil {
				t.Fatalf("recognizeFile() error = %v", err)
			}
			if !strings.HasPrefix(out.String(), tt.want) {
				t.Errorf("output = %q, want prefix %q", out.String(), tt.want)
			}
		})
	}
}

func TestRecognizeFile_NoTemplates(t *testing.T) {
	var out bytes.Buffer
	path := writeStroke(t, shapes.Circle(40, 80))
	if err := recognizeFile(gesture.New(gesture.DefaultConfig()), path, &out); err != nil {
		t.Fatalf("recognizeFile() error = %v", err)
	}
	if out.String() != "no templates\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRecognizeFile_Errors(t *testing.T) {
	e := builtinEngine(t)

	if err := recognizeFile(e, filepath.Join(t.TempDir(), "missing.json"), &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := recognizeFile(e, path, &bytes.Buffer{}); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadTemplates(t *testing.T) {
	file := filepath.Join(t.TempDir(), "templates.yaml")
	yamlData := "templates:\n  - name: check\n    points: [[0, 50], [30, 100], [100, 0]]\n"
	if err := os.WriteFile(file, []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		builtin bool
		file    string
		want    int
	}{
		{"builtin only", true, "", 5},
		{"file only", false, file, 1},
		{"both", true, file, 6},
		{"none", false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Builtin: tt.builtin, TemplatesFile: tt.file}
			e := gesture.New(gesture.DefaultConfig())
			if err := loadTemplates(e, cfg); err != nil {
				t.Fatalf("loadTemplates() error = %v", err)
			}
			if got := e.Templates().Len(); got != tt.want {
				t.Errorf("templates = %d, want %d", got, tt.want)
			}
		})
	}

	cfg := &config.Config{TemplatesFile: filepath.Join(t.TempDir(), "missing.yaml")}
	if err := loadTemplates(gesture.New(gesture.DefaultConfig()), cfg); err == nil {
		t.Error("expected error for missing template file")
	}
}

func TestDashboardURL(t *testing.T) {
	tests := []struct{ addr, want string }{
		{":8080", "http://localhost:8080/"},
		{"127.0.0.1:9000", "http://127.0.0.1:9000/"},
	}
	for _, tt := range tests {
		if got := dashboardURL(tt.addr); got != tt.want {
			t.Errorf("dashboardURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestFindWebDir(t *testing.T) {
	dataDir := t.TempDir()
	if got := findWebDir(dataDir); got != "" && !strings.HasSuffix(got, "web") {
		t.Errorf("findWebDir() = %q", got)
	}

	if err := os.Mkdir(filepath.Join(dataDir, "web"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := findWebDir(dataDir); !strings.HasSuffix(got, "web") {
		t.Errorf("findWebDir() = %q, want a web directory", got)
	}
}
