package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/shapes"
	"github.com/ayusman/airsketch/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// newTestEngine returns an engine loaded with the built-in shapes.
func newTestEngine(t *testing.T) *gesture.Engine {
	t.Helper()

	e := gesture.New(gesture.DefaultConfig())
	if err := shapes.Register(e, shapes.Builtin()); err != nil {
		t.Fatalf("failed to register shapes: %v", err)
	}
	return e
}

// do sends a request with an optional JSON body through h.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v (body %q)", err, rec.Body.String())
	}
}

func offset(s gesture.Stroke, dx, dy float64) gesture.Stroke {
	out := make(gesture.Stroke, len(s))
	for i, p := range s {
		out[i] = gesture.Point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}
