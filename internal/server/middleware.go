package server

import (
	"net/http"
	"strings"

	"github.com/ayusman/airsketch/pkg/metrics"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func instrument(m *metrics.Manager, route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.ObserveHTTP(route, rec.status)
	})
}

// routeLabel folds item routes into their collection so that names and
// IDs do not become label values.
func routeLabel(pattern string) string {
	return strings.TrimSuffix(pattern, "/")
}
