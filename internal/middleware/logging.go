package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// ResponseWriter records the status code and body size written by a handler.
// It forwards Flush so event-stream handlers can still push data through the
// logging layer.
type ResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

// NewResponseWriter wraps w with status and size tracking
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the status code before delegating
func (w *ResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Write records the number of bytes written before delegating
func (w *ResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Status returns the recorded status code
func (w *ResponseWriter) Status() int {
	return w.status
}

// Size returns the total number of body bytes written
func (w *ResponseWriter) Size() int {
	return w.size
}

// Flush delegates to the underlying writer if it supports flushing
func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Logging logs each request with its method, path, status, response size and
// duration once the handler returns
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := NewResponseWriter(w)
			next.ServeHTTP(rw, r)
			logger.InfoContext(r.Context(), "request handled",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.Status()),
				slog.Int("size", rw.Size()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
