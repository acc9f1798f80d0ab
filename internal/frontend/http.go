// Package frontend adapts the single-verb command interface (spec.md
// §6) onto HTTP, WebSocket, and serial transports. Every front-end
// only ever calls Queue.Submit — it never touches the device tree or
// script engine directly (spec.md §5 "producer tasks... do no
// protected work beyond enqueuing a pending request").
package frontend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nerrad567/gray-logic-core/internal/dispatch"
)

// commandTimeout bounds how long an HTTP request waits for the loop
// to drain its command; the loop itself has no timeout (spec.md §5),
// this only protects the HTTP connection from hanging forever if the
// loop has stalled.
const commandTimeout = 5 * time.Second

// NewHTTPHandler builds the HTTP command surface: everything after
// the leading '/' is the command verb (spec.md §6). When bearerSecret
// is non-empty, every command route requires a valid bearer token
// (spec.md §2 expansion); an empty secret leaves the surface open,
// matching security.api_keys.enabled=false.
func NewHTTPHandler(q *dispatch.Queue, bearerSecret string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	command := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cmd := strings.TrimPrefix(r.URL.Path, "/")
		resp, err := submitAndWait(r.Context(), q, cmd)
		if err != nil {
			http.Error(w, err.Error(), http.StatusGatewayTimeout)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(resp))
	})
	if bearerSecret != "" {
		r.Get("/*", RequireBearer(bearerSecret, command).ServeHTTP)
	} else {
		r.Get("/*", command)
	}
	return r
}

// submitAndWait enqueues cmd and blocks for its response, bounded by
// ctx and commandTimeout.
func submitAndWait(ctx context.Context, q *dispatch.Queue, cmd string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	result := make(chan string, 1)
	q.Submit(cmd, func(resp string) {
		select {
		case result <- resp:
		default:
		}
	})

	select {
	case resp := <-result:
		return resp, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
