// Package testutil provides shared helpers for provider client tests.
package testutil

import (
	"net/http"
	"sync"
)

// CountingHandler wraps a handler and records how many requests reached it.
// Thread-safe.
type CountingHandler struct {
	mu      sync.Mutex
	count   int
	handler http.HandlerFunc
}

// NewCountingHandler wraps fn in a call-counting handler.
func NewCountingHandler(fn http.HandlerFunc) *CountingHandler {
	return &CountingHandler{handler: fn}
}

func (h *CountingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.count++
	h.mu.Unlock()
	h.handler(w, r)
}

// Count returns the number of requests served so far.
func (h *CountingHandler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}
