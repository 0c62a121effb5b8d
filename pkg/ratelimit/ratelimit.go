// Package ratelimit parses and tracks the running-activity provider's rate
// limit usage. The provider reports usage through two response headers, each
// carrying a comma-separated pair of values for the short (15-minute) and
// long (daily) quota windows; the kit tracks the short window, which is the
// one user-facing interactions exhaust.
package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Usage is a snapshot of the provider's short-window quota consumption as of
// the response it was parsed from.
type Usage struct {
	// Used is the number of requests consumed in the current short window.
	Used int `json:"used"`

	// Limit is the maximum number of requests allowed in the short window.
	Limit int `json:"limit"`

	// Timestamp is when this usage information was captured.
	Timestamp time.Time `json:"timestamp"`
}

// Parser extracts rate limit usage from the provider's response headers.
//
// Header format:
//   - X-RateLimit-Limit: "<short>,<long>" maximum requests per window
//   - X-RateLimit-Usage: "<short>,<long>" requests consumed per window
type Parser struct{}

// NewParser creates a new usage header parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts short-window usage from response headers. The second return
// value is false when the headers are missing or malformed.
func (p *Parser) Parse(headers http.Header) (*Usage, bool) {
	limit, okLimit := firstOfPair(headers.Get("X-RateLimit-Limit"))
	used, okUsed := firstOfPair(headers.Get("X-RateLimit-Usage"))
	if !okLimit || !okUsed {
		return nil, false
	}
	return &Usage{Used: used, Limit: limit, Timestamp: time.Now()}, true
}

// firstOfPair parses the first value of a "short,long" header pair.
func firstOfPair(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	first, _, _ := strings.Cut(value, ",")
	n, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Tracker holds process-lifetime rate limit state: the most recent usage
// snapshot and the instant of the last quota-exceeded response. It is never
// persisted. Thread-safe.
type Tracker struct {
	mu            sync.RWMutex
	usage         *Usage
	lastLimitedAt *time.Time
	now           func() time.Time
}

// NewTracker creates a new rate limit tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// Update records a usage snapshot. Nil snapshots are ignored.
func (t *Tracker) Update(usage *Usage) {
	if usage == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.usage = usage
}

// RecordLimited records the current instant as the last time the provider
// returned a quota-exceeded response.
func (t *Tracker) RecordLimited() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	at := t.now()
	t.lastLimitedAt = &at
	return at
}

// Snapshot returns the latest usage and the last quota-exceeded instant.
// Either may be nil when nothing has been observed yet.
func (t *Tracker) Snapshot() (*Usage, *time.Time) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var usage *Usage
	if t.usage != nil {
		u := *t.usage
		usage = &u
	}
	var limited *time.Time
	if t.lastLimitedAt != nil {
		at := *t.lastLimitedAt
		limited = &at
	}
	return usage, limited
}
