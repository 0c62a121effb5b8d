package types

import (
	"errors"
	"fmt"
	"time"
)

// NoCredentialError indicates that no usable stored grant exists. The caller
// must run the authorization flow; retrying the operation will not help.
type NoCredentialError struct {
	Provider string
	Reason   string
}

func (e *NoCredentialError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: no stored credential: %s", e.Provider, e.Reason)
	}
	return fmt.Sprintf("%s: no stored credential", e.Provider)
}

// ExchangeError indicates that the provider's token endpoint rejected a
// grant: the initial authorization-code exchange or a later refresh. Grant
// names which one.
type ExchangeError struct {
	Provider   string
	Grant      string
	StatusCode int
	Body       string
}

func (e *ExchangeError) Error() string {
	if e.Grant != "" {
		return fmt.Sprintf("%s: %s grant rejected with status %d", e.Provider, e.Grant, e.StatusCode)
	}
	return fmt.Sprintf("%s: token grant rejected with status %d", e.Provider, e.StatusCode)
}

// InsufficientScopeError indicates that the stored grant lacks a permission
// the request needs. The caller should clear all tokens and re-run the
// authorization flow with the required scope.
type InsufficientScopeError struct {
	Provider string
	Scope    string
	Message  string
}

func (e *InsufficientScopeError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("%s: stored grant lacks required scope %q", e.Provider, e.Scope)
	}
	return fmt.Sprintf("%s: stored grant lacks a required scope: %s", e.Provider, e.Message)
}

// RateLimitExceededError indicates that the provider's request quota is
// exhausted. RetryAfter is a fixed hint derived from the provider's quota
// window; the kit never retries rate-limited requests on its own.
type RateLimitExceededError struct {
	Provider   string
	RetryAfter time.Duration
	LimitedAt  time.Time
}

func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("%s: rate limit exceeded, retry after ~%s", e.Provider, e.RetryAfter)
}

// TransportError covers network failures and unexpected HTTP statuses that do
// not fit a more specific category. StatusCode is zero for pure network
// errors.
type TransportError struct {
	Provider   string
	Operation  string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s failed with status %d", e.Provider, e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Provider, e.Operation, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNoCredential reports whether err is a NoCredentialError.
func IsNoCredential(err error) bool {
	var target *NoCredentialError
	return errors.As(err, &target)
}

// IsInsufficientScope reports whether err is an InsufficientScopeError.
func IsInsufficientScope(err error) bool {
	var target *InsufficientScopeError
	return errors.As(err, &target)
}

// IsRateLimited reports whether err is a RateLimitExceededError.
func IsRateLimited(err error) bool {
	var target *RateLimitExceededError
	return errors.As(err, &target)
}
