package types

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "strava: refresh_token grant rejected with status 400",
		(&ExchangeError{Provider: "strava", Grant: "refresh_token", StatusCode: 400}).Error())
	assert.Equal(t, "strava: authorization_code grant rejected with status 401",
		(&ExchangeError{Provider: "strava", Grant: "authorization_code", StatusCode: 401}).Error())
	assert.Equal(t, "strava: token grant rejected with status 500",
		(&ExchangeError{Provider: "strava", StatusCode: 500}).Error())

	assert.Equal(t, "strava: no stored credential: not authenticated",
		(&NoCredentialError{Provider: "strava", Reason: "not authenticated"}).Error())
	assert.Equal(t, `strava: stored grant lacks required scope "activity:read_all"`,
		(&InsufficientScopeError{Provider: "strava", Scope: "activity:read_all"}).Error())
	assert.Equal(t, "strava: rate limit exceeded, retry after ~15m0s",
		(&RateLimitExceededError{Provider: "strava", RetryAfter: 15 * time.Minute}).Error())
	assert.Equal(t, "hevy: list_workouts failed with status 503",
		(&TransportError{Provider: "hevy", Operation: "list_workouts", StatusCode: 503}).Error())
}

func TestErrorMatchingThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading calendar: %w", &NoCredentialError{Provider: "strava"})
	assert.True(t, IsNoCredential(wrapped))

	wrapped = fmt.Errorf("probing scope: %w", &InsufficientScopeError{Provider: "strava"})
	assert.True(t, IsInsufficientScope(wrapped))

	wrapped = fmt.Errorf("fetching: %w", &RateLimitExceededError{Provider: "strava"})
	assert.True(t, IsRateLimited(wrapped))

	assert.False(t, IsNoCredential(fmt.Errorf("plain failure")))
}
