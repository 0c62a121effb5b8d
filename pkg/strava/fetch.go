package strava

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	internalhttp "github.com/cecil-the-coder/fitness-provider-kit/internal/http"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/types"
)

// rateLimitRetryHint is the wait the provider's short quota window implies
// after a quota-exceeded response.
const rateLimitRetryHint = 15 * time.Minute

// fetchActivities retrieves the activities in (after, before) from the
// provider with a single capped request. The cap bounds how much of the short
// quota window one user action can consume; a window holding more activities
// than the cap is truncated in the provider's canonical ordering.
func (c *Client) fetchActivities(ctx context.Context, after, before time.Time) ([]types.Activity, error) {
	return c.fetchPage(ctx, after, before, 1, perPage)
}

// fetchPage retrieves one page of activities. A stale stored token is
// refreshed before the call; a token the provider still rejects is dropped
// and the request retried exactly once with a newly refreshed token.
func (c *Client) fetchPage(ctx context.Context, after, before time.Time, page, pageSize int) ([]types.Activity, error) {
	activities, retry, err := c.doFetchPage(ctx, after, before, page, pageSize)
	if retry {
		c.logger.Debug("access token rejected, retrying once after refresh")
		if err := c.tokens.InvalidateAccessToken(); err != nil {
			return nil, err
		}
		activities, _, err = c.doFetchPage(ctx, after, before, page, pageSize)
		return activities, err
	}
	return activities, err
}

// doFetchPage performs a single page request. retry is true only for an
// expired-token response, which the caller handles.
func (c *Client) doFetchPage(ctx context.Context, after, before time.Time, page, pageSize int) (activities []types.Activity, retry bool, err error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, false, err
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(pageSize))
	if !after.IsZero() {
		query.Set("after", strconv.FormatInt(after.Unix(), 10))
	}
	if !before.IsZero() {
		query.Set("before", strconv.FormatInt(before.Unix(), 10))
	}

	endpoint := fmt.Sprintf("%s/athlete/activities?%s", c.baseURL, query.Encode())
	req, err := internalhttp.NewJSONRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, false, &types.TransportError{Provider: "strava", Operation: "list_activities", Err: err}
	}
	c.metrics.APIRequest("strava", "list_activities", strconv.Itoa(resp.StatusCode))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if usage, ok := c.parser.Parse(resp.Header); ok {
			c.tracker.Update(usage)
		}
		if err := internalhttp.DecodeJSON(resp, &activities); err != nil {
			return nil, false, err
		}
		return activities, false, nil
	}

	return nil, resp.StatusCode == http.StatusUnauthorized, c.classifyError(resp)
}

// classifyError maps a non-2xx listing response to a typed error. The
// response body is consumed.
func (c *Client) classifyError(resp *http.Response) error {
	body := internalhttp.ReadBody(resp)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &types.TransportError{
			Provider:   "strava",
			Operation:  "list_activities",
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	case http.StatusForbidden:
		if isScopeMessage(body) {
			return &types.InsufficientScopeError{
				Provider: "strava",
				Scope:    "activity:read_all",
				Message:  body,
			}
		}
		return &types.TransportError{
			Provider:   "strava",
			Operation:  "list_activities",
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	case http.StatusTooManyRequests:
		limitedAt := c.tracker.RecordLimited()
		c.metrics.RateLimited("strava")
		c.logger.Warn("provider rate limit exceeded", "limited_at", limitedAt)
		return &types.RateLimitExceededError{
			Provider:   "strava",
			RetryAfter: rateLimitRetryHint,
			LimitedAt:  limitedAt,
		}
	default:
		return &types.TransportError{
			Provider:   "strava",
			Operation:  "list_activities",
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}
}

// isScopeMessage reports whether a 403 body describes a missing OAuth scope
// rather than some other authorization failure.
func isScopeMessage(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "scope") || strings.Contains(lower, "activity:read")
}
