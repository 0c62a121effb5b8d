// Package strava provides the running activity provider client: cached
// activity listing with on-demand backward cache extension, calendar date
// derivation, and rate limit introspection. All reads go through the local
// cache; the provider is only contacted when the cache cannot answer the
// requested window.
package strava

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	internalhttp "github.com/cecil-the-coder/fitness-provider-kit/internal/http"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/auth"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/dateutil"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/metrics"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/ratelimit"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/storage"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/types"
)

// DefaultBaseURL is the provider's REST API root.
const DefaultBaseURL = "https://www.strava.com/api/v3"

const (
	// cacheTTL is how long a stored activity set stays valid.
	cacheTTL = 24 * time.Hour

	// coverageMonths is the span of both the initial comprehensive fetch
	// and each backward extension window.
	coverageMonths = 6

	// perPage is the page size for activity listing.
	perPage = 50
)

// Config configures a Client.
type Config struct {
	// BaseURL defaults to DefaultBaseURL when empty.
	BaseURL string

	Logger  *slog.Logger
	Metrics *metrics.Collector
}

// Client is the running activity provider client.
type Client struct {
	kv      storage.KV
	tokens  *auth.Manager
	http    *internalhttp.Client
	tracker *ratelimit.Tracker
	parser  *ratelimit.Parser
	logger  *slog.Logger
	metrics *metrics.Collector
	baseURL string

	// mu serializes cache mutation so concurrent reads cannot trigger
	// duplicate extension fetches.
	mu  sync.Mutex
	now func() time.Time
}

// NewClient creates a provider client. Token state and the activity cache
// share the given storage.
func NewClient(kv storage.KV, tokens *auth.Manager, httpClient *internalhttp.Client, config Config) *Client {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		kv:      kv,
		tokens:  tokens,
		http:    httpClient,
		tracker: ratelimit.NewTracker(),
		parser:  ratelimit.NewParser(),
		logger:  logger.With("component", "strava"),
		metrics: config.Metrics,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// GetRunningActivities returns the cached running activities whose local
// calendar date falls inside [startDate, endDate], extending the cache from
// the provider when the window is not yet covered. Dates are YYYY-MM-DD.
func (c *Client) GetRunningActivities(ctx context.Context, startDate, endDate string) ([]types.Activity, error) {
	start, err := dateutil.ParseDay(startDate)
	if err != nil {
		return nil, err
	}
	end, err := dateutil.ParseDay(endDate)
	if err != nil {
		return nil, err
	}

	activities, err := c.ensureCoverage(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var runs []types.Activity
	for _, activity := range activities {
		if !strings.EqualFold(activity.Type, "Run") {
			continue
		}
		ts, err := dateutil.ParseTimestamp(activity.StartDateLocal)
		if err != nil {
			c.logger.Warn("skipping activity with unparseable timestamp",
				"activity_id", activity.ID, "start_date_local", activity.StartDateLocal)
			continue
		}
		if dateutil.InWindow(ts, start, end) {
			runs = append(runs, activity)
		}
	}
	return runs, nil
}

// GetRunningDates returns the distinct local calendar dates with at least one
// running activity inside [startDate, endDate], sorted ascending.
func (c *Client) GetRunningDates(ctx context.Context, startDate, endDate string) ([]string, error) {
	runs, err := c.GetRunningActivities(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	days := make([]string, 0, len(runs))
	for _, activity := range runs {
		day, err := dateutil.LocalDay(activity.StartDateLocal)
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	return dateutil.UniqueSortedDays(days), nil
}

// CheckTokenScope probes whether the stored credential carries the scope
// needed to read activities. It never returns an error: scope problems and
// any other failure both report false, with non-scope failures logged.
func (c *Client) CheckTokenScope(ctx context.Context) bool {
	_, err := c.fetchPage(ctx, time.Time{}, c.now(), 1, 1)
	if err == nil {
		return true
	}
	if types.IsInsufficientScope(err) {
		return false
	}
	c.logger.Warn("scope check failed for a non-scope reason", "error", err)
	return false
}

// APIUsage describes the provider quota state observed so far.
type APIUsage struct {
	// Used and Limit are the short-window request counts from the last
	// successful response.
	Used  int
	Limit int

	// LastRateLimitTime is when the provider last returned a
	// quota-exceeded response, zero if it never has.
	LastRateLimitTime time.Time
}

// CheckAPIUsage reports quota usage observed during this process's lifetime.
// The second return value is false until at least one response has carried
// usage headers or a quota-exceeded status.
func (c *Client) CheckAPIUsage() (*APIUsage, bool) {
	usage, limitedAt := c.tracker.Snapshot()
	if usage == nil && limitedAt == nil {
		return nil, false
	}

	result := &APIUsage{}
	if usage != nil {
		result.Used = usage.Used
		result.Limit = usage.Limit
	}
	if limitedAt != nil {
		result.LastRateLimitTime = *limitedAt
	}
	return result, true
}

// ForceRefresh drops the cached activity set. The next read fetches fresh
// data from the provider.
func (c *Client) ForceRefresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.clearCache(); err != nil {
		return err
	}
	c.logger.Info("activity cache cleared")
	return nil
}

// ClearAllTokens removes the stored credential and the cached activities.
// Cached data belongs to the authenticated athlete, so logout drops both.
func (c *Client) ClearAllTokens() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.tokens.ClearCredentials(); err != nil {
		return err
	}
	return c.clearCache()
}
