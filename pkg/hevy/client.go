// Package hevy provides the gym-logging provider client. Authentication is a
// static API key sent on every request; there is no token lifecycle. Workouts
// are cached whole with a fixed TTL, and listing is paged with a client-side
// rate limiter since the provider publishes no usage headers.
package hevy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	internalhttp "github.com/cecil-the-coder/fitness-provider-kit/internal/http"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/dateutil"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/metrics"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/storage"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/types"
)

// DefaultBaseURL is the gym-logging provider's API root.
const DefaultBaseURL = "https://api.hevyapp.com"

// keyPlaceholder is the unconfigured sentinel the mobile builds ship with.
const keyPlaceholder = "YOUR_HEVY_API_KEY"

const (
	cacheTTL = 24 * time.Hour
	pageSize = 10

	keyWorkoutsCache       = "hevy_workouts_cache"
	keyWorkoutsCacheExpiry = "hevy_workouts_cache_expiry"
)

// Config configures a Client.
type Config struct {
	APIKey string

	// BaseURL defaults to DefaultBaseURL when empty.
	BaseURL string

	// RequestsPerSecond caps outbound request rate during paging.
	// Defaults to 5.
	RequestsPerSecond float64

	Logger  *slog.Logger
	Metrics *metrics.Collector
}

// Client is the gym-logging provider client.
type Client struct {
	kv      storage.KV
	http    *internalhttp.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *metrics.Collector
	apiKey  string
	baseURL string
	now     func() time.Time
}

// NewClient creates a gym-logging provider client backed by kv for caching.
func NewClient(kv storage.KV, httpClient *internalhttp.Client, config Config) *Client {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		kv:      kv,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger.With("component", "hevy"),
		metrics: config.Metrics,
		apiKey:  config.APIKey,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// IsConfigured reports whether a usable API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != "" && c.apiKey != keyPlaceholder
}

// Workouts retrieves a single page of workouts from the provider.
func (c *Client) Workouts(ctx context.Context, page int) (*types.WorkoutsPage, error) {
	if !c.IsConfigured() {
		return nil, &types.NoCredentialError{Provider: "hevy", Reason: "api key not configured"}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1/workouts?page=%d&pageSize=%d", c.baseURL, page, pageSize)
	req, err := internalhttp.NewJSONRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, &types.TransportError{Provider: "hevy", Operation: "list_workouts", Err: err}
	}
	c.metrics.APIRequest("hevy", "list_workouts", strconv.Itoa(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &types.TransportError{
			Provider:   "hevy",
			Operation:  "list_workouts",
			StatusCode: resp.StatusCode,
			Body:       internalhttp.ReadBody(resp),
		}
	}

	var envelope types.WorkoutsPage
	if err := internalhttp.DecodeJSON(resp, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// GetAllWorkouts returns every logged workout, served from cache when the
// cached set is still fresh. A miss pages through the provider until the
// reported page count is exhausted.
func (c *Client) GetAllWorkouts(ctx context.Context) ([]types.Workout, error) {
	if cached, ok := c.loadCache(); ok {
		c.metrics.CacheHit("hevy")
		return cached, nil
	}
	c.metrics.CacheMiss("hevy")

	var all []types.Workout
	for page := 1; ; page++ {
		envelope, err := c.Workouts(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, envelope.Workouts...)
		if page >= envelope.PageCount {
			break
		}
	}

	if err := c.saveCache(all); err != nil {
		return nil, err
	}
	c.logger.Info("workout cache refreshed", "workouts", len(all))
	return all, nil
}

// GetWorkoutDates returns the distinct local calendar dates with at least one
// logged workout inside [startDate, endDate], sorted ascending. Dates are
// YYYY-MM-DD.
func (c *Client) GetWorkoutDates(ctx context.Context, startDate, endDate string) ([]string, error) {
	start, err := dateutil.ParseDay(startDate)
	if err != nil {
		return nil, err
	}
	end, err := dateutil.ParseDay(endDate)
	if err != nil {
		return nil, err
	}

	workouts, err := c.GetAllWorkouts(ctx)
	if err != nil {
		return nil, err
	}

	days := make([]string, 0, len(workouts))
	for _, workout := range workouts {
		ts, err := dateutil.ParseTimestamp(workout.StartTime)
		if err != nil {
			c.logger.Warn("skipping workout with unparseable timestamp",
				"workout_id", workout.ID, "start_time", workout.StartTime)
			continue
		}
		if dateutil.InWindow(ts, start, end) {
			days = append(days, ts.Format(dateutil.DayFormat))
		}
	}
	return dateutil.UniqueSortedDays(days), nil
}

// ForceRefresh drops the cached workouts and fetches a fresh set.
func (c *Client) ForceRefresh(ctx context.Context) error {
	if err := c.clearCache(); err != nil {
		return err
	}
	_, err := c.GetAllWorkouts(ctx)
	return err
}

// IsCacheValid reports whether an unexpired workout cache is present.
func (c *Client) IsCacheValid() bool {
	_, ok := c.loadCache()
	return ok
}

// loadCache returns the cached workout set. Missing, corrupt, or expired
// caches report ok=false.
func (c *Client) loadCache() (workouts []types.Workout, ok bool) {
	rawExpiry, found, err := c.kv.Get(keyWorkoutsCacheExpiry)
	if err != nil || !found {
		return nil, false
	}
	millis, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil {
		c.logger.Warn("discarding cache with malformed expiry", "value", rawExpiry)
		return nil, false
	}
	if !c.now().Before(time.UnixMilli(millis)) {
		return nil, false
	}

	blob, found, err := c.kv.Get(keyWorkoutsCache)
	if err != nil || !found {
		return nil, false
	}
	if err := json.Unmarshal([]byte(blob), &workouts); err != nil {
		c.logger.Warn("discarding corrupt workout cache", "error", err)
		return nil, false
	}
	return workouts, true
}

func (c *Client) saveCache(workouts []types.Workout) error {
	blob, err := json.Marshal(workouts)
	if err != nil {
		return fmt.Errorf("failed to encode workout cache: %w", err)
	}
	if err := c.kv.Set(keyWorkoutsCache, string(blob)); err != nil {
		return fmt.Errorf("failed to save workout cache: %w", err)
	}
	expiry := c.now().Add(cacheTTL).UnixMilli()
	if err := c.kv.Set(keyWorkoutsCacheExpiry, strconv.FormatInt(expiry, 10)); err != nil {
		return fmt.Errorf("failed to save workout cache expiry: %w", err)
	}
	return nil
}

func (c *Client) clearCache() error {
	if err := c.kv.Delete(keyWorkoutsCache, keyWorkoutsCacheExpiry); err != nil {
		return fmt.Errorf("failed to clear workout cache: %w", err)
	}
	return nil
}
