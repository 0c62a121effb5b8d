package strava

import (
	"context"
	"time"

	"github.com/cecil-the-coder/fitness-provider-kit/pkg/dateutil"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/types"
)

// ensureCoverage returns an activity set covering [start, end], fetching from
// the provider only when the cache cannot answer the window. Coverage is
// judged by the min/max of cached local start dates: a window inside those
// bounds is considered covered even if the provider has activities the cache
// never saw. A mutex serializes the whole check-then-fetch so concurrent
// readers trigger at most one fetch.
func (c *Client) ensureCoverage(ctx context.Context, start, end time.Time) ([]types.Activity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.loadCache()
	if !ok {
		c.metrics.CacheMiss("strava")
		now := c.now()
		c.logger.Info("no valid activity cache, fetching trailing window",
			"months", coverageMonths)
		fetched, err := c.fetchActivities(ctx, now.AddDate(0, -coverageMonths, 0), now)
		if err != nil {
			return nil, err
		}
		if err := c.saveCache(fetched); err != nil {
			return nil, err
		}
		return fetched, nil
	}

	earliest, latest, known := cachedBounds(cached)
	if known && !start.Before(earliest) && !end.After(latest) {
		c.metrics.CacheHit("strava")
		return cached, nil
	}

	// Extend backward one fixed window ending at the earliest cached date.
	// Windows beyond the cached range on the recent side are already
	// inside the trailing comprehensive fetch, so only the past needs
	// extending.
	extendBefore := earliest
	if !known {
		extendBefore = c.now()
	}
	c.metrics.CacheMiss("strava")
	c.metrics.CacheExtension()
	c.logger.Info("extending activity cache backward",
		"before", extendBefore.Format(dateutil.DayFormat))

	fetched, err := c.fetchActivities(ctx, extendBefore.AddDate(0, -coverageMonths, 0), extendBefore)
	if err != nil {
		return nil, err
	}
	merged := mergeActivities(cached, fetched)
	if err := c.saveCache(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// cachedBounds returns the min and max local calendar dates in the cached
// set. known is false when no activity carries a parseable timestamp.
func cachedBounds(activities []types.Activity) (earliest, latest time.Time, known bool) {
	for _, activity := range activities {
		ts, err := dateutil.ParseTimestamp(activity.StartDateLocal)
		if err != nil {
			continue
		}
		day, err := dateutil.ParseDay(ts.Format(dateutil.DayFormat))
		if err != nil {
			continue
		}
		if !known {
			earliest, latest, known = day, day, true
			continue
		}
		if day.Before(earliest) {
			earliest = day
		}
		if day.After(latest) {
			latest = day
		}
	}
	return earliest, latest, known
}

// mergeActivities combines two batches, deduplicating by activity ID. The
// existing set wins on conflict.
func mergeActivities(existing, fetched []types.Activity) []types.Activity {
	seen := make(map[int64]struct{}, len(existing))
	merged := make([]types.Activity, 0, len(existing)+len(fetched))
	for _, activity := range existing {
		seen[activity.ID] = struct{}{}
		merged = append(merged, activity)
	}
	for _, activity := range fetched {
		if _, ok := seen[activity.ID]; ok {
			continue
		}
		seen[activity.ID] = struct{}{}
		merged = append(merged, activity)
	}
	return merged
}
