package strava

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cecil-the-coder/fitness-provider-kit/pkg/types"
)

// Storage keys for the cached activity set. The blob is a JSON array; the
// expiry is epoch milliseconds.
const (
	keyActivitiesCache       = "strava_activities_cache"
	keyActivitiesCacheExpiry = "strava_activities_cache_expiry"
)

// loadCache returns the cached activity set. ok is false when the cache is
// missing, corrupt, or past its expiry; a corrupt cache is treated as absent
// rather than an error so a bad blob never wedges the client.
func (c *Client) loadCache() (activities []types.Activity, ok bool) {
	rawExpiry, found, err := c.kv.Get(keyActivitiesCacheExpiry)
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

	blob, found, err := c.kv.Get(keyActivitiesCache)
	if err != nil || !found {
		return nil, false
	}
	if err := json.Unmarshal([]byte(blob), &activities); err != nil {
		c.logger.Warn("discarding corrupt activity cache", "error", err)
		return nil, false
	}
	return activities, true
}

// saveCache persists the activity set with a fresh TTL.
func (c *Client) saveCache(activities []types.Activity) error {
	blob, err := json.Marshal(activities)
	if err != nil {
		return fmt.Errorf("failed to encode activity cache: %w", err)
	}
	if err := c.kv.Set(keyActivitiesCache, string(blob)); err != nil {
		return fmt.Errorf("failed to save activity cache: %w", err)
	}
	expiry := c.now().Add(cacheTTL).UnixMilli()
	if err := c.kv.Set(keyActivitiesCacheExpiry, strconv.FormatInt(expiry, 10)); err != nil {
		return fmt.Errorf("failed to save activity cache expiry: %w", err)
	}
	return nil
}

// clearCache removes the cached activity set and its expiry.
func (c *Client) clearCache() error {
	if err := c.kv.Delete(keyActivitiesCache, keyActivitiesCacheExpiry); err != nil {
		return fmt.Errorf("failed to clear activity cache: %w", err)
	}
	return nil
}

// IsCacheValid reports whether an unexpired activity cache is present.
func (c *Client) IsCacheValid() bool {
	_, ok := c.loadCache()
	return ok
}
