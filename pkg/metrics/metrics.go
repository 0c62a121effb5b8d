// Package metrics exposes Prometheus instrumentation for the provider
// clients. A nil *Collector is valid and records nothing, so callers never
// need to guard metric calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the kit's Prometheus metrics.
type Collector struct {
	apiRequests    *prometheus.CounterVec
	tokenRefreshes prometheus.Counter
	rateLimited    *prometheus.CounterVec
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheExtends   prometheus.Counter
}

// NewCollector creates a collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitkit_api_requests_total",
			Help: "Provider API requests by provider, operation, and status code.",
		}, []string{"provider", "operation", "status"}),
		tokenRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitkit_token_refreshes_total",
			Help: "OAuth access token refreshes performed.",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitkit_rate_limited_total",
			Help: "Quota-exceeded responses received, by provider.",
		}, []string{"provider"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitkit_cache_hits_total",
			Help: "Requests fully served from the activity cache, by provider.",
		}, []string{"provider"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitkit_cache_misses_total",
			Help: "Requests that needed a provider fetch, by provider.",
		}, []string{"provider"}),
		cacheExtends: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitkit_cache_extensions_total",
			Help: "Backward cache extension fetches performed.",
		}),
	}
	reg.MustRegister(
		c.apiRequests,
		c.tokenRefreshes,
		c.rateLimited,
		c.cacheHits,
		c.cacheMisses,
		c.cacheExtends,
	)
	return c
}

// APIRequest records one provider API request with its response status.
func (c *Collector) APIRequest(provider, operation, status string) {
	if c == nil {
		return
	}
	c.apiRequests.WithLabelValues(provider, operation, status).Inc()
}

// TokenRefresh records one access token refresh.
func (c *Collector) TokenRefresh() {
	if c == nil {
		return
	}
	c.tokenRefreshes.Inc()
}

// RateLimited records one quota-exceeded response.
func (c *Collector) RateLimited(provider string) {
	if c == nil {
		return
	}
	c.rateLimited.WithLabelValues(provider).Inc()
}

// CacheHit records a request served entirely from cache.
func (c *Collector) CacheHit(provider string) {
	if c == nil {
		return
	}
	c.cacheHits.WithLabelValues(provider).Inc()
}

// CacheMiss records a request that required a provider fetch.
func (c *Collector) CacheMiss(provider string) {
	if c == nil {
		return
	}
	c.cacheMisses.WithLabelValues(provider).Inc()
}

// CacheExtension records one backward cache extension fetch.
func (c *Collector) CacheExtension() {
	if c == nil {
		return
	}
	c.cacheExtends.Inc()
}
