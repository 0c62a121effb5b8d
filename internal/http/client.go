// Package http provides the HTTP client shared by the fitness provider
// clients. It handles timeouts, connection pooling, default headers, and
// request identifiers. It deliberately performs no automatic retries: the
// provider clients classify responses themselves, and the only retry in the
// kit is the single token-refresh retry on an expired-token response.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Config configures the shared HTTP client.
type Config struct {
	Timeout             time.Duration     `json:"timeout,omitempty"`
	Headers             map[string]string `json:"headers,omitempty"`
	UserAgent           string            `json:"user_agent,omitempty"`
	MaxIdleConns        int               `json:"max_idle_conns,omitempty"`
	MaxIdleConnsPerHost int               `json:"max_idle_conns_per_host,omitempty"`
	IdleConnTimeout     time.Duration     `json:"idle_conn_timeout,omitempty"`
	TLSHandshakeTimeout time.Duration     `json:"tls_handshake_timeout,omitempty"`

	// Transport overrides the built transport when set. Tests use this to
	// route requests to fakes.
	Transport http.RoundTripper `json:"-"`
}

// Client wraps http.Client with default headers and per-request identifiers.
type Client struct {
	client  *http.Client
	headers map[string]string
}

// NewClient creates a client from config, applying defaults for any zero
// fields.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}
	if config.IdleConnTimeout == 0 {
		config.IdleConnTimeout = 90 * time.Second
	}
	if config.TLSHandshakeTimeout == 0 {
		config.TLSHandshakeTimeout = 10 * time.Second
	}

	transport := config.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        config.MaxIdleConns,
			MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
			IdleConnTimeout:     config.IdleConnTimeout,
			TLSHandshakeTimeout: config.TLSHandshakeTimeout,
			ForceAttemptHTTP2:   true,
		}
	}

	headers := make(map[string]string, len(config.Headers)+1)
	for k, v := range config.Headers {
		headers[k] = v
	}
	if config.UserAgent != "" {
		headers["User-Agent"] = config.UserAgent
	} else {
		headers["User-Agent"] = "fitness-provider-kit/1.0"
	}

	return &Client{
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		headers: headers,
	}
}

// Do executes a request with the client's default headers and a generated
// X-Request-ID. Headers already set on the request are not overwritten.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)

	for key, value := range c.headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Host, err)
	}
	return resp, nil
}
