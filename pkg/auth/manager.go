package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	internalhttp "github.com/cecil-the-coder/fitness-provider-kit/internal/http"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/metrics"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/storage"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/types"
)

// Default OAuth endpoints for the running activity provider.
const (
	DefaultTokenURL = "https://www.strava.com/oauth/token"
	DefaultAuthURL  = "https://www.strava.com/oauth/authorize"
)

// ScopeActivityReadAll is the scope required to read all of an athlete's
// activities, including private ones.
const ScopeActivityReadAll = "activity:read_all"

// ManagerConfig configures a token manager.
type ManagerConfig struct {
	ClientID     string
	ClientSecret string

	// TokenURL defaults to DefaultTokenURL when empty.
	TokenURL string

	Logger  *slog.Logger
	Metrics *metrics.Collector
}

// Manager owns the provider credential: it hands out valid access tokens,
// refreshing through the provider's token endpoint when the stored one has
// expired. All operations reload the credential from storage first, so tokens
// written by another component (or a previous process) are picked up without
// restarts. A mutex serializes refreshes so concurrent callers cannot race
// the single-use refresh token.
type Manager struct {
	kv      storage.KV
	http    *internalhttp.Client
	config  ManagerConfig
	logger  *slog.Logger
	metrics *metrics.Collector

	mu  sync.Mutex
	now func() time.Time
}

// NewManager creates a token manager backed by kv.
func NewManager(kv storage.KV, client *internalhttp.Client, config ManagerConfig) *Manager {
	if config.TokenURL == "" {
		config.TokenURL = DefaultTokenURL
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		kv:      kv,
		http:    client,
		config:  config,
		logger:  logger.With("component", "auth"),
		metrics: config.Metrics,
		now:     time.Now,
	}
}

// tokenResponse is the provider's token endpoint payload. The provider
// reports an absolute expiry; expires_in is kept as a fallback for endpoints
// that only send a relative lifetime.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AccessToken returns a currently valid access token, refreshing it first if
// the stored one has expired. A fresh stored token is returned without any
// network traffic.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cred, err := LoadCredential(m.kv)
	if err != nil {
		return "", err
	}
	if cred.Fresh(m.now()) {
		return cred.AccessToken, nil
	}

	m.logger.Debug("access token expired, refreshing")
	refreshed, err := m.refresh(ctx, cred.RefreshToken)
	if err != nil {
		return "", err
	}
	return refreshed.AccessToken, nil
}

// refresh performs the refresh-token grant and persists the rotated
// credential. Callers must hold m.mu.
func (m *Manager) refresh(ctx context.Context, refreshToken string) (Credential, error) {
	values := url.Values{}
	values.Set("client_id", m.config.ClientID)
	values.Set("client_secret", m.config.ClientSecret)
	values.Set("grant_type", "refresh_token")
	values.Set("refresh_token", refreshToken)

	cred, err := m.tokenGrant(ctx, values)
	if err != nil {
		return Credential{}, err
	}
	m.metrics.TokenRefresh()
	m.logger.Info("access token refreshed", "expires_at", cred.ExpiresAt)
	return cred, nil
}

// ExchangeAuthorizationCode trades an authorization code for the initial
// credential and persists it. This completes the authorization flow started
// with AuthCodeURL.
func (m *Manager) ExchangeAuthorizationCode(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	values := url.Values{}
	values.Set("client_id", m.config.ClientID)
	values.Set("client_secret", m.config.ClientSecret)
	values.Set("grant_type", "authorization_code")
	values.Set("code", code)

	if _, err := m.tokenGrant(ctx, values); err != nil {
		return err
	}
	m.logger.Info("authorization code exchanged")
	return nil
}

// tokenGrant posts a grant to the token endpoint and persists the resulting
// credential. Callers must hold m.mu.
func (m *Manager) tokenGrant(ctx context.Context, values url.Values) (Credential, error) {
	req, err := internalhttp.NewFormRequest(m.config.TokenURL, values)
	if err != nil {
		return Credential{}, err
	}

	resp, err := m.http.Do(ctx, req)
	if err != nil {
		return Credential{}, fmt.Errorf("token request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Credential{}, &types.ExchangeError{
			Provider:   "strava",
			Grant:      values.Get("grant_type"),
			StatusCode: resp.StatusCode,
			Body:       internalhttp.ReadBody(resp),
		}
	}

	var payload tokenResponse
	if err := internalhttp.DecodeJSON(resp, &payload); err != nil {
		return Credential{}, err
	}
	if payload.AccessToken == "" || payload.RefreshToken == "" {
		return Credential{}, &types.ExchangeError{
			Provider:   "strava",
			Grant:      values.Get("grant_type"),
			StatusCode: resp.StatusCode,
			Body:       "token response missing access_token or refresh_token",
		}
	}

	expiresAt := time.Unix(payload.ExpiresAt, 0)
	if payload.ExpiresAt == 0 {
		expiresAt = m.now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	}

	cred := Credential{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresAt:    expiresAt,
	}
	if err := SaveCredential(m.kv, cred); err != nil {
		return Credential{}, err
	}
	return cred, nil
}

// InvalidateAccessToken drops the stored access token and expiry, keeping the
// refresh token. The next AccessToken call will go through the refresh grant.
// Used when the provider rejects a token that storage still considers fresh.
func (m *Manager) InvalidateAccessToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ClearAccessToken(m.kv)
}

// ClearCredentials removes the whole stored credential. Subsequent token
// requests return NoCredentialError until a new authorization completes.
func (m *Manager) ClearCredentials() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ClearCredential(m.kv); err != nil {
		return err
	}
	m.logger.Info("credentials cleared")
	return nil
}

// Authenticated reports whether a complete credential is stored, without
// checking freshness.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := LoadCredential(m.kv)
	return err == nil
}
