// Package auth manages the OAuth credential lifecycle for the running
// activity provider: durable token storage, access token refresh, and the
// authorization flow. Token state lives in a storage.KV so it survives
// process restarts. The refresh token is the anchor of a credential: without
// it there is nothing to authenticate with, while a missing access token or
// expiry just forces a refresh on the next token request.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cecil-the-coder/fitness-provider-kit/pkg/storage"
	"github.com/cecil-the-coder/fitness-provider-kit/pkg/types"
)

// Storage keys for the running provider's credential. The values are opaque
// strings; the expiry is stored as epoch seconds.
const (
	KeyAccessToken  = "strava_access_token"
	KeyRefreshToken = "strava_refresh_token"
	KeyExpiresAt    = "strava_expires_at"
)

// Credential is a complete OAuth credential: both tokens plus the access
// token expiry.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Fresh reports whether the access token is still valid at the given instant.
// A credential missing the access token or expiry is never fresh.
func (c Credential) Fresh(now time.Time) bool {
	return c.AccessToken != "" && !c.ExpiresAt.IsZero() && now.Before(c.ExpiresAt)
}

// LoadCredential reads the credential from storage. A missing refresh token
// means there is nothing to authenticate with and yields a NoCredentialError.
// A missing access token or expiry alone leaves the credential loadable but
// stale, so the next token request goes through the refresh grant; this is
// what the expired-token retry path relies on after it drops the access
// token.
func LoadCredential(kv storage.KV) (Credential, error) {
	refresh, okRefresh, err := kv.Get(KeyRefreshToken)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to load refresh token: %w", err)
	}
	if !okRefresh || refresh == "" {
		return Credential{}, &types.NoCredentialError{Provider: "strava", Reason: "not authenticated"}
	}
	access, _, err := kv.Get(KeyAccessToken)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to load access token: %w", err)
	}

	cred := Credential{AccessToken: access, RefreshToken: refresh}
	if raw, ok, err := kv.Get(KeyExpiresAt); err != nil {
		return Credential{}, fmt.Errorf("failed to load token expiry: %w", err)
	} else if ok && raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Credential{}, fmt.Errorf("malformed token expiry %q: %w", raw, err)
		}
		cred.ExpiresAt = time.Unix(seconds, 0)
	}
	return cred, nil
}

// SaveCredential persists the full credential. The expiry is written as epoch
// seconds.
func SaveCredential(kv storage.KV, cred Credential) error {
	if err := kv.Set(KeyAccessToken, cred.AccessToken); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	if err := kv.Set(KeyRefreshToken, cred.RefreshToken); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	if err := kv.Set(KeyExpiresAt, strconv.FormatInt(cred.ExpiresAt.Unix(), 10)); err != nil {
		return fmt.Errorf("failed to save token expiry: %w", err)
	}
	return nil
}

// ClearAccessToken removes the access token and its expiry, keeping the
// refresh token so the next token request goes through the refresh grant.
func ClearAccessToken(kv storage.KV) error {
	if err := kv.Delete(KeyAccessToken, KeyExpiresAt); err != nil {
		return fmt.Errorf("failed to clear access token: %w", err)
	}
	return nil
}

// ClearCredential removes the entire credential from storage.
func ClearCredential(kv storage.KV) error {
	if err := kv.Delete(KeyAccessToken, KeyRefreshToken, KeyExpiresAt); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}
