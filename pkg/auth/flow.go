package auth

import (
	"fmt"
	"net/url"

	"golang.org/x/oauth2"
)

// FlowConfig configures the user-facing authorization flow.
type FlowConfig struct {
	ClientID    string
	RedirectURL string

	// AuthURL defaults to DefaultAuthURL when empty.
	AuthURL string

	// Scopes defaults to ScopeActivityReadAll when empty.
	Scopes []string
}

// AuthCodeURL builds the consent URL the user opens in a browser to grant
// access. The returned URL carries the state value for callback validation.
func AuthCodeURL(config FlowConfig, state string) string {
	authURL := config.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	scopes := config.Scopes
	if len(scopes) == 0 {
		scopes = []string{ScopeActivityReadAll}
	}

	oc := oauth2.Config{
		ClientID:    config.ClientID,
		RedirectURL: config.RedirectURL,
		Scopes:      scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: DefaultTokenURL,
		},
	}
	return oc.AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "auto"))
}

// ParseCallback extracts the authorization code from a redirect callback URL.
// A provider-reported error (access denied, for example) is surfaced as an
// error value.
func ParseCallback(rawurl string) (code string, err error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", fmt.Errorf("invalid callback URL: %w", err)
	}
	query := u.Query()

	if errCode := query.Get("error"); errCode != "" {
		return "", fmt.Errorf("authorization denied: %s", errCode)
	}
	code = query.Get("code")
	if code == "" {
		return "", fmt.Errorf("callback URL missing authorization code")
	}
	return code, nil
}
