package auth

import (
	"net/url"
	"strings"
	"testing"
)

func TestAuthCodeURL(t *testing.T) {
	rawurl := AuthCodeURL(FlowConfig{
		ClientID:    "client-1",
		RedirectURL: "myapp://callback",
	}, "state-xyz")

	u, err := url.Parse(rawurl)
	if err != nil {
		t.Fatalf("Expected valid URL, got: %v", err)
	}
	if !strings.HasPrefix(rawurl, DefaultAuthURL) {
		t.Errorf("Expected URL to start with %s, got %s", DefaultAuthURL, rawurl)
	}

	query := u.Query()
	if got := query.Get("client_id"); got != "client-1" {
		t.Errorf("client_id = %s, want client-1", got)
	}
	if got := query.Get("redirect_uri"); got != "myapp://callback" {
		t.Errorf("redirect_uri = %s, want myapp://callback", got)
	}
	if got := query.Get("scope"); got != ScopeActivityReadAll {
		t.Errorf("scope = %s, want %s", got, ScopeActivityReadAll)
	}
	if got := query.Get("state"); got != "state-xyz" {
		t.Errorf("state = %s, want state-xyz", got)
	}
	if got := query.Get("response_type"); got != "code" {
		t.Errorf("response_type = %s, want code", got)
	}
	if got := query.Get("approval_prompt"); got != "auto" {
		t.Errorf("approval_prompt = %s, want auto", got)
	}
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantCode string
		wantErr  bool
	}{
		{
			name:     "code present",
			url:      "myapp://callback?state=s&code=abc123&scope=activity:read_all",
			wantCode: "abc123",
		},
		{
			name:    "provider error",
			url:     "myapp://callback?error=access_denied",
			wantErr: true,
		},
		{
			name:    "missing code",
			url:     "myapp://callback?state=s",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := ParseCallback(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCallback error = %v, wantErr %v", err, tt.wantErr)
			}
			if code != tt.wantCode {
				t.Errorf("code = %s, want %s", code, tt.wantCode)
			}
		})
	}
}
