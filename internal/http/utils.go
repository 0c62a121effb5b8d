package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// NewJSONRequest creates a request with a JSON-encoded body and the matching
// content type. A nil body produces a bodyless request.
func NewJSONRequest(method, rawurl string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, rawurl, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// NewFormRequest creates a POST request with URL-encoded form values, the
// shape OAuth token endpoints expect.
func NewFormRequest(rawurl string, values url.Values) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodPost, rawurl, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create form request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// DecodeJSON decodes the response body into v and closes the body.
func DecodeJSON(resp *http.Response, v interface{}) error {
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// ReadBody reads the full response body as a string and closes the body.
// Used for error responses where the payload goes into the error value.
func ReadBody(resp *http.Response) string {
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return ""
	}
	return string(data)
}
