// Package commercetools implements an HTTP client for the commercetools
// platform API using the OAuth2 client credentials flow.
package commercetools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// maxResponseSize is the maximum allowed response size from the platform API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// tokenExpirySlack is subtracted from the token lifetime so a token is
// refreshed before it actually expires mid-request.
const tokenExpirySlack = 30 * time.Second

var (
	// ErrUnavailable indicates the platform API could not be reached
	ErrUnavailable = errors.New("commercetools: platform unavailable")
	// ErrRequestFailed indicates the platform API rejected the request
	ErrRequestFailed = errors.New("commercetools: request failed")
	// ErrInvalidResponse indicates the platform API returned an unparseable body
	ErrInvalidResponse = errors.New("commercetools: invalid response")
	// ErrAuthFailed indicates the client credentials were rejected
	ErrAuthFailed = errors.New("commercetools: authentication failed")
)

// Config holds the settings needed to talk to a commercetools project
type Config struct {
	ProjectKey   string
	ClientID     string
	ClientSecret string
	AuthURL      string
	APIURL       string
	Scopes       []string
	Timeout      time.Duration
	PageLimit    int
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.ProjectKey == "" {
		return fmt.Errorf("commercetools: project key is required")
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("commercetools: client credentials are required")
	}
	if c.AuthURL == "" || c.APIURL == "" {
		return fmt.Errorf("commercetools: auth and api URLs are required")
	}
	if c.PageLimit < 1 || c.PageLimit > 500 {
		return fmt.Errorf("commercetools: page limit must be between 1 and 500, got %d", c.PageLimit)
	}
	return nil
}

// tokenResponse is the OAuth2 token endpoint response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Client is a commercetools API client with cached client-credentials tokens
type Client struct {
	config     *Config
	httpClient *http.Client

	mu          sync.Mutex // Protects the cached token
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new commercetools client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// token returns a valid access token, fetching a new one when the cached
// token is missing or about to expire.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	values := url.Values{}
	values.Set("grant_type", "client_credentials")
	if len(c.config.Scopes) > 0 {
		values.Set("scope", strings.Join(c.config.Scopes, " "))
	}

	tokenURL := strings.TrimSuffix(c.config.AuthURL, "/") + "/oauth/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		return "", fmt.Errorf("commercetools: failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.config.ClientID, c.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("commercetools: failed to read token response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: HTTP %d", ErrAuthFailed, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("%w: failed to parse token response: %v", ErrInvalidResponse, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrAuthFailed)
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenExpirySlack)

	return c.accessToken, nil
}

// doRequest performs an authenticated request against the project API
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload io.Reader) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimSuffix(c.config.APIURL, "/") + "/" + c.config.ProjectKey + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("commercetools: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("commercetools: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
