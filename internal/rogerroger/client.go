// Package rogerroger provides a minimal client for the RogerRoger CRM REST API.
package rogerroger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.rogerroger.io"

// ErrMissingAPIKey is returned by Do when no API key was configured.
var ErrMissingAPIKey = errors.New("ROGERROGER_API_KEY environment variable is required")

// Config holds the immutable connection settings for the CRM API.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Version string
}

// Client is a minimal HTTP client for the CRM API. It is safe for concurrent use.
type Client struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	HTTP      *http.Client
}

// New returns a new client. If httpClient is nil, one is built from cfg.Timeout
// with an instrumented transport.
func New(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	ua := "rogerroger-mcp"
	if cfg.Version != "" {
		ua += "/" + cfg.Version
	}
	return &Client{
		BaseURL:   strings.TrimRight(base, "/"),
		APIKey:    cfg.APIKey,
		UserAgent: ua,
		HTTP:      httpClient,
	}
}

// Request describes one outbound call. Path may embed an identifier.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// HTTPError is returned for responses outside the 2xx range.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Do executes the request and returns the raw response body of a 2xx response.
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, c.buildURL(r.Path, r.Query), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		// *url.Error repeats method and URL; keep only the cause.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, uerr.Err
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// buildURL composes base URL, path and encoded query.
func (c *Client) buildURL(path string, q url.Values) string {
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}
