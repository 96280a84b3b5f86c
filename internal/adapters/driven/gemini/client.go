// Package gemini provides adapters for the Gemini REST API: a model registry
// that lists the models an API key can use, and a generation client for the
// generateContent endpoint.
package gemini

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Ensure Client implements the interfaces.
var (
	_ driven.ModelRegistry    = (*Client)(nil)
	_ driven.GenerationClient = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1"

	apiKeyHeader = "x-goog-api-key"
)

// Config holds configuration for the Gemini client.
type Config struct {
	// BaseURL is the API root (default: https://generativelanguage.googleapis.com/v1).
	BaseURL string

	// Timeout bounds each request. Zero leaves only the caller's context.
	Timeout time.Duration

	// RequestsPerMinute limits outbound calls. Zero disables the limiter.
	RequestsPerMinute int

	// HTTPClient overrides the HTTP client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// requestBurst lets one ask list models and generate without waiting.
const requestBurst = 2

// Client talks to the Gemini REST API. Safe for concurrent use.
// The API key is passed per call; the client holds no credentials.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a new Gemini client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), requestBurst)
	}

	return &Client{
		client:  httpClient,
		baseURL: cfg.BaseURL,
		limiter: limiter,
	}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do waits for the limiter, sends req with the API key header and reads the
// whole body.
func (c *Client) do(ctx context.Context, req *http.Request, apiKey string) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req.Header.Set(apiKeyHeader, apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
