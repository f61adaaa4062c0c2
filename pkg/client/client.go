package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"jup-swap/pkg/logger"
)

const (
	// DefaultBaseURL is the keyless, rate limited endpoint
	DefaultBaseURL = "https://lite-api.jup.ag"
	// ProBaseURL requires an API key
	ProBaseURL = "https://api.jup.ag"

	DefaultTimeout = 30 * time.Second
)

// ErrDecodeResponse is returned when a successful response body does not
// match the expected shape
var ErrDecodeResponse = errors.New("failed to decode response")

// Config configures a Client
type Config struct {
	// BaseURL defaults to DefaultBaseURL, or ProBaseURL when APIKey is set
	BaseURL string
	APIKey  string
	// HTTPClient replaces the underlying transport, e.g. in tests
	HTTPClient *http.Client
	Logger     *zap.Logger
	// Timeout applies only when HTTPClient is nil
	Timeout time.Duration
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	// Surface the API's own message when the body is a JSON error object
	var body map[string]interface{}
	if err := json.Unmarshal([]byte(e.Body), &body); err == nil {
		for _, field := range []string{"error", "message"} {
			if msg, ok := body[field].(string); ok && msg != "" {
				return fmt.Sprintf("API error (status %d): %s", e.StatusCode, msg)
			}
		}
	}
	if e.Body == "" {
		return fmt.Sprintf("API returned status code %d", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// Client talks to the Jupiter swap, ultra, token, price, trigger and
// recurring APIs
type Client struct {
	resty  *resty.Client
	logger *zap.Logger
}

// NewClient creates a new Jupiter API client
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
		if cfg.APIKey != "" {
			baseURL = ProBaseURL
		}
	}

	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		rc = resty.New().SetTimeout(timeout)
	}

	log := logger.OrNop(cfg.Logger)
	rc.SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetLogger(log.Sugar())
	if cfg.APIKey != "" {
		rc.SetHeader("x-api-key", cfg.APIKey)
	}

	return &Client{
		resty:  rc,
		logger: log,
	}
}

// BaseURL returns the API root requests are sent to
func (c *Client) BaseURL() string {
	return c.resty.BaseURL
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	req := c.resty.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out).ForceContentType("application/json")
	}

	resp, err := req.Execute(method, path)
	if resp != nil && resp.RawResponse != nil {
		c.logger.Debug("jupiter request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("elapsed", resp.Time()),
		)
	}
	if err != nil {
		// a response arrived, so the failure is in decoding its body
		if resp != nil && resp.IsSuccess() {
			return fmt.Errorf("%w: %s %s: %v", ErrDecodeResponse, method, path, err)
		}
		return fmt.Errorf("failed to send %s %s: %w", method, path, err)
	}

	if !resp.IsSuccess() {
		return &APIError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	return nil
}
