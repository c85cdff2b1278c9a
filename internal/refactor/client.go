package refactor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Client talks to the external change-signature refactoring service. It
// wraps resty with a retrying transport and a token-bucket rate limiter.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
}

// ClientConfig configures the refactoring client.
type ClientConfig struct {
	// Addr is the service base URL, e.g. "http://localhost:7010".
	Addr string
	// Timeout bounds a single request. Defaults to 30s.
	Timeout time.Duration
	// RetryMax is the number of retries on transient failure. Defaults to 3.
	RetryMax int
	// RPS limits outbound requests per second. Zero means unlimited.
	RPS float64
}

// NewClient creates a refactoring service client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryMax <= 0 {
		cfg.RetryMax = 3
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil

	rc := resty.New().
		SetBaseURL(cfg.Addr).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "roslyn-refactor/1.0").
		SetTransport(retryClient.HTTPClient.Transport)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), int(cfg.RPS))
	}

	return &Client{resty: rc, limiter: limiter}
}

// ChangeSignature submits a signature-change request and returns the edits
// the service computed. A response with Succeeded=false is not an error at
// this layer; transport and non-2xx failures are.
func (c *Client) ChangeSignature(ctx context.Context, req *ChangeSignatureRequest) (*ChangeSignatureResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	var result ChangeSignatureResult
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/refactor/change-signature")
	if err != nil {
		return nil, fmt.Errorf("change signature request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("change signature failed: %s: %s", resp.Status(), resp.String())
	}
	return &result, nil
}

// Healthy reports whether the service answers its health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	resp, err := c.resty.R().SetContext(ctx).Get("/health")
	return err == nil && resp.IsSuccess()
}
