// Package alchemy is the single point of contact with the Alchemy API.
// It hides transport retries, pagination, per-network URL construction, and
// credential redaction behind typed calls. It knows nothing about assets or
// spam — that is the scanner layer's job.
package alchemy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"walletscan/internal/config"
	"walletscan/internal/models"
)

// RetryPolicy controls the exponential backoff loop for throttled or failed
// requests.
type RetryPolicy struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	MaxRetries   int
	Jitter       float64 // fraction of the delay, applied as ±Jitter·delay
}

// DefaultRetryPolicy returns the standard retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialDelay: config.DefaultInitialRetryDelay,
		MaxDelay:     config.DefaultMaxRetryDelay,
		Multiplier:   config.DefaultBackoffMultiplier,
		MaxRetries:   config.DefaultMaxRetries,
		Jitter:       config.DefaultRetryJitter,
	}
}

// Client talks JSON-RPC and REST to the Alchemy API with automatic 429/5xx
// retry handling. One Client reuses one HTTP connection pool; treat it as
// single-owner when running scans concurrently.
type Client struct {
	httpClient *http.Client
	apiKey     string
	policy     RetryPolicy
	limiter    *rate.Limiter

	// baseURL overrides the per-network https host when non-empty (tests).
	baseURL string

	// sleep and randFloat are injectable for deterministic tests.
	sleep     func(time.Duration)
	randFloat func() float64
}

// NewClient creates a Client with the given API key and retry policy.
func NewClient(apiKey string, policy RetryPolicy) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: config.APITimeout},
		apiKey:     apiKey,
		policy:     policy,
		// Burst(1) spreads requests evenly across the second, preventing
		// bursty traffic that can trigger upstream rate limiting even when
		// the average rate is within limits.
		limiter:   rate.NewLimiter(rate.Limit(config.DefaultRequestsPerSecond), 1),
		sleep:     time.Sleep,
		randFloat: rand.Float64,
	}
}

// NewClientFromConfig creates a Client with retry tuning taken from cfg.
func NewClientFromConfig(cfg *config.Config) *Client {
	c := NewClient(cfg.AlchemyAPIKey, RetryPolicy{
		InitialDelay: cfg.InitialRetryDelay,
		MaxDelay:     cfg.MaxRetryDelay,
		Multiplier:   cfg.BackoffMultiplier,
		MaxRetries:   cfg.MaxRetries,
		Jitter:       cfg.RetryJitter,
	})
	c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	return c
}

// redact removes the API key from a message so credentials never reach logs
// or error reports.
func (c *Client) redact(message string) string {
	if c.apiKey == "" {
		return message
	}
	return strings.ReplaceAll(message, c.apiKey, config.RedactedPlaceholder)
}

// rpcURL builds the JSON-RPC base URL for a network host.
func (c *Client) rpcURL(host string) string {
	base := "https://" + host
	if c.baseURL != "" {
		base = c.baseURL
	}
	return fmt.Sprintf("%s/v2/%s", base, c.apiKey)
}

// nftURL builds the NFT REST API URL for a network host and endpoint path.
func (c *Client) nftURL(host, endpointPath string) string {
	base := "https://" + host
	if c.baseURL != "" {
		base = c.baseURL
	}
	return fmt.Sprintf("%s/nft/v3/%s/%s", base, c.apiKey, endpointPath)
}

// applyJitter randomizes a delay by ±Jitter·delay to avoid synchronized
// retry storms across clients.
func (c *Client) applyJitter(d time.Duration) time.Duration {
	if c.policy.Jitter <= 0 {
		return d
	}
	span := float64(d) * c.policy.Jitter
	offset := (c.randFloat()*2 - 1) * span
	return d + time.Duration(offset)
}

// backoff sleeps for the jittered current delay (capped at MaxDelay, or the
// upstream Retry-After hint when that is longer) and grows the delay for the
// next attempt.
func (c *Client) backoff(delay *time.Duration, retryAfter time.Duration) {
	d := *delay
	if d > c.policy.MaxDelay {
		d = c.policy.MaxDelay
	}
	d = c.applyJitter(d)
	if retryAfter > d {
		d = retryAfter
	}
	c.sleep(d)
	*delay = time.Duration(float64(*delay) * c.policy.Multiplier)
}

// executeWithRetry runs do up to MaxRetries+1 times. 429 and 5xx responses
// and transport failures are retried with exponential backoff; 401 fails
// immediately and is never retried. A successful (2xx) response is returned
// with its body unread.
func (c *Client) executeWithRetry(ctx context.Context, do func() (*http.Response, error)) (*http.Response, error) {
	delay := c.policy.InitialDelay

	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, config.NewAPIError(config.ErrTransport, 0, c.redact("rate limiter wait: "+err.Error()))
		}

		resp, err := do()
		if err != nil {
			if attempt < c.policy.MaxRetries {
				slog.Debug("transport error, retrying",
					"attempt", attempt+1,
					"error", c.redact(err.Error()),
				)
				c.backoff(&delay, 0)
				continue
			}
			return nil, config.NewAPIError(config.ErrTransport, 0, "request failed: "+c.redact(err.Error()))
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := parseRetryAfter(resp.Header)
			drainAndClose(resp)
			if attempt < c.policy.MaxRetries {
				slog.Debug("rate limited, retrying",
					"attempt", attempt+1,
					"retryAfter", retryAfter.String(),
				)
				c.backoff(&delay, retryAfter)
				continue
			}
			return nil, config.NewAPIError(config.ErrRateLimited, http.StatusTooManyRequests,
				"rate limit exceeded and max retries reached")

		case resp.StatusCode == http.StatusUnauthorized:
			drainAndClose(resp)
			return nil, config.NewAPIError(config.ErrAuthentication, http.StatusUnauthorized, "invalid API key")

		case resp.StatusCode >= 500:
			status := resp.StatusCode
			drainAndClose(resp)
			if attempt < c.policy.MaxRetries {
				slog.Debug("server error, retrying",
					"attempt", attempt+1,
					"status", status,
				)
				c.backoff(&delay, 0)
				continue
			}
			return nil, config.NewAPIError(config.ErrServer, status, fmt.Sprintf("server error: %d", status))

		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			status := resp.StatusCode
			drainAndClose(resp)
			return nil, config.NewAPIError(config.ErrUpstream, status, fmt.Sprintf("unexpected status: %d", status))
		}

		return resp, nil
	}

	return nil, config.NewAPIError(config.ErrTransport, 0, "max retries exceeded")
}

// rpcRequest is a JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// rpcError is the error object of a JSON-RPC 2.0 response.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// rpcResponse is a JSON-RPC 2.0 response envelope.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Error   *rpcError       `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// call posts a JSON-RPC request for a network and returns the raw result.
// A response carrying an error field fails with the upstream code and message.
// An absent result decodes as an empty object.
func (c *Client) call(ctx context.Context, network models.Network, method string, params any, id int) (json.RawMessage, error) {
	host, err := endpoint(network)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rpc request: %w", err)
	}

	reqURL := c.rpcURL(host)

	resp, err := c.executeWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, config.NewAPIError(config.ErrUpstream, 0, c.redact("decode rpc response: "+err.Error()))
	}

	if rpcResp.Error != nil {
		return nil, config.NewAPIError(config.ErrUpstream, rpcResp.Error.Code,
			c.redact("API error: "+rpcResp.Error.Message))
	}

	if len(rpcResp.Result) == 0 || string(rpcResp.Result) == "null" {
		return json.RawMessage(`{}`), nil
	}

	return rpcResp.Result, nil
}

// restGet issues a GET against the NFT REST API for a network and returns the
// raw JSON body without unwrapping.
func (c *Client) restGet(ctx context.Context, network models.Network, endpointPath string, params url.Values) (json.RawMessage, error) {
	host, err := endpoint(network)
	if err != nil {
		return nil, err
	}

	reqURL := c.nftURL(host, endpointPath)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	resp, err := c.executeWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, config.NewAPIError(config.ErrUpstream, 0, c.redact("read response body: "+err.Error()))
	}

	return body, nil
}

// parseRetryAfter extracts a duration from the Retry-After response header.
// Supports seconds format ("30") and HTTP-date format. Returns 0 if the
// header is missing, unparseable, or in the past.
func parseRetryAfter(header http.Header) time.Duration {
	val := header.Get("Retry-After")
	if val == "" {
		return 0
	}

	// Try seconds format first (most common for APIs).
	if seconds, err := strconv.Atoi(val); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(val); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	return 0
}

// drainAndClose fully reads and closes a response body so the underlying
// connection can be reused.
func drainAndClose(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
