package wave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	"github.com/kevkotuto/freelance_backend/internal/observability"
	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL    = "https://api.wave.com"
	maxGetAttempts    = 3
	initialRetryDelay = 500 * time.Millisecond
	maxResponseBytes  = 1 << 20
)

// Client calls the Wave REST API. The API key is supplied per call because
// every user brings their own.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryDelay sets the initial backoff between GET retries.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// NewClient creates a Wave client for baseURL (https://api.wave.com when empty).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retryDelay: initialRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ gateways.WaveClient = (*Client)(nil)

// APIError is a non-2xx answer from Wave.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("wave api error (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("wave api error (%d): %s", e.Status, e.Message)
}

// Unwrap lets callers match the error with errors.Is(err, apperrors.ErrUpstream).
func (e *APIError) Unwrap() error { return apperrors.ErrUpstream }

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if gjson.ValidBytes(body) {
		res := gjson.GetManyBytes(body, "code", "message")
		apiErr.Code = res[0].String()
		apiErr.Message = res[1].String()
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// do sends one request. POSTs are sent exactly once; GETs are retried with
// exponential backoff on transport errors, 429 and 5xx.
func (c *Client) do(ctx context.Context, method, path, apiKey string, headers map[string]string, in, out any) error {
	if apiKey == "" {
		return fmt.Errorf("%w: Wave API key is not configured", apperrors.ErrValidation)
	}
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("failed to marshal wave request: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = maxGetAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * c.retryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create wave request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)
		req.Header.Set("Accept", "application/json")
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: wave request failed: %v", apperrors.ErrUpstream, err)
			continue
		}
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: failed to read wave response: %v", apperrors.ErrUpstream, err)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = parseAPIError(resp.StatusCode, respBody)
			if retryable(resp.StatusCode) {
				continue
			}
			return lastErr
		}
		if out == nil || len(respBody) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: failed to decode wave response: %v", apperrors.ErrUpstream, err)
		}
		return nil
	}
	return lastErr
}

func (c *Client) call(ctx context.Context, op, method, path, apiKey string, headers map[string]string, in, out any) error {
	err := c.do(ctx, method, path, apiKey, headers, in, out)
	observability.RecordWaveCall(op, err)
	return err
}

func idempotencyHeader(key string) map[string]string {
	if key == "" {
		return nil
	}
	return map[string]string{"Idempotency-Key": key}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, apiKey string, req gateways.CheckoutSessionRequest) (*gateways.CheckoutSession, error) {
	var out gateways.CheckoutSession
	if err := c.call(ctx, "create_checkout", http.MethodPost, "/v1/checkout/sessions", apiKey, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCheckoutSession(ctx context.Context, apiKey, sessionID string) (*gateways.CheckoutSession, error) {
	var out gateways.CheckoutSession
	if err := c.call(ctx, "get_checkout", http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), apiKey, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePayout(ctx context.Context, apiKey, idempotencyKey string, req gateways.PayoutRequest) (*gateways.PayoutResult, error) {
	var out gateways.PayoutResult
	if err := c.call(ctx, "create_payout", http.MethodPost, "/v1/payout", apiKey, idempotencyHeader(idempotencyKey), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPayout(ctx context.Context, apiKey, payoutID string) (*gateways.PayoutResult, error) {
	var out gateways.PayoutResult
	if err := c.call(ctx, "get_payout", http.MethodGet, "/v1/payout/"+url.PathEscape(payoutID), apiKey, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePayoutBatch(ctx context.Context, apiKey, idempotencyKey string, req gateways.PayoutBatchRequest) (*gateways.PayoutBatch, error) {
	var out gateways.PayoutBatch
	if err := c.call(ctx, "create_payout_batch", http.MethodPost, "/v1/payout-batch", apiKey, idempotencyHeader(idempotencyKey), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPayoutBatch(ctx context.Context, apiKey, batchID string) (*gateways.PayoutBatch, error) {
	var out gateways.PayoutBatch
	if err := c.call(ctx, "get_payout_batch", http.MethodGet, "/v1/payout-batch/"+url.PathEscape(batchID), apiKey, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBalance(ctx context.Context, apiKey string) (*gateways.Balance, error) {
	var out gateways.Balance
	if err := c.call(ctx, "get_balance", http.MethodGet, "/v1/balance", apiKey, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTransactions(ctx context.Context, apiKey string, date time.Time, after string) (*gateways.TransactionPage, error) {
	q := url.Values{}
	if !date.IsZero() {
		q.Set("date", date.Format("2006-01-02"))
	}
	if after != "" {
		q.Set("after", after)
	}
	path := "/v1/transactions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out gateways.TransactionPage
	if err := c.call(ctx, "list_transactions", http.MethodGet, path, apiKey, nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []gateways.Transaction{}
	}
	return &out, nil
}
