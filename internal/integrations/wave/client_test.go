package wave

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, WithRetryDelay(time.Millisecond))
}

func TestCreateCheckoutSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer wave_sn_key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "15000", body["amount"])
		assert.Equal(t, "XOF", body["currency"])
		assert.Equal(t, "inv-1", body["client_reference"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"cos-1","amount":"15000","currency":"XOF","checkout_status":"open","wave_launch_url":"https://pay.wave.com/c/cos-1"}`)
	})

	sess, err := c.CreateCheckoutSession(t.Context(), "wave_sn_key", gateways.CheckoutSessionRequest{
		Amount:          decimal.NewFromInt(15000),
		Currency:        "XOF",
		ClientReference: "inv-1",
		SuccessURL:      "https://app.example.com/ok",
		ErrorURL:        "https://app.example.com/ko",
	})
	require.NoError(t, err)
	assert.Equal(t, "cos-1", sess.ID)
	assert.Equal(t, "https://pay.wave.com/c/cos-1", sess.LaunchURL)
	assert.True(t, sess.Amount.Equal(decimal.NewFromInt(15000)))
}

func TestCreatePayout_SendsIdempotencyKeyOnce(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/payout", r.URL.Path)
		assert.Equal(t, "idem-42", r.Header.Get("Idempotency-Key"))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"code":"service-unavailable","message":"try later"}`)
	})

	_, err := c.CreatePayout(t.Context(), "key", "idem-42", gateways.PayoutRequest{
		Currency: "XOF", ReceiveAmount: decimal.NewFromInt(500), Mobile: "+221770000000",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Equal(t, int32(1), calls.Load(), "payouts must never be retried")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "service-unavailable", apiErr.Code)
	assert.Equal(t, "try later", apiErr.Message)
}

func TestGetBalance_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, `{"amount":"125000","currency":"XOF"}`)
	})

	bal, err := c.GetBalance(t.Context(), "key")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "XOF", bal.Currency)
	assert.True(t, bal.Amount.Equal(decimal.NewFromInt(125000)))
}

func TestGetPayout_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/payout/pt-1", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":"not-found","message":"no such payout"}`)
	})

	_, err := c.GetPayout(t.Context(), "key", "pt-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Equal(t, int32(1), calls.Load())
}

func TestListTransactions_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transactions", r.URL.Path)
		assert.Equal(t, "2026-03-14", r.URL.Query().Get("date"))
		assert.Equal(t, "cursor-1", r.URL.Query().Get("after"))
		_, _ = io.WriteString(w, `{"items":[{"transaction_id":"T1","amount":"2500","fee":"25","currency":"XOF","timestamp":"2026-03-14T10:00:00Z"}],"has_more":true,"cursor":"cursor-2"}`)
	})

	page, err := c.ListTransactions(t.Context(), "key", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), "cursor-1")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "T1", page.Items[0].TransactionID)
	assert.True(t, page.HasMore)
	assert.Equal(t, "cursor-2", page.Cursor)
}

func TestListTransactions_EmptyItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"has_more":false}`)
	})

	page, err := c.ListTransactions(t.Context(), "key", time.Time{}, "")
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestDo_MissingAPIKey(t *testing.T) {
	c := NewClient("http://127.0.0.1:0")
	_, err := c.GetBalance(t.Context(), "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseAPIError_NonJSONBody(t *testing.T) {
	apiErr := parseAPIError(http.StatusBadGateway, []byte("upstream exploded"))
	assert.Equal(t, "upstream exploded", apiErr.Message)
	assert.Empty(t, apiErr.Code)

	apiErr = parseAPIError(http.StatusInternalServerError, nil)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), apiErr.Message)
}
