package assistant

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var conversation = []domain.ChatMessage{
	{Role: domain.RoleSystem, Content: "You help freelancers."},
	{Role: domain.RoleUser, Content: "How much am I owed?"},
}

func newServerClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient("sk-test", srv.URL, "gpt-test", WithRetryDelay(time.Millisecond))
}

func TestComplete_Success(t *testing.T) {
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, domain.RoleSystem, req.Messages[0].Role)

		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"You are owed 3 000 XOF."}}]}`)
	})

	reply, err := c.Complete(t.Context(), conversation)
	require.NoError(t, err)
	assert.Equal(t, "You are owed 3 000 XOF.", reply)
}

func TestComplete_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error":{"message":"slow down"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	})

	reply, err := c.Complete(t.Context(), conversation)
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, int32(2), calls.Load())
}

func TestComplete_ClientErrorStops(t *testing.T) {
	var calls atomic.Int32
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"bad key"}}`)
	})

	_, err := c.Complete(t.Context(), conversation)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Contains(t, err.Error(), "bad key")
	assert.Equal(t, int32(1), calls.Load())
}

func TestComplete_NoChoices(t *testing.T) {
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[]}`)
	})

	_, err := c.Complete(t.Context(), conversation)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestDisabledWithoutKey(t *testing.T) {
	c := NewClient("", "http://unused", "gpt-test")
	assert.False(t, c.Enabled())

	_, err := c.Complete(t.Context(), conversation)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}
