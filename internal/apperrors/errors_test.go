package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("bad amount: %w", apperrors.ErrValidation), http.StatusBadRequest},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"signature", apperrors.ErrInvalidSignature, http.StatusUnauthorized},
		{"not found", fmt.Errorf("client: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"duplicate", fmt.Errorf("%w: client name", apperrors.ErrDuplicate), http.StatusConflict},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"too large", apperrors.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"rate limited", apperrors.ErrRateLimited, http.StatusTooManyRequests},
		{"upstream", apperrors.ErrUpstream, http.StatusBadGateway},
		{"unavailable", apperrors.ErrUnavailable, http.StatusServiceUnavailable},
		{"app error", apperrors.NewAppError(http.StatusTeapot, "teapot", nil), http.StatusTeapot},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperrors.StatusCode(tc.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := apperrors.NewBadGatewayError("wave payout failed", errors.New("insufficient-funds"))
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Contains(t, err.Error(), "wave payout failed")

	bad := apperrors.NewBadRequestError("missing code")
	assert.ErrorIs(t, bad, apperrors.ErrValidation)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}
