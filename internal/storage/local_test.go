package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestSaveOpenDelete(t *testing.T) {
	s := newStorage(t)
	ctx := t.Context()

	n, err := s.Save(ctx, "user-1/file-1.pdf", strings.NewReader("%PDF-1.4"), 1024)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)

	rc, err := s.Open(ctx, "user-1/file-1.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, s.Delete(ctx, "user-1/file-1.pdf"))
	_, err = s.Open(ctx, "user-1/file-1.pdf")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "user-1/file-1.pdf"), apperrors.ErrNotFound)
}

func TestSave_TooLarge(t *testing.T) {
	s := newStorage(t)

	_, err := s.Save(t.Context(), "u/big.bin", strings.NewReader(strings.Repeat("x", 11)), 10)
	assert.ErrorIs(t, err, apperrors.ErrPayloadTooLarge)

	entries, err := os.ReadDir(filepath.Join(s.root, "u"))
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial file is left behind")
}

func TestSave_ExactLimit(t *testing.T) {
	s := newStorage(t)
	n, err := s.Save(t.Context(), "u/ok.bin", strings.NewReader(strings.Repeat("x", 10)), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
}

func TestResolve_RejectsTraversal(t *testing.T) {
	s := newStorage(t)
	for _, key := range []string{"../escape", "u/../../escape", ""} {
		_, err := s.resolve(key)
		assert.ErrorIs(t, err, apperrors.ErrValidation, key)
	}
}

func TestSave_CancelledContext(t *testing.T) {
	s := newStorage(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := s.Save(ctx, "u/c.bin", strings.NewReader("data"), 100)
	assert.ErrorIs(t, err, context.Canceled)
}
