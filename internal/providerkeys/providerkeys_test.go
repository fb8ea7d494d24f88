package providerkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/llxprt-securestore/internal/keyring"
	"github.com/systmms/llxprt-securestore/internal/securestore"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir(), securestore.WithLoader(keyring.NewInMemoryLoader()))
	require.NoError(t, err)
	return s
}

func TestSaveAndGetKey(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveKey(ctx, "openai", "sk-test-123\r\n"))

	value, ok, err := s.GetKey(ctx, "openai")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sk-test-123", value, "trailing CRLF must be stripped")
}

func TestSaveKey_InvalidName(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	err := s.SaveKey(ctx, "bad name!", "sk-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad name!")
	assert.Contains(t, err.Error(), "invalid")
}

func TestSaveKey_EmptyAfterNormalization(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	err := s.SaveKey(ctx, "openai", "   \r\n  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestDeleteKey(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveKey(ctx, "openai", "sk-test"))
	removed, err := s.DeleteKey(ctx, "openai")
	require.NoError(t, err)
	assert.True(t, removed)

	has, err := s.HasKey(ctx, "openai")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestListKeysSorted(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveKey(ctx, "zeta", "z"))
	require.NoError(t, s.SaveKey(ctx, "alpha", "a"))

	keys, err := s.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, keys)
}

func TestDefaultSingletonAndReset(t *testing.T) {
	Reset()
	defer Reset()

	first, err := Default()
	require.NoError(t, err)
	second, err := Default()
	require.NoError(t, err)
	assert.Same(t, first, second)

	Reset()
	third, err := Default()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}
