package keyring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProber_CachesWithinTTL(t *testing.T) {
	loader := NewInMemoryLoader()
	p := NewProber(loader)
	clock := time.Now()
	p.now = func() time.Time { return clock }

	require.True(t, p.Available(context.Background()))

	// Make the backend start failing; cached verdict should still win.
	loader.Adapter.SetErr = assert.AnError
	assert.True(t, p.Available(context.Background()))

	clock = clock.Add(probeTTL + time.Second)
	assert.False(t, p.Available(context.Background()))
}

func TestProber_AbsentBackendIsUnavailable(t *testing.T) {
	loader := &InMemoryLoader{Absent: true}
	p := NewProber(loader)

	assert.False(t, p.Available(context.Background()))
}

func TestProber_GetMismatchIsUnavailable(t *testing.T) {
	loader := NewInMemoryLoader()
	loader.Adapter.CorruptReads = true
	p := NewProber(loader)

	assert.False(t, p.Available(context.Background()), "a backend that accepts writes but returns a mismatched value on read must be reported unavailable")
}

func TestProber_InvalidateForcesReprobe(t *testing.T) {
	loader := NewInMemoryLoader()
	p := NewProber(loader)
	clock := time.Now()
	p.now = func() time.Time { return clock }

	require.True(t, p.Available(context.Background()))

	loader.Adapter.SetErr = assert.AnError
	p.Invalidate()

	assert.False(t, p.Available(context.Background()))
}
