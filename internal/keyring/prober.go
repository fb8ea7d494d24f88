package keyring

import (
	"context"
	"sync"
	"time"
)

// probeTTL is the lifetime of a cached availability result (spec §4.3:
// isKeychainAvailable() caches for 60 seconds).
const probeTTL = 60 * time.Second

// probeService/probeAccount are the canary (service, account) pair written
// and read back to decide whether the backend actually answers calls, not
// just whether a Loader returned a non-nil Adapter.
const (
	probeService = "llxprt-code-securestore-probe"
	probeAccount = "availability-check"
)

type probeResult struct {
	available bool
	at        time.Time
}

// Prober caches keyring availability for probeTTL, grounded on the
// teacher's rotation health checker pattern (internal/rotation/health) of
// memoizing an expensive liveness check behind a mutex and a clock seam so
// tests can force expiry without sleeping.
type Prober struct {
	loader Loader

	mu     sync.Mutex
	cached *probeResult

	now func() time.Time
}

// NewProber builds a Prober backed by loader, using wall-clock time.
func NewProber(loader Loader) *Prober {
	return &Prober{loader: loader, now: time.Now}
}

// Available reports whether the OS keyring is usable right now, reusing a
// cached verdict younger than probeTTL. A fresh probe performs one real
// Adapter round-trip (set, then get to verify the value actually comes
// back, then delete) so a vault that accepts writes but returns garbage
// or nothing on read — or refuses every call outright, e.g. the user
// dismissed a prompt — is correctly reported unavailable rather than
// trusted on Loader presence alone.
func (p *Prober) Available(ctx context.Context) bool {
	p.mu.Lock()
	cached := p.cached
	p.mu.Unlock()

	now := p.now()
	if cached != nil && now.Sub(cached.at) < probeTTL {
		return cached.available
	}

	available := p.probe(ctx)

	p.mu.Lock()
	p.cached = &probeResult{available: available, at: now}
	p.mu.Unlock()

	return available
}

// Invalidate discards the cached verdict immediately, used after a
// transient (TIMEOUT/UNAVAILABLE) error on a real operation so the next
// Available() call re-probes instead of trusting a stale "yes" for up to
// another 60 seconds.
func (p *Prober) Invalidate() {
	p.mu.Lock()
	p.cached = nil
	p.mu.Unlock()
}

func (p *Prober) probe(ctx context.Context) bool {
	const canaryValue = "ok"

	adapter, err := p.loader.Load()
	if err != nil || adapter == nil {
		return false
	}
	if err := adapter.SetPassword(ctx, probeService, probeAccount, canaryValue); err != nil {
		return false
	}
	defer func() { _ = adapter.DeletePassword(ctx, probeService, probeAccount) }()

	got, err := adapter.GetPassword(ctx, probeService, probeAccount)
	if err != nil || got != canaryValue {
		return false
	}
	return true
}
