package securestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/systmms/llxprt-securestore/internal/fallbackstore"
	"github.com/systmms/llxprt-securestore/internal/keyring"
	"github.com/systmms/llxprt-securestore/internal/logging"
)

var errKeyringUnavailable = errors.New("securestore: keyring unavailable and fallback policy is deny")

func errInvalidKey(key string) error {
	return fmt.Errorf("securestore: invalid key %q", key)
}

// FallbackPolicy is the two-state configuration governing what happens
// when the keyring is unavailable. There is no third state and no
// per-operation override, per spec §4.4.
type FallbackPolicy int

const (
	// PolicyAllow writes/reads the encrypted fallback store when the
	// keyring is unavailable. Default.
	PolicyAllow FallbackPolicy = iota
	// PolicyDeny raises UNAVAILABLE instead of touching the fallback store.
	PolicyDeny
)

// Option configures a Store at construction.
type Option func(*Store)

// WithFallbackPolicy overrides the default PolicyAllow.
func WithFallbackPolicy(p FallbackPolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithLoader overrides the default keyring.Loader, primarily for tests.
func WithLoader(l keyring.Loader) Option {
	return func(s *Store) { s.loader = l }
}

// WithLogger overrides the default silent logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store is the SecureStore engine: it composes a keyring Loader, an
// Availability Prober, and a FallbackStore, routing CRUD operations
// between them and classifying every error into the closed taxonomy.
type Store struct {
	serviceName string
	policy      FallbackPolicy
	loader      keyring.Loader
	prober      *keyring.Prober
	fallback    *fallbackstore.Store
	logger      *logging.Logger
	metrics     *Metrics
}

// New builds a Store for serviceName, persisting fallback files under
// fallbackDir. serviceName is the opaque keyring service namespace
// (e.g. "llxprt-code-provider-keys"); it must remain stable across
// releases so existing keyring entries keep resolving.
func New(serviceName, fallbackDir string, opts ...Option) (*Store, error) {
	fb, err := fallbackstore.New(fallbackDir)
	if err != nil {
		return nil, err
	}

	s := &Store{
		serviceName: serviceName,
		policy:      PolicyAllow,
		loader:      keyring.NewDefaultLoader(),
		fallback:    fb,
		logger:      logging.New(false, true),
		metrics:     NewMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.prober = keyring.NewProber(s.loader)

	return s, nil
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:12]
}

func (s *Store) record(op string, keyHash string, start time.Time, route string, classified *Error, fellThrough bool) {
	outcome := "success"
	if classified != nil {
		outcome = string(classified.Code)
	}
	s.metrics.Record(op, route, outcome, time.Since(start).Seconds(), fellThrough)
	s.logger.Debug(
		"securestore op_id=%s op=%s key_hash=%s route=%s outcome=%s elapsed=%s fallback=%t",
		uuid.NewString(), op, keyHash, route, outcome, time.Since(start), fellThrough,
	)
}

// adapter returns the current keyring adapter if the backend is
// available, or nil if it is not (absent, or the loader failed).
func (s *Store) adapter(ctx context.Context) keyring.Adapter {
	if !s.prober.Available(ctx) {
		return nil
	}
	a, err := s.loader.Load()
	if err != nil || a == nil {
		return nil
	}
	return a
}

// Set stores value under key, validating key per the path-safety rules.
// Route: keyring first when available; a transient keyring failure
// falls through to the fallback store when the policy is PolicyAllow and
// is returned as-is under PolicyDeny; an unavailable keyring honors the
// configured FallbackPolicy.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if !fallbackstore.ValidKey(key) {
		return newError(CodeCorrupt, errInvalidKey(key))
	}
	start := time.Now()
	kh := hashKey(key)

	if a := s.adapter(ctx); a != nil {
		err := a.SetPassword(ctx, s.serviceName, key, value)
		if err == nil {
			s.record("set", kh, start, "keyring", nil, false)
			return nil
		}
		classified := classify(err)
		if isTransient(classified) {
			s.prober.Invalidate()
			if s.policy != PolicyDeny {
				return s.setFallback(key, value, kh, start, true)
			}
		}
		s.record("set", kh, start, "keyring", classified, false)
		return classified
	}

	if s.policy == PolicyDeny {
		classified := newError(CodeUnavailable, errKeyringUnavailable)
		s.record("set", kh, start, "keyring", classified, false)
		return classified
	}
	return s.setFallback(key, value, kh, start, false)
}

func (s *Store) setFallback(key, value, keyHash string, start time.Time, triggeredFallback bool) error {
	if err := s.fallback.Set(key, value); err != nil {
		classified := classify(err)
		s.record("set", keyHash, start, "fallback", classified, triggeredFallback)
		return classified
	}
	s.record("set", keyHash, start, "fallback", nil, triggeredFallback)
	return nil
}

// Get returns the value for key, or (false, nil) if neither backend
// holds it. Order: keyring first when available (so it wins when both
// stores disagree), then fallback. Get never synthesizes a fallback
// read from a classified error — a non-NOT_FOUND error propagates.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if !fallbackstore.ValidKey(key) {
		return "", false, newError(CodeCorrupt, errInvalidKey(key))
	}
	start := time.Now()
	kh := hashKey(key)

	if a := s.adapter(ctx); a != nil {
		value, err := a.GetPassword(ctx, s.serviceName, key)
		if err == nil {
			s.record("get", kh, start, "keyring", nil, false)
			return value, true, nil
		}
		classified := classify(err)
		if classified.Code == CodeNotFound {
			return s.getFallback(key, kh, start)
		}
		if isTransient(classified) {
			s.prober.Invalidate()
		}
		s.record("get", kh, start, "keyring", classified, false)
		return "", false, classified
	}

	return s.getFallback(key, kh, start)
}

func (s *Store) getFallback(key, keyHash string, start time.Time) (string, bool, error) {
	value, err := s.fallback.Get(key)
	if err == nil {
		s.record("get", keyHash, start, "fallback", nil, true)
		return value, true, nil
	}
	classified := classify(err)
	if classified.Code == CodeNotFound {
		s.record("get", keyHash, start, "fallback", nil, true)
		return "", false, nil
	}
	s.record("get", keyHash, start, "fallback", classified, true)
	return "", false, classified
}

// Delete removes key from both backends. It returns true iff at least
// one deletion actually removed something; failures that are not
// NOT_FOUND propagate.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if !fallbackstore.ValidKey(key) {
		return false, newError(CodeCorrupt, errInvalidKey(key))
	}
	start := time.Now()
	kh := hashKey(key)
	var removedFromKeyring, removedFromFallback bool

	if a := s.adapter(ctx); a != nil {
		_, getErr := a.GetPassword(ctx, s.serviceName, key)
		existed := getErr == nil
		if err := a.DeletePassword(ctx, s.serviceName, key); err != nil {
			classified := classify(err)
			if classified.Code != CodeNotFound {
				s.record("delete", kh, start, "keyring", classified, false)
				return false, classified
			}
		} else if existed {
			removedFromKeyring = true
		}
	}

	if existedInFallback := s.fallback.Has(key); existedInFallback {
		if err := s.fallback.Delete(key); err != nil {
			classified := classify(err)
			if classified.Code != CodeNotFound {
				s.record("delete", kh, start, "fallback", classified, false)
				return removedFromKeyring, classified
			}
		} else {
			removedFromFallback = true
		}
	}

	s.record("delete", kh, start, deleteRoute(removedFromKeyring, removedFromFallback), nil, false)
	return removedFromKeyring || removedFromFallback, nil
}

// deleteRoute names which backend(s) actually removed the key, for the
// final record() call in Delete — distinct from the early-return records
// above, which already know their own route from the branch that failed.
func deleteRoute(keyring, fallback bool) string {
	switch {
	case keyring && fallback:
		return "keyring+fallback"
	case keyring:
		return "keyring"
	case fallback:
		return "fallback"
	default:
		return "none"
	}
}

// List unions keyring enumeration (when the adapter supports it) with
// fallback-file enumeration, sorted. A keyring enumeration error does
// not abort the fallback listing (spec §9 open question: silent skip).
func (s *Store) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	seen := make(map[string]struct{})

	if a := s.adapter(ctx); a != nil {
		if enumerator, ok := a.(keyring.Enumerator); ok {
			creds, err := enumerator.FindCredentials(ctx, s.serviceName)
			if err != nil {
				s.logger.Debug("securestore list: keyring enumeration failed, skipping: %v", err)
			} else {
				for _, c := range creds {
					if fallbackstore.ValidKey(c.Account) {
						seen[c.Account] = struct{}{}
					} else {
						s.logger.Debug("securestore list: skipping malformed keyring account %q", c.Account)
					}
				}
			}
		}
	}

	fallbackKeys, err := s.fallback.List()
	if err != nil {
		s.logger.Debug("securestore list: fallback enumeration failed, skipping: %v", err)
	} else {
		for _, k := range fallbackKeys {
			seen[k] = struct{}{}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sortStrings(keys)

	s.record("list", "-", start, "union", nil, false)
	return keys, nil
}

// Has reports whether key is stored in either backend. It returns false
// iff both stores are NOT_FOUND; any other classified error propagates.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func sortStrings(ss []string) {
	sort.Strings(ss)
}
