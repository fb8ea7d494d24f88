// Package providerkeys implements ProviderKeyStorage: a thin validating
// layer over a SecureStore instance dedicated to named provider API keys.
// Grounded on the teacher's file_storage.go pattern of resolving a
// default directory under the user's home, and on the teacher's provider
// clients validating input before ever touching a backend.
package providerkeys

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/systmms/llxprt-securestore/internal/securestore"
	"github.com/systmms/llxprt-securestore/internal/validation"
)

// ServiceName is the opaque keyring service namespace for provider keys.
// It must remain stable across releases so existing keyring entries keep
// resolving.
const ServiceName = "llxprt-code-provider-keys"

// Storage wraps a SecureStore scoped to named provider API keys, applying
// name-grammar validation and API-key normalization before every
// delegated call.
type Storage struct {
	store *securestore.Store
}

// New builds a Storage backed by a fresh SecureStore at fallbackDir. Pass
// an empty fallbackDir to use the default, ~/provider-keys.
func New(fallbackDir string, opts ...securestore.Option) (*Storage, error) {
	if fallbackDir == "" {
		dir, err := defaultFallbackDir()
		if err != nil {
			return nil, err
		}
		fallbackDir = dir
	}
	store, err := securestore.New(ServiceName, fallbackDir, opts...)
	if err != nil {
		return nil, err
	}
	return &Storage{store: store}, nil
}

func defaultFallbackDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("providerkeys: resolving home directory: %w", err)
	}
	return filepath.Join(home, "provider-keys"), nil
}

// SaveKey validates name, normalizes apiKey (stripping trailing CR/LF and
// surrounding whitespace), and stores the pair. An apiKey that normalizes
// to empty is rejected before it ever reaches SecureStore.
func (s *Storage) SaveKey(ctx context.Context, name, apiKey string) error {
	if !validation.ValidName(name) {
		return validation.NameError(name)
	}
	normalized := validation.NormalizeAPIKey(apiKey)
	if normalized == "" {
		return fmt.Errorf("API key for '%s' is empty after normalization", name)
	}
	return s.store.Set(ctx, name, normalized)
}

// GetKey validates name and returns the stored key, or (false, nil) if
// none is stored.
func (s *Storage) GetKey(ctx context.Context, name string) (string, bool, error) {
	if !validation.ValidName(name) {
		return "", false, validation.NameError(name)
	}
	return s.store.Get(ctx, name)
}

// DeleteKey validates name and removes the stored key, reporting whether
// anything was actually removed.
func (s *Storage) DeleteKey(ctx context.Context, name string) (bool, error) {
	if !validation.ValidName(name) {
		return false, validation.NameError(name)
	}
	return s.store.Delete(ctx, name)
}

// HasKey validates name and reports whether a key is stored under it.
func (s *Storage) HasKey(ctx context.Context, name string) (bool, error) {
	if !validation.ValidName(name) {
		return false, validation.NameError(name)
	}
	return s.store.Has(ctx, name)
}

// ListKeys returns every stored key name, sorted alphabetically.
func (s *Storage) ListKeys(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

var (
	singletonMu sync.Mutex
	singleton   *Storage
)

// Default returns the process-wide ProviderKeyStorage instance, building
// it on first use with the default fallback directory. Tests that need a
// fresh instance should call Reset first.
func Default() (*Storage, error) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton != nil {
		return singleton, nil
	}
	s, err := New("")
	if err != nil {
		return nil, err
	}
	singleton = s
	return singleton, nil
}

// Reset discards the process-wide singleton so the next Default() call
// builds a fresh instance. Intended for test isolation.
func Reset() {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	singleton = nil
}
