package keyring

import (
	"context"
	"sync"
)

// FakeAdapter is an in-memory Adapter for tests, grounded on the teacher's
// tests/fakes/fake_keychain.go FakeKeychainClient.
type FakeAdapter struct {
	mu sync.Mutex

	// secrets is service -> account -> value.
	secrets map[string]map[string]string

	// Unavailable, when true, makes every call return errUnavailable.
	Unavailable bool

	// GetErr, SetErr, DeleteErr override the corresponding call's error
	// when non-nil, for simulating transient backend failures.
	GetErr, SetErr, DeleteErr error

	// CorruptReads, when true, makes GetPassword return a fixed garbage
	// value instead of whatever was actually stored, for simulating a
	// backend that accepts writes but never returns them intact.
	CorruptReads bool
}

// NewFakeAdapter creates an empty in-memory adapter.
func NewFakeAdapter() *FakeAdapter {
	return &FakeAdapter{secrets: make(map[string]map[string]string)}
}

// Seed pre-populates a value, bypassing SetPassword, for test setup.
func (f *FakeAdapter) Seed(service, account, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.secrets[service] == nil {
		f.secrets[service] = make(map[string]string)
	}
	f.secrets[service][account] = value
}

func (f *FakeAdapter) GetPassword(ctx context.Context, service, account string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return "", errUnavailable{cause: ErrNotFound}
	}
	if f.GetErr != nil {
		return "", f.GetErr
	}
	if f.CorruptReads {
		return "garbage", nil
	}
	if accounts, ok := f.secrets[service]; ok {
		if v, ok := accounts[account]; ok {
			return v, nil
		}
	}
	return "", ErrNotFound
}

func (f *FakeAdapter) SetPassword(ctx context.Context, service, account, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return errUnavailable{cause: ErrNotFound}
	}
	if f.SetErr != nil {
		return f.SetErr
	}
	if f.secrets[service] == nil {
		f.secrets[service] = make(map[string]string)
	}
	f.secrets[service][account] = value
	return nil
}

func (f *FakeAdapter) DeletePassword(ctx context.Context, service, account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return errUnavailable{cause: ErrNotFound}
	}
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	accounts, ok := f.secrets[service]
	if !ok {
		return ErrNotFound
	}
	if _, ok := accounts[account]; !ok {
		return ErrNotFound
	}
	delete(accounts, account)
	return nil
}

// FindCredentials implements Enumerator.
func (f *FakeAdapter) FindCredentials(ctx context.Context, service string) ([]Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	accounts, ok := f.secrets[service]
	if !ok {
		return nil, nil
	}
	creds := make([]Credential, 0, len(accounts))
	for account, value := range accounts {
		creds = append(creds, Credential{Account: account, Value: value})
	}
	return creds, nil
}

// InMemoryLoader always returns the same FakeAdapter, or nil when Absent.
type InMemoryLoader struct {
	Adapter *FakeAdapter
	Absent  bool
}

// NewInMemoryLoader builds a Loader backed by a fresh FakeAdapter.
func NewInMemoryLoader() *InMemoryLoader {
	return &InMemoryLoader{Adapter: NewFakeAdapter()}
}

func (l *InMemoryLoader) Load() (Adapter, error) {
	if l.Absent {
		return nil, nil
	}
	return l.Adapter, nil
}
