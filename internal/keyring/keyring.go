// Package keyring abstracts the OS credential vault behind a small
// capability interface so SecureStore never depends on a specific native
// backend. See internal/securestore for the component that consumes it.
package keyring

import "context"

// Credential is one entry returned by Adapter.FindCredentials.
type Credential struct {
	Account string
	Value   string
}

// Adapter is the KeyringCapability contract: get/set/delete a password for
// a (service, account) pair. Implementations must be safe for concurrent
// use by a single SecureStore instance (SecureStore does not serialize its
// calls to the adapter, for the same key or across keys).
type Adapter interface {
	GetPassword(ctx context.Context, service, account string) (string, error)
	SetPassword(ctx context.Context, service, account, value string) error
	DeletePassword(ctx context.Context, service, account string) error
}

// Enumerator is an optional capability: an Adapter may additionally
// implement it to support SecureStore.List(). Callers type-assert for it
// rather than requiring it on Adapter, since not every backend supports
// enumeration (spec §4.4: findCredentials is optional).
type Enumerator interface {
	FindCredentials(ctx context.Context, service string) ([]Credential, error)
}

// Loader obtains (or fails to obtain) an Adapter. Load returns (nil, nil)
// when the native backend is simply absent from the platform — a
// recognized, non-erroring condition distinct from a real load failure,
// which is returned as a non-nil error.
type Loader interface {
	Load() (Adapter, error)
}
