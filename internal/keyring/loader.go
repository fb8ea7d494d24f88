package keyring

import (
	"context"
	"errors"
	"strings"

	zkeyring "github.com/zalando/go-keyring"
)

// ErrNotFound mirrors zkeyring.ErrNotFound without leaking the third-party
// type past this package; callers use errors.Is against this value.
var ErrNotFound = errors.New("keyring: credential not found")

// absentSignatures are substrings of a zkeyring error that indicate the
// native backend is not present on this machine rather than merely locked
// or denied, grounded on the teacher's isKeychainNotFoundError /
// isKeychainAccessDeniedError substring-matching approach.
var absentSignatures = []string{
	"secret-service",
	"dbus",
	"not supported on",
	"no keyring daemon",
}

// DefaultLoader wraps zalando/go-keyring: the library already speaks to
// macOS Keychain, Windows Credential Manager, and Linux Secret Service,
// so this loader's only job is deciding whether the backend is present at
// all before the caller ever attempts a real operation.
type DefaultLoader struct{}

// NewDefaultLoader returns the production Loader.
func NewDefaultLoader() *DefaultLoader {
	return &DefaultLoader{}
}

// Load probes cheaply for backend presence and returns an adapter wrapping
// go-keyring. It returns (nil, nil) when the platform signature says the
// native backend is absent (e.g. headless Linux with no Secret Service),
// and a non-nil error only for a genuine, unrecognized load failure.
func (l *DefaultLoader) Load() (Adapter, error) {
	if !platformHasBackend() {
		return nil, nil
	}
	return &goKeyringAdapter{}, nil
}

type goKeyringAdapter struct{}

func (a *goKeyringAdapter) GetPassword(ctx context.Context, service, account string) (string, error) {
	value, err := zkeyring.Get(service, account)
	if err != nil {
		if errors.Is(err, zkeyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", classifyAbsence(err)
	}
	return value, nil
}

func (a *goKeyringAdapter) SetPassword(ctx context.Context, service, account, value string) error {
	if err := zkeyring.Set(service, account, value); err != nil {
		return classifyAbsence(err)
	}
	return nil
}

func (a *goKeyringAdapter) DeletePassword(ctx context.Context, service, account string) error {
	if err := zkeyring.Delete(service, account); err != nil {
		if errors.Is(err, zkeyring.ErrNotFound) {
			return ErrNotFound
		}
		return classifyAbsence(err)
	}
	return nil
}

// classifyAbsence wraps an error whose text matches an absentSignature in
// errUnavailable, leaving its message unchanged; other errors are returned
// as-is. It does not assign a taxonomy code itself: SecureStore's
// classifier (see internal/securestore) maps errUnavailable, detected via
// IsUnavailable, to UNAVAILABLE.
func classifyAbsence(err error) error {
	msg := strings.ToLower(err.Error())
	for _, sig := range absentSignatures {
		if strings.Contains(msg, sig) {
			return errUnavailable{cause: err}
		}
	}
	return err
}

// errUnavailable marks an error as indicating the backend itself is
// unreachable (as opposed to locked, denied, or a plain miss).
type errUnavailable struct{ cause error }

func (e errUnavailable) Error() string { return e.cause.Error() }
func (e errUnavailable) Unwrap() error { return e.cause }

// IsUnavailable reports whether err was produced by classifyAbsence.
func IsUnavailable(err error) bool {
	var u errUnavailable
	return errors.As(err, &u)
}
