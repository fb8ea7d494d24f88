// Package securestore implements the SecureStore engine: the single
// authoritative component that routes credential reads and writes
// between the OS keyring and the encrypted fallback store, classifies
// backend errors into a closed taxonomy, and emits structured
// observability records. Grounded on the teacher's keychain client
// error-wrapping idiom (internal/providers/keychain.go, errors.go,
// before the provider registry was dropped) and the opd-ai-whisp
// security.Manager's try-keyring-then-fallback routing.
package securestore

import (
	"errors"
	"fmt"
)

// Code is one of the six closed taxonomy values a SecureStoreError may
// carry; no other code is ever produced.
type Code string

const (
	CodeUnavailable Code = "UNAVAILABLE"
	CodeLocked      Code = "LOCKED"
	CodeDenied      Code = "DENIED"
	CodeCorrupt     Code = "CORRUPT"
	CodeTimeout     Code = "TIMEOUT"
	CodeNotFound    Code = "NOT_FOUND"
)

var remediations = map[Code]string{
	CodeUnavailable: "Install or configure the native OS keyring, or set the fallback policy to 'allow' to use the encrypted file store",
	CodeLocked:      "Unlock your OS keychain or credential manager and retry",
	CodeDenied:      "Grant this application access when your OS keychain prompts, then retry",
	CodeCorrupt:     "The stored envelope is unreadable or uses an unsupported format; remove it to start fresh",
	CodeTimeout:     "The operation exceeded its time budget; check system load and retry",
	CodeNotFound:    "No value is stored for this key",
}

// Error is the closed-taxonomy error every SecureStore operation returns
// for failures other than "key absent". It always carries a remediation
// string and the original cause.
type Error struct {
	Code   Code
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("securestore: %s: %v", e.Code, e.Cause)
	}
	return fmt.Sprintf("securestore: %s", e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

// Remediation returns the static guidance string for e's code.
func (e *Error) Remediation() string { return remediations[e.Code] }

// newError builds a taxonomy error; its remediation is looked up from the
// code by Remediation.
func newError(code Code, cause error) *Error {
	return &Error{Code: code, Cause: cause}
}

// IsNotFound reports whether err is a SecureStoreError with CodeNotFound.
func IsNotFound(err error) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == CodeNotFound
}
