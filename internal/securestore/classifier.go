package securestore

import (
	"errors"
	"strings"

	"github.com/systmms/llxprt-securestore/internal/fallbackstore"
	"github.com/systmms/llxprt-securestore/internal/keyring"
)

// classify maps a lower-layer error to the closed taxonomy per spec
// §4.5. Errors that already carry a recognized sentinel (keyring.ErrNotFound,
// fallbackstore.ErrNotFound, fallbackstore.ErrCorrupt) are mapped directly;
// everything else falls back to a substring match on the error text, the
// same technique the teacher's keychain client used to distinguish
// "not found" from "access denied" from a go-keyring library error.
func classify(err error) *Error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, keyring.ErrNotFound), errors.Is(err, fallbackstore.ErrNotFound):
		return newError(CodeNotFound, err)
	case errors.Is(err, fallbackstore.ErrCorrupt):
		return newError(CodeCorrupt, err)
	case keyring.IsUnavailable(err):
		return newError(CodeUnavailable, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "locked"), strings.Contains(msg, "signed out"), strings.Contains(msg, "sign in"):
		return newError(CodeLocked, err)
	case strings.Contains(msg, "denied"), strings.Contains(msg, "permission"), strings.Contains(msg, "access"):
		return newError(CodeDenied, err)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "context canceled"):
		return newError(CodeTimeout, err)
	case strings.Contains(msg, "not found"), strings.Contains(msg, "no such"):
		return newError(CodeNotFound, err)
	}

	return newError(CodeUnavailable, err)
}

// isTransient reports whether a classified error should invalidate the
// availability prober's cache so the next operation re-probes.
func isTransient(e *Error) bool {
	return e != nil && (e.Code == CodeTimeout || e.Code == CodeUnavailable)
}
