// Package authresolve implements the Auth-Source Resolver: the single
// stage that picks the active session API key from ranked sources at
// startup. Grounded on the teacher's resolve.Resolver precedence-walk
// shape (internal/resolve/resolver.go, read for grounding before removal)
// generalized from an arbitrary provider-variable registry down to the
// spec's fixed six-source auth precedence.
package authresolve

import (
	"context"
	"fmt"

	"github.com/systmms/llxprt-securestore/internal/logging"
)

// SourceKind identifies one of the six ranked auth sources, highest
// precedence first.
type SourceKind string

const (
	RawCLIKey       SourceKind = "RAW_CLI_KEY"
	CLIKeyName      SourceKind = "CLI_KEY_NAME"
	ProfileKeyName  SourceKind = "PROFILE_KEY_NAME"
	ProfileKeyfile  SourceKind = "PROFILE_KEYFILE"
	ProfileInlineKey SourceKind = "PROFILE_INLINE_KEY"
	EnvVar          SourceKind = "ENV_VAR"
)

// precedence lists every source kind from highest to lowest priority; the
// resolver walks it in this exact order and never reorders it.
var precedence = []SourceKind{
	RawCLIKey,
	CLIKeyName,
	ProfileKeyName,
	ProfileKeyfile,
	ProfileInlineKey,
	EnvVar,
}

// Inputs carries the raw material for resolution; any subset may be
// present (empty string means absent).
type Inputs struct {
	RawKeyFromCli        string
	KeyNameFromCli        string
	KeyNameFromProfile    string
	KeyfileFromProfile    string
	InlineKeyFromProfile  string
	EnvVarValue           string
}

func (in Inputs) value(kind SourceKind) string {
	switch kind {
	case RawCLIKey:
		return in.RawKeyFromCli
	case CLIKeyName:
		return in.KeyNameFromCli
	case ProfileKeyName:
		return in.KeyNameFromProfile
	case ProfileKeyfile:
		return in.KeyfileFromProfile
	case ProfileInlineKey:
		return in.InlineKeyFromProfile
	case EnvVar:
		return in.EnvVarValue
	}
	return ""
}

// SourceMetadata describes which source won, without ever carrying the
// resolved secret value itself.
type SourceMetadata struct {
	Kind SourceKind
	// Identifier is a symbolic, non-secret label for the winning source:
	// the named-key name for *_KEY_NAME kinds, the keyfile path for
	// PROFILE_KEYFILE, or empty for sources with no natural label.
	Identifier string
}

// Result is the resolver's successful output.
type Result struct {
	APIKey   string
	Source   SourceMetadata
}

// KeyStore is the subset of ProviderKeyStorage the resolver needs: a
// name-indexed lookup. Kept narrow so the resolver can be tested without
// a real SecureStore.
type KeyStore interface {
	GetKey(ctx context.Context, name string) (string, bool, error)
}

// KeyfileReader reads the contents of the profile's configured keyfile.
// Kept as a function value (rather than requiring *config.Config) so
// tests can supply an in-memory reader.
type KeyfileReader func() (string, error)

// NamedKeyNotFoundError is raised when the winning source is a named-key
// reference but ProviderKeyStorage has nothing stored under that name.
// Per spec §4.9, this terminates resolution; it never falls through to a
// lower-precedence source.
type NamedKeyNotFoundError struct {
	Name string
}

func (e *NamedKeyNotFoundError) Error() string {
	return fmt.Sprintf("Named key '%s' not found. Use '/key save %s <key>' to store it.", e.Name, e.Name)
}

// Resolver walks the fixed six-source precedence order and resolves the
// first present source to a usable API key.
type Resolver struct {
	Keys    KeyStore
	Keyfile KeyfileReader
	Logger  *logging.Logger
}

// New builds a Resolver. logger may be nil, in which case diagnostics are
// discarded.
func New(keys KeyStore, keyfile KeyfileReader, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.New(false, true)
	}
	return &Resolver{Keys: keys, Keyfile: keyfile, Logger: logger}
}

// Resolve walks precedence order and returns the first present source,
// resolving *_KEY_NAME sources through ProviderKeyStorage. It never
// silently falls through a present-but-unresolvable named-key reference.
func (r *Resolver) Resolve(ctx context.Context, in Inputs) (*Result, error) {
	for i, kind := range precedence {
		value := in.value(kind)
		if value == "" {
			continue
		}

		switch kind {
		case CLIKeyName, ProfileKeyName:
			apiKey, ok, err := r.Keys.GetKey(ctx, value)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, &NamedKeyNotFoundError{Name: value}
			}
			r.logWinner(kind, value, in, precedence[i+1:])
			return &Result{APIKey: apiKey, Source: SourceMetadata{Kind: kind, Identifier: value}}, nil

		case ProfileKeyfile:
			contents, err := r.Keyfile()
			if err != nil {
				return nil, err
			}
			r.logWinner(kind, value, in, precedence[i+1:])
			return &Result{APIKey: contents, Source: SourceMetadata{Kind: kind, Identifier: value}}, nil

		default:
			r.logWinner(kind, "", in, precedence[i+1:])
			return &Result{APIKey: value, Source: SourceMetadata{Kind: kind}}, nil
		}
	}

	return nil, fmt.Errorf("no auth source present: provide a raw key, a named key, a keyfile, an inline key, or an environment variable")
}

// logWinner emits one debug line naming the chosen source (kind plus a
// non-secret identifier, never the value) and one line per lower-precedence
// source that was also present and therefore overridden.
func (r *Resolver) logWinner(kind SourceKind, identifier string, in Inputs, lower []SourceKind) {
	if identifier != "" {
		r.Logger.Debug("authresolve: selected source=%s identifier=%s", kind, identifier)
	} else {
		r.Logger.Debug("authresolve: selected source=%s", kind)
	}
	for _, o := range lower {
		if in.value(o) != "" {
			r.Logger.Debug("authresolve: overridden source=%s (lower precedence than %s)", o, kind)
		}
	}
}
