// Package keycmd implements the /key command surface: a trimmed-string
// dispatcher over save/load/show/list/delete plus legacy passthrough
// behavior, grounded on the teacher's cobra command bodies (cmd/dsops/commands)
// but reshaped around a single parsed argument string instead of flag-parsed
// os.Args, since /key is an in-session chat command, not a process-level CLI
// verb.
package keycmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	dserrors "github.com/systmms/llxprt-securestore/internal/errors"
	"github.com/systmms/llxprt-securestore/internal/validation"
)

// KeyStore is the subset of ProviderKeyStorage the command surface needs.
type KeyStore interface {
	SaveKey(ctx context.Context, name, apiKey string) error
	GetKey(ctx context.Context, name string) (string, bool, error)
	DeleteKey(ctx context.Context, name string) (bool, error)
	ListKeys(ctx context.Context) ([]string, error)
	HasKey(ctx context.Context, name string) (bool, error)
}

// SessionSetter installs the resolved value as the active provider's
// ephemeral session key. Not persisted by SecureStore.
type SessionSetter func(apiKey string)

// Confirmer asks the user to confirm a destructive or overwriting action
// and reports their answer. In a non-interactive session, callers must
// supply a Confirmer that always returns false.
type Confirmer func(prompt string) bool

// Dispatcher holds the collaborators the /key surface needs: the
// provider-key store, a way to set the active session key, a
// confirmation prompt, and whether the session is interactive.
type Dispatcher struct {
	Keys           KeyStore
	SetSessionKey  SessionSetter
	Confirm        Confirmer
	NonInteractive bool
}

var subcommands = map[string]bool{
	"save": true, "load": true, "show": true, "list": true, "delete": true,
}

// Dispatch parses a trimmed argument string and routes it to a
// subcommand, or falls back to legacy behavior: empty ⇒ status, nonempty
// ⇒ treat as a raw key. The first-token comparison is case-sensitive so
// an uppercase raw key is never hijacked as a subcommand.
func (d *Dispatcher) Dispatch(ctx context.Context, argString string) (string, error) {
	trimmed := strings.TrimSpace(argString)
	if trimmed == "" {
		return d.legacyStatus(ctx)
	}

	fields := strings.Fields(trimmed)
	first := fields[0]
	if !subcommands[first] {
		return d.legacySetRaw(trimmed)
	}

	rest := fields[1:]
	switch first {
	case "save":
		return d.save(ctx, rest)
	case "load":
		return d.load(ctx, rest)
	case "show":
		return d.show(ctx, rest)
	case "list":
		return d.list(ctx)
	case "delete":
		return d.delete(ctx, rest)
	}
	// unreachable: first was checked against subcommands above
	return "", fmt.Errorf("unknown subcommand %q", first)
}

func notFoundMessage(name string) string {
	return fmt.Sprintf("Key '%s' not found. Use '/key list' to see saved keys.", name)
}

func (d *Dispatcher) save(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("usage: /key save <name> <apikey>")
	}
	name := args[0]
	apiKey := strings.Join(args[1:], " ")

	if !validation.ValidName(name) {
		return "", validation.NameError(name)
	}
	normalized := validation.NormalizeAPIKey(apiKey)
	if normalized == "" {
		return "", errors.New("API key value cannot be empty.")
	}

	exists, err := d.Keys.HasKey(ctx, name)
	if err != nil {
		return "", dserrors.StoreError("provider-keys", "save", err)
	}
	if exists {
		if d.NonInteractive {
			return "", fmt.Errorf("key '%s' already exists; refusing to overwrite in non-interactive mode", name)
		}
		if d.Confirm == nil || !d.Confirm(fmt.Sprintf("Key '%s' already exists. Overwrite?", name)) {
			return "", fmt.Errorf("overwrite of key '%s' was not confirmed", name)
		}
	}

	if err := d.Keys.SaveKey(ctx, name, normalized); err != nil {
		return "", dserrors.StoreError("provider-keys", "save", err)
	}
	return fmt.Sprintf("Saved key '%s': %s", name, validation.MaskValue(normalized)), nil
}

func (d *Dispatcher) load(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: /key load <name>")
	}
	name := args[0]

	value, ok, err := d.Keys.GetKey(ctx, name)
	if err != nil {
		return "", dserrors.StoreError("provider-keys", "load", err)
	}
	if !ok {
		return "", errors.New(notFoundMessage(name))
	}

	if d.SetSessionKey != nil {
		d.SetSessionKey(value)
	}
	return fmt.Sprintf("Loaded key '%s' as the active session key", name), nil
}

func (d *Dispatcher) show(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: /key show <name>")
	}
	name := args[0]

	value, ok, err := d.Keys.GetKey(ctx, name)
	if err != nil {
		return "", dserrors.StoreError("provider-keys", "show", err)
	}
	if !ok {
		return "", errors.New(notFoundMessage(name))
	}

	return fmt.Sprintf("%s: %s (%d chars)", name, validation.MaskValue(value), len(value)), nil
}

func (d *Dispatcher) list(ctx context.Context) (string, error) {
	names, err := d.Keys.ListKeys(ctx)
	if err != nil {
		return "", dserrors.StoreError("provider-keys", "list", err)
	}
	if len(names) == 0 {
		return "No keys saved yet. Use '/key save <name> <apikey>' to add one.", nil
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		value, ok, err := d.Keys.GetKey(ctx, name)
		if err != nil {
			return "", dserrors.StoreError("provider-keys", "list", err)
		}
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, validation.MaskValue(value)))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n"), nil
}

func (d *Dispatcher) delete(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: /key delete <name>")
	}
	name := args[0]

	exists, err := d.Keys.HasKey(ctx, name)
	if err != nil {
		return "", dserrors.StoreError("provider-keys", "delete", err)
	}
	if !exists {
		return "", errors.New(notFoundMessage(name))
	}

	if d.NonInteractive {
		return "", fmt.Errorf("deleting key '%s' requires interactive confirmation", name)
	}
	if d.Confirm == nil || !d.Confirm(fmt.Sprintf("Delete key '%s'?", name)) {
		return "", fmt.Errorf("deletion of key '%s' was not confirmed", name)
	}

	if _, err := d.Keys.DeleteKey(ctx, name); err != nil {
		return "", dserrors.StoreError("provider-keys", "delete", err)
	}
	return fmt.Sprintf("Deleted key '%s'", name), nil
}

func (d *Dispatcher) legacyStatus(ctx context.Context) (string, error) {
	names, err := d.Keys.ListKeys(ctx)
	if err != nil {
		return "", dserrors.StoreError("provider-keys", "status", err)
	}
	if len(names) == 0 {
		return "No provider key is currently configured.", nil
	}
	return fmt.Sprintf("%d named key(s) available. Use '/key list' to see them.", len(names)), nil
}

func (d *Dispatcher) legacySetRaw(rawKey string) (string, error) {
	normalized := validation.NormalizeAPIKey(rawKey)
	if normalized == "" {
		return "", errors.New("API key value cannot be empty.")
	}
	if d.SetSessionKey != nil {
		d.SetSessionKey(normalized)
	}
	return fmt.Sprintf("Set ephemeral session key: %s", validation.MaskValue(normalized)), nil
}

// Completions returns autocomplete candidates sourced from listKeys() for
// load/show/delete/save. Any listing failure yields an empty set rather
// than an error — completion must never disrupt typing.
func (d *Dispatcher) Completions(ctx context.Context, subcommand string) []string {
	if !subcommands[subcommand] || subcommand == "list" {
		return nil
	}
	names, err := d.Keys.ListKeys(ctx)
	if err != nil {
		return []string{}
	}
	return names
}
