// Package testutil provides test utilities and helpers for llxprt-securestore tests.
//
// This package contains shared test infrastructure including profile builders,
// assertion helpers, and fixture loaders.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/systmms/llxprt-securestore/internal/config"
	"gopkg.in/yaml.v3"
)

// TestProfileBuilder provides a fluent API for building test profiles.
//
// This builder allows programmatic creation of llxprt-profile.yaml files
// for testing the auth-source resolver without manually writing YAML
// strings. It handles cleanup of temporary files automatically.
//
// Example usage:
//
//	path := NewTestProfile(t).
//	    WithAuthKeyName("anthropic-prod").
//	    Write()
type TestProfileBuilder struct {
	profile *config.Profile
	tempDir string
	t       *testing.T
}

// NewTestProfile creates a new TestProfileBuilder.
//
// The builder starts with a minimal valid profile (version: 1).
func NewTestProfile(t *testing.T) *TestProfileBuilder {
	t.Helper()

	return &TestProfileBuilder{
		profile: &config.Profile{Version: 1},
		tempDir: t.TempDir(),
		t:       t,
	}
}

// WithAuthKeyName sets the profile's named-key auth source.
func (b *TestProfileBuilder) WithAuthKeyName(name string) *TestProfileBuilder {
	b.t.Helper()
	b.profile.AuthKeyName = name
	return b
}

// WithAuthKeyfile sets the profile's keyfile-path auth source.
func (b *TestProfileBuilder) WithAuthKeyfile(path string) *TestProfileBuilder {
	b.t.Helper()
	b.profile.AuthKeyfile = path
	return b
}

// WithAuthInlineKey sets the profile's inline-key auth source.
func (b *TestProfileBuilder) WithAuthInlineKey(key string) *TestProfileBuilder {
	b.t.Helper()
	b.profile.AuthInlineKey = key
	return b
}

// Build returns the built Profile.
func (b *TestProfileBuilder) Build() *config.Profile {
	b.t.Helper()
	return b.profile
}

// Write writes the profile to a temporary file and returns the path.
//
// The file is created in a temporary directory and will be cleaned up
// automatically by the testing framework.
func (b *TestProfileBuilder) Write() string {
	b.t.Helper()

	path := filepath.Join(b.tempDir, "llxprt-profile.yaml")
	data, err := yaml.Marshal(b.profile)
	if err != nil {
		b.t.Fatalf("Failed to marshal test profile: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		b.t.Fatalf("Failed to write test profile: %v", err)
	}

	return path
}

// WriteTestProfile is a convenience function for writing a YAML string to a
// profile file. Useful for tests that have hand-written YAML test cases.
//
// Example:
//
//	path := WriteTestProfile(t, "version: 1\nauth-key-name: anthropic-prod\n")
func WriteTestProfile(t *testing.T, yamlContent string) string {
	t.Helper()

	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "llxprt-profile.yaml")

	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write test profile: %v", err)
	}

	return path
}

// LoadTestProfile loads a profile from a file path, failing the test on error.
func LoadTestProfile(t *testing.T, path string) *config.Profile {
	t.Helper()

	cfg := &config.Config{Path: path}
	if err := cfg.Load(); err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}

	return cfg.Profile
}
