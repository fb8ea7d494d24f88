// Package config loads the subset of profile configuration that the
// SecureStore core consumes: the auth-key bootstrap fields a profile can
// carry, plus the shared logger and non-interactive flag every component
// in this module threads through. Full profile parsing (models, tool
// permissions, provider endpoints) lives outside this module's scope.
package config

import (
	"os"

	dserrors "github.com/systmms/llxprt-securestore/internal/errors"
	"github.com/systmms/llxprt-securestore/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration shared by the key command surface
// and the auth-source resolver.
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool
	Profile        *Profile
}

// Profile is the auth-relevant subset of a loaded profile file. Per spec
// §4.9, profile bootstrap MUST NOT resolve named-key references itself —
// KeyName is passed through as metadata for the resolver to look up.
type Profile struct {
	Version int `yaml:"version"`

	// AuthKeyName names a key previously stored via ProviderKeyStorage.
	AuthKeyName string `yaml:"auth-key-name,omitempty"`

	// AuthKeyfile is a path to a file containing the raw API key.
	AuthKeyfile string `yaml:"auth-keyfile,omitempty"`

	// AuthInlineKey is the raw API key embedded directly in the profile.
	// Lowest-precedence profile source; discouraged outside of local dev.
	AuthInlineKey string `yaml:"auth-key,omitempty"`
}

// Load reads and parses the profile file at c.Path.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return dserrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "profile file not found",
				Suggestion: "Check the --profile path or create a new profile",
			}
		}
		return dserrors.UserError{
			Message:    "Failed to read profile file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return dserrors.ConfigError{
			Message:    "invalid YAML syntax in profile file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
		}
	}

	c.Profile = &profile
	return nil
}

// ReadAuthKeyfile reads the keyfile named by the profile and returns its
// contents, or an error if no keyfile is configured or readable.
func (c *Config) ReadAuthKeyfile() (string, error) {
	if c.Profile == nil || c.Profile.AuthKeyfile == "" {
		return "", dserrors.ConfigError{
			Field:      "auth-keyfile",
			Message:    "no keyfile configured in profile",
			Suggestion: "Set 'auth-keyfile: <path>' in the profile, or use a different auth source",
		}
	}

	data, err := os.ReadFile(c.Profile.AuthKeyfile)
	if err != nil {
		return "", dserrors.UserError{
			Message:    "Failed to read auth keyfile",
			Details:    err.Error(),
			Suggestion: "Verify the keyfile path exists and is readable",
			Err:        err,
		}
	}

	return string(data), nil
}
