package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/llxprt-securestore/internal/config"
	dserrors "github.com/systmms/llxprt-securestore/internal/errors"
)

func writeProfile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestConfigLoad_ParsesAuthFields(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeProfile(t, dir, "version: 0\nauth-key-name: anthropic\nauth-key: sk-inline\n")

	c := &config.Config{Path: path}
	require.NoError(t, c.Load())

	require.NotNil(t, c.Profile)
	assert.Equal(t, "anthropic", c.Profile.AuthKeyName)
	assert.Equal(t, "sk-inline", c.Profile.AuthInlineKey)
	assert.Empty(t, c.Profile.AuthKeyfile)
}

func TestConfigLoad_MissingFile(t *testing.T) {
	t.Parallel()
	c := &config.Config{Path: "/nonexistent/profile.yaml"}

	err := c.Load()
	require.Error(t, err)
	var cfgErr dserrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "path", cfgErr.Field)
}

func TestConfigLoad_InvalidYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeProfile(t, dir, "auth-key-name: [unterminated\n")

	c := &config.Config{Path: path}
	err := c.Load()
	require.Error(t, err)
	var cfgErr dserrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestReadAuthKeyfile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	keyfilePath := filepath.Join(dir, "key.txt")
	require.NoError(t, os.WriteFile(keyfilePath, []byte("sk-from-file\n"), 0o600))

	c := &config.Config{Profile: &config.Profile{AuthKeyfile: keyfilePath}}
	value, err := c.ReadAuthKeyfile()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file\n", value)
}

func TestReadAuthKeyfile_NotConfigured(t *testing.T) {
	t.Parallel()
	c := &config.Config{Profile: &config.Profile{}}
	_, err := c.ReadAuthKeyfile()
	require.Error(t, err)
}

func TestReadAuthKeyfile_Unreadable(t *testing.T) {
	t.Parallel()
	c := &config.Config{Profile: &config.Profile{AuthKeyfile: "/nonexistent/key.txt"}}
	_, err := c.ReadAuthKeyfile()
	require.Error(t, err)
}
