package errors

import (
	"errors"
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message     string
	Suggestion  string
	Details     string
	Err         error
}

func (e UserError) Error() string {
	var parts []string
	
	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	
	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}
	
	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}
	
	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message
	
	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}
	
	return msg
}

// CommandError represents a command execution error
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	
	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}
	
	return msg
}

// StoreError enhances a SecureStore backend error with user-facing context,
// mirroring the teacher's ProviderError but scoped to the two SecureStore
// backends (keyring, fallback file) instead of a cloud provider registry.
func StoreError(backend string, operation string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("%s backend error during %s", backend, operation),
		Suggestion: getBackendSuggestion(backend, err),
		Err:        err,
	}
}

// getBackendSuggestion returns a remediation hint based on backend and
// error text, adapted from the teacher's per-provider suggestion table.
func getBackendSuggestion(backend string, err error) string {
	errStr := err.Error()

	switch backend {
	case "keyring":
		if strings.Contains(errStr, "locked") {
			return "Unlock your OS keychain/credential manager and try again"
		}
		if strings.Contains(errStr, "denied") {
			return "Grant this application access when your OS keychain prompts, then retry"
		}
		if strings.Contains(errStr, "unavailable") || strings.Contains(errStr, "dbus") {
			return "No OS credential vault is reachable; secrets will fall back to the encrypted file store"
		}
	case "fallback":
		if strings.Contains(errStr, "corrupt") {
			return "The encrypted fallback file is unreadable; remove it to start a fresh store, losing any keys stored only there"
		}
	}

	if strings.Contains(errStr, "timeout") {
		return "The operation timed out. Check system load and try again"
	}

	return ""
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	
	errStr := err.Error()
	retryablePatterns := []string{
		"timeout",
		"temporary failure",
		"connection reset",
		"broken pipe",
		"rate limit",
		"throttling",
		"too many requests",
	}
	
	for _, pattern := range retryablePatterns {
		if strings.Contains(strings.ToLower(errStr), pattern) {
			return true
		}
	}
	
	return false
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}
	
	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}
	
	// Already a user-friendly error
	if _, ok := err.(UserError); ok {
		return err
	}
	if _, ok := err.(ConfigError); ok {
		return err
	}
	if _, ok := err.(CommandError); ok {
		return err
	}
	
	// Simplify common technical errors
	errStr := rootErr.Error()
	
	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}
	
	if strings.Contains(errStr, "json:") {
		return ConfigError{
			Message:    "Invalid JSON format",
			Suggestion: "Validate your JSON at https://jsonlint.com/",
		}
	}
	
	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}
	
	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}
	
	// Return original error if we can't simplify it
	return err
}