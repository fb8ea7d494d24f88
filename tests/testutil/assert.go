package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertErrorContains verifies that an error occurred and contains a substring.
//
// This is a convenience wrapper for error assertion with message checking.
//
// Example usage:
//
//	_, err := resolver.Resolve(ctx, inputs)
//	AssertErrorContains(t, err, "not found")
//
// Parameters:
//   - t: Testing context
//   - err: The error to check
//   - substr: Substring that should appear in the error message
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()

	assert.Error(t, err, "Expected an error to occur")
	if err != nil {
		assert.Contains(t, err.Error(), substr,
			"Error message should contain %q", substr)
	}
}

// AssertLinesContain verifies that specific lines are present in multi-line output.
//
// This is useful for testing command output, such as the llxprt-securestore
// key-command dispatcher's "list" output.
//
// Example usage:
//
//	out, _ := dispatcher.Dispatch(ctx, "list")
//	AssertLinesContain(t, out, []string{"anthropic", "openai"})
//
// Parameters:
//   - t: Testing context
//   - output: Multi-line string
//   - expectedLines: Lines that should be present (partial match)
func AssertLinesContain(t *testing.T, output string, expectedLines []string) {
	t.Helper()

	lines := strings.Split(output, "\n")

	for _, expected := range expectedLines {
		found := false
		for _, line := range lines {
			if strings.Contains(line, expected) {
				found = true
				break
			}
		}

		assert.True(t, found,
			"Expected to find line containing %q in output", expected)
	}
}
