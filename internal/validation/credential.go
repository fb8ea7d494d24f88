// Package validation holds the name-validation and display-masking rules
// shared by ProviderKeyStorage and the key command surface.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// nameRE is the NamedKey name grammar from the data model: letters,
// digits, dot, underscore, dash, 1-64 characters.
var nameRE = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// ValidName reports whether name is a legal NamedKey name.
func ValidName(name string) bool {
	return nameRE.MatchString(name)
}

// NameError returns the prescriptive validation message for an invalid
// name, literal text per spec: includes the offending name.
func NameError(name string) error {
	return fmt.Errorf("Key name '%s' is invalid. Use only letters, numbers, dashes, underscores, and dots (1-64 chars).", name)
}

// NormalizeAPIKey strips a trailing CR/LF and surrounding whitespace from
// a raw API key value, per the NamedKey normalization rule.
func NormalizeAPIKey(value string) string {
	return strings.TrimSpace(strings.TrimRight(value, "\r\n"))
}

// MaskValue renders a secret value for display, preserving only a short
// prefix and suffix. Values too short to mask safely collapse to a fixed
// placeholder rather than leaking length information bit-by-bit.
func MaskValue(value string) string {
	const visible = 3
	if len(value) <= visible*2 {
		return "***"
	}
	return value[:visible] + "***" + value[len(value)-visible:]
}
