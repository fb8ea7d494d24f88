package validation

import (
	"strings"
	"testing"
)

func TestValidName(t *testing.T) {
	valid := []string{"anthropic", "my-key_1", "a.b.c", strings.Repeat("a", 64)}
	for _, name := range valid {
		if !ValidName(name) {
			t.Errorf("expected %q to be valid", name)
		}
	}

	invalid := []string{"", "has space", "slash/name", strings.Repeat("a", 65), "emoji😀"}
	for _, name := range invalid {
		if ValidName(name) {
			t.Errorf("expected %q to be invalid", name)
		}
	}
}

func TestNameError(t *testing.T) {
	err := NameError("bad name")
	if !strings.Contains(err.Error(), "bad name") {
		t.Errorf("expected error to include offending name, got: %v", err)
	}
	if !strings.Contains(err.Error(), "is invalid") {
		t.Errorf("expected prescriptive message, got: %v", err)
	}
}

func TestNormalizeAPIKey(t *testing.T) {
	cases := map[string]string{
		"sk-abc\r\n":    "sk-abc",
		"  sk-abc  ":    "sk-abc",
		"sk-abc\n\n":    "sk-abc",
		"":              "",
		"  \r\n  ":      "",
	}
	for input, want := range cases {
		if got := NormalizeAPIKey(input); got != want {
			t.Errorf("NormalizeAPIKey(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMaskValue(t *testing.T) {
	if got := MaskValue("short"); got != "***" {
		t.Errorf("expected short value masked fully, got %q", got)
	}
	if got := MaskValue("sk-abcdefghijklmnop"); got != "sk-***nop" {
		t.Errorf("got %q", got)
	}
}
