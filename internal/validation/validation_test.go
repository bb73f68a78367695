package validation

import (
	"strings"
	"testing"
)

func TestValidateVehicleName(t *testing.T) {
	valid := []string{
		"rotorbits",
		"test-bench",
		"quad_01",
		"X6",
	}
	for _, name := range valid {
		if err := ValidateVehicleName(name); err != nil {
			t.Errorf("%q should be valid: %v", name, err)
		}
	}

	invalid := []string{
		"",
		".",
		"..",
		".hidden",
		"has/slash",
		"has\\backslash",
		"has space",
		"dotted.name",
		"control\x01char",
		strings.Repeat("a", 65),
	}
	for _, name := range invalid {
		if err := ValidateVehicleName(name); err == nil {
			t.Errorf("%q should be rejected", name)
		}
	}
}

func TestValidateName_CustomRules(t *testing.T) {
	rules := NameRules{MinLength: 3, MaxLength: 8, AllowDots: true}

	if err := ValidateName("a.b.c", rules); err != nil {
		t.Errorf("dots should be allowed by these rules: %v", err)
	}
	if err := ValidateName("ab", rules); err == nil {
		t.Error("too-short name should be rejected")
	}
	if err := ValidateName("abcdefghi", rules); err == nil {
		t.Error("too-long name should be rejected")
	}
	if err := ValidateName("a-b", rules); err == nil {
		t.Error("hyphen should be rejected when not allowed")
	}
}
