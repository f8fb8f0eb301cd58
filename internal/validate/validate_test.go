package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestOrgName(t *testing.T) {
	cases := []struct {
		input    string
		expected error
	}{
		{"Acme Solar", nil},
		{"AB", nil},
		{"A", ErrorTooShort},
		{strings.Repeat("a", 121), ErrorTooLong},
		{"   ", ErrorEmptyString},
		{"acme<script>", ErrorInvalidCharacter},
	}
	for _, c := range cases {
		err := OrgName(c.input)
		if c.expected == nil && err != nil {
			t.Errorf("OrgName(%q): unexpected error %s", c.input, err)
		}
		if c.expected != nil && !errors.Is(err, c.expected) {
			t.Errorf("OrgName(%q): expected %s, got %v", c.input, c.expected, err)
		}
	}
}

func TestTimezone(t *testing.T) {
	if err := Timezone("America/Los_Angeles"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := Timezone("A"); !errors.Is(err, ErrorTooShort) {
		t.Fatalf("expected ErrorTooShort, got %v", err)
	}
	if err := Timezone(strings.Repeat("x", 101)); !errors.Is(err, ErrorTooLong) {
		t.Fatalf("expected ErrorTooLong, got %v", err)
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"ops@example.com", "first.last+rma@vendor.co.uk", "a_b@sub.domain.io"}
	for _, input := range valid {
		if err := Email(input); err != nil {
			t.Errorf("Email(%q): unexpected error %s", input, err)
		}
	}
	invalid := map[string]error{
		"":                  ErrorEmailMissing,
		"no-at-sign.com":    ErrorEmailInvalidAt,
		"a@@example.com":    ErrorEmailInvalidAt,
		"a@localhost":       ErrorEmailDomainInvalid,
		".lead@example.com": ErrorEmailUserPartLeadingSymbols,
		"a..b@example.com":  ErrorEmailUserPartConsecutiveSymbols,
	}
	for input, expected := range invalid {
		if err := Email(input); !errors.Is(err, expected) {
			t.Errorf("Email(%q): expected %s, got %v", input, expected, err)
		}
	}
}

func TestStepKey(t *testing.T) {
	for _, input := range []string{"receipt_upload-1", "Upload receipt", "-leading", "x"} {
		if err := StepKey(input); err != nil {
			t.Errorf("StepKey(%q): unexpected error: %s", input, err)
		}
	}
	if err := StepKey("   "); !errors.Is(err, ErrorStringTooShort) {
		t.Errorf("expected ErrorStringTooShort, got %v", err)
	}
	if err := StepKey(strings.Repeat("a", StepKeyMaxLength+1)); !errors.Is(err, ErrorStringTooLong) {
		t.Errorf("expected ErrorStringTooLong, got %v", err)
	}
	if err := StepKey("line\nbreak"); !errors.Is(err, ErrorNotPrintable) {
		t.Errorf("expected ErrorNotPrintable, got %v", err)
	}
}

func TestPassword(t *testing.T) {
	if err := Password("Sup3r-Secret-Pass"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	err := Password("short")
	for _, expected := range []error{ErrorStringTooShort, ErrorNoUppercase, ErrorNoDigit, ErrorNoSymbol} {
		if !errors.Is(err, expected) {
			t.Errorf("expected %s in %v", expected, err)
		}
	}
}

func TestUuid(t *testing.T) {
	cases := []struct {
		input string
		valid bool
	}{
		{"4f9c2c1e-8a47-4c55-9a61-0f3f5d2b7e10", true},
		{"4F9C2C1E-8A47-4C55-9A61-0F3F5D2B7E10", true},
		{"4f9c2c1e8a474c559a610f3f5d2b7e10", false},
		{"{4f9c2c1e-8a47-4c55-9a61-0f3f5d2b7e10}", false},
		{"4f9c2c1e-8a47-4c55-9a61-0f3f5d2b7ezz", false},
		{"org-1", false},
		{"", false},
	}
	for _, c := range cases {
		err := Uuid(c.input)
		if c.valid {
			if err != nil {
				t.Errorf("expected %q to be valid, got %v", c.input, err)
			}
			continue
		}
		if !errors.Is(err, ErrorInvalidUuid) {
			t.Errorf("expected %q to be rejected with ErrorInvalidUuid, got %v", c.input, err)
		}
	}
}
