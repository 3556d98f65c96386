package parse

import (
	"testing"

	"github.com/harperreed/meishi/models"
)

func TestNormalizePhoneTaiwanMobile(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0912-345-678", "+886912345678"},
		{"0912 345 678", "+886912345678"},
		{"(0912)345678", "+886912345678"},
		{"+886-912-345-678", "+886912345678"},
		{"+886912345678", "+886912345678"},
	}

	for _, tt := range tests {
		result := NormalizePhone(tt.input, "TW")
		if result != tt.expected {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestNormalizePhoneRejectsGarbage(t *testing.T) {
	tests := []string{
		"",
		"not a number",
		"12",
		"abc-def",
	}

	for _, input := range tests {
		if result := NormalizePhone(input, "TW"); result != "" {
			t.Errorf("NormalizePhone(%q) = %q, want empty", input, result)
		}
	}
}

func TestNormalizePhoneLenientE164Fallback(t *testing.T) {
	// A plus-prefixed digit string the validator rejects is still accepted
	// when it already looks like E.164.
	result := NormalizePhone("+1234567", "TW")
	if result != "+1234567" {
		t.Errorf("NormalizePhone(+1234567) = %q, want +1234567", result)
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"0912-345-678", "+886-912-345-678", "+14155552671", "+1234567"}
	for _, input := range inputs {
		once := NormalizePhone(input, "TW")
		if once == "" {
			t.Fatalf("NormalizePhone(%q) unexpectedly empty", input)
		}
		twice := NormalizePhone(once, "TW")
		if twice != once {
			t.Errorf("NormalizePhone not idempotent on %q: %q then %q", input, once, twice)
		}
	}
}

func TestIsE164(t *testing.T) {
	if !IsE164("+886912345678") {
		t.Error("expected +886912345678 to be E.164")
	}
	if IsE164("0912345678") {
		t.Error("expected 0912345678 not to be E.164")
	}
	if IsE164("+12") {
		t.Error("expected +12 not to be E.164 (too short)")
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Dm.Wang@Example.com", "dm.wang@example.com"},
		{"  alice@example.com  ", "alice@example.com"},
		{"bad@@example..com", ""},
		{"nodomain@", ""},
		{"noat.example.com", ""},
		{"dot@example..com", ""},
		{"bare@localhost", ""},
		{"", ""},
	}

	for _, tt := range tests {
		result := ValidateEmail(tt.input)
		if result != tt.expected {
			t.Errorf("ValidateEmail(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestDedupeValues(t *testing.T) {
	items := []models.TypedValue{
		{Type: "work", Value: "a@b.com"},
		{Type: "home", Value: "a@b.com"},
		{Type: "work", Value: ""},
		{Type: "work", Value: "c@d.com"},
	}

	result := DedupeValues(items)
	if len(result) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result))
	}
	if result[0].Value != "a@b.com" || result[0].Type != "work" {
		t.Errorf("expected first-seen a@b.com kept, got %+v", result[0])
	}
	if result[1].Value != "c@d.com" {
		t.Errorf("expected c@d.com second, got %+v", result[1])
	}
}

func TestDedupeAddresses(t *testing.T) {
	items := []models.TypedAddress{
		{Type: "work", Formatted: "台北市信義區"},
		{Type: "work", Formatted: ""},
		{Type: "home", Formatted: "台北市信義區"},
	}

	result := DedupeAddresses(items)
	if len(result) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result))
	}
	if result[0].Formatted != "台北市信義區" {
		t.Errorf("unexpected address %+v", result[0])
	}
}
