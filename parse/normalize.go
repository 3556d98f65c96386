// ABOUTME: Phone and email normalization for card records
// ABOUTME: Canonicalizes phones to E.164 and emails to lowercase, dedupes value lists
package parse

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/harperreed/meishi/models"
)

// DefaultRegion is the phone parsing region assumed when a number carries no
// country code. Cards processed by this tool are overwhelmingly Taiwanese.
const DefaultRegion = "TW"

var (
	phoneJunkRe = regexp.MustCompile(`[\s\-().]+`)
	e164Re      = regexp.MustCompile(`^\+\d{6,15}$`)
)

// NormalizePhone canonicalizes a raw phone string to E.164, returning ""
// when the input cannot be salvaged. Taiwan mobile numbers written locally
// ("09xx...") are rewritten to +8869... before parsing. Numbers the parser
// rejects are still accepted when they already look like E.164; this lenient
// fallback trades precision for recall on nonstandard local formats.
func NormalizePhone(raw, defaultRegion string) string {
	if raw == "" {
		return ""
	}
	if defaultRegion == "" {
		defaultRegion = DefaultRegion
	}
	s := phoneJunkRe.ReplaceAllString(raw, "")
	if strings.HasPrefix(s, "09") && strings.EqualFold(defaultRegion, "TW") {
		s = "+886" + s[1:]
	}

	region := defaultRegion
	if strings.HasPrefix(s, "+") {
		region = ""
	}
	num, err := phonenumbers.Parse(s, region)
	if err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164)
	}
	if e164Re.MatchString(s) {
		return s
	}
	return ""
}

// IsE164 reports whether phone is in E.164 form (+ followed by 6-15 digits).
func IsE164(phone string) bool {
	return e164Re.MatchString(phone)
}

// ValidateEmail trims and syntactically validates an email address, returning
// the lowercased form on success and "" on failure. No deliverability checks.
func ValidateEmail(raw string) string {
	email := strings.TrimSpace(raw)
	if email == "" {
		return ""
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ""
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return ""
	}
	if !validDomain(domain) {
		return ""
	}
	return strings.ToLower(email)
}

// validDomain applies the structural checks net/mail leaves to the caller:
// the domain needs at least one dot-separated label pair and no empty labels.
func validDomain(domain string) bool {
	if !strings.Contains(domain, ".") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" {
			return false
		}
	}
	return true
}

// DedupeValues drops entries with an empty value and later entries whose
// value duplicates an earlier one, preserving first-seen order.
func DedupeValues(items []models.TypedValue) []models.TypedValue {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.TypedValue, 0, len(items))
	for _, it := range items {
		if it.Value == "" {
			continue
		}
		if _, dup := seen[it.Value]; dup {
			continue
		}
		seen[it.Value] = struct{}{}
		out = append(out, it)
	}
	return out
}

// DedupeAddresses is DedupeValues for formatted addresses.
func DedupeAddresses(items []models.TypedAddress) []models.TypedAddress {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.TypedAddress, 0, len(items))
	for _, it := range items {
		if it.Formatted == "" {
			continue
		}
		if _, dup := seen[it.Formatted]; dup {
			continue
		}
		seen[it.Formatted] = struct{}{}
		out = append(out, it)
	}
	return out
}
