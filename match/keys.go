// ABOUTME: Match key derivation for contact reconciliation
// ABOUTME: Projects card records and People API persons into comparable key sets
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"google.golang.org/api/people/v1"

	"github.com/harperreed/meishi/models"
	"github.com/harperreed/meishi/parse"
)

// Keys is the ephemeral comparison fingerprint of a contact: normalized
// emails, normalized phones, and at most one name+company slug. Computed
// fresh per comparison, never persisted.
type Keys struct {
	Emails      map[string]struct{}
	Phones      map[string]struct{}
	NameCompany map[string]struct{}
}

func newKeys() Keys {
	return Keys{
		Emails:      make(map[string]struct{}),
		Phones:      make(map[string]struct{}),
		NameCompany: make(map[string]struct{}),
	}
}

// RecordKeys derives match keys from a parsed card record. Emails are
// re-validated and lowercased, phones renormalized. The name+company key is
// built only when both halves are present; it must never fire on partial
// information.
func RecordKeys(record models.CardRecord) Keys {
	keys := newKeys()
	for _, e := range record.Emails {
		if v := parse.ValidateEmail(e.Value); v != "" {
			keys.Emails[v] = struct{}{}
		}
	}
	for _, p := range record.Phones {
		if v := parse.NormalizePhone(p.Value, parse.DefaultRegion); v != "" {
			keys.Phones[v] = struct{}{}
		}
	}
	addNameCompany(keys, record.Name.FullName, record.Organization.Company)
	return keys
}

// PersonKeys derives match keys from an existing People API person. Stored
// emails are trusted verbatim (lowercased only); stored phones may not be
// canonical and are renormalized.
func PersonKeys(person *people.Person) Keys {
	keys := newKeys()
	if person == nil {
		return keys
	}
	for _, e := range person.EmailAddresses {
		if e != nil && e.Value != "" {
			keys.Emails[strings.ToLower(e.Value)] = struct{}{}
		}
	}
	for _, p := range person.PhoneNumbers {
		if p == nil || p.Value == "" {
			continue
		}
		if v := parse.NormalizePhone(p.Value, parse.DefaultRegion); v != "" {
			keys.Phones[v] = struct{}{}
		}
	}
	var name, company string
	if len(person.Names) > 0 && person.Names[0] != nil {
		name = person.Names[0].DisplayName
		if name == "" {
			name = person.Names[0].GivenName
		}
	}
	if len(person.Organizations) > 0 && person.Organizations[0] != nil {
		company = person.Organizations[0].Name
	}
	addNameCompany(keys, name, company)
	return keys
}

func addNameCompany(keys Keys, name, company string) {
	if name == "" || company == "" {
		return
	}
	if slug := Slugify(name + "-" + company); slug != "" {
		keys.NameCompany[slug] = struct{}{}
	}
}

// intersects reports whether two key sets share any element.
func intersects(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

// Slugify lowercases s and collapses runs of non-letter, non-digit runes
// into single hyphens. Unicode letters (CJK included) are preserved rather
// than transliterated, so 王大明-能量叢林 keeps its ideographs.
func Slugify(s string) string {
	s = norm.NFKC.String(s)
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
