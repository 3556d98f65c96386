// ABOUTME: Field-level merge computation between a card record and a matched person
// ABOUTME: Produces a sparse People API patch, additive for multi-valued fields
package match

import (
	"sort"
	"strings"

	"google.golang.org/api/people/v1"

	"github.com/harperreed/meishi/models"
)

// Updates is a sparse patch in People API field naming. A nil slice means
// the field is untouched; a non-nil slice is the full replacement list for
// that field (existing values first, new values appended).
type Updates struct {
	Names          []*people.Name
	Organizations  []*people.Organization
	PhoneNumbers   []*people.PhoneNumber
	EmailAddresses []*people.EmailAddress
	Addresses      []*people.Address
	Urls           []*people.Url
	Biographies    []*people.Biography
}

// ComputeUpdates computes the minimal merge needed to fold record into
// person. Singular fields (name, organization) use replace-if-different
// semantics; multi-valued fields are additive only, never removing or
// reordering existing values. An empty result means the record is
// informationally a subset of the person.
func ComputeUpdates(record models.CardRecord, person *people.Person) *Updates {
	u := &Updates{}
	if person == nil {
		person = &people.Person{}
	}

	candFull := strings.TrimSpace(record.Name.FullName)
	existingName := ""
	if len(person.Names) > 0 && person.Names[0] != nil {
		existingName = strings.TrimSpace(person.Names[0].DisplayName)
	}
	if candFull != "" && candFull != existingName {
		u.Names = []*people.Name{{
			DisplayName: candFull,
			GivenName:   record.Name.GivenName,
			FamilyName:  record.Name.FamilyName,
		}}
	}

	candCompany := strings.TrimSpace(record.Organization.Company)
	candTitle := strings.TrimSpace(record.Organization.Title)
	existCompany, existTitle := "", ""
	if len(person.Organizations) > 0 && person.Organizations[0] != nil {
		existCompany = strings.TrimSpace(person.Organizations[0].Name)
		existTitle = strings.TrimSpace(person.Organizations[0].Title)
	}
	if (candCompany != "" && candCompany != existCompany) || (candTitle != "" && candTitle != existTitle) {
		u.Organizations = []*people.Organization{{
			Name:  candCompany,
			Title: candTitle,
		}}
	}

	u.PhoneNumbers = mergePhones(record.Phones, person.PhoneNumbers)
	u.EmailAddresses = mergeEmails(record.Emails, person.EmailAddresses)
	u.Urls = mergeUrls(record.Urls, person.Urls)
	u.Addresses = mergeAddresses(record.Addresses, person.Addresses)

	if note := strings.TrimSpace(record.Notes); note != "" {
		existingBio := ""
		if len(person.Biographies) > 0 && person.Biographies[0] != nil {
			existingBio = person.Biographies[0].Value
		}
		if !strings.Contains(existingBio, note) {
			u.Biographies = []*people.Biography{{
				Value: strings.TrimSpace(existingBio + "\n" + note),
			}}
		}
	}

	return u
}

// IsEmpty reports whether the patch carries no changes at all. This is the
// skip condition: an identical contact produces an empty patch.
func (u *Updates) IsEmpty() bool {
	if u == nil {
		return true
	}
	return u.Names == nil && u.Organizations == nil && u.PhoneNumbers == nil &&
		u.EmailAddresses == nil && u.Addresses == nil && u.Urls == nil && u.Biographies == nil
}

// FieldMask returns the alphabetically sorted, comma-joined People API field
// names present in the patch, in updatePersonFields form.
func (u *Updates) FieldMask() string {
	var fields []string
	if u.Names != nil {
		fields = append(fields, "names")
	}
	if u.Organizations != nil {
		fields = append(fields, "organizations")
	}
	if u.PhoneNumbers != nil {
		fields = append(fields, "phoneNumbers")
	}
	if u.EmailAddresses != nil {
		fields = append(fields, "emailAddresses")
	}
	if u.Addresses != nil {
		fields = append(fields, "addresses")
	}
	if u.Urls != nil {
		fields = append(fields, "urls")
	}
	if u.Biographies != nil {
		fields = append(fields, "biographies")
	}
	sort.Strings(fields)
	return strings.Join(fields, ",")
}

// Person renders the patch as a People API update body.
func (u *Updates) Person() *people.Person {
	return &people.Person{
		Names:          u.Names,
		Organizations:  u.Organizations,
		PhoneNumbers:   u.PhoneNumbers,
		EmailAddresses: u.EmailAddresses,
		Addresses:      u.Addresses,
		Urls:           u.Urls,
		Biographies:    u.Biographies,
	}
}

func mergePhones(cand []models.TypedValue, existing []*people.PhoneNumber) []*people.PhoneNumber {
	seen := make(map[string]struct{}, len(existing))
	for _, it := range existing {
		if it != nil && it.Value != "" {
			seen[it.Value] = struct{}{}
		}
	}
	var added []*people.PhoneNumber
	for _, it := range cand {
		if it.Value == "" {
			continue
		}
		if _, ok := seen[it.Value]; ok {
			continue
		}
		seen[it.Value] = struct{}{}
		added = append(added, &people.PhoneNumber{Value: it.Value, Type: it.Type})
	}
	if len(added) == 0 {
		return nil
	}
	return append(append([]*people.PhoneNumber{}, existing...), added...)
}

func mergeEmails(cand []models.TypedValue, existing []*people.EmailAddress) []*people.EmailAddress {
	seen := make(map[string]struct{}, len(existing))
	for _, it := range existing {
		if it != nil && it.Value != "" {
			seen[it.Value] = struct{}{}
		}
	}
	var added []*people.EmailAddress
	for _, it := range cand {
		if it.Value == "" {
			continue
		}
		if _, ok := seen[it.Value]; ok {
			continue
		}
		seen[it.Value] = struct{}{}
		added = append(added, &people.EmailAddress{Value: it.Value, Type: it.Type})
	}
	if len(added) == 0 {
		return nil
	}
	return append(append([]*people.EmailAddress{}, existing...), added...)
}

func mergeUrls(cand []models.TypedValue, existing []*people.Url) []*people.Url {
	seen := make(map[string]struct{}, len(existing))
	for _, it := range existing {
		if it != nil && it.Value != "" {
			seen[it.Value] = struct{}{}
		}
	}
	var added []*people.Url
	for _, it := range cand {
		if it.Value == "" {
			continue
		}
		if _, ok := seen[it.Value]; ok {
			continue
		}
		seen[it.Value] = struct{}{}
		added = append(added, &people.Url{Value: it.Value, Type: it.Type})
	}
	if len(added) == 0 {
		return nil
	}
	return append(append([]*people.Url{}, existing...), added...)
}

func mergeAddresses(cand []models.TypedAddress, existing []*people.Address) []*people.Address {
	seen := make(map[string]struct{}, len(existing))
	for _, it := range existing {
		if it != nil && it.FormattedValue != "" {
			seen[it.FormattedValue] = struct{}{}
		}
	}
	var added []*people.Address
	for _, it := range cand {
		if it.Formatted == "" {
			continue
		}
		if _, ok := seen[it.Formatted]; ok {
			continue
		}
		seen[it.Formatted] = struct{}{}
		added = append(added, &people.Address{FormattedValue: it.Formatted, Type: it.Type})
	}
	if len(added) == 0 {
		return nil
	}
	return append(append([]*people.Address{}, existing...), added...)
}
