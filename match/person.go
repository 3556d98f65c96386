// ABOUTME: CardRecord to People API body conversion
// ABOUTME: Builds create/update bodies and the updatePersonFields mask
package match

import (
	"sort"
	"strings"

	"google.golang.org/api/people/v1"

	"github.com/harperreed/meishi/models"
)

// PersonBody converts a card record into a People API person body. Fields
// with no content are left nil so they stay out of the request.
func PersonBody(record models.CardRecord) *people.Person {
	body := &people.Person{}

	if record.Name.FullName != "" || record.Name.GivenName != "" || record.Name.FamilyName != "" {
		body.Names = []*people.Name{{
			DisplayName: record.Name.FullName,
			GivenName:   record.Name.GivenName,
			FamilyName:  record.Name.FamilyName,
		}}
	}
	if record.Organization.Company != "" || record.Organization.Title != "" {
		body.Organizations = []*people.Organization{{
			Name:  record.Organization.Company,
			Title: record.Organization.Title,
		}}
	}
	for _, p := range record.Phones {
		body.PhoneNumbers = append(body.PhoneNumbers, &people.PhoneNumber{Value: p.Value, Type: p.Type})
	}
	for _, e := range record.Emails {
		body.EmailAddresses = append(body.EmailAddresses, &people.EmailAddress{Value: e.Value, Type: e.Type})
	}
	for _, a := range record.Addresses {
		body.Addresses = append(body.Addresses, &people.Address{FormattedValue: a.Formatted, Type: a.Type})
	}
	for _, u := range record.Urls {
		body.Urls = append(body.Urls, &people.Url{Value: u.Value, Type: u.Type})
	}
	if record.Notes != "" {
		body.Biographies = []*people.Biography{{Value: record.Notes}}
	}

	return body
}

// BodyFieldMask lists the populated fields of a person body, alphabetically
// sorted and comma-joined, for use as an updatePersonFields mask.
func BodyFieldMask(body *people.Person) string {
	var fields []string
	if body.Names != nil {
		fields = append(fields, "names")
	}
	if body.Organizations != nil {
		fields = append(fields, "organizations")
	}
	if body.PhoneNumbers != nil {
		fields = append(fields, "phoneNumbers")
	}
	if body.EmailAddresses != nil {
		fields = append(fields, "emailAddresses")
	}
	if body.Addresses != nil {
		fields = append(fields, "addresses")
	}
	if body.Urls != nil {
		fields = append(fields, "urls")
	}
	if body.Biographies != nil {
		fields = append(fields, "biographies")
	}
	sort.Strings(fields)
	return strings.Join(fields, ",")
}
