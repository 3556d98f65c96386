package match

import (
	"testing"

	"google.golang.org/api/people/v1"

	"github.com/harperreed/meishi/models"
)

func TestDecideCreateWhenNoExisting(t *testing.T) {
	record := models.CardRecord{
		Name:         models.Name{FullName: "張三"},
		Organization: models.Organization{Company: "ACME"},
		Emails:       []models.TypedValue{{Value: "c@d.com"}},
		Phones:       []models.TypedValue{{Value: "+11234567890"}},
	}

	decision := Decide(record, nil)
	if decision.Action != models.ActionCreate {
		t.Errorf("expected create, got %s", decision.Action)
	}
	if decision.Matched != nil {
		t.Errorf("expected no match, got %+v", decision.Matched)
	}
}

func TestDecideUpdateWhenPhoneAndSlugMatch(t *testing.T) {
	existing := []*people.Person{{
		ResourceName:  "people/c123",
		PhoneNumbers:  []*people.PhoneNumber{{Value: "+11234567890"}},
		Names:         []*people.Name{{DisplayName: "John"}},
		Organizations: []*people.Organization{{Name: "New Co."}},
	}}
	record := models.CardRecord{
		Name:         models.Name{FullName: "John"},
		Organization: models.Organization{Company: "New Co."},
		Phones:       []models.TypedValue{{Value: "+11234567890"}},
	}

	decision := Decide(record, existing)
	if decision.Action != models.ActionUpdate && decision.Action != models.ActionSkip {
		t.Errorf("expected update or skip, got %s", decision.Action)
	}
	if decision.Matched == nil {
		t.Fatal("expected a matched contact")
	}
	if decision.Matched.ResourceName != "people/c123" {
		t.Errorf("expected people/c123, got %s", decision.Matched.ResourceName)
	}
}

func TestDecideCorroborationGateForcesCreate(t *testing.T) {
	// Shared email but differing name+company: strong single-field overlap
	// is not proof of identity.
	existing := []*people.Person{{
		ResourceName:   "people/c456",
		EmailAddresses: []*people.EmailAddress{{Value: "shared@corp.com"}},
		Names:          []*people.Name{{DisplayName: "Alice"}},
		Organizations:  []*people.Organization{{Name: "Same Corp"}},
	}}
	record := models.CardRecord{
		Name:         models.Name{FullName: "Bob"},
		Organization: models.Organization{Company: "Other Corp"},
		Emails:       []models.TypedValue{{Value: "shared@corp.com"}},
	}

	decision := Decide(record, existing)
	if decision.Action != models.ActionCreate {
		t.Errorf("expected create, got %s", decision.Action)
	}
	if decision.Matched != nil {
		t.Errorf("expected no match through the gate, got %+v", decision.Matched)
	}
}

func TestDecideGateRequiresBothSlugs(t *testing.T) {
	// Candidate has no company, so its name_company set is empty: the gate
	// must never fire on partial information.
	existing := []*people.Person{{
		ResourceName:   "people/c789",
		EmailAddresses: []*people.EmailAddress{{Value: "bob@corp.com"}},
		Names:          []*people.Name{{DisplayName: "Bob"}},
		Organizations:  []*people.Organization{{Name: "Corp"}},
	}}
	record := models.CardRecord{
		Name:   models.Name{FullName: "Bob"},
		Emails: []models.TypedValue{{Value: "bob@corp.com"}},
	}

	decision := Decide(record, existing)
	if decision.Action != models.ActionCreate {
		t.Errorf("expected create without candidate slug, got %s", decision.Action)
	}
}

func TestDecideSkipWhenIdentical(t *testing.T) {
	existing := []*people.Person{{
		ResourceName:   "people/c1",
		Names:          []*people.Name{{DisplayName: "John"}},
		Organizations:  []*people.Organization{{Name: "Acme", Title: "CEO"}},
		EmailAddresses: []*people.EmailAddress{{Value: "john@acme.com"}},
		PhoneNumbers:   []*people.PhoneNumber{{Value: "+11234567890"}},
	}}
	record := models.CardRecord{
		Name:         models.Name{FullName: "John"},
		Organization: models.Organization{Company: "Acme", Title: "CEO"},
		Emails:       []models.TypedValue{{Value: "john@acme.com"}},
		Phones:       []models.TypedValue{{Value: "+11234567890"}},
	}

	decision := Decide(record, existing)
	if decision.Action != models.ActionSkip {
		t.Errorf("expected skip for identical contact, got %s", decision.Action)
	}
	if decision.Matched == nil {
		t.Error("expected matched contact on skip")
	}
	if decision.Updates != nil {
		t.Errorf("expected nil updates on skip, got %+v", decision.Updates)
	}
}

func TestDecideUpdateCarriesNewValues(t *testing.T) {
	existing := []*people.Person{{
		ResourceName:  "people/c2",
		Names:         []*people.Name{{DisplayName: "John"}},
		Organizations: []*people.Organization{{Name: "Acme"}},
		PhoneNumbers:  []*people.PhoneNumber{{Value: "+11234567890"}},
	}}
	record := models.CardRecord{
		Name:         models.Name{FullName: "John"},
		Organization: models.Organization{Company: "Acme"},
		Phones: []models.TypedValue{
			{Value: "+11234567890"},
			{Value: "+14155552671"},
		},
	}

	decision := Decide(record, existing)
	if decision.Action != models.ActionUpdate {
		t.Fatalf("expected update, got %s", decision.Action)
	}
	if decision.Updates == nil || decision.Updates.PhoneNumbers == nil {
		t.Fatal("expected a phone patch")
	}
}

func TestDecideFirstSeenWinsTies(t *testing.T) {
	// Both candidates tie on score; only a strictly higher score replaces
	// the current best, so the first contact wins.
	first := &people.Person{
		ResourceName:  "people/first",
		Names:         []*people.Name{{DisplayName: "John"}},
		Organizations: []*people.Organization{{Name: "Acme"}},
		PhoneNumbers:  []*people.PhoneNumber{{Value: "+11234567890"}},
	}
	second := &people.Person{
		ResourceName:  "people/second",
		Names:         []*people.Name{{DisplayName: "John"}},
		Organizations: []*people.Organization{{Name: "Acme"}},
		PhoneNumbers:  []*people.PhoneNumber{{Value: "+11234567890"}},
	}
	record := models.CardRecord{
		Name:         models.Name{FullName: "John"},
		Organization: models.Organization{Company: "Acme"},
		Phones:       []models.TypedValue{{Value: "+11234567890"}},
	}

	decision := Decide(record, []*people.Person{first, second})
	if decision.Matched == nil {
		t.Fatal("expected a match")
	}
	if decision.Matched.ResourceName != "people/first" {
		t.Errorf("expected first-seen contact to win the tie, got %s", decision.Matched.ResourceName)
	}
}

func TestDecideEmptyRecordNeverPanics(t *testing.T) {
	decision := Decide(models.CardRecord{}, []*people.Person{nil, {}})
	if decision.Action != models.ActionCreate {
		t.Errorf("expected create for empty record, got %s", decision.Action)
	}
}
