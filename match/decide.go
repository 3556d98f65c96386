// ABOUTME: Create/update/skip decision engine for scanned cards
// ABOUTME: Scores candidates against existing contacts with a corroboration gate
package match

import (
	"google.golang.org/api/people/v1"

	"github.com/harperreed/meishi/models"
)

// Decision is the outcome of reconciling one card against the existing
// contact list. Matched is nil for create; Updates is nil unless the action
// is update.
type Decision struct {
	Action  string
	Matched *people.Person
	Updates *Updates
}

// Scoring weights. Email overlap is the strongest signal, phone next, the
// name+company slug weakest on its own but required as corroboration.
const (
	emailWeight       = 3
	phoneWeight       = 2
	nameCompanyWeight = 1
)

// Decide scores record against every existing contact and picks the best
// match (strict > replaces, so the first-seen contact wins ties). Email or
// phone overlap alone never proves identity: shared company inboxes and
// recycled numbers are common, so without a name+company slug match on both
// sides the action is forced to create. A matched contact with nothing new
// to add is a skip.
func Decide(record models.CardRecord, existing []*people.Person) Decision {
	candKeys := RecordKeys(record)

	var best *people.Person
	var bestKeys Keys
	bestScore := -1

	for _, person := range existing {
		keys := PersonKeys(person)
		score := 0
		if intersects(candKeys.Emails, keys.Emails) {
			score += emailWeight
		}
		if intersects(candKeys.Phones, keys.Phones) {
			score += phoneWeight
		}
		if intersects(candKeys.NameCompany, keys.NameCompany) {
			score += nameCompanyWeight
		}
		if score > bestScore {
			bestScore = score
			best = person
			bestKeys = keys
		}
	}

	if best == nil || bestScore <= 0 {
		return Decision{Action: models.ActionCreate}
	}

	// Corroboration gate: both sides need a name+company key and they must
	// intersect before two records are treated as the same person.
	if len(candKeys.NameCompany) == 0 || len(bestKeys.NameCompany) == 0 ||
		!intersects(candKeys.NameCompany, bestKeys.NameCompany) {
		return Decision{Action: models.ActionCreate}
	}

	updates := ComputeUpdates(record, best)
	if !updates.IsEmpty() {
		return Decision{Action: models.ActionUpdate, Matched: best, Updates: updates}
	}
	return Decision{Action: models.ActionSkip, Matched: best}
}
