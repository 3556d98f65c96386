// ABOUTME: Data models for scanned business cards and quota accounting
// ABOUTME: Defines CardRecord, draft Batch, quota Customer, and action constants
package models

import (
	"strconv"
	"strings"
	"time"
)

// CardRecord is the canonical schema a parsed business card is reduced to.
// Every field is optional; an empty record is valid. Multi-valued fields
// never contain two entries with the same value.
type CardRecord struct {
	Name         Name           `json:"name"`
	Organization Organization   `json:"organization"`
	Phones       []TypedValue   `json:"phones"`
	Emails       []TypedValue   `json:"emails"`
	Addresses    []TypedAddress `json:"addresses"`
	Urls         []TypedValue   `json:"urls"`
	Notes        string         `json:"notes"`
}

type Name struct {
	FullName   string `json:"fullName"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

type Organization struct {
	Company string `json:"company"`
	Title   string `json:"title"`
}

type TypedValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type TypedAddress struct {
	Type      string `json:"type"`
	Formatted string `json:"formatted"`
}

// Reconciliation actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionSkip   = "skip"
)

// Per-card apply outcomes.
const (
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
	StatusUnchanged = "unchanged"
	StatusPlanned   = "planned"
)

// Value type labels used by the parser.
const (
	TypeWork   = "work"
	TypeMobile = "mobile"
)

// Batch is a draft scan batch awaiting review and apply. It is persisted as
// a JSON file between the scan and apply commands.
type Batch struct {
	ID         string       `json:"id"`
	CreatedAt  string       `json:"created_at"`
	Records    []CardRecord `json:"records"`
	OCRTexts   []string     `json:"ocr_texts"`
	FileNames  []string     `json:"file_names"`
	ImagePaths []string     `json:"image_paths"`
	Skip       []bool       `json:"skip"`
}

// Customer is a quota account keyed by user identity.
type Customer struct {
	Key       string    `json:"key"`
	Quota     int       `json:"quota"`
	FreeTrial bool      `json:"free_trial"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LedgerEntry is one line of quota history for a customer.
type LedgerEntry struct {
	ID          string    `json:"id"`
	CustomerKey string    `json:"customer_key"`
	Action      string    `json:"action"`
	Amount      int       `json:"amount"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Quota ledger actions.
const (
	LedgerFreeTrial  = "free_trial"
	LedgerQuotaAdded = "quota_added"
	LedgerQuotaUsed  = "quota_used"
)

// ScanEntry is one applied (or attempted) card in the scan log.
type ScanEntry struct {
	ID           string    `json:"id"`
	BatchID      string    `json:"batch_id"`
	FileName     string    `json:"file_name"`
	Action       string    `json:"action"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason,omitempty"`
	ResourceName string    `json:"resource_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PackTier is a purchasable credit pack.
type PackTier struct {
	Credits int
	Price   string
}

// DefaultPackTiers mirrors the tiers offered when CARD_PACK_TIERS is unset.
func DefaultPackTiers() []PackTier {
	return []PackTier{
		{Credits: 50, Price: "5"},
		{Credits: 100, Price: "10"},
		{Credits: 150, Price: "15"},
	}
}

// ParsePackTiers parses a "credits:price,credits:price" spec such as
// "50:5,100:10,150:15". Malformed segments are skipped; an empty or fully
// malformed spec falls back to DefaultPackTiers.
func ParsePackTiers(spec string) []PackTier {
	var tiers []PackTier
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		creditsStr, price, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		credits, err := strconv.Atoi(strings.TrimSpace(creditsStr))
		if err != nil || credits <= 0 {
			continue
		}
		tiers = append(tiers, PackTier{Credits: credits, Price: strings.TrimSpace(price)})
	}
	if len(tiers) == 0 {
		return DefaultPackTiers()
	}
	return tiers
}

// InitialFreeCredits is the free-trial quota granted to new accounts.
const InitialFreeCredits = 5
