// ABOUTME: Tests for card record models and pack tier parsing
// ABOUTME: Covers JSON field names and CARD_PACK_TIERS spec handling
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePackTiers(t *testing.T) {
	tiers := ParsePackTiers("50:5,100:10,150:15")
	require.Len(t, tiers, 3)
	assert.Equal(t, PackTier{Credits: 50, Price: "5"}, tiers[0])
	assert.Equal(t, PackTier{Credits: 100, Price: "10"}, tiers[1])
	assert.Equal(t, PackTier{Credits: 150, Price: "15"}, tiers[2])
}

func TestParsePackTiersSkipsMalformed(t *testing.T) {
	tiers := ParsePackTiers("nonsense, 20:2 ,:3,0:1")
	require.Len(t, tiers, 1)
	assert.Equal(t, PackTier{Credits: 20, Price: "2"}, tiers[0])
}

func TestParsePackTiersFallsBackToDefaults(t *testing.T) {
	assert.Equal(t, DefaultPackTiers(), ParsePackTiers(""))
	assert.Equal(t, DefaultPackTiers(), ParsePackTiers("garbage,also:bad:bad"))
}

func TestCardRecordJSON(t *testing.T) {
	original := CardRecord{
		Name:         Name{FullName: "王大明", GivenName: "大明", FamilyName: "王"},
		Organization: Organization{Company: "能量叢林股份有限公司", Title: "營運長"},
		Phones:       []TypedValue{{Type: TypeMobile, Value: "+886912345678"}},
		Emails:       []TypedValue{{Type: TypeWork, Value: "dm.wang@example.com"}},
		Addresses:    []TypedAddress{{Type: TypeWork, Formatted: "台北市大安區仁愛路三段 100 號"}},
		Notes:        "名片掃描於 2026-08-30",
	}

	data, err := json.Marshal(original)
	require.NoError(t, err, "marshaling should succeed")

	var decoded CardRecord
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err, "unmarshaling should succeed")

	assert.Equal(t, original, decoded)

	// Field names are stable: the draft files and parse --text output
	// depend on them.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	name, ok := raw["name"].(map[string]any)
	require.True(t, ok, "expected a name object")
	assert.Equal(t, "王大明", name["fullName"])
	assert.Contains(t, raw, "phones")
	assert.Contains(t, raw, "organization")
}

func TestParsePackTiersBadCredits(t *testing.T) {
	// Non-numeric and non-positive credit counts are dropped
	tiers := ParsePackTiers("abc:5,-10:1,30:3")
	require.Len(t, tiers, 1)
	assert.Equal(t, 30, tiers[0].Credits)
}
