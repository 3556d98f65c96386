package parse

import (
	"strings"
	"testing"
)

const sampleCard = `王大明 營運長
能量叢林股份有限公司
Mobile: 0912-345-678
Email: dm.wang@example.com
https://example.com
台北市大安區仁愛路三段 100 號`

func TestParseTextSampleCard(t *testing.T) {
	record := ParseText(sampleCard)

	if !strings.HasPrefix(record.Organization.Company, "能量叢林") {
		t.Errorf("expected company starting with 能量叢林, got %q", record.Organization.Company)
	}
	if !strings.Contains(record.Organization.Title, "營運長") {
		t.Errorf("expected title containing 營運長, got %q", record.Organization.Title)
	}

	foundEmail := false
	for _, e := range record.Emails {
		if e.Value == "dm.wang@example.com" {
			foundEmail = true
		}
	}
	if !foundEmail {
		t.Errorf("expected email dm.wang@example.com, got %+v", record.Emails)
	}

	foundPhone := false
	for _, p := range record.Phones {
		if strings.HasPrefix(p.Value, "+886") {
			foundPhone = true
		}
	}
	if !foundPhone {
		t.Errorf("expected a +886 phone, got %+v", record.Phones)
	}

	if len(record.Urls) == 0 || !strings.HasPrefix(record.Urls[0].Value, "https://") {
		t.Errorf("expected first url starting with https://, got %+v", record.Urls)
	}
	if len(record.Addresses) == 0 || !strings.HasPrefix(record.Addresses[0].Formatted, "台北市") {
		t.Errorf("expected first address starting with 台北市, got %+v", record.Addresses)
	}
}

func TestParseTextAddressAndURL(t *testing.T) {
	text := "Visit us at https://example.com\n地址：台北市信義區松高路 11 號"
	record := ParseText(text)

	foundURL := false
	for _, u := range record.Urls {
		if strings.HasPrefix(u.Value, "https://") {
			foundURL = true
		}
	}
	if !foundURL {
		t.Errorf("expected an https:// url, got %+v", record.Urls)
	}

	foundAddr := false
	for _, a := range record.Addresses {
		if strings.Contains(a.Formatted, "台北市") {
			foundAddr = true
		}
	}
	if !foundAddr {
		t.Errorf("expected an address containing 台北市, got %+v", record.Addresses)
	}
}

func TestParseTextEmptyInput(t *testing.T) {
	record := ParseText("")

	if record.Name.FullName != "" {
		t.Errorf("expected empty name, got %q", record.Name.FullName)
	}
	if len(record.Phones) != 0 || len(record.Emails) != 0 || len(record.Urls) != 0 || len(record.Addresses) != 0 {
		t.Errorf("expected empty sequences, got %+v", record)
	}
}

func TestParseTextNeverPanics(t *testing.T) {
	inputs := []string{
		"@@@@",
		"http://",
		strings.Repeat("王", 1000),
		"\n\n\n",
		"+++---...",
	}
	for _, input := range inputs {
		_ = ParseText(input) // must not panic
	}
}

func TestGuessNameCJKSplit(t *testing.T) {
	record := ParseText("王大明\n能量叢林股份有限公司")

	if record.Name.FullName != "王大明" {
		t.Errorf("expected full name 王大明, got %q", record.Name.FullName)
	}
	if record.Name.FamilyName != "王" {
		t.Errorf("expected family 王, got %q", record.Name.FamilyName)
	}
	if record.Name.GivenName != "大明" {
		t.Errorf("expected given 大明, got %q", record.Name.GivenName)
	}
}

func TestGuessNameWesternSplit(t *testing.T) {
	record := ParseText("John Smith\nAcme Corp Inc")

	if record.Name.FullName != "John Smith" {
		t.Errorf("expected full name John Smith, got %q", record.Name.FullName)
	}
	if record.Name.FamilyName != "Smith" {
		t.Errorf("expected family Smith, got %q", record.Name.FamilyName)
	}
	if record.Name.GivenName != "John" {
		t.Errorf("expected given John, got %q", record.Name.GivenName)
	}
}

func TestGuessNameSingleToken(t *testing.T) {
	record := ParseText("Madonna\nAcme Corp Inc")

	if record.Name.FullName != "Madonna" {
		t.Errorf("expected full name Madonna, got %q", record.Name.FullName)
	}
	if record.Name.GivenName != "" || record.Name.FamilyName != "" {
		t.Errorf("expected no split for single token, got %+v", record.Name)
	}
}

func TestGuessNameSkipsEmailAndURLLines(t *testing.T) {
	record := ParseText("info@acme.com\nhttps://acme.com\n陳小華")

	if record.Name.FullName != "陳小華" {
		t.Errorf("expected 陳小華, got %q", record.Name.FullName)
	}
}

func TestGuessCompanyTitleStopsAfterBoth(t *testing.T) {
	text := "張三 總經理\n大同科技有限公司\n另一家股份有限公司"
	record := ParseText(text)

	if !strings.Contains(record.Organization.Title, "總經理") {
		t.Errorf("expected title containing 總經理, got %q", record.Organization.Title)
	}
	// First company match wins.
	if !strings.Contains(record.Organization.Company, "大同科技") {
		t.Errorf("expected first company line, got %q", record.Organization.Company)
	}
}

func TestSplitCJKName(t *testing.T) {
	tests := []struct {
		input  string
		family string
		given  string
	}{
		{"王大明", "王", "大明"},
		{"王 大明", "王", "大明"},
		{"歐陽文風", "歐", "陽文風"},
		{"王", "", ""},
		{"王大明大明", "", ""},
		{"John", "", ""},
		{"王A明", "", ""},
	}

	for _, tt := range tests {
		family, given := splitCJKName(tt.input)
		if family != tt.family || given != tt.given {
			t.Errorf("splitCJKName(%q) = (%q, %q), want (%q, %q)", tt.input, family, given, tt.family, tt.given)
		}
	}
}
