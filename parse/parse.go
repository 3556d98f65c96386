// ABOUTME: Business card text parser
// ABOUTME: Turns raw OCR text into a CardRecord with regex and line heuristics
package parse

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/harperreed/meishi/models"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`(?:\+\d{1,3}[\s-]?)?(?:\(?\d{2,4}\)?[\s-]?)?\d{3,4}[\s-]?\d{3,4}`)
	urlRe   = regexp.MustCompile(`https?://[\w.-]+(?:/[\w\-./?%&=]*)?`)
)

var companyHints = []string{
	"有限公司", "股份有限公司", "Inc", "LLC", "Co.", "Company",
	"股份", "科技", "資訊", "International", "Corp", "Corporation",
}

var titleHints = []string{
	"執行長", "營運長", "技術長", "行銷長", "財務長", "董事長", "總經理", "副總", "經理", "副理", "主任",
	"Director", "VP", "CEO", "CTO", "COO", "CFO", "Manager", "Lead", "Head",
}

// ParseText extracts a CardRecord from raw OCR text. Every step is a
// best-effort heuristic that degrades to empty fields; the function never
// fails, and empty input yields an empty record.
func ParseText(text string) models.CardRecord {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	var phones, emails, urls []models.TypedValue
	var addresses []models.TypedAddress

	for _, m := range emailRe.FindAllString(text, -1) {
		if e := ValidateEmail(m); e != "" {
			emails = append(emails, models.TypedValue{Type: models.TypeWork, Value: e})
		}
	}
	for _, m := range phoneRe.FindAllString(text, -1) {
		if p := NormalizePhone(m, DefaultRegion); p != "" {
			phones = append(phones, models.TypedValue{Type: models.TypeMobile, Value: p})
		}
	}
	for _, m := range urlRe.FindAllString(text, -1) {
		urls = append(urls, models.TypedValue{Type: models.TypeWork, Value: m})
	}

	name := guessName(lines)
	company, title := guessCompanyTitle(lines)

	// Addresses are long, contain digits, and sit near the bottom of a card.
	for i := len(lines) - 1; i >= 0; i-- {
		ln := lines[i]
		if len([]rune(ln)) > 10 && containsDigit(ln) {
			addresses = append(addresses, models.TypedAddress{Type: models.TypeWork, Formatted: ln})
			break
		}
	}

	return models.CardRecord{
		Name:         name,
		Organization: models.Organization{Company: company, Title: title},
		Phones:       DedupeValues(phones),
		Emails:       DedupeValues(emails),
		Addresses:    DedupeAddresses(addresses),
		Urls:         DedupeValues(urls),
	}
}

// guessName picks the shortest prominent line among the first five that is
// neither an email nor a URL, then splits it into given/family parts.
func guessName(lines []string) models.Name {
	top := lines
	if len(top) > 5 {
		top = top[:5]
	}
	var candidates []string
	for _, ln := range top {
		if strings.Contains(ln, "@") || strings.HasPrefix(strings.ToLower(ln), "http") {
			continue
		}
		candidates = append(candidates, ln)
	}
	if len(candidates) == 0 {
		return models.Name{}
	}

	full := candidates[0]
	for _, c := range candidates[1:] {
		if len([]rune(c)) < len([]rune(full)) {
			full = c
		}
	}

	if family, given := splitCJKName(full); family != "" || given != "" {
		return models.Name{FullName: full, GivenName: given, FamilyName: family}
	}

	parts := strings.Fields(full)
	if len(parts) >= 2 {
		return models.Name{
			FullName:   full,
			GivenName:  strings.Join(parts[:len(parts)-1], " "),
			FamilyName: parts[len(parts)-1],
		}
	}
	return models.Name{FullName: full}
}

// splitCJKName splits an all-CJK name of 2-4 runes into family (first rune)
// and given (rest). Anything else yields two empty strings.
func splitCJKName(name string) (family, given string) {
	var collapsed []rune
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		collapsed = append(collapsed, r)
	}
	if len(collapsed) < 2 || len(collapsed) > 4 {
		return "", ""
	}
	for _, r := range collapsed {
		if !isCJK(r) {
			return "", ""
		}
	}
	return string(collapsed[0]), string(collapsed[1:])
}

func isCJK(r rune) bool {
	return (r >= 0x4e00 && r <= 0x9fff) || // CJK Unified Ideographs
		(r >= 0x3400 && r <= 0x4dbf) // CJK Extension A
}

// guessCompanyTitle scans the first eight lines for company and title
// indicator substrings. First match wins for each category.
func guessCompanyTitle(lines []string) (company, title string) {
	top := lines
	if len(top) > 8 {
		top = top[:8]
	}
	for _, ln := range top {
		if title == "" && containsAny(ln, titleHints) {
			title = ln
		}
		if company == "" && containsAny(ln, companyHints) {
			company = ln
		}
		if company != "" && title != "" {
			break
		}
	}
	return company, title
}

func containsAny(s string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
