// internal/platform/validator/validator.go
package validator

import (
	"regexp"
	"strings"
)

// Identifier validators

// GSTIN: 2-digit state code, 5-letter PAN prefix, 4 digits, 1 letter,
// 1 entity code, literal Z, 1 checksum character. 15 characters total.
var gstinRegex = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// CIN: listing status (L/U), 5-digit industry code, 2-letter state code,
// 4-digit incorporation year, 3-letter ownership code, 6-digit registration
// number. 21 characters total.
var cinRegex = regexp.MustCompile(`^[LU][0-9]{5}[A-Z]{2}[0-9]{4}[A-Z]{3}[0-9]{6}$`)

// IsGSTIN reports whether s is a well-formed GST identification number.
func IsGSTIN(s string) bool {
	return len(s) == 15 && gstinRegex.MatchString(s)
}

// IsCIN reports whether s is a well-formed corporate identification number.
func IsCIN(s string) bool {
	return len(s) == 21 && cinRegex.MatchString(s)
}

// CINIncorporationYear extracts the 4-digit incorporation year embedded in a
// CIN, or 0 if the CIN is malformed.
func CINIncorporationYear(cin string) int {
	if !IsCIN(cin) {
		return 0
	}
	year := 0
	for _, r := range cin[8:12] {
		year = year*10 + int(r-'0')
	}
	return year
}

// Company-name normalization

// legalSuffixes are trailing corporate designators stripped before name
// comparison, longest first so compound forms win.
var legalSuffixes = []string{
	"private limited company",
	"private limited",
	"pvt ltd",
	"pvt limited",
	"private ltd",
	"public limited",
	"limited liability partnership",
	"limited",
	"llp",
	"ltd",
	"pvt",
	"inc",
	"corporation",
	"corp",
	"co",
}

var whitespaceRegex = regexp.MustCompile(`\s+`)
var punctuationRegex = regexp.MustCompile(`[.,&()\-_/']`)
var underscoreRegex = regexp.MustCompile(`_+`)

// NormalizeCompanyName reduces a legal name to a canonical comparison form:
// lower-cased, punctuation removed, whitespace collapsed, trailing legal
// suffixes stripped.
func NormalizeCompanyName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = punctuationRegex.ReplaceAllString(n, " ")
	n = whitespaceRegex.ReplaceAllString(n, " ")
	n = strings.TrimSpace(n)

	// Strip legal suffixes repeatedly ("acme solutions pvt ltd" -> "acme solutions")
	for changed := true; changed; {
		changed = false
		for _, suffix := range legalSuffixes {
			if strings.HasSuffix(n, " "+suffix) {
				n = strings.TrimSpace(strings.TrimSuffix(n, " "+suffix))
				changed = true
				break
			}
		}
	}
	return n
}

// NormalizeState canonicalizes a state/jurisdiction name for comparison.
func NormalizeState(state string) string {
	s := strings.ToLower(strings.TrimSpace(state))
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// NameTokens splits a normalized company name into comparison tokens.
func NameTokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// SanitizeFilename converts a company name into a safe file/directory name.
// Example: "Acme Pvt. Ltd." -> "acme_pvt_ltd".
func SanitizeFilename(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, s)
	s = underscoreRegex.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
