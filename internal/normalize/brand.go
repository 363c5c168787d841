// Package normalize turns raw origin rows into domain review records.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"review_insights/internal/domain"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

/********** brand tables **********/

// brandPhrases maps a full normalized phrase to a brand (tier 1).
var brandPhrases = map[string]string{
	"apple":             "Apple",
	"apple iphone":      "Apple",
	"iphone":            "Apple",
	"iphone 15":         "Apple",
	"galaxy":            "Samsung",
	"samsung galaxy":    "Samsung",
	"samsung s24":       "Samsung",
	"pixel":             "Google",
	"google":            "Google",
	"oneplus":           "OnePlus",
	"oneplus 12":        "OnePlus",
	"oppo":              "Oppo",
	"vivo":              "Vivo",
	"lg":                "LG",
	"htc":               "HTC",
	"tecno pova":        "Tecno",
	"motorola":          "Motorola",
	"nokia":             "Nokia",
	"sony":              "Sony",
	"realme":            "Realme",
	"iqoo":              "iQOO",
	"iqoo neo":          "iQOO",
	"infinix note":      "Infinix",
	"nothing phone (2)": "Nothing Phone",
}

// brandTokens maps a single token to a brand (tier 2).
var brandTokens = map[string]string{
	"apple":    "Apple",
	"iphone":   "Apple",
	"samsung":  "Samsung",
	"galaxy":   "Samsung",
	"pixel":    "Google",
	"google":   "Google",
	"oneplus":  "OnePlus",
	"oppo":     "Oppo",
	"vivo":     "Vivo",
	"motorola": "Motorola",
	"moto":     "Motorola",
	"nokia":    "Nokia",
	"sony":     "Sony",
	"xiaomi":   "Xiaomi",
	"redmi":    "Xiaomi",
	"poco":     "Poco",
	"tecno":    "Tecno",
	"infinix":  "Infinix",
	"iqoo":     "iQOO",
	"asus":     "Asus",
	"lenovo":   "Lenovo",
	"huawei":   "Huawei",
	"honor":    "Honor",
	"realme":   "Realme",
	"htc":      "HTC",
}

type brandRule struct {
	brand string
	match func(normalized string, tokens map[string]struct{}) bool
}

func hasPrefix(p string) func(string, map[string]struct{}) bool {
	return func(n string, _ map[string]struct{}) bool { return strings.HasPrefix(n, p) }
}

func contains(sub string) func(string, map[string]struct{}) bool {
	return func(n string, _ map[string]struct{}) bool { return strings.Contains(n, sub) }
}

// brandRules are the substring/prefix heuristics (tier 3), evaluated in order.
var brandRules = []brandRule{
	{"Apple", hasPrefix("iphone")},
	{"Samsung", func(n string, _ map[string]struct{}) bool {
		return strings.Contains(n, "samsung") || strings.HasPrefix(n, "galaxy")
	}},
	{"Apple", contains("apple")},
	{"Google", contains("pixel")},
	{"Google", contains("google")},
	{"OnePlus", contains("oneplus")},
	{"Xiaomi", contains("redmi")},
	{"Xiaomi", contains("xiaomi")},
	{"Poco", hasPrefix("poco")},
	{"Tecno", contains("tecno")},
	{"Infinix", contains("infinix")},
	{"Nothing Phone", func(n string, toks map[string]struct{}) bool {
		if strings.Contains(n, "nothing phone") {
			return true
		}
		_, a := toks["nothing"]
		_, b := toks["phone"]
		return a && b
	}},
	{"Motorola", func(n string, _ map[string]struct{}) bool {
		return strings.HasPrefix(n, "moto") || strings.Contains(n, "motorola")
	}},
	{"LG", func(n string, _ map[string]struct{}) bool {
		return strings.HasPrefix(n, "lg") || strings.Contains(" "+n+" ", " lg ")
	}},
	{"HTC", hasPrefix("htc")},
	{"Asus", contains("asus")},
	{"Lenovo", contains("lenovo")},
	{"Huawei", contains("huawei")},
	{"Honor", contains("honor")},
	{"Realme", contains("realme")},
	{"iQOO", contains("iqoo")},
	{"Nokia", contains("nokia")},
	{"Sony", contains("sony")},
}

// acronymFixes corrects title-cased long-tail names (tier 4).
var acronymFixes = map[string]string{
	"Zte": "ZTE",
	"Tcl": "TCL",
	"Hmd": "HMD",
	"Blu": "BLU",
}

// textBrands are scanned, in order, as substrings of free review text.
var textBrands = []string{
	"samsung", "apple", "iphone", "xiaomi", "oneplus", "google", "pixel",
	"realme", "oppo", "vivo", "motorola", "nokia", "sony", "lg", "huawei",
	"honor", "asus", "lenovo", "zte", "htc", "galaxy", "redmi", "poco",
}

// CanonicalBrand resolves a raw brand/model token to a canonical brand name.
// Blank input yields "Unknown"; unmatched input falls back to a title-cased
// long-tail label. The function is pure and idempotent.
func CanonicalBrand(raw string) string {
	name := norm.NFKC.String(strings.TrimSpace(raw))
	if name == "" {
		return domain.Unknown
	}
	normalized := foldBrand(name)
	if b, ok := matchBrand(normalized); ok {
		return b
	}

	// cases.Caser is stateful; one per call.
	title := cases.Title(language.Und).String(name)
	if folded := foldBrand(title); folded != normalized {
		// title-casing can change the folded form (e.g. U+017F long s)
		if b, ok := matchBrand(folded); ok {
			return b
		}
	}
	if fixed, ok := acronymFixes[title]; ok {
		return fixed
	}
	return title
}

// foldBrand is the case-folded, compatibility-normalized match key.
func foldBrand(s string) string {
	return norm.NFKC.String(cases.Fold().String(s))
}

// matchBrand runs the phrase, token and rule tiers over a folded name.
func matchBrand(normalized string) (string, bool) {
	if b, ok := brandPhrases[normalized]; ok {
		return b, true
	}

	tokens := tokenPattern.FindAllString(normalized, -1)
	for _, t := range tokens {
		if b, ok := brandTokens[t]; ok {
			return b, true
		}
	}

	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	for _, rule := range brandRules {
		if rule.match(normalized, set) {
			return rule.brand, true
		}
	}
	return "", false
}

// DetectBrand finds the first known brand mentioned anywhere in free text.
func DetectBrand(text string) string {
	if strings.TrimSpace(text) == "" {
		return domain.Unknown
	}
	lower := strings.ToLower(text)
	for _, b := range textBrands {
		if strings.Contains(lower, b) {
			return CanonicalBrand(b)
		}
	}
	return domain.Unknown
}
