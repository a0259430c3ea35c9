package diagnose

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/EmersonEIMS/generator-oracle/pkg/fn"
)

// brandAlias maps the spellings and typos technicians actually type onto
// a canonical brand name. Order matters: longer, more specific aliases are
// listed first so "atlas copco" wins over "atlas".
var brandAliases = []struct {
	Brand   string
	Aliases []string
}{
	{"Atlas Copco", []string{"atlas copco", "atlascopco", "atlas", "copco"}},
	{"CAT PowerWizard", []string{"powerwizard", "power wizard"}},
	{"Caterpillar", []string{"caterpillar", "catepillar", "catapillar", "cat"}},
	{"Cummins", []string{"cummins", "cummin", "cummings", "cumins"}},
	{"Perkins", []string{"perkins", "perkings", "perkin"}},
	{"Deutz", []string{"deutz", "duetz", "deutch"}},
	{"SDMO", []string{"sdmo", "sdm"}},
	{"Kohler", []string{"kohler", "koehler"}},
	{"Generac", []string{"generac", "generak"}},
	{"Doosan", []string{"doosan", "dosan"}},
	{"Weichai", []string{"weichai", "weichi"}},
	{"DeepSea", []string{"deepsea", "deep sea", "dse"}},
	{"ComAp", []string{"comap", "intelilite", "inteligen"}},
	{"SmartGen", []string{"smartgen", "smart gen", "hgm"}},
	{"Woodward", []string{"woodward", "easygen"}},
	{"Datakom", []string{"datakom"}},
	{"Lovato", []string{"lovato"}},
}

var aliasPatterns = compileAliasPatterns()

func compileAliasPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(brandAliases))
	for i, ba := range brandAliases {
		quoted := make([]string, len(ba.Aliases))
		for j, a := range ba.Aliases {
			quoted[j] = regexp.QuoteMeta(a)
		}
		// Word boundaries keep "cat" from matching inside "category".
		patterns[i] = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return patterns
}

// DetectBrand returns the canonical brand named in the query, or "" when
// none is recognized.
func DetectBrand(query string) string {
	lower := strings.ToLower(query)
	for i, ba := range brandAliases {
		if aliasPatterns[i].MatchString(lower) {
			return ba.Brand
		}
	}
	return ""
}

// codePattern matches code-like tokens: a short letter prefix, optional
// separator, then digits. Covers E1001, DS-7320, F 101 style inputs; full
// controller codes with several segments come from the raw-token pass in
// ExtractCodes.
var codePattern = regexp.MustCompile(`\b([A-Za-z]{1,4})[-_ ]?([0-9]{2,5})\b`)

// ExtractCodes pulls candidate fault-code strings out of free text. Whole
// tokens mixing letters and digits come first, so multi-segment codes like
// DS-7320-101 beat their prefixes; each regex match is then offered in the
// spellings the corpus might use: as typed, joined, and hyphenated.
func ExtractCodes(query string) []string {
	var codes []string
	for _, tok := range strings.Fields(query) {
		tok = strings.Trim(tok, ".,;:!?()[]\"'")
		if len(tok) < 4 || !hasLetterAndDigit(tok) {
			continue
		}
		codes = append(codes, strings.ToUpper(tok))
	}
	for _, m := range codePattern.FindAllStringSubmatch(query, -1) {
		for _, cand := range []string{m[0], m[1] + m[2], m[1] + "-" + m[2]} {
			codes = append(codes, strings.ToUpper(strings.TrimSpace(cand)))
		}
	}
	return fn.Unique(codes)
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
