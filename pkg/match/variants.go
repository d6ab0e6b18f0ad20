package match

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// German diacritics and their ASCII transliterations. A name can show up on
// disk in either spelling, so matching expands every token in both directions
// where that is safe.
var diacriticToASCII = []struct{ from, to string }{
	{"ä", "ae"},
	{"ö", "oe"},
	{"ü", "ue"},
	{"ß", "ss"},
}

var asciiToDiacritic = []struct{ from, to string }{
	{"ae", "ä"},
	{"oe", "ö"},
	{"ue", "ü"},
	{"ss", "ß"},
}

// GivenNameVariants expands a single given-name token into its alternate
// spellings: the token itself plus one variant per substitution that applies,
// in both directions, each title-cased.
func GivenNameVariants(token string) []string {
	v := newVariantSet(token)
	lower := strings.ToLower(token)
	for _, sub := range diacriticToASCII {
		if strings.Contains(lower, sub.from) {
			v.add(titleCase(strings.ReplaceAll(lower, sub.from, sub.to)))
		}
	}
	for _, sub := range asciiToDiacritic {
		if strings.Contains(lower, sub.from) {
			v.add(titleCase(strings.ReplaceAll(lower, sub.from, sub.to)))
		}
	}
	return v.list
}

// SurnameVariants expands a surname in both directions: diacritic to ASCII
// digraph, digraph back to diacritic, and the üß/uess compound so that
// spellings like "Schüßler" and "Schuessler" match each other either way
// round.
func SurnameVariants(name string) []string {
	v := newVariantSet(name)
	lower := strings.ToLower(name)
	for _, sub := range diacriticToASCII {
		if strings.Contains(lower, sub.from) {
			v.add(titleCase(strings.ReplaceAll(lower, sub.from, sub.to)))
		}
	}
	// combined pass: ü and ß substituted together
	if strings.Contains(lower, "ü") && strings.Contains(lower, "ß") {
		both := strings.ReplaceAll(strings.ReplaceAll(lower, "ü", "ue"), "ß", "ss")
		v.add(titleCase(both))
	}
	for _, sub := range asciiToDiacritic {
		if strings.Contains(lower, sub.from) {
			v.add(titleCase(strings.ReplaceAll(lower, sub.from, sub.to)))
		}
	}
	if strings.Contains(lower, "uess") {
		v.add(titleCase(strings.ReplaceAll(lower, "uess", "üß")))
	}
	if strings.Contains(lower, "üß") {
		v.add(titleCase(strings.ReplaceAll(lower, "üß", "uess")))
	}
	return v.list
}

// variantSet keeps insertion order and drops duplicates; matching is
// first-combination-wins, so the original spelling stays in front.
type variantSet struct {
	list []string
	seen map[string]bool
}

func newVariantSet(first string) *variantSet {
	v := &variantSet{seen: map[string]bool{}}
	v.add(first)
	return v
}

func (v *variantSet) add(s string) {
	key := strings.ToLower(s)
	if s == "" || v.seen[key] {
		return
	}
	v.seen[key] = true
	v.list = append(v.list, s)
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
