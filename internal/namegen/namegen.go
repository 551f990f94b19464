// Package namegen builds brand name candidates from seed keywords.
package namegen

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultLimit caps Generate when no positive limit is given.
const DefaultLimit = 20

// Style adds a short infix between prefix and seed.
type Style string

const (
	StyleNone         Style = ""
	StyleModern       Style = "modern"
	StyleClassic      Style = "classic"
	StylePlayful      Style = "playful"
	StyleProfessional Style = "professional"
)

var styleInfix = map[Style]string{
	StyleModern:       "x",
	StyleClassic:      "a",
	StylePlayful:      "oo",
	StyleProfessional: "pro",
}

var prefixes = []string{"neo", "meta", "quant", "hyper", "blue", "bright", "clear", "ever", "true"}

var suffixes = []string{"ly", "ify", "io", "ster", "scape", "verse", "labs", "works", "forge"}

// ParseStyle converts a flag value to a Style.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	if st == StyleNone {
		return StyleNone, nil
	}
	if _, ok := styleInfix[st]; !ok {
		return StyleNone, fmt.Errorf("invalid style %q: must be modern, classic, playful, or professional", s)
	}
	return st, nil
}

// Generate returns up to limit unique, title-cased candidates. Every prefix
// is combined with every seed and suffix first; plain seed+suffix names
// fill any remaining room.
func Generate(keywords []string, style Style, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var seeds []string
	for _, k := range keywords {
		if s := slugify(k); s != "" {
			seeds = append(seeds, s)
		}
	}
	if len(seeds) == 0 {
		return nil
	}

	infix := styleInfix[style]
	caser := cases.Title(language.Und)

	results := make([]string, 0, limit)
	seen := make(map[string]struct{})
	add := func(name string) bool {
		title := titleCase(caser, name)
		if _, dup := seen[title]; !dup {
			seen[title] = struct{}{}
			results = append(results, title)
		}
		return len(results) >= limit
	}

	for _, pref := range prefixes {
		for _, seed := range seeds {
			base := pref + infix + seed
			for _, suf := range suffixes {
				if add(base + suf) {
					return results
				}
			}
		}
	}

	for _, seed := range seeds {
		for _, suf := range suffixes {
			if add(seed + suf) {
				return results
			}
		}
	}

	return results
}

// titleCase capitalizes every run of letters, so a letter following a digit
// starts a new word: "neo2solar" becomes "Neo2Solar".
func titleCase(caser cases.Caser, s string) string {
	var b strings.Builder
	start := 0
	for i, r := range s {
		if i > start && unicode.IsLetter(r) != isLetterAt(s, start) {
			b.WriteString(caser.String(s[start:i]))
			start = i
		}
	}
	b.WriteString(caser.String(s[start:]))
	return b.String()
}

func isLetterAt(s string, i int) bool {
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r)
}

// slugify lowercases word and drops everything but letters and digits.
func slugify(word string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(word) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
