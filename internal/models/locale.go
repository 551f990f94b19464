package models

import (
	"fmt"
	"strconv"
	"strings"
)

// LocaleSpec bundles the per-provider locale parameters for one evaluation pass.
type LocaleSpec struct {
	// Country is the ASO suggestion country code (lowercase), e.g. "us".
	Country string `json:"country" yaml:"country"`
	// HL is the storefront UI language, e.g. "en".
	HL string `json:"hl" yaml:"hl"`
	// GL is the storefront country, e.g. "US".
	GL string `json:"gl" yaml:"gl"`
	// LocationCode is the search engine location code (2840 = United States).
	LocationCode int `json:"location_code" yaml:"location_code"`
	// LanguageCode is the search engine language code.
	LanguageCode string `json:"language_code" yaml:"language_code"`
	// Weight is reserved for weighted multi-locale combination and is not
	// used numerically.
	Weight float64 `json:"weight" yaml:"weight"`
}

// DefaultLocale returns the United States / English locale.
func DefaultLocale() LocaleSpec {
	return LocaleSpec{
		Country:      "us",
		HL:           "en",
		GL:           "US",
		LocationCode: 2840,
		LanguageCode: "en",
		Weight:       1.0,
	}
}

// Label is a short human readable identifier, e.g. "en-2840".
func (l LocaleSpec) Label() string {
	return fmt.Sprintf("%s-%d", l.LanguageCode, l.LocationCode)
}

// ParseLocale parses "country:hl:gl:location_code:language_code[:weight]".
// Empty fields keep the default locale's value, so "de:de:DE:2276:de" and
// "gb::GB" are both accepted.
func ParseLocale(s string) (LocaleSpec, error) {
	loc := DefaultLocale()
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 6 {
		return loc, fmt.Errorf("invalid locale %q: expected country:hl:gl:location_code:language_code[:weight]", s)
	}

	field := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}

	if v := field(0); v != "" {
		loc.Country = strings.ToLower(v)
	}
	if v := field(1); v != "" {
		loc.HL = v
	}
	if v := field(2); v != "" {
		loc.GL = strings.ToUpper(v)
	}
	if v := field(3); v != "" {
		code, err := strconv.Atoi(v)
		if err != nil {
			return loc, fmt.Errorf("invalid locale %q: location_code %q is not an integer", s, v)
		}
		loc.LocationCode = code
	}
	if v := field(4); v != "" {
		loc.LanguageCode = v
	}
	if v := field(5); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return loc, fmt.Errorf("invalid locale %q: weight %q is not a number", s, v)
		}
		loc.Weight = w
	}

	return loc, nil
}
