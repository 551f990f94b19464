package providers

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
)

const maxLabelLength = 63

// NormalizeLabel turns a brand title into a DNS label: lowercase, letters
// and digits kept, every other run collapsed to a single hyphen, edges
// trimmed. Non-ASCII labels are converted to punycode.
func NormalizeLabel(title string) (string, error) {
	var b strings.Builder
	hyphen := false
	ascii := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			if r > unicode.MaxASCII {
				ascii = false
			}
			b.WriteRune(r)
			continue
		}
		hyphen = true
	}

	label := b.String()
	if label == "" {
		return "", fmt.Errorf("%w: %q is empty after normalization", ErrInvalidLabel, title)
	}
	if !ascii {
		encoded, err := idna.Lookup.ToASCII(label)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %w", ErrInvalidLabel, title, err)
		}
		label = encoded
	}
	if len(label) > maxLabelLength {
		return "", fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidLabel, label, maxLabelLength)
	}
	return label, nil
}

// ComDomain returns the .com domain for title.
func ComDomain(title string) (string, error) {
	label, err := NormalizeLabel(title)
	if err != nil {
		return "", err
	}
	return label + ".com", nil
}
