package banking

import (
	"fmt"
	"strings"
)

// BIC is a validated business identifier code, 8 or 11 characters.
// The zero value is not a valid BIC.
type BIC struct {
	value string
}

// ParseBIC validates s against the ISO 9362 structure: a 4-letter
// institution code, a 2-letter country code, a 2-character location code
// and an optional 3-character branch code.
func ParseBIC(s string) (BIC, error) {
	compact := strings.ToUpper(strings.TrimSpace(s))
	if len(compact) != 8 && len(compact) != 11 {
		return BIC{}, fmt.Errorf("%w: must be 8 or 11 characters, got %d", ErrInvalidBIC, len(compact))
	}
	if !isAlpha(compact[:6]) {
		return BIC{}, fmt.Errorf("%w: institution and country codes must be letters", ErrInvalidBIC)
	}
	if !isAlnum(compact[6:]) {
		return BIC{}, fmt.Errorf("%w: invalid character in location or branch code", ErrInvalidBIC)
	}
	return BIC{value: compact}, nil
}

// String returns the compact form.
func (b BIC) String() string { return b.value }

// IsZero reports whether b holds no value.
func (b BIC) IsZero() bool { return b.value == "" }

// Equal reports whether two BICs are the same code. Comparison is strict:
// an 8-character BIC and its 11-character XXX-branch form are distinct.
func (b BIC) Equal(other BIC) bool { return b.value == other.value }

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
