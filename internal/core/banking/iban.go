// Package banking provides validated IBAN and BIC value types (ISO 13616 /
// ISO 9362) and a partial national bank-code registry used to derive a BIC
// from an IBAN.
package banking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidIBAN = errors.New("invalid iban")
	ErrInvalidBIC  = errors.New("invalid bic")
)

// ibanLengths maps an ISO 3166 country code to the total IBAN length
// registered for that country.
var ibanLengths = map[string]int{
	"AT": 20, "BE": 16, "BG": 22, "CH": 21, "CY": 28, "CZ": 24,
	"DE": 22, "DK": 18, "EE": 20, "ES": 24, "FI": 18, "FR": 27,
	"GB": 22, "GR": 27, "HR": 21, "HU": 28, "IE": 22, "IS": 26,
	"IT": 27, "LI": 21, "LT": 20, "LU": 20, "LV": 21, "MC": 27,
	"MT": 31, "NL": 18, "NO": 15, "PL": 28, "PT": 25, "RO": 24,
	"SE": 24, "SI": 19, "SK": 24,
}

// IBAN is a validated account number in compact form (no separators,
// upper case). The zero value is not a valid IBAN.
type IBAN struct {
	value string
}

// ParseIBAN normalizes and validates s. Separating spaces are allowed and
// removed; the result is validated against the country length registry and
// the ISO 7064 mod-97 checksum.
func ParseIBAN(s string) (IBAN, error) {
	compact := strings.ToUpper(strings.Join(strings.Fields(s), ""))
	if len(compact) < 4 {
		return IBAN{}, fmt.Errorf("%w: too short", ErrInvalidIBAN)
	}
	for _, r := range compact {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return IBAN{}, fmt.Errorf("%w: invalid character %q", ErrInvalidIBAN, r)
		}
	}
	country := compact[:2]
	if !isAlpha(country) {
		return IBAN{}, fmt.Errorf("%w: invalid country code %q", ErrInvalidIBAN, country)
	}
	if !isDigits(compact[2:4]) {
		return IBAN{}, fmt.Errorf("%w: invalid check digits %q", ErrInvalidIBAN, compact[2:4])
	}
	length, ok := ibanLengths[country]
	if !ok {
		return IBAN{}, fmt.Errorf("%w: unknown country %q", ErrInvalidIBAN, country)
	}
	if len(compact) != length {
		return IBAN{}, fmt.Errorf("%w: %s iban must be %d characters, got %d",
			ErrInvalidIBAN, country, length, len(compact))
	}
	if mod97(compact[4:]+compact[:4]) != 1 {
		return IBAN{}, fmt.Errorf("%w: checksum failed", ErrInvalidIBAN)
	}
	return IBAN{value: compact}, nil
}

// String returns the compact form.
func (i IBAN) String() string { return i.value }

// IsZero reports whether i holds no value.
func (i IBAN) IsZero() bool { return i.value == "" }

// CountryCode returns the two-letter country prefix.
func (i IBAN) CountryCode() string {
	if i.IsZero() {
		return ""
	}
	return i.value[:2]
}

// BBAN returns the country-specific part after the check digits.
func (i IBAN) BBAN() string {
	if i.IsZero() {
		return ""
	}
	return i.value[4:]
}

// BankCode extracts the national bank code from the BBAN. Only countries
// with a known BBAN layout are supported.
func (i IBAN) BankCode() (string, bool) {
	bban := i.BBAN()
	n, ok := bankCodeLengths[i.CountryCode()]
	if !ok || len(bban) < n {
		return "", false
	}
	return bban[:n], true
}

// BIC looks up the institution's BIC for the IBAN's national bank code.
// The registry is partial; ok is false when the country or code is not
// covered.
func (i IBAN) BIC() (BIC, bool) {
	code, ok := i.BankCode()
	if !ok {
		return BIC{}, false
	}
	banks, ok := bicRegistry[i.CountryCode()]
	if !ok {
		return BIC{}, false
	}
	bic, ok := banks[code]
	if !ok {
		return BIC{}, false
	}
	return BIC{value: bic}, true
}

// mod97 computes the ISO 7064 remainder of the rearranged IBAN, with
// letters substituted by their position values (A=10 .. Z=35). Computed
// incrementally so arbitrary lengths need no big integers.
func mod97(s string) int {
	rem := 0
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			v := int(r-'A') + 10
			rem = (rem*100 + v) % 97
		} else {
			rem = (rem*10 + int(r-'0')) % 97
		}
	}
	return rem
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
