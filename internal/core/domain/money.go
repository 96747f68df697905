package domain

import (
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
	CHF Currency = "CHF"
)

// DefaultCurrency is used when an invoice does not specify one.
const DefaultCurrency = EUR

func (c Currency) Valid() bool {
	switch c {
	case EUR, USD, GBP, CHF:
		return true
	}
	return false
}

// AmountString formats a monetary amount for display: banker's-rounded to
// two decimals, fixed-point, with the currency code appended.
func AmountString(d decimal.Decimal, cur Currency) string {
	return d.RoundBank(2).StringFixed(2) + " " + string(cur)
}

var hundred = decimal.NewFromInt(100)

// FormatTaxRate renders a fractional tax rate as a percentage string.
// The rate is scaled to percent, banker's-rounded to two decimals, and
// trailing zeros are stripped: 0.19 -> "19%", 0.1925 -> "19.25%",
// 0.074 -> "7.4%", 0.07999 -> "8%".
func FormatTaxRate(rate decimal.Decimal) string {
	return rate.Mul(hundred).RoundBank(2).String() + "%"
}
