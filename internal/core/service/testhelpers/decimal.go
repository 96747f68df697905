package testhelpers

import "github.com/shopspring/decimal"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Dec parses a decimal literal, panicking on malformed input. Test-only.
func Dec(s string) decimal.Decimal {
	return dec(s)
}
