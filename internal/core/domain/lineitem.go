package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	maxQuantity  = decimal.NewFromInt(1_000_000)
	maxUnitPrice = decimal.NewFromInt(1_000_000)
	minUnitPrice = decimal.NewFromInt(-1_000_000)
	one          = decimal.NewFromInt(1)
)

// LineItem is a single position on an invoice. Items are ordered by
// Position for display; totals do not depend on the order.
type LineItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Name        string
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Position    int
}

// Validate checks field ranges and decimal scales. Quantity carries at most
// four fractional digits in [0, 1000000], the unit price two in
// [-1000000, 1000000], the tax rate four in [0, 1].
func (it *LineItem) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return NewValidationError(ErrCodeMissingName, "line item name is required")
	}
	if strings.TrimSpace(it.Description) == "" {
		return NewValidationError(ErrCodeMissingDescription, "line item description is required")
	}
	if it.Quantity.IsNegative() || it.Quantity.GreaterThan(maxQuantity) {
		return NewValidationError(ErrCodeInvalidQuantity,
			fmt.Sprintf("quantity %s out of range [0, 1000000]", it.Quantity))
	}
	if exceedsScale(it.Quantity, 4) {
		return NewValidationError(ErrCodeInvalidQuantity,
			fmt.Sprintf("quantity %s has more than 4 decimal places", it.Quantity))
	}
	if it.UnitPrice.LessThan(minUnitPrice) || it.UnitPrice.GreaterThan(maxUnitPrice) {
		return NewValidationError(ErrCodeInvalidUnitPrice,
			fmt.Sprintf("unit price %s out of range [-1000000, 1000000]", it.UnitPrice))
	}
	if exceedsScale(it.UnitPrice, 2) {
		return NewValidationError(ErrCodeInvalidUnitPrice,
			fmt.Sprintf("unit price %s has more than 2 decimal places", it.UnitPrice))
	}
	if it.TaxRate.IsNegative() || it.TaxRate.GreaterThan(one) {
		return NewValidationError(ErrCodeInvalidTaxRate,
			fmt.Sprintf("tax rate %s out of range [0, 1]", it.TaxRate))
	}
	if exceedsScale(it.TaxRate, 4) {
		return NewValidationError(ErrCodeInvalidTaxRate,
			fmt.Sprintf("tax rate %s has more than 4 decimal places", it.TaxRate))
	}
	return nil
}

// Net is the pre-tax amount, unit price times quantity, at full precision.
func (it *LineItem) Net() decimal.Decimal {
	return it.UnitPrice.Mul(it.Quantity)
}

// Tax is the tax amount on the net, at full precision.
func (it *LineItem) Tax() decimal.Decimal {
	return it.Net().Mul(it.TaxRate)
}

// Total is net plus tax, at full precision.
func (it *LineItem) Total() decimal.Decimal {
	return it.Net().Add(it.Tax())
}

// TaxRateString is the display form of the tax rate, e.g. "19%".
func (it *LineItem) TaxRateString() string {
	return FormatTaxRate(it.TaxRate)
}

// QuantityString renders the quantity with its unit label, if any.
func (it *LineItem) QuantityString() string {
	return strings.TrimSpace(it.Quantity.String() + " " + it.Unit)
}

// ListExport returns the item as a display row for table and PDF
// rendering: name, description, quantity, unit price, tax rate, net
// and total.
func (it *LineItem) ListExport(cur Currency) []string {
	return []string{
		it.Name,
		it.Description,
		it.QuantityString(),
		AmountString(it.UnitPrice, cur),
		it.TaxRateString(),
		AmountString(it.Net(), cur),
		AmountString(it.Total(), cur),
	}
}

// exceedsScale reports whether d carries more than places fractional
// digits. Comparing against the truncated value keeps unnormalized inputs
// such as 1.500 at scale 1.
func exceedsScale(d decimal.Decimal, places int32) bool {
	return !d.Equal(d.Truncate(places))
}
