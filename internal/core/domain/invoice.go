package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice aggregates line items into net, tax and total figures and owns
// the draft/final lifecycle. Once a stored invoice is final it is fully
// immutable; the persistence guard lives in the service layer, the latch
// itself here.
type Invoice struct {
	ID           uuid.UUID
	VendorID     uuid.UUID
	CustomerID   uuid.UUID
	Number       string
	Currency     Currency
	Date         time.Time
	DueDate      *time.Time
	DeliveryDate *time.Time
	Paid         bool
	Final        bool
	Items        []LineItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the invoice header and every line item. A due date, if
// set, must not precede the invoice date.
func (inv *Invoice) Validate() error {
	if !inv.Currency.Valid() {
		return NewValidationError(ErrCodeInvalidCurrency,
			"currency must be one of EUR, USD, GBP, CHF")
	}
	if inv.DueDate != nil && inv.DueDate.Before(inv.Date) {
		return NewValidationError(ErrCodeInvalidDueDate,
			"due date must not be before the invoice date")
	}
	for i := range inv.Items {
		if err := inv.Items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// NetTotal is the exact sum of the items' net amounts.
func (inv *Invoice) NetTotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range inv.Items {
		sum = sum.Add(inv.Items[i].Net())
	}
	return sum
}

// TaxAmount is the exact sum of the items' tax amounts.
func (inv *Invoice) TaxAmount() decimal.Decimal {
	sum := decimal.Zero
	for i := range inv.Items {
		sum = sum.Add(inv.Items[i].Tax())
	}
	return sum
}

// Total is net total plus tax amount, at full precision.
func (inv *Invoice) Total() decimal.Decimal {
	return inv.NetTotal().Add(inv.TaxAmount())
}

// NetTotalRounded is the net total quantized to two decimals with
// banker's rounding.
func (inv *Invoice) NetTotalRounded() decimal.Decimal {
	return inv.NetTotal().RoundBank(2)
}

// TaxAmountRounded is the tax amount quantized to two decimals with
// banker's rounding.
func (inv *Invoice) TaxAmountRounded() decimal.Decimal {
	return inv.TaxAmount().RoundBank(2)
}

// TotalRounded is defined as the sum of the two rounded components, so
// that the rounded figures always add up on the printed document. It is
// not the rounded exact total; the two can differ by a cent.
func (inv *Invoice) TotalRounded() decimal.Decimal {
	return inv.NetTotalRounded().Add(inv.TaxAmountRounded())
}

// NetTotalString is the display form of the net total.
func (inv *Invoice) NetTotalString() string {
	return AmountString(inv.NetTotal(), inv.Currency)
}

// TaxAmountString is the display form of the total tax amount.
func (inv *Invoice) TaxAmountString() string {
	return AmountString(inv.TaxAmount(), inv.Currency)
}

// TotalString is the display form of the rounded total.
func (inv *Invoice) TotalString() string {
	return AmountString(inv.TotalRounded(), inv.Currency)
}

// TaxAmountPerRate sums the tax per rate bucket at full precision. Buckets
// are keyed by the formatted rate string, so two rates that format
// identically share a bucket. The zero-rate bucket is included here.
func (inv *Invoice) TaxAmountPerRate() map[string]decimal.Decimal {
	buckets := make(map[string]decimal.Decimal)
	for i := range inv.Items {
		key := inv.Items[i].TaxRateString()
		buckets[key] = buckets[key].Add(inv.Items[i].Tax())
	}
	return buckets
}

// TaxAmountStrings renders each tax bucket rounded to two decimals for
// display. The "0%" bucket is omitted.
func (inv *Invoice) TaxAmountStrings() map[string]string {
	out := make(map[string]string)
	for rate, amount := range inv.TaxAmountPerRate() {
		if rate == "0%" {
			continue
		}
		out[rate] = AmountString(amount, inv.Currency)
	}
	return out
}

// ComplianceIssues returns the reasons the invoice is not legally
// compliant, or nil. An invoice is compliant when it has at least one
// line item, a delivery date, and its vendor carries a tax identifier.
func (inv *Invoice) ComplianceIssues(vendor *Vendor) []string {
	var issues []string
	if len(inv.Items) == 0 {
		issues = append(issues, "invoice has no line items")
	}
	if inv.DeliveryDate == nil {
		issues = append(issues, "invoice has no delivery date")
	}
	if vendor == nil || strings.TrimSpace(vendor.TaxID) == "" {
		issues = append(issues, "vendor has no tax identifier")
	}
	return issues
}
