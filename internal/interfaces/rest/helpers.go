package rest

import (
	"time"

	"github.com/rechnung/invoicing-core/internal/core/domain"
)

// InvoicePayload is the wire representation of an invoice. Monetary fields
// are formatted strings so clients never re-round.
type InvoicePayload struct {
	ID           string            `json:"id"`
	VendorID     string            `json:"vendor_id"`
	CustomerID   string            `json:"customer_id"`
	Number       string            `json:"number,omitempty"`
	Currency     string            `json:"currency"`
	Date         time.Time         `json:"date"`
	DueDate      *time.Time        `json:"due_date,omitempty"`
	DeliveryDate *time.Time        `json:"delivery_date,omitempty"`
	Paid         bool              `json:"paid"`
	Final        bool              `json:"final"`
	Items        []LineItemPayload `json:"items"`
	NetTotal     string            `json:"net_total"`
	TaxAmount    string            `json:"tax_amount"`
	Total        string            `json:"total"`
	TaxPerRate   map[string]string `json:"tax_per_rate,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type LineItemPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit,omitempty"`
	UnitPrice   string `json:"unit_price"`
	TaxRate     string `json:"tax_rate"`
	Net         string `json:"net"`
	Total       string `json:"total"`
}

func ToInvoicePayload(inv *domain.Invoice) InvoicePayload {
	p := InvoicePayload{
		ID:           inv.ID.String(),
		VendorID:     inv.VendorID.String(),
		CustomerID:   inv.CustomerID.String(),
		Number:       inv.Number,
		Currency:     string(inv.Currency),
		Date:         inv.Date,
		DueDate:      inv.DueDate,
		DeliveryDate: inv.DeliveryDate,
		Paid:         inv.Paid,
		Final:        inv.Final,
		NetTotal:     inv.NetTotalString(),
		TaxAmount:    inv.TaxAmountString(),
		Total:        inv.TotalString(),
		TaxPerRate:   inv.TaxAmountStrings(),
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
	for i := range inv.Items {
		it := &inv.Items[i]
		p.Items = append(p.Items, LineItemPayload{
			ID:          it.ID.String(),
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.QuantityString(),
			Unit:        it.Unit,
			UnitPrice:   domain.AmountString(it.UnitPrice, inv.Currency),
			TaxRate:     it.TaxRateString(),
			Net:         domain.AmountString(it.Net(), inv.Currency),
			Total:       domain.AmountString(it.Total(), inv.Currency),
		})
	}
	return p
}

// WarningPayload mirrors domain warnings on responses that carry them.
type WarningPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func ToWarningPayloads(warnings []domain.Warning) []WarningPayload {
	out := make([]WarningPayload, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, WarningPayload{Code: w.Code, Message: w.Message})
	}
	return out
}
