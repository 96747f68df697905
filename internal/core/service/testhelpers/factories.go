package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rechnung/invoicing-core/internal/core/domain"
)

// SeedVendor inserts a vendor row directly and returns its id. The counter
// starts at the given value so numbering tests control their baseline.
func (td *TestDatabase) SeedVendor(t *testing.T, code, taxID string, counter int64) uuid.UUID {
	id := uuid.New()
	_, err := td.DB.Pool.Exec(context.Background(), `
		INSERT INTO vendors (id, name, company_name, code, tax_id, invoice_counter)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id.String(), "Erika Musterfrau", "Musterfirma GmbH", code, taxID, counter)
	require.NoError(t, err)
	return id
}

// SeedCustomer inserts a customer row belonging to the given vendor.
func (td *TestDatabase) SeedCustomer(t *testing.T, vendorID uuid.UUID, code string, counter int64) uuid.UUID {
	id := uuid.New()
	_, err := td.DB.Pool.Exec(context.Background(), `
		INSERT INTO customers (id, vendor_id, first_name, last_name, email, code, invoice_counter)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id.String(), vendorID.String(), "John", "Doe", "john@doe.com", code, counter)
	require.NoError(t, err)
	return id
}

// DefaultInvoice builds a valid draft invoice with a single standard-rate
// line item.
func DefaultInvoice(vendorID, customerID uuid.UUID) *domain.Invoice {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	delivery := date.AddDate(0, 0, -2)
	return &domain.Invoice{
		VendorID:     vendorID,
		CustomerID:   customerID,
		Currency:     domain.EUR,
		Date:         date,
		DeliveryDate: &delivery,
		Items: []domain.LineItem{
			{
				Name:        "Consulting",
				Description: "March retainer",
				Quantity:    dec("1"),
				Unit:        "piece",
				UnitPrice:   dec("100.00"),
				TaxRate:     dec("0.19"),
			},
		},
	}
}
