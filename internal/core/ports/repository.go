package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/rechnung/invoicing-core/internal/core/domain"
)

// InvoiceRepository defines the persistence interface for invoices and
// their line items.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	Update(ctx context.Context, inv *domain.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	// FindByIDForUpdate retrieves an invoice with a row-level lock, so the
	// final-latch check and the subsequent write happen on one consistent
	// row version. Only meaningful inside WithTx.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	FindByVendorID(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*domain.Invoice, error)

	// WithTx executes fn within a database transaction.
	WithTx(ctx context.Context, fn func(InvoiceRepository) error) error
}

// PartyRepository defines the persistence interface for vendors,
// customers and bank accounts.
type PartyRepository interface {
	FindVendor(ctx context.Context, id uuid.UUID) (*domain.Vendor, error)
	FindCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	FindBankAccount(ctx context.Context, vendorID uuid.UUID) (*domain.BankAccount, error)
	SaveBankAccount(ctx context.Context, acct *domain.BankAccount) error
}
