package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rechnung/invoicing-core/internal/core/domain"
	"github.com/rechnung/invoicing-core/internal/infrastructure/persistence"
)

// PartyRepository persists vendors, customers and vendor bank accounts.
type PartyRepository struct {
	q persistence.Executor
}

func NewPartyRepository(db *persistence.DB) *PartyRepository {
	return &PartyRepository{q: db.Pool}
}

func (r *PartyRepository) FindVendor(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	row := r.q.QueryRow(ctx, `
		SELECT id, name, company_name, code, tax_id,
		       address_line1, address_line2, address_line3,
		       city, postcode, state, country,
		       invoice_counter, created_at, updated_at
		FROM vendors WHERE id = $1
	`, id.String())

	var m VendorModel
	err := row.Scan(
		&m.ID, &m.Name, &m.CompanyName, &m.Code, &m.TaxID,
		&m.AddressLine1, &m.AddressLine2, &m.AddressLine3,
		&m.City, &m.Postcode, &m.State, &m.Country,
		&m.InvoiceCounter, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeVendorNotFound,
			Message: fmt.Sprintf("vendor %s not found", id),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("find vendor: %w", err)
	}
	return toDomainVendor(&m)
}

func (r *PartyRepository) FindCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	row := r.q.QueryRow(ctx, `
		SELECT id, vendor_id, first_name, last_name, email, code,
		       address_line1, address_line2, address_line3,
		       city, postcode, state, country,
		       invoice_counter, created_at, updated_at
		FROM customers WHERE id = $1
	`, id.String())

	var m CustomerModel
	err := row.Scan(
		&m.ID, &m.VendorID, &m.FirstName, &m.LastName, &m.Email, &m.Code,
		&m.AddressLine1, &m.AddressLine2, &m.AddressLine3,
		&m.City, &m.Postcode, &m.State, &m.Country,
		&m.InvoiceCounter, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeCustomerNotFound,
			Message: fmt.Sprintf("customer %s not found", id),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return toDomainCustomer(&m)
}

// FindBankAccount returns the vendor's payment account. A vendor keeps at
// most one account on file.
func (r *PartyRepository) FindBankAccount(ctx context.Context, vendorID uuid.UUID) (*domain.BankAccount, error) {
	row := r.q.QueryRow(ctx, `
		SELECT id, vendor_id, owner, iban, bic
		FROM bank_accounts WHERE vendor_id = $1
	`, vendorID.String())

	var m BankAccountModel
	err := row.Scan(&m.ID, &m.VendorID, &m.Owner, &m.IBAN, &m.BIC)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeInvalidBankAccount,
			Message: fmt.Sprintf("vendor %s has no bank account on file", vendorID),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("find bank account: %w", err)
	}
	return toDomainBankAccount(&m)
}

func (r *PartyRepository) SaveBankAccount(ctx context.Context, acct *domain.BankAccount) error {
	bic := ""
	if !acct.BIC.IsZero() {
		bic = acct.BIC.String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO bank_accounts (id, vendor_id, owner, iban, bic)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (vendor_id)
		DO UPDATE SET owner = EXCLUDED.owner, iban = EXCLUDED.iban, bic = EXCLUDED.bic
	`, acct.ID.String(), acct.VendorID.String(), acct.Owner, acct.IBAN.String(), bic)
	if err != nil {
		return fmt.Errorf("save bank account: %w", err)
	}
	return nil
}
