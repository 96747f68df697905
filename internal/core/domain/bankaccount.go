package domain

import (
	"strings"

	"github.com/google/uuid"

	"github.com/rechnung/invoicing-core/internal/core/banking"
)

// BankAccount holds a vendor's payout account. The IBAN is stored
// normalized; when it encodes a derivable BIC, that BIC is authoritative
// and replaces whatever the user supplied.
type BankAccount struct {
	ID       uuid.UUID
	VendorID uuid.UUID
	Owner    string
	IBAN     banking.IBAN
	BIC      banking.BIC
}

// Normalize validates the account and applies the BIC overwrite rule.
// It must be called before the account is persisted.
func (a *BankAccount) Normalize() error {
	a.Owner = strings.TrimSpace(a.Owner)
	if a.Owner == "" {
		return NewValidationError(ErrCodeMissingOwner, "bank account owner is required")
	}
	if a.IBAN.IsZero() {
		return &DomainError{
			Code:    ErrCodeInvalidBankAccount,
			Message: "bank account iban is required",
		}
	}
	if derived, ok := a.IBAN.BIC(); ok {
		a.BIC = derived
	}
	return nil
}
