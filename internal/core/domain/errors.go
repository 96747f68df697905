package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// DomainError represents a business rule or validation error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Domain validation errors
const (
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidUnitPrice   = "INVALID_UNIT_PRICE"
	ErrCodeInvalidTaxRate     = "INVALID_TAX_RATE"
	ErrCodeMissingName        = "MISSING_NAME"
	ErrCodeMissingDescription = "MISSING_DESCRIPTION"
	ErrCodeInvalidCurrency    = "INVALID_CURRENCY"
	ErrCodeInvalidDueDate     = "INVALID_DUE_DATE"
	ErrCodeMissingOwner       = "MISSING_OWNER"
	ErrCodeInvalidBankAccount = "INVALID_BANK_ACCOUNT"
	ErrCodeInvoiceNotFound    = "INVOICE_NOT_FOUND"
	ErrCodeVendorNotFound     = "VENDOR_NOT_FOUND"
	ErrCodeCustomerNotFound   = "CUSTOMER_NOT_FOUND"
)

func NewValidationError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func NewInvoiceNotFoundError(id uuid.UUID) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvoiceNotFound,
		Message: fmt.Sprintf("invoice %s not found", id),
	}
}

// ErrorCode extracts the code from a DomainError chain, or returns ""
// for unrelated errors.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// FinalError is raised when a persistence attempt targets an invoice that
// was already stored as final. No write may happen once it is detected.
type FinalError struct {
	InvoiceID uuid.UUID
}

func (e *FinalError) Error() string {
	return fmt.Sprintf("invoice %s is final and can no longer be changed", e.InvoiceID)
}

// Warning is a soft signal surfaced to the caller without failing the
// operation.
type Warning struct {
	Code    string
	Message string
}

const WarnCodeIncompliant = "INCOMPLIANT"

// NewIncompliantWarning signals that an invoice fails the legal compliance
// predicate. Finalization still succeeds.
func NewIncompliantWarning(reason string) Warning {
	return Warning{
		Code:    WarnCodeIncompliant,
		Message: fmt.Sprintf("invoice is not compliant: %s", reason),
	}
}
