package domain

import (
	"time"

	"github.com/google/uuid"
)

// Address is a free-form structured postal address.
type Address struct {
	Line1    string
	Line2    string
	Line3    string
	City     string
	Postcode string
	State    string
	Country  string
}

// Vendor is the invoicing party. InvoiceCounter is a snapshot of the
// stored sequential counter; it is advanced only through the counter
// store's atomic increment, never by mutating this field.
type Vendor struct {
	ID          uuid.UUID
	Name        string
	CompanyName string
	Code        string
	TaxID       string
	Address     Address

	InvoiceCounter int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Customer is the invoiced party. The counter follows the same contract
// as the vendor's.
type Customer struct {
	ID        uuid.UUID
	VendorID  uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Code      string
	Address   Address

	InvoiceCounter int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
