package postgres

import (
	"time"
)

// InvoiceModel mirrors the invoices table. Decimal columns travel as text
// on both sides of the driver and are converted in the mappers.
type InvoiceModel struct {
	ID           string
	VendorID     string
	CustomerID   string
	Number       string
	Currency     string
	Date         time.Time
	DueDate      *time.Time
	DeliveryDate *time.Time
	Paid         bool
	Final        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LineItemModel mirrors the invoice_items table.
type LineItemModel struct {
	ID          string
	InvoiceID   string
	Name        string
	Description string
	Quantity    string
	Unit        string
	UnitPrice   string
	TaxRate     string
	Position    int
}

// VendorModel mirrors the vendors table; the address is embedded.
type VendorModel struct {
	ID             string
	Name           string
	CompanyName    string
	Code           string
	TaxID          string
	AddressLine1   string
	AddressLine2   string
	AddressLine3   string
	City           string
	Postcode       string
	State          string
	Country        string
	InvoiceCounter int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CustomerModel mirrors the customers table.
type CustomerModel struct {
	ID             string
	VendorID       string
	FirstName      string
	LastName       string
	Email          string
	Code           string
	AddressLine1   string
	AddressLine2   string
	AddressLine3   string
	City           string
	Postcode       string
	State          string
	Country        string
	InvoiceCounter int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BankAccountModel mirrors the bank_accounts table.
type BankAccountModel struct {
	ID       string
	VendorID string
	Owner    string
	IBAN     string
	BIC      string
}
