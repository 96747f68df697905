package postgres

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rechnung/invoicing-core/internal/core/banking"
	"github.com/rechnung/invoicing-core/internal/core/domain"
)

func toInvoiceModel(inv *domain.Invoice) *InvoiceModel {
	return &InvoiceModel{
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
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}

func toDomainInvoice(m *InvoiceModel, items []LineItemModel) (*domain.Invoice, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse invoice id: %w", err)
	}
	vendorID, err := uuid.Parse(m.VendorID)
	if err != nil {
		return nil, fmt.Errorf("parse vendor id: %w", err)
	}
	customerID, err := uuid.Parse(m.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("parse customer id: %w", err)
	}

	inv := &domain.Invoice{
		ID:           id,
		VendorID:     vendorID,
		CustomerID:   customerID,
		Number:       m.Number,
		Currency:     domain.Currency(m.Currency),
		Date:         m.Date,
		DueDate:      m.DueDate,
		DeliveryDate: m.DeliveryDate,
		Paid:         m.Paid,
		Final:        m.Final,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	for i := range items {
		item, err := toDomainLineItem(&items[i])
		if err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, *item)
	}
	return inv, nil
}

func toLineItemModel(it *domain.LineItem) *LineItemModel {
	return &LineItemModel{
		ID:          it.ID.String(),
		InvoiceID:   it.InvoiceID.String(),
		Name:        it.Name,
		Description: it.Description,
		Quantity:    it.Quantity.String(),
		Unit:        it.Unit,
		UnitPrice:   it.UnitPrice.String(),
		TaxRate:     it.TaxRate.String(),
		Position:    it.Position,
	}
}

func toDomainLineItem(m *LineItemModel) (*domain.LineItem, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse line item id: %w", err)
	}
	invoiceID, err := uuid.Parse(m.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("parse line item invoice id: %w", err)
	}
	quantity, err := decimal.NewFromString(m.Quantity)
	if err != nil {
		return nil, fmt.Errorf("parse quantity %q: %w", m.Quantity, err)
	}
	unitPrice, err := decimal.NewFromString(m.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("parse unit price %q: %w", m.UnitPrice, err)
	}
	taxRate, err := decimal.NewFromString(m.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("parse tax rate %q: %w", m.TaxRate, err)
	}
	return &domain.LineItem{
		ID:          id,
		InvoiceID:   invoiceID,
		Name:        m.Name,
		Description: m.Description,
		Quantity:    quantity,
		Unit:        m.Unit,
		UnitPrice:   unitPrice,
		TaxRate:     taxRate,
		Position:    m.Position,
	}, nil
}

func toDomainVendor(m *VendorModel) (*domain.Vendor, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse vendor id: %w", err)
	}
	return &domain.Vendor{
		ID:          id,
		Name:        m.Name,
		CompanyName: m.CompanyName,
		Code:        m.Code,
		TaxID:       m.TaxID,
		Address: domain.Address{
			Line1:    m.AddressLine1,
			Line2:    m.AddressLine2,
			Line3:    m.AddressLine3,
			City:     m.City,
			Postcode: m.Postcode,
			State:    m.State,
			Country:  m.Country,
		},
		InvoiceCounter: m.InvoiceCounter,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

func toDomainCustomer(m *CustomerModel) (*domain.Customer, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse customer id: %w", err)
	}
	vendorID, err := uuid.Parse(m.VendorID)
	if err != nil {
		return nil, fmt.Errorf("parse customer vendor id: %w", err)
	}
	return &domain.Customer{
		ID:        id,
		VendorID:  vendorID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Code:      m.Code,
		Address: domain.Address{
			Line1:    m.AddressLine1,
			Line2:    m.AddressLine2,
			Line3:    m.AddressLine3,
			City:     m.City,
			Postcode: m.Postcode,
			State:    m.State,
			Country:  m.Country,
		},
		InvoiceCounter: m.InvoiceCounter,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

func toDomainBankAccount(m *BankAccountModel) (*domain.BankAccount, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse bank account id: %w", err)
	}
	vendorID, err := uuid.Parse(m.VendorID)
	if err != nil {
		return nil, fmt.Errorf("parse bank account vendor id: %w", err)
	}
	iban, err := banking.ParseIBAN(m.IBAN)
	if err != nil {
		return nil, fmt.Errorf("stored iban %q: %w", m.IBAN, err)
	}
	acct := &domain.BankAccount{
		ID:       id,
		VendorID: vendorID,
		Owner:    m.Owner,
		IBAN:     iban,
	}
	if m.BIC != "" {
		bic, err := banking.ParseBIC(m.BIC)
		if err != nil {
			return nil, fmt.Errorf("stored bic %q: %w", m.BIC, err)
		}
		acct.BIC = bic
	}
	return acct, nil
}
