// Package service orchestrates the invoicing core: the persistence guard
// for finalized invoices, number issuance, and payment code assembly.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rechnung/invoicing-core/internal/core/domain"
	"github.com/rechnung/invoicing-core/internal/core/epc"
	"github.com/rechnung/invoicing-core/internal/core/numbering"
	"github.com/rechnung/invoicing-core/internal/core/ports"
)

type InvoiceService struct {
	invoices ports.InvoiceRepository
	parties  ports.PartyRepository
	counters numbering.CounterStore
	format   numbering.Format
	epcOpts  epc.Options
	logger   *slog.Logger
}

func NewInvoiceService(
	invoices ports.InvoiceRepository,
	parties ports.PartyRepository,
	counters numbering.CounterStore,
	format numbering.Format,
	epcOpts epc.Options,
	logger *slog.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		parties:  parties,
		counters: counters,
		format:   format,
		epcOpts:  epcOpts,
		logger:   logger,
	}
}

// Create validates and persists a new invoice. Creating an invoice that is
// already final is allowed; the latch only guards stored final versions.
func (s *InvoiceService) Create(ctx context.Context, inv *domain.Invoice) error {
	if inv.Currency == "" {
		inv.Currency = domain.DefaultCurrency
	}
	if err := inv.Validate(); err != nil {
		return err
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	return s.invoices.Create(ctx, inv)
}

// Save persists changes to an existing invoice. If the stored version is
// final the update fails with FinalError before anything is written; the
// guard covers every field, not just the monetary ones.
func (s *InvoiceService) Save(ctx context.Context, inv *domain.Invoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	return s.invoices.WithTx(ctx, func(repo ports.InvoiceRepository) error {
		stored, err := repo.FindByIDForUpdate(ctx, inv.ID)
		if err != nil {
			return err
		}
		if stored.Final {
			return &domain.FinalError{InvoiceID: inv.ID}
		}
		inv.UpdatedAt = time.Now().UTC()
		return repo.Update(ctx, inv)
	})
}

// Get loads an invoice with its line items.
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return s.invoices.FindByID(ctx, id)
}

// ListByVendor returns a vendor's invoices, newest first.
func (s *InvoiceService) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*domain.Invoice, error) {
	return s.invoices.FindByVendorID(ctx, vendorID, limit, offset)
}

// Finalize transitions the invoice to its terminal final state. The
// operation succeeds even when the invoice is not compliant, but then
// returns an IncompliantWarning the caller must surface.
func (s *InvoiceService) Finalize(ctx context.Context, id uuid.UUID) (*domain.Invoice, []domain.Warning, error) {
	var finalized *domain.Invoice
	var warnings []domain.Warning
	err := s.invoices.WithTx(ctx, func(repo ports.InvoiceRepository) error {
		stored, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if stored.Final {
			return &domain.FinalError{InvoiceID: id}
		}
		vendor, err := s.parties.FindVendor(ctx, stored.VendorID)
		if err != nil {
			return err
		}
		for _, issue := range stored.ComplianceIssues(vendor) {
			warnings = append(warnings, domain.NewIncompliantWarning(issue))
		}
		stored.Final = true
		stored.UpdatedAt = time.Now().UTC()
		if err := repo.Update(ctx, stored); err != nil {
			return err
		}
		finalized = stored
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(warnings) > 0 {
		s.logger.Warn("finalized incompliant invoice", "invoice_id", id, "issues", len(warnings))
	}
	return finalized, warnings, nil
}

// MarkPaid records payment on an invoice. It goes through the same stored
// final guard: a finalized invoice cannot be marked paid.
func (s *InvoiceService) MarkPaid(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var updated *domain.Invoice
	err := s.invoices.WithTx(ctx, func(repo ports.InvoiceRepository) error {
		stored, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if stored.Final {
			return &domain.FinalError{InvoiceID: id}
		}
		stored.Paid = true
		stored.UpdatedAt = time.Now().UTC()
		if err := repo.Update(ctx, stored); err != nil {
			return err
		}
		updated = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// PreviewNumber renders the invoice number the next issuance would
// produce. No counter is advanced.
func (s *InvoiceService) PreviewNumber(ctx context.Context, id uuid.UUID) (string, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	doc, err := s.documentRef(ctx, inv)
	if err != nil {
		return "", err
	}
	return numbering.NewGenerator(s.format, s.counters).Preview(ctx, doc)
}

// IssueNumber generates and persists the invoice's number. The invoice is
// loaded and validated before any counter is touched, so a failed lookup
// never advances a counter.
func (s *InvoiceService) IssueNumber(ctx context.Context, id uuid.UUID) (string, error) {
	var number string
	err := s.invoices.WithTx(ctx, func(repo ports.InvoiceRepository) error {
		stored, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if stored.Final {
			return &domain.FinalError{InvoiceID: id}
		}
		doc, err := s.documentRef(ctx, stored)
		if err != nil {
			return err
		}
		number, err = numbering.NewGenerator(s.format, s.counters).Next(ctx, doc)
		if err != nil {
			return err
		}
		stored.Number = number
		stored.UpdatedAt = time.Now().UTC()
		return repo.Update(ctx, stored)
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("issued invoice number", "invoice_id", id, "number", number)
	return number, nil
}

// PaymentCode assembles the vendor's bank data and the invoice total into
// an EPC QR payload.
func (s *InvoiceService) PaymentCode(ctx context.Context, id uuid.UUID) (string, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	acct, err := s.parties.FindBankAccount(ctx, inv.VendorID)
	if err != nil {
		return "", err
	}

	amount := inv.TotalRounded()
	req := epc.Request{
		BeneficiaryName: acct.Owner,
		IBAN:            acct.IBAN.String(),
		BIC:             acct.BIC.String(),
		Amount:          &amount,
		Reference:       inv.Number,
	}
	if amount.IsZero() {
		req.Amount = nil
	}
	return epc.Encode(req, s.epcOpts)
}

// SaveBankAccount normalizes and persists a vendor bank account, applying
// the rule that a BIC derivable from the IBAN overwrites the supplied one.
func (s *InvoiceService) SaveBankAccount(ctx context.Context, acct *domain.BankAccount) error {
	if err := acct.Normalize(); err != nil {
		return err
	}
	if acct.ID == uuid.Nil {
		acct.ID = uuid.New()
	}
	return s.parties.SaveBankAccount(ctx, acct)
}

func (s *InvoiceService) documentRef(ctx context.Context, inv *domain.Invoice) (numbering.Document, error) {
	vendor, err := s.parties.FindVendor(ctx, inv.VendorID)
	if err != nil {
		return numbering.Document{}, err
	}
	customer, err := s.parties.FindCustomer(ctx, inv.CustomerID)
	if err != nil {
		return numbering.Document{}, err
	}
	return numbering.Document{
		Date:         inv.Date,
		VendorID:     vendor.ID,
		CustomerID:   customer.ID,
		VendorCode:   vendor.Code,
		CustomerCode: customer.Code,
	}, nil
}
