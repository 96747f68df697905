package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rechnung/invoicing-core/internal/core/banking"
	"github.com/rechnung/invoicing-core/internal/core/domain"
	"github.com/rechnung/invoicing-core/internal/core/epc"
	"github.com/rechnung/invoicing-core/internal/core/numbering"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	invoices *MockInvoiceRepository
	parties  *MockPartyRepository
	counters *MockCounterStore
	service  *InvoiceService

	vendor   *domain.Vendor
	customer *domain.Customer
}

func newFixture(t *testing.T, format string) *fixture {
	t.Helper()
	f := &fixture{
		invoices: NewMockInvoiceRepository(),
		parties:  NewMockPartyRepository(),
		counters: NewMockCounterStore(),
	}

	f.vendor = &domain.Vendor{
		ID:    uuid.New(),
		Name:  "Erika Musterfrau",
		Code:  "ACME",
		TaxID: "DE123456789",
	}
	f.customer = &domain.Customer{
		ID:        uuid.New(),
		VendorID:  f.vendor.ID,
		FirstName: "John",
		LastName:  "Doe",
		Code:      "C042",
	}
	f.parties.SeedVendor(f.vendor)
	f.parties.SeedCustomer(f.customer)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = NewInvoiceService(
		f.invoices,
		f.parties,
		f.counters,
		numbering.Compile(format),
		epc.Options{},
		logger,
	)
	return f
}

func (f *fixture) draftInvoice() *domain.Invoice {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	delivery := date.AddDate(0, 0, -2)
	return &domain.Invoice{
		VendorID:     f.vendor.ID,
		CustomerID:   f.customer.ID,
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

func TestCreateAssignsDefaults(t *testing.T) {
	f := newFixture(t, "INV-<counter>")
	ctx := context.Background()

	inv := f.draftInvoice()
	inv.Currency = ""
	require.NoError(t, f.service.Create(ctx, inv))

	assert.NotEqual(t, uuid.Nil, inv.ID)
	assert.Equal(t, domain.EUR, inv.Currency)
	assert.False(t, inv.CreatedAt.IsZero())
	assert.NotNil(t, f.invoices.Stored(inv.ID))
}

func TestCreateRejectsInvalidInvoice(t *testing.T) {
	f := newFixture(t, "INV-<counter>")

	inv := f.draftInvoice()
	inv.Items[0].TaxRate = dec("1.5")
	err := f.service.Create(context.Background(), inv)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInvalidTaxRate, domain.ErrorCode(err))
	assert.Nil(t, f.invoices.Stored(inv.ID))
}

// Creating an invoice already marked final is allowed; the latch guards
// only stored final versions.
func TestCreateWithFinalFlag(t *testing.T) {
	f := newFixture(t, "INV-<counter>")

	inv := f.draftInvoice()
	inv.Final = true
	require.NoError(t, f.service.Create(context.Background(), inv))
	assert.True(t, f.invoices.Stored(inv.ID).Final)
}

func TestSaveUpdatesDraft(t *testing.T) {
	f := newFixture(t, "INV-<counter>")
	ctx := context.Background()

	inv := f.draftInvoice()
	require.NoError(t, f.service.Create(ctx, inv))

	inv.Items[0].UnitPrice = dec("150.00")
	require.NoError(t, f.service.Save(ctx, inv))

	stored := f.invoices.Stored(inv.ID)
	assert.True(t, stored.Items[0].UnitPrice.Equal(dec("150.00")))
}

func TestSaveRejectsStoredFinalInvoice(t *testing.T) {
	f := newFixture(t, "INV-<counter>")
	ctx := context.Background()

	inv := f.draftInvoice()
	inv.ID = uuid.New()
	inv.Final = true
	f.invoices.Seed(inv)

	// Any field change counts, including clearing the final flag itself.
	changed := *inv
	changed.Final = false
	changed.Number = "RE-1"

	var finalErr *domain.FinalError
	err := f.service.Save(ctx, &changed)
	require.Error(t, err)
	require.ErrorAs(t, err, &finalErr)
	assert.Equal(t, inv.ID, finalErr.InvoiceID)

	stored := f.invoices.Stored(inv.ID)
	assert.True(t, stored.Final)
	assert.Equal(t, "", stored.Number, "stored record must be unchanged")
}

func TestFinalizeCompliantInvoice(t *testing.T) {
	f := newFixture(t, "INV-<counter>")
	ctx := context.Background()

	inv := f.draftInvoice()
	require.NoError(t, f.service.Create(ctx, inv))

	finalized, warnings, err := f.service.Finalize(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, finalized.Final)
	assert.Empty(t, warnings)
	assert.True(t, f.invoices.Stored(inv.ID).Final)
}

func TestFinalizeIncompliantInvoiceWarns(t *testing.T) {
	f := newFixture(t, "INV-<counter>")
	ctx := context.Background()

	inv := f.draftInvoice()
	inv.DeliveryDate = nil
	require.NoError(t, f.service.Create(ctx, inv))

	finalized, warnings, err := f.service.Finalize(ctx, inv.ID)
	require.NoError(t, err, "finalization succeeds despite compliance issues")
	assert.True(t, finalized.Final)
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarnCodeIncompliant, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "delivery date")
}

func TestFinalizeTwiceFails(t *testing.T) {
	f := newFixture(t, "INV-<counter>")
	ctx := context.Background()

	inv := f.draftInvoice()
	require.NoError(t, f.service.Create(ctx, inv))

	_, _, err := f.service.Finalize(ctx, inv.ID)
	require.NoError(t, err)

	var finalErr *domain.FinalError
	_, _, err = f.service.Finalize(ctx, inv.ID)
	require.ErrorAs(t, err, &finalErr)
}

func TestMarkPaid(t *testing.T) {
	f := newFixture(t, "INV-<counter>")
	ctx := context.Background()

	inv := f.draftInvoice()
	require.NoError(t, f.service.Create(ctx, inv))

	updated, err := f.service.MarkPaid(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, updated.Paid)

	t.Run("not on a final invoice", func(t *testing.T) {
		other := f.draftInvoice()
		other.ID = uuid.New()
		other.Final = true
		f.invoices.Seed(other)

		var finalErr *domain.FinalError
		_, err := f.service.MarkPaid(ctx, other.ID)
		require.ErrorAs(t, err, &finalErr)
		assert.False(t, f.invoices.Stored(other.ID).Paid)
	})
}

func TestIssueNumber(t *testing.T) {
	f := newFixture(t, "INV-<year>-<counter:vendor:4>")
	ctx := context.Background()

	f.counters.SetCounter(numbering.ScopeVendor, f.vendor.ID, 7)

	inv := f.draftInvoice()
	require.NoError(t, f.service.Create(ctx, inv))

	number, err := f.service.IssueNumber(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-0008", number)
	assert.Equal(t, "INV-2024-0008", f.invoices.Stored(inv.ID).Number)

	number, err = f.service.IssueNumber(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-0009", number)
}

func TestIssueNumberMissingInvoiceLeavesCounterUntouched(t *testing.T) {
	f := newFixture(t, "INV-<counter:vendor>")
	ctx := context.Background()

	f.counters.SetCounter(numbering.ScopeVendor, f.vendor.ID, 7)

	_, err := f.service.IssueNumber(ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInvoiceNotFound, domain.ErrorCode(err))

	current, err := f.counters.Current(ctx, numbering.ScopeVendor, f.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), current)
}

func TestIssueNumberOnFinalInvoiceFails(t *testing.T) {
	f := newFixture(t, "INV-<counter:vendor>")
	ctx := context.Background()

	inv := f.draftInvoice()
	inv.ID = uuid.New()
	inv.Final = true
	f.invoices.Seed(inv)

	var finalErr *domain.FinalError
	_, err := f.service.IssueNumber(ctx, inv.ID)
	require.ErrorAs(t, err, &finalErr)

	current, err := f.counters.Current(ctx, numbering.ScopeVendor, f.vendor.ID)
	require.NoError(t, err)
	assert.Zero(t, current, "a rejected issuance must not advance the counter")
}

func TestPreviewNumberDoesNotAdvanceCounter(t *testing.T) {
	f := newFixture(t, "INV-<year>-<counter:vendor:4>")
	ctx := context.Background()

	f.counters.SetCounter(numbering.ScopeVendor, f.vendor.ID, 7)

	inv := f.draftInvoice()
	require.NoError(t, f.service.Create(ctx, inv))

	preview, err := f.service.PreviewNumber(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-0008", preview)

	current, err := f.counters.Current(ctx, numbering.ScopeVendor, f.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), current)

	number, err := f.service.IssueNumber(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, preview, number)
}

func TestPaymentCode(t *testing.T) {
	f := newFixture(t, "INV-<counter>")
	ctx := context.Background()

	iban, err := banking.ParseIBAN("DE89370400440532013000")
	require.NoError(t, err)
	require.NoError(t, f.service.SaveBankAccount(ctx, &domain.BankAccount{
		VendorID: f.vendor.ID,
		Owner:    "Erika Musterfrau",
		IBAN:     iban,
	}))

	inv := f.draftInvoice()
	inv.Number = "RE-2024-0042"
	require.NoError(t, f.service.Create(ctx, inv))

	payload, err := f.service.PaymentCode(ctx, inv.ID)
	require.NoError(t, err)
	assert.Contains(t, payload, "COBADEFFXXX\nErika Musterfrau\nDE89370400440532013000\nEUR119.00\n")
	assert.Contains(t, payload, "RE-2024-0042")
}

func TestPaymentCodeWithZeroTotalOmitsAmount(t *testing.T) {
	f := newFixture(t, "INV-<counter>")
	ctx := context.Background()

	iban, err := banking.ParseIBAN("DE89370400440532013000")
	require.NoError(t, err)
	require.NoError(t, f.service.SaveBankAccount(ctx, &domain.BankAccount{
		VendorID: f.vendor.ID,
		Owner:    "Erika Musterfrau",
		IBAN:     iban,
	}))

	inv := f.draftInvoice()
	inv.Items = nil
	require.NoError(t, f.service.Create(ctx, inv))

	payload, err := f.service.PaymentCode(ctx, inv.ID)
	require.NoError(t, err)
	assert.Contains(t, payload, "DE89370400440532013000\n\n", "amount line must be empty")
}

func TestPaymentCodeWithoutBankAccount(t *testing.T) {
	f := newFixture(t, "INV-<counter>")
	ctx := context.Background()

	inv := f.draftInvoice()
	require.NoError(t, f.service.Create(ctx, inv))

	_, err := f.service.PaymentCode(ctx, inv.ID)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInvalidBankAccount, domain.ErrorCode(err))
}

func TestSaveBankAccountNormalizes(t *testing.T) {
	f := newFixture(t, "INV-<counter>")
	ctx := context.Background()

	iban, err := banking.ParseIBAN("DE89370400440532013000")
	require.NoError(t, err)
	wrong, err := banking.ParseBIC("MARKDEF1100")
	require.NoError(t, err)

	acct := &domain.BankAccount{
		VendorID: f.vendor.ID,
		Owner:    "  Erika Musterfrau ",
		IBAN:     iban,
		BIC:      wrong,
	}
	require.NoError(t, f.service.SaveBankAccount(ctx, acct))

	assert.NotEqual(t, uuid.Nil, acct.ID)
	assert.Equal(t, "Erika Musterfrau", acct.Owner)
	assert.Equal(t, "COBADEFFXXX", acct.BIC.String())

	stored, err := f.parties.FindBankAccount(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, stored.ID)
}

func TestSavePropagatesRepositoryErrors(t *testing.T) {
	f := newFixture(t, "INV-<counter>")
	ctx := context.Background()

	inv := f.draftInvoice()
	require.NoError(t, f.service.Create(ctx, inv))

	boom := errors.New("connection reset")
	f.invoices.UpdateFn = func(ctx context.Context, inv *domain.Invoice) error {
		return boom
	}
	err := f.service.Save(ctx, inv)
	assert.ErrorIs(t, err, boom)
}
