package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/rechnung/invoicing-core/internal/core/domain"
	"github.com/rechnung/invoicing-core/internal/core/numbering"
	"github.com/rechnung/invoicing-core/internal/core/ports"
)

// MockInvoiceRepository is an in-memory ports.InvoiceRepository. Behaviors
// can be overridden per test through the ...Fn fields.
type MockInvoiceRepository struct {
	mu       sync.RWMutex
	invoices map[uuid.UUID]*domain.Invoice

	CreateFn            func(ctx context.Context, inv *domain.Invoice) error
	UpdateFn            func(ctx context.Context, inv *domain.Invoice) error
	FindByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	FindByIDForUpdateFn func(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	WithTxFn            func(ctx context.Context, fn func(ports.InvoiceRepository) error) error
}

func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{invoices: make(map[uuid.UUID]*domain.Invoice)}
}

// Seed stores an invoice directly, bypassing any guard.
func (m *MockInvoiceRepository) Seed(inv *domain.Invoice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *inv
	m.invoices[inv.ID] = &clone
}

// Stored returns the stored version of an invoice, or nil.
func (m *MockInvoiceRepository) Stored(id uuid.UUID) *domain.Invoice {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if inv, ok := m.invoices[id]; ok {
		clone := *inv
		return &clone
	}
	return nil
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, inv)
	}
	m.Seed(inv)
	return nil
}

func (m *MockInvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, inv)
	}
	m.Seed(inv)
	return nil
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	if inv := m.Stored(id); inv != nil {
		return inv, nil
	}
	return nil, domain.NewInvoiceNotFoundError(id)
}

func (m *MockInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	if m.FindByIDForUpdateFn != nil {
		return m.FindByIDForUpdateFn(ctx, id)
	}
	return m.FindByID(ctx, id)
}

func (m *MockInvoiceRepository) FindByVendorID(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*domain.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Invoice
	for _, inv := range m.invoices {
		if inv.VendorID == vendorID {
			clone := *inv
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *MockInvoiceRepository) WithTx(ctx context.Context, fn func(ports.InvoiceRepository) error) error {
	if m.WithTxFn != nil {
		return m.WithTxFn(ctx, fn)
	}
	return fn(m)
}

// MockPartyRepository is an in-memory ports.PartyRepository.
type MockPartyRepository struct {
	mu       sync.RWMutex
	vendors  map[uuid.UUID]*domain.Vendor
	accounts map[uuid.UUID]*domain.BankAccount

	customers map[uuid.UUID]*domain.Customer

	FindVendorFn      func(ctx context.Context, id uuid.UUID) (*domain.Vendor, error)
	FindCustomerFn    func(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	FindBankAccountFn func(ctx context.Context, vendorID uuid.UUID) (*domain.BankAccount, error)
	SaveBankAccountFn func(ctx context.Context, acct *domain.BankAccount) error
}

func NewMockPartyRepository() *MockPartyRepository {
	return &MockPartyRepository{
		vendors:   make(map[uuid.UUID]*domain.Vendor),
		customers: make(map[uuid.UUID]*domain.Customer),
		accounts:  make(map[uuid.UUID]*domain.BankAccount),
	}
}

func (m *MockPartyRepository) SeedVendor(v *domain.Vendor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vendors[v.ID] = v
}

func (m *MockPartyRepository) SeedCustomer(c *domain.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[c.ID] = c
}

func (m *MockPartyRepository) FindVendor(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	if m.FindVendorFn != nil {
		return m.FindVendorFn(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vendors[id]; ok {
		return v, nil
	}
	return nil, domain.NewValidationError(domain.ErrCodeVendorNotFound, "vendor not found")
}

func (m *MockPartyRepository) FindCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	if m.FindCustomerFn != nil {
		return m.FindCustomerFn(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.customers[id]; ok {
		return c, nil
	}
	return nil, domain.NewValidationError(domain.ErrCodeCustomerNotFound, "customer not found")
}

func (m *MockPartyRepository) FindBankAccount(ctx context.Context, vendorID uuid.UUID) (*domain.BankAccount, error) {
	if m.FindBankAccountFn != nil {
		return m.FindBankAccountFn(ctx, vendorID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[vendorID]; ok {
		return a, nil
	}
	return nil, domain.NewValidationError(domain.ErrCodeInvalidBankAccount, "bank account not found")
}

func (m *MockPartyRepository) SaveBankAccount(ctx context.Context, acct *domain.BankAccount) error {
	if m.SaveBankAccountFn != nil {
		return m.SaveBankAccountFn(ctx, acct)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[acct.VendorID] = acct
	return nil
}

// MockCounterStore is an in-memory numbering.CounterStore with atomic
// increments.
type MockCounterStore struct {
	mu       sync.Mutex
	counters map[counterKey]int64

	IncrementAndFetchFn func(ctx context.Context, scope numbering.Scope, ownerID uuid.UUID) (int64, error)
	CurrentFn           func(ctx context.Context, scope numbering.Scope, ownerID uuid.UUID) (int64, error)
}

type counterKey struct {
	scope numbering.Scope
	owner uuid.UUID
}

func NewMockCounterStore() *MockCounterStore {
	return &MockCounterStore{counters: make(map[counterKey]int64)}
}

// SetCounter seeds a stored counter value.
func (m *MockCounterStore) SetCounter(scope numbering.Scope, ownerID uuid.UUID, value int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[counterKey{scope, ownerID}] = value
}

func (m *MockCounterStore) IncrementAndFetch(ctx context.Context, scope numbering.Scope, ownerID uuid.UUID) (int64, error) {
	if m.IncrementAndFetchFn != nil {
		return m.IncrementAndFetchFn(ctx, scope, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := counterKey{scope, ownerID}
	m.counters[key]++
	return m.counters[key], nil
}

func (m *MockCounterStore) Current(ctx context.Context, scope numbering.Scope, ownerID uuid.UUID) (int64, error) {
	if m.CurrentFn != nil {
		return m.CurrentFn(ctx, scope, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[counterKey{scope, ownerID}], nil
}
