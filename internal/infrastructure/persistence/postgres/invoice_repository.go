package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rechnung/invoicing-core/internal/core/domain"
	"github.com/rechnung/invoicing-core/internal/core/ports"
	"github.com/rechnung/invoicing-core/internal/infrastructure/persistence"
)

const invoiceColumns = `id, vendor_id, customer_id, number, currency, date,
	due_date, delivery_date, paid, final, created_at, updated_at`

const lineItemColumns = `id, invoice_id, name, description, quantity::text,
	unit, unit_price::text, tax_rate::text, position`

// InvoiceRepository persists invoices and their line items. Line items are
// replaced wholesale on update; their identity outside the owning invoice
// carries no meaning.
type InvoiceRepository struct {
	pool *pgxpool.Pool
	q    persistence.Executor
}

func NewInvoiceRepository(db *persistence.DB) *InvoiceRepository {
	return &InvoiceRepository{pool: db.Pool, q: db.Pool}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	m := toInvoiceModel(inv)
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		m.ID, m.VendorID, m.CustomerID, m.Number, m.Currency, m.Date,
		m.DueDate, m.DeliveryDate, m.Paid, m.Final, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	return r.replaceItems(ctx, inv)
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	m := toInvoiceModel(inv)
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices
		SET number = $2, currency = $3, date = $4, due_date = $5,
		    delivery_date = $6, paid = $7, final = $8, updated_at = $9
		WHERE id = $1
	`,
		m.ID, m.Number, m.Currency, m.Date, m.DueDate,
		m.DeliveryDate, m.Paid, m.Final, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewInvoiceNotFoundError(inv.ID)
	}
	return r.replaceItems(ctx, inv)
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate retrieves an invoice with a row-level lock. Callers
// use it inside WithTx so the final-latch check and the write see one row
// version.
func (r *InvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return r.findByID(ctx, id, true)
}

func (r *InvoiceRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	row := r.q.QueryRow(ctx, query, id.String())

	var m InvoiceModel
	err := row.Scan(
		&m.ID, &m.VendorID, &m.CustomerID, &m.Number, &m.Currency, &m.Date,
		&m.DueDate, &m.DeliveryDate, &m.Paid, &m.Final, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewInvoiceNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find invoice: %w", err)
	}

	items, err := r.findItems(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return toDomainInvoice(&m, items)
}

func (r *InvoiceRepository) FindByVendorID(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*domain.Invoice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE vendor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, vendorID.String(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var models []InvoiceModel
	for rows.Next() {
		var m InvoiceModel
		if err := rows.Scan(
			&m.ID, &m.VendorID, &m.CustomerID, &m.Number, &m.Currency, &m.Date,
			&m.DueDate, &m.DeliveryDate, &m.Paid, &m.Final, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	out := make([]*domain.Invoice, 0, len(models))
	for i := range models {
		items, err := r.findItems(ctx, models[i].ID)
		if err != nil {
			return nil, err
		}
		inv, err := toDomainInvoice(&models[i], items)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

// FindOverdue returns unpaid invoices whose due date lies before asOf,
// oldest first. Items are not loaded; the overdue scan only needs the
// header fields.
func (r *InvoiceRepository) FindOverdue(ctx context.Context, asOf time.Time, limit int) ([]*domain.Invoice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE paid = FALSE AND due_date IS NOT NULL AND due_date < $1
		ORDER BY due_date
		LIMIT $2
	`, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("list overdue invoices: %w", err)
	}
	defer rows.Close()

	var out []*domain.Invoice
	for rows.Next() {
		var m InvoiceModel
		if err := rows.Scan(
			&m.ID, &m.VendorID, &m.CustomerID, &m.Number, &m.Currency, &m.Date,
			&m.DueDate, &m.DeliveryDate, &m.Paid, &m.Final, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv, err := toDomainInvoice(&m, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list overdue invoices: %w", err)
	}
	return out, nil
}

func (r *InvoiceRepository) findItems(ctx context.Context, invoiceID string) ([]LineItemModel, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+lineItemColumns+` FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY position
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("find line items: %w", err)
	}
	defer rows.Close()

	var items []LineItemModel
	for rows.Next() {
		var m LineItemModel
		if err := rows.Scan(
			&m.ID, &m.InvoiceID, &m.Name, &m.Description, &m.Quantity,
			&m.Unit, &m.UnitPrice, &m.TaxRate, &m.Position,
		); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find line items: %w", err)
	}
	return items, nil
}

func (r *InvoiceRepository) replaceItems(ctx context.Context, inv *domain.Invoice) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID.String()); err != nil {
		return fmt.Errorf("clear line items: %w", err)
	}
	for i := range inv.Items {
		item := &inv.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.InvoiceID = inv.ID
		item.Position = i
		m := toLineItemModel(item)
		_, err := r.q.Exec(ctx, `
			INSERT INTO invoice_items (id, invoice_id, name, description,
				quantity, unit, unit_price, tax_rate, position)
			VALUES ($1, $2, $3, $4, $5::numeric, $6, $7::numeric, $8::numeric, $9)
		`,
			m.ID, m.InvoiceID, m.Name, m.Description,
			m.Quantity, m.Unit, m.UnitPrice, m.TaxRate, m.Position,
		)
		if err != nil {
			return fmt.Errorf("insert line item: %w", err)
		}
	}
	return nil
}

// WithTx executes fn against a repository bound to a single transaction.
func (r *InvoiceRepository) WithTx(ctx context.Context, fn func(ports.InvoiceRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Defer rollback in case of panic or error (if commit isn't reached)
	defer tx.Rollback(ctx)

	repoWithTx := &InvoiceRepository{
		pool: r.pool,
		q:    tx,
	}

	if err := fn(repoWithTx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
