package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rechnung/invoicing-core/internal/core/numbering"
	"github.com/rechnung/invoicing-core/internal/infrastructure/persistence"
)

// CounterStore backs sequential invoice numbering with the counter columns
// on the vendors and customers tables. The UPDATE ... RETURNING form makes
// each increment atomic; concurrent callers serialize on the row lock and
// never observe the same value twice.
type CounterStore struct {
	q persistence.Executor
}

func NewCounterStore(db *persistence.DB) *CounterStore {
	return &CounterStore{q: db.Pool}
}

func (s *CounterStore) IncrementAndFetch(ctx context.Context, scope numbering.Scope, ownerID uuid.UUID) (int64, error) {
	table, err := counterTable(scope)
	if err != nil {
		return 0, err
	}
	row := s.q.QueryRow(ctx, `
		UPDATE `+table+`
		SET invoice_counter = invoice_counter + 1, updated_at = now()
		WHERE id = $1
		RETURNING invoice_counter
	`, ownerID.String())

	var value int64
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("no %s row for counter owner %s", scope, ownerID)
		}
		return 0, fmt.Errorf("increment %s counter: %w", scope, err)
	}
	return value, nil
}

func (s *CounterStore) Current(ctx context.Context, scope numbering.Scope, ownerID uuid.UUID) (int64, error) {
	table, err := counterTable(scope)
	if err != nil {
		return 0, err
	}
	row := s.q.QueryRow(ctx, `SELECT invoice_counter FROM `+table+` WHERE id = $1`, ownerID.String())

	var value int64
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("no %s row for counter owner %s", scope, ownerID)
		}
		return 0, fmt.Errorf("read %s counter: %w", scope, err)
	}
	return value, nil
}

func counterTable(scope numbering.Scope) (string, error) {
	switch scope {
	case numbering.ScopeVendor:
		return "vendors", nil
	case numbering.ScopeCustomer:
		return "customers", nil
	default:
		return "", fmt.Errorf("unknown counter scope %q", scope)
	}
}
