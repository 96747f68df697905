package numbering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNonPositiveCounter is returned when the counter store yields a value
// of zero or less; counters start at zero and the first issued value is 1.
var ErrNonPositiveCounter = errors.New("counter value must be positive")

// CounterStore is the external collaborator owning the per-vendor and
// per-customer counters. IncrementAndFetch must be atomic: concurrent
// calls for the same owner must observe a linearizable sequence with no
// value handed out twice, or duplicate invoice numbers will be issued.
type CounterStore interface {
	IncrementAndFetch(ctx context.Context, scope Scope, ownerID uuid.UUID) (int64, error)
	Current(ctx context.Context, scope Scope, ownerID uuid.UUID) (int64, error)
}

// Document carries the invoice fields the format elements draw from.
type Document struct {
	Date         time.Time
	VendorID     uuid.UUID
	CustomerID   uuid.UUID
	VendorCode   string
	CustomerCode string
}

// Generator evaluates a compiled format against documents.
type Generator struct {
	format   Format
	counters CounterStore
}

func NewGenerator(format Format, counters CounterStore) *Generator {
	return &Generator{format: format, counters: counters}
}

// Next produces the document's invoice number, advancing the stored
// counter once per counter element. The counter mutation is the only side
// effect; everything else is pure.
func (g *Generator) Next(ctx context.Context, doc Document) (string, error) {
	var b strings.Builder
	for _, el := range g.format.elements {
		if el.kind != kindCounter {
			b.WriteString(evalStatic(el, doc))
			continue
		}
		value, err := g.counters.IncrementAndFetch(ctx, el.scope, g.ownerID(el.scope, doc))
		if err != nil {
			return "", fmt.Errorf("increment %s counter: %w", el.scope, err)
		}
		if value <= 0 {
			return "", fmt.Errorf("%w: got %d for scope %s", ErrNonPositiveCounter, value, el.scope)
		}
		b.WriteString(pad(value, el.width))
	}
	return b.String(), nil
}

// Preview produces the number the next Next call would return, without
// mutating any counter. Each counter element renders as the stored value
// plus one plus its occurrence index within its scope.
func (g *Generator) Preview(ctx context.Context, doc Document) (string, error) {
	stored := map[Scope]int64{}
	var b strings.Builder
	for _, el := range g.format.elements {
		if el.kind != kindCounter {
			b.WriteString(evalStatic(el, doc))
			continue
		}
		current, ok := stored[el.scope]
		if !ok {
			var err error
			current, err = g.counters.Current(ctx, el.scope, g.ownerID(el.scope, doc))
			if err != nil {
				return "", fmt.Errorf("read %s counter: %w", el.scope, err)
			}
			stored[el.scope] = current
		}
		value := current + 1 + int64(el.occurrence)
		if value <= 0 {
			return "", fmt.Errorf("%w: got %d for scope %s", ErrNonPositiveCounter, value, el.scope)
		}
		b.WriteString(pad(value, el.width))
	}
	return b.String(), nil
}

func (g *Generator) ownerID(scope Scope, doc Document) uuid.UUID {
	if scope == ScopeCustomer {
		return doc.CustomerID
	}
	return doc.VendorID
}

func evalStatic(el Element, doc Document) string {
	switch el.kind {
	case kindLiteral:
		return el.literal
	case kindYear:
		return fmt.Sprintf("%04d", doc.Date.Year())
	case kindMonth:
		return fmt.Sprintf("%02d", int(doc.Date.Month()))
	case kindDay:
		return fmt.Sprintf("%02d", doc.Date.Day())
	case kindCustomer:
		return doc.CustomerCode
	case kindVendor:
		return doc.VendorCode
	default:
		return ""
	}
}

func pad(value int64, width int) string {
	return fmt.Sprintf("%0*d", width, value)
}
