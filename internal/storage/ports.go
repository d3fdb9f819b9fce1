// Package storage defines the expense store port and its shared helpers.
// Implementations live in the memory, sqlite and postgres subpackages.
package storage

import (
	"context"

	"github.com/google/uuid"

	"expensetracker/internal/core"
)

// ExpenseStore exposes exactly the query shapes the service needs.
// Date ranges are inclusive on both ends; an inverted range matches nothing.
type ExpenseStore interface {
	// FindAll returns every record in unspecified order.
	FindAll(ctx context.Context) ([]core.Expense, error)
	// FindAllOrderedByDateDesc returns every record by date descending,
	// ties in insertion order.
	FindAllOrderedByDateDesc(ctx context.Context) ([]core.Expense, error)
	// FindByID returns found=false, with no error, when the id is absent.
	FindByID(ctx context.Context, id string) (e core.Expense, found bool, err error)
	FindByDateRange(ctx context.Context, start, end core.Date) ([]core.Expense, error)
	// FindByCategory matches category exactly (case-sensitive, untrimmed).
	FindByCategory(ctx context.Context, category string) ([]core.Expense, error)
	FindByDateRangeAndCategory(ctx context.Context, start, end core.Date, category string) ([]core.Expense, error)

	// Insert assigns an id when absent and returns the stored record.
	Insert(ctx context.Context, e core.Expense) (core.Expense, error)
	// Replace overwrites every field but the id; core.ErrNotFound if absent.
	Replace(ctx context.Context, id string, e core.Expense) (core.Expense, error)
	// DeleteByID never fails for an absent id; existed reports whether a row went away.
	DeleteByID(ctx context.Context, id string) (existed bool, err error)
}

// Pinger is implemented by stores that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Closer is implemented by stores holding external resources.
type Closer interface {
	Close() error
}

// NewID returns a fresh opaque record id. Ids are never reused.
func NewID() string {
	return uuid.NewString()
}
