package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

const selectColumns = `SELECT id, title, amount, category, date, notes FROM expenses`

// Repository is the PostgreSQL-backed ExpenseStore.
// A pgx pool reuses connections instead of dialing per query.
type Repository struct {
	pool  *pgxpool.Pool
	newID func() string
}

var (
	_ storage.ExpenseStore = (*Repository)(nil)
	_ storage.Pinger       = (*Repository)(nil)
	_ storage.Closer       = (*Repository)(nil)
)

func NewRepository(ctx context.Context, connURL string) (*Repository, error) {
	if err := RunMigrations(connURL); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, connURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Repository{pool: pool, newID: storage.NewID}, nil
}

func (r *Repository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repository) FindAll(ctx context.Context) ([]core.Expense, error) {
	return r.query(ctx, "find all", selectColumns)
}

func (r *Repository) FindAllOrderedByDateDesc(ctx context.Context) ([]core.Expense, error) {
	return r.query(ctx, "find all ordered", selectColumns+` ORDER BY date DESC NULLS LAST, seq ASC`)
}

func (r *Repository) FindByID(ctx context.Context, id string) (core.Expense, bool, error) {
	e, err := scanExpense(r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Expense{}, false, nil
	}
	if err != nil {
		return core.Expense{}, false, fmt.Errorf("get expense by id: %w", err)
	}
	return e, true, nil
}

func (r *Repository) FindByDateRange(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	return r.query(ctx, "find by date range",
		selectColumns+` WHERE date >= $1 AND date <= $2 ORDER BY seq`,
		start.Time, end.Time)
}

func (r *Repository) FindByCategory(ctx context.Context, category string) ([]core.Expense, error) {
	return r.query(ctx, "find by category",
		selectColumns+` WHERE category = $1 ORDER BY seq`, category)
}

func (r *Repository) FindByDateRangeAndCategory(ctx context.Context, start, end core.Date, category string) ([]core.Expense, error) {
	return r.query(ctx, "find by date range and category",
		selectColumns+` WHERE date >= $1 AND date <= $2 AND category = $3 ORDER BY seq`,
		start.Time, end.Time, category)
}

func (r *Repository) Insert(ctx context.Context, e core.Expense) (core.Expense, error) {
	if !e.HasID() {
		e.ID = r.newID()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO expenses (id, title, amount, category, date, notes) VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Title, e.Amount, e.Category, dateArg(e.Date), e.Notes)
	if err != nil {
		return core.Expense{}, fmt.Errorf("failed to create expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to PostgreSQL", "id", e.ID, "category", e.Category, "date", e.Date.String())
	return e, nil
}

func (r *Repository) Replace(ctx context.Context, id string, e core.Expense) (core.Expense, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE expenses SET title = $1, amount = $2, category = $3, date = $4, notes = $5 WHERE id = $6`,
		e.Title, e.Amount, e.Category, dateArg(e.Date), e.Notes, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("failed to replace expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Expense{}, core.ErrNotFound
	}
	e.ID = id
	return e, nil
}

func (r *Repository) DeleteByID(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) query(ctx context.Context, op, q string, args ...any) ([]core.Expense, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan expense: %w", op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// dateArg maps an unset date to SQL NULL.
func dateArg(d core.Date) any {
	if d.IsEmpty() {
		return nil
	}
	return d.Time
}

func scanExpense(row pgx.Row) (core.Expense, error) {
	var (
		e    core.Expense
		date *time.Time
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Amount, &e.Category, &date, &e.Notes); err != nil {
		return core.Expense{}, err
	}
	if date != nil {
		e.Date = core.DateOf(*date)
	}
	return e, nil
}
