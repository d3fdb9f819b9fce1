package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"

	_ "modernc.org/sqlite"
)

const selectColumns = `SELECT id, title, amount, category, date, notes FROM expenses`

// Repository is the SQLite-backed ExpenseStore. Dates are stored as
// YYYY-MM-DD text so lexical comparison equals calendar comparison.
type Repository struct {
	db    *sql.DB
	newID func() string
}

var (
	_ storage.ExpenseStore = (*Repository)(nil)
	_ storage.Pinger       = (*Repository)(nil)
	_ storage.Closer       = (*Repository)(nil)
)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, newID: storage.NewID}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) FindAll(ctx context.Context) ([]core.Expense, error) {
	return r.query(ctx, "find all", selectColumns)
}

func (r *Repository) FindAllOrderedByDateDesc(ctx context.Context) ([]core.Expense, error) {
	return r.query(ctx, "find all ordered", selectColumns+` ORDER BY date DESC, seq ASC`)
}

func (r *Repository) FindByID(ctx context.Context, id string) (core.Expense, bool, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return core.Expense{}, false, nil
	}
	if err != nil {
		return core.Expense{}, false, fmt.Errorf("get expense by id: %w", err)
	}
	return e, true, nil
}

func (r *Repository) FindByDateRange(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	return r.query(ctx, "find by date range",
		selectColumns+` WHERE date >= ? AND date <= ? ORDER BY seq`,
		start.String(), end.String())
}

func (r *Repository) FindByCategory(ctx context.Context, category string) ([]core.Expense, error) {
	return r.query(ctx, "find by category",
		selectColumns+` WHERE category = ? ORDER BY seq`, category)
}

func (r *Repository) FindByDateRangeAndCategory(ctx context.Context, start, end core.Date, category string) ([]core.Expense, error) {
	return r.query(ctx, "find by date range and category",
		selectColumns+` WHERE date >= ? AND date <= ? AND category = ? ORDER BY seq`,
		start.String(), end.String(), category)
}

func (r *Repository) Insert(ctx context.Context, e core.Expense) (core.Expense, error) {
	if !e.HasID() {
		e.ID = r.newID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, title, amount, category, date, notes) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Amount, e.Category, e.Date.String(), e.Notes)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite", "id", e.ID, "category", e.Category, "date", e.Date.String())
	return e, nil
}

func (r *Repository) Replace(ctx context.Context, id string, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET title = ?, amount = ?, category = ?, date = ?, notes = ? WHERE id = ?`,
		e.Title, e.Amount, e.Category, e.Date.String(), e.Notes, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("replace expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Expense{}, fmt.Errorf("replace expense rows affected: %w", err)
	}
	if n == 0 {
		return core.Expense{}, core.ErrNotFound
	}
	e.ID = id
	return e, nil
}

func (r *Repository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete expense rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) query(ctx context.Context, op, q string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e    core.Expense
		date string
	)
	if err := s.Scan(&e.ID, &e.Title, &e.Amount, &e.Category, &date, &e.Notes); err != nil {
		return core.Expense{}, err
	}
	if date != "" {
		d, err := core.ParseDate(date)
		if err != nil {
			return core.Expense{}, fmt.Errorf("stored date %q: %w", date, err)
		}
		e.Date = d
	}
	return e, nil
}
