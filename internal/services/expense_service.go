package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/events"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// EventPublisher receives change events after successful writes.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, event *events.ExpenseEvent) error
}

// ExpenseService applies the expense rules on top of an ExpenseStore.
// It holds no per-request state.
type ExpenseService struct {
	store        storage.ExpenseStore
	publisher    EventPublisher
	now          func() time.Time
	strictDelete bool
	logger       *applog.Logger
}

// Option configures an ExpenseService.
type Option func(*ExpenseService)

// WithPublisher sends change events to p. Publishing is best effort.
func WithPublisher(p EventPublisher) Option {
	return func(s *ExpenseService) { s.publisher = p }
}

// WithStrictDelete makes Delete return core.ErrNotFound for unknown ids.
func WithStrictDelete(strict bool) Option {
	return func(s *ExpenseService) { s.strictDelete = strict }
}

// WithClock overrides the time source used for date defaulting.
func WithClock(now func() time.Time) Option {
	return func(s *ExpenseService) { s.now = now }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *ExpenseService) { s.logger = l }
}

func NewExpenseService(store storage.ExpenseStore, opts ...Option) *ExpenseService {
	s := &ExpenseService{
		store:  store,
		now:    time.Now,
		logger: applog.New(applog.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(applog.ComponentExpense)
	return s
}

// Create stores a new record. Any id on e is discarded and an unset date
// becomes today's local calendar date.
func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.ID = ""
	if e.Date.IsEmpty() {
		e.Date = core.Today(s.now())
	}

	saved, err := s.store.Insert(ctx, e)
	if err != nil {
		fields := applog.NewFields().
			WithExpense("", e.Title, e.Amount, e.Category, e.Date.String()).
			WithOperation(applog.OpCreate).
			WithError(err)
		s.logger.ErrorContext(ctx, "Failed to create expense", fields.ToSlice()...)
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	s.publish(ctx, events.NewExpenseEvent(events.EventCreated, saved, s.now()))
	return saved, nil
}

// Get returns the record with the given id or core.ErrNotFound.
func (s *ExpenseService) Get(ctx context.Context, id string) (core.Expense, error) {
	e, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		s.logFailure(ctx, applog.OpRead, err, applog.FieldExpenseID, id)
		return core.Expense{}, fmt.Errorf("find expense %s: %w", id, err)
	}
	if !ok {
		return core.Expense{}, core.ErrNotFound
	}
	return e, nil
}

// List returns every record in no particular order.
func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	list, err := s.store.FindAll(ctx)
	if err != nil {
		s.logFailure(ctx, applog.OpList, err)
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return list, nil
}

// ListOrdered returns every record, newest date first.
func (s *ExpenseService) ListOrdered(ctx context.Context) ([]core.Expense, error) {
	list, err := s.store.FindAllOrderedByDateDesc(ctx)
	if err != nil {
		s.logFailure(ctx, applog.OpListOrdered, err)
		return nil, fmt.Errorf("list expenses ordered: %w", err)
	}
	s.logger.DebugContext(ctx, "Listed expenses", applog.FieldCount, len(list))
	return list, nil
}

// FilterByDateRange returns records dated within [start, end]. An inverted
// range yields an empty list.
func (s *ExpenseService) FilterByDateRange(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	list, err := s.store.FindByDateRange(ctx, start, end)
	if err != nil {
		s.logFailure(ctx, applog.OpFilter, err,
			applog.FieldStartDate, start.String(), applog.FieldEndDate, end.String())
		return nil, fmt.Errorf("filter by date range: %w", err)
	}
	return list, nil
}

// FilterByCategory matches the category exactly.
func (s *ExpenseService) FilterByCategory(ctx context.Context, category string) ([]core.Expense, error) {
	list, err := s.store.FindByCategory(ctx, category)
	if err != nil {
		s.logFailure(ctx, applog.OpFilter, err, applog.FieldCategory, category)
		return nil, fmt.Errorf("filter by category: %w", err)
	}
	return list, nil
}

func (s *ExpenseService) FilterByDateRangeAndCategory(ctx context.Context, start, end core.Date, category string) ([]core.Expense, error) {
	list, err := s.store.FindByDateRangeAndCategory(ctx, start, end, category)
	if err != nil {
		s.logFailure(ctx, applog.OpFilter, err,
			applog.FieldStartDate, start.String(), applog.FieldEndDate, end.String(),
			applog.FieldCategory, category)
		return nil, fmt.Errorf("filter by date range and category: %w", err)
	}
	return list, nil
}

// Summarize totals amounts per category over [start, end]. Categories with
// no records in the range are absent.
func (s *ExpenseService) Summarize(ctx context.Context, start, end core.Date) (core.Summary, error) {
	list, err := s.store.FindByDateRange(ctx, start, end)
	if err != nil {
		s.logFailure(ctx, applog.OpSummarize, err,
			applog.FieldStartDate, start.String(), applog.FieldEndDate, end.String())
		return nil, fmt.Errorf("summarize: %w", err)
	}
	return core.SummarizeByCategory(list), nil
}

// Update replaces every non-id field of the record. The date is stored as
// given, unset included.
func (s *ExpenseService) Update(ctx context.Context, id string, e core.Expense) (core.Expense, error) {
	saved, err := s.store.Replace(ctx, id, e)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Expense{}, err
		}
		s.logFailure(ctx, applog.OpUpdate, err, applog.FieldExpenseID, id)
		return core.Expense{}, fmt.Errorf("replace expense %s: %w", id, err)
	}

	s.publish(ctx, events.NewExpenseEvent(events.EventUpdated, saved, s.now()))
	return saved, nil
}

// Delete removes the record. Unknown ids succeed unless strict delete is on.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	existed, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		s.logFailure(ctx, applog.OpDelete, err, applog.FieldExpenseID, id)
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	if !existed {
		if s.strictDelete {
			return core.ErrNotFound
		}
		return nil
	}

	s.publish(ctx, events.NewDeletedEvent(id, s.now()))
	return nil
}

// Ping reports store health when the store supports it.
func (s *ExpenseService) Ping(ctx context.Context) error {
	if p, ok := s.store.(storage.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, event *events.ExpenseEvent) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "No event publisher, skipping event",
			applog.FieldEventType, event.Type)
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish expense event",
			applog.FieldEventType, event.Type,
			applog.FieldExpenseID, event.ID,
			applog.FieldError, err)
	}
}

func (s *ExpenseService) logFailure(ctx context.Context, op string, err error, args ...any) {
	args = append(args, applog.FieldOperation, op, applog.FieldError, err)
	s.logger.ErrorContext(ctx, "Expense store operation failed", args...)
}
