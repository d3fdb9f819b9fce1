package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"expensetracker/internal/core"
	"expensetracker/internal/events"
	"expensetracker/internal/storage/memory"
)

var errStoreDown = errors.New("store unavailable")

type recordingPublisher struct {
	events []*events.ExpenseEvent
	err    error
}

func (p *recordingPublisher) PublishExpenseEvent(_ context.Context, ev *events.ExpenseEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

// failingStore fails every operation.
type failingStore struct{ *memory.Store }

func (failingStore) FindAll(context.Context) ([]core.Expense, error) { return nil, errStoreDown }
func (failingStore) FindAllOrderedByDateDesc(context.Context) ([]core.Expense, error) {
	return nil, errStoreDown
}
func (failingStore) FindByID(context.Context, string) (core.Expense, bool, error) {
	return core.Expense{}, false, errStoreDown
}
func (failingStore) FindByDateRange(context.Context, core.Date, core.Date) ([]core.Expense, error) {
	return nil, errStoreDown
}
func (failingStore) FindByCategory(context.Context, string) ([]core.Expense, error) {
	return nil, errStoreDown
}
func (failingStore) FindByDateRangeAndCategory(context.Context, core.Date, core.Date, string) ([]core.Expense, error) {
	return nil, errStoreDown
}
func (failingStore) Insert(context.Context, core.Expense) (core.Expense, error) {
	return core.Expense{}, errStoreDown
}
func (failingStore) Replace(context.Context, string, core.Expense) (core.Expense, error) {
	return core.Expense{}, errStoreDown
}
func (failingStore) DeleteByID(context.Context, string) (bool, error) { return false, errStoreDown }
func (failingStore) Ping(context.Context) error                      { return errStoreDown }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func fakeExpense(f *gofakeit.Faker, date core.Date) core.Expense {
	return core.Expense{
		Title:    f.Word(),
		Amount:   f.Price(1, 200),
		Category: f.RandomString(core.SuggestedCategories),
		Date:     date,
		Notes:    f.Sentence(4),
	}
}

func d(y int, m time.Month, day int) core.Date { return core.NewDate(y, int(m), day) }

func TestCreate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.Local)

	t.Run("defaults unset date to today", func(t *testing.T) {
		svc := NewExpenseService(memory.New(), WithClock(fixedClock(now)))
		got, err := svc.Create(ctx, core.Expense{Title: "Coffee", Amount: 3.5, Category: "Food"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if got.Date != d(2024, time.March, 15) {
			t.Errorf("Date = %v, want 2024-03-15", got.Date)
		}
		if got.ID == "" {
			t.Error("Create() should assign an id")
		}
	})

	t.Run("keeps supplied date", func(t *testing.T) {
		svc := NewExpenseService(memory.New(), WithClock(fixedClock(now)))
		got, err := svc.Create(ctx, core.Expense{Title: "Rent", Amount: 900, Category: "Housing", Date: d(2024, time.January, 1)})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if got.Date != d(2024, time.January, 1) {
			t.Errorf("Date = %v, want 2024-01-01", got.Date)
		}
	})

	t.Run("discards caller id", func(t *testing.T) {
		svc := NewExpenseService(memory.New())
		got, err := svc.Create(ctx, core.Expense{ID: "mine", Title: "x", Date: d(2024, time.January, 1)})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if got.ID == "mine" || got.ID == "" {
			t.Errorf("ID = %q, want a store-assigned id", got.ID)
		}
	})

	t.Run("accepts negative amounts", func(t *testing.T) {
		svc := NewExpenseService(memory.New())
		got, err := svc.Create(ctx, core.Expense{Title: "Refund", Amount: -20, Category: "Shopping", Date: d(2024, time.January, 1)})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if got.Amount != -20 {
			t.Errorf("Amount = %v, want -20", got.Amount)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		svc := NewExpenseService(failingStore{memory.New()})
		_, err := svc.Create(ctx, core.Expense{Title: "x"})
		if !errors.Is(err, errStoreDown) {
			t.Errorf("err = %v, want wrapped store error", err)
		}
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc := NewExpenseService(memory.New())
	created, err := svc.Create(ctx, core.Expense{Title: "Book", Amount: 12, Category: "Education", Date: d(2024, time.May, 2)})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != created {
		t.Errorf("Get() = %+v, want %+v", got, created)
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}

	failing := NewExpenseService(failingStore{memory.New()})
	if _, err := failing.Get(ctx, "x"); !errors.Is(err, errStoreDown) || errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get() on failing store err = %v", err)
	}
}

func TestListOrdered(t *testing.T) {
	ctx := context.Background()
	f := gofakeit.New(7)
	svc := NewExpenseService(memory.New())

	dates := []core.Date{d(2024, time.February, 1), d(2024, time.March, 1), d(2024, time.January, 1)}
	for _, date := range dates {
		if _, err := svc.Create(ctx, fakeExpense(f, date)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	list, err := svc.ListOrdered(ctx)
	if err != nil {
		t.Fatalf("ListOrdered() error = %v", err)
	}
	want := []core.Date{d(2024, time.March, 1), d(2024, time.February, 1), d(2024, time.January, 1)}
	if len(list) != len(want) {
		t.Fatalf("len = %d, want %d", len(list), len(want))
	}
	for i := range want {
		if list[i].Date != want[i] {
			t.Errorf("list[%d].Date = %v, want %v", i, list[i].Date, want[i])
		}
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List() len = %d, want 3", len(all))
	}
}

func TestEmptyResultsAreNotErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewExpenseService(memory.New())

	list, err := svc.ListOrdered(ctx)
	if err != nil || list == nil || len(list) != 0 {
		t.Errorf("ListOrdered() = %v, %v; want empty non-nil list", list, err)
	}
	byCat, err := svc.FilterByCategory(ctx, "Nope")
	if err != nil || len(byCat) != 0 {
		t.Errorf("FilterByCategory() = %v, %v", byCat, err)
	}
	sum, err := svc.Summarize(ctx, d(2024, time.January, 1), d(2024, time.December, 31))
	if err != nil || sum == nil || len(sum) != 0 {
		t.Errorf("Summarize() = %v, %v; want empty non-nil summary", sum, err)
	}
}

func TestFilters(t *testing.T) {
	ctx := context.Background()
	store := memory.NewWithSeed([]core.Expense{
		{Title: "a", Amount: 10, Category: "Food", Date: d(2024, time.January, 1)},
		{Title: "b", Amount: 20, Category: "Food", Date: d(2024, time.January, 15)},
		{Title: "c", Amount: 30, Category: "food", Date: d(2024, time.January, 31)},
		{Title: "d", Amount: 40, Category: "Travel", Date: d(2024, time.February, 1)},
	})
	svc := NewExpenseService(store)

	tests := []struct {
		name string
		run  func() ([]core.Expense, error)
		want []string
	}{
		{
			name: "inclusive date range",
			run: func() ([]core.Expense, error) {
				return svc.FilterByDateRange(ctx, d(2024, time.January, 1), d(2024, time.January, 31))
			},
			want: []string{"a", "b", "c"},
		},
		{
			name: "inverted range is empty",
			run: func() ([]core.Expense, error) {
				return svc.FilterByDateRange(ctx, d(2024, time.January, 31), d(2024, time.January, 1))
			},
			want: nil,
		},
		{
			name: "category is case sensitive",
			run:  func() ([]core.Expense, error) { return svc.FilterByCategory(ctx, "Food") },
			want: []string{"a", "b"},
		},
		{
			name: "category is not trimmed",
			run:  func() ([]core.Expense, error) { return svc.FilterByCategory(ctx, " Food") },
			want: nil,
		},
		{
			name: "range and category",
			run: func() ([]core.Expense, error) {
				return svc.FilterByDateRangeAndCategory(ctx, d(2024, time.January, 10), d(2024, time.February, 1), "Food")
			},
			want: []string{"b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			titles := map[string]bool{}
			for _, e := range got {
				titles[e.Title] = true
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d records, want %d (%v)", len(got), len(tt.want), titles)
			}
			for _, w := range tt.want {
				if !titles[w] {
					t.Errorf("missing %q in %v", w, titles)
				}
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	store := memory.NewWithSeed([]core.Expense{
		{Title: "a", Amount: 0.1, Category: "Food", Date: d(2024, time.January, 1)},
		{Title: "b", Amount: 0.2, Category: "Food", Date: d(2024, time.January, 2)},
		{Title: "c", Amount: 50, Category: "Travel", Date: d(2024, time.January, 3)},
		{Title: "e", Amount: 99, Category: "Health", Date: d(2024, time.March, 1)},
	})
	svc := NewExpenseService(store)

	sum, err := svc.Summarize(ctx, d(2024, time.January, 1), d(2024, time.January, 31))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(sum) != 2 {
		t.Fatalf("Summarize() = %v, want 2 categories", sum)
	}
	if math.Abs(sum["Food"]-0.3) > 1e-9 {
		t.Errorf("Food = %v, want 0.3", sum["Food"])
	}
	if sum["Travel"] != 50 {
		t.Errorf("Travel = %v, want 50", sum["Travel"])
	}
	if _, ok := sum["Health"]; ok {
		t.Error("Health is outside the range and must be absent")
	}

	inverted, err := svc.Summarize(ctx, d(2024, time.January, 31), d(2024, time.January, 1))
	if err != nil || len(inverted) != 0 {
		t.Errorf("inverted Summarize() = %v, %v", inverted, err)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	svc := NewExpenseService(memory.New(), WithClock(fixedClock(now)))

	created, err := svc.Create(ctx, core.Expense{Title: "Bus", Amount: 2, Category: "Transportation", Date: d(2024, time.May, 1), Notes: "ticket"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, core.Expense{Title: "Train", Amount: 9, Category: "Transportation"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("ID changed: %q -> %q", created.ID, updated.ID)
	}
	if !updated.Date.IsEmpty() {
		t.Errorf("Update must not default the date, got %v", updated.Date)
	}
	if updated.Notes != "" {
		t.Errorf("Notes = %q, want cleared by full replace", updated.Notes)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Train" {
		t.Errorf("Title = %q, want Train", got.Title)
	}

	if _, err := svc.Update(ctx, "missing", core.Expense{Title: "x"}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Update(missing) err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		strict      bool
		wantMissing error
	}{
		{name: "simple variant ignores unknown ids", strict: false, wantMissing: nil},
		{name: "strict variant reports unknown ids", strict: true, wantMissing: core.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewExpenseService(memory.New(), WithStrictDelete(tt.strict))
			created, err := svc.Create(ctx, core.Expense{Title: "x", Date: d(2024, time.January, 1)})
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}

			if err := svc.Delete(ctx, created.ID); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := svc.Get(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
				t.Errorf("Get after delete err = %v, want ErrNotFound", err)
			}

			err = svc.Delete(ctx, created.ID)
			if !errors.Is(err, tt.wantMissing) || (tt.wantMissing == nil && err != nil) {
				t.Errorf("second Delete() err = %v, want %v", err, tt.wantMissing)
			}
		})
	}

	failing := NewExpenseService(failingStore{memory.New()})
	if err := failing.Delete(ctx, "x"); !errors.Is(err, errStoreDown) {
		t.Errorf("Delete() on failing store err = %v", err)
	}
}

func TestEventsArePublishedBestEffort(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewExpenseService(memory.New(), WithPublisher(pub))

	created, err := svc.Create(ctx, core.Expense{Title: "x", Amount: 1, Category: "Other", Date: d(2024, time.January, 1)})
	if err != nil {
		t.Fatalf("Create() must not fail on publish error: %v", err)
	}
	if _, err := svc.Update(ctx, created.ID, core.Expense{Title: "y", Date: d(2024, time.January, 2)}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// absent id: nothing changed, nothing published
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	want := []events.EventType{events.EventCreated, events.EventUpdated, events.EventDeleted}
	if len(pub.events) != len(want) {
		t.Fatalf("published %d events, want %d", len(pub.events), len(want))
	}
	for i, ev := range pub.events {
		if ev.Type != want[i] || ev.ID != created.ID {
			t.Errorf("event[%d] = %s/%s, want %s/%s", i, ev.Type, ev.ID, want[i], created.ID)
		}
	}
	if pub.events[2].Expense != nil {
		t.Error("delete event should not carry the record")
	}
}

func TestPing(t *testing.T) {
	ctx := context.Background()
	if err := NewExpenseService(memory.New()).Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if err := NewExpenseService(failingStore{memory.New()}).Ping(ctx); !errors.Is(err, errStoreDown) {
		t.Errorf("Ping() error = %v, want store error", err)
	}
}
