// Package storagetest holds behavior tests shared by every ExpenseStore implementation.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// Factory returns an empty store. Cleanup is the caller's business (t.Cleanup).
type Factory func(t *testing.T) storage.ExpenseStore

// Run exercises the full store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("insert assigns id and round-trips", func(t *testing.T) { testRoundTrip(t, newStore(t)) })
	t.Run("find by id miss is not an error", func(t *testing.T) { testFindByIDMiss(t, newStore(t)) })
	t.Run("date range is inclusive", func(t *testing.T) { testDateRange(t, newStore(t)) })
	t.Run("inverted range is empty", func(t *testing.T) { testInvertedRange(t, newStore(t)) })
	t.Run("category match is exact", func(t *testing.T) { testCategory(t, newStore(t)) })
	t.Run("range and category", func(t *testing.T) { testRangeAndCategory(t, newStore(t)) })
	t.Run("ordered by date desc", func(t *testing.T) { testOrdered(t, newStore(t)) })
	t.Run("replace overwrites all fields", func(t *testing.T) { testReplace(t, newStore(t)) })
	t.Run("replace missing id", func(t *testing.T) { testReplaceMissing(t, newStore(t)) })
	t.Run("delete is idempotent", func(t *testing.T) { testDelete(t, newStore(t)) })
}

func mustInsert(t *testing.T, s storage.ExpenseStore, e core.Expense) core.Expense {
	t.Helper()
	got, err := s.Insert(context.Background(), e)
	if err != nil {
		t.Fatalf("insert %+v: %v", e, err)
	}
	return got
}

func ids(es []core.Expense) map[string]bool {
	out := make(map[string]bool, len(es))
	for _, e := range es {
		out[e.ID] = true
	}
	return out
}

func testRoundTrip(t *testing.T, s storage.ExpenseStore) {
	ctx := context.Background()
	in := core.Expense{
		Title:    "Lunch",
		Amount:   12.5,
		Category: "Food",
		Date:     core.NewDate(2025, 3, 14),
		Notes:    "with team",
	}
	stored := mustInsert(t, s, in)
	if stored.ID == "" {
		t.Fatal("expected id to be assigned")
	}

	got, found, err := s.FindByID(ctx, stored.ID)
	if err != nil || !found {
		t.Fatalf("FindByID: found=%v err=%v", found, err)
	}
	in.ID = stored.ID
	if got != in {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}

	other := mustInsert(t, s, core.Expense{Title: "x", Category: "y", Date: core.NewDate(2025, 1, 1)})
	if other.ID == stored.ID {
		t.Fatal("ids must be unique")
	}
}

func testFindByIDMiss(t *testing.T, s storage.ExpenseStore) {
	_, found, err := s.FindByID(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found {
		t.Fatal("expected not found")
	}
}

func testDateRange(t *testing.T, s storage.ExpenseStore) {
	start := core.NewDate(2025, 2, 1)
	end := core.NewDate(2025, 2, 28)
	atStart := mustInsert(t, s, core.Expense{Title: "start", Category: "A", Date: start})
	atEnd := mustInsert(t, s, core.Expense{Title: "end", Category: "A", Date: end})
	before := mustInsert(t, s, core.Expense{Title: "before", Category: "A", Date: start.AddDays(-1)})
	after := mustInsert(t, s, core.Expense{Title: "after", Category: "A", Date: end.AddDays(1)})

	got, err := s.FindByDateRange(context.Background(), start, end)
	if err != nil {
		t.Fatalf("FindByDateRange: %v", err)
	}
	set := ids(got)
	if !set[atStart.ID] || !set[atEnd.ID] {
		t.Fatalf("range must include both ends, got %v", got)
	}
	if set[before.ID] || set[after.ID] {
		t.Fatalf("range must exclude outside dates, got %v", got)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}

func testInvertedRange(t *testing.T, s storage.ExpenseStore) {
	mustInsert(t, s, core.Expense{Title: "x", Category: "A", Date: core.NewDate(2025, 2, 10)})
	got, err := s.FindByDateRange(context.Background(), core.NewDate(2025, 2, 28), core.NewDate(2025, 2, 1))
	if err != nil {
		t.Fatalf("inverted range must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func testCategory(t *testing.T, s storage.ExpenseStore) {
	d := core.NewDate(2025, 4, 1)
	food := mustInsert(t, s, core.Expense{Title: "a", Category: "Food", Date: d})
	mustInsert(t, s, core.Expense{Title: "b", Category: "food", Date: d})
	mustInsert(t, s, core.Expense{Title: "c", Category: " Food", Date: d})

	got, err := s.FindByCategory(context.Background(), "Food")
	if err != nil {
		t.Fatalf("FindByCategory: %v", err)
	}
	if len(got) != 1 || got[0].ID != food.ID {
		t.Fatalf("expected only the exact match, got %v", got)
	}

	none, err := s.FindByCategory(context.Background(), "Never seen")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty result, got %v (err=%v)", none, err)
	}
}

func testRangeAndCategory(t *testing.T, s storage.ExpenseStore) {
	start := core.NewDate(2025, 5, 1)
	end := core.NewDate(2025, 5, 31)
	hit := mustInsert(t, s, core.Expense{Title: "hit", Category: "Travel", Date: end})
	mustInsert(t, s, core.Expense{Title: "wrong cat", Category: "Food", Date: start})
	mustInsert(t, s, core.Expense{Title: "wrong date", Category: "Travel", Date: end.AddDays(1)})

	got, err := s.FindByDateRangeAndCategory(context.Background(), start, end, "Travel")
	if err != nil {
		t.Fatalf("FindByDateRangeAndCategory: %v", err)
	}
	if len(got) != 1 || got[0].ID != hit.ID {
		t.Fatalf("expected only %s, got %v", hit.ID, got)
	}
}

func testOrdered(t *testing.T, s storage.ExpenseStore) {
	d := core.NewDate(2025, 6, 15)
	mustInsert(t, s, core.Expense{Title: "mid", Category: "A", Date: d})
	first := mustInsert(t, s, core.Expense{Title: "late-1", Category: "A", Date: d.AddDays(5)})
	mustInsert(t, s, core.Expense{Title: "early", Category: "A", Date: d.AddDays(-5)})
	second := mustInsert(t, s, core.Expense{Title: "late-2", Category: "A", Date: d.AddDays(5)})

	ctx := context.Background()
	got, err := s.FindAllOrderedByDateDesc(ctx)
	if err != nil {
		t.Fatalf("FindAllOrderedByDateDesc: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 records, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.After(got[i-1].Date) {
			t.Fatalf("dates not non-increasing at %d: %v", i, got)
		}
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatalf("ties must keep insertion order, got %s, %s", got[0].Title, got[1].Title)
	}

	again, err := s.FindAllOrderedByDateDesc(ctx)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	for i := range got {
		if got[i].ID != again[i].ID {
			t.Fatalf("order changed between calls at %d", i)
		}
	}

	all, err := s.FindAll(ctx)
	if err != nil || len(all) != 4 {
		t.Fatalf("FindAll: %d records, err=%v", len(all), err)
	}
}

func testReplace(t *testing.T, s storage.ExpenseStore) {
	ctx := context.Background()
	orig := mustInsert(t, s, core.Expense{
		Title: "old", Amount: 1, Category: "A", Date: core.NewDate(2025, 1, 1), Notes: "keep?",
	})

	repl := core.Expense{Title: "new", Amount: -2.25, Category: "B", Date: core.NewDate(2025, 1, 2)}
	got, err := s.Replace(ctx, orig.ID, repl)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	repl.ID = orig.ID
	if got != repl {
		t.Fatalf("replace result mismatch:\n got %+v\nwant %+v", got, repl)
	}

	stored, found, err := s.FindByID(ctx, orig.ID)
	if err != nil || !found {
		t.Fatalf("FindByID after replace: found=%v err=%v", found, err)
	}
	if stored != repl {
		t.Fatalf("stored mismatch:\n got %+v\nwant %+v", stored, repl)
	}
	if stored.Notes != "" {
		t.Fatalf("notes must be cleared by full replace, got %q", stored.Notes)
	}
}

func testReplaceMissing(t *testing.T, s storage.ExpenseStore) {
	_, err := s.Replace(context.Background(), "missing", core.Expense{Title: "x"})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testDelete(t *testing.T, s storage.ExpenseStore) {
	ctx := context.Background()
	e := mustInsert(t, s, core.Expense{Title: "x", Category: "A", Date: core.NewDate(2025, 1, 1)})

	existed, err := s.DeleteByID(ctx, e.ID)
	if err != nil || !existed {
		t.Fatalf("first delete: existed=%v err=%v", existed, err)
	}
	existed, err = s.DeleteByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("second delete must not fail: %v", err)
	}
	if existed {
		t.Fatal("second delete must report absent")
	}
	if _, found, _ := s.FindByID(ctx, e.ID); found {
		t.Fatal("record still present after delete")
	}

	next := mustInsert(t, s, core.Expense{Title: "y", Category: "A", Date: core.NewDate(2025, 1, 1)})
	if next.ID == e.ID {
		t.Fatal("ids must never be reused")
	}
}
