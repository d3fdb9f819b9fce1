package memory

import (
	"context"
	"testing"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
	"expensetracker/internal/storage/storagetest"
)

func TestMemoryStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.ExpenseStore {
		return New()
	})
}

func TestNewWithSeedAssignsIDs(t *testing.T) {
	s := NewWithSeed([]core.Expense{
		{Title: "a", Category: "A", Date: core.NewDate(2025, 1, 1)},
		{ID: "fixed", Title: "b", Category: "B", Date: core.NewDate(2025, 1, 2)},
	})
	if s.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", s.Len())
	}
	if _, found, _ := s.FindByID(context.Background(), "fixed"); !found {
		t.Fatal("expected seeded id to be kept")
	}
	all, _ := s.FindAll(context.Background())
	for _, e := range all {
		if e.ID == "" {
			t.Fatalf("seeded record without id: %+v", e)
		}
	}
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.Insert(ctx, core.Expense{ID: "dup"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := s.Insert(ctx, core.Expense{ID: "dup"}); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	s := NewWithSeed([]core.Expense{{Title: "a", Category: "A", Date: core.NewDate(2025, 1, 1)}})
	got, _ := s.FindAll(context.Background())
	got[0].Title = "mutated"
	again, _ := s.FindAll(context.Background())
	if again[0].Title != "a" {
		t.Fatalf("store mutated through returned slice: %+v", again[0])
	}
}
