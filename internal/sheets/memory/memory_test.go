package memory

import (
	"context"
	"testing"

	"expensetracker/internal/sheets"
)

func TestJournalAppend(t *testing.T) {
	j := New()
	ctx := context.Background()

	if err := j.AppendEntry(ctx, sheets.JournalEntry{ExpenseID: "a"}); err != nil {
		t.Fatalf("AppendEntry() error = %v", err)
	}
	if err := j.AppendEntry(ctx, sheets.JournalEntry{ExpenseID: "b"}); err != nil {
		t.Fatalf("AppendEntry() error = %v", err)
	}

	got := j.Entries()
	if len(got) != 2 || got[0].ExpenseID != "a" || got[1].ExpenseID != "b" {
		t.Fatalf("Entries() = %+v", got)
	}

	got[0].ExpenseID = "changed"
	if j.Entries()[0].ExpenseID != "a" {
		t.Error("Entries() must return a copy")
	}
}
