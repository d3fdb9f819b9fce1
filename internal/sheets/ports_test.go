package sheets

import (
	"testing"
	"time"
)

func TestJournalEntryRow(t *testing.T) {
	e := JournalEntry{
		Timestamp: time.Date(2024, 5, 1, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600)),
		Event:     "expense.created",
		ExpenseID: "abc",
		Title:     "Lunch",
		Amount:    12.5,
		Category:  "Food",
		Date:      "2024-05-01",
		Notes:     "with team",
	}

	row := e.Row()
	want := []any{"2024-05-01T07:30:00Z", "expense.created", "abc", "Lunch", "12.5", "Food", "2024-05-01", "with team"}
	if len(row) != len(want) {
		t.Fatalf("len(row) = %d, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("row[%d] = %v, want %v", i, row[i], want[i])
		}
	}
}
