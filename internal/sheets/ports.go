package sheets

import (
	"context"
	"strconv"
	"time"
)

// JournalEntry is one row of the change journal.
type JournalEntry struct {
	Timestamp time.Time
	Event     string
	ExpenseID string
	Title     string
	Amount    float64
	Category  string
	Date      string
	Notes     string
}

// JournalWriter appends change entries to an external journal.
type JournalWriter interface {
	AppendEntry(ctx context.Context, entry JournalEntry) error
}

// Row renders the entry as sheet cells:
// timestamp, event, id, title, amount, category, date, notes.
func (e JournalEntry) Row() []any {
	return []any{
		e.Timestamp.UTC().Format(time.RFC3339),
		e.Event,
		e.ExpenseID,
		e.Title,
		strconv.FormatFloat(e.Amount, 'f', -1, 64),
		e.Category,
		e.Date,
		e.Notes,
	}
}
