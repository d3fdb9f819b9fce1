package worker

import (
	"context"
	"fmt"

	"expensetracker/internal/events"
	applog "expensetracker/internal/log"
	"expensetracker/internal/sheets"
)

// JournalWorker writes every expense change event to a journal.
type JournalWorker struct {
	journal sheets.JournalWriter
	logger  *applog.Logger
}

func NewJournalWorker(journal sheets.JournalWriter, logger *applog.Logger) *JournalWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &JournalWorker{
		journal: journal,
		logger:  logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleEvent appends one journal entry. An error makes the consumer requeue.
func (w *JournalWorker) HandleEvent(ctx context.Context, ev *events.ExpenseEvent) error {
	entry, err := EntryFromEvent(ev)
	if err != nil {
		return err
	}

	if err := w.journal.AppendEntry(ctx, entry); err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}

	w.logger.InfoContext(ctx, "Journaled expense event",
		applog.FieldEventType, ev.Type,
		applog.FieldExpenseID, ev.ID)
	return nil
}

// EntryFromEvent flattens an event into a journal row.
func EntryFromEvent(ev *events.ExpenseEvent) (sheets.JournalEntry, error) {
	e, err := ev.ToExpense()
	if err != nil {
		return sheets.JournalEntry{}, fmt.Errorf("decode event %s: %w", ev.ID, err)
	}
	return sheets.JournalEntry{
		Timestamp: ev.Timestamp,
		Event:     string(ev.Type),
		ExpenseID: e.ID,
		Title:     e.Title,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date.String(),
		Notes:     e.Notes,
	}, nil
}
