package memory

import (
	"context"
	"sync"

	"expensetracker/internal/sheets"
)

// Journal keeps appended entries in memory.
type Journal struct {
	mu      sync.Mutex
	entries []sheets.JournalEntry
}

var _ sheets.JournalWriter = (*Journal)(nil)

func New() *Journal {
	return &Journal{}
}

func (j *Journal) AppendEntry(_ context.Context, entry sheets.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return nil
}

// Entries returns a copy of everything appended so far.
func (j *Journal) Entries() []sheets.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]sheets.JournalEntry(nil), j.entries...)
}
