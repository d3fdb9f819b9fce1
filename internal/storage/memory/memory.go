package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// Store keeps expenses in insertion order behind a mutex.
type Store struct {
	mu    sync.Mutex
	items []core.Expense
	newID func() string
}

var (
	_ storage.ExpenseStore = (*Store)(nil)
	_ storage.Pinger       = (*Store)(nil)
)

func New() *Store {
	return &Store{newID: storage.NewID}
}

// NewWithSeed returns a store pre-populated with the given records.
// Records without an id get one assigned.
func NewWithSeed(seed []core.Expense) *Store {
	s := New()
	for _, e := range seed {
		if !e.HasID() {
			e.ID = s.newID()
		}
		s.items = append(s.items, e)
	}
	return s
}

func (s *Store) FindAll(_ context.Context) ([]core.Expense, error) {
	return s.filter(func(core.Expense) bool { return true }), nil
}

func (s *Store) FindAllOrderedByDateDesc(_ context.Context) ([]core.Expense, error) {
	out := s.filter(func(core.Expense) bool { return true })
	// Stable sort keeps insertion order among equal dates.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *Store) FindByID(_ context.Context, id string) (core.Expense, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true, nil
	}
	return core.Expense{}, false, nil
}

func (s *Store) FindByDateRange(_ context.Context, start, end core.Date) ([]core.Expense, error) {
	return s.filter(func(e core.Expense) bool {
		return e.Date.Within(start, end)
	}), nil
}

func (s *Store) FindByCategory(_ context.Context, category string) ([]core.Expense, error) {
	return s.filter(func(e core.Expense) bool {
		return e.Category == category
	}), nil
}

func (s *Store) FindByDateRangeAndCategory(_ context.Context, start, end core.Date, category string) ([]core.Expense, error) {
	return s.filter(func(e core.Expense) bool {
		return e.Date.Within(start, end) && e.Category == category
	}), nil
}

// Insert stores the expense and returns it with its id.
func (s *Store) Insert(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !e.HasID() {
		e.ID = s.newID()
	} else if s.indexOf(e.ID) >= 0 {
		return core.Expense{}, fmt.Errorf("insert expense %s: duplicate id", e.ID)
	}
	s.items = append(s.items, e)
	return e, nil
}

func (s *Store) Replace(_ context.Context, id string, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Expense{}, core.ErrNotFound
	}
	e.ID = id
	s.items[i] = e
	return e, nil
}

func (s *Store) DeleteByID(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true, nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) indexOf(id string) int {
	for i, e := range s.items {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) filter(keep func(core.Expense) bool) []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
