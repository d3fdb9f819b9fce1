package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"expensetracker/internal/core"
)

// ErrMalformed marks an event that can never be processed. Consumers drop
// such messages instead of requeueing them.
var ErrMalformed = errors.New("malformed event")

// EventType names the change that happened to an expense record.
type EventType string

const (
	EventCreated EventType = "expense.created"
	EventUpdated EventType = "expense.updated"
	EventDeleted EventType = "expense.deleted"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventCreated, EventUpdated, EventDeleted:
		return true
	}
	return false
}

// ExpensePayload is the wire form of an expense carried by an event.
type ExpensePayload struct {
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// ExpenseEvent is published after a successful create, update or delete.
// Expense is nil for deletions.
type ExpenseEvent struct {
	Type      EventType       `json:"type"`
	ID        string          `json:"id"`
	Expense   *ExpensePayload `json:"expense,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewExpenseEvent builds an event for a stored record.
func NewExpenseEvent(t EventType, e core.Expense, at time.Time) *ExpenseEvent {
	return &ExpenseEvent{
		Type: t,
		ID:   e.ID,
		Expense: &ExpensePayload{
			Title:    e.Title,
			Amount:   e.Amount,
			Category: e.Category,
			Date:     e.Date.String(),
			Notes:    e.Notes,
		},
		Timestamp: at.UTC(),
	}
}

// NewDeletedEvent builds the event for a removed record.
func NewDeletedEvent(id string, at time.Time) *ExpenseEvent {
	return &ExpenseEvent{Type: EventDeleted, ID: id, Timestamp: at.UTC()}
}

// ToExpense rebuilds the record carried by the event. Deleted events carry
// only the id.
func (m *ExpenseEvent) ToExpense() (core.Expense, error) {
	e := core.Expense{ID: m.ID}
	if m.Expense == nil {
		return e, nil
	}
	e.Title = m.Expense.Title
	e.Amount = m.Expense.Amount
	e.Category = m.Expense.Category
	e.Notes = m.Expense.Notes
	if m.Expense.Date != "" {
		d, err := core.ParseDate(m.Expense.Date)
		if err != nil {
			return core.Expense{}, fmt.Errorf("%w: parse event date: %w", ErrMalformed, err)
		}
		e.Date = d
	}
	return e, nil
}

// ToJSON converts the event to JSON bytes
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON decodes an event and rejects unknown types.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if !msg.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrMalformed, msg.Type)
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("%w: event without id", ErrMalformed)
	}
	return &msg, nil
}
