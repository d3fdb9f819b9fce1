package core

import (
	"errors"
	"time"
)

type (
	// Date is a calendar date with no time-of-day and no timezone.
	// The wrapped time is always midnight UTC; the zero value means "unset".
	Date struct {
		time.Time
	}

	// Expense is a single monetary entry.
	Expense struct {
		ID       string // Assigned by the store on insert
		Title    string
		Amount   float64 // No currency, no sign constraint
		Category string  // Free text, compared by exact equality
		Date     Date
		Notes    string // Empty means absent
	}
)

var (
	ErrNotFound    = errors.New("expense not found")
	ErrInvalidDate = errors.New("invalid date: expected YYYY-MM-DD")
)

// SuggestedCategories is the category list offered by the mobile client.
// It is informational only: any string is a valid category.
var SuggestedCategories = []string{
	"Food",
	"Transportation",
	"Housing",
	"Utilities",
	"Entertainment",
	"Healthcare",
	"Shopping",
	"Education",
	"Travel",
	"Personal",
	"Groceries",
	"Bills",
	"Fitness",
	"Gifts",
	"Business",
	"Charity",
	"Other",
}

// HasID reports whether the expense has been persisted.
func (e Expense) HasID() bool {
	return e.ID != ""
}
