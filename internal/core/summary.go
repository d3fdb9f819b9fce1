package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Summary maps a category name to the total amount spent in it.
// Categories without records are absent, never present with zero.
type Summary map[string]float64

// SummarizeByCategory sums amounts per exact category string.
// Accumulation is decimal so that e.g. 0.1+0.2 totals 0.3.
func SummarizeByCategory(expenses []Expense) Summary {
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(decimal.NewFromFloat(e.Amount))
	}

	out := make(Summary, len(totals))
	for category, total := range totals {
		out[category] = total.InexactFloat64()
	}
	return out
}

// Categories returns the summary's categories in ascending order.
func (s Summary) Categories() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
