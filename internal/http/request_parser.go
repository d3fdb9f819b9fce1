package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"expensetracker/internal/core"
)

// Query parameter names.
const (
	paramStartDate = "startDate"
	paramEndDate   = "endDate"
	paramCategory  = "category"
)

const maxBodyBytes = 1 << 20

// badRequest marks input the transport rejects before reaching the service.
type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

func badRequestf(format string, args ...any) error {
	return &badRequest{msg: fmt.Sprintf(format, args...)}
}

func isBadRequest(err error) bool {
	var br *badRequest
	return errors.As(err, &br)
}

// requiredParam returns the raw value of a query parameter. Presence is what
// counts; an empty value is a valid category.
func requiredParam(q url.Values, name string) (string, error) {
	if !q.Has(name) {
		return "", badRequestf("missing query parameter %q", name)
	}
	return q.Get(name), nil
}

// requiredDate parses a YYYY-MM-DD query parameter.
func requiredDate(q url.Values, name string) (core.Date, error) {
	v, err := requiredParam(q, name)
	if err != nil {
		return core.Date{}, err
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, badRequestf("query parameter %q must be a date in YYYY-MM-DD format", name)
	}
	return d, nil
}

// dateRange reads startDate and endDate. No ordering check: an inverted
// range is passed on and matches nothing.
func dateRange(q url.Values) (start, end core.Date, err error) {
	if start, err = requiredDate(q, paramStartDate); err != nil {
		return core.Date{}, core.Date{}, err
	}
	if end, err = requiredDate(q, paramEndDate); err != nil {
		return core.Date{}, core.Date{}, err
	}
	return start, end, nil
}

// readExpense decodes the request body into an Expense.
func readExpense(w http.ResponseWriter, r *http.Request) (core.Expense, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return core.Expense{}, badRequestf("cannot read request body: %v", err)
	}
	e, err := decodeExpense(body)
	if err != nil {
		return core.Expense{}, &badRequest{msg: err.Error()}
	}
	return e, nil
}
