package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"expensetracker/internal/core"
)

// Wire field names of an expense.
const (
	fieldID       = "id"
	fieldTitle    = "title"
	fieldAmount   = "amount"
	fieldCategory = "category"
	fieldDate     = "date"
	fieldNotes    = "notes"
)

var errNotAnObject = errors.New("request body must be a JSON object")

// decodeExpense maps a request body onto an Expense field by field. An id in
// the body is ignored, unknown fields are ignored, and a missing, null or
// empty date leaves the date unset.
func decodeExpense(data []byte) (core.Expense, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return core.Expense{}, errNotAnObject
	}
	if raw == nil {
		return core.Expense{}, errNotAnObject
	}

	var e core.Expense
	var err error
	if e.Title, err = decodeString(raw, fieldTitle); err != nil {
		return core.Expense{}, err
	}
	if e.Amount, err = decodeNumber(raw, fieldAmount); err != nil {
		return core.Expense{}, err
	}
	if e.Category, err = decodeString(raw, fieldCategory); err != nil {
		return core.Expense{}, err
	}
	if e.Notes, err = decodeString(raw, fieldNotes); err != nil {
		return core.Expense{}, err
	}

	date, err := decodeString(raw, fieldDate)
	if err != nil {
		return core.Expense{}, err
	}
	if strings.TrimSpace(date) != "" {
		if e.Date, err = core.ParseDate(date); err != nil {
			return core.Expense{}, fmt.Errorf("field %q: %w", fieldDate, err)
		}
	}
	return e, nil
}

func decodeString(raw map[string]json.RawMessage, name string) (string, error) {
	v, ok := raw[name]
	if !ok || isNull(v) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", fmt.Errorf("field %q must be a string", name)
	}
	return s, nil
}

// decodeNumber accepts a JSON number or a string holding one.
func decodeNumber(raw map[string]json.RawMessage, name string) (float64, error) {
	v, ok := raw[name]
	if !ok || isNull(v) {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("field %q must be a number", name)
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}

// encodeExpense writes the record with a fixed field order. An unset date is
// written as null.
func encodeExpense(buf *bytes.Buffer, e core.Expense) {
	buf.WriteByte('{')
	writeKey(buf, fieldID, true)
	writeString(buf, e.ID)
	writeKey(buf, fieldTitle, false)
	writeString(buf, e.Title)
	writeKey(buf, fieldAmount, false)
	writeNumber(buf, e.Amount)
	writeKey(buf, fieldCategory, false)
	writeString(buf, e.Category)
	writeKey(buf, fieldDate, false)
	if e.Date.IsEmpty() {
		buf.WriteString("null")
	} else {
		writeString(buf, e.Date.String())
	}
	writeKey(buf, fieldNotes, false)
	writeString(buf, e.Notes)
	buf.WriteByte('}')
}

func marshalExpense(e core.Expense) []byte {
	var buf bytes.Buffer
	encodeExpense(&buf, e)
	return buf.Bytes()
}

// marshalExpenses always yields a JSON array, "[]" when empty.
func marshalExpenses(list []core.Expense) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range list {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodeExpense(&buf, e)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// marshalSummary writes category totals with keys in sorted order, "{}" when empty.
func marshalSummary(s core.Summary) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range s.Categories() {
		writeKey(&buf, cat, i == 0)
		writeNumber(&buf, s[cat])
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func writeKey(buf *bytes.Buffer, key string, first bool) {
	if !first {
		buf.WriteByte(',')
	}
	writeString(buf, key)
	buf.WriteByte(':')
}

func writeString(buf *bytes.Buffer, s string) {
	// Marshal of a string cannot fail.
	b, _ := json.Marshal(s)
	buf.Write(b)
}

func writeNumber(buf *bytes.Buffer, f float64) {
	buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
}
