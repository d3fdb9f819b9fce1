package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"expensetracker/internal/core"
)

const contentTypeJSON = "application/json"

// writeJSON sends an already encoded JSON body.
func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError sends {"status":N,"error":"..."}.
func writeError(w http.ResponseWriter, status int, message string) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeKey(&buf, "status", true)
	buf.WriteString(strconv.Itoa(status))
	writeKey(&buf, "error", false)
	writeString(&buf, message)
	buf.WriteByte('}')
	writeJSON(w, status, buf.Bytes())
}

// statusFor maps a handler error to its HTTP status and client message.
// Store faults never leak their cause.
func statusFor(err error) (int, string) {
	switch {
	case isBadRequest(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "expense not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
