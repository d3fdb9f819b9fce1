package http

import (
	"net/http"

	applog "expensetracker/internal/log"
)

// fail answers a handler error and logs it at debug. Store faults are
// logged at error level by the service, and the trace middleware records
// the 5xx with the request id.
func fail(w http.ResponseWriter, r *http.Request, op string, err error, args ...any) {
	status, msg := statusFor(err)
	args = append(args,
		applog.FieldOperation, op,
		applog.FieldStatusCode, status,
		applog.FieldError, err)
	applog.FromContext(r.Context()).DebugContext(r.Context(), "Expense request failed", args...)
	writeError(w, status, msg)
}
