package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
)

// ExpenseService is what the handlers need from the service layer.
type ExpenseService interface {
	Create(ctx context.Context, e core.Expense) (core.Expense, error)
	Get(ctx context.Context, id string) (core.Expense, error)
	ListOrdered(ctx context.Context) ([]core.Expense, error)
	FilterByDateRange(ctx context.Context, start, end core.Date) ([]core.Expense, error)
	FilterByCategory(ctx context.Context, category string) ([]core.Expense, error)
	FilterByDateRangeAndCategory(ctx context.Context, start, end core.Date, category string) ([]core.Expense, error)
	Summarize(ctx context.Context, start, end core.Date) (core.Summary, error)
	Update(ctx context.Context, id string, e core.Expense) (core.Expense, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// expenseRoutes registers the expense API on r. Static segments win over {id}.
func (s *Server) expenseRoutes(r chi.Router) {
	r.Get("/", s.handleList)
	r.Post("/", s.handleCreate)
	r.Get("/byDate", s.handleByDate)
	r.Get("/byCategory", s.handleByCategory)
	r.Get("/byDateAndCategory", s.handleByDateAndCategory)
	r.Get("/summary", s.handleSummary)
	r.Get("/{id}", s.handleGet)
	r.Put("/{id}", s.handleUpdate)
	r.Delete("/{id}", s.handleDelete)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.ListOrdered(r.Context())
	if err != nil {
		fail(w, r, applog.OpListOrdered, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Listed expenses", applog.FieldCount, len(list))
	writeJSON(w, http.StatusOK, marshalExpenses(list))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := s.svc.Get(r.Context(), id)
	if err != nil {
		fail(w, r, applog.OpRead, err, applog.FieldExpenseID, id)
		return
	}
	writeJSON(w, http.StatusOK, marshalExpense(e))
}

func (s *Server) handleByDate(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r.URL.Query())
	if err != nil {
		fail(w, r, applog.OpFilter, err)
		return
	}
	list, err := s.svc.FilterByDateRange(r.Context(), start, end)
	if err != nil {
		fail(w, r, applog.OpFilter, err, applog.FieldStartDate, start.String(), applog.FieldEndDate, end.String())
		return
	}
	writeJSON(w, http.StatusOK, marshalExpenses(list))
}

func (s *Server) handleByCategory(w http.ResponseWriter, r *http.Request) {
	category, err := requiredParam(r.URL.Query(), paramCategory)
	if err != nil {
		fail(w, r, applog.OpFilter, err)
		return
	}
	list, err := s.svc.FilterByCategory(r.Context(), category)
	if err != nil {
		fail(w, r, applog.OpFilter, err, applog.FieldCategory, category)
		return
	}
	writeJSON(w, http.StatusOK, marshalExpenses(list))
}

func (s *Server) handleByDateAndCategory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end, err := dateRange(q)
	if err != nil {
		fail(w, r, applog.OpFilter, err)
		return
	}
	category, err := requiredParam(q, paramCategory)
	if err != nil {
		fail(w, r, applog.OpFilter, err)
		return
	}
	list, err := s.svc.FilterByDateRangeAndCategory(r.Context(), start, end, category)
	if err != nil {
		fail(w, r, applog.OpFilter, err,
			applog.FieldStartDate, start.String(), applog.FieldEndDate, end.String(),
			applog.FieldCategory, category)
		return
	}
	writeJSON(w, http.StatusOK, marshalExpenses(list))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r.URL.Query())
	if err != nil {
		fail(w, r, applog.OpSummarize, err)
		return
	}
	summary, err := s.svc.Summarize(r.Context(), start, end)
	if err != nil {
		fail(w, r, applog.OpSummarize, err, applog.FieldStartDate, start.String(), applog.FieldEndDate, end.String())
		return
	}
	writeJSON(w, http.StatusOK, marshalSummary(summary))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	e, err := readExpense(w, r)
	if err != nil {
		fail(w, r, applog.OpCreate, err)
		return
	}
	saved, err := s.svc.Create(r.Context(), e)
	if err != nil {
		fail(w, r, applog.OpCreate, err)
		return
	}
	s.structured.LogExpenseStored(r.Context(), applog.OpCreate, saved.ID, saved.Title, saved.Amount, saved.Category, saved.Date.String())
	writeJSON(w, http.StatusCreated, marshalExpense(saved))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := readExpense(w, r)
	if err != nil {
		fail(w, r, applog.OpUpdate, err, applog.FieldExpenseID, id)
		return
	}
	saved, err := s.svc.Update(r.Context(), id, e)
	if err != nil {
		fail(w, r, applog.OpUpdate, err, applog.FieldExpenseID, id)
		return
	}
	s.structured.LogExpenseStored(r.Context(), applog.OpUpdate, saved.ID, saved.Title, saved.Amount, saved.Category, saved.Date.String())
	writeJSON(w, http.StatusOK, marshalExpense(saved))
}

// handleDelete answers 200 with an empty body.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.Delete(r.Context(), id); err != nil {
		fail(w, r, applog.OpDelete, err, applog.FieldExpenseID, id)
		return
	}
	w.WriteHeader(http.StatusOK)
}
