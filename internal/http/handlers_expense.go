package http

import (
	"net/http"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/session"
	"expensetracker/internal/tracker"
)

// draftFields are the form inputs that map onto core.Draft.
var draftFields = []string{"description", "amount", "category", "date"}

// handleCreateExpense commits the posted form. A rejected submission is a
// silent no-op: 204 keeps the form as the user left it.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	p := parseBody(w, r)
	if p == nil {
		return
	}

	var (
		expense core.Expense
		ok      bool
		form    formView
		count   int
	)
	sess.Do(func(t *tracker.Tracker) {
		draft := t.Draft()
		valid := true
		for _, name := range draftFields {
			if !p.Has(name) {
				continue
			}
			if err := draft.Set(name, p.Get(name)); err != nil {
				valid = false
			}
		}
		if !valid {
			for _, name := range draftFields {
				if p.Has(name) {
					_ = t.SetFormField(name, p.Get(name))
				}
			}
			return
		}

		expense, ok = t.AddExpense(draft)
		form = newFormView(t.Draft(), s.currency)
		count = t.Len()
	})

	if !ok {
		s.appMetrics.rejected()
		NewHTMXResponse().NoSwap().Write(w)
		return
	}

	s.appMetrics.created()
	s.structuredLogger.LogExpenseCreated(r.Context(), sess.ID(), expense.ID,
		expense.Description, expense.Amount.String(), expense.Category.String())

	body, err := s.renderTemplate(tmplForm, form)
	if err != nil {
		s.renderFailed(w, r, tmplForm, err)
		return
	}
	NewHTMXResponse().
		HTML(body).
		TriggerExpensesChanged(count).
		Write(w)
}

// handleDeleteExpense removes one record immediately and re-renders the
// results. Unknown ids leave the collection untouched.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id := sanitizeInput(r.PathValue("id"))

	var (
		removed bool
		view    resultsView
	)
	sess.Do(func(t *tracker.Tracker) {
		removed = t.DeleteExpense(id)
		view = newResultsView(t, s.currency)
	})

	if removed {
		s.appMetrics.deleted()
	}
	s.structuredLogger.LogExpenseDeleted(r.Context(), sess.ID(), id, removed)
	s.writeResults(w, r, view)
}

// handleDraft mirrors form edits into the session draft.
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	p := parseBody(w, r)
	if p == nil {
		return
	}

	var err error
	sess.Do(func(t *tracker.Tracker) {
		for _, name := range draftFields {
			if !p.Has(name) {
				continue
			}
			if setErr := t.SetFormField(name, p.Get(name)); setErr != nil {
				err = setErr
			}
		}
	})
	if err != nil {
		log.FromContextOr(r.Context(), s.logger).WarnContext(r.Context(), "Draft field rejected",
			log.NewFields().
				WithOperation(log.OpDraft).
				WithError(err).
				ToSlice()...)
		BadRequestError("Invalid form value").Write(w)
		return
	}
	NewHTMXResponse().NoSwap().Write(w)
}
