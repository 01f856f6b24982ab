package http

import (
	"net/http"

	"expensetracker/internal/log"
	"expensetracker/internal/session"
	"expensetracker/internal/tracker"
)

// handleResults re-renders the results region for the current view state.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var view resultsView
	sess.Do(func(t *tracker.Tracker) {
		view = newResultsView(t, s.currency)
	})
	s.writeResults(w, r, view)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	p := parseBody(w, r)
	if p == nil {
		return
	}
	term := p.Get("q")

	var view resultsView
	sess.Do(func(t *tracker.Tracker) {
		t.SetSearchTerm(term)
		view = newResultsView(t, s.currency)
	})

	log.FromContextOr(r.Context(), s.logger).DebugContext(r.Context(), "Search term updated",
		log.FieldOperation, log.OpSearch,
		log.FieldResultCount, len(view.Rows))
	s.writeResults(w, r, view)
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	field, err := tracker.ParseSortField(r.PathValue("field"))
	if err != nil {
		BadRequestError("Unknown sort field").Write(w)
		return
	}

	var (
		view  resultsView
		state tracker.SortState
	)
	sess.Do(func(t *tracker.Tracker) {
		// ParseSortField only yields fields ToggleSort accepts.
		_ = t.ToggleSort(field)
		state = t.Sort()
		view = newResultsView(t, s.currency)
	})

	log.FromContextOr(r.Context(), s.logger).DebugContext(r.Context(), "Sort toggled",
		log.NewFields().
			WithOperation(log.OpSort).
			WithSort(string(state.Field), string(state.Order)).
			ToSlice()...)
	s.writeResults(w, r, view)
}

func (s *Server) writeResults(w http.ResponseWriter, r *http.Request, view resultsView) {
	view.OutOfBand = true
	body, err := s.renderTemplate(tmplResults, view)
	if err != nil {
		s.renderFailed(w, r, tmplResults, err)
		return
	}
	NewHTMXResponse().HTML(body).Write(w)
}
