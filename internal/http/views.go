package http

import (
	"bytes"
	"fmt"

	"expensetracker/internal/core"
	"expensetracker/internal/tracker"
)

// Template names
const (
	tmplIndex   = "index.html"
	tmplForm    = "expense_form"
	tmplResults = "expense_results"
)

type (
	pageView struct {
		SearchTerm string
		Form       formView
		Results    resultsView
	}

	formView struct {
		Draft          core.Draft
		Categories     []categoryOption
		CurrencySymbol string
	}

	categoryOption struct {
		Value    string
		Selected bool
	}

	resultsView struct {
		SortButtons []sortButton
		Rows        []rowView
		// Total is the collection size before filtering.
		Total int
		// OutOfBand marks the sort buttons for an hx-swap-oob update when
		// the results are rendered as a partial.
		OutOfBand bool
	}

	sortButton struct {
		Field  string
		Label  string
		Glyph  string
		Active bool
	}

	rowView struct {
		ID          string
		Description string
		Amount      string
		Category    string
		Date        string
	}
)

var sortButtons = []struct {
	field tracker.SortField
	label string
}{
	{tracker.SortDescription, "Sort by Description"},
	{tracker.SortCategory, "Sort by Category"},
}

func newFormView(d core.Draft, symbol string) formView {
	cats := core.Categories()
	opts := make([]categoryOption, len(cats))
	for i, c := range cats {
		opts[i] = categoryOption{Value: c.String(), Selected: c == d.Category}
	}
	return formView{Draft: d, Categories: opts, CurrencySymbol: symbol}
}

func newResultsView(t *tracker.Tracker, symbol string) resultsView {
	state := t.Sort()
	buttons := make([]sortButton, len(sortButtons))
	for i, b := range sortButtons {
		btn := sortButton{Field: string(b.field), Label: b.label}
		if state.Active(b.field) {
			btn.Active = true
			btn.Glyph = "↑"
			if state.Order == tracker.Descending {
				btn.Glyph = "↓"
			}
		}
		buttons[i] = btn
	}

	derived := t.View()
	rows := make([]rowView, len(derived))
	for i, e := range derived {
		rows[i] = rowView{
			ID:          e.ID,
			Description: e.Description,
			Amount:      e.FormattedAmount(symbol),
			Category:    e.Category.String(),
			Date:        e.Date.String(),
		}
	}
	return resultsView{SortButtons: buttons, Rows: rows, Total: t.Len()}
}

func newPageView(t *tracker.Tracker, symbol string) pageView {
	return pageView{
		SearchTerm: t.SearchTerm(),
		Form:       newFormView(t.Draft(), symbol),
		Results:    newResultsView(t, symbol),
	}
}

// renderTemplate executes name into memory so a failed render never leaves
// a half-written response.
func (s *Server) renderTemplate(name string, data any) ([]byte, error) {
	if s.templates == nil {
		return nil, fmt.Errorf("render %s: templates not loaded", name)
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
