package tracker

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"

	"expensetracker/internal/core"
)

// SortField is the record attribute used as sort key. The zero value means unsorted.
type SortField string

// SortOrder is the direction applied when a sort field is set.
type SortOrder string

const (
	SortNone        SortField = ""
	SortDescription SortField = "description"
	SortCategory    SortField = "category"

	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortField accepts only the string fields that can be sorted on.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.TrimSpace(s)); f {
	case SortDescription, SortCategory:
		return f, nil
	default:
		return SortNone, ErrInvalidSortField
	}
}

// SortState is the (field, order) pair of the sort state machine.
type SortState struct {
	Field SortField
	Order SortOrder
}

// Toggle is the only transition of the sort state machine.
func (s SortState) Toggle(field SortField) SortState {
	if s.Field == field {
		if s.Order == Descending {
			return SortState{Field: field, Order: Ascending}
		}
		return SortState{Field: field, Order: Descending}
	}
	return SortState{Field: field, Order: Ascending}
}

// Active reports whether field is the current sort key.
func (s SortState) Active(field SortField) bool {
	return s.Field != SortNone && s.Field == field
}

// ViewState is the pure UI state fed to the derivation pipeline.
type ViewState struct {
	SearchTerm string
	Sort       SortState
}

// Filter keeps records whose description or category contains term,
// case-insensitively. An empty term keeps everything in order.
func Filter(records []core.Expense, term string) []core.Expense {
	out := make([]core.Expense, 0, len(records))
	if term == "" {
		return append(out, records...)
	}
	needle := strings.ToLower(term)
	for _, e := range records {
		if strings.Contains(strings.ToLower(e.Description), needle) ||
			strings.Contains(strings.ToLower(string(e.Category)), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Sort orders records in place by the state's field using the collator.
// The sort is stable and an unset field leaves the order unchanged.
func Sort(records []core.Expense, state SortState, c *collate.Collator) {
	if state.Field == SortNone {
		return
	}
	key := sortKey(state.Field)
	slices.SortStableFunc(records, func(a, b core.Expense) int {
		cmp := c.CompareString(key(a), key(b))
		if state.Order == Descending {
			return -cmp
		}
		return cmp
	})
}

// Derive filters then sorts, returning a fresh slice. Inputs are not modified.
func Derive(records []core.Expense, view ViewState, c *collate.Collator) []core.Expense {
	out := Filter(records, view.SearchTerm)
	Sort(out, view.Sort, c)
	return out
}

func sortKey(field SortField) func(core.Expense) string {
	switch field {
	case SortCategory:
		return func(e core.Expense) string { return string(e.Category) }
	default:
		return func(e core.Expense) string { return e.Description }
	}
}
