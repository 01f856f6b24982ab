// Package tracker holds the session-scoped expense state and the pure
// pipeline that derives the rendered list from it.
//
// A Tracker is not safe for concurrent use. Each one is owned by a single
// session that serializes every transition.
package tracker

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"expensetracker/internal/core"
)

var ErrInvalidSortField = errors.New("invalid sort field")

// IDGenerator returns a fresh record id on every call.
type IDGenerator func() string

// NewID returns a UUIDv7. Successive ids are time-ordered and never repeat
// within the process, even inside one clock tick.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Tracker is the single source of truth for one session.
type Tracker struct {
	expenses []core.Expense
	draft    core.Draft
	view     ViewState

	newID    IDGenerator
	now      func() time.Time
	collator *collate.Collator
}

// Option configures a Tracker.
type Option func(*Tracker)

func WithIDGenerator(gen IDGenerator) Option {
	return func(t *Tracker) { t.newID = gen }
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocale selects the collation used for locale-aware sorting.
func WithLocale(tag language.Tag) Option {
	return func(t *Tracker) { t.collator = collate.New(tag) }
}

// WithExpenses seeds the collection. Records keep their ids.
func WithExpenses(records []core.Expense) Option {
	return func(t *Tracker) { t.expenses = append([]core.Expense(nil), records...) }
}

// New returns a tracker in its initial state: unsorted, no search term,
// default draft.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		newID: NewID,
		now:   time.Now,
		view:  ViewState{Sort: SortState{Field: SortNone, Order: Ascending}},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.collator == nil {
		t.collator = collate.New(language.English)
	}
	t.draft = core.NewDraft(core.Today(t.now()))
	return t
}

// AddExpense commits draft as a new record. A draft with an empty description,
// an unusable amount or category, or a date that does not parse is rejected
// without any change. An empty date is allowed.
// On success the stored draft resets to its defaults.
func (t *Tracker) AddExpense(draft core.Draft) (core.Expense, bool) {
	e, err := draft.Commit("")
	if err != nil {
		t.draft = draft
		return core.Expense{}, false
	}
	e.ID = t.uniqueID()
	t.expenses = append(t.expenses, e)
	t.draft = core.NewDraft(core.Today(t.now()))
	return e, true
}

// Submit commits the stored draft.
func (t *Tracker) Submit() (core.Expense, bool) {
	return t.AddExpense(t.draft)
}

// DeleteExpense removes the record with id. Unknown ids are ignored.
func (t *Tracker) DeleteExpense(id string) bool {
	i := slices.IndexFunc(t.expenses, func(e core.Expense) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	t.expenses = slices.Delete(t.expenses, i, i+1)
	return true
}

func (t *Tracker) SetSearchTerm(text string) {
	t.view.SearchTerm = text
}

// SetFormField updates one draft field by its form name.
func (t *Tracker) SetFormField(name, value string) error {
	return t.draft.Set(name, value)
}

// ToggleSort flips the order when field is already active, otherwise it
// switches to field in ascending order.
func (t *Tracker) ToggleSort(field SortField) error {
	if field != SortDescription && field != SortCategory {
		return ErrInvalidSortField
	}
	t.view.Sort = t.view.Sort.Toggle(field)
	return nil
}

// View runs the derivation pipeline over the current state.
func (t *Tracker) View() []core.Expense {
	return Derive(t.expenses, t.view, t.collator)
}

// Expenses returns the collection in insertion order.
func (t *Tracker) Expenses() []core.Expense {
	return append([]core.Expense(nil), t.expenses...)
}

func (t *Tracker) Len() int { return len(t.expenses) }
func (t *Tracker) Draft() core.Draft { return t.draft }
func (t *Tracker) SearchTerm() string { return t.view.SearchTerm }
func (t *Tracker) Sort() SortState { return t.view.Sort }

// uniqueID draws ids until one is unused, so an injected generator that
// repeats cannot break the unique-id invariant.
func (t *Tracker) uniqueID() string {
	for {
		id := t.newID()
		if !slices.ContainsFunc(t.expenses, func(e core.Expense) bool { return e.ID == id }) {
			return id
		}
	}
}
