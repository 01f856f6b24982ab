package tracker

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

var fixedNow = func() time.Time { return time.Date(2023, 5, 6, 15, 4, 5, 0, time.UTC) }

func counterIDs() IDGenerator {
	n := 100
	return func() string {
		n++
		return strconv.Itoa(n)
	}
}

func newSampleTracker() *Tracker {
	return New(
		WithExpenses(core.SampleExpenses()),
		WithClock(fixedNow),
		WithIDGenerator(counterIDs()),
	)
}

func descriptions(records []core.Expense) []string {
	out := make([]string, len(records))
	for i, e := range records {
		out[i] = e.Description
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewInitialState(t *testing.T) {
	tr := New(WithClock(fixedNow))
	if tr.Len() != 0 {
		t.Fatalf("expected empty collection, got %d", tr.Len())
	}
	if got := tr.Sort(); got.Field != SortNone || got.Order != Ascending {
		t.Fatalf("initial sort = %+v, want (none, asc)", got)
	}
	if tr.SearchTerm() != "" {
		t.Fatalf("initial search term = %q", tr.SearchTerm())
	}
	want := core.Draft{Category: core.Food, Date: "2023-05-06"}
	if tr.Draft() != want {
		t.Fatalf("initial draft = %+v, want %+v", tr.Draft(), want)
	}
}

func TestAddExpense(t *testing.T) {
	tr := newSampleTracker()

	e, ok := tr.AddExpense(core.Draft{Description: "Coffee", Amount: "4.50", Category: core.Food, Date: "2023-05-06"})
	if !ok {
		t.Fatal("expected Coffee to be added")
	}
	if tr.Len() != 4 {
		t.Fatalf("collection size = %d, want 4", tr.Len())
	}
	if !e.Amount.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("amount = %s, want 4.5", e.Amount)
	}
	if e.Description != "Coffee" || e.Category != core.Food || e.Date.String() != "2023-05-06" {
		t.Fatalf("unexpected record: %+v", e)
	}
	last := tr.Expenses()[3]
	if last.ID != e.ID || last.ID != "101" {
		t.Fatalf("appended record id = %q, returned %q", last.ID, e.ID)
	}
	if tr.Draft() != core.NewDraft(core.NewDate(2023, 5, 6)) {
		t.Fatalf("draft not reset: %+v", tr.Draft())
	}
}

func TestAddExpenseRejected(t *testing.T) {
	cases := []struct {
		name  string
		draft core.Draft
	}{
		{"empty description", core.Draft{Description: "", Amount: "10", Category: core.Food, Date: "2023-05-06"}},
		{"empty amount", core.Draft{Description: "Taxi", Amount: "", Category: core.Transportation, Date: "2023-05-06"}},
		{"non-numeric amount", core.Draft{Description: "Taxi", Amount: "ten", Category: core.Transportation, Date: "2023-05-06"}},
		{"zero amount", core.Draft{Description: "Taxi", Amount: "0", Category: core.Transportation, Date: "2023-05-06"}},
		{"negative amount", core.Draft{Description: "Taxi", Amount: "-3", Category: core.Transportation, Date: "2023-05-06"}},
		{"unknown category", core.Draft{Description: "Taxi", Amount: "3", Category: "Travel", Date: "2023-05-06"}},
		{"malformed date", core.Draft{Description: "Taxi", Amount: "3", Category: core.Transportation, Date: "05/06/2023"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := newSampleTracker()
			before := tr.Expenses()
			if _, ok := tr.AddExpense(tc.draft); ok {
				t.Fatal("expected rejection")
			}
			after := tr.Expenses()
			if len(after) != len(before) {
				t.Fatalf("collection changed: %d -> %d", len(before), len(after))
			}
			if tr.Draft() != tc.draft {
				t.Fatalf("draft should retain entered values, got %+v", tr.Draft())
			}
		})
	}
}

func TestAddExpenseAcceptsLooseInput(t *testing.T) {
	cases := []struct {
		name       string
		draft      core.Draft
		wantAmount string
		wantDate   string
	}{
		{"exponent amount", core.Draft{Description: "Coffee", Amount: "1e3", Category: core.Food, Date: "2023-05-06"}, "1000", "2023-05-06"},
		{"signed amount", core.Draft{Description: "Coffee", Amount: "+2", Category: core.Food, Date: "2023-05-06"}, "2", "2023-05-06"},
		{"spaces-only description", core.Draft{Description: "   ", Amount: "10", Category: core.Food, Date: "2023-05-06"}, "10", "2023-05-06"},
		{"no date", core.Draft{Description: "Coffee", Amount: "4.50", Category: core.Food, Date: ""}, "4.5", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := newSampleTracker()
			e, ok := tr.AddExpense(tc.draft)
			if !ok {
				t.Fatal("expected the record to be added")
			}
			if tr.Len() != 4 {
				t.Fatalf("collection size = %d, want 4", tr.Len())
			}
			if !e.Amount.Equal(decimal.RequireFromString(tc.wantAmount)) {
				t.Errorf("amount = %s, want %s", e.Amount, tc.wantAmount)
			}
			if e.Description != tc.draft.Description {
				t.Errorf("description = %q, want %q", e.Description, tc.draft.Description)
			}
			if e.Date.String() != tc.wantDate {
				t.Errorf("date = %q, want %q", e.Date.String(), tc.wantDate)
			}
		})
	}
}

func TestSubmitUsesStoredDraft(t *testing.T) {
	tr := newSampleTracker()
	for name, value := range map[string]string{"description": "Bus", "amount": "2,10", "category": "Transportation"} {
		if err := tr.SetFormField(name, value); err != nil {
			t.Fatalf("SetFormField(%s): %v", name, err)
		}
	}
	e, ok := tr.Submit()
	if !ok {
		t.Fatal("expected submit to succeed")
	}
	if e.Category != core.Transportation || !e.Amount.Equal(decimal.RequireFromString("2.1")) || e.Date.String() != "2023-05-06" {
		t.Fatalf("unexpected record: %+v", e)
	}
}

func TestSetFormField(t *testing.T) {
	tr := newSampleTracker()
	if err := tr.SetFormField("amount", "12."); err != nil {
		t.Fatalf("partial amount should be stored: %v", err)
	}
	if tr.Draft().Amount != "12." {
		t.Fatalf("amount text = %q", tr.Draft().Amount)
	}
	if err := tr.SetFormField("id", "x"); !errors.Is(err, core.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := tr.SetFormField("category", "Rent"); !errors.Is(err, core.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if tr.Draft().Category != core.Food {
		t.Fatalf("category changed to %q", tr.Draft().Category)
	}
}

func TestUniqueIDsUnderRepeatingGenerator(t *testing.T) {
	calls := 0
	ids := []string{"1", "1", "2", "7"}
	tr := New(WithExpenses(core.SampleExpenses()), WithClock(fixedNow), WithIDGenerator(func() string {
		id := ids[calls]
		calls++
		return id
	}))
	e, ok := tr.AddExpense(core.Draft{Description: "Tea", Amount: "1", Category: core.Food, Date: "2023-05-06"})
	if !ok {
		t.Fatal("expected add")
	}
	if e.ID != "7" {
		t.Fatalf("expected first unused id 7, got %q", e.ID)
	}
}

func TestDefaultIDsAreDistinct(t *testing.T) {
	tr := New(WithClock(fixedNow))
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		e, ok := tr.AddExpense(core.Draft{Description: "x", Amount: "1", Category: core.Other, Date: "2023-05-06"})
		if !ok {
			t.Fatalf("add %d failed", i)
		}
		if seen[e.ID] {
			t.Fatalf("duplicate id %q after %d adds", e.ID, i)
		}
		seen[e.ID] = true
	}
}

func TestDeleteExpense(t *testing.T) {
	tr := newSampleTracker()
	if !tr.DeleteExpense("2") {
		t.Fatal("expected id 2 to be deleted")
	}
	if got := descriptions(tr.Expenses()); !equalStrings(got, []string{"Groceries", "Movie Tickets"}) {
		t.Fatalf("after delete: %v", got)
	}
	if tr.DeleteExpense("2") {
		t.Fatal("second delete of the same id must be a no-op")
	}
	if tr.DeleteExpense("missing") {
		t.Fatal("unknown id must be a no-op")
	}
	if tr.Len() != 2 {
		t.Fatalf("size = %d, want 2", tr.Len())
	}
}

func TestToggleSort(t *testing.T) {
	tr := newSampleTracker()

	if err := tr.ToggleSort("amount"); !errors.Is(err, ErrInvalidSortField) {
		t.Fatalf("expected ErrInvalidSortField, got %v", err)
	}
	if tr.Sort().Field != SortNone {
		t.Fatalf("invalid field must not change state")
	}

	steps := []struct {
		field SortField
		want  SortState
	}{
		{SortCategory, SortState{SortCategory, Ascending}},
		{SortCategory, SortState{SortCategory, Descending}},
		{SortDescription, SortState{SortDescription, Ascending}},
		{SortDescription, SortState{SortDescription, Descending}},
		{SortCategory, SortState{SortCategory, Ascending}},
		{SortCategory, SortState{SortCategory, Descending}},
		{SortCategory, SortState{SortCategory, Ascending}},
	}
	for i, step := range steps {
		if err := tr.ToggleSort(step.field); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if tr.Sort() != step.want {
			t.Fatalf("step %d: state = %+v, want %+v", i, tr.Sort(), step.want)
		}
	}
}

func TestSearchScenario(t *testing.T) {
	tr := newSampleTracker()

	tr.SetSearchTerm("bill")
	if got := descriptions(tr.View()); !equalStrings(got, []string{"Electricity Bill"}) {
		t.Fatalf(`search "bill" = %v`, got)
	}

	// "e" hits Electricity Bill, Movie Tickets and Entertainment; Groceries also
	// contains an "e".
	tr.SetSearchTerm("E")
	if got := descriptions(tr.View()); !equalStrings(got, []string{"Groceries", "Electricity Bill", "Movie Tickets"}) {
		t.Fatalf(`search "E" = %v`, got)
	}

	tr.SetSearchTerm("UTIL")
	if got := descriptions(tr.View()); !equalStrings(got, []string{"Electricity Bill"}) {
		t.Fatalf(`category search = %v`, got)
	}

	tr.SetSearchTerm("zzz")
	if got := tr.View(); len(got) != 0 {
		t.Fatalf("expected no results, got %v", descriptions(got))
	}
}

func TestSortScenario(t *testing.T) {
	tr := newSampleTracker()

	_ = tr.ToggleSort(SortCategory)
	asc := descriptions(tr.View())
	if !equalStrings(asc, []string{"Movie Tickets", "Groceries", "Electricity Bill"}) {
		t.Fatalf("category asc = %v", asc)
	}

	_ = tr.ToggleSort(SortCategory)
	desc := descriptions(tr.View())
	if !equalStrings(desc, []string{"Electricity Bill", "Groceries", "Movie Tickets"}) {
		t.Fatalf("category desc = %v", desc)
	}

	_ = tr.ToggleSort(SortDescription)
	if tr.Sort().Order != Ascending {
		t.Fatalf("switching field must reset to ascending")
	}
	if got := descriptions(tr.View()); !equalStrings(got, []string{"Electricity Bill", "Groceries", "Movie Tickets"}) {
		t.Fatalf("description asc = %v", got)
	}
}

func TestViewDoesNotMutateCollection(t *testing.T) {
	tr := newSampleTracker()
	_ = tr.ToggleSort(SortDescription)
	_ = tr.ToggleSort(SortDescription)
	_ = tr.View()
	if got := descriptions(tr.Expenses()); !equalStrings(got, []string{"Groceries", "Electricity Bill", "Movie Tickets"}) {
		t.Fatalf("insertion order changed: %v", got)
	}
}
