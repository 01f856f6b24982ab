package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDateString(t *testing.T) {
	if got := NewDate(2025, 1, 9).String(); got != "2025-01-09" {
		t.Fatalf("String() = %q", got)
	}
	if got := (Date{}).String(); got != "" {
		t.Fatalf("zero date String() = %q, want empty", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-05-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2023-05-06" {
		t.Fatalf("round trip got %q", d.String())
	}
	for _, bad := range []string{"", "06/05/2023", "2023-13-01", "yesterday"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestCategory(t *testing.T) {
	if len(Categories()) != 5 || Categories()[0] != Food || Categories()[4] != Other {
		t.Fatalf("unexpected category order: %v", Categories())
	}
	for _, c := range Categories() {
		if _, err := ParseCategory(string(c)); err != nil {
			t.Errorf("ParseCategory(%q): %v", c, err)
		}
	}
	for _, bad := range []string{"", "food", "Groceries"} {
		if _, err := ParseCategory(bad); err == nil {
			t.Errorf("ParseCategory(%q) expected error", bad)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		ID:          "x",
		Date:        NewDate(2025, 1, 1),
		Description: "ok",
		Amount:      decimal.NewFromInt(1),
		Category:    Food,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	goods := []Expense{
		good,
		{Date: Date{}, Description: "a", Amount: decimal.NewFromInt(1), Category: Food},
		{Date: NewDate(2025, 1, 1), Description: " ", Amount: decimal.NewFromInt(1), Category: Food},
	}
	for i, e := range goods {
		if err := e.Validate(); err != nil {
			t.Fatalf("good case %d: %v", i, err)
		}
	}

	bads := []Expense{
		{Date: NewDate(2025, 1, 1), Description: "", Amount: decimal.NewFromInt(1), Category: Food},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: decimal.Zero, Category: Food},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: decimal.NewFromInt(1), Category: "Rent"},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDraftSetAndCommit(t *testing.T) {
	d := NewDraft(NewDate(2023, 5, 6))
	if d.Category != Food || d.Date != "2023-05-06" || d.Description != "" || d.Amount != "" {
		t.Fatalf("unexpected defaults: %+v", d)
	}

	for name, value := range map[string]string{
		"description": "Coffee",
		"amount":      "4.50",
		"category":    "Other",
		"date":        "2023-05-07",
	} {
		if err := d.Set(name, value); err != nil {
			t.Fatalf("Set(%s): %v", name, err)
		}
	}
	if err := d.Set("colour", "red"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := d.Set("category", "Rent"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if d.Category != Other {
		t.Fatalf("rejected category must not change the draft, got %q", d.Category)
	}

	e, err := d.Commit("id-1")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if e.ID != "id-1" || e.Description != "Coffee" || !e.Amount.Equal(decimal.RequireFromString("4.5")) ||
		e.Category != Other || e.Date.String() != "2023-05-07" {
		t.Fatalf("unexpected record: %+v", e)
	}

	bad := d
	bad.Amount = "abc"
	if _, err := bad.Commit("id-2"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	bad = d
	bad.Description = ""
	if _, err := bad.Commit("id-3"); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	bad = d
	bad.Date = "07/05/2023"
	if _, err := bad.Commit("id-4"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	spaced := d
	spaced.Description = "  "
	spaced.Date = ""
	e, err = spaced.Commit("id-5")
	if err != nil {
		t.Fatalf("spaces-only description with no date should commit: %v", err)
	}
	if e.Description != "  " || !e.Date.IsZero() || e.Date.String() != "" {
		t.Fatalf("unexpected record: %+v", e)
	}
}

func TestSampleExpenses(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range SampleExpenses() {
		if err := e.Validate(); err != nil {
			t.Fatalf("sample %q invalid: %v", e.Description, err)
		}
		if seen[e.ID] {
			t.Fatalf("duplicate sample id %q", e.ID)
		}
		seen[e.ID] = true
	}
}
