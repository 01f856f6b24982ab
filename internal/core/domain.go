package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Entertainment  Category = "Entertainment"
	Utilities      Category = "Utilities"
	Other          Category = "Other"
)

// DateLayout is the ISO 8601 calendar date layout used for every date on the wire.
const DateLayout = "2006-01-02"

type (
	Category string

	Date struct {
		time.Time
	}

	// Expense is a committed record. It is never mutated after creation.
	Expense struct {
		ID          string
		Description string
		Amount      decimal.Decimal
		Category    Category
		Date        Date
	}

	// Draft is the pending new-record form. Amount and Date are kept as raw
	// text so partial input can be shown back to the user.
	Draft struct {
		Description string
		Amount      string
		Category    Category
		Date        string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidDate      = errors.New("invalid date")
	ErrUnknownField     = errors.New("unknown form field")
)

var categories = []Category{Food, Transportation, Entertainment, Utilities, Other}

// Categories returns the fixed category set in selector order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory accepts exactly the spellings of the fixed set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today truncates now to a calendar date in its own location.
func Today(now time.Time) Date {
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Validate checks the record invariants. The date is optional: a zero Date
// means none was entered.
func (e Expense) Validate() error {
	if e.Description == "" {
		return ErrEmptyDescription
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// NewDraft returns the form defaults: empty text, Food, and today's date.
func NewDraft(today Date) Draft {
	return Draft{Category: Food, Date: today.String()}
}

// Set updates a single draft field by its form name.
// Only the category is checked, since the selector is constrained to the enum.
func (d *Draft) Set(name, value string) error {
	switch name {
	case "description":
		d.Description = value
	case "amount":
		d.Amount = value
	case "category":
		c, err := ParseCategory(value)
		if err != nil {
			return err
		}
		d.Category = c
	case "date":
		d.Date = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Commit converts the draft into a record with the given id.
func (d Draft) Commit(id string) (Expense, error) {
	if d.Description == "" {
		return Expense{}, ErrEmptyDescription
	}
	amount, err := ParseAmount(d.Amount)
	if err != nil {
		return Expense{}, err
	}
	var date Date
	if strings.TrimSpace(d.Date) != "" {
		if date, err = ParseDate(d.Date); err != nil {
			return Expense{}, err
		}
	}
	e := Expense{
		ID:          id,
		Description: d.Description,
		Amount:      amount,
		Category:    d.Category,
		Date:        date,
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// SampleExpenses returns the records a fresh session starts with.
func SampleExpenses() []Expense {
	return []Expense{
		{ID: "1", Description: "Groceries", Amount: decimal.NewFromInt(50), Category: Food, Date: NewDate(2023, 5, 1)},
		{ID: "2", Description: "Electricity Bill", Amount: decimal.NewFromInt(80), Category: Utilities, Date: NewDate(2023, 5, 3)},
		{ID: "3", Description: "Movie Tickets", Amount: decimal.NewFromInt(25), Category: Entertainment, Date: NewDate(2023, 5, 5)},
	}
}
