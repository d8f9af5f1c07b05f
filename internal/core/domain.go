package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned to transactions created without a category.
const DefaultCategory = "Other"

type (
	// Date is a calendar day, serialized as YYYY-MM-DD.
	Date struct {
		time.Time
	}

	// Account is a registered user. The password is stored as given;
	// credential hashing is explicitly out of contract.
	Account struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// Session identifies the currently authenticated user.
	Session struct {
		Username string `json:"username"`
	}

	// Transaction is a single income or expense record. A positive
	// amount is income, a negative one an expense.
	Transaction struct {
		ID       int64           `json:"id"`
		Text     string          `json:"text"`
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
		Date     Date            `json:"date"`
	}

	// Budget is an optional per-user spending threshold.
	Budget struct {
		Owner string
		Limit decimal.Decimal
	}
)

var (
	ErrValidation = errors.New("validation failed")

	ErrEmptyUsername    = fmt.Errorf("%w: empty username", ErrValidation)
	ErrEmptyPassword    = fmt.Errorf("%w: empty password", ErrValidation)
	ErrEmptyDescription = fmt.Errorf("%w: empty description", ErrValidation)
	ErrInvalidAmount    = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidBudget    = fmt.Errorf("%w: budget must be greater than zero", ErrValidation)

	ErrDuplicateUser      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("transaction not found")
	ErrNoSession          = errors.New("no active session")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date truncated to a calendar day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate checks the fields a transaction must carry before it is
// persisted. The amount sign is unconstrained; zero is allowed.
func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Text)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Text) > 200 {
		return fmt.Errorf("%w: description too long (max 200 characters)", ErrValidation)
	}
	return t.Date.Validate()
}

// NormalizedCategory returns the category, falling back to
// DefaultCategory when empty.
func (t Transaction) NormalizedCategory() string {
	if strings.TrimSpace(t.Category) == "" {
		return DefaultCategory
	}
	return t.Category
}

func (b Budget) Validate() error {
	if b.Limit.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidBudget
	}
	return nil
}

// Validate checks signup input. Usernames are compared after trimming;
// matching stays case-sensitive.
func (a Account) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return ErrEmptyUsername
	}
	if a.Password == "" {
		return ErrEmptyPassword
	}
	return nil
}
