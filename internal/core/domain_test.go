package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2024-01-02" {
		t.Fatalf("expected 2024-01-02, got %s", d.String())
	}

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip changed date: %s != %s", back, d)
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, in := range []string{"", "2024-13-01", "02-01-2024", "not a date"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Text:     "Coffee",
		Category: "Food",
		Amount:   decimal.NewFromInt(-50),
		Date:     NewDate(2024, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		tx   Transaction
		want error
	}{
		{"empty text", Transaction{Text: "  ", Date: NewDate(2024, 1, 1)}, ErrEmptyDescription},
		{"zero date", Transaction{Text: "a", Date: Date{Time: time.Time{}}}, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidationErrorsWrapCommonKind(t *testing.T) {
	for _, err := range []error{ErrEmptyUsername, ErrEmptyPassword, ErrEmptyDescription, ErrInvalidAmount, ErrInvalidDate, ErrInvalidBudget} {
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%v should wrap ErrValidation", err)
		}
	}
}

func TestNormalizedCategory(t *testing.T) {
	if got := (Transaction{Category: ""}).NormalizedCategory(); got != DefaultCategory {
		t.Fatalf("expected %q, got %q", DefaultCategory, got)
	}
	if got := (Transaction{Category: "Food"}).NormalizedCategory(); got != "Food" {
		t.Fatalf("expected Food, got %q", got)
	}
}

func TestBudgetValidate(t *testing.T) {
	if err := (Budget{Limit: decimal.NewFromInt(100)}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, v := range []int64{0, -5} {
		if err := (Budget{Limit: decimal.NewFromInt(v)}).Validate(); !errors.Is(err, ErrInvalidBudget) {
			t.Fatalf("limit %d expected ErrInvalidBudget", v)
		}
	}
}

func TestEvaluateBudget(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	alert := EvaluateBudget(nil, decimal.NewFromInt(9999))
	if alert.State != NoBudget {
		t.Fatalf("expected NoBudget, got %s", alert.State)
	}

	alert = EvaluateBudget(&hundred, decimal.NewFromInt(80))
	if alert.State != WithinBudget || !alert.Remaining.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected WithinBudget(20), got %s(%s)", alert.State, alert.Remaining)
	}

	alert = EvaluateBudget(&hundred, decimal.NewFromInt(120))
	if alert.State != Exceeded || !alert.Overage.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected Exceeded(20), got %s(%s)", alert.State, alert.Overage)
	}

	// spending exactly the limit is still within budget
	alert = EvaluateBudget(&hundred, hundred)
	if alert.State != WithinBudget || !alert.Remaining.IsZero() {
		t.Fatalf("expected WithinBudget(0), got %s(%s)", alert.State, alert.Remaining)
	}
}
