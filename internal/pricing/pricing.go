// Package pricing computes rental charges from a date range, a daily rate and
// an optional discount. Every function is pure.
package pricing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountKind identifies how a discount value is interpreted.
type DiscountKind string

const (
	DiscountNone       DiscountKind = "none"
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// ErrUnknownDiscountKind is returned when a discount kind cannot be parsed.
var ErrUnknownDiscountKind = errors.New("unknown discount kind")

var hundred = decimal.NewFromInt(100)

// MoneyPlaces is the number of decimal places stored for amounts.
const MoneyPlaces = 2

// IsMoney reports whether v fits the stored amount precision.
func IsMoney(v decimal.Decimal) bool {
	return v.Equal(v.Round(MoneyPlaces))
}

// ParseDiscountKind accepts the canonical kinds and the labels used by
// legacy forms. An empty string maps to DiscountNone.
func ParseDiscountKind(raw string) (DiscountKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none", "aucune":
		return DiscountNone, nil
	case "percentage", "percent", "pourcentage":
		return DiscountPercentage, nil
	case "fixed", "amount", "montant":
		return DiscountFixed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDiscountKind, raw)
	}
}

// Label returns a short human label.
func (k DiscountKind) Label() string {
	switch k {
	case DiscountPercentage:
		return "Percentage"
	case DiscountFixed:
		return "Fixed amount"
	default:
		return "None"
	}
}

const day = 24 * time.Hour

// NumberOfDays returns the billable days between start and end: any started
// day counts as a full day. Missing dates or a non-positive range give 0.
func NumberOfDays(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	// Compare wall clocks so a DST shift does not add or remove a day.
	diff := wallClock(end).Sub(wallClock(start))
	if diff <= 0 {
		return 0
	}
	days := int(diff / day)
	if diff%day != 0 {
		days++
	}
	return days
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Subtotal is days multiplied by the daily rate.
func Subtotal(days int, dailyRate decimal.Decimal) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return dailyRate.Mul(decimal.NewFromInt(int64(days)))
}

// DiscountAmount returns the raw discount. Percentages are applied to the
// subtotal without rounding; fixed amounts are returned as given even when
// they exceed the subtotal.
func DiscountAmount(kind DiscountKind, value, subtotal decimal.Decimal) decimal.Decimal {
	switch kind {
	case DiscountPercentage:
		return subtotal.Mul(value).Div(hundred)
	case DiscountFixed:
		return value
	default:
		return decimal.Zero
	}
}

// Total subtracts the discount from the subtotal and floors the result at 0.
func Total(subtotal, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// DisplayDiscount is the discount shown on reports: percentages are rounded
// to whole currency units and the amount never exceeds the subtotal.
func DisplayDiscount(kind DiscountKind, value, subtotal decimal.Decimal) decimal.Decimal {
	amount := DiscountAmount(kind, value, subtotal)
	if kind == DiscountPercentage {
		amount = amount.Round(0)
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Input carries the raw values a quote is computed from.
type Input struct {
	Start         time.Time
	End           time.Time
	DailyRate     decimal.Decimal
	DiscountKind  DiscountKind
	DiscountValue decimal.Decimal
}

// Breakdown is the full result of a pricing computation.
type Breakdown struct {
	Days          int             `json:"days"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountKind  DiscountKind    `json:"discount_kind"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
}

// HasDiscount reports whether a non-zero discount applies.
func (b Breakdown) HasDiscount() bool {
	return b.Discount.IsPositive()
}

// DiscountLabel describes the discount, e.g. "Discount (10%)".
func (b Breakdown) DiscountLabel() string {
	if b.DiscountKind == DiscountPercentage {
		return "Discount (" + b.DiscountValue.String() + "%)"
	}
	return "Discount"
}

// Quote computes the values persisted with a contract: the discount is not
// capped, it is rounded to MoneyPlaces, and the total is floored at 0. With
// inputs that satisfy IsMoney every output fits the stored precision.
func Quote(in Input) Breakdown {
	days := NumberOfDays(in.Start, in.End)
	subtotal := Subtotal(days, in.DailyRate)
	kind := normalizeKind(in.DiscountKind)
	discount := DiscountAmount(kind, in.DiscountValue, subtotal).Round(MoneyPlaces)
	return Breakdown{
		Days:          days,
		DailyRate:     in.DailyRate,
		Subtotal:      subtotal,
		DiscountKind:  kind,
		DiscountValue: in.DiscountValue,
		Discount:      discount,
		Total:         Total(subtotal, discount),
	}
}

// DisplayQuote computes the values shown on invoice listings, where the
// discount is capped at the subtotal.
func DisplayQuote(in Input) Breakdown {
	b := Quote(in)
	b.Discount = DisplayDiscount(b.DiscountKind, b.DiscountValue, b.Subtotal)
	b.Total = Total(b.Subtotal, b.Discount)
	return b
}

func normalizeKind(kind DiscountKind) DiscountKind {
	switch kind {
	case DiscountPercentage, DiscountFixed:
		return kind
	default:
		return DiscountNone
	}
}
