package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dateLayout = "02/01/2006"

// Formatter renders money and dates for print.
type Formatter struct {
	Currency string
	printer  *message.Printer
}

// NewFormatter builds a Formatter using the given currency label.
func NewFormatter(currency string) Formatter {
	return Formatter{Currency: currency, printer: message.NewPrinter(language.English)}
}

// Money formats an amount with thousands grouping. Whole amounts drop the
// fractional part.
func (f Formatter) Money(amount decimal.Decimal) string {
	p := f.printer
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	amount = amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	whole := amount.Truncate(0)
	out := sign + p.Sprintf("%d", whole.IntPart())
	if frac := amount.Sub(whole); !frac.IsZero() {
		out += fmt.Sprintf(".%02d", frac.Mul(decimal.NewFromInt(100)).IntPart())
	}
	if f.Currency != "" {
		out += " " + f.Currency
	}
	return out
}

// Date formats a calendar date; the zero time gives "".
func (f Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// DateTime joins a date with an optional HH:MM time.
func (f Formatter) DateTime(t time.Time, clock string) string {
	d := f.Date(t)
	if clock = strings.TrimSpace(clock); clock != "" && d != "" {
		return d + " at " + clock
	}
	return d
}

// Days renders a day count with its unit.
func (f Formatter) Days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
