package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", raw)
	require.NoError(t, err)
	return parsed
}

func dec(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestNumberOfDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"one week", date(t, "2024-06-06"), date(t, "2024-06-13"), 7},
		{"same instant", date(t, "2024-06-06"), date(t, "2024-06-06"), 0},
		{"end before start", date(t, "2024-06-13"), date(t, "2024-06-06"), 0},
		{"missing start", time.Time{}, date(t, "2024-06-06"), 0},
		{"missing end", date(t, "2024-06-06"), time.Time{}, 0},
		{"partial day rounds up", date(t, "2024-06-06"), date(t, "2024-06-06").Add(90 * time.Minute), 1},
		{"one day and a bit", date(t, "2024-06-06"), date(t, "2024-06-07").Add(time.Hour), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NumberOfDays(tt.start, tt.end))
		})
	}
}

func TestNumberOfDaysIgnoresDSTShift(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("timezone data unavailable")
	}
	start := time.Date(2024, 10, 26, 0, 0, 0, 0, loc)
	end := time.Date(2024, 10, 29, 0, 0, 0, 0, loc)
	assert.Equal(t, 3, NumberOfDays(start, end))
}

func TestDiscountAmount(t *testing.T) {
	assertDecimal(t, "17500", DiscountAmount(DiscountPercentage, dec("10"), dec("175000")))
	assertDecimal(t, "5000", DiscountAmount(DiscountFixed, dec("5000"), dec("1000")))
	assertDecimal(t, "0", DiscountAmount(DiscountNone, dec("10"), dec("175000")))
	assertDecimal(t, "0", DiscountAmount(DiscountKind("bogus"), dec("10"), dec("175000")))
	assertDecimal(t, "0.75", DiscountAmount(DiscountPercentage, dec("7.5"), dec("10")))
}

func TestTotalFloorsAtZero(t *testing.T) {
	assertDecimal(t, "157500", Total(dec("175000"), dec("17500")))
	assertDecimal(t, "0", Total(dec("1000"), dec("5000")))
	assertDecimal(t, "0", Total(dec("1000"), dec("1000")))
}

func TestQuote(t *testing.T) {
	in := Input{
		Start:     date(t, "2024-06-06"),
		End:       date(t, "2024-06-13"),
		DailyRate: dec("25000"),
	}

	t.Run("without discount", func(t *testing.T) {
		b := Quote(in)
		assert.Equal(t, 7, b.Days)
		assertDecimal(t, "175000", b.Subtotal)
		assertDecimal(t, "0", b.Discount)
		assertDecimal(t, "175000", b.Total)
		assert.False(t, b.HasDiscount())
		assert.Equal(t, DiscountNone, b.DiscountKind)
	})

	t.Run("ten percent", func(t *testing.T) {
		withDiscount := in
		withDiscount.DiscountKind = DiscountPercentage
		withDiscount.DiscountValue = dec("10")
		b := Quote(withDiscount)
		assertDecimal(t, "17500", b.Discount)
		assertDecimal(t, "157500", b.Total)
		assert.True(t, b.HasDiscount())
		assert.Equal(t, "Discount (10%)", b.DiscountLabel())
	})

	t.Run("fixed discount above subtotal", func(t *testing.T) {
		b := Quote(Input{
			Start:         date(t, "2024-06-06"),
			End:           date(t, "2024-06-07"),
			DailyRate:     dec("1000"),
			DiscountKind:  DiscountFixed,
			DiscountValue: dec("5000"),
		})
		assertDecimal(t, "1000", b.Subtotal)
		assertDecimal(t, "5000", b.Discount)
		assertDecimal(t, "0", b.Total)
		assert.Equal(t, "Discount", b.DiscountLabel())
	})

	t.Run("zero days", func(t *testing.T) {
		b := Quote(Input{Start: date(t, "2024-06-06"), End: date(t, "2024-06-06"), DailyRate: dec("25000")})
		assert.Equal(t, 0, b.Days)
		assertDecimal(t, "0", b.Subtotal)
		assertDecimal(t, "0", b.Total)
	})
}

func TestDisplayQuoteCapsDiscount(t *testing.T) {
	b := DisplayQuote(Input{
		Start:         date(t, "2024-06-06"),
		End:           date(t, "2024-06-07"),
		DailyRate:     dec("1000"),
		DiscountKind:  DiscountFixed,
		DiscountValue: dec("5000"),
	})
	assertDecimal(t, "1000", b.Discount)
	assertDecimal(t, "0", b.Total)

	rounded := DisplayQuote(Input{
		Start:         date(t, "2024-06-06"),
		End:           date(t, "2024-06-09"),
		DailyRate:     dec("333"),
		DiscountKind:  DiscountPercentage,
		DiscountValue: dec("15"),
	})
	// 999 * 15% = 149.85
	assertDecimal(t, "150", rounded.Discount)
	assertDecimal(t, "849", rounded.Total)
}

func TestParseDiscountKind(t *testing.T) {
	tests := map[string]DiscountKind{
		"":            DiscountNone,
		"none":        DiscountNone,
		"Aucune":      DiscountNone,
		"percentage":  DiscountPercentage,
		"pourcentage": DiscountPercentage,
		"fixed":       DiscountFixed,
		" montant ":   DiscountFixed,
	}
	for raw, want := range tests {
		got, err := ParseDiscountKind(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseDiscountKind("half")
	assert.ErrorIs(t, err, ErrUnknownDiscountKind)
}

func TestQuoteFitsStoredPrecision(t *testing.T) {
	in := Input{
		Start:         date(t, "2024-06-06"),
		End:           date(t, "2024-06-07"),
		DailyRate:     dec("333.33"),
		DiscountKind:  DiscountPercentage,
		DiscountValue: dec("15"),
	}
	b := Quote(in)
	assertDecimal(t, "50", b.Discount)
	assertDecimal(t, "283.33", b.Total)
	for _, v := range []decimal.Decimal{b.Subtotal, b.Discount, b.Total} {
		assert.True(t, IsMoney(v), v.String())
	}

	// Raw amounts stay unrounded.
	assertDecimal(t, "49.9995", DiscountAmount(DiscountPercentage, dec("15"), dec("333.33")))
}

func TestIsMoney(t *testing.T) {
	assert.True(t, IsMoney(dec("100")))
	assert.True(t, IsMoney(dec("100.05")))
	assert.True(t, IsMoney(dec("100.050")))
	assert.False(t, IsMoney(dec("100.005")))
}
