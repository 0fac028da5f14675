package rentals

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/pricing"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
)

// Input is the create/update payload. Update replaces the whole record.
type Input struct {
	ClientID           int64            `json:"client_id" validate:"required,gt=0"`
	VehicleID          int64            `json:"vehicle_id" validate:"required,gt=0"`
	WithDriver         bool             `json:"with_driver"`
	DriverID           *int64           `json:"driver_id" validate:"omitempty,gt=0"`
	StartDate          string           `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate            string           `json:"end_date" validate:"required,datetime=2006-01-02"`
	PickupTime         string           `json:"pickup_time" validate:"omitempty,datetime=15:04"`
	ReturnTime         string           `json:"return_time" validate:"omitempty,datetime=15:04"`
	DailyRate          *decimal.Decimal `json:"daily_rate"`
	DiscountKind       string           `json:"discount_kind"`
	DiscountValue      decimal.Decimal  `json:"discount_value"`
	Deposit            decimal.Decimal  `json:"deposit"`
	Status             Status           `json:"status" validate:"omitempty,oneof=active completed cancelled"`
	DepartureCondition string           `json:"departure_condition" validate:"max=2000"`
	ReturnCondition    string           `json:"return_condition" validate:"max=2000"`
	Notes              string           `json:"notes" validate:"max=4000"`
}

// QuoteInput is the payload of the pricing preview.
type QuoteInput struct {
	VehicleID     int64            `json:"vehicle_id" validate:"omitempty,gt=0"`
	StartDate     string           `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string           `json:"end_date" validate:"required,datetime=2006-01-02"`
	DailyRate     *decimal.Decimal `json:"daily_rate"`
	DiscountKind  string           `json:"discount_kind"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
}

var hundred = decimal.NewFromInt(100)

// parsed is an Input that passed boundary validation.
type parsed struct {
	contract Contract
	rate     *decimal.Decimal
}

func parseDates(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date: %v", shared.ErrValidation, err)
	}
	end, err := time.Parse(time.DateOnly, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date: %v", shared.ErrValidation, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date must not precede start_date", shared.ErrValidation)
	}
	return start, end, nil
}

// checkAmounts rejects values finer than the stored precision so that a
// contract recomputed from its stored inputs matches its stored totals.
func checkAmounts(amounts map[string]decimal.Decimal) error {
	for field, v := range amounts {
		if !pricing.IsMoney(v) {
			return fmt.Errorf("%w: %s allows at most %d decimal places", shared.ErrValidation, field, pricing.MoneyPlaces)
		}
	}
	return nil
}

func (in QuoteInput) amounts() map[string]decimal.Decimal {
	m := map[string]decimal.Decimal{"discount_value": in.DiscountValue}
	if in.DailyRate != nil {
		m["daily_rate"] = *in.DailyRate
	}
	return m
}

func parseDiscount(rawKind string, value decimal.Decimal) (pricing.DiscountKind, error) {
	kind, err := pricing.ParseDiscountKind(rawKind)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	if kind == pricing.DiscountNone {
		return kind, nil
	}
	if value.IsNegative() {
		return "", fmt.Errorf("%w: discount_value must not be negative", shared.ErrValidation)
	}
	if kind == pricing.DiscountPercentage && value.GreaterThan(hundred) {
		return "", fmt.Errorf("%w: percentage discount must be between 0 and 100", shared.ErrValidation)
	}
	return kind, nil
}

func (in Input) parse() (parsed, error) {
	if err := rootshared.Validate(in); err != nil {
		return parsed{}, err
	}
	start, end, err := parseDates(in.StartDate, in.EndDate)
	if err != nil {
		return parsed{}, err
	}
	kind, err := parseDiscount(in.DiscountKind, in.DiscountValue)
	if err != nil {
		return parsed{}, err
	}
	if in.DailyRate != nil && in.DailyRate.IsNegative() {
		return parsed{}, fmt.Errorf("%w: daily_rate must not be negative", shared.ErrValidation)
	}
	amounts := QuoteInput{DailyRate: in.DailyRate, DiscountValue: in.DiscountValue}.amounts()
	amounts["deposit"] = in.Deposit
	if err := checkAmounts(amounts); err != nil {
		return parsed{}, err
	}
	if in.Deposit.IsNegative() {
		return parsed{}, fmt.Errorf("%w: deposit must not be negative", shared.ErrValidation)
	}
	if in.WithDriver && in.DriverID == nil {
		return parsed{}, fmt.Errorf("%w: driver_id required for chauffeur rentals", shared.ErrValidation)
	}

	status := in.Status
	if status == "" {
		status = StatusActive
	}
	c := Contract{
		ClientID:           in.ClientID,
		VehicleID:          in.VehicleID,
		StartDate:          start,
		EndDate:            end,
		PickupTime:         in.PickupTime,
		ReturnTime:         in.ReturnTime,
		DiscountKind:       kind,
		Deposit:            in.Deposit,
		Status:             status,
		DepartureCondition: strings.TrimSpace(in.DepartureCondition),
		ReturnCondition:    strings.TrimSpace(in.ReturnCondition),
		Notes:              strings.TrimSpace(in.Notes),
	}
	if kind != pricing.DiscountNone {
		c.DiscountValue = in.DiscountValue
	}
	if in.WithDriver {
		c.DriverID = in.DriverID
	}
	return parsed{contract: c, rate: in.DailyRate}, nil
}
