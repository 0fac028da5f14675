package rentals

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/rentaldesk/internal/pricing"
)

// Status is the lifecycle state of a rental contract.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Label is the capitalised status printed on documents.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// PendingNumber is stored on insert; the database trigger replaces it with
// the next CT-YYYY-NNNN number.
const PendingNumber = "PENDING"

// Contract is a stored rental contract. Days, Subtotal, DiscountAmount and
// Total are computed at save time and never recomputed on read.
type Contract struct {
	ID                 int64                `json:"id"`
	Number             string               `json:"number"`
	ClientID           int64                `json:"client_id"`
	VehicleID          int64                `json:"vehicle_id"`
	DriverID           *int64               `json:"driver_id,omitempty"`
	StartDate          time.Time            `json:"start_date"`
	EndDate            time.Time            `json:"end_date"`
	PickupTime         string               `json:"pickup_time,omitempty"`
	ReturnTime         string               `json:"return_time,omitempty"`
	DailyRate          decimal.Decimal      `json:"daily_rate"`
	DiscountKind       pricing.DiscountKind `json:"discount_kind"`
	DiscountValue      decimal.Decimal      `json:"discount_value"`
	Days               int                  `json:"days"`
	Subtotal           decimal.Decimal      `json:"subtotal"`
	DiscountAmount     decimal.Decimal      `json:"discount_amount"`
	Total              decimal.Decimal      `json:"total"`
	Deposit            decimal.Decimal      `json:"deposit"`
	Status             Status               `json:"status"`
	DepartureCondition string               `json:"departure_condition,omitempty"`
	ReturnCondition    string               `json:"return_condition,omitempty"`
	Notes              string               `json:"notes,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// PricingInput returns the raw pricing inputs of the contract.
func (c Contract) PricingInput() pricing.Input {
	return pricing.Input{
		Start:         c.StartDate,
		End:           c.EndDate,
		DailyRate:     c.DailyRate,
		DiscountKind:  c.DiscountKind,
		DiscountValue: c.DiscountValue,
	}
}

// applyQuote stores the computed pricing outputs on the contract.
func (c *Contract) applyQuote(q pricing.Breakdown) {
	c.DiscountKind = q.DiscountKind
	c.Days = q.Days
	c.Subtotal = q.Subtotal
	c.DiscountAmount = q.Discount
	c.Total = q.Total
}

// Summary is a list row with the display names of the related records.
type Summary struct {
	Contract
	ClientName   string `json:"client_name"`
	VehicleLabel string `json:"vehicle_label"`
	VehiclePlate string `json:"vehicle_plate"`
}
