package invoices

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/rentaldesk/internal/pricing"
)

// Filters narrows the invoice listing.
type Filters struct {
	From     *time.Time
	To       *time.Time
	Status   string
	ClientID int64
}

// Source is a stored rental contract with the raw pricing inputs.
type Source struct {
	ContractID     int64
	ContractNumber string
	ClientName     string
	VehicleLabel   string
	VehiclePlate   string
	StartDate      time.Time
	EndDate        time.Time
	DailyRate      decimal.Decimal
	DiscountKind   pricing.DiscountKind
	DiscountValue  decimal.Decimal
	Deposit        decimal.Decimal
	Status         string
}

// Row is one invoice line of the listing. Amounts use the display rules:
// percentage discounts are rounded and no discount exceeds the subtotal.
type Row struct {
	Number         string               `json:"number"`
	ContractID     int64                `json:"contract_id"`
	ContractNumber string               `json:"contract_number"`
	ClientName     string               `json:"client_name"`
	Vehicle        string               `json:"vehicle"`
	Start          time.Time            `json:"start_date"`
	End            time.Time            `json:"end_date"`
	Days           int                  `json:"days"`
	DailyRate      decimal.Decimal      `json:"daily_rate"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	DiscountKind   pricing.DiscountKind `json:"discount_kind"`
	Discount       decimal.Decimal      `json:"discount"`
	Total          decimal.Decimal      `json:"total"`
	Deposit        decimal.Decimal      `json:"deposit"`
	Status         string               `json:"status"`
}

// Totals sums the listing.
type Totals struct {
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

type Listing struct {
	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`
}
