package vehicles

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the availability of a vehicle.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusRented      Status = "rented"
	StatusMaintenance Status = "maintenance"
)

// Vehicle represents a fleet vehicle
type Vehicle struct {
	ID        int64           `json:"id"`
	Make      string          `json:"make"`
	Model     string          `json:"model"`
	Plate     string          `json:"plate"`
	Year      int             `json:"year,omitempty"`
	Colour    string          `json:"colour,omitempty"`
	FuelType  string          `json:"fuel_type,omitempty"`
	VIN       string          `json:"vin,omitempty"`
	DailyRate decimal.Decimal `json:"daily_rate"`
	Status    Status          `json:"status"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
