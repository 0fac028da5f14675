package drivers

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the availability of a driver.
type Status string

const (
	StatusAvailable Status = "available"
	StatusBusy      Status = "busy"
)

// Driver is a chauffeur who can be assigned to a rental.
type Driver struct {
	ID            int64               `json:"id"`
	FirstName     string              `json:"first_name"`
	LastName      string              `json:"last_name"`
	Phone         string              `json:"phone"`
	LicenseNumber string              `json:"license_number"`
	DailyRate     decimal.NullDecimal `json:"daily_rate"`
	Status        Status              `json:"status"`
	Notes         string              `json:"notes,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// FullName joins first and last name.
func (d Driver) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}
