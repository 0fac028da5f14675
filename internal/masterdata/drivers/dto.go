package drivers

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Input is the create/update payload.
type Input struct {
	FirstName     string           `json:"first_name" validate:"required,max=100"`
	LastName      string           `json:"last_name" validate:"required,max=100"`
	Phone         string           `json:"phone" validate:"required,max=32"`
	LicenseNumber string           `json:"license_number" validate:"required,max=64"`
	DailyRate     *decimal.Decimal `json:"daily_rate"`
	Status        Status           `json:"status" validate:"omitempty,oneof=available busy"`
	Notes         string           `json:"notes" validate:"max=2000"`
}

func (in Input) toDriver(phone string) Driver {
	status := in.Status
	if status == "" {
		status = StatusAvailable
	}
	d := Driver{
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		Phone:         phone,
		LicenseNumber: strings.TrimSpace(in.LicenseNumber),
		Status:        status,
		Notes:         strings.TrimSpace(in.Notes),
	}
	if in.DailyRate != nil {
		d.DailyRate = decimal.NewNullDecimal(*in.DailyRate)
	}
	return d
}
