package vehicles

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Input is the create/update payload.
type Input struct {
	Make      string          `json:"make" validate:"required,max=100"`
	Model     string          `json:"model" validate:"required,max=100"`
	Plate     string          `json:"plate" validate:"required,max=32"`
	Year      int             `json:"year" validate:"omitempty,min=1950,max=2100"`
	Colour    string          `json:"colour" validate:"max=50"`
	FuelType  string          `json:"fuel_type" validate:"omitempty,oneof=petrol diesel hybrid electric lpg"`
	VIN       string          `json:"vin" validate:"max=32"`
	DailyRate decimal.Decimal `json:"daily_rate"`
	Status    Status          `json:"status" validate:"omitempty,oneof=available rented maintenance"`
	Notes     string          `json:"notes" validate:"max=2000"`
}

func (in Input) toVehicle() Vehicle {
	status := in.Status
	if status == "" {
		status = StatusAvailable
	}
	return Vehicle{
		Make:      strings.TrimSpace(in.Make),
		Model:     strings.TrimSpace(in.Model),
		Plate:     strings.ToUpper(strings.TrimSpace(in.Plate)),
		Year:      in.Year,
		Colour:    strings.TrimSpace(in.Colour),
		FuelType:  in.FuelType,
		VIN:       strings.ToUpper(strings.TrimSpace(in.VIN)),
		DailyRate: in.DailyRate,
		Status:    status,
		Notes:     strings.TrimSpace(in.Notes),
	}
}
