package partners

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/pricing"
)

// Input is the create/update payload. Update replaces the whole record.
type Input struct {
	PartnerName       string          `json:"partner_name" validate:"required,max=200"`
	ContactPerson     string          `json:"contact_person" validate:"max=200"`
	Email             string          `json:"email" validate:"omitempty,email,max=254"`
	Phone             string          `json:"phone" validate:"max=32"`
	Address           string          `json:"address" validate:"max=500"`
	PartnershipType   Type            `json:"partnership_type" validate:"required,oneof=supplier corporate-client insurer maintenance commercial-partner subcontractor other"`
	Object            string          `json:"object" validate:"required,max=4000"`
	StartDate         string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate           string          `json:"end_date" validate:"required,datetime=2006-01-02"`
	StartTime         string          `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime           string          `json:"end_time" validate:"omitempty,datetime=15:04"`
	Amount            decimal.Decimal `json:"amount"`
	Status            Status          `json:"status" validate:"omitempty,oneof=active expired suspended completed"`
	SpecialConditions string          `json:"special_conditions" validate:"max=4000"`
}

func (in Input) toContract(phone string) (Contract, error) {
	if strings.TrimSpace(in.PartnerName) == "" || strings.TrimSpace(in.Object) == "" {
		return Contract{}, fmt.Errorf("%w: partner_name and object must not be blank", shared.ErrValidation)
	}
	start, err := time.Parse(time.DateOnly, in.StartDate)
	if err != nil {
		return Contract{}, fmt.Errorf("%w: start_date: %v", shared.ErrValidation, err)
	}
	end, err := time.Parse(time.DateOnly, in.EndDate)
	if err != nil {
		return Contract{}, fmt.Errorf("%w: end_date: %v", shared.ErrValidation, err)
	}
	if end.Before(start) {
		return Contract{}, fmt.Errorf("%w: end_date must not precede start_date", shared.ErrValidation)
	}
	if in.Amount.IsNegative() {
		return Contract{}, fmt.Errorf("%w: amount must not be negative", shared.ErrValidation)
	}
	if !pricing.IsMoney(in.Amount) {
		return Contract{}, fmt.Errorf("%w: amount allows at most %d decimal places", shared.ErrValidation, pricing.MoneyPlaces)
	}
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	return Contract{
		PartnerName:       strings.TrimSpace(in.PartnerName),
		ContactPerson:     strings.TrimSpace(in.ContactPerson),
		Email:             strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:             phone,
		Address:           strings.TrimSpace(in.Address),
		PartnershipType:   in.PartnershipType,
		Object:            strings.TrimSpace(in.Object),
		StartDate:         start,
		EndDate:           end,
		StartTime:         in.StartTime,
		EndTime:           in.EndTime,
		Amount:            in.Amount,
		Status:            status,
		SpecialConditions: strings.TrimSpace(in.SpecialConditions),
	}, nil
}
