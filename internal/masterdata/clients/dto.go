package clients

import (
	"strings"
	"time"
)

// Input is the create/update payload. Dates use the yyyy-mm-dd form.
type Input struct {
	FirstName     string `json:"first_name" validate:"required,max=100"`
	LastName      string `json:"last_name" validate:"required,max=100"`
	Phone         string `json:"phone" validate:"required,max=32"`
	Email         string `json:"email" validate:"omitempty,email,max=254"`
	Address       string `json:"address" validate:"max=500"`
	LicenseNumber string `json:"license_number" validate:"max=64"`
	LicenseExpiry string `json:"license_expiry" validate:"omitempty,datetime=2006-01-02"`
	IDNumber      string `json:"id_number" validate:"max=64"`
	Notes         string `json:"notes" validate:"max=2000"`
}

func (in Input) toClient(phone string) Client {
	c := Client{
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		Phone:         phone,
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Address:       strings.TrimSpace(in.Address),
		LicenseNumber: strings.TrimSpace(in.LicenseNumber),
		IDNumber:      strings.TrimSpace(in.IDNumber),
		Notes:         strings.TrimSpace(in.Notes),
	}
	if in.LicenseExpiry != "" {
		if d, err := time.Parse(time.DateOnly, in.LicenseExpiry); err == nil {
			c.LicenseExpiry = &d
		}
	}
	return c
}
