package partners

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is the closed set of partnership kinds.
type Type string

const (
	TypeSupplier          Type = "supplier"
	TypeCorporateClient   Type = "corporate-client"
	TypeInsurer           Type = "insurer"
	TypeMaintenance       Type = "maintenance"
	TypeCommercialPartner Type = "commercial-partner"
	TypeSubcontractor     Type = "subcontractor"
	TypeOther             Type = "other"
)

// Label is the wording printed on the agreement.
func (t Type) Label() string {
	switch t {
	case TypeSupplier:
		return "Supplier"
	case TypeCorporateClient:
		return "Corporate client"
	case TypeInsurer:
		return "Insurer"
	case TypeMaintenance:
		return "Maintenance"
	case TypeCommercialPartner:
		return "Commercial partner"
	case TypeSubcontractor:
		return "Subcontractor"
	case TypeOther:
		return "Other"
	default:
		return string(t)
	}
}

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusSuspended Status = "suspended"
	StatusCompleted Status = "completed"
)

func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusExpired:
		return "Expired"
	case StatusSuspended:
		return "Suspended"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// PendingNumber is replaced by the database trigger with PC-YYYY-NNNN.
const PendingNumber = "PENDING"

// Contract is a stored partnership agreement.
type Contract struct {
	ID                int64           `json:"id"`
	Number            string          `json:"number"`
	PartnerName       string          `json:"partner_name"`
	ContactPerson     string          `json:"contact_person,omitempty"`
	Email             string          `json:"email,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Address           string          `json:"address,omitempty"`
	PartnershipType   Type            `json:"partnership_type"`
	Object            string          `json:"object"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	StartTime         string          `json:"start_time,omitempty"`
	EndTime           string          `json:"end_time,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Status            Status          `json:"status"`
	SpecialConditions string          `json:"special_conditions,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
