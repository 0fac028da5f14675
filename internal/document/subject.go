package document

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/rentaldesk/internal/pricing"
)

// Subject is the data a document is built from: RentalSubject or
// PartnerSubject.
type Subject interface {
	kind() Kind
}

// RentalSubject is a rental contract joined with its client, vehicle and
// optional driver.
type RentalSubject struct {
	ContractNumber     string
	Status             string
	Start              time.Time
	End                time.Time
	PickupTime         string
	ReturnTime         string
	DailyRate          decimal.Decimal
	DiscountKind       pricing.DiscountKind
	DiscountValue      decimal.Decimal
	Deposit            decimal.Decimal
	DepartureCondition string
	ReturnCondition    string
	Notes              string
	Client             Client
	Vehicle            Vehicle
	Driver             *Driver
}

func (RentalSubject) kind() Kind { return KindRental }

// Quote recomputes the pricing breakdown printed on the contract.
func (s RentalSubject) Quote() pricing.Breakdown {
	return pricing.Quote(pricing.Input{
		Start:         s.Start,
		End:           s.End,
		DailyRate:     s.DailyRate,
		DiscountKind:  s.DiscountKind,
		DiscountValue: s.DiscountValue,
	})
}

// Client is the tenant.
type Client struct {
	Name          string
	Reference     string
	Phone         string
	Email         string
	Address       string
	IDNumber      string
	LicenseNumber string
}

// Vehicle is the rented car.
type Vehicle struct {
	Make   string
	Model  string
	Year   int
	Plate  string
	Colour string
	VIN    string
}

// Label is "Make Model" without stray spaces.
func (v Vehicle) Label() string {
	return joinNonEmpty(" ", v.Make, v.Model)
}

// Driver is the chauffeur supplied with the vehicle.
type Driver struct {
	Name          string
	Phone         string
	LicenseNumber string
}

// PartnerSubject is a partner agreement.
type PartnerSubject struct {
	ContractNumber    string
	PartnerName       string
	ContactPerson     string
	Phone             string
	Email             string
	Address           string
	PartnershipType   string
	Status            string
	Start             time.Time
	End               time.Time
	StartTime         string
	EndTime           string
	Amount            decimal.Decimal
	Object            string
	SpecialConditions string
}

func (PartnerSubject) kind() Kind { return KindPartner }
