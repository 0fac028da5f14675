package rentals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/rentaldesk/internal/document"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/clients"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/drivers"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/vehicles"
	"github.com/odyssey-erp/rentaldesk/internal/pricing"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
	"github.com/odyssey-erp/rentaldesk/internal/terms"
)

const (
	auditEntity       = "rental_contract"
	idempotencyModule = "rentals"
)

// VehicleLookup resolves vehicles of the current owner.
type VehicleLookup interface {
	Get(ctx context.Context, id int64) (vehicles.Vehicle, error)
}

// ClientLookup resolves clients of the current owner.
type ClientLookup interface {
	Get(ctx context.Context, id int64) (clients.Client, error)
}

// DriverLookup resolves drivers of the current owner.
type DriverLookup interface {
	Get(ctx context.Context, id int64) (drivers.Driver, error)
}

// Auditor records audit trail entries.
type Auditor interface {
	Record(ctx context.Context, log rootshared.AuditLog) error
}

// Idempotency guards create requests carrying an Idempotency-Key.
type Idempotency interface {
	CheckAndInsert(ctx context.Context, ownerID, key, module string) error
	Delete(ctx context.Context, ownerID, key, module string) error
}

// Deps groups the collaborators of Service.
type Deps struct {
	Repo        Repository
	Vehicles    VehicleLookup
	Clients     ClientLookup
	Drivers     DriverLookup
	Terms       terms.Provider
	Builder     *document.Builder
	Audit       Auditor
	Idempotency Idempotency
	Logger      *slog.Logger
	Now         func() time.Time
}

type Service struct {
	repo        Repository
	vehicles    VehicleLookup
	clients     ClientLookup
	drivers     DriverLookup
	terms       terms.Provider
	builder     *document.Builder
	audit       Auditor
	idempotency Idempotency
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(d Deps) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Terms == nil {
		d.Terms = terms.Static(terms.Default())
	}
	return &Service{
		repo:        d.Repo,
		vehicles:    d.Vehicles,
		clients:     d.Clients,
		drivers:     d.Drivers,
		terms:       d.Terms,
		builder:     d.Builder,
		audit:       d.Audit,
		idempotency: d.Idempotency,
		logger:      d.Logger,
		now:         d.Now,
	}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Summary, int, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, owner, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Contract, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Contract{}, err
	}
	if id <= 0 {
		return Contract{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, owner, id)
}

// Quote previews the pricing of a prospective rental without saving it.
func (s *Service) Quote(ctx context.Context, in QuoteInput) (pricing.Breakdown, error) {
	if err := rootshared.Validate(in); err != nil {
		return pricing.Breakdown{}, err
	}
	start, end, err := parseDates(in.StartDate, in.EndDate)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	kind, err := parseDiscount(in.DiscountKind, in.DiscountValue)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	if err := checkAmounts(in.amounts()); err != nil {
		return pricing.Breakdown{}, err
	}
	rate, err := s.dailyRate(ctx, in.VehicleID, in.DailyRate)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	return pricing.Quote(pricing.Input{Start: start, End: end, DailyRate: rate, DiscountKind: kind, DiscountValue: in.DiscountValue}), nil
}

// Create stores a new contract with its pricing computed from the inputs.
// A repeated idempotency key fails with rootshared.ErrIdempotencyConflict.
func (s *Service) Create(ctx context.Context, in Input, idempotencyKey string) (Contract, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Contract{}, err
	}
	c, err := s.prepare(ctx, in, nil)
	if err != nil {
		return Contract{}, err
	}

	if idempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, owner, idempotencyKey, idempotencyModule); err != nil {
			return Contract{}, err
		}
	}
	created, err := s.repo.Create(ctx, owner, c)
	if err != nil {
		if idempotencyKey != "" && s.idempotency != nil {
			if delErr := s.idempotency.Delete(ctx, owner, idempotencyKey, idempotencyModule); delErr != nil {
				s.logger.Warn("release idempotency key failed", "error", delErr)
			}
		}
		return Contract{}, fmt.Errorf("create rental contract: %w", err)
	}

	s.record(ctx, rootshared.ActionCreate, created.ID, map[string]any{"number": created.Number, "total": created.Total.String()})
	return created, nil
}

// Update replaces the whole contract and recomputes its pricing. Without an
// explicit daily rate the stored snapshot is kept. The last write wins.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Contract, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Contract{}, err
	}
	if id <= 0 {
		return Contract{}, shared.ErrInvalidID
	}
	existing, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return Contract{}, err
	}
	c, err := s.prepare(ctx, in, &existing.DailyRate)
	if err != nil {
		return Contract{}, err
	}
	updated, err := s.repo.Update(ctx, owner, id, c)
	if err != nil {
		return Contract{}, fmt.Errorf("update rental contract: %w", err)
	}
	s.record(ctx, rootshared.ActionUpdate, id, map[string]any{"total": updated.Total.String()})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return err
	}
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return err
	}
	s.record(ctx, rootshared.ActionDelete, id, nil)
	return nil
}

// prepare validates in, checks the referenced records and computes pricing.
func (s *Service) prepare(ctx context.Context, in Input, storedRate *decimal.Decimal) (Contract, error) {
	p, err := in.parse()
	if err != nil {
		return Contract{}, err
	}
	if p.rate == nil {
		p.rate = storedRate
	}
	c := p.contract
	if _, err := s.clients.Get(ctx, c.ClientID); err != nil {
		return Contract{}, referenceError("client", err)
	}
	rate, err := s.dailyRate(ctx, c.VehicleID, p.rate)
	if err != nil {
		return Contract{}, err
	}
	if c.DriverID != nil {
		if _, err := s.drivers.Get(ctx, *c.DriverID); err != nil {
			return Contract{}, referenceError("driver", err)
		}
	}
	c.DailyRate = rate
	c.applyQuote(pricing.Quote(c.PricingInput()))
	return c, nil
}

// dailyRate returns the explicit rate or snapshots the vehicle's current one.
func (s *Service) dailyRate(ctx context.Context, vehicleID int64, explicit *decimal.Decimal) (decimal.Decimal, error) {
	if vehicleID > 0 {
		v, err := s.vehicles.Get(ctx, vehicleID)
		if err != nil {
			return decimal.Decimal{}, referenceError("vehicle", err)
		}
		if explicit == nil {
			return v.DailyRate, nil
		}
	}
	if explicit == nil {
		return decimal.Decimal{}, fmt.Errorf("%w: daily_rate or vehicle_id required", shared.ErrValidation)
	}
	return *explicit, nil
}

func referenceError(entity string, err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w: %s does not exist", shared.ErrValidation, entity)
	}
	return fmt.Errorf("load %s: %w", entity, err)
}

// Subject joins a stored contract with its client, vehicle and driver.
func (s *Service) Subject(ctx context.Context, id int64) (document.RentalSubject, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return document.RentalSubject{}, err
	}
	client, err := s.clients.Get(ctx, c.ClientID)
	if err != nil {
		return document.RentalSubject{}, fmt.Errorf("load client: %w", err)
	}
	vehicle, err := s.vehicles.Get(ctx, c.VehicleID)
	if err != nil {
		return document.RentalSubject{}, fmt.Errorf("load vehicle: %w", err)
	}

	subject := document.RentalSubject{
		ContractNumber:     c.Number,
		Status:             c.Status.Label(),
		Start:              c.StartDate,
		End:                c.EndDate,
		PickupTime:         c.PickupTime,
		ReturnTime:         c.ReturnTime,
		DailyRate:          c.DailyRate,
		DiscountKind:       c.DiscountKind,
		DiscountValue:      c.DiscountValue,
		Deposit:            c.Deposit,
		DepartureCondition: c.DepartureCondition,
		ReturnCondition:    c.ReturnCondition,
		Notes:              c.Notes,
		Client: document.Client{
			Name:          client.FullName(),
			Reference:     "C-" + strconv.FormatInt(client.ID, 10),
			Phone:         client.Phone,
			Email:         client.Email,
			Address:       client.Address,
			IDNumber:      client.IDNumber,
			LicenseNumber: client.LicenseNumber,
		},
		Vehicle: document.Vehicle{
			Make:   vehicle.Make,
			Model:  vehicle.Model,
			Year:   vehicle.Year,
			Plate:  vehicle.Plate,
			Colour: vehicle.Colour,
			VIN:    vehicle.VIN,
		},
	}
	if c.DriverID != nil {
		driver, err := s.drivers.Get(ctx, *c.DriverID)
		if err != nil {
			return document.RentalSubject{}, fmt.Errorf("load driver: %w", err)
		}
		subject.Driver = &document.Driver{Name: driver.FullName(), Phone: driver.Phone, LicenseNumber: driver.LicenseNumber}
	}
	return subject, nil
}

// Document builds the contract document with the owner's current terms.
func (s *Service) Document(ctx context.Context, id int64) (document.Document, error) {
	subject, err := s.Subject(ctx, id)
	if err != nil {
		return document.Document{}, err
	}
	return s.builder.BuildRental(subject, s.terms.Terms(ctx), s.now()), nil
}

// RecordDocument writes a document action to the audit log.
func (s *Service) RecordDocument(ctx context.Context, action string, id int64) {
	s.record(ctx, action, id, nil)
}

func (s *Service) record(ctx context.Context, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, rootshared.AuditLog{
		Action:   action,
		Entity:   auditEntity,
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
	})
	if err != nil {
		s.logger.Warn("audit record failed", "error", err, "action", action, "rental_id", id)
	}
}
