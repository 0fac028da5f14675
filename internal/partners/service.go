package partners

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/odyssey-erp/rentaldesk/internal/document"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
	"github.com/odyssey-erp/rentaldesk/internal/terms"
)

const (
	auditEntity       = "partner_contract"
	idempotencyModule = "partners"
)

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
	Terms       terms.Provider
	Builder     *document.Builder
	Audit       Auditor
	Idempotency Idempotency
	Region      string
	Logger      *slog.Logger
	Now         func() time.Time
}

type Service struct {
	repo        Repository
	terms       terms.Provider
	builder     *document.Builder
	audit       Auditor
	idempotency Idempotency
	region      string
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
		terms:       d.Terms,
		builder:     d.Builder,
		audit:       d.Audit,
		idempotency: d.Idempotency,
		region:      d.Region,
		logger:      d.Logger,
		now:         d.Now,
	}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Contract, int, error) {
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

func (s *Service) Create(ctx context.Context, in Input, idempotencyKey string) (Contract, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Contract{}, err
	}
	c, err := s.prepare(in)
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
		return Contract{}, fmt.Errorf("create partner contract: %w", err)
	}
	s.record(ctx, rootshared.ActionCreate, created.ID, map[string]any{"number": created.Number})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Contract, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Contract{}, err
	}
	if id <= 0 {
		return Contract{}, shared.ErrInvalidID
	}
	c, err := s.prepare(in)
	if err != nil {
		return Contract{}, err
	}
	updated, err := s.repo.Update(ctx, owner, id, c)
	if err != nil {
		return Contract{}, err
	}
	s.record(ctx, rootshared.ActionUpdate, id, map[string]any{"status": string(updated.Status)})
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

// ExpireOverdue marks active contracts that ended before today as expired
// and returns how many changed. It is not owner scoped.
func (s *Service) ExpireOverdue(ctx context.Context, today time.Time) (int64, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	n, err := s.repo.ExpireOverdue(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("expire partner contracts: %w", err)
	}
	if n > 0 {
		s.logger.Info("partner contracts expired", "count", n, "before", day.Format(time.DateOnly))
	}
	return n, nil
}

func (s *Service) prepare(in Input) (Contract, error) {
	if err := rootshared.Validate(in); err != nil {
		return Contract{}, err
	}
	phone, err := rootshared.NormalizePhone(in.Phone, s.region)
	if err != nil {
		return Contract{}, err
	}
	return in.toContract(phone)
}

// Subject maps a stored contract onto the document model input.
func (s *Service) Subject(ctx context.Context, id int64) (document.PartnerSubject, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return document.PartnerSubject{}, err
	}
	return document.PartnerSubject{
		ContractNumber:    c.Number,
		PartnerName:       c.PartnerName,
		ContactPerson:     c.ContactPerson,
		Phone:             c.Phone,
		Email:             c.Email,
		Address:           c.Address,
		PartnershipType:   c.PartnershipType.Label(),
		Status:            c.Status.Label(),
		Start:             c.StartDate,
		End:               c.EndDate,
		StartTime:         c.StartTime,
		EndTime:           c.EndTime,
		Amount:            c.Amount,
		Object:            c.Object,
		SpecialConditions: c.SpecialConditions,
	}, nil
}

func (s *Service) Document(ctx context.Context, id int64) (document.Document, error) {
	subject, err := s.Subject(ctx, id)
	if err != nil {
		return document.Document{}, err
	}
	return s.builder.BuildPartner(subject, s.terms.Terms(ctx), s.now()), nil
}

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
		s.logger.Warn("audit record failed", "error", err, "action", action, "partner_contract_id", id)
	}
}
