package vehicles

import (
	"context"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Vehicle, int, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, owner, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Vehicle, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Vehicle{}, err
	}
	if id <= 0 {
		return Vehicle{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, owner, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Vehicle, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Vehicle{}, err
	}
	if err := s.validate(in); err != nil {
		return Vehicle{}, err
	}
	return s.repo.Create(ctx, owner, in.toVehicle())
}

// Update replaces the whole record.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Vehicle, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Vehicle{}, err
	}
	if id <= 0 {
		return Vehicle{}, shared.ErrInvalidID
	}
	if err := s.validate(in); err != nil {
		return Vehicle{}, err
	}
	return s.repo.Update(ctx, owner, id, in.toVehicle())
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return err
	}
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, owner, id)
}
