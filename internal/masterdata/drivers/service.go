package drivers

import (
	"context"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
)

type Service struct {
	repo   Repository
	region string
}

// NewService builds a driver service. region is the default phone region,
// e.g. "DZ".
func NewService(repo Repository, region string) *Service {
	return &Service{repo: repo, region: region}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Driver, int, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, owner, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Driver, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Driver{}, err
	}
	if id <= 0 {
		return Driver{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, owner, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Driver, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Driver{}, err
	}
	driver, err := s.prepare(in)
	if err != nil {
		return Driver{}, err
	}
	return s.repo.Create(ctx, owner, driver)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Driver, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Driver{}, err
	}
	if id <= 0 {
		return Driver{}, shared.ErrInvalidID
	}
	driver, err := s.prepare(in)
	if err != nil {
		return Driver{}, err
	}
	return s.repo.Update(ctx, owner, id, driver)
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
