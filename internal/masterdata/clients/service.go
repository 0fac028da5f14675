package clients

import (
	"context"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
)

type Service struct {
	repo   Repository
	region string
}

// NewService builds a client service. region is the default phone region,
// e.g. "DZ".
func NewService(repo Repository, region string) *Service {
	return &Service{repo: repo, region: region}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Client, int, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, owner, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Client, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Client{}, err
	}
	if id <= 0 {
		return Client{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, owner, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Client, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Client{}, err
	}
	client, err := s.prepare(in)
	if err != nil {
		return Client{}, err
	}
	return s.repo.Create(ctx, owner, client)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Client, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Client{}, err
	}
	if id <= 0 {
		return Client{}, shared.ErrInvalidID
	}
	client, err := s.prepare(in)
	if err != nil {
		return Client{}, err
	}
	return s.repo.Update(ctx, owner, id, client)
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
