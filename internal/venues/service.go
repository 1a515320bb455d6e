package venues

import (
	"context"
	"errors"
)

var (
	ErrVenueNotFound = errors.New("venue not found")
)

type Service interface {
	CreateVenue(ctx context.Context, req CreateVenueRequest) (*Venue, error)
	GetVenueByID(ctx context.Context, id int64) (*Venue, error)
	ListVenues(ctx context.Context) ([]Venue, error)
}

type service struct {
	repo Repository
}

// NewService creates a new venue service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateVenue(ctx context.Context, req CreateVenueRequest) (*Venue, error) {
	venue := &Venue{
		Name:    req.Name,
		Address: req.Address,
		SeatMap: req.SeatMap,
	}
	if err := s.repo.Create(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

func (s *service) GetVenueByID(ctx context.Context, id int64) (*Venue, error) {
	venue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if venue == nil {
		return nil, ErrVenueNotFound
	}
	return venue, nil
}

func (s *service) ListVenues(ctx context.Context) ([]Venue, error) {
	return s.repo.List(ctx)
}
