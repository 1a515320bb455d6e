package banners

import (
	"context"
	"errors"
	"time"

	"bookmate/internal/shared/config"
	"bookmate/internal/shared/constants"
	"bookmate/pkg/cache"
	"bookmate/pkg/logger"
)

var ErrBannerNotFound = errors.New("banner not found")

type Service interface {
	// ListActive returns the banners currently inside their display
	// window, in display order. Served from the read cache when warm.
	ListActive(ctx context.Context) ([]Banner, error)
	CreateBanner(ctx context.Context, req CreateBannerRequest) (*Banner, error)
	UpdateBanner(ctx context.Context, id int64, req UpdateBannerRequest) (*Banner, error)
	DeleteBanner(ctx context.Context, id int64) error
}

type service struct {
	repo  Repository
	cache cache.Service
	cfg   config.CacheConfig
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, cfg config.CacheConfig) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		cfg:   cfg,
		log:   logger.GetDefault(),
	}
}

func (s *service) ListActive(ctx context.Context) ([]Banner, error) {
	list := []Banner{}
	err := s.cache.GetOrSet(ctx, constants.KEY_BANNERS_ACTIVE, s.cfg.EventListTTL, func() (interface{}, error) {
		return s.repo.ListActive(ctx, time.Now())
	}, &list)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *service) CreateBanner(ctx context.Context, req CreateBannerRequest) (*Banner, error) {
	banner := &Banner{
		Title:       req.Title,
		ImageURL:    req.ImageURL,
		LinkURL:     req.LinkURL,
		EventID:     req.EventID,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		BannerOrder: req.BannerOrder,
		IsActive:    true,
	}
	if req.IsActive != nil {
		banner.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, banner); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return banner, nil
}

func (s *service) UpdateBanner(ctx context.Context, id int64, req UpdateBannerRequest) (*Banner, error) {
	banner, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if banner == nil {
		return nil, ErrBannerNotFound
	}

	applyBannerUpdate(banner, req)

	if err := s.repo.Update(ctx, banner); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return banner, nil
}

func (s *service) DeleteBanner(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBannerNotFound
	}

	s.invalidate(ctx)
	return nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, constants.KEY_BANNERS_ACTIVE); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate banner cache", "error", err)
	}
}

// applyBannerUpdate merges the non-nil request fields into the banner.
func applyBannerUpdate(banner *Banner, req UpdateBannerRequest) {
	if req.Title != nil {
		banner.Title = *req.Title
	}
	if req.ImageURL != nil {
		banner.ImageURL = *req.ImageURL
	}
	if req.LinkURL != nil {
		banner.LinkURL = req.LinkURL
	}
	if req.EventID != nil {
		banner.EventID = req.EventID
	}
	if req.StartsAt != nil {
		banner.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		banner.EndsAt = req.EndsAt
	}
	if req.BannerOrder != nil {
		banner.BannerOrder = *req.BannerOrder
	}
	if req.IsActive != nil {
		banner.IsActive = *req.IsActive
	}
}
