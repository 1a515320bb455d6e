package banners

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	ListActive(ctx context.Context, now time.Time) ([]Banner, error)
	GetByID(ctx context.Context, id int64) (*Banner, error)
	Create(ctx context.Context, banner *Banner) error
	Update(ctx context.Context, banner *Banner) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context, now time.Time) ([]Banner, error) {
	var list []Banner
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at >= ?", now).
		Order("banner_order ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active banners: %w", err)
	}
	return list, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Banner, error) {
	var banner Banner
	err := r.db.WithContext(ctx).First(&banner, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get banner: %w", err)
	}
	return &banner, nil
}

func (r *repository) Create(ctx context.Context, banner *Banner) error {
	if err := r.db.WithContext(ctx).Create(banner).Error; err != nil {
		return fmt.Errorf("failed to create banner: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, banner *Banner) error {
	if err := r.db.WithContext(ctx).Save(banner).Error; err != nil {
		return fmt.Errorf("failed to update banner: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&Banner{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete banner: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
