package venues

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository interface for venue operations
type Repository interface {
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, id int64) (*Venue, error)
	List(ctx context.Context) ([]Venue, error)
}

// repository implements Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new venue repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, venue *Venue) error {
	if err := r.db.WithContext(ctx).Create(venue).Error; err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Venue, error) {
	var venue Venue
	err := r.db.WithContext(ctx).First(&venue, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	return &venue, nil
}

func (r *repository) List(ctx context.Context) ([]Venue, error) {
	var list []Venue
	if err := r.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	return list, nil
}
