package queue

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// gormEventGate reads the gating flags straight off the events table so the
// queue package does not depend on the events package.
type gormEventGate struct {
	db *gorm.DB
}

var _ EventGate = (*gormEventGate)(nil)

func NewEventGate(db *gorm.DB) EventGate {
	return &gormEventGate{db: db}
}

func (g *gormEventGate) QueueGated(ctx context.Context, eventID int64) (bool, bool, error) {
	var row struct {
		IsHot        bool
		QueueEnabled bool
	}
	err := g.db.WithContext(ctx).
		Table("events").
		Select("is_hot", "queue_enabled").
		Where("id = ?", eventID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to load event gate flags: %w", err)
	}
	return row.IsHot || row.QueueEnabled, true, nil
}

type gormUserDirectory struct {
	db *gorm.DB
}

var _ UserDirectory = (*gormUserDirectory)(nil)

func NewUserDirectory(db *gorm.DB) UserDirectory {
	return &gormUserDirectory{db: db}
}

func (g *gormUserDirectory) IsActive(ctx context.Context, userID int64) (bool, bool, error) {
	var row struct {
		IsActive bool
	}
	err := g.db.WithContext(ctx).
		Table("users").
		Select("is_active").
		Where("id = ?", userID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to load user status: %w", err)
	}
	return row.IsActive, true, nil
}
