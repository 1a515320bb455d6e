package events

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	GetDetailByID(ctx context.Context, id int64) (*Event, error)
	Update(ctx context.Context, event *Event) error
	List(ctx context.Context, skip, limit int) ([]Event, int64, error)
	CreateSchedule(ctx context.Context, schedule *EventSchedule) error
	GetScheduleByID(ctx context.Context, id int64) (*EventSchedule, error)
	CreateSeatGrade(ctx context.Context, grade *SeatGrade) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (r *repository) GetDetailByID(ctx context.Context, id int64) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Preload("Schedules", func(db *gorm.DB) *gorm.DB {
			return db.Order("schedules.start_at ASC")
		}).
		Preload("SeatGrades").
		First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event detail: %w", err)
	}
	return &event, nil
}

func (r *repository) Update(ctx context.Context, event *Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (r *repository) List(ctx context.Context, skip, limit int) ([]Event, int64, error) {
	var list []Event
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Event{})

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	err := db.Order("id DESC").
		Offset(skip).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	return list, totalCount, nil
}

func (r *repository) CreateSchedule(ctx context.Context, schedule *EventSchedule) error {
	if err := r.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (r *repository) GetScheduleByID(ctx context.Context, id int64) (*EventSchedule, error) {
	var schedule EventSchedule
	err := r.db.WithContext(ctx).First(&schedule, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

func (r *repository) CreateSeatGrade(ctx context.Context, grade *SeatGrade) error {
	if err := r.db.WithContext(ctx).Create(grade).Error; err != nil {
		return fmt.Errorf("failed to create seat grade: %w", err)
	}
	return nil
}
