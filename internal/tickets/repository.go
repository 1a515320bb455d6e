package tickets

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Repository interface {
	GetEventAccess(ctx context.Context, eventID int64) (*EventAccess, error)
	ScheduleBelongsToEvent(ctx context.Context, eventID, scheduleID int64) (bool, error)
	GetVenueSeatMap(ctx context.Context, venueID int64) (string, error)
	ListTickets(ctx context.Context, eventID int64, scheduleID *int64) ([]Ticket, error)
	ListSeatGrades(ctx context.Context, eventID int64, scheduleID *int64) ([]SeatGradeEntry, error)
	BookedTicketIDs(ctx context.Context, ticketIDs []int64) (map[int64]bool, error)
}

type repository struct {
	db *gorm.DB
}

var _ Repository = (*repository)(nil)

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetEventAccess(ctx context.Context, eventID int64) (*EventAccess, error) {
	var access EventAccess
	err := r.db.WithContext(ctx).
		Table("events").
		Select("id", "is_hot", "queue_enabled", "venue_id").
		Where("id = ?", eventID).
		Take(&access).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load event access: %w", err)
	}
	return &access, nil
}

func (r *repository) ScheduleBelongsToEvent(ctx context.Context, eventID, scheduleID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("schedules").
		Where("id = ? AND event_id = ?", scheduleID, eventID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check schedule: %w", err)
	}
	return count > 0, nil
}

func (r *repository) GetVenueSeatMap(ctx context.Context, venueID int64) (string, error) {
	var row struct {
		SeatMap string
	}
	err := r.db.WithContext(ctx).
		Table("venues").
		Select("seat_map").
		Where("id = ?", venueID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load venue seat map: %w", err)
	}
	return row.SeatMap, nil
}

// ListTickets returns materialized tickets for the event. With a schedule
// filter, tickets bound to that schedule and schedule-agnostic tickets both
// qualify.
func (r *repository) ListTickets(ctx context.Context, eventID int64, scheduleID *int64) ([]Ticket, error) {
	query := r.db.WithContext(ctx).Where("event_id = ?", eventID)
	if scheduleID != nil {
		query = query.Where("schedule_id = ? OR schedule_id IS NULL", *scheduleID)
	}

	var list []Ticket
	if err := query.Order("seat_row ASC, seat_number ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return list, nil
}

func (r *repository) ListSeatGrades(ctx context.Context, eventID int64, scheduleID *int64) ([]SeatGradeEntry, error) {
	query := r.db.WithContext(ctx).
		Table("seat_grades").
		Select("row_label", "grade", "price").
		Where("event_id = ?", eventID)
	if scheduleID != nil {
		query = query.Where("schedule_id IS NULL OR schedule_id = ?", *scheduleID)
	}

	var list []SeatGradeEntry
	if err := query.Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list seat grades: %w", err)
	}
	return list, nil
}

// BookedTicketIDs returns the subset of the given tickets that carry a live
// booking. Pending bookings block a seat the same as confirmed ones.
func (r *repository) BookedTicketIDs(ctx context.Context, ticketIDs []int64) (map[int64]bool, error) {
	booked := make(map[int64]bool, len(ticketIDs))
	if len(ticketIDs) == 0 {
		return booked, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).
		Table("bookings").
		Where("ticket_id IN ? AND status IN ?", ticketIDs, []string{"PENDING", "CONFIRMED"}).
		Pluck("ticket_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load booked tickets: %w", err)
	}

	for _, id := range ids {
		booked[id] = true
	}
	return booked, nil
}
