package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookmate/internal/tickets"
)

// EventGateRow carries the event fields booking operations need.
type EventGateRow struct {
	ID           int64
	Title        string
	IsHot        bool
	QueueEnabled bool
}

// QueueGated reports whether bookings for this event require an admission token.
func (e *EventGateRow) QueueGated() bool {
	return e.IsHot || e.QueueEnabled
}

type Repository interface {
	GetEventGate(ctx context.Context, eventID int64) (*EventGateRow, error)
	ScheduleBelongsToEvent(ctx context.Context, eventID, scheduleID int64) (bool, error)
	// FindTicketIDBySeat resolves a seat position to its materialized
	// ticket id, preferring an exact schedule match over a
	// schedule-agnostic ticket.
	FindTicketIDBySeat(ctx context.Context, eventID int64, scheduleID *int64, row string, number int) (int64, bool, error)
	GetUserEmail(ctx context.Context, userID int64) (string, error)
	// CommitSeats runs the transactional phase of a purchase: materialize
	// missing tickets, re-check conflicts under row locks, insert one
	// booking per seat. All seats commit or none do.
	CommitSeats(ctx context.Context, userID int64, req CreateBookingRequest) ([]Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]userBookingRow, error)
}

type repository struct {
	db *gorm.DB
}

var _ Repository = (*repository)(nil)

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetEventGate(ctx context.Context, eventID int64) (*EventGateRow, error) {
	var row EventGateRow
	err := r.db.WithContext(ctx).
		Table("events").
		Select("id", "title", "is_hot", "queue_enabled").
		Where("id = ?", eventID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return &row, nil
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

func (r *repository) FindTicketIDBySeat(ctx context.Context, eventID int64, scheduleID *int64, row string, number int) (int64, bool, error) {
	query := r.db.WithContext(ctx).
		Table("tickets").
		Select("id").
		Where("event_id = ? AND seat_row = ? AND seat_number = ?", eventID, row, number)
	query = orderBySchedulePreference(query, scheduleID)

	var ticket struct {
		ID int64
	}
	err := query.Take(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to find ticket for seat %s-%d: %w", row, number, err)
	}
	return ticket.ID, true, nil
}

func (r *repository) GetUserEmail(ctx context.Context, userID int64) (string, error) {
	var row struct {
		Email string
	}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("email").
		Where("id = ?", userID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load user email: %w", err)
	}
	return row.Email, nil
}

func (r *repository) CommitSeats(ctx context.Context, userID int64, req CreateBookingRequest) ([]Booking, error) {
	// One transaction id ties the rows of a purchase together.
	transactionID := uuid.NewString()
	created := make([]Booking, 0, len(req.Seats))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, seat := range req.Seats {
			ticketID, found, err := lockTicketBySeat(tx, req.EventID, req.ScheduleID, seat.Row, seat.Number)
			if err != nil {
				return err
			}
			if !found {
				ticket := tickets.Ticket{
					EventID:     req.EventID,
					ScheduleID:  req.ScheduleID,
					SeatSection: seat.SeatSection,
					SeatRow:     seat.Row,
					SeatNumber:  seat.Number,
					Grade:       tickets.Grade(seat.Grade),
					Price:       seat.Price,
				}
				if err := tx.Create(&ticket).Error; err != nil {
					return fmt.Errorf("failed to create ticket for seat %s-%d: %w", seat.Row, seat.Number, err)
				}
				ticketID = ticket.ID
			}

			// Redis locks keep the happy path contention-free; this
			// re-check under the row lock is what actually prevents a
			// double sell when a lock expired mid-purchase.
			var conflicts int64
			err = tx.Model(&Booking{}).
				Where("ticket_id = ? AND status IN ?", ticketID, ActiveStatuses()).
				Count(&conflicts).Error
			if err != nil {
				return fmt.Errorf("failed to check seat availability: %w", err)
			}
			if conflicts > 0 {
				return fmt.Errorf("seat %s-%d: %w", seat.Row, seat.Number, ErrSeatAlreadyBooked)
			}

			booking := Booking{
				UserID:        userID,
				TicketID:      ticketID,
				ScheduleID:    req.ScheduleID,
				Status:        StatusPending,
				TotalPrice:    seat.Price,
				TransactionID: &transactionID,
			}
			if err := tx.Create(&booking).Error; err != nil {
				return fmt.Errorf("failed to create booking for seat %s-%d: %w", seat.Row, seat.Number, err)
			}
			created = append(created, booking)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]userBookingRow, error) {
	var rows []userBookingRow
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select(`bookings.id AS booking_id,
			events.id AS event_id,
			events.title AS event_title,
			COALESCE(venues.name, '') AS venue_name,
			COALESCE(schedules.start_at, (SELECT MIN(s2.start_at) FROM schedules s2 WHERE s2.event_id = events.id)) AS schedule_at,
			bookings.status AS status,
			bookings.total_price AS total_price,
			bookings.booked_at AS booked_at,
			bookings.transaction_id AS transaction_id,
			tickets.seat_row AS seat_row,
			tickets.seat_number AS seat_number,
			tickets.grade AS grade,
			tickets.price AS price`).
		Joins("JOIN tickets ON tickets.id = bookings.ticket_id").
		Joins("JOIN events ON events.id = tickets.event_id").
		Joins("LEFT JOIN venues ON venues.id = events.venue_id").
		Joins("LEFT JOIN schedules ON schedules.id = bookings.schedule_id").
		Where("bookings.user_id = ?", userID).
		Order("bookings.booked_at DESC, bookings.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	return rows, nil
}

// lockTicketBySeat takes a FOR UPDATE lock on the seat's ticket row if one
// exists, so concurrent purchases of the same seat serialize here.
func lockTicketBySeat(tx *gorm.DB, eventID int64, scheduleID *int64, row string, number int) (int64, bool, error) {
	query := tx.Table("tickets").
		Select("id").
		Where("event_id = ? AND seat_row = ? AND seat_number = ?", eventID, row, number)
	query = orderBySchedulePreference(query, scheduleID)

	var ticket struct {
		ID int64
	}
	err := query.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to lock ticket for seat %s-%d: %w", row, number, err)
	}
	return ticket.ID, true, nil
}

// orderBySchedulePreference narrows a ticket-by-seat query to the schedule,
// keeping schedule-agnostic tickets as fallback. Without a schedule the
// schedule-agnostic ticket wins.
func orderBySchedulePreference(query *gorm.DB, scheduleID *int64) *gorm.DB {
	if scheduleID != nil {
		return query.
			Where("schedule_id = ? OR schedule_id IS NULL", *scheduleID).
			Order("schedule_id ASC NULLS LAST")
	}
	return query.Order("schedule_id ASC NULLS FIRST")
}
