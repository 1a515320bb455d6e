package bookings

import (
	"context"
	"errors"
	"fmt"

	"bookmate/internal/shared/constants"
	"bookmate/pkg/logger"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrScheduleNotFound   = errors.New("schedule not found for this event")
	ErrQueueTokenRequired = errors.New("a valid queue token is required for this event")
	ErrSeatHeldByOther    = errors.New("seat is locked by another user")
	ErrSeatAlreadyBooked  = errors.New("seat is already booked")
)

// LockManager grants short-lived exclusive holds on ticket ids.
type LockManager interface {
	TryLock(ctx context.Context, ticketID, userID int64) (bool, error)
	Owner(ctx context.Context, ticketID int64) (int64, bool, error)
	Unlock(ctx context.Context, ticketID, userID int64) (bool, error)
}

// TokenValidator checks queue admission tokens.
type TokenValidator interface {
	ValidateToken(ctx context.Context, eventID, userID int64, token string) (bool, error)
}

// CacheInvalidator drops cached seat projections after seat state changes.
type CacheInvalidator interface {
	DeletePattern(ctx context.Context, pattern string) error
}

// ConfirmationPublisher hands confirmed purchases to the notification
// pipeline. Implementations must not block on delivery.
type ConfirmationPublisher interface {
	PublishBookingConfirmed(ctx context.Context, userID int64, email, reservationNumber, eventTitle string, seats []string, totalPrice int64) error
}

type Service interface {
	// LockSeats takes short-lived holds on the requested seats. A seat
	// held by someone else fails the whole request with no holds kept.
	LockSeats(ctx context.Context, userID int64, queueToken string, req LockSeatsRequest) (*LockSeatsResponse, error)
	// CreateBookings runs the full purchase: verify or take holds on
	// every seat, then commit all bookings in one transaction.
	CreateBookings(ctx context.Context, userID int64, queueToken string, req CreateBookingRequest) ([]BookingResponse, error)
	// MyBookings lists the caller's purchases newest first, seats of the
	// same purchase grouped into one reservation.
	MyBookings(ctx context.Context, userID int64) ([]UserBookingGroup, error)
}

type service struct {
	repo     Repository
	locks    LockManager
	tokens   TokenValidator
	cache    CacheInvalidator
	notifier ConfirmationPublisher
	log      *logger.Logger
}

func NewService(repo Repository, locks LockManager, tokens TokenValidator, cacheInvalidator CacheInvalidator, notifier ConfirmationPublisher) Service {
	return &service{
		repo:     repo,
		locks:    locks,
		tokens:   tokens,
		cache:    cacheInvalidator,
		notifier: notifier,
		log:      logger.GetDefault(),
	}
}

func (s *service) LockSeats(ctx context.Context, userID int64, queueToken string, req LockSeatsRequest) (*LockSeatsResponse, error) {
	if _, err := s.checkAccess(ctx, req.EventID, req.ScheduleID, userID, queueToken); err != nil {
		return nil, err
	}

	locked := make([]LockedSeat, 0, len(req.Seats))
	acquired := make([]int64, 0, len(req.Seats))

	for _, seat := range req.Seats {
		ticketID, err := s.resolveTicketID(ctx, req.EventID, req.ScheduleID, seat.Row, seat.Number)
		if err != nil {
			s.releaseLocks(ctx, acquired, userID)
			return nil, err
		}

		ok, err := s.locks.TryLock(ctx, ticketID, userID)
		if err != nil {
			s.releaseLocks(ctx, acquired, userID)
			return nil, err
		}
		if !ok {
			owner, held, err := s.locks.Owner(ctx, ticketID)
			if err != nil {
				s.releaseLocks(ctx, acquired, userID)
				return nil, err
			}
			if held && owner == userID {
				// Already ours from an earlier call, keep the hold.
				locked = append(locked, LockedSeat{Row: seat.Row, Number: seat.Number, TicketID: ticketID})
				continue
			}
			s.releaseLocks(ctx, acquired, userID)
			return &LockSeatsResponse{
				Success:     false,
				Message:     fmt.Sprintf("Seat %s-%d is already locked by another user", seat.Row, seat.Number),
				LockedSeats: []LockedSeat{},
			}, nil
		}
		acquired = append(acquired, ticketID)
		locked = append(locked, LockedSeat{Row: seat.Row, Number: seat.Number, TicketID: ticketID})
	}

	return &LockSeatsResponse{
		Success:     true,
		Message:     fmt.Sprintf("%d seat(s) locked successfully", len(locked)),
		LockedSeats: locked,
	}, nil
}

func (s *service) CreateBookings(ctx context.Context, userID int64, queueToken string, req CreateBookingRequest) ([]BookingResponse, error) {
	gate, err := s.checkAccess(ctx, req.EventID, req.ScheduleID, userID, queueToken)
	if err != nil {
		return nil, err
	}

	// Phase 1: every seat must be held by this user before touching the
	// database. Locks taken in this call are released on every exit path;
	// holds taken earlier through LockSeats stay until their TTL.
	acquired := make([]int64, 0, len(req.Seats))
	defer func() {
		s.releaseLocks(ctx, acquired, userID)
	}()

	for _, seat := range req.Seats {
		ticketID, err := s.resolveTicketID(ctx, req.EventID, req.ScheduleID, seat.Row, seat.Number)
		if err != nil {
			return nil, err
		}

		owner, held, err := s.locks.Owner(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if held && owner != userID {
			return nil, fmt.Errorf("seat %s-%d: %w", seat.Row, seat.Number, ErrSeatHeldByOther)
		}
		if !held {
			ok, err := s.locks.TryLock(ctx, ticketID, userID)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("seat %s-%d: %w", seat.Row, seat.Number, ErrSeatHeldByOther)
			}
			acquired = append(acquired, ticketID)
		}
	}

	// Phase 2: the transactional commit re-checks every seat under row
	// locks, so an expired hold can never turn into a double sell.
	created, err := s.repo.CommitSeats(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	var txID string
	if len(created) > 0 && created[0].TransactionID != nil {
		txID = *created[0].TransactionID
	}
	s.log.LogBookingCreated(ctx, txID, req.EventID, userID, len(created))

	s.invalidateSeatCaches(ctx, req.EventID)
	s.publishConfirmation(ctx, userID, gate.Title, created, req)

	responses := make([]BookingResponse, 0, len(created))
	for i := range created {
		responses = append(responses, created[i].ToResponse())
	}
	return responses, nil
}

func (s *service) MyBookings(ctx context.Context, userID int64) ([]UserBookingGroup, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return groupUserBookings(rows), nil
}

// checkAccess runs the shared precondition chain: event exists, queue gate
// satisfied, schedule belongs to the event.
func (s *service) checkAccess(ctx context.Context, eventID int64, scheduleID *int64, userID int64, queueToken string) (*EventGateRow, error) {
	gate, err := s.repo.GetEventGate(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if gate == nil {
		return nil, ErrEventNotFound
	}

	if gate.QueueGated() {
		ok, err := s.tokens.ValidateToken(ctx, eventID, userID, queueToken)
		if err != nil {
			return nil, fmt.Errorf("failed to validate queue token: %w", err)
		}
		if !ok {
			return nil, ErrQueueTokenRequired
		}
	}

	if scheduleID != nil {
		ok, err := s.repo.ScheduleBelongsToEvent(ctx, eventID, *scheduleID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrScheduleNotFound
		}
	}
	return gate, nil
}

func (s *service) resolveTicketID(ctx context.Context, eventID int64, scheduleID *int64, row string, number int) (int64, error) {
	id, found, err := s.repo.FindTicketIDBySeat(ctx, eventID, scheduleID, row, number)
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}
	// No ticket row yet, lock on the synthetic id derived from the seat
	// position instead.
	return SyntheticTicketID(eventID, scheduleID, row, number), nil
}

func (s *service) releaseLocks(ctx context.Context, ticketIDs []int64, userID int64) {
	for _, id := range ticketIDs {
		if _, err := s.locks.Unlock(ctx, id, userID); err != nil {
			s.log.WarnContext(ctx, "failed to release seat lock",
				"ticket_id", id, "user_id", userID, "error", err)
		}
	}
}

// invalidateSeatCaches drops every cached projection of the event's seats.
// Failures are logged, never surfaced: the entries expire on their own TTL.
func (s *service) invalidateSeatCaches(ctx context.Context, eventID int64) {
	if err := s.cache.DeletePattern(ctx, constants.BuildEventSeatsPattern(eventID)); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate seat map cache",
			"event_id", eventID, "error", err)
	}
	if err := s.cache.DeletePattern(ctx, constants.BuildSeatStatusPattern(eventID)); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate seat status cache",
			"event_id", eventID, "error", err)
	}
}

func (s *service) publishConfirmation(ctx context.Context, userID int64, eventTitle string, created []Booking, req CreateBookingRequest) {
	if s.notifier == nil || len(created) == 0 {
		return
	}

	email, err := s.repo.GetUserEmail(ctx, userID)
	if err != nil || email == "" {
		s.log.WarnContext(ctx, "skipping booking confirmation, no email for user",
			"user_id", userID, "error", err)
		return
	}

	seats := make([]string, 0, len(req.Seats))
	for _, seat := range req.Seats {
		seats = append(seats, fmt.Sprintf("%s-%d", seat.Row, seat.Number))
	}
	var total int64
	for i := range created {
		total += created[i].TotalPrice
	}

	reservation := FormatReservationNumber(created[0].ID)
	if err := s.notifier.PublishBookingConfirmed(ctx, userID, email, reservation, eventTitle, seats, total); err != nil {
		s.log.WarnContext(ctx, "failed to publish booking confirmation",
			"user_id", userID, "reservation_number", reservation, "error", err)
	}
}

// groupUserBookings folds per-seat booking rows into reservations. Rows
// sharing a transaction id belong to one purchase; rows without one (written
// before the column existed) group by event and booking second. The
// reservation number derives from the lowest booking id of the group.
func groupUserBookings(rows []userBookingRow) []UserBookingGroup {
	groups := make([]UserBookingGroup, 0)
	index := make(map[string]int)
	leadIDs := make(map[string]int64)

	for _, row := range rows {
		var key string
		if row.TransactionID != nil && *row.TransactionID != "" {
			key = "tx_" + *row.TransactionID
		} else {
			key = fmt.Sprintf("%d_%d", row.EventID, row.BookedAt.Unix())
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			leadIDs[key] = row.BookingID
			groups = append(groups, UserBookingGroup{
				EventID:    row.EventID,
				EventTitle: row.EventTitle,
				VenueName:  row.VenueName,
				ScheduleAt: row.ScheduleAt,
				Status:     row.Status,
				BookedAt:   row.BookedAt,
				Seats:      []BookedSeat{},
			})
		}

		g := &groups[i]
		g.TotalPrice += row.TotalPrice
		g.Seats = append(g.Seats, BookedSeat{
			Row:    row.SeatRow,
			Number: row.SeatNumber,
			Grade:  row.Grade,
			Price:  row.Price,
		})
		g.Quantity = len(g.Seats)

		if row.BookingID < leadIDs[key] {
			leadIDs[key] = row.BookingID
		}
	}

	for key, i := range index {
		groups[i].ReservationNumber = FormatReservationNumber(leadIDs[key])
	}
	return groups
}
