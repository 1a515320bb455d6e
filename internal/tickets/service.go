package tickets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"bookmate/internal/shared/constants"
	"bookmate/internal/venues"
	"bookmate/pkg/cache"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrScheduleNotFound   = errors.New("schedule not found for this event")
	ErrQueueTokenRequired = errors.New("a valid queue token is required for this event")
)

// TokenValidator checks admission tokens minted by the queue.
type TokenValidator interface {
	ValidateToken(ctx context.Context, eventID, userID int64, token string) (bool, error)
}

type Service interface {
	// GetSeatMap returns the full seat map of an event, optionally filtered
	// to one schedule. For queue-gated events the caller must present a
	// valid admission token.
	GetSeatMap(ctx context.Context, eventID int64, scheduleID *int64, userID int64, queueToken string) ([]TicketView, error)
}

type service struct {
	repo   Repository
	tokens TokenValidator
	cache  cache.Service
	ttl    time.Duration
}

func NewService(repo Repository, tokens TokenValidator, cacheService cache.Service, ttl time.Duration) Service {
	return &service{
		repo:   repo,
		tokens: tokens,
		cache:  cacheService,
		ttl:    ttl,
	}
}

func (s *service) GetSeatMap(ctx context.Context, eventID int64, scheduleID *int64, userID int64, queueToken string) ([]TicketView, error) {
	access, err := s.repo.GetEventAccess(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if access == nil {
		return nil, ErrEventNotFound
	}

	// The gate comes before any data access so waiters cannot scrape seat
	// availability while still queued.
	if access.QueueGated() {
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

	views := []TicketView{}
	key := constants.BuildEventSeatsKey(eventID, scheduleID)
	err = s.cache.GetOrSet(ctx, key, s.ttl, func() (interface{}, error) {
		return s.loadSeatMap(ctx, access, eventID, scheduleID)
	}, &views)
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *service) loadSeatMap(ctx context.Context, access *EventAccess, eventID int64, scheduleID *int64) ([]TicketView, error) {
	seatMapDoc := ""
	if access.VenueID != nil {
		doc, err := s.repo.GetVenueSeatMap(ctx, *access.VenueID)
		if err != nil {
			return nil, err
		}
		seatMapDoc = doc
	}
	section, seatsPerRow := venues.ParseSeatMap(seatMapDoc)

	tix, err := s.repo.ListTickets(ctx, eventID, scheduleID)
	if err != nil {
		return nil, err
	}
	grades, err := s.repo.ListSeatGrades(ctx, eventID, scheduleID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(tix))
	for i := range tix {
		ids[i] = tix[i].ID
	}
	booked, err := s.repo.BookedTicketIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Venue document wins, then the first materialized ticket's section.
	if section == venues.DefaultSection && len(tix) > 0 && tix[0].SeatSection != "" {
		section = tix[0].SeatSection
	}

	return projectSeatMap(eventID, section, seatsPerRow, tix, grades, booked), nil
}

type seatKey struct {
	row    string
	number int
}

type rowInfo struct {
	grade   string
	price   int64
	section string
}

// projectSeatMap merges materialized tickets with the seat-grade catalog
// into one flat seat list. Catalog rows display with the 열 suffix; rows
// covered by real tickets take their attributes from the first ticket seen
// on that row. Every row renders exactly seatsPerRow seats, positions
// without a ticket row become virtual available seats.
func projectSeatMap(eventID int64, section string, seatsPerRow int, tix []Ticket, grades []SeatGradeEntry, booked map[int64]bool) []TicketView {
	bySeat := make(map[seatKey]*Ticket, len(tix))
	ticketRows := make(map[string]rowInfo)
	for i := range tix {
		t := &tix[i]
		key := seatKey{row: t.SeatRow, number: t.SeatNumber}
		if _, ok := bySeat[key]; !ok {
			bySeat[key] = t
		}
		if _, ok := ticketRows[t.SeatRow]; !ok {
			ticketRows[t.SeatRow] = rowInfo{
				grade:   string(t.Grade),
				price:   t.Price,
				section: t.SeatSection,
			}
		}
	}

	catalogRows := make(map[string]rowInfo, len(grades))
	for _, g := range grades {
		catalogRows[g.RowLabel+"열"] = rowInfo{
			grade:   g.Grade,
			price:   g.Price,
			section: section,
		}
	}

	seen := make(map[string]bool, len(ticketRows)+len(catalogRows))
	labels := make([]string, 0, len(ticketRows)+len(catalogRows))
	for label := range ticketRows {
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	for label := range catalogRows {
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)

	views := make([]TicketView, 0, len(labels)*seatsPerRow)
	for _, label := range labels {
		info, fromTickets := ticketRows[label]
		if !fromTickets {
			info = catalogRows[label]
		}
		rowSection := info.section
		if rowSection == "" {
			rowSection = section
		}
		rowGrade := info.grade
		if rowGrade == "" {
			rowGrade = string(GradeA)
		}

		for num := 1; num <= seatsPerRow; num++ {
			if t, ok := bySeat[seatKey{row: label, number: num}]; ok {
				seatSection := t.SeatSection
				if seatSection == "" {
					seatSection = rowSection
				}
				id := t.ID
				views = append(views, TicketView{
					ID:          &id,
					EventID:     eventID,
					SeatSection: seatSection,
					SeatRow:     label,
					SeatNumber:  num,
					Grade:       string(t.Grade),
					Price:       t.Price,
					Available:   !booked[t.ID],
				})
				continue
			}

			views = append(views, TicketView{
				EventID:     eventID,
				SeatSection: rowSection,
				SeatRow:     label,
				SeatNumber:  num,
				Grade:       rowGrade,
				Price:       info.price,
				Available:   true,
			})
		}
	}
	return views
}
