package tickets

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bookmate/pkg/cache"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetEventAccess(ctx context.Context, eventID int64) (*EventAccess, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*EventAccess), args.Error(1)
}

func (m *MockRepository) ScheduleBelongsToEvent(ctx context.Context, eventID, scheduleID int64) (bool, error) {
	args := m.Called(ctx, eventID, scheduleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetVenueSeatMap(ctx context.Context, venueID int64) (string, error) {
	args := m.Called(ctx, venueID)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) ListTickets(ctx context.Context, eventID int64, scheduleID *int64) ([]Ticket, error) {
	args := m.Called(ctx, eventID, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Ticket), args.Error(1)
}

func (m *MockRepository) ListSeatGrades(ctx context.Context, eventID int64, scheduleID *int64) ([]SeatGradeEntry, error) {
	args := m.Called(ctx, eventID, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SeatGradeEntry), args.Error(1)
}

func (m *MockRepository) BookedTicketIDs(ctx context.Context, ticketIDs []int64) (map[int64]bool, error) {
	args := m.Called(ctx, ticketIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]bool), args.Error(1)
}

type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(ctx context.Context, eventID, userID int64, token string) (bool, error) {
	args := m.Called(ctx, eventID, userID, token)
	return args.Bool(0), args.Error(1)
}

// passThroughCache always misses and serves straight from the fetcher.
type passThroughCache struct{}

func (passThroughCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}
func (passThroughCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (passThroughCache) Delete(ctx context.Context, key string) error            { return nil }
func (passThroughCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
func (passThroughCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	data, err := fetcher()
	if err != nil {
		return fmt.Errorf("fetcher error: %w", err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func TestGetSeatMap_EventNotFound(t *testing.T) {
	repo := new(MockRepository)
	tokens := new(MockTokenValidator)
	svc := NewService(repo, tokens, passThroughCache{}, time.Minute)

	repo.On("GetEventAccess", mock.Anything, int64(404)).Return(nil, nil)

	views, err := svc.GetSeatMap(context.Background(), 404, nil, 7, "")

	assert.Nil(t, views)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestGetSeatMap_GatedEventRejectsMissingToken(t *testing.T) {
	repo := new(MockRepository)
	tokens := new(MockTokenValidator)
	svc := NewService(repo, tokens, passThroughCache{}, time.Minute)

	repo.On("GetEventAccess", mock.Anything, int64(1)).Return(&EventAccess{ID: 1, IsHot: true}, nil)
	tokens.On("ValidateToken", mock.Anything, int64(1), int64(7), "").Return(false, nil)

	views, err := svc.GetSeatMap(context.Background(), 1, nil, 7, "")

	assert.Nil(t, views)
	assert.ErrorIs(t, err, ErrQueueTokenRequired)
	// The gate fires before any seat data is read.
	repo.AssertNotCalled(t, "ListTickets", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSeatMap_UnknownScheduleRejected(t *testing.T) {
	repo := new(MockRepository)
	tokens := new(MockTokenValidator)
	svc := NewService(repo, tokens, passThroughCache{}, time.Minute)

	scheduleID := int64(9)
	repo.On("GetEventAccess", mock.Anything, int64(1)).Return(&EventAccess{ID: 1}, nil)
	repo.On("ScheduleBelongsToEvent", mock.Anything, int64(1), int64(9)).Return(false, nil)

	views, err := svc.GetSeatMap(context.Background(), 1, &scheduleID, 7, "")

	assert.Nil(t, views)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestGetSeatMap_NonGatedEventSkipsTokenCheck(t *testing.T) {
	repo := new(MockRepository)
	tokens := new(MockTokenValidator)
	svc := NewService(repo, tokens, passThroughCache{}, time.Minute)

	repo.On("GetEventAccess", mock.Anything, int64(1)).Return(&EventAccess{ID: 1}, nil)
	repo.On("ListTickets", mock.Anything, int64(1), (*int64)(nil)).Return([]Ticket{}, nil)
	repo.On("ListSeatGrades", mock.Anything, int64(1), (*int64)(nil)).Return([]SeatGradeEntry{}, nil)
	repo.On("BookedTicketIDs", mock.Anything, []int64{}).Return(map[int64]bool{}, nil)

	views, err := svc.GetSeatMap(context.Background(), 1, nil, 7, "")

	assert.NoError(t, err)
	assert.Empty(t, views)
	tokens.AssertNotCalled(t, "ValidateToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSeatMap_GatedEventWithValidToken(t *testing.T) {
	repo := new(MockRepository)
	tokens := new(MockTokenValidator)
	svc := NewService(repo, tokens, passThroughCache{}, time.Minute)

	venueID := int64(3)
	repo.On("GetEventAccess", mock.Anything, int64(1)).Return(&EventAccess{ID: 1, QueueEnabled: true, VenueID: &venueID}, nil)
	tokens.On("ValidateToken", mock.Anything, int64(1), int64(7), "good-token").Return(true, nil)
	repo.On("GetVenueSeatMap", mock.Anything, int64(3)).Return(`{"sections":[{"name":"1구역"}],"seats_per_row":2}`, nil)
	repo.On("ListTickets", mock.Anything, int64(1), (*int64)(nil)).Return([]Ticket{}, nil)
	repo.On("ListSeatGrades", mock.Anything, int64(1), (*int64)(nil)).Return([]SeatGradeEntry{
		{RowLabel: "A", Grade: "VIP", Price: 150000},
	}, nil)
	repo.On("BookedTicketIDs", mock.Anything, []int64{}).Return(map[int64]bool{}, nil)

	views, err := svc.GetSeatMap(context.Background(), 1, nil, 7, "good-token")

	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, "A열", views[0].SeatRow)
	assert.Equal(t, "1구역", views[0].SeatSection)
	assert.True(t, views[0].Available)
}

func TestProjectSeatMap_EmptyEventYieldsNoSeats(t *testing.T) {
	views := projectSeatMap(1, "9구역", 20, nil, nil, nil)
	assert.Empty(t, views)
}

func TestProjectSeatMap_CatalogOnlyRendersVirtualRows(t *testing.T) {
	grades := []SeatGradeEntry{
		{RowLabel: "A", Grade: "VIP", Price: 150000},
		{RowLabel: "B", Grade: "R", Price: 120000},
	}

	views := projectSeatMap(1, "1구역", 3, nil, grades, nil)

	assert.Len(t, views, 6)
	assert.Equal(t, "A열", views[0].SeatRow)
	assert.Equal(t, "B열", views[3].SeatRow)
	for i, v := range views {
		assert.Nil(t, v.ID, "seat %d should be virtual", i)
		assert.True(t, v.Available)
		assert.Equal(t, "1구역", v.SeatSection)
		assert.Equal(t, int64(1), v.EventID)
	}
	assert.Equal(t, "VIP", views[0].Grade)
	assert.Equal(t, int64(150000), views[0].Price)
	assert.Equal(t, 1, views[0].SeatNumber)
	assert.Equal(t, 3, views[2].SeatNumber)
}

func TestProjectSeatMap_TicketRowBeatsCatalogRow(t *testing.T) {
	tix := []Ticket{
		{ID: 11, EventID: 1, SeatSection: "2구역", SeatRow: "A열", SeatNumber: 1, Grade: GradeVIP, Price: 150000},
	}
	grades := []SeatGradeEntry{
		// Same display row in the catalog with conflicting attributes.
		{RowLabel: "A", Grade: "R", Price: 100},
	}
	booked := map[int64]bool{11: true}

	views := projectSeatMap(1, "1구역", 3, tix, grades, booked)

	assert.Len(t, views, 3)

	// Seat 1 is the real ticket, booked.
	assert.NotNil(t, views[0].ID)
	assert.Equal(t, int64(11), *views[0].ID)
	assert.False(t, views[0].Available)
	assert.Equal(t, "VIP", views[0].Grade)
	assert.Equal(t, "2구역", views[0].SeatSection)

	// Seats 2 and 3 are virtual but inherit the ticket row's attributes,
	// not the catalog's.
	for _, v := range views[1:] {
		assert.Nil(t, v.ID)
		assert.True(t, v.Available)
		assert.Equal(t, "VIP", v.Grade)
		assert.Equal(t, int64(150000), v.Price)
		assert.Equal(t, "2구역", v.SeatSection)
	}
}

func TestProjectSeatMap_UnionOfTicketAndCatalogRows(t *testing.T) {
	tix := []Ticket{
		{ID: 21, EventID: 1, SeatSection: "1구역", SeatRow: "B열", SeatNumber: 2, Grade: GradeS, Price: 90000},
	}
	grades := []SeatGradeEntry{
		{RowLabel: "A", Grade: "VIP", Price: 150000},
	}

	views := projectSeatMap(1, "1구역", 2, tix, grades, nil)

	// Rows sorted: A열 then B열, two seats each.
	assert.Len(t, views, 4)
	assert.Equal(t, "A열", views[0].SeatRow)
	assert.Equal(t, "A열", views[1].SeatRow)
	assert.Equal(t, "B열", views[2].SeatRow)
	assert.Equal(t, "B열", views[3].SeatRow)

	// B열 seat 1 is virtual, seat 2 is the real ticket.
	assert.Nil(t, views[2].ID)
	assert.NotNil(t, views[3].ID)
	assert.Equal(t, int64(21), *views[3].ID)
	assert.True(t, views[3].Available)
}

func TestProjectSeatMap_TicketSectionFallsBackToRowSection(t *testing.T) {
	tix := []Ticket{
		// First ticket of the row carries no section of its own.
		{ID: 31, EventID: 1, SeatSection: "", SeatRow: "C열", SeatNumber: 1, Grade: GradeA, Price: 50000},
	}

	views := projectSeatMap(1, "5구역", 1, tix, nil, nil)

	assert.Len(t, views, 1)
	assert.Equal(t, "5구역", views[0].SeatSection)
}

func TestProjectSeatMap_LastCatalogEntryWinsPerRow(t *testing.T) {
	grades := []SeatGradeEntry{
		{RowLabel: "A", Grade: "S", Price: 80000},
		{RowLabel: "A", Grade: "VIP", Price: 150000},
	}

	views := projectSeatMap(1, "1구역", 1, nil, grades, nil)

	assert.Len(t, views, 1)
	assert.Equal(t, "VIP", views[0].Grade)
	assert.Equal(t, int64(150000), views[0].Price)
}
