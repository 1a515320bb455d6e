package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bookmate/internal/shared/config"
	"bookmate/internal/shared/constants"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockEventRepository) GetDetailByID(ctx context.Context, id int64) (*Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, event *Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) List(ctx context.Context, skip, limit int) ([]Event, int64, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Event), args.Get(1).(int64), args.Error(2)
}

func (m *MockEventRepository) CreateSchedule(ctx context.Context, schedule *EventSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockEventRepository) GetScheduleByID(ctx context.Context, id int64) (*EventSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*EventSchedule), args.Error(1)
}

func (m *MockEventRepository) CreateSeatGrade(ctx context.Context, grade *SeatGrade) error {
	args := m.Called(ctx, grade)
	return args.Error(0)
}

// recordingCache always misses, serves from the fetcher, and records which
// keys and invalidation patterns the service touched.
type recordingCache struct {
	getOrSetKeys    []string
	deletedPatterns []string
}

func (c *recordingCache) Get(ctx context.Context, key string, dest interface{}) error {
	return fmt.Errorf("cache miss")
}
func (c *recordingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (c *recordingCache) Delete(ctx context.Context, key string) error { return nil }
func (c *recordingCache) DeletePattern(ctx context.Context, pattern string) error {
	c.deletedPatterns = append(c.deletedPatterns, pattern)
	return nil
}
func (c *recordingCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	c.getOrSetKeys = append(c.getOrSetKeys, key)
	data, err := fetcher()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func newEventService() (Service, *MockEventRepository, *recordingCache) {
	repo := new(MockEventRepository)
	rc := &recordingCache{}
	svc := NewService(repo, rc, config.CacheConfig{EventListTTL: 5 * time.Minute})
	return svc, repo, rc
}

func TestListEvents_ServesPageUnderPerPageKey(t *testing.T) {
	svc, repo, rc := newEventService()

	repo.On("List", mock.Anything, 10, 20).Return([]Event{
		{ID: 3, Title: "서울 록 페스티벌", Genre: GenreConcert},
	}, int64(31), nil)

	page, err := svc.ListEvents(context.Background(), EventListQuery{Skip: 10, Limit: 20})

	assert.NoError(t, err)
	assert.Equal(t, int64(31), page.TotalCount)
	assert.Len(t, page.Events, 1)
	assert.Equal(t, "서울 록 페스티벌", page.Events[0].Title)
	assert.Equal(t, []string{constants.BuildEventListKey(10, 20)}, rc.getOrSetKeys)
}

func TestListEvents_ClampsNegativeSkipAndZeroLimit(t *testing.T) {
	svc, repo, rc := newEventService()

	repo.On("List", mock.Anything, 0, 100).Return([]Event{}, int64(0), nil)

	page, err := svc.ListEvents(context.Background(), EventListQuery{Skip: -5, Limit: 0})

	assert.NoError(t, err)
	assert.Equal(t, 0, page.Skip)
	assert.Equal(t, 100, page.Limit)
	assert.Equal(t, []string{constants.BuildEventListKey(0, 100)}, rc.getOrSetKeys)
	repo.AssertCalled(t, "List", mock.Anything, 0, 100)
}

func TestGetEventDetail_NotFound(t *testing.T) {
	svc, repo, _ := newEventService()

	repo.On("GetDetailByID", mock.Anything, int64(404)).Return(nil, nil)

	detail, err := svc.GetEventDetail(context.Background(), 404)

	assert.Nil(t, detail)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestCreateEvent_AppliesEnumDefaultsAndInvalidatesList(t *testing.T) {
	svc, repo, rc := newEventService()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *Event) bool {
		return e.Genre == GenreEtc && e.ReceiptMethod == ReceiptDelivery
	})).Return(nil)

	created, err := svc.CreateEvent(context.Background(), CreateEventRequest{Title: "새 공연"})

	assert.NoError(t, err)
	assert.Equal(t, GenreEtc, created.Genre)
	assert.Equal(t, ReceiptDelivery, created.ReceiptMethod)
	assert.Contains(t, rc.deletedPatterns, constants.PATTERN_INVALIDATE_EVENTS_LIST)
}

func TestCreateEvent_KeepsExplicitEnums(t *testing.T) {
	svc, repo, _ := newEventService()

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	created, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		Title:         "세븐스타즈 단독 콘서트",
		Genre:         string(GenreConcert),
		ReceiptMethod: string(ReceiptOnSite),
	})

	assert.NoError(t, err)
	assert.Equal(t, GenreConcert, created.Genre)
	assert.Equal(t, ReceiptOnSite, created.ReceiptMethod)
}

func TestCreateEvent_AcceptsCombinedReceiptMethod(t *testing.T) {
	svc, repo, _ := newEventService()

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	created, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		Title:         "가을 뮤지컬 갈라",
		ReceiptMethod: string(ReceiptBoth),
	})

	assert.NoError(t, err)
	assert.Equal(t, ReceiptBoth, created.ReceiptMethod)
}

func TestCreateEvent_RejectsUnknownReceiptMethod(t *testing.T) {
	svc, repo, rc := newEventService()

	created, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		Title:         "가을 뮤지컬 갈라",
		ReceiptMethod: "택배",
	})

	assert.Nil(t, created)
	assert.ErrorIs(t, err, ErrInvalidReceiptMethod)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, rc.deletedPatterns)
}

func TestUpdateEvent_MergesOnlyProvidedFields(t *testing.T) {
	svc, repo, rc := newEventService()

	existing := &Event{ID: 9, Title: "원제", Description: "설명", Genre: GenrePlay, IsHot: false}
	repo.On("GetByID", mock.Anything, int64(9)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(e *Event) bool {
		return e.Title == "바뀐 제목" && e.Description == "설명" && e.IsHot
	})).Return(nil)

	newTitle := "바뀐 제목"
	hot := true
	updated, err := svc.UpdateEvent(context.Background(), 9, UpdateEventRequest{Title: &newTitle, IsHot: &hot})

	assert.NoError(t, err)
	assert.Equal(t, "바뀐 제목", updated.Title)
	assert.Equal(t, GenrePlay, updated.Genre)
	assert.Contains(t, rc.deletedPatterns, constants.PATTERN_INVALIDATE_EVENTS_LIST)
}

func TestUpdateEvent_UnknownEvent(t *testing.T) {
	svc, repo, rc := newEventService()

	repo.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

	updated, err := svc.UpdateEvent(context.Background(), 404, UpdateEventRequest{})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.Empty(t, rc.deletedPatterns)
}

func TestAddSchedule_UnknownEvent(t *testing.T) {
	svc, repo, _ := newEventService()

	repo.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

	schedule, err := svc.AddSchedule(context.Background(), 404, CreateScheduleRequest{StartAt: time.Now()})

	assert.Nil(t, schedule)
	assert.ErrorIs(t, err, ErrEventNotFound)
	repo.AssertNotCalled(t, "CreateSchedule", mock.Anything, mock.Anything)
}

func TestAddSeatGrade_ScheduleOfAnotherEventRejected(t *testing.T) {
	svc, repo, rc := newEventService()

	repo.On("GetByID", mock.Anything, int64(1)).Return(&Event{ID: 1}, nil)
	repo.On("GetScheduleByID", mock.Anything, int64(55)).Return(&EventSchedule{ID: 55, EventID: 2}, nil)

	scheduleID := int64(55)
	grade, err := svc.AddSeatGrade(context.Background(), 1, CreateSeatGradeRequest{
		ScheduleID: &scheduleID,
		RowLabel:   "1",
		Grade:      "VIP",
		Price:      100000,
	})

	assert.Nil(t, grade)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
	repo.AssertNotCalled(t, "CreateSeatGrade", mock.Anything, mock.Anything)
	assert.Empty(t, rc.deletedPatterns)
}

func TestAddSeatGrade_DropsSeatMapCache(t *testing.T) {
	svc, repo, rc := newEventService()

	repo.On("GetByID", mock.Anything, int64(1)).Return(&Event{ID: 1}, nil)
	repo.On("CreateSeatGrade", mock.Anything, mock.MatchedBy(func(g *SeatGrade) bool {
		return g.EventID == 1 && g.RowLabel == "1" && g.Grade == "VIP" && g.Price == 100000
	})).Return(nil)

	grade, err := svc.AddSeatGrade(context.Background(), 1, CreateSeatGradeRequest{
		RowLabel: "1",
		Grade:    "VIP",
		Price:    100000,
	})

	assert.NoError(t, err)
	assert.NotNil(t, grade)
	assert.Contains(t, rc.deletedPatterns, constants.BuildEventSeatsPattern(1))
}
