package events

import (
	"context"
	"errors"

	"bookmate/internal/shared/config"
	"bookmate/internal/shared/constants"
	"bookmate/pkg/cache"
	"bookmate/pkg/logger"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrScheduleNotFound     = errors.New("schedule not found for this event")
	ErrInvalidReceiptMethod = errors.New("unknown ticket receipt method")
)

const defaultListLimit = 100

type Service interface {
	// ListEvents returns one page of events, newest first. Pages are
	// served from the read cache when warm.
	ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	// GetEventDetail returns an event with its venue, schedules and seat
	// grade catalog.
	GetEventDetail(ctx context.Context, id int64) (*EventDetailResponse, error)
	CreateEvent(ctx context.Context, req CreateEventRequest) (*EventResponse, error)
	UpdateEvent(ctx context.Context, id int64, req UpdateEventRequest) (*EventResponse, error)
	AddSchedule(ctx context.Context, eventID int64, req CreateScheduleRequest) (*EventSchedule, error)
	AddSeatGrade(ctx context.Context, eventID int64, req CreateSeatGradeRequest) (*SeatGrade, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	cfg   config.CacheConfig
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, cfg config.CacheConfig) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		cfg:   cfg,
		log:   logger.GetDefault(),
	}
}

func (s *service) ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	if query.Skip < 0 {
		query.Skip = 0
	}
	if query.Limit <= 0 {
		query.Limit = defaultListLimit
	}

	result := &PaginatedEvents{}
	key := constants.BuildEventListKey(query.Skip, query.Limit)
	err := s.cache.GetOrSet(ctx, key, s.cfg.EventListTTL, func() (interface{}, error) {
		return s.loadEventPage(ctx, query.Skip, query.Limit)
	}, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) loadEventPage(ctx context.Context, skip, limit int) (*PaginatedEvents, error) {
	list, total, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]EventResponse, 0, len(list))
	for i := range list {
		responses = append(responses, list[i].ToResponse())
	}
	return &PaginatedEvents{
		Events:     responses,
		TotalCount: total,
		Skip:       skip,
		Limit:      limit,
	}, nil
}

func (s *service) GetEventDetail(ctx context.Context, id int64) (*EventDetailResponse, error) {
	event, err := s.repo.GetDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	detail := event.ToDetailResponse()
	return &detail, nil
}

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*EventResponse, error) {
	event := &Event{
		Title:         req.Title,
		Description:   req.Description,
		Genre:         GenreEtc,
		SubGenre:      req.SubGenre,
		PosterURL:     req.PosterURL,
		IsHot:         req.IsHot,
		QueueEnabled:  req.QueueEnabled,
		ReceiptMethod: ReceiptDelivery,
		VenueID:       req.VenueID,
		SalesOpenAt:   req.SalesOpenAt,
		SalesEndAt:    req.SalesEndAt,
	}
	if req.Genre != "" {
		event.Genre = Genre(req.Genre)
	}
	if req.ReceiptMethod != "" {
		method := ReceiptMethod(req.ReceiptMethod)
		if !method.IsValid() {
			return nil, ErrInvalidReceiptMethod
		}
		event.ReceiptMethod = method
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)

	response := event.ToResponse()
	return &response, nil
}

func (s *service) UpdateEvent(ctx context.Context, id int64, req UpdateEventRequest) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Genre != nil {
		event.Genre = Genre(*req.Genre)
	}
	if req.SubGenre != nil {
		event.SubGenre = *req.SubGenre
	}
	if req.PosterURL != nil {
		event.PosterURL = *req.PosterURL
	}
	if req.IsHot != nil {
		event.IsHot = *req.IsHot
	}
	if req.QueueEnabled != nil {
		event.QueueEnabled = *req.QueueEnabled
	}
	if req.ReceiptMethod != nil {
		method := ReceiptMethod(*req.ReceiptMethod)
		if !method.IsValid() {
			return nil, ErrInvalidReceiptMethod
		}
		event.ReceiptMethod = method
	}
	if req.VenueID != nil {
		event.VenueID = req.VenueID
	}
	if req.SalesOpenAt != nil {
		event.SalesOpenAt = req.SalesOpenAt
	}
	if req.SalesEndAt != nil {
		event.SalesEndAt = req.SalesEndAt
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)

	response := event.ToResponse()
	return &response, nil
}

func (s *service) AddSchedule(ctx context.Context, eventID int64, req CreateScheduleRequest) (*EventSchedule, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	schedule := &EventSchedule{
		EventID:        eventID,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		RunningMinutes: req.RunningMinutes,
	}
	if err := s.repo.CreateSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *service) AddSeatGrade(ctx context.Context, eventID int64, req CreateSeatGradeRequest) (*SeatGrade, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	if req.ScheduleID != nil {
		schedule, err := s.repo.GetScheduleByID(ctx, *req.ScheduleID)
		if err != nil {
			return nil, err
		}
		if schedule == nil || schedule.EventID != eventID {
			return nil, ErrScheduleNotFound
		}
	}

	grade := &SeatGrade{
		EventID:    eventID,
		ScheduleID: req.ScheduleID,
		RowLabel:   req.RowLabel,
		Grade:      req.Grade,
		Price:      req.Price,
	}
	if err := s.repo.CreateSeatGrade(ctx, grade); err != nil {
		return nil, err
	}

	// New grade rows change the projected seat map, drop its cache.
	if err := s.cache.DeletePattern(ctx, constants.BuildEventSeatsPattern(eventID)); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate seat map cache",
			"event_id", eventID, "error", err)
	}

	return grade, nil
}

func (s *service) invalidateListCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENTS_LIST); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate event list cache", "error", err)
	}
}
