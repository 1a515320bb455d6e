package events

import (
	"time"

	"bookmate/internal/venues"
)

type Event struct {
	ID            int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string        `json:"title" gorm:"not null;size:255"`
	Description   string        `json:"description" gorm:"type:text"`
	Genre         Genre         `json:"genre" gorm:"type:event_genre;not null;default:'기타'"`
	SubGenre      string        `json:"sub_genre" gorm:"size:100"`
	PosterURL     string        `json:"poster_url" gorm:"size:500"`
	IsHot         bool          `json:"is_hot" gorm:"not null;default:false;index"`
	QueueEnabled  bool          `json:"queue_enabled" gorm:"not null;default:false"`
	ReceiptMethod ReceiptMethod `json:"receipt_method" gorm:"type:receipt_method;not null;default:'배송'"`
	VenueID       *int64        `json:"venue_id" gorm:"index"`
	SalesOpenAt   *time.Time    `json:"sales_open_at"`
	SalesEndAt    *time.Time    `json:"sales_end_at"`

	Venue      *venues.Venue   `json:"venue,omitempty" gorm:"foreignKey:VenueID"`
	Schedules  []EventSchedule `json:"schedules,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`
	SeatGrades []SeatGrade     `json:"seat_grades,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// QueueGated reports whether ticket and booking access for this event is
// gated behind the admission queue.
func (e *Event) QueueGated() bool {
	return e.IsHot || e.QueueEnabled
}

type EventSchedule struct {
	ID             int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID        int64      `json:"event_id" gorm:"index;not null"`
	StartAt        time.Time  `json:"start_at" gorm:"not null"`
	EndAt          *time.Time `json:"end_at"`
	RunningMinutes *int       `json:"running_minutes"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SeatGrade is the price catalog for one row of seats. A NULL schedule id
// means the grade applies to every schedule of the event.
type SeatGrade struct {
	ID         int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID    int64  `json:"event_id" gorm:"index;not null"`
	ScheduleID *int64 `json:"schedule_id" gorm:"index"`
	RowLabel   string `json:"row_label" gorm:"size:20;not null"`
	Grade      string `json:"grade" gorm:"type:ticket_grade;not null"`
	Price      int64  `json:"price" gorm:"not null"`
}

type EventResponse struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Genre         Genre         `json:"genre"`
	SubGenre      string        `json:"sub_genre,omitempty"`
	PosterURL     string        `json:"poster_url,omitempty"`
	IsHot         bool          `json:"is_hot"`
	QueueEnabled  bool          `json:"queue_enabled"`
	ReceiptMethod ReceiptMethod `json:"receipt_method"`
	VenueID       *int64        `json:"venue_id,omitempty"`
	SalesOpenAt   *time.Time    `json:"sales_open_at,omitempty"`
	SalesEndAt    *time.Time    `json:"sales_end_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

type EventDetailResponse struct {
	EventResponse
	VenueName  string          `json:"venue_name,omitempty"`
	Schedules  []EventSchedule `json:"schedules"`
	SeatGrades []SeatGrade     `json:"seat_grades"`
}

// Receipt method is checked in the service: the combined value
// "배송,현장수령" contains a comma, which a oneof binding tag cannot hold.
type CreateEventRequest struct {
	Title         string     `json:"title" binding:"required,min=1,max=255"`
	Description   string     `json:"description" binding:"max=5000"`
	Genre         string     `json:"genre" binding:"omitempty,oneof=뮤지컬 연극 콘서트 전시 스포츠 기타"`
	SubGenre      string     `json:"sub_genre" binding:"max=100"`
	PosterURL     string     `json:"poster_url" binding:"omitempty,url"`
	IsHot         bool       `json:"is_hot"`
	QueueEnabled  bool       `json:"queue_enabled"`
	ReceiptMethod string     `json:"receipt_method"`
	VenueID       *int64     `json:"venue_id"`
	SalesOpenAt   *time.Time `json:"sales_open_at"`
	SalesEndAt    *time.Time `json:"sales_end_at"`
}

type UpdateEventRequest struct {
	Title         *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description   *string    `json:"description" binding:"omitempty,max=5000"`
	Genre         *string    `json:"genre" binding:"omitempty,oneof=뮤지컬 연극 콘서트 전시 스포츠 기타"`
	SubGenre      *string    `json:"sub_genre" binding:"omitempty,max=100"`
	PosterURL     *string    `json:"poster_url" binding:"omitempty,url"`
	IsHot         *bool      `json:"is_hot"`
	QueueEnabled  *bool      `json:"queue_enabled"`
	ReceiptMethod *string    `json:"receipt_method"`
	VenueID       *int64     `json:"venue_id"`
	SalesOpenAt   *time.Time `json:"sales_open_at"`
	SalesEndAt    *time.Time `json:"sales_end_at"`
}

type CreateScheduleRequest struct {
	StartAt        time.Time  `json:"start_at" binding:"required"`
	EndAt          *time.Time `json:"end_at"`
	RunningMinutes *int       `json:"running_minutes" binding:"omitempty,min=1"`
}

type CreateSeatGradeRequest struct {
	ScheduleID *int64 `json:"schedule_id"`
	RowLabel   string `json:"row_label" binding:"required,min=1,max=20"`
	Grade      string `json:"grade" binding:"required,oneof=VIP R S A"`
	Price      int64  `json:"price" binding:"required,min=0"`
}

type EventListQuery struct {
	Skip  int `form:"skip" binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Skip       int             `json:"skip"`
	Limit      int             `json:"limit"`
}

// ToResponse converts an Event to its list/detail API shape
func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		Genre:         e.Genre,
		SubGenre:      e.SubGenre,
		PosterURL:     e.PosterURL,
		IsHot:         e.IsHot,
		QueueEnabled:  e.QueueEnabled,
		ReceiptMethod: e.ReceiptMethod,
		VenueID:       e.VenueID,
		SalesOpenAt:   e.SalesOpenAt,
		SalesEndAt:    e.SalesEndAt,
		CreatedAt:     e.CreatedAt,
	}
}

// ToDetailResponse converts an Event with preloaded relations
func (e *Event) ToDetailResponse() EventDetailResponse {
	detail := EventDetailResponse{
		EventResponse: e.ToResponse(),
		Schedules:     e.Schedules,
		SeatGrades:    e.SeatGrades,
	}
	if e.Venue != nil {
		detail.VenueName = e.Venue.Name
	}
	if detail.Schedules == nil {
		detail.Schedules = []EventSchedule{}
	}
	if detail.SeatGrades == nil {
		detail.SeatGrades = []SeatGrade{}
	}
	return detail
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// TableName specifies the table name for GORM
func (EventSchedule) TableName() string {
	return "schedules"
}

// TableName specifies the table name for GORM
func (SeatGrade) TableName() string {
	return "seat_grades"
}
