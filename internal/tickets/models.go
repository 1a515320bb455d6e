package tickets

import (
	"time"
)

// Ticket is one physical seat for one event (and optionally one schedule).
// Rows are materialized lazily: a seat without a ticket row is still
// sellable through the seat-grade catalog, it just has no id yet.
type Ticket struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID     int64     `json:"event_id" gorm:"not null;index"`
	ScheduleID  *int64    `json:"schedule_id" gorm:"index"`
	SeatSection string    `json:"seat_section" gorm:"size:50"`
	SeatRow     string    `json:"seat_row" gorm:"size:20;not null"`
	SeatNumber  int       `json:"seat_number" gorm:"not null"`
	Grade       Grade     `json:"grade" gorm:"type:ticket_grade;not null"`
	Price       int64     `json:"price" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Ticket) TableName() string {
	return "tickets"
}

// TicketView is one seat in the projected seat map. ID is nil for virtual
// seats that exist only in the grade catalog and have not been materialized.
type TicketView struct {
	ID          *int64 `json:"id"`
	EventID     int64  `json:"event_id"`
	SeatSection string `json:"seat_section"`
	SeatRow     string `json:"seat_row"`
	SeatNumber  int    `json:"seat_number"`
	Grade       string `json:"grade"`
	Price       int64  `json:"price"`
	Available   bool   `json:"available"`
}

// SeatGradeEntry is one price catalog row as read for projection.
type SeatGradeEntry struct {
	RowLabel string
	Grade    string
	Price    int64
}

// EventAccess carries what the seat map endpoint needs to know about an
// event before serving it.
type EventAccess struct {
	ID           int64
	IsHot        bool
	QueueEnabled bool
	VenueID      *int64
}

// QueueGated reports whether seat map access requires an admission token.
func (a *EventAccess) QueueGated() bool {
	return a.IsHot || a.QueueEnabled
}
