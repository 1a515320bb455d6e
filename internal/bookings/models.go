package bookings

import (
	"time"
)

// Booking ties one user to one ticket. Multi-seat purchases create one row
// per seat; rows of the same purchase share their TransactionID and booking
// timestamp and are regrouped on read.
type Booking struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID        int64     `json:"user_id" gorm:"index;not null"`
	TicketID      int64     `json:"ticket_id" gorm:"index;not null"`
	ScheduleID    *int64    `json:"schedule_id" gorm:"index"`
	Status        Status    `json:"status" gorm:"type:booking_status;not null;default:'PENDING'"`
	TotalPrice    int64     `json:"total_price" gorm:"not null"`
	PaymentMethod *string   `json:"payment_method" gorm:"size:50"`
	TransactionID *string   `json:"transaction_id" gorm:"size:100;index"`
	BookedAt      time.Time `json:"booked_at" gorm:"autoCreateTime;index"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// SeatRef addresses one seat by position.
type SeatRef struct {
	Row    string `json:"row" binding:"required"`
	Number int    `json:"number" binding:"required,min=1"`
}

// LockSeatsRequest asks for short-lived holds on a set of seats.
type LockSeatsRequest struct {
	EventID    int64     `json:"event_id" binding:"required"`
	ScheduleID *int64    `json:"schedule_id"`
	Seats      []SeatRef `json:"seats" binding:"required,min=1,dive"`
}

// LockedSeat reports one acquired hold. TicketID is negative for seats that
// have no materialized ticket row yet.
type LockedSeat struct {
	Row      string `json:"row"`
	Number   int    `json:"number"`
	TicketID int64  `json:"ticket_id"`
}

type LockSeatsResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	LockedSeats []LockedSeat `json:"locked_seats"`
}

// SeatSelection is one seat of a purchase with its price attributes as the
// client saw them.
type SeatSelection struct {
	Row         string `json:"row" binding:"required"`
	Number      int    `json:"number" binding:"required,min=1"`
	Grade       string `json:"grade" binding:"required,oneof=VIP R S A"`
	Price       int64  `json:"price" binding:"min=0"`
	SeatSection string `json:"seat_section"`
}

// DeliveryInfo carries the shipping address for paper tickets.
type DeliveryInfo struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	PostalCode    string `json:"postal_code"`
	Address       string `json:"address"`
	DetailAddress string `json:"detail_address"`
}

type CreateBookingRequest struct {
	EventID       int64           `json:"event_id" binding:"required"`
	ScheduleID    *int64          `json:"schedule_id"`
	Seats         []SeatSelection `json:"seats" binding:"required,min=1,dive"`
	TotalPrice    int64           `json:"total_price" binding:"min=0"`
	ReceiptMethod string          `json:"receipt_method" binding:"omitempty,oneof=delivery on_site"`
	DeliveryInfo  *DeliveryInfo   `json:"delivery_info"`
}

// BookingResponse is the per-seat result of a purchase.
type BookingResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	TicketID   int64     `json:"ticket_id"`
	Status     Status    `json:"status"`
	TotalPrice int64     `json:"total_price"`
	BookedAt   time.Time `json:"booked_at"`
}

// ToResponse converts a Booking to its API shape
func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		TicketID:   b.TicketID,
		Status:     b.Status,
		TotalPrice: b.TotalPrice,
		BookedAt:   b.BookedAt,
	}
}

// BookedSeat is one seat inside a grouped reservation.
type BookedSeat struct {
	Row    string `json:"row"`
	Number int    `json:"number"`
	Grade  string `json:"grade"`
	Price  int64  `json:"price"`
}

// UserBookingGroup is one reservation as the user sees it: every seat of
// the same purchase folded into a single entry.
type UserBookingGroup struct {
	ReservationNumber string       `json:"reservation_number"`
	EventID           int64        `json:"event_id"`
	EventTitle        string       `json:"event_title"`
	VenueName         string       `json:"venue_name"`
	ScheduleAt        *time.Time   `json:"schedule_at"`
	Status            Status       `json:"status"`
	TotalPrice        int64        `json:"total_price"`
	BookedAt          time.Time    `json:"booked_at"`
	Quantity          int          `json:"quantity"`
	Seats             []BookedSeat `json:"seats"`
}

// userBookingRow is the flat join row ListByUser reads; grouping happens in
// the service.
type userBookingRow struct {
	BookingID     int64
	EventID       int64
	EventTitle    string
	VenueName     string
	ScheduleAt    *time.Time
	Status        Status
	TotalPrice    int64
	BookedAt      time.Time
	TransactionID *string
	SeatRow       string
	SeatNumber    int
	Grade         string
	Price         int64
}
