package notifications

import (
	"encoding/json"
	"strconv"
	"time"
)

// BookingConfirmation is the message the booking flow publishes after a
// successful purchase. It carries everything the delivery side needs, so
// workers never have to call back into the database.
type BookingConfirmation struct {
	UserID            int64     `json:"user_id"`
	Email             string    `json:"email"`
	ReservationNumber string    `json:"reservation_number"`
	EventTitle        string    `json:"event_title"`
	Seats             []string  `json:"seats"`
	TotalPrice        int64     `json:"total_price"`
	ConfirmedAt       time.Time `json:"confirmed_at"`
}

// ToJSON serializes the confirmation for the wire.
func (n *BookingConfirmation) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// PartitionKey routes all confirmations of one user to the same partition,
// keeping their delivery order stable.
func (n *BookingConfirmation) PartitionKey() string {
	return strconv.FormatInt(n.UserID, 10)
}
