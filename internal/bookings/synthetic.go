package bookings

import (
	"fmt"
	"hash/fnv"
)

// SyntheticTicketID derives a stable negative id for a seat that has no
// ticket row yet, so it can be seat-locked before the row is materialized.
// Negative ids can never collide with real autoincrement ids; the FNV hash
// keeps the id stable across processes for the same seat.
func SyntheticTicketID(eventID int64, scheduleID *int64, row string, number int) int64 {
	var sid int64
	if scheduleID != nil {
		sid = *scheduleID
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%d:%s:%d", eventID, sid, row, number)
	return -int64(h.Sum64() % 1_000_000)
}

// FormatReservationNumber renders the user-facing reservation code from the
// lead booking id of a purchase.
func FormatReservationNumber(bookingID int64) string {
	return fmt.Sprintf("M%09d", bookingID)
}
