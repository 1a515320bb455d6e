package bookings

// Status is the booking lifecycle state, stored as the booking_status enum.
// PENDING bookings hold their seat exactly like CONFIRMED ones; only
// CANCELLED frees it.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsActive reports whether the booking still occupies its seat.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ActiveStatuses are the states that keep a seat occupied, in the form the
// repository feeds into IN clauses.
func ActiveStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}
