package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntheticTicketID_Deterministic(t *testing.T) {
	scheduleID := int64(3)

	a := SyntheticTicketID(1, &scheduleID, "A열", 5)
	b := SyntheticTicketID(1, &scheduleID, "A열", 5)

	assert.Equal(t, a, b)
	assert.LessOrEqual(t, a, int64(0))
	assert.GreaterOrEqual(t, a, int64(-1_000_000))
}

func TestSyntheticTicketID_VariesBySeat(t *testing.T) {
	base := SyntheticTicketID(1, nil, "A열", 1)

	assert.NotEqual(t, base, SyntheticTicketID(1, nil, "A열", 2))
	assert.NotEqual(t, base, SyntheticTicketID(1, nil, "B열", 1))
	assert.NotEqual(t, base, SyntheticTicketID(2, nil, "A열", 1))
}

func TestSyntheticTicketID_VariesBySchedule(t *testing.T) {
	s1 := int64(1)
	s2 := int64(2)

	assert.NotEqual(t,
		SyntheticTicketID(1, &s1, "A열", 1),
		SyntheticTicketID(1, &s2, "A열", 1))
}

func TestSyntheticTicketID_NilScheduleCoalescesToZero(t *testing.T) {
	zero := int64(0)

	// A nil schedule and an explicit zero address the same seat.
	assert.Equal(t,
		SyntheticTicketID(1, nil, "A열", 1),
		SyntheticTicketID(1, &zero, "A열", 1))
}

func TestFormatReservationNumber(t *testing.T) {
	assert.Equal(t, "M000000042", FormatReservationNumber(42))
	assert.Equal(t, "M123456789", FormatReservationNumber(123456789))
	assert.Equal(t, "M000000001", FormatReservationNumber(1))
}
