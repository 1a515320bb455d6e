package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the uniqueness guarantees the booking flow relies
// on. Partial and expression indexes are beyond AutoMigrate, so raw SQL.
func MigrateConstraints(db *gorm.DB) error {
	// One ticket row per physical seat. COALESCE folds the nullable
	// schedule id so single-run and multi-run events share the rule.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_ticket_seat
		ON tickets (event_id, COALESCE(schedule_id, 0), seat_row, seat_number);
	`).Error
	if err != nil {
		return err
	}

	// At most one live booking per ticket. Cancelled rows fall out of the
	// index, which is what puts the seat back on sale.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_live_booking_per_ticket
		ON bookings (ticket_id)
		WHERE status IN ('PENDING', 'CONFIRMED');
	`).Error
	if err != nil {
		return err
	}

	// Index for the my-bookings listing, newest purchase first
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_user_booked_at
		ON bookings (user_id, booked_at DESC);
	`).Error
	if err != nil {
		return err
	}

	// Seat map projections scan all of an event's tickets at once
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_event_schedule
		ON tickets (event_id, schedule_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
