package database

import (
	"fmt"
	"strings"

	"bookmate/internal/auth"
	"bookmate/internal/banners"
	"bookmate/internal/bookings"
	"bookmate/internal/events"
	"bookmate/internal/tickets"
	"bookmate/internal/users"
	"bookmate/internal/venues"

	"gorm.io/gorm"
)

// enumTypes are the native Postgres enums the models reference through
// gorm type tags. They must exist before AutoMigrate creates the columns.
var enumTypes = []struct {
	name   string
	values []string
}{
	{"event_genre", []string{"뮤지컬", "연극", "콘서트", "전시", "스포츠", "기타"}},
	{"receipt_method", []string{"배송", "현장수령", "배송,현장수령"}},
	{"ticket_grade", []string{"VIP", "R", "S", "A"}},
	{"booking_status", []string{"PENDING", "CONFIRMED", "CANCELLED"}},
}

func Migrate(db *gorm.DB) error {
	if err := createEnumTypes(db); err != nil {
		return err
	}
	return db.AutoMigrate(
		&users.User{},
		&auth.RefreshToken{},
		&venues.Venue{},
		&events.Event{},
		&events.EventSchedule{},
		&events.SeatGrade{},
		&tickets.Ticket{},
		&bookings.Booking{},
		&banners.Banner{},
	)
}

// createEnumTypes creates each enum if it does not exist yet. CREATE TYPE
// has no IF NOT EXISTS form, so the duplicate_object error is swallowed
// inside a DO block instead.
func createEnumTypes(db *gorm.DB) error {
	for _, e := range enumTypes {
		quoted := make([]string, len(e.values))
		for i, v := range e.values {
			quoted[i] = "'" + v + "'"
		}
		stmt := fmt.Sprintf(`
			DO $$ BEGIN
				CREATE TYPE %s AS ENUM (%s);
			EXCEPTION WHEN duplicate_object THEN null;
			END $$;
		`, e.name, strings.Join(quoted, ", "))
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create enum type %s: %w", e.name, err)
		}
	}
	return nil
}
