package database

import (
	"gorm.io/gorm"
)

var constraintStatements = []string{
	// seat availability counts and the booking check-and-set both filter on these
	`CREATE INDEX IF NOT EXISTS idx_seats_schedule_status ON seats (schedule_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user_departure ON bookings (user_id, departure_time DESC)`,
	// a seat can be rebooked after a cancellation, so uniqueness is per booking only
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_seat_bookings_booking_seat ON seat_bookings (booking_id, seat_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_routes_endpoints ON routes (source_city_id, destination_city_id)`,
}

// MigrateConstraints adds the indexes gorm tags cannot express.
func MigrateConstraints(db *gorm.DB) error {
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
