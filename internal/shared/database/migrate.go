package database

import (
	"fmt"

	"busbooking/internal/bookings"
	"busbooking/internal/passengers"
	"busbooking/internal/schedules"
	"busbooking/internal/seats"
	"busbooking/internal/users"

	"gorm.io/gorm"
)

// Migrate creates the uuid extension, the tables in dependency order, and the extra indexes.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}

	err := db.AutoMigrate(
		&users.User{},
		&schedules.City{},
		&schedules.Bus{},
		&schedules.Route{},
		&schedules.Schedule{},
		&seats.Seat{},
		&passengers.Passenger{},
		&bookings.Booking{},
		&bookings.SeatBooking{},
		&bookings.Payment{},
	)
	if err != nil {
		return err
	}

	return MigrateConstraints(db)
}
