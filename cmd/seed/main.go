package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"busbooking/internal/schedules"
	"busbooking/internal/seats"
	"busbooking/internal/shared/config"
	"busbooking/internal/shared/database"
	"busbooking/internal/users"
	"busbooking/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "qwerty"

// seedDays is how many days of departures are generated from tomorrow on
const seedDays = 7

type Seeder struct {
	db  *gorm.DB
	now time.Time
}

func main() {
	_ = godotenv.Load()
	log := logger.GetDefault()

	fmt.Println("Starting bus booking database seeder...")

	cfg := config.Load()
	db, err := database.InitDB(cfg)
	if err != nil {
		log.WithError(err).Error("failed to initialize database")
		os.Exit(1)
	}
	defer db.Close()

	seeder := &Seeder{db: db.GetPostgreSQL(), now: time.Now()}
	ctx := context.Background()

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(ctx); err != nil {
		log.WithError(err).Error("failed to clean database")
		os.Exit(1)
	}

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(ctx); err != nil {
		log.WithError(err).Error("failed to seed database")
		os.Exit(1)
	}

	fmt.Println("\nSeeding completed. Log in as admin@busbooking.dev or traveller@busbooking.dev with password", seedPassword)
}

// CleanDatabase truncates every table, dependents first.
func (s *Seeder) CleanDatabase(ctx context.Context) error {
	tables := []string{
		"payments",
		"seat_bookings",
		"passengers",
		"bookings",
		"seats",
		"schedules",
		"routes",
		"buses",
		"cities",
		"users",
	}
	stmt := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
	return s.db.WithContext(ctx).Exec(stmt).Error
}

func (s *Seeder) SeedAll(ctx context.Context) error {
	if err := s.SeedUsers(ctx); err != nil {
		return fmt.Errorf("users: %w", err)
	}

	cities, err := s.SeedCities(ctx)
	if err != nil {
		return fmt.Errorf("cities: %w", err)
	}

	fleet, err := s.SeedBuses(ctx)
	if err != nil {
		return fmt.Errorf("buses: %w", err)
	}

	routes, err := s.SeedRoutes(ctx, cities)
	if err != nil {
		return fmt.Errorf("routes: %w", err)
	}

	return s.SeedSchedules(ctx, routes, fleet)
}

func (s *Seeder) SeedUsers(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	people := []users.User{
		{FirstName: "Ops", LastName: "Admin", Email: "admin@busbooking.dev", Password: string(hash), Role: users.RoleAdmin},
		{FirstName: "Asha", LastName: "Patil", Email: "traveller@busbooking.dev", Phone: "+919800000001", Password: string(hash), Role: users.RoleUser},
	}
	for i := range people {
		if err := s.db.WithContext(ctx).Create(&people[i]).Error; err != nil {
			return err
		}
		fmt.Printf("    created user %s (%s)\n", people[i].Email, people[i].Role)
	}
	return nil
}

func (s *Seeder) SeedCities(ctx context.Context) (map[string]uuid.UUID, error) {
	list := []schedules.City{
		{Name: "Mumbai", State: "Maharashtra"},
		{Name: "Pune", State: "Maharashtra"},
		{Name: "Kolhapur", State: "Maharashtra"},
		{Name: "Goa", State: "Goa"},
		{Name: "Bengaluru", State: "Karnataka"},
	}
	if err := s.db.WithContext(ctx).Create(&list).Error; err != nil {
		return nil, err
	}

	ids := make(map[string]uuid.UUID, len(list))
	for _, c := range list {
		ids[c.Name] = c.ID
	}
	fmt.Printf("    created %d cities\n", len(list))
	return ids, nil
}

// busLayout describes how seats are generated for a bus type.
type busLayout struct {
	sections []deck
}

type deck struct {
	section   int
	rows      int
	columns   string
	seatType  seats.SeatType
	surcharge int64
}

var layouts = map[string]busLayout{
	"AC_SEATER": {sections: []deck{
		{section: 1, rows: 8, columns: "ABCD", seatType: seats.TypeSeater},
	}},
	"AC_SLEEPER": {sections: []deck{
		{section: 1, rows: 5, columns: "ABC", seatType: seats.TypeLower, surcharge: 150},
		{section: 2, rows: 5, columns: "ABC", seatType: seats.TypeUpper, surcharge: 100},
	}},
}

func (l busLayout) seatCount() int {
	n := 0
	for _, d := range l.sections {
		n += d.rows * len(d.columns)
	}
	return n
}

func (s *Seeder) SeedBuses(ctx context.Context) ([]schedules.Bus, error) {
	fleet := []schedules.Bus{
		{Name: "Konkan Express", Operator: "Konkan Travels", RegistrationNumber: "MH-12-AB-1001", BusType: "AC_SLEEPER"},
		{Name: "Deccan Shuttle", Operator: "Deccan Lines", RegistrationNumber: "MH-14-CD-2002", BusType: "AC_SEATER"},
		{Name: "Sahyadri Night Rider", Operator: "Sahyadri Bus Co", RegistrationNumber: "MH-09-EF-3003", BusType: "AC_SLEEPER"},
	}
	for i := range fleet {
		fleet[i].TotalSeats = layouts[fleet[i].BusType].seatCount()
	}
	if err := s.db.WithContext(ctx).Create(&fleet).Error; err != nil {
		return nil, err
	}
	fmt.Printf("    created %d buses\n", len(fleet))
	return fleet, nil
}

type seededRoute struct {
	schedules.Route
	baseFare   int64
	departures []time.Duration // offsets from midnight
}

func (s *Seeder) SeedRoutes(ctx context.Context, cities map[string]uuid.UUID) ([]seededRoute, error) {
	plan := []struct {
		from, to   string
		km, mins   int
		fare       int64
		departures []time.Duration
	}{
		{"Pune", "Goa", 450, 660, 850, []time.Duration{20 * time.Hour, 22 * time.Hour}},
		{"Mumbai", "Pune", 150, 210, 400, []time.Duration{7 * time.Hour, 18*time.Hour + 30*time.Minute}},
		{"Pune", "Kolhapur", 230, 300, 500, []time.Duration{6 * time.Hour, 14 * time.Hour}},
		{"Mumbai", "Goa", 590, 780, 1100, []time.Duration{19 * time.Hour}},
		{"Pune", "Bengaluru", 840, 900, 1400, []time.Duration{17 * time.Hour}},
	}

	routes := make([]seededRoute, 0, len(plan))
	for _, r := range plan {
		route := schedules.Route{
			SourceCityID:      cities[r.from],
			DestinationCityID: cities[r.to],
			DistanceKM:        r.km,
			DurationMinutes:   r.mins,
		}
		if err := s.db.WithContext(ctx).Omit("SourceCity", "DestinationCity").Create(&route).Error; err != nil {
			return nil, err
		}
		routes = append(routes, seededRoute{Route: route, baseFare: r.fare, departures: r.departures})
		fmt.Printf("    created route %s -> %s\n", r.from, r.to)
	}
	return routes, nil
}

func (s *Seeder) SeedSchedules(ctx context.Context, routes []seededRoute, fleet []schedules.Bus) error {
	tomorrow := time.Date(s.now.Year(), s.now.Month(), s.now.Day()+1, 0, 0, 0, 0, s.now.Location())

	created, seatTotal := 0, 0
	for day := 0; day < seedDays; day++ {
		midnight := tomorrow.AddDate(0, 0, day)
		for ri, route := range routes {
			for di, offset := range route.departures {
				bus := fleet[(ri+di+day)%len(fleet)]
				departure := midnight.Add(offset)

				schedule := schedules.Schedule{
					RouteID:       route.ID,
					BusID:         bus.ID,
					DepartureTime: departure,
					ArrivalTime:   departure.Add(time.Duration(route.DurationMinutes) * time.Minute),
					BaseFare:      route.baseFare,
					Status:        schedules.StatusScheduled,
				}
				if err := s.db.WithContext(ctx).Omit("Route", "Bus").Create(&schedule).Error; err != nil {
					return err
				}

				inventory := buildSeats(schedule.ID, layouts[bus.BusType], route.baseFare)
				if err := s.db.WithContext(ctx).CreateInBatches(inventory, 100).Error; err != nil {
					return err
				}
				created++
				seatTotal += len(inventory)
			}
		}
	}

	fmt.Printf("    created %d schedules with %d seats\n", created, seatTotal)
	return nil
}

// buildSeats lays out one schedule's inventory. A few seats start booked so the
// seat map has something to show, and one legacy label that the seat map skips
// is kept to mirror older imported data.
func buildSeats(scheduleID uuid.UUID, layout busLayout, baseFare int64) []seats.Seat {
	out := make([]seats.Seat, 0, layout.seatCount()+1)
	for _, d := range layout.sections {
		for row := 1; row <= d.rows; row++ {
			for _, col := range d.columns {
				status := seats.StatusAvailable
				if row == 2 && (col == 'A' || col == 'B') {
					status = seats.StatusBooked
				}
				out = append(out, seats.Seat{
					ScheduleID: scheduleID,
					SeatNumber: fmt.Sprintf("%d-%d%c", d.section, row, col),
					SeatType:   d.seatType,
					Status:     status,
					Price:      baseFare + d.surcharge,
				})
			}
		}
	}

	out = append(out, seats.Seat{
		ScheduleID: scheduleID,
		SeatNumber: "CREW",
		SeatType:   seats.TypeSeater,
		Status:     seats.StatusBlocked,
		Price:      0,
	})
	return out
}
