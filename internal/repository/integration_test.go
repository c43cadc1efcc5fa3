package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/showbase/movie-booking/internal/clock"
	"github.com/showbase/movie-booking/internal/database"
	"github.com/showbase/movie-booking/internal/domain"
	"github.com/showbase/movie-booking/internal/engine"
)

// newTestDB opens the integration test database named by TEST_DATABASE_DSN
// (default: local MySQL, database movie_booking_test), applies the schema
// and truncates all tables. Tests are skipped when the database is not
// reachable, so the suite still runs on machines without MySQL.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "root@tcp(localhost:3306)/movie_booking_test?charset=utf8mb4&parseTime=true&loc=UTC&multiStatements=false"
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("mysql not available: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Skipf("mysql not reachable: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS=0"); err != nil {
		t.Fatalf("disable fk checks: %v", err)
	}
	for _, table := range []string{"tickets", "bookable_units", "showtimes", "seats", "movies", "theatres", "venues"} {
		if _, err := db.Exec("TRUNCATE TABLE " + table); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS=1"); err != nil {
		t.Fatalf("enable fk checks: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type integrationFixture struct {
	db        *sql.DB
	venue     domain.Venue
	theatre   domain.Theatre
	movie     domain.Movie
	scheduler *engine.ScheduleManager
	inventory *engine.SeatInventory
}

func newIntegrationFixture(t *testing.T) *integrationFixture {
	t.Helper()
	db := newTestDB(t)
	ctx := context.Background()

	venue := domain.Venue{Name: "Grand Plaza", Address: "1 Main St"}
	if err := NewVenueRepo(db).Create(ctx, &venue); err != nil {
		t.Fatalf("create venue: %v", err)
	}
	theatre := domain.Theatre{VenueID: venue.ID, Name: "Screen 1"}
	if err := NewTheatreRepo(db).Create(ctx, &theatre); err != nil {
		t.Fatalf("create theatre: %v", err)
	}
	movie := domain.Movie{Title: "Heat", Genre: "Crime", DurationMin: 170, ReleaseYear: 1995, Rating: domain.RatingR}
	if err := NewMovieRepo(db).Create(ctx, &movie); err != nil {
		t.Fatalf("create movie: %v", err)
	}

	return &integrationFixture{
		db:        db,
		venue:     venue,
		theatre:   theatre,
		movie:     movie,
		scheduler: engine.NewScheduleManager(NewScheduleRepo(db)),
		inventory: engine.NewSeatInventory(NewInventoryRepo(db)),
	}
}

func (fx *integrationFixture) addSeat(t *testing.T, location string, class domain.SeatClass) domain.Seat {
	t.Helper()
	seat, err := fx.inventory.AddSeat(context.Background(), engine.AddSeatInput{
		TheatreID: fx.theatre.ID, LocationCode: location, Class: class,
	})
	if err != nil {
		t.Fatalf("add seat %s: %v", location, err)
	}
	return seat
}

func (fx *integrationFixture) schedule(t *testing.T, start time.Time, d time.Duration) domain.Showtime {
	t.Helper()
	st, err := fx.scheduler.ScheduleShowtime(context.Background(), engine.ScheduleShowtimeInput{
		MovieID: fx.movie.ID, TheatreID: fx.theatre.ID, StartsAt: start, EndsAt: start.Add(d),
	})
	if err != nil {
		t.Fatalf("schedule showtime: %v", err)
	}
	return st
}

func futureStart() time.Time {
	return time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
}

func TestIntegrationDuplicateSeat(t *testing.T) {
	fx := newIntegrationFixture(t)
	fx.addSeat(t, "A1", domain.SeatStandard)

	_, err := fx.inventory.AddSeat(context.Background(), engine.AddSeatInput{
		TheatreID: fx.theatre.ID, LocationCode: "a1",
	})
	if !errors.Is(err, domain.ErrDuplicateSeat) {
		t.Fatalf("got %v, want ErrDuplicateSeat", err)
	}

	theatre, err := NewTheatreRepo(fx.db).GetByID(context.Background(), fx.theatre.ID)
	if err != nil {
		t.Fatalf("get theatre: %v", err)
	}
	if theatre.Capacity != 1 {
		t.Fatalf("capacity = %d, want 1", theatre.Capacity)
	}
}

func TestIntegrationOverlapRejectedAtomically(t *testing.T) {
	fx := newIntegrationFixture(t)
	fx.addSeat(t, "A1", domain.SeatStandard)
	fx.addSeat(t, "A2", domain.SeatPremium)

	start := futureStart()
	fx.schedule(t, start, 2*time.Hour)

	_, err := fx.scheduler.ScheduleShowtime(context.Background(), engine.ScheduleShowtimeInput{
		MovieID: fx.movie.ID, TheatreID: fx.theatre.ID,
		StartsAt: start.Add(time.Hour), EndsAt: start.Add(3 * time.Hour),
	})
	if !errors.Is(err, domain.ErrShowtimeOverlap) {
		t.Fatalf("got %v, want ErrShowtimeOverlap", err)
	}

	// The rejected attempt must not have materialized anything.
	var showtimes, units int
	if err := fx.db.QueryRow("SELECT COUNT(*) FROM showtimes").Scan(&showtimes); err != nil {
		t.Fatalf("count showtimes: %v", err)
	}
	if err := fx.db.QueryRow("SELECT COUNT(*) FROM bookable_units").Scan(&units); err != nil {
		t.Fatalf("count units: %v", err)
	}
	if showtimes != 1 || units != 2 {
		t.Fatalf("after rejection: %d showtimes / %d units, want 1 / 2", showtimes, units)
	}

	// A back-to-back showtime still fits.
	fx.schedule(t, start.Add(2*time.Hour), 2*time.Hour)
}

func TestIntegrationConcurrentBookingSingleWinner(t *testing.T) {
	fx := newIntegrationFixture(t)
	seat := fx.addSeat(t, "A1", domain.SeatVIP)
	st := fx.schedule(t, futureStart(), 2*time.Hour)

	eng := engine.NewBookingEngine(NewBookingRepo(fx.db), clock.NewSystem())

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = eng.Book(context.Background(), st.ID, seat.ID, domain.TicketSold,
				fmt.Sprintf("racer%d@example.com", i))
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrAlreadyBooked):
		default:
			t.Fatalf("unexpected booking error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}

	var sold int
	if err := fx.db.QueryRow("SELECT COUNT(*) FROM tickets WHERE status = 'SOLD'").Scan(&sold); err != nil {
		t.Fatalf("count sold: %v", err)
	}
	if sold != 1 {
		t.Fatalf("sold tickets = %d, want 1", sold)
	}
}

func TestIntegrationLifecycleAndReports(t *testing.T) {
	fx := newIntegrationFixture(t)
	seatA := fx.addSeat(t, "A1", domain.SeatStandard)
	fx.addSeat(t, "A2", domain.SeatStandard)
	st := fx.schedule(t, futureStart(), 2*time.Hour)

	eng := engine.NewBookingEngine(NewBookingRepo(fx.db), clock.NewSystem())
	reports := NewReportRepo(fx.db)
	ctx := context.Background()

	ticket, err := eng.Book(ctx, st.ID, seatA.ID, domain.TicketReserved, "ana@example.com")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	occ, err := reports.Occupancy(ctx, st.ID)
	if err != nil {
		t.Fatalf("occupancy: %v", err)
	}
	if occ.TotalCapacity != 2 || occ.ReservedCount != 1 || occ.AvailableCount != 1 {
		t.Fatalf("occupancy = %+v, want total 2 / reserved 1 / available 1", occ)
	}

	if err := eng.Confirm(ctx, ticket.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := eng.Refund(ctx, ticket.ID); err != nil {
		t.Fatalf("refund: %v", err)
	}

	available, err := reports.AvailableSeats(ctx, st.ID)
	if err != nil {
		t.Fatalf("available seats: %v", err)
	}
	if len(available) != 2 {
		t.Fatalf("available seats = %d, want 2 after refund", len(available))
	}

	pairs, err := reports.FindOverlappingPairs(ctx)
	if err != nil {
		t.Fatalf("overlap audit: %v", err)
	}
	if len(pairs) != 0 {
		t.Fatalf("overlap audit found %d pairs, want 0", len(pairs))
	}
}
