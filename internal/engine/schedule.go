// Package engine implements the seat-inventory and booking-consistency core:
// the Schedule Manager, the Seat Inventory and the Booking Engine. Each
// component validates against the invariants in package domain and persists
// through a store interface whose WithTx method scopes every mutation to a
// single transaction, so a rejected operation leaves no partial state.
package engine

import (
	"context"
	"time"

	"github.com/showbase/movie-booking/internal/domain"
)

// ScheduleStore is the persistence contract of the Schedule Manager. All
// methods called inside WithTx participate in one transaction;
// GetTheatreForUpdate must take an exclusive lock on the theatre so that
// structural mutation (scheduling, seat installation) serialises per theatre.
type ScheduleStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetMovie(ctx context.Context, id uint64) (domain.Movie, error)
	GetTheatreForUpdate(ctx context.Context, id uint64) (domain.Theatre, error)
	FindOverlapping(ctx context.Context, theatreID uint64, showDate string, startsAt, endsAt time.Time) ([]domain.Showtime, error)
	CreateShowtime(ctx context.Context, st *domain.Showtime) error
	SeatsByTheatre(ctx context.Context, theatreID uint64) ([]domain.Seat, error)
	CreateUnits(ctx context.Context, units []domain.BookableUnit, tickets []domain.Ticket) error
}

// ScheduleManager creates showtimes and enforces the per-theatre,
// per-date half-open overlap invariant.
type ScheduleManager struct {
	store ScheduleStore
}

// NewScheduleManager constructs a ScheduleManager over the given store.
func NewScheduleManager(store ScheduleStore) *ScheduleManager {
	return &ScheduleManager{store: store}
}

// ScheduleShowtimeInput carries the parameters of a scheduling request. The
// show date is derived from StartsAt (UTC).
type ScheduleShowtimeInput struct {
	MovieID   uint64
	TheatreID uint64
	StartsAt  time.Time
	EndsAt    time.Time
}

// ScheduleShowtime validates the interval, rejects any overlap with an
// existing showtime in the same theatre on the same date, and on success
// creates the showtime together with one bookable unit and one AVAILABLE
// ticket per seat currently installed in the theatre, priced by seat class.
// The whole operation runs in a single theatre-locked transaction.
func (m *ScheduleManager) ScheduleShowtime(ctx context.Context, in ScheduleShowtimeInput) (domain.Showtime, error) {
	if err := domain.ValidateInterval(in.StartsAt, in.EndsAt); err != nil {
		return domain.Showtime{}, err
	}

	var result domain.Showtime
	err := m.store.WithTx(ctx, func(ctx context.Context) error {
		if _, err := m.store.GetMovie(ctx, in.MovieID); err != nil {
			return err
		}
		// Locking the theatre row serialises concurrent ScheduleShowtime and
		// AddSeat calls against the same theatre; two overlapping proposals
		// can therefore never both pass the check below.
		if _, err := m.store.GetTheatreForUpdate(ctx, in.TheatreID); err != nil {
			return err
		}

		date := domain.DateOf(in.StartsAt)
		overlaps, err := m.store.FindOverlapping(ctx, in.TheatreID, date, in.StartsAt.UTC(), in.EndsAt.UTC())
		if err != nil {
			return err
		}
		if len(overlaps) > 0 {
			return domain.ErrShowtimeOverlap
		}

		st := domain.Showtime{
			MovieID:   in.MovieID,
			TheatreID: in.TheatreID,
			ShowDate:  date,
			StartsAt:  in.StartsAt.UTC(),
			EndsAt:    in.EndsAt.UTC(),
		}
		if err := m.store.CreateShowtime(ctx, &st); err != nil {
			return err
		}

		seats, err := m.store.SeatsByTheatre(ctx, in.TheatreID)
		if err != nil {
			return err
		}
		units, tickets := materialize(st.ID, seats)
		if err := m.store.CreateUnits(ctx, units, tickets); err != nil {
			return err
		}
		result = st
		return nil
	})
	if err != nil {
		return domain.Showtime{}, err
	}
	return result, nil
}

// materialize builds the bridge rows for one showtime across a set of seats:
// units[i] pairs the showtime with seats[i], and tickets[i] is its AVAILABLE
// ticket priced by the seat's class. Stores bind tickets[i] to the generated
// ID of units[i] on insert.
func materialize(showtimeID uint64, seats []domain.Seat) ([]domain.BookableUnit, []domain.Ticket) {
	units := make([]domain.BookableUnit, 0, len(seats))
	tickets := make([]domain.Ticket, 0, len(seats))
	for _, seat := range seats {
		units = append(units, domain.BookableUnit{ShowtimeID: showtimeID, SeatID: seat.ID})
		tickets = append(tickets, domain.Ticket{
			Status:     domain.TicketAvailable,
			PriceCents: domain.PriceForClass(seat.Class),
		})
	}
	return units, tickets
}
