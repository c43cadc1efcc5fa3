package engine

import (
	"context"
	"strings"

	"github.com/showbase/movie-booking/internal/domain"
)

// InventoryStore is the persistence contract of the Seat Inventory. The same
// locking rule as ScheduleStore applies: GetTheatreForUpdate serialises
// structural mutation per theatre.
type InventoryStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetTheatreForUpdate(ctx context.Context, id uint64) (domain.Theatre, error)
	SeatExists(ctx context.Context, theatreID uint64, locationCode string) (bool, error)
	CreateSeat(ctx context.Context, s *domain.Seat) error
	CountSeats(ctx context.Context, theatreID uint64) (uint32, error)
	SetTheatreCapacity(ctx context.Context, theatreID uint64, capacity uint32) error
	ShowtimesByTheatre(ctx context.Context, theatreID uint64) ([]domain.Showtime, error)
	CreateUnits(ctx context.Context, units []domain.BookableUnit, tickets []domain.Ticket) error
}

// SeatInventory owns seat records and the materialization of bookable units
// whenever a seat is installed.
type SeatInventory struct {
	store InventoryStore
}

// NewSeatInventory constructs a SeatInventory over the given store.
func NewSeatInventory(store InventoryStore) *SeatInventory {
	return &SeatInventory{store: store}
}

// AddSeatInput carries the parameters of a seat installation.
type AddSeatInput struct {
	TheatreID    uint64
	LocationCode string
	Class        domain.SeatClass
}

// AddSeat installs a seat at a unique (theatre, location) position. On
// success it recomputes the theatre's capacity from the live seat count and
// materializes one bookable unit plus one AVAILABLE ticket for every
// showtime already scheduled in the theatre, so the bridge stays complete
// regardless of whether seats or showtimes arrive first.
func (v *SeatInventory) AddSeat(ctx context.Context, in AddSeatInput) (domain.Seat, error) {
	location := strings.ToUpper(strings.TrimSpace(in.LocationCode))
	class := in.Class
	if class == "" {
		class = domain.SeatStandard
	}

	var result domain.Seat
	err := v.store.WithTx(ctx, func(ctx context.Context) error {
		if _, err := v.store.GetTheatreForUpdate(ctx, in.TheatreID); err != nil {
			return err
		}
		exists, err := v.store.SeatExists(ctx, in.TheatreID, location)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateSeat
		}

		seat := domain.Seat{TheatreID: in.TheatreID, LocationCode: location, Class: class}
		if err := v.store.CreateSeat(ctx, &seat); err != nil {
			return err
		}

		// Capacity is derived state: re-assert it from the live count so it
		// can never drift from the installed seats.
		count, err := v.store.CountSeats(ctx, in.TheatreID)
		if err != nil {
			return err
		}
		if err := v.store.SetTheatreCapacity(ctx, in.TheatreID, count); err != nil {
			return err
		}

		showtimes, err := v.store.ShowtimesByTheatre(ctx, in.TheatreID)
		if err != nil {
			return err
		}
		price := domain.PriceForClass(class)
		units := make([]domain.BookableUnit, 0, len(showtimes))
		tickets := make([]domain.Ticket, 0, len(showtimes))
		for _, st := range showtimes {
			units = append(units, domain.BookableUnit{ShowtimeID: st.ID, SeatID: seat.ID})
			tickets = append(tickets, domain.Ticket{Status: domain.TicketAvailable, PriceCents: price})
		}
		if err := v.store.CreateUnits(ctx, units, tickets); err != nil {
			return err
		}
		result = seat
		return nil
	})
	if err != nil {
		return domain.Seat{}, err
	}
	return result, nil
}
