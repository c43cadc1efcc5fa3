package engine

import (
	"context"
	"errors"

	"github.com/showbase/movie-booking/internal/clock"
	"github.com/showbase/movie-booking/internal/domain"
)

// BookingStore is the persistence contract of the Booking Engine. The
// ...ForUpdate methods must take an exclusive lock on the single ticket row
// they return; the engine never locks two tickets in one transaction, which
// rules out deadlock by construction.
type BookingStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindUnit(ctx context.Context, showtimeID, seatID uint64) (*domain.BookableUnit, error)
	GetShowtime(ctx context.Context, id uint64) (domain.Showtime, error)
	TicketByUnit(ctx context.Context, unitID uint64) (*domain.Ticket, error)
	TicketByUnitForUpdate(ctx context.Context, unitID uint64) (*domain.Ticket, error)
	TicketByIDForUpdate(ctx context.Context, id uint64) (*domain.Ticket, error)
	UpdateTicket(ctx context.Context, t *domain.Ticket) error
}

// BookingEngine owns ticket state transitions. Book is the only path that
// can move a ticket out of AVAILABLE; all double-booking prevention reduces
// to making its check-then-set indivisible per bookable unit.
type BookingEngine struct {
	store BookingStore
	clock clock.Clock
}

// NewBookingEngine constructs a BookingEngine over the given store and clock.
func NewBookingEngine(store BookingStore, clk clock.Clock) *BookingEngine {
	return &BookingEngine{store: store, clock: clk}
}

// CheckAvailability reports whether the seat can currently be booked for the
// showtime. It is an advisory snapshot read without locks: no bookable unit
// for the pair means the seat does not belong to the showtime's theatre
// (false), a unit whose ticket is missing counts as available by definition,
// and otherwise the answer is whether the ticket is AVAILABLE. A true result
// is not a hold; callers must still accept Book's authoritative answer.
func (e *BookingEngine) CheckAvailability(ctx context.Context, showtimeID, seatID uint64) (bool, error) {
	unit, err := e.store.FindUnit(ctx, showtimeID, seatID)
	if errors.Is(err, domain.ErrUnitNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	ticket, err := e.store.TicketByUnit(ctx, unit.ID)
	if err != nil {
		return false, err
	}
	if ticket == nil {
		return true, nil
	}
	return ticket.Status == domain.TicketAvailable, nil
}

// Book atomically transitions the ticket of the (showtime, seat) unit from
// AVAILABLE to target (RESERVED or SOLD), stamping the purchase time and
// customer email. Under concurrent calls for the same unit exactly one
// caller observes AVAILABLE and succeeds; every other caller fails with
// ErrAlreadyBooked. Booking a showtime whose start is strictly in the past
// fails with ErrPastShowtime regardless of the ticket's current status.
func (e *BookingEngine) Book(ctx context.Context, showtimeID, seatID uint64, target domain.TicketStatus, customerEmail string) (domain.Ticket, error) {
	if target != domain.TicketReserved && target != domain.TicketSold {
		return domain.Ticket{}, domain.ErrInvalidTransition
	}

	var booked domain.Ticket
	err := e.store.WithTx(ctx, func(ctx context.Context) error {
		unit, err := e.store.FindUnit(ctx, showtimeID, seatID)
		if err != nil {
			return err
		}
		st, err := e.store.GetShowtime(ctx, unit.ShowtimeID)
		if err != nil {
			return err
		}
		if st.StartsAt.Before(e.clock.Now()) {
			return domain.ErrPastShowtime
		}

		// The row lock held between this read and the write below is what
		// makes the check-then-set linearizable per unit.
		ticket, err := e.store.TicketByUnitForUpdate(ctx, unit.ID)
		if err != nil {
			return err
		}
		if ticket == nil {
			return domain.ErrNotFound
		}
		if ticket.Status != domain.TicketAvailable {
			return domain.ErrAlreadyBooked
		}

		now := e.clock.Now()
		email := customerEmail
		ticket.Status = target
		ticket.PurchasedAt = &now
		ticket.CustomerEmail = &email
		if err := e.store.UpdateTicket(ctx, ticket); err != nil {
			return err
		}
		booked = *ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return booked, nil
}

// Confirm finalises a reservation: RESERVED -> SOLD. The original purchase
// stamp and customer email are kept. An AVAILABLE ticket cannot be
// confirmed; Book is the only path out of AVAILABLE.
func (e *BookingEngine) Confirm(ctx context.Context, ticketID uint64) error {
	return e.transition(ctx, ticketID, domain.TicketReserved, domain.TicketSold, false)
}

// Cancel releases a reservation: RESERVED -> AVAILABLE.
func (e *BookingEngine) Cancel(ctx context.Context, ticketID uint64) error {
	return e.transition(ctx, ticketID, domain.TicketReserved, domain.TicketAvailable, true)
}

// Refund releases a sold ticket: SOLD -> AVAILABLE.
func (e *BookingEngine) Refund(ctx context.Context, ticketID uint64) error {
	return e.transition(ctx, ticketID, domain.TicketSold, domain.TicketAvailable, true)
}

// transition applies a locked single-ticket status change, requiring the
// ticket to currently be in from and validating the edge against the state
// machine. Releasing transitions clear the purchase stamp and customer email.
func (e *BookingEngine) transition(ctx context.Context, ticketID uint64, from, to domain.TicketStatus, release bool) error {
	return e.store.WithTx(ctx, func(ctx context.Context) error {
		ticket, err := e.store.TicketByIDForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if ticket.Status != from || !domain.CanTransition(from, to) {
			return domain.ErrInvalidTransition
		}
		ticket.Status = to
		if release {
			ticket.PurchasedAt = nil
			ticket.CustomerEmail = nil
		}
		return e.store.UpdateTicket(ctx, ticket)
	})
}
