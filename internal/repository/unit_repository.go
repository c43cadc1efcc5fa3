package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/showbase/movie-booking/internal/domain"
)

// BookingRepo is the MySQL store behind the Booking Engine. Ticket state
// changes go through TicketByUnitForUpdate / TicketByIDForUpdate so the
// check-then-set in the engine holds the row lock for the whole decision.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// WithTx runs fn inside a transaction carried by the context.
func (r *BookingRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

// FindUnit resolves the bookable unit at (showtime, seat), returning
// domain.ErrUnitNotFound when the pair is not part of the inventory.
func (r *BookingRepo) FindUnit(ctx context.Context, showtimeID, seatID uint64) (*domain.BookableUnit, error) {
	const sel = `SELECT id, showtime_id, seat_id, created_at
	             FROM bookable_units WHERE showtime_id = ? AND seat_id = ?`
	var u domain.BookableUnit
	err := q(ctx, r.db).QueryRowContext(ctx, sel, showtimeID, seatID).
		Scan(&u.ID, &u.ShowtimeID, &u.SeatID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnitNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetShowtime retrieves a showtime, returning domain.ErrNotFound when absent.
func (r *BookingRepo) GetShowtime(ctx context.Context, id uint64) (domain.Showtime, error) {
	const sel = `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = ?`
	st, err := scanShowtime(q(ctx, r.db).QueryRowContext(ctx, sel, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Showtime{}, domain.ErrNotFound
		}
		return domain.Showtime{}, err
	}
	return st, nil
}

// TicketByUnit returns the unit's ticket without locking, or (nil, nil) when
// no ticket row exists. Used by the read-only availability check.
func (r *BookingRepo) TicketByUnit(ctx context.Context, unitID uint64) (*domain.Ticket, error) {
	return r.ticketByUnit(ctx, unitID, false)
}

// TicketByUnitForUpdate returns the unit's ticket with the row locked for the
// enclosing transaction, or (nil, nil) when no ticket row exists.
func (r *BookingRepo) TicketByUnitForUpdate(ctx context.Context, unitID uint64) (*domain.Ticket, error) {
	return r.ticketByUnit(ctx, unitID, true)
}

func (r *BookingRepo) ticketByUnit(ctx context.Context, unitID uint64, forUpdate bool) (*domain.Ticket, error) {
	sel := `SELECT ` + ticketColumns + ` FROM tickets WHERE bookable_unit_id = ?`
	if forUpdate {
		sel += ` FOR UPDATE`
	}
	t, err := scanTicket(q(ctx, r.db).QueryRowContext(ctx, sel, unitID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// TicketByIDForUpdate locks and returns the ticket, returning
// domain.ErrNotFound when absent.
func (r *BookingRepo) TicketByIDForUpdate(ctx context.Context, id uint64) (*domain.Ticket, error) {
	const sel = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ? FOR UPDATE`
	t, err := scanTicket(q(ctx, r.db).QueryRowContext(ctx, sel, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// SeatLocation resolves a seat's location code. Used to enrich event
// payloads, not by the engine.
func (r *BookingRepo) SeatLocation(ctx context.Context, seatID uint64) (string, error) {
	const sel = `SELECT location_code FROM seats WHERE id = ?`
	var code string
	if err := q(ctx, r.db).QueryRowContext(ctx, sel, seatID).Scan(&code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return code, nil
}

// UpdateTicket persists a state change decided by the engine.
func (r *BookingRepo) UpdateTicket(ctx context.Context, t *domain.Ticket) error {
	const upd = `UPDATE tickets
	             SET status = ?, purchased_at = ?, customer_email = ?, updated_at = CURRENT_TIMESTAMP
	             WHERE id = ?`
	var purchased sql.NullTime
	if t.PurchasedAt != nil {
		purchased = sql.NullTime{Time: *t.PurchasedAt, Valid: true}
	}
	var email sql.NullString
	if t.CustomerEmail != nil {
		email = sql.NullString{String: *t.CustomerEmail, Valid: true}
	}
	_, err := q(ctx, r.db).ExecContext(ctx, upd, string(t.Status), purchased, email, t.ID)
	return err
}

const ticketColumns = `id, bookable_unit_id, status, price_cents, purchased_at, customer_email, created_at, updated_at`

func scanTicket(row rowScanner) (domain.Ticket, error) {
	var t domain.Ticket
	var purchased sql.NullTime
	var email sql.NullString
	err := row.Scan(&t.ID, &t.BookableUnitID, &t.Status, &t.PriceCents, &purchased, &email, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Ticket{}, err
	}
	if purchased.Valid {
		at := purchased.Time
		t.PurchasedAt = &at
	}
	if email.Valid {
		addr := email.String
		t.CustomerEmail = &addr
	}
	return t, nil
}

// createUnits inserts each (unit, ticket) pair one at a time: the ticket row
// needs the generated unit ID as its foreign key, so the units cannot go in
// as a single bulk INSERT. Both inserts ride the enclosing transaction, so a
// failure anywhere rolls the whole materialization back. tickets[i] belongs
// to units[i].
func createUnits(ctx context.Context, run querier, units []domain.BookableUnit, tickets []domain.Ticket) error {
	const insUnit = `INSERT INTO bookable_units (showtime_id, seat_id) VALUES (?, ?)`
	const insTicket = `INSERT INTO tickets (bookable_unit_id, status, price_cents) VALUES (?, ?, ?)`
	for i := range units {
		res, err := run.ExecContext(ctx, insUnit, units[i].ShowtimeID, units[i].SeatID)
		if err != nil {
			if isDuplicateEntry(err) {
				return domain.ErrConflict
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		units[i].ID = uint64(id)
		tickets[i].BookableUnitID = units[i].ID
		res, err = run.ExecContext(ctx, insTicket, tickets[i].BookableUnitID, string(tickets[i].Status), tickets[i].PriceCents)
		if err != nil {
			return err
		}
		tid, err := res.LastInsertId()
		if err != nil {
			return err
		}
		tickets[i].ID = uint64(tid)
	}
	return nil
}
