package repository

import (
	"context"
	"database/sql"

	"github.com/showbase/movie-booking/internal/domain"
)

// InventoryRepo is the MySQL store behind the Seat Inventory. It implements
// engine.InventoryStore; the duplicate check, the insert, the capacity
// recompute and the unit materialization run in one theatre-locked WithTx
// transaction.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo constructs an InventoryRepo with the given DB handle.
func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

// WithTx runs fn inside a transaction carried by the context.
func (r *InventoryRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

// GetTheatreForUpdate locks the theatre row for the enclosing transaction.
func (r *InventoryRepo) GetTheatreForUpdate(ctx context.Context, id uint64) (domain.Theatre, error) {
	return theatreForUpdate(ctx, q(ctx, r.db), id)
}

// SeatExists reports whether a seat already occupies (theatre, location).
func (r *InventoryRepo) SeatExists(ctx context.Context, theatreID uint64, locationCode string) (bool, error) {
	const sel = `SELECT 1 FROM seats WHERE theatre_id = ? AND location_code = ?`
	var one int
	err := q(ctx, r.db).QueryRowContext(ctx, sel, theatreID, locationCode).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateSeat inserts a seat and assigns the generated ID back to the struct.
// The unique (theatre_id, location_code) index backs up the engine's
// duplicate check; a race on it surfaces as domain.ErrDuplicateSeat.
func (r *InventoryRepo) CreateSeat(ctx context.Context, s *domain.Seat) error {
	const ins = `INSERT INTO seats (theatre_id, location_code, seat_class) VALUES (?, ?, ?)`
	res, err := q(ctx, r.db).ExecContext(ctx, ins, s.TheatreID, s.LocationCode, string(s.Class))
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.ErrDuplicateSeat
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM seats WHERE id = ?`
	return q(ctx, r.db).QueryRowContext(ctx, sel, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// CountSeats returns the live number of seats installed in the theatre.
func (r *InventoryRepo) CountSeats(ctx context.Context, theatreID uint64) (uint32, error) {
	const sel = `SELECT COUNT(*) FROM seats WHERE theatre_id = ?`
	var n uint32
	if err := q(ctx, r.db).QueryRowContext(ctx, sel, theatreID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SetTheatreCapacity re-asserts the derived capacity value on the theatre.
func (r *InventoryRepo) SetTheatreCapacity(ctx context.Context, theatreID uint64, capacity uint32) error {
	const upd = `UPDATE theatres SET capacity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := q(ctx, r.db).ExecContext(ctx, upd, capacity, theatreID)
	return err
}

// ShowtimesByTheatre returns the theatre's showtimes ordered by start time.
func (r *InventoryRepo) ShowtimesByTheatre(ctx context.Context, theatreID uint64) ([]domain.Showtime, error) {
	return showtimesByTheatre(ctx, q(ctx, r.db), theatreID)
}

// CreateUnits materializes bookable units and their tickets; see createUnits.
func (r *InventoryRepo) CreateUnits(ctx context.Context, units []domain.BookableUnit, tickets []domain.Ticket) error {
	return createUnits(ctx, q(ctx, r.db), units, tickets)
}

// ListByTheatre returns the theatre's seats for the read side of the HTTP
// surface.
func (r *InventoryRepo) ListByTheatre(ctx context.Context, theatreID uint64) ([]domain.Seat, error) {
	return seatsByTheatre(ctx, q(ctx, r.db), theatreID)
}

func seatsByTheatre(ctx context.Context, run querier, theatreID uint64) ([]domain.Seat, error) {
	const sel = `SELECT id, theatre_id, location_code, seat_class, created_at, updated_at
	             FROM seats WHERE theatre_id = ? ORDER BY location_code`
	rows, err := run.QueryContext(ctx, sel, theatreID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.TheatreID, &s.LocationCode, &s.Class, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
