package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/showbase/movie-booking/internal/domain"
)

// TheatreRepo manages persistence for theatres. Capacity is written only by
// the inventory store's recompute; Create always starts a theatre at zero.
type TheatreRepo struct {
	db *sql.DB
}

// NewTheatreRepo constructs a TheatreRepo with the given DB handle.
func NewTheatreRepo(db *sql.DB) *TheatreRepo {
	return &TheatreRepo{db: db}
}

// Create inserts a theatre under a venue. A duplicate (venue, name) pair
// yields domain.ErrConflict; a missing venue yields domain.ErrNotFound.
func (r *TheatreRepo) Create(ctx context.Context, t *domain.Theatre) error {
	const exists = `SELECT 1 FROM venues WHERE id = ?`
	var one int
	if err := q(ctx, r.db).QueryRowContext(ctx, exists, t.VenueID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	const ins = `INSERT INTO theatres (venue_id, name, capacity) VALUES (?, ?, 0)`
	res, err := q(ctx, r.db).ExecContext(ctx, ins, t.VenueID, t.Name)
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
	t.ID = uint64(id)
	t.Capacity = 0
	const sel = `SELECT created_at, updated_at FROM theatres WHERE id = ?`
	return q(ctx, r.db).QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByID retrieves a theatre, returning domain.ErrNotFound when absent.
func (r *TheatreRepo) GetByID(ctx context.Context, id uint64) (*domain.Theatre, error) {
	t, err := scanTheatre(ctx, q(ctx, r.db), `SELECT id, venue_id, name, capacity, created_at, updated_at FROM theatres WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByVenue returns a venue's theatres ordered by name.
func (r *TheatreRepo) ListByVenue(ctx context.Context, venueID uint64) ([]domain.Theatre, error) {
	const sel = `SELECT id, venue_id, name, capacity, created_at, updated_at
	             FROM theatres WHERE venue_id = ? ORDER BY name`
	rows, err := q(ctx, r.db).QueryContext(ctx, sel, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []domain.Theatre
	for rows.Next() {
		var t domain.Theatre
		if err := rows.Scan(&t.ID, &t.VenueID, &t.Name, &t.Capacity, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// scanTheatre runs a single-row theatre query, mapping sql.ErrNoRows to
// domain.ErrNotFound. Shared by the plain and FOR UPDATE lookups.
func scanTheatre(ctx context.Context, run querier, query string, args ...any) (domain.Theatre, error) {
	var t domain.Theatre
	err := run.QueryRowContext(ctx, query, args...).
		Scan(&t.ID, &t.VenueID, &t.Name, &t.Capacity, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Theatre{}, domain.ErrNotFound
		}
		return domain.Theatre{}, err
	}
	return t, nil
}

// theatreForUpdate locks the theatre row for the remainder of the enclosing
// transaction. This single row lock is what serialises structural mutation
// (scheduling, seat installation) per theatre while letting different
// theatres proceed in parallel.
func theatreForUpdate(ctx context.Context, run querier, id uint64) (domain.Theatre, error) {
	return scanTheatre(ctx, run,
		`SELECT id, venue_id, name, capacity, created_at, updated_at FROM theatres WHERE id = ? FOR UPDATE`, id)
}
