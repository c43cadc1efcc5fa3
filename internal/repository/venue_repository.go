package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/showbase/movie-booking/internal/domain"
)

// VenueRepo manages persistence for venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// Create inserts a venue and assigns the generated ID back to the struct.
// A duplicate (name, address) pair yields domain.ErrConflict.
func (r *VenueRepo) Create(ctx context.Context, v *domain.Venue) error {
	const ins = `INSERT INTO venues (name, address) VALUES (?, ?)`
	res, err := q(ctx, r.db).ExecContext(ctx, ins, v.Name, v.Address)
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
	v.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM venues WHERE id = ?`
	return q(ctx, r.db).QueryRowContext(ctx, sel, v.ID).Scan(&v.CreatedAt, &v.UpdatedAt)
}

// GetByID retrieves a venue, returning domain.ErrNotFound when absent.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*domain.Venue, error) {
	const sel = `SELECT id, name, address, created_at, updated_at FROM venues WHERE id = ?`
	var v domain.Venue
	err := q(ctx, r.db).QueryRowContext(ctx, sel, id).
		Scan(&v.ID, &v.Name, &v.Address, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListAll returns every venue ordered by name.
func (r *VenueRepo) ListAll(ctx context.Context) ([]domain.Venue, error) {
	const sel = `SELECT id, name, address, created_at, updated_at FROM venues ORDER BY name`
	rows, err := q(ctx, r.db).QueryContext(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []domain.Venue
	for rows.Next() {
		var v domain.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
