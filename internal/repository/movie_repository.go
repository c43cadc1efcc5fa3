package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/showbase/movie-booking/internal/domain"
)

// MovieRepo manages persistence for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Create validates the movie and inserts it, assigning the generated ID back
// to the struct.
func (r *MovieRepo) Create(ctx context.Context, m *domain.Movie) error {
	if err := m.Validate(); err != nil {
		return err
	}
	const ins = `INSERT INTO movies (title, genre, duration_min, release_year, rating) VALUES (?, ?, ?, ?, ?)`
	res, err := q(ctx, r.db).ExecContext(ctx, ins, m.Title, m.Genre, m.DurationMin, m.ReleaseYear, string(m.Rating))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM movies WHERE id = ?`
	return q(ctx, r.db).QueryRowContext(ctx, sel, m.ID).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// GetByID retrieves a movie, returning domain.ErrNotFound when absent.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*domain.Movie, error) {
	const sel = `SELECT id, title, genre, duration_min, release_year, rating, created_at, updated_at
	             FROM movies WHERE id = ?`
	var m domain.Movie
	err := q(ctx, r.db).QueryRowContext(ctx, sel, id).
		Scan(&m.ID, &m.Title, &m.Genre, &m.DurationMin, &m.ReleaseYear, &m.Rating, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListAll returns every movie ordered by title.
func (r *MovieRepo) ListAll(ctx context.Context) ([]domain.Movie, error) {
	const sel = `SELECT id, title, genre, duration_min, release_year, rating, created_at, updated_at
	             FROM movies ORDER BY title`
	rows, err := q(ctx, r.db).QueryContext(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []domain.Movie
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Genre, &m.DurationMin, &m.ReleaseYear, &m.Rating, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
