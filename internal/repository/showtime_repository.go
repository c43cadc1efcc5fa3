package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/showbase/movie-booking/internal/domain"
)

const showtimeColumns = `id, movie_id, theatre_id, show_date, starts_at, ends_at, created_at, updated_at`

// ScheduleRepo is the MySQL store behind the Schedule Manager. It implements
// engine.ScheduleStore: the overlap check, the showtime insert and the
// unit/ticket materialization all run inside one WithTx transaction that
// holds the theatre row lock.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the given DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// WithTx runs fn inside a transaction carried by the context.
func (r *ScheduleRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

// GetMovie resolves a movie reference, returning domain.ErrNotFound when absent.
func (r *ScheduleRepo) GetMovie(ctx context.Context, id uint64) (domain.Movie, error) {
	const sel = `SELECT id, title, genre, duration_min, release_year, rating, created_at, updated_at
	             FROM movies WHERE id = ?`
	var m domain.Movie
	err := q(ctx, r.db).QueryRowContext(ctx, sel, id).
		Scan(&m.ID, &m.Title, &m.Genre, &m.DurationMin, &m.ReleaseYear, &m.Rating, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Movie{}, domain.ErrNotFound
		}
		return domain.Movie{}, err
	}
	return m, nil
}

// GetTheatreForUpdate locks the theatre row for the enclosing transaction.
func (r *ScheduleRepo) GetTheatreForUpdate(ctx context.Context, id uint64) (domain.Theatre, error) {
	return theatreForUpdate(ctx, q(ctx, r.db), id)
}

// FindOverlapping returns the showtimes in the theatre on the given date
// whose [starts_at, ends_at) interval intersects [startsAt, endsAt). The
// predicate is half-open: a showtime ending exactly at startsAt, or starting
// exactly at endsAt, does not conflict.
func (r *ScheduleRepo) FindOverlapping(ctx context.Context, theatreID uint64, showDate string, startsAt, endsAt time.Time) ([]domain.Showtime, error) {
	const sel = `SELECT ` + showtimeColumns + `
	             FROM showtimes
	             WHERE theatre_id = ? AND show_date = ? AND NOT (ends_at <= ? OR starts_at >= ?)`
	rows, err := q(ctx, r.db).QueryContext(ctx, sel, theatreID, showDate, startsAt, endsAt)
	if err != nil {
		return nil, err
	}
	return collectShowtimes(rows)
}

// CreateShowtime inserts a showtime and populates its generated ID and
// timestamps.
func (r *ScheduleRepo) CreateShowtime(ctx context.Context, st *domain.Showtime) error {
	const ins = `INSERT INTO showtimes (movie_id, theatre_id, show_date, starts_at, ends_at) VALUES (?, ?, ?, ?, ?)`
	res, err := q(ctx, r.db).ExecContext(ctx, ins, st.MovieID, st.TheatreID, st.ShowDate, st.StartsAt, st.EndsAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	st.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM showtimes WHERE id = ?`
	return q(ctx, r.db).QueryRowContext(ctx, sel, st.ID).Scan(&st.CreatedAt, &st.UpdatedAt)
}

// SeatsByTheatre returns the theatre's seats ordered by location code.
func (r *ScheduleRepo) SeatsByTheatre(ctx context.Context, theatreID uint64) ([]domain.Seat, error) {
	return seatsByTheatre(ctx, q(ctx, r.db), theatreID)
}

// CreateUnits materializes bookable units and their tickets; see createUnits.
func (r *ScheduleRepo) CreateUnits(ctx context.Context, units []domain.BookableUnit, tickets []domain.Ticket) error {
	return createUnits(ctx, q(ctx, r.db), units, tickets)
}

// ListByTheatre returns the theatre's showtimes ordered by start time. Used
// by the read side of the HTTP surface, not by the engine.
func (r *ScheduleRepo) ListByTheatre(ctx context.Context, theatreID uint64) ([]domain.Showtime, error) {
	return showtimesByTheatre(ctx, q(ctx, r.db), theatreID)
}

func showtimesByTheatre(ctx context.Context, run querier, theatreID uint64) ([]domain.Showtime, error) {
	const sel = `SELECT ` + showtimeColumns + `
	             FROM showtimes WHERE theatre_id = ? ORDER BY starts_at`
	rows, err := run.QueryContext(ctx, sel, theatreID)
	if err != nil {
		return nil, err
	}
	return collectShowtimes(rows)
}

// collectShowtimes drains rows selected with showtimeColumns. show_date
// arrives as a midnight time.Time (parseTime DSN option) and is refolded
// into the date string the domain uses.
func collectShowtimes(rows *sql.Rows) ([]domain.Showtime, error) {
	defer rows.Close()
	var result []domain.Showtime
	for rows.Next() {
		st, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShowtime(row rowScanner) (domain.Showtime, error) {
	var st domain.Showtime
	var showDate time.Time
	err := row.Scan(&st.ID, &st.MovieID, &st.TheatreID, &showDate, &st.StartsAt, &st.EndsAt, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return domain.Showtime{}, err
	}
	st.ShowDate = domain.DateOf(showDate)
	return st, nil
}
