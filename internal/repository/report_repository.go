package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/showbase/movie-booking/internal/domain"
)

// TicketLine is one row of a per-showtime ticket report: the ticket joined
// with the seat it covers.
type TicketLine struct {
	TicketID      uint64              `json:"ticket_id"`
	SeatID        uint64              `json:"seat_id"`
	LocationCode  string              `json:"location_code"`
	Class         domain.SeatClass    `json:"seat_class"`
	Status        domain.TicketStatus `json:"status"`
	PriceCents    uint32              `json:"price_cents"`
	CustomerEmail *string             `json:"customer_email,omitempty"`
}

// OccupancyReport summarises how full a showtime is.
type OccupancyReport struct {
	ShowtimeID     uint64 `json:"showtime_id"`
	TotalCapacity  uint32 `json:"total_capacity"`
	AvailableCount uint32 `json:"available_count"`
	ReservedCount  uint32 `json:"reserved_count"`
	SoldCount      uint32 `json:"sold_count"`
}

// OverlapPair reports two showtimes in the same theatre on the same date
// whose intervals intersect. A healthy database never has any.
type OverlapPair struct {
	TheatreID uint64 `json:"theatre_id"`
	ShowDate  string `json:"show_date"`
	FirstID   uint64 `json:"first_showtime_id"`
	SecondID  uint64 `json:"second_showtime_id"`
}

// ReportRepo serves the read-only reporting queries. It never mutates state
// and never takes locks; reports are snapshots.
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepo constructs a ReportRepo with the given DB handle.
func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// TicketsByShowtime lists the showtime's tickets with their seats, optionally
// filtered by status (empty status means all). Missing showtimes yield
// domain.ErrNotFound.
func (r *ReportRepo) TicketsByShowtime(ctx context.Context, showtimeID uint64, status domain.TicketStatus) ([]TicketLine, error) {
	if err := r.showtimeExists(ctx, showtimeID); err != nil {
		return nil, err
	}
	sel := `SELECT t.id, s.id, s.location_code, s.seat_class, t.status, t.price_cents, t.customer_email
	        FROM tickets t
	        JOIN bookable_units bu ON bu.id = t.bookable_unit_id
	        JOIN seats s ON s.id = bu.seat_id
	        WHERE bu.showtime_id = ?`
	args := []any{showtimeID}
	if status != "" {
		sel += ` AND t.status = ?`
		args = append(args, string(status))
	}
	sel += ` ORDER BY s.location_code`
	rows, err := r.db.QueryContext(ctx, sel, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []TicketLine
	for rows.Next() {
		var line TicketLine
		var email sql.NullString
		if err := rows.Scan(&line.TicketID, &line.SeatID, &line.LocationCode, &line.Class, &line.Status, &line.PriceCents, &email); err != nil {
			return nil, err
		}
		if email.Valid {
			addr := email.String
			line.CustomerEmail = &addr
		}
		result = append(result, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AvailableSeats lists the seats still bookable for the showtime.
func (r *ReportRepo) AvailableSeats(ctx context.Context, showtimeID uint64) ([]TicketLine, error) {
	return r.TicketsByShowtime(ctx, showtimeID, domain.TicketAvailable)
}

// Occupancy counts the showtime's tickets per status. TotalCapacity is the
// number of bookable units, which tracks the theatre's seat count at
// materialization time.
func (r *ReportRepo) Occupancy(ctx context.Context, showtimeID uint64) (OccupancyReport, error) {
	if err := r.showtimeExists(ctx, showtimeID); err != nil {
		return OccupancyReport{}, err
	}
	const sel = `SELECT
	               COUNT(*),
	               COALESCE(SUM(t.status = 'AVAILABLE'), 0),
	               COALESCE(SUM(t.status = 'RESERVED'), 0),
	               COALESCE(SUM(t.status = 'SOLD'), 0)
	             FROM tickets t
	             JOIN bookable_units bu ON bu.id = t.bookable_unit_id
	             WHERE bu.showtime_id = ?`
	rep := OccupancyReport{ShowtimeID: showtimeID}
	err := r.db.QueryRowContext(ctx, sel, showtimeID).
		Scan(&rep.TotalCapacity, &rep.AvailableCount, &rep.ReservedCount, &rep.SoldCount)
	if err != nil {
		return OccupancyReport{}, err
	}
	return rep, nil
}

// FindOverlappingPairs audits the whole schedule for overlap violations. The
// self-join pairs each showtime with later-numbered showtimes in the same
// theatre on the same date, using the same half-open predicate the scheduler
// enforces on write.
func (r *ReportRepo) FindOverlappingPairs(ctx context.Context) ([]OverlapPair, error) {
	const sel = `SELECT a.theatre_id, a.show_date, a.id, b.id
	             FROM showtimes a
	             JOIN showtimes b
	               ON b.theatre_id = a.theatre_id
	              AND b.show_date = a.show_date
	              AND b.id > a.id
	              AND NOT (b.ends_at <= a.starts_at OR b.starts_at >= a.ends_at)
	             ORDER BY a.theatre_id, a.show_date, a.id, b.id`
	rows, err := r.db.QueryContext(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []OverlapPair
	for rows.Next() {
		var p OverlapPair
		var showDate sql.NullTime
		if err := rows.Scan(&p.TheatreID, &showDate, &p.FirstID, &p.SecondID); err != nil {
			return nil, err
		}
		if showDate.Valid {
			p.ShowDate = domain.DateOf(showDate.Time)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ReportRepo) showtimeExists(ctx context.Context, id uint64) error {
	const sel = `SELECT 1 FROM showtimes WHERE id = ?`
	var one int
	if err := r.db.QueryRowContext(ctx, sel, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}
