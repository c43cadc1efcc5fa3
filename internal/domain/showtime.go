package domain

import "time"

// Showtime is a scheduled screening of a movie in a theatre. ShowDate is the
// calendar date ("2006-01-02", UTC) that scopes the overlap invariant: for a
// fixed theatre and date, no two showtimes may have overlapping
// [StartsAt, EndsAt) intervals.
type Showtime struct {
	ID        uint64
	MovieID   uint64
	TheatreID uint64
	ShowDate  string
	StartsAt  time.Time
	EndsAt    time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInterval rejects intervals where end is not strictly after start.
func ValidateInterval(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidInterval
	}
	return nil
}

// IntervalsOverlap reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not count as overlap, so a
// showtime may begin exactly when the previous one ends.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Overlaps reports whether s and other conflict on the schedule. Showtimes
// in different theatres or on different dates never conflict.
func (s *Showtime) Overlaps(other *Showtime) bool {
	if s.TheatreID != other.TheatreID || s.ShowDate != other.ShowDate {
		return false
	}
	return IntervalsOverlap(s.StartsAt, s.EndsAt, other.StartsAt, other.EndsAt)
}

// DateOf formats t as a ShowDate string in UTC.
func DateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
