package domain

import (
	"fmt"
	"time"
)

// Venue represents a physical location that houses one or more theatres.
// The pair (Name, Address) is unique. Venues are pure reference data and
// are rarely mutated after setup.
type Venue struct {
	ID        uint64
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Theatre is a single auditorium inside a venue. A theatre owns its seats;
// Capacity is derived state, recomputed from the live seat count after every
// seat mutation, and is never independently settable.
type Theatre struct {
	ID        uint64
	VenueID   uint64
	Name      string
	Capacity  uint32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rating is an MPA film rating.
type Rating string

const (
	RatingG    Rating = "G"
	RatingPG   Rating = "PG"
	RatingPG13 Rating = "PG-13"
	RatingR    Rating = "R"
	RatingNC17 Rating = "NC-17"
)

// Valid reports whether r is one of the five recognised ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingG, RatingPG, RatingPG13, RatingR, RatingNC17:
		return true
	}
	return false
}

// Movie holds the film reference data attached to showtimes.
type Movie struct {
	ID          uint64
	Title       string
	Genre       string
	DurationMin uint32
	ReleaseYear uint32
	Rating      Rating
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the movie field invariants: positive duration, release
// year within [1900, 2100] and a recognised rating. Failures wrap
// ErrInvalidMovie so callers can match the whole class with errors.Is.
func (m *Movie) Validate() error {
	if m.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidMovie)
	}
	if m.DurationMin == 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidMovie)
	}
	if m.ReleaseYear < 1900 || m.ReleaseYear > 2100 {
		return fmt.Errorf("%w: release year %d outside [1900, 2100]", ErrInvalidMovie, m.ReleaseYear)
	}
	if !m.Rating.Valid() {
		return fmt.Errorf("%w: unknown rating %q", ErrInvalidMovie, string(m.Rating))
	}
	return nil
}
