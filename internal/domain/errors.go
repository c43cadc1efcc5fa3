// Package domain defines the entities of the seat-inventory model and the
// validation rules that guard every state transition. All rules live here as
// explicit functions invoked by the engine, never as storage-layer hooks, so
// they stay testable in isolation. Sentinel errors below form the complete
// failure taxonomy of the engine: each one is a violated business invariant
// surfaced synchronously to the caller, never a transient fault, so nothing
// is ever retried internally.
package domain

import "errors"

// ErrNotFound is the generic missing-entity error returned when a referenced
// venue, theatre, movie, showtime, seat or ticket does not exist.
var ErrNotFound = errors.New("entity not found")

// ErrConflict is returned when an insert collides with a uniqueness
// invariant that has no more specific error, such as a duplicate
// (name, address) venue or a duplicate (venue, name) theatre.
var ErrConflict = errors.New("conflicting record")

// ErrInvalidInterval is returned by showtime scheduling when end <= start.
var ErrInvalidInterval = errors.New("showtime end must be after start")

// ErrShowtimeOverlap is returned when a proposed showtime's [start, end)
// interval overlaps an existing showtime in the same theatre on the same date.
var ErrShowtimeOverlap = errors.New("showtime overlaps an existing showtime in this theatre")

// ErrDuplicateSeat is returned when a seat already occupies the requested
// (theatre, location) position.
var ErrDuplicateSeat = errors.New("seat already exists at this location")

// ErrUnitNotFound is returned by booking operations when no bookable unit
// pairs the requested showtime and seat, which means the seat does not
// belong to the showtime's theatre.
var ErrUnitNotFound = errors.New("no bookable unit for this showtime and seat")

// ErrPastShowtime is returned when a booking targets a showtime whose start
// is strictly earlier than the current time.
var ErrPastShowtime = errors.New("showtime is already in the past")

// ErrAlreadyBooked is returned when the ticket for a bookable unit has
// already left the AVAILABLE state.
var ErrAlreadyBooked = errors.New("ticket is no longer available")

// ErrInvalidTransition is returned when a requested ticket status change is
// not an edge of the state machine.
var ErrInvalidTransition = errors.New("illegal ticket status transition")

// ErrInvalidMovie wraps movie field validation failures (duration, release
// year, rating).
var ErrInvalidMovie = errors.New("invalid movie")
