package domain

import (
	"strings"
	"time"
)

// BookableUnit is the bridge entity pairing one seat with one showtime. It
// exists precisely to avoid a many-to-many join between showtimes and seats
// through tickets: both a seat-oriented and a showtime-oriented query must
// traverse this single join point. A unit exists iff the seat's theatre
// equals the showtime's theatre, and its ID is the unit of booking
// contention.
type BookableUnit struct {
	ID         uint64
	ShowtimeID uint64
	SeatID     uint64
	CreatedAt  time.Time
}

// TicketStatus is the reservation lifecycle state of a ticket.
type TicketStatus string

const (
	TicketAvailable TicketStatus = "AVAILABLE"
	TicketReserved  TicketStatus = "RESERVED"
	TicketSold      TicketStatus = "SOLD"
)

// ParseTicketStatus normalises a user-supplied status string.
func ParseTicketStatus(s string) (TicketStatus, bool) {
	switch st := TicketStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case TicketAvailable, TicketReserved, TicketSold:
		return st, true
	default:
		return "", false
	}
}

// CanTransition reports whether from -> to is an edge of the ticket state
// machine:
//
//	AVAILABLE -> RESERVED | SOLD   (booking)
//	RESERVED  -> SOLD              (confirmation)
//	RESERVED  -> AVAILABLE         (cancellation)
//	SOLD      -> AVAILABLE         (refund)
func CanTransition(from, to TicketStatus) bool {
	switch from {
	case TicketAvailable:
		return to == TicketReserved || to == TicketSold
	case TicketReserved:
		return to == TicketSold || to == TicketAvailable
	case TicketSold:
		return to == TicketAvailable
	}
	return false
}

// Ticket is the single sellable record attached to a bookable unit (exactly
// one per unit at any time). PurchasedAt and CustomerEmail are set when the
// ticket leaves AVAILABLE and cleared when it returns.
type Ticket struct {
	ID             uint64
	BookableUnitID uint64
	Status         TicketStatus
	PriceCents     uint32
	PurchasedAt    *time.Time
	CustomerEmail  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
