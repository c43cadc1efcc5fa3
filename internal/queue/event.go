// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// TicketBookedEvent is published after a booking transaction commits. It
// carries enough for downstream consumers to log, notify, or feed analytics
// without querying the primary database.
type TicketBookedEvent struct {
	TicketID      uint64 `json:"ticket_id"`
	ShowtimeID    uint64 `json:"showtime_id"`
	SeatID        uint64 `json:"seat_id"`
	LocationCode  string `json:"location_code"`
	Status        string `json:"status"` // RESERVED or SOLD
	PriceCents    uint32 `json:"price_cents"`
	CustomerEmail string `json:"customer_email"`
	BookedAt      string `json:"booked_at"` // RFC 3339
}
