package domain

import (
	"strings"
	"time"
)

// SeatClass categorises a seat for pricing.
type SeatClass string

const (
	SeatStandard SeatClass = "STANDARD"
	SeatPremium  SeatClass = "PREMIUM"
	SeatVIP      SeatClass = "VIP"
)

// ParseSeatClass normalises a user-supplied class string. An empty string
// defaults to STANDARD; unknown values report ok=false.
func ParseSeatClass(s string) (SeatClass, bool) {
	switch c := SeatClass(strings.ToUpper(strings.TrimSpace(s))); c {
	case "":
		return SeatStandard, true
	case SeatStandard, SeatPremium, SeatVIP:
		return c, true
	default:
		return "", false
	}
}

// Seat is a physical seat installed in a theatre, identified by its
// (TheatreID, LocationCode) pair.
type Seat struct {
	ID           uint64
	TheatreID    uint64
	LocationCode string
	Class        SeatClass
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Static per-class ticket prices in cents.
const (
	PriceStandardCents uint32 = 1200
	PricePremiumCents  uint32 = 1800
	PriceVIPCents      uint32 = 2500
)

// PriceForClass returns the ticket price in cents for a seat class.
// Unrecognised classes price as STANDARD.
func PriceForClass(c SeatClass) uint32 {
	switch c {
	case SeatVIP:
		return PriceVIPCents
	case SeatPremium:
		return PricePremiumCents
	default:
		return PriceStandardCents
	}
}
