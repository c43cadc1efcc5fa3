package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/showbase/movie-booking/internal/domain"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return ts
}

func TestScheduleShowtimeRejectsInvalidInterval(t *testing.T) {
	store := newMemStore()
	movie := store.addMovie("Heat")
	theatre := store.addTheatre("Screen 1")
	m := NewScheduleManager(store)

	start := mustTime(t, "2026-09-01T18:00:00Z")
	for name, end := range map[string]time.Time{
		"end before start": start.Add(-time.Hour),
		"end equals start": start,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.ScheduleShowtime(context.Background(), ScheduleShowtimeInput{
				MovieID: movie.ID, TheatreID: theatre.ID, StartsAt: start, EndsAt: end,
			})
			if !errors.Is(err, domain.ErrInvalidInterval) {
				t.Fatalf("got %v, want ErrInvalidInterval", err)
			}
		})
	}
	if len(store.showtimes) != 0 {
		t.Fatalf("rejected scheduling left %d showtimes behind", len(store.showtimes))
	}
}

func TestScheduleShowtimeRejectsUnknownReferences(t *testing.T) {
	store := newMemStore()
	movie := store.addMovie("Heat")
	theatre := store.addTheatre("Screen 1")
	m := NewScheduleManager(store)

	start := mustTime(t, "2026-09-01T18:00:00Z")
	end := start.Add(2 * time.Hour)

	_, err := m.ScheduleShowtime(context.Background(), ScheduleShowtimeInput{
		MovieID: movie.ID + 1000, TheatreID: theatre.ID, StartsAt: start, EndsAt: end,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown movie: got %v, want ErrNotFound", err)
	}

	_, err = m.ScheduleShowtime(context.Background(), ScheduleShowtimeInput{
		MovieID: movie.ID, TheatreID: theatre.ID + 1000, StartsAt: start, EndsAt: end,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown theatre: got %v, want ErrNotFound", err)
	}
}

func TestScheduleShowtimeRejectsOverlap(t *testing.T) {
	store := newMemStore()
	movie := store.addMovie("Heat")
	theatre := store.addTheatre("Screen 1")
	other := store.addTheatre("Screen 2")
	m := NewScheduleManager(store)

	base := mustTime(t, "2026-09-01T18:00:00Z")
	if _, err := m.ScheduleShowtime(context.Background(), ScheduleShowtimeInput{
		MovieID: movie.ID, TheatreID: theatre.ID, StartsAt: base, EndsAt: base.Add(2 * time.Hour),
	}); err != nil {
		t.Fatalf("schedule first: %v", err)
	}

	cases := []struct {
		name       string
		start, end time.Time
		theatreID  uint64
		wantErr    error
	}{
		{"identical interval", base, base.Add(2 * time.Hour), theatre.ID, domain.ErrShowtimeOverlap},
		{"starts inside", base.Add(time.Hour), base.Add(3 * time.Hour), theatre.ID, domain.ErrShowtimeOverlap},
		{"ends inside", base.Add(-time.Hour), base.Add(time.Hour), theatre.ID, domain.ErrShowtimeOverlap},
		{"fully contains", base.Add(-time.Hour), base.Add(3 * time.Hour), theatre.ID, domain.ErrShowtimeOverlap},
		{"touching end is allowed", base.Add(2 * time.Hour), base.Add(4 * time.Hour), theatre.ID, nil},
		{"touching start is allowed", base.Add(-2 * time.Hour), base, theatre.ID, nil},
		{"other theatre is independent", base, base.Add(2 * time.Hour), other.ID, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.ScheduleShowtime(context.Background(), ScheduleShowtimeInput{
				MovieID: movie.ID, TheatreID: tc.theatreID, StartsAt: tc.start, EndsAt: tc.end,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestScheduleShowtimeMaterializesUnits(t *testing.T) {
	store := newMemStore()
	movie := store.addMovie("Heat")
	theatre := store.addTheatre("Screen 1")
	standard := store.addSeat(theatre.ID, "A1", domain.SeatStandard)
	premium := store.addSeat(theatre.ID, "B1", domain.SeatPremium)
	vip := store.addSeat(theatre.ID, "C1", domain.SeatVIP)
	m := NewScheduleManager(store)

	start := mustTime(t, "2026-09-01T18:00:00Z")
	st, err := m.ScheduleShowtime(context.Background(), ScheduleShowtimeInput{
		MovieID: movie.ID, TheatreID: theatre.ID, StartsAt: start, EndsAt: start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if st.ShowDate != "2026-09-01" {
		t.Fatalf("show date = %q, want 2026-09-01", st.ShowDate)
	}

	wantPrices := map[uint64]uint32{
		standard.ID: domain.PriceStandardCents,
		premium.ID:  domain.PricePremiumCents,
		vip.ID:      domain.PriceVIPCents,
	}
	for seatID, wantPrice := range wantPrices {
		ticket, ok := store.ticketFor(st.ID, seatID)
		if !ok {
			t.Fatalf("no ticket materialized for seat %d", seatID)
		}
		if ticket.Status != domain.TicketAvailable {
			t.Errorf("seat %d ticket status = %s, want AVAILABLE", seatID, ticket.Status)
		}
		if ticket.PriceCents != wantPrice {
			t.Errorf("seat %d price = %d, want %d", seatID, ticket.PriceCents, wantPrice)
		}
	}
	if len(store.units) != 3 || len(store.tickets) != 3 {
		t.Fatalf("materialized %d units / %d tickets, want 3 / 3", len(store.units), len(store.tickets))
	}
}

func TestScheduleShowtimeEmptyTheatre(t *testing.T) {
	store := newMemStore()
	movie := store.addMovie("Heat")
	theatre := store.addTheatre("Screen 1")
	m := NewScheduleManager(store)

	start := mustTime(t, "2026-09-01T18:00:00Z")
	st, err := m.ScheduleShowtime(context.Background(), ScheduleShowtimeInput{
		MovieID: movie.ID, TheatreID: theatre.ID, StartsAt: start, EndsAt: start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("scheduling in an empty theatre should succeed: %v", err)
	}
	if len(store.units) != 0 {
		t.Fatalf("empty theatre materialized %d units", len(store.units))
	}
	if _, ok := store.showtimes[st.ID]; !ok {
		t.Fatal("showtime not persisted")
	}
}
