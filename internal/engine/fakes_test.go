package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/showbase/movie-booking/internal/domain"
)

type txMarker struct{}

// memStore is an in-memory implementation of the three store contracts.
// WithTx serialises callers with a mutex and restores a snapshot when fn
// fails, mirroring the SQL stores: one writer at a time, nothing partial
// survives a rejected operation.
type memStore struct {
	mu sync.Mutex

	movies    map[uint64]domain.Movie
	theatres  map[uint64]domain.Theatre
	seats     map[uint64]domain.Seat
	showtimes map[uint64]domain.Showtime
	units     map[uint64]domain.BookableUnit
	tickets   map[uint64]domain.Ticket
	nextID    uint64
}

func newMemStore() *memStore {
	return &memStore{
		movies:    map[uint64]domain.Movie{},
		theatres:  map[uint64]domain.Theatre{},
		seats:     map[uint64]domain.Seat{},
		showtimes: map[uint64]domain.Showtime{},
		units:     map[uint64]domain.BookableUnit{},
		tickets:   map[uint64]domain.Ticket{},
	}
}

func (s *memStore) id() uint64 {
	s.nextID++
	return s.nextID
}

// enter takes the store lock unless the context already runs inside WithTx,
// which holds it for the whole transaction.
func (s *memStore) enter(ctx context.Context) func() {
	if ctx.Value(txMarker{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	movies    map[uint64]domain.Movie
	theatres  map[uint64]domain.Theatre
	seats     map[uint64]domain.Seat
	showtimes map[uint64]domain.Showtime
	units     map[uint64]domain.BookableUnit
	tickets   map[uint64]domain.Ticket
	nextID    uint64
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		movies:    cloneMap(s.movies),
		theatres:  cloneMap(s.theatres),
		seats:     cloneMap(s.seats),
		showtimes: cloneMap(s.showtimes),
		units:     cloneMap(s.units),
		tickets:   cloneMap(s.tickets),
		nextID:    s.nextID,
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.movies = snap.movies
	s.theatres = snap.theatres
	s.seats = snap.seats
	s.showtimes = snap.showtimes
	s.units = snap.units
	s.tickets = snap.tickets
	s.nextID = snap.nextID
}

func cloneMap[V any](m map[uint64]V) map[uint64]V {
	out := make(map[uint64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// --- ScheduleStore ---

func (s *memStore) GetMovie(ctx context.Context, id uint64) (domain.Movie, error) {
	defer s.enter(ctx)()
	m, ok := s.movies[id]
	if !ok {
		return domain.Movie{}, domain.ErrNotFound
	}
	return m, nil
}

func (s *memStore) GetTheatreForUpdate(ctx context.Context, id uint64) (domain.Theatre, error) {
	defer s.enter(ctx)()
	t, ok := s.theatres[id]
	if !ok {
		return domain.Theatre{}, domain.ErrNotFound
	}
	return t, nil
}

func (s *memStore) FindOverlapping(ctx context.Context, theatreID uint64, showDate string, startsAt, endsAt time.Time) ([]domain.Showtime, error) {
	defer s.enter(ctx)()
	var out []domain.Showtime
	for _, st := range s.showtimes {
		if st.TheatreID != theatreID || st.ShowDate != showDate {
			continue
		}
		if domain.IntervalsOverlap(startsAt, endsAt, st.StartsAt, st.EndsAt) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *memStore) CreateShowtime(ctx context.Context, st *domain.Showtime) error {
	defer s.enter(ctx)()
	st.ID = s.id()
	s.showtimes[st.ID] = *st
	return nil
}

func (s *memStore) SeatsByTheatre(ctx context.Context, theatreID uint64) ([]domain.Seat, error) {
	defer s.enter(ctx)()
	var out []domain.Seat
	for _, seat := range s.seats {
		if seat.TheatreID == theatreID {
			out = append(out, seat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationCode < out[j].LocationCode })
	return out, nil
}

func (s *memStore) CreateUnits(ctx context.Context, units []domain.BookableUnit, tickets []domain.Ticket) error {
	defer s.enter(ctx)()
	for i := range units {
		for _, existing := range s.units {
			if existing.ShowtimeID == units[i].ShowtimeID && existing.SeatID == units[i].SeatID {
				return domain.ErrConflict
			}
		}
		units[i].ID = s.id()
		s.units[units[i].ID] = units[i]
		tickets[i].BookableUnitID = units[i].ID
		tickets[i].ID = s.id()
		s.tickets[tickets[i].ID] = tickets[i]
	}
	return nil
}

// --- InventoryStore ---

func (s *memStore) SeatExists(ctx context.Context, theatreID uint64, locationCode string) (bool, error) {
	defer s.enter(ctx)()
	for _, seat := range s.seats {
		if seat.TheatreID == theatreID && seat.LocationCode == locationCode {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CreateSeat(ctx context.Context, seat *domain.Seat) error {
	defer s.enter(ctx)()
	seat.ID = s.id()
	s.seats[seat.ID] = *seat
	return nil
}

func (s *memStore) CountSeats(ctx context.Context, theatreID uint64) (uint32, error) {
	defer s.enter(ctx)()
	var n uint32
	for _, seat := range s.seats {
		if seat.TheatreID == theatreID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) SetTheatreCapacity(ctx context.Context, theatreID uint64, capacity uint32) error {
	defer s.enter(ctx)()
	t, ok := s.theatres[theatreID]
	if !ok {
		return domain.ErrNotFound
	}
	t.Capacity = capacity
	s.theatres[theatreID] = t
	return nil
}

func (s *memStore) ShowtimesByTheatre(ctx context.Context, theatreID uint64) ([]domain.Showtime, error) {
	defer s.enter(ctx)()
	var out []domain.Showtime
	for _, st := range s.showtimes {
		if st.TheatreID == theatreID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

// --- BookingStore ---

func (s *memStore) FindUnit(ctx context.Context, showtimeID, seatID uint64) (*domain.BookableUnit, error) {
	defer s.enter(ctx)()
	for _, u := range s.units {
		if u.ShowtimeID == showtimeID && u.SeatID == seatID {
			unit := u
			return &unit, nil
		}
	}
	return nil, domain.ErrUnitNotFound
}

func (s *memStore) GetShowtime(ctx context.Context, id uint64) (domain.Showtime, error) {
	defer s.enter(ctx)()
	st, ok := s.showtimes[id]
	if !ok {
		return domain.Showtime{}, domain.ErrNotFound
	}
	return st, nil
}

func (s *memStore) TicketByUnit(ctx context.Context, unitID uint64) (*domain.Ticket, error) {
	defer s.enter(ctx)()
	return s.ticketByUnitLocked(unitID), nil
}

func (s *memStore) TicketByUnitForUpdate(ctx context.Context, unitID uint64) (*domain.Ticket, error) {
	defer s.enter(ctx)()
	return s.ticketByUnitLocked(unitID), nil
}

func (s *memStore) ticketByUnitLocked(unitID uint64) *domain.Ticket {
	for _, t := range s.tickets {
		if t.BookableUnitID == unitID {
			ticket := t
			return &ticket
		}
	}
	return nil
}

func (s *memStore) TicketByIDForUpdate(ctx context.Context, id uint64) (*domain.Ticket, error) {
	defer s.enter(ctx)()
	t, ok := s.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	ticket := t
	return &ticket, nil
}

func (s *memStore) UpdateTicket(ctx context.Context, t *domain.Ticket) error {
	defer s.enter(ctx)()
	if _, ok := s.tickets[t.ID]; !ok {
		return domain.ErrNotFound
	}
	s.tickets[t.ID] = *t
	return nil
}

// --- test setup helpers ---

func (s *memStore) addMovie(title string) domain.Movie {
	m := domain.Movie{
		ID:          s.id(),
		Title:       title,
		Genre:       "Drama",
		DurationMin: 120,
		ReleaseYear: 2020,
		Rating:      domain.RatingPG13,
	}
	s.movies[m.ID] = m
	return m
}

func (s *memStore) addTheatre(name string) domain.Theatre {
	t := domain.Theatre{ID: s.id(), VenueID: 1, Name: name}
	s.theatres[t.ID] = t
	return t
}

func (s *memStore) addSeat(theatreID uint64, location string, class domain.SeatClass) domain.Seat {
	seat := domain.Seat{ID: s.id(), TheatreID: theatreID, LocationCode: location, Class: class}
	s.seats[seat.ID] = seat
	return seat
}

func (s *memStore) unitFor(showtimeID, seatID uint64) (domain.BookableUnit, bool) {
	for _, u := range s.units {
		if u.ShowtimeID == showtimeID && u.SeatID == seatID {
			return u, true
		}
	}
	return domain.BookableUnit{}, false
}

func (s *memStore) ticketFor(showtimeID, seatID uint64) (domain.Ticket, bool) {
	u, ok := s.unitFor(showtimeID, seatID)
	if !ok {
		return domain.Ticket{}, false
	}
	for _, t := range s.tickets {
		if t.BookableUnitID == u.ID {
			return t, true
		}
	}
	return domain.Ticket{}, false
}
