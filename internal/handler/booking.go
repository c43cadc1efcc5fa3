package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/showbase/movie-booking/internal/domain"
	"github.com/showbase/movie-booking/internal/engine"
	"github.com/showbase/movie-booking/internal/queue"
	"github.com/showbase/movie-booking/internal/repository"
	queue_publisher "github.com/showbase/movie-booking/internal/service"
)

// BookingHandler serves the availability check, the booking endpoint and the
// ticket lifecycle endpoints.
type BookingHandler struct {
	Engine *engine.BookingEngine
	Store  *repository.BookingRepo

	// PublishEvents gates the fire-and-forget broker publish after a
	// successful booking; disabled in tests.
	PublishEvents bool
}

// CheckAvailability handles GET /v1/showtimes/:id/seats/:seat_id/availability.
// The answer is an advisory snapshot, not a hold.
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	showtimeID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid showtime id")
	}
	seatID, ok := pathID(c, "seat_id")
	if !ok {
		return badRequest(c, "invalid seat id")
	}
	available, err := h.Engine.CheckAvailability(c.Request().Context(), showtimeID, seatID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"showtime_id": showtimeID,
		"seat_id":     seatID,
		"available":   available,
	})
}

// CreateBooking handles POST /v1/bookings. status selects the target state,
// RESERVED or SOLD; an omitted status reserves. Losing a race for the seat
// is a 409; a showtime already started is a 422.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var body struct {
		ShowtimeID    uint64 `json:"showtime_id"`
		SeatID        uint64 `json:"seat_id"`
		Status        string `json:"status"`
		CustomerEmail string `json:"customer_email"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.ShowtimeID == 0 || body.SeatID == 0 {
		return badRequest(c, "showtime_id and seat_id are required")
	}
	body.CustomerEmail = strings.TrimSpace(body.CustomerEmail)
	if body.CustomerEmail == "" {
		return badRequest(c, "customer_email is required")
	}

	target := domain.TicketReserved
	if body.Status != "" {
		parsed, ok := domain.ParseTicketStatus(body.Status)
		if !ok || parsed == domain.TicketAvailable {
			return badRequest(c, "status must be RESERVED or SOLD")
		}
		target = parsed
	}

	ticket, err := h.Engine.Book(c.Request().Context(), body.ShowtimeID, body.SeatID, target, body.CustomerEmail)
	if err != nil {
		return respondErr(c, err)
	}

	if h.PublishEvents {
		go h.publishBooked(ticket, body.ShowtimeID, body.SeatID)
	}
	return c.JSON(http.StatusCreated, ticket)
}

// publishBooked emits a TicketBookedEvent on its own context so a slow or
// dead broker cannot stall the request that already committed.
func (h *BookingHandler) publishBooked(ticket domain.Ticket, showtimeID, seatID uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	location, err := h.Store.SeatLocation(ctx, seatID)
	if err != nil {
		location = ""
	}
	ev := queue.TicketBookedEvent{
		TicketID:   ticket.ID,
		ShowtimeID: showtimeID,
		SeatID:     seatID,
		Status:     string(ticket.Status),
		PriceCents: ticket.PriceCents,
	}
	ev.LocationCode = location
	if ticket.CustomerEmail != nil {
		ev.CustomerEmail = *ticket.CustomerEmail
	}
	if ticket.PurchasedAt != nil {
		ev.BookedAt = ticket.PurchasedAt.Format(time.RFC3339)
	}
	_ = queue_publisher.PublishTicketBooked(ctx, ev)
}

// ConfirmTicket handles POST /v1/tickets/:id/confirm (RESERVED -> SOLD).
func (h *BookingHandler) ConfirmTicket(c echo.Context) error {
	return h.applyTransition(c, h.Engine.Confirm, domain.TicketSold)
}

// CancelTicket handles POST /v1/tickets/:id/cancel (RESERVED -> AVAILABLE).
func (h *BookingHandler) CancelTicket(c echo.Context) error {
	return h.applyTransition(c, h.Engine.Cancel, domain.TicketAvailable)
}

// RefundTicket handles POST /v1/tickets/:id/refund (SOLD -> AVAILABLE).
func (h *BookingHandler) RefundTicket(c echo.Context) error {
	return h.applyTransition(c, h.Engine.Refund, domain.TicketAvailable)
}

func (h *BookingHandler) applyTransition(c echo.Context, op func(context.Context, uint64) error, result domain.TicketStatus) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid ticket id")
	}
	if err := op(c.Request().Context(), id); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"ticket_id": id,
		"status":    result,
	})
}
