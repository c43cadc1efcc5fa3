package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/showbase/movie-booking/internal/domain"
	"github.com/showbase/movie-booking/internal/repository"
)

// ReportHandler serves the read-only reporting endpoints.
type ReportHandler struct {
	Reports *repository.ReportRepo
}

// ShowtimeTickets handles GET /v1/showtimes/:id/tickets?status=SOLD.
func (h *ReportHandler) ShowtimeTickets(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid showtime id")
	}
	var status domain.TicketStatus
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		parsed, ok := domain.ParseTicketStatus(raw)
		if !ok {
			return badRequest(c, "invalid status filter")
		}
		status = parsed
	}
	lines, err := h.Reports.TicketsByShowtime(c.Request().Context(), id, status)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, lines)
}

// AvailableSeats handles GET /v1/showtimes/:id/available-seats.
func (h *ReportHandler) AvailableSeats(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid showtime id")
	}
	lines, err := h.Reports.AvailableSeats(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, lines)
}

// Occupancy handles GET /v1/showtimes/:id/occupancy.
func (h *ReportHandler) Occupancy(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid showtime id")
	}
	rep, err := h.Reports.Occupancy(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

// OverlapAudit handles GET /v1/reports/overlaps. It re-checks the schedule
// invariant across the whole database; the expected result is an empty list.
func (h *ReportHandler) OverlapAudit(c echo.Context) error {
	pairs, err := h.Reports.FindOverlappingPairs(c.Request().Context())
	if err != nil {
		return respondErr(c, err)
	}
	if pairs == nil {
		pairs = []repository.OverlapPair{}
	}
	return c.JSON(http.StatusOK, pairs)
}
