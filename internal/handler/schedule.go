package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/showbase/movie-booking/internal/engine"
	"github.com/showbase/movie-booking/internal/repository"
)

// ScheduleHandler serves the showtime endpoints.
type ScheduleHandler struct {
	Manager   *engine.ScheduleManager
	Showtimes *repository.ScheduleRepo
}

// CreateShowtime handles POST /v1/showtimes. Timestamps are RFC 3339; an
// overlap with an existing showtime in the same theatre on the same date is
// a 409.
func (h *ScheduleHandler) CreateShowtime(c echo.Context) error {
	var body struct {
		MovieID   uint64 `json:"movie_id"`
		TheatreID uint64 `json:"theatre_id"`
		StartsAt  string `json:"starts_at"`
		EndsAt    string `json:"ends_at"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.MovieID == 0 || body.TheatreID == 0 {
		return badRequest(c, "movie_id and theatre_id are required")
	}
	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return badRequest(c, "starts_at must be RFC 3339")
	}
	endsAt, err := time.Parse(time.RFC3339, body.EndsAt)
	if err != nil {
		return badRequest(c, "ends_at must be RFC 3339")
	}

	st, err := h.Manager.ScheduleShowtime(c.Request().Context(), engine.ScheduleShowtimeInput{
		MovieID:   body.MovieID,
		TheatreID: body.TheatreID,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, st)
}

// ListShowtimes handles GET /v1/theatres/:id/showtimes.
func (h *ScheduleHandler) ListShowtimes(c echo.Context) error {
	theatreID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid theatre id")
	}
	showtimes, err := h.Showtimes.ListByTheatre(c.Request().Context(), theatreID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, showtimes)
}
