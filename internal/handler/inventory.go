package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/showbase/movie-booking/internal/domain"
	"github.com/showbase/movie-booking/internal/engine"
	"github.com/showbase/movie-booking/internal/repository"
)

// InventoryHandler serves the seat endpoints.
type InventoryHandler struct {
	Inventory *engine.SeatInventory
	Seats     *repository.InventoryRepo
}

// CreateSeat handles POST /v1/seats. A second seat at the same (theatre,
// location) is a 409; an omitted seat_class defaults to STANDARD.
func (h *InventoryHandler) CreateSeat(c echo.Context) error {
	var body struct {
		TheatreID    uint64 `json:"theatre_id"`
		LocationCode string `json:"location_code"`
		SeatClass    string `json:"seat_class"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.TheatreID == 0 || body.LocationCode == "" {
		return badRequest(c, "theatre_id and location_code are required")
	}
	class, ok := domain.ParseSeatClass(body.SeatClass)
	if !ok {
		return badRequest(c, "invalid seat_class")
	}

	seat, err := h.Inventory.AddSeat(c.Request().Context(), engine.AddSeatInput{
		TheatreID:    body.TheatreID,
		LocationCode: body.LocationCode,
		Class:        class,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, seat)
}

// ListSeats handles GET /v1/theatres/:id/seats.
func (h *InventoryHandler) ListSeats(c echo.Context) error {
	theatreID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid theatre id")
	}
	seats, err := h.Seats.ListByTheatre(c.Request().Context(), theatreID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, seats)
}
