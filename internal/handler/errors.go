// Package handler contains the HTTP handlers exposed by the router. Handlers
// bind and validate input, delegate to the engines and repositories, and map
// domain errors onto HTTP status codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/showbase/movie-booking/internal/domain"
)

// respondErr translates a domain error into the JSON error body and status
// code the API promises. Unknown errors become opaque 500s so internals never
// leak to clients.
func respondErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrInvalidMovie),
		errors.Is(err, domain.ErrInvalidTransition):
		return c.JSON(http.StatusBadRequest, errBody(err))
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUnitNotFound):
		return c.JSON(http.StatusNotFound, errBody(err))
	case errors.Is(err, domain.ErrShowtimeOverlap),
		errors.Is(err, domain.ErrDuplicateSeat),
		errors.Is(err, domain.ErrAlreadyBooked),
		errors.Is(err, domain.ErrConflict):
		return c.JSON(http.StatusConflict, errBody(err))
	case errors.Is(err, domain.ErrPastShowtime):
		return c.JSON(http.StatusUnprocessableEntity, errBody(err))
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func errBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

// pathID parses a numeric path parameter, rejecting zero.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}
