// Package router wires the HTTP handlers onto the Echo instance, grouped by
// concern: setup (catalog, seats, showtimes), booking, and reporting.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/showbase/movie-booking/internal/handler"
)

// RegisterRoutes registers the operational endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterSetup registers the catalog and inventory endpoints: venues,
// theatres, movies, seats and showtimes.
func RegisterSetup(e *echo.Echo, s *handler.SetupHandler, inv *handler.InventoryHandler, sch *handler.ScheduleHandler) {
	g := e.Group("/v1")

	g.POST("/venues", s.CreateVenue)
	g.GET("/venues", s.ListVenues)
	g.GET("/venues/:id", s.GetVenue)
	g.GET("/venues/:id/theatres", s.ListTheatres)

	g.POST("/theatres", s.CreateTheatre)
	g.GET("/theatres/:id", s.GetTheatre)
	g.GET("/theatres/:id/seats", inv.ListSeats)
	g.GET("/theatres/:id/showtimes", sch.ListShowtimes)

	g.POST("/movies", s.CreateMovie)
	g.GET("/movies", s.ListMovies)
	g.GET("/movies/:id", s.GetMovie)

	g.POST("/seats", inv.CreateSeat)
	g.POST("/showtimes", sch.CreateShowtime)
}

// RegisterBooking registers the availability check, booking and ticket
// lifecycle endpoints. The booking endpoints carry the rate limiter so a
// misbehaving client cannot hammer the contended ticket rows.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, ratelimit echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if ratelimit != nil {
		g.Use(ratelimit)
	}

	g.GET("/showtimes/:id/seats/:seat_id/availability", b.CheckAvailability)
	g.POST("/bookings", b.CreateBooking)
	g.POST("/tickets/:id/confirm", b.ConfirmTicket)
	g.POST("/tickets/:id/cancel", b.CancelTicket)
	g.POST("/tickets/:id/refund", b.RefundTicket)
}

// RegisterReporting registers the read-only reporting endpoints behind the
// response cache.
func RegisterReporting(e *echo.Echo, r *handler.ReportHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}

	g.GET("/showtimes/:id/tickets", r.ShowtimeTickets)
	g.GET("/showtimes/:id/available-seats", r.AvailableSeats)
	g.GET("/showtimes/:id/occupancy", r.Occupancy)
	g.GET("/reports/overlaps", r.OverlapAudit)
}
