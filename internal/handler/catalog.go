package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/showbase/movie-booking/internal/domain"
	"github.com/showbase/movie-booking/internal/repository"
)

// SetupHandler serves the catalog endpoints: venues, theatres and movies.
type SetupHandler struct {
	Venues   *repository.VenueRepo
	Theatres *repository.TheatreRepo
	Movies   *repository.MovieRepo
}

// CreateVenue handles POST /v1/venues.
func (h *SetupHandler) CreateVenue(c echo.Context) error {
	var body struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Address = strings.TrimSpace(body.Address)
	if body.Name == "" || body.Address == "" {
		return badRequest(c, "name and address are required")
	}
	v := domain.Venue{Name: body.Name, Address: body.Address}
	if err := h.Venues.Create(c.Request().Context(), &v); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

// ListVenues handles GET /v1/venues.
func (h *SetupHandler) ListVenues(c echo.Context) error {
	venues, err := h.Venues.ListAll(c.Request().Context())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, venues)
}

// GetVenue handles GET /v1/venues/:id.
func (h *SetupHandler) GetVenue(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	v, err := h.Venues.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// CreateTheatre handles POST /v1/theatres. Capacity is not accepted from the
// client; it is derived from the seats installed later.
func (h *SetupHandler) CreateTheatre(c echo.Context) error {
	var body struct {
		VenueID uint64 `json:"venue_id"`
		Name    string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.VenueID == 0 || body.Name == "" {
		return badRequest(c, "venue_id and name are required")
	}
	t := domain.Theatre{VenueID: body.VenueID, Name: body.Name}
	if err := h.Theatres.Create(c.Request().Context(), &t); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// ListTheatres handles GET /v1/venues/:id/theatres.
func (h *SetupHandler) ListTheatres(c echo.Context) error {
	venueID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid venue id")
	}
	if _, err := h.Venues.GetByID(c.Request().Context(), venueID); err != nil {
		return respondErr(c, err)
	}
	theatres, err := h.Theatres.ListByVenue(c.Request().Context(), venueID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, theatres)
}

// GetTheatre handles GET /v1/theatres/:id.
func (h *SetupHandler) GetTheatre(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	t, err := h.Theatres.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// CreateMovie handles POST /v1/movies.
func (h *SetupHandler) CreateMovie(c echo.Context) error {
	var body struct {
		Title       string `json:"title"`
		Genre       string `json:"genre"`
		DurationMin uint32 `json:"duration_min"`
		ReleaseYear uint32 `json:"release_year"`
		Rating      string `json:"rating"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	m := domain.Movie{
		Title:       strings.TrimSpace(body.Title),
		Genre:       strings.TrimSpace(body.Genre),
		DurationMin: body.DurationMin,
		ReleaseYear: body.ReleaseYear,
		Rating:      domain.Rating(strings.ToUpper(strings.TrimSpace(body.Rating))),
	}
	if err := h.Movies.Create(c.Request().Context(), &m); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// ListMovies handles GET /v1/movies.
func (h *SetupHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.ListAll(c.Request().Context())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, movies)
}

// GetMovie handles GET /v1/movies/:id.
func (h *SetupHandler) GetMovie(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, m)
}
