package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mooviebooker/backend/internal/catalog"
)

// MoviesHandler proxies the external movie catalog.  The endpoints are
// public: browsing the catalog requires no account.
type MoviesHandler struct {
	Catalog *catalog.Client
}

func NewMoviesHandler(c *catalog.Client) *MoviesHandler {
	return &MoviesHandler{Catalog: c}
}

// List handles GET /v1/movies.  Query parameters: page (default 1),
// search (title filter) and sort ("popularity" or "top_rated").  search
// and sort are mutually exclusive because they select different upstream
// endpoints.
func (h *MoviesHandler) List(c echo.Context) error {
	page := 1
	if p := c.QueryParam("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	search := strings.TrimSpace(c.QueryParam("search"))
	sort := strings.TrimSpace(c.QueryParam("sort"))
	if search != "" && sort != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": `You can only use "search" OR "sort" parameter.`})
	}
	if sort != "" && sort != "popularity" && sort != "top_rated" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sort"})
	}

	list, err := h.Catalog.ListMovies(c.Request().Context(), page, search, sort)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to fetch movies"})
	}
	return c.JSON(http.StatusOK, list)
}

// GetOne handles GET /v1/movies/:id and returns the reshaped detail
// record.  An unknown id and an upstream failure both map to 400, with
// distinct messages, mirroring how clients already consume this API.
func (h *MoviesHandler) GetOne(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	det, err := h.Catalog.FetchMovie(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrMovieNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Movie not found."})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to fetch movie details."})
	}
	return c.JSON(http.StatusOK, det)
}
