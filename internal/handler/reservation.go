package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mooviebooker/backend/internal/booking"
	"github.com/mooviebooker/backend/internal/queue"
)

// EventPublisher publishes a reservation.created event.  Publishing is
// best-effort: a broker outage must never fail the booking itself.
type EventPublisher func(ctx context.Context, ev queue.ReservationCreatedEvent) error

// ReservationHandler exposes the reservation operations over HTTP.  All
// routes sit behind the JWT middleware, so the authenticated user id is
// always available from the context.
type ReservationHandler struct {
	Svc     *booking.Service
	Publish EventPublisher
}

// NewReservationHandler constructs a ReservationHandler.  publish may be
// nil when no broker is configured.
func NewReservationHandler(svc *booking.Service, publish EventPublisher) *ReservationHandler {
	if svc == nil {
		panic("nil booking service passed to NewReservationHandler")
	}
	return &ReservationHandler{Svc: svc, Publish: publish}
}

type createReservationReq struct {
	MovieID         int64  `json:"movieId"`
	ReservationDate string `json:"reservationDate"`
}

// List handles GET /v1/reservation and returns every reservation of the
// calling user.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rows, err := h.Svc.List(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GetOne handles GET /v1/reservation/:id.  A reservation owned by someone
// else yields 403 rather than 404; the id's existence is deliberately
// confirmed in exchange for a clearer client error.
func (h *ReservationHandler) GetOne(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Svc.GetOne(c.Request().Context(), userID, id)
	if err != nil {
		return reservationError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Create handles POST /v1/reservation.  The body carries the catalog
// movie id and an ISO8601 reservation date.  Every rejection from the
// booking core (unknown movie, catalog outage, two-hour conflict)
// surfaces as 400 with the core's message.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.MovieID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movieId is required"})
	}
	date, err := time.Parse(time.RFC3339, req.ReservationDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservationDate must be an ISO8601 timestamp"})
	}

	out, err := h.Svc.Create(c.Request().Context(), userID, req.MovieID, date)
	if err != nil {
		return reservationError(c, err)
	}
	res := out.Reservation

	if h.Publish != nil {
		ev := queue.ReservationCreatedEvent{
			ReservationID:   res.ID,
			UserID:          res.UserID,
			MovieID:         res.MovieID,
			MovieTitle:      out.MovieTitle,
			ReservationDate: res.ReservationDate.UTC().Format(time.RFC3339),
			CreatedAt:       res.CreatedAt.UTC().Format(time.RFC3339),
		}
		// Detached from the request context: the response does not wait
		// for the broker and a slow broker cannot cancel the publish.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = h.Publish(ctx, ev)
		}()
	}

	return c.JSON(http.StatusCreated, res)
}

// DeleteOne handles DELETE /v1/reservation/:id with the same ownership
// rules as GetOne and returns the number of rows removed.
func (h *ReservationHandler) DeleteOne(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	affected, err := h.Svc.DeleteOne(c.Request().Context(), userID, id)
	if err != nil {
		return reservationError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"affected": affected})
}

// reservationError maps the booking error taxonomy onto HTTP statuses.
func reservationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidMovie):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Movie not found."})
	case errors.Is(err, booking.ErrCatalogUnavailable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to fetch movie details."})
	case errors.Is(err, booking.ErrSchedulingConflict):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "You cannot reserve a movie within 2 hours of another reservation."})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "The reservation does not exist"})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You do not have permission to access this reservation"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
