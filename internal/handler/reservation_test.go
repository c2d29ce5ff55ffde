package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mooviebooker/backend/internal/booking"
	"github.com/mooviebooker/backend/internal/catalog"
	"github.com/mooviebooker/backend/internal/model"
	"github.com/mooviebooker/backend/internal/queue"
)

type stubCatalog struct {
	known map[int64]string
	err   error
}

func (s *stubCatalog) FetchMovie(ctx context.Context, id int64) (*catalog.MovieDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	title, ok := s.known[id]
	if !ok {
		return nil, catalog.ErrMovieNotFound
	}
	return &catalog.MovieDetail{ID: id, Title: title}, nil
}

var errStubNotFound = errors.New("stub: not found")

type stubStore struct {
	rows   map[uint64]model.Reservation
	nextID uint64
}

func newStubStore() *stubStore {
	return &stubStore{rows: map[uint64]model.Reservation{}, nextID: 1}
}

func (s *stubStore) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	out := []model.Reservation{}
	for _, r := range s.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubStore) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	r, ok := s.rows[id]
	if !ok {
		return model.Reservation{}, errStubNotFound
	}
	return r, nil
}

func (s *stubStore) Create(ctx context.Context, res *model.Reservation) error {
	res.ID = s.nextID
	res.CreatedAt = time.Now().UTC()
	s.nextID++
	s.rows[res.ID] = *res
	return nil
}

func (s *stubStore) DeleteByID(ctx context.Context, id uint64) (int64, error) {
	if _, ok := s.rows[id]; !ok {
		return 0, nil
	}
	delete(s.rows, id)
	return 1, nil
}

func newTestHandler(store *stubStore) *ReservationHandler {
	cat := &stubCatalog{known: map[int64]string{603: "The Matrix"}}
	svc := booking.NewService(cat, store, func(err error) bool { return errors.Is(err, errStubNotFound) })
	return NewReservationHandler(svc, nil)
}

// newCtx builds an echo context carrying the user id the way the JWT
// middleware stores it (numeric claims decode as float64).
func newCtx(t *testing.T, method, target, body string, userID uint64, pathParam string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(userID))
	if pathParam != "" {
		c.SetParamNames("id")
		c.SetParamValues(pathParam)
	}
	return c, rec
}

func TestCreateReservationEndpoint(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	c, rec := newCtx(t, http.MethodPost, "/v1/reservation",
		`{"movieId":603,"reservationDate":"2023-05-20T14:00:00Z"}`, 1, "")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var res model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, int64(603), res.MovieID)
	assert.Equal(t, uint64(1), res.UserID)
	assert.NotZero(t, res.ID)
}

func TestCreateReservationUnknownMovie(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	c, rec := newCtx(t, http.MethodPost, "/v1/reservation",
		`{"movieId":999999,"reservationDate":"2023-05-20T14:00:00Z"}`, 1, "")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Movie not found.")
	assert.Empty(t, store.rows, "nothing may be persisted")
}

func TestCreateReservationConflict(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	c, rec := newCtx(t, http.MethodPost, "/v1/reservation",
		`{"movieId":603,"reservationDate":"2023-05-20T14:00:00Z"}`, 1, "")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newCtx(t, http.MethodPost, "/v1/reservation",
		`{"movieId":603,"reservationDate":"2023-05-20T15:30:00Z"}`, 1, "")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "within 2 hours")
	assert.Len(t, store.rows, 1)
}

func TestCreateReservationCatalogDown(t *testing.T) {
	store := newStubStore()
	cat := &stubCatalog{err: catalog.ErrUnavailable}
	svc := booking.NewService(cat, store, func(err error) bool { return errors.Is(err, errStubNotFound) })
	h := NewReservationHandler(svc, nil)

	c, rec := newCtx(t, http.MethodPost, "/v1/reservation",
		`{"movieId":603,"reservationDate":"2023-05-20T14:00:00Z"}`, 1, "")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch movie details.")
}

func TestCreateReservationBadDate(t *testing.T) {
	h := newTestHandler(newStubStore())

	c, rec := newCtx(t, http.MethodPost, "/v1/reservation",
		`{"movieId":603,"reservationDate":"yesterday"}`, 1, "")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOneEndpointStatuses(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	c, rec := newCtx(t, http.MethodPost, "/v1/reservation",
		`{"movieId":603,"reservationDate":"2023-05-20T14:00:00Z"}`, 1, "")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Owner sees the reservation.
	c, rec = newCtx(t, http.MethodGet, "/v1/reservation/1", "", 1, "1")
	require.NoError(t, h.GetOne(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Another user gets 403, not 404.
	c, rec = newCtx(t, http.MethodGet, "/v1/reservation/1", "", 2, "1")
	require.NoError(t, h.GetOne(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Unknown id gets 404.
	c, rec = newCtx(t, http.MethodGet, "/v1/reservation/999", "", 1, "999")
	require.NoError(t, h.GetOne(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEndpoint(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	c, rec := newCtx(t, http.MethodPost, "/v1/reservation",
		`{"movieId":603,"reservationDate":"2023-05-20T14:00:00Z"}`, 1, "")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newCtx(t, http.MethodDelete, "/v1/reservation/1", "", 2, "1")
	require.NoError(t, h.DeleteOne(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newCtx(t, http.MethodDelete, "/v1/reservation/1", "", 1, "1")
	require.NoError(t, h.DeleteOne(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"affected":1}`, rec.Body.String())

	c, rec = newCtx(t, http.MethodDelete, "/v1/reservation/1", "", 1, "1")
	require.NoError(t, h.DeleteOne(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEndpointScopedToUser(t *testing.T) {
	store := newStubStore()
	h := newTestHandler(store)

	c, rec := newCtx(t, http.MethodPost, "/v1/reservation",
		`{"movieId":603,"reservationDate":"2023-05-20T14:00:00Z"}`, 1, "")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newCtx(t, http.MethodGet, "/v1/reservation", "", 2, "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	c, rec = newCtx(t, http.MethodGet, "/v1/reservation", "", 1, "")
	require.NoError(t, h.List(c))
	var rows []model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)
}

func TestCreatePublishesEvent(t *testing.T) {
	store := newStubStore()
	cat := &stubCatalog{known: map[int64]string{603: "The Matrix"}}
	svc := booking.NewService(cat, store, func(err error) bool { return errors.Is(err, errStubNotFound) })

	published := make(chan queue.ReservationCreatedEvent, 1)
	h := NewReservationHandler(svc, func(ctx context.Context, ev queue.ReservationCreatedEvent) error {
		published <- ev
		return nil
	})

	c, rec := newCtx(t, http.MethodPost, "/v1/reservation",
		`{"movieId":603,"reservationDate":"2023-05-20T14:00:00Z"}`, 1, "")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	select {
	case ev := <-published:
		assert.Equal(t, "The Matrix", ev.MovieTitle)
		assert.Equal(t, int64(603), ev.MovieID)
		assert.Equal(t, uint64(1), ev.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("reservation.created event was not published")
	}
}
