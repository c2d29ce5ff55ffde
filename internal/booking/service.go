// Package booking contains the reservation core: the conflict rule and the
// service orchestrating the catalog lookup, the conflict scan and the
// persistence calls.  The service depends on small interfaces so the HTTP
// layer, the MySQL repositories and the TMDB client stay replaceable in
// tests.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/mooviebooker/backend/internal/catalog"
	"github.com/mooviebooker/backend/internal/model"
)

// Service-level failure taxonomy.  Every error here is expected and maps
// to a 4xx response; there is no internal/fatal tier in this core.
var (
	// ErrInvalidMovie means the catalog does not know the requested movie id.
	ErrInvalidMovie = errors.New("movie not found")
	// ErrCatalogUnavailable means the catalog could not be reached or
	// answered with an unexpected failure.  The service does not retry.
	ErrCatalogUnavailable = errors.New("failed to fetch movie details")
	// ErrSchedulingConflict means the requested date is within the conflict
	// window of another reservation of the same user.
	ErrSchedulingConflict = errors.New("reservation within 2 hours of another reservation")
	// ErrNotFound means no reservation with the requested id exists.
	ErrNotFound = errors.New("reservation does not exist")
	// ErrForbidden means the reservation exists but belongs to another
	// user.  Distinguishing this from ErrNotFound is deliberate: clients
	// get a clearer 403 at the cost of confirming that the id exists.
	ErrForbidden = errors.New("no permission to access this reservation")
)

// MovieCatalog is the slice of the catalog client the service needs.
type MovieCatalog interface {
	FetchMovie(ctx context.Context, id int64) (*catalog.MovieDetail, error)
}

// ReservationStore is the persistence contract for reservations.
type ReservationStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	GetByID(ctx context.Context, id uint64) (model.Reservation, error)
	Create(ctx context.Context, res *model.Reservation) error
	DeleteByID(ctx context.Context, id uint64) (int64, error)
}

// Service implements the reservation operations.
type Service struct {
	catalog    MovieCatalog
	store      ReservationStore
	isNotFound func(err error) bool
	window     time.Duration
}

// NewService builds a Service.  isNotFound recognizes the store's
// not-found error (e.g. repository.ErrReservationNotFound); passing nil
// disables the translation and store errors pass through unchanged.
func NewService(cat MovieCatalog, store ReservationStore, isNotFound func(err error) bool) *Service {
	if isNotFound == nil {
		isNotFound = func(error) bool { return false }
	}
	return &Service{catalog: cat, store: store, isNotFound: isNotFound, window: ConflictWindow}
}

// CreateResult bundles the persisted reservation with the catalog title,
// which confirmation messages and the reservation.created event carry.
type CreateResult struct {
	Reservation model.Reservation
	MovieTitle  string
}

// Create books a reservation for userID.  The movie must exist in the
// catalog and the date must clear the conflict window against every
// existing reservation of the same user; on success the persisted record
// is returned with its assigned id and creation timestamp.  The catalog
// check and the read-then-write conflict scan are not atomic: two
// concurrent calls for the same user can both pass the scan and persist
// conflicting rows.  The invariant is advisory, matching the storage
// schema which carries no exclusion constraint.
func (s *Service) Create(ctx context.Context, userID uint64, movieID int64, date time.Time) (CreateResult, error) {
	movie, err := s.catalog.FetchMovie(ctx, movieID)
	if err != nil {
		if errors.Is(err, catalog.ErrMovieNotFound) {
			return CreateResult{}, ErrInvalidMovie
		}
		return CreateResult{}, ErrCatalogUnavailable
	}

	existing, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return CreateResult{}, err
	}
	dates := make([]time.Time, 0, len(existing))
	for _, r := range existing {
		dates = append(dates, r.ReservationDate)
	}
	if HasConflict(date, dates, s.window) {
		return CreateResult{}, ErrSchedulingConflict
	}

	res := model.Reservation{UserID: userID, MovieID: movieID, ReservationDate: date.UTC()}
	if err := s.store.Create(ctx, &res); err != nil {
		return CreateResult{}, err
	}
	return CreateResult{Reservation: res, MovieTitle: movie.Title}, nil
}

// List returns every reservation owned by userID, unmodified.  Ownership
// filtering in the store is the only access control on this path.
func (s *Service) List(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return s.store.ListByUser(ctx, userID)
}

// GetOne fetches a reservation by id on behalf of userID.
func (s *Service) GetOne(ctx context.Context, userID, reservationID uint64) (model.Reservation, error) {
	res, err := s.loadOwned(ctx, userID, reservationID)
	if err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// DeleteOne removes a reservation by id on behalf of userID and returns
// the number of rows deleted.
func (s *Service) DeleteOne(ctx context.Context, userID, reservationID uint64) (int64, error) {
	if _, err := s.loadOwned(ctx, userID, reservationID); err != nil {
		return 0, err
	}
	return s.store.DeleteByID(ctx, reservationID)
}

// loadOwned is the shared ownership gate for GetOne and DeleteOne: it
// resolves the reservation and rejects with ErrNotFound when it does not
// exist or with ErrForbidden when it belongs to another user.
func (s *Service) loadOwned(ctx context.Context, userID, reservationID uint64) (model.Reservation, error) {
	res, err := s.store.GetByID(ctx, reservationID)
	if err != nil {
		if s.isNotFound(err) {
			return model.Reservation{}, ErrNotFound
		}
		return model.Reservation{}, err
	}
	if res.UserID != userID {
		return model.Reservation{}, ErrForbidden
	}
	return res, nil
}
