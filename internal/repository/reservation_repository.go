package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mooviebooker/backend/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  All
// timestamp columns are stored in UTC (the connection is opened with
// loc=UTC) so dates scan back as comparable absolute instants.  The
// repository does not enforce the two-hour spacing rule; that invariant
// lives in the booking service and is advisory only.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ListByUser returns all reservations owned by userID, newest first.
// When the user has none, an empty slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, user_id, movie_id, reservation_date, created_at
	           FROM reservations
	           WHERE user_id = ?
	           ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.MovieID, &res.ReservationDate, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single reservation by id with its owning user id
// attached, which callers need for the ownership check.  It returns
// ErrReservationNotFound when no such row exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	const q = `SELECT id, user_id, movie_id, reservation_date, created_at
	           FROM reservations
	           WHERE id = ?`
	var res model.Reservation
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&res.ID, &res.UserID, &res.MovieID, &res.ReservationDate, &res.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrReservationNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// Create inserts a reservation and populates the generated ID and the
// database-assigned created_at on the provided record.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, movie_id, reservation_date) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, res.UserID, res.MovieID, res.ReservationDate.UTC())
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to pick up created_at and normalize the date
	const sel = `SELECT user_id, movie_id, reservation_date, created_at FROM reservations WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, res.ID).Scan(
		&res.UserID, &res.MovieID, &res.ReservationDate, &res.CreatedAt)
}

// DeleteByID removes a reservation and reports how many rows were
// affected.  The ownership check happens in the booking service before
// this is called, so a zero count here only means the row vanished in
// between.
func (r *ReservationRepo) DeleteByID(ctx context.Context, id uint64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
