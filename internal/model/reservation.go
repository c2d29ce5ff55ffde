package model

import "time"

// Reservation records a user's booking of a showing of a catalog movie.
// A reservation is immutable once created: there is no update operation,
// only creation and deletion.  ReservationDate is the instant of the booked
// showing and is always handled in UTC so that the two-hour spacing rule
// compares absolute instants rather than wall-clock times.
//
// Fields:
//  ID              – primary key identifier, assigned on insert.
//  UserID          – user who owns the reservation, set from the
//                    authenticated caller at creation.
//  MovieID         – identifier of the movie in the external catalog,
//                    validated against the catalog at creation time only.
//  ReservationDate – instant of the booked showing.
//  CreatedAt       – creation timestamp, assigned by the database.
type Reservation struct {
    ID              uint64    `json:"id"`              // reservations.id
    UserID          uint64    `json:"userId"`          // reservations.user_id
    MovieID         int64     `json:"movieId"`         // reservations.movie_id
    ReservationDate time.Time `json:"reservationDate"` // reservations.reservation_date
    CreatedAt       time.Time `json:"createdAt"`       // reservations.created_at
}
