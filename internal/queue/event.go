// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// ReservationCreatedEvent is published when a reservation is successfully
// created.  It carries enough information for downstream consumers to log
// or notify without querying the primary database.
type ReservationCreatedEvent struct {
    ReservationID   uint64 `json:"reservation_id"`
    UserID          uint64 `json:"user_id"`
    MovieID         int64  `json:"movie_id"`
    MovieTitle      string `json:"movie_title"`
    ReservationDate string `json:"reservation_date"`
    CreatedAt       string `json:"created_at"`
}
