// Package store defines the load-all / save-all contract the engine uses to
// make rooms and reservations durable.
package store

import (
	"context"

	"github.com/example/hotel-reservations/internal/domain/hotel"
)

// Gateway persists whole collections. Implementations skip malformed
// records on load (logging a warning) and treat missing backing storage as
// an empty collection.
type Gateway interface {
	LoadRooms(ctx context.Context) ([]hotel.Room, error)
	SaveRooms(ctx context.Context, rooms []hotel.Room) error
	LoadReservations(ctx context.Context) ([]hotel.Reservation, error)
	SaveReservations(ctx context.Context, reservations []hotel.Reservation) error
}
