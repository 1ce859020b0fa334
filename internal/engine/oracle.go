package engine

import (
	"github.com/example/hotel-reservations/internal/domain/hotel"
)

// Oracle answers date-range availability questions from the ledger's
// confirmed reservations. Pending reservations never block a room.
type Oracle struct {
	catalog *Catalog
	ledger  *Ledger
}

// IsAvailable reports whether roomID has no confirmed stay overlapping
// [checkIn, checkOut). Ordering of the two dates is the caller's concern.
func (o *Oracle) IsAvailable(roomID string, checkIn, checkOut hotel.Date) (bool, error) {
	room, err := o.catalog.Find(roomID)
	if err != nil {
		return false, err
	}
	o.ledger.mu.RLock()
	defer o.ledger.mu.RUnlock()
	return o.freeLocked(room.ID, checkIn, checkOut), nil
}

// SearchAvailable lists rooms of the given category (AnyCategory for all)
// that are free over the range, in catalog order. No match is an empty
// slice, not an error.
func (o *Oracle) SearchAvailable(category hotel.Category, checkIn, checkOut hotel.Date) []hotel.Room {
	rooms := o.catalog.List()

	o.ledger.mu.RLock()
	defer o.ledger.mu.RUnlock()

	out := make([]hotel.Room, 0, len(rooms))
	for _, r := range rooms {
		if category != hotel.AnyCategory && r.Category != category {
			continue
		}
		if o.freeLocked(r.ID, checkIn, checkOut) {
			out = append(out, r)
		}
	}
	return out
}

// freeLocked scans the room's confirmed stays. The ledger lock must be held.
func (o *Oracle) freeLocked(roomID string, checkIn, checkOut hotel.Date) bool {
	for _, r := range o.ledger.confirmed[hotel.RoomKey(roomID)] {
		if r.Overlaps(checkIn, checkOut) {
			return false
		}
	}
	return true
}
