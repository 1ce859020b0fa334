package hotel

import (
	"fmt"
	"strings"
	"time"
)

type Reservation struct {
	ID         string `json:"id" validate:"required,max=32,excludesall=0x2C"`
	RoomID     string `json:"room_id" validate:"required"`
	GuestName  string `json:"guest_name" validate:"required"`
	CheckIn    Date   `json:"check_in"`
	CheckOut   Date   `json:"check_out"`
	TotalPrice Money  `json:"total_price" validate:"gte=0"`
	Confirmed  bool   `json:"confirmed"`

	CreatedAt time.Time `json:"created_at"`
}

// ReservationKey normalises a reservation identifier for lookups.
func ReservationKey(id string) string { return strings.ToUpper(strings.TrimSpace(id)) }

// Nights is the whole-day length of the stay.
func (r Reservation) Nights() int { return r.CheckIn.DaysUntil(r.CheckOut) }

// Overlaps applies the half-open interval rule: [in, out) against the stay.
func (r Reservation) Overlaps(in, out Date) bool {
	return Overlap(r.CheckIn, r.CheckOut, in, out)
}

func (r Reservation) Status() string {
	if r.Confirmed {
		return "Confirmed"
	}
	return "Pending Payment"
}

func (r Reservation) String() string {
	return fmt.Sprintf("Reservation ID: %s\n"+
		"  Room Number: %s\n"+
		"  Guest Name: %s\n"+
		"  Check-in Date: %s\n"+
		"  Check-out Date: %s\n"+
		"  Total Price: $%s\n"+
		"  Status: %s",
		r.ID, r.RoomID, r.GuestName, r.CheckIn, r.CheckOut, r.TotalPrice, r.Status())
}

// Overlap reports whether [aIn, aOut) and [bIn, bOut) share at least one night.
func Overlap(aIn, aOut, bIn, bOut Date) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// Quote derives the total price of a stay. nights must already be >= 1.
func Quote(nightly Money, in, out Date) (Money, error) {
	total, ok := nightly.Times(in.DaysUntil(out))
	if !ok {
		return 0, fmt.Errorf("$%s/night from %s to %s: %w", nightly, in, out, ErrAmountTooLarge)
	}
	return total, nil
}
