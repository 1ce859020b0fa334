// Package receipt issues signed, encrypted payment receipts. A receipt is an
// opaque token the guest keeps; Verify proves it was issued with the same
// keys and has not been altered.
package receipt

import (
	"fmt"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/example/hotel-reservations/internal/domain/hotel"
	"github.com/example/hotel-reservations/internal/internaltypes"
)

const (
	name   = "hotelres_receipt"
	MaxAge = 365 * 24 * time.Hour
)

type Receipt struct {
	ReservationID string      `json:"rid"`
	RoomID        string      `json:"room"`
	GuestName     string      `json:"guest"`
	CheckIn       hotel.Date  `json:"in"`
	CheckOut      hotel.Date  `json:"out"`
	Total         hotel.Money `json:"total"`
	Paid          hotel.Money `json:"paid"`
	Change        hotel.Money `json:"change"`
	IssuedAt      time.Time   `json:"at"`
}

type Issuer struct {
	sc  *securecookie.SecureCookie
	now func() time.Time
}

// NewIssuer takes a 32 or 64 byte hash key and an optional 16/24/32 byte
// block key. Without a block key receipts are signed but readable.
func NewIssuer(hashKey, blockKey []byte) (*Issuer, error) {
	if len(hashKey) < 32 {
		return nil, fmt.Errorf("%w: receipt hash key must be at least 32 bytes", internaltypes.ErrInvalidArgument)
	}
	if len(blockKey) == 0 {
		blockKey = nil
	}
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(MaxAge.Seconds()))
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &Issuer{sc: sc, now: time.Now}, nil
}

func (i *Issuer) Issue(r hotel.Reservation, paid, change hotel.Money) (string, error) {
	rc := Receipt{
		ReservationID: r.ID,
		RoomID:        r.RoomID,
		GuestName:     r.GuestName,
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		Total:         r.TotalPrice,
		Paid:          paid,
		Change:        change,
		IssuedAt:      i.now().UTC().Truncate(time.Second),
	}
	return i.sc.Encode(name, rc)
}

func (i *Issuer) Verify(token string) (Receipt, error) {
	var rc Receipt
	if err := i.sc.Decode(name, token, &rc); err != nil {
		return Receipt{}, fmt.Errorf("%w: receipt: %w", internaltypes.ErrUnauthorized, err)
	}
	return rc, nil
}
