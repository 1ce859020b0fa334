// Package codec converts rooms and reservations to and from their
// line-oriented text form:
//
//	room:        id,CATEGORY,price,available
//	reservation: id,room,guest,checkin,checkout,price,confirmed[,created_at]
//
// Prices carry two decimals. Fields containing commas or quotes are quoted.
package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/hotel-reservations/internal/domain/hotel"
)

var ErrMalformed = errors.New("malformed record")

// SkipFunc is told about each record that could not be decoded.
type SkipFunc func(line int, err error)

func EncodeRoom(r hotel.Room) []string {
	return []string{r.ID, string(r.Category), r.NightlyPrice.String(), strconv.FormatBool(r.Available)}
}

func DecodeRoom(f []string) (hotel.Room, error) {
	if len(f) != 4 {
		return hotel.Room{}, fmt.Errorf("%w: room has %d fields, want 4", ErrMalformed, len(f))
	}
	cat, err := hotel.ParseCategory(f[1])
	if err != nil || cat == hotel.AnyCategory {
		return hotel.Room{}, fmt.Errorf("%w: category %q", ErrMalformed, f[1])
	}
	price, err := hotel.ParseMoney(f[2])
	if err != nil {
		return hotel.Room{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	avail, err := strconv.ParseBool(strings.TrimSpace(f[3]))
	if err != nil {
		return hotel.Room{}, fmt.Errorf("%w: available %q", ErrMalformed, f[3])
	}
	r := hotel.Room{ID: strings.TrimSpace(f[0]), Category: cat, NightlyPrice: price, Available: avail}
	if err := r.Validate(); err != nil {
		return hotel.Room{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return r, nil
}

func EncodeReservation(r hotel.Reservation) []string {
	f := []string{
		r.ID,
		r.RoomID,
		r.GuestName,
		r.CheckIn.String(),
		r.CheckOut.String(),
		r.TotalPrice.String(),
		strconv.FormatBool(r.Confirmed),
	}
	if !r.CreatedAt.IsZero() {
		f = append(f, r.CreatedAt.UTC().Format(time.RFC3339Nano))
	}
	return f
}

func DecodeReservation(f []string) (hotel.Reservation, error) {
	if len(f) != 7 && len(f) != 8 {
		return hotel.Reservation{}, fmt.Errorf("%w: reservation has %d fields, want 7", ErrMalformed, len(f))
	}
	in, err := hotel.ParseDate(f[3])
	if err != nil {
		return hotel.Reservation{}, fmt.Errorf("%w: check-in: %w", ErrMalformed, err)
	}
	out, err := hotel.ParseDate(f[4])
	if err != nil {
		return hotel.Reservation{}, fmt.Errorf("%w: check-out: %w", ErrMalformed, err)
	}
	price, err := hotel.ParseMoney(f[5])
	if err != nil {
		return hotel.Reservation{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	confirmed, err := strconv.ParseBool(strings.TrimSpace(f[6]))
	if err != nil {
		return hotel.Reservation{}, fmt.Errorf("%w: confirmed %q", ErrMalformed, f[6])
	}
	r := hotel.Reservation{
		ID:         strings.TrimSpace(f[0]),
		RoomID:     strings.TrimSpace(f[1]),
		GuestName:  f[2],
		CheckIn:    in,
		CheckOut:   out,
		TotalPrice: price,
		Confirmed:  confirmed,
	}
	if len(f) == 8 && strings.TrimSpace(f[7]) != "" {
		ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(f[7]))
		if err != nil {
			return hotel.Reservation{}, fmt.Errorf("%w: created_at %q", ErrMalformed, f[7])
		}
		r.CreatedAt = ts.UTC()
	}
	if err := r.Validate(); err != nil {
		return hotel.Reservation{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return r, nil
}

func WriteRooms(w io.Writer, rooms []hotel.Room) error {
	cw := csv.NewWriter(w)
	for _, r := range rooms {
		if err := cw.Write(EncodeRoom(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteReservations(w io.Writer, rs []hotel.Reservation) error {
	cw := csv.NewWriter(w)
	for _, r := range rs {
		if err := cw.Write(EncodeReservation(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRooms decodes every well-formed room. Bad lines are reported to skip
// and dropped; only read failures of the underlying reader are returned.
func ReadRooms(r io.Reader, skip SkipFunc) ([]hotel.Room, error) {
	var out []hotel.Room
	err := readRecords(r, func(line int, f []string) {
		room, err := DecodeRoom(f)
		if err != nil {
			skip.call(line, err)
			return
		}
		out = append(out, room)
	}, skip)
	return out, err
}

// ReadReservations is ReadRooms for reservations.
func ReadReservations(r io.Reader, skip SkipFunc) ([]hotel.Reservation, error) {
	var out []hotel.Reservation
	err := readRecords(r, func(line int, f []string) {
		res, err := DecodeReservation(f)
		if err != nil {
			skip.call(line, err)
			return
		}
		out = append(out, res)
	}, skip)
	return out, err
}

func readRecords(r io.Reader, each func(line int, f []string), skip SkipFunc) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	for {
		f, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			skip.call(perr.StartLine, fmt.Errorf("%w: %w", ErrMalformed, err))
			continue
		}
		if err != nil {
			return err
		}
		line, _ := cr.FieldPos(0)
		each(line, f)
	}
}

func (s SkipFunc) call(line int, err error) {
	if s != nil {
		s(line, err)
	}
}
