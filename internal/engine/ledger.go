package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/example/hotel-reservations/internal/domain/hotel"
	"github.com/example/hotel-reservations/internal/internaltypes"
	"github.com/example/hotel-reservations/internal/metrics"
	"github.com/example/hotel-reservations/internal/store"
	"go.uber.org/zap"
)

// Outcome is the result of a payment confirmation attempt.
type Outcome int

const (
	OutcomeConfirmed Outcome = iota + 1
	OutcomeAlreadyConfirmed
	OutcomeInsufficientPayment
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeAlreadyConfirmed:
		return "already_confirmed"
	case OutcomeInsufficientPayment:
		return "insufficient_payment"
	default:
		return "unknown"
	}
}

// ConfirmationResult describes what Confirm did. Insufficient payment is a
// reported outcome, not an error: the reservation stays Pending.
type ConfirmationResult struct {
	Reservation hotel.Reservation
	Outcome     Outcome
	Paid        hotel.Money
	Change      hotel.Money
	Shortfall   hotel.Money
}

func (r ConfirmationResult) OK() bool { return r.Outcome != OutcomeInsufficientPayment }

// Ledger owns every reservation. Book, Confirm and Cancel run their check,
// mutation and (under PolicyImmediate) durable write inside one critical
// section.
type Ledger struct {
	mu        sync.RWMutex
	order     []string
	byID      map[string]*hotel.Reservation
	confirmed map[string][]*hotel.Reservation // room key -> confirmed stays
	issued    map[string]struct{}

	catalog *Catalog
	oracle  *Oracle
	gw      store.Gateway
	commit  committer

	newID   func() string
	now     func() time.Time
	log     *zap.Logger
	metrics *metrics.Metrics
}

func newLedger(catalog *Catalog, gw store.Gateway, c committer, newID func() string, now func() time.Time, log *zap.Logger, m *metrics.Metrics) *Ledger {
	l := &Ledger{
		byID:      map[string]*hotel.Reservation{},
		confirmed: map[string][]*hotel.Reservation{},
		issued:    map[string]struct{}{},
		catalog:   catalog,
		gw:        gw,
		commit:    c,
		newID:     newID,
		now:       now,
		log:       log,
		metrics:   m,
	}
	l.oracle = &Oracle{catalog: catalog, ledger: l}
	return l
}

func (l *Ledger) load(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rs, err := l.gw.LoadReservations(ctx)
	if err != nil {
		l.log.Warn("could not load reservations; starting empty", zap.Error(err))
		rs = nil
	}
	for i := range rs {
		r := rs[i]
		if err := r.Validate(); err != nil {
			l.log.Warn("skipping invalid reservation", zap.Error(err))
			continue
		}
		key := hotel.ReservationKey(r.ID)
		if _, dup := l.byID[key]; dup {
			l.log.Warn("skipping duplicate reservation", zap.String("reservation_id", r.ID))
			continue
		}
		if _, err := l.catalog.Find(r.RoomID); err != nil {
			l.log.Warn("reservation references unknown room", zap.String("reservation_id", r.ID), zap.String("room_id", r.RoomID))
		}
		if r.Confirmed && !l.oracle.freeLocked(r.RoomID, r.CheckIn, r.CheckOut) {
			// the earlier record keeps the room; the next flush stores the downgrade
			l.log.Warn("stored confirmed reservations overlap; loading later one as pending",
				zap.String("reservation_id", r.ID), zap.String("room_id", r.RoomID))
			r.Confirmed = false
			l.commit.dirty = true
		}
		l.insertLocked(&r)
	}
	l.gaugeLocked()
}

func (l *Ledger) insertLocked(r *hotel.Reservation) {
	key := hotel.ReservationKey(r.ID)
	l.order = append(l.order, key)
	l.byID[key] = r
	l.issued[key] = struct{}{}
	if r.Confirmed {
		l.indexConfirmedLocked(r)
	}
}

func (l *Ledger) indexConfirmedLocked(r *hotel.Reservation) {
	rk := hotel.RoomKey(r.RoomID)
	l.confirmed[rk] = append(l.confirmed[rk], r)
}

func (l *Ledger) unindexConfirmedLocked(r *hotel.Reservation) {
	rk := hotel.RoomKey(r.RoomID)
	stays := l.confirmed[rk]
	for i, s := range stays {
		if s == r {
			l.confirmed[rk] = append(stays[:i], stays[i+1:]...)
			break
		}
	}
	if len(l.confirmed[rk]) == 0 {
		delete(l.confirmed, rk)
	}
}

// issueIDLocked returns an identifier this ledger has never handed out,
// including identifiers of cancelled reservations.
func (l *Ledger) issueIDLocked() string {
	for {
		id := hotel.ReservationKey(l.newID())
		if _, used := l.issued[id]; !used && id != "" {
			return id
		}
	}
}

func (l *Ledger) snapshotLocked() []hotel.Reservation {
	out := make([]hotel.Reservation, 0, len(l.order))
	for _, k := range l.order {
		out = append(out, *l.byID[k])
	}
	return out
}

func (l *Ledger) save(ctx context.Context) error {
	return l.gw.SaveReservations(ctx, l.snapshotLocked())
}

func (l *Ledger) gaugeLocked() {
	confirmed := 0
	for _, stays := range l.confirmed {
		confirmed += len(stays)
	}
	l.metrics.SetReservations(len(l.byID)-confirmed, confirmed)
}

// Book creates a Pending reservation for the room over [checkIn, checkOut).
// If the durable write fails the reservation is still held in memory and is
// returned together with an error wrapping ErrPersistence.
func (l *Ledger) Book(ctx context.Context, roomID, guestName string, checkIn, checkOut hotel.Date) (hotel.Reservation, error) {
	defer l.metrics.Since("book", time.Now())

	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		l.metrics.Booking("invalid")
		return hotel.Reservation{}, fmt.Errorf("%w: guest name is required", internaltypes.ErrInvalidArgument)
	}
	room, err := l.catalog.Find(roomID)
	if err != nil {
		l.metrics.Booking("room_not_found")
		return hotel.Reservation{}, err
	}
	if !checkOut.After(checkIn) {
		l.metrics.Booking("invalid_dates")
		return hotel.Reservation{}, fmt.Errorf("%s to %s: %w", checkIn, checkOut, internaltypes.ErrInvalidDateRange)
	}
	total, err := hotel.Quote(room.NightlyPrice, checkIn, checkOut)
	if err != nil {
		l.metrics.Booking("invalid")
		return hotel.Reservation{}, fmt.Errorf("%w: %w", internaltypes.ErrInvalidArgument, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.oracle.freeLocked(room.ID, checkIn, checkOut) {
		l.metrics.Booking("unavailable")
		return hotel.Reservation{}, fmt.Errorf("room %s, %s to %s: %w", room.ID, checkIn, checkOut, internaltypes.ErrUnavailable)
	}

	r := &hotel.Reservation{
		ID:         l.issueIDLocked(),
		RoomID:     room.ID,
		GuestName:  guestName,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalPrice: total,
		CreatedAt:  l.now().UTC(),
	}
	l.insertLocked(r)
	l.gaugeLocked()
	l.metrics.Booking("ok")
	l.log.Info("reservation created",
		zap.String("reservation_id", r.ID),
		zap.String("room_id", r.RoomID),
		zap.Stringer("check_in", r.CheckIn),
		zap.Stringer("check_out", r.CheckOut),
		zap.Stringer("total", r.TotalPrice),
	)
	return *r, l.commit.commit(ctx, l.save)
}

// Confirm applies a payment. Confirming an already confirmed reservation is
// a no-op that reports OutcomeAlreadyConfirmed. A sufficient payment for a
// stay that another confirmed reservation has meanwhile taken fails with
// ErrUnavailable and leaves the reservation Pending.
func (l *Ledger) Confirm(ctx context.Context, reservationID string, amountPaid hotel.Money) (ConfirmationResult, error) {
	defer l.metrics.Since("confirm", time.Now())

	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.byID[hotel.ReservationKey(reservationID)]
	if !ok {
		l.metrics.Confirmation("not_found")
		return ConfirmationResult{}, fmt.Errorf("reservation %q: %w", reservationID, internaltypes.ErrNotFound)
	}
	res := ConfirmationResult{Reservation: *r, Paid: amountPaid}

	if r.Confirmed {
		res.Outcome = OutcomeAlreadyConfirmed
		l.metrics.Confirmation(res.Outcome.String())
		return res, nil
	}
	if amountPaid < r.TotalPrice {
		res.Outcome = OutcomeInsufficientPayment
		res.Shortfall = r.TotalPrice - amountPaid
		l.metrics.Confirmation(res.Outcome.String())
		l.log.Info("payment insufficient",
			zap.String("reservation_id", r.ID),
			zap.Stringer("required", r.TotalPrice),
			zap.Stringer("paid", amountPaid),
		)
		return res, nil
	}
	if !l.oracle.freeLocked(r.RoomID, r.CheckIn, r.CheckOut) {
		l.metrics.Confirmation("unavailable")
		return res, fmt.Errorf("reservation %s: room %s, %s to %s: %w", r.ID, r.RoomID, r.CheckIn, r.CheckOut, internaltypes.ErrUnavailable)
	}

	r.Confirmed = true
	l.indexConfirmedLocked(r)
	l.gaugeLocked()

	res.Reservation = *r
	res.Outcome = OutcomeConfirmed
	res.Change = amountPaid - r.TotalPrice
	l.metrics.Confirmation(res.Outcome.String())
	l.log.Info("reservation confirmed", zap.String("reservation_id", r.ID), zap.Stringer("change", res.Change))
	return res, l.commit.commit(ctx, l.save)
}

// Cancel removes the reservation in either state. Unknown identifiers
// report false without error.
func (l *Ledger) Cancel(ctx context.Context, reservationID string) (bool, error) {
	defer l.metrics.Since("cancel", time.Now())

	l.mu.Lock()
	defer l.mu.Unlock()

	key := hotel.ReservationKey(reservationID)
	r, ok := l.byID[key]
	if !ok {
		l.metrics.Cancellation("not_found")
		return false, nil
	}
	delete(l.byID, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	if r.Confirmed {
		l.unindexConfirmedLocked(r)
	}
	l.gaugeLocked()
	l.metrics.Cancellation("ok")
	l.log.Info("reservation cancelled", zap.String("reservation_id", r.ID), zap.Bool("was_confirmed", r.Confirmed))
	return true, l.commit.commit(ctx, l.save)
}

// Get returns a copy of the reservation.
func (l *Ledger) Get(reservationID string) (hotel.Reservation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.byID[hotel.ReservationKey(reservationID)]
	if !ok {
		return hotel.Reservation{}, fmt.Errorf("reservation %q: %w", reservationID, internaltypes.ErrNotFound)
	}
	return *r, nil
}

// List returns every reservation in creation order.
func (l *Ledger) List() []hotel.Reservation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

// Flush writes unsaved reservation changes.
func (l *Ledger) Flush(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commit.flush(ctx, l.save)
}
