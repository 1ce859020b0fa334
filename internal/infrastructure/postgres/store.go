// Package postgres stores rooms and reservations in PostgreSQL. Each save
// replaces a whole collection inside one transaction; a position column
// keeps catalog and creation order.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/example/hotel-reservations/internal/db"
	"github.com/example/hotel-reservations/internal/domain/hotel"
	"github.com/example/hotel-reservations/internal/store"
)

var (
	roomColumns        = []string{"id", "position", "category", "nightly_price_cents", "available"}
	reservationColumns = []string{"id", "position", "room_id", "guest_name", "check_in", "check_out", "total_price_cents", "confirmed", "created_at"}
)

var _ store.Gateway = (*Store)(nil)

type Store struct {
	db  *db.DB
	log *zap.Logger
}

func NewStore(d *db.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: d, log: log.Named("postgres")}
}

func (s *Store) LoadRooms(ctx context.Context) ([]hotel.Room, error) {
	rows, err := s.db.Query(ctx, `SELECT id, category, nightly_price_cents, available FROM rooms ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load rooms: %w", err)
	}
	defer rows.Close()

	var out []hotel.Room
	for rows.Next() {
		var (
			r     hotel.Room
			cat   string
			cents int64
		)
		if err := rows.Scan(&r.ID, &cat, &cents, &r.Available); err != nil {
			return nil, fmt.Errorf("postgres: load rooms: %w", err)
		}
		r.Category, err = hotel.ParseCategory(cat)
		r.NightlyPrice = hotel.Money(cents)
		if err == nil {
			err = r.Validate()
		}
		if err != nil {
			s.log.Warn("skipping malformed room row", zap.String("room_id", r.ID), zap.Error(err))
			continue
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: load rooms: %w", err)
	}
	return out, nil
}

func (s *Store) LoadReservations(ctx context.Context) ([]hotel.Reservation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, room_id, guest_name, check_in, check_out, total_price_cents, confirmed, created_at
		FROM reservations ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load reservations: %w", err)
	}
	defer rows.Close()

	var out []hotel.Reservation
	for rows.Next() {
		var (
			r                 hotel.Reservation
			checkIn, checkOut time.Time
			cents             int64
			createdAt         *time.Time
		)
		if err := rows.Scan(&r.ID, &r.RoomID, &r.GuestName, &checkIn, &checkOut, &cents, &r.Confirmed, &createdAt); err != nil {
			return nil, fmt.Errorf("postgres: load reservations: %w", err)
		}
		r.CheckIn, r.CheckOut = hotel.DateOf(checkIn), hotel.DateOf(checkOut)
		r.TotalPrice = hotel.Money(cents)
		if createdAt != nil {
			r.CreatedAt = createdAt.UTC()
		}
		if err := r.Validate(); err != nil {
			s.log.Warn("skipping malformed reservation row", zap.String("reservation_id", r.ID), zap.Error(err))
			continue
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: load reservations: %w", err)
	}
	return out, nil
}

func (s *Store) SaveRooms(ctx context.Context, rooms []hotel.Room) error {
	rows := make([][]any, len(rooms))
	for i, r := range rooms {
		rows[i] = []any{r.ID, i, string(r.Category), int64(r.NightlyPrice), r.Available}
	}
	return s.replace(ctx, "rooms", roomColumns, rows)
}

func (s *Store) SaveReservations(ctx context.Context, rs []hotel.Reservation) error {
	rows := make([][]any, len(rs))
	for i, r := range rs {
		var createdAt *time.Time
		if !r.CreatedAt.IsZero() {
			t := r.CreatedAt.UTC()
			createdAt = &t
		}
		rows[i] = []any{r.ID, i, r.RoomID, r.GuestName, r.CheckIn.Time(), r.CheckOut.Time(), int64(r.TotalPrice), r.Confirmed, createdAt}
	}
	return s.replace(ctx, "reservations", reservationColumns, rows)
}

func (s *Store) replace(ctx context.Context, table string, cols []string, rows [][]any) error {
	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM `+pgx.Identifier{table}.Sanitize()); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := tx.CopyFrom(ctx, pgx.Identifier{table}, cols, pgx.CopyFromRows(rows))
		return err
	})
	if err != nil {
		return fmt.Errorf("postgres: replace %s: %w", table, err)
	}
	return nil
}
