// Package redisstore keeps each collection as a Redis list of JSON
// documents, one element per record in catalog or creation order.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/example/hotel-reservations/internal/domain/hotel"
	"github.com/example/hotel-reservations/internal/store"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

func NewClient(opts Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})
}

func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

var _ store.Gateway = (*Store)(nil)

type Store struct {
	client *redis.Client
	prefix string
	log    *zap.Logger
}

// New wraps client. Keys are "<prefix>rooms" and "<prefix>reservations".
func New(client *redis.Client, prefix string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{client: client, prefix: prefix, log: log.Named("redis")}
}

func (s *Store) RoomsKey() string        { return s.prefix + "rooms" }
func (s *Store) ReservationsKey() string { return s.prefix + "reservations" }

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) LoadRooms(ctx context.Context) ([]hotel.Room, error) {
	items, err := s.client.LRange(ctx, s.RoomsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: load rooms: %w", err)
	}
	out := make([]hotel.Room, 0, len(items))
	for i, item := range items {
		var r hotel.Room
		err := json.Unmarshal([]byte(item), &r)
		if err == nil {
			err = r.Validate()
		}
		if err != nil {
			s.log.Warn("skipping malformed room", zap.String("key", s.RoomsKey()), zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) LoadReservations(ctx context.Context) ([]hotel.Reservation, error) {
	items, err := s.client.LRange(ctx, s.ReservationsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: load reservations: %w", err)
	}
	out := make([]hotel.Reservation, 0, len(items))
	for i, item := range items {
		var r hotel.Reservation
		err := json.Unmarshal([]byte(item), &r)
		if err == nil {
			err = r.Validate()
		}
		if err != nil {
			s.log.Warn("skipping malformed reservation", zap.String("key", s.ReservationsKey()), zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) SaveRooms(ctx context.Context, rooms []hotel.Room) error {
	items := make([]any, len(rooms))
	for i, r := range rooms {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("redis: encode room %s: %w", r.ID, err)
		}
		items[i] = b
	}
	return s.replace(ctx, s.RoomsKey(), items)
}

func (s *Store) SaveReservations(ctx context.Context, rs []hotel.Reservation) error {
	items := make([]any, len(rs))
	for i, r := range rs {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("redis: encode reservation %s: %w", r.ID, err)
		}
		items[i] = b
	}
	return s.replace(ctx, s.ReservationsKey(), items)
}

// replace swaps the list contents in one MULTI/EXEC.
func (s *Store) replace(ctx context.Context, key string, items []any) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		if len(items) > 0 {
			p.RPush(ctx, key, items...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: replace %s: %w", key, err)
	}
	return nil
}
