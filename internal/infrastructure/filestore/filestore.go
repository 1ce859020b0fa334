// Package filestore keeps rooms and reservations as two text files in a
// data directory, one record per line.
package filestore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/example/hotel-reservations/internal/codec"
	"github.com/example/hotel-reservations/internal/domain/hotel"
	"github.com/example/hotel-reservations/internal/store"
)

const (
	RoomsFile        = "rooms.txt"
	ReservationsFile = "reservations.txt"
)

var _ store.Gateway = (*Store)(nil)

type Store struct {
	dir string
	log *zap.Logger

	mu sync.Mutex
}

func New(dir string, log *zap.Logger) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: %w", err)
	}
	return &Store{dir: dir, log: log.Named("filestore")}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) LoadRooms(ctx context.Context) ([]hotel.Room, error) {
	var rooms []hotel.Room
	err := s.read(RoomsFile, func(f *os.File, skip codec.SkipFunc) (n int, err error) {
		rooms, err = codec.ReadRooms(bufio.NewReader(f), skip)
		return len(rooms), err
	})
	return rooms, err
}

func (s *Store) LoadReservations(ctx context.Context) ([]hotel.Reservation, error) {
	var rs []hotel.Reservation
	err := s.read(ReservationsFile, func(f *os.File, skip codec.SkipFunc) (n int, err error) {
		rs, err = codec.ReadReservations(bufio.NewReader(f), skip)
		return len(rs), err
	})
	return rs, err
}

func (s *Store) SaveRooms(ctx context.Context, rooms []hotel.Room) error {
	return s.write(ctx, RoomsFile, func(w *bufio.Writer) error { return codec.WriteRooms(w, rooms) })
}

func (s *Store) SaveReservations(ctx context.Context, rs []hotel.Reservation) error {
	return s.write(ctx, ReservationsFile, func(w *bufio.Writer) error { return codec.WriteReservations(w, rs) })
}

// read treats a missing file as an empty collection.
func (s *Store) read(name string, decode func(*os.File, codec.SkipFunc) (int, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("no data file yet", zap.String("path", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("filestore: %w", err)
	}
	defer f.Close()

	n, err := decode(f, func(line int, err error) {
		s.log.Warn("skipping malformed line", zap.String("path", path), zap.Int("line", line), zap.Error(err))
	})
	if err != nil {
		return fmt.Errorf("filestore: read %s: %w", path, err)
	}
	s.log.Debug("loaded", zap.String("path", path), zap.Int("records", n))
	return nil
}

// write replaces the file atomically: a crash leaves the old or the new
// contents, never a mix.
func (s *Store) write(ctx context.Context, name string, encode func(*bufio.Writer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("filestore: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := encode(w); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: encode %s: %w", name, err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filestore: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("filestore: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("filestore: %w", err)
	}
	return nil
}
