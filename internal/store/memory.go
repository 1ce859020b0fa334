package store

import (
	"context"
	"sync"

	"github.com/example/hotel-reservations/internal/domain/hotel"
)

// Memory is a Gateway that keeps copies in process memory. Save errors can be
// injected with SetFailSaves to exercise the persistence-failure path.
type Memory struct {
	mu           sync.Mutex
	rooms        []hotel.Room
	reservations []hotel.Reservation

	failSaves error

	roomSaves        int
	reservationSaves int
}

var _ Gateway = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) LoadRooms(ctx context.Context) ([]hotel.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]hotel.Room(nil), m.rooms...), nil
}

func (m *Memory) SaveRooms(ctx context.Context, rooms []hotel.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaves != nil {
		return m.failSaves
	}
	m.rooms = append([]hotel.Room(nil), rooms...)
	m.roomSaves++
	return nil
}

func (m *Memory) LoadReservations(ctx context.Context) ([]hotel.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]hotel.Reservation(nil), m.reservations...), nil
}

func (m *Memory) SaveReservations(ctx context.Context, reservations []hotel.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaves != nil {
		return m.failSaves
	}
	m.reservations = append([]hotel.Reservation(nil), reservations...)
	m.reservationSaves++
	return nil
}

// Saves reports how many times each collection was written.
func (m *Memory) Saves() (rooms, reservations int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roomSaves, m.reservationSaves
}

// SetFailSaves toggles injected save failures.
func (m *Memory) SetFailSaves(err error) {
	m.mu.Lock()
	m.failSaves = err
	m.mu.Unlock()
}
