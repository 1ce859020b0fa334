package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/hotel-reservations/internal/domain/hotel"
	"github.com/example/hotel-reservations/internal/internaltypes"
	"github.com/example/hotel-reservations/internal/store"
	"go.uber.org/zap"
)

// DefaultRooms is the room set a property starts with when storage is empty.
func DefaultRooms() []hotel.Room {
	return []hotel.Room{
		{ID: "101", Category: hotel.Standard, NightlyPrice: 10000, Available: true},
		{ID: "102", Category: hotel.Standard, NightlyPrice: 10000, Available: true},
		{ID: "201", Category: hotel.Deluxe, NightlyPrice: 15000, Available: true},
		{ID: "202", Category: hotel.Deluxe, NightlyPrice: 15000, Available: true},
		{ID: "301", Category: hotel.Suite, NightlyPrice: 25000, Available: true},
		{ID: "302", Category: hotel.Suite, NightlyPrice: 25000, Available: true},
	}
}

// Catalog is the set of bookable rooms.
type Catalog struct {
	mu    sync.RWMutex
	rooms []hotel.Room
	index map[string]int

	gw     store.Gateway
	commit committer
	log    *zap.Logger
}

func newCatalog(gw store.Gateway, c committer, log *zap.Logger) *Catalog {
	return &Catalog{gw: gw, commit: c, log: log, index: map[string]int{}}
}

// load replaces the catalog with the stored rooms, seeding defaults when
// there are none. Load errors degrade to an empty catalog.
func (c *Catalog) load(ctx context.Context, defaults []hotel.Room) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rooms, err := c.gw.LoadRooms(ctx)
	if err != nil {
		c.log.Warn("could not load rooms; starting from defaults", zap.Error(err))
		rooms = nil
	}

	c.rooms = c.rooms[:0]
	c.index = make(map[string]int, len(rooms))
	for _, r := range rooms {
		if err := r.Validate(); err != nil {
			c.log.Warn("skipping invalid room", zap.Error(err))
			continue
		}
		if _, dup := c.index[hotel.RoomKey(r.ID)]; dup {
			c.log.Warn("skipping duplicate room", zap.String("room_id", r.ID))
			continue
		}
		c.insertLocked(r)
	}
	if len(c.rooms) > 0 {
		return
	}

	c.log.Info("initializing default rooms", zap.Int("count", len(defaults)))
	for _, r := range defaults {
		c.insertLocked(r)
	}
	// Seeding is always written through so the next run finds the same rooms.
	if err := c.gw.SaveRooms(ctx, c.snapshotLocked()); err != nil {
		c.commit.metrics.PersistFailure(c.commit.collection)
		c.commit.dirty = true
		c.log.Warn("could not persist default rooms", zap.Error(err))
	}
}

func (c *Catalog) insertLocked(r hotel.Room) {
	c.index[hotel.RoomKey(r.ID)] = len(c.rooms)
	c.rooms = append(c.rooms, r)
}

func (c *Catalog) snapshotLocked() []hotel.Room {
	return append([]hotel.Room(nil), c.rooms...)
}

func (c *Catalog) save(ctx context.Context) error {
	return c.gw.SaveRooms(ctx, c.snapshotLocked())
}

// List returns every room in catalog order.
func (c *Catalog) List() []hotel.Room {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Find looks a room up by identifier, ignoring case.
func (c *Catalog) Find(roomID string) (hotel.Room, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[hotel.RoomKey(roomID)]
	if !ok {
		return hotel.Room{}, fmt.Errorf("room %q: %w", roomID, internaltypes.ErrNotFound)
	}
	return c.rooms[i], nil
}

// Add extends the catalog with a new room.
func (c *Catalog) Add(ctx context.Context, r hotel.Room) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("%w: %w", internaltypes.ErrInvalidArgument, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.index[hotel.RoomKey(r.ID)]; dup {
		return fmt.Errorf("room %q: %w", r.ID, internaltypes.ErrConflict)
	}
	c.insertLocked(r)
	c.log.Info("room added", zap.String("room_id", r.ID), zap.String("category", string(r.Category)))
	return c.commit.commit(ctx, c.save)
}

// SetAvailable toggles the advisory flag. It has no effect on booking.
func (c *Catalog) SetAvailable(ctx context.Context, roomID string, available bool) (hotel.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[hotel.RoomKey(roomID)]
	if !ok {
		return hotel.Room{}, fmt.Errorf("room %q: %w", roomID, internaltypes.ErrNotFound)
	}
	if c.rooms[i].Available == available {
		return c.rooms[i], nil
	}
	c.rooms[i].Available = available
	return c.rooms[i], c.commit.commit(ctx, c.save)
}

// Flush writes unsaved room changes.
func (c *Catalog) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit.flush(ctx, c.save)
}
