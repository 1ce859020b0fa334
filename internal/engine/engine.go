// Package engine is the room-inventory and reservation core: a room
// catalog, an availability oracle over confirmed stays, and the reservation
// ledger with its payment-confirmation lifecycle.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/example/hotel-reservations/internal/domain/hotel"
	"github.com/example/hotel-reservations/internal/metrics"
	"github.com/example/hotel-reservations/internal/store"
	"go.uber.org/zap"
)

type Options struct {
	Gateway store.Gateway
	Policy  Policy

	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// DefaultRooms seeds an empty catalog. Nil means DefaultRooms().
	DefaultRooms []hotel.Room

	Now   func() time.Time
	NewID func() string
}

type Engine struct {
	Catalog      *Catalog
	Availability *Oracle
	Ledger       *Ledger

	policy Policy
	log    *zap.Logger
}

// Open loads the catalog and ledger from the gateway. Storage problems are
// logged and degrade to an empty (seeded) state rather than failing.
func Open(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Gateway == nil {
		return nil, errors.New("engine: nil gateway")
	}
	if opts.Policy == "" {
		opts.Policy = PolicyImmediate
	}
	if _, err := ParsePolicy(string(opts.Policy)); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DefaultRooms == nil {
		opts.DefaultRooms = DefaultRooms()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = NewReservationID
	}
	log := opts.Logger.Named("engine")

	catalog := newCatalog(opts.Gateway, committer{
		collection: "rooms",
		policy:     opts.Policy,
		log:        log,
		metrics:    opts.Metrics,
	}, log.Named("catalog"))
	catalog.load(ctx, opts.DefaultRooms)

	ledger := newLedger(catalog, opts.Gateway, committer{
		collection: "reservations",
		policy:     opts.Policy,
		log:        log,
		metrics:    opts.Metrics,
	}, opts.NewID, opts.Now, log.Named("ledger"), opts.Metrics)
	ledger.load(ctx)

	log.Debug("engine ready",
		zap.Int("rooms", len(catalog.List())),
		zap.Int("reservations", len(ledger.List())),
		zap.String("policy", string(opts.Policy)),
	)
	return &Engine{
		Catalog:      catalog,
		Availability: ledger.oracle,
		Ledger:       ledger,
		policy:       opts.Policy,
		log:          log,
	}, nil
}

func (e *Engine) Policy() Policy { return e.policy }

// Flush writes any unsaved rooms and reservations.
func (e *Engine) Flush(ctx context.Context) error {
	return errors.Join(e.Catalog.Flush(ctx), e.Ledger.Flush(ctx))
}

// Close flushes pending changes. The engine must not be used afterwards.
func (e *Engine) Close(ctx context.Context) error {
	return e.Flush(ctx)
}
