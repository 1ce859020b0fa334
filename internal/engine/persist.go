package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/hotel-reservations/internal/internaltypes"
	"github.com/example/hotel-reservations/internal/metrics"
)

// Policy decides when committed mutations reach the gateway.
type Policy string

const (
	// PolicyImmediate saves after every committed mutation, before the call returns.
	PolicyImmediate Policy = "immediate"
	// PolicyDeferred marks state dirty; a Flusher or Close writes it later.
	PolicyDeferred Policy = "deferred"
	// PolicyManual only writes on an explicit Flush or Close.
	PolicyManual Policy = "manual"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyImmediate, nil
	case PolicyImmediate, PolicyDeferred, PolicyManual:
		return p, nil
	default:
		return "", fmt.Errorf("unknown persist policy %q (want immediate, deferred or manual)", s)
	}
}

// committer tracks whether a collection has unsaved changes. Its methods are
// called with the owning component's write lock held.
type committer struct {
	collection string
	policy     Policy
	dirty      bool

	log     *zap.Logger
	metrics *metrics.Metrics
}

func (c *committer) commit(ctx context.Context, save func(context.Context) error) error {
	c.dirty = true
	if c.policy != PolicyImmediate {
		return nil
	}
	return c.flush(ctx, save)
}

func (c *committer) flush(ctx context.Context, save func(context.Context) error) error {
	if !c.dirty {
		return nil
	}
	if err := save(ctx); err != nil {
		c.metrics.PersistFailure(c.collection)
		c.log.Error("save failed; in-memory state kept", zap.String("collection", c.collection), zap.Error(err))
		return fmt.Errorf("%w: save %s: %w", internaltypes.ErrPersistence, c.collection, err)
	}
	c.dirty = false
	return nil
}
