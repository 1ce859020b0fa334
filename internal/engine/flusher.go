package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Flusher writes dirty engine state on a ticker. It is what makes
// PolicyDeferred durable without a write per mutation.
type Flusher struct {
	Engine   *Engine
	Interval time.Duration
	Log      *zap.Logger
}

func (f *Flusher) Run(ctx context.Context) error {
	if f.Log == nil {
		f.Log = zap.NewNop()
	}
	t := time.NewTicker(f.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			// final flush with a fresh deadline; ctx is already done
			fctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := f.Engine.Flush(fctx); err != nil {
				f.Log.Error("flusher: final flush failed", zap.Error(err))
			}
			return ctx.Err()
		case <-t.C:
			f.tick(ctx)
		}
	}
}

func (f *Flusher) tick(ctx context.Context) {
	if err := f.Engine.Flush(ctx); err != nil {
		f.Log.Warn("flusher: flush failed; will retry", zap.Error(err))
	}
}
