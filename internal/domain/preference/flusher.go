package preference

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

type flushKey struct {
	sessionID string
	dim       Dimension
}

type flight struct {
	next func(context.Context) error // latest enqueued write, nil when drained
}

// flusher runs preference persistence off the request path with at most one
// write in flight per (session, dimension). Writes enqueued while one is
// running coalesce: only the latest state is persisted, which keeps Apply
// idempotent under rapid repeated clicks.
type flusher struct {
	logger zerolog.Logger

	mu      sync.Mutex
	pending map[flushKey]*flight
	wg      sync.WaitGroup
}

func newFlusher(logger zerolog.Logger) *flusher {
	return &flusher{
		logger:  logger,
		pending: make(map[flushKey]*flight),
	}
}

// Enqueue schedules fn for the given session dimension. If a write for the
// same key is already running, fn replaces any not-yet-started successor.
func (f *flusher) Enqueue(sessionID string, dim Dimension, fn func(context.Context) error) {
	key := flushKey{sessionID: sessionID, dim: dim}

	f.mu.Lock()
	if fl, ok := f.pending[key]; ok {
		fl.next = fn
		f.mu.Unlock()
		return
	}
	fl := &flight{next: fn}
	f.pending[key] = fl
	f.wg.Add(1)
	f.mu.Unlock()

	go f.run(key, fl)
}

func (f *flusher) run(key flushKey, fl *flight) {
	defer f.wg.Done()
	for {
		f.mu.Lock()
		fn := fl.next
		if fn == nil {
			delete(f.pending, key)
			f.mu.Unlock()
			return
		}
		fl.next = nil
		f.mu.Unlock()

		if err := fn(context.Background()); err != nil {
			// Persistence is best-effort: the in-memory state remains the
			// source of truth for this page view.
			f.logger.Warn().Err(err).
				Str("session_id", key.sessionID).
				Str("dimension", string(key.dim)).
				Msg("preference persist failed")
		}
	}
}

// Flush blocks until every write enqueued so far has completed, or the
// context is cancelled. Callers use it when correctness, not just
// responsiveness, depends on the persisted state.
func (f *flusher) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
