// Package location caches the user's geolocation fix in the session with a
// time-to-live. Fixes reach the server through request headers or the
// save-location endpoint, never through query parameters, so shared URLs stay
// free of coordinates.
package location

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wlstjr1123/carebridge/internal/platform/session"
)

// TTL is the maximum age of a cached fix before it must be re-acquired.
const TTL = 5 * time.Minute

// Session keys holding the cached fix. Part of the front-end contract.
const (
	KeyLat = "user_lat"
	KeyLng = "user_lng"
	KeyTS  = "user_location_ts"
)

// Fix is a single geolocation reading.
type Fix struct {
	Lat        float64
	Lng        float64
	CapturedAt time.Time
}

// Expired reports whether the fix is older than maxAge.
func (f *Fix) Expired(maxAge time.Duration, now time.Time) bool {
	return now.Sub(f.CapturedAt) > maxAge
}

// Provider acquires a fresh fix. The canonical implementation is the browser
// geolocation API on the far side of the save-location endpoint; server-side
// providers exist for tests and for deployments with a positioning service.
type Provider interface {
	CurrentPosition(ctx context.Context) (*Fix, error)
}

type inflight struct {
	done chan struct{}
	fix  *Fix
}

// Cache is the TTL-checked session-scoped fix cache. Concurrent GetFix calls
// for the same session share one provider invocation.
type Cache struct {
	store    session.Store
	provider Provider
	logger   zerolog.Logger
	now      func() time.Time

	mu    sync.Mutex
	calls map[string]*inflight
}

func NewCache(store session.Store, provider Provider, logger zerolog.Logger) *Cache {
	return &Cache{
		store:    store,
		provider: provider,
		logger:   logger,
		now:      time.Now,
		calls:    make(map[string]*inflight),
	}
}

// GetFix returns the session's location fix, re-acquiring it from the
// provider when the cached one is absent or older than maxAge. Acquisition
// failure is logged and yields nil; a stale cached fix is left in place so a
// later call may still refresh it. Callers must treat nil as "proceed
// without location".
func (c *Cache) GetFix(ctx context.Context, sessionID string, maxAge time.Duration) *Fix {
	if fix := c.Cached(ctx, sessionID); fix != nil && !fix.Expired(maxAge, c.now()) {
		return fix
	}

	if c.provider == nil {
		return nil
	}

	c.mu.Lock()
	if call, ok := c.calls[sessionID]; ok {
		// Another caller is already acquiring; wait for its result.
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.fix
		case <-ctx.Done():
			return nil
		}
	}
	call := &inflight{done: make(chan struct{})}
	c.calls[sessionID] = call
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.calls, sessionID)
		c.mu.Unlock()
		close(call.done)
	}()

	fix, err := c.provider.CurrentPosition(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Str("session_id", sessionID).Msg("geolocation acquisition failed")
		return nil
	}
	if fix.CapturedAt.IsZero() {
		fix.CapturedAt = c.now()
	}

	c.SaveFix(ctx, sessionID, fix)
	call.fix = fix
	return fix
}

// Cached returns the stored fix without any refresh, or nil.
func (c *Cache) Cached(ctx context.Context, sessionID string) *Fix {
	latStr, err := c.store.Get(ctx, sessionID, KeyLat)
	if err != nil {
		return nil
	}
	lngStr, err := c.store.Get(ctx, sessionID, KeyLng)
	if err != nil {
		return nil
	}
	tsStr, err := c.store.Get(ctx, sessionID, KeyTS)
	if err != nil {
		return nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil
	}
	ms, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return nil
	}

	return &Fix{Lat: lat, Lng: lng, CapturedAt: time.UnixMilli(ms)}
}

// SaveFix mirrors a fix into the session store. Write failures are logged
// only; the caller already holds the fix and the next page load will retry.
func (c *Cache) SaveFix(ctx context.Context, sessionID string, fix *Fix) {
	capturedAt := fix.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = c.now()
	}

	lat := strconv.FormatFloat(fix.Lat, 'f', -1, 64)
	lng := strconv.FormatFloat(fix.Lng, 'f', -1, 64)
	ts := strconv.FormatInt(capturedAt.UnixMilli(), 10)

	if err := c.store.Set(ctx, sessionID, KeyLat, lat, 0); err != nil {
		c.logger.Warn().Err(err).Msg("store location lat failed")
		return
	}
	if err := c.store.Set(ctx, sessionID, KeyLng, lng, 0); err != nil {
		c.logger.Warn().Err(err).Msg("store location lng failed")
		return
	}
	if err := c.store.Set(ctx, sessionID, KeyTS, ts, 0); err != nil {
		c.logger.Warn().Err(err).Msg("store location ts failed")
	}
}
