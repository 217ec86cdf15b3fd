package preference

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Service owns the in-memory preference state for every live session and
// writes changes through to the session repository. Mutations apply to memory
// synchronously in call order; persistence is fire-and-forget per dimension
// (see flusher). On a persistence failure the in-memory state is kept as the
// source of truth for the current page view.
type Service struct {
	repo   Repository
	guard  *ResetGuard
	logger zerolog.Logger

	mu    sync.Mutex
	prefs map[string]*Preference

	flush *flusher
}

func NewService(repo Repository, guard *ResetGuard, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		guard:  guard,
		logger: logger,
		prefs:  make(map[string]*Preference),
		flush:  newFlusher(logger),
	}
}

// Get returns a snapshot of the session's preference, loading the persisted
// state on first touch. A load failure degrades to the empty preference.
func (s *Service) Get(ctx context.Context, sessionID string) *Preference {
	return s.current(ctx, sessionID).Clone()
}

func (s *Service) current(ctx context.Context, sessionID string) *Preference {
	s.mu.Lock()
	if p, ok := s.prefs[sessionID]; ok {
		defer s.mu.Unlock()
		return p
	}
	s.mu.Unlock()

	loaded, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("preference load failed")
		loaded = New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.prefs[sessionID]; ok {
		return p
	}
	s.prefs[sessionID] = loaded
	return loaded
}

// mutate applies fn to the session's preference under the lock and returns a
// snapshot of the result.
func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*Preference)) *Preference {
	p := s.current(ctx, sessionID)
	s.mu.Lock()
	fn(p)
	snap := p.Clone()
	s.mu.Unlock()
	return snap
}

// SetRegion pins a region and persists the region dimension.
func (s *Service) SetRegion(ctx context.Context, sessionID, sido, sigungu string) *Preference {
	snap := s.mutate(ctx, sessionID, func(p *Preference) {
		p.SetRegion(sido, sigungu)
	})
	s.flush.Enqueue(sessionID, DimRegion, func(ctx context.Context) error {
		return s.repo.SaveRegion(ctx, sessionID, snap.Sido, snap.Sigungu)
	})
	return snap
}

// SetFilter replaces the emergency type and equipment set together, the way
// the filter modal applies them. Selecting a filter releases any explicit
// sort mode: the two refinements are alternatives, not a combination.
func (s *Service) SetFilter(ctx context.Context, sessionID, etype string, equipment map[string]bool) *Preference {
	snap := s.mutate(ctx, sessionID, func(p *Preference) {
		p.Etype = etype
		if equipment != nil {
			eq := make(map[string]bool, len(equipment))
			for k, v := range equipment {
				if v {
					eq[k] = true
				}
			}
			p.Equipment = eq
		} else {
			p.SetType(etype)
		}
		p.Sort = SortDefault
	})
	s.persistFilter(sessionID, snap)
	s.persistSort(sessionID, snap)
	return snap
}

// SetType selects an emergency type, substituting its equipment mapping.
func (s *Service) SetType(ctx context.Context, sessionID, etype string) *Preference {
	snap := s.mutate(ctx, sessionID, func(p *Preference) {
		p.SetType(etype)
	})
	s.persistFilter(sessionID, snap)
	return snap
}

// ToggleEquipment flips one equipment chip.
func (s *Service) ToggleEquipment(ctx context.Context, sessionID, key string) *Preference {
	snap := s.mutate(ctx, sessionID, func(p *Preference) {
		p.ToggleEquipment(key)
	})
	s.persistFilter(sessionID, snap)
	return snap
}

// SetSort selects a sort mode. Choosing an explicit sort releases the filter
// dimensions, mirroring the filter/sort mutual exclusion of SetFilter.
func (s *Service) SetSort(ctx context.Context, sessionID string, mode SortMode) *Preference {
	snap := s.mutate(ctx, sessionID, func(p *Preference) {
		p.SetSort(mode)
		p.Etype = ""
		p.Equipment = map[string]bool{}
	})
	s.persistSort(sessionID, snap)
	s.persistFilter(sessionID, snap)
	return snap
}

// RemoveTag clears one filter chip and persists only its dimension.
func (s *Service) RemoveTag(ctx context.Context, sessionID string, dim Dimension, key string) *Preference {
	snap := s.mutate(ctx, sessionID, func(p *Preference) {
		p.RemoveTag(dim, key)
	})
	switch dim {
	case DimRegion:
		s.flush.Enqueue(sessionID, DimRegion, func(ctx context.Context) error {
			return s.repo.SaveRegion(ctx, sessionID, snap.Sido, snap.Sigungu)
		})
	case DimType, DimEquipment:
		s.persistFilter(sessionID, snap)
	case DimSort:
		s.persistSort(sessionID, snap)
	}
	return snap
}

// Reset clears all four dimensions atomically and persists the cleared
// state. The cleared values go out through every dimension key so they land
// after, and supersede, any write still in flight on that dimension; a bare
// Clear on one key would race a concurrent SaveFilter or SaveSort and leave
// the stale dimension persisted.
func (s *Service) Reset(ctx context.Context, sessionID string) *Preference {
	snap := s.mutate(ctx, sessionID, func(p *Preference) {
		p.Reset()
	})
	s.flush.Enqueue(sessionID, DimRegion, func(ctx context.Context) error {
		return s.repo.Clear(ctx, sessionID)
	})
	s.persistFilter(sessionID, snap)
	s.persistSort(sessionID, snap)
	return snap
}

// Apply persists the full current state. Calling it twice with unchanged
// state writes the same values twice, leaving the server state identical.
func (s *Service) Apply(ctx context.Context, sessionID string) *Preference {
	snap := s.Get(ctx, sessionID)
	s.flush.Enqueue(sessionID, DimRegion, func(ctx context.Context) error {
		return s.repo.SaveRegion(ctx, sessionID, snap.Sido, snap.Sigungu)
	})
	s.persistFilter(sessionID, snap)
	s.persistSort(sessionID, snap)
	return snap
}

// Flush waits for all pending persistence writes. Intended for callers whose
// next step depends on the stored state rather than the in-memory view.
func (s *Service) Flush(ctx context.Context) error {
	return s.flush.Flush(ctx)
}

// Guard exposes the reset state machine.
func (s *Service) Guard() *ResetGuard {
	return s.guard
}

// EnterPage applies the reset machine to one page entry, clearing the
// preferences when the guard calls for it.
func (s *Service) EnterPage(ctx context.Context, sessionID string, nav Navigation, internalReferrer bool) (bool, error) {
	reset, err := s.guard.ShouldReset(ctx, sessionID, nav, internalReferrer)
	if err != nil {
		return false, err
	}
	if reset {
		s.Reset(ctx, sessionID)
	}
	return reset, nil
}

func (s *Service) persistFilter(sessionID string, snap *Preference) {
	s.flush.Enqueue(sessionID, DimType, func(ctx context.Context) error {
		return s.repo.SaveFilter(ctx, sessionID, snap.Etype, snap.Equipment)
	})
}

func (s *Service) persistSort(sessionID string, snap *Preference) {
	s.flush.Enqueue(sessionID, DimSort, func(ctx context.Context) error {
		return s.repo.SaveSort(ctx, sessionID, snap.Sort)
	})
}
