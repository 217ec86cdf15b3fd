package favorite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wlstjr1123/carebridge/internal/platform/location"
	"github.com/wlstjr1123/carebridge/pkg/geo"
)

type Service struct {
	repo     Repository
	location *location.Cache
}

func NewService(repo Repository, loc *location.Cache) *Service {
	return &Service{repo: repo, location: loc}
}

// Toggle flips the bookmark for one facility and reports the resulting
// state.
func (s *Service) Toggle(ctx context.Context, userID, facilityID uuid.UUID) (bool, error) {
	existing, err := s.repo.Find(ctx, userID, facilityID)
	if err != nil {
		return false, fmt.Errorf("favorite lookup: %w", err)
	}

	if existing != nil {
		if err := s.repo.Delete(ctx, userID, existing.ID); err != nil {
			return false, fmt.Errorf("favorite delete: %w", err)
		}
		return false, nil
	}

	f := &Favorite{UserID: userID, FacilityID: facilityID}
	if err := s.repo.Create(ctx, f); err != nil {
		return false, fmt.Errorf("favorite create: %w", err)
	}
	return true, nil
}

// List returns the user's bookmarks, newest first, with the straight-line
// distance from the session's cached location fix filled in where both
// coordinates are known.
func (s *Service) List(ctx context.Context, userID uuid.UUID, sessionID string) ([]*Entry, error) {
	entries, err := s.repo.ListEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("favorite list: %w", err)
	}

	var fix *location.Fix
	if s.location != nil && sessionID != "" {
		fix = s.location.Cached(ctx, sessionID)
	}
	if fix != nil {
		for _, e := range entries {
			if e.Lat == nil || e.Lng == nil {
				continue
			}
			km := geo.HaversineKm(fix.Lat, fix.Lng, *e.Lat, *e.Lng)
			e.DistanceKm = &km
		}
	}
	return entries, nil
}

// UpdateMemo replaces the memo on one bookmark. Ownership is enforced in
// the store; a foreign fav_id is a silent no-op.
func (s *Service) UpdateMemo(ctx context.Context, userID, favID uuid.UUID, memo string) error {
	return s.repo.UpdateMemo(ctx, userID, favID, memo)
}

// Remove deletes one bookmark by its ID.
func (s *Service) Remove(ctx context.Context, userID, favID uuid.UUID) error {
	return s.repo.Delete(ctx, userID, favID)
}

// FacilityIDs returns the user's bookmarked facility set for flagging the
// ranked list.
func (s *Service) FacilityIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	return s.repo.FacilityIDs(ctx, userID)
}
