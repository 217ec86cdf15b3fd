package favorite

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Find returns the user's bookmark for a facility, nil when absent.
	Find(ctx context.Context, userID, facilityID uuid.UUID) (*Favorite, error)
	Create(ctx context.Context, f *Favorite) error
	Delete(ctx context.Context, userID, favID uuid.UUID) error
	UpdateMemo(ctx context.Context, userID, favID uuid.UUID, memo string) error
	// ListEntries returns the user's bookmarks joined to facility identity,
	// newest first.
	ListEntries(ctx context.Context, userID uuid.UUID) ([]*Entry, error)
	// FacilityIDs returns the set of facility IDs the user has bookmarked.
	FacilityIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
}
