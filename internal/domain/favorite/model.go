// Package favorite implements per-user emergency room bookmarks with an
// optional free-text memo.
package favorite

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	FacilityID uuid.UUID `db:"facility_id" json:"facility_id"`
	Memo       string    `db:"memo" json:"memo"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Entry is one row of the favorites page: the bookmark plus the facility
// identity it points at, with the straight-line distance from the user's
// cached location when one is available.
type Entry struct {
	Favorite
	FacilityName string   `json:"facility_name"`
	Address      *string  `json:"address,omitempty"`
	Tel          *string  `json:"tel,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
}
