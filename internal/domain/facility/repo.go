package facility

import (
	"context"

	"github.com/google/uuid"
)

// RegionFilter restricts listings to a province and optionally a district.
// Empty or 전체 values mean no restriction on that level.
type RegionFilter struct {
	Sido    string
	Sigungu string
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Facility, error)
	GetByHPID(ctx context.Context, hpid string) (*Facility, error)
	Upsert(ctx context.Context, f *Facility) error
	ListWithLatestStatus(ctx context.Context, filter RegionFilter) ([]*WithStatus, error)
	UpsertStatus(ctx context.Context, s *Status) error
	LatestStatus(ctx context.Context, facilityID uuid.UUID) (*Status, error)
	SidoList(ctx context.Context) ([]string, error)
	SigunguList(ctx context.Context, sido string) ([]string, error)
	RegionDict(ctx context.Context) (map[string][]string, error)
}
