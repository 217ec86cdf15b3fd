package facility

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wlstjr1123/carebridge/internal/domain/congestion"
)

const (
	regionDictKey = "er:region_dict"
	regionDictTTL = 6 * time.Hour
)

// Detail is the modal payload for a single facility: identity, raw bed
// counts, and the render-ready status block per category.
type Detail struct {
	Facility   *Facility                                   `json:"facility"`
	Beds       []BedStatus                                 `json:"beds"`
	StatusUI   map[congestion.Category]congestion.StatusUI `json:"status_ui"`
	Equipment  []string                                    `json:"equipment"`
	ReportedAt *time.Time                                  `json:"reported_at,omitempty"`
}

// Service exposes facility reads. The region dictionary is served from
// Redis between database refreshes because it only changes when the
// facility sync runs.
type Service struct {
	repo  Repository
	cache *redis.Client
}

func NewService(repo Repository, cache *redis.Client) *Service {
	return &Service{repo: repo, cache: cache}
}

// List returns facilities with their latest snapshot, optionally narrowed
// to a region. Alias forms of the sido name are matched transparently.
func (s *Service) List(ctx context.Context, filter RegionFilter) ([]*WithStatus, error) {
	return s.repo.ListWithLatestStatus(ctx, filter)
}

// Get builds the detail payload for one facility. A facility without a
// snapshot still resolves; every category then renders as unknown.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	st, err := s.repo.LatestStatus(ctx, id)
	if err != nil {
		st = nil
	}

	d := &Detail{
		Facility: f,
		StatusUI: make(map[congestion.Category]congestion.StatusUI),
	}
	if st != nil {
		d.Beds = st.Beds()
		if !st.ReportedAt.IsZero() {
			t := st.ReportedAt
			d.ReportedAt = &t
		}
		for _, key := range []string{"ct", "mri", "angio", "ventilator", "delivery"} {
			if st.HasEquipment(key) {
				d.Equipment = append(d.Equipment, key)
			}
		}
	} else {
		d.Beds = (&Status{}).Beds()
	}
	for _, b := range d.Beds {
		d.StatusUI[b.Category] = congestion.UI(b.Category, b.Available, b.Total)
	}
	return d, nil
}

// Sigungu lists the districts under one sido, empty when the sido is
// unknown.
func (s *Service) Sigungu(ctx context.Context, sido string) ([]string, error) {
	dict, err := s.Regions(ctx)
	if err != nil {
		return nil, err
	}
	return dict[NormalizeSido(sido)], nil
}

// Regions returns the sido to sigungu dictionary that drives the region
// picker. Served from Redis when fresh; a cache failure falls through to
// the database so the picker never goes blank.
func (s *Service) Regions(ctx context.Context) (map[string][]string, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, regionDictKey).Result()
		if err == nil {
			var dict map[string][]string
			if jsonErr := json.Unmarshal([]byte(raw), &dict); jsonErr == nil {
				return dict, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Msg("region dict cache read failed")
		}
	}

	dict, err := s.repo.RegionDict(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(dict); err == nil {
			if err := s.cache.Set(ctx, regionDictKey, raw, regionDictTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("region dict cache write failed")
			}
		}
	}
	return dict, nil
}
