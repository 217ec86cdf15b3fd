package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wlstjr1123/carebridge/internal/domain/facility"
	"github.com/wlstjr1123/carebridge/internal/domain/favorite"
	"github.com/wlstjr1123/carebridge/internal/domain/preference"
	"github.com/wlstjr1123/carebridge/internal/domain/ranking"
	"github.com/wlstjr1123/carebridge/internal/platform/location"
	"github.com/wlstjr1123/carebridge/pkg/geo"
)

// radiusCutKm drops facilities beyond this straight-line distance when the
// user has a location fix and no pinned region.
const radiusCutKm = 30.0

// View is the render-ready ranked list for one session.
type View struct {
	Results        []*facility.WithStatus `json:"results"`
	ExplanationKey ranking.ExplanationKey `json:"explanation_key"`
	Criteria       string                 `json:"criteria"`
	Tooltip        string                 `json:"tooltip"`
	RegionSummary  string                 `json:"region_summary"`
	Preference     *preference.Preference `json:"preference"`

	seq uint64
}

type Service struct {
	facilities *facility.Service
	prefs      *preference.Service
	loc        *location.Cache
	favorites  *favorite.Service
	seq        *Sequencer
	logger     zerolog.Logger

	mu        sync.Mutex
	lastViews map[string]*View
}

// NewService wires the pipeline. The favorites service may be nil when the
// deployment has no account system.
func NewService(facilities *facility.Service, prefs *preference.Service, loc *location.Cache, favorites *favorite.Service, logger zerolog.Logger) *Service {
	return &Service{
		facilities: facilities,
		prefs:      prefs,
		loc:        loc,
		favorites:  favorites,
		seq:        NewSequencer(),
		logger:     logger.With().Str("component", "pipeline").Logger(),
		lastViews:  make(map[string]*View),
	}
}

// Build produces the ranked view for one session. A pinned region turns off
// every proximity feature: no fix lookup, no distances, no radius cut, and
// no type gates; inclusion in the region is the only filter. A non-nil
// headerLoc is a fix the caller carried on the request and wins over the
// session-cached one.
func (s *Service) Build(ctx context.Context, sessionID string, userID *uuid.UUID, headerLoc *location.Fix) (*View, error) {
	seq := s.seq.Next(sessionID)
	pref := s.prefs.Get(ctx, sessionID)

	var filter facility.RegionFilter
	if pref.HasRegion() {
		filter.Sido = pref.Sido
		if pref.HasSigungu() {
			filter.Sigungu = pref.Sigungu
		}
	}

	items, err := s.facilities.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("facility list: %w", err)
	}

	var fix *location.Fix
	if !pref.HasRegion() {
		fix = headerLoc
		if fix == nil {
			fix = s.loc.GetFix(ctx, sessionID, location.TTL)
		}
	}

	kept := make([]*facility.WithStatus, 0, len(items))
	for _, item := range items {
		if !item.Status.HasAnyBedData() {
			continue
		}

		if !pref.HasRegion() {
			if fix != nil && item.Lat != nil && item.Lng != nil {
				km := geo.HaversineKm(fix.Lat, fix.Lng, *item.Lat, *item.Lng)
				item.DistanceKm = &km
			}
			if fix != nil && (item.DistanceKm == nil || *item.DistanceKm > radiusCutKm) {
				continue
			}
			if !passesTypeGate(item.Status, pref.Etype) {
				continue
			}
		}
		kept = append(kept, item)
	}

	ordered, key := ranking.Rank(kept, pref)

	if s.favorites != nil && userID != nil {
		favIDs, err := s.favorites.FacilityIDs(ctx, *userID)
		if err != nil {
			s.logger.Warn().Err(err).Msg("favorite lookup failed")
		} else {
			for _, item := range ordered {
				item.IsFavorite = favIDs[item.ID]
			}
		}
	}

	view := &View{
		Results:        ordered,
		ExplanationKey: key,
		Criteria:       ranking.CriteriaText[key],
		Tooltip:        ranking.TooltipText[key],
		RegionSummary:  regionSummary(pref),
		Preference:     pref,
		seq:            seq,
	}

	if s.seq.Commit(sessionID, seq) {
		s.mu.Lock()
		s.lastViews[sessionID] = view
		s.mu.Unlock()
	} else {
		s.logger.Debug().Str("session", sessionID).Uint64("seq", seq).Msg("stale build discarded")
	}
	return view, nil
}

// LastView returns the most recently committed view for a session, nil when
// none has been built yet.
func (s *Service) LastView(sessionID string) *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastViews[sessionID]
}

// SaveLocation mirrors a browser-acquired fix into the session.
func (s *Service) SaveLocation(ctx context.Context, sessionID string, fix *location.Fix) {
	s.loc.SaveFix(ctx, sessionID, fix)
}

// passesTypeGate applies the hard requirement of the selected emergency
// type. Cardiac cases rank on proximity alone and gate nothing.
func passesTypeGate(st *facility.Status, etype string) bool {
	switch etype {
	case preference.TypeStroke, preference.TypeTraffic:
		return st.HasEquipment("ct") || st.HasEquipment("mri")
	case preference.TypeObstetrics:
		return st.BirthOpen()
	default:
		return true
	}
}

func regionSummary(pref *preference.Preference) string {
	if !pref.HasRegion() {
		return "전체 지역"
	}
	if !pref.HasSigungu() {
		return pref.Sido + " 전체"
	}
	return pref.Sido + " " + pref.Sigungu
}
