package ranking

import (
	"math"
	"sort"

	"github.com/wlstjr1123/carebridge/internal/domain/facility"
	"github.com/wlstjr1123/carebridge/internal/domain/preference"
)

// Rank orders facilities under the current preference and reports which
// rule governed. Exactly one rule applies:
//
//  1. Region pinned: alphabetic by facility name. Distance and availability
//     never reorder a pinned region.
//  2. Filter active: restrict to facilities matching any selected equipment,
//     then order by the composite score, best first.
//  3. Distance sort: nearest first; facilities without a distance sink to
//     the bottom.
//  4. Default: composite score, best first.
//
// The input slice is not modified; scores are written onto the returned
// items.
func Rank(items []*facility.WithStatus, pref *preference.Preference) ([]*facility.WithStatus, ExplanationKey) {
	if pref == nil {
		pref = preference.New()
	}

	if pref.HasRegion() {
		out := append([]*facility.WithStatus(nil), items...)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Name < out[j].Name
		})
		return out, ExplainRegionFixed
	}

	if pref.HasFilter() {
		out := restrictByEquipment(items, pref.SelectedEquipment())
		scoreAndSort(out, pref.Etype)
		return out, ExplainFiltered
	}

	if pref.Sort == preference.SortDistance {
		out := append([]*facility.WithStatus(nil), items...)
		sort.SliceStable(out, func(i, j int) bool {
			return distanceOrInf(out[i]) < distanceOrInf(out[j])
		})
		return out, ExplainDistance
	}

	out := append([]*facility.WithStatus(nil), items...)
	scoreAndSort(out, "")
	return out, ExplainDefault
}

// restrictByEquipment keeps facilities matching at least one selected key.
// An empty selection keeps everything; the filter rule may be active through
// an emergency type alone.
func restrictByEquipment(items []*facility.WithStatus, keys []string) []*facility.WithStatus {
	if len(keys) == 0 {
		return append([]*facility.WithStatus(nil), items...)
	}
	var out []*facility.WithStatus
	for _, item := range items {
		for _, key := range keys {
			if item.Status.HasEquipment(key) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

func scoreAndSort(items []*facility.WithStatus, etype string) {
	for _, item := range items {
		item.Score = CompositeScore(item, etype)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

func distanceOrInf(item *facility.WithStatus) float64 {
	if item.DistanceKm == nil {
		return math.Inf(1)
	}
	return *item.DistanceKm
}
