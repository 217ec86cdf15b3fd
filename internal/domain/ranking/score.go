// Package ranking orders emergency facilities for the ranked list. The
// ordering rule is a strict precedence, not additive weighting: a pinned
// region suppresses every other criterion, then filters, then the distance
// sort, then the composite score.
package ranking

import (
	"github.com/wlstjr1123/carebridge/internal/domain/facility"
	"github.com/wlstjr1123/carebridge/internal/domain/preference"
)

// radiusNormKm normalizes distance into a [0, 1] score. Anything at or
// beyond this radius scores zero.
const radiusNormKm = 30.0

// DistanceScore maps a distance to [0, 1]. A missing distance scores zero
// rather than excluding the facility here; the pipeline applies the radius
// cut separately.
func DistanceScore(km *float64) float64 {
	if km == nil {
		return 0
	}
	s := 1 - *km/radiusNormKm
	if s < 0 {
		return 0
	}
	return s
}

func availabilityRate(available, total *int) float64 {
	if total == nil || *total <= 0 {
		return 0
	}
	avail := 0
	if available != nil {
		avail = *available
	}
	return float64(avail) / float64(*total)
}

// CongestionScore aggregates per-category availability into one [0, 1]
// figure. The delivery room has no capacity denominator and enters as a
// binary open flag.
func CongestionScore(st *facility.Status) float64 {
	if st == nil {
		return 0
	}

	general := availabilityRate(st.ERGeneralAvailable, st.ERGeneralTotal)
	child := availabilityRate(st.ERChildAvailable, st.ERChildTotal)
	negative := availabilityRate(st.NegativePressureAvailable, st.NegativePressureTotal)
	isolation := availabilityRate(st.IsolationGeneralAvailable, st.IsolationGeneralTotal)
	birth := 0.0
	if st.BirthOpen() {
		birth = 1.0
	}

	return general*0.45 + child*0.20 + negative*0.20 + isolation*0.10 + birth*0.05
}

// CompositeScore computes the full ranking score for one facility under the
// selected emergency type. Weights shift per type: equipment matters for
// stroke and traffic cases, proximity dominates cardiac cases, and delivery
// availability carries a large share for obstetric cases.
func CompositeScore(item *facility.WithStatus, etype string) float64 {
	distance := DistanceScore(item.DistanceKm)
	congestion := CongestionScore(item.Status)

	switch etype {
	case preference.TypeStroke, preference.TypeTraffic:
		equipment := 0.0
		if item.Status.HasEquipment("ct") || item.Status.HasEquipment("mri") {
			equipment = 1.0
		}
		return distance*0.60 + congestion*0.30 + equipment*0.10
	case preference.TypeCardio:
		return distance*0.80 + congestion*0.20
	case preference.TypeObstetrics:
		birth := 0.0
		if item.Status.BirthOpen() {
			birth = 1.0
		}
		return distance*0.40 + congestion*0.30 + birth*0.30
	default:
		return distance*0.60 + congestion*0.40
	}
}
