package facility

import (
	"time"

	"github.com/google/uuid"

	"github.com/wlstjr1123/carebridge/internal/domain/congestion"
)

// Facility maps to the er_facility table: one emergency-room institution.
// Owned by the open-data feed; request handling never mutates it.
type Facility struct {
	ID        uuid.UUID `db:"id" json:"id"`
	HPID      string    `db:"hpid" json:"hpid"`
	Name      string    `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Tel       *string   `db:"tel" json:"tel,omitempty"`
	Sido      string    `db:"sido" json:"sido"`
	Sigungu   string    `db:"sigungu" json:"sigungu"`
	Lat       *float64  `db:"lat" json:"lat,omitempty"`
	Lng       *float64  `db:"lng" json:"lng,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Status maps to the er_bed_status table: the latest bed-availability
// snapshot for one facility. Superseded wholesale on every feed sync.
type Status struct {
	ID         uuid.UUID `db:"id" json:"id"`
	FacilityID uuid.UUID `db:"facility_id" json:"facility_id"`

	ERGeneralAvailable *int `db:"er_general_available" json:"er_general_available"`
	ERGeneralTotal     *int `db:"er_general_total" json:"er_general_total"`

	ERChildAvailable *int `db:"er_child_available" json:"er_child_available"`
	ERChildTotal     *int `db:"er_child_total" json:"er_child_total"`

	BirthAvailable *int `db:"birth_available" json:"birth_available"`
	BirthTotal     *int `db:"birth_total" json:"birth_total"`

	NegativePressureAvailable *int `db:"negative_pressure_available" json:"negative_pressure_available"`
	NegativePressureTotal     *int `db:"negative_pressure_total" json:"negative_pressure_total"`

	IsolationGeneralAvailable *int `db:"isolation_general_available" json:"isolation_general_available"`
	IsolationGeneralTotal     *int `db:"isolation_general_total" json:"isolation_general_total"`

	IsolationCohortAvailable *int `db:"isolation_cohort_available" json:"isolation_cohort_available"`
	IsolationCohortTotal     *int `db:"isolation_cohort_total" json:"isolation_cohort_total"`

	HasCT         *bool `db:"has_ct" json:"has_ct"`
	HasMRI        *bool `db:"has_mri" json:"has_mri"`
	HasAngio      *bool `db:"has_angio" json:"has_angio"`
	HasVentilator *bool `db:"has_ventilator" json:"has_ventilator"`

	ReportedAt time.Time `db:"reported_at" json:"reported_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// BedStatus is the per-category view of a snapshot.
type BedStatus struct {
	Category  congestion.Category `json:"category"`
	Available *int                `json:"available"`
	Total     *int                `json:"total"`
}

// Beds expands the snapshot into per-category pairs in display order.
func (s *Status) Beds() []BedStatus {
	return []BedStatus{
		{congestion.CategoryERGeneral, s.ERGeneralAvailable, s.ERGeneralTotal},
		{congestion.CategoryERChild, s.ERChildAvailable, s.ERChildTotal},
		{congestion.CategoryBirth, s.BirthAvailable, s.BirthTotal},
		{congestion.CategoryNegativePressure, s.NegativePressureAvailable, s.NegativePressureTotal},
		{congestion.CategoryIsolationGeneral, s.IsolationGeneralAvailable, s.IsolationGeneralTotal},
		{congestion.CategoryIsolationCohort, s.IsolationCohortAvailable, s.IsolationCohortTotal},
	}
}

// HasAnyBedData reports whether at least one category carries a usable
// count. Facilities with nothing to show are dropped from the ranked list.
func (s *Status) HasAnyBedData() bool {
	if s == nil {
		return false
	}
	for _, b := range s.Beds() {
		if b.Total != nil && *b.Total != 0 {
			return true
		}
		if b.Available != nil && *b.Available != 0 {
			return true
		}
	}
	return false
}

// HasEquipment reports whether the facility currently offers the given
// equipment filter key. Delivery maps onto the delivery-room availability
// count; keys without a feed signal never match.
func (s *Status) HasEquipment(key string) bool {
	if s == nil {
		return false
	}
	switch key {
	case "ct":
		return s.HasCT != nil && *s.HasCT
	case "mri":
		return s.HasMRI != nil && *s.HasMRI
	case "angio":
		return s.HasAngio != nil && *s.HasAngio
	case "ventilator":
		return s.HasVentilator != nil && *s.HasVentilator
	case "delivery":
		return s.BirthAvailable != nil && *s.BirthAvailable > 0
	}
	return false
}

// BirthOpen reports whether the delivery room accepts patients right now.
func (s *Status) BirthOpen() bool {
	return s != nil && s.BirthAvailable != nil && *s.BirthAvailable > 0
}

// WithStatus pairs a facility with its latest snapshot plus the
// request-scoped values the pipeline computes on top.
type WithStatus struct {
	Facility
	Status     *Status  `json:"status,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	Score      float64  `json:"-"`
	IsFavorite bool     `json:"is_favorite"`
}
