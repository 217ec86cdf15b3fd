package preference

// RegionAll is the sentinel meaning "no restriction" for a region dimension.
const RegionAll = "전체"

// SortMode selects the list ordering when no stronger rule applies.
type SortMode string

const (
	SortDefault  SortMode = "default"
	SortDistance SortMode = "distance"
)

// Emergency types selectable in the filter modal. Mutually exclusive.
const (
	TypeStroke     = "stroke"
	TypeTraffic    = "traffic"
	TypeCardio     = "cardio"
	TypeObstetrics = "obstetrics"
)

// TypeEquipment maps each emergency type to the equipment set it pre-selects.
// Choosing a type substitutes the whole equipment set with this mapping; the
// user may deselect individual entries afterwards.
var TypeEquipment = map[string][]string{
	TypeStroke:     {"ct", "mri", "angio"},
	TypeTraffic:    {"ct", "angio"},
	TypeCardio:     {"angio", "ventilator"},
	TypeObstetrics: {"delivery"},
}

// TypeLabels are the fixed Korean display names for emergency types.
var TypeLabels = map[string]string{
	TypeStroke:     "뇌출혈/뇌경색",
	TypeTraffic:    "교통사고",
	TypeCardio:     "심근경색",
	TypeObstetrics: "산모/분만",
}

// EquipmentLabels are the fixed display names for equipment filter chips.
var EquipmentLabels = map[string]string{
	"ct":         "CT",
	"mri":        "MRI",
	"angio":      "Angio",
	"icu":        "중환자실",
	"surgery":    "수술실",
	"delivery":   "분만실",
	"ventilator": "인공호흡기",
}

// Dimension names a removable slice of the preference state.
type Dimension string

const (
	DimRegion    Dimension = "region"
	DimType      Dimension = "etype"
	DimEquipment Dimension = "equipment"
	DimSort      Dimension = "sort"
)

// Preference is the session-scoped selection of region, emergency type,
// equipment filters, and sort mode.
type Preference struct {
	Sido      string          `json:"sido"`
	Sigungu   string          `json:"sigungu"`
	Etype     string          `json:"etype"`
	Equipment map[string]bool `json:"equipment"`
	Sort      SortMode        `json:"sort"`
}

// New returns an empty preference (the post-reset state).
func New() *Preference {
	return &Preference{Equipment: map[string]bool{}, Sort: SortDefault}
}

// Clone returns a deep copy safe to hand to other goroutines.
func (p *Preference) Clone() *Preference {
	cp := *p
	cp.Equipment = make(map[string]bool, len(p.Equipment))
	for k, v := range p.Equipment {
		cp.Equipment[k] = v
	}
	return &cp
}

// SetRegion selects a sido and optionally a sigungu. Moving to a different
// sido without naming a sigungu falls back to the whole-province sentinel.
func (p *Preference) SetRegion(sido, sigungu string) {
	changed := sido != p.Sido
	p.Sido = sido
	switch {
	case sigungu != "":
		p.Sigungu = sigungu
	case changed:
		p.Sigungu = RegionAll
	}
}

// SetType selects an emergency type. A non-empty type replaces the entire
// equipment set with its mapping; clearing the type leaves manually adjusted
// equipment untouched.
func (p *Preference) SetType(etype string) {
	if etype != "" {
		eq := make(map[string]bool)
		for _, key := range TypeEquipment[etype] {
			eq[key] = true
		}
		p.Equipment = eq
	}
	p.Etype = etype
}

// ToggleEquipment flips membership of one equipment key.
func (p *Preference) ToggleEquipment(key string) {
	if p.Equipment == nil {
		p.Equipment = map[string]bool{}
	}
	if p.Equipment[key] {
		delete(p.Equipment, key)
	} else {
		p.Equipment[key] = true
	}
}

// SetSort selects the sort mode.
func (p *Preference) SetSort(mode SortMode) {
	if mode == "" {
		mode = SortDefault
	}
	p.Sort = mode
}

// Reset clears all four dimensions in one step.
func (p *Preference) Reset() {
	p.Sido = ""
	p.Sigungu = ""
	p.Etype = ""
	p.Equipment = map[string]bool{}
	p.Sort = SortDefault
}

// RemoveTag clears a single removable filter chip: one equipment key, the
// whole emergency type, the whole region, or the sort mode. Unlike Reset it
// never touches the other dimensions.
func (p *Preference) RemoveTag(dim Dimension, key string) {
	switch dim {
	case DimRegion:
		p.Sido = ""
		p.Sigungu = ""
	case DimType:
		p.Etype = ""
	case DimEquipment:
		delete(p.Equipment, key)
	case DimSort:
		p.Sort = SortDefault
	}
}

// HasRegion reports whether a concrete sido is pinned.
func (p *Preference) HasRegion() bool {
	return p.Sido != "" && p.Sido != RegionAll
}

// HasSigungu reports whether a concrete district is pinned as well.
func (p *Preference) HasSigungu() bool {
	return p.HasRegion() && p.Sigungu != "" && p.Sigungu != RegionAll
}

// HasFilter reports whether an emergency type or any equipment is selected.
func (p *Preference) HasFilter() bool {
	return p.Etype != "" || len(p.Equipment) > 0
}

// SelectedEquipment returns the equipment keys in deterministic order.
func (p *Preference) SelectedEquipment() []string {
	keys := make([]string, 0, len(p.Equipment))
	for _, key := range []string{"ct", "mri", "angio", "icu", "surgery", "delivery", "ventilator"} {
		if p.Equipment[key] {
			keys = append(keys, key)
		}
	}
	return keys
}

// Equal reports whether two preferences describe the same selection.
func (p *Preference) Equal(o *Preference) bool {
	if p.Sido != o.Sido || p.Sigungu != o.Sigungu || p.Etype != o.Etype || p.Sort != o.Sort {
		return false
	}
	if len(p.Equipment) != len(o.Equipment) {
		return false
	}
	for k, v := range p.Equipment {
		if o.Equipment[k] != v {
			return false
		}
	}
	return true
}
