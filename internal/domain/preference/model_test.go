package preference

import (
	"reflect"
	"testing"
)

func TestSetRegionDefaultsSigungu(t *testing.T) {
	p := New()

	p.SetRegion("서울특별시", "")
	if p.Sido != "서울특별시" || p.Sigungu != RegionAll {
		t.Errorf("got %q/%q, want 서울특별시/전체", p.Sido, p.Sigungu)
	}

	p.SetRegion("서울특별시", "강남구")
	if p.Sigungu != "강남구" {
		t.Errorf("explicit sigungu: got %q, want 강남구", p.Sigungu)
	}

	// Same sido without sigungu keeps the pinned district.
	p.SetRegion("서울특별시", "")
	if p.Sigungu != "강남구" {
		t.Errorf("unchanged sido dropped sigungu: got %q", p.Sigungu)
	}

	// New sido resets the district.
	p.SetRegion("부산광역시", "")
	if p.Sigungu != RegionAll {
		t.Errorf("new sido: got %q, want 전체", p.Sigungu)
	}
}

func TestSetTypeSubstitutesEquipment(t *testing.T) {
	p := New()
	p.ToggleEquipment("icu")

	p.SetType(TypeStroke)
	want := map[string]bool{"ct": true, "mri": true, "angio": true}
	if !reflect.DeepEqual(p.Equipment, want) {
		t.Errorf("stroke equipment: got %v, want %v", p.Equipment, want)
	}

	// Deselect one entry, then clear the type: equipment stays adjusted.
	p.ToggleEquipment("mri")
	p.SetType("")
	want = map[string]bool{"ct": true, "angio": true}
	if !reflect.DeepEqual(p.Equipment, want) {
		t.Errorf("after clearing type: got %v, want %v", p.Equipment, want)
	}
	if p.Etype != "" {
		t.Errorf("etype not cleared: %q", p.Etype)
	}
}

func TestTypeEquipmentTable(t *testing.T) {
	cases := map[string][]string{
		TypeStroke:     {"ct", "mri", "angio"},
		TypeTraffic:    {"ct", "angio"},
		TypeCardio:     {"angio", "ventilator"},
		TypeObstetrics: {"delivery"},
	}
	for etype, want := range cases {
		p := New()
		p.SetType(etype)
		if len(p.Equipment) != len(want) {
			t.Errorf("%s: %d entries, want %d", etype, len(p.Equipment), len(want))
		}
		for _, key := range want {
			if !p.Equipment[key] {
				t.Errorf("%s: missing %s", etype, key)
			}
		}
	}
}

func TestResetClearsEverything(t *testing.T) {
	p := New()
	p.SetRegion("서울특별시", "강남구")
	p.SetType(TypeCardio)
	p.SetSort(SortDistance)

	p.Reset()

	if p.Sido != "" || p.Sigungu != "" || p.Etype != "" || len(p.Equipment) != 0 || p.Sort != SortDefault {
		t.Errorf("reset left state behind: %+v", p)
	}
}

func TestRemoveTagIsPartial(t *testing.T) {
	build := func() *Preference {
		p := New()
		p.SetRegion("서울특별시", "강남구")
		p.SetType(TypeStroke)
		p.SetSort(SortDistance)
		return p
	}

	p := build()
	p.RemoveTag(DimEquipment, "mri")
	if p.Equipment["mri"] {
		t.Error("equipment key not removed")
	}
	if p.Etype != TypeStroke || p.Sido != "서울특별시" || p.Sort != SortDistance {
		t.Error("equipment removal touched other dimensions")
	}

	p = build()
	p.RemoveTag(DimType, "")
	if p.Etype != "" {
		t.Error("etype not removed")
	}
	if len(p.Equipment) == 0 || p.Sido != "서울특별시" {
		t.Error("etype removal touched other dimensions")
	}

	p = build()
	p.RemoveTag(DimRegion, "")
	if p.Sido != "" || p.Sigungu != "" {
		t.Error("region not removed")
	}
	if p.Etype != TypeStroke {
		t.Error("region removal touched etype")
	}
}

func TestHasRegionAndFilter(t *testing.T) {
	p := New()
	if p.HasRegion() || p.HasFilter() {
		t.Error("empty preference should have no region or filter")
	}

	p.Sido = RegionAll
	if p.HasRegion() {
		t.Error("전체 is not a pinned region")
	}

	p.Sido = "부산광역시"
	if !p.HasRegion() {
		t.Error("pinned sido not detected")
	}
	if p.HasSigungu() {
		t.Error("sigungu not pinned yet")
	}
	p.Sigungu = "해운대구"
	if !p.HasSigungu() {
		t.Error("pinned sigungu not detected")
	}

	p2 := New()
	p2.ToggleEquipment("ct")
	if !p2.HasFilter() {
		t.Error("equipment selection should count as a filter")
	}
}

func TestSelectedEquipmentDeterministic(t *testing.T) {
	p := New()
	p.ToggleEquipment("ventilator")
	p.ToggleEquipment("ct")
	p.ToggleEquipment("delivery")

	got := p.SelectedEquipment()
	want := []string{"ct", "delivery", "ventilator"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := New()
	p.ToggleEquipment("ct")
	cp := p.Clone()
	cp.ToggleEquipment("mri")

	if p.Equipment["mri"] {
		t.Error("clone shares the equipment map")
	}
}
