package ranking

import (
	"math"
	"testing"

	"github.com/wlstjr1123/carebridge/internal/domain/facility"
	"github.com/wlstjr1123/carebridge/internal/domain/preference"
)

func intp(v int) *int        { return &v }
func boolp(v bool) *bool     { return &v }
func kmp(v float64) *float64 { return &v }

func item(name string, km *float64, st *facility.Status) *facility.WithStatus {
	return &facility.WithStatus{
		Facility:   facility.Facility{Name: name},
		Status:     st,
		DistanceKm: km,
	}
}

func names(items []*facility.WithStatus) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func assertOrder(t *testing.T, items []*facility.WithStatus, want ...string) {
	t.Helper()
	got := names(items)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRankRegionPinnedIsAlphabetic(t *testing.T) {
	// Distances and availability deliberately favor the reverse order.
	full := &facility.Status{ERGeneralAvailable: intp(10), ERGeneralTotal: intp(10)}
	empty := &facility.Status{ERGeneralAvailable: intp(0), ERGeneralTotal: intp(10)}

	items := []*facility.WithStatus{
		item("다정병원", kmp(1), full),
		item("가온병원", kmp(50), empty),
		item("나래병원", nil, nil),
	}

	pref := preference.New()
	pref.SetRegion("서울특별시", "강남구")
	pref.SetSort(preference.SortDistance)

	ordered, key := Rank(items, pref)
	if key != ExplainRegionFixed {
		t.Fatalf("key = %s, want region-fixed", key)
	}
	assertOrder(t, ordered, "가온병원", "나래병원", "다정병원")
}

func TestRankFilterRestrictsAndScores(t *testing.T) {
	withCT := &facility.Status{
		ERGeneralAvailable: intp(5), ERGeneralTotal: intp(10),
		HasCT: boolp(true),
	}
	withMRI := &facility.Status{
		ERGeneralAvailable: intp(5), ERGeneralTotal: intp(10),
		HasMRI: boolp(true),
	}
	bare := &facility.Status{ERGeneralAvailable: intp(10), ERGeneralTotal: intp(10)}

	items := []*facility.WithStatus{
		item("원거리CT", kmp(25), withCT),
		item("무장비병원", kmp(1), bare),
		item("근거리MRI", kmp(2), withMRI),
	}

	pref := preference.New()
	pref.SetType(preference.TypeStroke)

	ordered, key := Rank(items, pref)
	if key != ExplainFiltered {
		t.Fatalf("key = %s, want filtered", key)
	}
	// The bare facility matches no selected equipment and is dropped; the
	// nearer of the two survivors wins on the distance-heavy weighting.
	assertOrder(t, ordered, "근거리MRI", "원거리CT")
}

func TestRankDistanceSort(t *testing.T) {
	items := []*facility.WithStatus{
		item("중간병원", kmp(10), nil),
		item("미지병원", nil, nil),
		item("인접병원", kmp(0.5), nil),
	}

	pref := preference.New()
	pref.SetSort(preference.SortDistance)

	ordered, key := Rank(items, pref)
	if key != ExplainDistance {
		t.Fatalf("key = %s, want distance", key)
	}
	assertOrder(t, ordered, "인접병원", "중간병원", "미지병원")
}

func TestRankDefaultComposite(t *testing.T) {
	full := &facility.Status{ERGeneralAvailable: intp(10), ERGeneralTotal: intp(10)}
	empty := &facility.Status{ERGeneralAvailable: intp(0), ERGeneralTotal: intp(10)}

	items := []*facility.WithStatus{
		item("혼잡근거리", kmp(3), empty),
		item("원활원거리", kmp(6), full),
	}

	ordered, key := Rank(items, preference.New())
	if key != ExplainDefault {
		t.Fatalf("key = %s, want default", key)
	}
	// full: 0.8*0.6 + 0.45*0.4 = 0.66; empty: 0.9*0.6 + 0 = 0.54
	assertOrder(t, ordered, "원활원거리", "혼잡근거리")
}

func TestRankDoesNotMutateInput(t *testing.T) {
	items := []*facility.WithStatus{
		item("나병원", kmp(1), nil),
		item("가병원", kmp(2), nil),
	}
	pref := preference.New()
	pref.SetRegion("부산광역시", "")

	Rank(items, pref)
	assertOrder(t, items, "나병원", "가병원")
}

func TestDistanceScore(t *testing.T) {
	if got := DistanceScore(nil); got != 0 {
		t.Errorf("nil distance score = %v", got)
	}
	if got := DistanceScore(kmp(0)); got != 1 {
		t.Errorf("zero distance score = %v", got)
	}
	if got := DistanceScore(kmp(15)); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("15km score = %v, want 0.5", got)
	}
	if got := DistanceScore(kmp(45)); got != 0 {
		t.Errorf("beyond-radius score = %v, want 0", got)
	}
}

func TestCongestionScoreWeights(t *testing.T) {
	st := &facility.Status{
		ERGeneralAvailable:        intp(10),
		ERGeneralTotal:            intp(10),
		ERChildAvailable:          intp(5),
		ERChildTotal:              intp(10),
		NegativePressureAvailable: intp(0),
		NegativePressureTotal:     intp(4),
		IsolationGeneralAvailable: intp(2),
		IsolationGeneralTotal:     intp(2),
		BirthAvailable:            intp(1),
	}
	// 1.0*0.45 + 0.5*0.20 + 0*0.20 + 1.0*0.10 + 1.0*0.05 = 0.70
	if got := CongestionScore(st); math.Abs(got-0.70) > 1e-9 {
		t.Errorf("congestion score = %v, want 0.70", got)
	}

	if got := CongestionScore(nil); got != 0 {
		t.Errorf("nil status score = %v", got)
	}
}

func TestCompositeScorePerType(t *testing.T) {
	st := &facility.Status{
		ERGeneralAvailable: intp(10),
		ERGeneralTotal:     intp(10),
		HasCT:              boolp(true),
		BirthAvailable:     intp(1),
	}
	it := item("병원", kmp(0), st)
	congestion := CongestionScore(st) // 0.45 + 0.05 = 0.50

	cases := []struct {
		etype string
		want  float64
	}{
		{preference.TypeStroke, 0.60 + congestion*0.30 + 0.10},
		{preference.TypeTraffic, 0.60 + congestion*0.30 + 0.10},
		{preference.TypeCardio, 0.80 + congestion*0.20},
		{preference.TypeObstetrics, 0.40 + congestion*0.30 + 0.30},
		{"", 0.60 + congestion*0.40},
	}
	for _, tc := range cases {
		if got := CompositeScore(it, tc.etype); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("CompositeScore(%q) = %v, want %v", tc.etype, got, tc.want)
		}
	}
}
