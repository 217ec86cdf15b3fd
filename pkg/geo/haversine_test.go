package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
		tol                    float64
	}{
		{"same point", 37.5665, 126.9780, 37.5665, 126.9780, 0, 0.001},
		// Seoul City Hall to Busan City Hall, roughly 325 km.
		{"seoul-busan", 37.5665, 126.9780, 35.1796, 129.0756, 325, 5},
		// Seoul City Hall to Gangnam Station, roughly 8.5 km.
		{"seoul-gangnam", 37.5665, 126.9780, 37.4979, 127.0276, 8.8, 0.5},
	}
	for _, tc := range cases {
		got := HaversineKm(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
		if math.Abs(got-tc.want) > tc.tol {
			t.Errorf("%s: got %.2f km, want %.2f ± %.2f", tc.name, got, tc.want, tc.tol)
		}
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := HaversineKm(37.5665, 126.9780, 35.1796, 129.0756)
	b := HaversineKm(35.1796, 129.0756, 37.5665, 126.9780)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", a, b)
	}
}
