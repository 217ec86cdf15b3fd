package congestion

import "testing"

func intp(v int) *int { return &v }

func TestClassifyUnknownAvailable(t *testing.T) {
	for _, cat := range Categories() {
		res := Classify(cat, nil, intp(10))
		if res.Label != LabelUnknown || res.Color != ColorNone {
			t.Errorf("%s: got %q/%q, want -/none", cat, res.Label, res.Color)
		}
		if res.Fraction != nil {
			t.Errorf("%s: fraction should be nil for unknown available", cat)
		}
	}
}

func TestClassifyBirthBinary(t *testing.T) {
	cases := []struct {
		available *int
		total     *int
		label     string
		color     Color
	}{
		{intp(0), intp(5), LabelUnavailable, ColorRed},
		{intp(0), nil, LabelUnavailable, ColorRed},
		{intp(1), intp(5), LabelAvailable, ColorGreen},
		{intp(5), intp(0), LabelAvailable, ColorGreen}, // total ignored
		{intp(-3), intp(5), LabelUnavailable, ColorRed},
	}
	for _, tc := range cases {
		res := Classify(CategoryBirth, tc.available, tc.total)
		if res.Label != tc.label || res.Color != tc.color {
			t.Errorf("birth(%v,%v): got %q/%q, want %q/%q",
				tc.available, tc.total, res.Label, res.Color, tc.label, tc.color)
		}
	}
}

func TestClassifyZeroAvailableAlwaysCongested(t *testing.T) {
	for _, cat := range Categories() {
		if cat == CategoryBirth {
			continue
		}
		for _, total := range []*int{intp(1), intp(10), intp(100), nil} {
			res := Classify(cat, intp(0), total)
			if res.Label != LabelCongested || res.Color != ColorRed {
				t.Errorf("%s(0,%v): got %q/%q, want 혼잡/red", cat, total, res.Label, res.Color)
			}
		}
	}
}

func TestClassifyNoDenominator(t *testing.T) {
	for _, total := range []*int{nil, intp(0), intp(-1)} {
		res := Classify(CategoryERGeneral, intp(3), total)
		if res.Label != LabelModerate || res.Color != ColorNone {
			t.Errorf("er_general(3,%v): got %q/%q, want 보통/none", total, res.Label, res.Color)
		}
		if res.Fraction != nil {
			t.Errorf("er_general(3,%v): fraction should be nil", total)
		}
	}
}

func TestClassifyGroupAThresholds(t *testing.T) {
	cases := []struct {
		available, total int
		label            string
		color            Color
	}{
		{8, 10, LabelSmooth, ColorGreen},    // exactly 80%
		{7, 10, LabelModerate, ColorOrange}, // 70%
		{5, 10, LabelModerate, ColorOrange}, // exactly 50%
		{4, 10, LabelCongested, ColorRed},   // 40%
		{10, 10, LabelSmooth, ColorGreen},
	}
	for _, cat := range []Category{CategoryERGeneral, CategoryERChild} {
		for _, tc := range cases {
			res := Classify(cat, intp(tc.available), intp(tc.total))
			if res.Label != tc.label || res.Color != tc.color {
				t.Errorf("%s(%d,%d): got %q/%q, want %q/%q",
					cat, tc.available, tc.total, res.Label, res.Color, tc.label, tc.color)
			}
		}
	}
}

func TestClassifyGroupBThresholds(t *testing.T) {
	cases := []struct {
		available, total int
		label            string
		color            Color
	}{
		{10, 10, LabelSmooth, ColorGreen},   // exactly 100%
		{9, 10, LabelModerate, ColorOrange}, // 90% is not smooth in group B
		{5, 10, LabelModerate, ColorOrange}, // exactly 50%
		{4, 10, LabelCongested, ColorRed},
		{12, 10, LabelSmooth, ColorGreen}, // inconsistent feed data
	}
	groupB := []Category{CategoryNegativePressure, CategoryIsolationGeneral, CategoryIsolationCohort}
	for _, cat := range groupB {
		for _, tc := range cases {
			res := Classify(cat, intp(tc.available), intp(tc.total))
			if res.Label != tc.label || res.Color != tc.color {
				t.Errorf("%s(%d,%d): got %q/%q, want %q/%q",
					cat, tc.available, tc.total, res.Label, res.Color, tc.label, tc.color)
			}
		}
	}
}

func TestClassifyFractionClamped(t *testing.T) {
	res := Classify(CategoryERGeneral, intp(12), intp(10))
	if res.Fraction == nil || *res.Fraction != 1.0 {
		t.Fatalf("fraction should clamp to 1.0, got %v", res.Fraction)
	}

	res = Classify(CategoryERGeneral, intp(4), intp(10))
	if res.Fraction == nil || *res.Fraction != 0.4 {
		t.Fatalf("fraction: got %v, want 0.4", res.Fraction)
	}
}
