package facility

import "testing"

func TestNormalizeSido(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"전남", "전라남도"},
		{"전북", "전라북도"},
		{"경남", "경상남도"},
		{"경북", "경상북도"},
		{"충남", "충청남도"},
		{"충북", "충청북도"},
		{"서울특별시", "서울특별시"},
		{"전라남도", "전라남도"},
	}
	for _, tc := range cases {
		if got := NormalizeSido(tc.in); got != tc.want {
			t.Errorf("NormalizeSido(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSidoVariants(t *testing.T) {
	got := SidoVariants("전남")
	want := map[string]bool{"전남": true, "전라남도": true, "전라남": true}
	if len(got) != len(want) {
		t.Fatalf("SidoVariants(전남) = %v, want %d variants", got, len(want))
	}
	for _, v := range got {
		if !want[v] {
			t.Errorf("unexpected variant %q", v)
		}
	}

	got = SidoVariants("서울특별시")
	if len(got) != 1 || got[0] != "서울특별시" {
		t.Fatalf("SidoVariants(서울특별시) = %v, want single canonical form", got)
	}
}
