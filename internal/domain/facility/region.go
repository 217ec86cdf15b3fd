package facility

import "strings"

// sidoAliases folds the short province names the feed sometimes uses into
// their canonical forms.
var sidoAliases = map[string]string{
	"전남": "전라남도",
	"전북": "전라북도",
	"경남": "경상남도",
	"경북": "경상북도",
	"충남": "충청남도",
	"충북": "충청북도",
}

// NormalizeSido returns the canonical province name for any known variant.
func NormalizeSido(sido string) string {
	if std, ok := sidoAliases[sido]; ok {
		return std
	}
	return sido
}

// SidoVariants returns every spelling of the province that may appear in the
// data, suitable for an IN clause. The feed mixes canonical names, short
// forms, and forms with the 도 suffix stripped.
func SidoVariants(sido string) []string {
	std := NormalizeSido(sido)

	seen := make(map[string]bool, 4)
	var out []string
	for _, v := range []string{
		sido,
		std,
		strings.TrimSuffix(sido, "도"),
		strings.TrimSuffix(std, "도"),
	} {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
