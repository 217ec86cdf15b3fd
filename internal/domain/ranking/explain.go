package ranking

// ExplanationKey names the single ordering rule that produced the list.
type ExplanationKey string

const (
	ExplainRegionFixed ExplanationKey = "region-fixed"
	ExplainFiltered    ExplanationKey = "filtered"
	ExplainDistance    ExplanationKey = "distance"
	ExplainDefault     ExplanationKey = "default"
)

// CriteriaText is the short ordering label shown above the list.
var CriteriaText = map[ExplanationKey]string{
	ExplainRegionFixed: "선택한 지역 기준",
	ExplainFiltered:    "필터 조건 반영 후 가용 병상·거리 기반",
	ExplainDistance:    "사용자 위치 기준 거리순",
	ExplainDefault:     "가용 병상·거리 기반",
}

// TooltipText is the longer explanation behind the info icon. Line breaks
// are part of the fixed copy.
var TooltipText = map[ExplanationKey]string{
	ExplainRegionFixed: "선택한 지역에 해당하는 응급실만 목록에 표시됩니다.\n거리나 병상 정보를 기준으로 정렬하지 않으며,\n응급실 이름 순으로 정렬됩니다.",
	ExplainFiltered:    "선택한 필터 조건을 충족하는 응급실만 표시한 후,\n가용 병상과 거리를 기준으로 정렬됩니다.\n필터 조건에 따라 일부 응급실은\n목록에서 제외될 수 있습니다.",
	ExplainDistance:    "사용자의 현재 위치를 기준으로\n각 응급실까지의 직선 거리를 계산하여 정렬합니다.\n가장 가까운 응급실이 목록 상단에 표시됩니다.",
	ExplainDefault:     "현재 가용 병상 수와,\n사용자 위치 기준 거리를 함께 반영하여 정렬됩니다.\n병상 여유가 많고, 상대적으로 가까운 응급실이\n목록 상단에 표시됩니다.",
}
