package congestion

// Category identifies one of the six tracked bed categories.
type Category string

const (
	CategoryERGeneral        Category = "er_general"
	CategoryERChild          Category = "er_child"
	CategoryBirth            Category = "birth"
	CategoryNegativePressure Category = "negative_pressure"
	CategoryIsolationGeneral Category = "isolation_general"
	CategoryIsolationCohort  Category = "isolation_cohort"
)

// Categories returns all bed categories in display order.
func Categories() []Category {
	return []Category{
		CategoryERGeneral,
		CategoryERChild,
		CategoryBirth,
		CategoryNegativePressure,
		CategoryIsolationGeneral,
		CategoryIsolationCohort,
	}
}

// Color is the congestion tier color class used by the portal legend.
type Color string

const (
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
	ColorNone   Color = "none"
)

// Legend labels. Fixed-language strings shared with the portal templates.
const (
	LabelUnknown     = "-"
	LabelAvailable   = "가능"
	LabelUnavailable = "불가능"
	LabelCongested   = "혼잡"
	LabelModerate    = "보통"
	LabelSmooth      = "원활"
)

// Result is the classification of a single bed category.
// Fraction is the clamped availability ratio in [0, 1], nil when the
// denominator is unknown.
type Result struct {
	Label    string   `json:"label"`
	Color    Color    `json:"color_class"`
	Fraction *float64 `json:"fraction,omitempty"`
}

// Classify maps an (available, total) pair to a congestion tier for the given
// bed category. Inputs are never rejected: missing or inconsistent counts
// degrade to the unknown or moderate tiers.
//
// Precedence:
//  1. available unknown          -> "-" / none
//  2. birth (binary policy)      -> 가능 when available >= 1, else 불가능
//  3. available == 0             -> 혼잡 / red regardless of total
//  4. total unknown or <= 0      -> 보통 / none
//  5. category threshold table on available/total percent
func Classify(category Category, available, total *int) Result {
	if available == nil {
		return Result{Label: LabelUnknown, Color: ColorNone}
	}

	avail := *available
	if avail < 0 {
		avail = 0
	}

	fraction := ratio(avail, total)

	// Delivery rooms are a go / no-go decision regardless of capacity.
	if category == CategoryBirth {
		if avail >= 1 {
			return Result{Label: LabelAvailable, Color: ColorGreen, Fraction: fraction}
		}
		return Result{Label: LabelUnavailable, Color: ColorRed, Fraction: fraction}
	}

	if avail == 0 {
		return Result{Label: LabelCongested, Color: ColorRed, Fraction: fraction}
	}

	if total == nil || *total <= 0 {
		return Result{Label: LabelModerate, Color: ColorNone}
	}

	pct := float64(avail) / float64(*total) * 100

	switch category {
	case CategoryERGeneral, CategoryERChild:
		switch {
		case pct >= 80:
			return Result{Label: LabelSmooth, Color: ColorGreen, Fraction: fraction}
		case pct >= 50:
			return Result{Label: LabelModerate, Color: ColorOrange, Fraction: fraction}
		default:
			return Result{Label: LabelCongested, Color: ColorRed, Fraction: fraction}
		}
	case CategoryNegativePressure, CategoryIsolationGeneral, CategoryIsolationCohort:
		// Isolation capacity must be fully free to count as smooth.
		switch {
		case pct >= 100:
			return Result{Label: LabelSmooth, Color: ColorGreen, Fraction: fraction}
		case pct >= 50:
			return Result{Label: LabelModerate, Color: ColorOrange, Fraction: fraction}
		default:
			return Result{Label: LabelCongested, Color: ColorRed, Fraction: fraction}
		}
	}

	return Result{Label: LabelModerate, Color: ColorNone, Fraction: fraction}
}

// ratio returns the clamped availability fraction, or nil without a
// positive denominator. Negative counts clamp to zero; counts above the
// total clamp to one so that inconsistent feed data cannot overflow the
// gauge arc.
func ratio(avail int, total *int) *float64 {
	if total == nil || *total <= 0 {
		return nil
	}
	f := float64(avail) / float64(*total)
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return &f
}
