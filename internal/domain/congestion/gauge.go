package congestion

import (
	"fmt"
	"math"
)

// Gauge geometry for the circular bed-availability indicator. The radius and
// the derived circumference are fixed by the portal stylesheet; the dash
// strings below must stay byte-identical to keep rendered gauges unchanged.
const GaugeRadius = 20.0

// Circumference of the gauge circle (2πr, r = 20 ≈ 125.66).
var Circumference = 2 * math.Pi * GaugeRadius

const (
	emptyDashArray  = "0, 125.66"
	emptyDashOffset = "125.66"
)

// DashArray returns the SVG stroke-dasharray value for the filled arc.
// Without a usable available/total pair the gauge renders empty.
func DashArray(available, total *int) string {
	f, ok := gaugeFraction(available, total)
	if !ok {
		return emptyDashArray
	}
	return fmt.Sprintf("%.2f, %.2f", f*Circumference, Circumference)
}

// DashOffset returns the SVG stroke-dashoffset value. A full gauge has
// offset 0, an empty one the full circumference.
func DashOffset(available, total *int) string {
	f, ok := gaugeFraction(available, total)
	if !ok {
		return emptyDashOffset
	}
	return fmt.Sprintf("%.2f", Circumference*(1-f))
}

func gaugeFraction(available, total *int) (float64, bool) {
	if available == nil || total == nil || *total <= 0 {
		return 0, false
	}
	avail := *available
	if avail < 0 {
		avail = 0
	}
	f := float64(avail) / float64(*total)
	if f > 1 {
		f = 1
	}
	return f, true
}

// StatusUI bundles everything the detail modal needs to paint one bed
// category: tier label and color, gauge stroke values, and the raw counts.
type StatusUI struct {
	Label      string  `json:"label"`
	ColorClass Color   `json:"color_class"`
	DashOffset *string `json:"dash_offset"`
	BgStroke   string  `json:"bg_stroke"`
	Available  *int    `json:"available"`
	Total      *int    `json:"total"`
}

const (
	bgStrokeNeutral = "#e0e0e0"
	bgStrokeRed     = "#E53935"
)

// UI computes the render-ready status block for one category. The gauge
// background turns red only for a fully saturated category (available == 0
// classified red); every other state keeps the neutral track.
func UI(category Category, available, total *int) StatusUI {
	res := Classify(category, available, total)

	ui := StatusUI{
		Label:      res.Label,
		ColorClass: res.Color,
		BgStroke:   bgStrokeNeutral,
		Available:  available,
		Total:      total,
	}

	if available != nil && total != nil && *total > 0 {
		offset := DashOffset(available, total)
		ui.DashOffset = &offset
		if *available == 0 && res.Color == ColorRed {
			ui.BgStroke = bgStrokeRed
		}
	}

	return ui
}
