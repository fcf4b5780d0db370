package domain

import "strconv"

// LegendBreakpoints are the depth interval starts shown in the legend, in km.
var LegendBreakpoints = []float64{0, 10, 30, 50, 70, 90}

// LegendEntry is one swatch row. To is nil for the open-ended last interval.
type LegendEntry struct {
	From  float64  `json:"from"`
	To    *float64 `json:"to,omitempty"`
	Color string   `json:"color"`
	Label string   `json:"label"`
}

// Legend is the fixed-position depth key.
type Legend struct {
	Title    string        `json:"title"`
	Position string        `json:"position"`
	Entries  []LegendEntry `json:"entries"`
}

// NewLegend builds the depth legend. Each swatch is DepthColor(breakpoint+1),
// so it lands inside the interval it labels.
func NewLegend() Legend {
	entries := make([]LegendEntry, 0, len(LegendBreakpoints))
	for i, from := range LegendBreakpoints {
		e := LegendEntry{
			From:  from,
			Color: DepthColor(from + 1),
		}
		if i+1 < len(LegendBreakpoints) {
			to := LegendBreakpoints[i+1]
			e.To = &to
			e.Label = formatNumber(from) + "–" + formatNumber(to)
		} else {
			e.Label = formatNumber(from) + "+"
		}
		entries = append(entries, e)
	}
	return Legend{
		Title:    "Depth (km)",
		Position: "bottomright",
		Entries:  entries,
	}
}

// formatNumber prints the shortest decimal form, the way a browser would.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
