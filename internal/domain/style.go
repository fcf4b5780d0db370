package domain

// markerScale converts magnitude to a marker radius in pixels.
const markerScale = 4

// depthBuckets is ordered deepest first; the first threshold strictly below
// the depth wins.
var depthBuckets = []struct {
	above float64
	color string
}{
	{90, "#800026"},
	{70, "#BD0026"},
	{50, "#E31A1C"},
	{30, "#FC4E2A"},
	{10, "#FD8D3C"},
}

// shallowColor covers every depth not above the last threshold, NaN included.
const shallowColor = "#FEB24C"

// DepthColor maps a depth in kilometres to its marker fill colour. Markers and
// the legend both call it.
func DepthColor(depth float64) string {
	for _, b := range depthBuckets {
		if depth > b.above {
			return b.color
		}
	}
	return shallowColor
}

// DepthColors lists every colour DepthColor can return, deepest first.
func DepthColors() []string {
	out := make([]string, 0, len(depthBuckets)+1)
	for _, b := range depthBuckets {
		out = append(out, b.color)
	}
	return append(out, shallowColor)
}

// MarkerRadius returns magnitude * 4. Negative magnitudes give negative radii;
// callers decide what to do with them.
func MarkerRadius(magnitude float64) float64 {
	return magnitude * markerScale
}

// MarkerStyle is the circle marker paint.
type MarkerStyle struct {
	Radius      float64 `json:"radius"`
	FillColor   string  `json:"fillColor"`
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fillOpacity"`
}

// PathStyle is the stroke applied to line layers.
type PathStyle struct {
	Color  string  `json:"color"`
	Weight float64 `json:"weight"`
}

// PlateStyle is the fixed stroke for plate boundaries.
var PlateStyle = PathStyle{Color: "yellow", Weight: 2}

// StyleFor derives the marker paint for an earthquake.
func StyleFor(q Earthquake) MarkerStyle {
	return MarkerStyle{
		Radius:      MarkerRadius(q.Magnitude),
		FillColor:   DepthColor(q.DepthKm),
		Color:       "#000",
		Weight:      1,
		Opacity:     1,
		FillOpacity: 0.8,
	}
}
