package domain

import (
	"fmt"
	"html"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LocalTimeLayout mirrors the en-US Date.toLocaleString output.
const LocalTimeLayout = "1/2/2006, 3:04:05 PM"

// Marker is a rendered circle for one earthquake. It has no identity of its
// own and is rebuilt on every fetch.
type Marker struct {
	EarthquakeID string      `json:"earthquake_id"`
	Geo          Geo         `json:"geo"`
	Style        MarkerStyle `json:"style"`
	Popup        string      `json:"popup"`
}

// NewMarker styles an earthquake and builds its popup, formatting the event
// time in loc. A nil loc means UTC.
func NewMarker(q Earthquake, loc *time.Location) Marker {
	return Marker{
		EarthquakeID: q.ID,
		Geo:          q.Geo,
		Style:        StyleFor(q),
		Popup:        Popup(q, loc),
	}
}

// Popup renders the marker popup HTML. The place is escaped; magnitude and
// depth print in shortest form.
func Popup(q Earthquake, loc *time.Location) string {
	return fmt.Sprintf("<h3>%s</h3><hr><p>Magnitude: %s</p><p>Depth: %s km</p><p>Time: %s</p>",
		html.EscapeString(q.Place),
		formatNumber(q.Magnitude),
		formatNumber(q.DepthKm),
		FormatLocalTime(q.Time, loc),
	)
}

// FormatLocalTime converts an event time to loc and formats it for display.
func FormatLocalTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(LocalTimeLayout)
}

// Feature converts the marker to a GeoJSON point whose properties carry the
// paint and the popup.
func (m Marker) Feature() *geojson.Feature {
	f := geojson.NewFeature(orb.Point{m.Geo.Lon, m.Geo.Lat})
	f.ID = m.EarthquakeID
	f.Properties["radius"] = m.Style.Radius
	f.Properties["fillColor"] = m.Style.FillColor
	f.Properties["color"] = m.Style.Color
	f.Properties["weight"] = m.Style.Weight
	f.Properties["opacity"] = m.Style.Opacity
	f.Properties["fillOpacity"] = m.Style.FillOpacity
	f.Properties["popup"] = m.Popup
	return f
}

// PlateLayer is the plate-boundary collection drawn as one styled layer.
type PlateLayer struct {
	Boundaries *geojson.FeatureCollection
	Style      PathStyle
}

// NewPlateLayer wraps a boundary collection with the fixed plate style.
func NewPlateLayer(fc *geojson.FeatureCollection) (*PlateLayer, error) {
	if fc == nil {
		return nil, fmt.Errorf("plate layer: nil feature collection")
	}
	return &PlateLayer{Boundaries: fc, Style: PlateStyle}, nil
}

// Collection returns a copy of the boundaries with the stroke written into
// each feature's properties. The source collection is not modified.
func (p *PlateLayer) Collection() *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	if p == nil || p.Boundaries == nil {
		return out
	}
	for _, f := range p.Boundaries.Features {
		c := geojson.NewFeature(f.Geometry)
		c.ID = f.ID
		for k, v := range f.Properties {
			c.Properties[k] = v
		}
		c.Properties["color"] = p.Style.Color
		c.Properties["weight"] = p.Style.Weight
		out.Append(c)
	}
	return out
}

// Len reports the number of boundary features.
func (p *PlateLayer) Len() int {
	if p == nil || p.Boundaries == nil {
		return 0
	}
	return len(p.Boundaries.Features)
}
