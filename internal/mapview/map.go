// Package mapview owns the map context: base layers, overlay groups, the
// depth legend and the layer control. One Map is built at startup and handed
// to the pipeline (which fills the groups) and the HTTP server (which renders
// views of it).
package mapview

import (
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/paulmach/orb/geojson"
)

// Variant selects which renderer the map bootstraps.
type Variant string

const (
	// VariantBase is one street layer with earthquakes attached to the map.
	VariantBase Variant = "base"
	// VariantLayered adds a topographic base, the plate overlay and a layer control.
	VariantLayered Variant = "layered"
)

// ErrUnknownVariant is returned by ParseVariant and New for unsupported variants.
var ErrUnknownVariant = errors.New("unknown map variant")

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantBase, VariantLayered:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// Initial view.
const (
	ContainerID = "map"
	InitialZoom = 2
)

// InitialCenter is where the map opens.
var InitialCenter = domain.Geo{Lat: 20.0, Lon: 0.0}

// Map is the owned map context.
type Map struct {
	variant  Variant
	location *time.Location
	bases    []TileLayer
	overlays []*Group
	direct   *Group
	legend   domain.Legend
	control  *LayerControl
}

// New bootstraps a map for the variant. Popup times are formatted in loc
// (nil means UTC).
func New(variant Variant, loc *time.Location) (*Map, error) {
	if loc == nil {
		loc = time.UTC
	}
	m := &Map{
		variant:  variant,
		location: loc,
		legend:   domain.NewLegend(),
	}

	switch variant {
	case VariantBase:
		m.bases = []TileLayer{streetTiles}
		m.direct = newGroup("")
	case VariantLayered:
		m.bases = []TileLayer{streetTiles, topoTiles}
		m.overlays = []*Group{newGroup(Earthquakes), newGroup(TectonicPlates)}
		m.control = NewLayerControl(
			[]string{StreetMap, TopographicMap},
			[]string{Earthquakes, TectonicPlates},
		)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	return m, nil
}

// Variant reports which renderer the map was built for.
func (m *Map) Variant() Variant { return m.variant }

// Legend returns the depth legend built at bootstrap.
func (m *Map) Legend() domain.Legend { return m.legend }

// Control returns the layer control, or nil for the base variant.
func (m *Map) Control() *LayerControl { return m.control }

// EarthquakeGroup is where earthquake markers go: the map itself for the
// base variant, the Earthquakes overlay otherwise.
func (m *Map) EarthquakeGroup() *Group {
	if m.direct != nil {
		return m.direct
	}
	return m.overlay(Earthquakes)
}

// PlateGroup is the Tectonic Plates overlay, or nil for the base variant.
func (m *Map) PlateGroup() *Group {
	return m.overlay(TectonicPlates)
}

func (m *Map) overlay(name string) *Group {
	for _, g := range m.overlays {
		if g.name == name {
			return g
		}
	}
	return nil
}

// RenderEarthquakes builds one marker per earthquake and replaces the
// earthquake group's contents.
func (m *Map) RenderEarthquakes(quakes []domain.Earthquake) int {
	markers := make([]domain.Marker, 0, len(quakes))
	for _, q := range quakes {
		markers = append(markers, domain.NewMarker(q, m.location))
	}
	m.EarthquakeGroup().SetMarkers(markers)
	return len(markers)
}

// RenderPlates replaces the plate overlay's contents. It is a no-op for the
// base variant.
func (m *Map) RenderPlates(layer *domain.PlateLayer) {
	if g := m.PlateGroup(); g != nil {
		g.SetPlates(layer)
	}
}

// DefaultState returns the load-time layer state, or nil for the base variant.
func (m *Map) DefaultState() *LayerState {
	if m.control == nil {
		return nil
	}
	return m.control.DefaultState()
}

// View is a rendered snapshot of the map for one layer state.
type View struct {
	Variant     Variant         `json:"variant"`
	ContainerID string          `json:"container"`
	Center      [2]float64      `json:"center"` // [lat, lon]
	Zoom        int             `json:"zoom"`
	BaseLayers  []BaseLayerView `json:"baseLayers"`
	Layers      []LayerView     `json:"layers"`
	Legend      domain.Legend   `json:"legend"`
	Control     bool            `json:"control"`
}

// BaseLayerView is a tile layer and whether it is the active one.
type BaseLayerView struct {
	TileLayer
	Active bool `json:"active"`
}

// LayerView is one group's rendered geometry. Name is empty for graphics
// attached directly to the map.
type LayerView struct {
	Name    string                     `json:"name"`
	Kind    string                     `json:"kind"` // "markers" or "paths"
	Visible bool                       `json:"visible"`
	Data    *geojson.FeatureCollection `json:"data"`
}

// Visible returns only the layers currently drawn on the map.
func (v View) Visible() []LayerView {
	out := make([]LayerView, 0, len(v.Layers))
	for _, l := range v.Layers {
		if l.Visible {
			out = append(out, l)
		}
	}
	return out
}

// View renders the map for a layer state. A nil state means the default.
func (m *Map) View(state *LayerState) View {
	if state == nil {
		state = m.DefaultState()
	}

	v := View{
		Variant:     m.variant,
		ContainerID: ContainerID,
		Center:      [2]float64{InitialCenter.Lat, InitialCenter.Lon},
		Zoom:        InitialZoom,
		Legend:      m.legend,
		Control:     m.control != nil,
	}

	for i, b := range m.bases {
		active := i == 0
		if state != nil {
			active = b.Name == state.Base()
		}
		v.BaseLayers = append(v.BaseLayers, BaseLayerView{TileLayer: b, Active: active})
	}

	if m.direct != nil {
		v.Layers = append(v.Layers, LayerView{Kind: "markers", Visible: true, Data: m.direct.Collection()})
	}
	for _, g := range m.overlays {
		kind := "markers"
		if g.name == TectonicPlates {
			kind = "paths"
		}
		v.Layers = append(v.Layers, LayerView{
			Name:    g.name,
			Kind:    kind,
			Visible: state.OverlayVisible(g.name),
			Data:    g.Collection(),
		})
	}
	return v
}
