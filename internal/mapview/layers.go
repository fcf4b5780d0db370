package mapview

import (
	"sync"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/paulmach/orb/geojson"
)

// Layer names shown in the layer control.
const (
	StreetMap      = "Street Map"
	TopographicMap = "Topographic Map"
	Earthquakes    = "Earthquakes"
	TectonicPlates = "Tectonic Plates"
)

// TileLayer is a background tile set.
type TileLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

var (
	streetTiles = TileLayer{
		Name:        StreetMap,
		URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
	}
	topoTiles = TileLayer{
		Name:        TopographicMap,
		URL:         "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
		Attribution: `Map data: &copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors, SRTM | Map style: &copy; <a href="https://opentopomap.org">OpenTopoMap</a> (CC-BY-SA)`,
	}
)

// Group is a named collection of map graphics. A feed task replaces its
// contents while HTTP handlers read them, so access is synchronized.
type Group struct {
	name string

	mu      sync.RWMutex
	markers []domain.Marker
	plates  *domain.PlateLayer
}

func newGroup(name string) *Group {
	return &Group{name: name}
}

// Name is the label shown in the layer control. Empty for the base-variant
// group attached directly to the map.
func (g *Group) Name() string { return g.name }

// SetMarkers replaces the group's markers.
func (g *Group) SetMarkers(markers []domain.Marker) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.markers = markers
}

// SetPlates replaces the group's plate layer.
func (g *Group) SetPlates(layer *domain.PlateLayer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.plates = layer
}

// Markers returns a copy of the group's markers.
func (g *Group) Markers() []domain.Marker {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.Marker, len(g.markers))
	copy(out, g.markers)
	return out
}

// Len counts the graphics in the group.
func (g *Group) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.markers) + g.plates.Len()
}

// Collection renders the group as one GeoJSON FeatureCollection.
func (g *Group) Collection() *geojson.FeatureCollection {
	g.mu.RLock()
	defer g.mu.RUnlock()

	fc := g.plates.Collection()
	for _, m := range g.markers {
		fc.Append(m.Feature())
	}
	return fc
}
