package mapview

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuakes(n int) []domain.Earthquake {
	quakes := make([]domain.Earthquake, 0, n)
	for i := range n {
		quakes = append(quakes, domain.Earthquake{
			ID:        fmt.Sprintf("eq-%d", i),
			Geo:       domain.Geo{Lat: float64(i), Lon: float64(-i)},
			DepthKm:   float64(i * 20),
			Magnitude: 1.5 + float64(i),
			Place:     fmt.Sprintf("place %d", i),
			Time:      time.Date(2024, time.April, 26, i, 0, 0, 0, time.UTC),
		})
	}
	return quakes
}

func samplePlates(t *testing.T) *domain.PlateLayer {
	t.Helper()
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.LineString{{-120, 35}, {-121, 36}}))
	fc.Append(geojson.NewFeature(orb.MultiLineString{{{10, 10}, {11, 11}}, {{12, 12}, {13, 13}}}))
	layer, err := domain.NewPlateLayer(fc)
	require.NoError(t, err)
	return layer
}

func layerByName(t *testing.T, layers []LayerView, name string) LayerView {
	t.Helper()
	for _, l := range layers {
		if l.Name == name {
			return l
		}
	}
	t.Fatalf("layer %q not found", name)
	return LayerView{}
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("base")
	require.NoError(t, err)
	assert.Equal(t, VariantBase, v)

	v, err = ParseVariant("layered")
	require.NoError(t, err)
	assert.Equal(t, VariantLayered, v)

	_, err = ParseVariant("satellite")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownVariant))
}

func TestNew_Base(t *testing.T) {
	m, err := New(VariantBase, nil)
	require.NoError(t, err)

	assert.Equal(t, VariantBase, m.Variant())
	assert.Nil(t, m.Control())
	assert.Nil(t, m.PlateGroup())
	require.NotNil(t, m.EarthquakeGroup())
	assert.Empty(t, m.EarthquakeGroup().Name())

	v := m.View(nil)
	assert.Equal(t, "map", v.ContainerID)
	assert.Equal(t, [2]float64{20.0, 0.0}, v.Center)
	assert.Equal(t, 2, v.Zoom)
	assert.False(t, v.Control)
	require.Len(t, v.BaseLayers, 1)
	assert.Equal(t, StreetMap, v.BaseLayers[0].Name)
	assert.True(t, v.BaseLayers[0].Active)
	require.Len(t, v.Layers, 1)
	assert.True(t, v.Layers[0].Visible)
	assert.Empty(t, v.Layers[0].Data.Features)
	assert.Len(t, v.Legend.Entries, 6)
}

func TestNew_Layered(t *testing.T) {
	m, err := New(VariantLayered, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, VariantLayered, m.Variant())
	require.NotNil(t, m.Control())
	assert.Equal(t, []string{StreetMap, TopographicMap}, m.Control().BaseLayers())
	assert.Equal(t, []string{Earthquakes, TectonicPlates}, m.Control().Overlays())
	assert.Equal(t, Earthquakes, m.EarthquakeGroup().Name())
	assert.Equal(t, TectonicPlates, m.PlateGroup().Name())
	assert.Equal(t, 0, m.EarthquakeGroup().Len())
	assert.Equal(t, 0, m.PlateGroup().Len())

	v := m.View(nil)
	assert.True(t, v.Control)
	require.Len(t, v.BaseLayers, 2)
	assert.True(t, v.BaseLayers[0].Active, "street map is active by default")
	assert.False(t, v.BaseLayers[1].Active)
	require.Len(t, v.Layers, 2)
	assert.True(t, layerByName(t, v.Layers, Earthquakes).Visible)
	assert.True(t, layerByName(t, v.Layers, TectonicPlates).Visible)
}

func TestNew_UnknownVariant(t *testing.T) {
	_, err := New(Variant("globe"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownVariant))
}

func TestRenderEarthquakes_OneMarkerPerQuake(t *testing.T) {
	m, err := New(VariantLayered, time.UTC)
	require.NoError(t, err)

	quakes := sampleQuakes(5)
	n := m.RenderEarthquakes(quakes)
	assert.Equal(t, 5, n)

	markers := m.EarthquakeGroup().Markers()
	require.Len(t, markers, 5)
	for i, mk := range markers {
		assert.Equal(t, quakes[i].ID, mk.EarthquakeID)
		assert.Contains(t, mk.Popup, quakes[i].Place)
		assert.Contains(t, mk.Popup, fmt.Sprintf("Magnitude: %g", quakes[i].Magnitude))
		assert.Contains(t, mk.Popup, fmt.Sprintf("Depth: %g km", quakes[i].DepthKm))
		assert.Equal(t, domain.DepthColor(quakes[i].DepthKm), mk.Style.FillColor)
	}
	assert.Equal(t, 0, m.PlateGroup().Len(), "earthquakes only land in their own group")
}

func TestRenderEarthquakes_BaseVariantAttachesToMap(t *testing.T) {
	m, err := New(VariantBase, nil)
	require.NoError(t, err)

	m.RenderEarthquakes(sampleQuakes(3))
	m.RenderPlates(samplePlates(t)) // ignored by the base variant

	v := m.View(nil)
	require.Len(t, v.Layers, 1)
	assert.Len(t, v.Layers[0].Data.Features, 3)
}

func TestRenderEarthquakes_ReplacesPrevious(t *testing.T) {
	m, err := New(VariantLayered, nil)
	require.NoError(t, err)

	m.RenderEarthquakes(sampleQuakes(4))
	m.RenderEarthquakes(sampleQuakes(2))

	assert.Equal(t, 2, m.EarthquakeGroup().Len())
}

func TestView_HidingPlatesKeepsEarthquakes(t *testing.T) {
	m, err := New(VariantLayered, nil)
	require.NoError(t, err)
	m.RenderEarthquakes(sampleQuakes(3))
	m.RenderPlates(samplePlates(t))

	before := m.View(nil)
	require.Len(t, before.Visible(), 2)

	state := m.DefaultState()
	require.NoError(t, state.SetOverlay(TectonicPlates, false))
	after := m.View(state)

	visible := after.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, Earthquakes, visible[0].Name)
	assert.Len(t, visible[0].Data.Features, 3)
	assert.Equal(t, layerByName(t, before.Layers, Earthquakes).Data, visible[0].Data)

	plates := layerByName(t, after.Layers, TectonicPlates)
	assert.False(t, plates.Visible)
	assert.Len(t, plates.Data.Features, 2, "hidden layers keep their geometry for re-enabling")
}

func TestView_PlatesStyled(t *testing.T) {
	m, err := New(VariantLayered, nil)
	require.NoError(t, err)
	m.RenderPlates(samplePlates(t))

	plates := layerByName(t, m.View(nil).Layers, TectonicPlates)
	assert.Equal(t, "paths", plates.Kind)
	for _, f := range plates.Data.Features {
		assert.Equal(t, "yellow", f.Properties["color"])
		assert.Equal(t, 2.0, f.Properties["weight"])
	}
}

func TestView_SelectBase(t *testing.T) {
	m, err := New(VariantLayered, nil)
	require.NoError(t, err)

	state := m.DefaultState()
	require.NoError(t, state.SelectBase(TopographicMap))
	v := m.View(state)

	assert.False(t, v.BaseLayers[0].Active)
	assert.True(t, v.BaseLayers[1].Active)
}

func TestLayerState_UnknownLayer(t *testing.T) {
	m, err := New(VariantLayered, nil)
	require.NoError(t, err)
	state := m.DefaultState()

	err = state.SelectBase("Satellite")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLayer))

	err = state.SetOverlay("Volcanoes", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLayer))

	err = state.SelectBase(Earthquakes)
	assert.True(t, errors.Is(err, ErrUnknownLayer), "overlays are not base layers")
}

func TestLayerState_IndependentOverlays(t *testing.T) {
	state := NewLayerControl([]string{StreetMap}, []string{Earthquakes, TectonicPlates}).DefaultState()

	require.NoError(t, state.SetOverlay(Earthquakes, false))
	assert.False(t, state.OverlayVisible(Earthquakes))
	assert.True(t, state.OverlayVisible(TectonicPlates))

	require.NoError(t, state.SetOverlay(Earthquakes, true))
	assert.True(t, state.OverlayVisible(Earthquakes))
	assert.Equal(t, StreetMap, state.Base())
}

func TestGroup_ConcurrentAccess(t *testing.T) {
	m, err := New(VariantLayered, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.RenderEarthquakes(sampleQuakes(i))
		}()
		go func() {
			defer wg.Done()
			_ = m.View(nil)
		}()
	}
	wg.Wait()
}
