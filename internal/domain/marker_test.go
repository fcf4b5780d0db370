package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlace = "10 km NE of Pahala, Hawaii"

func testQuake() Earthquake {
	return Earthquake{
		ID:        "hv74000001",
		Geo:       Geo{Lat: 19.2, Lon: -155.4},
		DepthKm:   31.5,
		Magnitude: 2.1,
		Place:     testPlace,
		Time:      time.Date(2024, time.April, 26, 14, 0, 0, 0, time.UTC),
	}
}

func TestNewMarker(t *testing.T) {
	m := NewMarker(testQuake(), time.UTC)

	assert.Equal(t, "hv74000001", m.EarthquakeID)
	assert.Equal(t, Geo{Lat: 19.2, Lon: -155.4}, m.Geo)
	assert.InDelta(t, 8.4, m.Style.Radius, 1e-9)
	assert.Equal(t, "#FC4E2A", m.Style.FillColor)
	assert.Contains(t, m.Popup, testPlace)
	assert.Contains(t, m.Popup, "Magnitude: 2.1")
	assert.Contains(t, m.Popup, "Depth: 31.5 km")
}

func TestPopup(t *testing.T) {
	popup := Popup(testQuake(), time.UTC)
	assert.Equal(t,
		"<h3>10 km NE of Pahala, Hawaii</h3><hr><p>Magnitude: 2.1</p><p>Depth: 31.5 km</p><p>Time: 4/26/2024, 2:00:00 PM</p>",
		popup,
	)
}

func TestPopup_EscapesPlace(t *testing.T) {
	q := testQuake()
	q.Place = `<script>alert("x")</script>`

	popup := Popup(q, nil)

	assert.NotContains(t, popup, "<script>")
	assert.Contains(t, popup, "&lt;script&gt;")
}

func TestFormatLocalTime(t *testing.T) {
	ts := time.Date(2024, time.April, 26, 14, 5, 9, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	assert.Equal(t, "4/26/2024, 2:05:09 PM", FormatLocalTime(ts, nil))
	assert.Equal(t, "4/26/2024, 11:05:09 PM", FormatLocalTime(ts, tokyo))
}

func TestMarker_Feature(t *testing.T) {
	f := NewMarker(testQuake(), time.UTC).Feature()

	assert.Equal(t, "hv74000001", f.ID)
	assert.Equal(t, orb.Point{-155.4, 19.2}, f.Geometry)
	assert.Equal(t, "#FC4E2A", f.Properties["fillColor"])
	assert.InDelta(t, 8.4, f.Properties["radius"], 1e-9)
	assert.Equal(t, 0.8, f.Properties["fillOpacity"])
	assert.Contains(t, f.Properties["popup"], testPlace)
}

func TestNewPlateLayer(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	boundary := geojson.NewFeature(orb.LineString{{-120, 35}, {-121, 36}})
	boundary.Properties["Name"] = "NA-PA"
	fc.Append(boundary)

	layer, err := NewPlateLayer(fc)
	require.NoError(t, err)
	assert.Equal(t, 1, layer.Len())
	assert.Equal(t, PathStyle{Color: "yellow", Weight: 2}, layer.Style)

	styled := layer.Collection()
	require.Len(t, styled.Features, 1)
	assert.Equal(t, "yellow", styled.Features[0].Properties["color"])
	assert.Equal(t, 2.0, styled.Features[0].Properties["weight"])
	assert.Equal(t, "NA-PA", styled.Features[0].Properties["Name"])
	_, touched := boundary.Properties["color"]
	assert.False(t, touched, "source collection should not be modified")
}

func TestNewPlateLayer_Nil(t *testing.T) {
	_, err := NewPlateLayer(nil)
	require.Error(t, err)

	var layer *PlateLayer
	assert.Equal(t, 0, layer.Len())
	assert.Empty(t, layer.Collection().Features)
}

func TestFeedResult(t *testing.T) {
	ok := Succeeded("earthquakes", 3)
	assert.True(t, ok.OK())
	assert.Equal(t, 3, ok.Value)

	failed := Failed[int]("plates", errors.New("boom"))
	assert.False(t, failed.OK())
	assert.Equal(t, "plates", failed.Feed)
}
