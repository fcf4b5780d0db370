package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestEnrichWithGeocoding_NilGeocoder(t *testing.T) {
	q := Earthquake{ID: "us7000abcd", Geo: Geo{Lat: 19.2, Lon: -155.4}}

	result := EnrichWithGeocoding(context.Background(), q, nil, discardLogger())

	assert.Empty(t, result.Place)
	assert.Empty(t, result.PlaceSource)
}

func TestEnrichWithGeocoding_ReverseGeocode(t *testing.T) {
	geo := &mockGeocoder{
		result: GeocodingResult{
			FormattedAddress: "Pahala, Hawaii, United States",
			PlaceName:        "Pahala",
			Confidence:       0.9,
		},
	}
	q := Earthquake{ID: "hv74000001", Geo: Geo{Lat: 19.2, Lon: -155.4}}

	result := EnrichWithGeocoding(context.Background(), q, geo, discardLogger())

	assert.Equal(t, 1, geo.calls)
	assert.Equal(t, "Pahala, Hawaii, United States", result.Place)
	assert.Equal(t, PlaceFromReverse, result.PlaceSource)
}

func TestEnrichWithGeocoding_FeedPlaceKept(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{FormattedAddress: "Somewhere else"}}
	q := Earthquake{ID: "ak0241", Place: "12 km SW of Willow, Alaska", PlaceSource: PlaceFromFeed}

	result := EnrichWithGeocoding(context.Background(), q, geo, discardLogger())

	assert.Equal(t, 0, geo.calls, "events with a feed place should not be geocoded")
	assert.Equal(t, "12 km SW of Willow, Alaska", result.Place)
	assert.Equal(t, PlaceFromFeed, result.PlaceSource)
}

func TestEnrichWithGeocoding_Error_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("timeout")}
	q := Earthquake{ID: "nc7300", Geo: Geo{Lat: 38.8, Lon: -122.8}}

	result := EnrichWithGeocoding(context.Background(), q, geo, discardLogger())

	assert.Empty(t, result.Place)
	assert.Equal(t, PlaceFailed, result.PlaceSource)
}

func TestEnrichWithGeocoding_EmptyResult(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{}}
	q := Earthquake{ID: "us6000", Geo: Geo{Lat: -55.1, Lon: -28.3}}

	result := EnrichWithGeocoding(context.Background(), q, geo, discardLogger())

	assert.Equal(t, 1, geo.calls)
	assert.Empty(t, result.Place)
	assert.Empty(t, result.PlaceSource)
}
