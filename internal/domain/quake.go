package domain

import (
	"time"
)

// QuakeFeed is the USGS GeoJSON summary document as decoded from the wire.
type QuakeFeed struct {
	Type     string         `json:"type"`
	Metadata FeedMetadata   `json:"metadata"`
	Features []QuakeFeature `json:"features"`
}

// FeedMetadata describes a USGS summary feed.
type FeedMetadata struct {
	Generated int64  `json:"generated"` // epoch ms
	URL       string `json:"url"`
	Title     string `json:"title"`
	Count     int    `json:"count"`
}

// QuakeFeature is one feed entry. Coordinates are kept as a plain slice
// because the depth lives in the third position.
type QuakeFeature struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Geometry   QuakeGeometry   `json:"geometry"`
	Properties QuakeProperties `json:"properties"`
}

// QuakeGeometry is a GeoJSON Point with [lon, lat, depth] coordinates.
type QuakeGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// QuakeProperties holds the properties the map consumes. Nullable fields are
// pointers so a null can be told apart from zero.
type QuakeProperties struct {
	Mag   *float64 `json:"mag"`
	Place *string  `json:"place"`
	Time  *int64   `json:"time"` // epoch ms
	URL   string   `json:"url,omitempty"`
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place sources.
const (
	PlaceFromFeed    = "feed"
	PlaceFromReverse = "reverse"
	PlaceFailed      = "failed"
)

// Earthquake is the parsed, domain-level event.
type Earthquake struct {
	ID          string    `json:"id"`
	Geo         Geo       `json:"geo"`
	DepthKm     float64   `json:"depth_km"`
	Magnitude   float64   `json:"magnitude"`
	Place       string    `json:"place"`
	PlaceSource string    `json:"place_source,omitempty"`
	Time        time.Time `json:"time"`
	URL         string    `json:"url,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Feed names used in feed results, logs and metric labels.
const (
	FeedEarthquakes = "earthquakes"
	FeedPlates      = "plates"
)

// FeedResult is the outcome of one feed fetch: either Value or Err is meaningful.
type FeedResult[T any] struct {
	Feed      string
	Value     T
	Err       error
	FetchedAt time.Time
}

// OK reports whether the fetch succeeded.
func (r FeedResult[T]) OK() bool { return r.Err == nil }

// Succeeded builds a successful result stamped with the package clock.
func Succeeded[T any](feed string, v T) FeedResult[T] {
	return FeedResult[T]{Feed: feed, Value: v, FetchedAt: clock.Now()}
}

// Failed builds a failed result stamped with the package clock.
func Failed[T any](feed string, err error) FeedResult[T] {
	return FeedResult[T]{Feed: feed, Err: err, FetchedAt: clock.Now()}
}
