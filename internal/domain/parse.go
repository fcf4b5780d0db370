package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrMalformedFeature marks a feed entry that cannot become an Earthquake.
var ErrMalformedFeature = errors.New("malformed feature")

// DecodeQuakeFeed unmarshals a USGS summary document.
func DecodeQuakeFeed(data []byte) (QuakeFeed, error) {
	var feed QuakeFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return QuakeFeed{}, fmt.Errorf("decode earthquake feed: %w", err)
	}
	return feed, nil
}

// ParseQuakeFeed converts every well-formed feature. Malformed features are
// returned as errors wrapping ErrMalformedFeature; they do not stop parsing.
func ParseQuakeFeed(feed QuakeFeed) ([]Earthquake, []error) {
	quakes := make([]Earthquake, 0, len(feed.Features))
	var errs []error
	for i, f := range feed.Features {
		q, err := ParseQuakeFeature(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("feature %d (%s): %w", i, f.ID, err))
			continue
		}
		quakes = append(quakes, q)
	}
	return quakes, errs
}

// ParseQuakeFeature converts one feed entry into an Earthquake.
func ParseQuakeFeature(f QuakeFeature) (Earthquake, error) {
	if t := f.Geometry.Type; t != "" && !strings.EqualFold(t, "Point") {
		return Earthquake{}, fmt.Errorf("%w: geometry type %q", ErrMalformedFeature, t)
	}
	c := f.Geometry.Coordinates
	if len(c) < 3 {
		return Earthquake{}, fmt.Errorf("%w: want [lon, lat, depth], got %d coordinates", ErrMalformedFeature, len(c))
	}
	lon, lat, depth := c[0], c[1], c[2]
	if !finite(lon) || !finite(lat) || !finite(depth) {
		return Earthquake{}, fmt.Errorf("%w: non-finite coordinates", ErrMalformedFeature)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Earthquake{}, fmt.Errorf("%w: coordinates out of range (%g, %g)", ErrMalformedFeature, lat, lon)
	}

	p := f.Properties
	if p.Mag == nil || !finite(*p.Mag) {
		return Earthquake{}, fmt.Errorf("%w: missing magnitude", ErrMalformedFeature)
	}
	if p.Time == nil {
		return Earthquake{}, fmt.Errorf("%w: missing time", ErrMalformedFeature)
	}

	q := Earthquake{
		ID:        f.ID,
		Geo:       Geo{Lat: lat, Lon: lon},
		DepthKm:   depth,
		Magnitude: *p.Mag,
		Time:      time.UnixMilli(*p.Time).UTC(),
		URL:       p.URL,
	}
	if p.Place != nil {
		q.Place = *p.Place
		q.PlaceSource = PlaceFromFeed
	}
	return q, nil
}

// EnrichEarthquake stamps the processing time.
func EnrichEarthquake(q Earthquake) Earthquake {
	q.ProcessedAt = clock.Now()
	return q
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
