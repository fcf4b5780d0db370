package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding fills in the place of an earthquake the feed left
// unnamed. Events that already have a place, or a nil geocoder, pass through.
// Failures leave the place empty and set PlaceSource to "failed".
func EnrichWithGeocoding(ctx context.Context, q Earthquake, geocoder Geocoder, logger *slog.Logger) Earthquake {
	if geocoder == nil || q.Place != "" {
		return q
	}

	result, err := geocoder.ReverseGeocode(ctx, q.Geo.Lat, q.Geo.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"earthquake_id", q.ID,
			"lat", q.Geo.Lat,
			"lon", q.Geo.Lon,
			"error", err,
		)
		q.PlaceSource = PlaceFailed
		return q
	}
	if result.FormattedAddress == "" {
		return q
	}

	q.Place = result.FormattedAddress
	q.PlaceSource = PlaceFromReverse
	return q
}
