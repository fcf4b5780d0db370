package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"golang.org/x/sync/errgroup"
)

// geocodeConcurrency bounds in-flight reverse geocoding requests per load.
const geocodeConcurrency = 4

// QuakeTransformer implements Transformer using the domain parse functions
// with optional reverse geocoding of unnamed events.
type QuakeTransformer struct {
	geocoder domain.Geocoder
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewTransformer creates a QuakeTransformer. Pass a nil geocoder to disable
// geocoding enrichment.
func NewTransformer(geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *QuakeTransformer {
	return &QuakeTransformer{
		geocoder: geocoder,
		metrics:  metrics,
		logger:   logger,
	}
}

// Transform parses every feature, skipping and counting malformed ones.
func (t *QuakeTransformer) Transform(ctx context.Context, feed domain.QuakeFeed) []domain.Earthquake {
	quakes, errs := domain.ParseQuakeFeed(feed)
	for _, err := range errs {
		t.logger.Warn("skipping malformed earthquake feature", "error", err)
	}
	t.metrics.FeaturesSkipped.Add(float64(len(errs)))

	for i := range quakes {
		quakes[i] = domain.EnrichEarthquake(quakes[i])
		if r := domain.MarkerRadius(quakes[i].Magnitude); r <= 0 {
			t.logger.Warn("non-positive marker radius",
				"earthquake_id", quakes[i].ID,
				"magnitude", quakes[i].Magnitude,
				"radius", r,
			)
		}
	}

	if t.geocoder != nil {
		t.geocode(ctx, quakes)
	}
	return quakes
}

// geocode names unnamed events in place. Each goroutine owns one index.
func (t *QuakeTransformer) geocode(ctx context.Context, quakes []domain.Earthquake) {
	var g errgroup.Group
	g.SetLimit(geocodeConcurrency)
	for i := range quakes {
		if quakes[i].Place != "" {
			continue
		}
		g.Go(func() error {
			quakes[i] = domain.EnrichWithGeocoding(ctx, quakes[i], t.geocoder, t.logger)
			return nil
		})
	}
	_ = g.Wait()
}
