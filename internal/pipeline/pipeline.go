package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"
)

// EarthquakeExtractor fetches the earthquake summary feed.
type EarthquakeExtractor interface {
	ExtractEarthquakes(ctx context.Context) (domain.QuakeFeed, error)
}

// PlateExtractor fetches the plate-boundary FeatureCollection.
type PlateExtractor interface {
	ExtractPlates(ctx context.Context) (*geojson.FeatureCollection, error)
}

// Transformer turns a decoded feed into render-ready earthquakes.
type Transformer interface {
	Transform(ctx context.Context, feed domain.QuakeFeed) []domain.Earthquake
}

// BatchLoader publishes parsed earthquakes downstream.
type BatchLoader interface {
	LoadBatch(ctx context.Context, quakes []domain.Earthquake) error
}

// Renderer receives each successful feed. *mapview.Map implements it.
type Renderer interface {
	RenderEarthquakes(quakes []domain.Earthquake) int
	RenderPlates(layer *domain.PlateLayer)
}

// Snapshot is the outcome of one load. Plates is the zero result when the
// pipeline has no plate extractor.
type Snapshot struct {
	Earthquakes domain.FeedResult[[]domain.Earthquake]
	Plates      domain.FeedResult[*domain.PlateLayer]
}

// OK reports whether every feed in the load succeeded.
func (s Snapshot) OK() bool {
	return s.Earthquakes.OK() && s.Plates.OK()
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPlates enables the plate-boundary task.
func WithPlates(e PlateExtractor) Option {
	return func(p *Pipeline) { p.plates = e }
}

// WithPublisher publishes parsed earthquakes after they are rendered. Each
// event ID is published once while it stays in the feed.
func WithPublisher(l BatchLoader) Option {
	return func(p *Pipeline) { p.publisher = l }
}

// WithRefreshInterval reloads the feeds every d. Zero loads once.
func WithRefreshInterval(d time.Duration) Option {
	return func(p *Pipeline) { p.interval = d }
}

// WithClock sets the time source for the refresh ticker.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// Pipeline loads the feeds into the map: fetch, transform, render, for the
// earthquake and plate feeds independently.
type Pipeline struct {
	quakes      EarthquakeExtractor
	plates      PlateExtractor
	transformer Transformer
	renderer    Renderer
	publisher   BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	interval    time.Duration
	ready       atomic.Bool
	last        atomic.Pointer[Snapshot]

	mu        sync.Mutex
	published map[string]struct{}
}

// New creates a Pipeline with the given stages and observability.
func New(e EarthquakeExtractor, t Transformer, r Renderer, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		quakes:      e,
		transformer: t,
		renderer:    r,
		logger:      logger,
		metrics:     metrics,
		clock:       clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once the first load has finished, whatever its
// outcome, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("initial feed load has not completed")
	}
	return nil
}

// Last returns the most recent load outcome.
func (p *Pipeline) Last() (Snapshot, bool) {
	s := p.last.Load()
	if s == nil {
		return Snapshot{}, false
	}
	return *s, true
}

// Run loads the feeds immediately and then on every refresh tick until the
// context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("loader started", "refresh_interval", p.interval, "plates", p.plates != nil)
	p.metrics.LoaderRunning.Set(1)
	defer p.metrics.LoaderRunning.Set(0)

	p.Load(ctx)

	if p.interval <= 0 {
		<-ctx.Done()
		p.logger.Info("loader stopping", "reason", ctx.Err())
		return nil
	}

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("loader stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			p.Load(ctx)
		}
	}
}

// Load runs the earthquake and plate tasks concurrently and waits for both.
// A task never fails the group: its outcome is recorded in the snapshot, so
// one feed failing leaves the other untouched.
func (p *Pipeline) Load(ctx context.Context) Snapshot {
	start := p.clock.Now()
	var snap Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Earthquakes = p.loadEarthquakes(gctx)
		return nil
	})
	if p.plates != nil {
		g.Go(func() error {
			snap.Plates = p.loadPlates(gctx)
			return nil
		})
	}
	_ = g.Wait()

	p.last.Store(&snap)
	p.ready.Store(true)
	p.logger.Info("feeds loaded",
		"ok", snap.OK(),
		"earthquakes", len(snap.Earthquakes.Value),
		"plate_features", snap.Plates.Value.Len(),
		"duration", p.clock.Since(start),
	)
	return snap
}

func (p *Pipeline) loadEarthquakes(ctx context.Context) domain.FeedResult[[]domain.Earthquake] {
	feed, err := p.quakes.ExtractEarthquakes(ctx)
	if err != nil {
		p.logger.Error("earthquake feed unavailable, layer left unchanged", "feed", domain.FeedEarthquakes, "error", err)
		return domain.Failed[[]domain.Earthquake](domain.FeedEarthquakes, err)
	}

	quakes := p.transformer.Transform(ctx, feed)
	n := p.renderer.RenderEarthquakes(quakes)
	p.metrics.MarkersRendered.Set(float64(n))

	p.publish(ctx, quakes)
	return domain.Succeeded(domain.FeedEarthquakes, quakes)
}

func (p *Pipeline) loadPlates(ctx context.Context) domain.FeedResult[*domain.PlateLayer] {
	fc, err := p.plates.ExtractPlates(ctx)
	if err == nil {
		var layer *domain.PlateLayer
		layer, err = domain.NewPlateLayer(fc)
		if err == nil {
			p.renderer.RenderPlates(layer)
			p.metrics.PlateFeatures.Set(float64(layer.Len()))
			return domain.Succeeded(domain.FeedPlates, layer)
		}
	}
	p.logger.Error("plate feed unavailable, layer left unchanged", "feed", domain.FeedPlates, "error", err)
	return domain.Failed[*domain.PlateLayer](domain.FeedPlates, err)
}

// publish is best effort: a broker outage must not affect the map. Only IDs
// not published by an earlier load are sent. The published set is trimmed to
// the current feed, and a failed batch is retried on the next load.
func (p *Pipeline) publish(ctx context.Context, quakes []domain.Earthquake) {
	if p.publisher == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	seen := make(map[string]struct{}, len(quakes))
	var fresh []domain.Earthquake
	for _, q := range quakes {
		if _, ok := p.published[q.ID]; ok {
			seen[q.ID] = struct{}{}
			continue
		}
		fresh = append(fresh, q)
	}
	p.published = seen

	if len(fresh) == 0 {
		return
	}
	if err := p.publisher.LoadBatch(ctx, fresh); err != nil {
		p.logger.Error("publish earthquakes failed", "error", err, "batch_size", len(fresh))
		p.metrics.PublishErrors.Inc()
		return
	}
	for _, q := range fresh {
		seen[q.ID] = struct{}{}
	}
	p.metrics.EventsPublished.Add(float64(len(fresh)))
	p.logger.Debug("earthquakes published", "new", len(fresh), "already_published", len(quakes)-len(fresh))
}
