package usgs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/paulmach/orb/geojson"
)

// Feed names used in logs and metric labels.
const (
	FeedEarthquakes = domain.FeedEarthquakes
	FeedPlates      = domain.FeedPlates
)

// maxFeedBytes bounds a feed body; the weekly "all" feed is a few MB.
const maxFeedBytes = 64 << 20

// Client fetches the earthquake summary feed and the plate-boundary document.
// It implements pipeline.EarthquakeExtractor and pipeline.PlateExtractor.
type Client struct {
	httpClient    *http.Client
	earthquakeURL string
	platesURL     string
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// NewClient creates a feed client. Each GET is bounded by timeout.
func NewClient(earthquakeURL, platesURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		earthquakeURL: earthquakeURL,
		platesURL:     platesURL,
		metrics:       metrics,
		logger:        logger,
	}
}

// ExtractEarthquakes downloads and decodes the earthquake feed.
func (c *Client) ExtractEarthquakes(ctx context.Context) (domain.QuakeFeed, error) {
	start := time.Now()
	body, err := c.get(ctx, c.earthquakeURL, FeedEarthquakes)
	if err == nil {
		var feed domain.QuakeFeed
		feed, err = domain.DecodeQuakeFeed(body)
		if err == nil {
			c.observe(FeedEarthquakes, start, nil)
			c.logger.Debug("earthquake feed fetched", "features", len(feed.Features), "bytes", len(body))
			return feed, nil
		}
	}
	c.observe(FeedEarthquakes, start, err)
	return domain.QuakeFeed{}, err
}

// ExtractPlates downloads and decodes the plate-boundary FeatureCollection.
func (c *Client) ExtractPlates(ctx context.Context) (*geojson.FeatureCollection, error) {
	start := time.Now()
	body, err := c.get(ctx, c.platesURL, FeedPlates)
	if err == nil {
		var fc *geojson.FeatureCollection
		fc, err = geojson.UnmarshalFeatureCollection(body)
		if err == nil {
			c.observe(FeedPlates, start, nil)
			c.logger.Debug("plate feed fetched", "features", len(fc.Features), "bytes", len(body))
			return fc, nil
		}
		err = fmt.Errorf("decode plate feed: %w", err)
	}
	c.observe(FeedPlates, start, err)
	return nil, err
}

func (c *Client) get(ctx context.Context, url, feed string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", feed, err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s feed request: %w", feed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s feed error: status %d: %s", feed, resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s feed: %w", feed, err)
	}
	return body, nil
}

func (c *Client) observe(feed string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.FeedFetches.WithLabelValues(feed, outcome).Inc()
	c.metrics.FeedFetchDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())
}
