// Command render draws a saved earthquake feed, and optionally a saved plate
// boundary document, into the map's view JSON and a standalone HTML page. A
// fixed clock keeps ProcessedAt stable so the output can be checked in as a
// fixture or published as a static page.
//
// Usage:
//
//	go run ./cmd/render \
//	  -feed internal/pipeline/testdata/all_week.geojson \
//	  -plates internal/pipeline/testdata/plates.json \
//	  -view-out data/view.json \
//	  -html-out data/index.html
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/couchcryptid/quake-map/internal/pipeline"
	"github.com/couchcryptid/quake-map/internal/web"
	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb/geojson"
)

var defaultNow = time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	feedPath := flag.String("feed", "", "path to a saved USGS GeoJSON summary feed")
	platesPath := flag.String("plates", "", "path to a saved plate boundary FeatureCollection (layered variant)")
	variantName := flag.String("variant", "layered", "map variant: base or layered")
	tz := flag.String("tz", "UTC", "IANA time zone for popup timestamps")
	now := flag.String("now", defaultNow.Format(time.RFC3339), "fixed processing time (RFC3339)")
	viewOut := flag.String("view-out", "", "output path for the view JSON")
	htmlOut := flag.String("html-out", "", "output path for the HTML page")
	flag.Parse()

	if *feedPath == "" || (*viewOut == "" && *htmlOut == "") {
		flag.Usage()
		return errors.New("missing required flags: -feed and one of -view-out, -html-out")
	}

	variant, err := mapview.ParseVariant(*variantName)
	if err != nil {
		return err
	}
	if variant == mapview.VariantLayered && *platesPath == "" {
		return errors.New("-plates is required for the layered variant")
	}
	loc, err := time.LoadLocation(*tz)
	if err != nil {
		return fmt.Errorf("load time zone %q: %w", *tz, err)
	}
	fixed, err := time.Parse(time.RFC3339, *now)
	if err != nil {
		return fmt.Errorf("parse -now: %w", err)
	}

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	clk := clockwork.NewFakeClockAt(fixed)
	domain.SetClock(clk)
	defer domain.SetClock(nil)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	metrics := observability.NewMetrics()

	m, err := mapview.New(variant, loc)
	if err != nil {
		return err
	}

	src := fileSource{quakes: *feedPath, plates: *platesPath}
	opts := []pipeline.Option{pipeline.WithClock(clk)}
	if variant == mapview.VariantLayered {
		opts = append(opts, pipeline.WithPlates(src))
	}
	p := pipeline.New(src, pipeline.NewTransformer(nil, metrics, logger), m, logger, metrics, opts...)

	snap := p.Load(context.Background())
	if !snap.OK() {
		return errors.Join(snap.Earthquakes.Err, snap.Plates.Err)
	}
	logger.Info("feed rendered",
		"earthquakes", len(snap.Earthquakes.Value),
		"plate_features", snap.Plates.Value.Len(),
	)

	view := m.View(nil)
	if *viewOut != "" {
		if err := writeJSON(*viewOut, view); err != nil {
			return err
		}
		logger.Info("wrote view", "path", *viewOut)
	}
	if *htmlOut != "" {
		var buf bytes.Buffer
		if err := web.RenderPage(&buf, view); err != nil {
			return err
		}
		if err := os.WriteFile(*htmlOut, buf.Bytes(), 0o644); err != nil { //nolint:gosec // output file, not sensitive
			return fmt.Errorf("write %s: %w", *htmlOut, err)
		}
		logger.Info("wrote page", "path", *htmlOut)
	}
	return nil
}

// fileSource serves the feeds from disk.
type fileSource struct {
	quakes string
	plates string
}

func (s fileSource) ExtractEarthquakes(_ context.Context) (domain.QuakeFeed, error) {
	data, err := os.ReadFile(s.quakes)
	if err != nil {
		return domain.QuakeFeed{}, fmt.Errorf("read earthquake feed: %w", err)
	}
	return domain.DecodeQuakeFeed(data)
}

func (s fileSource) ExtractPlates(_ context.Context) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(s.plates)
	if err != nil {
		return nil, fmt.Errorf("read plate feed: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode plate feed: %w", err)
	}
	return fc, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // output file, not sensitive
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
