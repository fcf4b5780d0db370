// Command validate checks saved feed fixtures before they are used in tests
// or published with cmd/render: the earthquake feed, the plate boundary
// document, and optionally a rendered view JSON. It verifies counts, ID
// uniqueness, marker styling, plate geometry, and view parity.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -feed internal/pipeline/testdata/all_week.geojson \
//	  -plates internal/pipeline/testdata/plates.json \
//	  -view data/view.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"html"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	feedPath := flag.String("feed", "", "path to a saved USGS GeoJSON summary feed")
	platesPath := flag.String("plates", "", "path to a saved plate boundary FeatureCollection (optional)")
	viewPath := flag.String("view", "", "path to a view JSON written by cmd/render (optional)")
	strict := flag.Bool("strict", false, "fail on malformed features instead of reporting them")
	flag.Parse()

	if *feedPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*feedPath, *platesPath, *viewPath, *strict); code != 0 {
		os.Exit(code)
	}
}

func run(feedPath, platesPath, viewPath string, strict bool) int {
	// Set a fixed clock matching cmd/render.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	// ── Load all data sources ──
	fmt.Println("=== Earthquake Feed Validation ===")
	fmt.Println()

	data, err := os.ReadFile(feedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read feed: %v\n", err)
		return 1
	}
	feed, err := domain.DecodeQuakeFeed(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	quakes, malformed := domain.ParseQuakeFeed(feed)

	var plates *geojson.FeatureCollection
	if platesPath != "" {
		if plates, err = loadPlates(platesPath); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
	}

	// ── Run validation phases ──
	phases := []*phase{
		validateFeedIntegrity(feed, malformed, strict),
		validateMarkers(quakes),
	}
	if plates != nil {
		phases = append(phases, validatePlates(plates))
	}
	if viewPath != "" {
		phases = append(phases, validateViewParity(viewPath, quakes))
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Features: %d in feed, %d parsed, %d malformed", len(feed.Features), len(quakes), len(malformed))
	if plates != nil {
		fmt.Printf(", %d plate boundaries", len(plates.Features))
	}
	fmt.Println()

	if !strict {
		for _, err := range malformed {
			fmt.Printf("  skipped: %v\n", err)
		}
	}

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadPlates(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plates: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode plates: %w", err)
	}
	return fc, nil
}

// ── Phase 1: Feed Integrity ──
// Metadata count, unique IDs, and (with -strict) no malformed features.

func validateFeedIntegrity(feed domain.QuakeFeed, malformed []error, strict bool) *phase {
	p := &phase{name: "Phase 1: Feed Integrity"}

	if feed.Metadata.Count != 0 && feed.Metadata.Count != len(feed.Features) {
		p.errorf("metadata.count=%d but %d features", feed.Metadata.Count, len(feed.Features))
	}

	seen := make(map[string]int, len(feed.Features))
	for i, f := range feed.Features {
		if f.ID == "" {
			p.errorf("feature %d: empty id", i)
			continue
		}
		if prev, ok := seen[f.ID]; ok {
			p.errorf("feature %d: duplicate id %s (first at %d)", i, f.ID, prev)
			continue
		}
		seen[f.ID] = i
	}

	if strict {
		for _, err := range malformed {
			if errors.Is(err, domain.ErrMalformedFeature) {
				p.errorf("%v", err)
			}
		}
	}
	return p
}

// ── Phase 2: Marker Styling ──
// Every parsed earthquake becomes one marker with the shared style rules.

func validateMarkers(quakes []domain.Earthquake) *phase {
	p := &phase{name: "Phase 2: Marker Styling"}

	m, err := mapview.New(mapview.VariantBase, time.UTC)
	if err != nil {
		p.errorf("map bootstrap: %v", err)
		return p
	}
	if n := m.RenderEarthquakes(quakes); n != len(quakes) {
		p.errorf("rendered %d markers for %d earthquakes", n, len(quakes))
	}

	colors := domain.DepthColors()
	for _, mk := range m.EarthquakeGroup().Markers() {
		q := findQuake(quakes, mk.EarthquakeID)
		if q == nil {
			p.errorf("marker %s has no earthquake", mk.EarthquakeID)
			continue
		}
		if !slices.Contains(colors, mk.Style.FillColor) {
			p.errorf("%s: fill colour %s outside the depth palette", q.ID, mk.Style.FillColor)
		}
		if want := domain.DepthColor(q.DepthKm); mk.Style.FillColor != want {
			p.errorf("%s: depth %.1f km got %s, want %s", q.ID, q.DepthKm, mk.Style.FillColor, want)
		}
		if !floatEq(mk.Style.Radius, q.Magnitude*4) {
			p.errorf("%s: radius %.3f, want %.3f", q.ID, mk.Style.Radius, q.Magnitude*4)
		}
		if !strings.Contains(mk.Popup, html.EscapeString(q.Place)) {
			p.errorf("%s: popup missing place %q", q.ID, q.Place)
		}
	}
	return p
}

// ── Phase 3: Plate Geometry ──

func validatePlates(fc *geojson.FeatureCollection) *phase {
	p := &phase{name: "Phase 3: Plate Geometry"}

	if len(fc.Features) == 0 {
		p.errorf("no plate boundary features")
	}
	for i, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			if len(g) < 2 {
				p.errorf("feature %d: line with %d points", i, len(g))
			}
		case orb.MultiLineString:
			if len(g) == 0 {
				p.errorf("feature %d: empty multi-line", i)
			}
		default:
			p.errorf("feature %d: unexpected geometry %T", i, f.Geometry)
		}
	}
	return p
}

// ── Phase 4: View Parity ──
// A rendered view carries exactly the parsed earthquakes.

func validateViewParity(path string, quakes []domain.Earthquake) *phase {
	p := &phase{name: "Phase 4: View Parity"}

	data, err := os.ReadFile(path)
	if err != nil {
		p.errorf("read view: %v", err)
		return p
	}
	var view struct {
		Layers []struct {
			Name string          `json:"name"`
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"layers"`
	}
	if err := json.Unmarshal(data, &view); err != nil {
		p.errorf("decode view: %v", err)
		return p
	}

	want := make(map[string]bool, len(quakes))
	for _, q := range quakes {
		want[q.ID] = true
	}

	got := map[string]bool{}
	for _, l := range view.Layers {
		if l.Kind != "markers" {
			continue
		}
		fc, err := geojson.UnmarshalFeatureCollection(l.Data)
		if err != nil {
			p.errorf("layer %q: %v", l.Name, err)
			continue
		}
		for _, f := range fc.Features {
			id := fmt.Sprint(f.ID)
			if !want[id] {
				p.errorf("view marker %s not in feed", id)
			}
			got[id] = true
		}
	}
	for id := range want {
		if !got[id] {
			p.errorf("earthquake %s missing from view", id)
		}
	}
	return p
}

// ── Helpers ──

func findQuake(quakes []domain.Earthquake, id string) *domain.Earthquake {
	for i := range quakes {
		if quakes[i].ID == id {
			return &quakes[i]
		}
	}
	return nil
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
