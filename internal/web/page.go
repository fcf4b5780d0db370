// Package web renders the map page served at "/".
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
)

// Leaflet assets loaded by the page.
const (
	LeafletCSS = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
	LeafletJS  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type pageData struct {
	Title      string
	LeafletCSS string
	LeafletJS  string
	Legend     template.HTML
	View       mapview.View
}

// Title returns the page title for a map variant.
func Title(v mapview.Variant) string {
	if v == mapview.VariantLayered {
		return "Earthquakes and Tectonic Plates"
	}
	return "Earthquakes, Past Week"
}

// RenderPage writes the full HTML page for a view. The view is embedded as
// JSON and drawn by Leaflet in the browser.
func RenderPage(w io.Writer, v mapview.View) error {
	legend, err := RenderLegend(v.Legend)
	if err != nil {
		return err
	}
	data := pageData{
		Title:      Title(v.Variant),
		LeafletCSS: LeafletCSS,
		LeafletJS:  LeafletJS,
		Legend:     legend,
		View:       v,
	}
	if err := templates.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// RenderLegend renders the legend control's inner HTML: a heading followed by
// one colour swatch row per entry.
func RenderLegend(l domain.Legend) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "legend", l); err != nil {
		return "", fmt.Errorf("render legend: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}
