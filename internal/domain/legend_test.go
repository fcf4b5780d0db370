package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLegend(t *testing.T) {
	legend := NewLegend()

	assert.Equal(t, "Depth (km)", legend.Title)
	assert.Equal(t, "bottomright", legend.Position)
	require.Len(t, legend.Entries, 6)

	for i, e := range legend.Entries {
		assert.Equal(t, LegendBreakpoints[i], e.From)
		assert.Equal(t, DepthColor(LegendBreakpoints[i]+1), e.Color, "entry %d", i)
	}
}

func TestNewLegend_Labels(t *testing.T) {
	legend := NewLegend()

	labels := make([]string, 0, len(legend.Entries))
	for _, e := range legend.Entries {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"0–10", "10–30", "30–50", "50–70", "70–90", "90+"}, labels)

	last := legend.Entries[len(legend.Entries)-1]
	assert.True(t, strings.HasSuffix(last.Label, "+"))
	assert.Nil(t, last.To)

	for _, e := range legend.Entries[:5] {
		assert.Contains(t, e.Label, "–")
		require.NotNil(t, e.To)
	}
}

func TestNewLegend_ColorsMatchMarkers(t *testing.T) {
	legend := NewLegend()

	// A marker sitting inside each interval must share the swatch colour.
	for _, e := range legend.Entries {
		depth := e.From + 5
		assert.Equal(t, e.Color, StyleFor(Earthquake{DepthKm: depth}).FillColor, "depth %g", depth)
	}
}
