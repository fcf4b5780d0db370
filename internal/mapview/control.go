package mapview

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownLayer is returned when a selection names a layer the control does not list.
var ErrUnknownLayer = errors.New("unknown layer")

// LayerControl lists the base layers (radio-exclusive) and overlays
// (independent checkboxes) a user can switch between.
type LayerControl struct {
	bases    []string
	overlays []string
}

// NewLayerControl creates a control. The first base layer is the default.
func NewLayerControl(bases, overlays []string) *LayerControl {
	return &LayerControl{
		bases:    slices.Clone(bases),
		overlays: slices.Clone(overlays),
	}
}

// BaseLayers returns the base layer names in display order.
func (c *LayerControl) BaseLayers() []string { return slices.Clone(c.bases) }

// Overlays returns the overlay names in display order.
func (c *LayerControl) Overlays() []string { return slices.Clone(c.overlays) }

// DefaultState is the state at load time: first base layer active, every
// overlay visible.
func (c *LayerControl) DefaultState() *LayerState {
	s := &LayerState{control: c, visible: make(map[string]bool, len(c.overlays))}
	if len(c.bases) > 0 {
		s.base = c.bases[0]
	}
	for _, name := range c.overlays {
		s.visible[name] = true
	}
	return s
}

// LayerState is one user's selection in a LayerControl.
type LayerState struct {
	control *LayerControl
	base    string
	visible map[string]bool
}

// Base returns the active base layer.
func (s *LayerState) Base() string { return s.base }

// OverlayVisible reports whether the named overlay is shown.
func (s *LayerState) OverlayVisible(name string) bool { return s.visible[name] }

// SelectBase activates a base layer, deactivating the previous one.
func (s *LayerState) SelectBase(name string) error {
	if !slices.Contains(s.control.bases, name) {
		return fmt.Errorf("select base %q: %w", name, ErrUnknownLayer)
	}
	s.base = name
	return nil
}

// SetOverlay shows or hides one overlay without touching the others.
func (s *LayerState) SetOverlay(name string, visible bool) error {
	if !slices.Contains(s.control.overlays, name) {
		return fmt.Errorf("toggle overlay %q: %w", name, ErrUnknownLayer)
	}
	s.visible[name] = visible
	return nil
}
