package domain

import (
	"fmt"
	"math"
)

// Validate checks configuration invariants. Call after Normalize.
func (c *Config) Validate() error {
	if c.PortsPerRow < 1 {
		return fmt.Errorf("ports_per_row must be positive, got %d", c.PortsPerRow)
	}
	if c.PanelWidth < 1 {
		return fmt.Errorf("panel_width must be positive, got %d", c.PanelWidth)
	}
	if c.PortSize < 1 {
		return fmt.Errorf("port_size must be positive, got %d", c.PortSize)
	}
	if c.HGap() < 0 {
		return fmt.Errorf("horizontal_port_gap must not be negative, got %d", c.HGap())
	}
	if c.VGap() < 0 {
		return fmt.Errorf("vertical_port_gap must not be negative, got %d", c.VGap())
	}
	for name, pos := range c.PortPositions {
		if name == "" {
			return fmt.Errorf("port_positions contains an empty port name")
		}
		if !isFinite(pos.X) || !isFinite(pos.Y) {
			return fmt.Errorf("port_positions[%q] is not a finite point", name)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
