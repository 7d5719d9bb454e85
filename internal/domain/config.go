package domain

import "strings"

// Card defaults.
const (
	DefaultPortsPerRow = 24
	DefaultPanelWidth  = 740
	DefaultPortSize    = 18
	DefaultPortGap     = 10
)

// View modes.
const (
	ViewPanel = "panel"
	ViewList  = "list"
)

// Config is the panel configuration supplied by the host.
type Config struct {
	Title        string `json:"title,omitempty"`
	View         string `json:"view,omitempty"`
	Device       string `json:"device,omitempty"`
	AnchorEntity string `json:"anchor_entity,omitempty"`

	PortsPerRow       int  `json:"ports_per_row,omitempty"`
	PanelWidth        int  `json:"panel_width,omitempty"`
	PortSize          int  `json:"port_size,omitempty"`
	HorizontalPortGap *int `json:"horizontal_port_gap,omitempty"`
	VerticalPortGap   *int `json:"vertical_port_gap,omitempty"`

	BackgroundImage string           `json:"background_image,omitempty"`
	PortPositions   map[string]Point `json:"port_positions,omitempty"`
	CalibrationMode bool             `json:"calibration_mode,omitempty"`

	UplinkPorts        StringList `json:"uplink_ports,omitempty"`
	HidePorts          StringList `json:"hide_ports,omitempty"`
	HideControlButtons bool       `json:"hide_control_buttons,omitempty"`
	HideDiagnostics    bool       `json:"hide_diagnostics,omitempty"`

	// Deprecated gap keys, folded into the canonical ones by Normalize.
	PortGapX *int `json:"port_gap_x,omitempty"`
	PortGapY *int `json:"port_gap_y,omitempty"`
	GapX     *int `json:"gap_x,omitempty"`
	GapY     *int `json:"gap_y,omitempty"`
	Gap      *int `json:"gap,omitempty"`
}

// Normalize applies defaults and maps deprecated keys onto canonical ones.
func (c *Config) Normalize() {
	c.Title = strings.TrimSpace(c.Title)
	c.Device = strings.TrimSpace(c.Device)
	c.AnchorEntity = strings.TrimSpace(c.AnchorEntity)
	c.BackgroundImage = strings.TrimSpace(c.BackgroundImage)
	if c.View != ViewPanel {
		c.View = ViewList
	}
	if c.PortsPerRow <= 0 {
		c.PortsPerRow = DefaultPortsPerRow
	}
	if c.PanelWidth <= 0 {
		c.PanelWidth = DefaultPanelWidth
	}
	if c.PortSize <= 0 {
		c.PortSize = DefaultPortSize
	}

	if c.HorizontalPortGap == nil {
		c.HorizontalPortGap = firstInt(c.PortGapX, c.GapX, c.Gap)
	}
	if c.VerticalPortGap == nil {
		c.VerticalPortGap = firstInt(c.PortGapY, c.GapY, c.Gap)
	}
	if c.HorizontalPortGap == nil {
		c.HorizontalPortGap = intPtr(DefaultPortGap)
	}
	if c.VerticalPortGap == nil {
		c.VerticalPortGap = intPtr(DefaultPortGap)
	}
	c.PortGapX, c.PortGapY, c.GapX, c.GapY, c.Gap = nil, nil, nil, nil, nil
}

// HGap returns the horizontal gap after Normalize.
func (c *Config) HGap() int {
	if c.HorizontalPortGap == nil {
		return DefaultPortGap
	}
	return *c.HorizontalPortGap
}

// VGap returns the vertical gap after Normalize.
func (c *Config) VGap() int {
	if c.VerticalPortGap == nil {
		return DefaultPortGap
	}
	return *c.VerticalPortGap
}

// DevicePrefix returns the configured device, or the prefix inferred from the anchor entity.
func (c *Config) DevicePrefix() string {
	if c.Device != "" {
		return c.Device
	}
	return InferDevicePrefix(c.AnchorEntity)
}

// DeviceName is the device identifier used in notifications and flags.
func (c *Config) DeviceName() string {
	if c.Device != "" {
		return c.Device
	}
	return DefaultDeviceName
}

func firstInt(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return intPtr(*v)
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }
