package domain

import (
	"encoding/json"
	"slices"
	"testing"
)

// ---------- helpers.go ----------

func TestCompareNaturalPortOrder(t *testing.T) {
	tests := []struct {
		left, right string
		want        int
	}{
		{"Gi1/0/2", "Gi1/0/10", -1},
		{"Gi1/0/10", "Gi1/0/2", 1},
		{"Gi1/0/2", "Gi1/0/02", -1},
		{"Gi1/0/02", "Gi1/0/10", -1},
		{"gi1/0/1", "Gi1/0/1", 1},
		{"Gi1/0/1", "Gi1/0/1", 0},
		{"Gi1/0/1", "Te1/0/1", -1},
		{"Port1", "Port1a", -1},
		{"a", "1", -1},
		{"1", "a", 1},
		{"", "a", -1},
		{"Po10", "Po9", 1},
	}
	for _, tt := range tests {
		t.Run(tt.left+"_vs_"+tt.right, func(t *testing.T) {
			got := CompareNaturalPortOrder(tt.left, tt.right)
			if got != tt.want {
				t.Errorf("CompareNaturalPortOrder(%q, %q) = %d, want %d", tt.left, tt.right, got, tt.want)
			}
		})
	}
}

func TestCompareNaturalPortOrderSort(t *testing.T) {
	names := []string{"Gi1/0/10", "Gi1/0/02", "Gi1/0/2", "Gi1/0/1", "Te1/1/1", "Gi1/0/9"}
	slices.SortFunc(names, CompareNaturalPortOrder)
	want := []string{"Gi1/0/1", "Gi1/0/2", "Gi1/0/02", "Gi1/0/9", "Gi1/0/10", "Te1/1/1"}
	if !slices.Equal(names, want) {
		t.Errorf("sorted = %v, want %v", names, want)
	}
}

func TestLastNumber(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"Gi1/0/7", 7, true},
		{"Gi1/0/12", 12, true},
		{"Port 3a", 3, true},
		{"mgmt", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := LastNumber(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("LastNumber(%q) = %d, %v; want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestInferDevicePrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"switch.study_gi1_0_1", "study"},
		{"switch.switch_study_gi1_0_1", "switch_study"},
		{"switch.core_te1_1_1", "core"},
		{"switch.lab_port1", "lab"},
		{"sensor.rack", "rack"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := InferDevicePrefix(tt.input); got != tt.want {
				t.Errorf("InferDevicePrefix(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSpeedMbps(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"1000", 1000, true},
		{"1000000000", 1000, true},
		{"1 Gbps", 1000, true},
		{"2.5Gbps", 2500, true},
		{"100 mbps", 100, true},
		{"fast", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSpeedMbps(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseSpeedMbps(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
	if got := SpeedLabel(2500); got != "2.5 Gbps" {
		t.Errorf("SpeedLabel(2500) = %q", got)
	}
	if got := SpeedLabel(100); got != "100 Mbps" {
		t.Errorf("SpeedLabel(100) = %q", got)
	}
}

// ---------- types.go ----------

func TestStringListUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  StringList
	}{
		{"list", `["Gi1/0/49", " Gi1/0/50 "]`, StringList{"Gi1/0/49", "Gi1/0/50"}},
		{"csv", `"Gi1/0/49, Gi1/0/50,,"`, StringList{"Gi1/0/49", "Gi1/0/50"}},
		{"empty", `""`, StringList{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
	set := StringList{" Gi1/0/49 "}.Set()
	if !set["gi1/0/49"] {
		t.Errorf("Set() = %v, expected normalized member", set)
	}
}

// ---------- config.go ----------

func TestPointUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Point
	}{
		{"plain", `{"x": 1.5, "y": 2}`, Point{X: 1.5, Y: 2}},
		{"yaml boolean y key", `{"x": 10, "true": 20}`, Point{X: 10, Y: 20}},
		{"y wins over true", `{"x": 1, "y": 3, "true": 4}`, Point{X: 1, Y: 3}},
		{"missing y", `{"x": 7}`, Point{X: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Point
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	var bad Point
	if err := json.Unmarshal([]byte(`{"x": "left"}`), &bad); err == nil {
		t.Error("expected an error for a non-numeric x")
	}
}

func TestConfigNormalizeDefaults(t *testing.T) {
	c := &Config{View: "bogus"}
	c.Normalize()
	if c.View != ViewList {
		t.Errorf("View = %q, want %q", c.View, ViewList)
	}
	if c.PortsPerRow != 24 || c.PanelWidth != 740 || c.PortSize != 18 {
		t.Errorf("defaults = %d/%d/%d", c.PortsPerRow, c.PanelWidth, c.PortSize)
	}
	if c.HGap() != 10 || c.VGap() != 10 {
		t.Errorf("gaps = %d/%d, want 10/10", c.HGap(), c.VGap())
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestConfigNormalizeLegacyGaps(t *testing.T) {
	five, seven, three := 5, 7, 3
	tests := []struct {
		name         string
		cfg          Config
		wantH, wantV int
	}{
		{"gap", Config{Gap: &three}, 3, 3},
		{"port_gap_xy", Config{PortGapX: &five, PortGapY: &seven, Gap: &three}, 5, 7},
		{"gap_x_only", Config{GapX: &five}, 5, 10},
		{"canonical_wins", Config{HorizontalPortGap: &seven, Gap: &three}, 7, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.cfg
			c.Normalize()
			if c.HGap() != tt.wantH || c.VGap() != tt.wantV {
				t.Errorf("gaps = %d/%d, want %d/%d", c.HGap(), c.VGap(), tt.wantH, tt.wantV)
			}
			if c.Gap != nil || c.GapX != nil || c.PortGapX != nil {
				t.Error("deprecated keys should be cleared")
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	neg := -1
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{PortsPerRow: 8, PanelWidth: 100, PortSize: 18}, false},
		{"zero_per_row", Config{PanelWidth: 100, PortSize: 18}, true},
		{"negative_gap", Config{PortsPerRow: 8, PanelWidth: 100, PortSize: 18, HorizontalPortGap: &neg}, true},
		{"empty_position_name", Config{PortsPerRow: 8, PanelWidth: 100, PortSize: 18, PortPositions: map[string]Point{"": {}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDevicePrefix(t *testing.T) {
	c := &Config{AnchorEntity: "switch.study_gi1_0_1"}
	if got := c.DevicePrefix(); got != "study" {
		t.Errorf("DevicePrefix() = %q", got)
	}
	if got := c.DeviceName(); got != "all" {
		t.Errorf("DeviceName() = %q", got)
	}
	c.Device = "core"
	if got := c.DevicePrefix(); got != "core" {
		t.Errorf("DevicePrefix() = %q", got)
	}
}

// ---------- catalog.go ----------

func testStates() States {
	return States{
		"switch.study_gi1_0_10":              {State: "on", Attributes: map[string]any{"Name": "Gi1/0/10"}},
		"switch.study_gi1_0_2":               {State: "off", Attributes: map[string]any{"Name": "Gi1/0/2", "Speed": "1000000000", "Admin": "up", "Oper": "down"}},
		"switch.study_gi1_0_1":               {State: "on", Attributes: map[string]any{"Name": "Gi1/0/1", "VLAN ID": 20}},
		"switch.study_vlan1":                 {State: "on"},
		"switch.other_gi1_0_1":               {State: "on", Attributes: map[string]any{"Name": "Gi1/0/1"}},
		"sensor.study_hostname":              {State: "study-sw"},
		"sensor.study_model":                 {State: "GS110"},
		"sensor.study_gi1_0_2_rx_throughput": {State: "1500"},
		"sensor.study_gi1_0_2_tx_throughput": {State: "250"},
	}
}

func TestNewCatalog(t *testing.T) {
	cfg := &Config{Device: "study", HidePorts: StringList{"gi1/0/10"}}
	c := NewCatalog(testStates(), cfg)
	got := c.Keys()
	want := []string{"Gi1/0/1", "Gi1/0/2", "switch.study_vlan1"}
	if !slices.Equal(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if p := c.Resolve("GI1/0/2"); p == nil || p.EntityID != "switch.study_gi1_0_2" {
		t.Errorf("Resolve by name = %v", p)
	}
	if p := c.Resolve("switch.study_gi1_0_1"); p == nil || p.Name != "Gi1/0/1" {
		t.Errorf("Resolve by entity = %v", p)
	}
	if p := c.Resolve("Gi1/0/99"); p != nil {
		t.Errorf("Resolve unknown = %v", p)
	}
	if p := c.Get("Gi1/0/1"); p == nil || p.VLAN != "20" {
		t.Errorf("VLAN attribute = %v", p)
	}
}

func TestPortRenderDetailsMap(t *testing.T) {
	c := NewCatalog(testStates(), &Config{Device: "study"})
	p := c.Get("Gi1/0/2")
	index, data := p.RenderDetailsMap(c)
	if data["Speed"] != "1 Gbps" {
		t.Errorf("Speed = %q", data["Speed"])
	}
	if data["RX Throughput"] != "1,500 bps" {
		t.Errorf("RX Throughput = %q", data["RX Throughput"])
	}
	if index[0] != "Name" {
		t.Errorf("index[0] = %q", index[0])
	}
	if _, ok := data["VLAN"]; ok {
		t.Error("empty VLAN should be omitted")
	}

	diagIndex, diag := c.Diagnostics()
	if !slices.Equal(diagIndex, []string{"Hostname", "Model"}) {
		t.Errorf("Diagnostics index = %v", diagIndex)
	}
	if diag["Hostname"] != "study-sw" {
		t.Errorf("Hostname = %q", diag["Hostname"])
	}
}

// ---------- port_ops.go ----------

type recordingHost struct {
	states States
	calls  []string
}

func (h *recordingHost) States() States { return h.states }
func (h *recordingHost) CallService(domain, service string, data map[string]any) {
	h.calls = append(h.calls, domain+"."+service+":"+data["entity_id"].(string))
}

func TestTogglePort(t *testing.T) {
	host := &recordingHost{}
	cfg := &Config{}
	on := &Port{EntityID: "switch.a", State: "on"}
	off := &Port{EntityID: "switch.b", State: "off"}

	if svc, err := TogglePort(host, cfg, on); err != nil || svc != ServiceTurnOff {
		t.Errorf("toggle on port = %q, %v", svc, err)
	}
	if svc, err := TogglePort(host, cfg, off); err != nil || svc != ServiceTurnOn {
		t.Errorf("toggle off port = %q, %v", svc, err)
	}
	want := []string{"switch.turn_off:switch.a", "switch.turn_on:switch.b"}
	if !slices.Equal(host.calls, want) {
		t.Errorf("calls = %v, want %v", host.calls, want)
	}

	cfg.HideControlButtons = true
	if _, err := TogglePort(host, cfg, on); err != ErrControlsHidden {
		t.Errorf("hidden controls err = %v", err)
	}
}

func TestPortStatus(t *testing.T) {
	tests := []struct {
		admin, oper string
		want        Status
	}{
		{"Up", "Up", StatusUp},
		{"up", "down", StatusDown},
		{"Down", "Up", StatusAdminDown},
		{"Down", "Down", StatusAdminDown},
		{"up", "notPresent", StatusUnknown},
		{"", "", StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.admin+"/"+tt.oper, func(t *testing.T) {
			p := &Port{Admin: tt.admin, Oper: tt.oper}
			if got := p.Status(); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
	if StatusUp.Color() != "#22c55e" {
		t.Errorf("up color = %s", StatusUp.Color())
	}
}
