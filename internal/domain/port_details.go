package domain

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Diagnostic entity suffixes in display order.
var DiagnosticSuffixes = []string{"hostname", "manufacturer", "model", "firmware_revision", "uptime"}

// Bandwidth holds the throughput sensors belonging to one port.
type Bandwidth struct {
	RxRate  float64
	TxRate  float64
	RxTotal float64
	TxTotal float64
	HasRate bool
}

// RenderDetailsMap returns an ordered list of keys and a map of detail values
// for a port. This is pure computation without UI side effects.
func (p *Port) RenderDetailsMap(c *Catalog) ([]string, map[string]string) {
	index := []string{}
	result := map[string]string{}
	pr := message.NewPrinter(language.English)

	add := func(key, value string) {
		if value == "" {
			return
		}
		index = append(index, key)
		result[key] = value
	}

	add("Name", p.Name)
	add("Entity", p.EntityID)
	add("Alias", p.Alias)
	add("State", p.State)
	add("Admin", p.Admin)
	add("Oper", p.Oper)
	if mbps, ok := ParseSpeedMbps(p.Speed); ok {
		add("Speed", SpeedLabel(mbps))
	} else {
		add("Speed", p.Speed)
	}
	add("VLAN", p.VLAN)
	add("IP", p.IP)

	bw := c.Bandwidth(p)
	if bw.HasRate {
		add("RX Throughput", pr.Sprintf("%d bps", int64(bw.RxRate)))
		add("TX Throughput", pr.Sprintf("%d bps", int64(bw.TxRate)))
	}
	if bw.RxTotal > 0 || bw.TxTotal > 0 {
		add("RX Total", pr.Sprintf("%d", int64(bw.RxTotal)))
		add("TX Total", pr.Sprintf("%d", int64(bw.TxTotal)))
	}
	return index, result
}

// Bandwidth reads sensor.<object>_{rx,tx}_{throughput,total} for a port.
func (c *Catalog) Bandwidth(p *Port) Bandwidth {
	base := ObjectID(p.EntityID)
	if base == "" {
		return Bandwidth{}
	}
	rx, rxOK := c.numericState("sensor." + base + "_rx_throughput")
	tx, txOK := c.numericState("sensor." + base + "_tx_throughput")
	rxTotal, _ := c.numericState("sensor." + base + "_rx_total")
	txTotal, _ := c.numericState("sensor." + base + "_tx_total")
	return Bandwidth{
		RxRate:  rx,
		TxRate:  tx,
		RxTotal: rxTotal,
		TxTotal: txTotal,
		HasRate: rxOK || txOK,
	}
}

// Diagnostics returns the device diagnostics found as sensor.<prefix>_<suffix>.
func (c *Catalog) Diagnostics() ([]string, map[string]string) {
	index := []string{}
	result := map[string]string{}
	if c.Prefix == "" {
		return index, result
	}
	for _, suffix := range DiagnosticSuffixes {
		st, ok := c.State("sensor." + strings.ToLower(c.Prefix) + "_" + suffix)
		if !ok || strings.TrimSpace(st.State) == "" {
			continue
		}
		label := diagnosticLabel(suffix)
		index = append(index, label)
		result[label] = st.State
	}
	return index, result
}

func diagnosticLabel(suffix string) string {
	if suffix == "firmware_revision" {
		return "Firmware"
	}
	return strings.ToUpper(suffix[:1]) + suffix[1:]
}

func (c *Catalog) numericState(entityID string) (float64, bool) {
	st, ok := c.State(entityID)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(st.State), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Status classifies a port by admin and oper state.
type Status int

const (
	StatusUnknown Status = iota
	StatusUp
	StatusDown
	StatusAdminDown
)

// StatusColors are the panel colors for each status.
var StatusColors = map[Status]string{
	StatusUnknown:   "#9ca3af",
	StatusUp:        "#22c55e",
	StatusDown:      "#ef4444",
	StatusAdminDown: "#f59e0b",
}

func (s Status) String() string {
	switch s {
	case StatusUp:
		return "up"
	case StatusDown:
		return "down"
	case StatusAdminDown:
		return "admin down"
	}
	return "unknown"
}

// Color returns the hex color of s.
func (s Status) Color() string { return StatusColors[s] }

// Status returns the port status. Admin down wins over oper state.
func (p *Port) Status() Status {
	admin := strings.ToLower(strings.TrimSpace(p.Admin))
	oper := strings.ToLower(strings.TrimSpace(p.Oper))
	switch {
	case admin == "down":
		return StatusAdminDown
	case admin == "up" && oper == "up":
		return StatusUp
	case admin == "up" && oper == "down":
		return StatusDown
	}
	return StatusUnknown
}
