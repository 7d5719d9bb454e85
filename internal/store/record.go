package store

import (
	"encoding/json"
	"math"
	"time"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/layout"
)

const (
	recordVersion       = 2
	layoutKeyPrefix     = "layout_v2:"
	forceOffKeyPrefix   = "layout_force_off:"
	legacyRecordVersion = 1
)

// StorageKey identifies a saved layout by device and background image. The
// title is not part of it, so renaming a panel keeps its layout.
func StorageKey(cfg *domain.Config) string {
	return layoutKeyPrefix + cfg.DevicePrefix() + ":" + cfg.BackgroundImage
}

// ForceOffKey names the flag that keeps the editor closed for a device.
func ForceOffKey(cfg *domain.Config) string {
	return forceOffKeyPrefix + cfg.DeviceName()
}

// Record is the persisted layout.
type Record struct {
	V          int                     `json:"v"`
	TS         int64                   `json:"ts"`
	Map        map[string]layout.Point `json:"map"`
	UplinkBox  *layout.Rect            `json:"uplink_box"`
	PortsBox   *layout.Rect            `json:"ports_box"`
	PortsOrder layout.OrderMode        `json:"ports_order"`
}

// NewRecord captures snap at time now.
func NewRecord(snap layout.Snapshot, now time.Time) Record {
	m := snap.Positions
	if m == nil {
		m = map[string]layout.Point{}
	}
	return Record{
		V:          recordVersion,
		TS:         now.UnixMilli(),
		Map:        m,
		UplinkBox:  snap.UplinkBox,
		PortsBox:   snap.MainBox,
		PortsOrder: layout.ParseOrderMode(string(snap.Order)),
	}
}

// EncodeRecord serializes r.
func EncodeRecord(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRecord parses a stored value. A bare name -> {x,y} object is read as
// a version 1 record. Anything unreadable reports false.
func DecodeRecord(data []byte) (Record, bool) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return Record{}, false
	}
	_, hasMap := top["map"]
	_, hasVersion := top["v"]
	if hasMap || hasVersion {
		var r Record
		if err := json.Unmarshal(data, &r); err != nil {
			return Record{}, false
		}
		r.Map = cleanPositions(r.Map)
		r.PortsOrder = layout.ParseOrderMode(string(r.PortsOrder))
		return r, true
	}

	legacy := make(map[string]layout.Point, len(top))
	for name, raw := range top {
		var p struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		}
		if err := json.Unmarshal(raw, &p); err != nil || p.X == nil || p.Y == nil {
			continue
		}
		legacy[name] = layout.Point{X: *p.X, Y: *p.Y}
	}
	return Record{
		V:          legacyRecordVersion,
		Map:        cleanPositions(legacy),
		PortsOrder: layout.OrderNumeric,
	}, true
}

func cleanPositions(m map[string]layout.Point) map[string]layout.Point {
	out := make(map[string]layout.Point, len(m))
	for k, p := range m {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			continue
		}
		out[k] = p
	}
	return out
}
