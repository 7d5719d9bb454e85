package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
)

// ErrSessionBusy is returned when the editor cannot accept an edit: the
// session is closed or a pointer gesture is open.
var ErrSessionBusy = errors.New("layout editor is not ready")

// parseObject decodes text and insists on a JSON object at the top level.
func parseObject(text string) (map[string]any, error) {
	var v any
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON: trailing data after object")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("layout must be a JSON object of port name to {\"x\":..,\"y\":..}")
	}
	return obj, nil
}

func numberField(m map[string]any, name string) (float64, bool) {
	n, ok := m[name].(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatJSON re-indents a layout document without touching any state.
func FormatJSON(text string) (string, error) {
	if _, err := parseObject(text); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(text)), "", "  "); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	return buf.String(), nil
}

// ExportJSON renders the explicit position map keyed by port name, in
// natural port order.
func (s *Session) ExportJSON() string {
	positions := s.reg.Positions()
	type entry struct {
		name string
		p    Point
	}
	entries := make([]entry, 0, len(positions))
	for key, p := range positions {
		name := key
		if it, ok := s.reg.Item(key); ok && it.Name != "" {
			name = it.Name
		}
		entries = append(entries, entry{name: name, p: p})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return domain.CompareNaturalPortOrder(a.name, b.name)
	})

	if len(entries) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for i, e := range entries {
		name, _ := json.Marshal(e.name)
		fmt.Fprintf(&b, "  %s: {\"x\": %s, \"y\": %s}", name, formatCoord(e.p.X), formatCoord(e.p.Y))
		if i < len(entries)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}")
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// ApplyJSON replaces the whole explicit position map with the entries of
// text. Keys resolve by port name (case-insensitive) or entity id; entries
// that do not resolve or are not {x,y} objects are skipped. On any parse
// error nothing changes.
func (s *Session) ApplyJSON(text string) error {
	if !s.active || s.GestureInProgress() {
		return ErrSessionBusy
	}
	obj, err := parseObject(text)
	if err != nil {
		return err
	}
	resolved := make(map[string]Point, len(obj))
	for name, raw := range obj {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		x, okX := numberField(m, "x")
		y, okY := numberField(m, "y")
		if !okX || !okY {
			continue
		}
		key, ok := s.reg.Resolve(name)
		if !ok {
			continue
		}
		resolved[key] = Point{X: x, Y: y}
	}

	s.edit(func() {
		s.reg.Replace(resolved)
		s.pinned = make(map[string]bool, len(resolved))
		for key := range resolved {
			s.pinned[key] = true
		}
	})
	s.render()
	return nil
}

// ResetLayout drops every stored position and writes the default grid back
// as the explicit map.
func (s *Session) ResetLayout() error {
	if !s.active || s.GestureInProgress() {
		return ErrSessionBusy
	}
	s.edit(func() {
		s.reg.Replace(s.reg.Defaults())
		s.pinned = make(map[string]bool)
	})
	s.render()
	return nil
}
