package domain

import (
	"encoding/json"
	"strings"
)

// Service domain and names used for port toggles.
const (
	SwitchDomain      = "switch"
	ServiceTurnOn     = "turn_on"
	ServiceTurnOff    = "turn_off"
	SwitchStateOn     = "on"
	SwitchStateOff    = "off"
	DefaultDeviceName = "all"
)

// Point is a position in logical panel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UnmarshalJSON also takes the y coordinate from a "true" key: YAML 1.1 reads
// an unquoted y key as a boolean, and the YAML to JSON conversion keeps it so.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw struct {
		X    float64  `json:"x"`
		Y    *float64 `json:"y"`
		True *float64 `json:"true"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Point{X: raw.X}
	switch {
	case raw.Y != nil:
		p.Y = *raw.Y
	case raw.True != nil:
		p.Y = *raw.True
	}
	return nil
}

// State is one entity as published by the host: a string value plus attributes.
type State struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Attr returns the first non-empty attribute among names, stringified.
func (s State) Attr(names ...string) string {
	for _, name := range names {
		v, ok := s.Attributes[name]
		if !ok || v == nil {
			continue
		}
		text := strings.TrimSpace(stringify(v))
		if text != "" {
			return text
		}
	}
	return ""
}

// States is the host's read-only entity_id -> state map.
type States map[string]State

// Host is the dashboard host the panel runs inside.
type Host interface {
	// States returns the current snapshot. Callers must not mutate it.
	States() States
	// CallService requests an action on the host. Fire-and-forget.
	CallService(domain, service string, data map[string]any)
}

// Port is one switch interface discovered from host states.
type Port struct {
	EntityID string
	Name     string
	Alias    string
	Admin    string
	Oper     string
	Speed    string
	VLAN     string
	IP       string
	State    string
}

// Key returns the stable layout key: interface name, falling back to the entity id.
func (p *Port) Key() string {
	if p.Name != "" {
		return p.Name
	}
	return p.EntityID
}

// IsOn reports whether the port switch entity is on.
func (p *Port) IsOn() bool {
	return strings.EqualFold(p.State, SwitchStateOn)
}

// StringList accepts either a YAML/JSON list or a comma-separated string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = cleanList(list)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*l = cleanList(strings.Split(text, ","))
	return nil
}

func cleanList(values []string) StringList {
	out := make(StringList, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Set returns the trimmed lower-cased membership set.
func (l StringList) Set() map[string]bool {
	set := make(map[string]bool, len(l))
	for _, v := range l {
		set[NormalizeName(v)] = true
	}
	return set
}

// NormalizeName is the comparison form of a port name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return strings.Trim(string(b), `"`)
	}
}
