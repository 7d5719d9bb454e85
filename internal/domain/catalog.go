package domain

import (
	"slices"
	"strings"
)

// Catalog holds the ports and diagnostics of one device derived from host states.
type Catalog struct {
	Prefix string
	ports  []*Port
	byKey  map[string]*Port
	states States
}

// NewCatalog builds a catalog from a states snapshot for the configured device.
// Ports are the switch entities named switch.<prefix>_*, minus hidden ones.
func NewCatalog(states States, cfg *Config) *Catalog {
	c := &Catalog{
		Prefix: cfg.DevicePrefix(),
		byKey:  make(map[string]*Port),
		states: states,
	}
	hidden := cfg.HidePorts.Set()
	want := SwitchDomain + "."
	if c.Prefix != "" {
		want += strings.ToLower(c.Prefix) + "_"
	}
	entityIDs := make([]string, 0, len(states))
	for entityID := range states {
		entityIDs = append(entityIDs, entityID)
	}
	slices.Sort(entityIDs)
	for _, entityID := range entityIDs {
		st := states[entityID]
		if !strings.HasPrefix(strings.ToLower(entityID), want) {
			continue
		}
		p := portFromState(entityID, st)
		if hidden[NormalizeName(p.Name)] || hidden[NormalizeName(entityID)] {
			continue
		}
		if _, dup := c.byKey[p.Key()]; dup {
			// Duplicate interface names fall back to the unique entity id.
			p.Name = ""
		}
		c.ports = append(c.ports, p)
		c.byKey[p.Key()] = p
	}
	slices.SortStableFunc(c.ports, func(a, b *Port) int {
		return CompareNaturalPortOrder(a.Key(), b.Key())
	})
	return c
}

func portFromState(entityID string, st State) *Port {
	return &Port{
		EntityID: entityID,
		Name:     st.Attr("Name", "name"),
		Alias:    st.Attr("Alias", "alias"),
		Admin:    st.Attr("Admin", "admin"),
		Oper:     st.Attr("Oper", "oper"),
		Speed:    st.Attr("Speed", "speed", "ifSpeed", "if_speed"),
		VLAN:     st.Attr("VLAN ID", "vlan_id", "VLAN_ID", "VLAN", "vlan"),
		IP:       st.Attr("IP", "ip"),
		State:    st.State,
	}
}

// Ports returns the ports in natural key order.
func (c *Catalog) Ports() []*Port {
	return c.ports
}

// Get returns the port with the given layout key, or nil.
func (c *Catalog) Get(key string) *Port {
	return c.byKey[key]
}

// Keys returns the layout keys in natural order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.ports))
	for _, p := range c.ports {
		keys = append(keys, p.Key())
	}
	return keys
}

// Resolve finds a port by case-insensitive name or by raw entity id.
func (c *Catalog) Resolve(nameOrID string) *Port {
	want := NormalizeName(nameOrID)
	for _, p := range c.ports {
		if NormalizeName(p.Name) == want || p.EntityID == nameOrID {
			return p
		}
	}
	return nil
}

// State returns the raw state of any entity in the snapshot.
func (c *Catalog) State(entityID string) (State, bool) {
	st, ok := c.states[entityID]
	return st, ok
}
