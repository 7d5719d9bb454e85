package layout

import (
	"maps"
	"math"
	"slices"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
)

// Default grid padding around the panel edge.
const (
	gridSidePad     = 28
	gridTopPad      = 24
	gridLabelOffset = 18
)

// Label decoration placement relative to the glyph.
const (
	labelGap    = 2
	labelHeight = 8
)

// Item is one positionable port.
type Item struct {
	Key      string
	EntityID string
	Name     string
	Uplink   bool
}

// Label is the text decoration drawn under a port glyph.
type Label struct {
	Text       string
	Anchor     Point
	Background Rect
}

// GridSpec parameterizes the default packed grid.
type GridSpec struct {
	PerRow     int
	Cell       float64
	HGap       float64
	VGap       float64
	PanelWidth float64
}

// ItemsFromCatalog converts discovered ports into registry items.
func ItemsFromCatalog(c *domain.Catalog, uplinks map[string]bool) []Item {
	items := make([]Item, 0, len(c.Ports()))
	for _, p := range c.Ports() {
		items = append(items, Item{
			Key:      p.Key(),
			EntityID: p.EntityID,
			Name:     p.Name,
			Uplink:   uplinks[domain.NormalizeName(p.Name)],
		})
	}
	return items
}

// Registry is the live set of ports with their explicit and default positions.
// Ports without an explicit position render at their default grid position.
type Registry struct {
	items    []Item
	index    map[string]int
	explicit map[string]Point
	defaults map[string]Point
	labels   map[string]Label
	size     float64
	grid     GridSpec
}

// NewRegistry creates a registry for items with a shared glyph size.
func NewRegistry(items []Item, size float64, grid GridSpec) *Registry {
	if size <= 0 {
		size = domain.DefaultPortSize
	}
	if grid.Cell <= 0 {
		grid.Cell = size
	}
	r := &Registry{
		explicit: make(map[string]Point),
		size:     size,
		grid:     grid,
	}
	r.setItems(items)
	return r
}

func (r *Registry) setItems(items []Item) {
	r.items = slices.Clone(items)
	slices.SortStableFunc(r.items, func(a, b Item) int {
		return domain.CompareNaturalPortOrder(a.Key, b.Key)
	})
	r.index = make(map[string]int, len(r.items))
	for i, it := range r.items {
		r.index[it.Key] = i
	}
	keys := make([]string, 0, len(r.items))
	for _, it := range r.items {
		keys = append(keys, it.Key)
	}
	r.defaults = ComputeDefaultGrid(keys, r.grid)
	r.labels = make(map[string]Label, len(r.items))
	for _, it := range r.items {
		r.labels[it.Key] = r.labelAt(it, r.Rendered(it.Key))
	}
}

// Sync replaces the item set, keeping explicit positions of surviving keys.
func (r *Registry) Sync(items []Item) {
	r.setItems(items)
	for key := range r.explicit {
		if _, ok := r.index[key]; !ok {
			delete(r.explicit, key)
		}
	}
}

// Items returns the ports in natural order.
func (r *Registry) Items() []Item { return r.items }

// Item returns the port with the given key.
func (r *Registry) Item(key string) (Item, bool) {
	i, ok := r.index[key]
	if !ok {
		return Item{}, false
	}
	return r.items[i], true
}

// Size returns the shared glyph size.
func (r *Registry) Size() float64 { return r.size }

// Grid returns the default grid parameters.
func (r *Registry) Grid() GridSpec { return r.grid }

// Keys returns all port keys, optionally filtered by membership.
func (r *Registry) Keys(filter func(Item) bool) []string {
	keys := make([]string, 0, len(r.items))
	for _, it := range r.items {
		if filter == nil || filter(it) {
			keys = append(keys, it.Key)
		}
	}
	return keys
}

// Position returns the explicit position of key, if one is set.
func (r *Registry) Position(key string) (Point, bool) {
	p, ok := r.explicit[key]
	return p, ok
}

// Rendered returns where key is drawn: its explicit position or its default.
func (r *Registry) Rendered(key string) Point {
	if p, ok := r.explicit[key]; ok {
		return p
	}
	return r.defaults[key]
}

// Rect returns the glyph rectangle of key.
func (r *Registry) Rect(key string) Rect {
	p := r.Rendered(key)
	return Rect{X: p.X, Y: p.Y, W: r.size, H: r.size}
}

// SetPosition overwrites the explicit position of key and moves its label by
// the same delta. Unknown keys are ignored.
func (r *Registry) SetPosition(key string, x, y float64) bool {
	if _, ok := r.index[key]; !ok {
		return false
	}
	old := r.Rendered(key)
	r.explicit[key] = Point{X: x, Y: y}
	r.translateLabel(key, x-old.X, y-old.Y)
	return true
}

// Positions returns a copy of the explicit position map.
func (r *Registry) Positions() map[string]Point {
	return maps.Clone(r.explicit)
}

// Replace sets the explicit map to exactly positions, dropping unknown keys.
func (r *Registry) Replace(positions map[string]Point) {
	old := make(map[string]Point, len(r.items))
	for _, it := range r.items {
		old[it.Key] = r.Rendered(it.Key)
	}
	r.explicit = make(map[string]Point, len(positions))
	for key, p := range positions {
		if _, ok := r.index[key]; ok {
			r.explicit[key] = p
		}
	}
	for _, it := range r.items {
		now := r.Rendered(it.Key)
		r.translateLabel(it.Key, now.X-old[it.Key].X, now.Y-old[it.Key].Y)
	}
}

// Clear drops all explicit positions.
func (r *Registry) Clear() {
	r.Replace(nil)
}

// Defaults returns the default grid positions.
func (r *Registry) Defaults() map[string]Point {
	return maps.Clone(r.defaults)
}

// Label returns the label decoration of key.
func (r *Registry) Label(key string) Label {
	return r.labels[key]
}

func (r *Registry) labelAt(it Item, p Point) Label {
	text := it.Name
	if text == "" {
		text = it.Key
	}
	return Label{
		Text:       text,
		Anchor:     Point{X: p.X + r.size/2, Y: p.Y + r.size + labelGap},
		Background: Rect{X: p.X - labelGap, Y: p.Y + r.size, W: r.size + 2*labelGap, H: labelHeight + labelGap},
	}
}

func (r *Registry) translateLabel(key string, dx, dy float64) {
	l, ok := r.labels[key]
	if !ok {
		return
	}
	l.Anchor.X += dx
	l.Anchor.Y += dy
	l.Background = l.Background.Translate(dx, dy)
	r.labels[key] = l
}

// HitTest returns the topmost port whose glyph contains p.
func (r *Registry) HitTest(p Point) (string, bool) {
	for i := len(r.items) - 1; i >= 0; i-- {
		key := r.items[i].Key
		if r.Rect(key).Contains(p) {
			return key, true
		}
	}
	return "", false
}

// Resolve finds a port key by case-insensitive name or by entity id.
func (r *Registry) Resolve(nameOrID string) (string, bool) {
	want := domain.NormalizeName(nameOrID)
	for _, it := range r.items {
		if domain.NormalizeName(it.Name) == want || domain.NormalizeName(it.Key) == want || it.EntityID == nameOrID {
			return it.Key, true
		}
	}
	return "", false
}

// ComputeDefaultGrid lays keys out left to right, top to bottom, in natural
// order, with the grid centered in the panel width.
func ComputeDefaultGrid(keys []string, spec GridSpec) map[string]Point {
	out := make(map[string]Point, len(keys))
	if len(keys) == 0 {
		return out
	}
	sorted := slices.Clone(keys)
	slices.SortStableFunc(sorted, domain.CompareNaturalPortOrder)

	perRow := max(1, spec.PerRow)
	cols := min(perRow, len(sorted))
	cell := spec.Cell
	totalRowW := float64(cols)*cell + float64(cols-1)*spec.HGap
	usableW := spec.PanelWidth - 2*gridSidePad
	startX := gridSidePad + math.Max(0, (usableW-totalRowW)/2)

	for i, key := range sorted {
		col := i % perRow
		row := i / perRow
		out[key] = Point{
			X: startX + float64(col)*(cell+spec.HGap),
			Y: gridTopPad + float64(row)*(cell+spec.VGap) + gridLabelOffset,
		}
	}
	return out
}

// Extent returns the logical surface size needed to show every port.
func (r *Registry) Extent() (float64, float64) {
	w := r.grid.PanelWidth
	h := 0.0
	for _, it := range r.items {
		rect := r.Rect(it.Key)
		w = math.Max(w, rect.Right()+gridSidePad)
		h = math.Max(h, rect.Bottom()+gridTopPad+labelHeight)
	}
	return w, math.Max(h, 2*gridTopPad+r.size)
}
