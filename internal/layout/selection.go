package layout

import "slices"

// Selection is an ordered set of port keys. Order is insertion order, so the
// first selected port is the reference for align operations.
type Selection struct {
	keys []string
}

// Has reports whether key is selected.
func (s *Selection) Has(key string) bool {
	return slices.Contains(s.keys, key)
}

// Keys returns the selected keys in selection order.
func (s *Selection) Keys() []string {
	return slices.Clone(s.keys)
}

// Len returns the number of selected ports.
func (s *Selection) Len() int { return len(s.keys) }

// Replace selects exactly keys.
func (s *Selection) Replace(keys ...string) {
	next := make([]string, 0, len(keys))
	for _, k := range keys {
		if !slices.Contains(next, k) {
			next = append(next, k)
		}
	}
	s.keys = next
}

// Toggle adds key if absent and removes it otherwise.
func (s *Selection) Toggle(key string) {
	if i := slices.Index(s.keys, key); i >= 0 {
		s.keys = slices.Delete(s.keys, i, i+1)
		return
	}
	s.keys = append(s.keys, key)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.keys = nil
}

// Retain drops selected keys for which keep returns false.
func (s *Selection) Retain(keep func(string) bool) {
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return !keep(k) })
}

// MarqueeSelect returns the keys whose top-left corner lies inside area,
// edges included, in the given order.
func MarqueeSelect(keys []string, positions func(string) Point, area Rect) []string {
	var out []string
	for _, k := range keys {
		if area.Contains(positions(k)) {
			out = append(out, k)
		}
	}
	return out
}
