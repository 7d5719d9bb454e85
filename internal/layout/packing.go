package layout

import (
	"math"
	"slices"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
)

// OrderMode selects how the main box packs its members.
type OrderMode string

const (
	OrderNumeric OrderMode = "numeric"
	OrderOddEven OrderMode = "odd_even"
)

// ParseOrderMode returns the mode named by s, defaulting to numeric.
func ParseOrderMode(s string) OrderMode {
	if OrderMode(s) == OrderOddEven {
		return OrderOddEven
	}
	return OrderNumeric
}

// BoxKind identifies one of the two container boxes.
type BoxKind int

const (
	BoxMain BoxKind = iota
	BoxUplink
)

func (k BoxKind) String() string {
	if k == BoxUplink {
		return "uplinks"
	}
	return "ports"
}

// Default boxes created when a tool is enabled without one.
var (
	DefaultMainBox   = Rect{X: 20, Y: 20, W: 240, H: 160}
	DefaultUplinkBox = Rect{X: 20, Y: 20, W: 200, H: 140}
)

// Minimum sizes while drawing or resizing the uplink box.
const (
	uplinkMinW = 40
	uplinkMinH = 30
)

// Minimum size of a fitted main box.
const mainFitMin = 40

// gridSteps returns the per-axis spacing for cols x rows glyphs inside box.
func gridSteps(box Rect, glyph float64, cols, rows int) (float64, float64) {
	w := math.Max(MinBoxSize, box.W)
	h := math.Max(MinBoxSize, box.H)
	spanX := math.Max(0, w-glyph)
	spanY := math.Max(0, h-glyph)
	stepX, stepY := 0.0, 0.0
	if cols > 1 {
		stepX = spanX / float64(cols-1)
	}
	if rows > 1 {
		stepY = spanY / float64(rows-1)
	}
	return stepX, stepY
}

// PackNumeric places keys in natural order on a grid whose column count
// follows the box aspect ratio, clamped to [1, perRowCap].
func PackNumeric(keys []string, box Rect, glyph float64, perRowCap int) map[string]Point {
	out := make(map[string]Point, len(keys))
	n := len(keys)
	if n == 0 {
		return out
	}
	sorted := slices.Clone(keys)
	slices.SortStableFunc(sorted, domain.CompareNaturalPortOrder)

	w := math.Max(MinBoxSize, box.W)
	h := math.Max(MinBoxSize, box.H)
	cols := int(math.Round(math.Sqrt(float64(n) * w / h)))
	cols = max(1, min(max(1, perRowCap), cols))
	rows := (n + cols - 1) / cols
	stepX, stepY := gridSteps(box, glyph, cols, rows)

	for i, key := range sorted {
		out[key] = Point{
			X: box.X + float64(i%cols)*stepX,
			Y: box.Y + float64(i/cols)*stepY,
		}
	}
	return out
}

type numberedKey struct {
	key string
	num int
	ok  bool
}

// splitOddEven partitions keys by the parity of their last number. Even
// numbers go to the bottom group; odd or unnumbered keys to the top group.
// Each group is ordered by number, then naturally, unnumbered last.
func splitOddEven(keys []string) (top, bottom []string) {
	var odds, evens []numberedKey
	for _, k := range keys {
		n, ok := domain.LastNumber(k)
		nk := numberedKey{key: k, num: n, ok: ok}
		if ok && n%2 == 0 {
			evens = append(evens, nk)
		} else {
			odds = append(odds, nk)
		}
	}
	order := func(a, b numberedKey) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case a.ok && a.num != b.num:
			if a.num < b.num {
				return -1
			}
			return 1
		}
		return domain.CompareNaturalPortOrder(a.key, b.key)
	}
	slices.SortStableFunc(odds, order)
	slices.SortStableFunc(evens, order)
	for _, nk := range odds {
		top = append(top, nk.key)
	}
	for _, nk := range evens {
		bottom = append(bottom, nk.key)
	}
	return top, bottom
}

// PackOddEven places odd-numbered keys on the top sub-row and even-numbered
// keys on the bottom sub-row of each row band.
func PackOddEven(keys []string, box Rect, glyph float64, perRowCap int) map[string]Point {
	out := make(map[string]Point, len(keys))
	if len(keys) == 0 {
		return out
	}
	top, bottom := splitOddEven(keys)
	maxLen := max(len(top), len(bottom))
	cols := max(1, min(max(1, perRowCap), maxLen))
	rowGroupSize := 1
	if len(bottom) > 0 && len(top) > 0 {
		rowGroupSize = 2
	}
	groups := (maxLen + cols - 1) / cols
	rows := groups * rowGroupSize
	stepX, stepY := gridSteps(box, glyph, cols, rows)

	place := func(group []string, offset int) {
		for i, key := range group {
			r := (i/cols)*rowGroupSize + offset
			out[key] = Point{
				X: box.X + float64(i%cols)*stepX,
				Y: box.Y + float64(r)*stepY,
			}
		}
	}
	place(top, 0)
	if rowGroupSize == 2 {
		place(bottom, 1)
	} else {
		place(bottom, 0)
	}
	return out
}

// Pack dispatches to the packing strategy for mode.
func Pack(mode OrderMode, keys []string, box Rect, glyph float64, perRowCap int) map[string]Point {
	if mode == OrderOddEven {
		return PackOddEven(keys, box, glyph, perRowCap)
	}
	return PackNumeric(keys, box, glyph, perRowCap)
}

// Reproject keeps each position at the same fractional offset, clamped to
// [0,1], when its container changes from `from` to `to`.
func Reproject(start map[string]Point, from, to Rect) map[string]Point {
	out := make(map[string]Point, len(start))
	ow := math.Max(1e-6, from.W)
	oh := math.Max(1e-6, from.H)
	for key, p := range start {
		rx := clamp01((p.X - from.X) / ow)
		ry := clamp01((p.Y - from.Y) / oh)
		out[key] = Point{X: to.X + rx*to.W, Y: to.Y + ry*to.H}
	}
	return out
}

// Translate moves every position by dx, dy.
func Translate(start map[string]Point, dx, dy float64) map[string]Point {
	out := make(map[string]Point, len(start))
	for key, p := range start {
		out[key] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// FitRects returns the bounding box of rects with its origin clamped to
// x,y >= 0 and its size at least minW x minH. Clamping moves the box but keeps
// the members' span, so members left of or above the origin stick out by the
// clamped amount. It reports false when rects is empty.
func FitRects(rects []Rect, minW, minH float64) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}
	return Rect{
		X: math.Max(0, minX),
		Y: math.Max(0, minY),
		W: math.Max(minW, maxX-minX),
		H: math.Max(minH, maxY-minY),
	}, true
}
