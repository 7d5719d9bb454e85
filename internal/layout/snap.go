package layout

import (
	"math"
	"slices"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
)

// Axis selects x or y for distribute.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// ApplySnap rounds v to the nearest multiple of pitch. A pitch <= 0 disables snapping.
func ApplySnap(v, pitch float64) float64 {
	if pitch <= 0 || math.IsNaN(pitch) || math.IsInf(pitch, 0) {
		return v
	}
	return math.Round(v/pitch) * pitch
}

// SnapPoint snaps both coordinates of p.
func SnapPoint(p Point, pitch float64) Point {
	return Point{X: ApplySnap(p.X, pitch), Y: ApplySnap(p.Y, pitch)}
}

// AlignRow moves every key onto the y of the first key. Fewer than two keys is a no-op.
func AlignRow(keys []string, pos func(string) Point) map[string]Point {
	out := make(map[string]Point, len(keys))
	if len(keys) < 2 {
		return out
	}
	y := pos(keys[0]).Y
	for _, k := range keys {
		out[k] = Point{X: pos(k).X, Y: y}
	}
	return out
}

// AlignColumn moves every key onto the x of the first key.
func AlignColumn(keys []string, pos func(string) Point) map[string]Point {
	out := make(map[string]Point, len(keys))
	if len(keys) < 2 {
		return out
	}
	x := pos(keys[0]).X
	for _, k := range keys {
		out[k] = Point{X: x, Y: pos(k).Y}
	}
	return out
}

// Distribute spaces keys evenly along axis between the first and last of
// them. With exactly two keys there is nothing to interpolate, so the second
// is placed defaultStep after the first; a non-positive step leaves it alone.
func Distribute(keys []string, pos func(string) Point, axis Axis, defaultStep float64) map[string]Point {
	out := make(map[string]Point, len(keys))
	if len(keys) < 2 {
		return out
	}
	coord := func(p Point) float64 {
		if axis == AxisY {
			return p.Y
		}
		return p.X
	}
	with := func(p Point, v float64) Point {
		if axis == AxisY {
			p.Y = v
		} else {
			p.X = v
		}
		return p
	}
	sorted := slices.Clone(keys)
	slices.SortStableFunc(sorted, func(a, b string) int {
		ca, cb := coord(pos(a)), coord(pos(b))
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		}
		return domain.CompareNaturalPortOrder(a, b)
	})

	if len(sorted) == 2 {
		first, second := pos(sorted[0]), pos(sorted[1])
		if defaultStep > 0 {
			out[sorted[1]] = with(second, coord(first)+defaultStep)
		} else {
			out[sorted[1]] = second
		}
		return out
	}

	first := coord(pos(sorted[0]))
	last := coord(pos(sorted[len(sorted)-1]))
	step := (last - first) / float64(len(sorted)-1)
	for i, k := range sorted {
		out[k] = with(pos(k), first+step*float64(i))
	}
	return out
}
