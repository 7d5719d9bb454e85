package layout

import (
	"math"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
)

// Point is a position in logical panel coordinates.
type Point = domain.Point

// MinBoxSize is the smallest width or height a box can have.
const MinBoxSize = 10

// Rect is an axis-aligned rectangle in logical coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Normalize clamps width and height to MinBoxSize.
func (r Rect) Normalize() Rect {
	r.W = math.Max(MinBoxSize, r.W)
	r.H = math.Max(MinBoxSize, r.H)
	return r
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Translate returns r moved by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// RectFromCorners builds the rectangle spanned by two points in any order.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(b.X - a.X),
		H: math.Abs(b.Y - a.Y),
	}
}

func cloneRect(r *Rect) *Rect {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func rectPtrEqual(a, b *Rect) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Handle names one of the eight resize grips of a box.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Handles lists all grips, corners first so they win over edges on overlap.
var Handles = []Handle{HandleNW, HandleNE, HandleSE, HandleSW, HandleN, HandleE, HandleS, HandleW}

// HandleHitSize is the side of the square hit area around a grip.
const HandleHitSize = 10

func (h Handle) has(edge byte) bool {
	for i := 0; i < len(h); i++ {
		if h[i] == edge {
			return true
		}
	}
	return false
}

// Anchor returns the grip position on r.
func (h Handle) Anchor(r Rect) Point {
	p := Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
	if h.has('w') {
		p.X = r.X
	}
	if h.has('e') {
		p.X = r.Right()
	}
	if h.has('n') {
		p.Y = r.Y
	}
	if h.has('s') {
		p.Y = r.Bottom()
	}
	return p
}

// HitHandle returns the grip of r under p, if any.
func HitHandle(r Rect, p Point) (Handle, bool) {
	half := float64(HandleHitSize) / 2
	for _, h := range Handles {
		a := h.Anchor(r)
		if math.Abs(p.X-a.X) <= half && math.Abs(p.Y-a.Y) <= half {
			return h, true
		}
	}
	return "", false
}

// ResizeRect applies a handle drag of dx, dy to orig. Dragging a west or north
// grip keeps the opposite edge fixed. Sizes never drop below minW, minH.
func ResizeRect(orig Rect, h Handle, dx, dy, minW, minH float64) Rect {
	r := orig
	if h.has('e') {
		r.W = math.Max(minW, orig.W+dx)
	}
	if h.has('s') {
		r.H = math.Max(minH, orig.H+dy)
	}
	if h.has('w') {
		nw := math.Max(minW, orig.W-dx)
		r.X = orig.X + (orig.W - nw)
		r.W = nw
	}
	if h.has('n') {
		nh := math.Max(minH, orig.H-dy)
		r.Y = orig.Y + (orig.H - nh)
		r.H = nh
	}
	return r
}
