package layout

import "math"

// Viewport maps client coordinates (terminal cells, pixels) onto the logical
// panel surface. Logical = (client - origin) / scale + pan.
type Viewport struct {
	OriginX, OriginY float64
	ScaleX, ScaleY   float64
	PanX, PanY       float64
	Attached         bool
}

// IdentityViewport maps client coordinates one to one.
func IdentityViewport() Viewport {
	return Viewport{ScaleX: 1, ScaleY: 1, Attached: true}
}

// FitViewport builds a scale-to-fit transform that shows a surfaceW x surfaceH
// logical area centered inside the client rectangle. aspect is the height of
// one client unit relative to its width (about 2 for terminal cells).
func FitViewport(surfaceW, surfaceH float64, client Rect, aspect float64) Viewport {
	if surfaceW <= 0 || surfaceH <= 0 || client.W <= 0 || client.H <= 0 {
		return Viewport{}
	}
	if aspect <= 0 {
		aspect = 1
	}
	scale := math.Min(client.W/surfaceW, client.H*aspect/surfaceH)
	v := Viewport{
		ScaleX:   scale,
		ScaleY:   scale / aspect,
		Attached: true,
	}
	v.OriginX = client.X + (client.W-surfaceW*v.ScaleX)/2
	v.OriginY = client.Y + (client.H-surfaceH*v.ScaleY)/2
	return v
}

// MapToLogical inverts the view transform. It returns false when the surface
// is detached or has no usable scale, in which case callers must do nothing.
func (v Viewport) MapToLogical(clientX, clientY float64) (Point, bool) {
	if !v.Attached || v.ScaleX <= 0 || v.ScaleY <= 0 {
		return Point{}, false
	}
	return Point{
		X: (clientX-v.OriginX)/v.ScaleX + v.PanX,
		Y: (clientY-v.OriginY)/v.ScaleY + v.PanY,
	}, true
}

// MapToClient is the forward transform used by renderers.
func (v Viewport) MapToClient(p Point) (float64, float64) {
	return (p.X-v.PanX)*v.ScaleX + v.OriginX, (p.Y-v.PanY)*v.ScaleY + v.OriginY
}

// Pan shifts the view by a client-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	if v.ScaleX <= 0 || v.ScaleY <= 0 {
		return
	}
	v.PanX -= dx / v.ScaleX
	v.PanY -= dy / v.ScaleY
}

// ZoomAt scales the view by factor, keeping the logical point under the
// client position fixed.
func (v *Viewport) ZoomAt(clientX, clientY, factor float64) {
	before, ok := v.MapToLogical(clientX, clientY)
	if !ok || factor <= 0 {
		return
	}
	v.ScaleX *= factor
	v.ScaleY *= factor
	after, _ := v.MapToLogical(clientX, clientY)
	v.PanX += before.X - after.X
	v.PanY += before.Y - after.Y
}
