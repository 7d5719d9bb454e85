package layout

// PointerEvent is one pointer sample in client coordinates.
type PointerEvent struct {
	ID       int
	ClientX  float64
	ClientY  float64
	Modifier bool
}

// Gesture is the current pointer interaction. Exactly one is active per
// session; Idle when no pointer is down.
type Gesture interface {
	Name() string
	pointer() int
}

type owner struct{ id int }

func (o owner) pointer() int { return o.id }

// Idle means no pointer gesture is in progress.
type Idle struct{}

func (Idle) Name() string { return "idle" }
func (Idle) pointer() int { return -1 }

// Selecting is a marquee drag on empty canvas.
type Selecting struct {
	owner
	Start   Point
	Current Point
}

func (Selecting) Name() string { return "selecting" }

// Area returns the marquee rectangle.
func (g Selecting) Area() Rect { return RectFromCorners(g.Start, g.Current) }

// DraggingPorts moves every selected port by the pointer delta.
type DraggingPorts struct {
	owner
	Start   Point
	Origins map[string]Point
}

func (DraggingPorts) Name() string { return "dragging" }

// BoxDrawing draws a new box from the press point.
type BoxDrawing struct {
	owner
	Box   BoxKind
	Start Point
}

func (BoxDrawing) Name() string { return "box-draw" }

// BoxMoving translates a box and its members rigidly.
type BoxMoving struct {
	owner
	Box     BoxKind
	Start   Point
	Orig    Rect
	Members map[string]Point
}

func (BoxMoving) Name() string { return "box-move" }

// BoxResizing drags one grip and reprojects the members.
type BoxResizing struct {
	owner
	Box     BoxKind
	Handle  Handle
	Start   Point
	Orig    Rect
	Members map[string]Point
}

func (BoxResizing) Name() string { return "box-resize" }

// AutoLayoutAssist spans the bounds of a two-row layout built on release.
type AutoLayoutAssist struct {
	owner
	Start   Point
	Current Point
}

func (AutoLayoutAssist) Name() string { return "auto-layout" }

// Area returns the dragged bounds.
func (g AutoLayoutAssist) Area() Rect { return RectFromCorners(g.Start, g.Current) }

// hitKind orders what a pointer-down can land on.
type hitKind int

const (
	hitNone hitKind = iota
	hitHandle
	hitPort
	hitBoxBody
)

type hit struct {
	kind   hitKind
	box    BoxKind
	handle Handle
	key    string
}

// hitTest resolves p in priority order: active box grips, port glyphs,
// active box bodies, then empty canvas.
func (s *Session) hitTest(p Point) hit {
	for _, kind := range s.activeBoxes() {
		if h, ok := HitHandle(*s.box(kind), p); ok {
			return hit{kind: hitHandle, box: kind, handle: h}
		}
	}
	if key, ok := s.reg.HitTest(p); ok {
		return hit{kind: hitPort, key: key}
	}
	for _, kind := range s.activeBoxes() {
		if s.box(kind).Contains(p) {
			return hit{kind: hitBoxBody, box: kind}
		}
	}
	return hit{kind: hitNone}
}

// PointerDown starts a gesture. A second pointer while one is active, an
// inactive session or an unmappable position are ignored.
func (s *Session) PointerDown(ev PointerEvent) {
	if !s.active || s.GestureInProgress() {
		return
	}
	p, ok := s.viewport.MapToLogical(ev.ClientX, ev.ClientY)
	if !ok {
		return
	}
	s.cursor = p
	o := owner{id: ev.ID}

	if s.assistArmed {
		s.assistArmed = false
		s.hist.Begin(s.Snapshot())
		s.gesture = AutoLayoutAssist{owner: o, Start: p, Current: p}
		return
	}

	h := s.hitTest(p)
	switch h.kind {
	case hitHandle:
		s.hist.Begin(s.Snapshot())
		s.gesture = BoxResizing{owner: o, Box: h.box, Handle: h.handle, Start: p, Orig: *s.box(h.box), Members: s.memberPositions(h.box)}
	case hitPort:
		if ev.Modifier {
			s.sel.Toggle(h.key)
			return
		}
		if !s.sel.Has(h.key) {
			s.sel.Replace(h.key)
		}
		origins := make(map[string]Point, s.sel.Len())
		for _, k := range s.sel.Keys() {
			origins[k] = s.reg.Rendered(k)
		}
		s.hist.Begin(s.Snapshot())
		s.gesture = DraggingPorts{owner: o, Start: p, Origins: origins}
	case hitBoxBody:
		s.hist.Begin(s.Snapshot())
		s.gesture = BoxMoving{owner: o, Box: h.box, Start: p, Orig: *s.box(h.box), Members: s.memberPositions(h.box)}
	default:
		switch {
		case s.mainTool:
			s.hist.Begin(s.Snapshot())
			s.gesture = BoxDrawing{owner: o, Box: BoxMain, Start: p}
		case s.uplinkTool:
			s.hist.Begin(s.Snapshot())
			s.gesture = BoxDrawing{owner: o, Box: BoxUplink, Start: p}
		default:
			s.gesture = Selecting{owner: o, Start: p, Current: p}
		}
	}
}

// PointerMove applies the active gesture's transform. Moves from any pointer
// other than the gesture owner are ignored.
func (s *Session) PointerMove(ev PointerEvent) {
	p, ok := s.viewport.MapToLogical(ev.ClientX, ev.ClientY)
	if !ok {
		return
	}
	if !s.GestureInProgress() || s.gesture.pointer() != ev.ID {
		if !s.GestureInProgress() {
			s.cursor = p
		}
		return
	}
	s.cursor = p
	s.track(p)
}

func (s *Session) track(p Point) {
	switch g := s.gesture.(type) {
	case Selecting:
		g.Current = p
		s.gesture = g
	case AutoLayoutAssist:
		g.Current = p
		s.gesture = g
	case DraggingPorts:
		dx, dy := p.X-g.Start.X, p.Y-g.Start.Y
		uplinkMoved := false
		for key, o := range g.Origins {
			s.setManual(key, SnapPoint(Point{X: o.X + dx, Y: o.Y + dy}, s.snap))
			if it, ok := s.reg.Item(key); ok && it.Uplink {
				uplinkMoved = true
			}
		}
		if uplinkMoved && s.uplinkTool && s.uplinkBox != nil {
			if r, ok := s.fitRect(BoxUplink, 1, 1); ok {
				s.uplinkBox = &r
			}
		}
	case BoxDrawing:
		r := RectFromCorners(g.Start, p)
		minW, minH := s.resizeMin(g.Box)
		r.W = max(minW, r.W)
		r.H = max(minH, r.H)
		s.setBox(g.Box, r)
		s.packBox(g.Box)
	case BoxMoving:
		dx, dy := p.X-g.Start.X, p.Y-g.Start.Y
		s.setBox(g.Box, g.Orig.Translate(dx, dy))
		for key, pt := range Translate(g.Members, dx, dy) {
			s.reg.SetPosition(key, ApplySnap(pt.X, s.snap), ApplySnap(pt.Y, s.snap))
		}
	case BoxResizing:
		minW, minH := s.resizeMin(g.Box)
		r := ResizeRect(g.Orig, g.Handle, p.X-g.Start.X, p.Y-g.Start.Y, minW, minH)
		s.setBox(g.Box, r)
		for key, pt := range Reproject(g.Members, g.Orig, r) {
			s.reg.SetPosition(key, ApplySnap(pt.X, s.snap), ApplySnap(pt.Y, s.snap))
		}
	}
}

// PointerUp finishes the gesture owned by ev.ID and commits it as one undo entry.
func (s *Session) PointerUp(ev PointerEvent) {
	if !s.GestureInProgress() || s.gesture.pointer() != ev.ID {
		return
	}
	if p, ok := s.viewport.MapToLogical(ev.ClientX, ev.ClientY); ok {
		s.cursor = p
		s.track(p)
	}
	g := s.gesture
	s.gesture = Idle{}

	switch g := g.(type) {
	case Selecting:
		keys := MarqueeSelect(s.reg.Keys(nil), s.reg.Rendered, g.Area())
		if len(keys) == 0 {
			s.sel.Clear()
		} else {
			s.sel.Replace(keys...)
		}
		return
	case AutoLayoutAssist:
		s.applyAutoLayout(g.Start, g.Current)
	case BoxDrawing:
		s.autoFit(g.Box)
	case BoxMoving:
		s.autoFit(g.Box)
	case BoxResizing:
		s.autoFit(g.Box)
	}
	s.commit()
}

// PointerCancel aborts the gesture owned by ev.ID, restoring the state from
// its start without recording history.
func (s *Session) PointerCancel(ev PointerEvent) {
	if !s.GestureInProgress() || s.gesture.pointer() != ev.ID {
		return
	}
	s.gesture = Idle{}
	if before, ok := s.hist.Discard(); ok {
		s.restore(before)
	}
}
