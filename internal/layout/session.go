package layout

import (
	"maps"
	"math"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
)

// Options configures the geometry of a session.
type Options struct {
	GlyphSize  float64
	PerRowCap  int
	HGap       float64
	VGap       float64
	PanelWidth float64
}

// OptionsFromConfig derives session options from a normalized config.
func OptionsFromConfig(cfg *domain.Config) Options {
	return Options{
		GlyphSize:  float64(cfg.PortSize),
		PerRowCap:  cfg.PortsPerRow,
		HGap:       float64(cfg.HGap()),
		VGap:       float64(cfg.VGap()),
		PanelWidth: float64(cfg.PanelWidth),
	}
}

func (o Options) grid() GridSpec {
	return GridSpec{PerRow: o.PerRowCap, Cell: o.GlyphSize, HGap: o.HGap, VGap: o.VGap, PanelWidth: o.PanelWidth}
}

// SeedSource tells where a session's initial positions came from.
type SeedSource string

const (
	SeedStored  SeedSource = "stored"
	SeedConfig  SeedSource = "config"
	SeedDefault SeedSource = "default"
)

// Seed is the initial state of a session.
type Seed struct {
	Source    SeedSource
	Positions map[string]Point
	MainBox   *Rect
	UplinkBox *Rect
	Order     OrderMode
}

// Session is one layout editing session: the registry, selection, boxes,
// gesture state and history of a single panel. It is not safe for
// concurrent use; all calls must come from the UI event loop.
type Session struct {
	opts     Options
	reg      *Registry
	sel      Selection
	hist     History
	viewport Viewport
	gesture  Gesture

	mainBox    *Rect
	uplinkBox  *Rect
	mainTool   bool
	uplinkTool bool
	order      OrderMode
	snap       float64

	// pinned holds ports whose position the user chose: loaded from a saved
	// layout or moved by hand. Box auto-fit leaves their boxes alone.
	pinned map[string]bool

	active      bool
	assistArmed bool
	cursor      Point
	dirty       bool
	onRender    func()
}

// NewSession creates an inactive session over items.
func NewSession(items []Item, opts Options) *Session {
	if opts.GlyphSize <= 0 {
		opts.GlyphSize = domain.DefaultPortSize
	}
	if opts.PerRowCap <= 0 {
		opts.PerRowCap = domain.DefaultPortsPerRow
	}
	if opts.PanelWidth <= 0 {
		opts.PanelWidth = domain.DefaultPanelWidth
	}
	return &Session{
		opts:    opts,
		reg:     NewRegistry(items, opts.GlyphSize, opts.grid()),
		gesture: Idle{},
		order:   OrderNumeric,
		pinned:  make(map[string]bool),
	}
}

// OnRender registers a callback invoked after state is replaced wholesale
// (undo, redo, JSON apply, reset).
func (s *Session) OnRender(fn func()) { s.onRender = fn }

func (s *Session) render() {
	if s.onRender != nil {
		s.onRender()
	}
}

// Start activates the session from seed.
func (s *Session) Start(seed Seed) {
	s.hist.Reset()
	s.sel.Clear()
	s.gesture = Idle{}
	s.assistArmed = false
	s.mainTool, s.uplinkTool = false, false
	s.pinned = make(map[string]bool)

	resolved := make(map[string]Point, len(seed.Positions))
	for name, p := range seed.Positions {
		if key, ok := s.reg.Resolve(name); ok {
			resolved[key] = p
		}
	}
	if seed.Source == SeedDefault || len(resolved) == 0 {
		s.reg.Replace(s.reg.Defaults())
	} else {
		s.reg.Replace(resolved)
		for key := range resolved {
			s.pinned[key] = true
		}
	}
	s.mainBox = normalizedBox(seed.MainBox)
	s.uplinkBox = normalizedBox(seed.UplinkBox)
	s.order = ParseOrderMode(string(seed.Order))
	s.active = true
	s.dirty = false
}

// Stop ends the session, dropping any gesture and the selection.
func (s *Session) Stop() {
	s.hist.Discard()
	s.gesture = Idle{}
	s.sel.Clear()
	s.assistArmed = false
	s.mainTool, s.uplinkTool = false, false
	s.active = false
}

// Sync replaces the port set after a host refresh.
func (s *Session) Sync(items []Item) {
	s.reg.Sync(items)
	s.sel.Retain(func(k string) bool { _, ok := s.reg.Item(k); return ok })
	for key := range s.pinned {
		if _, ok := s.reg.Item(key); !ok {
			delete(s.pinned, key)
		}
	}
}

// Active reports whether the session is open.
func (s *Session) Active() bool { return s.active }

// GestureInProgress reports whether a pointer gesture is open.
func (s *Session) GestureInProgress() bool {
	_, idle := s.gesture.(Idle)
	return !idle
}

// RefreshBlocked reports whether a host-driven refresh must be deferred.
func (s *Session) RefreshBlocked() bool {
	return s.active || s.GestureInProgress()
}

// Gesture returns the current gesture.
func (s *Session) Gesture() Gesture { return s.gesture }

// Registry exposes the port registry for rendering.
func (s *Session) Registry() *Registry { return s.reg }

// Selection exposes the selection for rendering.
func (s *Session) Selection() *Selection { return &s.sel }

// SetViewport installs the current client-to-logical transform.
func (s *Session) SetViewport(v Viewport) { s.viewport = v }

// Viewport returns the current transform.
func (s *Session) Viewport() Viewport { return s.viewport }

// Options returns the session geometry.
func (s *Session) Options() Options { return s.opts }

// Cursor returns the last logical pointer position.
func (s *Session) Cursor() Point { return s.cursor }

// MainBox returns a copy of the main box, or nil.
func (s *Session) MainBox() *Rect { return cloneRect(s.mainBox) }

// UplinkBox returns a copy of the uplink box, or nil.
func (s *Session) UplinkBox() *Rect { return cloneRect(s.uplinkBox) }

// MainTool reports whether the main box tool is on.
func (s *Session) MainTool() bool { return s.mainTool }

// UplinkTool reports whether the uplink box tool is on.
func (s *Session) UplinkTool() bool { return s.uplinkTool }

// Order returns the main box ordering mode.
func (s *Session) Order() OrderMode { return s.order }

// SnapPitch returns the grid pitch; 0 means off.
func (s *Session) SnapPitch() float64 { return s.snap }

// AutoLayoutArmed reports whether the next empty press starts an auto layout.
func (s *Session) AutoLayoutArmed() bool { return s.assistArmed }

// Dirty reports whether there are unsaved changes.
func (s *Session) Dirty() bool { return s.dirty }

// MarkSaved clears the dirty flag.
func (s *Session) MarkSaved() { s.dirty = false }

// Pinned reports whether key was placed by the user.
func (s *Session) Pinned(key string) bool { return s.pinned[key] }

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// Snapshot captures the undoable state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Positions: s.reg.Positions(),
		MainBox:   cloneRect(s.mainBox),
		UplinkBox: cloneRect(s.uplinkBox),
		Order:     s.order,
		Snap:      s.snap,
		Pinned:    maps.Clone(s.pinned),
	}
}

// restore applies snap verbatim. No packing is rerun.
func (s *Session) restore(snap Snapshot) {
	s.reg.Replace(snap.Positions)
	s.mainBox = cloneRect(snap.MainBox)
	s.uplinkBox = cloneRect(snap.UplinkBox)
	s.order = ParseOrderMode(string(snap.Order))
	s.snap = snap.Snap
	s.pinned = make(map[string]bool, len(snap.Pinned))
	for key := range snap.Pinned {
		if _, ok := s.reg.Item(key); ok {
			s.pinned[key] = true
		}
	}
	s.sel.Retain(func(k string) bool { _, ok := s.reg.Item(k); return ok })
	s.render()
}

// Undo reverts the last committed change.
func (s *Session) Undo() bool {
	if s.GestureInProgress() {
		return false
	}
	snap, ok := s.hist.Undo(s.Snapshot())
	if !ok {
		return false
	}
	s.restore(snap)
	s.dirty = true
	return true
}

// Redo reapplies the last undone change.
func (s *Session) Redo() bool {
	if s.GestureInProgress() {
		return false
	}
	snap, ok := s.hist.Redo(s.Snapshot())
	if !ok {
		return false
	}
	s.restore(snap)
	s.dirty = true
	return true
}

func (s *Session) commit() bool {
	if !s.hist.Commit(s.Snapshot()) {
		return false
	}
	s.dirty = true
	return true
}

// edit runs fn as one undoable unit. Edits are refused while a gesture is
// open or the session is closed.
func (s *Session) edit(fn func()) bool {
	if !s.active || s.GestureInProgress() {
		return false
	}
	s.hist.Begin(s.Snapshot())
	fn()
	return s.commit()
}

// SetMainTool turns the main box tool on or off. Turning it on turns the
// uplink tool off, creates a default box if needed, fits it and packs it.
func (s *Session) SetMainTool(on bool) bool {
	return s.edit(func() {
		s.mainTool = on
		if !on {
			return
		}
		s.uplinkTool = false
		s.enableBox(BoxMain)
	})
}

// SetUplinkTool is the uplink counterpart of SetMainTool.
func (s *Session) SetUplinkTool(on bool) bool {
	return s.edit(func() {
		s.uplinkTool = on
		if !on {
			return
		}
		s.mainTool = false
		s.enableBox(BoxUplink)
	})
}

func (s *Session) enableBox(kind BoxKind) {
	if s.box(kind) == nil {
		r := DefaultMainBox
		if kind == BoxUplink {
			r = DefaultUplinkBox
		}
		s.setBox(kind, r)
	}
	if s.fitSuppressed(kind) {
		return
	}
	s.autoFit(kind)
	s.packBox(kind)
}

// SetOrder changes the main box ordering and repacks it when its tool is on.
func (s *Session) SetOrder(mode OrderMode) bool {
	return s.edit(func() {
		s.order = ParseOrderMode(string(mode))
		if s.mainTool && s.mainBox != nil {
			s.packBox(BoxMain)
		}
	})
}

// SetSnap sets the grid pitch. Non-positive values turn snapping off.
func (s *Session) SetSnap(pitch float64) bool {
	if math.IsNaN(pitch) || math.IsInf(pitch, 0) || pitch < 0 {
		pitch = 0
	}
	return s.edit(func() { s.snap = pitch })
}

// ArmAutoLayout makes the next press on the canvas start an auto layout drag.
func (s *Session) ArmAutoLayout(on bool) {
	if !s.active || s.GestureInProgress() {
		return
	}
	s.assistArmed = on
}

// AlignRow puts the selection on the first selected port's row.
func (s *Session) AlignRow() bool {
	return s.edit(func() { s.applyManual(AlignRow(s.sel.Keys(), s.reg.Rendered)) })
}

// AlignColumn puts the selection on the first selected port's column.
func (s *Session) AlignColumn() bool {
	return s.edit(func() { s.applyManual(AlignColumn(s.sel.Keys(), s.reg.Rendered)) })
}

// Distribute spaces the selection evenly along axis. Two ports are spaced
// one glyph plus the configured gap apart.
func (s *Session) Distribute(axis Axis) bool {
	gap := s.opts.HGap
	if axis == AxisY {
		gap = s.opts.VGap
	}
	step := s.opts.GlyphSize + gap
	return s.edit(func() { s.applyManual(Distribute(s.sel.Keys(), s.reg.Rendered, axis, step)) })
}

func (s *Session) applyManual(positions map[string]Point) {
	for key, p := range positions {
		s.setManual(key, p)
	}
}

func (s *Session) setManual(key string, p Point) {
	if s.reg.SetPosition(key, p.X, p.Y) {
		s.pinned[key] = true
	}
}

func (s *Session) box(kind BoxKind) *Rect {
	if kind == BoxUplink {
		return s.uplinkBox
	}
	return s.mainBox
}

func (s *Session) setBox(kind BoxKind, r Rect) {
	r = r.Normalize()
	if kind == BoxUplink {
		s.uplinkBox = &r
		return
	}
	s.mainBox = &r
}

func (s *Session) activeBoxes() []BoxKind {
	var kinds []BoxKind
	if s.mainTool && s.mainBox != nil {
		kinds = append(kinds, BoxMain)
	}
	if s.uplinkTool && s.uplinkBox != nil {
		kinds = append(kinds, BoxUplink)
	}
	return kinds
}

// Members returns the natural-ordered keys belonging to a box.
func (s *Session) Members(kind BoxKind) []string {
	return s.reg.Keys(func(it Item) bool { return it.Uplink == (kind == BoxUplink) })
}

func (s *Session) memberPositions(kind BoxKind) map[string]Point {
	keys := s.Members(kind)
	out := make(map[string]Point, len(keys))
	for _, k := range keys {
		out[k] = s.reg.Rendered(k)
	}
	return out
}

func (s *Session) fitSuppressed(kind BoxKind) bool {
	for _, k := range s.Members(kind) {
		if s.pinned[k] {
			return true
		}
	}
	return false
}

func (s *Session) fitRect(kind BoxKind, minW, minH float64) (Rect, bool) {
	keys := s.Members(kind)
	rects := make([]Rect, 0, len(keys))
	for _, k := range keys {
		rects = append(rects, s.reg.Rect(k))
	}
	return FitRects(rects, minW, minH)
}

// autoFit tightens a box around its members unless one of them is pinned.
func (s *Session) autoFit(kind BoxKind) {
	if s.box(kind) == nil || s.fitSuppressed(kind) {
		return
	}
	minW, minH := float64(mainFitMin), float64(mainFitMin)
	if kind == BoxUplink {
		minW, minH = s.opts.GlyphSize, s.opts.GlyphSize
	}
	if r, ok := s.fitRect(kind, minW, minH); ok {
		s.setBox(kind, r)
	}
}

func (s *Session) resizeMin(kind BoxKind) (float64, float64) {
	if kind == BoxUplink {
		return uplinkMinW, uplinkMinH
	}
	m := math.Max(MinBoxSize, s.opts.GlyphSize)
	return m, m
}

// packBox lays out a box's members with its packing strategy. Packed ports
// are no longer pinned.
func (s *Session) packBox(kind BoxKind) {
	r := s.box(kind)
	if r == nil {
		return
	}
	mode := OrderNumeric
	if kind == BoxMain {
		mode = s.order
	}
	for key, p := range Pack(mode, s.Members(kind), *r, s.opts.GlyphSize, s.opts.PerRowCap) {
		s.reg.SetPosition(key, ApplySnap(p.X, s.snap), ApplySnap(p.Y, s.snap))
		delete(s.pinned, key)
	}
}

// applyAutoLayout builds a two-row main layout spanning p1..p2 (odd ports on
// top, even below) and grids the uplinks into their box, turning both box
// tools on.
func (s *Session) applyAutoLayout(p1, p2 Point) {
	main := s.Members(BoxMain)
	uplinks := s.Members(BoxUplink)

	xMin, xMax := math.Min(p1.X, p2.X), math.Max(p1.X, p2.X)
	yTop, yBot := math.Min(p1.Y, p2.Y), math.Max(p1.Y, p2.Y)

	s.setBox(BoxMain, Rect{X: xMin, Y: yTop, W: math.Max(80, xMax-xMin), H: math.Max(60, yBot-yTop)})
	s.mainTool = true

	cols := max(1, (len(main)+1)/2)
	step := 0.0
	if cols > 1 {
		step = (xMax - xMin) / float64(cols-1)
	}
	place := func(keys []string, y float64) {
		for i, key := range keys {
			s.reg.SetPosition(key, ApplySnap(xMin+step*float64(i), s.snap), ApplySnap(y, s.snap))
			delete(s.pinned, key)
		}
	}

	top, bottom := splitOddEven(main)
	hasOdd := false
	for _, k := range top {
		if _, ok := domain.LastNumber(k); ok {
			hasOdd = true
			break
		}
	}
	if hasOdd && len(bottom) > 0 {
		place(top, yTop)
		place(bottom, yBot)
	} else {
		n := min(cols, len(main))
		place(main[:n], yTop)
		place(main[n:], yBot)
	}

	if len(uplinks) == 0 {
		return
	}
	if s.uplinkBox == nil {
		w := (xMax - xMin) * 0.45
		if w == 0 {
			w = 200
		}
		h := yBot - yTop
		if h == 0 {
			h = 160
		}
		s.setBox(BoxUplink, Rect{X: xMax + 16, Y: yTop, W: clamp(w, 120, 260), H: clamp(h, 90, 220)})
	}
	s.uplinkTool = true
	s.packBox(BoxUplink)
}

func normalizedBox(r *Rect) *Rect {
	if r == nil {
		return nil
	}
	n := r.Normalize()
	return &n
}
