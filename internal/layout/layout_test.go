package layout

import (
	"maps"
	"math"
	"slices"
	"strings"
	"testing"
)

// ---------- helpers ----------

func testItems(names ...string) []Item {
	items := make([]Item, 0, len(names))
	for _, n := range names {
		items = append(items, Item{
			Key:      n,
			Name:     n,
			EntityID: "switch.sw1_" + strings.ToLower(strings.ReplaceAll(n, "/", "_")),
			Uplink:   strings.HasPrefix(n, "Te"),
		})
	}
	return items
}

func testOptions() Options {
	return Options{GlyphSize: 18, PerRowCap: 24, HGap: 10, VGap: 10, PanelWidth: 740}
}

func newTestSession(t *testing.T, seed Seed, names ...string) *Session {
	t.Helper()
	s := NewSession(testItems(names...), testOptions())
	s.SetViewport(IdentityViewport())
	s.Start(seed)
	return s
}

func configSeed(positions map[string]Point) Seed {
	return Seed{Source: SeedConfig, Positions: positions}
}

func down(s *Session, id int, x, y float64) {
	s.PointerDown(PointerEvent{ID: id, ClientX: x, ClientY: y})
}

func move(s *Session, id int, x, y float64) {
	s.PointerMove(PointerEvent{ID: id, ClientX: x, ClientY: y})
}

func up(s *Session, id int, x, y float64) {
	s.PointerUp(PointerEvent{ID: id, ClientX: x, ClientY: y})
}

func drag(s *Session, from, to Point) {
	down(s, 1, from.X, from.Y)
	move(s, 1, to.X, to.Y)
	up(s, 1, to.X, to.Y)
}

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

// ---------- mapper.go ----------

func TestViewportMapping(t *testing.T) {
	var detached Viewport
	if _, ok := detached.MapToLogical(10, 10); ok {
		t.Error("detached viewport mapped a point")
	}

	v := FitViewport(740, 200, Rect{X: 2, Y: 1, W: 74, H: 40}, 2)
	if !v.Attached {
		t.Fatal("fit viewport not attached")
	}
	p := Point{X: 123, Y: 45}
	cx, cy := v.MapToClient(p)
	got, ok := v.MapToLogical(cx, cy)
	if !ok || !near(got, p) {
		t.Errorf("round trip = %v, %v; want %v", got, ok, p)
	}

	v.ZoomAt(cx, cy, 2)
	got, _ = v.MapToLogical(cx, cy)
	if !near(got, p) {
		t.Errorf("point under cursor moved on zoom: %v", got)
	}
}

// ---------- registry.go ----------

func TestComputeDefaultGrid(t *testing.T) {
	spec := GridSpec{PerRow: 2, Cell: 18, HGap: 10, VGap: 10, PanelWidth: 740}
	got := ComputeDefaultGrid([]string{"Gi1/0/10", "Gi1/0/2", "Gi1/0/1"}, spec)

	startX := 28 + (684-46)/2.0
	want := map[string]Point{
		"Gi1/0/1":  {X: startX, Y: 42},
		"Gi1/0/2":  {X: startX + 28, Y: 42},
		"Gi1/0/10": {X: startX, Y: 70},
	}
	if !maps.Equal(got, want) {
		t.Errorf("ComputeDefaultGrid = %v, want %v", got, want)
	}
}

func TestRegistrySetPositionMovesLabel(t *testing.T) {
	r := NewRegistry(testItems("Gi1/0/1"), 18, GridSpec{PerRow: 24, PanelWidth: 740})
	before := r.Label("Gi1/0/1")
	start := r.Rendered("Gi1/0/1")

	if !r.SetPosition("Gi1/0/1", start.X+5, start.Y-3) {
		t.Fatal("SetPosition rejected a known key")
	}
	after := r.Label("Gi1/0/1")
	if after.Anchor.X != before.Anchor.X+5 || after.Anchor.Y != before.Anchor.Y-3 {
		t.Errorf("label anchor = %v, want shifted from %v", after.Anchor, before.Anchor)
	}
	if after.Background.X != before.Background.X+5 {
		t.Errorf("label background not moved: %v", after.Background)
	}
	if r.SetPosition("Nope", 1, 1) {
		t.Error("SetPosition accepted an unknown key")
	}
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry(testItems("Gi1/0/1", "Te1/0/1"), 18, GridSpec{PerRow: 24, PanelWidth: 740})
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"Gi1/0/1", "Gi1/0/1", true},
		{"  gi1/0/1 ", "Gi1/0/1", true},
		{"switch.sw1_te1_0_1", "Te1/0/1", true},
		{"Gi9/9/9", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := r.Resolve(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// ---------- packing.go ----------

func TestPackOddEven(t *testing.T) {
	keys := []string{"Gi1/0/6", "Gi1/0/1", "Gi1/0/4", "Gi1/0/3", "Gi1/0/2", "Gi1/0/5"}
	box := Rect{X: 0, Y: 0, W: 100, H: 60}

	got := PackOddEven(keys, box, 18, 24)
	want := map[string]Point{
		"Gi1/0/1": {X: 0, Y: 0},
		"Gi1/0/3": {X: 41, Y: 0},
		"Gi1/0/5": {X: 82, Y: 0},
		"Gi1/0/2": {X: 0, Y: 42},
		"Gi1/0/4": {X: 41, Y: 42},
		"Gi1/0/6": {X: 82, Y: 42},
	}
	if !maps.Equal(got, want) {
		t.Errorf("PackOddEven = %v, want %v", got, want)
	}
	if again := PackOddEven(keys, box, 18, 24); !maps.Equal(again, got) {
		t.Error("PackOddEven is not deterministic")
	}
}

func TestPackOddEvenOnlyOdds(t *testing.T) {
	got := PackOddEven([]string{"Gi1/0/1", "Gi1/0/3"}, Rect{W: 100, H: 60}, 18, 24)
	if got["Gi1/0/1"].Y != 0 || got["Gi1/0/3"].Y != 0 {
		t.Errorf("single group should use one row: %v", got)
	}
}

func TestPackNumeric(t *testing.T) {
	keys := []string{"Gi1/0/10", "Gi1/0/2", "Gi1/0/1", "Gi1/0/3"}
	got := PackNumeric(keys, Rect{X: 10, Y: 10, W: 100, H: 100}, 18, 24)
	// sqrt(4*100/100) = 2 columns, 2 rows
	want := map[string]Point{
		"Gi1/0/1":  {X: 10, Y: 10},
		"Gi1/0/2":  {X: 92, Y: 10},
		"Gi1/0/3":  {X: 10, Y: 92},
		"Gi1/0/10": {X: 92, Y: 92},
	}
	if !maps.Equal(got, want) {
		t.Errorf("PackNumeric = %v, want %v", got, want)
	}

	capped := PackNumeric(keys, Rect{W: 1000, H: 100}, 18, 3)
	if capped["Gi1/0/10"].X != 0 || capped["Gi1/0/10"].Y == 0 {
		t.Errorf("per-row cap not applied: %v", capped)
	}
}

func TestReprojectRoundTrip(t *testing.T) {
	orig := Rect{X: 10, Y: 20, W: 200, H: 100}
	resized := Rect{X: 40, Y: 5, W: 57, H: 333}
	start := map[string]Point{
		"a": {X: 10, Y: 20},
		"b": {X: 77.5, Y: 61.25},
		"c": {X: 210, Y: 120},
	}
	back := Reproject(Reproject(start, orig, resized), resized, orig)
	for k, p := range start {
		if !near(back[k], p) {
			t.Errorf("%s: %v after round trip, want %v", k, back[k], p)
		}
	}
}

func TestFitRects(t *testing.T) {
	if _, ok := FitRects(nil, 40, 40); ok {
		t.Error("FitRects of nothing reported ok")
	}
	tests := []struct {
		name  string
		rects []Rect
		want  Rect
	}{
		{
			name:  "clamped origin keeps span",
			rects: []Rect{{X: -5, Y: 10, W: 18, H: 18}, {X: 30, Y: 12, W: 18, H: 18}},
			want:  Rect{X: 0, Y: 10, W: 53, H: 40},
		},
		{
			name:  "far negative member",
			rects: []Rect{{X: -101, Y: -101, W: 18, H: 18}},
			want:  Rect{X: 0, Y: 0, W: 40, H: 40},
		},
		{
			name:  "positive members",
			rects: []Rect{{X: 10, Y: 20, W: 18, H: 18}, {X: 70, Y: 20, W: 18, H: 18}},
			want:  Rect{X: 10, Y: 20, W: 78, H: 40},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := FitRects(tt.rects, 40, 40); got != tt.want {
				t.Errorf("FitRects = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------- snap.go ----------

func TestApplySnap(t *testing.T) {
	tests := []struct {
		v, pitch, want float64
	}{
		{13, 10, 10},
		{15, 10, 20},
		{13, 0, 13},
		{13, -5, 13},
		{13, math.NaN(), 13},
	}
	for _, tt := range tests {
		if got := ApplySnap(tt.v, tt.pitch); got != tt.want {
			t.Errorf("ApplySnap(%v, %v) = %v, want %v", tt.v, tt.pitch, got, tt.want)
		}
	}
}

func TestDistribute(t *testing.T) {
	pos := map[string]Point{
		"a": {X: 0, Y: 5},
		"b": {X: 90, Y: 7},
		"c": {X: 30, Y: 9},
		"d": {X: 10, Y: 1},
	}
	get := func(k string) Point { return pos[k] }

	got := Distribute([]string{"a", "b", "c", "d"}, get, AxisX, 28)
	want := map[string]Point{
		"a": {X: 0, Y: 5},
		"d": {X: 30, Y: 1},
		"c": {X: 60, Y: 9},
		"b": {X: 90, Y: 7},
	}
	if !maps.Equal(got, want) {
		t.Errorf("Distribute = %v, want %v", got, want)
	}

	two := Distribute([]string{"b", "a"}, get, AxisX, 28)
	if two["b"].X != 28 || two["a"].X != 0 {
		t.Errorf("two-point distribute = %v", two)
	}
	if len(Distribute([]string{"a"}, get, AxisX, 28)) != 0 {
		t.Error("single key distribute should be a no-op")
	}
}

// ---------- selection.go ----------

func TestMarqueeSelect(t *testing.T) {
	pos := map[string]Point{"A": {X: 0, Y: 0}, "B": {X: 50, Y: 50}, "C": {X: 200, Y: 200}}
	got := MarqueeSelect([]string{"A", "B", "C"}, func(k string) Point { return pos[k] }, Rect{W: 60, H: 60})
	if !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("MarqueeSelect = %v, want [A B]", got)
	}
}

// ---------- history.go ----------

func TestHistoryCap(t *testing.T) {
	var h History
	for i := 0; i < HistoryLimit+10; i++ {
		h.Begin(Snapshot{Snap: float64(i)})
		h.Commit(Snapshot{Snap: float64(i + 1)})
	}
	undo, redo := h.Depth()
	if undo != HistoryLimit || redo != 0 {
		t.Errorf("Depth = %d, %d; want %d, 0", undo, redo, HistoryLimit)
	}
	// Oldest entries were evicted.
	var last Snapshot
	for h.CanUndo() {
		last, _ = h.Undo(Snapshot{})
	}
	if last.Snap != 10 {
		t.Errorf("oldest kept snapshot = %v, want 10", last.Snap)
	}
}

func TestHistoryBeginIsGuarded(t *testing.T) {
	var h History
	h.Begin(Snapshot{Snap: 1})
	h.Begin(Snapshot{Snap: 2})
	h.Commit(Snapshot{Snap: 3})
	got, _ := h.Undo(Snapshot{Snap: 3})
	if got.Snap != 1 {
		t.Errorf("second Begin clobbered pending: got %v", got.Snap)
	}
}

// ---------- session: gestures ----------

func TestMarqueeGesture(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{
		"Gi1/0/1": {X: 0, Y: 0},
		"Gi1/0/2": {X: 50, Y: 50},
		"Gi1/0/3": {X: 200, Y: 200},
	}), "Gi1/0/1", "Gi1/0/2", "Gi1/0/3")

	down(s, 1, 0, 60)
	if _, ok := s.Gesture().(Selecting); !ok {
		t.Fatalf("gesture = %s, want selecting", s.Gesture().Name())
	}
	move(s, 1, 30, 30)
	up(s, 1, 60, 0)

	if got := s.Selection().Keys(); !slices.Equal(got, []string{"Gi1/0/1", "Gi1/0/2"}) {
		t.Errorf("selection = %v", got)
	}
	if s.CanUndo() {
		t.Error("marquee selection recorded history")
	}

	// Empty marquee clears.
	down(s, 1, 300, 10)
	up(s, 1, 310, 20)
	if s.Selection().Len() != 0 {
		t.Errorf("selection = %v, want empty", s.Selection().Keys())
	}
}

func TestDragPorts(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{
		"Gi1/0/1": {X: 0, Y: 0},
		"Gi1/0/2": {X: 50, Y: 50},
	}), "Gi1/0/1", "Gi1/0/2")

	drag(s, Point{X: 5, Y: 5}, Point{X: 15, Y: 25})
	if got, _ := s.Registry().Position("Gi1/0/1"); got != (Point{X: 10, Y: 20}) {
		t.Errorf("Gi1/0/1 = %v, want {10 20}", got)
	}
	if got, _ := s.Registry().Position("Gi1/0/2"); got != (Point{X: 50, Y: 50}) {
		t.Errorf("Gi1/0/2 moved: %v", got)
	}
	if !s.CanUndo() || !s.Dirty() {
		t.Error("drag did not record history")
	}

	// Stale move after release is ignored.
	move(s, 1, 100, 100)
	if got, _ := s.Registry().Position("Gi1/0/1"); got != (Point{X: 10, Y: 20}) {
		t.Errorf("stale move applied: %v", got)
	}
}

func TestDragSelectionWithSnap(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{
		"Gi1/0/1": {X: 0, Y: 0},
		"Gi1/0/2": {X: 50, Y: 50},
	}), "Gi1/0/1", "Gi1/0/2")
	s.SetSnap(10)
	s.Selection().Replace("Gi1/0/1", "Gi1/0/2")

	drag(s, Point{X: 55, Y: 55}, Point{X: 62, Y: 58})
	if got, _ := s.Registry().Position("Gi1/0/1"); got != (Point{X: 10, Y: 0}) {
		t.Errorf("Gi1/0/1 = %v, want {10 0}", got)
	}
	if got, _ := s.Registry().Position("Gi1/0/2"); got != (Point{X: 60, Y: 50}) {
		t.Errorf("Gi1/0/2 = %v, want {60 50}", got)
	}
}

func TestNoOpGestureKeepsHistoryClean(t *testing.T) {
	s := newTestSession(t, Seed{Source: SeedDefault}, "Gi1/0/1", "Gi1/0/2")
	p := s.Registry().Rendered("Gi1/0/1")

	drag(s, Point{X: p.X + 1, Y: p.Y + 1}, Point{X: p.X + 1, Y: p.Y + 1})
	if s.CanUndo() {
		t.Error("zero-distance drag recorded an undo entry")
	}
}

func TestUndoRedoLaws(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{"Gi1/0/1": {X: 100, Y: 100}}), "Gi1/0/1")

	states := []Snapshot{s.Snapshot()}
	for i := 1; i <= 3; i++ {
		p := s.Registry().Rendered("Gi1/0/1")
		drag(s, Point{X: p.X + 5, Y: p.Y + 5}, Point{X: p.X + 5 + float64(i*10), Y: p.Y + 5})
		states = append(states, s.Snapshot())
	}

	for i := 2; i >= 0; i-- {
		if !s.Undo() {
			t.Fatalf("undo %d failed", i)
		}
		if !s.Snapshot().Equal(states[i]) {
			t.Errorf("after undo to %d: %v", i, s.Snapshot().Positions)
		}
	}
	if s.Undo() {
		t.Error("undo on empty stack reported success")
	}

	if !s.Redo() || !s.Snapshot().Equal(states[1]) {
		t.Errorf("redo did not restore state 1: %v", s.Snapshot().Positions)
	}

	p := s.Registry().Rendered("Gi1/0/1")
	drag(s, Point{X: p.X + 5, Y: p.Y + 5}, Point{X: p.X + 5, Y: p.Y + 50})
	if s.CanRedo() {
		t.Error("new gesture after undo left redo available")
	}
}

func TestPointerCancelRestores(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{"Gi1/0/1": {X: 0, Y: 0}}), "Gi1/0/1")
	renders := 0
	s.OnRender(func() { renders++ })

	down(s, 7, 5, 5)
	move(s, 7, 80, 80)
	s.PointerCancel(PointerEvent{ID: 7})

	if got, _ := s.Registry().Position("Gi1/0/1"); got != (Point{}) {
		t.Errorf("position after cancel = %v", got)
	}
	if s.CanUndo() || s.GestureInProgress() {
		t.Error("cancel left history or gesture behind")
	}
	if renders != 1 {
		t.Errorf("renders = %d, want 1", renders)
	}
}

func TestSecondPointerIgnored(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{
		"Gi1/0/1": {X: 0, Y: 0},
		"Gi1/0/2": {X: 50, Y: 50},
	}), "Gi1/0/1", "Gi1/0/2")

	down(s, 1, 5, 5)
	down(s, 2, 55, 55)
	move(s, 2, 100, 100)
	up(s, 2, 100, 100)
	if !s.GestureInProgress() {
		t.Fatal("second pointer ended the first gesture")
	}
	move(s, 1, 10, 5)
	up(s, 1, 10, 5)

	if got, _ := s.Registry().Position("Gi1/0/1"); got != (Point{X: 5, Y: 0}) {
		t.Errorf("Gi1/0/1 = %v, want {5 0}", got)
	}
	if got, _ := s.Registry().Position("Gi1/0/2"); got != (Point{X: 50, Y: 50}) {
		t.Errorf("Gi1/0/2 moved by second pointer: %v", got)
	}
}

func TestModifierTogglesSelection(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{
		"Gi1/0/1": {X: 0, Y: 0},
		"Gi1/0/2": {X: 50, Y: 50},
	}), "Gi1/0/1", "Gi1/0/2")

	s.PointerDown(PointerEvent{ID: 1, ClientX: 5, ClientY: 5, Modifier: true})
	s.PointerDown(PointerEvent{ID: 1, ClientX: 55, ClientY: 55, Modifier: true})
	if s.GestureInProgress() {
		t.Error("modifier click started a drag")
	}
	if got := s.Selection().Keys(); !slices.Equal(got, []string{"Gi1/0/1", "Gi1/0/2"}) {
		t.Errorf("selection = %v", got)
	}
	s.PointerDown(PointerEvent{ID: 1, ClientX: 5, ClientY: 5, Modifier: true})
	if got := s.Selection().Keys(); !slices.Equal(got, []string{"Gi1/0/2"}) {
		t.Errorf("selection after toggle off = %v", got)
	}
}

func TestDetachedViewportIsNoOp(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{"Gi1/0/1": {X: 0, Y: 0}}), "Gi1/0/1")
	s.SetViewport(Viewport{})
	down(s, 1, 5, 5)
	if s.GestureInProgress() {
		t.Error("gesture started without a measurable surface")
	}
}

func TestInactiveSessionIgnoresInput(t *testing.T) {
	s := newTestSession(t, Seed{Source: SeedDefault}, "Gi1/0/1")
	s.Stop()
	down(s, 1, 0, 0)
	if s.GestureInProgress() || s.RefreshBlocked() {
		t.Error("stopped session still blocks refresh or accepts gestures")
	}
	if s.SetSnap(10) {
		t.Error("stopped session accepted an edit")
	}
}

// ---------- session: boxes ----------

func mainPorts() []string {
	return []string{"Gi1/0/1", "Gi1/0/2", "Gi1/0/3", "Gi1/0/4"}
}

func TestMainToolFitsAndPacks(t *testing.T) {
	s := newTestSession(t, Seed{Source: SeedDefault}, mainPorts()...)
	if !s.SetMainTool(true) {
		t.Fatal("enabling the main tool recorded nothing")
	}
	box := s.MainBox()
	if box == nil {
		t.Fatal("no main box")
	}
	// The default grid is one row of four ports starting at x=319, y=42.
	if *box != (Rect{X: 319, Y: 42, W: 102, H: 40}) {
		t.Errorf("fitted box = %v", *box)
	}
	if got := s.Registry().Rendered("Gi1/0/4"); got != (Point{X: 319, Y: 64}) {
		t.Errorf("Gi1/0/4 = %v, want {319 64}", got)
	}

	s.SetUplinkTool(true)
	if s.MainTool() {
		t.Error("tools are not exclusive")
	}
}

func TestMainToolRespectsPinnedPorts(t *testing.T) {
	seed := configSeed(map[string]Point{"Gi1/0/1": {X: 500, Y: 300}})
	s := newTestSession(t, seed, mainPorts()...)
	s.SetMainTool(true)

	if got := *s.MainBox(); got != DefaultMainBox {
		t.Errorf("box = %v, want default %v", got, DefaultMainBox)
	}
	if got, _ := s.Registry().Position("Gi1/0/1"); got != (Point{X: 500, Y: 300}) {
		t.Errorf("pinned port repacked to %v", got)
	}
}

func TestUndoRestoresPins(t *testing.T) {
	s := newTestSession(t, Seed{Source: SeedDefault}, mainPorts()...)
	p := s.Registry().Rendered("Gi1/0/1")

	drag(s, Point{X: p.X + 1, Y: p.Y + 1}, Point{X: p.X + 41, Y: p.Y + 31})
	if !s.Pinned("Gi1/0/1") {
		t.Fatal("dragged port not pinned")
	}
	if !s.Undo() {
		t.Fatal("undo failed")
	}
	if s.Pinned("Gi1/0/1") {
		t.Error("undo left the port pinned")
	}
	if !s.Redo() || !s.Pinned("Gi1/0/1") {
		t.Error("redo did not pin the port again")
	}
	s.Undo()

	// Same result as a fresh session on the default grid.
	s.SetMainTool(true)
	if got := *s.MainBox(); got != (Rect{X: 319, Y: 42, W: 102, H: 40}) {
		t.Errorf("box after undo = %v", got)
	}
}

func TestOrderChangeRepacks(t *testing.T) {
	s := newTestSession(t, Seed{Source: SeedDefault}, mainPorts()...)
	s.SetMainTool(true)
	s.SetOrder(OrderOddEven)

	r1 := s.Registry().Rendered("Gi1/0/1")
	r3 := s.Registry().Rendered("Gi1/0/3")
	r2 := s.Registry().Rendered("Gi1/0/2")
	if r1.Y != r3.Y || r2.Y <= r1.Y {
		t.Errorf("odd/even not applied: 1=%v 3=%v 2=%v", r1, r3, r2)
	}
	s.Undo()
	if s.Order() != OrderNumeric {
		t.Errorf("order after undo = %s", s.Order())
	}
}

func TestBoxResizeRoundTripInGesture(t *testing.T) {
	s := newTestSession(t, Seed{Source: SeedDefault}, mainPorts()...)
	s.SetMainTool(true)
	before := s.Snapshot()

	grip := HandleSE.Anchor(*s.MainBox())
	down(s, 1, grip.X, grip.Y)
	if g, ok := s.Gesture().(BoxResizing); !ok || g.Handle != HandleSE {
		t.Fatalf("gesture = %s, want se resize", s.Gesture().Name())
	}
	move(s, 1, grip.X+100, grip.Y+77)
	grown := s.Registry().Rendered("Gi1/0/4")
	move(s, 1, grip.X, grip.Y)
	up(s, 1, grip.X, grip.Y)

	if grown == before.Positions["Gi1/0/4"] {
		t.Error("resize did not move members")
	}
	for k, p := range before.Positions {
		if got := s.Registry().Rendered(k); !near(got, p) {
			t.Errorf("%s = %v after round trip, want %v", k, got, p)
		}
	}
}

func TestBoxMoveTranslatesMembers(t *testing.T) {
	s := newTestSession(t, Seed{Source: SeedDefault}, mainPorts()...)
	s.SetMainTool(true)
	box := *s.MainBox()
	// A point inside the box that is not on a glyph.
	p := Point{X: box.X + 60, Y: box.Y + 30}
	before := s.Registry().Rendered("Gi1/0/1")

	drag(s, p, Point{X: p.X + 10, Y: p.Y + 5})
	if got := *s.MainBox(); got.X != box.X+10 || got.Y != box.Y+5 {
		t.Errorf("box = %v", got)
	}
	if got := s.Registry().Rendered("Gi1/0/1"); got != (Point{X: before.X + 10, Y: before.Y + 5}) {
		t.Errorf("member = %v", got)
	}
}

func TestBoxDrawReplacesBox(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{"Gi1/0/1": {X: 500, Y: 300}}), mainPorts()...)
	s.SetMainTool(true)

	drag(s, Point{X: 0, Y: 0}, Point{X: 3, Y: 3})
	got := s.MainBox()
	if got == nil || got.W < 18 || got.H < 18 {
		t.Fatalf("drawn box = %v, want at least glyph size", got)
	}
	// Drawing packs explicitly, so the pinned port joins the box.
	if p := s.Registry().Rendered("Gi1/0/1"); !got.Contains(p) {
		t.Errorf("Gi1/0/1 at %v not inside drawn box %v", p, *got)
	}
}

func TestAutoLayoutAssist(t *testing.T) {
	s := newTestSession(t, Seed{Source: SeedDefault}, append(mainPorts(), "Te1/0/1")...)
	s.ArmAutoLayout(true)

	down(s, 1, 100, 100)
	if _, ok := s.Gesture().(AutoLayoutAssist); !ok {
		t.Fatalf("gesture = %s, want auto-layout", s.Gesture().Name())
	}
	move(s, 1, 200, 150)
	up(s, 1, 200, 150)

	want := map[string]Point{
		"Gi1/0/1": {X: 100, Y: 100},
		"Gi1/0/3": {X: 200, Y: 100},
		"Gi1/0/2": {X: 100, Y: 150},
		"Gi1/0/4": {X: 200, Y: 150},
		"Te1/0/1": {X: 216, Y: 100},
	}
	for k, p := range want {
		if got := s.Registry().Rendered(k); got != p {
			t.Errorf("%s = %v, want %v", k, got, p)
		}
	}
	if !s.MainTool() || !s.UplinkTool() || s.AutoLayoutArmed() {
		t.Error("assist should enable both tools and disarm")
	}
	if !s.Undo() {
		t.Error("assist was not undoable")
	}
}

func TestAlignUsesFirstSelected(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{
		"Gi1/0/1": {X: 0, Y: 10},
		"Gi1/0/2": {X: 50, Y: 70},
	}), "Gi1/0/1", "Gi1/0/2")

	s.Selection().Replace("Gi1/0/2", "Gi1/0/1")
	s.AlignRow()
	if got := s.Registry().Rendered("Gi1/0/1"); got != (Point{X: 0, Y: 70}) {
		t.Errorf("Gi1/0/1 = %v, want {0 70}", got)
	}
	s.AlignColumn()
	if got := s.Registry().Rendered("Gi1/0/1"); got != (Point{X: 50, Y: 70}) {
		t.Errorf("Gi1/0/1 = %v, want {50 70}", got)
	}
	s.Undo()
	s.Undo()
	if got := s.Registry().Rendered("Gi1/0/1"); got != (Point{X: 0, Y: 10}) {
		t.Errorf("after two undos = %v", got)
	}
}

func TestDistributeTwoUsesGlyphPlusGap(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{
		"Gi1/0/1": {X: 0, Y: 10},
		"Gi1/0/2": {X: 300, Y: 70},
	}), "Gi1/0/1", "Gi1/0/2")
	s.Selection().Replace("Gi1/0/1", "Gi1/0/2")
	s.Distribute(AxisX)
	if got := s.Registry().Rendered("Gi1/0/2"); got != (Point{X: 28, Y: 70}) {
		t.Errorf("Gi1/0/2 = %v, want {28 70}", got)
	}
}

// ---------- jsonedit.go ----------

func TestApplyJSONIsDestructive(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{"Gi1/0/2": {X: 50, Y: 50}}), "Gi1/0/1", "Gi1/0/2")
	renders := 0
	s.OnRender(func() { renders++ })

	if err := s.ApplyJSON(`{"gi1/0/1": {"x": 5, "y": 5}}`); err != nil {
		t.Fatalf("ApplyJSON: %v", err)
	}
	want := map[string]Point{"Gi1/0/1": {X: 5, Y: 5}}
	if got := s.Registry().Positions(); !maps.Equal(got, want) {
		t.Errorf("positions = %v, want %v", got, want)
	}
	if renders != 1 {
		t.Errorf("renders = %d, want 1", renders)
	}
	if !s.Undo() {
		t.Error("apply was not undoable")
	}
}

func TestApplyJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"truncated", `{"Gi1/0/1":`},
		{"null", `null`},
		{"array", `[{"x":1,"y":1}]`},
		{"string", `"Gi1/0/1"`},
		{"trailing", `{} {}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, configSeed(map[string]Point{"Gi1/0/1": {X: 1, Y: 2}}), "Gi1/0/1")
			renders := 0
			s.OnRender(func() { renders++ })
			if err := s.ApplyJSON(tt.text); err == nil {
				t.Fatal("ApplyJSON accepted invalid input")
			}
			if got, _ := s.Registry().Position("Gi1/0/1"); got != (Point{X: 1, Y: 2}) || renders != 0 {
				t.Errorf("state changed on rejected input: %v, renders=%d", got, renders)
			}
		})
	}
}

func TestApplyJSONSkipsBadEntries(t *testing.T) {
	s := newTestSession(t, Seed{Source: SeedDefault}, "Gi1/0/1", "Gi1/0/3")
	text := `{"Gi1/0/1": {"x": "a", "y": 1}, "Nope": {"x": 1, "y": 1}, "Gi1/0/3": {"x": 1, "y": 2}, "x": 5}`
	if err := s.ApplyJSON(text); err != nil {
		t.Fatalf("ApplyJSON: %v", err)
	}
	want := map[string]Point{"Gi1/0/3": {X: 1, Y: 2}}
	if got := s.Registry().Positions(); !maps.Equal(got, want) {
		t.Errorf("positions = %v, want %v", got, want)
	}
}

func TestExportJSONNaturalOrder(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{
		"Gi1/0/10": {X: 1, Y: 2},
		"Gi1/0/2":  {X: 3.333, Y: 4},
	}), "Gi1/0/2", "Gi1/0/10")

	want := "{\n" +
		`  "Gi1/0/2": {"x": 3.33, "y": 4},` + "\n" +
		`  "Gi1/0/10": {"x": 1, "y": 2}` + "\n" +
		"}"
	if got := s.ExportJSON(); got != want {
		t.Errorf("ExportJSON =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	got, err := FormatJSON(`{"a":{"x":1,"y":2}}`)
	if err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	want := "{\n  \"a\": {\n    \"x\": 1,\n    \"y\": 2\n  }\n}"
	if got != want {
		t.Errorf("FormatJSON =\n%s", got)
	}
	if _, err := FormatJSON(`[1]`); err == nil {
		t.Error("FormatJSON accepted an array")
	}
}

func TestResetLayout(t *testing.T) {
	s := newTestSession(t, configSeed(map[string]Point{"Gi1/0/1": {X: 500, Y: 300}}), "Gi1/0/1", "Gi1/0/2")
	if err := s.ResetLayout(); err != nil {
		t.Fatalf("ResetLayout: %v", err)
	}
	if got := s.Registry().Positions(); !maps.Equal(got, s.Registry().Defaults()) {
		t.Errorf("positions = %v, want defaults", got)
	}
	if s.Pinned("Gi1/0/1") {
		t.Error("reset left a port pinned")
	}
	if !strings.Contains(s.ExportJSON(), `"Gi1/0/2"`) {
		t.Error("export does not show reset positions")
	}
}

func TestStartResolvesSeedNames(t *testing.T) {
	s := newTestSession(t, Seed{
		Source:    SeedStored,
		Positions: map[string]Point{"gi1/0/1": {X: 1, Y: 1}, "Gone": {X: 9, Y: 9}},
		MainBox:   &Rect{X: 10, Y: 10, W: -50, H: 5},
		Order:     OrderOddEven,
	}, "Gi1/0/1", "Gi1/0/2")

	if got := s.Registry().Positions(); len(got) != 1 || got["Gi1/0/1"] != (Point{X: 1, Y: 1}) {
		t.Errorf("positions = %v", got)
	}
	if !s.Pinned("Gi1/0/1") || s.Pinned("Gi1/0/2") {
		t.Error("pins do not follow the seed")
	}
	if got := *s.MainBox(); got.W < MinBoxSize || got.H < MinBoxSize {
		t.Errorf("seed box not normalized: %v", got)
	}
	if s.Order() != OrderOddEven || !s.RefreshBlocked() {
		t.Error("seed order or active flag not applied")
	}
}
