package ui

import (
	"maps"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/layout"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/store"
)

// memoryHost is a domain.Host over an in-memory states map.
type memoryHost struct {
	mu     sync.Mutex
	states domain.States
	calls  []string
}

func (h *memoryHost) States() domain.States {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.states
}

func (h *memoryHost) CallService(svcDomain, service string, data map[string]any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entityID, _ := data["entity_id"].(string)
	h.calls = append(h.calls, svcDomain+"."+service+" "+entityID)
	st, ok := h.states[entityID]
	if !ok {
		return
	}
	next := maps.Clone(h.states)
	if service == domain.ServiceTurnOn {
		st.State = domain.SwitchStateOn
	} else {
		st.State = domain.SwitchStateOff
	}
	next[entityID] = st
	h.states = next
}

func (h *memoryHost) set(entityID string, st domain.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	next := maps.Clone(h.states)
	next[entityID] = st
	h.states = next
}

func (h *memoryHost) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func testStates() domain.States {
	port := func(name, state, admin, oper string) domain.State {
		return domain.State{State: state, Attributes: map[string]any{"Name": name, "Admin": admin, "Oper": oper, "Speed": "1000000000"}}
	}
	return domain.States{
		"switch.sw1_gi1_0_1":               port("Gi1/0/1", "on", "Up", "Up"),
		"switch.sw1_gi1_0_2":               port("Gi1/0/2", "on", "Up", "Down"),
		"switch.sw1_gi1_0_3":               port("Gi1/0/3", "off", "Down", "Down"),
		"switch.sw1_gi1_0_4":               port("Gi1/0/4", "on", "Up", "Up"),
		"switch.sw1_te1_1_1":               port("Te1/1/1", "on", "Up", "Up"),
		"sensor.sw1_hostname":              {State: "core-sw1"},
		"sensor.sw1_gi1_0_1_rx_throughput": {State: "250000"},
		"sensor.sw1_gi1_0_1_tx_throughput": {State: "125000"},
	}
}

func testConfig() *domain.Config {
	cfg := &domain.Config{
		View:        domain.ViewPanel,
		Device:      "sw1",
		PanelWidth:  200,
		PortsPerRow: 4,
		UplinkPorts: domain.StringList{"Te1/1/1"},
	}
	cfg.Normalize()
	return cfg
}

type TestHarness struct {
	t       *testing.T
	app     *App
	screen  tcell.SimulationScreen
	host    *memoryHost
	slots   *store.MemorySlots
	workDir string
	runErr  chan error
	once    sync.Once
}

func NewTestHarness(t *testing.T) *TestHarness {
	t.Helper()
	return NewTestHarnessWithConfig(t, testConfig(), store.NewMemorySlots())
}

func NewTestHarnessWithConfig(t *testing.T, cfg *domain.Config, slots *store.MemorySlots) *TestHarness {
	t.Helper()

	host := &memoryHost{states: testStates()}
	workDir := t.TempDir()
	app, err := New(Options{
		Config:  cfg,
		WorkDir: workDir,
		Host:    host,
		Slots:   slots,
		Logger:  zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	screen.SetSize(80, 25)
	app.TviewApp.SetScreen(screen)

	h := &TestHarness{
		t:       t,
		app:     app,
		screen:  screen,
		host:    host,
		slots:   slots,
		workDir: workDir,
		runErr:  make(chan error, 1),
	}
	t.Cleanup(h.Close)

	go func() {
		h.runErr <- app.Run()
	}()

	h.WaitForDraw()
	return h
}

func (h *TestHarness) Close() {
	h.once.Do(func() {
		h.app.Stop()
		select {
		case err := <-h.runErr:
			if err != nil {
				h.t.Fatalf("app run failed: %v", err)
			}
		case <-time.After(2 * time.Second):
		}
	})
}

func (h *TestHarness) WaitForDraw() {
	done := make(chan struct{})
	h.app.TviewApp.QueueUpdateDraw(func() {
		close(done)
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		h.t.Fatalf("timed out waiting for draw")
	}
}

// Do runs fn on the UI loop and waits for the following draw.
func (h *TestHarness) Do(fn func(a *App)) {
	h.t.Helper()
	done := make(chan struct{})
	h.app.TviewApp.QueueUpdateDraw(func() {
		fn(h.app)
		close(done)
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		h.t.Fatalf("timed out waiting for UI update")
	}
	h.WaitForDraw()
}

// sync injects the sentinel key and waits until every earlier event was handled.
func (h *TestHarness) sync() {
	h.t.Helper()
	done := make(chan struct{})
	h.Do(func(a *App) { a.SentinelCh = done })
	h.screen.InjectKey(sentinelKey, 0, tcell.ModNone)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		h.t.Fatalf("timed out waiting for event processing")
	}
	h.WaitForDraw()
}

func (h *TestHarness) PressKey(key tcell.Key, r rune, mod tcell.ModMask) {
	h.t.Helper()
	h.screen.InjectKey(key, r, mod)
	h.sync()
}

func (h *TestHarness) PressRune(r rune) {
	h.t.Helper()
	h.PressKey(tcell.KeyRune, r, tcell.ModNone)
}

func (h *TestHarness) PressEnter() {
	h.t.Helper()
	h.PressKey(tcell.KeyEnter, 0, tcell.ModNone)
}

func (h *TestHarness) PressEscape() {
	h.t.Helper()
	h.PressKey(tcell.KeyEscape, 0, tcell.ModNone)
}

func (h *TestHarness) PressTab() {
	h.t.Helper()
	h.PressKey(tcell.KeyTab, 0, tcell.ModNone)
}

func (h *TestHarness) PressCtrl(r rune) {
	h.t.Helper()
	switch r {
	case 's', 'S':
		h.PressKey(tcell.KeyCtrlS, 0, tcell.ModNone)
	case 'z', 'Z':
		h.PressKey(tcell.KeyCtrlZ, 0, tcell.ModNone)
	case 'y', 'Y':
		h.PressKey(tcell.KeyCtrlY, 0, tcell.ModNone)
	case 'f', 'F':
		h.PressKey(tcell.KeyCtrlF, 0, tcell.ModNone)
	default:
		h.t.Fatalf("unsupported ctrl key: %q", r)
	}
}

// Mouse injects a mouse state and waits for it to be handled.
func (h *TestHarness) Mouse(x, y int, buttons tcell.ButtonMask, mod tcell.ModMask) {
	h.t.Helper()
	h.screen.InjectMouse(x, y, buttons, mod)
	h.sync()
}

// Drag presses at from, moves to to and releases there.
func (h *TestHarness) Drag(fromX, fromY, toX, toY int) {
	h.t.Helper()
	h.Mouse(fromX, fromY, tcell.ButtonNone, tcell.ModNone)
	h.Mouse(fromX, fromY, tcell.Button1, tcell.ModNone)
	h.Mouse(toX, toY, tcell.Button1, tcell.ModNone)
	h.Mouse(toX, toY, tcell.ButtonNone, tcell.ModNone)
}

// PortCell returns the screen cell under the center of a port glyph.
func (h *TestHarness) PortCell(key string) (int, int) {
	h.t.Helper()
	var x, y int
	h.Do(func(a *App) {
		r := a.Session.Registry().Rect(key)
		cx, cy := a.Session.Viewport().MapToClient(layout.Point{X: r.X + r.W/2, Y: r.Y + r.H/2})
		x, y = int(cx), int(cy)
	})
	return x, y
}

// Rendered reads the drawn position of key on the UI loop.
func (h *TestHarness) Rendered(key string) layout.Point {
	h.t.Helper()
	var p layout.Point
	h.Do(func(a *App) { p = a.Session.Registry().Rendered(key) })
	return p
}

func (h *TestHarness) GetScreenText() string {
	cells, width, height := h.screen.GetContents()
	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			cell := cells[row*width+col]
			if len(cell.Runes) > 0 && cell.Runes[0] != 0 {
				sb.WriteRune(cell.Runes[0])
			} else {
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

func (h *TestHarness) DumpScreen() {
	h.t.Logf("\n%s", h.GetScreenText())
}

func (h *TestHarness) AssertScreenContains(substr string) {
	h.t.Helper()
	text := h.GetScreenText()
	if !strings.Contains(text, substr) {
		h.DumpScreen()
		h.t.Fatalf("screen does not contain %q", substr)
	}
}

func (h *TestHarness) AssertScreenNotContains(substr string) {
	h.t.Helper()
	text := h.GetScreenText()
	if strings.Contains(text, substr) {
		h.DumpScreen()
		h.t.Fatalf("screen unexpectedly contains %q", substr)
	}
}

func (h *TestHarness) AssertStatusContains(substr string) {
	h.t.Helper()
	var status string
	h.Do(func(a *App) { status = a.StatusLine.GetText(true) })
	if !strings.Contains(status, substr) {
		h.DumpScreen()
		h.t.Fatalf("status %q does not contain %q", status, substr)
	}
}
