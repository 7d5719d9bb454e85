package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/export"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/layout"
)

const (
	// cellAspect is the height of a terminal cell relative to its width.
	cellAspect = 2.0
	// pointerID identifies the mouse; terminals report a single pointer.
	pointerID = 1
	// surfacePad keeps boxes dragged past the ports inside the view.
	surfacePad = 12
)

var (
	mainBoxColor   = tcell.GetColor("#38bdf8")
	uplinkBoxColor = tcell.GetColor("#a855f7")
	marqueeColor   = tcell.GetColor("#facc15")
)

// panelView draws the switch faceplate and turns mouse input into layout
// pointer events.
type panelView struct {
	*tview.Box
	app *App

	// pressed is set between a left press inside the view and its release.
	pressed bool
	// listOffset is the first visible row in list view.
	listOffset int
}

func newPanelView(a *App) *panelView {
	return &panelView{Box: tview.NewBox(), app: a}
}

// surfaceExtent returns the logical area the view must show.
func (a *App) surfaceExtent() (float64, float64) {
	w, h := a.Session.Registry().Extent()
	if !a.Session.Active() {
		return w, h
	}
	for _, r := range []*layout.Rect{a.Session.MainBox(), a.Session.UplinkBox()} {
		if r == nil {
			continue
		}
		w = math.Max(w, r.Right()+surfacePad)
		h = math.Max(h, r.Bottom()+surfacePad)
	}
	return w, h
}

// panelTitle is the view title: the panel name, or the editor readout.
func (a *App) panelTitle() string {
	s := a.Session
	if !s.Active() {
		switch {
		case a.Config.Title != "":
			return a.Config.Title
		case a.Catalog.Prefix != "":
			return a.Catalog.Prefix
		}
		return "Panel"
	}
	cur := s.Cursor()
	parts := []string{
		fmt.Sprintf("Layout editor (%s, %s)", formatCoord(cur.X), formatCoord(cur.Y)),
		fmt.Sprintf("%d selected", s.Selection().Len()),
	}
	if s.Order() == layout.OrderOddEven {
		parts = append(parts, "odd/even")
	}
	if pitch := s.SnapPitch(); pitch > 0 {
		parts = append(parts, "snap "+formatCoord(pitch))
	}
	if s.AutoLayoutArmed() {
		parts = append(parts, "auto layout")
	}
	if s.Dirty() {
		parts = append(parts, "modified")
	}
	return strings.Join(parts, " | ")
}

func (p *panelView) Draw(screen tcell.Screen) {
	a := p.app
	p.SetTitle(a.panelTitle())
	p.Box.DrawForSubclass(screen, p)

	x, y, w, h := p.GetInnerRect()
	if w <= 0 || h <= 0 {
		return
	}
	s := a.Session
	// The transform stays fixed while a pointer is down so a drag that
	// grows the surface does not rescale under the pointer.
	if !s.GestureInProgress() {
		ew, eh := a.surfaceExtent()
		client := layout.Rect{X: float64(x), Y: float64(y), W: float64(w), H: float64(h)}
		s.SetViewport(layout.FitViewport(ew, eh, client, cellAspect))
	}

	if a.Config.View == domain.ViewList && !s.Active() {
		p.drawList(screen, x, y, w, h)
		return
	}

	c := canvas{screen: screen, x: x, y: y, w: w, h: h, v: s.Viewport()}
	if s.Active() {
		if r := s.MainBox(); r != nil {
			c.rect(*r, boxStyle(mainBoxColor, s.MainTool()), "Ports")
		}
		if r := s.UplinkBox(); r != nil {
			c.rect(*r, boxStyle(uplinkBoxColor, s.UplinkTool()), "Uplinks")
		}
	}

	reg := s.Registry()
	for _, it := range reg.Items() {
		status := domain.StatusUnknown
		if port := a.Catalog.Get(it.Key); port != nil {
			status = port.Status()
		}
		style := tcell.StyleDefault.Background(tcell.GetColor(status.Color())).Foreground(tcell.ColorBlack)
		if s.Active() && s.Selection().Has(it.Key) {
			style = style.Reverse(true).Bold(true)
		}
		if it.Key == a.FocusKey {
			style = style.Underline(true)
		}
		c.glyph(reg.Rect(it.Key), style, export.ShortLabel(defaultText(it.Name, it.Key)))
	}

	marquee := tcell.StyleDefault.Foreground(marqueeColor)
	switch g := s.Gesture().(type) {
	case layout.Selecting:
		c.rect(g.Area(), marquee, "")
	case layout.AutoLayoutAssist:
		c.rect(g.Area(), marquee, "Auto layout")
	}
}

// drawList renders one row per port: status dot, name, status and speed.
func (p *panelView) drawList(screen tcell.Screen, x, y, w, h int) {
	ports := p.app.Catalog.Ports()
	if len(ports) == 0 {
		tview.Print(screen, "No ports", x, y, w, tview.AlignCenter, tcell.ColorGray)
		return
	}
	for i, port := range ports {
		if port.Key() == p.app.FocusKey {
			if i < p.listOffset {
				p.listOffset = i
			}
			if i >= p.listOffset+h {
				p.listOffset = i - h + 1
			}
		}
	}
	p.listOffset = max(0, min(p.listOffset, len(ports)-h))

	for row := 0; row < h && p.listOffset+row < len(ports); row++ {
		port := ports[p.listOffset+row]
		status := port.Status()
		speed := port.Speed
		if mbps, ok := domain.ParseSpeedMbps(port.Speed); ok {
			speed = domain.SpeedLabel(mbps)
		}
		line := fmt.Sprintf("[%s]●[-] %-14s %-10s %s", status.Color(), tview.Escape(port.Key()), status, tview.Escape(speed))
		if port.Key() == p.app.FocusKey {
			line = "[::u]" + line + "[::-]"
		}
		tview.Print(screen, line, x+1, y+row, w-1, tview.AlignLeft, tcell.ColorDefault)
	}
}

// listKeyAt returns the port on screen row cy in list view.
func (p *panelView) listKeyAt(cy int) (string, bool) {
	_, y, _, _ := p.GetInnerRect()
	ports := p.app.Catalog.Ports()
	i := p.listOffset + cy - y
	if cy < y || i < 0 || i >= len(ports) {
		return "", false
	}
	return ports[i].Key(), true
}

func (p *panelView) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
	return p.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
		cx, cy := event.Position()
		if !p.InRect(cx, cy) && !p.pressed {
			return false, nil
		}
		a := p.app
		s := a.Session
		ev := layout.PointerEvent{
			ID:       pointerID,
			ClientX:  float64(cx) + 0.5,
			ClientY:  float64(cy) + 0.5,
			Modifier: event.Modifiers()&(tcell.ModCtrl|tcell.ModShift) != 0,
		}

		switch action {
		case tview.MouseLeftDown:
			setFocus(p)
			p.pressed = true
			if s.Active() {
				s.PointerDown(ev)
			}
			a.focusAt(cx, cy)
			return true, p
		case tview.MouseMove:
			if s.Active() {
				s.PointerMove(ev)
			}
			if p.pressed {
				return true, p
			}
			return true, nil
		case tview.MouseLeftUp:
			if !p.pressed {
				return true, nil
			}
			p.pressed = false
			if s.Active() {
				s.PointerUp(ev)
				a.afterGesture()
			}
			return true, nil
		case tview.MouseLeftClick, tview.MouseLeftDoubleClick:
			return true, nil
		}
		return false, nil
	})
}

// focusAt shows the details of the port under a screen cell, if any.
func (a *App) focusAt(cx, cy int) {
	if a.Config.View == domain.ViewList && !a.Session.Active() {
		if key, ok := a.PanelView.listKeyAt(cy); ok {
			a.setFocus(key)
		}
		return
	}
	pt, ok := a.Session.Viewport().MapToLogical(float64(cx)+0.5, float64(cy)+0.5)
	if !ok {
		return
	}
	if key, ok := a.Session.Registry().HitTest(pt); ok {
		a.setFocus(key)
	}
}

// canvas draws logical shapes into the view's inner rectangle.
type canvas struct {
	screen     tcell.Screen
	x, y, w, h int
	v          layout.Viewport
}

func (c canvas) cell(p layout.Point) (int, int) {
	cx, cy := c.v.MapToClient(p)
	return int(math.Floor(cx)), int(math.Floor(cy))
}

func (c canvas) set(cx, cy int, r rune, style tcell.Style) {
	if cx < c.x || cx >= c.x+c.w || cy < c.y || cy >= c.y+c.h {
		return
	}
	c.screen.SetContent(cx, cy, r, nil, style)
}

// glyph fills the cells covered by r and centers label in them when it fits.
func (c canvas) glyph(r layout.Rect, style tcell.Style, label string) {
	x0, y0 := c.cell(layout.Point{X: r.X, Y: r.Y})
	x1, y1 := c.cell(layout.Point{X: r.Right(), Y: r.Bottom()})
	x1 = max(x0, x1-1)
	y1 = max(y0, y1-1)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			c.set(cx, cy, ' ', style)
		}
	}
	width := x1 - x0 + 1
	if runewidth.StringWidth(label) > width {
		return
	}
	start := x0 + (width-runewidth.StringWidth(label))/2
	row := y0 + (y1-y0)/2
	for i, ch := range []rune(label) {
		c.set(start+i, row, ch, style)
	}
}

// rect outlines r with a dashed border and an optional caption.
func (c canvas) rect(r layout.Rect, style tcell.Style, caption string) {
	x0, y0 := c.cell(layout.Point{X: r.X, Y: r.Y})
	x1, y1 := c.cell(layout.Point{X: r.Right(), Y: r.Bottom()})
	x1 = max(x0+1, x1)
	y1 = max(y0+1, y1)
	for cx := x0 + 1; cx < x1; cx++ {
		c.set(cx, y0, '┄', style)
		c.set(cx, y1, '┄', style)
	}
	for cy := y0 + 1; cy < y1; cy++ {
		c.set(x0, cy, '┆', style)
		c.set(x1, cy, '┆', style)
	}
	c.set(x0, y0, '┌', style)
	c.set(x1, y0, '┐', style)
	c.set(x0, y1, '└', style)
	c.set(x1, y1, '┘', style)
	for i, ch := range []rune(caption) {
		if x0+1+i >= x1 {
			break
		}
		c.set(x0+1+i, y0, ch, style)
	}
}

// boxStyle dims a box whose tool is off.
func boxStyle(color tcell.Color, active bool) tcell.Style {
	style := tcell.StyleDefault.Foreground(color)
	if !active {
		style = style.Dim(true)
	}
	return style
}

func defaultText(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
