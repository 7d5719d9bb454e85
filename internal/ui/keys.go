package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/layout"
)

// snapPitches are the grid pitches cycled by the snap key.
var snapPitches = []float64{0, 5, 10, 20}

// onPanelKeyPress handles keys while the panel view has focus.
func (a *App) onPanelKeyPress(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyLeft:
		a.moveFocus(-1)
		return nil
	case tcell.KeyRight:
		a.moveFocus(1)
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			a.showQuitDialog()
			return nil
		case '?':
			a.showHelpPopup()
			return nil
		case 'h':
			a.moveFocus(-1)
			return nil
		case 'l':
			a.moveFocus(1)
			return nil
		case 'e':
			a.ToggleEditor()
			return nil
		case 't':
			a.ToggleFocusedPort()
			return nil
		}
	}

	if a.Session.Active() {
		if e := a.onEditorKeyPress(event); e != event {
			return e
		}
	}
	return event
}

// onEditorKeyPress handles layout editor keys.
func (a *App) onEditorKeyPress(event *tcell.EventKey) *tcell.EventKey {
	s := a.Session
	switch event.Key() {
	case tcell.KeyEscape:
		a.cancelGesture()
		return nil
	case tcell.KeyCtrlZ:
		a.report(s.Undo(), "Undone", "Nothing to undo")
		return nil
	case tcell.KeyCtrlY:
		a.report(s.Redo(), "Redone", "Nothing to redo")
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'b':
			on := !s.MainTool()
			s.SetMainTool(on)
			a.report(s.MainTool() == on, toolStatus("Ports box", on), "Finish the current gesture first")
			return nil
		case 'u':
			on := !s.UplinkTool()
			s.SetUplinkTool(on)
			a.report(s.UplinkTool() == on, toolStatus("Uplinks box", on), "Finish the current gesture first")
			return nil
		case 'o':
			mode := layout.OrderOddEven
			if s.Order() == layout.OrderOddEven {
				mode = layout.OrderNumeric
			}
			a.report(s.SetOrder(mode), "Ports box order: "+string(mode), "Finish the current gesture first")
			return nil
		case 'g':
			pitch := nextSnapPitch(s.SnapPitch())
			msg := "Snap off"
			if pitch > 0 {
				msg = "Snap grid " + formatCoord(pitch)
			}
			a.report(s.SetSnap(pitch), msg, "Finish the current gesture first")
			return nil
		case 'a':
			armed := !s.AutoLayoutArmed()
			s.ArmAutoLayout(armed)
			if s.AutoLayoutArmed() {
				a.setStatus("Auto layout: drag from the first port to the last port")
			} else {
				a.setStatus("Auto layout cancelled")
			}
			return nil
		case 'r':
			a.report(s.AlignRow(), "Aligned selection to a row", "Select ports to align")
			return nil
		case 'c':
			a.report(s.AlignColumn(), "Aligned selection to a column", "Select ports to align")
			return nil
		case 'x':
			a.report(s.Distribute(layout.AxisX), "Distributed selection horizontally", "Select ports to distribute")
			return nil
		case 'y':
			a.report(s.Distribute(layout.AxisY), "Distributed selection vertically", "Select ports to distribute")
			return nil
		case 'j':
			a.showJSONEditor()
			return nil
		}
	}
	return event
}

// report sets the status line from the outcome of a session operation.
func (a *App) report(ok bool, done, noop string) {
	if ok {
		a.renderDetails()
		a.setStatus(done)
		return
	}
	a.setStatus(noop)
}

func toolStatus(name string, on bool) string {
	if on {
		return name + " tool on"
	}
	return name + " tool off"
}

func nextSnapPitch(current float64) float64 {
	for i, p := range snapPitches {
		if p == current {
			return snapPitches[(i+1)%len(snapPitches)]
		}
	}
	return snapPitches[1]
}

// cancelGesture aborts the open gesture, else disarms auto layout, else
// clears the selection.
func (a *App) cancelGesture() {
	s := a.Session
	switch {
	case s.GestureInProgress():
		s.PointerCancel(layout.PointerEvent{ID: pointerID})
		a.PanelView.pressed = false
		a.afterGesture()
		a.setStatus("Gesture cancelled")
	case s.AutoLayoutArmed():
		s.ArmAutoLayout(false)
		a.setStatus("Auto layout cancelled")
	default:
		s.Selection().Clear()
	}
}
