package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// wireDialogFormKeys sets up standard keyboard handling for a button row:
// Escape cancels, Up returns focus to the dialog's content.
func (a *App) wireDialogFormKeys(form *tview.Form, onCancel func()) {
	form.SetCancelFunc(onCancel)
	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			onCancel()
			return nil
		case tcell.KeyUp:
			if a.jsonText != nil {
				a.TviewApp.SetFocus(a.jsonText)
				return nil
			}
		}
		return event
	})
}

// submitFormButton programmatically activates the button with label.
func submitFormButton(form *tview.Form, label string, setFocus func(p tview.Primitive)) bool {
	idx := form.GetButtonIndex(label)
	if idx < 0 {
		return false
	}
	handler := form.GetButton(idx).InputHandler()
	if handler == nil {
		return false
	}
	handler(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), setFocus)
	return true
}
