package ui

import (
	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/layout"
)

// writeClipboard is replaced in tests; headless environments have no clipboard.
var writeClipboard = clipboard.WriteAll

const (
	jsonDialogWidth  = 64
	jsonDialogHeight = 22
)

// showJSONEditor opens the advanced editor: the layout as a JSON object of
// port name to {x, y}, with apply, format, reset and copy actions. Errors are
// shown inside the dialog.
func (a *App) showJSONEditor() {
	if a.Session.GestureInProgress() {
		a.setStatus("Finish the current gesture first")
		return
	}
	a.Pages.RemovePage(jsonPageName)

	text := tview.NewTextArea()
	text.SetText(a.Session.ExportJSON(), false)

	message := tview.NewTextView()
	message.SetDynamicColors(true)
	message.SetWrap(true)
	message.SetWordWrap(true)

	showError := func(err error) { message.SetText("[red]" + tview.Escape(err.Error()) + "[-]") }
	showInfo := func(s string) { message.SetText(tview.Escape(s)) }
	cancel := func() {
		a.jsonText = nil
		a.dismissDialog(jsonPageName)
	}

	buttons := tview.NewForm().SetButtonsAlign(tview.AlignCenter)
	buttons.AddButton("Apply", func() {
		if err := a.Session.ApplyJSON(text.GetText()); err != nil {
			showError(err)
			return
		}
		text.SetText(a.Session.ExportJSON(), false)
		showInfo("Layout applied")
		a.setStatus("Layout applied from JSON")
	})
	buttons.AddButton("Format", func() {
		formatted, err := layout.FormatJSON(text.GetText())
		if err != nil {
			showError(err)
			return
		}
		text.SetText(formatted, false)
		showInfo("Formatted")
	})
	buttons.AddButton("Reset", func() {
		if err := a.Session.ResetLayout(); err != nil {
			showError(err)
			return
		}
		text.SetText(a.Session.ExportJSON(), false)
		showInfo("Layout reset to the default grid")
		a.setStatus("Layout reset")
	})
	buttons.AddButton("Copy", func() {
		if err := writeClipboard(text.GetText()); err != nil {
			showError(err)
			return
		}
		showInfo("Copied to clipboard")
	})
	buttons.AddButton("Close", cancel)
	a.wireDialogFormKeys(buttons, cancel)

	text.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			cancel()
			return nil
		case tcell.KeyTab:
			a.TviewApp.SetFocus(buttons)
			return nil
		case tcell.KeyCtrlF:
			submitFormButton(buttons, "Format", func(p tview.Primitive) { a.TviewApp.SetFocus(p) })
			return nil
		}
		return event
	})

	dialog := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(text, 0, 1, true).
		AddItem(message, 2, 0, false).
		AddItem(buttons, 3, 0, false)
	dialog.SetBorder(true).SetTitle("Layout JSON (Tab: buttons, Ctrl+F: format, Esc: close)")

	a.Pages.AddPage(jsonPageName, a.createDialogPage(dialog, jsonDialogWidth, jsonDialogHeight), true, false)
	a.Pages.ShowPage(jsonPageName)
	a.TviewApp.SetFocus(text)
	a.jsonText = text
}
