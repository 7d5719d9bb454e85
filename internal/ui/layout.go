package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// sentinelKey is injected by tests to wait for the event queue to drain.
const sentinelKey = tcell.KeyF63

// setupLayout builds the widget tree: the panel on the left, details and
// status on the right, the shortcuts line at the bottom.
func (a *App) setupLayout() {
	a.TviewApp = tview.NewApplication()
	a.Pages = tview.NewPages()

	a.PanelView = newPanelView(a)
	a.PanelView.SetBorder(true).SetTitle("Panel")
	a.PanelView.SetInputCapture(a.onPanelKeyPress)

	a.DetailsPanel = tview.NewTextView().SetDynamicColors(true)
	a.DetailsPanel.SetBorder(true).SetTitle("Details")

	a.StatusLine = tview.NewTextView().SetWrap(true).SetWordWrap(true)
	a.StatusLine.SetBorder(true).SetTitle("Status")
	a.StatusLine.SetChangedFunc(a.resizeStatusLine)

	a.KeysLine = tview.NewTextView()
	a.UpdateKeysLine()

	a.DetailsFlex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.DetailsPanel, 0, 1, false).
		AddItem(a.StatusLine, 3, 0, false)
	body := tview.NewFlex().
		AddItem(a.PanelView, 0, 3, true).
		AddItem(a.DetailsFlex, 0, 2, false)
	screen := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(a.KeysLine, 1, 0, false)
	a.Pages.AddPage(mainPageName, screen, true, true)

	// Only the panel takes keyboard input on the main page.
	for _, view := range []*tview.TextView{a.DetailsPanel, a.StatusLine, a.KeysLine} {
		view.SetFocusFunc(func() { a.TviewApp.SetFocus(a.PanelView) })
	}

	a.quitDialog = a.newConfirmDialog(quitPageName,
		"Do you want to quit? Unsaved layout changes will be lost.", "Quit", a.TviewApp.Stop)
	a.closeDialog = a.newConfirmDialog(closePageName,
		"Close the layout editor? Unsaved layout changes will be lost.", "Close", a.CloseEditor)

	a.TviewApp.SetRoot(a.Pages, true).EnableMouse(true)
	a.TviewApp.SetBeforeDrawFunc(func(tcell.Screen) bool {
		a.resizeStatusLine()
		a.UpdateKeysLine()
		return false
	})
	a.TviewApp.SetInputCapture(a.onGlobalKeyPress)
	a.Pages.SwitchToPage(mainPageName)
	a.TviewApp.SetFocus(a.PanelView)
}

// onGlobalKeyPress handles keys that work on every page.
func (a *App) onGlobalKeyPress(event *tcell.EventKey) *tcell.EventKey {
	if ch := a.SentinelCh; ch != nil && event.Key() == sentinelKey {
		a.SentinelCh = nil
		close(ch)
		return nil
	}
	switch event.Key() {
	case tcell.KeyCtrlC:
		a.showQuitDialog()
	case tcell.KeyCtrlS:
		a.Save()
	case tcell.KeyCtrlQ:
		a.TviewApp.Stop()
	default:
		return event
	}
	return nil
}

// newConfirmDialog registers a hidden modal page with a confirm and a Cancel
// button. Both buttons return to the main page before onConfirm runs.
func (a *App) newConfirmDialog(page, text, confirm string, onConfirm func()) *tview.Modal {
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{confirm, "Cancel"}).
		SetDoneFunc(func(_ int, label string) {
			a.Pages.SwitchToPage(mainPageName)
			a.TviewApp.SetFocus(a.PanelView)
			if label == confirm {
				onConfirm()
			}
		})
	a.Pages.AddPage(page, modal, true, false)
	return modal
}

// showModal opens a confirm dialog with Cancel focused.
func (a *App) showModal(page string, modal *tview.Modal) {
	a.Pages.ShowPage(page)
	modal.SetFocus(1)
	a.TviewApp.SetFocus(modal)
}

func (a *App) showQuitDialog() {
	a.showModal(quitPageName, a.quitDialog)
}

func (a *App) showCloseEditorDialog() {
	a.showModal(closePageName, a.closeDialog)
}

// inertBox swallows mouse events so clicks around a dialog do not reach the
// page below.
func inertBox() *tview.Box {
	box := tview.NewBox()
	box.SetMouseCapture(func(action tview.MouseAction, _ *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		return action, nil
	})
	return box
}

// createDialogPage centers content in a width x height frame.
func (a *App) createDialogPage(content tview.Primitive, width, height int) tview.Primitive {
	column := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(inertBox(), 0, 1, false).
		AddItem(content, height, 0, true).
		AddItem(inertBox(), 0, 1, false)
	return tview.NewFlex().
		AddItem(inertBox(), 0, 1, false).
		AddItem(column, width, 0, true).
		AddItem(inertBox(), 0, 1, false)
}

// dismissDialog drops a dialog page and gives focus back to the panel.
func (a *App) dismissDialog(pageName string) {
	a.Pages.RemovePage(pageName)
	a.Pages.SwitchToPage(mainPageName)
	a.TviewApp.SetFocus(a.PanelView)
}
