package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const helpKey = "<?> Help"

type binding struct {
	keys, action string
}

// helpSections is the content of the help popup.
var helpSections = []struct {
	title    string
	bindings []binding
}{
	{"Panel", []binding{
		{"h / Left", "Focus previous port"},
		{"l / Right", "Focus next port"},
		{"t", "Turn the focused port on or off"},
		{"e", "Open or close the layout editor"},
		{"Click", "Focus a port"},
	}},
	{"Layout editor", []binding{
		{"Drag a port", "Move the selection"},
		{"Ctrl/Shift+Click", "Add or remove from selection"},
		{"Drag on empty canvas", "Marquee select"},
		{"b / u", "Ports box / Uplinks box tool"},
		{"o", "Switch ports box order (numeric, odd/even)"},
		{"g", "Cycle snap grid"},
		{"a", "Auto layout (drag from first to last port)"},
		{"r / c", "Align selection to a row / column"},
		{"x / y", "Distribute selection horizontally / vertically"},
		{"Ctrl+Z / Ctrl+Y", "Undo / Redo"},
		{"j", "Advanced JSON editor"},
		{"Esc", "Cancel gesture or clear selection"},
	}},
	{"Global", []binding{
		{"q / Ctrl+C", "Quit (with confirmation)"},
		{"Ctrl+S", "Save"},
		{"Ctrl+Q", "Quit immediately"},
		{"?", "Show this help"},
	}},
}

// contextKeys returns the shortcuts of the current mode.
func (a *App) contextKeys() []string {
	if a.Session.Active() {
		return []string{
			"<e> Close editor",
			"<b> Ports box",
			"<u> Uplinks box",
			"<o> Order",
			"<g> Snap",
			"<a> Auto layout",
			"<r/c> Align",
			"<x/y> Distribute",
			"<ctrl+z> Undo",
			"<ctrl+y> Redo",
			"<j> JSON",
		}
	}
	keys := []string{"<e> Edit layout", "<h/l> Focus"}
	if !a.Config.HideControlButtons {
		keys = append(keys, "<t> Toggle port")
	}
	return keys
}

// UpdateKeysLine shows as many shortcuts as fit, always ending with help.
func (a *App) UpdateKeysLine() {
	if a.KeysLine == nil {
		return
	}
	keys := append(append([]string{}, GlobalKeys...), a.contextKeys()...)
	_, _, width, _ := a.KeysLine.GetInnerRect()
	a.KeysLine.SetText(fitKeys(keys, width))
}

// fitKeys joins the longest prefix of keys that fits width together with the
// help key. A non-positive width keeps every key.
func fitKeys(keys []string, width int) string {
	line := func(n int) string {
		return " " + strings.Join(append(append([]string{}, keys[:n]...), helpKey), " | ")
	}
	n := len(keys)
	if width > 0 {
		for n > 0 && len(line(n)) > width {
			n--
		}
	}
	return line(n)
}

func (a *App) showHelpPopup() {
	var b strings.Builder
	for i, section := range helpSections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(section.title + "\n")
		for _, kb := range section.bindings {
			b.WriteString("- " + kb.keys + ": " + kb.action + "\n")
		}
	}

	view := tview.NewTextView().
		SetText(b.String()).
		SetScrollable(true).
		SetWrap(true).
		SetWordWrap(true)
	view.SetBorder(true).SetTitle("Keyboard Shortcuts (Up/Down to scroll, Esc to close)")
	view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape, tcell.KeyEnter, tcell.KeyBS, tcell.KeyBackspace2:
			a.dismissDialog(helpPageName)
			return nil
		}
		return event
	})

	a.Pages.RemovePage(helpPageName)
	a.Pages.AddPage(helpPageName, a.createDialogPage(view, 62, 20), true, true)
	a.TviewApp.SetFocus(view)
}

// resizeStatusLine grows the status box to fit its wrapped text.
func (a *App) resizeStatusLine() {
	if a.StatusLine == nil || a.DetailsFlex == nil {
		return
	}
	_, _, width, _ := a.StatusLine.GetInnerRect()
	lines := 1
	if width > 0 {
		lines = wrappedLineCount(a.StatusLine.GetText(false), width)
	}
	a.DetailsFlex.ResizeItem(a.StatusLine, lines+2, 0)
}

// wrappedLineCount counts the rows text takes when word wrapped at width.
func wrappedLineCount(text string, width int) int {
	if width <= 0 {
		return 1
	}
	total := 0
	for _, line := range strings.Split(text, "\n") {
		total += max(1, len(tview.WordWrap(line, width)))
	}
	return max(1, total)
}
