package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rivo/tview"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
)

// setFocus moves the details pane to key.
func (a *App) setFocus(key string) {
	a.FocusKey = key
	a.renderDetails()
}

// moveFocus steps the focused port through the natural port order.
func (a *App) moveFocus(delta int) {
	keys := a.Catalog.Keys()
	if len(keys) == 0 {
		return
	}
	idx := -1
	for i, k := range keys {
		if k == a.FocusKey {
			idx = i
			break
		}
	}
	switch {
	case idx < 0:
		idx = 0
	default:
		idx = (idx + delta + len(keys)) % len(keys)
	}
	a.setFocus(keys[idx])
}

// renderDetails rebuilds the details pane: the focused port, its bandwidth
// bars and the device diagnostics.
func (a *App) renderDetails() {
	if a.DetailsPanel == nil {
		return
	}
	a.DetailsPanel.Clear()

	details := new(strings.Builder)
	port := a.Catalog.Get(a.FocusKey)
	if port == nil {
		details.WriteString("No port selected\n")
	} else {
		index, data := port.RenderDetailsMap(a.Catalog)
		for _, key := range index {
			fmt.Fprintf(details, "%-14s: %s\n", key, tview.Escape(data[key]))
		}
		fmt.Fprintf(details, "%-14s: [%s]%s[-]\n", "Status", port.Status().Color(), port.Status())
		if item, ok := a.Session.Registry().Item(port.Key()); ok {
			pos := a.Session.Registry().Rendered(item.Key)
			fmt.Fprintf(details, "%-14s: (%s, %s)\n", "Position", formatCoord(pos.X), formatCoord(pos.Y))
		}
	}

	if !a.Config.HideDiagnostics {
		index, data := a.Catalog.Diagnostics()
		if len(index) > 0 {
			details.WriteString("\nDevice\n")
			for _, label := range index {
				fmt.Fprintf(details, "%-14s: %s\n", label, tview.Escape(data[label]))
			}
		}
	}
	a.DetailsPanel.SetText(details.String())

	if port != nil {
		a.renderBandwidth(port)
	}
	a.DetailsPanel.ScrollToBeginning()
}

// renderBandwidth appends rx/tx rate bars for port.
func (a *App) renderBandwidth(port *domain.Port) {
	bw := a.Catalog.Bandwidth(port)
	if !bw.HasRate {
		return
	}
	_, _, width, _ := a.DetailsPanel.GetInnerRect()
	if width <= 0 {
		width = 40
	}
	bars := []pterm.Bar{
		{Label: "RX", Value: kbps(bw.RxRate)},
		{Label: "TX", Value: kbps(bw.TxRate)},
	}
	fmt.Fprint(a.DetailsPanel, "\nThroughput (kbps)\n")
	err := pterm.DefaultBarChart.
		WithBars(bars).
		WithHorizontal().
		WithWidth(max(10, width-12)).
		WithShowValue().
		WithWriter(tview.ANSIWriter(a.DetailsPanel)).
		Render()
	if err != nil {
		a.logger.Debug().Err(err).Str("port", port.Key()).Msg("render bandwidth bars")
	}
}

func kbps(bps float64) int {
	if bps <= 0 || math.IsNaN(bps) || math.IsInf(bps, 0) {
		return 0
	}
	return int(math.Round(bps / 1000))
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%.4g", math.Round(v*100)/100)
}
