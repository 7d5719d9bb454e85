package export

import (
	_ "embed"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/layout"
)

//go:embed markdown.tmpl
var markdownTmpl string

// RenderMarkdown generates the panel report: device diagnostics, every port
// with its state and layout position, and the container boxes.
func RenderMarkdown(p Panel) (string, error) {
	diagnosticRows := []map[string]string{}
	if !p.Config.HideDiagnostics && p.Catalog != nil {
		index, data := p.Catalog.Diagnostics()
		for _, label := range index {
			diagnosticRows = append(diagnosticRows, map[string]string{
				"Label": markdownInline(label),
				"Value": markdownInline(data[label]),
			})
		}
	}

	portRows := []map[string]string{}
	uplinkRows := []map[string]string{}
	for _, it := range p.Registry.Items() {
		pos := p.Registry.Rendered(it.Key)
		placement := "default"
		if _, ok := p.Registry.Position(it.Key); ok {
			placement = "saved"
		}
		row := map[string]string{
			"Port":      markdownCode(defaultIfEmpty(it.Name, it.Key)),
			"Entity":    markdownCode(it.EntityID),
			"State":     "-",
			"Status":    "-",
			"Speed":     "-",
			"VLAN":      "-",
			"Position":  fmt.Sprintf("(%s, %s)", formatNumber(pos.X), formatNumber(pos.Y)),
			"Placement": placement,
		}
		if port := p.port(it.Key); port != nil {
			row["State"] = markdownInline(defaultIfEmpty(port.State, "-"))
			row["Status"] = port.Status().String()
			speed := port.Speed
			if mbps, ok := domain.ParseSpeedMbps(port.Speed); ok {
				speed = domain.SpeedLabel(mbps)
			}
			row["Speed"] = markdownInline(defaultIfEmpty(speed, "-"))
			row["VLAN"] = markdownInline(defaultIfEmpty(port.VLAN, "-"))
		}
		if it.Uplink {
			uplinkRows = append(uplinkRows, row)
		} else {
			portRows = append(portRows, row)
		}
	}

	boxRows := []map[string]string{}
	addBox := func(name string, r *layout.Rect) {
		if r == nil {
			return
		}
		boxRows = append(boxRows, map[string]string{
			"Name":   name,
			"X":      formatNumber(r.X),
			"Y":      formatNumber(r.Y),
			"Width":  formatNumber(r.W),
			"Height": formatNumber(r.H),
		})
	}
	addBox("Ports", p.MainBox)
	addBox("Uplinks", p.UplinkBox)

	tmpl := template.Must(template.New("markdown").Parse(markdownTmpl))
	input := map[string]interface{}{
		"Title":          markdownInline(p.title()),
		"Device":         markdownInline(defaultIfEmpty(p.Config.DevicePrefix(), "-")),
		"Background":     markdownInline(defaultIfEmpty(p.Config.BackgroundImage, "-")),
		"DiagnosticRows": diagnosticRows,
		"PortRows":       portRows,
		"UplinkRows":     uplinkRows,
		"BoxRows":        boxRows,
		"Order":          string(layout.ParseOrderMode(string(p.Order))),
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, input); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return sb.String(), nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func markdownInline(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "|", "\\|")
	return value
}

func markdownCode(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "`", "'")
	return "`" + value + "`"
}

func defaultIfEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
