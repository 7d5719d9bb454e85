package export

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/layout"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Pixels per logical panel unit in exported images.
const pngScale = 2.0

const (
	panelBackground = "#1f2937"
	panelBorder     = "#4b5563"
	labelColor      = "#e5e7eb"
	boxColor        = "#38bdf8"
	uplinkBoxColor  = "#a855f7"
)

// RenderImage draws the panel: background, container boxes, port glyphs
// colored by status and their labels.
func RenderImage(p Panel) (image.Image, error) {
	dc, err := drawPanel(p)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// RenderPNG draws the panel into a PNG file.
func RenderPNG(p Panel, fileName string) error {
	dc, err := drawPanel(p)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(fileName); err != nil {
		return fmt.Errorf("write %s: %w", fileName, err)
	}
	return nil
}

func drawPanel(p Panel) (*gg.Context, error) {
	w, h := p.Registry.Extent()
	imageWidth := int(math.Ceil(w * pngScale))
	imageHeight := int(math.Ceil(h * pngScale))
	if imageWidth <= 0 || imageHeight <= 0 {
		return nil, fmt.Errorf("nothing to export")
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetHexColor(panelBackground)
	dc.DrawRoundedRectangle(1, 1, float64(imageWidth)-2, float64(imageHeight)-2, 12)
	dc.FillPreserve()
	dc.SetHexColor(panelBorder)
	dc.SetLineWidth(2)
	dc.Stroke()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    7 * pngScale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	drawBoxPNG(dc, p.MainBox, boxColor, "Ports")
	drawBoxPNG(dc, p.UplinkBox, uplinkBoxColor, "Uplinks")

	size := p.Registry.Size() * pngScale
	for _, it := range p.Registry.Items() {
		pos := p.Registry.Rendered(it.Key)
		x, y := pos.X*pngScale, pos.Y*pngScale

		status := domain.StatusUnknown
		if port := p.port(it.Key); port != nil {
			status = port.Status()
		}
		dc.SetHexColor(status.Color())
		dc.DrawRoundedRectangle(x, y, size, size, 3)
		dc.FillPreserve()
		dc.SetRGBA(0, 0, 0, 0.35)
		dc.SetLineWidth(1)
		dc.Stroke()

		label := p.Registry.Label(it.Key)
		dc.SetHexColor(labelColor)
		dc.DrawStringAnchored(ShortLabel(label.Text), label.Anchor.X*pngScale, label.Anchor.Y*pngScale, 0.5, 1)
	}
	return dc, nil
}

func drawBoxPNG(dc *gg.Context, r *layout.Rect, hex, title string) {
	if r == nil {
		return
	}
	x, y := r.X*pngScale, r.Y*pngScale
	dc.SetHexColor(hex)
	dc.SetLineWidth(2)
	dc.SetDash(8, 6)
	dc.DrawRectangle(x, y, r.W*pngScale, r.H*pngScale)
	dc.Stroke()
	dc.SetDash()
	dc.DrawString(title, x+4, y-4)
}

// ShortLabel keeps the interface index: "GigabitEthernet1/0/12" -> "12".
func ShortLabel(name string) string {
	if n, ok := domain.LastNumber(name); ok {
		return fmt.Sprint(n)
	}
	if len(name) > 4 {
		return name[:4]
	}
	return name
}
