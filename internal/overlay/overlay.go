// Package overlay rasterizes a fitted quote layout onto a transparent PNG
// that the compositor stamps over the base clip.
package overlay

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"

	"quotereel/internal/text"
)

// Options style the rendered block. Colors are "#RRGGBB" hex strings.
// Align is "left", "center" or "right"; lines align against the widest
// line of the block. Unknown values center.
type Options struct {
	Width        int
	Height       int
	TextColor    string
	ShadowColor  string
	ShadowOffset int
	LineSpacing  int
	Align        string
	Placement    text.Placement
}

// Render draws the layout onto a transparent canvas. Each line is drawn
// twice, shadow first, offset down-right, then the main fill on top.
func Render(layout text.Layout, opts Options) (image.Image, error) {
	if len(layout.Lines) == 0 {
		return nil, fmt.Errorf("render overlay: empty layout")
	}
	if layout.Face == nil {
		return nil, fmt.Errorf("render overlay: layout has no face")
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetFontFace(layout.Face)

	blockH := layout.Height(opts.LineSpacing)
	blockW := layout.Width()
	centerX, topY := text.BlockOrigin(opts.Placement, opts.Width, opts.Height, blockH)

	for i, line := range layout.Lines {
		lineTop := topY + i*(layout.LineHeight+opts.LineSpacing)
		baseline := float64(lineTop + layout.Ascent)
		x := float64(lineX(opts.Align, centerX, blockW, layout.Widths[i]))

		if opts.ShadowOffset > 0 {
			dc.SetHexColor(opts.ShadowColor)
			off := float64(opts.ShadowOffset)
			dc.DrawString(line.Display, x+off, baseline+off)
		}
		dc.SetHexColor(opts.TextColor)
		dc.DrawString(line.Display, x, baseline)
	}
	return dc.Image(), nil
}

// lineX places a line of width lineW inside the block of width blockW
// whose horizontal center is centerX.
func lineX(align string, centerX, blockW, lineW int) int {
	left := centerX - blockW/2
	switch align {
	case "left":
		return left
	case "right":
		return left + blockW - lineW
	default:
		return centerX - lineW/2
	}
}

// WritePNG renders the layout and saves it to path.
func WritePNG(path string, layout text.Layout, opts Options) error {
	img, err := Render(layout, opts)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("save overlay png: %w", err)
	}
	return nil
}
