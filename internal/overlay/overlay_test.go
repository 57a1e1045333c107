package overlay

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"quotereel/internal/text"
)

func fixtureLayout(lines ...string) text.Layout {
	face := basicfont.Face7x13
	widths := make([]int, len(lines))
	wrapped := make([]text.Line, len(lines))
	for i, line := range lines {
		widths[i] = font.MeasureString(face, line).Ceil()
		wrapped[i] = text.Line{Text: line, Display: line}
	}
	return text.Layout{
		Lines:      wrapped,
		Widths:     widths,
		Face:       face,
		Size:       13,
		LineHeight: face.Metrics().Height.Ceil(),
		Ascent:     face.Metrics().Ascent.Ceil(),
	}
}

func opaquePixels(img image.Image, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				n++
			}
		}
	}
	return n
}

func TestRenderDrawsTextInCenterBand(t *testing.T) {
	img, err := Render(fixtureLayout("HELLO WORLD"), Options{
		Width: 200, Height: 100,
		TextColor: "#FFFFFF", ShadowColor: "#000000",
		ShadowOffset: 2, LineSpacing: 4,
		Placement: text.Placement{Mode: text.PlacementPreset, Preset: "center"},
	})
	if err != nil {
		t.Fatal(err)
	}

	band := image.Rect(0, 35, 200, 65)
	if opaquePixels(img, band) == 0 {
		t.Error("expected glyph pixels in the center band")
	}
	topEdge := image.Rect(0, 0, 200, 10)
	if opaquePixels(img, topEdge) != 0 {
		t.Error("top edge should stay transparent for center placement")
	}
}

func TestRenderMultiLineSpansTallerBlock(t *testing.T) {
	opts := Options{
		Width: 200, Height: 200,
		TextColor: "#FFFFFF", ShadowColor: "#000000",
		LineSpacing: 4,
		Placement:   text.Placement{Mode: text.PlacementPreset, Preset: "center"},
	}

	one, err := Render(fixtureLayout("AAAAA"), opts)
	if err != nil {
		t.Fatal(err)
	}
	three, err := Render(fixtureLayout("AAAAA", "BBBBB", "CCCCC"), opts)
	if err != nil {
		t.Fatal(err)
	}

	full := image.Rect(0, 0, 200, 200)
	if opaquePixels(three, full) <= opaquePixels(one, full) {
		t.Error("three lines should paint more pixels than one")
	}
}

func TestLineXAlignments(t *testing.T) {
	// Block of width 120 centered at x=100, line of width 40.
	tests := []struct {
		align string
		want  int
	}{
		{"left", 40},
		{"right", 120},
		{"center", 80},
		{"", 80},
		{"diagonal", 80},
	}
	for _, tt := range tests {
		name := tt.align
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			if got := lineX(tt.align, 100, 120, 40); got != tt.want {
				t.Errorf("lineX(%q) = %d, want %d", tt.align, got, tt.want)
			}
		})
	}
}

func TestRenderAlignmentMovesShortLine(t *testing.T) {
	base := Options{
		Width: 300, Height: 100,
		TextColor: "#FFFFFF", ShadowColor: "#000000",
		LineSpacing: 4,
		Placement:   text.Placement{Mode: text.PlacementPreset, Preset: "center"},
	}
	layout := fixtureLayout("AAAAAAAAAAAAAAAA", "BB")

	left := base
	left.Align = "left"
	leftImg, err := Render(layout, left)
	if err != nil {
		t.Fatal(err)
	}
	right := base
	right.Align = "right"
	rightImg, err := Render(layout, right)
	if err != nil {
		t.Fatal(err)
	}

	// The short second line should hug opposite halves of the canvas.
	lower := image.Rect(0, 50, 150, 100)
	upper := image.Rect(150, 50, 300, 100)
	if opaquePixels(leftImg, lower) == 0 || opaquePixels(leftImg, upper) != 0 {
		t.Error("left alignment should keep the short line in the left half")
	}
	if opaquePixels(rightImg, upper) == 0 || opaquePixels(rightImg, lower) != 0 {
		t.Error("right alignment should keep the short line in the right half")
	}
}

func TestRenderRejectsEmptyLayout(t *testing.T) {
	if _, err := Render(text.Layout{}, Options{Width: 100, Height: 100}); err == nil {
		t.Error("expected error for empty layout")
	}
}

func TestRenderRejectsMissingFace(t *testing.T) {
	layout := text.Layout{Lines: []text.Line{{Text: "x", Display: "x"}}, Widths: []int{10}}
	if _, err := Render(layout, Options{Width: 100, Height: 100}); err == nil {
		t.Error("expected error for layout without a face")
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.png")
	err := WritePNG(path, fixtureLayout("HELLO"), Options{
		Width: 100, Height: 100,
		TextColor: "#FFFFFF", ShadowColor: "#000000",
		Placement: text.Placement{Mode: text.PlacementPreset, Preset: "center"},
	})
	if err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty png")
	}
}
