package text

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// FaceSource yields a font face at a requested point size. The fitting loop
// asks for several sizes while searching for one that fits the frame.
type FaceSource interface {
	Face(size float64) (font.Face, error)
}

// FileSource parses an OpenType/TrueType font file once and derives faces
// from it on demand.
type FileSource struct {
	parsed *opentype.Font
}

func NewFileSource(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return &FileSource{parsed: parsed}, nil
}

func (s *FileSource) Face(size float64) (font.Face, error) {
	face, err := opentype.NewFace(s.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("derive face at %g: %w", size, err)
	}
	return face, nil
}

// Line is one wrapped line of a quote. Text keeps the logical reading
// order; Display is the shaped form the renderer draws. For Latin text the
// two are identical.
type Line struct {
	Text    string
	Display string
}

// Layout is the result of fitting a quote into a frame: the wrapped lines,
// the face they were measured with, and the metrics the renderer needs.
// Widths are measured on the Display strings.
type Layout struct {
	Lines      []Line
	Widths     []int
	Face       font.Face
	Size       int
	LineHeight int
	Ascent     int
}

// Height returns the pixel height of the whole block with the given
// inter-line spacing.
func (l Layout) Height(spacing int) int {
	if len(l.Lines) == 0 {
		return 0
	}
	return len(l.Lines)*l.LineHeight + (len(l.Lines)-1)*spacing
}

// Width returns the widest line in pixels.
func (l Layout) Width() int {
	max := 0
	for _, w := range l.Widths {
		if w > max {
			max = w
		}
	}
	return max
}

// Wrap splits s into lines no wider than maxWidth, measured with face.
// Words are taken greedily in logical order; each candidate is measured in
// its shaped form so the width test matches what will be drawn. A single
// word wider than maxWidth gets a line of its own rather than being broken
// mid-word. Wrapping already-wrapped lines yields the same lines.
//
// Shaping happens per line, after the break points are decided. Arabic
// shaping emits visual order, so shaping the whole quote first would put
// its final words on the first line.
func Wrap(face font.Face, s string, maxWidth int) []Line {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []Line
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(face, Shape(candidate)) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, Line{Text: current, Display: Shape(current)})
		current = word
	}
	return append(lines, Line{Text: current, Display: Shape(current)})
}

func measure(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// FitOptions bound the size search. Step defaults to 2 points.
type FitOptions struct {
	StartSize   int
	MinSize     int
	Step        int
	MaxWidth    int
	MaxHeight   int
	LineSpacing int
}

// Fit searches downward from StartSize for the largest size whose wrapped
// block fits within MaxWidth and MaxHeight. If even MinSize does not fit,
// the MinSize layout is returned anyway so that a long quote still renders.
func Fit(src FaceSource, s string, opts FitOptions) (Layout, error) {
	step := opts.Step
	if step <= 0 {
		step = 2
	}

	var last Layout
	for size := opts.StartSize; size >= opts.MinSize; size -= step {
		layout, err := layoutAt(src, s, size, opts.MaxWidth)
		if err != nil {
			return Layout{}, err
		}
		last = layout
		if layout.Width() <= opts.MaxWidth && layout.Height(opts.LineSpacing) <= opts.MaxHeight {
			return layout, nil
		}
	}
	return last, nil
}

func layoutAt(src FaceSource, s string, size, maxWidth int) (Layout, error) {
	face, err := src.Face(float64(size))
	if err != nil {
		return Layout{}, err
	}

	metrics := face.Metrics()
	lines := Wrap(face, s, maxWidth)
	widths := make([]int, len(lines))
	for i, line := range lines {
		widths[i] = measure(face, line.Display)
	}
	return Layout{
		Lines:      lines,
		Widths:     widths,
		Face:       face,
		Size:       size,
		LineHeight: metrics.Height.Ceil(),
		Ascent:     metrics.Ascent.Ceil(),
	}, nil
}

// Placement selects where the text block sits on the canvas. Preset mode
// picks one of three conventional bands; manual mode takes the block center
// as fractions of the canvas.
type Placement struct {
	Mode   string
	Preset string
	X      float64
	Y      float64
}

const (
	PlacementPreset = "preset"
	PlacementManual = "manual"
)

var presetCenters = map[string]float64{
	"top":    0.22,
	"center": 0.50,
	"bottom": 0.78,
}

// BlockOrigin returns the horizontal center and top edge of the block in
// canvas pixels. Unknown presets fall back to center.
func BlockOrigin(p Placement, canvasW, canvasH, blockH int) (centerX, topY int) {
	xFrac, yFrac := 0.5, 0.5
	switch p.Mode {
	case PlacementManual:
		xFrac, yFrac = p.X, p.Y
	default:
		if f, ok := presetCenters[p.Preset]; ok {
			yFrac = f
		}
	}
	centerX = int(float64(canvasW) * xFrac)
	topY = int(float64(canvasH)*yFrac) - blockH/2
	return centerX, topY
}
