package layout

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"style-engine/internal/style"
)

// TextMeasurer measures runs of text at a font size in pixels.
type TextMeasurer interface {
	Advance(text string, size float32) float32
	LineHeight(size float32) float32
}

// FaceMeasurer scales the metrics of a fixed-size font face.
type FaceMeasurer struct {
	Face font.Face
	// Size is the pixel size the face was rasterized at.
	Size float32
}

// DefaultMeasurer measures with the 7x13 basic font.
var DefaultMeasurer = FaceMeasurer{Face: basicfont.Face7x13, Size: 13}

func (m FaceMeasurer) Advance(text string, size float32) float32 {
	return float32(font.MeasureString(m.Face, text)) / 64 * size / m.Size
}

func (m FaceMeasurer) LineHeight(size float32) float32 {
	return float32(m.Face.Metrics().Height) / 64 * size / m.Size
}

// TextBox is an anonymous inline run of text. It wraps at word boundaries.
type TextBox struct {
	LayoutBox
	Text string
	// Lines holds the wrapped text after layout, one entry per line.
	Lines      []string
	LineHeight float32
}

// NewText returns a text run styled by cs, the style of the element holding the text.
func NewText(cs *style.ComputedStyleSet, text string) *TextBox {
	return &TextBox{LayoutBox: LayoutBox{Computed: cs}, Text: text}
}

func (t *TextBox) resolve(ctx *Context) { t.Style = textStyle(ctx) }

func (t *TextBox) measure(ctx *Context) Size {
	m, fs := ctx.Measurer, t.Style.FontSize
	t.LineHeight = m.LineHeight(fs)
	t.Lines = t.Lines[:0]
	space := m.Advance(" ", fs)

	var (
		line      strings.Builder
		lineWidth float32
		size      Size
	)
	flush := func() {
		t.Lines = append(t.Lines, line.String())
		size.Width = max(size.Width, lineWidth)
		line.Reset()
		lineWidth = 0
	}
	for _, word := range strings.Fields(t.Text) {
		w := m.Advance(word, fs)
		if line.Len() > 0 && lineWidth+space+w > ctx.AvailableWidth+epsilon {
			flush()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
			lineWidth += space
		}
		line.WriteString(word)
		lineWidth += w
	}
	if line.Len() > 0 {
		flush()
	}
	size.Height = t.LineHeight * float32(len(t.Lines))
	return size
}

func (t *TextBox) layout() {}
