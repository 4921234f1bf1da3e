package layout

import (
	"style-engine/internal/property"
	"style-engine/internal/style"
	"style-engine/internal/value"
)

// PaintKind says what a PaintOp draws.
type PaintKind uint8

const (
	// FillRect fills Rect with Color.
	FillRect PaintKind = iota
	// DrawText draws Text with its top-left corner at Rect.X, Rect.Y.
	DrawText
)

// PaintOp is one drawing command of a laid-out tree.
type PaintOp struct {
	Kind  PaintKind
	Rect  Rect
	Color value.Color
	Text  string
	// Size is the font size of DrawText ops.
	Size float32
}

// Paint returns the drawing commands of the tree under root in painting order: for
// each box its background, then its border and outline, then its children. Hidden
// boxes paint nothing themselves, and opacity multiplies down the tree.
func Paint(root Box) []PaintOp {
	var ops []PaintOp
	var paint func(b Box, alpha float64)
	paint = func(b Box, alpha float64) {
		lb := b.Base()
		// A text run shares the style of its element, whose opacity is already applied.
		if _, text := b.(*TextBox); !text && lb.Computed != nil {
			alpha *= style.Get(lb.Computed, property.Opacity)
		}
		visible := lb.Computed == nil || style.Get(lb.Computed, property.Visibility) == property.Visible
		if visible && alpha > 0 {
			if t, ok := b.(*TextBox); ok {
				ops = t.paintText(ops, alpha)
			} else {
				ops = lb.paintBox(ops, alpha)
			}
		}
		for _, c := range lb.children {
			paint(c, alpha)
		}
	}
	if root != nil {
		paint(root, 1)
	}
	return ops
}

func fade(c value.Color, alpha float64) value.Color {
	if alpha >= 1 {
		return c
	}
	return c.WithAlpha(c.Alpha() * alpha)
}

func (b *LayoutBox) paintBox(ops []PaintOp, alpha float64) []PaintOp {
	if b.Computed == nil {
		return ops
	}
	if bg := fade(style.Get(b.Computed, property.BackgroundColor), alpha); bg.A() > 0 {
		ops = append(ops, PaintOp{Kind: FillRect, Rect: b.BorderBox(), Color: bg})
	}
	ops = frame(ops, b.BorderBox(), b.Style.Border, fade(style.Get(b.Computed, property.BorderColor), alpha))
	ops = frame(ops, b.Bounds(), b.Style.Outline, fade(style.Get(b.Computed, property.OutlineColor), alpha))
	return ops
}

// frame fills the ring of width e just inside r.
func frame(ops []PaintOp, r Rect, e Edges, c value.Color) []PaintOp {
	if c.A() == 0 {
		return ops
	}
	sides := [4]Rect{
		{X: r.X, Y: r.Y, Width: r.Width, Height: e.Top},
		{X: r.X + r.Width - e.Right, Y: r.Y + e.Top, Width: e.Right, Height: r.Height - e.Vertical()},
		{X: r.X, Y: r.Y + r.Height - e.Bottom, Width: r.Width, Height: e.Bottom},
		{X: r.X, Y: r.Y + e.Top, Width: e.Left, Height: r.Height - e.Vertical()},
	}
	for _, s := range sides {
		if s.Width > 0 && s.Height > 0 {
			ops = append(ops, PaintOp{Kind: FillRect, Rect: s, Color: c})
		}
	}
	return ops
}

func (t *TextBox) paintText(ops []PaintOp, alpha float64) []PaintOp {
	c := fade(style.Get(t.Computed, property.Color), alpha)
	if c.A() == 0 {
		return ops
	}
	for i, line := range t.Lines {
		ops = append(ops, PaintOp{
			Kind:  DrawText,
			Rect:  Rect{X: t.X, Y: t.Y + float32(i)*t.LineHeight, Width: t.Width, Height: t.LineHeight},
			Color: c,
			Text:  line,
			Size:  t.Style.FontSize,
		})
	}
	return ops
}
