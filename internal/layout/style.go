package layout

import (
	"style-engine/internal/property"
	"style-engine/internal/style"
	"style-engine/internal/value"
)

// LayoutStyle is the computed style of a box resolved to pixels. Sizes are border-box
// sizes: they include padding, border and outline.
type LayoutStyle struct {
	Display property.DisplayMode

	Margin, Border, Outline, Padding Edges

	// Width and Height are Unset when auto or an indefinite percentage.
	Width, Height       float32
	MinWidth, MinHeight float32
	// MaxWidth and MaxHeight are Unbounded when none.
	MaxWidth, MaxHeight float32

	Grow, Shrink float32
	Gap          float32
	Direction    property.Direction
	Wrap         property.Wrap
	Justify      property.Justify
	AlignItems   property.Align
	AlignSelf    property.Align

	FontSize float32

	// basis is resolved by the flex container, against its own inner size.
	basis value.Primitive
}

// Insets is the space between the border box edge and the content: outline, border
// and padding together.
func (s *LayoutStyle) Insets() Edges {
	return s.Outline.Add(s.Border).Add(s.Padding)
}

func (s *LayoutStyle) size(a Axis) float32 {
	if a == Horizontal {
		return s.Width
	}
	return s.Height
}

// clampSize applies min/max on a and never goes below the insets.
func (s *LayoutStyle) clampSize(a Axis, v float32) float32 {
	lo, hi := s.MinWidth, s.MaxWidth
	if a == Vertical {
		lo, hi = s.MinHeight, s.MaxHeight
	}
	return max(clamp(v, lo, hi), s.Insets().Along(a))
}

func resolveStyle(cs *style.ComputedStyleSet, ctx *Context) LayoutStyle {
	var s LayoutStyle
	s.Display = style.Get(cs, property.Display)
	s.FontSize = ctx.fontSize(style.Get(cs, property.FontSize))

	edges := func(r property.Rect) Edges {
		return Edges{
			Top:    ctx.edge(style.Get(cs, r[0]), Vertical, s.FontSize),
			Right:  ctx.edge(style.Get(cs, r[1]), Horizontal, s.FontSize),
			Bottom: ctx.edge(style.Get(cs, r[2]), Vertical, s.FontSize),
			Left:   ctx.edge(style.Get(cs, r[3]), Horizontal, s.FontSize),
		}
	}
	s.Margin = edges(property.Margin)
	s.Border = edges(property.Border)
	s.Outline = edges(property.Outline)
	s.Padding = edges(property.Padding)

	s.Width = ctx.length(style.Get(cs, property.Width), Horizontal, s.FontSize)
	s.Height = ctx.length(style.Get(cs, property.Height), Vertical, s.FontSize)
	s.MinWidth = ctx.edge(style.Get(cs, property.MinWidth), Horizontal, s.FontSize)
	s.MinHeight = ctx.edge(style.Get(cs, property.MinHeight), Vertical, s.FontSize)
	s.MaxWidth = limit(ctx.length(style.Get(cs, property.MaxWidth), Horizontal, s.FontSize))
	s.MaxHeight = limit(ctx.length(style.Get(cs, property.MaxHeight), Vertical, s.FontSize))

	s.Grow = float32(style.Get(cs, property.FlexGrow))
	s.Shrink = float32(style.Get(cs, property.FlexShrink))
	s.basis = style.Get(cs, property.FlexBasis)
	s.Gap = ctx.edge(style.Get(cs, property.Gap), Horizontal, s.FontSize)
	s.Direction = style.Get(cs, property.FlexDirection)
	s.Wrap = style.Get(cs, property.FlexWrap)
	s.Justify = style.Get(cs, property.JustifyContent)
	s.AlignItems = style.Get(cs, property.AlignItems)
	s.AlignSelf = style.Get(cs, property.AlignSelf)
	return s
}

func limit(v float32) float32 {
	if isUnset(v) {
		return Unbounded
	}
	return v
}

// textStyle is the style of an anonymous text run: no box model of its own.
func textStyle(ctx *Context) LayoutStyle {
	return LayoutStyle{
		Display:   property.DisplayInline,
		Width:     Unset,
		Height:    Unset,
		MaxWidth:  Unbounded,
		MaxHeight: Unbounded,
		Shrink:    1,
		FontSize:  ctx.FontSize,
		basis:     value.AutoSize,
	}
}
