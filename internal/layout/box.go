// Package layout turns a tree of styled elements into positioned, sized boxes. A box
// is first measured, bottom-up within a top-down walk, then laid out: every box is
// given its absolute position and positions its children in turn.
package layout

import (
	"go.uber.org/zap"

	"style-engine/internal/property"
	"style-engine/internal/style"
)

// LayoutNode is the geometry of a box. X and Y are absolute; Width and Height are
// the border-box size.
type LayoutNode struct {
	X, Y          float32
	Width, Height float32
	// Index is the position of the box in document order.
	Index int
}

// Bounds returns the border box, outline included.
func (n *LayoutNode) Bounds() Rect {
	return Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

func (n *LayoutNode) size(a Axis) float32 {
	if a == Horizontal {
		return n.Width
	}
	return n.Height
}

func (n *LayoutNode) setPos(a Axis, v float32) {
	if a == Horizontal {
		n.X = v
	} else {
		n.Y = v
	}
}

// Box is a node of the box tree: a FlowLayoutBox, FlexLayoutBox or TextBox.
type Box interface {
	Base() *LayoutBox
	resolve(ctx *Context)
	// measure returns the content size of the box given the context for its children.
	measure(ctx *Context) Size
	layout()
}

// LayoutBox holds what every box shares: the computed style it was built from, the
// resolved layout style and the children.
type LayoutBox struct {
	LayoutNode
	Style LayoutStyle
	// Computed is owned by the cascade.
	Computed *style.ComputedStyleSet
	// Element is the element the box was built for; nil for boxes built directly.
	Element style.Element

	children []Box
	definite [2]bool
	known    [2]bool
	clipped  bool
}

func (b *LayoutBox) Base() *LayoutBox { return b }

// Children returns the child boxes in document order.
func (b *LayoutBox) Children() []Box { return b.children }

func (b *LayoutBox) resolve(ctx *Context) { b.Style = resolveStyle(b.Computed, ctx) }

// BorderBox returns the bounds without the outline.
func (b *LayoutBox) BorderBox() Rect { return b.Bounds().Inset(b.Style.Outline) }

// PaddingBox returns the border box without the border.
func (b *LayoutBox) PaddingBox() Rect { return b.BorderBox().Inset(b.Style.Border) }

// ContentBox returns the area children are laid out in.
func (b *LayoutBox) ContentBox() Rect { return b.PaddingBox().Inset(b.Style.Padding) }

// MarginBox returns the bounds grown by the margins.
func (b *LayoutBox) MarginBox() Rect {
	m := b.Style.Margin
	return Rect{X: b.X - m.Left, Y: b.Y - m.Top, Width: b.Width + m.Horizontal(), Height: b.Height + m.Vertical()}
}

// NewBox returns a flex box when cs has display:flex and a flow box otherwise.
func NewBox(cs *style.ComputedStyleSet, children ...Box) Box {
	base := LayoutBox{Computed: cs, children: children}
	if style.Get(cs, property.Display) == property.DisplayFlex {
		return &FlexLayoutBox{LayoutBox: base}
	}
	return &FlowLayoutBox{LayoutBox: base}
}

// Build creates the box tree of the elements under root. styleOf returns the computed
// style of an element; elements without one, or with display:none, get no box.
// Elements with a Text() method get a TextBox for their text before their children.
func Build(root style.Element, styleOf func(style.Element) *style.ComputedStyleSet) Box {
	index := 0
	var build func(el style.Element) Box
	build = func(el style.Element) Box {
		cs := styleOf(el)
		if cs == nil || style.Get(cs, property.Display) == property.DisplayNone {
			return nil
		}
		b := NewBox(cs)
		lb := b.Base()
		lb.Element = el
		lb.Index = index
		index++
		if t, ok := el.(interface{ Text() string }); ok && t.Text() != "" {
			text := NewText(cs, t.Text())
			text.Element = el
			text.Index = index
			index++
			lb.children = append(lb.children, text)
		}
		for c := el.FirstChild(); c != nil; c = c.NextSibling() {
			if ce, ok := c.(style.Element); ok {
				if cb := build(ce); cb != nil {
					lb.children = append(lb.children, cb)
				}
			}
		}
		return b
	}
	if root == nil {
		return nil
	}
	return build(root)
}

// Solve measures and lays out the tree under root. The root is placed at its margins
// from the origin.
func Solve(root Box, ctx Context) {
	if root == nil {
		return
	}
	ctx.defaults()
	ctx.fill = blockLevel(root)
	measureBox(root, &ctx)
	b := root.Base()
	b.X, b.Y = b.Style.Margin.Left, b.Style.Margin.Top
	root.layout()
	ctx.Logger.Debug("layout solved",
		zap.Float32("width", b.Width), zap.Float32("height", b.Height))
}

// blockLevel reports whether b breaks flow lines around itself.
func blockLevel(b Box) bool {
	if _, ok := b.(*TextBox); ok {
		return false
	}
	switch style.Get(b.Base().Computed, property.Display) {
	case property.DisplayBlock, property.DisplayFlex:
		return true
	}
	return false
}

// measureBox sizes b from its style, then repeatedly measures its content until the
// auto-sized dimensions stop changing.
func measureBox(b Box, ctx *Context) {
	lb := b.Base()
	b.resolve(ctx)
	s := &lb.Style
	ins := s.Insets()

	w, h := s.Width, s.Height
	defW, defH := true, true
	if f := ctx.fixed[Horizontal]; f.ok {
		w, defW = f.size, f.definite
	} else if isUnset(w) && ctx.fill && !isUnbounded(ctx.AvailableWidth) {
		w = ctx.AvailableWidth - s.Margin.Horizontal()
		defW = ctx.DefiniteWidth
	}
	if f := ctx.fixed[Vertical]; f.ok {
		h, defH = f.size, f.definite
	}
	if !isUnset(w) {
		w = s.clampSize(Horizontal, w)
	}
	if !isUnset(h) {
		h = s.clampSize(Vertical, h)
	}
	lb.known = [2]bool{!isUnset(w), !isUnset(h)}
	lb.definite = [2]bool{lb.known[Horizontal] && defW, lb.known[Vertical] && defH}

	if ctx.depth > ctx.MaxDepth {
		ctx.Logger.Debug("layout depth limit reached", zap.Int("depth", ctx.depth))
		lb.Width, lb.Height = nonNegative(w), nonNegative(h)
		lb.clipped = true
		return
	}
	lb.clipped = false

	availW, availH := w, h
	if isUnset(availW) {
		availW = ctx.AvailableWidth - s.Margin.Horizontal()
	}
	if isUnset(availH) {
		availH = ctx.AvailableHeight - s.Margin.Vertical()
	}
	width, height := w, h
	for pass := 1; ; pass++ {
		inner := Size{nonNegative(availW - ins.Horizontal()), nonNegative(availH - ins.Vertical())}
		content := b.measure(ctx.child(lb, inner))
		nw, nh := w, h
		if isUnset(w) {
			nw = s.clampSize(Horizontal, content.Width+ins.Horizontal())
		}
		if isUnset(h) {
			nh = s.clampSize(Vertical, content.Height+ins.Vertical())
		}
		stable := nw == width && nh == height
		width, height = nw, nh
		// Only the width feeds back into the content.
		if stable || !isUnset(w) || pass >= ctx.MaxPasses {
			break
		}
		availW = nw
	}
	lb.Width, lb.Height = width, height
}
