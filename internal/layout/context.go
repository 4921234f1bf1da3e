package layout

import (
	"go.uber.org/zap"

	"style-engine/internal/value"
)

// Context carries what a box needs from its parent while it is measured: the space
// available to its margin box and the inner size of the parent, used for
// percentages only along axes where that size is definite.
type Context struct {
	AvailableWidth, AvailableHeight float32
	ParentWidth, ParentHeight       float32
	DefiniteWidth, DefiniteHeight   bool

	Viewport    Size
	FontSize    float32
	PixelsPerCM float32
	Measurer    TextMeasurer
	// MaxDepth bounds the box tree depth that is measured. Deeper boxes are left empty.
	MaxDepth int
	// MaxPasses bounds the measure iterations of one box.
	MaxPasses int
	Logger    *zap.Logger

	depth int
	// fill stretches an auto width to the available width.
	fill  bool
	fixed [2]imposed
}

// imposed is a size set by a flex container. definite tells whether descendants may
// resolve percentages against it.
type imposed struct {
	size     float32
	ok       bool
	definite bool
}

// NewContext returns a context for a root box laid out in a viewport.
func NewContext(viewport Size) Context {
	c := Context{Viewport: viewport}
	c.defaults()
	return c
}

func (c *Context) defaults() {
	if c.AvailableWidth == 0 && c.AvailableHeight == 0 {
		c.AvailableWidth, c.AvailableHeight = c.Viewport.Width, c.Viewport.Height
		c.ParentWidth, c.ParentHeight = c.Viewport.Width, c.Viewport.Height
		c.DefiniteWidth, c.DefiniteHeight = true, true
	}
	if c.FontSize <= 0 {
		c.FontSize = 16
	}
	if c.PixelsPerCM <= 0 {
		c.PixelsPerCM = 96 / 2.54
	}
	if c.Measurer == nil {
		c.Measurer = DefaultMeasurer
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = 64
	}
	if c.MaxPasses <= 0 {
		c.MaxPasses = 4
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// child returns the context for the children of b, whose inner available size is inner.
func (c *Context) child(b *LayoutBox, inner Size) *Context {
	n := *c
	n.AvailableWidth, n.AvailableHeight = inner.Width, inner.Height
	n.ParentWidth, n.ParentHeight = inner.Width, inner.Height
	n.DefiniteWidth, n.DefiniteHeight = b.definite[Horizontal], b.definite[Vertical]
	n.FontSize = b.Style.FontSize
	n.depth++
	n.fill = false
	n.fixed = [2]imposed{}
	return &n
}

func (c *Context) available(a Axis) float32 {
	if a == Horizontal {
		return c.AvailableWidth
	}
	return c.AvailableHeight
}

func (c *Context) fix(a Axis, v float32, definite bool) {
	c.fixed[a] = imposed{size: v, ok: true, definite: definite}
}

// length resolves p to pixels. Auto, and percentages of an indefinite parent size,
// resolve to Unset.
func (c *Context) length(p value.Primitive, a Axis, fontSize float32) float32 {
	v := float32(p.Value)
	switch p.Unit {
	case value.None, value.Px:
		return v
	case value.Percent:
		if a == Horizontal && c.DefiniteWidth {
			return c.ParentWidth * v / 100
		}
		if a == Vertical && c.DefiniteHeight {
			return c.ParentHeight * v / 100
		}
	case value.Ch:
		return v * c.Measurer.Advance("0", fontSize)
	case value.Vw:
		return v * c.Viewport.Width / 100
	case value.Vh:
		return v * c.Viewport.Height / 100
	case value.Cm:
		return v * c.PixelsPerCM
	case value.M:
		return v * 100 * c.PixelsPerCM
	}
	return Unset
}

// edge resolves a margin, padding, border or gap length; anything unresolvable is 0.
func (c *Context) edge(p value.Primitive, a Axis, fontSize float32) float32 {
	if v := c.length(p, a, fontSize); !isUnset(v) {
		return v
	}
	return 0
}

// fontSize resolves a font-size against the parent's font size.
func (c *Context) fontSize(p value.Primitive) float32 {
	switch p.Unit {
	case value.Percent:
		return c.FontSize * float32(p.Value) / 100
	case value.Ch:
		return float32(p.Value) * c.Measurer.Advance("0", c.FontSize)
	}
	if v := c.length(p, Vertical, c.FontSize); !isUnset(v) {
		return v
	}
	return c.FontSize
}
