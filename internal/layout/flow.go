package layout

const epsilon = 0.01

type flowLine struct {
	items  []Box
	width  float32
	height float32
}

// FlowLayoutBox lays its children out in lines. Block-level children sit on a line of
// their own; inline children pack left to right and wrap at the available width.
type FlowLayoutBox struct {
	LayoutBox
	lines []flowLine
}

// flowOuter is the space a child takes in a line. Inline children only take their
// inline-axis margins.
func flowOuter(c Box) Size {
	b := c.Base()
	m := b.Style.Margin
	if blockLevel(c) {
		return Size{b.Width + m.Horizontal(), b.Height + m.Vertical()}
	}
	return Size{b.Width + m.Horizontal(), b.Height}
}

func (b *FlowLayoutBox) measure(ctx *Context) Size {
	b.lines = b.lines[:0]
	open := false
	for _, c := range b.children {
		block := blockLevel(c)
		cc := *ctx
		cc.fill = block
		measureBox(c, &cc)
		outer := flowOuter(c)

		n := len(b.lines)
		if block || !open || b.lines[n-1].width+outer.Width > ctx.AvailableWidth+epsilon {
			b.lines = append(b.lines, flowLine{})
			n++
		}
		line := &b.lines[n-1]
		line.items = append(line.items, c)
		line.width += outer.Width
		line.height = max(line.height, outer.Height)
		open = !block
	}

	var size Size
	for _, l := range b.lines {
		size.Width = max(size.Width, l.width)
		size.Height += l.height
	}
	return size
}

func (b *FlowLayoutBox) layout() {
	if b.clipped {
		return
	}
	content := b.ContentBox()
	y := content.Y
	for _, l := range b.lines {
		x := content.X
		for _, c := range l.items {
			cb := c.Base()
			m := cb.Style.Margin
			cb.X = x + m.Left
			cb.Y = y
			if blockLevel(c) {
				cb.Y += m.Top
			}
			x += cb.Width + m.Horizontal()
			c.layout()
		}
		y += l.height
	}
}
