package layout

import (
	"slices"

	"style-engine/internal/property"
)

// FlexLayoutBox lays its children out along a main axis, distributing free space by
// their grow and shrink factors, optionally wrapping onto several lines.
type FlexLayoutBox struct {
	LayoutBox
	lines []*flexLine
}

type flexItem struct {
	box    Box
	base   float32
	target float32
	// definite is set when the base came from a definite size or flex-basis.
	definite bool
}

type flexLine struct {
	items []*flexItem
	main  float32
	cross float32
}

func (b *FlexLayoutBox) axes() (main, cross Axis) {
	if b.Style.Direction.IsColumn() {
		return Vertical, Horizontal
	}
	return Horizontal, Vertical
}

// outer returns the margin-box extent of an item on a.
func outer(it Box, a Axis) float32 {
	b := it.Base()
	return b.size(a) + b.Style.Margin.Along(a)
}

func (b *FlexLayoutBox) measure(ctx *Context) Size {
	main, cross := b.axes()
	mainAvail := ctx.available(main)

	items := b.calculateFlexBaseSizes(ctx, main)
	b.lines = b.collectFlexLines(items, main, mainAvail)
	for _, l := range b.lines {
		space := mainAvail
		if !b.known[main] {
			space = min(l.main, mainAvail)
		}
		b.resolveFlexibleLengths(l, main, space)
	}
	b.determineCrossSizes(ctx, main, cross)

	var size Size
	for i, l := range b.lines {
		size.set(main, max(size.Along(main), l.main))
		c := size.Along(cross) + l.cross
		if i > 0 {
			c += b.Style.Gap
		}
		size.set(cross, c)
	}
	return size
}

// calculateFlexBaseSizes measures every item and takes its flex basis: the
// flex-basis property, else its definite main size, else its content size.
func (b *FlexLayoutBox) calculateFlexBaseSizes(ctx *Context, main Axis) []*flexItem {
	items := make([]*flexItem, 0, len(b.children))
	for _, c := range b.children {
		cc := *ctx
		measureBox(c, &cc)
		cb := c.Base()
		base, definite := cb.size(main), !isUnset(cb.Style.size(main))
		if v := ctx.length(cb.Style.basis, main, cb.Style.FontSize); !isUnset(v) {
			base, definite = cb.Style.clampSize(main, v), true
		}
		items = append(items, &flexItem{box: c, base: base, target: base, definite: definite})
	}
	return items
}

// collectFlexLines packs items into lines no longer than the available main size.
// Without wrapping every item goes on one line.
func (b *FlexLayoutBox) collectFlexLines(items []*flexItem, main Axis, avail float32) []*flexLine {
	var lines []*flexLine
	var line *flexLine
	for _, it := range items {
		size := it.target + it.box.Base().Style.Margin.Along(main)
		gap := b.Style.Gap
		if line == nil || len(line.items) == 0 {
			gap = 0
		}
		if line == nil || b.Style.Wrap != property.NoWrap && len(line.items) > 0 && line.main+gap+size > avail+epsilon {
			line = &flexLine{}
			lines = append(lines, line)
			gap = 0
		}
		line.items = append(line.items, it)
		line.main += gap + size
	}
	if b.Style.Wrap == property.WrapReverse {
		slices.Reverse(lines)
	}
	return lines
}

// resolveFlexibleLengths grows or shrinks the items of l to fill space. Growth is
// shared by grow factor. Overflow is taken by shrink factor, or equally when no item
// shrinks. An item clamped by its min or max size is frozen there and the rest of the
// free space is shared again among the others.
func (b *FlexLayoutBox) resolveFlexibleLengths(l *flexLine, main Axis, space float32) {
	if isUnbounded(space) {
		return
	}
	grow := space-l.main > epsilon
	if !grow && space-l.main >= -epsilon {
		return
	}
	factor := func(s *LayoutStyle) float32 {
		if grow {
			return s.Grow
		}
		return s.Shrink
	}
	frozen := make([]bool, len(l.items))
	for {
		free, total, open := space, float32(0), 0
		for i, it := range l.items {
			s := &it.box.Base().Style
			free -= s.Margin.Along(main)
			if i > 0 {
				free -= b.Style.Gap
			}
			if frozen[i] {
				free -= it.target
				continue
			}
			free -= it.base
			total += factor(s)
			open++
		}
		if open == 0 || grow && total == 0 {
			break
		}
		clamped := false
		for i, it := range l.items {
			if frozen[i] {
				continue
			}
			s := &it.box.Base().Style
			share := 1 / float32(open)
			if total > 0 {
				share = factor(s) / total
			}
			want := it.base + free*share
			it.target = s.clampSize(main, want)
			if it.target != want {
				frozen[i] = true
				clamped = true
			}
		}
		if !clamped {
			break
		}
	}
	l.main = 0
	for i, it := range l.items {
		l.main += it.target + it.box.Base().Style.Margin.Along(main)
		if i > 0 {
			l.main += b.Style.Gap
		}
	}
}

// alignOf returns the effective cross alignment of an item.
func (b *FlexLayoutBox) alignOf(it Box) property.Align {
	if a := it.Base().Style.AlignSelf; a != property.AlignAuto {
		return a
	}
	return b.Style.AlignItems
}

// determineCrossSizes re-measures items at their flexed main size, sizes every line to
// its tallest item, then stretches items with an auto cross size to their line.
func (b *FlexLayoutBox) determineCrossSizes(ctx *Context, main, cross Axis) {
	for _, l := range b.lines {
		for _, it := range l.items {
			if it.target != it.box.Base().size(main) {
				cc := *ctx
				cc.fix(main, it.target, it.definite)
				measureBox(it.box, &cc)
			}
			l.cross = max(l.cross, outer(it.box, cross))
		}
	}
	single := len(b.lines) == 1 && b.known[cross]
	if single {
		b.lines[0].cross = ctx.available(cross)
	}
	for _, l := range b.lines {
		for _, it := range l.items {
			cb := it.box.Base()
			if b.alignOf(it.box) != property.AlignStretch || !isUnset(cb.Style.size(cross)) {
				continue
			}
			cc := *ctx
			cc.fix(main, it.target, it.definite)
			cc.fix(cross, nonNegative(l.cross-cb.Style.Margin.Along(cross)), single && b.definite[cross])
			measureBox(it.box, &cc)
		}
	}
}

// justify returns the offset of the first item and the extra space between items.
func justify(j property.Justify, free float32, n int) (lead, between float32) {
	if free < 0 {
		switch j {
		case property.JustifySpaceBetween:
			j = property.JustifyFlexStart
		case property.JustifySpaceAround, property.JustifySpaceEvenly:
			j = property.JustifyCenter
		}
	}
	switch j {
	case property.JustifyFlexEnd:
		return free, 0
	case property.JustifyCenter:
		return free / 2, 0
	case property.JustifySpaceBetween:
		if n > 1 {
			return 0, free / float32(n-1)
		}
	case property.JustifySpaceAround:
		return free / float32(n) / 2, free / float32(n)
	case property.JustifySpaceEvenly:
		return free / float32(n+1), free / float32(n+1)
	}
	return 0, 0
}

func (b *FlexLayoutBox) layout() {
	if b.clipped {
		return
	}
	main, cross := b.axes()
	content := b.ContentBox()
	origin := Size{content.X, content.Y}
	extent := Size{content.Width, content.Height}
	mainSize := extent.Along(main)
	reverse := b.Style.Direction.IsReverse()

	lineStart := float32(0)
	for _, l := range b.lines {
		lead, between := b.alignMainAxis(l, mainSize)
		pos := lead
		for _, it := range l.items {
			cb := it.box.Base()
			m := cb.Style.Margin
			size := outer(it.box, main)
			off := pos + m.Start(main)
			if reverse {
				off = mainSize - pos - size + m.Start(main)
			}
			cb.setPos(main, origin.Along(main)+off)
			cb.setPos(cross, origin.Along(cross)+lineStart+b.alignCrossAxis(it.box, l, cross))
			pos += size + between + b.Style.Gap
			it.box.layout()
		}
		lineStart += l.cross + b.Style.Gap
	}
}

// alignMainAxis applies justify-content to a line.
func (b *FlexLayoutBox) alignMainAxis(l *flexLine, mainSize float32) (lead, between float32) {
	return justify(b.Style.Justify, mainSize-l.main, len(l.items))
}

// alignCrossAxis returns the offset of an item's border box within its line.
func (b *FlexLayoutBox) alignCrossAxis(it Box, l *flexLine, cross Axis) float32 {
	m := it.Base().Style.Margin
	free := l.cross - outer(it, cross)
	switch b.alignOf(it) {
	case property.AlignFlexEnd:
		return free + m.Start(cross)
	case property.AlignCenter:
		return free/2 + m.Start(cross)
	}
	return m.Start(cross)
}
