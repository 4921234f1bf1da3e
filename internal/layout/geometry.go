package layout

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// Unset marks a size left for the content to decide.
var Unset = math32.Inf(-1)

// Unbounded is the available size of an axis with no limit.
var Unbounded = math32.Inf(1)

func isUnset(v float32) bool     { return math32.IsInf(v, -1) }
func isUnbounded(v float32) bool { return math32.IsInf(v, 1) }

func clamp[T constraints.Float](v, lo, hi T) T {
	return max(min(v, hi), lo)
}

func nonNegative(v float32) float32 { return math32.Max(v, 0) }

// Axis selects the horizontal or vertical dimension.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

// Cross returns the other axis.
func (a Axis) Cross() Axis { return 1 - a }

// Size is a width and a height.
type Size struct {
	Width, Height float32
}

// Along returns the extent of s on a.
func (s Size) Along(a Axis) float32 {
	if a == Horizontal {
		return s.Width
	}
	return s.Height
}

func (s *Size) set(a Axis, v float32) {
	if a == Horizontal {
		s.Width = v
	} else {
		s.Height = v
	}
}

// Rect is a positioned rectangle.
type Rect struct {
	X, Y, Width, Height float32
}

// Inset shrinks r by e on every side. The size never goes negative.
func (r Rect) Inset(e Edges) Rect {
	return Rect{
		X:      r.X + e.Left,
		Y:      r.Y + e.Top,
		Width:  nonNegative(r.Width - e.Horizontal()),
		Height: nonNegative(r.Height - e.Vertical()),
	}
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Edges holds the thickness of the four sides of a box edge.
type Edges struct {
	Top, Right, Bottom, Left float32
}

func (e Edges) Horizontal() float32 { return e.Left + e.Right }
func (e Edges) Vertical() float32   { return e.Top + e.Bottom }

// Add sums two edges side by side.
func (e Edges) Add(o Edges) Edges {
	return Edges{e.Top + o.Top, e.Right + o.Right, e.Bottom + o.Bottom, e.Left + o.Left}
}

// Along returns the total thickness across a.
func (e Edges) Along(a Axis) float32 {
	if a == Horizontal {
		return e.Horizontal()
	}
	return e.Vertical()
}

// Start returns the leading side on a: left or top.
func (e Edges) Start(a Axis) float32 {
	if a == Horizontal {
		return e.Left
	}
	return e.Top
}
