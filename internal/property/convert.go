package property

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/text/cases"

	"style-engine/internal/value"
)

var fold = cases.Fold()

func lower(s string) string { return fold.String(s) }

// word returns the text of a keyword or unquoted string.
func word(v any) (string, bool) {
	switch v := v.(type) {
	case value.Keyword:
		return lower(string(v)), true
	case value.String:
		if !v.Quoted {
			return lower(v.Text), true
		}
	}
	return "", false
}

func invalid(v any, want string) error {
	return fmt.Errorf("%w: expected %s, got %s %s", ErrInvalidValue, want, value.TypeOf(v), value.Format(v))
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// DisplayMode is the outer display type of a box.
type DisplayMode uint8

const (
	DisplayInline DisplayMode = iota
	DisplayBlock
	DisplayInlineBlock
	DisplayFlex
	DisplayNone
)

var displayNames = []string{"inline", "block", "inline-block", "flex", "none"}

func (d DisplayMode) String() string { return displayNames[d] }

// VisibilityMode hides a box without removing it from layout.
type VisibilityMode uint8

const (
	Visible VisibilityMode = iota
	Hidden
)

var visibilityNames = []string{"visible", "hidden"}

func (v VisibilityMode) String() string { return visibilityNames[v] }

// Direction is the main axis of a flex container.
type Direction uint8

const (
	Row Direction = iota
	RowReverse
	Column
	ColumnReverse
)

var directionNames = []string{"row", "row-reverse", "column", "column-reverse"}

func (d Direction) String() string { return directionNames[d] }

// IsColumn reports whether the main axis is vertical.
func (d Direction) IsColumn() bool { return d == Column || d == ColumnReverse }

// IsReverse reports whether items run against the axis.
func (d Direction) IsReverse() bool { return d == RowReverse || d == ColumnReverse }

// Wrap controls whether flex items may wrap onto several lines.
type Wrap uint8

const (
	NoWrap Wrap = iota
	WrapLines
	WrapReverse
)

var wrapNames = []string{"nowrap", "wrap", "wrap-reverse"}

func (w Wrap) String() string { return wrapNames[w] }

// Justify distributes free space along the main axis.
type Justify uint8

const (
	JustifyFlexStart Justify = iota
	JustifyFlexEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

var justifyNames = []string{"flex-start", "flex-end", "center", "space-between", "space-around", "space-evenly"}

func (j Justify) String() string { return justifyNames[j] }

// Align positions items along the cross axis. AlignAuto is only meaningful for
// align-self, where it defers to the container's align-items.
type Align uint8

const (
	AlignAuto Align = iota
	AlignStretch
	AlignFlexStart
	AlignFlexEnd
	AlignCenter
)

var alignNames = []string{"auto", "stretch", "flex-start", "flex-end", "center"}

func (a Align) String() string { return alignNames[a] }

// keywords converts a keyword into the enum value at its index in names.
func keywords[T ~uint8](names []string, aliases map[string]T) func(any) (T, error) {
	return func(v any) (T, error) {
		if w, ok := word(v); ok {
			if i := slices.Index(names, w); i >= 0 {
				return T(i), nil
			}
			if t, ok := aliases[w]; ok {
				return t, nil
			}
		}
		return 0, invalid(v, "one of "+strings.Join(names, ", "))
	}
}

type lengthOpts struct {
	auto     bool
	none     bool
	negative bool
}

// length converts lengths. Unitless numbers are pixels. With auto or none set, those
// keywords yield value.AutoSize.
func length(o lengthOpts) func(any) (value.Primitive, error) {
	return func(v any) (value.Primitive, error) {
		switch v := v.(type) {
		case value.Primitive:
			switch {
			case v.Unit == value.None:
				v.Unit = value.Px
			case v.IsAuto() && (o.auto || o.none):
				return v, nil
			case !v.Unit.IsLength():
				return value.Primitive{}, invalid(v, "a length")
			}
			if v.Value < 0 && !o.negative {
				return value.Primitive{}, fmt.Errorf("%w: negative length %s", ErrInvalidValue, v)
			}
			return v, nil
		}
		if w, ok := word(v); ok && (w == "auto" && o.auto || w == "none" && o.none) {
			return value.AutoSize, nil
		}
		return value.Primitive{}, invalid(v, "a length")
	}
}

func color(v any) (value.Color, error) {
	switch v := v.(type) {
	case value.Color:
		return v, nil
	case value.String:
		if c, ok := value.ParseHex(strings.TrimPrefix(v.Text, "#")); ok {
			return c, nil
		}
	}
	if w, ok := word(v); ok {
		if c, ok := value.Named(w); ok {
			return c, nil
		}
	}
	return 0, invalid(v, "a color")
}

// number converts non-negative unitless numbers, clamped to hi. Percentages scale by
// 1/100.
func number(hi float64) func(any) (float64, error) {
	return func(v any) (float64, error) {
		p, ok := v.(value.Primitive)
		if !ok || p.Unit != value.None && p.Unit != value.Percent {
			return 0, invalid(v, "a number")
		}
		n := p.Value
		if p.Unit == value.Percent {
			n /= 100
		}
		if n < 0 {
			return 0, fmt.Errorf("%w: negative number %s", ErrInvalidValue, p)
		}
		return clamp(n, 0, hi), nil
	}
}

func integer(v any) (int, error) {
	if w, ok := word(v); ok && w == "auto" {
		return 0, nil
	}
	p, ok := v.(value.Primitive)
	if !ok || p.Unit != value.None || p.Value != math.Trunc(p.Value) {
		return 0, invalid(v, "an integer")
	}
	return int(p.Value), nil
}

func text(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case value.String:
		return v.Text, nil
	case value.Keyword:
		if lower(string(v)) == "none" {
			return "", nil
		}
		return string(v), nil
	case value.List:
		var b strings.Builder
		for _, it := range v.Items {
			s, err := text(it)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
		return b.String(), nil
	}
	return value.Text(v), nil
}
