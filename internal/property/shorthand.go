package property

import (
	"fmt"

	"style-engine/internal/value"
)

// Decl is one longhand assignment produced by expanding a shorthand.
type Decl struct {
	Property Descriptor
	Value    any
}

// Shorthand expands one declaration into several longhands.
type Shorthand struct {
	name   string
	expand func(v any) ([]Decl, error)
}

func (s *Shorthand) Name() string { return s.name }

// Expand returns the longhand declarations for v. The keywords inherit, initial and
// unset apply to every longhand.
func (s *Shorthand) Expand(v any) ([]Decl, error) {
	if w, ok := word(v); ok && (w == "inherit" || w == "initial" || w == "unset") {
		var out []Decl
		for _, d := range s.longhands() {
			out = append(out, Decl{Property: d, Value: v})
		}
		return out, nil
	}
	decls, err := s.expand(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	return decls, nil
}

func (s *Shorthand) longhands() []Descriptor {
	switch s.name {
	case "margin":
		return Margin.descriptors()
	case "padding":
		return Padding.descriptors()
	case "border", "border-width":
		return append(Border.descriptors(), BorderColor)
	case "outline", "outline-width":
		return append(Outline.descriptors(), OutlineColor)
	case "flex":
		return []Descriptor{FlexGrow, FlexShrink, FlexBasis}
	}
	return nil
}

var shorthands = map[string]*Shorthand{}

func shorthand(name string, expand func(any) ([]Decl, error)) {
	shorthands[name] = &Shorthand{name: name, expand: expand}
}

func init() {
	shorthand("margin", Margin.expand)
	shorthand("padding", Padding.expand)
	shorthand("border", edge(Border, BorderColor))
	shorthand("border-width", Border.expand)
	shorthand("outline", edge(Outline, OutlineColor))
	shorthand("outline-width", Outline.expand)
	shorthand("flex", flex)
}

// LookupShorthand finds a shorthand by name, ignoring case.
func LookupShorthand(name string) (*Shorthand, bool) {
	s, ok := shorthands[lower(name)]
	return s, ok
}

func (r Rect) descriptors() []Descriptor {
	return []Descriptor{r[0], r[1], r[2], r[3]}
}

// Sides expands one to four values clockwise from the top: one value sets every side,
// two set vertical and horizontal, three set top, horizontal and bottom.
func Sides[T any](items []T) ([4]T, bool) {
	switch len(items) {
	case 1:
		return [4]T{items[0], items[0], items[0], items[0]}, true
	case 2:
		return [4]T{items[0], items[1], items[0], items[1]}, true
	case 3:
		return [4]T{items[0], items[1], items[2], items[1]}, true
	case 4:
		return [4]T{items[0], items[1], items[2], items[3]}, true
	}
	return [4]T{}, false
}

func (r Rect) expand(v any) ([]Decl, error) {
	sides, ok := Sides(value.Items(v))
	if !ok {
		return nil, fmt.Errorf("%w: expected 1 to 4 values, got %d", ErrInvalidValue, len(value.Items(v)))
	}
	out := make([]Decl, 4)
	for i, s := range sides {
		out[i] = Decl{Property: r[i], Value: s}
	}
	return out, nil
}

// edge expands border and outline: lengths set the widths, a color sets the color, and
// none sets every width to zero. Line styles are accepted and ignored.
func edge(r Rect, col *Property[value.Color]) func(any) ([]Decl, error) {
	return func(v any) ([]Decl, error) {
		var widths []any
		var out []Decl
		for _, it := range value.Items(v) {
			if _, ok := it.(value.Primitive); ok {
				widths = append(widths, it)
				continue
			}
			if _, err := color(it); err == nil {
				out = append(out, Decl{Property: col, Value: it})
				continue
			}
			switch w, _ := word(it); w {
			case "none", "hidden":
				widths = []any{value.Pixels(0)}
			case "solid", "dashed", "dotted", "double":
			default:
				return nil, invalid(it, "a width, color or line style")
			}
		}
		if len(widths) == 0 {
			return out, nil
		}
		rect, err := r.expand(value.List{Items: widths})
		if err != nil {
			return nil, err
		}
		return append(rect, out...), nil
	}
}

// flex expands `none`, `auto`, `<grow>`, `<basis>`, `<grow> <shrink>` and
// `<grow> <shrink> <basis>`.
func flex(v any) ([]Decl, error) {
	decl := func(grow, shrink, basis any) []Decl {
		return []Decl{{FlexGrow, grow}, {FlexShrink, shrink}, {FlexBasis, basis}}
	}
	switch w, _ := word(v); w {
	case "none":
		return decl(value.Number(0), value.Number(0), value.Keyword("auto")), nil
	case "auto":
		return decl(value.Number(1), value.Number(1), value.Keyword("auto")), nil
	}
	items := value.Items(v)
	isNumber := func(v any) bool {
		p, ok := v.(value.Primitive)
		return ok && p.Unit == value.None
	}
	switch {
	case len(items) == 1 && isNumber(items[0]):
		return decl(items[0], value.Number(1), value.Pixels(0)), nil
	case len(items) == 1:
		return decl(value.Number(1), value.Number(1), items[0]), nil
	case len(items) == 2 && isNumber(items[1]):
		return decl(items[0], items[1], value.Pixels(0)), nil
	case len(items) == 2:
		return decl(items[0], value.Number(1), items[1]), nil
	case len(items) == 3:
		return decl(items[0], items[1], items[2]), nil
	}
	return nil, fmt.Errorf("%w: expected 1 to 3 values, got %d", ErrInvalidValue, len(items))
}
