package property

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"style-engine/internal/value"
)

func list(items ...any) value.List { return value.List{Items: items} }

func TestRegistry(t *testing.T) {
	d, ok := Lookup("MARGIN-TOP")
	require.True(t, ok)
	assert.Same(t, MarginTop, d)

	byID, ok := ByID(Width.ID())
	require.True(t, ok)
	assert.Same(t, Width, byID)

	_, ok = ByID(ID(Count()))
	assert.False(t, ok)

	for i, d := range All() {
		assert.Equal(t, ID(i), d.ID(), d.Name())
	}
	assert.True(t, Known("padding"))
	assert.True(t, Known("padding-left"))
	assert.False(t, Known("paddington"))

	assert.True(t, Color.Inherited())
	assert.False(t, Width.Inherited())
	assert.Equal(t, DirtyVisual, Color.Dirty())
	assert.Equal(t, DirtyLayout, Width.Dirty())
}

func TestDirtyString(t *testing.T) {
	assert.Equal(t, "NONE", Dirty(0).String())
	assert.Equal(t, "LAYOUT|VISUAL", (DirtyLayout | DirtyVisual).String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		in   any
		kind Kind
		want any
	}{
		{"unitless length is px", Width, value.Number(10), Explicit, value.Pixels(10)},
		{"percent", Width, value.Primitive{Value: 50, Unit: value.Percent}, Explicit, value.Primitive{Value: 50, Unit: value.Percent}},
		{"auto width", Width, value.Keyword("auto"), Auto, value.AutoSize},
		{"none max", MaxWidth, value.Keyword("none"), Explicit, value.AutoSize},
		{"negative margin", MarginLeft, value.Pixels(-4), Explicit, value.Pixels(-4)},
		{"named color", Color, value.Keyword("Red"), Explicit, value.Color(0xffff0000)},
		{"hex color", BackgroundColor, value.Color(0xff112233), Explicit, value.Color(0xff112233)},
		{"display", Display, value.Keyword("flex"), Explicit, DisplayFlex},
		{"display alias", Display, value.Keyword("inline-flex"), Explicit, DisplayFlex},
		{"justify", JustifyContent, value.Keyword("space-between"), Explicit, JustifySpaceBetween},
		{"align-items", AlignItems, value.Keyword("center"), Explicit, AlignCenter},
		{"opacity clamps", Opacity, value.Number(3), Explicit, 1.0},
		{"opacity percent", Opacity, value.Primitive{Value: 50, Unit: value.Percent}, Explicit, 0.5},
		{"z-index", ZIndex, value.Number(3), Explicit, 3},
		{"content", Content, value.String{Text: "hi", Quoted: true}, Explicit, "hi"},
		{"inherit", Width, value.Keyword("inherit"), Inherit, nil},
		{"initial", Color, value.Keyword("initial"), Initial, nil},
		{"unset", Color, value.Keyword("UNSET"), Unset, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.d, tt.in, false)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.want, v.Resolved)
		})
	}
}

func TestParseInvalidFallsBackToInitial(t *testing.T) {
	tests := []struct {
		d  Descriptor
		in any
	}{
		{Width, value.Primitive{Value: 90, Unit: value.Deg}},
		{Padding[0], value.Pixels(-1)},
		{Color, value.Pixels(1)},
		{AlignItems, value.Keyword("auto")},
		{FlexGrow, value.Number(-1)},
		{ZIndex, value.Number(1.5)},
		{Display, value.Keyword("grid")},
	}
	for _, tt := range tests {
		v, err := Parse(tt.d, tt.in, true)
		assert.True(t, errors.Is(err, ErrInvalidValue), tt.d.Name())
		assert.Equal(t, Initial, v.Kind, tt.d.Name())
		assert.True(t, v.Important)
	}
}

func TestSides(t *testing.T) {
	tests := []struct {
		in   []string
		want [4]string
	}{
		{[]string{"a"}, [4]string{"a", "a", "a", "a"}},
		{[]string{"a", "b"}, [4]string{"a", "b", "a", "b"}},
		{[]string{"a", "b", "c"}, [4]string{"a", "b", "c", "b"}},
		{[]string{"a", "b", "c", "d"}, [4]string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		got, ok := Sides(tt.in)
		require.True(t, ok)
		assert.Equal(t, tt.want, got)
	}
	_, ok := Sides([]string{"a", "b", "c", "d", "e"})
	assert.False(t, ok)
}

func TestPaddingShorthand(t *testing.T) {
	s := NewSet()
	_, err := s.Declare("padding", list(value.Pixels(1), value.Pixels(2), value.Pixels(3)), false)
	require.NoError(t, err)

	want := []value.Primitive{value.Pixels(1), value.Pixels(2), value.Pixels(3), value.Pixels(2)}
	for i, p := range Padding {
		v, ok := s.Get(p)
		require.True(t, ok, p.Name())
		assert.Equal(t, want[i], v.Resolved, p.Name())
	}

	s = NewSet()
	_, err = s.Declare("padding", value.Pixels(1), false)
	require.NoError(t, err)
	for _, p := range Padding {
		v, _ := s.Get(p)
		assert.Equal(t, value.Pixels(1), v.Resolved, p.Name())
	}
}

func TestBorderShorthand(t *testing.T) {
	s := NewSet()
	_, err := s.Declare("border", list(value.Pixels(2), value.Keyword("solid"), value.Keyword("red")), false)
	require.NoError(t, err)
	v, _ := s.Get(BorderLeftWidth)
	assert.Equal(t, value.Pixels(2), v.Resolved)
	v, _ = s.Get(BorderColor)
	assert.Equal(t, value.Color(0xffff0000), v.Resolved)

	_, err = s.Declare("border", value.Keyword("none"), false)
	require.NoError(t, err)
	v, _ = s.Get(BorderTopWidth)
	assert.Equal(t, value.Pixels(0), v.Resolved)
}

func TestFlexShorthand(t *testing.T) {
	tests := []struct {
		in           any
		grow, shrink float64
		basis        value.Primitive
	}{
		{value.Number(2), 2, 1, value.Pixels(0)},
		{value.Keyword("none"), 0, 0, value.AutoSize},
		{value.Keyword("auto"), 1, 1, value.AutoSize},
		{value.Pixels(30), 1, 1, value.Pixels(30)},
		{list(value.Number(2), value.Number(3)), 2, 3, value.Pixels(0)},
		{list(value.Number(2), value.Number(3), value.Pixels(10)), 2, 3, value.Pixels(10)},
	}
	for _, tt := range tests {
		s := NewSet()
		_, err := s.Declare("flex", tt.in, false)
		require.NoError(t, err, value.Format(tt.in))
		g, _ := s.Get(FlexGrow)
		sh, _ := s.Get(FlexShrink)
		b, _ := s.Get(FlexBasis)
		assert.Equal(t, tt.grow, g.Resolved, value.Format(tt.in))
		assert.Equal(t, tt.shrink, sh.Resolved, value.Format(tt.in))
		assert.Equal(t, tt.basis, b.Resolved, value.Format(tt.in))
	}
}

func TestDeclareErrors(t *testing.T) {
	s := NewSet()
	_, err := s.Declare("colour", value.Keyword("red"), false)
	assert.True(t, errors.Is(err, ErrUnknownProperty))
	assert.Zero(t, s.Len())

	_, err = s.Declare("margin", list(value.Pixels(1), value.Pixels(2), value.Pixels(3), value.Pixels(4), value.Pixels(5)), false)
	assert.True(t, errors.Is(err, ErrInvalidValue))
	v, ok := s.Get(MarginTop)
	require.True(t, ok)
	assert.Equal(t, Initial, v.Kind)
}

func TestSetDirtyBits(t *testing.T) {
	s := NewSet()
	red, _ := Parse(Color, value.Keyword("red"), false)
	wide, _ := Parse(Width, value.Pixels(100), false)

	assert.Equal(t, DirtyVisual, s.Set(Color, red))
	assert.Equal(t, Dirty(0), s.Set(Color, red))
	assert.Equal(t, DirtyLayout, s.Set(Width, wide))
	assert.Equal(t, 2, s.Len())

	assert.Equal(t, DirtyLayout, s.Remove(Width))
	assert.Equal(t, Dirty(0), s.Remove(Width))
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Has(Width))
}

func TestPutAllAndSetAll(t *testing.T) {
	a := NewSet()
	_, _ = a.Declare("color", value.Keyword("red"), false)
	_, _ = a.Declare("width", value.Pixels(10), false)

	b := NewSet()
	_, _ = b.Declare("color", value.Keyword("red"), false)
	_, _ = b.Declare("opacity", value.Number(0.5), false)

	c := a.Clone()
	assert.Equal(t, DirtyVisual, c.PutAll(b))
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, Dirty(0), c.PutAll(b))

	d := a.Clone()
	assert.Equal(t, DirtyLayout|DirtyVisual, d.SetAll(b))
	assert.Equal(t, 2, d.Len())
	assert.False(t, d.Has(Width))
	assert.Equal(t, Dirty(0), d.SetAll(b))

	// a is untouched by changes to its clones.
	assert.True(t, a.Has(Width))
	assert.False(t, a.Has(Opacity))
}

func TestSerialize(t *testing.T) {
	s := NewSet()
	_, _ = s.Declare("color", value.Keyword("red"), true)
	_, _ = s.Declare("width", value.Pixels(10), false)
	_, _ = s.Declare("height", value.Keyword("inherit"), false)
	assert.Equal(t, "color: red !important; width: 10px; height: inherit;", s.String())
}
