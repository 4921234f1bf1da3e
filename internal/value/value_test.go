package value

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b Primitive) (Primitive, error)
		a, b Primitive
		want Primitive
	}{
		{"same unit", Primitive.Add, Pixels(1), Pixels(2), Pixels(3)},
		{"unitless left", Primitive.Add, Number(1), Pixels(2), Pixels(3)},
		{"unitless right", Primitive.Sub, Primitive{5, Percent}, Number(2), Primitive{3, Percent}},
		{"cm plus m", Primitive.Add, Primitive{1, Cm}, Primitive{1, M}, Primitive{101, Cm}},
		{"m plus cm", Primitive.Add, Primitive{2, M}, Primitive{5, Cm}, Primitive{205, Cm}},
		{"turn plus deg", Primitive.Add, Primitive{0.5, Turn}, Primitive{10, Deg}, Primitive{190, Deg}},
		{"scale", Primitive.Mul, Pixels(4), Number(2.5), Pixels(10)},
		{"ratio", Primitive.Div, Pixels(10), Pixels(4), Number(2.5)},
		{"mod", Primitive.Mod, Number(7), Number(3), Number(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Value, got.Value, 1e-9)
			assert.Equal(t, tt.want.Unit, got.Unit)
		})
	}
}

func TestIncompatibleUnitsYieldZero(t *testing.T) {
	got, err := Primitive{90, Deg}.Add(Pixels(5))
	assert.True(t, errors.Is(err, ErrIncompatibleUnits))
	assert.Equal(t, Primitive{}, got)

	_, err = Pixels(1).Div(Number(0))
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestCompare(t *testing.T) {
	c, err := Primitive{1, M}.Compare(Primitive{99, Cm})
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	_, err = Pixels(1).Compare(Primitive{1, Deg})
	assert.Error(t, err)
}

func TestParseUnitFoldsCase(t *testing.T) {
	u, ok := ParseUnit("PX")
	assert.True(t, ok)
	assert.Equal(t, Px, u)

	_, ok = ParseUnit("fr")
	assert.False(t, ok)
	_, ok = ParseUnit("auto")
	assert.False(t, ok)
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"fff", 0xffffffff, true},
		{"0a0b0c", 0xff0a0b0c, true},
		{"11223380", 0x80112233, true},
		{"12345", 0, false},
		{"zzz", 0, false},
	}
	for _, tt := range tests {
		c, ok := ParseHex(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, c, tt.in)
	}
	assert.Equal(t, "#11223380", Color(0x80112233).String())
}

func TestHSLRoundTrip(t *testing.T) {
	red := HSL(0, 1, 0.5, 1)
	assert.Equal(t, Color(0xffff0000), red)

	h, s, l := Color(0xff336699).HSL()
	assert.Equal(t, Color(0xff336699), HSL(h, s, l, 1))

	assert.Equal(t, Color(0xffffffff), red.Lighten(1))
	assert.Equal(t, Color(0xff000000), red.Darken(1))
	assert.Equal(t, uint8(128), red.WithAlpha(0.5).A())
}

func TestEqualAndTruthy(t *testing.T) {
	assert.True(t, Equal(Primitive{1, M}, Primitive{100, Cm}))
	assert.True(t, Equal(String{Text: "a", Quoted: true}, Keyword("a")))
	assert.False(t, Equal(List{Items: []any{Number(1)}}, List{}))
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(false))
	assert.True(t, Truthy(Number(0)))
	assert.Equal(t, "1px, red", Format(List{Items: []any{Pixels(1), Keyword("red")}, Comma: true}))
}
