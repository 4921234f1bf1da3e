package value

import (
	"fmt"
	"math"
	"strconv"
)

// Color is a packed ARGB color, alpha in the high byte.
type Color uint32

// RGBA packs channels into a Color.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// String formats c as #rrggbb, or #rrggbbaa when it is not opaque.
func (c Color) String() string {
	if c.A() == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R(), c.G(), c.B())
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R(), c.G(), c.B(), c.A())
}

// ParseHex decodes the digits of a #rgb, #rrggbb or #rrggbbaa literal (without '#').
// The trailing alpha of the 8-digit form moves to the high byte.
func ParseHex(s string) (Color, bool) {
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return 0, false
		}
	}
	switch len(s) {
	case 3:
		v, _ := strconv.ParseUint(s, 16, 32)
		r, g, b := uint8(v>>8&0xf), uint8(v>>4&0xf), uint8(v&0xf)
		return RGBA(r*17, g*17, b*17, 0xff), true
	case 6:
		v, _ := strconv.ParseUint(s, 16, 32)
		return Color(0xff000000 | uint32(v)), true
	case 8:
		v, _ := strconv.ParseUint(s, 16, 32)
		rgb, a := uint32(v)>>8, uint32(v)&0xff
		return Color(a<<24 | rgb), true
	}
	return 0, false
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

var named = map[string]Color{
	"transparent": 0,
	"black":       0xff000000,
	"white":       0xffffffff,
	"red":         0xffff0000,
	"green":       0xff008000,
	"lime":        0xff00ff00,
	"blue":        0xff0000ff,
	"yellow":      0xffffff00,
	"cyan":        0xff00ffff,
	"magenta":     0xffff00ff,
	"gray":        0xff808080,
	"grey":        0xff808080,
	"orange":      0xffffa500,
	"purple":      0xff800080,
}

// Named looks up a color keyword.
func Named(name string) (Color, bool) {
	c, ok := named[fold.String(name)]
	return c, ok
}

// HSL builds a color from hue in degrees and saturation, lightness and alpha in [0,1].
func HSL(h, s, l, a float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s, l = clamp01(s), clamp01(l)
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return RGBA(channel(r+m), channel(g+m), channel(b+m), channel(a))
}

// HSL returns hue in degrees and saturation and lightness in [0,1].
func (c Color) HSL() (h, s, l float64) {
	r, g, b := float64(c.R())/255, float64(c.G())/255, float64(c.B())/255
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	l = (hi + lo) / 2
	if hi == lo {
		return 0, 0, l
	}
	d := hi - lo
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}
	switch hi {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h * 60, s, l
}

// Alpha returns the alpha channel in [0,1].
func (c Color) Alpha() float64 {
	return float64(c.A()) / 255
}

// WithAlpha replaces the alpha channel; a is in [0,1].
func (c Color) WithAlpha(a float64) Color {
	return c&0x00ffffff | Color(channel(a))<<24
}

// Lighten raises lightness by amount in [0,1].
func (c Color) Lighten(amount float64) Color {
	h, s, l := c.HSL()
	return HSL(h, s, l+amount, c.Alpha())
}

// Darken lowers lightness by amount in [0,1].
func (c Color) Darken(amount float64) Color {
	return c.Lighten(-amount)
}

// Mix blends c with o; weight is the share of c in [0,1].
func (c Color) Mix(o Color, weight float64) Color {
	w := clamp01(weight)
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a)*w + float64(b)*(1-w)))
	}
	return RGBA(mix(c.R(), o.R()), mix(c.G(), o.G()), mix(c.B(), o.B()), mix(c.A(), o.A()))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func channel(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
