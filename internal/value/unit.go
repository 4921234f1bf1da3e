// Package value holds the runtime values of the styling language: numbers with units,
// colors, strings, keywords and lists.
package value

import (
	"math"

	"golang.org/x/text/cases"
)

// Unit is the unit suffix of a numeric literal.
type Unit int

const (
	None Unit = iota
	Px
	Percent
	Ch
	Vh
	Vw
	Cm
	M
	Deg
	Rad
	Grad
	Turn
	// Auto is not a suffix; it marks a size that is resolved by layout.
	Auto
)

var unitNames = [...]string{
	None:    "",
	Px:      "px",
	Percent: "%",
	Ch:      "ch",
	Vh:      "vh",
	Vw:      "vw",
	Cm:      "cm",
	M:       "m",
	Deg:     "deg",
	Rad:     "rad",
	Grad:    "grad",
	Turn:    "turn",
	Auto:    "auto",
}

func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return "?"
}

var fold = cases.Fold()

// ParseUnit maps a suffix to its unit, ignoring case. "auto" is not a suffix and is
// rejected here.
func ParseUnit(s string) (Unit, bool) {
	s = fold.String(s)
	for u := Px; u < Auto; u++ {
		if unitNames[u] == s {
			return u, true
		}
	}
	return None, false
}

// IsAngle reports whether u is an angular unit.
func (u Unit) IsAngle() bool {
	return u == Deg || u == Rad || u == Grad || u == Turn
}

// IsLength reports whether u measures a length (percent included).
func (u Unit) IsLength() bool {
	switch u {
	case Px, Percent, Ch, Vh, Vw, Cm, M:
		return true
	}
	return false
}

// degrees converts an angle in unit u to degrees.
func degrees(v float64, u Unit) float64 {
	switch u {
	case Rad:
		return v * 180 / math.Pi
	case Grad:
		return v * 0.9
	case Turn:
		return v * 360
	}
	return v
}
