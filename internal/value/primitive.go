package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrIncompatibleUnits is returned by arithmetic on primitives whose units cannot be
// combined (e.g. deg + px).
var ErrIncompatibleUnits = errors.New("incompatible units")

// ErrDivisionByZero is returned by Div and Mod with a zero divisor.
var ErrDivisionByZero = errors.New("division by zero")

// Primitive is a number with a unit.
type Primitive struct {
	Value float64
	Unit  Unit
}

// Pixels returns a px primitive.
func Pixels(v float64) Primitive { return Primitive{Value: v, Unit: Px} }

// Number returns a unitless primitive.
func Number(v float64) Primitive { return Primitive{Value: v} }

// AutoSize is the "auto" sentinel used by size properties.
var AutoSize = Primitive{Unit: Auto}

// IsAuto reports whether p is the auto sentinel.
func (p Primitive) IsAuto() bool { return p.Unit == Auto }

func (p Primitive) String() string {
	if p.Unit == Auto {
		return "auto"
	}
	return strconv.FormatFloat(p.Value, 'f', -1, 64) + p.Unit.String()
}

// coerce brings a and b to a common unit following the compatibility matrix:
// same unit or one unitless; cm and m (as cm); any two angles (as deg).
func coerce(a, b Primitive) (x, y float64, u Unit, err error) {
	switch {
	case a.Unit == Auto || b.Unit == Auto:
		return 0, 0, None, ErrIncompatibleUnits
	case a.Unit == b.Unit:
		return a.Value, b.Value, a.Unit, nil
	case a.Unit == None:
		return a.Value, b.Value, b.Unit, nil
	case b.Unit == None:
		return a.Value, b.Value, a.Unit, nil
	case isMetric(a.Unit) && isMetric(b.Unit):
		return toCM(a), toCM(b), Cm, nil
	case a.Unit.IsAngle() && b.Unit.IsAngle():
		return degrees(a.Value, a.Unit), degrees(b.Value, b.Unit), Deg, nil
	}
	return 0, 0, None, fmt.Errorf("%w: %s and %s", ErrIncompatibleUnits, unitLabel(a.Unit), unitLabel(b.Unit))
}

func unitLabel(u Unit) string {
	if u == None {
		return "unitless"
	}
	return u.String()
}

func isMetric(u Unit) bool { return u == Cm || u == M }

func toCM(p Primitive) float64 {
	if p.Unit == M {
		return p.Value * 100
	}
	return p.Value
}

// Add returns a+b. On incompatible units it returns a zero primitive and an error.
func (p Primitive) Add(q Primitive) (Primitive, error) {
	x, y, u, err := coerce(p, q)
	if err != nil {
		return Primitive{}, err
	}
	return Primitive{Value: x + y, Unit: u}, nil
}

// Sub returns a-b.
func (p Primitive) Sub(q Primitive) (Primitive, error) {
	x, y, u, err := coerce(p, q)
	if err != nil {
		return Primitive{}, err
	}
	return Primitive{Value: x - y, Unit: u}, nil
}

// Mul returns a*b. A unitless operand scales the other one.
func (p Primitive) Mul(q Primitive) (Primitive, error) {
	x, y, u, err := coerce(p, q)
	if err != nil {
		return Primitive{}, err
	}
	return Primitive{Value: x * y, Unit: u}, nil
}

// Div returns a/b. Dividing two values of the same dimension yields a unitless ratio.
func (p Primitive) Div(q Primitive) (Primitive, error) {
	x, y, u, err := coerce(p, q)
	if err != nil {
		return Primitive{}, err
	}
	if y == 0 {
		return Primitive{}, ErrDivisionByZero
	}
	if p.Unit != None && q.Unit != None {
		u = None
	}
	return Primitive{Value: x / y, Unit: u}, nil
}

// Mod returns a mod b with the sign of a.
func (p Primitive) Mod(q Primitive) (Primitive, error) {
	x, y, u, err := coerce(p, q)
	if err != nil {
		return Primitive{}, err
	}
	if y == 0 {
		return Primitive{}, ErrDivisionByZero
	}
	return Primitive{Value: math.Mod(x, y), Unit: u}, nil
}

// Neg returns -p.
func (p Primitive) Neg() Primitive {
	return Primitive{Value: -p.Value, Unit: p.Unit}
}

// Compare returns -1, 0 or 1 after bringing both sides to a common unit.
func (p Primitive) Compare(q Primitive) (int, error) {
	x, y, _, err := coerce(p, q)
	if err != nil {
		return 0, err
	}
	switch {
	case x < y:
		return -1, nil
	case x > y:
		return 1, nil
	}
	return 0, nil
}

// Degrees returns an angle in degrees; unitless values are taken as degrees.
func (p Primitive) Degrees() float64 {
	return degrees(p.Value, p.Unit)
}

// Radians returns an angle in radians; unitless values are taken as radians.
func (p Primitive) Radians() float64 {
	if p.Unit == None || p.Unit == Rad {
		return p.Value
	}
	return p.Degrees() * math.Pi / 180
}
