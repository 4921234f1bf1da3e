package interp

import (
	"errors"
	"fmt"
	"math"

	"style-engine/internal/ast"
	"style-engine/internal/property"
	"style-engine/internal/value"
)

// builtin is a native function. max < 0 means no upper bound.
type builtin struct {
	min, max int
	fn       func(in *Interpreter, args []any) (any, error)
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"rgb":          {3, 4, rgb},
		"rgba":         {2, 4, rgba},
		"hsl":          {3, 4, hsl},
		"hsla":         {3, 4, hsl},
		"lighten":      {2, 2, adjust(value.Color.Lighten)},
		"darken":       {2, 2, adjust(value.Color.Darken)},
		"fade":         {2, 2, adjust(value.Color.WithAlpha)},
		"mix":          {2, 3, mix},
		"alpha":        {1, 1, component(func(c value.Color) float64 { return c.Alpha() })},
		"red":          {1, 1, component(func(c value.Color) float64 { return float64(c.R()) })},
		"green":        {1, 1, component(func(c value.Color) float64 { return float64(c.G()) })},
		"blue":         {1, 1, component(func(c value.Color) float64 { return float64(c.B()) })},
		"sin":          {1, 1, trig(math.Sin)},
		"cos":          {1, 1, trig(math.Cos)},
		"tan":          {1, 1, trig(math.Tan)},
		"asin":         {1, 1, inverse(math.Asin)},
		"acos":         {1, 1, inverse(math.Acos)},
		"atan":         {1, 1, inverse(math.Atan)},
		"sqrt":         {1, 1, sqrt},
		"pow":          {2, 2, pow},
		"abs":          {1, 1, rounding(math.Abs)},
		"round":        {1, 1, rounding(math.Round)},
		"floor":        {1, 1, rounding(math.Floor)},
		"ceil":         {1, 1, rounding(math.Ceil)},
		"min":          {1, -1, extreme(-1)},
		"max":          {1, -1, extreme(1)},
		"clamp":        {3, 3, clampFn},
		"percentage":   {1, 1, percentage},
		"unit":         {1, 1, unitFn},
		"unitless":     {1, 1, unitless},
		"length":       {1, 1, length},
		"nth":          {2, 2, nth},
		"join":         {2, 3, join},
		"type-of":      {1, 1, typeOf},
		"if":           {3, 3, ifFn},
		"get-property": {1, 1, getProperty},
		"set-property": {2, 3, setProperty},
	}
}

func (in *Interpreter) callBuiltin(c *ast.CallExpr, b builtin, s scopeID) any {
	for _, a := range c.Args {
		if a.Name != "" {
			in.errorAt(c, "%s() does not take keyword arguments", c.Name)
			return nil
		}
	}
	args := in.positional(c.Args, s)
	if len(args) < b.min || (b.max >= 0 && len(args) > b.max) {
		in.errorAt(c, "%s() takes %s, got %d", c.Name, arity(b.min, b.max), len(args))
		return nil
	}
	v, err := b.fn(in, args)
	if err != nil {
		in.errorAt(c, "%s(): %v", c.Name, err)
		return nil
	}
	return v
}

func arity(lo, hi int) string {
	switch {
	case hi < 0:
		return fmt.Sprintf("at least %d %s", lo, plural(lo))
	case lo == hi:
		return fmt.Sprintf("%d %s", lo, plural(lo))
	}
	return fmt.Sprintf("%d to %d arguments", lo, hi)
}

func plural(n int) string {
	if n == 1 {
		return "argument"
	}
	return "arguments"
}

var errType = errors.New("wrong argument type")

func number(args []any, i int) (value.Primitive, error) {
	p, ok := args[i].(value.Primitive)
	if !ok || p.IsAuto() {
		return value.Primitive{}, fmt.Errorf("%w: argument %d must be a number, got %s", errType, i+1, value.TypeOf(args[i]))
	}
	return p, nil
}

func color(args []any, i int) (value.Color, error) {
	c, ok := args[i].(value.Color)
	if !ok {
		return 0, fmt.Errorf("%w: argument %d must be a color, got %s", errType, i+1, value.TypeOf(args[i]))
	}
	return c, nil
}

func numbers(args []any) ([]value.Primitive, error) {
	out := make([]value.Primitive, len(args))
	for i := range args {
		p, err := number(args, i)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// fraction maps a percentage or a unitless number to [0,1]. Unitless values above 1 are
// read as percentages.
func fraction(p value.Primitive) float64 {
	v := p.Value
	if p.Unit == value.Percent || v > 1 {
		v /= 100
	}
	return math.Max(0, math.Min(1, v))
}

// channel maps a percentage or a 0..255 number to [0,1].
func channel(p value.Primitive) float64 {
	if p.Unit == value.Percent {
		return math.Max(0, math.Min(1, p.Value/100))
	}
	return math.Max(0, math.Min(1, p.Value/255))
}

func byte8(f float64) uint8 { return uint8(math.Round(f * 255)) }

func rgb(_ *Interpreter, args []any) (any, error) {
	ps, err := numbers(args)
	if err != nil {
		return nil, err
	}
	a := 1.0
	if len(ps) == 4 {
		a = fraction(ps[3])
	}
	return value.RGBA(byte8(channel(ps[0])), byte8(channel(ps[1])), byte8(channel(ps[2])), byte8(a)), nil
}

func rgba(in *Interpreter, args []any) (any, error) {
	if c, ok := args[0].(value.Color); ok {
		if len(args) != 2 {
			return nil, fmt.Errorf("rgba(color, alpha) takes 2 arguments, got %d", len(args))
		}
		a, err := number(args, 1)
		if err != nil {
			return nil, err
		}
		return c.WithAlpha(fraction(a)), nil
	}
	if len(args) < 3 {
		return nil, fmt.Errorf("%w: argument 1 must be a color, got %s", errType, value.TypeOf(args[0]))
	}
	return rgb(in, args)
}

// hsl takes a hue angle and saturation and lightness as percentages; unitless
// saturation and lightness are percentages too.
func hsl(_ *Interpreter, args []any) (any, error) {
	ps, err := numbers(args)
	if err != nil {
		return nil, err
	}
	a := 1.0
	if len(ps) == 4 {
		a = fraction(ps[3])
	}
	pct := func(p value.Primitive) float64 { return p.Value / 100 }
	return value.HSL(ps[0].Degrees(), pct(ps[1]), pct(ps[2]), a), nil
}

func adjust(op func(value.Color, float64) value.Color) func(*Interpreter, []any) (any, error) {
	return func(_ *Interpreter, args []any) (any, error) {
		c, err := color(args, 0)
		if err != nil {
			return nil, err
		}
		amt, err := number(args, 1)
		if err != nil {
			return nil, err
		}
		return op(c, fraction(amt)), nil
	}
}

func mix(_ *Interpreter, args []any) (any, error) {
	a, err := color(args, 0)
	if err != nil {
		return nil, err
	}
	b, err := color(args, 1)
	if err != nil {
		return nil, err
	}
	w := 0.5
	if len(args) == 3 {
		p, err := number(args, 2)
		if err != nil {
			return nil, err
		}
		w = fraction(p)
	}
	return a.Mix(b, w), nil
}

func component(get func(value.Color) float64) func(*Interpreter, []any) (any, error) {
	return func(_ *Interpreter, args []any) (any, error) {
		c, err := color(args, 0)
		if err != nil {
			return nil, err
		}
		return value.Number(get(c)), nil
	}
}

// trig takes an angle; unitless arguments are radians.
func trig(fn func(float64) float64) func(*Interpreter, []any) (any, error) {
	return func(_ *Interpreter, args []any) (any, error) {
		p, err := number(args, 0)
		if err != nil {
			return nil, err
		}
		if p.Unit != value.None && !p.Unit.IsAngle() {
			return nil, fmt.Errorf("%w: expected an angle, got %s", errType, p)
		}
		return value.Number(fn(p.Radians())), nil
	}
}

// inverse returns an angle in degrees.
func inverse(fn func(float64) float64) func(*Interpreter, []any) (any, error) {
	return func(_ *Interpreter, args []any) (any, error) {
		p, err := number(args, 0)
		if err != nil {
			return nil, err
		}
		r := fn(p.Value)
		if math.IsNaN(r) {
			return nil, fmt.Errorf("%s is out of range", p)
		}
		return value.Primitive{Value: r * 180 / math.Pi, Unit: value.Deg}, nil
	}
}

func sqrt(_ *Interpreter, args []any) (any, error) {
	p, err := number(args, 0)
	if err != nil {
		return nil, err
	}
	if p.Value < 0 {
		return nil, fmt.Errorf("square root of negative number %s", p)
	}
	return value.Primitive{Value: math.Sqrt(p.Value), Unit: p.Unit}, nil
}

func pow(_ *Interpreter, args []any) (any, error) {
	ps, err := numbers(args)
	if err != nil {
		return nil, err
	}
	return value.Primitive{Value: math.Pow(ps[0].Value, ps[1].Value), Unit: ps[0].Unit}, nil
}

func rounding(fn func(float64) float64) func(*Interpreter, []any) (any, error) {
	return func(_ *Interpreter, args []any) (any, error) {
		p, err := number(args, 0)
		if err != nil {
			return nil, err
		}
		return value.Primitive{Value: fn(p.Value), Unit: p.Unit}, nil
	}
}

// extreme returns min (sign -1) or max (sign 1). A single list argument is searched.
func extreme(sign int) func(*Interpreter, []any) (any, error) {
	return func(_ *Interpreter, args []any) (any, error) {
		if len(args) == 1 {
			args = value.Items(args[0])
		}
		ps, err := numbers(args)
		if err != nil {
			return nil, err
		}
		if len(ps) == 0 {
			return nil, errors.New("empty list")
		}
		best := ps[0]
		for _, p := range ps[1:] {
			c, err := p.Compare(best)
			if err != nil {
				return nil, err
			}
			if c == sign {
				best = p
			}
		}
		return best, nil
	}
}

func clampFn(_ *Interpreter, args []any) (any, error) {
	ps, err := numbers(args)
	if err != nil {
		return nil, err
	}
	lo, v, hi := ps[0], ps[1], ps[2]
	if c, err := v.Compare(lo); err != nil {
		return nil, err
	} else if c < 0 {
		return lo, nil
	}
	if c, err := v.Compare(hi); err != nil {
		return nil, err
	} else if c > 0 {
		return hi, nil
	}
	return v, nil
}

func percentage(_ *Interpreter, args []any) (any, error) {
	p, err := number(args, 0)
	if err != nil {
		return nil, err
	}
	if p.Unit != value.None {
		return nil, fmt.Errorf("%w: expected a unitless number, got %s", errType, p)
	}
	return value.Primitive{Value: p.Value * 100, Unit: value.Percent}, nil
}

func unitFn(_ *Interpreter, args []any) (any, error) {
	p, err := number(args, 0)
	if err != nil {
		return nil, err
	}
	return value.String{Text: p.Unit.String(), Quoted: true}, nil
}

func unitless(_ *Interpreter, args []any) (any, error) {
	p, err := number(args, 0)
	if err != nil {
		return nil, err
	}
	return p.Unit == value.None, nil
}

func length(_ *Interpreter, args []any) (any, error) {
	return value.Number(float64(len(value.Items(args[0])))), nil
}

// nth indexes a list from 1; negative indexes count from the end.
func nth(_ *Interpreter, args []any) (any, error) {
	items := value.Items(args[0])
	p, err := number(args, 1)
	if err != nil {
		return nil, err
	}
	i := int(p.Value)
	if float64(i) != p.Value || i == 0 || i > len(items) || -i > len(items) {
		return nil, fmt.Errorf("index %s out of range for a list of %d", p, len(items))
	}
	if i < 0 {
		i += len(items) + 1
	}
	return items[i-1], nil
}

func join(_ *Interpreter, args []any) (any, error) {
	comma := false
	if l, ok := args[0].(value.List); ok {
		comma = l.Comma
	}
	if len(args) == 3 {
		switch value.Text(args[2]) {
		case "comma":
			comma = true
		case "space":
			comma = false
		case "auto":
		default:
			return nil, fmt.Errorf("separator must be comma, space or auto, got %s", value.Format(args[2]))
		}
	}
	items := append(append([]any(nil), value.Items(args[0])...), value.Items(args[1])...)
	return value.List{Items: items, Comma: comma}, nil
}

func typeOf(_ *Interpreter, args []any) (any, error) {
	return value.String{Text: value.TypeOf(args[0])}, nil
}

func ifFn(_ *Interpreter, args []any) (any, error) {
	if value.Truthy(args[0]) {
		return args[1], nil
	}
	return args[2], nil
}

func getProperty(in *Interpreter, args []any) (any, error) {
	if in.target == nil {
		return nil, errors.New("no rule to read from")
	}
	name := value.Text(args[0])
	d, ok := property.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", property.ErrUnknownProperty, name)
	}
	v, ok := in.target.Get(d)
	if !ok {
		return nil, nil
	}
	return runtimeValue(v), nil
}

func setProperty(in *Interpreter, args []any) (any, error) {
	if in.target == nil {
		return nil, errors.New("no rule to write to")
	}
	important := len(args) == 3 && value.Truthy(args[2])
	if _, err := in.target.Declare(value.Text(args[0]), args[1], important); err != nil {
		return nil, err
	}
	return nil, nil
}

// runtimeValue maps a declared value back to a language value.
func runtimeValue(v property.Value) any {
	switch v.Kind {
	case property.Explicit:
	case property.Auto:
		return value.Keyword("auto")
	default:
		return value.Keyword(v.Kind.String())
	}
	switch r := v.Resolved.(type) {
	case value.Primitive, value.Color:
		return r
	case float64:
		return value.Number(r)
	case int:
		return value.Number(float64(r))
	case string:
		return value.String{Text: r, Quoted: true}
	case fmt.Stringer:
		return value.Keyword(r.String())
	}
	return nil
}
