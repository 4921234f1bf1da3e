package property

import (
	"style-engine/internal/value"
)

// Kind says how a slot's value is to be resolved by the cascade.
type Kind uint8

const (
	// Absent is the zero Kind: the slot holds nothing.
	Absent Kind = iota
	Explicit
	Initial
	Inherit
	Unset
	Auto
)

var kindNames = [...]string{"absent", "explicit", "initial", "inherit", "unset", "auto"}

func (k Kind) String() string { return kindNames[k] }

// Value is one declared property value.
type Value struct {
	Kind Kind
	// Resolved is the converted value for Explicit and Auto slots.
	Resolved  any
	Important bool
	// Text is the declaration as written, used when serializing.
	Text string
}

func (v Value) String() string {
	s := v.Text
	if s == "" {
		switch v.Kind {
		case Explicit, Auto:
			s = Format(v.Resolved)
		default:
			s = v.Kind.String()
		}
	}
	if v.Important {
		s += " !important"
	}
	return s
}

func (v Value) equal(o Value) bool {
	return v.Kind == o.Kind && v.Important == o.Important && same(v.Resolved, o.Resolved)
}

// same compares resolved values. Every converter yields a comparable type.
func same(a, b any) bool { return a == b }

// Parse converts a runtime value into a Value for d. The keywords inherit, initial and
// unset select the matching Kind. On a conversion error the returned Value is Initial,
// so the property falls back to its default.
func Parse(d Descriptor, v any, important bool) (Value, error) {
	text := value.Format(v)
	if k, ok := v.(value.Keyword); ok {
		switch lower(string(k)) {
		case "inherit":
			return Value{Kind: Inherit, Important: important, Text: text}, nil
		case "initial":
			return Value{Kind: Initial, Important: important, Text: text}, nil
		case "unset":
			return Value{Kind: Unset, Important: important, Text: text}, nil
		}
	}
	r, err := d.Convert(v)
	if err != nil {
		return Value{Kind: Initial, Important: important}, err
	}
	kind := Explicit
	if w, ok := word(v); ok && w == "auto" {
		kind = Auto
	}
	return Value{Kind: kind, Resolved: r, Important: important, Text: text}, nil
}

// Format renders a resolved value the way it would be declared.
func Format(v any) string {
	switch v := v.(type) {
	case interface{ String() string }:
		return v.String()
	case float64:
		return value.Format(value.Number(v))
	case int:
		return value.Format(value.Number(float64(v)))
	case string:
		return value.Format(value.String{Text: v, Quoted: true})
	}
	return value.Format(v)
}
