package value

import (
	"strconv"
	"strings"
)

// String is a text value. Quoted strings keep their quotes when printed.
type String struct {
	Text   string
	Quoted bool
}

func (s String) String() string {
	if s.Quoted {
		return strconv.Quote(s.Text)
	}
	return s.Text
}

// Keyword is a bare identifier value such as row, center or flex.
type Keyword string

// List is a space or comma separated sequence of values.
type List struct {
	Items []any
	Comma bool
}

func (l List) String() string {
	sep := " "
	if l.Comma {
		sep = ", "
	}
	parts := make([]string, len(l.Items))
	for i, it := range l.Items {
		parts[i] = Format(it)
	}
	return strings.Join(parts, sep)
}

// Format renders any runtime value back to source form. The "no value" nil prints as
// null.
func Format(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case Primitive:
		return v.String()
	case Color:
		return v.String()
	case String:
		return v.String()
	case Keyword:
		return string(v)
	case List:
		return v.String()
	}
	return "?"
}

// Text returns the unquoted text of a value.
func Text(v any) string {
	if s, ok := v.(String); ok {
		return s.Text
	}
	return Format(v)
}

// TypeOf names the type of a runtime value.
func TypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case Primitive:
		return "number"
	case Color:
		return "color"
	case String:
		return "string"
	case Keyword:
		return "keyword"
	case List:
		return "list"
	}
	return "unknown"
}

// Truthy is false only for null and false.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	}
	return true
}

// Equal compares two runtime values. Numbers compare after unit coercion; strings
// compare by text regardless of quoting.
func Equal(a, b any) bool {
	switch a := a.(type) {
	case Primitive:
		if b, ok := b.(Primitive); ok {
			c, err := a.Compare(b)
			return err == nil && c == 0
		}
	case String:
		switch b := b.(type) {
		case String:
			return a.Text == b.Text
		case Keyword:
			return a.Text == string(b)
		}
	case Keyword:
		switch b := b.(type) {
		case Keyword:
			return a == b
		case String:
			return string(a) == b.Text
		}
	case List:
		if b, ok := b.(List); ok {
			if len(a.Items) != len(b.Items) {
				return false
			}
			for i := range a.Items {
				if !Equal(a.Items[i], b.Items[i]) {
					return false
				}
			}
			return true
		}
	default:
		return a == b
	}
	return false
}

// Items returns the elements of a list, or a single-element slice for scalars. nil has
// no items.
func Items(v any) []any {
	switch v := v.(type) {
	case nil:
		return nil
	case List:
		return v.Items
	}
	return []any{v}
}
