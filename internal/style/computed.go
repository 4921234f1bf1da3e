package style

import (
	"strings"

	"github.com/jinzhu/copier"

	"style-engine/internal/property"
)

// ComputedStyleSet holds one concrete value for every registered property, indexed by
// property ID. It never holds inherit, initial, unset or auto markers.
type ComputedStyleSet struct {
	Values []any
}

// NewComputed returns a set holding every property's initial value.
func NewComputed() *ComputedStyleSet {
	s := &ComputedStyleSet{Values: make([]any, property.Count())}
	for _, d := range property.All() {
		s.Values[d.ID()] = d.Initial()
	}
	return s
}

// Get returns the typed value of p in s.
func Get[T comparable](s *ComputedStyleSet, p *property.Property[T]) T {
	if s == nil || int(p.ID()) >= len(s.Values) {
		return p.Default()
	}
	return p.Of(s.Values[p.ID()])
}

// Value returns the value of d in s.
func (s *ComputedStyleSet) Value(d property.Descriptor) any {
	return s.Values[d.ID()]
}

// Apply resolves the declarations in set against parent and stores the result. It
// returns the OR of the dirty bits of every property whose value changed; applying the
// same declarations twice returns 0 the second time. A nil parent means s is a root.
func (s *ComputedStyleSet) Apply(set *property.PropertySet, parent *ComputedStyleSet) property.Dirty {
	dirty, _ := s.apply(set, parent)
	return dirty
}

// apply also reports whether an inherited property changed, which forces the
// children to be recomputed.
func (s *ComputedStyleSet) apply(set *property.PropertySet, parent *ComputedStyleSet) (property.Dirty, bool) {
	var (
		dirty     property.Dirty
		inherited bool
	)
	for _, d := range property.All() {
		v, ok := set.Get(d)
		r := resolve(d, v, ok, parent)
		if s.Values[d.ID()] == r {
			continue
		}
		s.Values[d.ID()] = r
		dirty |= d.Dirty()
		inherited = inherited || d.Inherited()
	}
	return dirty, inherited
}

func resolve(d property.Descriptor, v property.Value, ok bool, parent *ComputedStyleSet) any {
	inherit := func() any {
		if parent == nil {
			return d.Initial()
		}
		return parent.Values[d.ID()]
	}
	if !ok {
		v.Kind = property.Unset
	}
	switch v.Kind {
	case property.Explicit, property.Auto:
		return v.Resolved
	case property.Inherit:
		return inherit()
	case property.Unset:
		if d.Inherited() {
			return inherit()
		}
	}
	return d.Initial()
}

// Clone returns an independent copy of s.
func (s *ComputedStyleSet) Clone() *ComputedStyleSet {
	out := &ComputedStyleSet{}
	if err := copier.CopyWithOption(out, s, copier.Option{DeepCopy: true}); err != nil {
		out.Values = append([]any(nil), s.Values...)
	}
	return out
}

// String lists the properties whose value differs from the initial value.
func (s *ComputedStyleSet) String() string {
	var b strings.Builder
	for _, d := range property.All() {
		v := s.Values[d.ID()]
		if v == d.Initial() {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.Name())
		b.WriteString(": ")
		b.WriteString(property.Format(v))
		b.WriteByte(';')
	}
	return b.String()
}
