package property

import (
	"fmt"
	"strings"
)

// PropertySet is a sparse map from property to declared value, indexed by property id.
// The zero value is an empty set ready to use.
type PropertySet struct {
	slots []Value
	n     int
}

// NewSet returns an empty set.
func NewSet() *PropertySet { return &PropertySet{} }

// Set stores v for d and returns d's dirty bits if the slot changed.
func (s *PropertySet) Set(d Descriptor, v Value) Dirty {
	id := int(d.ID())
	if id >= len(s.slots) {
		if v.Kind == Absent {
			return 0
		}
		s.slots = append(s.slots, make([]Value, id+1-len(s.slots))...)
	}
	old := s.slots[id]
	if old.equal(v) {
		return 0
	}
	switch {
	case old.Kind == Absent:
		s.n++
	case v.Kind == Absent:
		s.n--
	}
	s.slots[id] = v
	return d.Dirty()
}

// Get returns the value declared for d.
func (s *PropertySet) Get(d Descriptor) (Value, bool) {
	id := int(d.ID())
	if s == nil || id >= len(s.slots) || s.slots[id].Kind == Absent {
		return Value{}, false
	}
	return s.slots[id], true
}

// Has reports whether d has a declared value.
func (s *PropertySet) Has(d Descriptor) bool {
	_, ok := s.Get(d)
	return ok
}

// Remove clears d and returns its dirty bits if it was set.
func (s *PropertySet) Remove(d Descriptor) Dirty {
	return s.Set(d, Value{})
}

// Len is the number of declared properties.
func (s *PropertySet) Len() int {
	if s == nil {
		return 0
	}
	return s.n
}

// Each calls fn for every declared property in id order.
func (s *PropertySet) Each(fn func(Descriptor, Value)) {
	if s == nil {
		return
	}
	for id, v := range s.slots {
		if v.Kind != Absent {
			fn(registry[id], v)
		}
	}
}

// PutAll overlays every value declared in o and returns the OR of the dirty bits of
// the slots that changed.
func (s *PropertySet) PutAll(o *PropertySet) Dirty {
	var dirty Dirty
	o.Each(func(d Descriptor, v Value) {
		dirty |= s.Set(d, v)
	})
	return dirty
}

// SetAll makes s equal to o and returns the OR of the dirty bits of the slots that
// changed, including the ones o does not declare.
func (s *PropertySet) SetAll(o *PropertySet) Dirty {
	var dirty Dirty
	for id := range s.slots {
		if s.slots[id].Kind != Absent && !o.Has(registry[id]) {
			dirty |= s.Set(registry[id], Value{})
		}
	}
	return dirty | s.PutAll(o)
}

// Declare converts v, expanding shorthands, and stores it under name. A value that
// fails conversion is stored as Initial and the error is returned for reporting.
func (s *PropertySet) Declare(name string, v any, important bool) (Dirty, error) {
	if sh, ok := LookupShorthand(name); ok {
		decls, err := sh.Expand(v)
		if err != nil {
			var dirty Dirty
			for _, d := range sh.longhands() {
				dirty |= s.Set(d, Value{Kind: Initial, Important: important})
			}
			return dirty, err
		}
		var (
			dirty Dirty
			first error
		)
		for _, d := range decls {
			val, err := Parse(d.Property, d.Value, important)
			if err != nil && first == nil {
				first = err
			}
			dirty |= s.Set(d.Property, val)
		}
		return dirty, first
	}
	d, ok := Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownProperty, name)
	}
	val, err := Parse(d, v, important)
	return s.Set(d, val), err
}

// Clone returns an independent copy.
func (s *PropertySet) Clone() *PropertySet {
	if s == nil {
		return &PropertySet{}
	}
	return &PropertySet{slots: append([]Value(nil), s.slots...), n: s.n}
}

// String serializes the set as declarations, e.g. "width: 10px; color: #ff0000;".
func (s *PropertySet) String() string {
	var b strings.Builder
	s.Each(func(d Descriptor, v Value) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.Name())
		b.WriteString(": ")
		b.WriteString(v.String())
		b.WriteByte(';')
	})
	return b.String()
}
