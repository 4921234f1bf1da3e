// Package property defines the registry of style properties and the sparse PropertySet
// that rules and inline styles fill in.
//
// Every property is described once, at package initialization, by a typed Property[T]
// carrying its initial value, whether it inherits, the dirty bits a change to it raises,
// and a converter from runtime values to T. The registry is read-only afterwards and safe
// for concurrent use.
package property

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownProperty is returned for declarations naming no registered property.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrInvalidValue is returned when a value cannot be converted for a property.
	ErrInvalidValue = errors.New("invalid value")
)

// Dirty is a mask of the downstream work a property change requires.
type Dirty uint8

const (
	DirtyLayout Dirty = 1 << iota
	DirtyVisual
	DirtyContent
)

func (d Dirty) String() string {
	if d == 0 {
		return "NONE"
	}
	var parts []string
	for bit, name := range map[Dirty]string{DirtyLayout: "LAYOUT", DirtyVisual: "VISUAL", DirtyContent: "CONTENT"} {
		if d&bit != 0 {
			parts = append(parts, name)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// ID is the dense numeric id of a registered property.
type ID int

// Descriptor is the untyped view of a registered property.
type Descriptor interface {
	Name() string
	ID() ID
	// Inherited reports whether an unset property takes its parent's computed value.
	Inherited() bool
	Dirty() Dirty
	Initial() any
	// Convert turns a runtime value into the property's domain type.
	Convert(v any) (any, error)
}

// Property is the descriptor of a property whose computed values have type T.
type Property[T comparable] struct {
	name      string
	id        ID
	initial   T
	inherited bool
	dirty     Dirty
	convert   func(any) (T, error)
}

func (p *Property[T]) Name() string    { return p.name }
func (p *Property[T]) ID() ID          { return p.id }
func (p *Property[T]) Inherited() bool { return p.inherited }
func (p *Property[T]) Dirty() Dirty    { return p.dirty }
func (p *Property[T]) Initial() any    { return p.initial }
func (p *Property[T]) Default() T      { return p.initial }
func (p *Property[T]) String() string  { return p.name }

func (p *Property[T]) Convert(v any) (any, error) {
	t, err := p.convert(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	return t, nil
}

// Of returns the typed value held by a computed slot, or the initial value when the
// slot holds something else.
func (p *Property[T]) Of(v any) T {
	if t, ok := v.(T); ok {
		return t
	}
	return p.initial
}

var (
	registry []Descriptor
	byName   = map[string]Descriptor{}
)

// register is only called from package-level variable initializers, so the registry is
// complete before any other code can observe it.
func register[T comparable](name string, initial T, inherited bool, dirty Dirty, convert func(any) (T, error)) *Property[T] {
	if _, dup := byName[name]; dup {
		panic("property: duplicate registration of " + name)
	}
	p := &Property[T]{
		name:      name,
		id:        ID(len(registry)),
		initial:   initial,
		inherited: inherited,
		dirty:     dirty,
		convert:   convert,
	}
	registry = append(registry, p)
	byName[name] = p
	return p
}

// Lookup finds a longhand property by name, ignoring case.
func Lookup(name string) (Descriptor, bool) {
	d, ok := byName[strings.ToLower(name)]
	return d, ok
}

// ByID returns the property with the given id.
func ByID(id ID) (Descriptor, bool) {
	if id < 0 || int(id) >= len(registry) {
		return nil, false
	}
	return registry[id], true
}

// Count is the number of registered longhand properties.
func Count() int { return len(registry) }

// All returns every registered longhand in id order.
func All() []Descriptor {
	return append([]Descriptor(nil), registry...)
}

// Known reports whether name is a longhand or a shorthand.
func Known(name string) bool {
	name = strings.ToLower(name)
	if _, ok := byName[name]; ok {
		return true
	}
	_, ok := shorthands[name]
	return ok
}
