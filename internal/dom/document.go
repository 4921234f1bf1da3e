package dom

import (
	"fmt"

	"style-engine/internal/selector"
)

// MutationKind says what changed.
type MutationKind uint8

const (
	// ChildrenChanged: a child of Target was added or removed.
	ChildrenChanged MutationKind = iota
	// AttributeChanged: attribute Name of Target was set or removed.
	AttributeChanged
	// StateChanged: dynamic state Name of Target was toggled.
	StateChanged
	// TextChanged: the text of Target was replaced.
	TextChanged
)

var mutationNames = [...]string{"children", "attribute", "state", "text"}

func (k MutationKind) String() string { return mutationNames[k] }

// Mutation is a change to a document.
type Mutation struct {
	Kind   MutationKind
	Target *Element
	Name   string
}

// Document owns a tree of elements and reports its mutations.
type Document struct {
	root *Element
	// Styles holds the text of style elements found while parsing markup.
	Styles []string

	subs map[int]func(Mutation)
	next int
}

// NewDocument returns a document holding root.
func NewDocument(root *Element) *Document {
	d := &Document{subs: map[int]func(Mutation){}}
	d.SetRoot(root)
	return d
}

// Root returns the root element.
func (d *Document) Root() *Element { return d.root }

// SetRoot replaces the tree.
func (d *Document) SetRoot(root *Element) {
	if d.root != nil {
		d.root.attach(nil)
	}
	d.root = root
	if root != nil {
		root.attach(d)
		d.notify(Mutation{Kind: ChildrenChanged, Target: root})
	}
}

// Subscribe registers fn for every later mutation and returns a function that
// unregisters it.
func (d *Document) Subscribe(fn func(Mutation)) func() {
	id := d.next
	d.next++
	d.subs[id] = fn
	return func() { delete(d.subs, id) }
}

func (d *Document) notify(m Mutation) {
	for _, fn := range d.subs {
		fn(m)
	}
}

// ElementByID returns the first element with the id, or nil.
func (d *Document) ElementByID(id string) *Element {
	var found *Element
	if d.root != nil {
		d.root.Walk(func(e *Element) bool {
			if e.ID() == id {
				found = e
			}
			return found == nil
		})
	}
	return found
}

// Query returns the elements matching a selector list, in document order.
func (d *Document) Query(sel string) ([]*Element, error) {
	list, err := selector.Parse(sel)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", sel, err)
	}
	var out []*Element
	if d.root != nil {
		d.root.Walk(func(e *Element) bool {
			if list.Match(e) {
				out = append(out, e)
			}
			return true
		})
	}
	return out, nil
}
