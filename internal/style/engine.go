package style

import (
	"go.uber.org/zap"

	"style-engine/internal/property"
)

// InlineCompiler compiles the text of a style attribute into declarations.
type InlineCompiler func(name, src string) *property.PropertySet

// Options configures an Engine.
type Options struct {
	// Inline compiles style attributes. Without it inline styles are ignored.
	Inline InlineCompiler
	Logger *zap.Logger
}

type entry struct {
	computed  *ComputedStyleSet
	inlineSrc string
	inline    *property.PropertySet
	seen      uint64
}

// Engine keeps the computed style of every element of a tree up to date. Mutations are
// reported with Invalidate; Restyle recomputes only what they affect.
type Engine struct {
	opts     Options
	log      *zap.Logger
	resolver Resolver

	entries map[Element]*entry
	dirty   map[Element]bool
	all     bool
	gen     uint64
}

// NewEngine returns an engine with no stylesheets.
func NewEngine(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		opts:    opts,
		log:     log,
		entries: map[Element]*entry{},
		dirty:   map[Element]bool{},
		all:     true,
	}
}

// AddStylesheet appends a sheet. Every element is restyled on the next Restyle.
func (e *Engine) AddStylesheet(s *Stylesheet) {
	e.resolver.Sheets = append(e.resolver.Sheets, s)
	e.all = true
}

// SetStylesheets replaces all sheets.
func (e *Engine) SetStylesheets(sheets ...*Stylesheet) {
	e.resolver.Sheets = append([]*Stylesheet(nil), sheets...)
	e.all = true
}

// Stylesheets returns the sheets in cascade order.
func (e *Engine) Stylesheets() []*Stylesheet { return e.resolver.Sheets }

// Resolver returns the cascade used by the engine.
func (e *Engine) Resolver() *Resolver { return &e.resolver }

// Invalidate marks el for restyling. With subtree set, its descendants are marked too,
// and siblings after it, since sibling combinators may now match differently.
func (e *Engine) Invalidate(el Element, subtree bool) {
	if el == nil {
		return
	}
	e.dirty[el] = true
	if !subtree {
		return
	}
	e.markTree(el)
	for n := el.NextSibling(); n != nil; n = n.NextSibling() {
		if s, ok := n.(Element); ok {
			e.markTree(s)
		}
	}
}

func (e *Engine) markTree(el Element) {
	e.dirty[el] = true
	for c := el.FirstChild(); c != nil; c = c.NextSibling() {
		if s, ok := c.(Element); ok {
			e.markTree(s)
		}
	}
}

// InvalidateAll marks every element for restyling.
func (e *Engine) InvalidateAll() { e.all = true }

// Computed returns the computed style of el, or nil before its first Restyle.
func (e *Engine) Computed(el Element) *ComputedStyleSet {
	if ent, ok := e.entries[el]; ok {
		return ent.computed
	}
	return nil
}

// Restyle brings the tree under root up to date and returns the dirty bits of every
// element whose computed style changed. Elements styled for the first time report
// every bit. Elements no longer in the tree are forgotten.
func (e *Engine) Restyle(root Element) map[Element]property.Dirty {
	out := map[Element]property.Dirty{}
	e.gen++
	if root != nil {
		var parent *ComputedStyleSet
		if p, ok := root.Parent().(Element); ok {
			parent = e.Computed(p)
		}
		e.restyle(root, parent, e.all, out)
	}
	for el, ent := range e.entries {
		if ent.seen != e.gen {
			delete(e.entries, el)
		}
	}
	clear(e.dirty)
	e.all = false
	e.log.Debug("restyled", zap.Int("changed", len(out)), zap.Int("elements", len(e.entries)))
	return out
}

const allDirty = property.DirtyLayout | property.DirtyVisual | property.DirtyContent

func (e *Engine) restyle(el Element, parent *ComputedStyleSet, force bool, out map[Element]property.Dirty) {
	ent, ok := e.entries[el]
	if !ok {
		ent = &entry{computed: NewComputed()}
		e.entries[el] = ent
	}
	ent.seen = e.gen

	childForce := force
	if src := el.InlineStyle(); src != ent.inlineSrc || (!ok && src != "") {
		ent.inlineSrc = src
		ent.inline = nil
		if src != "" && e.opts.Inline != nil {
			ent.inline = e.opts.Inline(el.TagName(), src)
		}
		force = true
	}
	if force || !ok || e.dirty[el] {
		declared := e.resolver.Cascade(el, ent.inline)
		dirty, inherited := ent.computed.apply(declared, parent)
		if !ok {
			dirty = allDirty
		}
		if dirty != 0 {
			out[el] = dirty
		}
		childForce = childForce || inherited
	}
	for c := el.FirstChild(); c != nil; c = c.NextSibling() {
		if s, ok := c.(Element); ok {
			e.restyle(s, ent.computed, childForce, out)
		}
	}
}
