// Package ui ties the pieces together: it compiles stylesheets, keeps the computed
// style of a document up to date as it mutates, and lays the document out again only
// when a change affects layout.
package ui

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"style-engine/internal/config"
	"style-engine/internal/diag"
	"style-engine/internal/dom"
	"style-engine/internal/interp"
	"style-engine/internal/layout"
	"style-engine/internal/property"
	"style-engine/internal/style"
)

// DefaultSheet makes the usual block elements block-level; everything else is inline.
const DefaultSheet = `
html, body, div, section, article, header, footer, main, nav, aside, form, p, ul, ol, li,
h1, h2, h3, h4, h5, h6, pre, blockquote, figure, table {
	display: block;
}
head, script, style, template { display: none; }
`

// Options configures an Engine.
type Options struct {
	Config config.Config
	// Listener receives the diagnostics of every stylesheet and inline style.
	Listener diag.Listener
	Importer interp.Importer
	// Measurer measures text; nil uses layout.DefaultMeasurer.
	Measurer layout.TextMeasurer
	Logger   *zap.Logger
	// NoDefaultSheet leaves out DefaultSheet.
	NoDefaultSheet bool
}

// Engine holds the stylesheets and the document, and keeps their computed style and
// layout current. Update is called once per frame; it does nothing when nothing
// changed.
type Engine struct {
	opts   Options
	log    *zap.Logger
	interp *interp.Interpreter
	styles *style.Engine

	doc   *dom.Document
	unsub func()
	root  layout.Box
	boxes map[*dom.Element]layout.Box

	viewport layout.Size
	rebuild  bool
	relayout bool
	layouts  int
}

// New creates an engine with no document.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		opts: opts,
		log:  log,
		interp: interp.New(interp.Options{
			Importer:      opts.Importer,
			MaxDepth:      opts.Config.MaxDepth,
			MaxIterations: opts.Config.MaxIterations,
			Listener:      opts.Listener,
			Logger:        log,
		}),
		viewport: layout.Size{Width: opts.Config.ViewportWidth, Height: opts.Config.ViewportHeight},
		boxes:    map[*dom.Element]layout.Box{},
	}
	e.styles = style.NewEngine(style.Options{Inline: e.inline, Logger: log})
	if !opts.NoDefaultSheet {
		e.AddStylesheet("default", DefaultSheet)
	}
	return e
}

func (e *Engine) inline(name, src string) *property.PropertySet {
	set, _ := e.interp.InlineSource(name, src)
	return set
}

// AddStylesheet compiles src and appends it to the cascade. The sheet is kept even
// when it has errors.
func (e *Engine) AddStylesheet(name, src string) *diag.Errors {
	sheet, errs := e.interp.Compile(name, src)
	e.styles.AddStylesheet(sheet)
	e.log.Debug("stylesheet added", zap.String("name", name), zap.Int("rules", len(sheet.Rules)))
	return errs
}

// LoadCSS reads and compiles the stylesheet at path.
func (e *Engine) LoadCSS(path string) (*diag.Errors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load stylesheet: %w", err)
	}
	return e.AddStylesheet(path, string(data)), nil
}

// SetDocument replaces the document and compiles the style elements it carries.
func (e *Engine) SetDocument(d *dom.Document) {
	if e.unsub != nil {
		e.unsub()
		e.unsub = nil
	}
	e.doc = d
	e.root = nil
	e.rebuild = true
	if d == nil {
		return
	}
	for i, src := range d.Styles {
		e.AddStylesheet(fmt.Sprintf("<style #%d>", i+1), src)
	}
	e.unsub = d.Subscribe(e.mutated)
	e.styles.InvalidateAll()
}

// Document returns the current document.
func (e *Engine) Document() *dom.Document { return e.doc }

func (e *Engine) mutated(m dom.Mutation) {
	switch m.Kind {
	case dom.ChildrenChanged:
		e.styles.Invalidate(m.Target, true)
		e.rebuild = true
	case dom.AttributeChanged, dom.StateChanged:
		// Descendant and sibling selectors may change too.
		e.styles.Invalidate(m.Target, true)
	case dom.TextChanged:
		e.rebuild = true
	}
}

// SetViewport changes the size the document is laid out in.
func (e *Engine) SetViewport(s layout.Size) {
	if s != e.viewport {
		e.viewport = s
		e.relayout = true
	}
}

// Update restyles the document and, when a layout-affecting property changed or the
// tree changed, rebuilds and solves the layout. It returns the union of the dirty bits
// of every restyled element.
func (e *Engine) Update() property.Dirty {
	if e.doc == nil || e.doc.Root() == nil {
		return 0
	}
	var dirty property.Dirty
	for _, d := range e.styles.Restyle(e.doc.Root()) {
		dirty |= d
	}
	if dirty&(property.DirtyLayout|property.DirtyContent) != 0 {
		e.rebuild = true
	}
	if e.rebuild {
		e.build()
		e.relayout = true
	}
	if e.relayout {
		layout.Solve(e.root, e.context())
		e.layouts++
		e.relayout = false
		e.log.Debug("relayout", zap.Int("count", e.layouts), zap.Stringer("dirty", dirty))
	}
	return dirty
}

func (e *Engine) build() {
	e.root = layout.Build(e.doc.Root(), e.styles.Computed)
	clear(e.boxes)
	layout.Walk(e.root, func(b layout.Box, _ int) bool {
		if el, ok := b.Base().Element.(*dom.Element); ok {
			if _, seen := e.boxes[el]; !seen {
				e.boxes[el] = b
			}
		}
		return true
	})
	e.rebuild = false
}

func (e *Engine) context() layout.Context {
	c := layout.NewContext(e.viewport)
	c.FontSize = e.opts.Config.FontSize
	c.PixelsPerCM = e.opts.Config.PixelsPerCM
	c.MaxDepth = e.opts.Config.MaxDepth
	c.MaxPasses = e.opts.Config.MaxLayoutPasses
	c.Measurer = e.opts.Measurer
	c.Logger = e.log
	return c
}

// Root returns the root box of the last layout, or nil before the first Update.
func (e *Engine) Root() layout.Box { return e.root }

// Layouts returns how many times the document was laid out.
func (e *Engine) Layouts() int { return e.layouts }

// Computed returns the computed style of el.
func (e *Engine) Computed(el *dom.Element) *style.ComputedStyleSet { return e.styles.Computed(el) }

// BoxOf returns the box of el, or nil when it has none.
func (e *Engine) BoxOf(el *dom.Element) layout.Box { return e.boxes[el] }

// Stylesheets returns the compiled sheets in cascade order.
func (e *Engine) Stylesheets() []*style.Stylesheet { return e.styles.Stylesheets() }

// HitTest returns the deepest element whose box contains the point.
func (e *Engine) HitTest(x, y float32) *dom.Element {
	var hit *dom.Element
	layout.Walk(e.root, func(b layout.Box, _ int) bool {
		lb := b.Base()
		if !lb.Bounds().Contains(x, y) {
			return false
		}
		if el, ok := lb.Element.(*dom.Element); ok {
			hit = el
		}
		return true
	})
	return hit
}
