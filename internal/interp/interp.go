// Package interp evaluates parsed stylesheets into rules.
//
// The interpreter walks the syntax tree directly. Variables, functions, mixins and
// namespaces live in a chain of scopes held in an arena; mixins and functions run in a
// child of the scope they were declared in, so they see their own stylesheet's
// variables wherever they are called from. Every problem is reported through the
// diag.Errors of the source being evaluated and the offending construct evaluates to no
// value; evaluation always runs to the end.
//
// An Interpreter is not safe for concurrent use. Use one per goroutine.
package interp

import (
	"go.uber.org/zap"

	"style-engine/internal/ast"
	"style-engine/internal/diag"
	"style-engine/internal/parser"
	"style-engine/internal/property"
	"style-engine/internal/selector"
	"style-engine/internal/style"
)

const (
	// DefaultMaxDepth bounds nested rules, includes and function calls.
	DefaultMaxDepth = 64
	// DefaultMaxIterations bounds a single @while or @for loop.
	DefaultMaxIterations = 10000
)

// Options configures an Interpreter. The zero value is usable.
type Options struct {
	// Importer resolves @import. Without one, @import reports an error.
	Importer Importer
	// MaxDepth bounds recursion; zero means DefaultMaxDepth.
	MaxDepth int
	// MaxIterations bounds @while and @for loops; zero means DefaultMaxIterations.
	MaxIterations int
	// Globals are declared in the top-level scope of every compile.
	Globals map[string]any
	// Listener receives the diagnostics of imported sheets. Diagnostics of the sheet
	// being compiled go to its own diag.Errors.
	Listener diag.Listener
	Logger   *zap.Logger
}

// Interpreter evaluates stylesheets, inline styles and expressions.
type Interpreter struct {
	opts Options
	log  *zap.Logger

	errs   *diag.Errors
	arena  arena
	global scopeID

	sheet     *style.Stylesheet
	selectors []*selector.List
	target    *property.PropertySet
	order     int
	depth     int
	imports   []string
	retval    any
}

// New returns an interpreter configured by opts.
func New(opts Options) *Interpreter {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Interpreter{opts: opts, log: log}
}

// begin prepares a fresh top-level scope for one compile.
func (in *Interpreter) begin(errs *diag.Errors) {
	in.errs = errs
	in.arena.reset()
	in.global = in.arena.push(noScope)
	for name, v := range in.opts.Globals {
		in.arena.declare(in.global, name, v)
	}
	in.selectors = in.selectors[:0]
	in.target = nil
	in.depth = 0
	in.imports = in.imports[:0]
	in.retval = nil
}

// Sheet evaluates a parsed stylesheet and returns its rules in source order. Rules that
// end up with no declarations are dropped.
func (in *Interpreter) Sheet(sheet *ast.SheetStatement, errs *diag.Errors) *style.Stylesheet {
	in.begin(errs)
	in.sheet = &style.Stylesheet{Name: errs.Source()}
	in.order = 0
	if errs.Source() != "" {
		in.imports = append(in.imports, errs.Source())
	}
	in.exec(sheet.Statements, in.global)
	out := in.sheet
	out.Compact()
	in.sheet = nil
	in.log.Debug("compiled stylesheet",
		zap.String("source", errs.Source()),
		zap.Int("rules", len(out.Rules)),
		zap.Int("errors", errs.Count(diag.Error)))
	return out
}

// Compile parses and evaluates src. Diagnostics go to the listener configured in
// Options and are returned as well.
func (in *Interpreter) Compile(name, src string) (*style.Stylesheet, *diag.Errors) {
	sheet, errs := parser.ParseStylesheet(name, src, in.opts.Listener)
	return in.Sheet(sheet, errs), errs
}

// Inline evaluates the declarations of a style attribute into out.
func (in *Interpreter) Inline(stmt *ast.InlineStyleStatement, out *property.PropertySet, errs *diag.Errors) {
	in.begin(errs)
	in.target = out
	in.exec(stmt.Statements, in.global)
	in.target = nil
}

// InlineSource parses and evaluates a style attribute.
func (in *Interpreter) InlineSource(name, src string) (*property.PropertySet, *diag.Errors) {
	stmt, errs := parser.ParseInline(name, src, in.opts.Listener)
	out := property.NewSet()
	in.Inline(stmt, out, errs)
	return out, errs
}

// Eval evaluates a single expression in a fresh top-level scope. It returns nil, the
// "no value", when evaluation fails.
func (in *Interpreter) Eval(e ast.Expression, errs *diag.Errors) any {
	in.begin(errs)
	return in.eval(e, in.global)
}

func (in *Interpreter) errorAt(n ast.Node, format string, args ...any) {
	in.errs.Error(n.Range().Start, format, args...)
}

func (in *Interpreter) warnAt(n ast.Node, format string, args ...any) {
	in.errs.Warn(n.Range().Start, format, args...)
}

// enter guards recursion through rules, includes, imports and calls.
func (in *Interpreter) enter(n ast.Node) bool {
	if in.depth >= in.opts.MaxDepth {
		in.errorAt(n, "maximum nesting depth of %d exceeded", in.opts.MaxDepth)
		return false
	}
	in.depth++
	return true
}

func (in *Interpreter) leave() { in.depth-- }
