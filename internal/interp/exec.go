package interp

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"style-engine/internal/ast"
	"style-engine/internal/diag"
	"style-engine/internal/parser"
	"style-engine/internal/property"
	"style-engine/internal/selector"
	"style-engine/internal/value"
)

// signal is the control flow state returned by statement execution.
type signal int

const (
	sigNone signal = iota
	sigReturn
	sigBreak
	sigContinue
)

func (in *Interpreter) exec(stmts []ast.Statement, s scopeID) signal {
	for _, st := range stmts {
		if sig := in.stmt(st, s); sig != sigNone {
			return sig
		}
	}
	return sigNone
}

// block runs b in a child scope of s.
func (in *Interpreter) block(b *ast.Block, s scopeID) signal {
	if b == nil {
		return sigNone
	}
	child := in.arena.push(s)
	sig := in.exec(b.Statements, child)
	in.arena.pop(child)
	return sig
}

func (in *Interpreter) stmt(st ast.Statement, s scopeID) signal {
	switch st := st.(type) {
	case *ast.RuleStatement:
		if !st.Invalid {
			in.rule(st, s)
		}
	case *ast.PropertyStatement:
		if !st.Invalid {
			in.declare(st, s)
		}
	case *ast.VariableDecl:
		if !st.Invalid {
			in.variable(st, s)
		}
	case *ast.IfStatement:
		return in.ifStmt(st, s)
	case *ast.ControlFlowStatement:
		if st.Invalid {
			return sigNone
		}
		switch st.Kind {
		case ast.Return:
			in.retval = nil
			if st.Value != nil {
				in.retval = in.eval(st.Value, s)
			}
			return sigReturn
		case ast.Break:
			return sigBreak
		}
		return sigContinue
	case *ast.FunctionStatement:
		in.arena.defineFunction(s, st)
	case *ast.MixinStatement:
		in.arena.defineMixin(s, st)
	case *ast.IncludeStatement:
		if !st.Invalid {
			in.include(st, s)
		}
	case *ast.ImportStatement:
		in.importSheet(st, s)
	case *ast.AssertStatement:
		in.assert(st, s)
	case *ast.LogStatement:
		in.logStmt(st, s)
	case *ast.ForStatement:
		return in.forStmt(st, s)
	case *ast.EachStatement:
		return in.each(st, s)
	case *ast.WhileStatement:
		return in.while(st, s)
	case *ast.ExpressionStatement:
		in.eval(st.Expr, s)
	case *ast.NamespaceStatement:
		ns := in.arena.push(s)
		in.arena.defineNamespace(s, st.Name, ns)
		in.exec(st.Body.Statements, ns)
	case *ast.Block:
		return in.block(st, s)
	}
	return sigNone
}

func (in *Interpreter) rule(st *ast.RuleStatement, s scopeID) {
	if in.sheet == nil {
		in.errorAt(st, "style rules are not allowed here")
		return
	}
	if !in.enter(st) {
		return
	}
	defer in.leave()

	var parent *selector.List
	if n := len(in.selectors); n > 0 {
		parent = in.selectors[n-1]
	}
	sel := selector.Compile(st.Selectors, parent)
	r := in.sheet.Add(sel, in.order, st.Span.Start)
	in.order++

	in.selectors = append(in.selectors, sel)
	saved := in.target
	in.target = r.Properties
	in.block(st.Body, s)
	in.target = saved
	in.selectors = in.selectors[:len(in.selectors)-1]
}

func (in *Interpreter) declare(st *ast.PropertyStatement, s scopeID) {
	if in.target == nil {
		in.errorAt(st, "property %q declared outside of a rule", st.Name)
		return
	}
	v := in.eval(st.Value, s)
	if v == nil {
		return
	}
	if _, err := in.target.Declare(st.Name, v, st.Important); err != nil {
		in.propertyError(st, err)
	}
}

func (in *Interpreter) propertyError(n ast.Node, err error) {
	switch {
	case errors.Is(err, property.ErrUnknownProperty):
		in.warnAt(n, "%v", err)
	default:
		in.errorAt(n, "%v", err)
	}
}

func (in *Interpreter) variable(st *ast.VariableDecl, s scopeID) {
	if st.Default {
		if v, ok := in.arena.lookupVar(s, st.Name); ok && v != nil {
			return
		}
	}
	v := in.eval(st.Value, s)
	switch {
	case st.Global:
		in.arena.declare(in.global, st.Name, v)
	default:
		in.arena.assign(s, st.Name, v)
	}
}

func (in *Interpreter) ifStmt(st *ast.IfStatement, s scopeID) signal {
	if value.Truthy(in.eval(st.Cond, s)) {
		return in.block(st.Then, s)
	}
	if st.Else != nil {
		return in.stmt(st.Else, s)
	}
	return sigNone
}

// iterate runs one loop body and reports whether the loop should stop and the signal
// to propagate.
func (in *Interpreter) iterate(body *ast.Block, s scopeID) (stop bool, sig signal) {
	switch sig := in.exec(body.Statements, s); sig {
	case sigBreak:
		return true, sigNone
	case sigReturn:
		return true, sigReturn
	}
	return false, sigNone
}

func (in *Interpreter) forStmt(st *ast.ForStatement, s scopeID) signal {
	from, ok1 := in.integer(st.From, s)
	to, ok2 := in.integer(st.To, s)
	if !ok1 || !ok2 {
		return sigNone
	}
	step := 1
	if from > to {
		step = -1
	}
	end := to
	if st.Inclusive {
		end += step
	}
	if n := (end - from) * step; n > in.opts.MaxIterations {
		in.errorAt(st, "@for exceeded %d iterations", in.opts.MaxIterations)
		return sigNone
	}
	for i := from; i != end; i += step {
		child := in.arena.push(s)
		in.arena.declare(child, st.Var, value.Number(float64(i)))
		stop, sig := in.iterate(st.Body, child)
		in.arena.pop(child)
		if stop {
			return sig
		}
	}
	return sigNone
}

func (in *Interpreter) integer(e ast.Expression, s scopeID) (int, bool) {
	v := in.eval(e, s)
	p, ok := v.(value.Primitive)
	if !ok || p.Value != math.Trunc(p.Value) {
		in.errorAt(e, "expected an integer, got %s", value.Format(v))
		return 0, false
	}
	return int(p.Value), true
}

func (in *Interpreter) each(st *ast.EachStatement, s scopeID) signal {
	for _, item := range value.Items(in.eval(st.List, s)) {
		child := in.arena.push(s)
		if len(st.Vars) == 1 {
			in.arena.declare(child, st.Vars[0], item)
		} else {
			parts := value.Items(item)
			for i, name := range st.Vars {
				var v any
				if i < len(parts) {
					v = parts[i]
				}
				in.arena.declare(child, name, v)
			}
		}
		stop, sig := in.iterate(st.Body, child)
		in.arena.pop(child)
		if stop {
			return sig
		}
	}
	return sigNone
}

func (in *Interpreter) while(st *ast.WhileStatement, s scopeID) signal {
	for n := 0; value.Truthy(in.eval(st.Cond, s)); n++ {
		if n == in.opts.MaxIterations {
			in.errorAt(st, "@while exceeded %d iterations", in.opts.MaxIterations)
			return sigNone
		}
		child := in.arena.push(s)
		stop, sig := in.iterate(st.Body, child)
		in.arena.pop(child)
		if stop {
			return sig
		}
	}
	return sigNone
}

func (in *Interpreter) include(st *ast.IncludeStatement, s scopeID) {
	var (
		m  *mixin
		ok bool
	)
	if st.Namespace != "" {
		ns, found := in.arena.lookupNamespace(s, st.Namespace)
		if !found {
			in.errorAt(st, "unknown namespace %q", st.Namespace)
			return
		}
		m, ok = in.arena.own(ns).mixins[st.Name]
	} else {
		m, ok = in.arena.lookupMixin(s, st.Name)
	}
	if !ok {
		in.errorAt(st, "unknown mixin %q", describe(st.Namespace, st.Name))
		return
	}
	if !in.enter(st) {
		return
	}
	defer in.leave()

	child := in.arena.push(m.scope)
	if !in.bind(st, m.decl.Params, st.Args, s, child) {
		in.arena.pop(child)
		return
	}
	if in.exec(m.decl.Body.Statements, child) == sigReturn {
		in.errorAt(st, "@return inside mixin %q", st.Name)
	}
	in.arena.pop(child)
}

func (in *Interpreter) importSheet(st *ast.ImportStatement, s scopeID) {
	if in.opts.Importer == nil {
		in.errorAt(st, "cannot import %q: no importer configured", st.Path)
		return
	}
	from := ""
	if n := len(in.imports); n > 0 {
		from = in.imports[n-1]
	}
	name, src, err := in.opts.Importer.Import(from, st.Path)
	if err != nil {
		in.errorAt(st, "cannot import %q: %v", st.Path, err)
		return
	}
	for i, seen := range in.imports {
		if seen == name {
			chain := append(append([]string(nil), in.imports[i:]...), name)
			in.errorAt(st, "import cycle: %s", strings.Join(chain, " -> "))
			return
		}
	}
	if !in.enter(st) {
		return
	}
	defer in.leave()

	sheet, errs := parser.ParseStylesheet(name, src, in.opts.Listener)
	in.log.Debug("importing", zap.String("from", from), zap.String("path", name))

	saved := in.errs
	in.errs = errs
	in.imports = append(in.imports, name)
	in.exec(sheet.Statements, s)
	in.imports = in.imports[:len(in.imports)-1]
	in.errs = saved
	if errs.HasErrors() {
		in.warnAt(st, "imported sheet %q has %d error(s)", name, errs.Count(diag.Error))
	}
}

func (in *Interpreter) assert(st *ast.AssertStatement, s scopeID) {
	if value.Truthy(in.eval(st.Cond, s)) {
		return
	}
	msg := ast.Print(st.Cond)
	if st.Message != nil {
		msg = value.Text(in.eval(st.Message, s))
	}
	in.errorAt(st, "assertion failed: %s", msg)
}

func (in *Interpreter) logStmt(st *ast.LogStatement, s scopeID) {
	msg := value.Text(in.eval(st.Value, s))
	in.log.Debug(st.Level.String(), zap.String("message", msg))
	loc := st.Span.Start
	switch st.Level {
	case ast.LogWarn:
		in.errs.Warn(loc, "%s", msg)
	case ast.LogError:
		in.errs.Error(loc, "%s", msg)
	default:
		in.errs.Info(loc, "%s", msg)
	}
}

// describe names a call target for error messages.
func describe(ns, name string) string {
	if ns != "" {
		return fmt.Sprintf("%s.%s", ns, name)
	}
	return name
}
