package interp

import (
	"style-engine/internal/ast"
	"style-engine/internal/value"
)

// call invokes a user function, then a builtin. lookup is where the function name is
// resolved; caller is where the arguments are evaluated.
func (in *Interpreter) call(c *ast.CallExpr, ns string, lookup, caller scopeID) any {
	var (
		f  *function
		ok bool
	)
	if ns != "" {
		f, ok = in.arena.own(lookup).functions[c.Name]
	} else {
		f, ok = in.arena.lookupFunction(lookup, c.Name)
	}
	if ok {
		return in.callFunction(c, f, caller)
	}
	if ns == "" {
		if b, ok := builtins[c.Name]; ok {
			return in.callBuiltin(c, b, caller)
		}
	}
	in.errorAt(c, "unknown function %q", describe(ns, c.Name))
	return nil
}

func (in *Interpreter) callFunction(c *ast.CallExpr, f *function, caller scopeID) any {
	if !in.enter(c) {
		return nil
	}
	defer in.leave()

	child := in.arena.push(f.scope)
	defer in.arena.pop(child)
	if !in.bind(c, f.decl.Params, c.Args, caller, child) {
		return nil
	}
	if in.exec(f.decl.Body.Statements, child) != sigReturn {
		in.errorAt(c, "function %q ended without @return", c.Name)
		return nil
	}
	v := in.retval
	in.retval = nil
	return v
}

// positional evaluates arguments into a flat slice, expanding spread lists.
func (in *Interpreter) positional(args []ast.Arg, s scopeID) []any {
	out := make([]any, 0, len(args))
	for _, a := range args {
		v := in.eval(a.Value, s)
		if a.Spread {
			out = append(out, value.Items(v)...)
			continue
		}
		out = append(out, v)
	}
	return out
}

// bind evaluates args in caller and declares them as params in child. Defaults are
// evaluated in child, so they can refer to earlier parameters.
func (in *Interpreter) bind(n ast.Node, params []ast.Param, args []ast.Arg, caller, child scopeID) bool {
	var (
		pos   []any
		named = map[string]any{}
		order []string
	)
	for _, a := range args {
		if a.Name == "" {
			pos = append(pos, in.positional([]ast.Arg{a}, caller)...)
			continue
		}
		if _, dup := named[a.Name]; dup {
			in.errorAt(n, "argument $%s given twice", a.Name)
			return false
		}
		named[a.Name] = in.eval(a.Value, caller)
		order = append(order, a.Name)
	}

	ok := true
	for i, p := range params {
		switch v, isNamed := named[p.Name]; {
		case p.Variadic:
			var rest []any
			if i < len(pos) {
				rest = pos[i:]
				pos = pos[:i]
			}
			if rest == nil && isNamed {
				rest = value.Items(v)
			}
			in.arena.declare(child, p.Name, value.List{Items: rest, Comma: true})
		case i < len(pos):
			if isNamed {
				in.errorAt(n, "argument $%s given twice", p.Name)
				ok = false
			}
			in.arena.declare(child, p.Name, pos[i])
		case isNamed:
			in.arena.declare(child, p.Name, v)
		case p.Default != nil:
			in.arena.declare(child, p.Name, in.eval(p.Default, child))
		default:
			in.errorAt(n, "missing argument $%s", p.Name)
			ok = false
		}
		delete(named, p.Name)
	}
	if len(pos) > len(params) {
		in.errorAt(n, "expected at most %d arguments, got %d", len(params), len(pos))
		ok = false
	}
	for _, name := range order {
		if _, left := named[name]; left {
			in.errorAt(n, "unknown argument $%s", name)
			ok = false
		}
	}
	return ok
}
