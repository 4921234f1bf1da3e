package interp

import (
	"style-engine/internal/ast"
	"style-engine/internal/value"
)

func (in *Interpreter) eval(e ast.Expression, s scopeID) any {
	switch e := e.(type) {
	case nil:
		return nil
	case *ast.NumberLiteral:
		return e.Primitive()
	case *ast.ColorLiteral:
		return e.Color
	case *ast.StringLiteral:
		return value.String{Text: e.Text, Quoted: true}
	case *ast.KeywordLiteral:
		switch e.Word {
		case "true":
			return true
		case "false":
			return false
		case "null":
			return nil
		}
		return value.Keyword(e.Word)
	case *ast.Identifier:
		return value.Keyword(e.Name)
	case *ast.VariableExpr:
		v, ok := in.arena.lookupVar(s, e.Name)
		if !ok {
			in.errorAt(e, "undefined variable $%s", e.Name)
		}
		return v
	case *ast.ListLiteral:
		l := value.List{Items: make([]any, 0, len(e.Items)), Comma: e.Comma}
		for _, it := range e.Items {
			l.Items = append(l.Items, in.eval(it, s))
		}
		return l
	case *ast.UnaryExpr:
		return in.unary(e, s)
	case *ast.BinaryExpr:
		return in.binary(e, s)
	case *ast.CallExpr:
		return in.call(e, "", s, s)
	case *ast.NamespaceExpr:
		return in.namespace(e, s)
	case *ast.ErroneousExpr:
		return nil
	}
	in.errorAt(e, "cannot evaluate %T", e)
	return nil
}

// namespace evaluates ns.$var and ns.fn(). Only members declared directly in the
// namespace are visible.
func (in *Interpreter) namespace(e *ast.NamespaceExpr, s scopeID) any {
	ns, ok := in.arena.lookupNamespace(s, e.Namespace)
	if !ok {
		in.errorAt(e, "unknown namespace %q", e.Namespace)
		return nil
	}
	switch t := e.Target.(type) {
	case *ast.VariableExpr:
		v, ok := in.arena.own(ns).vars[t.Name]
		if !ok {
			in.errorAt(t, "undefined variable %s.$%s", e.Namespace, t.Name)
		}
		return v
	case *ast.CallExpr:
		return in.call(t, e.Namespace, ns, s)
	}
	in.errorAt(e, "invalid namespace access")
	return nil
}

func (in *Interpreter) unary(e *ast.UnaryExpr, s scopeID) any {
	v := in.eval(e.Operand, s)
	switch e.Op {
	case ast.OpNot:
		return !value.Truthy(v)
	case ast.OpNeg:
		switch v := v.(type) {
		case value.Primitive:
			return v.Neg()
		case nil:
			return nil
		}
		return value.String{Text: "-" + value.Text(v)}
	case ast.OpPos:
		return v
	}
	in.errorAt(e, "invalid unary operator %s", e.Op)
	return nil
}

func (in *Interpreter) binary(e *ast.BinaryExpr, s scopeID) any {
	switch e.Op {
	case ast.OpAnd:
		l := in.eval(e.Left, s)
		if !value.Truthy(l) {
			return l
		}
		return in.eval(e.Right, s)
	case ast.OpOr:
		l := in.eval(e.Left, s)
		if value.Truthy(l) {
			return l
		}
		return in.eval(e.Right, s)
	}

	l, r := in.eval(e.Left, s), in.eval(e.Right, s)
	switch e.Op {
	case ast.OpEq:
		return value.Equal(l, r)
	case ast.OpNe:
		return !value.Equal(l, r)
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return in.compare(e, l, r)
	}

	lp, lok := l.(value.Primitive)
	rp, rok := r.(value.Primitive)
	if lok && rok {
		return in.arith(e, lp, rp)
	}
	if l == nil || r == nil {
		// An operand already failed and was reported.
		return nil
	}
	switch e.Op {
	case ast.OpAdd:
		q := false
		if ls, ok := l.(value.String); ok {
			q = ls.Quoted
		}
		return value.String{Text: value.Text(l) + value.Text(r), Quoted: q}
	case ast.OpSub:
		return value.String{Text: value.Text(l) + "-" + value.Text(r)}
	}
	in.errorAt(e, "operator %s is undefined for %s and %s", e.Op, value.TypeOf(l), value.TypeOf(r))
	return nil
}

func (in *Interpreter) compare(e *ast.BinaryExpr, l, r any) bool {
	lp, lok := l.(value.Primitive)
	rp, rok := r.(value.Primitive)
	if !lok || !rok {
		in.errorAt(e, "cannot compare %s and %s", value.TypeOf(l), value.TypeOf(r))
		return false
	}
	c, err := lp.Compare(rp)
	if err != nil {
		in.errorAt(e, "%v", err)
		return false
	}
	switch e.Op {
	case ast.OpLt:
		return c < 0
	case ast.OpLe:
		return c <= 0
	case ast.OpGt:
		return c > 0
	}
	return c >= 0
}

// arith applies a numeric operator. Failures are reported and yield a zero number.
func (in *Interpreter) arith(e *ast.BinaryExpr, l, r value.Primitive) any {
	var (
		out value.Primitive
		err error
	)
	switch e.Op {
	case ast.OpAdd:
		out, err = l.Add(r)
	case ast.OpSub:
		out, err = l.Sub(r)
	case ast.OpMul:
		out, err = l.Mul(r)
	case ast.OpDiv:
		out, err = l.Div(r)
	case ast.OpMod:
		out, err = l.Mod(r)
	default:
		in.errorAt(e, "invalid operator %s", e.Op)
		return nil
	}
	if err != nil {
		in.errorAt(e, "%s %s %s: %v", l, e.Op, r, err)
		return value.Primitive{}
	}
	return out
}
