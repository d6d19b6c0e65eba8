package interpreter

import (
	"strings"

	"github.com/jclot/clot/internal/ast"
	"github.com/jclot/clot/internal/diagnostic"
	"github.com/jclot/clot/internal/object"
)

// eval evaluates an expression to a Value.
func (in *Interpreter) eval(expr ast.Expression) (object.Value, *diagnostic.Diagnostic) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		if e.IsInt {
			return object.Int(e.IntValue), nil
		}
		return object.Float(e.Value), nil

	case *ast.StringLiteral:
		return object.Str(e.Value), nil

	case *ast.BooleanLiteral:
		return object.Bool(e.Value), nil

	case *ast.Identifier:
		return in.resolvePath(e.Name, e.Line)

	case *ast.ListLiteral:
		elems := make([]object.Value, len(e.Elements))
		for i, el := range e.Elements {
			v, diag := in.eval(el)
			if diag != nil {
				return nil, diag
			}
			elems[i] = v
		}
		return object.NewList(elems), nil

	case *ast.ObjectLiteral:
		obj := object.NewObject()
		for _, entry := range e.Entries {
			v, diag := in.eval(entry.Value)
			if diag != nil {
				return nil, diag
			}
			obj.Set(entry.Key, v)
		}
		return obj, nil

	case *ast.IndexExpression:
		return in.evalIndex(e)

	case *ast.UnaryExpression:
		right, diag := in.eval(e.Right)
		if diag != nil {
			return nil, diag
		}
		return object.UnaryOp(e.Operator, right, e.Line, 1)

	case *ast.BinaryExpression:
		left, diag := in.eval(e.Left)
		if diag != nil {
			return nil, diag
		}
		right, diag := in.eval(e.Right)
		if diag != nil {
			return nil, diag
		}
		return object.BinaryOp(e.Operator, left, right, e.Line, 1)

	case *ast.CallExpression:
		return in.evalCall(e, true)
	}
	return nil, diagnostic.New(diagnostic.InternalError, 0, 0, "unhandled expression type %T", expr)
}

func (in *Interpreter) evalIndex(e *ast.IndexExpression) (object.Value, *diagnostic.Diagnostic) {
	coll, diag := in.eval(e.Collection)
	if diag != nil {
		return nil, diag
	}
	list, ok := coll.(*object.List)
	if !ok {
		return nil, diagnostic.New(diagnostic.TypeError, e.Line, 1, "cannot index a %s", coll.Kind())
	}
	idxVal, diag := in.eval(e.Index)
	if diag != nil {
		return nil, diag
	}
	idx, diag := indexFor(idxVal, len(list.Elements), e.Line)
	if diag != nil {
		return nil, diag
	}
	return list.Elements[idx], nil
}

// indexFor validates idxVal as an in-bounds list index.
func indexFor(idxVal object.Value, length, line int) (int, *diagnostic.Diagnostic) {
	n, ok := object.AsInteger(idxVal)
	if !ok {
		return 0, diagnostic.New(diagnostic.TypeError, line, 1, "list index must be an integer, got %s", idxVal.Kind())
	}
	if n < 0 || n >= int64(length) {
		return 0, diagnostic.New(diagnostic.RangeError, line, 1, "list index %d out of bounds (length %d)", n, length)
	}
	return int(n), nil
}

// resolvePath resolves a (possibly dotted) identifier to its value: the
// first segment is an environment slot, every subsequent segment
// navigates into a nested object property.
func (in *Interpreter) resolvePath(name string, line int) (object.Value, *diagnostic.Diagnostic) {
	segs := strings.Split(name, ".")
	val, ok := in.env.Get(segs[0])
	if !ok {
		return nil, diagnostic.New(diagnostic.NameError, line, 1, "undefined variable %q", segs[0])
	}
	for _, seg := range segs[1:] {
		obj, ok := val.(*object.Object)
		if !ok {
			return nil, diagnostic.New(diagnostic.TypeError, line, 1, "cannot access property %q of a %s", seg, val.Kind())
		}
		v, ok := obj.Get(seg)
		if !ok {
			return nil, diagnostic.New(diagnostic.NameError, line, 1, "object has no property %q", seg)
		}
		val = v
	}
	return val, nil
}
