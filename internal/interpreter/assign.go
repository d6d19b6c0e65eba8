package interpreter

import (
	"strings"

	"github.com/jclot/clot/internal/ast"
	"github.com/jclot/clot/internal/diagnostic"
	"github.com/jclot/clot/internal/object"
)

func declKind(k ast.DeclKind) object.DeclKind {
	switch k {
	case ast.DeclLong:
		return object.LongKind
	case ast.DeclByte:
		return object.ByteKind
	default:
		return object.Dynamic
	}
}

func (in *Interpreter) execAssign(stmt *ast.AssignStatement) *diagnostic.Diagnostic {
	value, diag := in.eval(stmt.Value)
	if diag != nil {
		return diag
	}
	value = value.Clone()

	if strings.Contains(stmt.Name, ".") {
		return in.assignDottedPath(stmt.Name, stmt.Op, value, stmt.Line)
	}

	if stmt.Op == "=" {
		return in.env.Define(stmt.Name, value, declKind(stmt.Kind), stmt.Line, 1)
	}
	// Typed "+=" / "-=" still upgrades the slot's declared kind, per the
	// spec's "existing kind, upgraded if the statement says long or byte".
	if stmt.Kind != ast.DeclInferred {
		current, ok := in.env.Get(stmt.Name)
		if !ok {
			return diagnostic.New(diagnostic.NameError, stmt.Line, 1, "undefined variable %q", stmt.Name)
		}
		if diag := in.env.Define(stmt.Name, current, declKind(stmt.Kind), stmt.Line, 1); diag != nil {
			return diag
		}
	}
	return in.env.CompoundAssign(stmt.Name, stmt.Op, value, stmt.Line, 1)
}

// assignDottedPath handles "root.seg...segN op value": segments up to
// the second-to-last must already be objects; the last segment may be
// created only when op is "=".
func (in *Interpreter) assignDottedPath(name, op string, value object.Value, line int) *diagnostic.Diagnostic {
	segs := strings.Split(name, ".")
	root := segs[0]
	slot, ok := in.env.GetSlot(root)
	if !ok {
		return diagnostic.New(diagnostic.NameError, line, 1, "undefined variable %q", root)
	}

	cur := slot.Value
	for _, seg := range segs[1 : len(segs)-1] {
		obj, ok := cur.(*object.Object)
		if !ok {
			return diagnostic.New(diagnostic.TypeError, line, 1, "cannot access property %q of a %s", seg, cur.Kind())
		}
		v, ok := obj.Get(seg)
		if !ok {
			return diagnostic.New(diagnostic.NameError, line, 1, "object has no property %q", seg)
		}
		cur = v
	}

	obj, ok := cur.(*object.Object)
	if !ok {
		return diagnostic.New(diagnostic.TypeError, line, 1, "cannot access property of a %s", cur.Kind())
	}
	lastKey := segs[len(segs)-1]

	if op == "=" {
		obj.Set(lastKey, value)
		return nil
	}

	existing, ok := obj.Get(lastKey)
	if !ok {
		return diagnostic.New(diagnostic.NameError, line, 1, "object has no property %q", lastKey)
	}
	binOp := "+"
	if op == "-=" {
		binOp = "-"
	}
	result, diag := object.BinaryOp(binOp, existing, value, line, 1)
	if diag != nil {
		return diag
	}
	obj.Set(lastKey, result)
	return nil
}

// execMutation handles a statement whose lvalue is an index expression,
// possibly chained (matrix[0][1]) and possibly rooted at a dotted path
// (user.data[0]).
func (in *Interpreter) execMutation(stmt *ast.MutationStatement) *diagnostic.Diagnostic {
	ident, indices, diag := flattenIndexChain(stmt.Target)
	if diag != nil {
		return diag
	}

	value, diag := in.eval(stmt.Value)
	if diag != nil {
		return diag
	}
	value = value.Clone()

	base, diag := in.resolvePath(ident.Name, ident.Line)
	if diag != nil {
		return diag
	}

	cur := base
	for i := 0; i < len(indices)-1; i++ {
		list, ok := cur.(*object.List)
		if !ok {
			return diagnostic.New(diagnostic.TypeError, stmt.Line, 1, "cannot index a %s", cur.Kind())
		}
		idxVal, diag := in.eval(indices[i])
		if diag != nil {
			return diag
		}
		idx, diag := indexFor(idxVal, len(list.Elements), stmt.Line)
		if diag != nil {
			return diag
		}
		cur = list.Elements[idx]
	}

	list, ok := cur.(*object.List)
	if !ok {
		return diagnostic.New(diagnostic.TypeError, stmt.Line, 1, "cannot index a %s", cur.Kind())
	}
	idxVal, diag := in.eval(indices[len(indices)-1])
	if diag != nil {
		return diag
	}
	idx, diag := indexFor(idxVal, len(list.Elements), stmt.Line)
	if diag != nil {
		return diag
	}

	if stmt.Op == "=" {
		list.Elements[idx] = value
		return nil
	}
	binOp := "+"
	if stmt.Op == "-=" {
		binOp = "-"
	}
	result, diag := object.BinaryOp(binOp, list.Elements[idx], value, stmt.Line, 1)
	if diag != nil {
		return diag
	}
	list.Elements[idx] = result
	return nil
}

// flattenIndexChain walks an IndexExpression chain down to its root
// identifier, returning the indices in left-to-right application order.
func flattenIndexChain(expr ast.Expression) (*ast.Identifier, []ast.Expression, *diagnostic.Diagnostic) {
	var indices []ast.Expression
	cur := expr
	for {
		ix, ok := cur.(*ast.IndexExpression)
		if !ok {
			break
		}
		indices = append(indices, ix.Index)
		cur = ix.Collection
	}
	for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
		indices[i], indices[j] = indices[j], indices[i]
	}
	ident, ok := cur.(*ast.Identifier)
	if !ok {
		return nil, nil, diagnostic.New(diagnostic.TypeError, 0, 1, "invalid mutation target")
	}
	return ident, indices, nil
}
