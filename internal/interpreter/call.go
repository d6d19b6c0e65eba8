package interpreter

import (
	"strings"

	"github.com/jclot/clot/internal/ast"
	"github.com/jclot/clot/internal/diagnostic"
	"github.com/jclot/clot/internal/object"
)

// evalCall resolves and invokes a callee, trying builtins before
// user-declared functions. requireReturn distinguishes an expression
// context (a value is mandatory) from a bare call statement (a missing
// return becomes 0).
func (in *Interpreter) evalCall(call *ast.CallExpression, requireReturn bool) (object.Value, *diagnostic.Diagnostic) {
	name, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return nil, diagnostic.New(diagnostic.TypeError, call.Line, 1, "callee is not callable")
	}

	if b, ok := builtins[name.Name]; ok && (name.Name != "sum" || in.mathImported) {
		return in.callBuiltin(b, name.Name, call)
	}

	fn, ok := in.functions[name.Name]
	if !ok {
		return nil, diagnostic.New(diagnostic.NameError, call.Line, 1, "undefined function %q", name.Name)
	}
	if len(call.Args) != len(fn.Params) {
		return nil, diagnostic.New(diagnostic.ArityError, call.Line, 1,
			"function %q expects %d argument(s), got %d", name.Name, len(fn.Params), len(call.Args))
	}

	newEnv := object.NewEnvironment()
	var writebacks []writeback

	for i, arg := range call.Args {
		param := fn.Params[i]
		if param.ByRef {
			ident, ok := arg.Expr.(*ast.Identifier)
			if !ok || strings.Contains(ident.Name, ".") {
				return nil, diagnostic.New(diagnostic.ReferenceError, call.Line, 1,
					"argument %d to %q must be a plain variable for by-reference parameter %q", i+1, name.Name, param.Name)
			}
			callerSlot, ok := in.env.GetSlot(ident.Name)
			if !ok {
				return nil, diagnostic.New(diagnostic.ReferenceError, call.Line, 1,
					"undefined variable %q passed by reference", ident.Name)
			}
			newEnv.SetSlot(param.Name, &object.VariableSlot{Value: callerSlot.Value.Clone(), Kind: callerSlot.Kind})
			writebacks = append(writebacks, writeback{paramName: param.Name, callerName: ident.Name})
			continue
		}

		if arg.ByRef {
			return nil, diagnostic.New(diagnostic.ReferenceError, call.Line, 1,
				"argument %d to %q is marked by-reference but parameter %q is not", i+1, name.Name, param.Name)
		}
		val, diag := in.eval(arg.Expr)
		if diag != nil {
			return nil, diag
		}
		if diag := newEnv.Define(param.Name, val.Clone(), object.Dynamic, call.Line, 1); diag != nil {
			return nil, diag
		}
	}

	savedEnv := in.env
	in.env = newEnv
	in.returnStack = append(in.returnStack, &returnFrame{})

	diag, _ := in.execBlock(fn.Body)

	frame := in.returnStack[len(in.returnStack)-1]
	in.returnStack = in.returnStack[:len(in.returnStack)-1]

	for _, wb := range writebacks {
		slot, _ := newEnv.GetSlot(wb.paramName)
		callerSlot, _ := savedEnv.GetSlot(wb.callerName)
		callerSlot.Value = slot.Value.Clone()
	}
	in.env = savedEnv

	if diag != nil {
		return nil, diag
	}
	if !frame.set {
		if requireReturn {
			return nil, diagnostic.New(diagnostic.ReturnContextError, call.Line, 1, "function %q did not return a value", name.Name)
		}
		return object.Int(0), nil
	}
	return frame.value, nil
}
