package interpreter

import (
	"github.com/jclot/clot/internal/diagnostic"
	"github.com/jclot/clot/internal/object"
)

// builtinSum implements sum(a, b), gated on "import math;" by evalCall.
func builtinSum(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic) {
	if _, ok := object.AsNumber(args[0]); !ok {
		return nil, diagnostic.New(diagnostic.TypeError, line, 1, "sum: argument 1 must be numeric, got %s", args[0].Kind())
	}
	if _, ok := object.AsNumber(args[1]); !ok {
		return nil, diagnostic.New(diagnostic.TypeError, line, 1, "sum: argument 2 must be numeric, got %s", args[1].Kind())
	}
	return object.BinaryOp("+", args[0], args[1], line, 1)
}
