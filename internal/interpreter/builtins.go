package interpreter

import (
	"github.com/jclot/clot/internal/ast"
	"github.com/jclot/clot/internal/diagnostic"
	"github.com/jclot/clot/internal/object"
)

// builtinFunc is the shape every host builtin implements once its
// arguments have been evaluated and arity-checked.
type builtinFunc func(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic)

type builtinSpec struct {
	minArgs int
	maxArgs int // -1 means unbounded
	fn      builtinFunc
}

// builtins is the closed set of host functions recognized by name,
// regardless of any module import (except "sum", gated on "import
// math;" in evalCall).
var builtins = map[string]builtinSpec{
	"sum":              {2, 2, builtinSum},
	"input":            {0, 1, builtinInput},
	"println":          {0, 1, builtinPrintln},
	"printf":           {1, -1, builtinPrintf},
	"read_file":        {1, 1, builtinReadFile},
	"write_file":       {2, 2, builtinWriteFile},
	"append_file":      {2, 2, builtinAppendFile},
	"file_exists":      {1, 1, builtinFileExists},
	"now_ms":           {0, 0, builtinNowMs},
	"sleep_ms":         {1, 1, builtinSleepMs},
	"async_read_file":  {1, 1, builtinAsyncReadFile},
	"task_ready":       {1, 1, builtinTaskReady},
	"await":            {1, 1, builtinAwait},
}

func (in *Interpreter) callBuiltin(b builtinSpec, name string, call *ast.CallExpression) (object.Value, *diagnostic.Diagnostic) {
	n := len(call.Args)
	if n < b.minArgs || (b.maxArgs >= 0 && n > b.maxArgs) {
		return nil, diagnostic.New(diagnostic.ArityError, call.Line, 1, "builtin %q called with %d argument(s)", name, n)
	}
	args := make([]object.Value, n)
	for i, a := range call.Args {
		if a.ByRef {
			return nil, diagnostic.New(diagnostic.ReferenceError, call.Line, 1, "builtin %q does not accept by-reference arguments", name)
		}
		v, diag := in.eval(a.Expr)
		if diag != nil {
			return nil, diag
		}
		args[i] = v
	}
	return b.fn(in, args, call.Line)
}
