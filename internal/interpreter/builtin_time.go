package interpreter

import (
	"time"

	"github.com/jclot/clot/internal/diagnostic"
	"github.com/jclot/clot/internal/object"
)

func builtinNowMs(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic) {
	return object.Int(time.Now().UnixMilli()), nil
}

func builtinSleepMs(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic) {
	n, ok := object.AsInteger(args[0])
	if !ok {
		return nil, diagnostic.New(diagnostic.TypeError, line, 1, "sleep_ms: argument must be an integer, got %s", args[0].Kind())
	}
	if n < 0 {
		return nil, diagnostic.New(diagnostic.RangeError, line, 1, "sleep_ms: argument must be non-negative, got %d", n)
	}
	time.Sleep(time.Duration(n) * time.Millisecond)
	return object.Int(0), nil
}
