package interpreter

import (
	"os"

	"github.com/jclot/clot/internal/diagnostic"
	"github.com/jclot/clot/internal/object"
)

func builtinAsyncReadFile(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic) {
	path, diag := argPath(args, 0, "async_read_file", line)
	if diag != nil {
		return nil, diag
	}
	id := in.tasks.Spawn(func() (object.Value, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return object.Str(string(data)), nil
	})
	return object.Int(id), nil
}

func builtinTaskReady(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic) {
	id, ok := object.AsInteger(args[0])
	if !ok {
		return nil, diagnostic.New(diagnostic.TypeError, line, 1, "task_ready: argument must be an integer task id, got %s", args[0].Kind())
	}
	ready, known := in.tasks.Ready(id)
	if !known {
		return nil, diagnostic.New(diagnostic.ReferenceError, line, 1, "task_ready: unknown task id %d", id)
	}
	return object.Bool(ready), nil
}

func builtinAwait(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic) {
	id, ok := object.AsInteger(args[0])
	if !ok {
		return nil, diagnostic.New(diagnostic.TypeError, line, 1, "await: argument must be an integer task id, got %s", args[0].Kind())
	}
	val, err, known := in.tasks.Await(id)
	if !known {
		return nil, diagnostic.New(diagnostic.ReferenceError, line, 1, "await: unknown task id %d", id)
	}
	if err != nil {
		return nil, diagnostic.New(diagnostic.IOError, line, 1, "await: task %d failed: %v", id, err)
	}
	return val, nil
}
