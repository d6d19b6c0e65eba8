package interpreter

import (
	"os"

	"github.com/jclot/clot/internal/diagnostic"
	"github.com/jclot/clot/internal/object"
)

func argPath(args []object.Value, i int, who string, line int) (string, *diagnostic.Diagnostic) {
	s, ok := args[i].(object.Str)
	if !ok {
		return "", diagnostic.New(diagnostic.TypeError, line, 1, "%s: argument %d must be a string, got %s", who, i+1, args[i].Kind())
	}
	return string(s), nil
}

func builtinReadFile(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic) {
	path, diag := argPath(args, 0, "read_file", line)
	if diag != nil {
		return nil, diag
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diagnostic.New(diagnostic.IOError, line, 1, "read_file: %v", err)
	}
	return object.Str(string(data)), nil
}

func builtinWriteFile(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic) {
	path, diag := argPath(args, 0, "write_file", line)
	if diag != nil {
		return nil, diag
	}
	text, ok := args[1].(object.Str)
	if !ok {
		return nil, diagnostic.New(diagnostic.TypeError, line, 1, "write_file: argument 2 must be a string, got %s", args[1].Kind())
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return nil, diagnostic.New(diagnostic.IOError, line, 1, "write_file: %v", err)
	}
	return object.Bool(true), nil
}

func builtinAppendFile(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic) {
	path, diag := argPath(args, 0, "append_file", line)
	if diag != nil {
		return nil, diag
	}
	text, ok := args[1].(object.Str)
	if !ok {
		return nil, diagnostic.New(diagnostic.TypeError, line, 1, "append_file: argument 2 must be a string, got %s", args[1].Kind())
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, diagnostic.New(diagnostic.IOError, line, 1, "append_file: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(string(text)); err != nil {
		return nil, diagnostic.New(diagnostic.IOError, line, 1, "append_file: %v", err)
	}
	return object.Bool(true), nil
}

func builtinFileExists(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic) {
	path, diag := argPath(args, 0, "file_exists", line)
	if diag != nil {
		return nil, diag
	}
	_, err := os.Stat(path)
	return object.Bool(err == nil), nil
}
