package interpreter

import (
	"fmt"
	"io"
	"strings"

	"github.com/jclot/clot/internal/diagnostic"
	"github.com/jclot/clot/internal/object"
)

func builtinInput(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic) {
	if len(args) == 1 {
		io.WriteString(in.Stdout, args[0].ToString())
	}
	text, err := in.Stdin.ReadString('\n')
	if err != nil && text == "" {
		return nil, diagnostic.New(diagnostic.IOError, line, 1, "input: %v", err)
	}
	text = strings.TrimRight(text, "\r\n")
	return object.Str(text), nil
}

// builtinPrintln writes its optional argument followed by a newline and
// returns 0. The lexer classifies "println" as a keyword, so source text
// println(...) always parses as a PrintStatement (exactly one argument)
// and never reaches this builtin through a call expression.
func builtinPrintln(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic) {
	if len(args) == 1 {
		io.WriteString(in.Stdout, args[0].ToString())
	}
	io.WriteString(in.Stdout, "\n")
	return object.Int(0), nil
}

// builtinPrintf interprets %d %i %u %f %c %s %x %X %% against fmt,
// consuming one trailing argument per specifier (%% consumes none), and
// returns the number of bytes written.
func builtinPrintf(in *Interpreter, args []object.Value, line int) (object.Value, *diagnostic.Diagnostic) {
	format, ok := args[0].(object.Str)
	if !ok {
		return nil, diagnostic.New(diagnostic.TypeError, line, 1, "printf: format must be a string, got %s", args[0].Kind())
	}
	rest := args[1:]
	var out strings.Builder
	argi := 0

	runes := []rune(string(format))
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '%' {
			out.WriteRune(c)
			continue
		}
		i++
		if i >= len(runes) {
			return nil, diagnostic.New(diagnostic.TypeError, line, 1, "printf: dangling %% at end of format")
		}
		spec := runes[i]
		if spec == '%' {
			out.WriteByte('%')
			continue
		}
		if argi >= len(rest) {
			return nil, diagnostic.New(diagnostic.ArityError, line, 1, "printf: not enough arguments for format %q", string(format))
		}
		arg := rest[argi]
		argi++

		switch spec {
		case 'd', 'i':
			n, ok := object.AsInteger(arg)
			if !ok {
				return nil, diagnostic.New(diagnostic.TypeError, line, 1, "printf: %%%c requires an integer, got %s", spec, arg.Kind())
			}
			fmt.Fprintf(&out, "%d", n)
		case 'u':
			n, ok := object.AsInteger(arg)
			if !ok {
				return nil, diagnostic.New(diagnostic.TypeError, line, 1, "printf: %%u requires an integer, got %s", arg.Kind())
			}
			if n < 0 {
				return nil, diagnostic.New(diagnostic.RangeError, line, 1, "printf: %%u requires a non-negative integer, got %d", n)
			}
			fmt.Fprintf(&out, "%d", uint64(n))
		case 'f':
			f, ok := object.AsNumber(arg)
			if !ok {
				return nil, diagnostic.New(diagnostic.TypeError, line, 1, "printf: %%f requires a number, got %s", arg.Kind())
			}
			fmt.Fprintf(&out, "%f", f)
		case 'c':
			n, ok := object.AsInteger(arg)
			if !ok {
				return nil, diagnostic.New(diagnostic.TypeError, line, 1, "printf: %%c requires an integer code point, got %s", arg.Kind())
			}
			out.WriteRune(rune(n))
		case 's':
			out.WriteString(arg.ToString())
		case 'x':
			n, ok := object.AsInteger(arg)
			if !ok {
				return nil, diagnostic.New(diagnostic.TypeError, line, 1, "printf: %%x requires an integer, got %s", arg.Kind())
			}
			fmt.Fprintf(&out, "%x", n)
		case 'X':
			n, ok := object.AsInteger(arg)
			if !ok {
				return nil, diagnostic.New(diagnostic.TypeError, line, 1, "printf: %%X requires an integer, got %s", arg.Kind())
			}
			fmt.Fprintf(&out, "%X", n)
		default:
			return nil, diagnostic.New(diagnostic.TypeError, line, 1, "printf: unsupported format verb %%%c", spec)
		}
	}

	if argi != len(rest) {
		return nil, diagnostic.New(diagnostic.ArityError, line, 1, "printf: %d argument(s) supplied for %d specifier(s)", len(rest), argi)
	}

	text := out.String()
	io.WriteString(in.Stdout, text)
	return object.Int(int64(len(text))), nil
}
