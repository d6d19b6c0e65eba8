// Package interpreter executes a parsed Clot Program against an
// in-process environment: statement and expression evaluation, user
// function calls with by-reference write-back, module import, and the
// host builtins.
package interpreter

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jclot/clot/internal/ast"
	"github.com/jclot/clot/internal/diagnostic"
	"github.com/jclot/clot/internal/object"
)

// returnFrame is one entry on the return stack: one per active call.
type returnFrame struct {
	value object.Value
	set   bool
}

// writeback records a by-reference parameter binding to be copied back
// into the caller's slot when the call returns.
type writeback struct {
	paramName  string
	callerName string
}

// Interpreter owns all mutable state for one program run: the single
// flat environment (swapped at call boundaries), the function table,
// module bookkeeping, and the async task registry.
type Interpreter struct {
	env       *object.Environment
	functions map[string]*ast.FuncDecl

	returnStack []*returnFrame

	importing map[string]bool
	imported  map[string]bool
	baseDirs  []string
	// modulePrograms keeps every imported module's AST alive for the
	// interpreter's lifetime: function declarations it registered
	// reference these nodes by pointer.
	modulePrograms []*ast.Program

	mathImported bool

	tasks *TaskRegistry

	Stdout io.Writer
	Stderr io.Writer
	Stdin  *bufio.Reader

	Log *slog.Logger
}

// New creates an Interpreter rooted at rootDir (the directory import
// statements resolve relative to when no module is currently executing).
// asyncWorkers bounds how many async builtins may run concurrently;
// 0 or less means unbounded.
func New(rootDir string, asyncWorkers int) *Interpreter {
	logger := slog.Default()
	return &Interpreter{
		env:       object.NewEnvironment(),
		functions: make(map[string]*ast.FuncDecl),
		importing: make(map[string]bool),
		imported:  make(map[string]bool),
		baseDirs:  []string{rootDir},
		tasks:     NewTaskRegistry(asyncWorkers),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Stdin:     bufio.NewReader(os.Stdin),
		Log:       logger,
	}
}

func (in *Interpreter) currentBaseDir() string {
	return in.baseDirs[len(in.baseDirs)-1]
}

// Run executes prog's statements at the top level and returns the first
// diagnostic encountered, if any.
func (in *Interpreter) Run(prog *ast.Program) *diagnostic.Diagnostic {
	diag, _ := in.execBlock(prog.Statements)
	return diag
}

// execBlock runs stmts in order, stopping at the first error or the
// first statement that signals a pending return; the bool return
// reports whether a return is now pending on the current frame.
func (in *Interpreter) execBlock(stmts []ast.Statement) (*diagnostic.Diagnostic, bool) {
	for _, stmt := range stmts {
		diag, returned := in.execStatement(stmt)
		if diag != nil || returned {
			return diag, returned
		}
	}
	return nil, false
}

func (in *Interpreter) execStatement(stmt ast.Statement) (*diagnostic.Diagnostic, bool) {
	switch s := stmt.(type) {
	case *ast.AssignStatement:
		return in.execAssign(s), false
	case *ast.MutationStatement:
		return in.execMutation(s), false
	case *ast.PrintStatement:
		return in.execPrint(s), false
	case *ast.IfStatement:
		return in.execIf(s)
	case *ast.WhileStatement:
		return in.execWhile(s)
	case *ast.FuncDecl:
		in.functions[s.Name] = s
		return nil, false
	case *ast.ImportStatement:
		return in.execImport(s), false
	case *ast.ReturnStatement:
		return in.execReturn(s)
	case *ast.TryStatement:
		return in.execTry(s)
	case *ast.ExpressionStatement:
		return in.execExpressionStatement(s), false
	}
	return diagnostic.New(diagnostic.InternalError, 0, 0, "unhandled statement type %T", stmt), false
}

func (in *Interpreter) execExpressionStatement(stmt *ast.ExpressionStatement) *diagnostic.Diagnostic {
	if call, ok := stmt.Expr.(*ast.CallExpression); ok {
		_, diag := in.evalCall(call, false)
		return diag
	}
	_, diag := in.eval(stmt.Expr)
	return diag
}

func (in *Interpreter) execPrint(stmt *ast.PrintStatement) *diagnostic.Diagnostic {
	val, diag := in.eval(stmt.Value)
	if diag != nil {
		return diag
	}
	text := val.ToString()
	if stmt.Newline {
		text += "\n"
	}
	io.WriteString(in.Stdout, text)
	return nil
}

func (in *Interpreter) execIf(stmt *ast.IfStatement) (*diagnostic.Diagnostic, bool) {
	cond, diag := in.eval(stmt.Condition)
	if diag != nil {
		return diag, false
	}
	if object.Truthy(cond) {
		return in.execBlock(stmt.Then)
	}
	return in.execBlock(stmt.Else)
}

func (in *Interpreter) execWhile(stmt *ast.WhileStatement) (*diagnostic.Diagnostic, bool) {
	for {
		cond, diag := in.eval(stmt.Condition)
		if diag != nil {
			return diag, false
		}
		if !object.Truthy(cond) {
			return nil, false
		}
		diag, returned := in.execBlock(stmt.Body)
		if diag != nil || returned {
			return diag, returned
		}
	}
}

func (in *Interpreter) execReturn(stmt *ast.ReturnStatement) (*diagnostic.Diagnostic, bool) {
	if len(in.returnStack) == 0 {
		return diagnostic.New(diagnostic.ReturnContextError, stmt.Line, 1, "return used outside of a function"), false
	}
	val := object.Value(object.Int(0))
	if stmt.Value != nil {
		v, diag := in.eval(stmt.Value)
		if diag != nil {
			return diag, false
		}
		val = v
	}
	frame := in.returnStack[len(in.returnStack)-1]
	frame.value = val
	frame.set = true
	return nil, true
}

func (in *Interpreter) execTry(stmt *ast.TryStatement) (*diagnostic.Diagnostic, bool) {
	diag, returned := in.execBlock(stmt.TryBody)
	if returned {
		// A return in progress defeats the enclosing try/catch: the
		// caller observes the returned value, never the try's error.
		return nil, true
	}
	if diag == nil {
		return nil, false
	}

	var priorSlot *object.VariableSlot
	var hadPrior bool
	if stmt.ErrName != nil {
		priorSlot, hadPrior = in.env.GetSlot(*stmt.ErrName)
		in.env.SetSlot(*stmt.ErrName, &object.VariableSlot{Value: object.Str(diag.Error()), Kind: object.Dynamic})
	}

	catchDiag, catchReturned := in.execBlock(stmt.CatchBody)

	if stmt.ErrName != nil {
		if hadPrior {
			in.env.SetSlot(*stmt.ErrName, priorSlot)
		} else {
			in.env.DeleteSlot(*stmt.ErrName)
		}
	}

	return catchDiag, catchReturned
}

func (in *Interpreter) execImport(stmt *ast.ImportStatement) *diagnostic.Diagnostic {
	if stmt.Module == "math" {
		in.mathImported = true
		return nil
	}

	relPath := moduleRelPath(stmt.Module)
	fullPath := filepath.Join(in.currentBaseDir(), relPath)
	canonical, err := filepath.Abs(fullPath)
	if err != nil {
		return diagnostic.New(diagnostic.ModuleError, stmt.Line, 1, "cannot resolve module %q: %v", stmt.Module, err)
	}
	canonical = filepath.Clean(canonical)

	if in.imported[canonical] {
		in.Log.Debug("module cache hit", "name", stmt.Module, "path", canonical)
		return nil
	}
	if in.importing[canonical] {
		return diagnostic.New(diagnostic.ModuleError, stmt.Line, 1, "circular import of module %q", stmt.Module)
	}

	return in.loadModule(stmt, canonical)
}

func moduleRelPath(name string) string {
	rel := name
	rel = filepath.FromSlash(pathReplaceDots(rel))
	if filepath.Ext(rel) == "" {
		rel += ".clot"
	}
	return rel
}

func pathReplaceDots(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			out[i] = '/'
		} else {
			out[i] = name[i]
		}
	}
	return string(out)
}
