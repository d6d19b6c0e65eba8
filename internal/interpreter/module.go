package interpreter

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jclot/clot/internal/ast"
	"github.com/jclot/clot/internal/diagnostic"
	"github.com/jclot/clot/internal/parser"
)

// loadModule reads, parses, and executes the module at canonical, tracking
// the importing/imported sets for cycle detection and keeping the parsed
// Program alive for the interpreter's lifetime.
func (in *Interpreter) loadModule(stmt *ast.ImportStatement, canonical string) *diagnostic.Diagnostic {
	in.importing[canonical] = true
	defer delete(in.importing, canonical)

	data, err := os.ReadFile(canonical)
	if err != nil {
		return diagnostic.New(diagnostic.ModuleError, stmt.Line, 1, "cannot load module %q: %v", stmt.Module, err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	prog, pdiag := parser.New(lines).ParseProgram()
	if pdiag != nil {
		return diagnostic.New(diagnostic.ModuleError, stmt.Line, 1, "parse error in module %q: %s", stmt.Module, pdiag.Error())
	}
	in.modulePrograms = append(in.modulePrograms, prog)

	in.baseDirs = append(in.baseDirs, filepath.Dir(canonical))
	diag, _ := in.execBlock(prog.Statements)
	in.baseDirs = in.baseDirs[:len(in.baseDirs)-1]

	if diag != nil {
		return diagnostic.New(diagnostic.ModuleError, stmt.Line, 1, "error executing module %q: %s", stmt.Module, diag.Error())
	}

	in.imported[canonical] = true
	in.logImport(stmt.Module, canonical)
	return nil
}

// Log.Debug is reached on every successful import; Clot programs rarely
// import enough modules for this to be noisy.
func (in *Interpreter) logImport(name, canonical string) {
	in.Log.Debug("module imported", "name", name, "path", canonical)
}
