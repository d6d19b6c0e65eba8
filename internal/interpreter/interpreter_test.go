package interpreter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jclot/clot/internal/diagnostic"
	"github.com/jclot/clot/internal/parser"
)

func run(t *testing.T, rootDir, src string) (string, *diagnostic.Diagnostic) {
	t.Helper()
	lines := strings.Split(src, "\n")
	prog, pdiag := parser.New(lines).ParseProgram()
	if pdiag != nil {
		t.Fatalf("parse error: %s", pdiag.Error())
	}
	in := New(rootDir, 0)
	var out bytes.Buffer
	in.Stdout = &out
	diag := in.Run(prog)
	return out.String(), diag
}

func TestArithmeticAndInference(t *testing.T) {
	out, diag := run(t, ".", "x = 2 + 3 * 4;\nprintln(x);\n")
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Error())
	}
	if out != "14\n" {
		t.Fatalf("expected %q, got %q", "14\n", out)
	}
}

func TestTypedSlotAndOverflow(t *testing.T) {
	out, diag := run(t, ".", "long a = 100;\na += 50;\nprintln(a);\n")
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Error())
	}
	if out != "150\n" {
		t.Fatalf("expected %q, got %q", "150\n", out)
	}

	_, diag = run(t, ".", "long a = 99999999999999999999;\nprintln(a);\n")
	if diag == nil || diag.Kind != diagnostic.RangeError {
		t.Fatalf("expected RangeError, got %v", diag)
	}
}

func TestByReferenceParameter(t *testing.T) {
	src := "func bump(&v):\n    v += 1;\nendfunc\nn = 10;\nbump(n);\nprintln(n);\n"
	out, diag := run(t, ".", src)
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Error())
	}
	if out != "11\n" {
		t.Fatalf("expected %q, got %q", "11\n", out)
	}

	src = "func bump(&v):\n    v += 1;\nendfunc\nbump(10);\n"
	_, diag = run(t, ".", src)
	if diag == nil || diag.Kind != diagnostic.ReferenceError {
		t.Fatalf("expected ReferenceError, got %v", diag)
	}
}

func TestListMutationAndBounds(t *testing.T) {
	src := "xs = [10, 20, 30];\nxs[1] = 99;\nprintln(xs);\n"
	out, diag := run(t, ".", src)
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Error())
	}
	if out != "[10, 99, 30]\n" {
		t.Fatalf("expected %q, got %q", "[10, 99, 30]\n", out)
	}

	src = "xs = [10, 20, 30];\nxs[5] = 0;\n"
	_, diag = run(t, ".", src)
	if diag == nil || diag.Kind != diagnostic.RangeError {
		t.Fatalf("expected RangeError, got %v", diag)
	}
}

func TestObjectPath(t *testing.T) {
	src := `user = { name: "ada", age: 30 };` + "\nuser.age += 1;\nprintln(user);\n"
	out, diag := run(t, ".", src)
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Error())
	}
	want := `{name: "ada", age: 31}` + "\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestTryCatch(t *testing.T) {
	src := "try:\n    x = y + 1;\ncatch(err):\n    println(\"caught: \" + err);\nendtry\n"
	out, diag := run(t, ".", src)
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Error())
	}
	if !strings.HasPrefix(out, "caught: ") {
		t.Fatalf("expected output to start with 'caught: ', got %q", out)
	}
}

func TestReturnInsideTryDefeatsCatch(t *testing.T) {
	src := "func f():\n    try:\n        return 42;\n    catch(err):\n        return 0;\n    endtry\nendfunc\nprintln(f());\n"
	out, diag := run(t, ".", src)
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Error())
	}
	if out != "42\n" {
		t.Fatalf("expected %q, got %q", "42\n", out)
	}
}

func TestModuleAndMath(t *testing.T) {
	out, diag := run(t, ".", "import math;\nprintln(sum(2, 3));\n")
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Error())
	}
	if out != "5\n" {
		t.Fatalf("expected %q, got %q", "5\n", out)
	}

	_, diag = run(t, ".", "println(sum(2, 3));\n")
	if diag == nil || diag.Kind != diagnostic.NameError {
		t.Fatalf("expected NameError for sum without math import, got %v", diag)
	}
}

func TestModuleImportedOnceRunsTopLevelOnce(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "counter.clot")
	if err := os.WriteFile(modPath, []byte("count = 0;\ncount += 1;\n"), 0o644); err != nil {
		t.Fatalf("failed to write module: %v", err)
	}
	src := "import counter;\nimport counter;\nprintln(count);\n"
	out, diag := run(t, dir, src)
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Error())
	}
	if out != "1\n" {
		t.Fatalf("expected module top-level to run exactly once, got %q", out)
	}
}

func TestCircularImportFails(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.clot"), []byte("import b;\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "b.clot"), []byte("import a;\n"), 0o644)
	_, diag := run(t, dir, "import a;\n")
	if diag == nil || diag.Kind != diagnostic.ModuleError {
		t.Fatalf("expected ModuleError for circular import, got %v", diag)
	}
}
