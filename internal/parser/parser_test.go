package parser

import (
	"testing"

	"github.com/jclot/clot/internal/ast"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, diag := ParseSource(src)
	if diag != nil {
		t.Fatalf("unexpected parse error: %v", diag)
	}
	return prog
}

func TestParsePlainAssignment(t *testing.T) {
	prog := parseOK(t, `x = 5;`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	stmt, ok := prog.Statements[0].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("expected AssignStatement, got %T", prog.Statements[0])
	}
	if stmt.Name != "x" || stmt.Op != "=" || stmt.Kind != ast.DeclInferred {
		t.Fatalf("unexpected assignment shape: %+v", stmt)
	}
}

func TestParseTypedAssignment(t *testing.T) {
	prog := parseOK(t, "long a = 99999999999999999999;")
	stmt := prog.Statements[0].(*ast.AssignStatement)
	if stmt.Kind != ast.DeclLong {
		t.Fatalf("expected DeclLong, got %v", stmt.Kind)
	}
	lit, ok := stmt.Value.(*ast.NumberLiteral)
	if !ok {
		t.Fatalf("expected NumberLiteral, got %T", stmt.Value)
	}
	if lit.IsInt {
		t.Fatalf("expected overflow literal to fall back to float parsing")
	}
}

func TestParseMutationStatement(t *testing.T) {
	prog := parseOK(t, "list[0] = 5;")
	stmt, ok := prog.Statements[0].(*ast.MutationStatement)
	if !ok {
		t.Fatalf("expected MutationStatement, got %T", prog.Statements[0])
	}
	if _, ok := stmt.Target.(*ast.IndexExpression); !ok {
		t.Fatalf("expected IndexExpression target, got %T", stmt.Target)
	}
}

func TestParseCompoundAssign(t *testing.T) {
	prog := parseOK(t, "count += 1;")
	stmt := prog.Statements[0].(*ast.AssignStatement)
	if stmt.Op != "+=" {
		t.Fatalf("expected +=, got %q", stmt.Op)
	}
}

func TestParseExpressionStatement(t *testing.T) {
	prog := parseOK(t, "doSomething();")
	stmt, ok := prog.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", prog.Statements[0])
	}
	if _, ok := stmt.Expr.(*ast.CallExpression); !ok {
		t.Fatalf("expected CallExpression, got %T", stmt.Expr)
	}
}

func TestParseIfElse(t *testing.T) {
	src := "if x > 0:\ny = 1;\nelse:\ny = 2;\nendif\n"
	prog := parseOK(t, src)
	stmt, ok := prog.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected IfStatement, got %T", prog.Statements[0])
	}
	if len(stmt.Then) != 1 || len(stmt.Else) != 1 {
		t.Fatalf("expected one statement in each branch, got then=%d else=%d", len(stmt.Then), len(stmt.Else))
	}
}

func TestParseWhile(t *testing.T) {
	src := "while i < 10:\ni += 1;\nendwhile\n"
	prog := parseOK(t, src)
	stmt, ok := prog.Statements[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("expected WhileStatement, got %T", prog.Statements[0])
	}
	if len(stmt.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(stmt.Body))
	}
}

func TestParseFuncDeclWithByRefParam(t *testing.T) {
	src := "func bump(&x, y):\nx += y;\nreturn;\nendfunc\n"
	prog := parseOK(t, src)
	stmt, ok := prog.Statements[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", prog.Statements[0])
	}
	if stmt.Name != "bump" || len(stmt.Params) != 2 {
		t.Fatalf("unexpected func shape: %+v", stmt)
	}
	if !stmt.Params[0].ByRef || stmt.Params[1].ByRef {
		t.Fatalf("unexpected param byref flags: %+v", stmt.Params)
	}
}

func TestParseTryCatch(t *testing.T) {
	src := "try:\nriskyCall();\ncatch (err):\nprintln(err);\nendtry\n"
	prog := parseOK(t, src)
	stmt, ok := prog.Statements[0].(*ast.TryStatement)
	if !ok {
		t.Fatalf("expected TryStatement, got %T", prog.Statements[0])
	}
	if stmt.ErrName == nil || *stmt.ErrName != "err" {
		t.Fatalf("expected captured error name %q, got %+v", "err", stmt.ErrName)
	}
}

func TestParseImportStatement(t *testing.T) {
	prog := parseOK(t, "import math.utils;")
	stmt, ok := prog.Statements[0].(*ast.ImportStatement)
	if !ok {
		t.Fatalf("expected ImportStatement, got %T", prog.Statements[0])
	}
	if stmt.Module != "math.utils" {
		t.Fatalf("expected dotted module name preserved, got %q", stmt.Module)
	}
}

func TestParsePrecedencePowerRightAssociative(t *testing.T) {
	prog := parseOK(t, "x = 2 ^ 3 ^ 2;")
	stmt := prog.Statements[0].(*ast.AssignStatement)
	bin, ok := stmt.Value.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected BinaryExpression, got %T", stmt.Value)
	}
	// right-associative: 2 ^ (3 ^ 2)
	if _, ok := bin.Right.(*ast.BinaryExpression); !ok {
		t.Fatalf("expected right side to itself be a power expression, got %T", bin.Right)
	}
	if _, ok := bin.Left.(*ast.NumberLiteral); !ok {
		t.Fatalf("expected left side to be a literal, got %T", bin.Left)
	}
}

func TestParseUnaryLooserThanPower(t *testing.T) {
	prog := parseOK(t, "x = -2 ^ 2;")
	stmt := prog.Statements[0].(*ast.AssignStatement)
	unary, ok := stmt.Value.(*ast.UnaryExpression)
	if !ok {
		t.Fatalf("expected unary minus to be the outermost node, got %T", stmt.Value)
	}
	if _, ok := unary.Right.(*ast.BinaryExpression); !ok {
		t.Fatalf("expected -(2 ^ 2), got %T inside unary", unary.Right)
	}
}

func TestParsePostfixBindsTightest(t *testing.T) {
	prog := parseOK(t, "x = -list[0];")
	stmt := prog.Statements[0].(*ast.AssignStatement)
	unary, ok := stmt.Value.(*ast.UnaryExpression)
	if !ok {
		t.Fatalf("expected unary minus outermost, got %T", stmt.Value)
	}
	if _, ok := unary.Right.(*ast.IndexExpression); !ok {
		t.Fatalf("expected -(list[0]), got %T", unary.Right)
	}
}

func TestParseChainedCallAndIndex(t *testing.T) {
	prog := parseOK(t, "x = make()[0];")
	stmt := prog.Statements[0].(*ast.AssignStatement)
	idx, ok := stmt.Value.(*ast.IndexExpression)
	if !ok {
		t.Fatalf("expected IndexExpression, got %T", stmt.Value)
	}
	if _, ok := idx.Collection.(*ast.CallExpression); !ok {
		t.Fatalf("expected call expression as collection, got %T", idx.Collection)
	}
}

func TestParseListAndObjectLiterals(t *testing.T) {
	prog := parseOK(t, `x = {name: "ada", nums: [1, 2, 3]};`)
	stmt := prog.Statements[0].(*ast.AssignStatement)
	obj, ok := stmt.Value.(*ast.ObjectLiteral)
	if !ok {
		t.Fatalf("expected ObjectLiteral, got %T", stmt.Value)
	}
	if len(obj.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(obj.Entries))
	}
	if _, ok := obj.Entries[1].Value.(*ast.ListLiteral); !ok {
		t.Fatalf("expected second entry to be a list literal, got %T", obj.Entries[1].Value)
	}
}

func TestParseInvalidAssignmentTargetFails(t *testing.T) {
	_, diag := ParseSource("5 = x;")
	if diag == nil {
		t.Fatal("expected a parse error for an invalid assignment target")
	}
}

func TestParseUnterminatedIfFails(t *testing.T) {
	_, diag := ParseSource("if x > 0:\ny = 1;\n")
	if diag == nil {
		t.Fatal("expected a parse error for an unterminated if block")
	}
}

func TestParseStrayEndifFails(t *testing.T) {
	_, diag := ParseSource("endif\n")
	if diag == nil {
		t.Fatal("expected a parse error for a stray endif")
	}
}

func TestParseTrailingTokenFails(t *testing.T) {
	_, diag := ParseSource("x = 5; y = 6;")
	if diag == nil {
		t.Fatal("expected a parse error for two statements on one line")
	}
}
