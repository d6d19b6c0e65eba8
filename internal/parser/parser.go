// Package parser implements Clot's recursive-descent, line-driven parser.
// It drives the lexer one line at a time, assembling statements whose
// block forms (if/while/func/try) consume their terminator lines as part
// of themselves, and reports the first error with a precise line/column.
package parser

import (
	"strconv"
	"strings"

	"github.com/jclot/clot/internal/ast"
	"github.com/jclot/clot/internal/diagnostic"
	"github.com/jclot/clot/internal/lexer"
	"github.com/jclot/clot/internal/token"
)

// Precedence levels, low to high, matching the spec's expression grammar.
const (
	lowest = iota
	orPrec
	andPrec
	equality
	comparison
	sum
	product
	prefixPrec
	power
)

var precedences = map[token.Kind]int{
	token.Or:      orPrec,
	token.And:     andPrec,
	token.Eq:      equality,
	token.NotEq:   equality,
	token.Lt:      comparison,
	token.LtEq:    comparison,
	token.Gt:      comparison,
	token.GtEq:    comparison,
	token.Plus:    sum,
	token.Minus:   sum,
	token.Star:    product,
	token.Slash:   product,
	token.Percent: product,
	token.Caret:   power,
}

// parseFailure is the internal panic value used to unwind to the first
// reported error; the parser never attempts recovery.
type parseFailure struct {
	diag *diagnostic.Diagnostic
}

// Parser parses an ordered sequence of source lines into a Program.
type Parser struct {
	lines []string

	lineNo int // 0-based index of the line currently loaded
	tokens []token.Token
	tokPos int
}

// New creates a Parser over lines (without trailing newlines).
func New(lines []string) *Parser {
	return &Parser{lines: lines}
}

// ParseSource splits src on newlines and parses it, for callers that have
// the whole file in memory rather than a pre-split line sequence.
func ParseSource(src string) (*ast.Program, *diagnostic.Diagnostic) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	return New(lines).ParseProgram()
}

// ParseProgram parses the whole line sequence, returning the first error
// encountered (if any) with no attempt at recovery.
func (p *Parser) ParseProgram() (prog *ast.Program, diag *diagnostic.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			if pf, ok := r.(parseFailure); ok {
				prog = nil
				diag = pf.diag
				return
			}
			panic(r)
		}
	}()

	p.loadLine(0)
	p.skipBlankLines()

	program := &ast.Program{}
	for p.lineNo < len(p.lines) {
		program.Statements = append(program.Statements, p.parseStatement())
		p.skipBlankLines()
	}
	return program, nil
}

// ---- line/token plumbing ----

func (p *Parser) loadLine(n int) {
	p.lineNo = n
	if n < len(p.lines) {
		p.tokens = lexer.Tokenize(p.lines[n])
	} else {
		p.tokens = nil
	}
	p.tokPos = 0
}

func (p *Parser) advanceLine() { p.loadLine(p.lineNo + 1) }

func (p *Parser) skipBlankLines() {
	for p.lineNo < len(p.lines) && len(p.tokens) == 0 {
		p.advanceLine()
	}
}

func (p *Parser) curLine() int { return p.lineNo + 1 } // 1-based for diagnostics

func (p *Parser) cur() token.Token {
	if p.tokPos < len(p.tokens) {
		return p.tokens[p.tokPos]
	}
	col := 1
	if n := len(p.lines); p.lineNo < n {
		col = len(p.lines[p.lineNo]) + 1
	}
	return token.Token{Kind: token.EOF, Column: col}
}

func (p *Parser) peek() token.Token {
	if p.tokPos+1 < len(p.tokens) {
		return p.tokens[p.tokPos+1]
	}
	return token.Token{Kind: token.EOF, Column: p.cur().Column + len(p.cur().Lexeme)}
}

func (p *Parser) advanceTok() { p.tokPos++ }

func (p *Parser) fail(kind diagnostic.Kind, format string, args ...interface{}) {
	panic(parseFailure{diag: diagnostic.New(kind, p.curLine(), p.cur().Column, format, args...)})
}

func (p *Parser) expect(kind token.Kind) token.Token {
	if p.cur().Kind != kind {
		p.fail(diagnostic.ParseError, "expected %q, got %q", kind, p.cur().Lexeme)
	}
	tok := p.cur()
	p.advanceTok()
	return tok
}

// expectEOL asserts nothing remains on the line after the statement so far
// parsed (enforces, e.g., "the ')' must be the second-to-last token").
func (p *Parser) expectEOL() {
	if p.cur().Kind != token.EOF {
		p.fail(diagnostic.ParseError, "unexpected trailing token %q", p.cur().Lexeme)
	}
}

// ---- statement dispatch ----

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Kind {
	case token.Print, token.Println:
		return p.parsePrintStatement()
	case token.If:
		return p.parseIfStatement()
	case token.While:
		return p.parseWhileStatement()
	case token.Func:
		return p.parseFuncDecl()
	case token.Import:
		return p.parseImportStatement()
	case token.Return:
		return p.parseReturnStatement()
	case token.Try:
		return p.parseTryStatement()
	case token.Long, token.Byte:
		return p.parseTypedAssignStatement()
	case token.Else, token.Endif, token.Endfunc, token.Endwhile, token.Catch, token.Endtry:
		p.fail(diagnostic.ParseError, "unexpected %q: no matching block is open", p.cur().Lexeme)
		return nil
	default:
		return p.parseAssignMutationOrExprStatement()
	}
}

func (p *Parser) parsePrintStatement() ast.Statement {
	line := p.curLine()
	newline := p.cur().Kind == token.Println
	p.advanceTok()
	p.expect(token.LParen)
	value := p.parseExpression(lowest)
	p.expect(token.RParen)
	p.expect(token.Semicolon)
	p.expectEOL()
	p.advanceLine()
	return &ast.PrintStatement{Value: value, Newline: newline, Line: line}
}

func (p *Parser) parseBlockUntil(terminators ...token.Kind) ([]ast.Statement, token.Kind) {
	var body []ast.Statement
	for {
		p.skipBlankLines()
		if p.lineNo >= len(p.lines) {
			p.fail(diagnostic.ParseError, "unexpected end of input, expected one of %v", kindNames(terminators))
		}
		if containsKind(terminators, p.cur().Kind) {
			return body, p.cur().Kind
		}
		body = append(body, p.parseStatement())
	}
}

func containsKind(kinds []token.Kind, k token.Kind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}

func kindNames(kinds []token.Kind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

func (p *Parser) parseIfStatement() ast.Statement {
	line := p.curLine()
	p.advanceTok() // 'if'
	cond := p.parseExpression(lowest)
	p.expect(token.Colon)
	p.expectEOL()
	p.advanceLine()

	thenBody, term := p.parseBlockUntil(token.Else, token.Endif)

	var elseBody []ast.Statement
	if term == token.Else {
		p.advanceTok() // 'else'
		p.expect(token.Colon)
		p.expectEOL()
		p.advanceLine()
		elseBody, _ = p.parseBlockUntil(token.Endif)
		p.expect(token.Endif)
		p.expectEOL()
		p.advanceLine()
	} else {
		p.expect(token.Endif)
		p.expectEOL()
		p.advanceLine()
	}

	return &ast.IfStatement{Condition: cond, Then: thenBody, Else: elseBody, Line: line}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	line := p.curLine()
	p.advanceTok() // 'while'
	cond := p.parseExpression(lowest)
	p.expect(token.Colon)
	p.expectEOL()
	p.advanceLine()

	body, _ := p.parseBlockUntil(token.Endwhile)
	p.expect(token.Endwhile)
	p.expectEOL()
	p.advanceLine()

	return &ast.WhileStatement{Condition: cond, Body: body, Line: line}
}

func (p *Parser) parseFuncDecl() ast.Statement {
	line := p.curLine()
	p.advanceTok() // 'func'
	name := p.expect(token.Ident).Lexeme
	p.expect(token.LParen)

	var params []ast.Param
	if p.cur().Kind != token.RParen {
		for {
			byRef := false
			if p.cur().Kind == token.Amp {
				byRef = true
				p.advanceTok()
			}
			pname := p.expect(token.Ident).Lexeme
			params = append(params, ast.Param{Name: pname, ByRef: byRef})
			if p.cur().Kind == token.Comma {
				p.advanceTok()
				continue
			}
			break
		}
	}
	p.expect(token.RParen)
	p.expect(token.Colon)
	p.expectEOL()
	p.advanceLine()

	body, _ := p.parseBlockUntil(token.Endfunc)
	p.expect(token.Endfunc)
	p.expectEOL()
	p.advanceLine()

	return &ast.FuncDecl{Name: name, Params: params, Body: body, Line: line}
}

func (p *Parser) parseImportStatement() ast.Statement {
	line := p.curLine()
	p.advanceTok() // 'import'
	name := p.expect(token.Ident).Lexeme
	p.expect(token.Semicolon)
	p.expectEOL()
	p.advanceLine()
	return &ast.ImportStatement{Module: name, Line: line}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	line := p.curLine()
	p.advanceTok() // 'return'
	var value ast.Expression
	if p.cur().Kind != token.Semicolon {
		value = p.parseExpression(lowest)
	}
	p.expect(token.Semicolon)
	p.expectEOL()
	p.advanceLine()
	return &ast.ReturnStatement{Value: value, Line: line}
}

func (p *Parser) parseTryStatement() ast.Statement {
	line := p.curLine()
	p.advanceTok() // 'try'
	p.expect(token.Colon)
	p.expectEOL()
	p.advanceLine()

	tryBody, _ := p.parseBlockUntil(token.Catch)
	p.expect(token.Catch)

	var errName *string
	if p.cur().Kind == token.LParen {
		p.advanceTok()
		name := p.expect(token.Ident).Lexeme
		errName = &name
		p.expect(token.RParen)
	}
	p.expect(token.Colon)
	p.expectEOL()
	p.advanceLine()

	catchBody, _ := p.parseBlockUntil(token.Endtry)
	p.expect(token.Endtry)
	p.expectEOL()
	p.advanceLine()

	return &ast.TryStatement{TryBody: tryBody, ErrName: errName, CatchBody: catchBody, Line: line}
}

func (p *Parser) parseTypedAssignStatement() ast.Statement {
	line := p.curLine()
	kind := ast.DeclLong
	if p.cur().Kind == token.Byte {
		kind = ast.DeclByte
	}
	p.advanceTok()
	name := p.expect(token.Ident).Lexeme
	op := p.expectAssignOp()
	value := p.parseExpression(lowest)
	p.expect(token.Semicolon)
	p.expectEOL()
	p.advanceLine()
	return &ast.AssignStatement{Name: name, Op: op, Kind: kind, Value: value, Line: line}
}

func (p *Parser) expectAssignOp() string {
	switch p.cur().Kind {
	case token.Assign, token.PlusEq, token.MinusEq:
		op := p.cur().Lexeme
		p.advanceTok()
		return op
	}
	p.fail(diagnostic.ParseError, "expected an assignment operator, got %q", p.cur().Lexeme)
	return ""
}

// parseAssignMutationOrExprStatement handles the three statement forms
// that share a common lvalue-or-expression prefix: plain assignment
// (lhs is a bare identifier, possibly dotted), mutation (lhs is an index
// expression), and bare expression statements.
func (p *Parser) parseAssignMutationOrExprStatement() ast.Statement {
	line := p.curLine()
	lhs := p.parseExpression(lowest)

	switch p.cur().Kind {
	case token.Assign, token.PlusEq, token.MinusEq:
		op := p.cur().Lexeme
		p.advanceTok()
		value := p.parseExpression(lowest)
		p.expect(token.Semicolon)
		p.expectEOL()
		p.advanceLine()

		switch target := lhs.(type) {
		case *ast.Identifier:
			return &ast.AssignStatement{Name: target.Name, Op: op, Kind: ast.DeclInferred, Value: value, Line: line}
		case *ast.IndexExpression:
			return &ast.MutationStatement{Target: target, Op: op, Value: value, Line: line}
		default:
			p.fail(diagnostic.ParseError, "invalid assignment target")
			return nil
		}
	default:
		p.expect(token.Semicolon)
		p.expectEOL()
		p.advanceLine()
		return &ast.ExpressionStatement{Expr: lhs, Line: line}
	}
}

// ---- expressions ----

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.cur().Kind]; ok {
		return prec
	}
	return lowest
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parseUnary()

	for p.cur().Kind != token.EOF && precedence < p.peekPrecedence() {
		op := p.cur()
		opLine := p.curLine()
		p.advanceTok()
		var right ast.Expression
		if op.Kind == token.Caret {
			right = p.parseExpression(power - 1) // right-associative
		} else {
			right = p.parseExpression(precedences[op.Kind])
		}
		left = &ast.BinaryExpression{Operator: op.Lexeme, Left: left, Right: right, Line: opLine}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.cur().Kind {
	case token.Plus, token.Minus, token.Bang:
		op := p.cur()
		opLine := p.curLine()
		p.advanceTok()
		right := p.parseExpression(prefixPrec)
		return &ast.UnaryExpression{Operator: op.Lexeme, Right: right, Line: opLine}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expression {
	atom := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.LParen:
			atom = p.parseCallArgs(atom)
		case token.LBracket:
			atom = p.parseIndex(atom)
		default:
			return atom
		}
	}
}

func (p *Parser) parseCallArgs(callee ast.Expression) ast.Expression {
	line := p.curLine()
	p.advanceTok() // '('
	var args []ast.CallArg
	if p.cur().Kind != token.RParen {
		for {
			byRef := false
			if p.cur().Kind == token.Amp {
				byRef = true
				p.advanceTok()
			}
			expr := p.parseExpression(lowest)
			args = append(args, ast.CallArg{Expr: expr, ByRef: byRef})
			if p.cur().Kind == token.Comma {
				p.advanceTok()
				continue
			}
			break
		}
	}
	p.expect(token.RParen)
	return &ast.CallExpression{Callee: callee, Args: args, Line: line}
}

func (p *Parser) parseIndex(collection ast.Expression) ast.Expression {
	line := p.curLine()
	p.advanceTok() // '['
	idx := p.parseExpression(lowest)
	p.expect(token.RBracket)
	return &ast.IndexExpression{Collection: collection, Index: idx, Line: line}
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()
	switch tok.Kind {
	case token.Number:
		p.advanceTok()
		return parseNumberLiteral(tok.Lexeme)
	case token.String:
		p.advanceTok()
		return &ast.StringLiteral{Value: tok.Lexeme}
	case token.Bool:
		p.advanceTok()
		return &ast.BooleanLiteral{Value: tok.Lexeme == "true"}
	case token.Ident:
		p.advanceTok()
		return &ast.Identifier{Name: tok.Lexeme, Line: p.curLine()}
	case token.LParen:
		p.advanceTok()
		inner := p.parseExpression(lowest)
		p.expect(token.RParen)
		return inner
	case token.LBracket:
		return p.parseListLiteral()
	case token.LBrace:
		return p.parseObjectLiteral()
	}
	p.fail(diagnostic.ParseError, "unexpected token %q", tok.Lexeme)
	return nil
}

func parseNumberLiteral(lexeme string) *ast.NumberLiteral {
	if !strings.Contains(lexeme, ".") {
		if n, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
			return &ast.NumberLiteral{Value: float64(n), IsInt: true, IntValue: n}
		}
	}
	f, _ := strconv.ParseFloat(lexeme, 64)
	return &ast.NumberLiteral{Value: f, IsInt: false}
}

func (p *Parser) parseListLiteral() ast.Expression {
	p.advanceTok() // '['
	var elems []ast.Expression
	if p.cur().Kind != token.RBracket {
		for {
			elems = append(elems, p.parseExpression(lowest))
			if p.cur().Kind == token.Comma {
				p.advanceTok()
				continue
			}
			break
		}
	}
	p.expect(token.RBracket)
	return &ast.ListLiteral{Elements: elems}
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	p.advanceTok() // '{'
	var entries []ast.ObjectEntry
	if p.cur().Kind != token.RBrace {
		for {
			var key string
			switch p.cur().Kind {
			case token.Ident:
				key = p.cur().Lexeme
				p.advanceTok()
			case token.String:
				key = p.cur().Lexeme
				p.advanceTok()
			default:
				p.fail(diagnostic.ParseError, "expected object key, got %q", p.cur().Lexeme)
			}
			p.expect(token.Colon)
			value := p.parseExpression(lowest)
			entries = append(entries, ast.ObjectEntry{Key: key, Value: value})
			if p.cur().Kind == token.Comma {
				p.advanceTok()
				continue
			}
			break
		}
	}
	p.expect(token.RBrace)
	return &ast.ObjectLiteral{Entries: entries}
}
