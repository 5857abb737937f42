// Package parser implements patl's recursive-descent, precedence-layered
// parser (§4.3, §4.4, §4.6, §4.7, and the EBNF in §6), building the
// internal/ast tree.
package parser

import (
	"regexp"

	"github.com/corvidae/patl/internal/ast"
	"github.com/corvidae/patl/lexer"
)

// Parser holds one token of current lookahead plus the lexer that
// produces it. Internally it signals a syntax error by panicking with
// a *ParseError; Parse recovers that panic at the top level so no
// panic ever escapes this package, the same contained-panic style
// Go's own go/parser uses for its recursive descent.
type Parser struct {
	lex *lexer.Lexer

	tok       lexer.Token
	lit       string
	pos       lexer.Position
	tokOffset int // lexer offset just *before* the current token was scanned
}

// Parse parses a complete patl program.
func Parse(src string) (prog *ast.Program, err error) {
	p := &Parser{lex: lexer.New(src)}
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()
	p.next()
	prog = p.parseProgram()
	return prog, nil
}

func (p *Parser) next() {
	p.tokOffset = p.lex.Offset()
	p.pos, p.tok, p.lit = p.lex.Scan()
}

func (p *Parser) fail(format string, args ...interface{}) {
	panic(newError(p.pos.Line, p.pos.Col, format, args...))
}

func (p *Parser) expect(tok lexer.Token) {
	if p.tok != tok {
		p.fail("expected %s, found %q", tok, p.describeCur())
	}
	p.next()
}

func (p *Parser) describeCur() string {
	if p.lit != "" {
		return p.lit
	}
	return p.tok.String()
}

// --- Program ---

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{Functions: map[string]*ast.FunctionDef{}}
	for p.tok != lexer.EOF {
		if p.tok == lexer.FUNCTION {
			fn := p.parseFunction()
			prog.Functions[fn.Name] = fn
			continue
		}
		prog.Items = append(prog.Items, p.parseItem())
	}
	return prog
}

func (p *Parser) parseFunction() *ast.FunctionDef {
	p.expect(lexer.FUNCTION)
	if p.tok != lexer.IDENT {
		p.fail("expected function name, found %q", p.describeCur())
	}
	name := p.lit
	p.next()
	p.expect(lexer.LPAREN)
	var params []string
	for p.tok != lexer.RPAREN {
		if p.tok != lexer.IDENT {
			p.fail("expected parameter name, found %q", p.describeCur())
		}
		params = append(params, p.lit)
		p.next()
		if p.tok == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	body := p.parseAction()
	return &ast.FunctionDef{Name: name, Params: params, Body: body}
}

func (p *Parser) parseItem() ast.Item {
	pattern := p.parsePattern()
	action := p.parseAction()
	return ast.Item{Pattern: pattern, Action: action}
}

func (p *Parser) parsePattern() ast.Pattern {
	switch p.tok {
	case lexer.LBRACE:
		return ast.Pattern{Kind: ast.PatternEverything}
	case lexer.BEGIN:
		p.next()
		return ast.Pattern{Kind: ast.PatternBegin}
	case lexer.END:
		p.next()
		return ast.Pattern{Kind: ast.PatternEnd}
	default:
		return ast.Pattern{Kind: ast.PatternExpr, Expr: p.parseExpr()}
	}
}

// --- Statements ---

func (p *Parser) parseAction() ast.Action {
	p.expect(lexer.LBRACE)
	var stmts ast.Action
	for p.tok != lexer.RBRACE && p.tok != lexer.EOF {
		stmts = append(stmts, p.parseStatement())
		for p.tok == lexer.SEMI {
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	return stmts
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.tok {
	case lexer.PRINT:
		return p.parsePrintStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.DO:
		return p.parseDoWhileStmt()
	default:
		return p.parseSimpleStmt()
	}
}

func (p *Parser) parsePrintStmt() ast.Stmt {
	p.expect(lexer.PRINT)
	p.expect(lexer.LPAREN)
	var args []ast.Expr
	for p.tok != lexer.RPAREN {
		args = append(args, p.parseExpr())
		if p.tok == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	return &ast.PrintStmt{Args: args}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	p.expect(lexer.IF)
	p.expect(lexer.LPAREN)
	cond := p.parseExpr()
	p.expect(lexer.RPAREN)
	then := p.parseAction()
	var els ast.Action
	if p.tok == lexer.ELSE {
		p.next()
		els = p.parseAction()
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	cond := p.parseExpr()
	p.expect(lexer.RPAREN)
	body := p.parseAction()
	return &ast.WhileStmt{Cond: cond, Body: body}
}

func (p *Parser) parseDoWhileStmt() ast.Stmt {
	p.expect(lexer.DO)
	body := p.parseAction()
	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	cond := p.parseExpr()
	p.expect(lexer.RPAREN)
	return &ast.DoWhileStmt{Body: body, Cond: cond}
}

// parseSimpleStmt handles assignment and bare-expression statements.
// An assignable target is itself a full expression (a Variable or
// FieldRef falls straight through every precedence level to a
// primary), so the disambiguation is done after the fact: parse one
// expression, and if it turned out to be Assignable and is followed
// by "=", it's an assignment.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	expr := p.parseExpr()
	if p.tok == lexer.ASSIGN {
		target, ok := expr.(ast.Assignable)
		if !ok {
			p.fail("left-hand side of assignment is not assignable")
		}
		p.next()
		value := p.parseExpr()
		return &ast.AssignStmt{Target: target, Value: value}
	}
	return &ast.ExprStmt{Expr: expr}
}

// --- Expressions ---
//
// Precedence, lowest to highest (§4.3): regex match, ||, &&, !,
// comparison, additive, multiplicative, increment/decrement, primary.
// Each level calls the next.

func (p *Parser) parseExpr() ast.Expr {
	return p.parseRegexMatch()
}

func (p *Parser) parseRegexMatch() ast.Expr {
	left := p.parseOr()
	if p.tok == lexer.MATCH || p.tok == lexer.NMATCH {
		negated := p.tok == lexer.NMATCH
		p.next()
		right := p.parseOr()
		return &ast.RegexMatch{Left: left, Right: right, Negated: negated}
	}
	return left
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.tok == lexer.OR {
		p.next()
		right := p.parseAnd()
		left = &ast.BinaryBool{Left: left, Right: right, Op: ast.Or}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseNot()
	for p.tok == lexer.AND {
		p.next()
		right := p.parseNot()
		left = &ast.BinaryBool{Left: left, Right: right, Op: ast.And}
	}
	return left
}

// parseNot collapses a run of "!" into at most one or two Not nodes
// (see SPEC_FULL.md's "negation collapsing" note): an odd count
// becomes a single Not; an even, nonzero count becomes a double Not
// (still normalizing the result to {0,1}); zero becomes no node at all.
func (p *Parser) parseNot() ast.Expr {
	count := 0
	for p.tok == lexer.NOT {
		count++
		p.next()
	}
	inner := p.parseComparison()
	switch {
	case count == 0:
		return inner
	case count%2 == 1:
		return &ast.Not{Expr: inner}
	default:
		return &ast.Not{Expr: &ast.Not{Expr: inner}}
	}
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for {
		var op ast.CompareOp
		switch p.tok {
		case lexer.LT:
			op = ast.Lt
		case lexer.LE:
			op = ast.Le
		case lexer.GT:
			op = ast.Gt
		case lexer.GE:
			op = ast.Ge
		case lexer.EQ:
			op = ast.Eq
		case lexer.NE:
			op = ast.Ne
		default:
			return left
		}
		p.next()
		right := p.parseAdditive()
		left = &ast.BinaryCompare{Left: left, Right: right, Op: op}
	}
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.tok == lexer.PLUS || p.tok == lexer.MINUS {
		op := ast.Add
		if p.tok == lexer.MINUS {
			op = ast.Sub
		}
		p.next()
		right := p.parseMultiplicative()
		left = &ast.BinaryMath{Left: left, Right: right, Op: op}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseIncrDecr()
	for p.tok == lexer.STAR || p.tok == lexer.SLASH || p.tok == lexer.PCT {
		var op ast.MathOp
		switch p.tok {
		case lexer.STAR:
			op = ast.Mul
		case lexer.SLASH:
			op = ast.Div
		case lexer.PCT:
			op = ast.Mod
		}
		p.next()
		right := p.parseIncrDecr()
		left = &ast.BinaryMath{Left: left, Right: right, Op: op}
	}
	return left
}

// parseIncrDecr implements §4.3's "attempt prefix, then postfix, else
// fall through": a leading ++/-- binds to the primary that follows it;
// otherwise a primary is parsed first and a trailing ++/-- is checked.
func (p *Parser) parseIncrDecr() ast.Expr {
	if p.tok == lexer.INCR || p.tok == lexer.DECR {
		isIncr := p.tok == lexer.INCR
		p.next()
		target := p.parsePrimary()
		assignable, ok := target.(ast.Assignable)
		if !ok {
			p.fail("operand of prefix %s must be a variable or field reference", incrDecrSymbol(isIncr))
		}
		return &ast.Increment{Target: assignable, Prefix: true, Incr: isIncr}
	}

	expr := p.parsePrimary()
	if p.tok == lexer.INCR || p.tok == lexer.DECR {
		isIncr := p.tok == lexer.INCR
		assignable, ok := expr.(ast.Assignable)
		if !ok {
			p.fail("operand of postfix %s must be a variable or field reference", incrDecrSymbol(isIncr))
		}
		p.next()
		return &ast.Increment{Target: assignable, Prefix: false, Incr: isIncr}
	}
	return expr
}

func incrDecrSymbol(isIncr bool) string {
	if isIncr {
		return "++"
	}
	return "--"
}

// parsePrimary handles literals, variables, field references, calls,
// and parenthesized expressions. It is also where the SLASH/regex
// ambiguity is resolved: a SLASH seen here can only start a regex
// literal, since division never appears at the start of a primary.
func (p *Parser) parsePrimary() ast.Expr {
	switch p.tok {
	case lexer.SLASH:
		return p.parseRegexLiteral()
	case lexer.NUMBER:
		return p.parseNumberLiteral()
	case lexer.STRING:
		s := p.lit
		p.next()
		return &ast.StringLit{Value: s}
	case lexer.MINUS, lexer.PLUS:
		return p.parseSignedNumberLiteral()
	case lexer.DOLLAR:
		p.next()
		index := p.parsePrimary()
		return &ast.FieldRef{Index: index}
	case lexer.LPAREN:
		p.next()
		inner := p.parseExpr()
		p.expect(lexer.RPAREN)
		return &ast.Paren{Expr: inner}
	case lexer.IDENT:
		name := p.lit
		p.next()
		if p.tok == lexer.LPAREN {
			return p.parseCallArgs(name)
		}
		return &ast.Variable{Name: name}
	default:
		p.fail("unexpected token %q", p.describeCur())
		return nil
	}
}

func (p *Parser) parseCallArgs(name string) ast.Expr {
	p.expect(lexer.LPAREN)
	var args []ast.Expr
	for p.tok != lexer.RPAREN {
		args = append(args, p.parseExpr())
		if p.tok == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	return &ast.Call{Name: name, Args: args}
}

// parseRegexLiteral rewinds the lexer to just before the SLASH
// lookahead token and re-scans it as a /pattern/ literal, the
// goawk-style cooperating lexer/parser resolution of the
// division-vs-regex ambiguity (see lexer.Lexer.ScanRegex).
func (p *Parser) parseRegexLiteral() ast.Expr {
	p.lex.SetOffset(p.tokOffset)
	pos, _, pattern, err := p.lex.ScanRegex()
	if err != nil {
		panic(newError(pos.Line, pos.Col, "%s", err))
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		p.pos = pos
		p.fail("invalid regex literal /%s/: %s", pattern, err)
	}
	p.next()
	return &ast.RegexLit{Pattern: pattern, Re: re}
}

func (p *Parser) parseNumberLiteral() ast.Expr {
	n, length, ok := ast.ParseNumericLiteral(p.lit)
	if !ok || length != len(p.lit) {
		p.fail("invalid numeric literal %q", p.lit)
	}
	p.next()
	return &ast.NumberLit{Value: n}
}

// parseSignedNumberLiteral handles the optional sign baked into the
// numeric literal pattern itself (§4.1: "[-+]?..."): patl has no
// general unary-minus expression node (it is not among §4.3's node
// kinds), so a leading "-"/"+" is only meaningful directly in front of
// a number literal.
func (p *Parser) parseSignedNumberLiteral() ast.Expr {
	neg := p.tok == lexer.MINUS
	p.next()
	if p.tok != lexer.NUMBER {
		p.fail("expected a numeric literal after unary sign, found %q", p.describeCur())
	}
	text := p.lit
	if neg {
		text = "-" + text
	}
	n, length, ok := ast.ParseNumericLiteral(text)
	if !ok || length != len(text) {
		p.fail("invalid numeric literal %q", text)
	}
	p.next()
	return &ast.NumberLit{Value: n}
}
