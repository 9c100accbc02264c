// internal/parser/parser.go
package parser

import (
	"strings"

	"vireo/internal/errors"
	"vireo/internal/token"
)

// precedence is deliberately unusual: relational operators sit above
// arithmetic. This is preserved verbatim rather than "fixed", since
// inverting it would change the observable shape of every AST built from a
// mixed expression.
var precedence = map[token.Kind]int{
	token.Star:        19,
	token.Division:    19,
	token.Addition:    18,
	token.Subtraction: 18,
	token.BwAnd:       17,
	token.BwXor:       16,
	token.BwOr:        15,
	token.LowerThan:   29,
	token.GreaterThan: 29,
	token.Equals:      30,
	token.Inequal:     30,
}

// Parser is a recursive-descent parser with single-token lookahead.
type Parser struct {
	tokens  []token.Info
	current int
	history []string // last consumed lexemes, newest last
}

func NewParser(tokens []token.Info) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the whole token slice and returns the top-level statement
// sequence, or the first parse error encountered. Internally the parser
// raises errors via panic to avoid threading an error return through every
// recursive call; Parse recovers at this one boundary.
func (p *Parser) Parse() (stmts []Stmt, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ve, ok := r.(*errors.VireoError); ok {
				err = ve
				return
			}
			panic(r)
		}
	}()
	for !p.check(token.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	return stmts, nil
}

// --- cursor helpers ---

func (p *Parser) peek(offset int) token.Info {
	i := p.current + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}

func (p *Parser) current_() token.Info { return p.peek(0) }

func (p *Parser) check(k token.Kind) bool { return p.current_().Kind == k }

func (p *Parser) checkNext(k token.Kind) bool { return p.peek(1).Kind == k }

func (p *Parser) advance() token.Info {
	t := p.current_()
	if t.Kind != token.EOF {
		p.current++
	}
	p.history = append(p.history, t.Lexeme)
	if len(p.history) > 3 {
		p.history = p.history[len(p.history)-3:]
	}
	return t
}

func (p *Parser) contextTail() string {
	return strings.Join(p.history, " ")
}

// consumeAndCheck asserts the current token's kind, advances past it, and
// panics with the given error kind otherwise.
func (p *Parser) consumeAndCheck(k token.Kind, errKind errors.Kind) token.Info {
	if !p.check(k) {
		p.fail(errKind, string(p.current_().Kind))
	}
	return p.advance()
}

func (p *Parser) fail(kind errors.Kind, detail string) {
	panic(errors.NewParseError(kind, detail, p.current_().Start, p.contextTail()))
}

// --- statements ---

func (p *Parser) parseStatement() Stmt {
	switch p.current_().Kind {
	case token.Let:
		return p.parseLet()
	case token.If:
		return p.parseIf()
	case token.LBrace:
		return p.parseBlock()
	case token.While:
		return p.parseWhile()
	case token.Fn:
		return p.parseFuncDecl()
	case token.For:
		return p.parseFor()
	case token.Return:
		return p.parseReturn()
	default:
		return p.parseExpressionStmt()
	}
}

func (p *Parser) parseLet() Stmt {
	start := p.advance().Start // `let`
	mutable := false
	if p.check(token.Mut) {
		p.advance()
		mutable = true
	}
	name := p.consumeAndCheck(token.Identifier, errors.UnexpectedToken)
	var ann *TypeAnnotation
	if p.check(token.Colon) {
		p.advance()
		ann = p.parseTypeAnnotation()
	}
	p.consumeAndCheck(token.Assignment, errors.UnexpectedToken)
	init := p.parseExpression()
	return &LetStmt{Mutable: mutable, Name: name.Lexeme, Annotation: ann, Init: init, Start: start}
}

func (p *Parser) parseIf() Stmt {
	start := p.advance().Start // `if`
	cond := p.parseExpression()
	then := p.parseStatement()
	var elseStmt Stmt
	if p.check(token.Else) {
		p.advance()
		elseStmt = p.parseStatement()
	}
	return &IfStmt{Cond: cond, Then: then, Else: elseStmt, Start: start}
}

func (p *Parser) parseBlock() Stmt {
	start := p.current_().Start
	p.consumeAndCheck(token.LBrace, errors.ExpectedOpeningBrace)
	var stmts []Stmt
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	if !p.check(token.RBrace) {
		p.fail(errors.MissingClosingBrace, "")
	}
	p.advance()
	return &BlockStmt{Stmts: stmts, Start: start}
}

func (p *Parser) parseWhile() Stmt {
	start := p.advance().Start // `while`
	cond := p.parseExpression()
	body := p.parseStatement()
	return &WhileStmt{Cond: cond, Body: body, Start: start}
}

func (p *Parser) parseFor() Stmt {
	start := p.advance().Start // `for`
	ident := p.consumeAndCheck(token.Identifier, errors.InvalidFor)
	var ann *TypeAnnotation
	if p.check(token.Colon) {
		p.advance()
		ann = p.parseTypeAnnotation()
	}
	if !p.check(token.In) {
		p.fail(errors.InvalidFor, "expected 'in'")
	}
	p.advance()
	iterable := p.parseExpression()
	body := p.parseStatement()
	return &ForStmt{Ident: ident.Lexeme, Annotation: ann, Iterable: iterable, Body: body, Start: start}
}

func (p *Parser) parseFuncDecl() Stmt {
	start := p.advance().Start // `fn`
	name := p.consumeAndCheck(token.Identifier, errors.UnexpectedToken)
	var params []Param
	if p.check(token.LParen) {
		p.advance()
		params = p.parseParamList()
		if !p.check(token.RParen) {
			p.fail(errors.MissingClosingParen, "")
		}
		p.advance()
	}
	var retAnn *TypeAnnotation
	if p.check(token.Colon) {
		p.advance()
		retAnn = p.parseTypeAnnotation()
	}
	body := p.parseStatement()
	return &FuncDeclStmt{Name: name.Lexeme, Params: params, ReturnAnnotation: retAnn, Body: body, Start: start}
}

func (p *Parser) parseParamList() []Param {
	var params []Param
	for !p.check(token.RParen) {
		ident := p.consumeAndCheck(token.Identifier, errors.UnexpectedToken)
		var ann *TypeAnnotation
		if p.check(token.Colon) {
			p.advance()
			ann = p.parseTypeAnnotation()
		}
		params = append(params, Param{Identifier: ident.Lexeme, TypeAnnotation: ann})
		if p.check(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return params
}

// startsStatement reports whether kind can begin a statement. Bodies of
// if/while/for are allowed unbraced (parseIf/parseWhile/parseFor all call
// parseStatement directly), so a bare `return` followed immediately by
// another statement — not just `}` or EOF — must still be recognized as
// having no value.
func startsStatement(kind token.Kind) bool {
	switch kind {
	case token.Let, token.If, token.While, token.For, token.Fn, token.Return, token.LBrace:
		return true
	default:
		return false
	}
}

func (p *Parser) parseReturn() Stmt {
	start := p.advance().Start // `return`
	var value Expr
	if !p.check(token.RBrace) && !p.check(token.EOF) && !startsStatement(p.current_().Kind) {
		value = p.parseExpression()
	}
	return &ReturnStmt{Value: value, Start: start}
}

func (p *Parser) parseExpressionStmt() Stmt {
	start := p.current_().Start
	expr := p.parseExpression()
	return &ExpressionStmt{Expr: expr, Start: start}
}

// parseTypeAnnotation parses `IDENT [ < IDENT [ , IDENT ]* > ]?`. The `<`
// and `>` are produced by the tokenizer as LowerThan/GreaterThan; they are
// consumed contextually here since the parser already expects a type.
func (p *Parser) parseTypeAnnotation() *TypeAnnotation {
	base := p.consumeAndCheck(token.Identifier, errors.MissingType)
	var generics []string
	if p.check(token.LowerThan) {
		p.advance()
		for {
			g := p.consumeAndCheck(token.Identifier, errors.MissingType)
			generics = append(generics, g.Lexeme)
			if p.check(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		if !p.check(token.GreaterThan) {
			p.fail(errors.MissingType, "expected closing '>'")
		}
		p.advance()
	}
	return &TypeAnnotation{Base: base.Lexeme, Generics: generics, Start: base.Start}
}

// --- expressions ---

// parseExpression is the grammar's entry point: it parses an assignment
// expression and, if a `..` immediately follows, extends it into a Range.
// Since parsing an assignment expression never needs to backtrack based on
// whether a range follows, this realizes the spec's "bounded checkpoint"
// lookahead without a literal cursor save/restore.
func (p *Parser) parseExpression() Expr {
	start := p.parseAssignment()
	if p.check(token.Range) {
		rangeStart := p.current_().Start
		p.advance()
		end := p.parseAssignment()
		return &Range{StartExpr: start, EndExpr: end, Start: rangeStart}
	}
	return start
}

func (p *Parser) parseAssignment() Expr {
	if p.check(token.Identifier) {
		if p.checkNext(token.Assignment) {
			name := p.advance()
			p.advance() // `=`
			value := p.parseExpression()
			return &Assignment{Target: name.Lexeme, Value: value, Start: name.Start}
		}
		if p.checkNext(token.LBracket) {
			name := p.advance()
			indexExpr := p.parseArrayIndexChain(&Variable{Name: name.Lexeme, Start: name.Start})
			if p.check(token.Assignment) {
				p.advance()
				value := p.parseExpression()
				return &ArrayAssignment{Index: indexExpr, Value: value, Start: name.Start}
			}
			return p.climb(indexExpr, 0)
		}
	}
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(minPrec int) Expr {
	left := p.parseUnary()
	return p.climb(left, minPrec)
}

func (p *Parser) climb(left Expr, minPrec int) Expr {
	for {
		op := p.current_()
		prec, ok := precedence[op.Kind]
		if !ok || prec < minPrec {
			return left
		}
		p.advance()
		// The right-hand side is parsed one precedence level above the
		// operator just consumed, not at its own level: that is what makes
		// the outer loop's `prec >= minPrec` test produce left
		// associativity (`a - b - c` -> `Binary(-, Binary(-, a, b), c)`)
		// instead of a same-precedence operator being swallowed into the
		// right operand.
		right := p.parseBinary(prec + 1)
		left = &Binary{Op: op.Kind, Lexeme: op.Lexeme, Left: left, Right: right, Start: op.Start}
	}
}

func (p *Parser) parseUnary() Expr {
	if p.check(token.Subtraction) || p.check(token.BwNot) {
		op := p.advance()
		operand := p.parseUnary()
		return &Unary{Op: op.Kind, Lexeme: op.Lexeme, Operand: operand, Start: op.Start}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() Expr {
	tok := p.current_()
	switch tok.Kind {
	case token.String:
		p.advance()
		return &String{Lexeme: tok.Lexeme, Start: tok.Start}
	case token.Number:
		p.advance()
		return &Number{Lexeme: tok.Lexeme, Start: tok.Start}
	case token.LParen:
		p.advance()
		inner := p.parseExpression()
		if !p.check(token.RParen) {
			p.fail(errors.MissingClosingParen, "")
		}
		p.advance()
		return &Parenthesized{Inner: inner, Start: tok.Start}
	case token.LBracket:
		p.advance()
		var elements []Expr
		for !p.check(token.RBracket) {
			elements = append(elements, p.parseExpression())
			if p.check(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		if !p.check(token.RBracket) {
			p.fail(errors.UnexpectedToken, string(p.current_().Kind))
		}
		p.advance()
		return &Array{Elements: elements, Start: tok.Start}
	case token.Std:
		p.advance()
		p.consumeAndCheck(token.DoubleColon, errors.UnexpectedToken)
		name := p.consumeAndCheck(token.Identifier, errors.UnexpectedToken)
		p.consumeAndCheck(token.LParen, errors.ExpectedOpeningParen)
		args := p.parseArgList()
		if !p.check(token.RParen) {
			p.fail(errors.MissingClosingParen, "")
		}
		p.advance()
		return &StdCall{Name: name.Lexeme, Args: args, Start: tok.Start}
	case token.Identifier:
		p.advance()
		switch {
		case p.check(token.LParen):
			p.advance()
			args := p.parseArgList()
			if !p.check(token.RParen) {
				p.fail(errors.MissingClosingParen, "")
			}
			p.advance()
			return &Call{Name: tok.Lexeme, Args: args, Start: tok.Start}
		case p.check(token.LBracket):
			return p.parseArrayIndexChain(&Variable{Name: tok.Lexeme, Start: tok.Start})
		default:
			return &Variable{Name: tok.Lexeme, Start: tok.Start}
		}
	default:
		p.fail(errors.UnexpectedToken, string(tok.Kind))
		return nil
	}
}

func (p *Parser) parseArgList() []Expr {
	var args []Expr
	for !p.check(token.RParen) {
		args = append(args, p.parseExpression())
		if p.check(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return args
}

// parseArrayIndexChain parses one or more trailing `[EXPR]` suffixes onto
// base, supporting multi-dimensional indexing (a[i][j]).
func (p *Parser) parseArrayIndexChain(base Expr) *ArrayIndex {
	start := p.current_().Start
	p.consumeAndCheck(token.LBracket, errors.UnexpectedToken)
	index := p.parseExpression()
	if !p.check(token.RBracket) {
		p.fail(errors.UnexpectedToken, string(p.current_().Kind))
	}
	p.advance()
	result := &ArrayIndex{ArrayExpr: base, Index: index, Start: start}
	if p.check(token.LBracket) {
		return p.parseArrayIndexChain(result)
	}
	return result
}
