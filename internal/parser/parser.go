package parser

import (
	"fmt"
	"strconv"

	"kanye-lang/impl/internal/lexer"
)

// Error is returned for the first token that does not fit the grammar.
// Parsing stops there and no partial tree is produced.
type Error struct {
	ExpectedKind  string
	ExpectedValue string
	Actual        lexer.Token
}

func (e *Error) Error() string {
	want := e.ExpectedKind
	switch {
	case e.ExpectedValue != "":
		want = fmt.Sprintf("%s '%s'", e.ExpectedKind, e.ExpectedValue)
	case len(want) == 1:
		want = fmt.Sprintf("'%s'", want)
	}
	if e.Actual.Type == lexer.EOF {
		return fmt.Sprintf("expected %s, got end of input", want)
	}
	return fmt.Sprintf("expected %s, got %s '%s' at position %d", want, e.Actual.Type, e.Actual.Lit, e.Actual.Pos)
}

// AtEOF reports whether parsing failed because the input ended too early.
func (e *Error) AtEOF() bool { return e.Actual.Type == lexer.EOF }

type Parser struct {
	toks []lexer.Token
	i    int
}

func New(toks []lexer.Token) *Parser { return &Parser{toks: toks} }

// Parse is shorthand for New(toks).ParseProgram().
func Parse(toks []lexer.Token) (Program, error) { return New(toks).ParseProgram() }

func (p *Parser) cur() lexer.Token { return p.at(0) }

func (p *Parser) at(off int) lexer.Token {
	j := p.i + off
	if j >= len(p.toks) {
		end := 0
		if len(p.toks) > 0 {
			end = p.toks[len(p.toks)-1].Pos
		}
		return lexer.Token{Type: lexer.EOF, Pos: end}
	}
	return p.toks[j]
}

func (p *Parser) next() lexer.Token {
	t := p.cur()
	if p.i < len(p.toks) {
		p.i++
	}
	return t
}

func (p *Parser) match(typ string) bool {
	if p.cur().Type == typ {
		p.i++
		return true
	}
	return false
}

func (p *Parser) isKeyword(word string) bool {
	t := p.cur()
	return t.Type == lexer.KEYWORD && t.Lit == word
}

func (p *Parser) expect(typ string) (lexer.Token, error) {
	t := p.cur()
	if t.Type != typ {
		return t, &Error{ExpectedKind: typ, Actual: t}
	}
	p.i++
	return t, nil
}

func (p *Parser) expectKeyword(word string) error {
	if !p.isKeyword(word) {
		return &Error{ExpectedKind: lexer.KEYWORD, ExpectedValue: word, Actual: p.cur()}
	}
	p.i++
	return nil
}

// ParseProgram parses `yeezy { ... }` followed by end of input.
func (p *Parser) ParseProgram() (Program, error) {
	if err := p.expectKeyword("yeezy"); err != nil {
		return Program{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return Program{}, err
	}
	if _, err := p.expect(lexer.EOF); err != nil {
		return Program{}, err
	}
	return Program{Body: body, Type: "Program"}, nil
}

// ParseStatements parses a bare statement list running to end of input.
func (p *Parser) ParseStatements() (Block, error) {
	stmts := []Statement{}
	for p.cur().Type != lexer.EOF {
		st, err := p.parseStatement()
		if err != nil {
			return Block{}, err
		}
		stmts = append(stmts, st)
	}
	return Block{Statements: stmts, Type: "Block"}, nil
}

// parseBlock parses '{' Statement* '}'.
func (p *Parser) parseBlock() (Block, error) {
	if _, err := p.expect("{"); err != nil {
		return Block{}, err
	}
	stmts := []Statement{}
	for p.cur().Type != "}" && p.cur().Type != lexer.EOF {
		st, err := p.parseStatement()
		if err != nil {
			return Block{}, err
		}
		stmts = append(stmts, st)
	}
	if _, err := p.expect("}"); err != nil {
		return Block{}, err
	}
	return Block{Statements: stmts, Type: "Block"}, nil
}

func (p *Parser) parseStatement() (Statement, error) {
	t := p.cur()
	if t.Type == lexer.KEYWORD {
		switch t.Lit {
		case "bleached":
			return p.parseVarDecl()
		case "aldi":
			return p.parseVarChange()
		case "spit":
			return p.parseSpit()
		case "repeat":
			return p.parseRepeat()
		case "drip":
			return p.parseIf()
		case "flex":
			return p.parseFunctionDecl()
		case "bounce":
			return p.parseReturn()
		}
	}
	return nil, &Error{ExpectedKind: "statement", Actual: t}
}

// parseBinding handles the shared `KW IDENT KW Expr ;` shape of declarations and changes.
func (p *Parser) parseBinding(lead, sep string) (string, Expr, error) {
	if err := p.expectKeyword(lead); err != nil {
		return "", nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return "", nil, err
	}
	if err := p.expectKeyword(sep); err != nil {
		return "", nil, err
	}
	val, err := p.parseExpression()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return "", nil, err
	}
	return name.Lit, val, nil
}

func (p *Parser) parseVarDecl() (Statement, error) {
	name, val, err := p.parseBinding("bleached", "be")
	if err != nil {
		return nil, err
	}
	return VarDecl{Name: name, Type: "VarDecl", Value: val}, nil
}

func (p *Parser) parseVarChange() (Statement, error) {
	name, val, err := p.parseBinding("aldi", "to")
	if err != nil {
		return nil, err
	}
	return VarChange{Name: name, Type: "VarChange", Value: val}, nil
}

func (p *Parser) parseSpit() (Statement, error) {
	p.next()
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return Spit{Type: "Spit", Value: val}, nil
}

func (p *Parser) parseRepeat() (Statement, error) {
	p.next()
	count, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("times"); err != nil {
		return nil, err
	}
	iterator := ""
	if p.isKeyword("be") {
		p.next()
		id, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		iterator = id.Lit
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return Repeat{Body: body, Count: count, Iterator: iterator, Type: "Repeat"}, nil
}

func (p *Parser) parseIf() (Statement, error) {
	p.next()
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	alt := Block{Statements: []Statement{}, Type: "Block"}
	if p.isKeyword("nah") {
		p.next()
		if alt, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	return IfStatement{Condition: cond, Else: alt, Then: then, Type: "IfStatement"}, nil
}

func (p *Parser) parseFunctionDecl() (Statement, error) {
	p.next()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	params := []string{}
	if !p.match(")") {
		for {
			id, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			params = append(params, id.Lit)
			if p.match(")") {
				break
			}
			if _, err := p.expect(","); err != nil {
				return nil, err
			}
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return FunctionDecl{Body: body, Name: name.Lit, Params: params, Type: "FunctionDecl"}, nil
}

func (p *Parser) parseReturn() (Statement, error) {
	p.next()
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return Return{Type: "Return", Value: val}, nil
}

// parseExpression folds Primary (OPERATOR Primary)* strictly left to right.
// There is a single precedence level: `2 + 3 * 4` is `(2 + 3) * 4`.
func (p *Parser) parseExpression() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lexer.OPERATOR {
		op := p.next().Lit
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = BinaryOp{Left: left, Operator: op, Right: right, Type: "BinaryOp"}
	}
	return left, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	t := p.cur()
	switch t.Type {
	case lexer.STRING:
		p.next()
		return StringLit{Type: "String", Value: t.Lit}, nil
	case lexer.NUMBER:
		p.next()
		v, err := strconv.ParseInt(t.Lit, 10, 64)
		if err != nil {
			return nil, &Error{ExpectedKind: lexer.NUMBER, Actual: t}
		}
		return NumberLit{Type: "Number", Value: v}, nil
	case lexer.KEYWORD:
		if t.Lit == "true" || t.Lit == "false" {
			p.next()
			return BooleanLit{Type: "Boolean", Value: t.Lit == "true"}, nil
		}
	case lexer.IDENT:
		if p.at(1).Type == "(" {
			return p.parseCall()
		}
		p.next()
		return VariableRef{Name: t.Lit, Type: "Var"}, nil
	case "(":
		p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return nil, &Error{ExpectedKind: "expression", Actual: t}
}

func (p *Parser) parseCall() (Expr, error) {
	name := p.next()
	p.next() // (
	args := []Expr{}
	if !p.match(")") {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.match(")") {
				break
			}
			if _, err := p.expect(","); err != nil {
				return nil, err
			}
		}
	}
	return CallExpr{Arguments: args, Name: name.Lit, Type: "CallExpr"}, nil
}
