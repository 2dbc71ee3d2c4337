package parser

import (
	"fmt"
	"rite/internal/ast"
	"rite/internal/lexer"
	"rite/internal/token"
	"strconv"
)

// MaxCallArguments bounds argument and parameter lists.
const MaxCallArguments = 255

// Parser is a recursive-descent parser. Precedence is encoded by call
// nesting: parseAssignment -> parseOr -> parseAnd -> parseEquality ->
// parseComparison -> parseTerm -> parseFactor -> parseUnary -> parseCall ->
// parsePrimary. Every parse function leaves curToken on the last token of
// its production.
type Parser struct {
	l      *lexer.Lexer
	src    string // source code, kept for line/column rendering
	errors []string

	curToken  token.Token
	peekToken token.Token
}

func New(l *lexer.Lexer, source string) *Parser {
	p := &Parser{
		l:      l,
		src:    source,
		errors: []string{},
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) addError(message string, args ...interface{}) {
	line, col := GetLineAndColumn(p.src, p.curToken.Position)
	m := fmt.Sprintf(message, args...)
	msg := fmt.Sprintf("[%3d:%2d] %s", line, col, m)
	p.errors = append(p.errors, msg)
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError("expected next token to be %s, got %s instead", t, p.peekToken.Type)
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseDeclaration()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	return program
}

// synchronize skips to the next statement boundary so one bad declaration
// does not drown later diagnostics in follow-on errors.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) || p.curTokenIs(token.RBRACE) {
			return
		}
		switch p.peekToken.Type {
		case token.LET, token.FUNCTION, token.CLASS,
			token.IF, token.WHILE, token.RETURN:
			return
		}
		p.nextToken()
	}
}

func (p *Parser) parseDeclaration() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.FUNCTION:
		// unwrap so a failed parse yields a nil interface, not a typed nil
		if stmt := p.parseFunctionStatement(); stmt != nil {
			return stmt
		}
		return nil
	case token.CLASS:
		return p.parseClassStatement()
	default:
		return p.parseStatement()
	}
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}

	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken() // consume identifier
		p.nextToken() // consume =

		stmt.Value = p.parseExpression()
		if stmt.Value == nil {
			return nil
		}
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

func (p *Parser) parseFunctionStatement() *ast.FunctionStatement {
	stmt := &ast.FunctionStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}

	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	stmt.Parameters = p.parseFunctionParameters()
	if stmt.Parameters == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	stmt.Body = p.parseBlockStatement()

	return stmt
}

func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	parameters := []*ast.Identifier{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return parameters
	}

	p.nextToken()

	for {
		if !p.curTokenIs(token.IDENT) {
			p.addError("expected parameter name, got %s instead", p.curToken.Type)
			return nil
		}
		if len(parameters) >= MaxCallArguments {
			p.addError("can't have more than %d parameters", MaxCallArguments)
			return nil
		}

		parameters = append(parameters, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken() // consume the identifier
		p.nextToken() // consume the comma
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return parameters
}

func (p *Parser) parseClassStatement() ast.Statement {
	stmt := &ast.ClassStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}

	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	for p.peekTokenIs(token.FUNCTION) {
		p.nextToken()
		method := p.parseFunctionStatement()
		if method == nil {
			return nil
		}
		stmt.Methods = append(stmt.Methods, method)
	}

	if !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		p.addError("class bodies may only contain fn declarations")
		return nil
	}
	p.nextToken()

	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	// a bare return yields none
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}
	if p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		return stmt
	}

	p.nextToken()

	stmt.ReturnValue = p.parseExpression()
	if stmt.ReturnValue == nil {
		return nil
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression()
	if stmt.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	stmt.ThenBranch = p.parseBlockStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()

		if p.peekTokenIs(token.IF) {
			p.nextToken()
			elseIf := p.parseIfStatement()
			if elseIf == nil {
				return nil
			}
			stmt.ElseBranch = elseIf
		} else if !p.expectPeek(token.LBRACE) {
			return nil
		} else {
			stmt.ElseBranch = p.parseBlockStatement()
		}
	}

	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression()
	if stmt.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	stmt.Body = p.parseBlockStatement()

	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseDeclaration()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.synchronize()
			// a '}' here closes this block, it is not ours to consume
			if p.curTokenIs(token.RBRACE) || p.curTokenIs(token.EOF) {
				break
			}
		}
		p.nextToken()
	}

	if !p.curTokenIs(token.RBRACE) {
		p.addError("expected '}' to close block")
	}

	return block
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression()
	if stmt.Expression == nil {
		return nil
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

// parseAssignment parses a full expression first, then checks whether it
// reduces to a valid assignment target when '=' follows. Assignment is
// right-associative.
func (p *Parser) parseAssignment() ast.Expression {
	expr := p.parseOr()
	if expr == nil {
		return nil
	}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken() // curToken is now '='
		assignTok := p.curToken

		switch expr.(type) {
		case *ast.Identifier, *ast.PropertyExpression:
		default:
			p.addError("invalid assignment target")
			return nil
		}

		p.nextToken()
		value := p.parseAssignment()
		if value == nil {
			return nil
		}

		return &ast.AssignExpression{Token: assignTok, Target: expr, Value: value}
	}

	return expr
}

func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()
	if left == nil {
		return nil
	}

	for p.peekTokenIs(token.OR) {
		p.nextToken()
		opTok := p.curToken
		p.nextToken()

		right := p.parseAnd()
		if right == nil {
			return nil
		}
		left = &ast.LogicalExpression{Token: opTok, Left: left, Operator: opTok.Literal, Right: right}
	}

	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseEquality()
	if left == nil {
		return nil
	}

	for p.peekTokenIs(token.AND) {
		p.nextToken()
		opTok := p.curToken
		p.nextToken()

		right := p.parseEquality()
		if right == nil {
			return nil
		}
		left = &ast.LogicalExpression{Token: opTok, Left: left, Operator: opTok.Literal, Right: right}
	}

	return left
}

// parseEquality handles 'is' (equal) and binary 'not' (unequal).
func (p *Parser) parseEquality() ast.Expression {
	left := p.parseComparison()
	if left == nil {
		return nil
	}

	for p.peekTokenIs(token.IS) || p.peekTokenIs(token.NOT) {
		p.nextToken()
		opTok := p.curToken
		p.nextToken()

		right := p.parseComparison()
		if right == nil {
			return nil
		}
		left = &ast.InfixExpression{Token: opTok, Left: left, Operator: opTok.Literal, Right: right}
	}

	return left
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseTerm()
	if left == nil {
		return nil
	}

	for p.peekTokenIs(token.LT) || p.peekTokenIs(token.LT_EQ) ||
		p.peekTokenIs(token.GT) || p.peekTokenIs(token.GT_EQ) {
		p.nextToken()
		opTok := p.curToken
		p.nextToken()

		right := p.parseTerm()
		if right == nil {
			return nil
		}
		left = &ast.InfixExpression{Token: opTok, Left: left, Operator: opTok.Literal, Right: right}
	}

	return left
}

func (p *Parser) parseTerm() ast.Expression {
	left := p.parseFactor()
	if left == nil {
		return nil
	}

	for p.peekTokenIs(token.PLUS) || p.peekTokenIs(token.MINUS) {
		p.nextToken()
		opTok := p.curToken
		p.nextToken()

		right := p.parseFactor()
		if right == nil {
			return nil
		}
		left = &ast.InfixExpression{Token: opTok, Left: left, Operator: opTok.Literal, Right: right}
	}

	return left
}

func (p *Parser) parseFactor() ast.Expression {
	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for p.peekTokenIs(token.ASTERISK) || p.peekTokenIs(token.SLASH) {
		p.nextToken()
		opTok := p.curToken
		p.nextToken()

		right := p.parseUnary()
		if right == nil {
			return nil
		}
		left = &ast.InfixExpression{Token: opTok, Left: left, Operator: opTok.Literal, Right: right}
	}

	return left
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.curToken.Type {
	case token.BANG, token.NOT, token.MINUS:
		expression := &ast.PrefixExpression{
			Token:    p.curToken,
			Operator: p.curToken.Literal,
		}

		p.nextToken()

		expression.Right = p.parseUnary()
		if expression.Right == nil {
			return nil
		}

		return expression
	}

	return p.parseCall()
}

// parseCall parses a primary expression followed by any number of call and
// property-access suffixes.
func (p *Parser) parseCall() ast.Expression {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	for {
		switch {
		case p.peekTokenIs(token.LPAREN):
			p.nextToken()
			callTok := p.curToken
			args := p.parseCallArguments()
			if args == nil {
				return nil
			}
			expr = &ast.CallExpression{Token: callTok, Function: expr, Arguments: args}

		case p.peekTokenIs(token.PERIOD):
			p.nextToken()
			dotTok := p.curToken
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			expr = &ast.PropertyExpression{
				Token:  dotTok,
				Object: expr,
				Name:   &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
			}

		default:
			return expr
		}
	}
}

func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	p.nextToken()
	first := p.parseExpression()
	if first == nil {
		return nil
	}
	args = append(args, first)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		if len(args) >= MaxCallArguments {
			p.addError("can't have more than %d arguments", MaxCallArguments)
			return nil
		}
		arg := p.parseExpression()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.curToken.Type {
	case token.IDENT:
		return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	case token.NUMBER:
		lit := &ast.NumberLiteral{Token: p.curToken}

		value, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			p.addError("could not parse %q as number", p.curToken.Literal)
			return nil
		}

		lit.Value = value
		return lit

	case token.STRING:
		return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}

	case token.TRUE, token.FALSE:
		return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}

	case token.NONE:
		return &ast.None{Token: p.curToken}

	case token.THIS:
		return &ast.This{Token: p.curToken}

	case token.LPAREN:
		p.nextToken()

		expr := p.parseExpression()
		if expr == nil {
			return nil
		}

		if !p.expectPeek(token.RPAREN) {
			return nil
		}

		return expr

	default:
		p.addError("unexpected token %s in expression", p.curToken.Type)
		return nil
	}
}

// GetLineAndColumn maps a byte offset to a 1-based line and column.
func GetLineAndColumn(src string, pos int) (line int, column int) {
	line = 1
	column = 1
	for i, char := range src {
		if i >= pos {
			break
		}
		if char == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return
}
