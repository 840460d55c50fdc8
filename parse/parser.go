package parse

import (
	"github.com/chidiwilliams/loxi/ast"
	"github.com/chidiwilliams/loxi/report"
)

const maxArgs = 255

// parseError unwinds the parser to the enclosing
// declaration, which then synchronizes
type parseError struct {
	token   ast.Token
	message string
}

func (p parseError) Error() string {
	return p.message
}

// context tracks how many loops and functions enclose the statement being
// parsed. It is passed down by value so nested constructs can't leak their
// counts into the statements that follow them.
type context struct {
	loops     int
	functions int
}

func (c context) inLoop() context {
	c.loops++
	return c
}

// functionBody returns the context for a function body. Loops
// outside the function don't extend into it.
func (c context) functionBody() context {
	return context{functions: c.functions + 1}
}

// Parser parses a flat list of tokens into
// an AST representation of the source program
type Parser struct {
	tokens   []ast.Token
	current  int
	reporter report.Reporter
	hadError bool
}

// NewParser returns a new Parser that reads a list of tokens
func NewParser(tokens []ast.Token, reporter report.Reporter) *Parser {
	return &Parser{tokens: tokens, reporter: reporter}
}

/**
Parser grammar:

	program      => declaration* EOF
	declaration  => classDecl | funDecl | varDecl | statement
	classDecl    => "class" IDENTIFIER ( "<" IDENTIFIER )? "{" method* "}"
	method       => "class"? IDENTIFIER "(" parameters? ")" block
	              | IDENTIFIER block
	funDecl      => "fun" IDENTIFIER "(" parameters? ")" block
	parameters   => IDENTIFIER ( "," IDENTIFIER )*
	varDecl      => "var" IDENTIFIER ( "=" expression )? ";"
	statement    => exprStmt | ifStmt | forStmt | printStmt | returnStmt | whileStmt
	              | breakStmt | continueStmt | block
	exprStmt     => expression ";"
	ifStmt       => "if" "(" expression ")" statement ( "else" statement )?
	forStmt      => "for" "(" ( varDecl | exprStmt | ";" ) expression? ";" expression? ")" statement
	printStmt    => "print" expression ";"
	returnStmt   => "return" expression? ";"
	whileStmt    => "while" "(" expression ")" statement
	breakStmt    => "break" ";"
	continueStmt => "continue" ";"
	block        => "{" declaration* "}"
	expression   => assignment
	assignment   => ( call "." )? IDENTIFIER "=" assignment | logic_or
	logic_or     => logic_and ( "or" logic_and )*
	logic_and    => equality ( "and" equality )*
	equality     => comparison ( ( "!=" | "==" ) comparison )*
	comparison   => term ( ( ">" | ">=" | "<" | "<=" ) term )*
	term         => factor ( ( "+" | "-" ) factor )*
	factor       => unary ( ( "/" | "*" ) unary )*
	unary        => ( "!" | "-" ) unary | call
	call         => primary ( "(" arguments? ")" | "." IDENTIFIER )*
	arguments    => expression ( "," expression )*
	primary      => NUMBER | STRING | "true" | "false" | "nil" | "(" expression ")"
	              | IDENTIFIER | "this" | "super" "." IDENTIFIER | functionExpr
	functionExpr => "fun" "(" parameters? ")" block

*/

// Parse reads the list of tokens and returns a list of statements
// representing the source program. Statements that failed to parse
// are left out of the result.
func (p *Parser) Parse() ([]ast.Stmt, bool) {
	var statements []ast.Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(context{}); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, p.hadError
}

// ParseExpression parses the tokens as a single expression
func (p *Parser) ParseExpression() (expr ast.Expr, hadError bool) {
	defer func() {
		if err := recover(); err != nil {
			if _, ok := err.(parseError); !ok {
				panic(err)
			}
			expr, hadError = nil, true
		}
	}()

	expr = p.expression()
	if !p.isAtEnd() {
		p.error(p.peek(), "Expect end of expression.")
	}
	return expr, p.hadError
}

// declaration parses declaration statements. A declaration statement is a
// class, function or variable declaration or a regular statement. If the
// statement contains a parse error, it skips to the start of the next
// statement and returns nil.
func (p *Parser) declaration(ctx context) (stmt ast.Stmt) {
	defer func() {
		if err := recover(); err != nil {
			// If the error is a parseError, synchronize to
			// the next statement. If not, propagate the panic.
			if _, ok := err.(parseError); !ok {
				panic(err)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	if p.match(ast.TokenClass) {
		return p.classDeclaration()
	}
	if p.check(ast.TokenFun) && p.checkNext(ast.TokenIdentifier) {
		p.advance()
		return p.functionDeclaration(ctx)
	}
	if p.match(ast.TokenVar) {
		return p.varDeclaration()
	}
	return p.statement(ctx)
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(ast.TokenIdentifier, "Expect class name.")

	var superclass *ast.VariableExpr
	if p.match(ast.TokenLess) {
		p.consume(ast.TokenIdentifier, "Expect superclass name.")
		superclass = &ast.VariableExpr{Name: p.previous()}
	}

	p.consume(ast.TokenLeftBrace, "Expect '{' before class body.")

	var methods []ast.Method
	for !p.check(ast.TokenRightBrace) && !p.isAtEnd() {
		methods = append(methods, p.method())
	}

	p.consume(ast.TokenRightBrace, "Expect '}' after class body.")
	return &ast.ClassStmt{Name: name, Superclass: superclass, Methods: methods}
}

// method parses a method in a class body. A leading "class" makes it a
// class method; a name followed directly by a block makes it a getter.
func (p *Parser) method() ast.Method {
	kind := ast.MethodInstance
	if p.match(ast.TokenClass) {
		kind = ast.MethodClass
	}

	name := p.consume(ast.TokenIdentifier, "Expect method name.")
	if kind == ast.MethodInstance && p.check(ast.TokenLeftBrace) {
		kind = ast.MethodGetter
	}

	var params []ast.Token
	if kind != ast.MethodGetter {
		p.consume(ast.TokenLeftParen, "Expect '(' after method name.")
		params = p.parameters()
	}

	p.consume(ast.TokenLeftBrace, "Expect '{' before method body.")
	body := p.block(context{}.functionBody())
	return ast.Method{
		Name:     name,
		Kind:     kind,
		Function: &ast.FunctionExpr{Name: &name, Params: params, Body: body},
	}
}

// functionDeclaration parses a named function into a
// variable declaration initialized with a function literal
func (p *Parser) functionDeclaration(ctx context) ast.Stmt {
	name := p.consume(ast.TokenIdentifier, "Expect function name.")
	p.consume(ast.TokenLeftParen, "Expect '(' after function name.")
	params := p.parameters()
	p.consume(ast.TokenLeftBrace, "Expect '{' before function body.")
	body := p.block(ctx.functionBody())
	return &ast.VarStmt{
		Name:        name,
		Initializer: &ast.FunctionExpr{Name: &name, Params: params, Body: body},
	}
}

// parameters parses a parameter list after its opening
// parenthesis, up to and including the closing one
func (p *Parser) parameters() []ast.Token {
	params := make([]ast.Token, 0)
	if !p.check(ast.TokenRightParen) {
		for {
			if len(params) >= maxArgs {
				p.report(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(ast.TokenIdentifier, "Expect parameter name."))
			if !p.match(ast.TokenComma) {
				break
			}
		}
	}
	p.consume(ast.TokenRightParen, "Expect ')' after parameters.")
	return params
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(ast.TokenIdentifier, "Expect variable name.")
	var initializer ast.Expr
	if p.match(ast.TokenEqual) {
		initializer = p.expression()
	}
	p.consume(ast.TokenSemicolon, "Expect ';' after variable declaration.")
	return &ast.VarStmt{Name: name, Initializer: initializer}
}

// statement parses statements. A statement can be a print, if, while,
// for, break, continue, return, block or expression statement.
func (p *Parser) statement(ctx context) ast.Stmt {
	switch {
	case p.match(ast.TokenPrint):
		return p.printStatement()
	case p.match(ast.TokenLeftBrace):
		return p.block(ctx)
	case p.match(ast.TokenIf):
		return p.ifStatement(ctx)
	case p.match(ast.TokenWhile):
		return p.whileStatement(ctx)
	case p.match(ast.TokenFor):
		return p.forStatement(ctx)
	case p.match(ast.TokenBreak):
		keyword := p.previous()
		if ctx.loops == 0 {
			p.report(keyword, "Can't use 'break' outside of a loop.")
		}
		p.consume(ast.TokenSemicolon, "Expect ';' after 'break'.")
		return &ast.BreakStmt{Keyword: keyword}
	case p.match(ast.TokenContinue):
		keyword := p.previous()
		if ctx.loops == 0 {
			p.report(keyword, "Can't use 'continue' outside of a loop.")
		}
		p.consume(ast.TokenSemicolon, "Expect ';' after 'continue'.")
		return &ast.ContinueStmt{Keyword: keyword}
	case p.match(ast.TokenReturn):
		return p.returnStatement(ctx)
	}
	return p.expressionStatement()
}

// body parses the body of an if, while or for statement. A body
// without braces is wrapped in a block of its own and must not be
// a declaration.
func (p *Parser) body(ctx context, owner string) *ast.BlockStmt {
	if p.match(ast.TokenLeftBrace) {
		return p.block(ctx)
	}

	start := p.peek()
	stmt := p.declaration(ctx)
	if stmt == nil {
		return ast.NewBlock(nil)
	}
	block := ast.NewBlock([]ast.Stmt{stmt})
	if block.HasDeclarations() {
		p.report(start, "Can't declare a name in the body of '"+owner+"' without braces.")
	}
	return block
}

func (p *Parser) forStatement(ctx context) ast.Stmt {
	p.consume(ast.TokenLeftParen, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	if p.match(ast.TokenSemicolon) {
		initializer = nil
	} else if p.match(ast.TokenVar) {
		initializer = p.varDeclaration()
	} else {
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(ast.TokenSemicolon) {
		condition = p.expression()
	}
	p.consume(ast.TokenSemicolon, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(ast.TokenRightParen) {
		increment = p.expression()
	}
	p.consume(ast.TokenRightParen, "Expect ')' after for clauses.")

	if condition == nil {
		condition = &ast.LiteralExpr{Value: true}
	}
	body := p.body(ctx.inLoop(), "for")

	return &ast.ForStmt{Initializer: initializer, Condition: condition, Increment: increment, Body: body}
}

func (p *Parser) printStatement() ast.Stmt {
	expr := p.expression()
	p.consume(ast.TokenSemicolon, "Expect ';' after value.")
	return &ast.PrintStmt{Expr: expr}
}

func (p *Parser) returnStatement(ctx context) ast.Stmt {
	keyword := p.previous()
	if ctx.functions == 0 {
		p.report(keyword, "Can't return from top-level code.")
	}

	var value ast.Expr
	if !p.check(ast.TokenSemicolon) {
		value = p.expression()
	}
	p.consume(ast.TokenSemicolon, "Expect ';' after return value.")
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

// block parses the statements of a block
// after its opening brace has been consumed
func (p *Parser) block(ctx context) *ast.BlockStmt {
	var statements []ast.Stmt
	for !p.check(ast.TokenRightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(ctx); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.consume(ast.TokenRightBrace, "Expect '}' after block.")
	return ast.NewBlock(statements)
}

func (p *Parser) ifStatement(ctx context) ast.Stmt {
	p.consume(ast.TokenLeftParen, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(ast.TokenRightParen, "Expect ')' after if condition.")

	thenBranch := p.body(ctx, "if")
	var elseBranch ast.Stmt
	if p.match(ast.TokenElse) {
		elseBranch = p.body(ctx, "else")
	}

	return &ast.IfStmt{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (p *Parser) whileStatement(ctx context) ast.Stmt {
	p.consume(ast.TokenLeftParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(ast.TokenRightParen, "Expect ')' after while condition.")
	body := p.body(ctx.inLoop(), "while")
	return &ast.WhileStmt{Condition: condition, Body: body}
}

// expressionStatement parses expression statements
func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(ast.TokenSemicolon, "Expect ';' after expression.")
	return &ast.ExpressionStmt{Expr: expr}
}

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(ast.TokenEqual) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.VariableExpr:
			return &ast.AssignExpr{Name: target.Name, Value: value}
		case *ast.GetExpr:
			return &ast.SetExpr{Object: target.Object, Name: target.Name, Value: value}
		}
		p.report(equals, "Invalid assignment target.")
	}

	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()

	for p.match(ast.TokenOr) {
		operator := p.previous()
		right := p.and()
		expr = &ast.LogicalExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()

	for p.match(ast.TokenAnd) {
		operator := p.previous()
		right := p.equality()
		expr = &ast.LogicalExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()

	for p.match(ast.TokenBangEqual, ast.TokenEqualEqual) {
		operator := p.previous()
		right := p.comparison()
		expr = &ast.BinaryExpr{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()

	for p.match(ast.TokenGreater, ast.TokenGreaterEqual, ast.TokenLess, ast.TokenLessEqual) {
		operator := p.previous()
		right := p.term()
		expr = &ast.BinaryExpr{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()

	for p.match(ast.TokenMinus, ast.TokenPlus) {
		operator := p.previous()
		right := p.factor()
		expr = &ast.BinaryExpr{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()

	for p.match(ast.TokenSlash, ast.TokenStar) {
		operator := p.previous()
		right := p.unary()
		expr = &ast.BinaryExpr{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(ast.TokenBang, ast.TokenMinus) {
		operator := p.previous()
		right := p.unary()
		return &ast.UnaryExpr{Operator: operator, Right: right}
	}

	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		if p.match(ast.TokenLeftParen) {
			expr = p.finishCall(expr)
		} else if p.match(ast.TokenDot) {
			name := p.consume(ast.TokenIdentifier, "Expect property name after '.'.")
			expr = &ast.GetExpr{Object: expr, Name: name}
		} else {
			break
		}
	}

	return expr
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	args := make([]ast.Expr, 0)
	if !p.check(ast.TokenRightParen) {
		for {
			if len(args) >= maxArgs {
				p.report(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(ast.TokenComma) {
				break
			}
		}
	}
	paren := p.consume(ast.TokenRightParen, "Expect ')' after arguments.")
	return &ast.CallExpr{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(ast.TokenFalse):
		return &ast.LiteralExpr{Value: false}
	case p.match(ast.TokenTrue):
		return &ast.LiteralExpr{Value: true}
	case p.match(ast.TokenNil):
		return &ast.LiteralExpr{}
	case p.match(ast.TokenNumber, ast.TokenString):
		return &ast.LiteralExpr{Value: p.previous().Literal}
	case p.match(ast.TokenLeftParen):
		expr := p.expression()
		p.consume(ast.TokenRightParen, "Expect ')' after expression.")
		return &ast.GroupingExpr{Expression: expr}
	case p.match(ast.TokenIdentifier):
		return &ast.VariableExpr{Name: p.previous()}
	case p.match(ast.TokenFun):
		return p.functionExpression()
	case p.match(ast.TokenThis):
		return &ast.ThisExpr{Keyword: p.previous()}
	case p.match(ast.TokenSuper):
		keyword := p.previous()
		p.consume(ast.TokenDot, "Expect '.' after 'super'.")
		method := p.consume(ast.TokenIdentifier, "Expect superclass method name.")
		return &ast.SuperExpr{Keyword: keyword, Method: method}
	}

	p.error(p.peek(), "Expect expression.")
	return nil
}

// functionExpression parses an anonymous function literal
func (p *Parser) functionExpression() ast.Expr {
	p.consume(ast.TokenLeftParen, "Expect '(' after 'fun'.")
	params := p.parameters()
	p.consume(ast.TokenLeftBrace, "Expect '{' before function body.")
	body := p.block(context{}.functionBody())
	return &ast.FunctionExpr{Params: params, Body: body}
}

// consume checks that the next ast.Token is of the given ast.TokenType and then
// advances to the next token. If the check fails, it panics with the given message.
func (p *Parser) consume(tokenType ast.TokenType, message string) ast.Token {
	if p.check(tokenType) {
		return p.advance()
	}
	p.error(p.peek(), message)
	return ast.Token{}
}

// report records a syntax error without unwinding the parser
func (p *Parser) report(token ast.Token, message string) {
	report.TokenError(p.reporter, token, message)
	p.hadError = true
}

// error records a syntax error and unwinds to the enclosing declaration
func (p *Parser) error(token ast.Token, message string) {
	p.report(token, message)
	panic(parseError{token: token, message: message})
}

// synchronize discards tokens until the
// start of the next statement
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().TokenType == ast.TokenSemicolon {
			return
		}

		switch p.peek().TokenType {
		case ast.TokenClass, ast.TokenFor, ast.TokenFun, ast.TokenIf,
			ast.TokenPrint, ast.TokenReturn, ast.TokenVar, ast.TokenWhile,
			ast.TokenBreak, ast.TokenContinue:
			return
		}

		p.advance()
	}
}

func (p *Parser) match(types ...ast.TokenType) bool {
	for _, tokenType := range types {
		if p.check(tokenType) {
			p.advance()
			return true
		}
	}

	return false
}

func (p *Parser) check(tokenType ast.TokenType) bool {
	if p.isAtEnd() {
		return false
	}

	return p.peek().TokenType == tokenType
}

// checkNext is like check but looks one token further ahead
func (p *Parser) checkNext(tokenType ast.TokenType) bool {
	if p.isAtEnd() || p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].TokenType == tokenType
}

func (p *Parser) advance() ast.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().TokenType == ast.TokenEof
}

func (p *Parser) peek() ast.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() ast.Token {
	return p.tokens[p.current-1]
}
