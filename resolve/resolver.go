package resolve

import (
	"github.com/chidiwilliams/loxi/ast"
	"github.com/chidiwilliams/loxi/report"
)

// Locals receives the resolved distance of every local
// variable, this and super expression
type Locals interface {
	Resolve(expr ast.Expr, depth int)
}

// scope describes the local variables declared in a block.
// A variable maps to true once its initializer has been resolved.
type scope map[string]bool

type scopes []scope

func (s *scopes) peek() scope {
	return (*s)[len(*s)-1]
}

func (s *scopes) push(scope scope) {
	*s = append(*s, scope)
}

func (s *scopes) pop() {
	*s = (*s)[:len(*s)-1]
}

// context is the ambient state of the code being resolved. It is
// passed down by value so it is restored on every return path.
type context struct {
	// inClass is true within the methods of a class
	inClass bool
	// instance is true within instance methods and getters,
	// where "this" refers to the receiver
	instance bool
	// initializer is true within an "init" instance method
	initializer bool
	// derived is true within a class that has a superclass
	derived bool
}

// function returns the context for a plain function nested in the
// current code. It still sees the enclosing class, but it is never
// an initializer itself.
func (c context) function() context {
	c.initializer = false
	return c
}

// Resolver resolves local variables in a program. It reports
// to Locals the scope distance to use each time a local
// variable is accessed in the program.
type Resolver struct {
	locals   Locals
	scopes   scopes
	reporter report.Reporter
	hadError bool
}

// NewResolver returns a new Resolver
func NewResolver(locals Locals, reporter report.Reporter) *Resolver {
	return &Resolver{locals: locals, reporter: reporter}
}

// ResolveStmts resolves all the local variables in a list of statements
func (r *Resolver) ResolveStmts(statements []ast.Stmt) (hadError bool) {
	r.resolveStmts(statements, context{})
	return r.hadError
}

// ResolveExpr resolves the local variables in a top-level expression
func (r *Resolver) ResolveExpr(expr ast.Expr) (hadError bool) {
	r.resolveExpr(expr, context{})
	return r.hadError
}

func (r *Resolver) resolveStmts(statements []ast.Stmt, ctx context) {
	for _, statement := range statements {
		r.resolveStmt(statement, ctx)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt, ctx context) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements, ctx)
		r.endScope()
	case *ast.ClassStmt:
		r.resolveClass(s, ctx)
	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expr, ctx)
	case *ast.ForStmt:
		// the loop header has a scope of its own around the body
		r.beginScope()
		if s.Initializer != nil {
			r.resolveStmt(s.Initializer, ctx)
		}
		r.resolveExpr(s.Condition, ctx)
		if s.Increment != nil {
			r.resolveExpr(s.Increment, ctx)
		}
		r.resolveStmt(s.Body, ctx)
		r.endScope()
	case *ast.IfStmt:
		r.resolveExpr(s.Condition, ctx)
		r.resolveStmt(s.ThenBranch, ctx)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch, ctx)
		}
	case *ast.PrintStmt:
		r.resolveExpr(s.Expr, ctx)
	case *ast.ReturnStmt:
		if s.Value != nil {
			if ctx.initializer {
				r.error(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value, ctx)
		}
	case *ast.VarStmt:
		r.declare(s.Name)
		if fn, ok := s.Initializer.(*ast.FunctionExpr); ok {
			// a function may refer to itself by name
			r.define(s.Name)
			r.resolveFunction(fn, ctx.function())
			return
		}
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer, ctx)
		}
		r.define(s.Name)
	case *ast.WhileStmt:
		r.resolveExpr(s.Condition, ctx)
		r.resolveStmt(s.Body, ctx)
	case *ast.BreakStmt, *ast.ContinueStmt:
	}
}

func (r *Resolver) resolveClass(stmt *ast.ClassStmt, ctx context) {
	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Name.Lexeme == stmt.Superclass.Name.Lexeme {
			r.error(stmt.Superclass.Name, "A class can't inherit from itself.")
		}
		r.resolveExpr(stmt.Superclass, ctx)
	}

	// the receiver and superclass scope shared by every method
	r.beginScope()
	r.scopes.peek()["this"] = true
	if stmt.Superclass != nil {
		r.scopes.peek()["super"] = true
	}

	for _, method := range stmt.Methods {
		methodCtx := ctx
		methodCtx.inClass = true
		methodCtx.derived = stmt.Superclass != nil
		methodCtx.instance = method.Kind != ast.MethodClass
		methodCtx.initializer = method.Kind == ast.MethodInstance && method.Name.Lexeme == "init"
		r.resolveFunction(method.Function, methodCtx)
	}

	r.endScope()
}

// resolveFunction resolves a function body. Parameters and the
// body's statements share a single new scope.
func (r *Resolver) resolveFunction(fn *ast.FunctionExpr, ctx context) {
	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body.Statements, ctx)
	r.endScope()
}

func (r *Resolver) resolveExpr(expr ast.Expr, ctx context) {
	switch e := expr.(type) {
	case *ast.AssignExpr:
		r.resolveExpr(e.Value, ctx)
		r.resolveLocal(e, e.Name)
	case *ast.BinaryExpr:
		r.resolveExpr(e.Left, ctx)
		r.resolveExpr(e.Right, ctx)
	case *ast.CallExpr:
		r.resolveExpr(e.Callee, ctx)
		for _, argument := range e.Arguments {
			r.resolveExpr(argument, ctx)
		}
	case *ast.FunctionExpr:
		r.resolveFunction(e, ctx.function())
	case *ast.GetExpr:
		r.resolveExpr(e.Object, ctx)
	case *ast.GroupingExpr:
		r.resolveExpr(e.Expression, ctx)
	case *ast.LiteralExpr:
	case *ast.LogicalExpr:
		r.resolveExpr(e.Left, ctx)
		r.resolveExpr(e.Right, ctx)
	case *ast.SetExpr:
		r.resolveExpr(e.Value, ctx)
		r.resolveExpr(e.Object, ctx)
	case *ast.SuperExpr:
		switch {
		case !ctx.inClass:
			r.error(e.Keyword, "Can't use 'super' outside of a class.")
		case !ctx.derived:
			r.error(e.Keyword, "Can't use 'super' in a class with no superclass.")
		case !ctx.instance:
			r.error(e.Keyword, "Can't use 'super' in a class method.")
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.ThisExpr:
		switch {
		case !ctx.inClass:
			r.error(e.Keyword, "Can't use 'this' outside of a class.")
		case !ctx.instance:
			r.error(e.Keyword, "Can't use 'this' in a class method.")
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.UnaryExpr:
		r.resolveExpr(e.Right, ctx)
	case *ast.VariableExpr:
		if len(r.scopes) > 0 {
			// declared but not yet defined: we're inside its own initializer
			if defined, declared := r.scopes.peek()[e.Name.Lexeme]; declared && !defined {
				r.error(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	}
}

// beginScope pushes a new scope to the stack
func (r *Resolver) beginScope() {
	r.scopes.push(make(scope))
}

// endScope pops the current scope
func (r *Resolver) endScope() {
	r.scopes.pop()
}

// declare a variable name within the current scope.
// If a variable with the same name is already
// defined in the current scope, it reports an error.
func (r *Resolver) declare(name ast.Token) {
	// globals are not tracked
	if len(r.scopes) == 0 {
		return
	}

	sc := r.scopes.peek()
	if defined := sc[name.Lexeme]; defined {
		r.error(name, "Already a variable with this name in this scope.")
	}
	sc[name.Lexeme] = false
}

// define marks a declared variable as ready for use
func (r *Resolver) define(name ast.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes.peek()[name.Lexeme] = true
}

// resolveLocal resolves a local variable or assignment expression. It
// looks through the scope stack and reports the "depth" of the variable
// to Locals. The depth is the number of scopes between the scope where
// the variable is accessed and the scope where the variable was declared.
// Names that aren't found are left unresolved and treated as globals.
func (r *Resolver) resolveLocal(expr ast.Expr, name ast.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, declared := r.scopes[i][name.Lexeme]; declared {
			r.locals.Resolve(expr, len(r.scopes)-1-i)
			return
		}
	}
}

func (r *Resolver) error(token ast.Token, message string) {
	report.TokenError(r.reporter, token, message)
	r.hadError = true
}
