package interpret

import (
	"errors"
	"fmt"
	"io"

	"github.com/chidiwilliams/loxi/ast"
	"github.com/chidiwilliams/loxi/env"
)

// RuntimeError is an error raised while running a program.
// It aborts the top-level statement being executed.
type RuntimeError struct {
	Token   ast.Token
	Message string
}

func (r *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", r.Message, r.Token.Line)
}

type controlKind uint8

const (
	controlNone controlKind = iota
	controlBreak
	controlContinue
	controlReturn
)

// control is the outcome of executing a statement. break, continue and
// return travel up to the loop or call that handles them as a control
// value, separate from runtime errors.
type control struct {
	kind  controlKind
	value Value
}

// Interpreter holds the globals and current execution
// environment for a program to be executed
type Interpreter struct {
	// current execution environment
	environment *Environment
	// global variables
	globals *Environment
	// standard output
	stdOut io.Writer
	// scope distance of each resolved local variable, this and
	// super expression, keyed by node identity
	locals map[ast.Expr]int
}

// NewInterpreter sets up a new interpreter with its environment and config
func NewInterpreter(stdOut io.Writer) *Interpreter {
	globals := env.New[Value](nil)
	defineBuiltins(globals)

	return &Interpreter{
		globals:     globals,
		environment: globals,
		stdOut:      stdOut,
		locals:      make(map[ast.Expr]int),
	}
}

// Globals returns the global environment
func (in *Interpreter) Globals() *Environment {
	return in.globals
}

// Resolve sets the depth of a local variable access
func (in *Interpreter) Resolve(expr ast.Expr, depth int) {
	in.locals[expr] = depth
}

// Interpret executes a list of statements within the interpreter's
// environment. It stops at the first runtime error and returns it;
// definitions made by earlier statements are kept.
func (in *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, statement := range stmts {
		if _, err := in.execute(statement); err != nil {
			in.environment = in.globals
			return err
		}
	}
	return nil
}

// Evaluate evaluates a single top-level expression
func (in *Interpreter) Evaluate(expr ast.Expr) (Value, error) {
	value, err := in.evaluate(expr)
	if err != nil {
		in.environment = in.globals
		return nil, err
	}
	return value, nil
}

func (in *Interpreter) error(token ast.Token, message string) error {
	return &RuntimeError{Token: token, Message: message}
}

func (in *Interpreter) execute(stmt ast.Stmt) (control, error) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		return in.executeBlock(s.Statements, env.New(in.environment))
	case *ast.BreakStmt:
		return control{kind: controlBreak}, nil
	case *ast.ClassStmt:
		return control{}, in.executeClass(s)
	case *ast.ContinueStmt:
		return control{kind: controlContinue}, nil
	case *ast.ExpressionStmt:
		_, err := in.evaluate(s.Expr)
		return control{}, err
	case *ast.ForStmt:
		return in.executeFor(s)
	case *ast.IfStmt:
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return control{}, err
		}
		if Truthy(cond) {
			return in.execute(s.ThenBranch)
		} else if s.ElseBranch != nil {
			return in.execute(s.ElseBranch)
		}
		return control{}, nil
	case *ast.PrintStmt:
		value, err := in.evaluate(s.Expr)
		if err != nil {
			return control{}, err
		}
		_, _ = fmt.Fprintln(in.stdOut, value.String())
		return control{}, nil
	case *ast.ReturnStmt:
		var value Value = Nil{}
		if s.Value != nil {
			var err error
			if value, err = in.evaluate(s.Value); err != nil {
				return control{}, err
			}
		}
		return control{kind: controlReturn, value: value}, nil
	case *ast.VarStmt:
		var value Value = Nil{}
		if s.Initializer != nil {
			var err error
			if value, err = in.evaluate(s.Initializer); err != nil {
				return control{}, err
			}
		}
		in.environment.Define(s.Name.Lexeme, value)
		return control{}, nil
	case *ast.WhileStmt:
		for {
			cond, err := in.evaluate(s.Condition)
			if err != nil {
				return control{}, err
			}
			if !Truthy(cond) {
				return control{}, nil
			}
			if ctrl, done, err := in.executeLoopBody(s.Body); done || err != nil {
				return ctrl, err
			}
		}
	}
	return control{}, fmt.Errorf("unknown statement %T", stmt)
}

// executeBlock executes statements in the given environment and restores
// the current environment when it returns, however it returns
func (in *Interpreter) executeBlock(statements []ast.Stmt, environment *Environment) (control, error) {
	previous := in.environment
	defer func() {
		in.environment = previous
	}()

	in.environment = environment
	for _, statement := range statements {
		ctrl, err := in.execute(statement)
		if err != nil || ctrl.kind != controlNone {
			return ctrl, err
		}
	}
	return control{}, nil
}

// executeLoopBody runs one iteration of a loop. A continue from the body
// ends the iteration only; done is true when the loop must stop, either
// because of a break or because a return is travelling up to its call.
func (in *Interpreter) executeLoopBody(body *ast.BlockStmt) (ctrl control, done bool, err error) {
	ctrl, err = in.execute(body)
	if err != nil {
		return control{}, true, err
	}
	switch ctrl.kind {
	case controlBreak:
		return control{}, true, nil
	case controlReturn:
		return ctrl, true, nil
	}
	return control{}, false, nil
}

func (in *Interpreter) executeFor(stmt *ast.ForStmt) (control, error) {
	// the loop header gets a scope of its own
	previous := in.environment
	defer func() {
		in.environment = previous
	}()
	in.environment = env.New(previous)

	if stmt.Initializer != nil {
		if _, err := in.execute(stmt.Initializer); err != nil {
			return control{}, err
		}
	}

	for {
		cond, err := in.evaluate(stmt.Condition)
		if err != nil {
			return control{}, err
		}
		if !Truthy(cond) {
			return control{}, nil
		}

		if ctrl, done, err := in.executeLoopBody(stmt.Body); done || err != nil {
			return ctrl, err
		}

		if stmt.Increment != nil {
			if _, err := in.evaluate(stmt.Increment); err != nil {
				return control{}, err
			}
		}
	}
}

func (in *Interpreter) executeClass(stmt *ast.ClassStmt) error {
	var superclass *Class
	if stmt.Superclass != nil {
		value, err := in.evaluate(stmt.Superclass)
		if err != nil {
			return err
		}
		var ok bool
		if superclass, ok = value.(*Class); !ok {
			return in.error(stmt.Superclass.Name, "Superclass must be a class.")
		}
	}

	class := &Class{name: stmt.Name.Lexeme, superclass: superclass, methods: make(map[methodKey]*Function, len(stmt.Methods))}
	for _, method := range stmt.Methods {
		class.methods[methodKey{kind: method.Kind, name: method.Name.Lexeme}] = &Function{
			declaration:   method.Function,
			closure:       in.environment,
			isInitializer: method.Kind == ast.MethodInstance && method.Name.Lexeme == "init",
			class:         class,
		}
	}

	in.environment.Define(stmt.Name.Lexeme, class)
	return nil
}

func (in *Interpreter) evaluate(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.AssignExpr:
		value, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := in.locals[e]; ok {
			in.environment.AssignAt(distance, e.Name.Lexeme, value)
		} else if err := in.globals.Assign(e.Name.Lexeme, value); err != nil {
			return nil, in.undefinedVariable(e.Name, err)
		}
		return value, nil
	case *ast.BinaryExpr:
		return in.evaluateBinary(e)
	case *ast.CallExpr:
		return in.evaluateCall(e)
	case *ast.FunctionExpr:
		return &Function{declaration: e, closure: in.environment}, nil
	case *ast.GetExpr:
		object, err := in.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		switch object := object.(type) {
		case *Instance:
			return object.Get(in, e.Name)
		case *Class:
			return object.Get(e.Name)
		}
		return nil, in.error(e.Name, "Only instances have properties.")
	case *ast.GroupingExpr:
		return in.evaluate(e.Expression)
	case *ast.LiteralExpr:
		return fromLiteral(e.Value), nil
	case *ast.LogicalExpr:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Operator.TokenType == ast.TokenOr {
			if Truthy(left) {
				return left, nil
			}
		} else if !Truthy(left) { // and
			return left, nil
		}
		return in.evaluate(e.Right)
	case *ast.SetExpr:
		object, err := in.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*Instance)
		if !ok {
			return nil, in.error(e.Name, "Only instances have fields.")
		}
		value, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(e.Name, value)
		return value, nil
	case *ast.SuperExpr:
		distance := in.locals[e]
		superclass := in.environment.GetAt(distance, "super").(*Class)
		instance := in.environment.GetAt(distance, "this").(*Instance)
		return superclass.property(in, instance, e.Method)
	case *ast.ThisExpr:
		return in.lookupVariable(e.Keyword, e)
	case *ast.UnaryExpr:
		right, err := in.evaluate(e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Operator.TokenType {
		case ast.TokenBang:
			return Bool(!Truthy(right)), nil
		case ast.TokenMinus:
			n, ok := right.(Number)
			if !ok {
				return nil, in.error(e.Operator, "Operand must be a number.")
			}
			return -n, nil
		}
	case *ast.VariableExpr:
		return in.lookupVariable(e.Name, e)
	}
	return nil, fmt.Errorf("unknown expression %T", expr)
}

// lookupVariable returns the value of a variable, from the resolved
// enclosing scope if it is a local, or from the globals otherwise
func (in *Interpreter) lookupVariable(name ast.Token, expr ast.Expr) (Value, error) {
	if distance, ok := in.locals[expr]; ok {
		return in.environment.GetAt(distance, name.Lexeme), nil
	}
	value, err := in.globals.Get(name.Lexeme)
	if err != nil {
		return nil, in.undefinedVariable(name, err)
	}
	return value, nil
}

func (in *Interpreter) undefinedVariable(name ast.Token, err error) error {
	if errors.Is(err, env.ErrUndefined) {
		return in.error(name, fmt.Sprintf("Undefined variable '%s'.", name.Lexeme))
	}
	return err
}

func (in *Interpreter) evaluateCall(expr *ast.CallExpr) (Value, error) {
	callee, err := in.evaluate(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(expr.Arguments))
	for i, arg := range expr.Arguments {
		if args[i], err = in.evaluate(arg); err != nil {
			return nil, err
		}
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, in.error(expr.Paren, "Can only call functions and classes.")
	}

	if len(args) != fn.Arity() {
		return nil, in.error(expr.Paren,
			fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)))
	}

	return fn.Call(in, args)
}

func (in *Interpreter) evaluateBinary(expr *ast.BinaryExpr) (Value, error) {
	left, err := in.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.TokenType {
	case ast.TokenEqualEqual:
		return Bool(Equal(left, right)), nil
	case ast.TokenBangEqual:
		return Bool(!Equal(left, right)), nil
	case ast.TokenPlus:
		if l, ok := left.(String); ok {
			if r, ok := right.(String); ok {
				return l + r, nil
			}
		}
		l, lok := left.(Number)
		r, rok := right.(Number)
		if !lok || !rok {
			return nil, in.error(expr.Operator, "Operands must be two numbers or two strings.")
		}
		return l + r, nil
	}

	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return nil, in.error(expr.Operator, "Operands must be numbers.")
	}

	switch expr.Operator.TokenType {
	case ast.TokenMinus:
		return l - r, nil
	case ast.TokenStar:
		return l * r, nil
	case ast.TokenSlash:
		if r == 0 {
			return nil, in.error(expr.Operator, "Division by zero.")
		}
		return l / r, nil
	case ast.TokenGreater:
		return Bool(l > r), nil
	case ast.TokenGreaterEqual:
		return Bool(l >= r), nil
	case ast.TokenLess:
		return Bool(l < r), nil
	case ast.TokenLessEqual:
		return Bool(l <= r), nil
	}
	return nil, in.error(expr.Operator, "Unknown operator.")
}
