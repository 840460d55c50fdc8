package interpret

import (
	"github.com/chidiwilliams/loxi/ast"
	"github.com/chidiwilliams/loxi/env"
)

// Function is a user-defined function or method with the
// environment it closes over
type Function struct {
	declaration   *ast.FunctionExpr
	closure       *Environment
	isInitializer bool
	// class is the class declaring the function, if it's a method
	class *Class
}

func (*Function) value() {}

func (f *Function) Arity() int {
	return len(f.declaration.Params)
}

// Call runs the function body in a new environment enclosed by the
// closure, with the parameters bound to args. An initializer always
// returns the instance it is bound to.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	environment := env.New(f.closure)
	for i, param := range f.declaration.Params {
		environment.Define(param.Lexeme, args[i])
	}

	ctrl, err := in.executeBlock(f.declaration.Body.Statements, environment)
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	if ctrl.kind == controlReturn {
		return ctrl.value, nil
	}
	return Nil{}, nil
}

// bind returns the method bound to an instance. The bound environment
// holds "this" and, for methods of a subclass, "super".
func (f *Function) bind(instance *Instance) *BoundMethod {
	environment := env.New(f.closure)
	environment.Define("this", instance)
	if f.class != nil && f.class.superclass != nil {
		environment.Define("super", f.class.superclass)
	}
	return &BoundMethod{
		Receiver: instance,
		method:   &Function{declaration: f.declaration, closure: environment, isInitializer: f.isInitializer, class: f.class},
	}
}

// bindClass returns a class method ready to be called. Class methods
// have no receiver but keep the same scope layout as instance methods.
func (f *Function) bindClass() *Function {
	return &Function{declaration: f.declaration, closure: env.New(f.closure), class: f.class}
}

func (f *Function) String() string {
	if f.declaration.Name == nil {
		return "<fn>"
	}
	return "<fn " + f.declaration.Name.Lexeme + ">"
}

// BoundMethod is an instance method with its receiver fixed
type BoundMethod struct {
	Receiver *Instance
	method   *Function
}

func (*BoundMethod) value() {}

func (b *BoundMethod) Arity() int {
	return b.method.Arity()
}

func (b *BoundMethod) Call(in *Interpreter, args []Value) (Value, error) {
	return b.method.Call(in, args)
}

func (b *BoundMethod) String() string {
	return b.method.String()
}
