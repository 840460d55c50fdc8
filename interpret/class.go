package interpret

import (
	"fmt"

	"github.com/chidiwilliams/loxi/ast"
)

type methodKey struct {
	kind ast.MethodKind
	name string
}

// Class is a class value. Calling it creates a new instance.
type Class struct {
	name       string
	superclass *Class
	methods    map[methodKey]*Function
}

func (*Class) value() {}

// Name returns the declared name of the class
func (c *Class) Name() string {
	return c.name
}

// Arity returns the arity of the class's initializer
func (c *Class) Arity() int {
	if initializer := c.findMethod(ast.MethodInstance, "init"); initializer != nil {
		return initializer.Arity()
	}
	return 0
}

// Call creates a new instance and runs its initializer, if any
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	instance := &Instance{class: c, fields: make(map[string]Value)}
	if initializer := c.findMethod(ast.MethodInstance, "init"); initializer != nil {
		if _, err := initializer.bind(instance).Call(in, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Get returns the class method with the given name
func (c *Class) Get(name ast.Token) (Value, error) {
	if method := c.findMethod(ast.MethodClass, name.Lexeme); method != nil {
		return method.bindClass(), nil
	}
	return nil, &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined property '%s'.", name.Lexeme)}
}

// findMethod looks for a method of the given kind in this class and
// then up the superclass chain. It returns nil if there is none.
func (c *Class) findMethod(kind ast.MethodKind, name string) *Function {
	for class := c; class != nil; class = class.superclass {
		if method, ok := class.methods[methodKey{kind: kind, name: name}]; ok {
			return method
		}
	}
	return nil
}

func (c *Class) String() string {
	return "<class " + c.name + ">"
}

// Instance is an instance of a class
type Instance struct {
	class  *Class
	fields map[string]Value
}

func (*Instance) value() {}

// Get returns the value of the property with the given name. Fields come
// first, then instance methods, then getters. A getter is called right away
// and its result returned.
func (i *Instance) Get(in *Interpreter, name ast.Token) (Value, error) {
	if val, ok := i.fields[name.Lexeme]; ok {
		return val, nil
	}
	return i.class.property(in, i, name)
}

// Set creates or overwrites the field with the given name
func (i *Instance) Set(name ast.Token, value Value) {
	i.fields[name.Lexeme] = value
}

func (i *Instance) String() string {
	return "<instance " + i.class.name + ">"
}

// property looks up a method or getter starting at c and binds it to
// instance. It is shared by instance property reads and super expressions.
func (c *Class) property(in *Interpreter, instance *Instance, name ast.Token) (Value, error) {
	if method := c.findMethod(ast.MethodInstance, name.Lexeme); method != nil {
		return method.bind(instance), nil
	}
	if getter := c.findMethod(ast.MethodGetter, name.Lexeme); getter != nil {
		return getter.bind(instance).Call(in, nil)
	}
	return nil, &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined property '%s'.", name.Lexeme)}
}
