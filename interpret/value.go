package interpret

import (
	"math"
	"strconv"

	"github.com/chidiwilliams/loxi/env"
)

// Value is a runtime value. The set of values is closed: nil, booleans,
// numbers, strings, functions, bound methods, classes, instances and
// native functions.
type Value interface {
	String() string
	value()
}

// Environment is a scope of runtime values
type Environment = env.Environment[Value]

// Callable is a value that can be called with a list of arguments
type Callable interface {
	Value
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
}

type Nil struct{}

type Bool bool

type Number float64

type String string

func (Nil) value()    {}
func (Bool) value()   {}
func (Number) value() {}
func (String) value() {}

func (Nil) String() string { return "nil" }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// String formats the number in its shortest decimal form,
// so whole numbers print without a fractional part
func (n Number) String() string { return strconv.FormatFloat(float64(n), 'f', -1, 64) }

func (s String) String() string { return string(s) }

// epsilon is the tolerance used when comparing numbers for equality
const epsilon = 1e-12

// Truthy returns false for nil and false, and true for everything else
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil, Nil:
		return false
	case Bool:
		return bool(v)
	}
	return true
}

// Equal reports whether two values are equal. Numbers are equal within a
// small tolerance, strings and booleans by value, nil only to nil, and
// every other value only to itself.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		other, ok := b.(Bool)
		return ok && a == other
	case Number:
		other, ok := b.(Number)
		return ok && math.Abs(float64(a-other)) < epsilon
	case String:
		other, ok := b.(String)
		return ok && a == other
	}
	return a == b
}

// fromLiteral converts a literal value held by the syntax tree
func fromLiteral(literal interface{}) Value {
	switch v := literal.(type) {
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case string:
		return String(v)
	}
	return Nil{}
}
