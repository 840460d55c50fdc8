package interpret

import "time"

// Native is a function implemented by the interpreter itself
type Native struct {
	name  string
	arity int
	fn    func(in *Interpreter, args []Value) (Value, error)
}

func (*Native) value() {}

func (n *Native) Arity() int {
	return n.arity
}

func (n *Native) Call(in *Interpreter, args []Value) (Value, error) {
	return n.fn(in, args)
}

func (n *Native) String() string {
	return "<native fn " + n.name + ">"
}

// clock returns the number of seconds since the Unix epoch
var clock = &Native{
	name:  "clock",
	arity: 0,
	fn: func(_ *Interpreter, _ []Value) (Value, error) {
		return Number(float64(time.Now().UnixMilli()) / 1000), nil
	},
}

func defineBuiltins(globals *Environment) {
	globals.Define(clock.name, clock)
}
