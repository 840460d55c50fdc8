package env

import (
	"errors"
	"fmt"
)

// ErrUndefined is returned when retrieving or assigning to an undefined variable
var ErrUndefined = errors.New("undefined variable")

// Environment holds a map of key-value pairs as
// well as a reference to an enclosing environment.
// Environments are shared: every closure created in
// a scope holds a pointer to the same Environment.
type Environment[V any] struct {
	enclosing *Environment[V]
	values    map[string]V
}

// New returns a new environment enclosed by the given environment
func New[V any](enclosing *Environment[V]) *Environment[V] {
	return &Environment[V]{enclosing: enclosing, values: make(map[string]V)}
}

// Enclosing returns the environment enclosing this one, or nil at the root
func (e *Environment[V]) Enclosing() *Environment[V] {
	return e.enclosing
}

// Define stores a new key-value pair, replacing any existing value
// with the same name in this environment
func (e *Environment[V]) Define(name string, value V) {
	e.values[name] = value
}

// Assign sets the value of an existing key-value pair. If the key doesn't
// exist in this environment, it checks the enclosing environments and
// assigns the value there. If no environment in the chain holds the key, it
// returns an ErrUndefined; assignment never creates a new pair.
func (e *Environment[V]) Assign(name string, value V) error {
	for current := e; current != nil; current = current.enclosing {
		if _, ok := current.values[name]; ok {
			current.values[name] = value
			return nil
		}
	}
	return fmt.Errorf("%w '%s'", ErrUndefined, name)
}

// Get returns the value of the pair with the given name
// in this environment or its enclosing environments. If
// no environment in the chain holds the name, it returns
// an ErrUndefined.
func (e *Environment[V]) Get(name string) (V, error) {
	for current := e; current != nil; current = current.enclosing {
		if val, ok := current.values[name]; ok {
			return val, nil
		}
	}
	var zero V
	return zero, fmt.Errorf("%w '%s'", ErrUndefined, name)
}

// GetAt returns the value of the key-value pair at a given distance from this environment
func (e *Environment[V]) GetAt(distance int, name string) V {
	return e.Ancestor(distance).values[name]
}

// AssignAt sets the value of the key-value pair at a given distance from this environment
func (e *Environment[V]) AssignAt(distance int, name string, value V) {
	e.Ancestor(distance).values[name] = value
}

// Ancestor returns the environment at a given enclosing distance from this environment
func (e *Environment[V]) Ancestor(distance int) *Environment[V] {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}
