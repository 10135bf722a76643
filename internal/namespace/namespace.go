// Package namespace models the set of named values produced by evaluating
// learner or reference code, and the capability checks the graders run
// against them.
package namespace

import "reflect"

// AnyArity accepts a function regardless of how many arguments it declares.
const AnyArity = -1

// Namespace exposes named values.
type Namespace interface {
	// Lookup returns the symbol bound to name and whether it exists.
	Lookup(name string) (Symbol, bool)
}

// Symbol is a named value found in a namespace.
type Symbol struct {
	name      string
	value     reflect.Value
	describer Describer
}

// NewSymbol binds value to name.
func NewSymbol(name string, value reflect.Value) Symbol {
	return Symbol{name: name, value: value}
}

// WithDescriber returns a copy of s whose callables report raised values
// through d.
func (s Symbol) WithDescriber(d Describer) Symbol {
	s.describer = d
	return s
}

// Name returns the identifier the symbol was looked up by.
func (s Symbol) Name() string {
	return s.name
}

// TypeName describes the dynamic type of the symbol, "<nil>" when it holds nothing.
func (s Symbol) TypeName() string {
	if !s.value.IsValid() {
		return "<nil>"
	}
	return s.value.Type().String()
}

// Callable returns the symbol as a function taking arity arguments.
// It reports false when the symbol is not a function or declares a different
// number of parameters. Variadic functions accept any arity covering their
// fixed parameters.
func (s Symbol) Callable(arity int) (*Callable, bool) {
	v := s.value
	if !v.IsValid() {
		return nil, false
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, false
	}
	if arity != AnyArity {
		t := v.Type()
		switch {
		case t.IsVariadic():
			if arity < t.NumIn()-1 {
				return nil, false
			}
		case t.NumIn() != arity:
			return nil, false
		}
	}
	return &Callable{name: s.name, fn: v, describer: s.describer}, true
}

// Funcs is a namespace backed by native Go values, keyed by name.
type Funcs map[string]any

// Lookup implements Namespace.
func (f Funcs) Lookup(name string) (Symbol, bool) {
	v, ok := f[name]
	if !ok {
		return Symbol{}, false
	}
	return NewSymbol(name, reflect.ValueOf(v)), true
}
