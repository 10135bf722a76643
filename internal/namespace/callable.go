package namespace

import (
	"errors"
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Tuple holds the results of a function returning more than one value.
type Tuple []any

// InvocationError reports a failure raised while running learner code,
// either a returned error or a recovered panic.
type InvocationError struct {
	// TypeName is the dynamic type of the raised value.
	TypeName string
	Err      error
}

func (e *InvocationError) Error() string {
	return e.Err.Error()
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Describer names values raised by code whose types reflection cannot see,
// such as types declared inside an interpreter.
type Describer interface {
	// Describe returns the type name and text of v, and false when v is not
	// a value it knows.
	Describe(v any) (typeName, text string, ok bool)
}

// Callable is a function value found in a namespace.
type Callable struct {
	name      string
	fn        reflect.Value
	describer Describer
}

// Name returns the identifier the function was found under.
func (c *Callable) Name() string {
	return c.name
}

// Call invokes the function with args.
//
// A trailing error result is split off: a non-nil error, a panic, or an
// argument the function cannot accept is returned as *InvocationError. The
// remaining results are normalized to nil (none), the single value, or a
// Tuple.
func (c *Callable) Call(args ...any) (out any, err error) {
	in, err := c.arguments(args)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = c.panicked(r)
		}
	}()

	results := c.fn.Call(in)

	if n := len(results); n > 0 && c.fn.Type().Out(n-1) == errorType {
		last := results[n-1]
		results = results[:n-1]
		if !last.IsNil() {
			return nil, c.raised(last.Interface().(error))
		}
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return unwrap(results[0]), nil
	default:
		tuple := make(Tuple, len(results))
		for i, r := range results {
			tuple[i] = unwrap(r)
		}
		return tuple, nil
	}
}

func (c *Callable) arguments(args []any) ([]reflect.Value, error) {
	t := c.fn.Type()
	if fixed := t.NumIn(); (t.IsVariadic() && len(args) < fixed-1) || (!t.IsVariadic() && len(args) < fixed) {
		return nil, typeError(fmt.Errorf("%s takes %d argument(s) but %d were given", c.name, fixed, len(args)))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var want reflect.Type
		switch {
		case t.IsVariadic() && i >= t.NumIn()-1:
			want = t.In(t.NumIn() - 1).Elem()
		case i < t.NumIn():
			want = t.In(i)
		default:
			return nil, typeError(fmt.Errorf("%s takes %d argument(s) but %d were given", c.name, t.NumIn(), len(args)))
		}

		if arg == nil {
			in[i] = reflect.Zero(want)
			continue
		}
		v := reflect.ValueOf(arg)
		switch {
		case v.Type().AssignableTo(want):
		case v.Type().ConvertibleTo(want) && v.Kind() == want.Kind():
			v = v.Convert(want)
		default:
			return nil, typeError(fmt.Errorf("argument %d: cannot use %s as %s", i+1, v.Type(), want))
		}
		in[i] = v
	}
	return in, nil
}

func typeError(err error) *InvocationError {
	return &InvocationError{TypeName: "TypeError", Err: err}
}

func (c *Callable) raised(err error) *InvocationError {
	typeName := fmt.Sprintf("%T", err)
	if name, _, ok := c.describe(err); ok {
		typeName = name
	}
	return &InvocationError{TypeName: typeName, Err: err}
}

func (c *Callable) panicked(r any) *InvocationError {
	if err, ok := r.(error); ok {
		return c.raised(err)
	}
	if name, text, ok := c.describe(r); ok {
		return &InvocationError{TypeName: name, Err: errors.New(text)}
	}
	return &InvocationError{TypeName: "panic", Err: errors.New(fmt.Sprint(r))}
}

func (c *Callable) describe(v any) (string, string, bool) {
	if c.describer == nil || v == nil {
		return "", "", false
	}
	return c.describer.Describe(v)
}

func unwrap(v reflect.Value) any {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}
