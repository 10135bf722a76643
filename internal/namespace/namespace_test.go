package namespace

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shoutString string

func TestSymbol_Callable(t *testing.T) {
	ns := Funcs{
		"One":      func(s string) string { return s },
		"Two":      func(a, b string) string { return a + b },
		"Variadic": func(prefix string, rest ...string) string { return prefix + strings.Join(rest, "") },
		"NotFunc":  42,
		"Nil":      nil,
	}

	tests := []struct {
		name     string
		symbol   string
		arity    int
		expected bool
	}{
		{name: "matching arity", symbol: "One", arity: 1, expected: true},
		{name: "wrong arity", symbol: "One", arity: 2, expected: false},
		{name: "two arguments", symbol: "Two", arity: 2, expected: true},
		{name: "any arity", symbol: "Two", arity: AnyArity, expected: true},
		{name: "variadic covers fixed", symbol: "Variadic", arity: 3, expected: true},
		{name: "variadic too few", symbol: "Variadic", arity: 0, expected: false},
		{name: "not a function", symbol: "NotFunc", arity: 1, expected: false},
		{name: "nil value", symbol: "Nil", arity: AnyArity, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, ok := ns.Lookup(tt.symbol)
			require.True(t, ok)
			_, callable := sym.Callable(tt.arity)
			assert.Equal(t, tt.expected, callable)
		})
	}
}

func TestFuncs_LookupMissing(t *testing.T) {
	_, ok := Funcs{}.Lookup("Missing")
	assert.False(t, ok)
}

func TestSymbol_TypeName(t *testing.T) {
	ns := Funcs{"Int": 3, "Nil": nil, "Fn": func(string) string { return "" }}

	sym, _ := ns.Lookup("Int")
	assert.Equal(t, "int", sym.TypeName())
	sym, _ = ns.Lookup("Nil")
	assert.Equal(t, "<nil>", sym.TypeName())
	sym, _ = ns.Lookup("Fn")
	assert.Equal(t, "func(string) string", sym.TypeName())
}

func callable(t *testing.T, fn any, arity int) *Callable {
	t.Helper()
	sym, ok := Funcs{"F": fn}.Lookup("F")
	require.True(t, ok)
	c, ok := sym.Callable(arity)
	require.True(t, ok)
	return c
}

func TestCallable_Call(t *testing.T) {
	t.Run("single result", func(t *testing.T) {
		out, err := callable(t, func(s string) string { return s + "!" }, 1).Call("hi")
		require.NoError(t, err)
		assert.Equal(t, "hi!", out)
	})

	t.Run("interface result is unwrapped", func(t *testing.T) {
		out, err := callable(t, func(s string) any { return []string{s} }, 1).Call("a")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, out)
	})

	t.Run("nil error is dropped", func(t *testing.T) {
		out, err := callable(t, func(s string) (string, error) { return s, nil }, 1).Call("ok")
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
	})

	t.Run("multiple results become a tuple", func(t *testing.T) {
		out, err := callable(t, func(s string) (string, []string) { return s, []string{"m"} }, 1).Call("x")
		require.NoError(t, err)
		assert.Equal(t, Tuple{"x", []string{"m"}}, out)
	})

	t.Run("named string parameter accepts a string", func(t *testing.T) {
		out, err := callable(t, func(s shoutString) string { return strings.ToUpper(string(s)) }, 1).Call("hey")
		require.NoError(t, err)
		assert.Equal(t, "HEY", out)
	})

	t.Run("nil argument becomes the zero value", func(t *testing.T) {
		out, err := callable(t, func(xs []string) int { return len(xs) }, 1).Call(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, out)
	})
}

func TestCallable_CallFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name     string
		fn       any
		args     []any
		typeName string
		text     string
	}{
		{
			name:     "returned error",
			fn:       func(string) (string, error) { return "", boom },
			args:     []any{"x"},
			typeName: "*errors.errorString",
			text:     "boom",
		},
		{
			name:     "panic with error",
			fn:       func(string) string { var xs []string; return xs[3] },
			args:     []any{"x"},
			typeName: "runtime.boundsError",
			text:     "index out of range",
		},
		{
			name:     "panic with string",
			fn:       func(string) string { panic("not implemented") },
			args:     []any{"x"},
			typeName: "panic",
			text:     "not implemented",
		},
		{
			name:     "unassignable argument",
			fn:       func(int) string { return "" },
			args:     []any{"x"},
			typeName: "TypeError",
			text:     "cannot use string as int",
		},
		{
			name:     "too many arguments",
			fn:       func(string) string { return "" },
			args:     []any{"x", "y"},
			typeName: "TypeError",
			text:     "takes 1 argument(s) but 2 were given",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := callable(t, tt.fn, AnyArity).Call(tt.args...)
			assert.Nil(t, out)

			var invErr *InvocationError
			require.ErrorAs(t, err, &invErr)
			assert.Equal(t, tt.typeName, invErr.TypeName)
			assert.Contains(t, invErr.Error(), tt.text)
		})
	}

	t.Run("returned error unwraps", func(t *testing.T) {
		_, err := callable(t, func() error { return boom }, 0).Call()
		assert.ErrorIs(t, err, boom)
	})
}

type quota struct{ left int }

type quotaDescriber struct{}

func (quotaDescriber) Describe(v any) (string, string, bool) {
	if q, ok := v.(*quota); ok {
		return "*QuotaError", fmt.Sprintf("%d calls left", q.left), true
	}
	return "", "", false
}

func TestCallable_Describer(t *testing.T) {
	sym, ok := Funcs{"Panics": func() string { panic(&quota{left: 0}) }}.Lookup("Panics")
	require.True(t, ok)

	t.Run("panic value named by describer", func(t *testing.T) {
		c, ok := sym.WithDescriber(quotaDescriber{}).Callable(0)
		require.True(t, ok)
		_, err := c.Call()
		var invErr *InvocationError
		require.ErrorAs(t, err, &invErr)
		assert.Equal(t, "*QuotaError", invErr.TypeName)
		assert.Equal(t, "0 calls left", invErr.Error())
	})

	t.Run("without describer", func(t *testing.T) {
		c, ok := sym.Callable(0)
		require.True(t, ok)
		_, err := c.Call()
		var invErr *InvocationError
		require.ErrorAs(t, err, &invErr)
		assert.Equal(t, "panic", invErr.TypeName)
	})

	t.Run("unknown values keep reflected names", func(t *testing.T) {
		ns := Funcs{"Returns": func() error { return errors.New("boom") }}
		sym, ok := ns.Lookup("Returns")
		require.True(t, ok)
		c, ok := sym.WithDescriber(quotaDescriber{}).Callable(0)
		require.True(t, ok)
		_, err := c.Call()
		var invErr *InvocationError
		require.ErrorAs(t, err, &invErr)
		assert.Equal(t, "*errors.errorString", invErr.TypeName)
	})
}
