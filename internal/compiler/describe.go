package compiler

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"

	"nbgrade/internal/notebook"
)

const describeFunc = "nbgradeDescribe__"

// declaredType is a struct type declared at the top level of a script.
type declaredType struct {
	name string
	// valueError and pointerError report whether T and *T implement error.
	valueError   bool
	pointerError bool
}

// declaredTypes lists the struct types of script in declaration order.
// Cells that do not parse as declarations are skipped.
func declaredTypes(script notebook.Script) []declaredType {
	var types []declaredType
	index := make(map[string]int)
	valueErr := make(map[string]bool)
	pointerErr := make(map[string]bool)

	fset := token.NewFileSet()
	for _, chunk := range script.Chunks {
		f, err := notebook.ParseCode(fset, chunk.Source, 0)
		if err != nil {
			continue
		}
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)
					if ts.TypeParams != nil || ts.Assign.IsValid() {
						continue
					}
					if _, ok := ts.Type.(*ast.StructType); !ok {
						continue
					}
					if _, seen := index[ts.Name.Name]; !seen {
						index[ts.Name.Name] = len(types)
						types = append(types, declaredType{name: ts.Name.Name})
					}
				}
			case *ast.FuncDecl:
				if name, pointer, ok := errorMethod(d); ok {
					pointerErr[name] = true
					if !pointer {
						valueErr[name] = true
					}
				}
			}
		}
	}

	for name, i := range index {
		types[i].valueError = valueErr[name]
		types[i].pointerError = pointerErr[name]
	}
	return types
}

// errorMethod reports the receiver of an Error() string method.
func errorMethod(d *ast.FuncDecl) (recv string, pointer bool, ok bool) {
	if d.Recv == nil || len(d.Recv.List) != 1 || d.Name.Name != "Error" {
		return "", false, false
	}
	if d.Type.Params.NumFields() != 0 || d.Type.Results.NumFields() != 1 {
		return "", false, false
	}
	if res, isIdent := d.Type.Results.List[0].Type.(*ast.Ident); !isIdent || res.Name != "string" {
		return "", false, false
	}
	switch t := d.Recv.List[0].Type.(type) {
	case *ast.Ident:
		return t.Name, false, true
	case *ast.StarExpr:
		if id, isIdent := t.X.(*ast.Ident); isIdent {
			return id.Name, true, true
		}
	}
	return "", false, false
}

// describerSource builds an interpreted function that recognizes values of
// the declared types and returns their name and, for errors, their text.
func describerSource(types []declaredType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s(nbgradeValue__ interface{}) (string, string, bool) {\n", describeFunc)
	for _, t := range types {
		writeAssertion(&b, "*"+t.name, t.pointerError)
		writeAssertion(&b, t.name, t.valueError)
	}
	b.WriteString("\treturn \"\", \"\", false\n}\n")
	return b.String()
}

func writeAssertion(b *strings.Builder, typ string, isError bool) {
	if isError {
		fmt.Fprintf(b, "\tif e, ok := nbgradeValue__.(%s); ok {\n\t\treturn %q, e.Error(), true\n\t}\n", typ, typ)
		return
	}
	fmt.Fprintf(b, "\tif _, ok := nbgradeValue__.(%s); ok {\n\t\treturn %q, \"\", false\n\t}\n", typ, typ)
}

// interpDescriber names values of interpreted types, which reach native
// code as anonymous structs or wrapped in the interpreter's error adapter.
type interpDescriber struct {
	fn reflect.Value
}

// newDescriber evaluates the describer for the struct types of script. It
// returns nil when the script declares none.
func newDescriber(ctx context.Context, i *interp.Interpreter, script notebook.Script) (*interpDescriber, error) {
	types := declaredTypes(script)
	if len(types) == 0 {
		return nil, nil
	}
	if err := eval(ctx, i, describerSource(types)); err != nil {
		return nil, err
	}
	fn, err := i.Eval(describeFunc)
	if err != nil {
		return nil, err
	}
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is a %s", describeFunc, fn.Kind())
	}
	return &interpDescriber{fn: fn}, nil
}

// Describe implements namespace.Describer.
func (d *interpDescriber) Describe(v any) (typeName, text string, ok bool) {
	inner := unwrapInterpValue(v)
	if inner == nil {
		return "", "", false
	}

	defer func() {
		if r := recover(); r != nil {
			typeName, text, ok = "", "", false
		}
	}()
	arg := reflect.New(reflect.TypeOf((*any)(nil)).Elem()).Elem()
	arg.Set(reflect.ValueOf(inner))
	out := d.fn.Call([]reflect.Value{arg})

	typeName = out[0].String()
	if typeName == "" {
		return "", "", false
	}
	switch {
	case out[2].Bool():
		text = out[1].String()
	default:
		if err, isErr := v.(error); isErr {
			text = err.Error()
		} else {
			text = fmt.Sprint(inner)
		}
	}
	return typeName, text, true
}

// unwrapInterpValue returns the interpreted value behind the interpreter's
// error adapter or panic record, or v itself.
func unwrapInterpValue(v any) any {
	if p, ok := v.(*interp.Panic); ok {
		v = p.Value
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Struct {
		if f := rv.FieldByName("IValue"); f.IsValid() && f.Kind() == reflect.Interface && !f.IsNil() && f.CanInterface() {
			return f.Interface()
		}
	}
	return v
}
