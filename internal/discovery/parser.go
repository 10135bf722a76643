package discovery

import (
	"go/ast"
	"go/parser"
	"go/token"
	"sort"

	"nbgrade/internal/notebook"
)

// Function is a top-level function found in a notebook.
type Function struct {
	Name string
	// Cell is the index of the defining cell.
	Cell   int
	Graded bool
}

// Parser lists the functions a notebook defines
type Parser struct {
	gradedTag string
}

// NewParser creates a new Parser; cells carrying gradedTag are marked Graded.
func NewParser(gradedTag string) *Parser {
	return &Parser{gradedTag: gradedTag}
}

// FindFunctions parses the code cells of nb for function declarations and
// function values bound to top-level names. A name defined twice is
// reported at its last definition, which is the one the interpreter keeps.
func (p *Parser) FindFunctions(nb *notebook.Notebook) []Function {
	found := make(map[string]Function)
	fset := token.NewFileSet()
	for i, c := range nb.Cells {
		if !c.IsCode() {
			continue
		}
		for _, name := range functionNames(fset, string(c.Source)) {
			found[name] = Function{Name: name, Cell: i, Graded: c.HasTag(p.gradedTag)}
		}
	}

	functions := make([]Function, 0, len(found))
	for _, fn := range found {
		functions = append(functions, fn)
	}
	sort.Slice(functions, func(i, j int) bool { return functions[i].Name < functions[j].Name })
	return functions
}

// functionNames parses src as declarations, or else as the top-level
// statements an interpreter cell may hold. Unparseable cells yield nothing.
func functionNames(fset *token.FileSet, src string) []string {
	var names []string
	if f, err := notebook.ParseCode(fset, src, parser.SkipObjectResolution); err == nil {
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Recv == nil {
					names = append(names, d.Name.Name)
				}
			case *ast.GenDecl:
				names = append(names, funcVars(d)...)
			}
		}
		return names
	}

	f, err := parser.ParseFile(fset, "", "package main\nfunc _() {\n"+src+"\n}", parser.SkipObjectResolution)
	if err != nil {
		return nil
	}
	for _, stmt := range f.Decls[0].(*ast.FuncDecl).Body.List {
		switch s := stmt.(type) {
		case *ast.AssignStmt:
			if len(s.Lhs) != len(s.Rhs) {
				continue
			}
			for i, lhs := range s.Lhs {
				if id, ok := lhs.(*ast.Ident); ok && isFuncLit(s.Rhs[i]) {
					names = append(names, id.Name)
				}
			}
		case *ast.DeclStmt:
			if d, ok := s.Decl.(*ast.GenDecl); ok {
				names = append(names, funcVars(d)...)
			}
		}
	}
	return names
}

// funcVars returns the variables of a var declaration holding functions.
func funcVars(d *ast.GenDecl) []string {
	if d.Tok != token.VAR {
		return nil
	}
	var names []string
	for _, spec := range d.Specs {
		vs := spec.(*ast.ValueSpec)
		_, funcTyped := vs.Type.(*ast.FuncType)
		for i, id := range vs.Names {
			if id.Name == "_" {
				continue
			}
			if funcTyped || (i < len(vs.Values) && isFuncLit(vs.Values[i])) {
				names = append(names, id.Name)
			}
		}
	}
	return names
}

func isFuncLit(e ast.Expr) bool {
	_, ok := e.(*ast.FuncLit)
	return ok
}
