// Package compiler evaluates notebook scripts in a fresh Go interpreter and
// exposes the resulting top-level values as a namespace.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"sort"
	"strconv"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"

	"nbgrade/internal/namespace"
	"nbgrade/internal/notebook"
)

var (
	// ErrCompile matches every *Error.
	ErrCompile = errors.New("compile failed")
	// ErrForbiddenImport is wrapped when a cell imports a package outside the allowlist.
	ErrForbiddenImport = errors.New("forbidden import")
)

// DefaultAllowedImports are the packages learner code may import when the
// assignment manifest does not say otherwise.
var DefaultAllowedImports = []string{
	"bytes",
	"encoding/json",
	"errors",
	"fmt",
	"math",
	"regexp",
	"sort",
	"strconv",
	"strings",
	"time",
	"unicode",
	"unicode/utf8",
}

// Error reports the cell that failed to evaluate.
type Error struct {
	Module string
	Cell   int
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: cell %d: %v", e.Module, e.Cell, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes every *Error match ErrCompile.
func (e *Error) Is(target error) bool {
	return target == ErrCompile
}

// Compiler builds namespaces from scripts.
type Compiler struct {
	allowed map[string]bool
	logger  *zap.Logger
}

// New returns a Compiler restricted to allowedImports, or to
// DefaultAllowedImports when the list is empty.
func New(allowedImports []string, logger *zap.Logger) *Compiler {
	if len(allowedImports) == 0 {
		allowedImports = DefaultAllowedImports
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Compiler{allowed: make(map[string]bool, len(allowedImports)), logger: logger}
	for _, pkg := range allowedImports {
		c.allowed[pkg] = true
	}
	return c
}

// AllowedImports lists the permitted packages in order.
func (c *Compiler) AllowedImports() []string {
	pkgs := make([]string, 0, len(c.allowed))
	for pkg := range c.allowed {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs
}

// Compile evaluates the chunks of script in order in a new interpreter.
// module names the result in errors and logs.
func (c *Compiler) Compile(ctx context.Context, script notebook.Script, module string) (namespace.Namespace, error) {
	i := interp.New(interp.Options{Stdout: io.Discard, Stderr: io.Discard})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("load stdlib symbols: %w", err)
	}

	for _, chunk := range script.Chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.validateImports(chunk.Source); err != nil {
			return nil, &Error{Module: module, Cell: chunk.Cell, Err: err}
		}
		if err := eval(ctx, i, chunk.Source); err != nil {
			c.logger.Debug("cell evaluation failed",
				zap.String("module", module),
				zap.Int("cell", chunk.Cell),
				zap.Error(err))
			return nil, &Error{Module: module, Cell: chunk.Cell, Err: err}
		}
	}

	ns := &interpNamespace{i: i}
	if d, err := newDescriber(ctx, i, script); err != nil {
		c.logger.Debug("describer unavailable", zap.String("module", module), zap.Error(err))
	} else if d != nil {
		ns.describer = d
	}

	c.logger.Debug("script compiled", zap.String("module", module), zap.Int("cells", len(script.Chunks)))
	return ns, nil
}

func eval(ctx context.Context, i *interp.Interpreter, src string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	_, err = i.EvalWithContext(ctx, src)
	return err
}

// validateImports checks the import declarations at the head of a cell.
func (c *Compiler) validateImports(src string) error {
	f, err := notebook.ParseCode(token.NewFileSet(), src, parser.ImportsOnly)
	if err != nil {
		// Syntax errors are reported by the interpreter with better context.
		return nil
	}
	var forbidden []string
	for _, spec := range f.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		if !c.allowed[path] {
			forbidden = append(forbidden, path)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("%w: %v (allowed: %v)", ErrForbiddenImport, forbidden, c.AllowedImports())
	}
	return nil
}

type interpNamespace struct {
	i         *interp.Interpreter
	describer namespace.Describer
}

// Lookup evaluates name as an expression in the interpreter.
func (n *interpNamespace) Lookup(name string) (namespace.Symbol, bool) {
	if !token.IsIdentifier(name) {
		return namespace.Symbol{}, false
	}
	v, err := n.i.Eval(name)
	if err != nil || !v.IsValid() {
		return namespace.Symbol{}, false
	}
	sym := namespace.NewSymbol(name, v)
	if n.describer != nil {
		sym = sym.WithDescriber(n.describer)
	}
	return sym, true
}
