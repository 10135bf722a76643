package notebook

import (
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"strings"
)

// DefaultCutPattern matches the marker comment after which cells are not graded.
const DefaultCutPattern = `//\s*grade-up-to-here`

// DefaultGradedTag marks the cells that take part in grading.
const DefaultGradedTag = "graded"

// Transform returns a modified copy of a notebook.
type Transform func(*Notebook) *Notebook

// Apply runs transforms in order.
func Apply(nb *Notebook, transforms ...Transform) *Notebook {
	for _, t := range transforms {
		nb = t(nb)
	}
	return nb
}

// Cut drops the first cell matching pattern and every cell after it. A
// notebook without a match is returned unchanged.
func Cut(pattern *regexp.Regexp) Transform {
	return func(nb *Notebook) *Notebook {
		for i, c := range nb.Cells {
			if pattern.MatchString(string(c.Source)) {
				return nb.withCells(nb.Cells[:i])
			}
		}
		return nb
	}
}

// KeepTagged keeps only the cells carrying tag.
func KeepTagged(tag string) Transform {
	return func(nb *Notebook) *Notebook {
		kept := make([]Cell, 0, len(nb.Cells))
		for _, c := range nb.Cells {
			if c.HasTag(tag) {
				kept = append(kept, c)
			}
		}
		return nb.withCells(kept)
	}
}

// PartialGradingEnabled reports whether any cell carries the cut marker.
func (nb *Notebook) PartialGradingEnabled(pattern *regexp.Regexp) bool {
	for _, c := range nb.Cells {
		if pattern.MatchString(string(c.Source)) {
			return true
		}
	}
	return false
}

func (nb *Notebook) withCells(cells []Cell) *Notebook {
	out := *nb
	out.Cells = append([]Cell(nil), cells...)
	return &out
}

// Chunk is the code of one cell.
type Chunk struct {
	// Cell is the index of the cell in the transformed notebook.
	Cell   int
	Source string
}

// Script is the ordered code of a notebook.
type Script struct {
	Chunks []Chunk
}

// ToScript extracts the code cells. Kernel magics (% and $ lines) and the
// package clause are dropped from the head of each cell; cells left empty
// are skipped.
func ToScript(nb *Notebook) Script {
	var script Script
	for i, c := range nb.Cells {
		if !c.IsCode() {
			continue
		}
		src := clean(string(c.Source))
		if strings.TrimSpace(src) == "" {
			continue
		}
		script.Chunks = append(script.Chunks, Chunk{Cell: i, Source: src})
	}
	return script
}

// clean strips the cell header. Only lines before the first Go line are
// considered, so continuation lines and string literals are left alone.
func clean(src string) string {
	lines := strings.Split(src, "\n")
	kept := make([]string, 0, len(lines))
	header := true
	for _, line := range lines {
		if header {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "", strings.HasPrefix(trimmed, "//"):
			case strings.HasPrefix(trimmed, "%"), strings.HasPrefix(trimmed, "$"):
				continue
			case strings.HasPrefix(trimmed, "package "):
				header = false
				continue
			default:
				header = false
			}
		}
		kept = append(kept, line)
	}
	return strings.TrimRight(strings.Join(kept, "\n"), "\n")
}

// ParseCode parses the source of a code cell as a file of package main.
func ParseCode(fset *token.FileSet, src string, mode parser.Mode) (*ast.File, error) {
	return parser.ParseFile(fset, "", "package main\n"+src, mode)
}
