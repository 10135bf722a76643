// Package notebook reads learner notebooks and turns their graded cells into
// a script the compiler can evaluate.
package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrNotNotebook is returned when a file does not decode as a notebook.
var ErrNotNotebook = errors.New("not a notebook")

// Notebook is the subset of the ipynb format the grader reads.
type Notebook struct {
	Cells         []Cell   `json:"cells"`
	Metadata      Metadata `json:"metadata"`
	NBFormat      int      `json:"nbformat"`
	NBFormatMinor int      `json:"nbformat_minor"`
}

// Metadata holds the notebook-level metadata.
type Metadata struct {
	GraderVersion string `json:"grader_version,omitempty"`
}

// Cell is one notebook cell.
type Cell struct {
	Type     string       `json:"cell_type"`
	Source   Source       `json:"source"`
	Metadata CellMetadata `json:"metadata"`
}

// CellMetadata holds the per-cell metadata.
type CellMetadata struct {
	Tags []string `json:"tags,omitempty"`
}

// IsCode reports whether the cell holds code.
func (c Cell) IsCode() bool {
	return c.Type == "code"
}

// HasTag reports whether the cell carries tag.
func (c Cell) HasTag(tag string) bool {
	for _, t := range c.Metadata.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Source is cell text. On disk it is either one string or a list of lines.
type Source string

// UnmarshalJSON accepts both encodings of a cell source.
func (s *Source) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = Source(text)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("cell source: %w", err)
	}
	*s = Source(strings.Join(lines, ""))
	return nil
}

// Read decodes the notebook at path.
func Read(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read notebook: %w", err)
	}
	return Parse(data)
}

// Parse decodes notebook JSON.
func Parse(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotNotebook, err)
	}
	if nb.Cells == nil {
		return nil, fmt.Errorf("%w: no cells", ErrNotNotebook)
	}
	return &nb, nil
}

// Version returns the grader version the notebook was released with.
func (nb *Notebook) Version() string {
	return nb.Metadata.GraderVersion
}

// IsUpToDate reports whether the notebook version is at least latest.
// An empty latest accepts every notebook. Versions that are not dotted
// numbers must match exactly.
func (nb *Notebook) IsUpToDate(latest string) bool {
	if latest == "" {
		return true
	}
	current, want := canonical(nb.Version()), canonical(latest)
	if current == "" || want == "" {
		return nb.Version() == latest
	}
	return semver.Compare(current, want) >= 0
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}
