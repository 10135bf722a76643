package grading

import (
	"errors"
	"fmt"
	"sort"

	"nbgrade/internal/domain"
	"nbgrade/internal/namespace"
)

// ErrUnknownPartID is returned when a part id is not registered.
var ErrUnknownPartID = errors.New("unknown part id")

// GradingFunc runs the checks of one part.
type GradingFunc func() []domain.TestCase

// WrapperFactory binds learner and solution namespaces to a part's checks.
// The solution namespace may be nil.
type WrapperFactory func(learner, solution namespace.Namespace) GradingFunc

// Part is one gradable unit of an assignment.
type Part struct {
	ID string
	// Object is the name of the function the part grades.
	Object  string
	Factory WrapperFactory
}

// Registry maps part ids to their grading wrappers.
type Registry struct {
	assignment string
	parts      map[string]Part
}

// NewRegistry builds the part table of an assignment.
func NewRegistry(assignment string, parts ...Part) *Registry {
	r := &Registry{assignment: assignment, parts: make(map[string]Part, len(parts))}
	for _, p := range parts {
		if _, exists := r.parts[p.ID]; exists {
			panic(fmt.Sprintf("part %q registered twice for assignment %s", p.ID, assignment))
		}
		r.parts[p.ID] = p
	}
	return r
}

// Assignment returns the assignment the registry belongs to.
func (r *Registry) Assignment() string {
	return r.assignment
}

// Resolve returns the wrapper factory registered for partID.
func (r *Registry) Resolve(partID string) (WrapperFactory, error) {
	p, ok := r.parts[partID]
	if !ok {
		return nil, fmt.Errorf("%w %q for assignment %s", ErrUnknownPartID, partID, r.assignment)
	}
	return p.Factory, nil
}

// Parts returns the registered parts ordered by id.
func (r *Registry) Parts() []Part {
	parts := make([]Part, 0, len(r.parts))
	for _, p := range r.parts {
		parts = append(parts, p)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].ID < parts[j].ID })
	return parts
}

// ObjectToGrade looks name up in the learner namespace when the returned
// function runs. An absent object yields a single ObjectMissing case and
// evaluate is not called.
func ObjectToGrade(learner namespace.Namespace, name string, evaluate func(namespace.Symbol) []domain.TestCase) GradingFunc {
	return func() []domain.TestCase {
		if learner == nil {
			return []domain.TestCase{Missing(name)}
		}
		sym, ok := learner.Lookup(name)
		if !ok {
			return []domain.TestCase{Missing(name)}
		}
		return evaluate(sym)
	}
}
