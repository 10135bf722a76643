// Package assignment is the table of gradable assignments.
package assignment

import (
	"errors"
	"fmt"
	"sort"

	"nbgrade/internal/assignment/agentic"
	"nbgrade/internal/assignment/reflection"
	"nbgrade/internal/assignment/starter"
	"nbgrade/internal/assignment/tooluse"
	"nbgrade/internal/grading"
)

// ErrUnknownAssignment is returned for an assignment name with no registry.
var ErrUnknownAssignment = errors.New("unknown assignment")

var registries = map[string]func() *grading.Registry{
	reflection.Name: reflection.Registry,
	tooluse.Name:    tooluse.Registry,
	starter.Name:    starter.Registry,
	agentic.Name:    agentic.Registry,
}

// Lookup returns the part registry of the named assignment.
func Lookup(name string) (*grading.Registry, error) {
	build, ok := registries[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownAssignment, name, Names())
	}
	return build(), nil
}

// Names lists the known assignments in order.
func Names() []string {
	names := make([]string, 0, len(registries))
	for name := range registries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
