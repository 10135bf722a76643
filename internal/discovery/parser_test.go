package discovery

import (
	"testing"

	"nbgrade/internal/notebook"
)

func TestParser_FindFunctions(t *testing.T) {
	nb := &notebook.Notebook{Cells: []notebook.Cell{
		{Type: "markdown", Source: "func NotCode() {}"},
		{Type: "code", Source: "import \"strings\"\n\nfunc PlannerAgent(topic string) []string {\n\treturn nil\n}\n", Metadata: notebook.CellMetadata{Tags: []string{"graded"}}},
		{Type: "code", Source: "func helper[T any](v T) T { return v }\n"},
		{Type: "code", Source: "WriterAgent := func(task string) string { return task }\nlimit := 3\n"},
		{Type: "code", Source: "var (\n\tEditorAgent = func(task string) string { return task }\n\tResearchAgent func(task string, returnMessages bool) any\n\tretries = 2\n)\n", Metadata: notebook.CellMetadata{Tags: []string{"graded"}}},
		{Type: "code", Source: "func (a agent) Method() {}\n"},
		{Type: "code", Source: "// func Commented() {}\nconst doc = `\nfunc Quoted() {}\n`\n"},
		{Type: "code", Source: "func PlannerAgent(topic string) []string { return []string{topic} }", Metadata: notebook.CellMetadata{Tags: []string{"graded"}}},
	}}

	functions := NewParser("graded").FindFunctions(nb)

	expected := []Function{
		{Name: "EditorAgent", Cell: 4, Graded: true},
		{Name: "PlannerAgent", Cell: 7, Graded: true},
		{Name: "ResearchAgent", Cell: 4, Graded: true},
		{Name: "WriterAgent", Cell: 3, Graded: false},
		{Name: "helper", Cell: 2, Graded: false},
	}
	if len(functions) != len(expected) {
		t.Fatalf("expected %d functions, got %d: %+v", len(expected), len(functions), functions)
	}
	for i := range expected {
		if functions[i] != expected[i] {
			t.Errorf("expected %+v, got %+v", expected[i], functions[i])
		}
	}
}

func TestParser_FindFunctions_Empty(t *testing.T) {
	functions := NewParser("graded").FindFunctions(&notebook.Notebook{})
	if len(functions) != 0 {
		t.Errorf("expected no functions, got %d", len(functions))
	}
}
