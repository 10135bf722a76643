package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		"cohort-a/alice.ipynb",
		"cohort-a/bob.ipynb",
		"cohort-b/carol.ipynb",
		"cohort-b/.ipynb_checkpoints/carol-checkpoint.ipynb",
		"storage/last-run.ipynb",
		".hidden/dave.ipynb",
		"cohort-b/notes.md",
		"cohort-a/.~scratch.ipynb",
	}
	for _, file := range files {
		fullPath := filepath.Join(tmpDir, file)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", file, err)
		}
		if err := os.WriteFile(fullPath, []byte("{}"), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", file, err)
		}
	}

	scanner := NewScanner([]string{"storage"})

	t.Run("finds notebooks in lexical order", func(t *testing.T) {
		results, err := scanner.Scan(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{
			filepath.Join(tmpDir, "cohort-a/alice.ipynb"),
			filepath.Join(tmpDir, "cohort-a/bob.ipynb"),
			filepath.Join(tmpDir, "cohort-b/carol.ipynb"),
		}
		if len(results) != len(expected) {
			t.Fatalf("expected %d notebooks, got %d: %v", len(expected), len(results), results)
		}
		for i := range expected {
			if results[i] != expected[i] {
				t.Errorf("expected %s, got %s", expected[i], results[i])
			}
		}
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		_, err := scanner.Scan("/non/existent/path")
		if err == nil {
			t.Error("expected error for non-existent directory")
		}
	})

	t.Run("returns error for file instead of directory", func(t *testing.T) {
		_, err := scanner.Scan(filepath.Join(tmpDir, "cohort-b/notes.md"))
		if err == nil {
			t.Error("expected error for file path")
		}
	})
}
