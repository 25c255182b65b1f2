package features

import (
	"os"
	"path/filepath"
	"testing"
)

const basketFeature = `# basket scenarios
Feature: Cucumber basket

  Scenario: eating
    Given I have 5 cucumbers in my belly
    When I eat 3 cucumbers
    Then my belly is full
    And the label reads:
      """
      Given this is docstring content, not a step
      """
    But nothing explodes
    * anything goes
`

func writeFeature(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFeature(t, dir, "basket.feature", basketFeature)

	steps, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(steps) != 6 {
		t.Fatalf("steps = %d: %+v", len(steps), steps)
	}

	first := steps[0]
	if first.Keyword != "Given" || first.Text != "I have 5 cucumbers in my belly" {
		t.Fatalf("first step = %+v", first)
	}
	if first.Line != 5 {
		t.Fatalf("line = %d, want 5", first.Line)
	}

	// docstring content không được tính là step
	for _, s := range steps {
		if s.Text == "this is docstring content, not a step" {
			t.Fatalf("docstring leaked into steps")
		}
	}

	if steps[5].Keyword != "*" || steps[5].Text != "anything goes" {
		t.Fatalf("star step = %+v", steps[5])
	}
}

func TestLoadDirRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFeature(t, dir, "a.feature", "Given top level step\n")
	writeFeature(t, dir, filepath.Join("nested", "deep", "b.feature"), "When nested step\n")
	writeFeature(t, dir, "notes.txt", "Given not a feature file\n")

	steps, err := LoadDirRecursive(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("steps = %d: %+v", len(steps), steps)
	}
}

func TestLoadDirMissingRoot(t *testing.T) {
	if _, err := LoadDirRecursive(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("missing root must error")
	}
}
