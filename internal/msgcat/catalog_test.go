package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderEmbedded(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("move.applied", map[string]any{"Move": "e2e4"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "e2e4 played." {
		t.Fatalf("unexpected text %q", got)
	}
	help, err := c.Render("help", map[string]any{"Prefix": "!chess"})
	if err != nil {
		t.Fatalf("Render help: %v", err)
	}
	if !strings.Contains(help, "!chess undo") {
		t.Fatalf("help missing undo line: %q", help)
	}
}

func TestRenderMissingKeyAndField(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if _, err := c.Render("move.applied", map[string]any{}); err == nil {
		t.Fatalf("expected error for missing field")
	}
	if got := c.RenderOr("no.such.key", nil, "fallback"); got != "fallback" {
		t.Fatalf("RenderOr fallback, got %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("move:\n  applied: \"played {{.Move}}\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := c.RenderOr("move.applied", map[string]any{"Move": "d2d4"}, "")
	if got != "played d2d4" {
		t.Fatalf("override not applied: %q", got)
	}
	if !c.Has("undo.empty") {
		t.Fatalf("embedded keys should survive overrides")
	}
}

func TestOverrideDuplicateKeyRejected(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("undo:\n  empty: x\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestNonStringLeafRejected(t *testing.T) {
	if _, err := parseYAMLToFlat([]byte("a:\n  b: 3\n")); err == nil {
		t.Fatalf("expected error for numeric leaf")
	}
}
