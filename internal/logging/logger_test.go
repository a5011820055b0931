package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitializeQuietWhenDebugDisabled(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(dir, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Info(CategoryGap, "should not be written")

	if _, err := os.Stat(filepath.Join(dir, ".fortitude", "logs")); !os.IsNotExist(err) {
		t.Fatalf("expected no logs dir in non-debug mode, got err=%v", err)
	}
}

func TestInitializeCreatesLogFileWhenDebugEnabled(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(dir, true); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(CloseAll)

	Info(CategoryGap, "analyzer booted", "path", "src/main.rs")

	path := filepath.Join(dir, ".fortitude", "logs", "gap.log")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(b) == 0 {
		t.Fatal("expected non-empty log file")
	}
}
