package gap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fortitude/internal/research"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeFileTodoComment(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.rs", "fn main() {\n    // TODO: handle errors\n}\n")

	a := NewAnalyzer(DefaultConfig())
	gaps, err := a.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, gaps, 1)

	g := gaps[0]
	assert.Equal(t, research.GapTodoComment, g.GapType)
	assert.Equal(t, 2, g.LineNumber)
	assert.Equal(t, "handle errors", g.Description)
	assert.InDelta(t, 0.9, g.Confidence, 1e-9)
	assert.Equal(t, 7, g.Priority)
}

func TestAnalyzeFileMissingDocumentation(t *testing.T) {
	dir := t.TempDir()
	undocumented := writeTemp(t, dir, "undoc.rs", "pub fn undocumented() {}\n")
	documented := writeTemp(t, dir, "doc.rs", "/// doc\npub fn documented() {}\n")

	a := NewAnalyzer(DefaultConfig())

	gaps, err := a.AnalyzeFile(context.Background(), undocumented)
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, research.GapMissingDocumentation, gaps[0].GapType)
	assert.Equal(t, 6, gaps[0].Priority)

	// The documented function still yields an API documentation gap (no
	// example), but never a missing-documentation gap.
	gaps, err = a.AnalyzeFile(context.Background(), documented)
	require.NoError(t, err)
	for _, g := range gaps {
		assert.NotEqual(t, research.GapMissingDocumentation, g.GapType)
	}
}

func TestAnalyzeFileRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "big.rs", "pub fn f() {}\n")

	cfg := DefaultConfig()
	cfg.MaxFileSizeBytes = 1
	a := NewAnalyzer(cfg)

	_, err := a.AnalyzeFile(context.Background(), path)
	require.ErrorIs(t, err, ErrFileTooLarge)
}

func TestAnalyzeFileUnsupportedExtensionReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "bin.exe", "garbage")

	a := NewAnalyzer(DefaultConfig())
	gaps, err := a.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, gaps)
}

func TestAnalyzeFileEventOnlyTriggersForWriteOrCreate(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.rs", "// TODO: x\n")

	a := NewAnalyzer(DefaultConfig())

	gaps, err := a.AnalyzeFileEvent(context.Background(), FileEvent{
		Path: path, EventType: EventRemove, ShouldTriggerAnalysis: true,
	})
	require.NoError(t, err)
	assert.Empty(t, gaps)

	gaps, err = a.AnalyzeFileEvent(context.Background(), FileEvent{
		Path: path, EventType: EventWrite, ShouldTriggerAnalysis: true,
	})
	require.NoError(t, err)
	assert.Len(t, gaps, 1)
}

func TestAnalyzeFileUndocumentedTechnology(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.rs", "use std::collections::HashMap;\nuse serde::Serialize;\n")

	a := NewAnalyzer(DefaultConfig())
	gaps, err := a.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, research.GapUndocumentedTech, gaps[0].GapType)
	assert.Equal(t, "serde", gaps[0].Metadata["crate_name"])
}

func TestAnalyzeFileConfigurationGap(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "Settings.toml", "timeout = 30\nretries = 3\n")

	// Configuration gaps have confidence 0.5, below the default 0.6 cutoff.
	cfg := DefaultConfig()
	cfg.MinConfidenceThreshold = 0.5
	a := NewAnalyzer(cfg)
	gaps, err := a.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, gaps, 2)
	assert.Equal(t, research.GapConfigurationGap, gaps[0].GapType)
}

func TestAnalyzeFileAPIDocumentationGap(t *testing.T) {
	dir := t.TempDir()
	noExample := writeTemp(t, dir, "a.rs", "/// does a thing\npub fn a() {}\n")
	withExample := writeTemp(t, dir, "b.rs", "/// does a thing\n/// # Example\n/// ```\n/// b();\n/// ```\npub fn b() {}\n")

	a := NewAnalyzer(DefaultConfig())

	gaps, err := a.AnalyzeFile(context.Background(), noExample)
	require.NoError(t, err)
	found := false
	for _, g := range gaps {
		if g.GapType == research.GapAPIDocumentationGap {
			found = true
		}
	}
	assert.True(t, found)

	gaps, err = a.AnalyzeFile(context.Background(), withExample)
	require.NoError(t, err)
	for _, g := range gaps {
		assert.NotEqual(t, research.GapAPIDocumentationGap, g.GapType)
	}
}
