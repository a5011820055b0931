package gap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fortitude/internal/logging"
	"fortitude/internal/monitoring"
	"fortitude/internal/research"
)

// FileEvent mirrors the file-monitor contract consumed by the scheduler:
// a single filesystem change with enough metadata to decide whether it
// should trigger analysis.
type FileEvent struct {
	Path                  string
	EventType             EventType
	Timestamp             time.Time
	ShouldTriggerAnalysis bool
}

// EventType enumerates the kinds of filesystem change the analyzer reacts to.
type EventType string

const (
	EventCreate EventType = "create"
	EventWrite  EventType = "write"
	EventRemove EventType = "remove"
	EventRename EventType = "rename"
)

// Analyzer extracts DetectedGaps from file content via compiled regex
// detectors, grounded on the proactive gap analyzer's five-detector design.
type Analyzer struct {
	config   Config
	patterns *compiledPatterns
	recorder *monitoring.Recorder
}

// NewAnalyzer builds an Analyzer, compiling all regex patterns up front.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{
		config:   cfg,
		patterns: newCompiledPatterns(cfg.CustomTodoPatterns, cfg.CustomDocPatterns),
	}
}

// WithRecorder attaches a monitoring.Recorder that observes every
// AnalyzeFile call's latency and outcome. Optional; nil-safe if never called.
func (a *Analyzer) WithRecorder(r *monitoring.Recorder) *Analyzer {
	a.recorder = r
	return a
}

// AnalyzeFile reads path and returns every gap found, subject to the
// extension/size/confidence gates described in the component design.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) ([]research.DetectedGap, error) {
	start := time.Now()
	gaps, err := a.analyzeFile(ctx, path)
	if a.recorder != nil {
		a.recorder.RecordOperation(time.Since(start), err == nil, map[string]float64{"gaps_found": float64(len(gaps))})
	}
	return gaps, err
}

func (a *Analyzer) analyzeFile(ctx context.Context, path string) ([]research.DetectedGap, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if !a.config.supportsExtension(ext) {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("gap: stat %s: %w", path, err)
	}
	if info.Size() > a.config.MaxFileSizeBytes {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, path, info.Size())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gap: read %s: %w", path, err)
	}

	start := time.Now()
	gaps := a.analyzeContent(string(content), path, ext)
	if elapsed := time.Since(start); elapsed > a.config.AnalysisTimeout {
		logging.Warn(logging.CategoryGap, "analysis exceeded timeout",
			"path", path, "elapsed_ms", elapsed.Milliseconds())
	}

	filtered := gaps[:0]
	for _, g := range gaps {
		if g.Confidence >= a.config.MinConfidenceThreshold {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

// AnalyzeFileEvent runs AnalyzeFile only for events that should trigger
// analysis (writes/creates of a supported extension).
func (a *Analyzer) AnalyzeFileEvent(ctx context.Context, event FileEvent) ([]research.DetectedGap, error) {
	if !event.ShouldTriggerAnalysis {
		return nil, nil
	}
	if event.EventType != EventCreate && event.EventType != EventWrite {
		return nil, nil
	}
	return a.AnalyzeFile(ctx, event.Path)
}

func (a *Analyzer) analyzeContent(content, path, ext string) []research.DetectedGap {
	var gaps []research.DetectedGap

	if a.config.EnableTodoDetection {
		gaps = append(gaps, a.detectTodoComments(content, path)...)
	}
	isRustLike := ext == "rs"
	if a.config.EnableDocsDetection && isRustLike {
		gaps = append(gaps, a.detectMissingDocumentation(content, path)...)
	}
	if a.config.EnableTechDetection && isRustLike {
		gaps = append(gaps, a.detectUndocumentedTechnologies(content, path)...)
	}
	if a.config.EnableAPIDetection && isRustLike {
		gaps = append(gaps, a.detectAPIDocumentationGaps(content, path)...)
	}
	if a.config.EnableConfigDetection && ext == "toml" {
		gaps = append(gaps, a.detectConfigurationGaps(content, path)...)
	}
	return gaps
}

// detectTodoComments finds TODO/FIXME/HACK/BUG/NOTE markers, one match per
// line, at confidence 0.9.
func (a *Analyzer) detectTodoComments(content, path string) []research.DetectedGap {
	var gaps []research.DetectedGap
	for i, line := range strings.Split(content, "\n") {
		m := a.patterns.todo.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		description := strings.TrimSpace(m[len(m)-1])
		gap := research.NewDetectedGap(research.GapTodoComment, path, i+1, strings.TrimSpace(line), description, 0.9)
		gaps = append(gaps, gap)
	}
	return gaps
}

func lineStartOffsets(content string) []int {
	offsets := []int{0}
	for i, c := range content {
		if c == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func lineForOffset(offsets []int, pos int) int {
	lo, hi := 0, len(offsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if offsets[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}

// detectMissingDocumentation flags `pub fn`/`pub struct` items with no doc
// comment in the three preceding non-blank lines, at confidence 0.8.
func (a *Analyzer) detectMissingDocumentation(content, path string) []research.DetectedGap {
	lines := strings.Split(content, "\n")
	offsets := lineStartOffsets(content)
	var gaps []research.DetectedGap

	for _, m := range a.patterns.rustFn.FindAllStringSubmatchIndex(content, -1) {
		lineNum := lineForOffset(offsets, m[0])
		name := content[m[6]:m[7]]
		if !hasDocumentationAbove(lines, lineNum) {
			gap := research.NewDetectedGap(research.GapMissingDocumentation, path, lineNum, lines[lineNum-1], fmt.Sprintf("function %q has no documentation", name), 0.8).
				WithMetadata("function_name", name).
				WithMetadata("item_type", "function")
			gaps = append(gaps, gap)
		}
	}
	for _, m := range a.patterns.rustStruct.FindAllStringSubmatchIndex(content, -1) {
		lineNum := lineForOffset(offsets, m[0])
		name := content[m[4]:m[5]]
		if !hasDocumentationAbove(lines, lineNum) {
			gap := research.NewDetectedGap(research.GapMissingDocumentation, path, lineNum, lines[lineNum-1], fmt.Sprintf("struct %q has no documentation", name), 0.8).
				WithMetadata("struct_name", name).
				WithMetadata("item_type", "struct")
			gaps = append(gaps, gap)
		}
	}
	return gaps
}

// hasDocumentationAbove looks back up to three non-blank lines above
// lineNum (1-based) for a doc-comment marker.
func hasDocumentationAbove(lines []string, lineNum int) bool {
	checked := 0
	for i := lineNum - 2; i >= 0 && checked < 3; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		checked++
		if strings.HasPrefix(trimmed, "///") || strings.HasPrefix(trimmed, "//!") ||
			strings.HasPrefix(trimmed, "/**") || strings.Contains(trimmed, "*/") ||
			strings.HasPrefix(trimmed, "#[doc") {
			return true
		}
	}
	return false
}

// detectUndocumentedTechnologies flags top-level `use` statements whose
// root segment is not one of the language's standard modules, at
// confidence 0.7.
func (a *Analyzer) detectUndocumentedTechnologies(content, path string) []research.DetectedGap {
	lines := strings.Split(content, "\n")
	offsets := lineStartOffsets(content)
	var gaps []research.DetectedGap

	for _, m := range a.patterns.rustUse.FindAllStringSubmatchIndex(content, -1) {
		lineNum := lineForOffset(offsets, m[0])
		fullPath := content[m[2]:m[3]]
		root := strings.SplitN(fullPath, "::", 2)[0]
		if !isExternalCrate(root) {
			continue
		}
		gap := research.NewDetectedGap(research.GapUndocumentedTech, path, lineNum, lines[lineNum-1],
			fmt.Sprintf("dependency on %q is not documented", root), 0.7).
			WithMetadata("crate_name", root).
			WithMetadata("full_path", fullPath)
		gaps = append(gaps, gap)
	}
	return gaps
}

// detectAPIDocumentationGaps flags documented `pub fn`s whose preceding ten
// lines contain no fenced code block or the word Example/example, at
// confidence 0.6.
func (a *Analyzer) detectAPIDocumentationGaps(content, path string) []research.DetectedGap {
	lines := strings.Split(content, "\n")
	offsets := lineStartOffsets(content)
	var gaps []research.DetectedGap

	for _, m := range a.patterns.rustFn.FindAllStringSubmatchIndex(content, -1) {
		lineNum := lineForOffset(offsets, m[0])
		name := content[m[6]:m[7]]
		if !hasDocumentationAbove(lines, lineNum) {
			continue
		}
		if hasExamplesInDocumentation(lines, lineNum) {
			continue
		}
		gap := research.NewDetectedGap(research.GapAPIDocumentationGap, path, lineNum, lines[lineNum-1],
			fmt.Sprintf("function %q is documented without usage examples", name), 0.6).
			WithMetadata("function_name", name).
			WithMetadata("missing_element", "examples")
		gaps = append(gaps, gap)
	}
	return gaps
}

func hasExamplesInDocumentation(lines []string, lineNum int) bool {
	start := lineNum - 11
	if start < 0 {
		start = 0
	}
	for i := start; i < lineNum-1 && i < len(lines); i++ {
		if strings.Contains(lines[i], "```") || strings.Contains(lines[i], "Example") || strings.Contains(lines[i], "example") {
			return true
		}
	}
	return false
}

// detectConfigurationGaps flags every top-level `KEY =` in a TOML file, at
// confidence 0.5.
func (a *Analyzer) detectConfigurationGaps(content, path string) []research.DetectedGap {
	lines := strings.Split(content, "\n")
	offsets := lineStartOffsets(content)
	var gaps []research.DetectedGap

	for _, m := range a.patterns.tomlKey.FindAllStringSubmatchIndex(content, -1) {
		lineNum := lineForOffset(offsets, m[0])
		key := content[m[2]:m[3]]
		gap := research.NewDetectedGap(research.GapConfigurationGap, path, lineNum, lines[lineNum-1],
			fmt.Sprintf("configuration key %q is not documented", key), 0.5).
			WithMetadata("config_key", key)
		gaps = append(gaps, gap)
	}
	return gaps
}
