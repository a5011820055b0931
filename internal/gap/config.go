// Package gap implements the Gap Analyzer: regex-driven extraction of
// DetectedGaps from source files, grounded on the proactive gap analyzer's
// detector set (TODO comments, missing docs, undocumented dependencies,
// undocumented API examples, undocumented config keys).
package gap

import "time"

// Config controls which detectors run and their thresholds.
type Config struct {
	SupportedExtensions   []string
	MaxFileSizeBytes      int64
	AnalysisTimeout       time.Duration
	MinConfidenceThreshold float64

	EnableTodoDetection   bool
	EnableDocsDetection   bool
	EnableTechDetection   bool
	EnableAPIDetection    bool
	EnableConfigDetection bool

	CustomTodoPatterns []string
	CustomDocPatterns  []string
}

// DefaultConfig matches the spec's defaults for a Rust-shaped project; the
// supported-extension set generalizes beyond Rust since Fortitude itself
// targets arbitrary source trees.
func DefaultConfig() Config {
	return Config{
		SupportedExtensions:    []string{"rs", "md", "toml", "yaml", "yml", "json", "go"},
		MaxFileSizeBytes:       50 * 1024 * 1024,
		AnalysisTimeout:        500 * time.Millisecond,
		MinConfidenceThreshold: 0.6,
		EnableTodoDetection:    true,
		EnableDocsDetection:    true,
		EnableTechDetection:    true,
		EnableAPIDetection:     true,
		EnableConfigDetection:  true,
	}
}

func (c Config) supportsExtension(ext string) bool {
	for _, e := range c.SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
