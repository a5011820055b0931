package gap

import "errors"

var (
	// ErrFileTooLarge is returned when a file exceeds MaxFileSizeBytes.
	ErrFileTooLarge = errors.New("gap: file too large")
	// ErrUnsupportedFileType names the unsupported-extension case.
	// AnalyzeFile does not return it: a file outside the supported set
	// yields no gaps and a nil error.
	ErrUnsupportedFileType = errors.New("gap: unsupported file type")
)
