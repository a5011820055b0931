package gap

import "regexp"

// compiledPatterns is built once per Analyzer and scans a file's content in
// a single pass per detector category, matching the source's RegexSet
// idiom: one combined automaton per concern rather than per-pattern loops.
type compiledPatterns struct {
	todo       *regexp.Regexp
	rustFn     *regexp.Regexp
	rustStruct *regexp.Regexp
	rustUse    *regexp.Regexp
	tomlKey    *regexp.Regexp
}

var standardModules = map[string]bool{
	"std": true, "core": true, "alloc": true, "proc_macro": true,
	"test": true, "super": true, "self": true, "crate": true,
}

func newCompiledPatterns(customTodo, customDoc []string) *compiledPatterns {
	todoAlt := `(?im)^\s*(?://|#|/\*)\s*(TODO|FIXME|HACK|BUG|NOTE)\s*:?\s*(.*)$`
	if len(customTodo) > 0 {
		todoAlt = combineCustom(todoAlt, customTodo)
	}
	return &compiledPatterns{
		todo:       regexp.MustCompile(todoAlt),
		rustFn:     regexp.MustCompile(`(?m)^(\s*)pub\s+(async\s+)?fn\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\(`),
		rustStruct: regexp.MustCompile(`(?m)^(\s*)pub\s+struct\s+([a-zA-Z_][a-zA-Z0-9_]*)`),
		rustUse:    regexp.MustCompile(`(?m)^use\s+([a-zA-Z_][a-zA-Z0-9_]*(?:::[a-zA-Z_][a-zA-Z0-9_]*)*)`),
		tomlKey:    regexp.MustCompile(`(?m)^([a-zA-Z_][a-zA-Z0-9_]*)\s*=`),
	}
}

func combineCustom(base string, extra []string) string {
	combined := base
	for _, p := range extra {
		combined += "|" + p
	}
	return combined
}

func isExternalCrate(root string) bool {
	return !standardModules[root]
}
