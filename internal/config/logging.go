package config

// LoggingConfig configures the category-based file logger, same shape as
// the teacher's LoggingConfig.
type LoggingConfig struct {
	Level      string          `yaml:"level"`
	Format     string          `yaml:"format"`
	File       string          `yaml:"file"`
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// IsCategoryEnabled returns whether logging is enabled for a category.
func (c LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}
