// Package config handles tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Compile CompileConfig `yaml:"compile"`
	Logging LoggingConfig `yaml:"logging"`
}

// CompileConfig holds mesh compilation settings.
type CompileConfig struct {
	// Tangents enables tangent-space generation for textured faces.
	Tangents bool `yaml:"tangents"`
	// StepLines bounds how many directives an incremental compile
	// consumes per step. Zero means compile in one shot.
	StepLines int `yaml:"step_lines"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Compile: CompileConfig{
			Tangents:  false,
			StepLines: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
