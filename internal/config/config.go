// Package config handles objtool configuration loading and management.
package config

// Config holds all objtool settings.
type Config struct {
	Parse   ParseConfig   `yaml:"parse"`
	Convert ConvertConfig `yaml:"convert"`
	Logging LoggingConfig `yaml:"logging"`
}

// ParseConfig holds OBJ parsing settings.
type ParseConfig struct {
	Triangulate  bool     `yaml:"triangulate"`   // Split polygons into triangle fans
	MaterialDirs []string `yaml:"material_dirs"` // Extra directories searched for .mtl files
}

// ConvertConfig holds glTF export settings.
type ConvertConfig struct {
	SimplifyRatio float64 `yaml:"simplify_ratio"` // Target triangle ratio, 0 or 1 disables decimation
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Parse: ParseConfig{
			Triangulate:  true,
			MaterialDirs: nil,
		},
		Convert: ConvertConfig{
			SimplifyRatio: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
