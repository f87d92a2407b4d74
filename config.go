package ragpipe

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full ragpipe configuration.
type Config struct {
	// InputDir is scanned non-recursively for .html/.htm files.
	InputDir string `yaml:"input_dir"`

	// OutputFile receives the JSON array of all records.
	OutputFile string `yaml:"output_file"`

	// NoisePatterns is a plain-text file with one regex per non-blank
	// line. A missing file means an empty pattern set.
	NoisePatterns string `yaml:"noise_patterns"`

	// DBPath enables the SQLite record store when set.
	DBPath string `yaml:"db_path"`

	// MaxFileMB is the per-file size limit.
	MaxFileMB int `yaml:"max_file_mb"`

	LogLevel string `yaml:"log_level"`

	// Logger for warnings and progress. Defaults to slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns sane defaults matching the conventional layout:
// ./input, ./output/converted_documents.json, ./noise_pattern.txt.
func DefaultConfig() *Config {
	return &Config{
		InputDir:      "input",
		OutputFile:    "output/converted_documents.json",
		NoisePatterns: "noise_pattern.txt",
		MaxFileMB:     100,
		LogLevel:      "info",
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig
// merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input_dir is required")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output_file is required")
	}
	if c.MaxFileMB <= 0 {
		return fmt.Errorf("max_file_mb must be > 0")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q", c.LogLevel)
	}
	return nil
}

// MaxFileBytes returns the per-file size limit in bytes.
func (c *Config) MaxFileBytes() int64 { return int64(c.MaxFileMB) * 1024 * 1024 }

func (c *Config) defaults() {
	if c.MaxFileMB <= 0 {
		c.MaxFileMB = 100
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
