package ragpipe

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.InputDir != "input" {
		t.Errorf("InputDir = %q", cfg.InputDir)
	}
	if cfg.MaxFileBytes() != 100*1024*1024 {
		t.Errorf("MaxFileBytes = %d", cfg.MaxFileBytes())
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ragpipe.yaml")
	yaml := `
input_dir: pages
output_file: out/records.json
noise_patterns: patterns.txt
db_path: records.db
max_file_mb: 10
log_level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InputDir != "pages" || cfg.OutputFile != "out/records.json" {
		t.Errorf("paths: %+v", cfg)
	}
	if cfg.DBPath != "records.db" || cfg.MaxFileMB != 10 || cfg.LogLevel != "debug" {
		t.Errorf("values: %+v", cfg)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty input_dir", func(c *Config) { c.InputDir = "" }},
		{"empty output_file", func(c *Config) { c.OutputFile = "" }},
		{"zero max_file_mb", func(c *Config) { c.MaxFileMB = 0 }},
		{"bad log_level", func(c *Config) { c.LogLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
