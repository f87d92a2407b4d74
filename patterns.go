package ragpipe

import (
	"log/slog"
	"os"
	"strings"
)

// LoadPatterns reads a noise-pattern file: one regular expression per
// non-blank line, applied in file order. A missing or unreadable file
// yields an empty set with a warning, not an error.
func LoadPatterns(path string, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("noise: pattern file not readable, using empty set", "path", path, "error", err)
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		patterns = append(patterns, line)
	}

	logger.Info("noise: loaded patterns", "count", len(patterns), "path", path)
	return patterns
}
