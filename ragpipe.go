// Package ragpipe converts saved HTML pages into retrieval-ready JSON records.
//
// Each file runs through a four-stage pipeline: noise filtering (structural
// element removal plus user-supplied regex patterns), HTML→structured-text
// conversion, heading-aware sectioning, and record assembly with provenance
// metadata. Files are processed independently; a failing file contributes
// zero records and the run continues.
//
// Usage:
//
//	pipe := ragpipe.New(ragpipe.Config{InputDir: "input"})
//	result, err := pipe.ConvertDir(ctx)
//	ragpipe.WriteRecords("output/converted_documents.json", result.Records)
package ragpipe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Pipeline is the HTML→record conversion engine. It is built once per
// run; the noise-pattern set is loaded at construction and immutable
// afterwards. Files are processed sequentially and independently.
type Pipeline struct {
	cfg        Config
	logger     *slog.Logger
	filter     *Filter
	normalizer *Normalizer
}

// New creates a Pipeline with the given configuration. Noise patterns
// are loaded from cfg.NoisePatterns; a missing file yields an empty set.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	patterns := LoadPatterns(cfg.NoisePatterns, cfg.Logger)
	return &Pipeline{
		cfg:        cfg,
		logger:     cfg.Logger,
		filter:     NewFilter(patterns, cfg.Logger),
		normalizer: NewNormalizer(cfg.Logger),
	}
}

// ConvertFile runs the full pipeline over one HTML file.
func (p *Pipeline) ConvertFile(ctx context.Context, path string) ([]Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > p.cfg.MaxFileBytes() {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrTooLarge, path, info.Size(), p.cfg.MaxFileBytes())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.ConvertHTML(ctx, string(data), sourceStem(path))
}

// ConvertHTML converts raw HTML under the given source name. URL
// extraction runs on the raw markup before any noise removal, so link
// and meta tags stripped later still count.
func (p *Pipeline) ConvertHTML(ctx context.Context, htmlText, sourceName string) ([]Record, error) {
	pageURL := ExtractPageURL(htmlText)
	p.logger.Debug("extracted page url", "source", sourceName, "url", pageURL)

	clean := p.filter.Apply(htmlText)

	structured, err := p.normalizer.Normalize(clean)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", sourceName, err)
	}

	sections := SplitSections(structured)
	p.logger.Debug("split into sections", "source", sourceName, "sections", len(sections))

	return AssembleRecords(sections, sourceName, pageURL), nil
}

// ConvertDir processes every .html/.htm file in cfg.InputDir in sorted
// order and concatenates the results. A failing file is logged and
// contributes zero records. Returns ErrNoInput when the directory holds
// no HTML files.
func (p *Pipeline) ConvertDir(ctx context.Context) (*RunResult, error) {
	files, err := listHTMLFiles(p.cfg.InputDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInput, p.cfg.InputDir)
	}
	p.logger.Info("found input files", "count", len(files), "dir", p.cfg.InputDir)

	var all []Record
	for _, f := range files {
		records, err := p.ConvertFile(ctx, f)
		if err != nil {
			p.logger.Error("file failed, skipping", "path", f, "error", err)
			continue
		}
		p.logger.Info("converted", "file", filepath.Base(f), "records", len(records))
		all = append(all, records...)
	}

	return &RunResult{Records: all}, nil
}

// listHTMLFiles globs *.html and *.htm in dir, sorted for deterministic
// discovery order.
func listHTMLFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	htm, err := filepath.Glob(filepath.Join(dir, "*.htm"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	files = append(files, htm...)
	sort.Strings(files)
	return files, nil
}

// sourceStem returns the file name without directory or extension.
func sourceStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WriteRecords writes records as a single pretty-printed JSON array.
// Non-ASCII characters are written literally, not escaped. Write errors
// are fatal to the run.
func WriteRecords(path string, records []Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		f.Close()
		return fmt.Errorf("encode records: %w", err)
	}
	return f.Close()
}
