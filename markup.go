package ragpipe

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// Converter turns HTML into structured text: `#`-prefixed heading lines,
// blank-line paragraph breaks, `-`/`N.` list markers.
type Converter interface {
	Convert(htmlText string) (string, error)
}

// markdownConverter is the primary Converter, backed by html-to-markdown
// with commonmark output. The converter does not re-wrap lines, so blank
// lines stay meaningful as paragraph boundaries for the chunker.
type markdownConverter struct {
	conv *converter.Converter
}

func newMarkdownConverter() *markdownConverter {
	return &markdownConverter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (m *markdownConverter) Convert(htmlText string) (string, error) {
	out, err := m.conv.ConvertString(htmlText)
	if err != nil {
		return "", fmt.Errorf("html to markdown: %w", err)
	}
	return out, nil
}

// Normalizer converts cleaned HTML into structured text, degrading to a
// minimal direct transform when the primary converter fails.
type Normalizer struct {
	primary  Converter
	fallback Converter
	logger   *slog.Logger
}

// NewNormalizer builds a Normalizer with the markdown converter as
// primary path and the lossy direct transform as fallback.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		primary:  newMarkdownConverter(),
		fallback: fallbackConverter{},
		logger:   logger,
	}
}

// Normalize returns the structured-text form of htmlText. The primary
// converter is tried first; on failure the fallback runs. An error means
// both paths failed and the file should be skipped.
func (n *Normalizer) Normalize(htmlText string) (string, error) {
	out, err := n.primary.Convert(htmlText)
	if err == nil && strings.TrimSpace(out) != "" {
		return out, nil
	}
	if err != nil {
		n.logger.Warn("markup: converter failed, using fallback", "error", err)
	}

	out, fbErr := n.fallback.Convert(htmlText)
	if fbErr != nil {
		return "", fmt.Errorf("fallback convert: %w", fbErr)
	}
	return out, nil
}
