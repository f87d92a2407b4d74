package ragpipe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertFile_SingleSection(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "test.html", "<html><body><p>Hello world</p></body></html>")

	pipe := New(Config{Logger: testLogger()})
	records, err := pipe.ConvertFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if !strings.Contains(r.Content, "Hello world") {
		t.Errorf("content = %q", r.Content)
	}
	if r.Content != strings.TrimSpace(r.Content) {
		t.Errorf("content not trimmed: %q", r.Content)
	}
	if r.ID != "test_0" {
		t.Errorf("id = %q, want test_0", r.ID)
	}
	if r.Metadata["section_id"] != 0 {
		t.Errorf("section_id = %v", r.Metadata["section_id"])
	}
	if r.Metadata["url"] != "" {
		t.Errorf("url = %v, want empty", r.Metadata["url"])
	}
}

func TestConvertHTML_HeadingsSplit(t *testing.T) {
	html := `<html><head><link rel="canonical" href="https://docs.test/guide"></head><body>
<h1>Guide</h1><p>intro text</p>
<h2>Install</h2><p>install text</p>
</body></html>`

	pipe := New(Config{Logger: testLogger()})
	records, err := pipe.ConvertHTML(context.Background(), html, "guide")
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}
	if records[0].Metadata["Header 1"] != "Guide" {
		t.Errorf("record 0 metadata = %v", records[0].Metadata)
	}
	if records[1].Metadata["Header 1"] != "Guide" || records[1].Metadata["Header 2"] != "Install" {
		t.Errorf("record 1 metadata = %v", records[1].Metadata)
	}
	for _, r := range records {
		if r.Metadata["url"] != "https://docs.test/guide" {
			t.Errorf("url = %v", r.Metadata["url"])
		}
	}
}

func TestConvertHTML_NoisePatternApplied(t *testing.T) {
	dir := t.TempDir()
	patternFile := writeFile(t, dir, "noise.txt", "REMOVE_ME\n\n[broken\n")

	pipe := New(Config{NoisePatterns: patternFile, Logger: testLogger()})
	records, err := pipe.ConvertHTML(context.Background(),
		"<html><body><p>keep REMOVE_ME this</p></body></html>", "page")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if strings.Contains(records[0].Content, "REMOVE_ME") {
		t.Errorf("noise pattern not applied: %q", records[0].Content)
	}
	if !strings.Contains(records[0].Content, "keep") {
		t.Errorf("content lost: %q", records[0].Content)
	}
}

func TestConvertDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.html", "<html><body><p>second file</p></body></html>")
	writeFile(t, dir, "a.html", "<html><body><p>first file</p></body></html>")
	writeFile(t, dir, "c.htm", "<html><body><p>third file</p></body></html>")
	writeFile(t, dir, "ignored.txt", "not html")

	pipe := New(Config{InputDir: dir, Logger: testLogger()})
	result, err := pipe.ConvertDir(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(result.Records))
	}
	// Sorted discovery order: a.html, b.html, c.htm.
	if result.Records[0].ID != "a_0" || result.Records[1].ID != "b_0" || result.Records[2].ID != "c_0" {
		t.Errorf("order: %q, %q, %q", result.Records[0].ID, result.Records[1].ID, result.Records[2].ID)
	}
}

func TestConvertDir_NoInput(t *testing.T) {
	pipe := New(Config{InputDir: t.TempDir(), Logger: testLogger()})
	_, err := pipe.ConvertDir(context.Background())
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("err = %v, want ErrNoInput", err)
	}
}

func TestConvertDir_SkipsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.html", "<html><body><p>small enough</p></body></html>")

	big := "<html><body><p>" + strings.Repeat("x", 2*1024*1024) + "</p></body></html>"
	writeFile(t, dir, "big.html", big)

	pipe := New(Config{InputDir: dir, MaxFileMB: 1, Logger: testLogger()})
	result, err := pipe.ConvertDir(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	if result.Records[0].ID != "ok_0" {
		t.Errorf("id = %q", result.Records[0].ID)
	}
}

func TestWriteRecords(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "out.json")

	records := []Record{{
		ID:      "doc_0",
		Content: "日本語のテキスト",
		Metadata: map[string]any{
			"source": "doc", "url": "", "section_id": 0,
		},
	}}
	if err := WriteRecords(out, records); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	if !strings.Contains(text, "日本語のテキスト") {
		t.Errorf("non-ASCII escaped: %s", text)
	}
	if strings.Contains(text, `\u`) {
		t.Errorf("unicode escapes present: %s", text)
	}
	if !strings.HasPrefix(text, "[\n  {") {
		t.Errorf("not a pretty-printed array: %s", text[:min(len(text), 40)])
	}
}

func TestWriteRecords_EmptyRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	if err := WriteRecords(out, nil); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(out)
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty run output = %q, want []", string(data))
	}
}

func TestSourceStem(t *testing.T) {
	tests := []struct{ path, want string }{
		{"input/page.html", "page"},
		{"a/b/index.htm", "index"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := sourceStem(tt.path); got != tt.want {
			t.Errorf("sourceStem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
