package feed

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testDocument() Document {
	return Document{
		Version:     JSONFeedVersion,
		Title:       DefaultTitle,
		HomePageURL: DefaultHomePageURL,
		FeedURL:     DefaultFeedURL,
		Items: []Item{
			{
				ID:            "abc",
				URL:           "https://example.com/1?a=1&b=2",
				Title:         "Élection à Genève",
				ContentHTML:   "<p>Texte</p>",
				DatePublished: "2024-06-01T00:00:00Z",
				Source:        ItemSource{Name: "Feed", URL: "https://example.com"},
				Lang:          "fr",
			},
		},
	}
}

func TestGenerator_Run(t *testing.T) {
	generator := NewGenerator()

	data, err := generator.Run(testDocument())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	output := string(data)

	if !strings.Contains(output, `"title": "Actu – Politique internationale (agrégée)"`) {
		t.Errorf("Expected non-ASCII title written verbatim, got: %s", output)
	}
	if !strings.Contains(output, `"content_html": "<p>Texte</p>"`) {
		t.Errorf("Expected HTML written verbatim, got: %s", output)
	}
	if !strings.Contains(output, `"url": "https://example.com/1?a=1&b=2"`) {
		t.Errorf("Expected ampersand written verbatim, got: %s", output)
	}
	if !strings.Contains(output, "\n  \"version\": \"https://jsonfeed.org/version/1.1\"") {
		t.Errorf("Expected two-space indentation, got: %s", output)
	}
	if !strings.Contains(output, `"authors": []`) || !strings.Contains(output, `"tags": []`) {
		t.Errorf("Expected empty authors and tags as [], got: %s", output)
	}
	if strings.Contains(output, "null") {
		t.Errorf("Expected no null values, got: %s", output)
	}
}

func TestGenerator_FieldOrder(t *testing.T) {
	generator := NewGenerator()

	data, err := generator.Run(testDocument())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	output := string(data)
	fields := []string{`"version"`, `"title"`, `"home_page_url"`, `"feed_url"`, `"items"`, `"id"`, `"url"`, `"content_html"`, `"date_published"`, `"authors"`, `"tags"`, `"source"`, `"lang"`}

	last := -1
	for _, field := range fields {
		index := strings.Index(output[last+1:], field)
		if index < 0 {
			t.Fatalf("Expected field %s after position %d", field, last)
		}
		last += index + 1
	}
}

func TestGenerator_EmptyDocument(t *testing.T) {
	generator := NewGenerator()

	data, err := generator.Run(Document{Version: JSONFeedVersion})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got: %v", err)
	}
	items, ok := decoded["items"].([]any)
	if !ok || len(items) != 0 {
		t.Errorf("Expected empty items array, got: %v", decoded["items"])
	}
}

func TestWriter_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "public", "feed.json")
	writer := NewWriter(NewGenerator(), path)

	if err := writer.Run(testDocument()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// second run replaces the first
	doc := testDocument()
	doc.Items = nil
	if err := writer.Run(doc); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected output file, got: %v", err)
	}

	var decoded Document
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got: %v", err)
	}
	if len(decoded.Items) != 0 {
		t.Errorf("Expected replaced document with no items, got: %d", len(decoded.Items))
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Failed to list output directory: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the output file, got %d entries", len(entries))
	}
}

func TestWriter_RunUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	writer := NewWriter(NewGenerator(), filepath.Join(blocker, "feed.json"))
	if err := writer.Run(testDocument()); err == nil {
		t.Error("Expected error when the output directory is a file")
	}
}
