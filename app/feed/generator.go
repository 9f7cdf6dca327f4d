package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Generator serializes a Document as JSON Feed 1.1
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run encodes doc with two-space indentation. Non-ASCII text and HTML
// are written verbatim.
func (g *Generator) Run(doc Document) ([]byte, error) {
	items := make([]Item, len(doc.Items))
	for i, item := range doc.Items {
		if item.Authors == nil {
			item.Authors = []Author{}
		}
		if item.Tags == nil {
			item.Tags = []string{}
		}
		items[i] = item
	}
	doc.Items = items

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode feed: %w", err)
	}

	return buf.Bytes(), nil
}

// Writer stores generated documents on disk
type Writer struct {
	generator *Generator
	path      string
}

func NewWriter(generator *Generator, path string) *Writer {
	return &Writer{
		generator: generator,
		path:      path,
	}
}

// Run replaces the output file atomically
func (w *Writer) Run(doc Document) error {
	data, err := w.generator.Run(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", w.path, err)
	}

	return nil
}
