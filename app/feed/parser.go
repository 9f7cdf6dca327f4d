package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses RSS, Atom or JSON Feed data into a RawDocument
func (p *Parser) Run(data []byte) (*RawDocument, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	doc := &RawDocument{
		Title:   strings.TrimSpace(feed.Title),
		Link:    feed.Link,
		Entries: make([]RawEntry, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		doc.Entries = append(doc.Entries, p.rawEntry(item))
	}

	return doc, nil
}

// Anomaly reports why an XML feed is not well-formed, or nil when it is.
// gofeed recovers from many of these, so the result is informational.
func (p *Parser) Anomaly(data []byte) error {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, utf8BOM), " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return nil
	}

	decoder := xml.NewDecoder(bytes.NewReader(trimmed))
	decoder.CharsetReader = charset.NewReaderLabel

	for {
		_, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (p *Parser) rawEntry(item *gofeed.Item) RawEntry {
	entry := RawEntry{
		Link:      item.Link,
		ID:        item.GUID,
		Title:     item.Title,
		Summary:   item.Description,
		Published: item.PublishedParsed,
		Updated:   item.UpdatedParsed,
		Author:    p.extractAuthor(item),
	}

	if item.Content != "" {
		entry.Contents = []string{item.Content}
	}

	if item.Categories != nil {
		entry.Tags = append([]string(nil), item.Categories...)
	}

	return entry
}

func (p *Parser) extractAuthor(item *gofeed.Item) string {
	if item.Author != nil {
		if author := p.formatAuthor(item.Author); author != "" {
			return author
		}
	}

	for _, author := range item.Authors {
		if formatted := p.formatAuthor(author); formatted != "" {
			return formatted
		}
	}

	return ""
}

func (p *Parser) formatAuthor(person *gofeed.Person) string {
	if person == nil {
		return ""
	}
	return cmp.Or(strings.TrimSpace(person.Name), strings.TrimSpace(person.Email))
}
