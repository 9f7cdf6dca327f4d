package feed

import (
	"testing"
	"time"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <language>en-us</language>
    <item>
      <title>  Test Item 1  </title>
      <link>https://example.com/item1</link>
      <description>Test Item 1 Description</description>
      <content:encoded><![CDATA[<p>Test Item 1 Content</p>]]></content:encoded>
      <guid>item-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <author>test@example.com (Test Author)</author>
      <category>Technology</category>
      <category>Programming</category>
    </item>
    <item>
      <title>Test Item 2</title>
      <guid isPermaLink="false">item-2</guid>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	doc, err := parser.Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if doc.Title != "Test Feed" {
		t.Errorf("Expected title 'Test Feed', got: %s", doc.Title)
	}
	if doc.Link != "https://example.com" {
		t.Errorf("Expected link 'https://example.com', got: %s", doc.Link)
	}

	if len(doc.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got: %d", len(doc.Entries))
	}

	entry1 := doc.Entries[0]
	if entry1.Link != "https://example.com/item1" {
		t.Errorf("Expected link 'https://example.com/item1', got: %s", entry1.Link)
	}
	if entry1.ID != "item-1" {
		t.Errorf("Expected ID 'item-1', got: %s", entry1.ID)
	}
	if len(entry1.Contents) != 1 || entry1.Contents[0] != "<p>Test Item 1 Content</p>" {
		t.Errorf("Expected one content body, got: %v", entry1.Contents)
	}
	if entry1.Summary != "Test Item 1 Description" {
		t.Errorf("Expected summary 'Test Item 1 Description', got: %s", entry1.Summary)
	}
	if entry1.Author != "Test Author" {
		t.Errorf("Expected author 'Test Author', got: %s", entry1.Author)
	}
	if len(entry1.Tags) != 2 || entry1.Tags[0] != "Technology" || entry1.Tags[1] != "Programming" {
		t.Errorf("Expected tags [Technology Programming], got: %v", entry1.Tags)
	}
	expected := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	if entry1.Published == nil || !entry1.Published.Equal(expected) {
		t.Errorf("Expected published %v, got: %v", expected, entry1.Published)
	}

	entry2 := doc.Entries[1]
	if entry2.Link != "" {
		t.Errorf("Expected empty link, got: %s", entry2.Link)
	}
	if entry2.ID != "item-2" {
		t.Errorf("Expected ID 'item-2', got: %s", entry2.ID)
	}
	if entry2.Contents != nil {
		t.Errorf("Expected no content bodies, got: %v", entry2.Contents)
	}
	if entry2.Published != nil || entry2.Updated != nil {
		t.Error("Expected no dates for second entry")
	}
	if entry2.Author != "" {
		t.Errorf("Expected empty author, got: %s", entry2.Author)
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2023-07-03T12:00:00Z</updated>
  <id>urn:uuid:1234567890</id>
  <entry>
    <title>Atom Entry 1</title>
    <link href="https://example.com/atom1"/>
    <id>urn:uuid:entry-1</id>
    <updated>2023-07-03T10:00:00Z</updated>
    <summary>Atom Entry 1 Summary</summary>
    <content type="html">Atom Entry 1 Content</content>
    <author>
      <name>Atom Author</name>
      <email>atom@example.com</email>
    </author>
    <category term="atom"/>
  </entry>
</feed>`

	parser := NewParser()
	doc, err := parser.Run([]byte(atomData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if doc.Title != "Test Atom Feed" {
		t.Errorf("Expected title 'Test Atom Feed', got: %s", doc.Title)
	}
	if doc.Link != "https://example.com" {
		t.Errorf("Expected link 'https://example.com', got: %s", doc.Link)
	}

	if len(doc.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(doc.Entries))
	}

	entry := doc.Entries[0]
	if entry.ID != "urn:uuid:entry-1" {
		t.Errorf("Expected ID 'urn:uuid:entry-1', got: %s", entry.ID)
	}
	if len(entry.Contents) != 1 || entry.Contents[0] != "Atom Entry 1 Content" {
		t.Errorf("Expected content 'Atom Entry 1 Content', got: %v", entry.Contents)
	}
	if entry.Summary != "Atom Entry 1 Summary" {
		t.Errorf("Expected summary 'Atom Entry 1 Summary', got: %s", entry.Summary)
	}
	if entry.Author != "Atom Author" {
		t.Errorf("Expected author 'Atom Author', got: %s", entry.Author)
	}
	expected := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	if entry.Updated == nil || !entry.Updated.Equal(expected) {
		t.Errorf("Expected updated %v, got: %v", expected, entry.Updated)
	}
	if len(entry.Tags) != 1 || entry.Tags[0] != "atom" {
		t.Errorf("Expected tags [atom], got: %v", entry.Tags)
	}
}

func TestParseInvalidFeed(t *testing.T) {
	parser := NewParser()
	_, err := parser.Run([]byte("invalid xml"))

	if err == nil {
		t.Error("Expected error for invalid XML")
	}
}

func TestAnomaly(t *testing.T) {
	parser := NewParser()

	wellFormed := `<?xml version="1.0" encoding="ISO-8859-1"?><rss version="2.0"><channel><title>Ok</title></channel></rss>`
	if err := parser.Anomaly([]byte(wellFormed)); err != nil {
		t.Errorf("Expected no anomaly for well-formed feed, got: %v", err)
	}

	unescaped := `<?xml version="1.0"?><rss version="2.0"><channel><title>Tom & Jerry</title></channel></rss>`
	if err := parser.Anomaly([]byte(unescaped)); err == nil {
		t.Error("Expected anomaly for unescaped ampersand")
	}

	jsonFeed := `{"version": "https://jsonfeed.org/version/1.1", "title": "JSON", "items": []}`
	if err := parser.Anomaly([]byte(jsonFeed)); err != nil {
		t.Errorf("Expected JSON feeds to be skipped, got: %v", err)
	}
}
