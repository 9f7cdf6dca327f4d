package feed

import (
	"time"
)

const (
	JSONFeedVersion    = "https://jsonfeed.org/version/1.1"
	DefaultTitle       = "Actu – Politique internationale (agrégée)"
	DefaultHomePageURL = "https://example.org"
	DefaultFeedURL     = "https://tonpseudo.github.io/actu-politique/feed.json"
)

// Upstream types, as delivered by a source

// RawDocument is the result of fetching one source
type RawDocument struct {
	Title   string
	Link    string
	Entries []RawEntry
}

// RawEntry is one upstream entry. Every field may be empty.
type RawEntry struct {
	Link      string
	ID        string
	Title     string
	Contents  []string // full content bodies, most specific first
	Summary   string
	Published *time.Time
	Updated   *time.Time
	Author    string
	Tags      []string
}

// Output types (JSON Feed 1.1)

type Author struct {
	Name string `json:"name"`
}

type ItemSource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Item struct {
	ID            string     `json:"id"`
	URL           string     `json:"url"`
	Title         string     `json:"title"`
	ContentHTML   string     `json:"content_html"`
	DatePublished string     `json:"date_published"`
	Authors       []Author   `json:"authors"`
	Tags          []string   `json:"tags"`
	Source        ItemSource `json:"source"`
	Lang          string     `json:"lang"`
}

type Document struct {
	Version     string `json:"version"`
	Title       string `json:"title"`
	HomePageURL string `json:"home_page_url"`
	FeedURL     string `json:"feed_url"`
	Items       []Item `json:"items"`
}
