package aggregator

import (
	"cmp"
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lysyi3m/rss-merge/app/config"
	"github.com/lysyi3m/rss-merge/app/feed"
	"github.com/lysyi3m/rss-merge/app/metrics"
)

// Fetcher retrieves one source. A failed fetch yields an empty document
// with the source URL as title and link.
type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) feed.FetchResult
}

// ArticleFetcher downloads the page behind an entry link
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, link string, timeout time.Duration) ([]byte, error)
}

// Recorder receives run statistics
type Recorder interface {
	RecordSource(status string)
	RecordEntries(count int)
	RecordDuplicates(count int)
	RecordFiltered(count int)
	RecordRun(items int, duration time.Duration, finishedAt time.Time)
}

type nopRecorder struct{}

func (nopRecorder) RecordSource(string)                     {}
func (nopRecorder) RecordEntries(int)                       {}
func (nopRecorder) RecordDuplicates(int)                    {}
func (nopRecorder) RecordFiltered(int)                      {}
func (nopRecorder) RecordRun(int, time.Duration, time.Time) {}

type Engine struct {
	fetcher     Fetcher
	articles    ArticleFetcher
	extractor   *feed.ContentExtractor
	filterer    *feed.Filterer
	normalizer  *feed.Normalizer
	recorder    Recorder
	title       string
	homePageURL string
	now         func() time.Time
}

type Option func(*Engine)

// WithArticleExtraction enables fetching article pages for sources with
// extract_content set
func WithArticleExtraction(articles ArticleFetcher, extractor *feed.ContentExtractor) Option {
	return func(e *Engine) {
		e.articles = articles
		e.extractor = extractor
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(e *Engine) {
		if recorder != nil {
			e.recorder = recorder
		}
	}
}

// WithDocument overrides the title and home page of the generated feed
func WithDocument(title, homePageURL string) Option {
	return func(e *Engine) {
		e.title = cmp.Or(title, e.title)
		e.homePageURL = cmp.Or(homePageURL, e.homePageURL)
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(fetcher Fetcher, filterer *feed.Filterer, normalizer *feed.Normalizer, opts ...Option) *Engine {
	e := &Engine{
		fetcher:     fetcher,
		filterer:    filterer,
		normalizer:  normalizer,
		recorder:    nopRecorder{},
		title:       feed.DefaultTitle,
		homePageURL: feed.DefaultHomePageURL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type runStats struct {
	sources    int
	failed     int
	disabled   int
	entries    int
	duplicates int
	filtered   int
}

// Run aggregates the sources, in order, into one deduplicated document
// sorted newest first. feedURL overrides the default public feed URL.
func (e *Engine) Run(ctx context.Context, sources []config.Source, feedURL string) feed.Document {
	startedAt := e.now()
	stats := runStats{}

	items := make([]feed.Item, 0)
	seen := make(map[string]struct{})

	for _, source := range sources {
		if !source.Settings.IsEnabled() {
			slog.Debug("Source disabled, skipping", "source", source.URL)
			stats.disabled++
			e.recorder.RecordSource(metrics.StatusDisabled)
			continue
		}
		stats.sources++

		result := e.fetcher.Fetch(ctx, source)
		if result.Err() != nil {
			stats.failed++
			e.recorder.RecordSource(metrics.StatusFailure)
		} else {
			e.recorder.RecordSource(metrics.StatusSuccess)
		}

		doc := result.Document(source.URL)
		feedTitle := cmp.Or(doc.Title, source.Name)
		feedLink := cmp.Or(doc.Link, source.URL)

		stats.entries += len(doc.Entries)
		entries, filtered := e.selectEntries(doc.Entries, source)
		stats.filtered += filtered

		added, duplicates := 0, 0
		for _, entry := range entries {
			key := dedupKey(entry)
			if _, ok := seen[key]; ok {
				duplicates++
				continue
			}
			seen[key] = struct{}{}

			if source.Settings.ExtractContent {
				entry = e.extractContent(ctx, entry, source)
			}

			items = append(items, e.normalizer.Run(ctx, entry, feedTitle, feedLink))
			added++
		}
		stats.duplicates += duplicates

		slog.Info("Source processed",
			"source", source.URL,
			"feed", feedTitle,
			"total", len(doc.Entries),
			"filtered", filtered,
			"duplicates", duplicates,
			"added", added)
	}

	sortItems(items, startedAt)

	doc := feed.Document{
		Version:     feed.JSONFeedVersion,
		Title:       e.title,
		HomePageURL: e.homePageURL,
		FeedURL:     cmp.Or(feedURL, feed.DefaultFeedURL),
		Items:       items,
	}

	finishedAt := e.now()
	duration := finishedAt.Sub(startedAt)

	e.recorder.RecordEntries(stats.entries)
	e.recorder.RecordDuplicates(stats.duplicates)
	e.recorder.RecordFiltered(stats.filtered)
	e.recorder.RecordRun(len(items), duration, finishedAt)

	slog.Info("Aggregation completed",
		"sources", stats.sources,
		"failed", stats.failed,
		"disabled", stats.disabled,
		"entries", stats.entries,
		"filtered", stats.filtered,
		"duplicates", stats.duplicates,
		"items", len(items),
		"duration", duration)

	return doc
}

// selectEntries applies the source filters and the max_items cap
func (e *Engine) selectEntries(entries []feed.RawEntry, source config.Source) ([]feed.RawEntry, int) {
	kept, filtered := e.filterer.Run(entries, source.Filters)

	if limit := source.Settings.MaxItems; limit > 0 && len(kept) > limit {
		filtered += len(kept) - limit
		kept = kept[:limit]
	}

	return kept, filtered
}

// extractContent fills in the article body of entries that have none
func (e *Engine) extractContent(ctx context.Context, entry feed.RawEntry, source config.Source) feed.RawEntry {
	if e.articles == nil || e.extractor == nil || entry.Link == "" {
		return entry
	}
	if len(entry.Contents) > 0 && entry.Contents[0] != "" {
		return entry
	}

	data, err := e.articles.FetchArticle(ctx, entry.Link, source.Settings.GetTimeout())
	if err != nil {
		slog.Warn("Failed to fetch article", "source", source.URL, "url", entry.Link, "error", err)
		return entry
	}

	content, err := e.extractor.Run(data, entry.Link)
	if err != nil {
		slog.Warn("Failed to extract article content", "source", source.URL, "url", entry.Link, "error", err)
		return entry
	}

	entry.Contents = []string{content}
	return entry
}

// dedupKey is the entry link, else its id, else the item id the entry
// normalizes to.
func dedupKey(entry feed.RawEntry) string {
	if key := cmp.Or(entry.Link, entry.ID); key != "" {
		return key
	}
	return feed.ItemID("", strings.TrimSpace(entry.Title))
}

// sortItems orders items newest first. Items with equal dates keep their
// relative order; unparseable dates sort as fallback.
func sortItems(items []feed.Item, fallback time.Time) {
	keys := make([]time.Time, len(items))
	for i, item := range items {
		date, err := time.Parse(time.RFC3339, item.DatePublished)
		if err != nil {
			date = fallback
		}
		keys[i] = date
	}

	sort.Stable(byDate{items: items, keys: keys})
}

type byDate struct {
	items []feed.Item
	keys  []time.Time
}

func (b byDate) Len() int           { return len(b.items) }
func (b byDate) Less(i, j int) bool { return b.keys[i].After(b.keys[j]) }
func (b byDate) Swap(i, j int) {
	b.items[i], b.items[j] = b.items[j], b.items[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}
