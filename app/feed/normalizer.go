package feed

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/lysyi3m/rss-merge/app/lang"
)

// LanguageClassifier returns the language code of a text sample
type LanguageClassifier interface {
	Run(sample string) (string, error)
}

type Normalizer struct {
	classifier LanguageClassifier
	translator lang.Translator
	primary    string
	secondary  string
	sanitizer  *Sanitizer
	sanitize   bool
	now        func() time.Time
}

type NormalizerOption func(*Normalizer)

// WithSanitizing cleans content_html with the sanitizer's allow-list policy
func WithSanitizing() NormalizerOption {
	return func(n *Normalizer) {
		n.sanitize = true
	}
}

// WithClock overrides the time used for entries without a date
func WithClock(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) {
		n.now = now
	}
}

// NewNormalizer builds a Normalizer. Entries detected in neither the primary
// nor the secondary language are translated to the primary one. A nil
// translator disables translation.
func NewNormalizer(classifier LanguageClassifier, translator lang.Translator, primary, secondary string, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		classifier: classifier,
		translator: translator,
		primary:    primary,
		secondary:  secondary,
		sanitizer:  NewSanitizer(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ItemID is the hex SHA-256 of the item URL, or of its untranslated title
// when the URL is empty.
func ItemID(url, title string) string {
	sum := sha256.Sum256([]byte(cmp.Or(url, title)))
	return hex.EncodeToString(sum[:])
}

// Run maps one raw entry of the feed (feedTitle, feedLink) to an output item
func (n *Normalizer) Run(ctx context.Context, entry RawEntry, feedTitle, feedLink string) Item {
	url := cmp.Or(entry.Link, entry.ID)
	title := strings.TrimSpace(entry.Title)
	id := ItemID(url, title)

	var content string
	if len(entry.Contents) > 0 {
		content = entry.Contents[0]
	}
	content = cmp.Or(content, entry.Summary)
	if n.sanitize && content != "" {
		content = n.sanitizer.Run(content)
	}

	itemLang := n.classify(content, title)
	if !n.accepted(itemLang) && (content != "" || title != "") {
		content, title, itemLang = n.translate(ctx, url, content, title, itemLang)
	}

	item := Item{
		ID:            id,
		URL:           url,
		Title:         title,
		ContentHTML:   content,
		DatePublished: n.datePublished(entry),
		Authors:       []Author{},
		Tags:          []string{},
		Source:        ItemSource{Name: feedTitle, URL: feedLink},
		Lang:          itemLang,
	}

	if entry.Author != "" {
		item.Authors = append(item.Authors, Author{Name: entry.Author})
	}

	for _, tag := range entry.Tags {
		if tag != "" {
			item.Tags = append(item.Tags, tag)
		}
	}

	return item
}

func (n *Normalizer) classify(content, title string) string {
	sample := title
	if content != "" {
		sample = cmp.Or(n.sanitizer.PlainText(content), title)
	}

	code, err := n.classifier.Run(lang.Truncate(sample, lang.MaxSampleRunes))
	if err != nil {
		slog.Debug("Language detection failed", "title", title, "error", err)
		return lang.Unknown
	}
	return code
}

func (n *Normalizer) accepted(code string) bool {
	return slices.Contains([]string{n.primary, n.secondary}, code)
}

// translate returns the translated texts and the primary language, or the
// inputs unchanged when any part fails.
func (n *Normalizer) translate(ctx context.Context, url, content, title, code string) (string, string, string) {
	if n.translator == nil {
		return content, title, code
	}

	translatedContent, translatedTitle := content, title
	var err error

	if content != "" {
		translatedContent, err = n.translator.Translate(ctx, content, n.primary)
	}
	if err == nil && title != "" {
		translatedTitle, err = n.translator.Translate(ctx, title, n.primary)
	}

	if err != nil {
		slog.Warn("Translation failed, keeping original text",
			"url", url,
			"lang", code,
			"error", err)
		return content, title, code
	}

	slog.Debug("Entry translated", "url", url, "from", code, "to", n.primary)
	return translatedContent, translatedTitle, n.primary
}

func (n *Normalizer) datePublished(entry RawEntry) string {
	date := entry.Published
	if date == nil {
		date = entry.Updated
	}
	if date == nil {
		return n.now().UTC().Format(time.RFC3339)
	}
	return date.UTC().Format(time.RFC3339)
}
