package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lysyi3m/rss-merge/app/config"
)

const (
	DefaultUserAgent   = "RSS Merge/1.0"
	DefaultMaxBodySize = 10 << 20

	feedAccept = "application/rss+xml, application/atom+xml, application/feed+json, application/xml, text/xml, */*"
)

// FetchError describes a source that could not be fetched or parsed
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetchResult is either a parsed document or the error that prevented it
type FetchResult struct {
	doc *RawDocument
	err error
}

func Success(doc *RawDocument) FetchResult {
	return FetchResult{doc: doc}
}

func Failure(err error) FetchResult {
	return FetchResult{err: err}
}

func (r FetchResult) Err() error {
	return r.err
}

// Document returns the fetched document, or an empty one titled and linked
// with the source URL when the fetch failed.
func (r FetchResult) Document(sourceURL string) RawDocument {
	if r.err != nil || r.doc == nil {
		return RawDocument{Title: sourceURL, Link: sourceURL}
	}
	return *r.doc
}

type Fetcher struct {
	httpClient  *http.Client
	parser      *Parser
	userAgent   string
	maxBodySize int64
}

func NewFetcher(httpClient *http.Client, parser *Parser, userAgent string, maxBodySize int64) *Fetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}

	return &Fetcher{
		httpClient:  httpClient,
		parser:      parser,
		userAgent:   userAgent,
		maxBodySize: maxBodySize,
	}
}

// Run fetches and parses one source. It never fails: an unreachable or
// unparseable source yields an empty document.
func (f *Fetcher) Run(ctx context.Context, source config.Source) RawDocument {
	return f.Fetch(ctx, source).Document(source.URL)
}

// Fetch makes a single attempt at retrieving and parsing the source
func (f *Fetcher) Fetch(ctx context.Context, source config.Source) FetchResult {
	data, err := f.read(ctx, source.URL, source.Settings.GetTimeout())
	if err != nil {
		return f.failure(source, err)
	}

	doc, err := f.parser.Run(data)
	if err != nil {
		return f.failure(source, err)
	}

	if anomaly := f.parser.Anomaly(data); anomaly != nil {
		slog.Warn("Feed is not well-formed, using recovered entries",
			"source", source.URL,
			"error", anomaly,
			"entries", len(doc.Entries))
	}

	slog.Debug("Feed fetched", "source", source.URL, "entries", len(doc.Entries))
	return Success(doc)
}

// FetchArticle downloads the HTML page behind an entry link
func (f *Fetcher) FetchArticle(ctx context.Context, link string, timeout time.Duration) ([]byte, error) {
	resp, err := f.get(ctx, link, timeout, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}
	defer resp.cancel()
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	return f.readBody(resp.Body)
}

func (f *Fetcher) failure(source config.Source, err error) FetchResult {
	fetchErr := &FetchError{URL: source.URL, Err: err}
	slog.Error("Failed to fetch feed",
		"source", source.DisplayName(),
		"url", source.URL,
		"error", err)
	return Failure(fetchErr)
}

func (f *Fetcher) read(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return f.readFile(rawURL)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		resp, err := f.get(ctx, rawURL, timeout, feedAccept)
		if err != nil {
			return nil, err
		}
		defer resp.cancel()
		defer resp.Body.Close()
		return f.readBody(resp.Body)
	case "file":
		if u.Host != "" && !strings.EqualFold(u.Host, "localhost") {
			return nil, fmt.Errorf("file URL must not name a remote host: %s", u.Host)
		}
		return f.readFile(u.Path)
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
	}
}

type response struct {
	*http.Response
	cancel context.CancelFunc
}

func (f *Fetcher) get(ctx context.Context, rawURL string, timeout time.Duration, accept string) (*response, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return &response{Response: resp, cancel: cancel}, nil
}

func (f *Fetcher) readBody(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > f.maxBodySize {
		return nil, fmt.Errorf("response body exceeds %d bytes", f.maxBodySize)
	}
	return data, nil
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}
