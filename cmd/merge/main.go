package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-merge/app/aggregator"
	"github.com/lysyi3m/rss-merge/app/cfg"
	"github.com/lysyi3m/rss-merge/app/config"
	"github.com/lysyi3m/rss-merge/app/feed"
	"github.com/lysyi3m/rss-merge/app/lang"
	"github.com/lysyi3m/rss-merge/app/logging"
	"github.com/lysyi3m/rss-merge/app/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	c, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	if c == nil {
		// help was shown
		return 0
	}

	logging.SetupDefault(os.Stderr, c.LogFormat, c.Debug)

	slog.Info("Starting RSS Merge",
		"version", c.Version,
		"sources", c.SourcesFile,
		"output", c.OutputFile,
		"translator", c.Translator)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources, err := config.NewLoader(c.SourcesFile).Run()
	if err != nil {
		slog.Error("Failed to load sources", "error", err)
		return 1
	}

	collector := metrics.NewCollector()

	translator := collector.InstrumentTranslator(lang.NewRateLimited(newTranslator(c), c.TranslateRPS))

	var normalizerOpts []feed.NormalizerOption
	if c.SanitizeHTML {
		normalizerOpts = append(normalizerOpts, feed.WithSanitizing())
	}
	normalizer := feed.NewNormalizer(
		collector.InstrumentClassifier(lang.NewClassifier()),
		translator,
		c.PrimaryLang,
		c.SecondaryLang,
		normalizerOpts...)

	httpClient := feed.NewHTTPClient(maxTimeout(sources), c.AllowPrivateHosts, c.AllowedPorts)
	fetcher := feed.NewFetcher(httpClient, feed.NewParser(), c.UserAgent, c.MaxBodySize)

	engine := aggregator.NewEngine(fetcher, feed.NewFilterer(), normalizer,
		aggregator.WithArticleExtraction(fetcher, feed.NewContentExtractor()),
		aggregator.WithRecorder(collector),
		aggregator.WithDocument(c.Title, c.HomePageURL))

	doc := engine.Run(ctx, sources, c.FeedURL)

	if err := publish(ctx, feed.NewWriter(feed.NewGenerator(), c.OutputFile), doc); err != nil {
		msg := "Failed to write feed"
		if errors.Is(err, errInterrupted) {
			msg = "Run interrupted, output not written"
		}
		slog.Error(msg, "output", c.OutputFile, "error", err)
		return 1
	}
	slog.Info("Feed written", "output", c.OutputFile, "items", len(doc.Items))

	if c.MetricsFile != "" {
		if err := collector.WriteTextfile(c.MetricsFile); err != nil {
			slog.Warn("Failed to write metrics", "path", c.MetricsFile, "error", err)
		}
	}

	return 0
}

var errInterrupted = errors.New("run interrupted")

// publish writes doc unless ctx was cancelled while it was built, so an
// interrupted run leaves the previous output in place.
func publish(ctx context.Context, writer *feed.Writer, doc feed.Document) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errInterrupted, err)
	}
	return writer.Run(doc)
}

func newTranslator(c *cfg.Cfg) lang.Translator {
	switch c.Translator {
	case cfg.TranslatorLibreTranslate:
		client := &http.Client{Timeout: c.TranslateTimeout}
		return lang.NewLibreTranslate(client, c.TranslatorURL, c.TranslatorAPIKey)
	case cfg.TranslatorOpenAI:
		return lang.NewOpenAI(c.TranslatorAPIKey, c.TranslatorURL, c.OpenAIModel, c.TranslateTimeout)
	default:
		return lang.None{}
	}
}

// maxTimeout is the longest per-source timeout; it bounds every request
// made by the shared HTTP client.
func maxTimeout(sources []config.Source) time.Duration {
	longest := config.DefaultTimeout
	for _, source := range sources {
		longest = max(longest, source.Settings.GetTimeout())
	}
	return longest
}
