// Package metrics collects run statistics in Prometheus format.
//
// The merge binary runs once and exits, so metrics are exported to a
// textfile that the node_exporter textfile collector can pick up.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lysyi3m/rss-merge/app/lang"
	"github.com/prometheus/client_golang/prometheus"
)

// Source statuses
const (
	StatusSuccess  = "success"
	StatusFailure  = "failure"
	StatusDisabled = "disabled"
)

// Translation results
const (
	ResultTranslated = "translated"
	ResultFailed     = "failed"
)

type Collector struct {
	registry          *prometheus.Registry
	sources           *prometheus.CounterVec
	entries           prometheus.Counter
	duplicates        prometheus.Counter
	filtered          prometheus.Counter
	translations      *prometheus.CounterVec
	detectionFailures prometheus.Counter
	items             prometheus.Gauge
	runDuration       prometheus.Gauge
	lastSuccessfulRun prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		sources: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rss_merge_sources_total",
			Help: "Sources processed, by status",
		}, []string{"status"}),
		entries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rss_merge_entries_total",
			Help: "Upstream entries read from all sources",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rss_merge_duplicates_total",
			Help: "Entries dropped as duplicates",
		}),
		filtered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rss_merge_filtered_total",
			Help: "Entries dropped by source filters or item limits",
		}),
		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rss_merge_translations_total",
			Help: "Translation requests, by result",
		}, []string{"result"}),
		detectionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rss_merge_language_detection_failures_total",
			Help: "Samples whose language could not be determined",
		}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rss_merge_items",
			Help: "Items in the generated feed",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rss_merge_run_duration_seconds",
			Help: "Duration of the last aggregation run",
		}),
		lastSuccessfulRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rss_merge_last_run_timestamp_seconds",
			Help: "Unix time the last aggregation run finished",
		}),
	}

	c.registry.MustRegister(
		c.sources,
		c.entries,
		c.duplicates,
		c.filtered,
		c.translations,
		c.detectionFailures,
		c.items,
		c.runDuration,
		c.lastSuccessfulRun,
	)

	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) RecordSource(status string) {
	c.sources.WithLabelValues(status).Inc()
}

func (c *Collector) RecordEntries(count int) {
	c.entries.Add(float64(count))
}

func (c *Collector) RecordDuplicates(count int) {
	c.duplicates.Add(float64(count))
}

func (c *Collector) RecordFiltered(count int) {
	c.filtered.Add(float64(count))
}

func (c *Collector) RecordTranslation(result string) {
	c.translations.WithLabelValues(result).Inc()
}

func (c *Collector) RecordDetectionFailure() {
	c.detectionFailures.Inc()
}

func (c *Collector) RecordRun(items int, duration time.Duration, finishedAt time.Time) {
	c.items.Set(float64(items))
	c.runDuration.Set(duration.Seconds())
	c.lastSuccessfulRun.Set(float64(finishedAt.Unix()))
}

// WriteTextfile writes all metrics to path in the Prometheus text format
func (c *Collector) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// InstrumentTranslator counts the results of every translation call
func (c *Collector) InstrumentTranslator(next lang.Translator) lang.Translator {
	return &instrumentedTranslator{next: next, collector: c}
}

// InstrumentClassifier counts samples the classifier could not place
func (c *Collector) InstrumentClassifier(next Classifier) Classifier {
	return &instrumentedClassifier{next: next, collector: c}
}

type Classifier interface {
	Run(sample string) (string, error)
}

type instrumentedTranslator struct {
	next      lang.Translator
	collector *Collector
}

func (t *instrumentedTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	result, err := t.next.Translate(ctx, text, target)
	if err != nil {
		t.collector.RecordTranslation(ResultFailed)
		return "", err
	}
	t.collector.RecordTranslation(ResultTranslated)
	return result, nil
}

type instrumentedClassifier struct {
	next      Classifier
	collector *Collector
}

func (c *instrumentedClassifier) Run(sample string) (string, error) {
	code, err := c.next.Run(sample)
	if errors.Is(err, lang.ErrUndetermined) {
		c.collector.RecordDetectionFailure()
	}
	return code, err
}
