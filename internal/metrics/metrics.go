// Package metrics exposes index activity and graph size as prometheus
// metrics. Everything is registered on a private registry owned by the
// caller, so several graphs can be measured in one process.
package metrics

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/yaklabco/hyperseq/pkg/hypergraph"
	"github.com/yaklabco/hyperseq/pkg/runner"
)

// Namespace prefixes every metric name.
const Namespace = "hyperseq"

// Recorder counts graph mutations. It implements hypergraph.Observer.
type Recorder struct {
	vertices *prometheus.CounterVec
	patterns prometheus.Counter
	splits   *prometheus.CounterVec
	widths   prometheus.Histogram

	files  *prometheus.CounterVec
	units  prometheus.Counter
	tokens prometheus.Counter
}

// NewRecorder creates a Recorder whose metrics are registered on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		vertices: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "graph",
			Name:      "vertices_added_total",
			Help:      "Vertices allocated, by kind",
		}, []string{"kind"}),
		patterns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "graph",
			Name:      "patterns_added_total",
			Help:      "Patterns attached to vertices",
		}),
		splits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "graph",
			Name:      "splits_total",
			Help:      "Split requests, by whether the boundary was memoized",
		}, []string{"memoized"}),
		widths: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "graph",
			Name:      "vertex_width",
			Help:      "Width of newly allocated composite vertices",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 12),
		}),
		files: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "ingest",
			Name:      "files_total",
			Help:      "Files processed, by outcome",
		}, []string{"outcome"}),
		units: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "ingest",
			Name:      "units_total",
			Help:      "Token sequences ingested",
		}),
		tokens: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "ingest",
			Name:      "tokens_total",
			Help:      "Tokens ingested",
		}),
	}
}

// VertexAdded implements hypergraph.Observer.
func (r *Recorder) VertexAdded(_ hypergraph.VertexID, width int) {
	if width == 1 {
		r.vertices.WithLabelValues("leaf").Inc()
		return
	}
	r.vertices.WithLabelValues("composite").Inc()
	r.widths.Observe(float64(width))
}

// PatternAdded implements hypergraph.Observer.
func (r *Recorder) PatternAdded(hypergraph.VertexID, hypergraph.PatternID) {
	r.patterns.Inc()
}

// Split implements hypergraph.Observer.
func (r *Recorder) Split(_ hypergraph.VertexID, _ int, memoized bool) {
	r.splits.WithLabelValues(strconv.FormatBool(memoized)).Inc()
}

// RecordRun adds the statistics of an ingestion run.
func (r *Recorder) RecordRun(stats runner.Stats) {
	r.files.WithLabelValues("ingested").Add(float64(stats.FilesIngested))
	r.files.WithLabelValues("skipped").Add(float64(stats.FilesSkipped))
	r.files.WithLabelValues("errored").Add(float64(stats.FilesErrored))
	r.units.Add(float64(stats.UnitsIngested))
	r.tokens.Add(float64(stats.TokensIngested))
}

// StatsSource is implemented by *hypergraph.Graph.
type StatsSource interface {
	Stats() hypergraph.Stats
}

// GraphCollector reports the current size of a graph on every scrape.
type GraphCollector struct {
	source StatsSource

	vertices    *prometheus.Desc
	patterns    *prometheus.Desc
	occurrences *prometheus.Desc
	splits      *prometheus.Desc
	maxWidth    *prometheus.Desc
}

// NewGraphCollector creates a collector for source. Register it with
// prometheus.Registerer.MustRegister or Register.
func NewGraphCollector(source StatsSource) *GraphCollector {
	name := func(n string) string { return prometheus.BuildFQName(Namespace, "graph", n) }

	return &GraphCollector{
		source:      source,
		vertices:    prometheus.NewDesc(name("vertices"), "Vertices in the graph, by kind", []string{"kind"}, nil),
		patterns:    prometheus.NewDesc(name("patterns"), "Patterns across all vertices", nil, nil),
		occurrences: prometheus.NewDesc(name("occurrences"), "Parent backlinks across all vertices", nil, nil),
		splits:      prometheus.NewDesc(name("memoized_splits"), "Memoized split boundaries", nil, nil),
		maxWidth:    prometheus.NewDesc(name("max_width"), "Width of the widest vertex", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *GraphCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.vertices
	ch <- c.patterns
	ch <- c.occurrences
	ch <- c.splits
	ch <- c.maxWidth
}

// Collect implements prometheus.Collector.
func (c *GraphCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.Stats()

	ch <- prometheus.MustNewConstMetric(c.vertices, prometheus.GaugeValue, float64(stats.Leaves), "leaf")
	ch <- prometheus.MustNewConstMetric(c.vertices, prometheus.GaugeValue, float64(stats.Composites), "composite")
	ch <- prometheus.MustNewConstMetric(c.patterns, prometheus.GaugeValue, float64(stats.Patterns))
	ch <- prometheus.MustNewConstMetric(c.occurrences, prometheus.GaugeValue, float64(stats.Occurrences))
	ch <- prometheus.MustNewConstMetric(c.splits, prometheus.GaugeValue, float64(stats.Splits))
	ch <- prometheus.MustNewConstMetric(c.maxWidth, prometheus.GaugeValue, float64(stats.MaxWidth))
}

// WriteText writes every metric gathered from g in the prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
