// Package metrics holds the Prometheus collectors for graph persistence.
//
// A nil *Metrics is valid and records nothing, so callers that do not export
// metrics can pass nil.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "thinkgraph"

// Metrics counts persistence outcomes.
type Metrics struct {
	// NodesPersisted counts stored nodes. Labels: node_type
	NodesPersisted *prometheus.CounterVec

	// DecisionPointsPersisted counts decision points that reached storage.
	DecisionPointsPersisted prometheus.Counter

	// PersistenceIssues counts failed secondary writes.
	// Labels: stage (decision_point, reasoning_edge)
	PersistenceIssues *prometheus.CounterVec

	// DegradedResults counts persisted nodes with at least one issue.
	DegradedResults prometheus.Counter

	// ConfidenceScore observes node confidence scores.
	ConfidenceScore prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		NodesPersisted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_persisted_total",
			Help:      "Thinking nodes written to the graph, by node type.",
		}, []string{"node_type"}),
		DecisionPointsPersisted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decision_points_persisted_total",
			Help:      "Decision points written to the graph.",
		}),
		PersistenceIssues: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_issues_total",
			Help:      "Secondary writes that failed, by stage.",
		}, []string{"stage"}),
		DegradedResults: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_results_total",
			Help:      "Persisted nodes whose enrichment partially failed.",
		}),
		ConfidenceScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "confidence_score",
			Help:      "Heuristic confidence of persisted nodes.",
			Buckets:   prometheus.LinearBuckets(0.15, 0.1, 9),
		}),
	}
}

// NodePersisted counts a stored node and observes its confidence when set.
func (m *Metrics) NodePersisted(nodeType string, confidence *float64) {
	if m == nil {
		return
	}
	m.NodesPersisted.WithLabelValues(nodeType).Inc()
	if confidence != nil {
		m.ConfidenceScore.Observe(*confidence)
	}
}

// DecisionPoints adds n stored decision points.
func (m *Metrics) DecisionPoints(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.DecisionPointsPersisted.Add(float64(n))
}

// Issue counts one failed secondary write for stage.
func (m *Metrics) Issue(stage string) {
	if m == nil {
		return
	}
	m.PersistenceIssues.WithLabelValues(stage).Inc()
}

// Degraded counts one persisted node with at least one issue.
func (m *Metrics) Degraded() {
	if m == nil {
		return
	}
	m.DegradedResults.Inc()
}

// WriteTextfile writes everything gathered by g to path in the Prometheus
// text format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
