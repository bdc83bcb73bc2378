// Package metrics exposes Prometheus collectors for the ledger.
// Collectors are registered on an injected registry so tests can use a
// fresh one per case.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "govledger"

// Metrics groups every collector the ledger records to.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	proposalsCreated prometheus.Counter
	votes            *prometheus.CounterVec
	rejections       *prometheus.CounterVec
	rpcDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		proposalsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_created_total",
			Help:      "Number of proposals created.",
		}),
		votes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Number of votes recorded, by choice.",
		}, []string{"choice"}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vote_errors_total",
			Help:      "Number of lifecycle operations rejected, by reason.",
		}, []string{"reason"}),
		rpcDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency, by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
}

// ProposalCreated counts one created proposal.
func (m *Metrics) ProposalCreated() {
	if m == nil {
		return
	}
	m.proposalsCreated.Inc()
}

// VoteRecorded counts one successful vote.
func (m *Metrics) VoteRecorded(choice string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(choice).Inc()
}

// Rejected counts one failed lifecycle operation. reason should come from a
// closed set (the vote error names) to keep label cardinality bounded.
func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

// ObserveRPC records the latency of one RPC.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(seconds)
}

// Reason maps err to a bounded label value.
func Reason(err error, known ...error) string {
	for _, k := range known {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return "internal"
}
