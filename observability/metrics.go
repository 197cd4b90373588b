package observability

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ArtifactMetrics tracks submission and finalization of the three
// artifact kinds (footprint reports, project proposals, batch proposals)
// the native/artifacts and native/voting engines drive.
type ArtifactMetrics struct {
	submitted *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	votesCast *prometheus.CounterVec
	finalized *prometheus.CounterVec
}

var (
	artifactMetricsOnce sync.Once
	artifactRegistry    *ArtifactMetrics

	schedulerMetricsOnce sync.Once
	schedulerRegistry    *SchedulerMetrics

	marketMetricsOnce sync.Once
	marketRegistry    *MarketMetrics
)

// Artifacts returns the lazily-initialised metrics registry for artifact
// submission, voting, and finalization.
func Artifacts() *ArtifactMetrics {
	artifactMetricsOnce.Do(func() {
		artifactRegistry = &ArtifactMetrics{
			submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "veles",
				Subsystem: "artifacts",
				Name:      "submitted_total",
				Help:      "Count of artifacts submitted, segmented by kind.",
			}, []string{"kind"}),
			rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "veles",
				Subsystem: "artifacts",
				Name:      "rejected_total",
				Help:      "Count of artifact submissions rejected, segmented by kind and reason.",
			}, []string{"kind", "reason"}),
			votesCast: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "veles",
				Subsystem: "artifacts",
				Name:      "votes_cast_total",
				Help:      "Count of votes cast, segmented by kind and choice.",
			}, []string{"kind", "choice"}),
			finalized: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "veles",
				Subsystem: "artifacts",
				Name:      "finalized_total",
				Help:      "Count of artifacts finalized, segmented by kind and outcome.",
			}, []string{"kind", "outcome"}),
		}
		prometheus.MustRegister(
			artifactRegistry.submitted,
			artifactRegistry.rejected,
			artifactRegistry.votesCast,
			artifactRegistry.finalized,
		)
	})
	return artifactRegistry
}

// RecordSubmission increments the submitted counter for kind.
func (m *ArtifactMetrics) RecordSubmission(kind string) {
	if m == nil {
		return
	}
	m.submitted.WithLabelValues(labelKind(kind)).Inc()
}

// RecordRejection increments the rejected counter for kind and reason.
func (m *ArtifactMetrics) RecordRejection(kind, reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(labelKind(kind), labelReason(reason)).Inc()
}

// RecordVote increments the votes-cast counter for kind, choice being "for"
// or "against".
func (m *ArtifactMetrics) RecordVote(kind string, inFavor bool) {
	if m == nil {
		return
	}
	choice := "against"
	if inFavor {
		choice = "for"
	}
	m.votesCast.WithLabelValues(labelKind(kind), choice).Inc()
}

// RecordFinalization increments the finalized counter for kind, outcome
// being "passed" or "rejected".
func (m *ArtifactMetrics) RecordFinalization(kind string, passed bool) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if passed {
		outcome = "passed"
	}
	m.finalized.WithLabelValues(labelKind(kind), outcome).Inc()
}

// SchedulerMetrics tracks the per-block timeout-drain tick.
type SchedulerMetrics struct {
	tickDuration  prometheus.Histogram
	votingDrained prometheus.Counter
	salesDrained  prometheus.Counter
	drainErrors   *prometheus.CounterVec
}

// Scheduler returns the lazily-initialised metrics registry for the
// timeout-drain tick.
func Scheduler() *SchedulerMetrics {
	schedulerMetricsOnce.Do(func() {
		schedulerRegistry = &SchedulerMetrics{
			tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "veles",
				Subsystem: "scheduler",
				Name:      "tick_duration_seconds",
				Help:      "Wall time spent draining voting and sale timeouts for one block.",
				Buckets:   prometheus.DefBuckets,
			}),
			votingDrained: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "veles",
				Subsystem: "scheduler",
				Name:      "voting_drained_total",
				Help:      "Count of voting timeouts drained and finalized.",
			}),
			salesDrained: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "veles",
				Subsystem: "scheduler",
				Name:      "sales_drained_total",
				Help:      "Count of sale-order timeouts drained and expired.",
			}),
			drainErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "veles",
				Subsystem: "scheduler",
				Name:      "drain_errors_total",
				Help:      "Count of errors encountered mid-drain, segmented by queue.",
			}, []string{"queue"}),
		}
		prometheus.MustRegister(
			schedulerRegistry.tickDuration,
			schedulerRegistry.votingDrained,
			schedulerRegistry.salesDrained,
			schedulerRegistry.drainErrors,
		)
	})
	return schedulerRegistry
}

// ObserveTick records the duration of one Tick call.
func (m *SchedulerMetrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(d.Seconds())
}

// RecordVotingDrain increments the voting-drain counter by count.
func (m *SchedulerMetrics) RecordVotingDrain(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.votingDrained.Add(float64(count))
}

// RecordSalesDrain increments the sale-drain counter by count.
func (m *SchedulerMetrics) RecordSalesDrain(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.salesDrained.Add(float64(count))
}

// RecordDrainError increments the drain-error counter for the named queue
// ("voting" or "sales").
func (m *SchedulerMetrics) RecordDrainError(queue string) {
	if m == nil {
		return
	}
	m.drainErrors.WithLabelValues(queue).Inc()
}

// MarketMetrics tracks the holdings/sale-order marketplace.
type MarketMetrics struct {
	ordersCreated  prometheus.Counter
	ordersClosed   *prometheus.CounterVec
	creditsTraded  prometheus.Counter
	holdingsTables prometheus.Gauge
}

// Market returns the lazily-initialised metrics registry for the
// holdings/sale-order subsystem.
func Market() *MarketMetrics {
	marketMetricsOnce.Do(func() {
		marketRegistry = &MarketMetrics{
			ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "veles",
				Subsystem: "market",
				Name:      "sale_orders_created_total",
				Help:      "Count of sale orders created.",
			}),
			ordersClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "veles",
				Subsystem: "market",
				Name:      "sale_orders_closed_total",
				Help:      "Count of sale orders leaving the active state, segmented by terminal outcome.",
			}, []string{"outcome"}),
			creditsTraded: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "veles",
				Subsystem: "market",
				Name:      "credits_traded_total",
				Help:      "Sum of carbon-credit units transferred via completed sale orders.",
			}),
			holdingsTables: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "veles",
				Subsystem: "market",
				Name:      "holdings_rows",
				Help:      "Approximate count of non-empty (batch_hash, holder) holdings rows.",
			}),
		}
		prometheus.MustRegister(
			marketRegistry.ordersCreated,
			marketRegistry.ordersClosed,
			marketRegistry.creditsTraded,
			marketRegistry.holdingsTables,
		)
	})
	return marketRegistry
}

// RecordOrderCreated increments the sale-orders-created counter.
func (m *MarketMetrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordOrderClosed increments the sale-orders-closed counter for the
// supplied terminal outcome ("completed", "closed", or "expired").
func (m *MarketMetrics) RecordOrderClosed(outcome string) {
	if m == nil {
		return
	}
	m.ordersClosed.WithLabelValues(labelReason(outcome)).Inc()
}

// RecordCreditsTraded adds amount (as a float approximation) to the
// credits-traded counter.
func (m *MarketMetrics) RecordCreditsTraded(amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	m.creditsTraded.Add(amount)
}

// SetHoldingsRows sets the holdings-row gauge to count.
func (m *MarketMetrics) SetHoldingsRows(count int) {
	if m == nil {
		return
	}
	m.holdingsTables.Set(float64(count))
}

func labelKind(kind string) string {
	trimmed := strings.TrimSpace(kind)
	if trimmed == "" {
		return "unknown"
	}
	return strings.ToLower(trimmed)
}

func labelReason(reason string) string {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return "unspecified"
	}
	return strings.ToLower(trimmed)
}
