package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "orderpool"

	// Error type label values
	ErrTypeStateFetch = "state_fetch"
	ErrTypeSubscribe  = "subscribe"
)

// Labels holds constant labels applied to all metrics.
// These are useful for distinguishing metrics from multiple builder instances.
type Labels struct {
	ChainID       uint64 // EVM chain ID (e.g., 1 for Ethereum mainnet)
	Environment   string // Deployment environment (e.g., "production", "staging")
	Region        string // Cloud region (e.g., "us-east-1")
	CloudProvider string // Cloud provider (e.g., "aws", "gcp")
}

// toPrometheusLabels converts Labels to prometheus.Labels map.
// Only non-empty labels are included to avoid empty label values.
func (l Labels) toPrometheusLabels() prometheus.Labels {
	labels := prometheus.Labels{}
	if l.ChainID != 0 {
		labels["chain_id"] = strconv.FormatUint(l.ChainID, 10)
	}
	if l.Environment != "" {
		labels["environment"] = l.Environment
	}
	if l.Region != "" {
		labels["region"] = l.Region
	}
	if l.CloudProvider != "" {
		labels["cloud_provider"] = l.CloudProvider
	}
	return labels
}

// Metrics holds the orderpool maintenance metrics. All methods are no-ops on a nil receiver.
type Metrics struct {
	currentBlock        prometheus.Gauge
	pendingTransactions prometheus.Gauge
	pendingBundles      prometheus.Gauge

	updateDuration prometheus.Histogram
	cyclesTotal    prometheus.Counter
	errors         *prometheus.CounterVec
}

// New creates a new Metrics instance and registers all metrics with the provided registerer.
// For metrics with constant labels (e.g., chain_id), use NewWithLabels instead.
func New(reg prometheus.Registerer) (*Metrics, error) {
	return NewWithLabels(reg, Labels{})
}

// NewWithLabels creates a new Metrics instance with constant labels applied to all metrics.
func NewWithLabels(reg prometheus.Registerer, labels Labels) (*Metrics, error) {
	promLabels := labels.toPrometheusLabels()
	if len(promLabels) > 0 {
		reg = prometheus.WrapRegistererWith(promLabels, reg)
	}

	m := &Metrics{
		currentBlock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "current_block",
			Help:      "Number of the latest block header observed by the cleaner",
		}),
		pendingTransactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "pending_transactions",
			Help:      "Number of pending transactions in the orderpool after the last update",
		}),
		pendingBundles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "pending_bundles",
			Help:      "Number of pending bundles in the orderpool after the last update",
		}),
		updateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "update_duration_seconds",
			Help:      "Time spent synchronizing the orderpool against a new head",
			// 100us .. 1s; the pool lock is held for this long
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		cyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cleanups_total",
			Help:      "Total number of completed orderpool maintenance cycles",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total errors by type",
		}, []string{"type"}),
	}

	err := errors.Join(
		reg.Register(m.currentBlock),
		reg.Register(m.pendingTransactions),
		reg.Register(m.pendingBundles),
		reg.Register(m.updateDuration),
		reg.Register(m.cyclesTotal),
		reg.Register(m.errors),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// SetCurrentBlock records the latest observed block number.
func (m *Metrics) SetCurrentBlock(n uint64) {
	if m == nil {
		return
	}
	m.currentBlock.Set(float64(n))
}

// SetOrderpoolCount records the pool content after an update.
func (m *Metrics) SetOrderpoolCount(txCount, bundleCount int) {
	if m == nil {
		return
	}
	m.pendingTransactions.Set(float64(txCount))
	m.pendingBundles.Set(float64(bundleCount))
}

// ObserveUpdate records a completed maintenance cycle and how long the pool update took.
func (m *Metrics) ObserveUpdate(d time.Duration) {
	if m == nil {
		return
	}
	m.cyclesTotal.Inc()
	m.updateDuration.Observe(d.Seconds())
}

// IncError increments the error counter for the given error type.
func (m *Metrics) IncError(errType string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(errType).Inc()
}
