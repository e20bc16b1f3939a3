package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProcessorMetrics tracks transaction-family apply outcomes inside the
// core/processor.Handler.
type ProcessorMetrics struct {
	applied *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

var (
	processorOnce sync.Once
	processorReg  *ProcessorMetrics

	syncOnce sync.Once
	syncReg  *SyncMetrics

	gatewayOnce sync.Once
	gatewayReg  *GatewayMetrics
)

// Processor returns the lazily-initialized processor metrics registry.
func Processor() *ProcessorMetrics {
	processorOnce.Do(func() {
		processorReg = &ProcessorMetrics{
			applied: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "supply_chain",
				Subsystem: "processor",
				Name:      "transactions_total",
				Help:      "Count of processed transactions segmented by action and outcome.",
			}, []string{"action", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "supply_chain",
				Subsystem: "processor",
				Name:      "apply_duration_seconds",
				Help:      "Latency distribution for Handler.Apply.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"action"}),
		}
		prometheus.MustRegister(processorReg.applied, processorReg.latency)
	})
	return processorReg
}

// Observe records one Apply call's outcome and duration.
func (m *ProcessorMetrics) Observe(action string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.applied.WithLabelValues(action, outcome).Inc()
	m.latency.WithLabelValues(action).Observe(d.Seconds())
}

// SyncMetrics tracks the ledger-sync pipeline's progress.
type SyncMetrics struct {
	blocksApplied prometheus.Counter
	blockLag      prometheus.Gauge
	decodeErrors  *prometheus.CounterVec
}

func Sync() *SyncMetrics {
	syncOnce.Do(func() {
		syncReg = &SyncMetrics{
			blocksApplied: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "supply_chain",
				Subsystem: "ledgersync",
				Name:      "blocks_applied_total",
				Help:      "Count of blocks applied to the read store.",
			}),
			blockLag: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "supply_chain",
				Subsystem: "ledgersync",
				Name:      "current_block_num",
				Help:      "Block number of the most recently applied block.",
			}),
			decodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "supply_chain",
				Subsystem: "ledgersync",
				Name:      "decode_errors_total",
				Help:      "Count of state changes skipped due to decode failure, by entity kind.",
			}, []string{"kind"}),
		}
		prometheus.MustRegister(syncReg.blocksApplied, syncReg.blockLag, syncReg.decodeErrors)
	})
	return syncReg
}

func (m *SyncMetrics) RecordBlock(blockNum uint64) {
	if m == nil {
		return
	}
	m.blocksApplied.Inc()
	m.blockLag.Set(float64(blockNum))
}

func (m *SyncMetrics) RecordDecodeError(kind string) {
	if m == nil {
		return
	}
	m.decodeErrors.WithLabelValues(kind).Inc()
}

// GatewayMetrics tracks the HTTP façade's request handling.
type GatewayMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func Gateway() *GatewayMetrics {
	gatewayOnce.Do(func() {
		gatewayReg = &GatewayMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "supply_chain",
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Count of HTTP requests segmented by route and status.",
			}, []string{"route", "status"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "supply_chain",
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"route"}),
		}
		prometheus.MustRegister(gatewayReg.requests, gatewayReg.latency)
	})
	return gatewayReg
}

func (m *GatewayMetrics) Observe(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, status).Inc()
	m.latency.WithLabelValues(route).Observe(d.Seconds())
}
