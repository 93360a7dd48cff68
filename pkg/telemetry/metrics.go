package telemetry

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"github.com/originals/cel/pkg/codec"
)

// OperationStats is the per-operation aggregate a MetricsCollector keeps.
type OperationStats struct {
	Count      int64 `json:"count"`
	TotalMs    int64 `json:"totalTimeMs"`
	MinMs      int64 `json:"minTimeMs"`
	MaxMs      int64 `json:"maxTimeMs"`
	ErrorCount int64 `json:"errorCount"`
}

// Snapshot is an isolated copy of a collector's state; mutating it does
// not affect the collector.
type Snapshot struct {
	Operations        map[string]OperationStats `json:"operations"`
	AssetsCreated     int64                     `json:"assetsCreated"`
	AssetsMigrated    map[string]int64          `json:"assetsMigrated"`
	AssetsTransferred int64                     `json:"assetsTransferred"`
	Errors            map[string]int64          `json:"errors"`
	CacheHits         int64                     `json:"cacheHits"`
	CacheMisses       int64                     `json:"cacheMisses"`
}

// MetricsCollector tracks operation timings and lifecycle counters. All
// mutation paths take a short critical section; reads snapshot into
// isolated structures before returning. A collector doubles as a
// Prometheus registry so the same counters are scrapeable.
type MetricsCollector struct {
	mu sync.Mutex

	ops               map[string]*OperationStats
	assetsCreated     int64
	assetsMigrated    map[string]int64
	assetsTransferred int64
	errors            map[string]int64
	cacheHits         int64
	cacheMisses       int64

	registry    *prometheus.Registry
	opCount     *prometheus.CounterVec
	opErrors    *prometheus.CounterVec
	opDuration  *prometheus.SummaryVec
	created     prometheus.Counter
	migrated    *prometheus.CounterVec
	transferred prometheus.Counter
	errCount    *prometheus.CounterVec
	cache       *prometheus.CounterVec
}

// NewMetricsCollector returns an empty collector with its Prometheus
// registry wired.
func NewMetricsCollector() *MetricsCollector {
	m := &MetricsCollector{}
	m.reset()
	return m
}

func (m *MetricsCollector) reset() {
	m.ops = make(map[string]*OperationStats)
	m.assetsCreated = 0
	m.assetsMigrated = make(map[string]int64)
	m.assetsTransferred = 0
	m.errors = make(map[string]int64)
	m.cacheHits = 0
	m.cacheMisses = 0

	m.registry = prometheus.NewRegistry()
	m.opCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "originals_operation_total",
		Help: "Operations executed, by operation name",
	}, []string{"operation"})
	m.opErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "originals_operation_errors_total",
		Help: "Operations that failed, by operation name",
	}, []string{"operation"})
	m.opDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: "originals_operation_duration_seconds",
		Help: "Operation wall-clock duration",
	}, []string{"operation"})
	m.created = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "originals_assets_created_total",
		Help: "Assets created at the peer layer",
	})
	m.migrated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "originals_assets_migrated_total",
		Help: "Assets migrated between layers",
	}, []string{"from", "to"})
	m.transferred = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "originals_assets_transferred_total",
		Help: "Ownership transfers recorded",
	})
	m.errCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "originals_errors_total",
		Help: "Errors recorded, by error code",
	}, []string{"code"})
	m.cache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "originals_cache_events_total",
		Help: "Cache lookups, by result",
	}, []string{"result"})

	m.registry.MustRegister(m.opCount, m.opErrors, m.opDuration,
		m.created, m.migrated, m.transferred, m.errCount, m.cache)
}

// Reset clears every counter and timing aggregate.
func (m *MetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

// RecordOperation folds one completed operation into the per-operation
// aggregates. failed operations also bump the operation's error count.
func (m *MetricsCollector) RecordOperation(op string, d time.Duration, failed bool) {
	ms := d.Milliseconds()

	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.ops[op]
	if !ok {
		stats = &OperationStats{MinMs: ms, MaxMs: ms}
		m.ops[op] = stats
	}
	stats.Count++
	stats.TotalMs += ms
	if ms < stats.MinMs {
		stats.MinMs = ms
	}
	if ms > stats.MaxMs {
		stats.MaxMs = ms
	}
	if failed {
		stats.ErrorCount++
	}

	m.opCount.WithLabelValues(op).Inc()
	m.opDuration.WithLabelValues(op).Observe(d.Seconds())
	if failed {
		m.opErrors.WithLabelValues(op).Inc()
	}
}

// RecordAssetCreated bumps the created-asset counter.
func (m *MetricsCollector) RecordAssetCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assetsCreated++
	m.created.Inc()
}

// RecordMigration bumps the from→to migration counter.
func (m *MetricsCollector) RecordMigration(from, to string) {
	key := from + "->" + to
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assetsMigrated[key]++
	m.migrated.WithLabelValues(from, to).Inc()
}

// RecordTransfer bumps the ownership-transfer counter.
func (m *MetricsCollector) RecordTransfer() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assetsTransferred++
	m.transferred.Inc()
}

// RecordError bumps the counter for code.
func (m *MetricsCollector) RecordError(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[code]++
	m.errCount.WithLabelValues(code).Inc()
}

// RecordCacheLookup bumps the hit or miss counter.
func (m *MetricsCollector) RecordCacheLookup(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.cacheHits++
		m.cache.WithLabelValues("hit").Inc()
	} else {
		m.cacheMisses++
		m.cache.WithLabelValues("miss").Inc()
	}
}

// Snapshot copies the collector's state into an isolated structure.
func (m *MetricsCollector) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Operations:        make(map[string]OperationStats, len(m.ops)),
		AssetsCreated:     m.assetsCreated,
		AssetsMigrated:    make(map[string]int64, len(m.assetsMigrated)),
		AssetsTransferred: m.assetsTransferred,
		Errors:            make(map[string]int64, len(m.errors)),
		CacheHits:         m.cacheHits,
		CacheMisses:       m.cacheMisses,
	}
	for op, stats := range m.ops {
		snap.Operations[op] = *stats
	}
	for k, v := range m.assetsMigrated {
		snap.AssetsMigrated[k] = v
	}
	for k, v := range m.errors {
		snap.Errors[k] = v
	}
	return snap
}

// JSON renders the snapshot as pretty-printed JSON with sorted keys.
func (m *MetricsCollector) JSON() ([]byte, error) {
	canon, err := codec.CanonicalJSON(m.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("telemetry: marshal metrics: %w", err)
	}
	return codec.PrettyJSON(canon)
}

// PrometheusText renders every registered metric in the Prometheus text
// exposition format.
func (m *MetricsCollector) PrometheusText() ([]byte, error) {
	m.mu.Lock()
	reg := m.registry
	m.mu.Unlock()

	families, err := reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("telemetry: gather metrics: %w", err)
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return nil, fmt.Errorf("telemetry: encode metrics: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Handler exposes the collector's registry for HTTP scraping.
func (m *MetricsCollector) Handler() http.Handler {
	m.mu.Lock()
	reg := m.registry
	m.mu.Unlock()
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
