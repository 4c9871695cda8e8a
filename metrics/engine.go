// Package metrics exposes cache.Engine state as Prometheus gauges,
// grounded on filesystem/driver/provider/fuse/metrics/stream_transfer.go's
// per-stream atomic-counter bookkeeping (there keyed by
// github.com/google/uuid, collected by hand into JSON) and on
// grafana_logger/main.go's use of
// github.com/prometheus/client_golang/prometheus for the process-wide
// active-stream gauge. Generalizes both into one prometheus.Collector
// per engine, registered under its stream ID.
package metrics

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"stream_cache/cache"
)

var (
	cachedBytesDesc = prometheus.NewDesc(
		"stream_cache_cached_bytes",
		"Bytes currently held in the read-ahead window.",
		[]string{"stream_id"}, nil,
	)
	windowStartDesc = prometheus.NewDesc(
		"stream_cache_window_start_bytes",
		"Byte offset of the first byte in the read-ahead window.",
		[]string{"stream_id"}, nil,
	)
	lastAccessDesc = prometheus.NewDesc(
		"stream_cache_last_access_bytes",
		"Byte offset of the most recent read served.",
		[]string{"stream_id"}, nil,
	)
	fetchingDesc = prometheus.NewDesc(
		"stream_cache_fetching",
		"1 if the prefetcher is actively fetching for this stream.",
		[]string{"stream_id"}, nil,
	)
	suspendedDesc = prometheus.NewDesc(
		"stream_cache_suspended",
		"1 if prefetching is suspended for this stream.",
		[]string{"stream_id"}, nil,
	)
	retriesLeftDesc = prometheus.NewDesc(
		"stream_cache_retries_left",
		"Retries remaining before the engine latches a permanent failure.",
		[]string{"stream_id"}, nil,
	)
	statusKindDesc = prometheus.NewDesc(
		"stream_cache_status_kind",
		"The engine's latched source.Kind, as its integer value.",
		[]string{"stream_id"}, nil,
	)
)

// EngineCollector adapts one cache.Engine's Snapshot into Prometheus
// metrics. Register it per open stream and unregister it when the
// stream closes.
type EngineCollector struct {
	StreamID string
	Engine   *cache.Engine
}

// NewEngineCollector mints a collector with a fresh stream ID, the way
// stream_transfer.go identified each tracked transfer by uuid.
func NewEngineCollector(engine *cache.Engine) *EngineCollector {
	return &EngineCollector{
		StreamID: uuid.NewString(),
		Engine:   engine,
	}
}

var _ prometheus.Collector = &EngineCollector{}

func (c *EngineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cachedBytesDesc
	ch <- windowStartDesc
	ch <- lastAccessDesc
	ch <- fetchingDesc
	ch <- suspendedDesc
	ch <- retriesLeftDesc
	ch <- statusKindDesc
}

func (c *EngineCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.Engine.TakeSnapshot()

	ch <- prometheus.MustNewConstMetric(cachedBytesDesc, prometheus.GaugeValue, float64(snap.CachedBytes), c.StreamID)
	ch <- prometheus.MustNewConstMetric(windowStartDesc, prometheus.GaugeValue, float64(snap.CacheOffset), c.StreamID)
	ch <- prometheus.MustNewConstMetric(lastAccessDesc, prometheus.GaugeValue, float64(snap.LastAccessPos), c.StreamID)
	ch <- prometheus.MustNewConstMetric(fetchingDesc, prometheus.GaugeValue, boolToFloat(snap.Fetching), c.StreamID)
	ch <- prometheus.MustNewConstMetric(suspendedDesc, prometheus.GaugeValue, boolToFloat(snap.Suspended), c.StreamID)
	ch <- prometheus.MustNewConstMetric(retriesLeftDesc, prometheus.GaugeValue, float64(snap.RetriesLeft), c.StreamID)
	ch <- prometheus.MustNewConstMetric(statusKindDesc, prometheus.GaugeValue, float64(snap.FinalStatus.Kind), c.StreamID)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
