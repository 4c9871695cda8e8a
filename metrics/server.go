package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var activeStreams = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "stream_cache_active_streams",
	Help: "The total number of currently open cache engines.",
})

// Registry tracks per-engine EngineCollectors so they can be
// registered on open and cleanly unregistered on close, avoiding the
// "duplicate metrics collector registration" panic a bare
// promauto.NewGauge approach would hit once streams start and stop
// repeatedly.
type Registry struct {
	reg *prometheus.Registry
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(activeStreams)
	return &Registry{reg: reg}
}

func (r *Registry) TrackEngine(c *EngineCollector) {
	r.reg.MustRegister(c)
	activeStreams.Inc()
}

func (r *Registry) UntrackEngine(c *EngineCollector) {
	r.reg.Unregister(c)
	activeStreams.Dec()
}

// Serve starts the /metrics HTTP endpoint, grounded on
// grafana_logger/main.go's promhttp.Handler wiring, generalized from a
// single global registry to this Registry's own.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
