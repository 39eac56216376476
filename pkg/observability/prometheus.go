package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/stemma/pkg/errors"
)

// Prometheus implements every hook interface with Prometheus metrics
// registered on its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	Loads        *prometheus.CounterVec
	LoadDuration *prometheus.HistogramVec
	Transitions  *prometheus.CounterVec
	Elements     *prometheus.CounterVec

	CacheOps *prometheus.CounterVec
	CacheSet prometheus.Histogram

	Upstream         *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
}

// NewPrometheus creates the metrics under the given namespace.
func NewPrometheus(namespace string) *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Layout loads by style and result code.",
		}, []string{"style", "code"}),
		LoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of layout loads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"style"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Session state transitions.",
		}, []string{"from", "to"}),
		Elements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "elements_total",
			Help:      "Drawn and skipped diagram elements.",
		}, []string{"kind"}),
		CacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes by key type.",
		}, []string{"type", "op"}),
		CacheSet: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cache_entry_bytes",
			Help:      "Size of written cache entries.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}),
		Upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream fetches by host and status.",
		}, []string{"host", "status"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of upstream fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
	}
	p.registry.MustRegister(
		p.Loads, p.LoadDuration, p.Transitions, p.Elements,
		p.CacheOps, p.CacheSet,
		p.Upstream, p.UpstreamDuration,
	)
	return p
}

// Registry returns the registry holding the metrics.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the metrics in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *Prometheus) OnLoadStart(context.Context, string) {}

func (p *Prometheus) OnStateChange(_ context.Context, from, to string) {
	p.Transitions.WithLabelValues(from, to).Inc()
}

func (p *Prometheus) OnLoadComplete(_ context.Context, style string, stats LoadStats, d time.Duration, err error) {
	code := "OK"
	if err != nil {
		code = string(errors.GetCode(err))
		if code == "" {
			code = string(errors.ErrCodeInternal)
		}
	}
	p.Loads.WithLabelValues(style, code).Inc()
	p.LoadDuration.WithLabelValues(style).Observe(d.Seconds())
	p.Elements.WithLabelValues("node").Add(float64(stats.Nodes))
	p.Elements.WithLabelValues("edge").Add(float64(stats.Edges))
	p.Elements.WithLabelValues("skipped").Add(float64(stats.Skipped))
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.CacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheOps.WithLabelValues(keyType, "set").Inc()
	p.CacheSet.Observe(float64(size))
}

func (p *Prometheus) OnResponse(_ context.Context, host string, status int, d time.Duration) {
	p.Upstream.WithLabelValues(host, strconv.Itoa(status)).Inc()
	p.UpstreamDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, host string, _ error) {
	p.Upstream.WithLabelValues(host, "error").Inc()
}

var (
	_ SessionHooks = (*Prometheus)(nil)
	_ CacheHooks   = (*Prometheus)(nil)
	_ FetchHooks   = (*Prometheus)(nil)
)
