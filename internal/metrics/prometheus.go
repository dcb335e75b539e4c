//go:build !noprom

package metrics

import (
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

type promRecorder struct {
	upstreamTotal   *prom.CounterVec
	upstreamSeconds *prom.HistogramVec
	toolTotal       *prom.CounterVec
	toolSeconds     *prom.HistogramVec
}

func (p *promRecorder) IncUpstreamTotal(endpoint string, success bool) {
	p.upstreamTotal.WithLabelValues(endpoint, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveUpstreamSeconds(endpoint string, success bool, seconds float64) {
	p.upstreamSeconds.WithLabelValues(endpoint, fmt.Sprintf("%t", success)).Observe(seconds)
}

func (p *promRecorder) IncToolTotal(tool string, success bool) {
	p.toolTotal.WithLabelValues(tool, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveToolSeconds(tool string, success bool, seconds float64) {
	p.toolSeconds.WithLabelValues(tool, fmt.Sprintf("%t", success)).Observe(seconds)
}

func enablePrometheus(addr string) error {
	registry := prom.NewRegistry()
	p := &promRecorder{
		upstreamTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "ols_upstream_requests_total",
			Help: "Total number of OLS API requests",
		}, []string{"endpoint", "success"}),
		upstreamSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "ols_upstream_request_seconds",
			Help:    "OLS API request duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"endpoint", "success"}),
		toolTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "tool_calls_total",
			Help: "Total number of tool handler calls",
		}, []string{"tool", "success"}),
		toolSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "tool_call_seconds",
			Help:    "Tool handler duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"tool", "success"}),
	}

	registry.MustRegister(p.upstreamTotal, p.upstreamSeconds, p.toolTotal, p.toolSeconds)
	SetRecorder(p)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() { _ = http.ListenAndServe(addr, mux) }()
	return nil
}
