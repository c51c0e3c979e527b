// Package iometrics collects import metrics and exposes them on a
// Prometheus endpoint.
package iometrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gnnorm"

// Metrics holds collectors of the import scheduler. Every Metrics value
// has its own registry, so tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	runs     *prometheus.CounterVec
	records  *prometheus.CounterVec
	issues   *prometheus.CounterVec
	queue    prometheus.Gauge
	running  prometheus.Gauge
	duration prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_runs_total",
			Help:      "Finished import attempts by terminal state.",
		}, []string{"state"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Verbatim records of successful imports.",
		}, []string{"dataset_key"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issues_total",
			Help:      "Records flagged with an issue in successful imports.",
		}, []string{"issue"}),
		queue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Import requests waiting in the queue.",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running_imports",
			Help:      "Imports being normalized.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "normalize_duration_seconds",
			Help:      "Duration of normalizer runs.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 10),
		}),
	}
	m.registry.MustRegister(
		m.runs, m.records, m.issues, m.queue, m.running, m.duration,
	)
	return m
}

// Registry returns the registry with all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records a finished attempt. Counts of the summary are only
// added for successful runs.
func (m *Metrics) ObserveRun(a gnnorm.Attempt, d time.Duration) {
	m.runs.WithLabelValues(a.State.String()).Inc()
	if a.State != gnnorm.Succeeded || a.Summary == nil {
		return
	}
	m.duration.Observe(d.Seconds())
	m.records.WithLabelValues(a.DatasetKey).Add(float64(a.Summary.Records))
	for k, v := range a.Summary.Issues {
		m.issues.WithLabelValues(k).Add(float64(v))
	}
}

// SetQueue sets the number of queued requests.
func (m *Metrics) SetQueue(n int) {
	m.queue.Set(float64(n))
}

// SetRunning sets the number of running imports.
func (m *Metrics) SetRunning(n int) {
	m.running.Set(float64(n))
}

// Handler returns the HTTP handler of the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is canceled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ServeError(addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return ServeError(addr, err)
		}
		<-errCh
		return nil
	}
}
