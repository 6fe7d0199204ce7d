// Package metrics exposes render counters and latencies through Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Render status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

const shutdownTimeout = 5 * time.Second

// Recorder owns a private registry so several dashboards (and tests) never collide
// on the global default registry.
type Recorder struct {
	registry      *prometheus.Registry
	renders       *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	widgetChanges *prometheus.CounterVec
}

// NewRecorder creates a recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cintel",
			Name:      "render_total",
			Help:      "Render binding invocations by output and status.",
		}, []string{"output", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cintel",
			Name:      "render_duration_seconds",
			Help:      "Render binding latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), //nolint:mnd // 100us to ~1.6s
		}, []string{"output"}),
		widgetChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cintel",
			Name:      "widget_changes_total",
			Help:      "Accepted widget value changes.",
		}, []string{"widget"}),
	}
	r.registry.MustRegister(r.renders, r.duration, r.widgetChanges)
	return r
}

// ObserveRender records one binding invocation.
func (r *Recorder) ObserveRender(output string, err error, d time.Duration) {
	if r == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	r.renders.WithLabelValues(output, status).Inc()
	r.duration.WithLabelValues(output).Observe(d.Seconds())
}

// ObserveWidgetChange records an accepted widget change.
func (r *Recorder) ObserveWidgetChange(widgetID string) {
	if r == nil {
		return
	}
	r.widgetChanges.WithLabelValues(widgetID).Inc()
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the recorder's metrics in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	log := zerolog.Ctx(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: shutdownTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
