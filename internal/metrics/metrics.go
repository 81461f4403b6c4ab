// Package metrics exposes scheduler state to Prometheus.
//
// Observer implements runner.Observer and updates collectors on its own
// registry. Serve publishes that registry at /metrics until the context is
// cancelled. The HTTP side only reads collectors, so it never touches the
// camera or the schedule.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/camdaynight/daynight/internal/logging"
	"github.com/camdaynight/daynight/internal/schedule"
	"github.com/camdaynight/daynight/internal/suntimes"
)

const namespace = "daynight"

// shutdownTimeout bounds the graceful stop of the listener
const shutdownTimeout = 5 * time.Second

// Observer records runner events as Prometheus metrics.
type Observer struct {
	registry *prometheus.Registry

	mode       *prometheus.GaugeVec
	switches   *prometheus.CounterVec
	sunrise    prometheus.Gauge
	sunset     prometheus.Gauge
	fallback   prometheus.Gauge
	builds     prometheus.Counter
	nextAction prometheus.Gauge
}

// NewObserver creates an Observer with its collectors registered on a fresh
// registry.
func NewObserver() *Observer {
	o := &Observer{
		registry: prometheus.NewRegistry(),
		mode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mode",
			Help:      "1 for the camera mode last applied successfully, 0 otherwise.",
		}, []string{"mode"}),
		switches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "switch_total",
			Help:      "Camera switch attempts by mode and result.",
		}, []string{"mode", "result"}),
		sunrise: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sunrise_timestamp_seconds",
			Help:      "Offset-adjusted sunrise of the active schedule.",
		}),
		sunset: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sunset_timestamp_seconds",
			Help:      "Offset-adjusted sunset of the active schedule.",
		}),
		fallback: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sun_fallback",
			Help:      "1 when the active schedule uses the fixed fallback sun times.",
		}),
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_builds_total",
			Help:      "Schedules built since start.",
		}),
		nextAction: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "next_action_timestamp_seconds",
			Help:      "Trigger time of the next pending action.",
		}),
	}

	o.registry.MustRegister(
		o.mode,
		o.switches,
		o.sunrise,
		o.sunset,
		o.fallback,
		o.builds,
		o.nextAction,
	)
	return o
}

// Registry returns the registry the collectors live on
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// ModeDecided is a no-op; the applied mode is recorded by SwitchAttempted.
func (o *Observer) ModeDecided(schedule.Mode, time.Time, suntimes.Result) {}

// SwitchAttempted counts the attempt and, on success, moves the mode gauge.
func (o *Observer) SwitchAttempted(mode schedule.Mode, ok bool, _ time.Time) {
	result := "success"
	if !ok {
		result = "failure"
	}
	o.switches.WithLabelValues(mode.String(), result).Inc()

	if ok {
		o.mode.WithLabelValues(schedule.Day.String()).Set(boolValue(mode == schedule.Day))
		o.mode.WithLabelValues(schedule.Night.String()).Set(boolValue(mode == schedule.Night))
	}
}

// ScheduleBuilt records the sun times the new schedule was derived from.
func (o *Observer) ScheduleBuilt(s *schedule.Schedule) {
	o.builds.Inc()
	o.sunrise.Set(float64(s.Sun.Sunrise.Unix()))
	o.sunset.Set(float64(s.Sun.Sunset.Unix()))
	o.fallback.Set(boolValue(s.Sun.Fallback))
}

// NextAction records the next trigger time.
func (o *Observer) NextAction(next schedule.ScheduledAction, ok bool) {
	if !ok {
		o.nextAction.Set(0)
		return
	}
	o.nextAction.Set(float64(next.At.Unix()))
}

// Handler returns the /metrics handler for the registry.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}

// Serve listens on addr and serves /metrics until ctx is cancelled.
// A listener failure is returned; cancellation returns nil.
func (o *Observer) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", o.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Metrics listening", zap.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Warn("Metrics server forced to shut down", zap.Error(err))
		}
		return nil
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
