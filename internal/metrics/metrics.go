package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dunamismax/spritesheet/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics collects counters for one process run. A spritesheet build is a
// short batch job, so the registry is pushed to a Pushgateway rather than
// scraped.
type Metrics struct {
	registry      *prometheus.Registry
	framesLoaded  prometheus.Counter
	framesSkipped prometheus.Counter
	buildsTotal   *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	sheetFrames   prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		framesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spritesheet_frames_loaded_total",
			Help: "Frames decoded and resized into a sheet.",
		}),
		framesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spritesheet_frames_skipped_total",
			Help: "Candidate frames left out because they could not be decoded or scaled.",
		}),
		buildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spritesheet_builds_total",
			Help: "Sheet builds by final status.",
		}, []string{"status"}),
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spritesheet_build_duration_seconds",
			Help:    "Wall time of each sheet build.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		sheetFrames: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spritesheet_sheet_frames",
			Help: "Frame count of the last built sheet.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spritesheet_last_success_timestamp_seconds",
			Help: "Unix time of the last successful build.",
		}),
	}

	registry.MustRegister(
		m.framesLoaded,
		m.framesSkipped,
		m.buildsTotal,
		m.buildDuration,
		m.sheetFrames,
		m.lastSuccess,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) FrameLoaded() {
	m.framesLoaded.Inc()
}

func (m *Metrics) FrameSkipped() {
	m.framesSkipped.Inc()
}

func (m *Metrics) BuildFinished(status string, frames int, elapsed time.Duration) {
	m.buildsTotal.WithLabelValues(status).Inc()
	m.buildDuration.WithLabelValues(status).Observe(elapsed.Seconds())
	if status == domain.StatusBuilt {
		m.sheetFrames.Set(float64(frames))
		m.lastSuccess.SetToCurrentTime()
	}
}

// Push sends the registry to a Pushgateway under job. An empty url is a no-op.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if strings.TrimSpace(url) == "" {
		return nil
	}
	if strings.TrimSpace(job) == "" {
		job = "spritesheet"
	}
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
