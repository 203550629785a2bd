// Package metrics exposes scheduler and pipeline counters to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chime-sh/chime"
	"github.com/chime-sh/chime/pkg/ports"
)

// Collector owns the chime metric families on a private registry.
type Collector struct {
	registry *prometheus.Registry

	taskRuns      *prometheus.CounterVec
	taskDuration  *prometheus.HistogramVec
	pipelineSteps *prometheus.CounterVec
}

// NewCollector creates the metric families.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		taskRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chime_task_runs_total",
			Help: "Completed task runs by task and status.",
		}, []string{"task", "status"}),
		taskDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chime_task_run_duration_seconds",
			Help:    "Task run duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"task"}),
		pipelineSteps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chime_pipeline_steps_total",
			Help: "Executed pipeline steps by job and status.",
		}, []string{"job", "status"}),
	}
}

// Hooks returns scheduler hooks that record every finished run.
func (c *Collector) Hooks() chime.RunHooks {
	return chime.RunHooks{
		OnTaskFinish: func(_ context.Context, rec ports.RunRecord) {
			c.taskRuns.WithLabelValues(rec.Task, string(rec.Status)).Inc()
			c.taskDuration.WithLabelValues(rec.Task).Observe(rec.Duration.Seconds())
		},
	}
}

// StepObserver returns a pipeline step callback that counts step outcomes.
func (c *Collector) StepObserver() func(job, step string, err error, d time.Duration) {
	return func(job, _ string, err error, _ time.Duration) {
		status := string(ports.RunOK)
		if err != nil {
			status = string(ports.RunFailed)
		}
		c.pipelineSteps.WithLabelValues(job, status).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
