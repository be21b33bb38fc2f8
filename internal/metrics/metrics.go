// Package metrics exposes Prometheus instrumentation for the task pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TasksCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stampd_tasks_created_total",
		Help: "Tasks accepted by the API, by operation.",
	}, []string{"operation"})

	TasksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stampd_tasks_processed_total",
		Help: "Tasks finished by the worker, by operation and final status.",
	}, []string{"operation", "status"})

	TaskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stampd_task_duration_seconds",
		Help:    "Wall time spent processing one task.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	PagesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stampd_pdf_pages_rendered_total",
		Help: "PDF pages received from the rasterizer.",
	})
)

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
