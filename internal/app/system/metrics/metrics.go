// internal/app/system/metrics/metrics.go

// Package metrics holds the Prometheus instruments for form handling and
// calls to hosted services. All collectors live in the package registry
// exposed by Handler.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Form outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeRedirect   = "redirect"
	OutcomeBadRequest = "bad_request"
	OutcomeSpam       = "spam"
	OutcomeConflict   = "conflict"
	OutcomeUpstream   = "upstream_error"
	OutcomeError      = "error"
)

var (
	FormSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "form_submissions_total",
			Help:      "Form posts by form and terminal outcome.",
		},
		[]string{"form", "outcome"},
	)

	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "folio",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of calls to hosted services (mail, newsletter, content).",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "result"},
	)

	JobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "task_runs_total",
			Help:      "Background job runs by job and result.",
		},
		[]string{"job", "result"},
	)
)

// Registry is the registry served on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		FormSubmissions,
		UpstreamDuration,
		JobRuns,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveForm counts one form outcome.
func ObserveForm(form, outcome string) {
	FormSubmissions.WithLabelValues(form, outcome).Inc()
}

// ObserveUpstream records the latency of one hosted-service call.
func ObserveUpstream(service string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	UpstreamDuration.WithLabelValues(service, result).Observe(time.Since(start).Seconds())
}

// ObserveJob counts one background job run.
func ObserveJob(job string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	JobRuns.WithLabelValues(job, result).Inc()
}

// Handler serves the package registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
