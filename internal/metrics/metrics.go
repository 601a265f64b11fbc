// Package metrics exposes bot counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scout"

// Collector owns a private registry. A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	updates       *prometheus.CounterVec
	throttled     prometheus.Counter
	submissions   prometheus.Counter
	notifyFailed  prometheus.Counter
	reviewActions *prometheus.CounterVec
	requests      prometheus.Counter
	httpErrors    prometheus.Counter
}

// NewCollector registers all scout counters plus the Go runtime collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Inbound Telegram updates by kind.",
		}, []string{"kind"}),
		throttled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_throttled_total",
			Help:      "Inbound updates dropped by the per-user rate limit.",
		}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_submitted_total",
			Help:      "Questionnaires completed and stored.",
		}),
		notifyFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_failed_total",
			Help:      "Operator notifications that could not be delivered.",
		}),
		reviewActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_actions_total",
			Help:      "Review workflow commands handled, by action.",
		}, []string{"action"}),
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}),
		httpErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Total number of 5xx HTTP responses.",
		}),
	}
	c.registry.MustRegister(
		c.updates,
		c.throttled,
		c.submissions,
		c.notifyFailed,
		c.reviewActions,
		c.requests,
		c.httpErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) IncUpdate(kind string) {
	if c == nil {
		return
	}
	c.updates.WithLabelValues(kind).Inc()
}

func (c *Collector) IncThrottled() {
	if c == nil {
		return
	}
	c.throttled.Inc()
}

func (c *Collector) IncSubmission() {
	if c == nil {
		return
	}
	c.submissions.Inc()
}

func (c *Collector) IncNotifyFailure() {
	if c == nil {
		return
	}
	c.notifyFailed.Inc()
}

func (c *Collector) IncReviewAction(action string) {
	if c == nil {
		return
	}
	c.reviewActions.WithLabelValues(action).Inc()
}

func (c *Collector) IncRequests() {
	if c == nil {
		return
	}
	c.requests.Inc()
}

func (c *Collector) IncErrors() {
	if c == nil {
		return
	}
	c.httpErrors.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Middleware counts requests and 5xx responses.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		c.IncRequests()
		next.ServeHTTP(recorder, r)
		if recorder.status >= http.StatusInternalServerError {
			c.IncErrors()
		}
	})
}
