package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ingenieras"

// Collector groups the Prometheus instruments exposed on /metrics.
// A nil *Collector is valid and records nothing.
type Collector struct {
	challengesPublished prometheus.Counter
	challengesDeleted   prometheus.Counter
	submissions         prometheus.Counter
	reportsDeleted      prometheus.Counter
	corruptReports      prometheus.Counter
	requestDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		challengesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "challenges_published_total",
			Help:      "Challenges created or overwritten.",
		}),
		challengesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "challenges_deleted_total",
			Help:      "Challenges removed from the metadata store.",
		}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Student submissions persisted.",
		}),
		reportsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_deleted_total",
			Help:      "Submission files deleted by an administrator.",
		}),
		corruptReports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corrupt_reports_total",
			Help:      "Submission files skipped during scans because they failed to parse.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		c.challengesPublished,
		c.challengesDeleted,
		c.submissions,
		c.reportsDeleted,
		c.corruptReports,
		c.requestDuration,
	)
	return c
}

func (c *Collector) ChallengePublished() {
	if c != nil {
		c.challengesPublished.Inc()
	}
}

func (c *Collector) ChallengeDeleted() {
	if c != nil {
		c.challengesDeleted.Inc()
	}
}

func (c *Collector) SubmissionStored() {
	if c != nil {
		c.submissions.Inc()
	}
}

func (c *Collector) ReportDeleted() {
	if c != nil {
		c.reportsDeleted.Inc()
	}
}

func (c *Collector) CorruptReportSkipped() {
	if c != nil {
		c.corruptReports.Inc()
	}
}

// Middleware observes request latency labelled by the matched chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
