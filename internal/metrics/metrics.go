package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fathima-sithara/social-service/internal/media"
	service "github.com/fathima-sithara/social-service/internal/services"
)

const namespace = "social_media"

// Metrics records media lifecycle and sweep counters on its own registry.
type Metrics struct {
	reg           *prometheus.Registry
	uploads       *prometheus.CounterVec
	deletions     *prometheus.CounterVec
	deleteAttempt *prometheus.HistogramVec
	sweeps        prometheus.Counter
	sweptStories  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Media uploads by resource category and outcome.",
		}, []string{"category", "outcome"}),
		deletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletions_total",
			Help:      "Remote media deletions by resource category and outcome.",
		}, []string{"category", "outcome"}),
		deleteAttempt: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "deletion_attempts",
			Help:      "Destroy calls made per deletion cascade.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}, []string{"category"}),
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "story_sweeps_total",
			Help:      "Completed expired-story sweeps.",
		}),
		sweptStories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swept_stories_total",
			Help:      "Expired stories handled by the sweeper, by result.",
		}, []string{"result"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.uploads, m.deletions, m.deleteAttempt, m.sweeps, m.sweptStories,
	)
	return m
}

func (m *Metrics) UploadFinished(c media.ResourceCategory, err error) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(string(c), outcome(err == nil)).Inc()
}

func (m *Metrics) DeletionFinished(c media.ResourceCategory, ok bool, attempts int) {
	if m == nil {
		return
	}
	m.deletions.WithLabelValues(string(c), outcome(ok)).Inc()
	m.deleteAttempt.WithLabelValues(string(c)).Observe(float64(attempts))
}

func (m *Metrics) SweepFinished(r service.SweepReport) {
	if m == nil {
		return
	}
	m.sweeps.Inc()
	m.sweptStories.WithLabelValues("deleted").Add(float64(r.Deleted))
	m.sweptStories.WithLabelValues("failed").Add(float64(r.Failed))
	m.sweptStories.WithLabelValues("media_failed").Add(float64(r.MediaFailed))
}

// Handler returns an http.Handler for Prometheus scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

var (
	_ media.Observer        = (*Metrics)(nil)
	_ service.SweepObserver = (*Metrics)(nil)
)
