package internal

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"squad-arena/internal/game"
)

// Metrics owns its registry so tests can build as many as they like.
type Metrics struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	matches      *prometheus.CounterVec
	goals        prometheus.Histogram
	draws        *prometheus.CounterVec
	enhancements *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "squad_arena_http_requests_total", Help: "HTTP requests by route and status"},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "squad_arena_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		matches: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "squad_arena_matches_total", Help: "Matches played by home outcome"},
			[]string{"outcome"},
		),
		goals: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "squad_arena_match_goals",
			Help:    "Goals per side per match",
			Buckets: prometheus.LinearBuckets(0, 1, game.MatchMinutes+1),
		}),
		draws: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "squad_arena_draws_total", Help: "Player draws by result"},
			[]string{"result"},
		),
		enhancements: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "squad_arena_enhancements_total", Help: "Enhancement attempts by result"},
			[]string{"result"},
		),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.matches, m.goals, m.draws, m.enhancements,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) observeRequest(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) observeMatch(rep game.MatchReport) {
	m.matches.WithLabelValues(string(rep.Outcome)).Inc()
	m.goals.Observe(float64(rep.Home.Goals))
	m.goals.Observe(float64(rep.Away.Goals))
}

func (m *Metrics) observeDraw(res game.DrawResult, err error) {
	switch {
	case err != nil:
		m.draws.WithLabelValues(kindLabel(err)).Inc()
	case res.Duplicate:
		m.draws.WithLabelValues("duplicate").Inc()
	default:
		m.draws.WithLabelValues("new").Inc()
	}
}

func (m *Metrics) observeEnhance(res game.EnhanceResult, err error) {
	switch {
	case err != nil:
		m.enhancements.WithLabelValues(kindLabel(err)).Inc()
	case res.Success:
		m.enhancements.WithLabelValues("success").Inc()
	default:
		m.enhancements.WithLabelValues("failure").Inc()
	}
}

func kindLabel(err error) string {
	if k := game.KindOf(err); k != "" {
		return string(k)
	}
	return "error"
}
