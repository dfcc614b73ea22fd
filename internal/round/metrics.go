package round

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Garsondee/Sphere-Search/internal/search"
)

// Metrics exports round outcomes to Prometheus. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	rounds      *prometheus.CounterVec
	expansions  prometheus.Counter
	relaxations prometheus.Counter
	pathLength  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg when reg is
// non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rounds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sphere_search_rounds_total",
				Help: "Completed rounds by final search status",
			},
			[]string{"status"},
		),
		expansions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sphere_search_expansions_total",
			Help: "Nodes moved from the open set to the closed set",
		}),
		relaxations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sphere_search_relaxations_total",
			Help: "Neighbour relaxations performed",
		}),
		pathLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sphere_search_path_length",
			Help:    "Nodes on the found path, End included",
			Buckets: prometheus.LinearBuckets(1, 2, 12),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.rounds, m.expansions, m.relaxations, m.pathLength)
	}
	return m
}

func (m *Metrics) observeRelaxation() {
	if m == nil {
		return
	}
	m.relaxations.Inc()
}

// observeRound records a finished round. Expansions are added in bulk since
// the engine counts them itself.
func (m *Metrics) observeRound(res Result) {
	if m == nil {
		return
	}
	m.rounds.WithLabelValues(res.Status.String()).Inc()
	m.expansions.Add(float64(res.Expansions))
	if res.Status == search.StatusSucceeded {
		m.pathLength.Observe(float64(res.PathLen))
	}
}
