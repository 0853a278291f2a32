package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the service's instruments so tests can register them on a
// private registry.
type Metrics struct {
	SessionsActive  prometheus.Gauge
	SessionsStarted prometheus.Counter
	SessionsEnded   *prometheus.CounterVec
	Actions         *prometheus.CounterVec
	ActionsIgnored  *prometheus.CounterVec
	Comparisons     prometheus.Counter
	OptionScore     prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "oovl",
			Name:      "sessions_active",
			Help:      "Sessions currently held in memory.",
		}),
		SessionsStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "oovl",
			Name:      "sessions_started_total",
			Help:      "Sessions created through the profile gate.",
		}),
		SessionsEnded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oovl",
			Name:      "sessions_ended_total",
			Help:      "Sessions discarded, by reason.",
		}, []string{"reason"}),
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oovl",
			Name:      "actions_total",
			Help:      "Worksheet actions applied, by action.",
		}, []string{"action"}),
		ActionsIgnored: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oovl",
			Name:      "actions_ignored_total",
			Help:      "Worksheet actions dropped for blank input, by action.",
		}, []string{"action"}),
		Comparisons: f.NewCounter(prometheus.CounterOpts{
			Namespace: "oovl",
			Name:      "comparisons_total",
			Help:      "Compare actions triggered.",
		}),
		OptionScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "oovl",
			Name:      "option_score",
			Help:      "Distribution of raw option scores at compare time.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8},
		}),
	}
}

// Applied records an action outcome: ok=false means blank input was dropped.
func (m *Metrics) Applied(action string, ok bool) {
	if ok {
		m.Actions.WithLabelValues(action).Inc()
		return
	}
	m.ActionsIgnored.WithLabelValues(action).Inc()
}
