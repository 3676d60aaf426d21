package authgate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sareeta/authgate/core"
)

// Decisions reported through Metrics.ObserveDecision.
const (
	DecisionAuthenticated = "authenticated"
	DecisionAnonymous     = "anonymous"
	DecisionExcluded      = "excluded"
	DecisionRejected      = "rejected"
)

// Metrics receives observations from the gate. ObserveVerification is called
// by the core once per presented token; ObserveDecision once per request.
type Metrics interface {
	core.Recorder
	ObserveDecision(decision string)
}

// NoopMetrics is a default metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) ObserveVerification(outcome, reason string, duration time.Duration) {}
func (NoopMetrics) ObserveDecision(decision string)                                     {}

// PrometheusMetrics implements the Metrics interface using Prometheus.
type PrometheusMetrics struct {
	verifications *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	decisions     *prometheus.CounterVec
}

// NewPrometheusMetrics registers the gate's collectors on reg and returns a
// Metrics backed by them.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "verifications_total",
			Help:      "Bearer token verification attempts by outcome and failure reason.",
		}, []string{"outcome", "reason"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "authgate",
			Name:      "verification_duration_seconds",
			Help:      "Time spent verifying bearer tokens.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}, []string{"outcome"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "decisions_total",
			Help:      "Requests passed through the gate by resulting decision.",
		}, []string{"decision"}),
	}

	for _, c := range []prometheus.Collector{m.verifications, m.duration, m.decisions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *PrometheusMetrics) ObserveVerification(outcome, reason string, duration time.Duration) {
	m.verifications.WithLabelValues(outcome, reason).Inc()
	m.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) ObserveDecision(decision string) {
	m.decisions.WithLabelValues(decision).Inc()
}
