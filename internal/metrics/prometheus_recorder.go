package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "hookdoc"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	generationDuration prom.Histogram
	outcomes           *prom.CounterVec
	hooksDiscovered    prom.Gauge
	documentBytes      prom.Gauge
}

// NewPrometheusRecorder creates the collectors and registers them on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		generationDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Duration of README generation runs",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "generation_outcomes_total",
			Help:      "Generation runs by outcome",
		}, []string{"outcome"}),
		hooksDiscovered: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "hooks_discovered",
			Help:      "Hooks found by the last successful run",
		}),
		documentBytes: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "document_bytes",
			Help:      "Size of the last generated document",
		}),
	}
	reg.MustRegister(pr.generationDuration, pr.outcomes, pr.hooksDiscovered, pr.documentBytes)
	return pr
}

func (p *PrometheusRecorder) ObserveGenerationDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.generationDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncGenerationOutcome(outcome Outcome) {
	if p == nil {
		return
	}
	p.outcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetHooksDiscovered(n int) {
	if p == nil {
		return
	}
	p.hooksDiscovered.Set(float64(n))
}

func (p *PrometheusRecorder) SetDocumentBytes(n int) {
	if p == nil {
		return
	}
	p.documentBytes.Set(float64(n))
}
