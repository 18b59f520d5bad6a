package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	registry       *prom.Registry
	stageDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	stageResults   *prom.CounterVec
	buildOutcome   *prom.CounterVec
	assetGzipBytes *prom.GaugeVec
	compileErrors  prom.Gauge
	compileWarns   prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "appbuilder",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "appbuilder",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "appbuilder",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "appbuilder",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.assetGzipBytes = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "appbuilder",
			Name:      "asset_gzip_bytes",
			Help:      "Gzip size of each emitted script and stylesheet",
		}, []string{"asset"})
		pr.compileErrors = prom.NewGauge(prom.GaugeOpts{
			Namespace: "appbuilder",
			Name:      "compile_errors",
			Help:      "Compiler errors reported by the last build",
		})
		pr.compileWarns = prom.NewGauge(prom.GaugeOpts{
			Namespace: "appbuilder",
			Name:      "compile_warnings",
			Help:      "Compiler warnings reported by the last build",
		})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome, pr.assetGzipBytes, pr.compileErrors, pr.compileWarns)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetAssetGzipSize(asset string, bytes int64) {
	if p == nil || p.assetGzipBytes == nil {
		return
	}
	p.assetGzipBytes.WithLabelValues(asset).Set(float64(bytes))
}

func (p *PrometheusRecorder) SetCompileMessages(errors, warnings int) {
	if p == nil || p.compileErrors == nil {
		return
	}
	p.compileErrors.Set(float64(errors))
	p.compileWarns.Set(float64(warnings))
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text exposition format. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.registry)
}
