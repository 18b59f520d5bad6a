package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("compile", 150*time.Millisecond)
	pr.ObserveBuildDuration(2 * time.Second)
	pr.IncStageResult("compile", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.SetAssetGzipSize("static/js/main.js", 1024)
	pr.SetCompileMessages(0, 2)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"appbuilder_stage_duration_seconds",
		"appbuilder_build_duration_seconds",
		"appbuilder_stage_results_total",
		"appbuilder_build_outcomes_total",
		"appbuilder_asset_gzip_bytes",
		"appbuilder_compile_warnings",
	} {
		require.True(t, names[want], "missing metric %s", want)
	}
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(BuildOutcomeFailed)

	path := filepath.Join(t.TempDir(), "build.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `appbuilder_build_outcomes_total{outcome="failed"} 1`), string(data))
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.ObserveStageDuration("x", time.Second)
		pr.IncBuildOutcome(BuildOutcomeSuccess)
		pr.SetCompileMessages(1, 1)
	})
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveBuildDuration(time.Second)
	r.SetAssetGzipSize("a", 1)
	var _ Recorder = (*PrometheusRecorder)(nil)
}
