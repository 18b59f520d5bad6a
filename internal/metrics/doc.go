// Package metrics provides build metrics for appbuilder.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	svc := build.NewService(...).WithRecorder(metrics.NoopRecorder{})
//
// A CLI run that asks for metrics swaps in a PrometheusRecorder backed by its
// own registry and writes the registry in the Prometheus text format once the
// build finishes (see PrometheusRecorder.WriteTextfile), which suits the
// node_exporter textfile collector for CI hosts.
package metrics
