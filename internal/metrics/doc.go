// Package metrics records generation metrics.
//
// Components receive a Recorder. NoopRecorder is the default; PrometheusRecorder is
// swapped in when the CLI is asked to export metrics, either as a node_exporter
// textfile after each run (WriteTextfile) or over HTTP in watch mode (HTTPHandler).
//
//	reg := prom.NewRegistry()
//	gen, _ := readme.NewGenerator(cfg, readme.WithRecorder(metrics.NewPrometheusRecorder(reg)))
package metrics
