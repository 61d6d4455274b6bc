// Package observability provides OpenTelemetry metrics for the captioning
// pipeline: meter provider initialization (OTLP over HTTP) and the metric
// instruments the captioner records.
package observability
