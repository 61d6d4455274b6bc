package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the metric instruments recorded by the captioner.
type PipelineMetrics struct {
	windowsTotal      metric.Int64Counter
	batchesTotal      metric.Int64Counter
	captionsTotal     metric.Int64Counter
	transcribeLatency metric.Float64Histogram
	diarizeLatency    metric.Float64Histogram
}

// NewPipelineMetrics creates the captioning metric instruments on a meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	windowsTotal, err := meter.Int64Counter("captioner.windows.total",
		metric.WithDescription("Audio windows diarized"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating captioner.windows.total counter: %w", err)
	}

	batchesTotal, err := meter.Int64Counter("captioner.batches.total",
		metric.WithDescription("Merged batches sent for transcription"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating captioner.batches.total counter: %w", err)
	}

	captionsTotal, err := meter.Int64Counter("captioner.captions.total",
		metric.WithDescription("Speaker-attributed captions emitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating captioner.captions.total counter: %w", err)
	}

	transcribeLatency, err := meter.Float64Histogram("captioner.transcribe.duration",
		metric.WithDescription("Transcription call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating captioner.transcribe.duration histogram: %w", err)
	}

	diarizeLatency, err := meter.Float64Histogram("captioner.diarize.duration",
		metric.WithDescription("Diarization call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating captioner.diarize.duration histogram: %w", err)
	}

	return &PipelineMetrics{
		windowsTotal:      windowsTotal,
		batchesTotal:      batchesTotal,
		captionsTotal:     captionsTotal,
		transcribeLatency: transcribeLatency,
		diarizeLatency:    diarizeLatency,
	}, nil
}

// RecordWindow records one diarized window and the call duration.
func (m *PipelineMetrics) RecordWindow(ctx context.Context, provider string, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("provider", provider))
	m.windowsTotal.Add(ctx, 1, attrs)
	m.diarizeLatency.Record(ctx, d.Seconds(), attrs)
}

// RecordBatch records one merged batch and its transcription duration.
func (m *PipelineMetrics) RecordBatch(ctx context.Context, provider string, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("provider", provider))
	m.batchesTotal.Add(ctx, 1, attrs)
	m.transcribeLatency.Record(ctx, d.Seconds(), attrs)
}

// RecordCaptions records emitted captions, split by attribution outcome.
func (m *PipelineMetrics) RecordCaptions(ctx context.Context, attributed, unknown int) {
	if attributed > 0 {
		m.captionsTotal.Add(ctx, int64(attributed), metric.WithAttributes(
			attribute.String("attribution", "speaker"),
		))
	}
	if unknown > 0 {
		m.captionsTotal.Add(ctx, int64(unknown), metric.WithAttributes(
			attribute.String("attribution", "unknown"),
		))
	}
}
