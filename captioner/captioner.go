package captioner

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/Gaelhpalmer/diarized-stt/audio"
	"github.com/Gaelhpalmer/diarized-stt/caption"
	"github.com/Gaelhpalmer/diarized-stt/diarization"
	"github.com/Gaelhpalmer/diarized-stt/logger"
	"github.com/Gaelhpalmer/diarized-stt/observability"
	"github.com/Gaelhpalmer/diarized-stt/pipeline"
	"github.com/Gaelhpalmer/diarized-stt/sse"
	"github.com/Gaelhpalmer/diarized-stt/transcription"
)

// Config holds the captioning pipeline parameters.
type Config struct {
	// Window is the sliding window length handed to the diarizer.
	Window time.Duration
	// Step is the sliding window advance.
	Step time.Duration
	// BatchSize is how many diarized windows are merged per transcription.
	BatchSize int
	// BatchTimeout flushes a partial batch after this long.
	BatchTimeout time.Duration
	// Collar merges same-speaker turns within this many seconds.
	Collar float64
	// MaxPromptChars caps the rolling conditioning prompt.
	MaxPromptChars int
	// Language is the expected language, empty for auto-detect.
	Language string
	// Model is the transcription model name.
	Model string
	// Tuning is passed through to the diarization backend.
	Tuning diarization.Tuning
}

func (c *Config) applyDefaults() {
	if c.Window == 0 {
		c.Window = 5 * time.Second
	}
	if c.Step == 0 {
		c.Step = 500 * time.Millisecond
	}
	if c.BatchSize == 0 {
		c.BatchSize = 4
	}
	if c.BatchTimeout == 0 {
		c.BatchTimeout = 5 * time.Second
	}
}

// Option customizes a Captioner.
type Option func(*Captioner)

// WithOutput sets the caption writer. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Captioner) { c.out = w }
}

// WithColorizer sets the caption colorizer.
func WithColorizer(col *caption.Colorizer) Option {
	return func(c *Captioner) { c.colorizer = col }
}

// WithBroadcaster additionally publishes captions to an SSE hub.
func WithBroadcaster(b sse.Broadcaster) Option {
	return func(c *Captioner) { c.hub = b }
}

// WithMetrics enables pipeline metric recording.
func WithMetrics(m *observability.PipelineMetrics) Option {
	return func(c *Captioner) { c.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Captioner) { c.log = l }
}

// Captioner runs the diarize-batch-transcribe-attribute pipeline over an
// audio stream and writes colorized captions.
type Captioner struct {
	cfg         Config
	diarizer    diarization.Provider
	transcriber transcription.Provider

	out       io.Writer
	colorizer *caption.Colorizer
	hub       sse.Broadcaster
	metrics   *observability.PipelineMetrics
	log       *logger.Logger

	// prompt carries recent transcript text into the next transcription.
	prompt string
	// lastEnd is the stream time already covered by emitted audio, so
	// overlapping windows contribute only their unseen tail.
	lastEnd float64
}

// New creates a Captioner around the given backends.
func New(d diarization.Provider, t transcription.Provider, cfg Config, opts ...Option) *Captioner {
	cfg.applyDefaults()
	c := &Captioner{
		cfg:         cfg,
		diarizer:    d,
		transcriber: t,
		out:         os.Stdout,
		colorizer:   caption.NewColorizer(false),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.NewDefault("captioner")
	}
	return c
}

// Run pulls the source to exhaustion, emitting captions along the way.
// It returns on source end, context cancellation, or the first error
// from a backend.
func (c *Captioner) Run(ctx context.Context, source *pipeline.Pipeline[audio.Chunk]) error {
	windows := audio.SlidingWindows(source, c.cfg.Window, c.cfg.Step)
	pairs := pipeline.Map(windows, c.diarizeWindow)
	observed := pipeline.Tap(pairs, c.logPair)
	batches := pipeline.Batch(observed, c.cfg.BatchSize, c.cfg.BatchTimeout)
	merged := pipeline.Map(batches, c.mergeBatch)
	voiced := pipeline.Filter(merged, func(p caption.Pair) bool {
		return !p.Annotation.IsEmpty() && len(p.Audio.Samples) > 0
	})
	captions := pipeline.Map(voiced, c.transcribe)
	return pipeline.Drain(captions, c.emit).Run(ctx)
}

// diarizeWindow sends one window to the diarizer and reduces it to the
// tail the stream has not covered yet, with the matching annotation in
// absolute stream time.
func (c *Captioner) diarizeWindow(ctx context.Context, w audio.Chunk) (caption.Pair, error) {
	started := time.Now()
	resp, err := c.diarizer.Diarize(ctx, diarization.Request{
		Audio:  audio.EncodeWAV(w),
		Offset: w.Start,
		Tuning: c.cfg.Tuning,
	})
	if err != nil {
		return caption.Pair{}, err
	}
	if c.metrics != nil {
		c.metrics.RecordWindow(ctx, c.diarizer.Name(), time.Since(started))
	}

	ann := resp.Annotation.Shift(w.Start)

	cut := w.Start
	if c.lastEnd > cut {
		cut = c.lastEnd
	}
	idx := int(math.Round((cut - w.Start) * float64(w.SampleRate)))
	if idx < 0 {
		idx = 0
	}
	if idx > len(w.Samples) {
		idx = len(w.Samples)
	}

	tail := audio.Chunk{
		Samples:    w.Samples[idx:],
		Start:      w.Start + float64(idx)/float64(w.SampleRate),
		SampleRate: w.SampleRate,
	}
	c.lastEnd = tail.End()

	return caption.Pair{
		Annotation: ann.Crop(tail.Start, tail.End()),
		Audio:      tail,
	}, nil
}

// logPair traces each diarized window tail on its way into the batcher.
func (c *Captioner) logPair(_ context.Context, p caption.Pair) error {
	c.log.Debug("window diarized", logger.Fields(
		logger.FieldWindow, fmt.Sprintf("%.2f-%.2f", p.Audio.Start, p.Audio.End()),
		"speakers", len(p.Annotation.Speakers()),
		"turns", len(p.Annotation.Turns),
	))
	return nil
}

func (c *Captioner) mergeBatch(_ context.Context, batch []caption.Pair) (caption.Pair, error) {
	return caption.Merge(batch, c.cfg.Collar)
}

// transcribe sends a merged batch to the transcriber and attributes the
// resulting segments to speakers.
func (c *Captioner) transcribe(ctx context.Context, p caption.Pair) ([]caption.Caption, error) {
	chunk := p.Audio
	// Whisper models degrade below roughly a second of audio; pad short
	// batches with trailing silence.
	if min := chunk.SampleRate; len(chunk.Samples) < min {
		chunk = chunk.PadTo(min)
	}

	started := time.Now()
	resp, err := c.transcriber.Transcribe(ctx, transcription.Request{
		Audio:    audio.EncodeWAV(chunk),
		Prompt:   c.prompt,
		Language: c.cfg.Language,
		Model:    c.cfg.Model,
	})
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.RecordBatch(ctx, c.transcriber.Name(), time.Since(started))
	}
	c.appendPrompt(resp.Text)

	return caption.Assign(p.Annotation, p.Audio.Start, resp.Segments), nil
}

// appendPrompt rolls new transcript text into the conditioning prompt,
// keeping only the most recent MaxPromptChars characters.
func (c *Captioner) appendPrompt(text string) {
	if c.cfg.MaxPromptChars <= 0 {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if c.prompt == "" {
		c.prompt = text
	} else {
		c.prompt += " " + text
	}
	if r := []rune(c.prompt); len(r) > c.cfg.MaxPromptChars {
		c.prompt = string(r[len(r)-c.cfg.MaxPromptChars:])
	}
}

// emit writes each caption as one colorized line and, when configured,
// publishes it to the SSE hub.
func (c *Captioner) emit(ctx context.Context, captions []caption.Caption) error {
	attributed, unknown := 0, 0
	for _, cpt := range captions {
		if _, err := fmt.Fprintln(c.out, c.colorizer.Format(cpt)); err != nil {
			return err
		}
		if c.hub != nil {
			c.hub.Broadcast(sse.EncodeCaption(cpt))
		}
		if cpt.Speaker == caption.SpeakerUnknown {
			unknown++
		} else {
			attributed++
		}
	}
	if c.metrics != nil {
		c.metrics.RecordCaptions(ctx, attributed, unknown)
	}
	return nil
}
