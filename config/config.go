package config

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Gaelhpalmer/diarized-stt/diarization"
	"github.com/Gaelhpalmer/diarized-stt/errors"
	"github.com/Gaelhpalmer/diarized-stt/logger"
)

// ServiceName is the default service name used for config and env lookup.
const ServiceName = "captions"

// Config is the full application configuration.
type Config struct {
	Logging       logger.Config       `mapstructure:"logging"`
	Audio         AudioConfig         `mapstructure:"audio"`
	Diarization   DiarizationConfig   `mapstructure:"diarization"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Captioner     CaptionerConfig     `mapstructure:"captioner"`
	Serve         ServeConfig         `mapstructure:"serve"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
}

// AudioConfig configures the audio source.
type AudioConfig struct {
	// SampleRate is the rate audio is resampled to before the models see it.
	SampleRate int `mapstructure:"sample_rate" validate:"gt=0"`
	// ChunkMillis is the source chunk size in milliseconds.
	ChunkMillis int `mapstructure:"chunk_millis" validate:"gt=0"`
}

// DiarizationConfig configures the diarization provider.
type DiarizationConfig struct {
	// Provider is the registered backend name (e.g. "diart").
	Provider string `mapstructure:"provider" validate:"required"`
	// BaseURL is the sidecar endpoint.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	// Timeout bounds each diarization call.
	Timeout time.Duration `mapstructure:"timeout"`
	// Tuning carries the streaming knobs, passed through to the sidecar.
	Tuning diarization.Tuning `mapstructure:"tuning"`
}

// TranscriptionConfig configures the transcription provider.
type TranscriptionConfig struct {
	// Provider is the registered backend name (e.g. "whisper").
	Provider string `mapstructure:"provider" validate:"required"`
	// URL is the sidecar endpoint.
	URL string `mapstructure:"url" validate:"omitempty,url"`
	// Model is the model name the sidecar should use.
	Model string `mapstructure:"model"`
	// Language is the expected language, empty for auto-detect.
	Language string `mapstructure:"language"`
	// Timeout bounds each transcription call.
	Timeout time.Duration `mapstructure:"timeout"`
}

// CaptionerConfig configures the captioning pipeline.
type CaptionerConfig struct {
	// BatchSize is how many diarized windows are merged per transcription.
	BatchSize int `mapstructure:"batch_size" validate:"gte=1"`
	// BatchTimeout flushes a partial batch after this long.
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	// Collar merges same-speaker turns within this many seconds.
	Collar float64 `mapstructure:"collar" validate:"gte=0"`
	// MaxPromptChars caps the rolling conditioning prompt. 0 disables the prompt.
	MaxPromptChars int `mapstructure:"max_prompt_chars" validate:"gte=0"`
	// NoColor disables terminal colors.
	NoColor bool `mapstructure:"no_color"`
}

// ServeConfig configures the optional SSE caption endpoint.
type ServeConfig struct {
	// Enabled turns the HTTP server on.
	Enabled bool `mapstructure:"enabled"`
	// Addr is the listen address (host:port).
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// MetricsConfig configures OTLP metric export.
type MetricsConfig struct {
	// Enabled turns metric export on.
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	// Interval is the export interval.
	Interval time.Duration `mapstructure:"interval"`
}

// ApplyDefaults fills unset fields with working defaults. The diarization
// tuning defaults follow the diart paper's DIHARD-tuned values.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()

	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.ChunkMillis == 0 {
		c.Audio.ChunkMillis = 500
	}

	if c.Diarization.Provider == "" {
		c.Diarization.Provider = "diart"
	}
	if c.Diarization.Timeout == 0 {
		c.Diarization.Timeout = 60 * time.Second
	}
	t := &c.Diarization.Tuning
	if t.WindowDuration == 0 {
		t.WindowDuration = 5
	}
	if t.Step == 0 {
		t.Step = 0.5
	}
	if t.TauActive == 0 {
		t.TauActive = 0.555
	}
	if t.RhoUpdate == 0 {
		t.RhoUpdate = 0.422
	}
	if t.DeltaNew == 0 {
		t.DeltaNew = 1.517
	}

	if c.Transcription.Provider == "" {
		c.Transcription.Provider = "whisper"
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = "base"
	}
	if c.Transcription.Timeout == 0 {
		c.Transcription.Timeout = 120 * time.Second
	}

	if c.Captioner.BatchSize == 0 {
		c.Captioner.BatchSize = 4
	}
	if c.Captioner.BatchTimeout == 0 {
		c.Captioner.BatchTimeout = 5 * time.Second
	}
	if c.Captioner.Collar == 0 {
		c.Captioner.Collar = 0.05
	}
	if c.Captioner.MaxPromptChars == 0 {
		c.Captioner.MaxPromptChars = 1000
	}

	if c.Serve.Addr == "" {
		c.Serve.Addr = "localhost:8080"
	}

	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = "localhost:4318"
	}
	if c.Metrics.Interval == 0 {
		c.Metrics.Interval = 15 * time.Second
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return errors.Validation(err.Error())
	}
	if err := validate.Struct(c); err != nil {
		return errors.Validation(err.Error()).WithCause(err)
	}
	if c.Diarization.Tuning.Step > c.Diarization.Tuning.WindowDuration {
		return errors.Validation("diarization.tuning.step must not exceed the window duration").
			WithDetail("step", c.Diarization.Tuning.Step).
			WithDetail("duration", c.Diarization.Tuning.WindowDuration)
	}
	return nil
}
