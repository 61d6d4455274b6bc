// Package whisper implements transcription.Provider using a
// faster-whisper HTTP sidecar.
package whisper

import (
	"context"
	"net/http"
	"time"

	"github.com/Gaelhpalmer/diarized-stt/errors"
	"github.com/Gaelhpalmer/diarized-stt/httpclient"
	"github.com/Gaelhpalmer/diarized-stt/provider"
	"github.com/Gaelhpalmer/diarized-stt/transcription"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	defaultWhisperURL     = "http://localhost:8387"
	defaultWhisperModel   = "base"
	defaultWhisperTimeout = 120 * time.Second
)

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	URL      string        `json:"url" mapstructure:"url"`
	Model    string        `json:"model" mapstructure:"model"`
	Language string        `json:"language,omitempty" mapstructure:"language"`
	Timeout  time.Duration `json:"timeout" mapstructure:"timeout"`
}

// Provider implements transcription.Provider using a faster-whisper HTTP sidecar.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// NewProvider creates a new Whisper transcription provider.
func NewProvider(cfg Config) *Provider {
	if cfg.URL == "" {
		cfg.URL = defaultWhisperURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultWhisperModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultWhisperTimeout
	}
	return &Provider{
		cfg: cfg,
		client: httpclient.New(httpclient.Config{
			BaseURL: cfg.URL,
			Service: ProviderName,
			Timeout: cfg.Timeout,
		}),
	}
}

// Factory returns a provider.Factory that creates Whisper Provider
// instances from a generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		wc := Config{}
		if v, ok := cfg["url"].(string); ok {
			wc.URL = v
		}
		if v, ok := cfg["model"].(string); ok {
			wc.Model = v
		}
		if v, ok := cfg["language"].(string); ok {
			wc.Language = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			wc.Timeout = v
		}
		return NewProvider(wc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the Whisper sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.client.Healthy(ctx)
}

// Transcribe sends audio to the Whisper sidecar and returns the transcription.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if len(req.Audio) == 0 {
		return nil, errors.InvalidInput("audio", "empty audio")
	}

	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	lang := p.cfg.Language
	if req.Language != "" {
		lang = req.Language
	}

	fields := map[string]string{
		"model":           model,
		"word_timestamps": "true",
	}
	if lang != "" {
		fields["language"] = lang
	}
	if req.Prompt != "" {
		fields["initial_prompt"] = req.Prompt
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{
				{FieldName: "audio", FileName: "audio.wav", ContentType: "audio/wav", Data: req.Audio},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	var result whisperResponse
	if err := resp.JSON(&result); err != nil {
		return nil, err
	}
	return toTranscriptionResponse(&result), nil
}

// --- internal Whisper API response types ---

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	Text  string        `json:"text"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Words []whisperWord `json:"words,omitempty"`
}

type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func toTranscriptionResponse(resp *whisperResponse) *transcription.Response {
	segments := make([]transcription.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		words := make([]transcription.Word, len(seg.Words))
		for j, w := range seg.Words {
			words[j] = transcription.Word{Start: w.Start, End: w.End, Text: w.Word}
		}
		segments[i] = transcription.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
			Words: words,
		}
	}

	var duration float64
	if len(resp.Segments) > 0 {
		duration = resp.Segments[len(resp.Segments)-1].End
	}

	return &transcription.Response{
		Text:     resp.Text,
		Segments: segments,
		Duration: duration,
		Language: resp.Language,
	}
}
