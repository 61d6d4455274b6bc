// Package diart implements diarization.Provider against a diart-style
// streaming diarization HTTP sidecar.
package diart

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gaelhpalmer/diarized-stt/diarization"
	"github.com/Gaelhpalmer/diarized-stt/errors"
	"github.com/Gaelhpalmer/diarized-stt/httpclient"
	"github.com/Gaelhpalmer/diarized-stt/provider"
)

const (
	// ProviderName is the registered name for the diart provider.
	ProviderName = "diart"

	defaultDiartURL     = "http://localhost:8388"
	defaultDiartTimeout = 60 * time.Second
)

// Config holds configuration for the diart diarization provider.
type Config struct {
	BaseURL string        `json:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// Provider implements diarization.Provider using the diart HTTP sidecar.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// NewProvider creates a new diart diarization provider.
func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultDiartURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultDiartTimeout
	}
	return &Provider{
		cfg: cfg,
		client: httpclient.New(httpclient.Config{
			BaseURL: cfg.BaseURL,
			Service: ProviderName,
			Timeout: cfg.Timeout,
		}),
	}
}

// Factory returns a provider.Factory that creates diart Provider
// instances from a generic config map.
func Factory() provider.Factory[diarization.Provider] {
	return func(cfg map[string]any) (diarization.Provider, error) {
		dc := Config{}
		if v, ok := cfg["base_url"].(string); ok {
			dc.BaseURL = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			dc.Timeout = v
		}
		return NewProvider(dc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the diart sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.client.Healthy(ctx)
}

// Diarize sends one audio window to the diart sidecar and returns speaker turns.
func (p *Provider) Diarize(ctx context.Context, req diarization.Request) (*diarization.Response, error) {
	if len(req.Audio) == 0 {
		return nil, errors.InvalidInput("audio", "empty audio window")
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/diarize",
		Body: &httpclient.MultipartBody{
			Fields: tuningFields(req.Tuning),
			Files: []httpclient.FileField{
				{FieldName: "audio", FileName: "window.wav", ContentType: "audio/wav", Data: req.Audio},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	var result diartResponse
	if err := resp.JSON(&result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, errors.ExternalServiceError(ProviderName, fmt.Errorf("%s", result.Error))
	}
	return toResponse(&result), nil
}

func tuningFields(t diarization.Tuning) map[string]string {
	fields := make(map[string]string)
	put := func(field string, v float64) {
		if v > 0 {
			fields[field] = fmt.Sprintf("%g", v)
		}
	}
	put("duration", t.WindowDuration)
	put("step", t.Step)
	put("latency", t.Latency)
	put("tau_active", t.TauActive)
	put("rho_update", t.RhoUpdate)
	put("delta_new", t.DeltaNew)
	return fields
}

// --- internal diart API types ---

type diartResponse struct {
	Segments    []diartSegment `json:"segments"`
	NumSpeakers int            `json:"num_speakers"`
	Error       string         `json:"error,omitempty"`
}

type diartSegment struct {
	SpeakerID string  `json:"speaker_id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

func toResponse(resp *diartResponse) *diarization.Response {
	out := &diarization.Response{NumSpeakers: resp.NumSpeakers}
	for _, seg := range resp.Segments {
		out.Annotation.Turns = append(out.Annotation.Turns, diarization.Turn{
			Speaker: seg.SpeakerID,
			Start:   seg.StartTime,
			End:     seg.EndTime,
		})
	}
	out.Annotation.Sort()
	return out
}
