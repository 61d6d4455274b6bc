package diarization

import (
	"context"

	"github.com/Gaelhpalmer/diarized-stt/provider"
)

// Request holds parameters for a diarization call.
type Request struct {
	// Audio is the window to diarize, as a PCM16 WAV file.
	Audio []byte `json:"-"`
	// Offset is the window's start time in seconds from stream start.
	// Returned turns are relative to the window; the caller shifts them.
	Offset float64 `json:"offset"`
	// Tuning carries the streaming diarization knobs. The sidecar owns
	// their semantics; they are passed through unvalidated.
	Tuning Tuning `json:"tuning"`
}

// Tuning holds the streaming diarization thresholds.
type Tuning struct {
	// WindowDuration is the sliding window length in seconds.
	WindowDuration float64 `json:"duration,omitempty" mapstructure:"duration"`
	// Step is the sliding window advance in seconds.
	Step float64 `json:"step,omitempty" mapstructure:"step"`
	// Latency trades accuracy for responsiveness, in seconds.
	Latency float64 `json:"latency,omitempty" mapstructure:"latency"`
	// TauActive is the speaker activity threshold.
	TauActive float64 `json:"tau_active,omitempty" mapstructure:"tau_active"`
	// RhoUpdate is the centroid update-rate threshold.
	RhoUpdate float64 `json:"rho_update,omitempty" mapstructure:"rho_update"`
	// DeltaNew is the new-speaker embedding distance threshold.
	DeltaNew float64 `json:"delta_new,omitempty" mapstructure:"delta_new"`
}

// Response holds the result of a diarization call.
type Response struct {
	// Annotation contains the speaker turns, relative to the window.
	Annotation Annotation `json:"annotation"`
	// NumSpeakers is the number of speakers detected so far.
	NumSpeakers int `json:"num_speakers"`
}

// Provider is the interface that diarization backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Diarize sends one audio window for speaker diarization.
	Diarize(ctx context.Context, req Request) (*Response, error)
}

// NewRegistry creates a new provider registry for diarization providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
