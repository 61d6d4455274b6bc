package transcription

import (
	"context"

	"github.com/Gaelhpalmer/diarized-stt/provider"
)

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Transcribe sends audio for transcription and returns the result.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// NewRegistry creates a new provider registry for transcription providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
