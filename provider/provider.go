package provider

import "context"

// Provider is implemented by every pluggable speech backend.
type Provider interface {
	// Name identifies the backend, e.g. "diart" or "whisper".
	Name() string
	// IsAvailable reports whether the backend can take requests right now.
	// Used as a startup ping, not a guarantee.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a configured backend instance.
type Factory[T Provider] func(cfg map[string]any) (T, error)
