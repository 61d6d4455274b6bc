// Package diarization defines the provider interface and common types
// for interacting with streaming speaker-diarization backends.
//
// It follows the provider pattern with a pluggable registry for
// runtime-selectable backends.
//
// # Backends
//
//   - diarization/diart: diart-style streaming diarization sidecar
//
// # Usage
//
//	reg := diarization.NewRegistry()
//	reg.RegisterFactory(diart.ProviderName, diart.Factory())
//	p, err := reg.Create(diart.ProviderName, cfg)
//	ann, err := p.Diarize(ctx, req)
package diarization
