// Package provider defines the base interface and registry shared by all
// pluggable backends (diarization, transcription).
//
// Backends register a Factory under a name and the CLI creates the one
// selected in configuration through the Registry. Both sidecar clients
// (diart, faster-whisper) plug in this way.
package provider
