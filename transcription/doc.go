// Package transcription defines the transcription provider interface and
// common types for interacting with speech-to-text backends.
package transcription
