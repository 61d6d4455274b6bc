// Package captioner wires the captioning pipeline together: a stream of
// audio chunks is windowed, each window diarized, the diarized windows
// batched and merged, each merged batch transcribed, and the transcript
// segments attributed to speakers and emitted as captions.
//
// The pipeline is pull-based and single-threaded end to end, which keeps
// the rolling transcription prompt and the stream position as plain
// struct fields.
package captioner
