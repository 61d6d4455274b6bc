// Package audio provides waveform plumbing for the captioning pipeline:
// the Chunk type, a PCM16 WAV codec, chunk sources (WAV files and ffmpeg
// decode/capture), and sliding-window re-chunking.
//
// All audio is mono float32 in [-1, 1]. Chunk start offsets are seconds
// from the beginning of the stream and are non-decreasing within a source.
package audio
