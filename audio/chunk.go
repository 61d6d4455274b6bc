package audio

import (
	"fmt"
)

// DefaultSampleRate is the rate the sidecar models expect (whisper-style 16kHz mono).
const DefaultSampleRate = 16000

// Chunk is a contiguous run of mono audio samples with a time offset.
type Chunk struct {
	// Samples are mono float32 samples in [-1, 1].
	Samples []float32
	// Start is the offset of the first sample, in seconds from stream start.
	Start float64
	// SampleRate is the number of samples per second.
	SampleRate int
}

// Duration returns the chunk length in seconds.
func (c Chunk) Duration() float64 {
	if c.SampleRate == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// End returns the offset just past the last sample, in seconds.
func (c Chunk) End() float64 { return c.Start + c.Duration() }

// PadTo returns a chunk extended with trailing silence to exactly n samples.
// Chunks already at least n samples long are returned unchanged.
func (c Chunk) PadTo(n int) Chunk {
	if len(c.Samples) >= n {
		return c
	}
	padded := make([]float32, n)
	copy(padded, c.Samples)
	return Chunk{Samples: padded, Start: c.Start, SampleRate: c.SampleRate}
}

// TrimTo returns a chunk truncated to at most n samples.
func (c Chunk) TrimTo(n int) Chunk {
	if len(c.Samples) <= n {
		return c
	}
	return Chunk{Samples: c.Samples[:n], Start: c.Start, SampleRate: c.SampleRate}
}

// Concat joins chunks in order into one chunk. The result's sample count is
// the sum of the inputs' and its start offset is the first chunk's.
func Concat(chunks []Chunk) (Chunk, error) {
	if len(chunks) == 0 {
		return Chunk{}, fmt.Errorf("audio: concat of zero chunks")
	}
	rate := chunks[0].SampleRate
	total := 0
	for _, c := range chunks {
		if c.SampleRate != rate {
			return Chunk{}, fmt.Errorf("audio: mixed sample rates %d and %d", rate, c.SampleRate)
		}
		total += len(c.Samples)
	}
	samples := make([]float32, 0, total)
	for _, c := range chunks {
		samples = append(samples, c.Samples...)
	}
	return Chunk{Samples: samples, Start: chunks[0].Start, SampleRate: rate}, nil
}
