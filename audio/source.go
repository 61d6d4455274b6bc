package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/Gaelhpalmer/diarized-stt/pipeline"
	"github.com/Gaelhpalmer/diarized-stt/process"
)

// SourceConfig configures a chunk source.
type SourceConfig struct {
	// SampleRate is the target rate chunks are emitted at.
	SampleRate int
	// ChunkSamples is the number of samples per emitted chunk.
	ChunkSamples int
}

func (c *SourceConfig) applyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.ChunkSamples == 0 {
		c.ChunkSamples = c.SampleRate / 2 // 500ms
	}
}

// FileSource streams a PCM16 WAV file as fixed-size chunks, reading frames
// incrementally rather than loading the file into memory.
// The file's own sample rate is kept; cfg.SampleRate must match it or be zero.
func FileSource(path string, cfg SourceConfig) *pipeline.Pipeline[Chunk] {
	cfg.applyDefaults()
	return pipeline.FromFunc(func(_ context.Context) pipeline.Iterator[Chunk] {
		f, err := os.Open(path)
		if err != nil {
			return &failedIter{err: fmt.Errorf("audio: open %s: %w", path, err)}
		}
		format, err := readWAVFormat(f)
		if err != nil {
			f.Close() //nolint:errcheck
			return &failedIter{err: err}
		}
		return &wavIter{
			r:            io.LimitReader(f, int64(format.dataLen)),
			closer:       f,
			format:       format,
			chunkSamples: cfg.ChunkSamples,
		}
	})
}

// FFmpegSource decodes any media file to mono PCM chunks using an ffmpeg
// subprocess. Works for formats the WAV decoder does not handle.
func FFmpegSource(path string, cfg SourceConfig) *pipeline.Pipeline[Chunk] {
	cfg.applyDefaults()
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-f", "s16le", "-acodec", "pcm_s16le",
		"-ac", "1", "-ar", fmt.Sprintf("%d", cfg.SampleRate),
		"-",
	}
	return streamSource(args, cfg)
}

// MicSource captures a microphone device via ffmpeg. The device string is
// platform specific (e.g. "default" for alsa/pulse, ":0" for avfoundation).
func MicSource(device string, cfg SourceConfig) *pipeline.Pipeline[Chunk] {
	cfg.applyDefaults()
	if device == "" {
		device = "default"
	}
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", captureFormat(),
		"-i", device,
		"-f", "s16le", "-acodec", "pcm_s16le",
		"-ac", "1", "-ar", fmt.Sprintf("%d", cfg.SampleRate),
		"-",
	}
	return streamSource(args, cfg)
}

// FFmpegVersion runs `ffmpeg -version` and returns the first line of its
// banner. Sources that shell out to ffmpeg call this at startup so a
// missing install fails fast instead of surfacing mid-stream.
func FFmpegVersion(ctx context.Context) (string, error) {
	res, err := process.Run(ctx, process.Command{
		Binary: "ffmpeg",
		Args:   []string{"-version"},
	})
	if err != nil {
		return "", fmt.Errorf("audio: ffmpeg not available: %w", err)
	}
	line, _, _ := strings.Cut(string(res.Stdout), "\n")
	return strings.TrimSpace(line), nil
}

func captureFormat() string {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	default:
		return "alsa"
	}
}

func streamSource(args []string, cfg SourceConfig) *pipeline.Pipeline[Chunk] {
	return pipeline.FromFunc(func(ctx context.Context) pipeline.Iterator[Chunk] {
		handle, err := process.Stream(ctx, process.Command{
			Binary: "ffmpeg",
			Args:   args,
		})
		if err != nil {
			return &failedIter{err: err}
		}
		return &pcmIter{
			r:            handle,
			closer:       handle,
			sampleRate:   cfg.SampleRate,
			chunkSamples: cfg.ChunkSamples,
		}
	})
}

// --- iterators ---

// failedIter surfaces a construction error on the first Next call.
type failedIter struct {
	err error
}

func (it *failedIter) Next(_ context.Context) (Chunk, bool, error) {
	return Chunk{}, false, it.err
}

func (it *failedIter) Close() error { return nil }

// wavIter reads interleaved PCM frames from an open WAV file in fixed-size
// batches, downmixing to mono as it goes.
type wavIter struct {
	r            io.Reader
	closer       io.Closer
	format       wavFormat
	chunkSamples int
	read         int64 // mono frames emitted so far
}

func (it *wavIter) Next(ctx context.Context) (Chunk, bool, error) {
	if err := ctx.Err(); err != nil {
		return Chunk{}, false, err
	}

	buf := make([]byte, it.chunkSamples*it.format.frameBytes())
	n, err := io.ReadFull(it.r, buf)
	if n == 0 {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Chunk{}, false, nil
		}
		return Chunk{}, false, err
	}
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Chunk{}, false, err
	}

	samples := downmixPCM16(buf[:n], it.format.channels)
	chunk := Chunk{
		Samples:    samples,
		Start:      float64(it.read) / float64(it.format.rate),
		SampleRate: it.format.rate,
	}
	it.read += int64(len(samples))
	return chunk, true, nil
}

func (it *wavIter) Close() error { return it.closer.Close() }

// pcmIter reads raw s16le mono PCM from a stream in fixed-size chunks.
type pcmIter struct {
	r            io.Reader
	closer       io.Closer
	sampleRate   int
	chunkSamples int
	read         int64
}

func (it *pcmIter) Next(ctx context.Context) (Chunk, bool, error) {
	if err := ctx.Err(); err != nil {
		return Chunk{}, false, err
	}

	buf := make([]byte, it.chunkSamples*2)
	n, err := io.ReadFull(it.r, buf)
	if n == 0 {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Chunk{}, false, nil
		}
		return Chunk{}, false, err
	}
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Chunk{}, false, err
	}

	frames := n / 2
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		v := int16(binary.LittleEndian.Uint16(buf[i*2 : i*2+2]))
		samples[i] = float32(v) / 32768
	}

	chunk := Chunk{
		Samples:    samples,
		Start:      float64(it.read) / float64(it.sampleRate),
		SampleRate: it.sampleRate,
	}
	it.read += int64(frames)
	return chunk, true, nil
}

func (it *pcmIter) Close() error {
	if it.closer != nil {
		return it.closer.Close()
	}
	return nil
}
