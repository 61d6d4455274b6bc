package audio

import (
	"context"
	"time"

	"github.com/Gaelhpalmer/diarized-stt/pipeline"
)

// SlidingWindows re-chunks a chunk stream into fixed-duration windows that
// advance by step. Every emitted window has exactly the window duration;
// a trailing partial window is dropped since the models need full windows.
//
// Window start offsets are non-decreasing and spaced exactly step apart.
func SlidingWindows(p *pipeline.Pipeline[Chunk], window, step time.Duration) *pipeline.Pipeline[Chunk] {
	return pipeline.FromFunc(func(ctx context.Context) pipeline.Iterator[Chunk] {
		return &windowIter{
			source: p.Iter(ctx),
			window: window,
			step:   step,
		}
	})
}

type windowIter struct {
	source pipeline.Iterator[Chunk]
	window time.Duration
	step   time.Duration

	rate          int
	windowSamples int
	stepSamples   int

	buf       []float32
	bufStart  int64 // absolute index of buf[0]
	nextStart int64 // absolute index of the next window's first sample
	done      bool
}

func (it *windowIter) Next(ctx context.Context) (Chunk, bool, error) {
	if it.done {
		return Chunk{}, false, nil
	}

	for {
		if it.rate != 0 && it.have() >= it.windowSamples {
			return it.emit(), true, nil
		}

		chunk, ok, err := it.source.Next(ctx)
		if err != nil {
			return Chunk{}, false, err
		}
		if !ok {
			// Source exhausted; the partial tail (if any) is dropped.
			it.done = true
			return Chunk{}, false, nil
		}

		if it.rate == 0 {
			it.rate = chunk.SampleRate
			it.windowSamples = samplesFor(it.window, it.rate)
			it.stepSamples = samplesFor(it.step, it.rate)
			if it.stepSamples < 1 {
				it.stepSamples = 1
			}
		}
		it.buf = append(it.buf, chunk.Samples...)
	}
}

// have returns how many samples are buffered from nextStart onward.
func (it *windowIter) have() int {
	return int(it.bufStart + int64(len(it.buf)) - it.nextStart)
}

func (it *windowIter) emit() Chunk {
	off := int(it.nextStart - it.bufStart)
	samples := make([]float32, it.windowSamples)
	copy(samples, it.buf[off:off+it.windowSamples])

	out := Chunk{
		Samples:    samples,
		Start:      float64(it.nextStart) / float64(it.rate),
		SampleRate: it.rate,
	}

	it.nextStart += int64(it.stepSamples)

	// Drop samples no future window can reach.
	if drop := int(it.nextStart - it.bufStart); drop > 0 {
		if drop > len(it.buf) {
			drop = len(it.buf)
		}
		it.buf = it.buf[drop:]
		it.bufStart += int64(drop)
	}

	return out
}

func (it *windowIter) Close() error { return it.source.Close() }

func samplesFor(d time.Duration, rate int) int {
	return int(d.Seconds() * float64(rate))
}
