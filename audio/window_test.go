package audio

import (
	"context"
	"testing"
	"time"

	"github.com/Gaelhpalmer/diarized-stt/pipeline"
)

// rampChunks builds chunks whose samples encode their absolute index,
// so window content can be checked exactly.
func rampChunks(total, perChunk, rate int) []Chunk {
	var chunks []Chunk
	for start := 0; start < total; start += perChunk {
		end := start + perChunk
		if end > total {
			end = total
		}
		samples := make([]float32, end-start)
		for i := range samples {
			samples[i] = float32(start + i)
		}
		chunks = append(chunks, Chunk{
			Samples:    samples,
			Start:      float64(start) / float64(rate),
			SampleRate: rate,
		})
	}
	return chunks
}

func TestSlidingWindows_FixedSizeAndStep(t *testing.T) {
	rate := 1000
	src := pipeline.FromSlice(rampChunks(3000, 250, rate))
	windows := SlidingWindows(src, time.Second, 500*time.Millisecond)

	got, err := pipeline.Collect(context.Background(), windows)
	if err != nil {
		t.Fatal(err)
	}
	// 3000 samples, window 1000, step 500: starts 0, 500, 1000, 1500, 2000.
	if len(got) != 5 {
		t.Fatalf("got %d windows, want 5", len(got))
	}
	for i, w := range got {
		if len(w.Samples) != 1000 {
			t.Errorf("window %d has %d samples, want 1000", i, len(w.Samples))
		}
		wantStart := float64(i) * 0.5
		if w.Start != wantStart {
			t.Errorf("window %d start %v, want %v", i, w.Start, wantStart)
		}
		// First sample should equal the absolute index of the window start.
		if w.Samples[0] != float32(i*500) {
			t.Errorf("window %d first sample %v, want %v", i, w.Samples[0], i*500)
		}
	}
}

func TestSlidingWindows_StartsNonDecreasing(t *testing.T) {
	rate := 1000
	src := pipeline.FromSlice(rampChunks(5000, 333, rate))
	windows := SlidingWindows(src, 2*time.Second, 100*time.Millisecond)

	got, err := pipeline.Collect(context.Background(), windows)
	if err != nil {
		t.Fatal(err)
	}
	prev := -1.0
	for _, w := range got {
		if w.Start < prev {
			t.Fatalf("window start went backwards: %v after %v", w.Start, prev)
		}
		prev = w.Start
	}
}

func TestSlidingWindows_DropsPartialTail(t *testing.T) {
	rate := 1000
	// 1400 samples, 1s windows stepping 1s: only one full window fits.
	src := pipeline.FromSlice(rampChunks(1400, 700, rate))
	windows := SlidingWindows(src, time.Second, time.Second)

	got, err := pipeline.Collect(context.Background(), windows)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d windows, want 1", len(got))
	}
}

func TestSlidingWindows_EmptySource(t *testing.T) {
	src := pipeline.FromSlice([]Chunk{})
	windows := SlidingWindows(src, time.Second, time.Second)
	got, err := pipeline.Collect(context.Background(), windows)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no windows, got %d", len(got))
	}
}

func TestFileSource_ChunksWholeFile(t *testing.T) {
	rate := 16000
	in := Chunk{Samples: make([]float32, 40000), SampleRate: rate}
	for i := range in.Samples {
		in.Samples[i] = float32(i%100) / 100
	}
	path := t.TempDir() + "/test.wav"
	if err := writeFile(path, EncodeWAV(in)); err != nil {
		t.Fatal(err)
	}

	src := FileSource(path, SourceConfig{SampleRate: rate, ChunkSamples: 16000})
	got, err := pipeline.Collect(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d chunks, want 3", len(got))
	}
	total := 0
	for _, c := range got {
		total += len(c.Samples)
	}
	if total != 40000 {
		t.Errorf("got %d samples total, want 40000", total)
	}
	if got[1].Start != 1.0 {
		t.Errorf("second chunk start %v, want 1.0", got[1].Start)
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	src := FileSource("/nonexistent/audio.wav", SourceConfig{})
	if _, err := pipeline.Collect(context.Background(), src); err == nil {
		t.Fatal("expected error for missing file")
	}
}
