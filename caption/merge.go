package caption

import (
	"fmt"

	"github.com/Gaelhpalmer/diarized-stt/audio"
	"github.com/Gaelhpalmer/diarized-stt/diarization"
)

// Pair couples a diarization annotation with the waveform it describes.
// The annotation is in absolute stream time; the chunk's Start matches.
type Pair struct {
	Annotation diarization.Annotation
	Audio      audio.Chunk
}

// Merge folds a batch of pairs into a single pair: annotations are unioned
// and same-speaker turns within collar seconds of each other merged, the
// waveforms concatenated in order. Pairs must be contiguous and in order.
func Merge(pairs []Pair, collar float64) (Pair, error) {
	if len(pairs) == 0 {
		return Pair{}, fmt.Errorf("caption: merge of zero pairs")
	}

	ann := pairs[0].Annotation
	chunks := make([]audio.Chunk, len(pairs))
	chunks[0] = pairs[0].Audio
	for i, p := range pairs[1:] {
		ann = ann.Union(p.Annotation)
		chunks[i+1] = p.Audio
	}

	merged, err := audio.Concat(chunks)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		Annotation: ann.Support(collar),
		Audio:      merged,
	}, nil
}
