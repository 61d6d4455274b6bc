package caption

import (
	"strconv"
	"strings"

	"github.com/Gaelhpalmer/diarized-stt/diarization"
	"github.com/Gaelhpalmer/diarized-stt/transcription"
)

// SpeakerUnknown is the sentinel speaker index for segments where the
// diarization detected no active speaker.
const SpeakerUnknown = -1

// Caption is one speaker-attributed piece of transcript.
type Caption struct {
	// Speaker is the numeric speaker index, or SpeakerUnknown.
	Speaker int `json:"speaker"`
	// Text is the transcribed text.
	Text string `json:"text"`
	// Start is the absolute start time in seconds from stream start.
	Start float64 `json:"start"`
	// End is the absolute end time in seconds from stream start.
	End float64 `json:"end"`
}

// Assign attributes each transcript segment to a speaker.
//
// ann must be in absolute stream time; segment times are relative to the
// transcribed chunk, which started at chunkStart. For each segment the
// annotation is cropped to the segment's absolute range:
// zero active speakers yields SpeakerUnknown, one yields that speaker,
// several yield the one with the largest total active duration inside the
// segment (ties go to first occurrence in turn order).
func Assign(ann diarization.Annotation, chunkStart float64, segments []transcription.Segment) []Caption {
	captions := make([]Caption, 0, len(segments))
	for _, seg := range segments {
		start := chunkStart + seg.Start
		end := chunkStart + seg.End

		speaker := SpeakerUnknown
		if label, ok := ann.Crop(start, end).ArgMaxSpeaker(); ok {
			speaker = SpeakerIndex(label)
		}

		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		captions = append(captions, Caption{
			Speaker: speaker,
			Text:    text,
			Start:   start,
			End:     end,
		})
	}
	return captions
}

// SpeakerIndex extracts the numeric index from a diarization label such as
// "speaker0" or "SPEAKER_01". Labels without a trailing number map to
// SpeakerUnknown.
func SpeakerIndex(label string) int {
	i := len(label)
	for i > 0 && label[i-1] >= '0' && label[i-1] <= '9' {
		i--
	}
	if i == len(label) {
		return SpeakerUnknown
	}
	n, err := strconv.Atoi(label[i:])
	if err != nil {
		return SpeakerUnknown
	}
	return n
}
