package transcription

// Request holds parameters for a transcription call.
type Request struct {
	// Audio is the audio to transcribe, as a PCM16 WAV file.
	Audio []byte `json:"-"`
	// Prompt is conditioning text carried over from earlier audio.
	Prompt string `json:"prompt,omitempty"`
	// Language is the expected language of the audio (e.g. "en").
	Language string `json:"language,omitempty"`
	// Model is the transcription model to use.
	Model string `json:"model,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// Segments contains time-aligned transcript segments.
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
// Times are relative to the submitted audio, in seconds.
type Segment struct {
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
	// Words contains word-level timestamps, if the backend provides them.
	Words []Word `json:"words,omitempty"`
}

// Word is a single word with its timestamps.
type Word struct {
	// Start is the word start time in seconds.
	Start float64 `json:"start"`
	// End is the word end time in seconds.
	End float64 `json:"end"`
	// Text is the word itself.
	Text string `json:"text"`
}
