package sse

import (
	"encoding/json"

	"github.com/Gaelhpalmer/diarized-stt/caption"
)

// SSE event type constants.
const (
	// EventTypeConnected is sent when a client successfully connects.
	EventTypeConnected = "connected"

	// EventTypeCaption is sent for each speaker-attributed caption.
	EventTypeCaption = "caption"

	// EventTypeError is sent when the captioning stream fails.
	EventTypeError = "error"
)

// CaptionEvent is the wire form of one caption.
type CaptionEvent struct {
	Type    string  `json:"type"`
	Speaker int     `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// EncodeCaption serializes a caption as a CaptionEvent payload.
func EncodeCaption(c caption.Caption) []byte {
	data, _ := json.Marshal(CaptionEvent{
		Type:    EventTypeCaption,
		Speaker: c.Speaker,
		Text:    c.Text,
		Start:   c.Start,
		End:     c.End,
	})
	return data
}
