package caption

import (
	"strings"
	"testing"
)

func TestColorizer_Cycles(t *testing.T) {
	c := NewColorizerForced(true)
	for i := 0; i < 3*len(palette); i++ {
		want := palette[i%len(palette)]
		if got := c.ColorFor(i); got != want {
			t.Fatalf("speaker %d: got %q, want %q", i, got, want)
		}
	}
}

func TestColorizer_Deterministic(t *testing.T) {
	c := NewColorizerForced(true)
	if c.ColorFor(4) != c.ColorFor(4) {
		t.Error("mapping is not deterministic")
	}
	if c.ColorFor(0) != c.ColorFor(len(palette)) {
		t.Error("palette does not cycle with modulo")
	}
}

func TestColorizer_UnknownSpeakerUncolored(t *testing.T) {
	c := NewColorizerForced(true)
	if got := c.ColorFor(SpeakerUnknown); got != "" {
		t.Errorf("sentinel speaker got color %q", got)
	}
	line := c.Format(Caption{Speaker: SpeakerUnknown, Text: "who said this"})
	if strings.Contains(line, "\x1b[") {
		t.Errorf("unknown speaker line contains escapes: %q", line)
	}
	if !strings.Contains(line, "[speaker ?]") {
		t.Errorf("got %q", line)
	}
}

func TestColorizer_Disabled(t *testing.T) {
	c := NewColorizerForced(false)
	if got := c.ColorFor(2); got != "" {
		t.Errorf("disabled colorizer returned %q", got)
	}
	line := c.Format(Caption{Speaker: 2, Text: "plain"})
	if strings.Contains(line, "\x1b[") {
		t.Errorf("disabled colorizer emitted escapes: %q", line)
	}
}

func TestColorizer_FormatColored(t *testing.T) {
	c := NewColorizerForced(true)
	line := c.Format(Caption{Speaker: 1, Text: "hi"})
	if !strings.HasPrefix(line, palette[1]) || !strings.HasSuffix(line, colorReset) {
		t.Errorf("got %q", line)
	}
	if !strings.Contains(line, "[speaker 1] hi") {
		t.Errorf("got %q", line)
	}
}
