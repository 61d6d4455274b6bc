package caption

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI foreground color codes cycled through for speakers.
var palette = []string{
	"\x1b[31m", // red
	"\x1b[32m", // green
	"\x1b[33m", // yellow
	"\x1b[34m", // blue
	"\x1b[35m", // magenta
	"\x1b[36m", // cyan
	"\x1b[91m", // bright red
	"\x1b[92m", // bright green
	"\x1b[93m", // bright yellow
	"\x1b[94m", // bright blue
}

const colorReset = "\x1b[0m"

// Colorizer renders captions with per-speaker terminal colors.
type Colorizer struct {
	enabled bool
}

// NewColorizer creates a colorizer. Color is disabled when noColor is set
// or stdout is not a terminal.
func NewColorizer(noColor bool) *Colorizer {
	return &Colorizer{
		enabled: !noColor && isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// NewColorizerForced creates a colorizer with color forced on or off,
// ignoring terminal detection.
func NewColorizerForced(enabled bool) *Colorizer {
	return &Colorizer{enabled: enabled}
}

// ColorFor returns the ANSI escape for a speaker index. The palette cycles
// with modulo arithmetic; the unknown speaker gets no color.
func (c *Colorizer) ColorFor(speaker int) string {
	if !c.enabled || speaker == SpeakerUnknown || speaker < 0 {
		return ""
	}
	return palette[speaker%len(palette)]
}

// Format renders a caption as a single terminal line.
func (c *Colorizer) Format(cpt Caption) string {
	label := "?"
	if cpt.Speaker != SpeakerUnknown {
		label = fmt.Sprintf("%d", cpt.Speaker)
	}
	color := c.ColorFor(cpt.Speaker)
	if color == "" {
		return fmt.Sprintf("[speaker %s] %s", label, cpt.Text)
	}
	return fmt.Sprintf("%s[speaker %s] %s%s", color, label, cpt.Text, colorReset)
}
