package diarization

import "sort"

// Turn is a single speaker-attributed time range, in seconds.
type Turn struct {
	// Speaker is the diarization model's label for this turn (e.g. "speaker0").
	Speaker string `json:"speaker"`
	// Start is the turn start time in seconds.
	Start float64 `json:"start"`
	// End is the turn end time in seconds.
	End float64 `json:"end"`
}

// Duration returns the turn length in seconds.
func (t Turn) Duration() float64 { return t.End - t.Start }

// Annotation is a set of speaker turns, ordered by start time.
// It is the "who spoke when" result for one stretch of audio.
type Annotation struct {
	Turns []Turn `json:"turns"`
}

// Sort orders turns by start time (then end, then speaker) in place.
func (a *Annotation) Sort() {
	sort.Slice(a.Turns, func(i, j int) bool {
		ti, tj := a.Turns[i], a.Turns[j]
		if ti.Start != tj.Start {
			return ti.Start < tj.Start
		}
		if ti.End != tj.End {
			return ti.End < tj.End
		}
		return ti.Speaker < tj.Speaker
	})
}

// IsEmpty reports whether the annotation contains no turns.
func (a Annotation) IsEmpty() bool { return len(a.Turns) == 0 }

// Crop returns the annotation intersected with [start, end].
// Turns partially inside the range are clipped; turns outside are dropped.
func (a Annotation) Crop(start, end float64) Annotation {
	var out Annotation
	for _, t := range a.Turns {
		s, e := t.Start, t.End
		if s < start {
			s = start
		}
		if e > end {
			e = end
		}
		if e > s {
			out.Turns = append(out.Turns, Turn{Speaker: t.Speaker, Start: s, End: e})
		}
	}
	return out
}

// Shift returns the annotation with all turn boundaries moved by offset.
func (a Annotation) Shift(offset float64) Annotation {
	out := Annotation{Turns: make([]Turn, len(a.Turns))}
	for i, t := range a.Turns {
		out.Turns[i] = Turn{Speaker: t.Speaker, Start: t.Start + offset, End: t.End + offset}
	}
	return out
}

// Union merges the turns of two annotations. The result is sorted.
func (a Annotation) Union(b Annotation) Annotation {
	out := Annotation{Turns: make([]Turn, 0, len(a.Turns)+len(b.Turns))}
	out.Turns = append(out.Turns, a.Turns...)
	out.Turns = append(out.Turns, b.Turns...)
	out.Sort()
	return out
}

// Support merges same-speaker turns whose gap is at most collar seconds.
// Overlapping turns of one speaker always merge. The result is sorted.
func (a Annotation) Support(collar float64) Annotation {
	bySpeaker := make(map[string][]Turn)
	for _, t := range a.Turns {
		bySpeaker[t.Speaker] = append(bySpeaker[t.Speaker], t)
	}

	var out Annotation
	for _, turns := range bySpeaker {
		sort.Slice(turns, func(i, j int) bool { return turns[i].Start < turns[j].Start })
		current := turns[0]
		for _, t := range turns[1:] {
			if t.Start-current.End <= collar {
				if t.End > current.End {
					current.End = t.End
				}
				continue
			}
			out.Turns = append(out.Turns, current)
			current = t
		}
		out.Turns = append(out.Turns, current)
	}
	out.Sort()
	return out
}

// Speakers returns the distinct speaker labels, sorted.
func (a Annotation) Speakers() []string {
	seen := make(map[string]struct{})
	for _, t := range a.Turns {
		seen[t.Speaker] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// SpeakerDurations returns total active duration per speaker label.
func (a Annotation) SpeakerDurations() map[string]float64 {
	out := make(map[string]float64)
	for _, t := range a.Turns {
		out[t.Speaker] += t.Duration()
	}
	return out
}

// ArgMaxSpeaker returns the speaker with the largest total active duration.
// Ties go to whichever tied speaker appears first in turn order. Returns
// ("", false) for an empty annotation.
func (a Annotation) ArgMaxSpeaker() (string, bool) {
	if a.IsEmpty() {
		return "", false
	}
	durations := a.SpeakerDurations()
	best := ""
	bestDur := -1.0
	for _, t := range a.Turns {
		if d := durations[t.Speaker]; d > bestDur {
			best = t.Speaker
			bestDur = d
		}
	}
	return best, true
}
