package diarization

import (
	"math"
	"testing"
)

func turnsEqual(a, b []Turn) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Speaker != b[i].Speaker ||
			math.Abs(a[i].Start-b[i].Start) > 1e-9 ||
			math.Abs(a[i].End-b[i].End) > 1e-9 {
			return false
		}
	}
	return true
}

func TestAnnotation_Crop(t *testing.T) {
	ann := Annotation{Turns: []Turn{
		{Speaker: "speaker0", Start: 0, End: 2},
		{Speaker: "speaker1", Start: 1.5, End: 4},
		{Speaker: "speaker0", Start: 5, End: 6},
	}}

	got := ann.Crop(1, 3)
	want := []Turn{
		{Speaker: "speaker0", Start: 1, End: 2},
		{Speaker: "speaker1", Start: 1.5, End: 3},
	}
	if !turnsEqual(got.Turns, want) {
		t.Errorf("got %v, want %v", got.Turns, want)
	}
}

func TestAnnotation_CropEmpty(t *testing.T) {
	ann := Annotation{Turns: []Turn{{Speaker: "speaker0", Start: 0, End: 1}}}
	if got := ann.Crop(2, 3); !got.IsEmpty() {
		t.Errorf("expected empty crop, got %v", got.Turns)
	}
}

func TestAnnotation_Shift(t *testing.T) {
	ann := Annotation{Turns: []Turn{{Speaker: "speaker0", Start: 1, End: 2}}}
	got := ann.Shift(10)
	if got.Turns[0].Start != 11 || got.Turns[0].End != 12 {
		t.Errorf("got %v", got.Turns[0])
	}
	// Original untouched.
	if ann.Turns[0].Start != 1 {
		t.Error("Shift mutated the receiver")
	}
}

func TestAnnotation_Support_MergesWithinCollar(t *testing.T) {
	ann := Annotation{Turns: []Turn{
		{Speaker: "speaker0", Start: 0, End: 1},
		{Speaker: "speaker0", Start: 1.03, End: 2},
		{Speaker: "speaker1", Start: 0.5, End: 1.5},
	}}

	got := ann.Support(0.05)
	want := []Turn{
		{Speaker: "speaker0", Start: 0, End: 2},
		{Speaker: "speaker1", Start: 0.5, End: 1.5},
	}
	if !turnsEqual(got.Turns, want) {
		t.Errorf("got %v, want %v", got.Turns, want)
	}
}

func TestAnnotation_Support_KeepsGapsBeyondCollar(t *testing.T) {
	ann := Annotation{Turns: []Turn{
		{Speaker: "speaker0", Start: 0, End: 1},
		{Speaker: "speaker0", Start: 2, End: 3},
	}}
	got := ann.Support(0.5)
	if len(got.Turns) != 2 {
		t.Errorf("turns should not merge across a 1s gap with 0.5s collar: %v", got.Turns)
	}
}

func TestAnnotation_Support_Overlapping(t *testing.T) {
	ann := Annotation{Turns: []Turn{
		{Speaker: "speaker0", Start: 0, End: 2},
		{Speaker: "speaker0", Start: 1, End: 1.5},
	}}
	got := ann.Support(0)
	want := []Turn{{Speaker: "speaker0", Start: 0, End: 2}}
	if !turnsEqual(got.Turns, want) {
		t.Errorf("got %v, want %v", got.Turns, want)
	}
}

func TestAnnotation_Union(t *testing.T) {
	a := Annotation{Turns: []Turn{{Speaker: "speaker1", Start: 2, End: 3}}}
	b := Annotation{Turns: []Turn{{Speaker: "speaker0", Start: 0, End: 1}}}
	got := a.Union(b)
	if len(got.Turns) != 2 || got.Turns[0].Speaker != "speaker0" {
		t.Errorf("expected sorted union, got %v", got.Turns)
	}
}

func TestAnnotation_Speakers(t *testing.T) {
	ann := Annotation{Turns: []Turn{
		{Speaker: "speaker1", Start: 0, End: 1},
		{Speaker: "speaker0", Start: 1, End: 2},
		{Speaker: "speaker1", Start: 2, End: 3},
	}}
	got := ann.Speakers()
	if len(got) != 2 || got[0] != "speaker0" || got[1] != "speaker1" {
		t.Errorf("got %v", got)
	}
}

func TestAnnotation_SpeakerDurations(t *testing.T) {
	ann := Annotation{Turns: []Turn{
		{Speaker: "speaker0", Start: 0, End: 1},
		{Speaker: "speaker0", Start: 2, End: 2.5},
		{Speaker: "speaker1", Start: 0, End: 0.75},
	}}
	d := ann.SpeakerDurations()
	if math.Abs(d["speaker0"]-1.5) > 1e-9 {
		t.Errorf("speaker0 duration %v, want 1.5", d["speaker0"])
	}
	if math.Abs(d["speaker1"]-0.75) > 1e-9 {
		t.Errorf("speaker1 duration %v, want 0.75", d["speaker1"])
	}
}

func TestAnnotation_ArgMaxSpeaker(t *testing.T) {
	ann := Annotation{Turns: []Turn{
		{Speaker: "speaker1", Start: 0, End: 0.4},
		{Speaker: "speaker0", Start: 0.4, End: 2},
	}}
	got, ok := ann.ArgMaxSpeaker()
	if !ok || got != "speaker0" {
		t.Errorf("got %q ok=%v, want speaker0", got, ok)
	}
}

func TestAnnotation_ArgMaxSpeaker_TieFirstOccurrence(t *testing.T) {
	ann := Annotation{Turns: []Turn{
		{Speaker: "speaker1", Start: 0, End: 1},
		{Speaker: "speaker0", Start: 1, End: 2},
	}}
	got, ok := ann.ArgMaxSpeaker()
	if !ok || got != "speaker1" {
		t.Errorf("tie should go to first turn's speaker, got %q", got)
	}
}

func TestAnnotation_ArgMaxSpeaker_Empty(t *testing.T) {
	var ann Annotation
	if _, ok := ann.ArgMaxSpeaker(); ok {
		t.Error("expected ok=false for empty annotation")
	}
}

func TestAnnotation_Sort(t *testing.T) {
	ann := Annotation{Turns: []Turn{
		{Speaker: "speaker0", Start: 3, End: 4},
		{Speaker: "speaker1", Start: 0, End: 1},
	}}
	ann.Sort()
	if ann.Turns[0].Start != 0 {
		t.Errorf("not sorted: %v", ann.Turns)
	}
}
