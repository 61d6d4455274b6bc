package main

import "testing"

func TestNeedsFFmpeg(t *testing.T) {
	cases := []struct {
		name string
		f    flags
		want bool
	}{
		{"wav file", flags{input: "meeting.wav"}, false},
		{"wav file upper", flags{input: "MEETING.WAV"}, false},
		{"mp3 file", flags{input: "meeting.mp3"}, true},
		{"mic device", flags{mic: "default"}, true},
		{"nothing", flags{}, false},
	}
	for _, tc := range cases {
		if got := needsFFmpeg(tc.f); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
