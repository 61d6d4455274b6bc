// Package caption turns diarization annotations and transcript segments
// into speaker-attributed captions.
//
// Assign intersects each transcript segment's time range with the
// annotation and picks the speaker with the largest overlapping duration.
// Merge folds a batch of (annotation, waveform) pairs into one. Colorizer
// maps speaker indices onto a fixed terminal color palette.
package caption
