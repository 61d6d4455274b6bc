// Package pipeline provides a lazy, pull-based streaming pipeline.
//
// A Pipeline[T] is built from a source (From, FromSlice, FromFunc) and
// transformed with operators (Map, Filter, Tap, Batch). No work happens
// until values are pulled by a terminal (Drain, Collect, ForEach).
//
// Errors propagate up the pull chain: the first stage error terminates the
// run and surfaces from the terminal. This is the single error boundary of
// the captioning stream.
package pipeline
