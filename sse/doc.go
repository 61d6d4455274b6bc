// Package sse provides Server-Sent Events (SSE) streaming of live captions.
//
// A Hub fans captions out to connected clients; slow clients drop events
// rather than stalling the pipeline.
package sse
