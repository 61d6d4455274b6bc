// Package server is a small Gin-backed HTTP server used to expose the
// live caption feed. Start binds the listener before returning so the
// caller knows the port is ready; Stop shuts down gracefully.
package server
