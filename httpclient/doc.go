// Package httpclient is the HTTP client used to talk to the model
// sidecars. It covers exactly what those need: a base URL with a
// timeout, multipart form uploads, JSON response decoding, and error
// mapping onto the application error codes.
package httpclient
