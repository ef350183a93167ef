// Package errs defines the error types the request router understands.
//
// Client-input problems (missing userId, unsupported method, invalid
// payloads) are modeled as *HTTPError so the router can answer with their
// status. Anything else reaching the router is treated as an internal failure.
package errs
