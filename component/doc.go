// Package component defines the lifecycle interfaces shared by lecturekit's
// long-lived services (the Redis connection and the HTTP server) and the
// registry that starts them in order and stops them in reverse.
//
// Lazy defers expensive setup, such as loading an ONNX model, until first use.
package component
