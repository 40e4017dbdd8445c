// Package errors provides the structured error type shared by every lecturekit
// package. An AppError carries a machine-readable code, an HTTP status, a
// retryable flag and a free-form details map; the "stage" detail records which
// pipeline step produced it.
package errors
