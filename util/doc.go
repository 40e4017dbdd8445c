// Package util holds small helpers shared by configuration and middleware:
// human-readable size parsing and secret masking for startup logs.
package util
