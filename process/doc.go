// Package process runs external tools such as ffmpeg with context
// cancellation, process-group signalling and captured output.
package process
