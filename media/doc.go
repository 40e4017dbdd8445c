// Package media demuxes the audio track from an uploaded video into the
// 16 kHz mono WAV the speech-to-text backends expect.
package media
