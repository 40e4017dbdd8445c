// Package transcription defines the speech-to-text backend interface and the
// transcript types shared by the pipeline, search and highlights.
//
// Backends register by name:
//
//   - transcription/whisper: faster-whisper HTTP sidecar
//   - transcription/openai: OpenAI whisper-1 with verbose JSON segments
//
// Usage:
//
//	import _ "github.com/kbukum/lecturekit/transcription/whisper"
//
//	p, err := transcription.New(transcription.Config{Provider: "whisper", URL: "http://localhost:8387"})
//	resp, err := p.Execute(ctx, transcription.Request{AudioPath: "audio.wav"})
//	transcript := transcription.NewTranscript(resp.Segments)
package transcription
