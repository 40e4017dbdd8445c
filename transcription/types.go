package transcription

import "strings"

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is the audio file to transcribe.
	AudioPath string `json:"audio_path"`
	// Language is the expected language (e.g. "en"). Empty lets the model
	// detect it.
	Language string `json:"language,omitempty"`
	// Model overrides the backend's default model.
	Model string `json:"model,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
	Language string  `json:"language,omitempty"`
}

// Segment is a time-aligned span of transcribed speech. Start <= End.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the ordered list of segments for one recording.
type Transcript []Segment

// FullText joins the segment texts with single spaces.
func (t Transcript) FullText() string {
	return strings.Join(t.Texts(), " ")
}

// Texts returns the segment texts in order.
func (t Transcript) Texts() []string {
	texts := make([]string, len(t))
	for i, s := range t {
		texts[i] = s.Text
	}
	return texts
}

// Duration returns the end time of the last segment.
func (t Transcript) Duration() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].End
}

// NewTranscript trims segment text, drops segments with no text and clamps
// End so it is never before Start.
func NewTranscript(segments []Segment) Transcript {
	out := make(Transcript, 0, len(segments))
	for _, s := range segments {
		s.Text = strings.TrimSpace(s.Text)
		if s.Text == "" {
			continue
		}
		if s.End < s.Start {
			s.End = s.Start
		}
		out = append(out, s)
	}
	return out
}
