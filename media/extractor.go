package media

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kbukum/lecturekit/logger"
	"github.com/kbukum/lecturekit/process"
	"github.com/kbukum/lecturekit/provider"
)

// Extractor writes the audio track of videoPath to audioPath.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, videoPath, audioPath string) error

func (f ExtractorFunc) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	return f(ctx, videoPath, audioPath)
}

// Config configures the ffmpeg extractor.
type Config struct {
	// Binary is the ffmpeg executable. Defaults to "ffmpeg" on PATH.
	Binary     string        `yaml:"binary" mapstructure:"binary"`
	SampleRate int           `yaml:"sample_rate" mapstructure:"sample_rate"`
	Channels   int           `yaml:"channels" mapstructure:"channels"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`

	Resilience provider.ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
}

// ApplyDefaults fills in 16 kHz mono and a 10 minute timeout.
func (c *Config) ApplyDefaults() {
	if c.Binary == "" {
		c.Binary = "ffmpeg"
	}
	if c.SampleRate <= 0 {
		c.SampleRate = 16000
	}
	if c.Channels <= 0 {
		c.Channels = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Minute
	}
}

// FFmpeg extracts audio by running ffmpeg.
type FFmpeg struct {
	cfg    Config
	runner *process.Runner
}

var _ Extractor = (*FFmpeg)(nil)

// NewFFmpeg creates an extractor.
func NewFFmpeg(cfg Config, log *logger.Logger) *FFmpeg {
	cfg.ApplyDefaults()
	return &FFmpeg{
		cfg:    cfg,
		runner: process.NewRunner("ffmpeg", cfg.Resilience, logger.OrDefault(log, "media")),
	}
}

// Command returns the ffmpeg invocation for one extraction.
func (f *FFmpeg) Command(videoPath, audioPath string) process.Command {
	return process.Command{
		Binary: f.cfg.Binary,
		Args: []string{
			"-y", "-i", videoPath,
			"-vn",
			"-ac", strconv.Itoa(f.cfg.Channels),
			"-ar", strconv.Itoa(f.cfg.SampleRate),
			"-f", "wav",
			audioPath,
		},
	}
}

// ExtractAudio runs ffmpeg and checks that it produced a non-empty file.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	if _, err := f.runner.Run(ctx, f.Command(videoPath, audioPath)); err != nil {
		return fmt.Errorf("extract audio: %w", err)
	}
	info, err := os.Stat(audioPath)
	if err != nil {
		return fmt.Errorf("extract audio: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("extract audio: %s is empty", audioPath)
	}
	return nil
}

// Available reports whether the ffmpeg binary runs.
func (f *FFmpeg) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := process.Run(ctx, process.Command{Binary: f.cfg.Binary, Args: []string{"-version"}})
	return err == nil
}
