package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"captiongen/internal/config"
	"captiongen/internal/logging"
	"captiongen/internal/transcript"
)

// Options tunes a single transcription call.
type Options struct {
	// Language is an ISO 639-1 hint. Empty lets the model detect it.
	Language string
	// FP16 enables half precision inference. Only meaningful on CUDA.
	FP16 bool
	// WorkDir receives intermediate files. It must exist.
	WorkDir string
}

// Loader prepares a named model for transcription.
type Loader interface {
	Load(ctx context.Context, model string) (Model, error)
}

// Model transcribes media files with an already loaded model.
type Model interface {
	Name() string
	Transcribe(ctx context.Context, source string, opts Options) (*transcript.Transcript, error)
}

// New returns the Loader selected by transcription.engine.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (Loader, error) {
	settings := settings{
		uvx:     cfg.UVXBinary(),
		ffmpeg:  cfg.FFmpegBinary(),
		device:  cfg.Transcription.Device,
		hfToken: cfg.Transcription.HFToken,
		logger:  logging.NewComponentLogger(logger, "engine"),
	}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.runner == nil {
		settings.runner = newExecRunner(settings.logger)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Transcription.Engine)) {
	case config.EngineStableTS, "":
		return &StableTS{settings: settings}, nil
	case config.EngineWhisperX:
		return &WhisperX{settings: settings}, nil
	default:
		return nil, fmt.Errorf("unknown transcription engine %q", cfg.Transcription.Engine)
	}
}

// Option customizes engine construction.
type Option func(*settings)

// WithCommandRunner replaces subprocess execution (for testing).
func WithCommandRunner(runner CommandRunner) Option {
	return func(s *settings) {
		s.runner = runner
	}
}

type settings struct {
	uvx     string
	ffmpeg  string
	device  string
	hfToken string
	logger  *slog.Logger
	runner  CommandRunner
}

func (s settings) cuda() bool {
	return s.device == config.DeviceCUDA
}

// indexArgs selects the PyTorch wheel index. CUDA builds come from the
// PyTorch index with PyPI as fallback for everything else.
func (s settings) indexArgs() []string {
	if s.cuda() {
		return []string{"--index-url", cudaIndexURL, "--extra-index-url", pypiIndexURL}
	}
	return []string{"--index-url", pypiIndexURL}
}
