package engine

import (
	"context"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"captiongen/internal/logging"
	"captiongen/internal/transcript"
)

//go:embed scripts/stablets_load.py
var stableTSLoadScript string

//go:embed scripts/stablets_transcribe.py
var stableTSTranscribeScript string

// StableTS loads openai-whisper checkpoints through stable-ts.
type StableTS struct {
	settings settings
}

// Load downloads (on first use) and verifies the named checkpoint.
func (s *StableTS) Load(ctx context.Context, model string) (Model, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, fmt.Errorf("stable-ts: model name required")
	}
	args := append(s.settings.indexArgs(),
		"--from", stableTSPackage,
		"python", "-c", stableTSLoadScript,
		model,
		"--device", s.settings.device,
	)
	start := time.Now()
	if err := s.settings.runner(ctx, s.settings.uvx, args...); err != nil {
		return nil, fmt.Errorf("stable-ts load %s: %w", model, err)
	}
	s.settings.logger.Info("model loaded",
		logging.String(logging.FieldEventType, "model_loaded"),
		logging.String(logging.FieldEngine, "stable-ts"),
		logging.String(logging.FieldModel, model),
		logging.Duration("elapsed", time.Since(start)),
	)
	return &stableTSModel{name: model, settings: s.settings}, nil
}

type stableTSModel struct {
	name     string
	settings settings
}

func (m *stableTSModel) Name() string { return m.name }

func (m *stableTSModel) Transcribe(ctx context.Context, source string, opts Options) (*transcript.Transcript, error) {
	if strings.TrimSpace(opts.WorkDir) == "" {
		return nil, fmt.Errorf("stable-ts: work dir required")
	}
	output := filepath.Join(opts.WorkDir, transcriptFileName)
	args := append(m.settings.indexArgs(),
		"--from", stableTSPackage,
		"python", "-c", stableTSTranscribeScript,
		source,
		output,
		"--model", m.name,
		"--device", m.settings.device,
	)
	if opts.FP16 {
		args = append(args, "--fp16")
	}
	if lang := strings.TrimSpace(opts.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	if err := m.settings.runner(ctx, m.settings.uvx, args...); err != nil {
		return nil, fmt.Errorf("stable-ts transcribe: %w", err)
	}
	result, err := transcript.Load(output)
	if err != nil {
		return nil, fmt.Errorf("stable-ts transcript: %w", err)
	}
	return result, nil
}
