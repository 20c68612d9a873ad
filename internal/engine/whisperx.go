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

//go:embed scripts/whisperx_load.py
var whisperXLoadScript string

// WhisperX runs the faster-whisper based WhisperX pipeline.
type WhisperX struct {
	settings settings
}

// Load downloads (on first use) and verifies the named faster-whisper model.
func (w *WhisperX) Load(ctx context.Context, model string) (Model, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, fmt.Errorf("whisperx: model name required")
	}
	args := append(w.settings.indexArgs(),
		"--from", whisperXPackage,
		"python", "-c", whisperXLoadScript,
		model,
		"--device", w.settings.deviceName(),
		"--compute_type", w.settings.computeType(false),
	)
	start := time.Now()
	if err := w.settings.runner(ctx, w.settings.uvx, args...); err != nil {
		return nil, fmt.Errorf("whisperx load %s: %w", model, err)
	}
	w.settings.logger.Info("model loaded",
		logging.String(logging.FieldEventType, "model_loaded"),
		logging.String(logging.FieldEngine, "whisperx"),
		logging.String(logging.FieldModel, model),
		logging.Duration("elapsed", time.Since(start)),
	)
	return &whisperXModel{name: model, settings: w.settings}, nil
}

type whisperXModel struct {
	name     string
	settings settings
}

func (m *whisperXModel) Name() string { return m.name }

func (m *whisperXModel) Transcribe(ctx context.Context, source string, opts Options) (*transcript.Transcript, error) {
	if strings.TrimSpace(opts.WorkDir) == "" {
		return nil, fmt.Errorf("whisperx: work dir required")
	}
	audio := filepath.Join(opts.WorkDir, audioFileName)
	if err := m.settings.runner(ctx, m.settings.ffmpeg, extractAudioArgs(source, audio)...); err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}
	if err := m.settings.runner(ctx, m.settings.uvx, m.buildArgs(audio, opts)...); err != nil {
		return nil, fmt.Errorf("whisperx transcribe: %w", err)
	}
	output := filepath.Join(opts.WorkDir, strings.TrimSuffix(audioFileName, filepath.Ext(audioFileName))+".json")
	result, err := transcript.Load(output)
	if err != nil {
		return nil, fmt.Errorf("whisperx transcript: %w", err)
	}
	return result, nil
}

func (m *whisperXModel) buildArgs(audio string, opts Options) []string {
	args := make([]string, 0, 40)
	args = append(args, m.settings.indexArgs()...)
	args = append(args,
		whisperXPackage,
		audio,
		"--model", m.name,
		"--batch_size", whisperXBatchSize,
		"--output_dir", opts.WorkDir,
		"--output_format", "json",
		"--segment_resolution", whisperXSegmentRes,
		"--chunk_size", whisperXChunkSize,
		"--vad_method", whisperXVADMethod,
		"--vad_onset", whisperXVADOnset,
		"--vad_offset", whisperXVADOffset,
		"--beam_size", whisperXBeamSize,
		"--temperature", whisperXTemperature,
		"--device", m.settings.deviceName(),
		"--compute_type", m.settings.computeType(opts.FP16),
	)
	if lang := strings.TrimSpace(opts.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	if token := strings.TrimSpace(m.settings.hfToken); token != "" {
		args = append(args, "--hf_token", token)
	}
	return args
}

// extractAudioArgs builds the ffmpeg call producing a mono 16 kHz WAV of the
// first audio stream.
func extractAudioArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

func (s settings) deviceName() string {
	if s.cuda() {
		return cudaDevice
	}
	return cpuDevice
}

func (s settings) computeType(fp16 bool) string {
	if s.cuda() && fp16 {
		return cudaComputeType
	}
	return cpuComputeType
}
