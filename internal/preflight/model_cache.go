package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"captiongen/internal/config"
)

// CheckModelCache reports whether the configured model weights are already
// on disk. A miss is informational: the first run downloads the model and
// needs network access.
func CheckModelCache(cfg *config.Config) Result {
	const name = "Model cache"
	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	path := ModelCachePath(cfg.Transcription.Engine, cfg.Transcription.Model)
	if path == "" {
		return Result{Name: name, Detail: "cache location unknown"}
	}
	if _, err := os.Stat(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s not cached; first run downloads it (network required)", cfg.Transcription.Model)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", cfg.Transcription.Model, path)}
}

// ModelCachePath returns where the engine stores downloaded weights for model.
func ModelCachePath(engine, model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return ""
	}
	cacheRoot := os.Getenv("XDG_CACHE_HOME")
	if cacheRoot == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		cacheRoot = filepath.Join(home, ".cache")
	}
	switch engine {
	case config.EngineWhisperX:
		hubRoot := filepath.Join(cacheRoot, "huggingface", "hub")
		if hfHome := os.Getenv("HF_HOME"); hfHome != "" {
			hubRoot = filepath.Join(hfHome, "hub")
		}
		return filepath.Join(hubRoot, "models--Systran--faster-whisper-"+model)
	default:
		if model == "turbo" {
			model = "large-v3-turbo"
		}
		return filepath.Join(cacheRoot, "whisper", model+".pt")
	}
}
