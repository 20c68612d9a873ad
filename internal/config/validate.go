package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Cache.RetentionDays < 0 {
		return errors.New("cache.retention_days must be zero or positive")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Engine {
	case EngineStableTS, EngineWhisperX:
	default:
		return fmt.Errorf("transcription.engine must be %q or %q, got %q", EngineStableTS, EngineWhisperX, c.Transcription.Engine)
	}
	switch c.Transcription.Device {
	case DeviceCPU, DeviceCUDA:
	default:
		return fmt.Errorf("transcription.device must be %q or %q, got %q", DeviceCPU, DeviceCUDA, c.Transcription.Device)
	}
	if c.Transcription.TimeoutMinutes < 0 {
		return errors.New("transcription.timeout_minutes must be zero or positive")
	}
	if c.Transcription.FP16 && c.Transcription.Device == DeviceCPU {
		return errors.New("transcription.fp16 requires transcription.device = \"cuda\"")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if len(c.Output.Formats) == 0 {
		return errors.New("output.formats must list at least one format")
	}
	for _, format := range c.Output.Formats {
		switch format {
		case FormatSRT, FormatVTT, FormatTSV:
		default:
			return fmt.Errorf("output.formats contains unsupported format %q (supported: %s)", format, strings.Join(DefaultFormats(), ", "))
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

// OrderedFormats returns the configured formats in write order (srt, vtt, tsv).
func (c *Config) OrderedFormats() []string {
	enabled := make(map[string]bool, len(c.Output.Formats))
	for _, format := range c.Output.Formats {
		enabled[format] = true
	}
	ordered := make([]string, 0, len(enabled))
	for _, format := range DefaultFormats() {
		if enabled[format] {
			ordered = append(ordered, format)
		}
	}
	return ordered
}
