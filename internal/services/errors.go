package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUsage         = errors.New("usage error")
	ErrNotFound      = errors.New("not found")
	ErrModelLoad     = errors.New("model load error")
	ErrTranscription = errors.New("transcription error")
	ErrExport        = errors.New("export error")
	ErrConfiguration = errors.New("configuration error")
	ErrExternalTool  = errors.New("external tool error")
	ErrBusy          = errors.New("resource busy")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Hints returns the follow-up lines printed under a failure message, keyed by
// the marker carried in err. Most markers have none.
func Hints(err error) []string {
	switch {
	case errors.Is(err, ErrModelLoad):
		return []string{
			"This might be due to a network issue or missing model files.",
			"Please ensure you have an internet connection when running for the first time.",
		}
	case errors.Is(err, ErrBusy):
		return []string{"Wait for the other run to finish or remove the stale lock file."}
	default:
		return nil
	}
}

// Summary renders the headline printed for a failed run. The marker decides
// the wording so each failure class reads the same regardless of cause.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	cause := rootMessage(err)
	switch {
	case errors.Is(err, ErrModelLoad):
		return "Error loading the model: " + cause
	case errors.Is(err, ErrTranscription):
		return "An error occurred during transcription: " + cause
	case errors.Is(err, ErrExport):
		return "An error occurred while saving captions: " + cause
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUsage):
		return "Error: " + stripMarker(err.Error())
	default:
		return "Error: " + err.Error()
	}
}

// rootMessage drops the marker and detail prefix so summaries show the cause.
func rootMessage(err error) string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		if parts := joined.Unwrap(); len(parts) > 1 {
			return parts[len(parts)-1].Error()
		}
	}
	return err.Error()
}

func stripMarker(msg string) string {
	for _, marker := range []error{ErrNotFound, ErrUsage} {
		prefix := marker.Error() + ": "
		if idx := strings.Index(msg, prefix); idx >= 0 {
			return msg[idx+len(prefix):]
		}
	}
	return msg
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
