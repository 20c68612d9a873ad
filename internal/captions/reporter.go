package captions

import (
	"fmt"
	"io"
	"strings"

	"captiongen/internal/config"
)

// Reporter prints the user-facing progress lines of a run.
type Reporter interface {
	Progress(message string)
	Saved(format, path string)
}

const (
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// ConsoleReporter writes progress lines to w. Color wraps the confirmation
// lines in ANSI green and should only be set for terminals.
type ConsoleReporter struct {
	w     io.Writer
	color bool
}

// NewConsoleReporter returns a Reporter writing to w.
func NewConsoleReporter(w io.Writer, color bool) *ConsoleReporter {
	if w == nil {
		w = io.Discard
	}
	return &ConsoleReporter{w: w, color: color}
}

func (r *ConsoleReporter) Progress(message string) {
	fmt.Fprintln(r.w, message)
}

func (r *ConsoleReporter) Saved(format, path string) {
	line := SavedMessage(format, path)
	if r.color {
		line = ansiGreen + line + ansiReset
	}
	fmt.Fprintln(r.w, line)
}

// SavedMessage renders the confirmation printed after a successful export.
func SavedMessage(format, path string) string {
	switch format {
	case config.FormatTSV:
		return fmt.Sprintf("Successfully saved TSV data to: %s", path)
	default:
		return fmt.Sprintf("Successfully saved %s captions to: %s", strings.ToUpper(format), path)
	}
}

func loadingMessage() string {
	return "Loading the Whisper model... (This may take a moment on first run)"
}

func transcribingMessage(name string) string {
	return fmt.Sprintf("Starting transcription for '%s'. This will take some time...", name)
}
