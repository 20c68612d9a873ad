package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"captiongen/internal/config"
)

func TestConsoleHandlerLiftsRunFieldsIntoHeader(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(slog.New(newConsoleHandler(&buf, slog.LevelInfo, false)), "captions").
		With(FieldRunID, "1a2b3c4d-0000-4000-8000-000000000000", FieldStage, "transcribe")

	logger.Info("transcription finished",
		String(FieldEngine, "stable-ts"),
		String(FieldModel, "base"),
		Int("segments", 12),
		Float64(FieldDurationSec, 63),
	)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one field line, got %q", buf.String())
	}
	if !strings.HasSuffix(lines[0], "INFO  [captions/transcribe] transcription finished (stable-ts:base run 1a2b3c4d)") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != `    segments=12 duration_seconds="1m 03s"` {
		t.Fatalf("unexpected fields %q", lines[1])
	}
	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("caller must be omitted at info level: %q", buf.String())
	}
}

func TestConsoleHandlerGivesHintAndImpactOwnLines(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, slog.LevelInfo, false))

	WarnWithContext(logger, "source has no audio streams", "no_audio_streams",
		String(FieldErrorHint, "check that the file contains an audio track"),
	)

	out := buf.String()
	for _, want := range []string{
		"WARN  source has no audio streams\n",
		"    event_type=no_audio_streams\n",
		"    hint: check that the file contains an audio track\n",
		"    impact: " + defaultWarnImpact + "\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConsoleHandlerDebugListsFieldsWithCaller(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, slog.LevelDebug, true))

	logger.WithGroup("media").Debug("media inspected", "path", "/media/my video.mp4", "streams", 2)

	out := buf.String()
	if !strings.Contains(out, " @console_handler_test.go:") {
		t.Fatalf("expected caller in debug header, got %q", out)
	}
	for _, want := range []string{
		"DEBUG media inspected",
		"    media.path=\"/media/my video.mp4\"\n",
		"    media.streams=2\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConsoleHandlerLaterAttrsWin(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(slog.New(newConsoleHandler(&buf, slog.LevelInfo, false)), "cli")
	NewComponentLogger(logger, "engine").Info("model loaded", String(FieldModel, "base"))

	if !strings.Contains(buf.String(), "[engine] model loaded (model base)") {
		t.Fatalf("expected innermost component, got %q", buf.String())
	}
}

func TestConsoleForSelectsFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	h, err := consoleFor(&buf, config.Logging{Format: "json", Level: "warn"})
	if err != nil {
		t.Fatalf("consoleFor: %v", err)
	}
	logger := slog.New(h)
	logger.Info("hidden")
	logger.Warn("shown", String("k", "v"))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "shown" || entry["level"] != "warn" || entry["k"] != "v" {
		t.Fatalf("unexpected entry %v", entry)
	}

	if _, err := consoleFor(&buf, config.Logging{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestRunLogNameIsUniquePerRun(t *testing.T) {
	ts := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	name := runLogName(ts, 4242)
	if name != "captiongen-20261019T120000.000-4242.log" {
		t.Fatalf("unexpected name %q", name)
	}
	if ok, _ := filepath.Match(LogFilePattern, name); !ok {
		t.Fatalf("%q does not match %q", name, LogFilePattern)
	}
	seen := map[string]bool{name: true}
	for _, other := range []string{
		runLogName(ts.Add(time.Millisecond), 4242),
		runLogName(ts, 4243),
	} {
		if seen[other] {
			t.Fatalf("duplicate run log name %q", other)
		}
		seen[other] = true
	}
}
