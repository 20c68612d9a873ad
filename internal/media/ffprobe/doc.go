// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// captiongen uses it for best-effort diagnostics before transcription:
// duration, audio stream count, and tagged audio languages are logged so a
// silent or audio-less input is easy to spot in the run log.
package ffprobe
