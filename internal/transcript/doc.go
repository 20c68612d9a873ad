// Package transcript holds the timed transcription result produced by an
// engine and renders it as SRT, WebVTT, and TSV caption files.
//
// A Transcript is engine-neutral: both the stable-ts and WhisperX engines
// decode their JSON output into it, and the transcript cache stores it
// verbatim. Exports write atomically so a failed export never leaves a
// truncated file behind.
package transcript
