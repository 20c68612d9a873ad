// Package engine runs Whisper speech recognition through uvx-managed Python
// environments and decodes the result into a transcript.Transcript.
//
// Two engines are available. stable-ts (the default) loads an openai-whisper
// checkpoint and produces word timestamps directly from the media file.
// WhisperX extracts a mono 16 kHz track with ffmpeg first and runs the
// faster-whisper pipeline with silero VAD.
//
// Loading and transcribing are separate steps so callers can tell a model
// download failure from a recognition failure. Every subprocess goes through
// a CommandRunner, which tests replace with a stub.
package engine
