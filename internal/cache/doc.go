// Package cache persists transcripts in SQLite so a re-run on byte-identical
// media skips model load and transcription.
//
// Entries are keyed by the source content hash together with every setting
// that changes recognition output (engine, model, language hint, fp16).
// Renaming or moving a file therefore still hits; re-encoding it does not.
package cache
